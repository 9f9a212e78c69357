package engine

import (
	"fmt"
	"math"
)

// ============================================================================
// TABLE BUILDER — Produces TableData from QuerySpec + Groups
// ============================================================================

// BuildTable produces a TableData from a QuerySpec, groups, filtered view, and display unit.
func BuildTable(spec QuerySpec, groups []Group, view RecordView, measure string, unit string) *TableData {
	if spec.Aggregation == AggList {
		return buildListTable(spec, view, measure, unit)
	}
	return buildAggregatedTable(spec, groups, measure, unit)
}

// ============================================================================
// LIST TABLE — Row per record
// ============================================================================

// buildListTable emits one row per record. SortBy value_desc/value_asc orders
// rows by the measure, Limit keeps the first N.
func buildListTable(spec QuerySpec, view RecordView, measure string, unit string) *TableData {
	switch spec.SortBy {
	case SortValueDesc:
		view = SortView(view, measure, true)
	case SortValueAsc:
		view = SortView(view, measure, false)
	}
	view = LimitView(view, spec.Limit)

	if view.Len() == 0 {
		return &TableData{
			Title:   spec.Title,
			Columns: []Column{},
			Rows:    [][]string{},
		}
	}

	dimKeys := spec.Columns
	if len(dimKeys) == 0 {
		dimKeys = view.DimensionKeys()
	}
	columns := make([]Column, 0, len(dimKeys)+1)

	for _, key := range dimKeys {
		columns = append(columns, Column{
			Key:   key,
			Label: key,
			Type:  "text",
			Align: "left",
		})
	}

	columns = append(columns, Column{
		Key:   measure,
		Label: measure,
		Type:  "number",
		Align: "right",
	})

	rows := make([][]string, 0, view.Len())
	var total float64

	for i := 0; i < view.Len(); i++ {
		row := make([]string, 0, len(columns))
		for _, key := range dimKeys {
			row = append(row, view.Dimension(i, key))
		}
		val := view.Measure(i, measure)
		row = append(row, formatCell(val))
		rows = append(rows, row)
		if !math.IsNaN(val) {
			total += val
		}
	}

	return &TableData{
		Title:   spec.Title,
		Columns: columns,
		Rows:    rows,
		Summary: &Summary{
			Label: fmt.Sprintf("Total (%d records)", view.Len()),
			Values: map[string]string{
				measure: FormatCurrency(total, unit),
			},
		},
	}
}

// ============================================================================
// AGGREGATED TABLE — Summary rows
// ============================================================================

func buildAggregatedTable(spec QuerySpec, groups []Group, measure string, unit string) *TableData {
	if len(groups) == 0 {
		return &TableData{
			Title:   spec.Title,
			Columns: []Column{},
			Rows:    [][]string{},
		}
	}

	groupLabel := spec.XLabel
	if groupLabel == "" {
		groupLabel = "Group"
		if len(spec.GroupBy) > 0 {
			groupLabel = spec.GroupBy[0]
		}
	}
	valueLabel := spec.YLabel
	if valueLabel == "" {
		valueLabel = measure
		if spec.Aggregation == AggCount {
			valueLabel = "count"
		}
	}

	columns := []Column{
		{Key: "group", Label: groupLabel, Type: "text", Align: "left"},
		{Key: "value", Label: valueLabel, Type: "number", Align: "right"},
	}
	if spec.Aggregation != AggCount {
		columns = append(columns, Column{Key: "count", Label: "movies", Type: "number", Align: "right"})
	}

	rows := make([][]string, 0, len(groups))
	var totalValue float64
	var totalCount int

	for _, g := range groups {
		row := []string{g.Label}
		if spec.Aggregation == AggCount {
			row = append(row, fmt.Sprintf("%d", g.Count))
		} else {
			row = append(row, formatCell(g.Value), fmt.Sprintf("%d", g.Count))
		}
		rows = append(rows, row)
		if !math.IsNaN(g.Value) {
			totalValue += g.Value
		}
		totalCount += g.Count
	}

	summary := &Summary{
		Label:  "Total",
		Values: map[string]string{"count": fmt.Sprintf("%d", totalCount)},
	}
	if spec.Aggregation == AggSum {
		summary.Values["value"] = FormatCurrency(totalValue, unit)
	}

	return &TableData{
		Title:   spec.Title,
		Columns: columns,
		Rows:    rows,
		Summary: summary,
	}
}

// formatCell prints a measure with two decimals, or NaN when missing.
func formatCell(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.2f", v)
}
