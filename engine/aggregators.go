package engine

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ============================================================================
// AGGREGATORS — Grouping, Aggregation, and Sorting via RecordView
// ============================================================================
// Grouping produces SubViews (index lists into parent view).
// Missing measure values (NaN) are skipped by every aggregation.
// ============================================================================

// GroupAndAggregate is the main entry point for the aggregation pipeline.
// Pipeline: group → aggregate → sort → limit.
func GroupAndAggregate(
	view RecordView,
	groupBy []string,
	measure string,
	aggregation string,
	sortBy string,
	limit int,
) []Group {
	if view.Len() == 0 {
		return nil
	}

	// 1. Group
	var groups []Group
	switch len(groupBy) {
	case 0:
		groups = []Group{{
			Key:   "all",
			Label: "Total",
			View:  view,
		}}
	case 1:
		groups = groupBySingle(view, groupBy[0])
	default:
		groups = groupByMulti(view, groupBy)
	}

	// 2. Aggregate
	for i := range groups {
		aggregateGroup(&groups[i], measure, aggregation)
		for j := range groups[i].SubGroups {
			aggregateGroup(&groups[i].SubGroups[j], measure, aggregation)
		}
	}

	// 3. Sort
	SortGroups(groups, sortBy)

	// 4. Limit
	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}

	return groups
}

// ============================================================================
// GROUPING
// ============================================================================

// groupBySingle buckets rows by one dimension in first-seen order.
// Rows with an empty key are left out.
func groupBySingle(view RecordView, dimension string) []Group {
	grouped := make(map[string][]int)
	order := make([]string, 0)

	for i := 0; i < view.Len(); i++ {
		key := getDimensionValue(view, i, dimension)
		if key == "" {
			continue
		}
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], i)
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, Group{
			Key:   key,
			Label: key,
			View:  newSubView(view, grouped[key]),
		})
	}
	return groups
}

func groupByMulti(view RecordView, dimensions []string) []Group {
	primaryGroups := groupBySingle(view, dimensions[0])
	for i := range primaryGroups {
		primaryGroups[i].SubGroups = groupBySingle(primaryGroups[i].View, dimensions[1])
	}
	return primaryGroups
}

// getDimensionValue extracts a dimension value from a view at index.
// Handles "decade" as a virtual dimension derived from "year".
func getDimensionValue(view RecordView, i int, dimension string) string {
	if dimension == "decade" {
		if y, err := strconv.Atoi(view.Dimension(i, "year")); err == nil {
			return strconv.Itoa(y-y%10) + "s"
		}
		return ""
	}
	return view.Dimension(i, dimension)
}

// ============================================================================
// AGGREGATION
// ============================================================================

func aggregateGroup(group *Group, measure string, aggregation string) {
	group.Count = group.View.Len()
	if group.Count == 0 {
		return
	}

	switch aggregation {
	case AggSum:
		group.Value = SumMeasure(group.View, measure)
	case AggCount:
		group.Value = float64(group.Count)
	case AggAvg:
		group.Value = AvgMeasure(group.View, measure)
	case AggMax:
		group.Value = MaxMeasure(group.View, measure)
	case AggMin:
		group.Value = MinMeasure(group.View, measure)
	case AggList:
		group.Value = SumMeasure(group.View, measure) // for sorting
	default:
		group.Value = SumMeasure(group.View, measure)
	}
}

// SumMeasure sums a named measure across a view, skipping missing values.
func SumMeasure(view RecordView, measure string) float64 {
	var total float64
	for i := 0; i < view.Len(); i++ {
		if v := view.Measure(i, measure); !math.IsNaN(v) {
			total += v
		}
	}
	return total
}

// CountMeasure counts present (non-NaN) values of a measure.
func CountMeasure(view RecordView, measure string) int {
	n := 0
	for i := 0; i < view.Len(); i++ {
		if !math.IsNaN(view.Measure(i, measure)) {
			n++
		}
	}
	return n
}

// AvgMeasure computes the mean of the present values of a measure.
// Returns NaN when no value is present.
func AvgMeasure(view RecordView, measure string) float64 {
	n := CountMeasure(view, measure)
	if n == 0 {
		return math.NaN()
	}
	return SumMeasure(view, measure) / float64(n)
}

// MaxMeasure returns the largest present value of a named measure, or NaN.
func MaxMeasure(view RecordView, measure string) float64 {
	return extremeMeasure(view, measure, func(a, b float64) bool { return a > b })
}

// MinMeasure returns the smallest present value of a named measure, or NaN.
func MinMeasure(view RecordView, measure string) float64 {
	return extremeMeasure(view, measure, func(a, b float64) bool { return a < b })
}

func extremeMeasure(view RecordView, measure string, better func(a, b float64) bool) float64 {
	m := math.NaN()
	found := false
	for i := 0; i < view.Len(); i++ {
		v := view.Measure(i, measure)
		if math.IsNaN(v) {
			continue
		}
		if !found || better(v, m) {
			m = v
			found = true
		}
	}
	return m
}

// ============================================================================
// SORTING
// ============================================================================

// SortGroups sorts aggregate groups by the specified sort mode.
// Sorting is stable and ties fall back to the key, so output does not depend
// on the order rows were read in. NaN values sort last in both directions.
func SortGroups(groups []Group, sortBy string) {
	byKey := func(a, b Group) int { return cmp.Compare(strings.ToLower(a.Key), strings.ToLower(b.Key)) }

	var less func(a, b Group) int
	switch sortBy {
	case SortValueDesc:
		less = func(a, b Group) int { return compareNaNLast(a.Value, b.Value, true) }
	case SortValueAsc:
		less = func(a, b Group) int { return compareNaNLast(a.Value, b.Value, false) }
	case SortDateAsc, "chronological":
		less = func(a, b Group) int { return cmp.Compare(parseSortableDate(a.Key), parseSortableDate(b.Key)) }
	case SortDateDesc, "reverse_chronological":
		less = func(a, b Group) int { return cmp.Compare(parseSortableDate(b.Key), parseSortableDate(a.Key)) }
	case SortLabelAsc, "alpha_asc":
		less = byKey
	case SortLabelDesc:
		less = func(a, b Group) int { return byKey(b, a) }
	default:
		return // preserve grouping order
	}

	slices.SortStableFunc(groups, func(a, b Group) int {
		if c := less(a, b); c != 0 {
			return c
		}
		return byKey(a, b)
	})
}

// SortView orders the rows of a view by a measure. Missing values sort last
// in both directions; equal values keep their original order.
func SortView(view RecordView, measure string, desc bool) RecordView {
	indices := make([]int, view.Len())
	for i := range indices {
		indices[i] = i
	}
	slices.SortStableFunc(indices, func(a, b int) int {
		return compareNaNLast(view.Measure(a, measure), view.Measure(b, measure), desc)
	})
	return newSubView(view, indices)
}

func compareNaNLast(a, b float64, desc bool) int {
	switch {
	case math.IsNaN(a) && math.IsNaN(b):
		return 0
	case math.IsNaN(a):
		return 1
	case math.IsNaN(b):
		return -1
	case desc:
		return cmp.Compare(b, a)
	default:
		return cmp.Compare(a, b)
	}
}

// LimitView keeps the first n rows of a view. n <= 0 keeps everything.
func LimitView(view RecordView, n int) RecordView {
	if n <= 0 || n >= view.Len() {
		return view
	}
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return newSubView(view, indices)
}

func parseSortableDate(key string) int {
	for _, layout := range []string{"2006", "2006-01-02", "Jan-2006"} {
		if t, err := time.Parse(layout, key); err == nil {
			return t.Year()*10000 + int(t.Month())*100 + t.Day()
		}
	}
	if strings.HasSuffix(key, "s") {
		if y, err := strconv.Atoi(strings.TrimSuffix(key, "s")); err == nil {
			return y * 10000
		}
	}
	return 0
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

var printer = message.NewPrinter(language.English)

// FormatCurrency formats an amount with a unit prefix and thousands separators.
// "$" is attached directly, other units are separated by a space.
func FormatCurrency(amount float64, unit string) string {
	if math.IsNaN(amount) {
		return "NaN"
	}
	s := printer.Sprintf("%.2f", math.Abs(amount))
	switch unit {
	case "":
	case "$":
		s = unit + s
	default:
		s = unit + " " + s
	}
	if amount < 0 {
		s = "-" + s
	}
	return s
}

// FormatNumber formats a float with thousands separators and two decimals,
// dropping the decimals for whole numbers.
func FormatNumber(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return printer.Sprintf("%d", int64(v))
	}
	return printer.Sprintf("%.2f", v)
}

// FormatPlain is FormatNumber without thousands separators, for CSV cells.
func FormatPlain(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	return printer.Sprintf("%d", n)
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// LabelForDimension returns a display label for a dimension key.
// "worldwide_gross" → "Worldwide gross", "Genre_1" → "Genre 1".
func LabelForDimension(dimension string) string {
	if len(dimension) == 0 {
		return ""
	}
	s := strings.ReplaceAll(strings.TrimLeft(dimension, "_"), "_", " ")
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// LabelForAggregation returns a human-readable label for an aggregation type.
func LabelForAggregation(aggregation string) string {
	switch aggregation {
	case AggSum:
		return "Total"
	case AggCount:
		return "Count"
	case AggAvg:
		return "Average"
	case AggMax:
		return "Maximum"
	case AggMin:
		return "Minimum"
	default:
		return "Value"
	}
}
