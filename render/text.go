// Package render prints dataset tables, summaries and engine results as
// console text, CSV, JSON or PNG.
package render

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/spektr-org/boxoffice/dataset"
	"github.com/spektr-org/boxoffice/engine"
)

// ============================================================================
// TEXT OUTPUT — aligned console tables
// ============================================================================

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// Heading prints a section heading.
func Heading(w io.Writer, title string) {
	fmt.Fprintf(w, "\n== %s ==\n", title)
}

// Rows prints a table with a leading positional index column.
func Rows(w io.Writer, t *dataset.Table) error {
	records := t.Records()
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "(empty)")
		return err
	}
	tw := newTabWriter(w)
	header := append([]string{""}, records[0]...)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for i, row := range records[1:] {
		fmt.Fprintf(tw, "%d\t%s\n", i, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// Info prints the row count and one line per column.
func Info(w io.Writer, info dataset.Info) error {
	fmt.Fprintf(w, "%d entries, %d columns\n", info.Rows, len(info.Columns))
	tw := newTabWriter(w)
	fmt.Fprintln(tw, "#\tColumn\tNon-Null Count\tDtype")
	for i, c := range info.Columns {
		fmt.Fprintf(tw, "%d\t%s\t%d non-null\t%s\n", i, c.Name, c.NonNull, c.Dtype)
	}
	return tw.Flush()
}

// Describe prints statistics with one column per numeric field.
func Describe(w io.Writer, stats []dataset.ColumnStats) error {
	if len(stats) == 0 {
		_, err := fmt.Fprintln(w, "(no numeric columns)")
		return err
	}
	tw := newTabWriter(w)
	header := []string{""}
	for _, s := range stats {
		header = append(header, s.Name)
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	lines := []struct {
		label string
		get   func(dataset.ColumnStats) float64
	}{
		{"count", func(s dataset.ColumnStats) float64 { return float64(s.Count) }},
		{"mean", func(s dataset.ColumnStats) float64 { return s.Mean }},
		{"std", func(s dataset.ColumnStats) float64 { return s.Std }},
		{"min", func(s dataset.ColumnStats) float64 { return s.Min }},
		{"25%", func(s dataset.ColumnStats) float64 { return s.Q25 }},
		{"50%", func(s dataset.ColumnStats) float64 { return s.Q50 }},
		{"75%", func(s dataset.ColumnStats) float64 { return s.Q75 }},
		{"max", func(s dataset.ColumnStats) float64 { return s.Max }},
	}
	for _, l := range lines {
		row := []string{l.label}
		for _, s := range stats {
			row = append(row, statCell(l.get(s)))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func statCell(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.6g", v)
}

// Result prints an engine result: its table, chart or single value, then the reply.
func Result(w io.Writer, res *engine.Result) error {
	if res == nil {
		_, err := fmt.Fprintln(w, "No result.")
		return err
	}

	switch {
	case res.TableData != nil:
		if err := tableData(w, res.TableData); err != nil {
			return err
		}
	case res.ChartConfig != nil:
		if err := BarChart(w, res.ChartConfig, DefaultBarWidth); err != nil {
			return err
		}
	case res.Data != nil:
		fmt.Fprintf(w, "%s (%s)\n", res.Data.Value, res.Data.Period)
	}

	if res.Reply != "" {
		_, err := fmt.Fprintln(w, res.Reply)
		return err
	}
	return nil
}

func tableData(w io.Writer, td *engine.TableData) error {
	if len(td.Columns) == 0 {
		_, err := fmt.Fprintln(w, "(empty)")
		return err
	}
	tw := newTabWriter(w)
	labels := make([]string, len(td.Columns))
	for i, c := range td.Columns {
		labels[i] = c.Label
	}
	fmt.Fprintln(tw, strings.Join(labels, "\t"))
	for _, row := range td.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}
