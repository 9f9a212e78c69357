package render

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/spektr-org/boxoffice/dataset"
	"github.com/spektr-org/boxoffice/engine"
)

// ============================================================================
// CSV OUTPUT — Sheets-ready rows for any result
// ============================================================================

// ResultCSV writes a result as CSV: chart data first, then table data,
// falling back to a single summary row.
func ResultCSV(w io.Writer, res *engine.Result) error {
	cw := csv.NewWriter(w)
	writeResultCSV(cw, res)
	cw.Flush()
	return cw.Error()
}

func writeResultCSV(cw *csv.Writer, res *engine.Result) {
	if res == nil {
		cw.Write([]string{"Result", "No data"})
		return
	}
	if res.ChartConfig != nil && writeChartCSV(cw, res.ChartConfig) {
		return
	}
	if res.TableData != nil && writeTableCSV(cw, res.TableData) {
		return
	}

	cw.Write([]string{"Summary", "Value", "Unit"})
	reply := res.Reply
	if reply == "" {
		reply = "No data"
	}
	value := ""
	if res.Data != nil {
		value = fmtNum(res.Data.RawValue)
	}
	cw.Write([]string{reply, value, res.DisplayUnit})
}

func writeChartCSV(cw *csv.Writer, chart *engine.ChartConfig) bool {
	if len(chart.Series) == 0 {
		return false
	}

	xLabel, yLabel := chart.XAxis, chart.YAxis
	if xLabel == "" {
		xLabel = "Label"
	}
	if yLabel == "" {
		yLabel = "Value"
	}

	// Single series → two columns
	if len(chart.Series) == 1 {
		cw.Write([]string{xLabel, yLabel})
		for _, d := range chart.Series[0].Data {
			cw.Write([]string{d.Label, fmtNum(d.Value)})
		}
		return true
	}

	// Multi-series → label + one column per series
	headers := []string{xLabel}
	for _, s := range chart.Series {
		headers = append(headers, s.Name)
	}
	cw.Write(headers)
	for i, d := range chart.Series[0].Data {
		row := []string{d.Label}
		for _, s := range chart.Series {
			if i < len(s.Data) {
				row = append(row, fmtNum(s.Data[i].Value))
			} else {
				row = append(row, "")
			}
		}
		cw.Write(row)
	}
	return true
}

func writeTableCSV(cw *csv.Writer, table *engine.TableData) bool {
	if len(table.Columns) == 0 {
		return false
	}
	headers := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		headers[i] = c.Label
	}
	cw.Write(headers)
	for _, row := range table.Rows {
		cw.Write(row)
	}
	return true
}

// RowsCSV writes the table with its header.
func RowsCSV(w io.Writer, t *dataset.Table) error {
	cw := csv.NewWriter(w)
	cw.WriteAll(t.Records())
	return cw.Error()
}

// InfoCSV writes one line per column.
func InfoCSV(w io.Writer, info dataset.Info) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"column", "non_null", "dtype"})
	for _, c := range info.Columns {
		cw.Write([]string{c.Name, strconv.Itoa(c.NonNull), c.Dtype})
	}
	cw.Flush()
	return cw.Error()
}

// DescribeCSV writes one line per numeric column.
func DescribeCSV(w io.Writer, stats []dataset.ColumnStats) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"column", "count", "mean", "std", "min", "25%", "50%", "75%", "max"})
	for _, s := range stats {
		cw.Write([]string{
			s.Name, strconv.Itoa(s.Count),
			fmtNum(s.Mean), fmtNum(s.Std), fmtNum(s.Min),
			fmtNum(s.Q25), fmtNum(s.Q50), fmtNum(s.Q75), fmtNum(s.Max),
		})
	}
	cw.Flush()
	return cw.Error()
}

// fmtNum prints whole numbers without decimals and others with two.
func fmtNum(v float64) string {
	return engine.FormatPlain(v)
}
