package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/spektr-org/boxoffice/analysis"
	"github.com/spektr-org/boxoffice/dataset"
	"github.com/spektr-org/boxoffice/engine"
)

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatCSV:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, json or csv)", s)
	}
}

// ============================================================================
// SINGLE PAYLOADS — one function per payload kind, dispatching on format
// ============================================================================

// WriteRows prints table rows.
func WriteRows(w io.Writer, t *dataset.Table, f Format) error {
	switch f {
	case FormatJSON:
		return JSON(w, RowsJSON(t))
	case FormatCSV:
		return RowsCSV(w, t)
	default:
		return Rows(w, t)
	}
}

// WriteInfo prints dataset info.
func WriteInfo(w io.Writer, info dataset.Info, f Format) error {
	switch f {
	case FormatJSON:
		return JSON(w, info)
	case FormatCSV:
		return InfoCSV(w, info)
	default:
		return Info(w, info)
	}
}

// WriteDescribe prints summary statistics.
func WriteDescribe(w io.Writer, stats []dataset.ColumnStats, f Format) error {
	switch f {
	case FormatJSON:
		return JSON(w, statsJSON(stats))
	case FormatCSV:
		return DescribeCSV(w, stats)
	default:
		return Describe(w, stats)
	}
}

// WriteResult prints an engine result.
func WriteResult(w io.Writer, res *engine.Result, f Format) error {
	switch f {
	case FormatJSON:
		return JSON(w, res)
	case FormatCSV:
		return ResultCSV(w, res)
	default:
		return Result(w, res)
	}
}

// statsJSON replaces NaN statistics with null; encoding/json rejects NaN.
func statsJSON(stats []dataset.ColumnStats) []map[string]any {
	out := make([]map[string]any, len(stats))
	for i, s := range stats {
		num := func(v float64) any {
			if math.IsNaN(v) {
				return nil
			}
			return v
		}
		out[i] = map[string]any{
			"name": s.Name, "count": s.Count,
			"mean": num(s.Mean), "std": num(s.Std),
			"min": num(s.Min), "25%": num(s.Q25), "50%": num(s.Q50), "75%": num(s.Q75),
			"max": num(s.Max),
		}
	}
	return out
}

// ============================================================================
// REPORT
// ============================================================================

// WriteReport prints every section of the report in order.
func WriteReport(w io.Writer, rep *analysis.Report, f Format) error {
	switch f {
	case FormatJSON:
		return JSON(w, reportJSON(rep))
	case FormatCSV:
		return reportCSV(w, rep)
	}

	for _, s := range rep.Sections {
		Heading(w, s.Heading)
		if err := writeSection(w, s, FormatText); err != nil {
			return err
		}
		if s.Note != "" {
			fmt.Fprintln(w, s.Note)
		}
	}
	return nil
}

func writeSection(w io.Writer, s analysis.Section, f Format) error {
	switch {
	case s.Info != nil:
		return WriteInfo(w, *s.Info, f)
	case s.Rows != nil:
		return WriteRows(w, s.Rows, f)
	case s.Stats != nil:
		return WriteDescribe(w, s.Stats, f)
	case s.Result != nil:
		return WriteResult(w, s.Result, f)
	}
	return nil
}

func reportJSON(rep *analysis.Report) []map[string]any {
	out := make([]map[string]any, 0, len(rep.Sections))
	for _, s := range rep.Sections {
		entry := map[string]any{"heading": s.Heading}
		switch {
		case s.Info != nil:
			entry["info"] = s.Info
		case s.Rows != nil:
			entry["rows"] = RowsJSON(s.Rows)
		case s.Stats != nil:
			entry["stats"] = statsJSON(s.Stats)
		case s.Result != nil:
			entry["result"] = s.Result
		}
		if s.Note != "" {
			entry["note"] = s.Note
		}
		out = append(out, entry)
	}
	return out
}

// reportCSV writes each section as a heading record followed by its CSV
// block and a blank line.
func reportCSV(w io.Writer, rep *analysis.Report) error {
	for _, s := range rep.Sections {
		cw := csv.NewWriter(w)
		cw.Write([]string{"# " + s.Heading})
		cw.Flush()
		if err := cw.Error(); err != nil {
			return err
		}
		if err := writeSection(w, s, FormatCSV); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
