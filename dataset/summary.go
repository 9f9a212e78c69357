package dataset

import (
	"math"

	"github.com/go-gota/gota/series"
)

// ============================================================================
// SUMMARIES — Info (per-column dtype/non-null) and Describe (numeric stats)
// ============================================================================

// ColumnInfo is one line of Info.
type ColumnInfo struct {
	Name    string `json:"name"`
	NonNull int    `json:"nonNull"`
	Dtype   string `json:"dtype"`
}

// Info summarizes the table structure.
type Info struct {
	Rows    int          `json:"rows"`
	Columns []ColumnInfo `json:"columns"`
}

// Info reports the row count and, per column, the non-null count and dtype.
func (t *Table) Info() Info {
	info := Info{Rows: t.Len()}
	dates := make(map[string]bool)
	for _, c := range t.schema.DateColumns() {
		dates[c] = true
	}

	for _, name := range t.df.Names() {
		s := t.df.Col(name)
		nonNull := 0
		for i := 0; i < s.Len(); i++ {
			if !s.Elem(i).IsNA() {
				nonNull++
			}
		}
		info.Columns = append(info.Columns, ColumnInfo{
			Name:    name,
			NonNull: nonNull,
			Dtype:   dtypeOf(s.Type(), dates[name]),
		})
	}
	return info
}

func dtypeOf(t series.Type, isDate bool) string {
	if isDate {
		return "date"
	}
	switch t {
	case series.Int:
		return "int"
	case series.Float:
		return "float"
	case series.Bool:
		return "bool"
	default:
		return "string"
	}
}

// ColumnStats holds the describe() statistics of one numeric column.
// Missing values are excluded from every statistic.
type ColumnStats struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	Q25   float64 `json:"q25"`
	Q50   float64 `json:"q50"`
	Q75   float64 `json:"q75"`
	Max   float64 `json:"max"`
}

// Describe computes summary statistics for every numeric column, in column
// order. Currency columns only appear after CleanCurrency.
func (t *Table) Describe() []ColumnStats {
	var stats []ColumnStats
	for _, name := range t.NumericColumns() {
		stats = append(stats, describeSeries(name, t.df.Col(name)))
	}
	return stats
}

func describeSeries(name string, s series.Series) ColumnStats {
	vals := make([]float64, 0, s.Len())
	for i := 0; i < s.Len(); i++ {
		e := s.Elem(i)
		if e.IsNA() {
			continue
		}
		if f := e.Float(); !math.IsNaN(f) {
			vals = append(vals, f)
		}
	}

	st := ColumnStats{Name: name, Count: len(vals)}
	if len(vals) == 0 {
		nan := math.NaN()
		st.Mean, st.Std, st.Min, st.Q25, st.Q50, st.Q75, st.Max = nan, nan, nan, nan, nan, nan, nan
		return st
	}

	f := series.Floats(vals)
	st.Mean = f.Mean()
	st.Min = f.Min()
	st.Max = f.Max()
	st.Q25 = f.Quantile(0.25)
	st.Q50 = f.Quantile(0.5)
	st.Q75 = f.Quantile(0.75)
	st.Std = math.NaN()
	if len(vals) > 1 {
		st.Std = f.StdDev()
	}
	return st
}

// NumericColumns returns the names of int and float columns.
func (t *Table) NumericColumns() []string {
	var cols []string
	for i, typ := range t.df.Types() {
		if typ == series.Int || typ == series.Float {
			cols = append(cols, t.df.Names()[i])
		}
	}
	return cols
}
