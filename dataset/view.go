package dataset

import (
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// FrameView exposes a gota DataFrame as an engine.RecordView.
// Every column is a dimension; int and float columns are also measures.
// Columns are materialized once on construction.
type FrameView struct {
	n        int
	dims     map[string][]string
	meas     map[string][]float64
	dimKeys  []string
	measKeys []string
}

// NewFrameView snapshots df column by column.
func NewFrameView(df dataframe.DataFrame) *FrameView {
	v := &FrameView{
		n:    df.Nrow(),
		dims: make(map[string][]string),
		meas: make(map[string][]float64),
	}
	for _, name := range df.Names() {
		s := df.Col(name)
		text := make([]string, s.Len())
		for i := 0; i < s.Len(); i++ {
			if e := s.Elem(i); !e.IsNA() {
				text[i] = e.String()
			}
		}
		v.dims[name] = text
		v.dimKeys = append(v.dimKeys, name)

		if s.Type() != series.Int && s.Type() != series.Float {
			continue
		}
		nums := make([]float64, s.Len())
		for i := 0; i < s.Len(); i++ {
			if e := s.Elem(i); e.IsNA() {
				nums[i] = math.NaN()
			} else {
				nums[i] = e.Float()
			}
		}
		v.meas[name] = nums
		v.measKeys = append(v.measKeys, name)
	}
	return v
}

func (v *FrameView) Len() int { return v.n }

func (v *FrameView) Dimension(i int, key string) string {
	col, ok := v.dims[key]
	if !ok || i < 0 || i >= len(col) {
		return ""
	}
	return col[i]
}

func (v *FrameView) Measure(i int, key string) float64 {
	col, ok := v.meas[key]
	if !ok || i < 0 || i >= len(col) {
		return math.NaN()
	}
	return col[i]
}

func (v *FrameView) DimensionKeys() []string { return v.dimKeys }
func (v *FrameView) MeasureKeys() []string   { return v.measKeys }
