package engine

import "math"

// ============================================================================
// RECORD VIEW — Indexed Data Access Interface
// ============================================================================
// The engine never owns table data. It reads through this interface.
//
// Implementations:
//   SliceView      — wraps []Record (tests, ad-hoc callers)
//   DomainView[T]  — reads typed structs via accessor functions
//   SubView        — filtered subset (indices into parent)
//   dataset.FrameView — reads a gota DataFrame column-wise
// ============================================================================

// RecordView provides indexed access to a dataset.
// Measure returns NaN when the value is missing.
type RecordView interface {
	Len() int
	Dimension(index int, key string) string
	Measure(index int, key string) float64
	DimensionKeys() []string // available dimension keys
	MeasureKeys() []string   // available measure keys
}

// ============================================================================
// SLICE VIEW — wraps []Record
// ============================================================================

// SliceView wraps a []Record slice as a RecordView.
type SliceView struct {
	records []Record
	dimKeys []string
	mesKeys []string
}

// NewSliceView creates a RecordView from a []Record slice.
func NewSliceView(records []Record) RecordView {
	v := &SliceView{records: records}
	v.cacheKeys()
	return v
}

func (v *SliceView) cacheKeys() {
	dimSeen := make(map[string]bool)
	mesSeen := make(map[string]bool)
	for _, r := range v.records {
		for k := range r.Dimensions {
			if !dimSeen[k] {
				dimSeen[k] = true
				v.dimKeys = append(v.dimKeys, k)
			}
		}
		for k := range r.Measures {
			if !mesSeen[k] {
				mesSeen[k] = true
				v.mesKeys = append(v.mesKeys, k)
			}
		}
	}
}

func (v *SliceView) Len() int { return len(v.records) }

func (v *SliceView) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.records) {
		return ""
	}
	return v.records[i].Dimensions[key]
}

func (v *SliceView) Measure(i int, key string) float64 {
	if i < 0 || i >= len(v.records) {
		return math.NaN()
	}
	val, ok := v.records[i].Measures[key]
	if !ok {
		return math.NaN()
	}
	return val
}

func (v *SliceView) DimensionKeys() []string { return v.dimKeys }
func (v *SliceView) MeasureKeys() []string   { return v.mesKeys }

// ============================================================================
// SUB VIEW — filtered subset
// ============================================================================

// SubView is a filtered subset of a parent RecordView.
// Holds indices into the parent — no data copy.
type SubView struct {
	parent  RecordView
	indices []int
}

func newSubView(parent RecordView, indices []int) RecordView {
	return &SubView{parent: parent, indices: indices}
}

// Indices returns the parent row positions backing this view.
func (v *SubView) Indices() []int { return v.indices }

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.indices) {
		return ""
	}
	return v.parent.Dimension(v.indices[i], key)
}

func (v *SubView) Measure(i int, key string) float64 {
	if i < 0 || i >= len(v.indices) {
		return math.NaN()
	}
	return v.parent.Measure(v.indices[i], key)
}

func (v *SubView) DimensionKeys() []string { return v.parent.DimensionKeys() }
func (v *SubView) MeasureKeys() []string   { return v.parent.MeasureKeys() }

// ============================================================================
// DOMAIN ADAPTER — typed struct access
// ============================================================================
//
// Usage:
//
//	adapter := engine.NewDomainAdapter[dataset.Movie]().
//	    Dimension("studio", func(m dataset.Movie) string { return m.Studio }).
//	    Measure("worldwide_gross", func(m dataset.Movie) float64 { return m.WorldwideGross })
//
//	view := adapter.Bind(movies)
//	result, _ := engine.Execute(spec, view)
//
// ============================================================================

// DomainAdapter builds a RecordView from typed structs.
// Declare once, bind many times.
type DomainAdapter[T any] struct {
	dimOrder []string
	mesOrder []string
	dims     map[string]func(T) string
	meas     map[string]func(T) float64
}

// NewDomainAdapter creates a new adapter for type T.
func NewDomainAdapter[T any]() *DomainAdapter[T] {
	return &DomainAdapter[T]{
		dims: make(map[string]func(T) string),
		meas: make(map[string]func(T) float64),
	}
}

// Dimension registers a dimension accessor.
func (a *DomainAdapter[T]) Dimension(key string, fn func(T) string) *DomainAdapter[T] {
	if _, exists := a.dims[key]; !exists {
		a.dimOrder = append(a.dimOrder, key)
	}
	a.dims[key] = fn
	return a
}

// Measure registers a measure accessor.
func (a *DomainAdapter[T]) Measure(key string, fn func(T) float64) *DomainAdapter[T] {
	if _, exists := a.meas[key]; !exists {
		a.mesOrder = append(a.mesOrder, key)
	}
	a.meas[key] = fn
	return a
}

// Bind creates a RecordView from a data slice. Holds a reference, no copy.
func (a *DomainAdapter[T]) Bind(data []T) RecordView {
	return &DomainView[T]{
		data:     data,
		dims:     a.dims,
		meas:     a.meas,
		dimKeys:  a.dimOrder,
		measKeys: a.mesOrder,
	}
}

// DomainView reads typed struct fields via registered accessor functions.
type DomainView[T any] struct {
	data     []T
	dims     map[string]func(T) string
	meas     map[string]func(T) float64
	dimKeys  []string
	measKeys []string
}

func (v *DomainView[T]) Len() int { return len(v.data) }

func (v *DomainView[T]) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.data) {
		return ""
	}
	if fn, ok := v.dims[key]; ok {
		return fn(v.data[i])
	}
	return ""
}

func (v *DomainView[T]) Measure(i int, key string) float64 {
	if i < 0 || i >= len(v.data) {
		return math.NaN()
	}
	if fn, ok := v.meas[key]; ok {
		return fn(v.data[i])
	}
	return math.NaN()
}

func (v *DomainView[T]) DimensionKeys() []string { return v.dimKeys }
func (v *DomainView[T]) MeasureKeys() []string   { return v.measKeys }
