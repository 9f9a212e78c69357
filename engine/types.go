package engine

import (
	"encoding/json"
	"math"
)

// ============================================================================
// ENGINE TYPES — Dimension/Measure Analytics over Movie Rows
// ============================================================================
// Record     — one row as dimension/measure maps
// QuerySpec  — what to compute (filters, grouping, aggregation, sort, limit)
// Result     — render-ready output (chart, table, or text)
// ============================================================================

// Aggregations understood by GroupAndAggregate.
const (
	AggSum   = "sum"
	AggAvg   = "avg"
	AggCount = "count"
	AggMax   = "max"
	AggMin   = "min"
	AggList  = "list"
)

// Sort modes understood by SortGroups.
const (
	SortValueDesc = "value_desc"
	SortValueAsc  = "value_asc"
	SortLabelAsc  = "label_asc"
	SortLabelDesc = "label_desc"
	SortDateAsc   = "date_asc"
	SortDateDesc  = "date_desc"
)

// Filter match modes.
const (
	MatchAll = "all" // AND across dimensions
	MatchAny = "any" // OR across dimensions
)

// ============================================================================
// RECORD — Generic data row
// ============================================================================

// Record is a single data row with string dimensions and numeric measures.
// A measure absent from the map reads as NaN (missing), not zero.
type Record struct {
	Dimensions map[string]string  `json:"dimensions"`
	Measures   map[string]float64 `json:"measures"`
}

// ============================================================================
// QUERYSPEC
// ============================================================================

// QuerySpec defines what the engine should compute.
type QuerySpec struct {
	Intent      string   `json:"intent"`      // "text", "table", "chart"
	Filters     Filters  `json:"filters"`     // Which records to include
	Aggregation string   `json:"aggregation"` // "sum", "count", "avg", "max", "min", "list"
	Measure     string   `json:"measure"`     // Which measure to aggregate (empty → default)
	GroupBy     []string `json:"groupBy"`     // Dimension keys: ["year"], ["Genre_1", "rating"]
	SortBy      string   `json:"sortBy"`      // "value_desc", "value_asc", "label_asc", ...
	Limit       int      `json:"limit"`       // 0 = all
	Visualize   string   `json:"visualize"`   // "bar", "table", "text"
	Title       string   `json:"title"`
	XLabel      string   `json:"xLabel,omitempty"`
	YLabel      string   `json:"yLabel,omitempty"`
	Reply       string   `json:"reply"` // Template: "Mostly {top_category} movies ({top_amount})."

	// Columns lists extra dimensions shown by "list" tables, in order.
	// Empty means every dimension the view exposes.
	Columns []string `json:"columns,omitempty"`
}

// Filters define which records to include.
// Keys are dimension names. Values are allowed values (case-insensitive).
// Values within a dimension are OR-combined. Dimensions are AND-combined
// unless Match is "any", in which case a record passing any one dimension
// is kept. Empty = all.
type Filters struct {
	Dimensions map[string][]string `json:"dimensions"`
	Match      string              `json:"match,omitempty"`
}

// HasFilter returns true if a specific dimension filter is set.
func (f Filters) HasFilter(dimension string) bool {
	if f.Dimensions == nil {
		return false
	}
	vals, ok := f.Dimensions[dimension]
	return ok && len(vals) > 0
}

// IsEmpty returns true if no filters are set.
func (f Filters) IsEmpty() bool {
	for _, vals := range f.Dimensions {
		if len(vals) > 0 {
			return false
		}
	}
	return true
}

// AnyOf builds a filter keeping records where at least one of the given
// dimensions equals value. Used for multi-column genre matching.
func AnyOf(value string, dimensions ...string) Filters {
	f := Filters{Dimensions: make(map[string][]string, len(dimensions)), Match: MatchAny}
	for _, d := range dimensions {
		f.Dimensions[d] = []string{value}
	}
	return f
}

// ============================================================================
// RESULT — Render-ready output
// ============================================================================

// Result is the engine's render-ready output.
type Result struct {
	Success bool   `json:"success"`
	Type    string `json:"type"` // "chart", "table", "text"
	Reply   string `json:"reply"`
	Title   string `json:"title"`

	// Exactly one of these is populated based on Type:
	ChartConfig *ChartConfig `json:"chartConfig,omitempty"`
	TableData   *TableData   `json:"tableData,omitempty"`
	Data        *TextData    `json:"data,omitempty"`

	// Groups is the aggregated output the builders consumed.
	Groups []Group `json:"groups,omitempty"`

	DisplayUnit string `json:"displayUnit,omitempty"`
}

// ============================================================================
// GROUP — Intermediate computation result
// ============================================================================

// Group represents a grouped/aggregated result.
type Group struct {
	Key       string     `json:"key"`
	Label     string     `json:"label"`
	Value     float64    `json:"value"`
	Count     int        `json:"count"`
	SubGroups []Group    `json:"subGroups,omitempty"`
	View      RecordView `json:"-"` // Sub-view for records in this group
}

// MarshalJSON writes a missing (NaN) value as null.
func (g Group) MarshalJSON() ([]byte, error) {
	type alias Group
	return json.Marshal(struct {
		alias
		Value *float64 `json:"value"`
	}{alias(g), nullable(g.Value)})
}

// ============================================================================
// CHART TYPES
// ============================================================================

// ChartConfig defines how to render a chart.
type ChartConfig struct {
	ChartType  string        `json:"chartType"`
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint represents a single data point.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// MarshalJSON writes a missing (NaN) value as null.
func (p ChartPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Label string   `json:"label"`
		Value *float64 `json:"value"`
	}{p.Label, nullable(p.Value)})
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData defines how to render a table.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary *Summary   `json:"summary,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number"
	Align string `json:"align"` // "left", "right"
}

// Summary provides totals for a table.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}

// ============================================================================
// TEXT TYPES
// ============================================================================

// TextData is structured data for single-value answers (type="text").
type TextData struct {
	Value    string  `json:"value"`
	RawValue float64 `json:"rawValue"`
	Unit     string  `json:"unit"`
	Period   string  `json:"period"`
	Count    int     `json:"count"`
}

// MarshalJSON writes a missing (NaN) raw value as null.
func (d TextData) MarshalJSON() ([]byte, error) {
	type alias TextData
	return json.Marshal(struct {
		alias
		RawValue *float64 `json:"rawValue"`
	}{alias(d), nullable(d.RawValue)})
}

// nullable maps values JSON cannot carry to nil.
func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
