package schema

// ============================================================================
// SCHEMA — Describes the shape of the blockbuster movies dataset
// ============================================================================
// Blockbusters() is the hand-written schema of top_ten_movies_per_year_DFE.csv.
// DiscoverFromCSV() derives a schema heuristically from any CSV.
// The dataset package uses the schema to type columns on load; the engine
// uses it to tell dimensions from measures.
// ============================================================================

// Source column names of the blockbuster file.
const (
	ColTitle          = "title"
	ColYear           = "year"
	ColReleaseDate    = "release_date"
	ColGenre1         = "Genre_1"
	ColGenre2         = "Genre_2"
	ColGenre3         = "Genre_3"
	ColStudio         = "studio"
	ColRating         = "rating"
	ColIMDBRating     = "imdb_rating"
	ColLength         = "length"
	ColRankInYear     = "rank_in_year"
	ColAdjusted       = "adjusted"
	ColWorldwideGross = "worldwide_gross"
	ColPosterURL      = "poster_url"
)

// Config describes the complete shape of a dataset.
type Config struct {
	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`

	Dimensions []DimensionMeta `json:"dimensions"`
	Measures   []MeasureMeta   `json:"measures"`

	// Columns that must be present in the source file.
	Required []string `json:"required,omitempty"`

	// Columns removed during cleaning.
	Dropped []string `json:"dropped,omitempty"`

	// Auto-discovery metadata
	DiscoveredFrom string `json:"discoveredFrom,omitempty"`
	DiscoveredAt   string `json:"discoveredAt,omitempty"`

	// Columns skipped during auto-discovery
	SkippedColumns []SkippedColumn `json:"skippedColumns,omitempty"`
}

// DimensionMeta describes a string field used for grouping/filtering.
type DimensionMeta struct {
	Key             string   `json:"key"`
	DisplayName     string   `json:"displayName"`
	Description     string   `json:"description,omitempty"`
	SampleValues    []string `json:"sampleValues,omitempty"`
	Groupable       bool     `json:"groupable"`
	Filterable      bool     `json:"filterable"`
	IsTemporal      bool     `json:"isTemporal,omitempty"`
	TemporalFormat  string   `json:"temporalFormat,omitempty"`
	IsDate          bool     `json:"isDate,omitempty"` // parsed as a date on load
	CardinalityHint string   `json:"cardinalityHint,omitempty"`
}

// MeasureMeta describes a numeric field used for aggregation.
type MeasureMeta struct {
	Key                string   `json:"key"`
	DisplayName        string   `json:"displayName"`
	Description        string   `json:"description,omitempty"`
	Unit               string   `json:"unit,omitempty"` // "$", "minutes", "points"
	IsCurrency         bool     `json:"isCurrency,omitempty"` // stored as "$1,234.56" text
	IsInteger          bool     `json:"isInteger,omitempty"`
	Aggregations       []string `json:"aggregations,omitempty"`
	DefaultAggregation string   `json:"defaultAggregation,omitempty"`
}

// SkippedColumn records why a column was excluded during auto-discovery.
type SkippedColumn struct {
	Column      string `json:"column"`
	Reason      string `json:"reason"`
	Recoverable bool   `json:"recoverable"`
}

// DefaultDimension creates a DimensionMeta with sensible defaults.
func DefaultDimension(key, displayName string) DimensionMeta {
	return DimensionMeta{
		Key:         key,
		DisplayName: displayName,
		Groupable:   true,
		Filterable:  true,
	}
}

// DefaultMeasure creates a MeasureMeta with sensible defaults.
func DefaultMeasure(key, displayName string) MeasureMeta {
	return MeasureMeta{
		Key:                key,
		DisplayName:        displayName,
		Aggregations:       []string{"sum", "avg", "min", "max", "count"},
		DefaultAggregation: "sum",
	}
}

// Blockbusters returns the schema of the crowdsourced top-ten-per-year file.
func Blockbusters() Config {
	year := DefaultDimension(ColYear, "Year")
	year.IsTemporal = true
	year.TemporalFormat = "yyyy"

	release := DefaultDimension(ColReleaseDate, "Release Date")
	release.IsTemporal = true
	release.IsDate = true
	release.TemporalFormat = "yyyy-MM-dd"

	imdb := DefaultMeasure(ColIMDBRating, "IMDB Rating")
	imdb.Unit = "points"
	imdb.DefaultAggregation = "avg"

	length := DefaultMeasure(ColLength, "Length")
	length.Unit = "minutes"
	length.IsInteger = true
	length.DefaultAggregation = "avg"

	rank := DefaultMeasure(ColRankInYear, "Rank in Year")
	rank.IsInteger = true
	rank.DefaultAggregation = "avg"

	adjusted := DefaultMeasure(ColAdjusted, "Adjusted Gross")
	adjusted.Unit = "$"
	adjusted.IsCurrency = true
	adjusted.Description = "Inflation-adjusted box-office revenue"

	gross := DefaultMeasure(ColWorldwideGross, "Worldwide Gross")
	gross.Unit = "$"
	gross.IsCurrency = true

	return Config{
		Name:        "Blockbuster Movies 1975–2014",
		Version:     "1.0",
		Description: "Top ten movies per year with ratings and box-office figures",
		Dimensions: []DimensionMeta{
			DefaultDimension(ColTitle, "Title"),
			year,
			release,
			DefaultDimension(ColGenre1, "Genre 1"),
			DefaultDimension(ColGenre2, "Genre 2"),
			DefaultDimension(ColGenre3, "Genre 3"),
			DefaultDimension(ColStudio, "Studio"),
			DefaultDimension(ColRating, "MPAA Rating"),
			DefaultDimension(ColPosterURL, "Poster URL"),
		},
		Measures: []MeasureMeta{gross, adjusted, imdb, length, rank},
		Required: []string{
			ColTitle, ColYear, ColReleaseDate,
			ColGenre1, ColGenre2, ColGenre3,
			ColStudio, ColRating, ColIMDBRating, ColLength,
			ColAdjusted, ColWorldwideGross, ColPosterURL,
		},
		Dropped: []string{ColPosterURL},
	}
}

// Genres returns the three genre columns in order.
func Genres() []string {
	return []string{ColGenre1, ColGenre2, ColGenre3}
}

// GetDefaultMeasure returns the first measure's key, or "worldwide_gross" as fallback.
func (c Config) GetDefaultMeasure() string {
	if len(c.Measures) > 0 {
		return c.Measures[0].Key
	}
	return ColWorldwideGross
}

// DimensionKeys returns all dimension keys.
func (c Config) DimensionKeys() []string {
	keys := make([]string, len(c.Dimensions))
	for i, d := range c.Dimensions {
		keys[i] = d.Key
	}
	return keys
}

// MeasureKeys returns all measure keys.
func (c Config) MeasureKeys() []string {
	keys := make([]string, len(c.Measures))
	for i, m := range c.Measures {
		keys[i] = m.Key
	}
	return keys
}

// Measure looks up a measure by key.
func (c Config) Measure(key string) (MeasureMeta, bool) {
	for _, m := range c.Measures {
		if m.Key == key {
			return m, true
		}
	}
	return MeasureMeta{}, false
}

// Dimension looks up a dimension by key.
func (c Config) Dimension(key string) (DimensionMeta, bool) {
	for _, d := range c.Dimensions {
		if d.Key == key {
			return d, true
		}
	}
	return DimensionMeta{}, false
}

// CurrencyColumns returns the measures stored as currency text.
func (c Config) CurrencyColumns() []string {
	var cols []string
	for _, m := range c.Measures {
		if m.IsCurrency {
			cols = append(cols, m.Key)
		}
	}
	return cols
}

// DateColumns returns the dimensions parsed as dates on load.
func (c Config) DateColumns() []string {
	var cols []string
	for _, d := range c.Dimensions {
		if d.IsDate {
			cols = append(cols, d.Key)
		}
	}
	return cols
}
