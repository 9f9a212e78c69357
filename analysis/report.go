package analysis

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/spektr-org/boxoffice/dataset"
	"github.com/spektr-org/boxoffice/engine"
	"github.com/spektr-org/boxoffice/schema"
)

// ============================================================================
// REPORT — The walkthrough, step by step
// ============================================================================
// Each step becomes a Section with a heading and exactly one payload.
// The render package prints sections; nothing here writes output.
// ============================================================================

// Section is one headed step of the report.
type Section struct {
	Heading string                `json:"heading"`
	Info    *dataset.Info         `json:"info,omitempty"`
	Rows    *dataset.Table        `json:"-"`
	Stats   []dataset.ColumnStats `json:"stats,omitempty"`
	Result  *engine.Result        `json:"result,omitempty"`
	Note    string                `json:"note,omitempty"`
}

// Report is the ordered list of sections plus the cleaned table they ran on.
type Report struct {
	Sections []Section     `json:"sections"`
	Cleaned  *dataset.Table `json:"-"`
}

// ReportOptions tunes the report's parameters.
type ReportOptions struct {
	HeadRows   int
	TopN       int
	Genre      string
	GenreLimit int
	Lookup     string
}

// DefaultReportOptions returns the walkthrough's parameters.
func DefaultReportOptions() ReportOptions {
	return ReportOptions{
		HeadRows:   5,
		TopN:       DefaultTopN,
		Genre:      DefaultGenre,
		GenreLimit: DefaultGenreLimit,
		Lookup:     DefaultLookup,
	}
}

// BuildReport runs the walkthrough against a freshly loaded (uncleaned) table.
func BuildReport(raw *dataset.Table, opts ReportOptions) (*Report, error) {
	r := &Report{}
	add := func(s Section) { r.Sections = append(r.Sections, s) }

	// 1. Structure of the raw file
	info := raw.Info()
	add(Section{Heading: "Dataset info", Info: &info})
	add(Section{Heading: fmt.Sprintf("First %d rows", opts.HeadRows), Rows: raw.Head(opts.HeadRows)})
	add(Section{Heading: fmt.Sprintf("Last %d rows", opts.HeadRows), Rows: raw.Tail(opts.HeadRows)})

	// 2. Cleaning
	cleaned, err := Clean(raw)
	if err != nil {
		return nil, err
	}
	r.Cleaned = cleaned
	rows, cols := cleaned.Shape()
	currency, err := cleaned.Select(raw.Schema().CurrencyColumns()...)
	if err != nil {
		return nil, err
	}
	add(Section{
		Heading: "Currency columns after cleaning",
		Rows:    currency.Head(opts.HeadRows),
		Note:    fmt.Sprintf("Dropped %v; %d rows x %d columns remain.", raw.Schema().Dropped, rows, cols),
	})
	add(Section{Heading: "Summary statistics", Stats: cleaned.Describe()})

	// 3. Selection
	titles, err := cleaned.Select(schema.ColTitle)
	if err != nil {
		return nil, err
	}
	add(Section{Heading: "Titles", Rows: titles.Head(opts.HeadRows)})

	subset, err := cleaned.Select(schema.ColTitle, schema.ColIMDBRating)
	if err != nil {
		return nil, err
	}
	add(Section{Heading: "Title and IMDB rating", Rows: subset.Head(opts.HeadRows)})
	add(Section{Heading: "Rows 0 to 3", Rows: cleaned.Slice(0, 3)})

	perYear, err := MoviesPerYear(cleaned)
	if err != nil {
		return nil, err
	}
	add(Section{Heading: "Movies per year", Result: perYear})

	// 4. Title index and lookup
	byTitle, err := cleaned.IndexBy(schema.ColTitle)
	if err != nil {
		return nil, err
	}
	add(Section{Heading: "Indexed by title", Rows: byTitle.Head(opts.HeadRows)})

	found, err := byTitle.Loc(opts.Lookup)
	if err != nil {
		return nil, fmt.Errorf("lookup: %w", err)
	}
	add(Section{Heading: fmt.Sprintf("Lookup %q", opts.Lookup), Rows: found})

	// 5. Grouped queries
	steps := []struct {
		heading string
		spec    engine.QuerySpec
	}{
		{fmt.Sprintf("Top %d %s movies", opts.GenreLimit, opts.Genre), TopRatedInGenreSpec(opts.Genre, opts.GenreLimit)},
		{RatingsChartTitle, RatingFrequenciesSpec()},
		{fmt.Sprintf("Top %d years by average IMDB rating", opts.TopN), TopYearsByRatingSpec(opts.TopN)},
		{fmt.Sprintf("Top %d genres by worldwide gross", opts.TopN), TopGenresByGrossSpec(opts.TopN)},
		{fmt.Sprintf("Top %d studios by average worldwide gross", opts.TopN), TopStudiosByAverageGrossSpec(opts.TopN)},
		{fmt.Sprintf("Top %d studios by number of releases", opts.TopN), TopStudiosByReleasesSpec(opts.TopN)},
	}
	for _, step := range steps {
		res, err := Run(cleaned, step.spec)
		if err != nil {
			return nil, err
		}
		add(Section{Heading: step.heading, Result: res})
	}

	log.Debug().Int("sections", len(r.Sections)).Msg("📋 analysis: report built")
	return r, nil
}

// Chart returns the first chart result in the report, or nil.
func (r *Report) Chart() *engine.Result {
	for _, s := range r.Sections {
		if s.Result != nil && s.Result.ChartConfig != nil {
			return s.Result
		}
	}
	return nil
}
