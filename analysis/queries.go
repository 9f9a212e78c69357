// Package analysis holds the blockbuster walkthrough: cleaning, the named
// queries, and the report that runs them in order.
package analysis

import (
	"errors"
	"fmt"

	"github.com/spektr-org/boxoffice/dataset"
	"github.com/spektr-org/boxoffice/engine"
	"github.com/spektr-org/boxoffice/schema"
)

// Defaults used by the report and the CLI.
const (
	DefaultTopN       = 5
	DefaultGenre      = "Sci-Fi"
	DefaultGenreLimit = 10
	DefaultLookup     = "Guardians of the Galaxy"
)

// ErrBadQuery is returned when a query's parameters cannot be run.
var ErrBadQuery = errors.New("bad query")

// Chart labels of the ratings bar chart.
const (
	RatingsChartTitle = "MPAA Ratings Frequencies"
	RatingsChartX     = "Rating"
	RatingsChartY     = "Frequency"
)

// Clean converts the currency columns to floats and drops the columns the
// schema marks as unused (poster_url).
func Clean(t *dataset.Table) (*dataset.Table, error) {
	out, err := t.CleanCurrency()
	if err != nil {
		return nil, fmt.Errorf("clean currency: %w", err)
	}
	for _, col := range t.Schema().Dropped {
		if !out.HasColumn(col) {
			continue
		}
		if out, err = out.Drop(col); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Run executes spec against the table with units taken from its schema.
func Run(t *dataset.Table, spec engine.QuerySpec) (*engine.Result, error) {
	return runView(t.Schema(), t.View(), spec)
}

func runView(cfg schema.Config, view engine.RecordView, spec engine.QuerySpec) (*engine.Result, error) {
	opts := []engine.Option{engine.WithDefaultMeasure(cfg.GetDefaultMeasure())}
	for _, m := range cfg.Measures {
		if m.Unit != "" {
			opts = append(opts, engine.WithUnit(m.Key, m.Unit))
		}
	}
	res, err := engine.Execute(spec, view, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", spec.Title, err)
	}
	return res, nil
}

// ============================================================================
// QUERY SPECS
// ============================================================================

// ValueCountsSpec counts rows per value of col, most frequent first.
func ValueCountsSpec(col string) engine.QuerySpec {
	return engine.QuerySpec{
		Intent:      "table",
		Aggregation: engine.AggCount,
		GroupBy:     []string{col},
		SortBy:      engine.SortValueDesc,
		Title:       fmt.Sprintf("Value counts of %s", col),
		XLabel:      col,
		YLabel:      "count",
	}
}

// MoviesPerYearSpec counts movies per year in year order.
func MoviesPerYearSpec() engine.QuerySpec {
	return engine.QuerySpec{
		Intent:      "table",
		Aggregation: engine.AggCount,
		GroupBy:     []string{schema.ColYear},
		SortBy:      engine.SortDateAsc,
		Title:       "Movies per year",
		XLabel:      schema.ColYear,
		YLabel:      "count",
	}
}

// TopRatedInGenreSpec lists movies tagged with genre in any genre column,
// best IMDB rating first.
func TopRatedInGenreSpec(genre string, n int) engine.QuerySpec {
	return engine.QuerySpec{
		Intent:      "table",
		Aggregation: engine.AggList,
		Filters:     engine.AnyOf(genre, schema.Genres()...),
		Measure:     schema.ColIMDBRating,
		SortBy:      engine.SortValueDesc,
		Limit:       n,
		Title:       fmt.Sprintf("Top %d %s movies by IMDB rating", n, genre),
		Columns: []string{
			schema.ColTitle, schema.ColYear,
			schema.ColGenre1, schema.ColGenre2, schema.ColGenre3,
		},
	}
}

// RatingFrequenciesSpec is the MPAA ratings bar chart.
func RatingFrequenciesSpec() engine.QuerySpec {
	return engine.QuerySpec{
		Intent:      "chart",
		Visualize:   "bar",
		Aggregation: engine.AggCount,
		GroupBy:     []string{schema.ColRating},
		SortBy:      engine.SortValueDesc,
		Title:       RatingsChartTitle,
		XLabel:      RatingsChartX,
		YLabel:      RatingsChartY,
		Reply:       "{group_count} ratings across {count} movies; {top_category} is the most common.",
	}
}

// TopSpec groups by a column, aggregates a measure, and keeps the top n groups.
func TopSpec(by, measure, aggregation string, n int) engine.QuerySpec {
	return RankSpec([]string{by}, measure, aggregation, engine.SortValueDesc, n)
}

// RankSpec aggregates a measure over up to two grouping columns, sorts the
// groups and keeps the first n. One column gives a table, two give a
// multi-series chart (one series per value of the second column), and none
// gives the single total over every movie.
func RankSpec(by []string, measure, aggregation, sortBy string, n int) engine.QuerySpec {
	what := fmt.Sprintf("%s %s", aggregation, measure)
	if aggregation == engine.AggCount {
		what = "number of movies"
	}

	switch len(by) {
	case 0:
		title := fmt.Sprintf("%s %s over all movies", engine.LabelForAggregation(aggregation), measure)
		if aggregation == engine.AggCount {
			title = "Number of movies"
		}
		return engine.QuerySpec{
			Intent:      "text",
			Aggregation: aggregation,
			Measure:     measure,
			Title:       title,
		}
	case 1:
		return engine.QuerySpec{
			Intent:      "table",
			Aggregation: aggregation,
			Measure:     measure,
			GroupBy:     by,
			SortBy:      sortBy,
			Limit:       n,
			Title:       fmt.Sprintf("Top %d %s by %s", n, by[0], what),
			XLabel:      by[0],
		}
	default:
		return engine.QuerySpec{
			Intent:      "chart",
			Visualize:   "bar",
			Aggregation: aggregation,
			Measure:     measure,
			GroupBy:     by,
			SortBy:      sortBy,
			Limit:       n,
			Title:       fmt.Sprintf("Top %d %s by %s, split by %s", n, by[0], what, by[1]),
			XLabel:      by[0],
		}
	}
}

// TopYearsByRatingSpec is mean imdb_rating per year, top n.
func TopYearsByRatingSpec(n int) engine.QuerySpec {
	return TopSpec(schema.ColYear, schema.ColIMDBRating, engine.AggAvg, n)
}

// TopGenresByGrossSpec is total worldwide_gross per primary genre, top n.
func TopGenresByGrossSpec(n int) engine.QuerySpec {
	return TopSpec(schema.ColGenre1, schema.ColWorldwideGross, engine.AggSum, n)
}

// TopStudiosByAverageGrossSpec is mean worldwide_gross per studio, top n.
func TopStudiosByAverageGrossSpec(n int) engine.QuerySpec {
	return TopSpec(schema.ColStudio, schema.ColWorldwideGross, engine.AggAvg, n)
}

// TopStudiosByReleasesSpec is the number of movies per studio, top n.
func TopStudiosByReleasesSpec(n int) engine.QuerySpec {
	return TopSpec(schema.ColStudio, "", engine.AggCount, n)
}

// ============================================================================
// NAMED QUERIES
// ============================================================================

// ValueCounts runs ValueCountsSpec.
func ValueCounts(t *dataset.Table, col string) (*engine.Result, error) {
	if !t.HasColumn(col) {
		return nil, fmt.Errorf("%w: %s", dataset.ErrUnknownColumn, col)
	}
	return Run(t, ValueCountsSpec(col))
}

// MoviesPerYear runs MoviesPerYearSpec.
func MoviesPerYear(t *dataset.Table) (*engine.Result, error) {
	return Run(t, MoviesPerYearSpec())
}

// TopRatedInGenre runs TopRatedInGenreSpec over the table's typed movies.
// The table must be cleaned.
func TopRatedInGenre(t *dataset.Table, genre string, n int) (*engine.Result, error) {
	return runView(t.Schema(), dataset.MovieAdapter.Bind(t.Movies()), TopRatedInGenreSpec(genre, n))
}

// RatingFrequencies runs RatingFrequenciesSpec.
func RatingFrequencies(t *dataset.Table) (*engine.Result, error) {
	return Run(t, RatingFrequenciesSpec())
}

// Top runs RankSpec.
func Top(t *dataset.Table, by []string, measure, aggregation, sortBy string, n int) (*engine.Result, error) {
	if len(by) > 2 {
		return nil, fmt.Errorf("%w: at most two grouping columns, got %d", ErrBadQuery, len(by))
	}
	for _, col := range by {
		if !t.HasColumn(col) {
			return nil, fmt.Errorf("%w: %s", dataset.ErrUnknownColumn, col)
		}
	}
	return Run(t, RankSpec(by, measure, aggregation, sortBy, n))
}

// TopYearsByRating runs TopYearsByRatingSpec.
func TopYearsByRating(t *dataset.Table, n int) (*engine.Result, error) {
	return Run(t, TopYearsByRatingSpec(n))
}

// TopGenresByGross runs TopGenresByGrossSpec.
func TopGenresByGross(t *dataset.Table, n int) (*engine.Result, error) {
	return Run(t, TopGenresByGrossSpec(n))
}

// TopStudiosByAverageGross runs TopStudiosByAverageGrossSpec.
func TopStudiosByAverageGross(t *dataset.Table, n int) (*engine.Result, error) {
	return Run(t, TopStudiosByAverageGrossSpec(n))
}

// TopStudiosByReleases runs TopStudiosByReleasesSpec.
func TopStudiosByReleases(t *dataset.Table, n int) (*engine.Result, error) {
	return Run(t, TopStudiosByReleasesSpec(n))
}
