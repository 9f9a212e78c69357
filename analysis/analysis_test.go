package analysis_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/boxoffice/analysis"
	"github.com/spektr-org/boxoffice/dataset"
	"github.com/spektr-org/boxoffice/engine"
	"github.com/spektr-org/boxoffice/internal/testutil"
	"github.com/spektr-org/boxoffice/schema"
)

func cleaned(t *testing.T) *dataset.Table {
	t.Helper()
	raw, err := dataset.Load(testutil.Blockbusters())
	require.NoError(t, err)
	tbl, err := analysis.Clean(raw)
	require.NoError(t, err)
	return tbl
}

type kv struct {
	key   string
	value float64
}

func pairs(groups []engine.Group) []kv {
	out := make([]kv, len(groups))
	for i, g := range groups {
		out[i] = kv{g.Key, g.Value}
	}
	return out
}

func TestClean(t *testing.T) {
	tbl := cleaned(t)
	rows, cols := tbl.Shape()
	assert.Equal(t, testutil.FixtureRows, rows)
	assert.Equal(t, testutil.FixtureColumns-1, cols)
	assert.False(t, tbl.HasColumn(schema.ColPosterURL))

	for _, col := range []string{schema.ColAdjusted, schema.ColWorldwideGross} {
		s, err := tbl.Column(col)
		require.NoError(t, err)
		for _, v := range s.Records() {
			assert.NotContains(t, v, "$")
			assert.NotContains(t, v, ",")
		}
	}
}

func TestMoviesPerYear(t *testing.T) {
	res, err := analysis.MoviesPerYear(cleaned(t))
	require.NoError(t, err)
	assert.Equal(t, []kv{{"1975", 3}, {"1977", 3}, {"1993", 3}, {"2014", 4}}, pairs(res.Groups))
	require.NotNil(t, res.TableData)
	assert.Equal(t, []string{"1975", "3"}, res.TableData.Rows[0])
}

func TestRatingFrequencies(t *testing.T) {
	res, err := analysis.RatingFrequencies(cleaned(t))
	require.NoError(t, err)
	assert.Equal(t, "chart", res.Type)
	assert.Equal(t, []kv{{"PG-13", 5}, {"PG", 4}, {"R", 4}}, pairs(res.Groups))

	chart := res.ChartConfig
	require.NotNil(t, chart)
	assert.Equal(t, "MPAA Ratings Frequencies", chart.Title)
	assert.Equal(t, "Rating", chart.XAxis)
	assert.Equal(t, "Frequency", chart.YAxis)
	require.Len(t, chart.Series, 1)
	assert.Len(t, chart.Series[0].Data, 3, "one bar per rating")
	assert.Equal(t, "3 ratings across 13 movies; PG-13 is the most common.", res.Reply)
}

func TestTopRatedInGenre(t *testing.T) {
	res, err := analysis.TopRatedInGenre(cleaned(t), analysis.DefaultGenre, analysis.DefaultGenreLimit)
	require.NoError(t, err)
	require.NotNil(t, res.TableData)

	var got []string
	for _, row := range res.TableData.Rows {
		got = append(got, row[0])
	}
	assert.Equal(t, []string{
		"Interstellar",
		"Star Wars",
		"Guardians of the Galaxy",
		"Jurassic Park",
		"Close Encounters of the Third Kind",
		"Transformers: Age of Extinction",
	}, got)

	last := res.TableData.Columns[len(res.TableData.Columns)-1]
	assert.Equal(t, schema.ColIMDBRating, last.Key)
	assert.Equal(t, "8.70", res.TableData.Rows[0][len(res.TableData.Columns)-1])

	top2, err := analysis.TopRatedInGenre(cleaned(t), "sci-fi", 2)
	require.NoError(t, err)
	assert.Len(t, top2.TableData.Rows, 2)
}

func TestTopQueries(t *testing.T) {
	tbl := cleaned(t)

	tests := []struct {
		name string
		run  func(*dataset.Table, int) (*engine.Result, error)
		want []kv
	}{
		{
			name: "years by mean rating",
			run:  analysis.TopYearsByRating,
			want: []kv{{"1975", 8.0333}, {"1993", 8.0}, {"1977", 7.7333}, {"2014", 7.575}},
		},
		{
			name: "genres by total gross",
			run:  analysis.TopGenresByGross,
			want: []kv{{"Action", 1878e6}, {"Adventure", 1701e6}, {"Sci-Fi", 1075e6}, {"Thriller", 470e6}, {"Animation", 469e6}},
		},
		{
			name: "studios by mean gross skips missing",
			run:  analysis.TopStudiosByAverageGross,
			want: []kv{
				{"Marvel Studios", 774e6},
				{"Paramount Pictures", 671e6},
				{"Universal Pictures", 607e6},
				{"Warner Bros.", 469e6},
				{"Twentieth Century Fox", 457.5e6},
			},
		},
		{
			name: "studios by releases",
			run:  analysis.TopStudiosByReleases,
			want: []kv{
				{"Paramount Pictures", 3},
				{"Twentieth Century Fox", 3},
				{"Universal Pictures", 3},
				{"Columbia Pictures", 1},
				{"Marvel Studios", 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tt.run(tbl, analysis.DefaultTopN)
			require.NoError(t, err)
			got := pairs(res.Groups)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.Equal(t, tt.want[i].key, got[i].key, "rank %d", i)
				assert.InDelta(t, tt.want[i].value, got[i].value, 1e-3, "rank %d", i)
			}
		})
	}
}

func TestTop_RowOrderIndependent(t *testing.T) {
	lines := strings.Split(strings.TrimRight(string(testutil.BlockbustersCSV), "\n"), "\n")
	header, body := lines[0], lines[1:]
	reversed := make([]string, 0, len(lines))
	reversed = append(reversed, header)
	for i := len(body) - 1; i >= 0; i-- {
		reversed = append(reversed, body[i])
	}

	raw, err := dataset.Load(strings.NewReader(strings.Join(reversed, "\n") + "\n"))
	require.NoError(t, err)
	shuffled, err := analysis.Clean(raw)
	require.NoError(t, err)

	for _, spec := range []engine.QuerySpec{
		analysis.TopStudiosByReleasesSpec(10),
		analysis.TopGenresByGrossSpec(10),
		analysis.RatingFrequenciesSpec(),
	} {
		a, err := analysis.Run(cleaned(t), spec)
		require.NoError(t, err)
		b, err := analysis.Run(shuffled, spec)
		require.NoError(t, err)
		assert.Equal(t, pairs(a.Groups), pairs(b.Groups), spec.Title)
	}
}

func TestValueCounts(t *testing.T) {
	tbl := cleaned(t)
	res, err := analysis.ValueCounts(tbl, schema.ColGenre1)
	require.NoError(t, err)
	assert.Equal(t, kv{"Action", 2}, pairs(res.Groups)[0])

	_, err = analysis.ValueCounts(tbl, "budget")
	assert.True(t, errors.Is(err, dataset.ErrUnknownColumn))
}

func TestTop_UnknownMeasure(t *testing.T) {
	_, err := analysis.Top(cleaned(t), []string{schema.ColStudio}, "budget", engine.AggSum, engine.SortValueDesc, 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrUnknownKey))
}

func TestTop_Columns(t *testing.T) {
	tbl := cleaned(t)

	_, err := analysis.Top(tbl, []string{"budget"}, schema.ColWorldwideGross, engine.AggSum, engine.SortValueDesc, 5)
	assert.ErrorIs(t, err, dataset.ErrUnknownColumn)

	_, err = analysis.Top(tbl, []string{schema.ColGenre1, schema.ColRating, schema.ColYear}, "", engine.AggCount, engine.SortValueDesc, 5)
	assert.ErrorIs(t, err, analysis.ErrBadQuery)
}

func TestTop_Total(t *testing.T) {
	res, err := analysis.Top(cleaned(t), nil, schema.ColWorldwideGross, engine.AggSum, engine.SortValueDesc, 5)
	require.NoError(t, err)
	assert.Equal(t, "text", res.Type)
	assert.Equal(t, "Total worldwide_gross over all movies", res.Title)
	require.NotNil(t, res.Data)
	assert.Equal(t, "$6,401,000,000.00", res.Data.Value)
	assert.Equal(t, "1975 – 2014", res.Data.Period)
	assert.Equal(t, testutil.FixtureRows, res.Data.Count)
}

func TestTop_TwoColumns(t *testing.T) {
	res, err := analysis.Top(cleaned(t), []string{schema.ColRating, schema.ColYear}, "", engine.AggCount, engine.SortValueDesc, 2)
	require.NoError(t, err)
	assert.Equal(t, "chart", res.Type)
	assert.Equal(t, []string{"PG-13", "PG"}, []string{res.Groups[0].Label, res.Groups[1].Label})

	cfg := res.ChartConfig
	require.NotNil(t, cfg)
	assert.True(t, cfg.ShowLegend)
	require.Len(t, cfg.Series, 4)
	assert.Equal(t, "1993", cfg.Series[2].Name)
	assert.Equal(t, []engine.ChartPoint{{Label: "PG-13", Value: 2}, {Label: "PG", Value: 0}}, cfg.Series[2].Data)
}

func TestTop_SortByLabel(t *testing.T) {
	res, err := analysis.Top(cleaned(t), []string{schema.ColRating}, "", engine.AggCount, engine.SortLabelDesc, 0)
	require.NoError(t, err)
	assert.Equal(t, []kv{{"R", 4}, {"PG-13", 5}, {"PG", 4}}, pairs(res.Groups))
}

func TestBuildReport(t *testing.T) {
	raw, err := dataset.Load(testutil.Blockbusters())
	require.NoError(t, err)

	rep, err := analysis.BuildReport(raw, analysis.DefaultReportOptions())
	require.NoError(t, err)
	require.NotNil(t, rep.Cleaned)

	headings := make([]string, len(rep.Sections))
	for i, s := range rep.Sections {
		headings[i] = s.Heading
	}
	assert.Equal(t, "Dataset info", headings[0])
	assert.Contains(t, headings, "Movies per year")
	assert.Contains(t, headings, `Lookup "Guardians of the Galaxy"`)
	assert.Contains(t, headings, analysis.RatingsChartTitle)
	assert.Equal(t, "Top 5 studios by number of releases", headings[len(headings)-1])

	for _, s := range rep.Sections {
		switch {
		case strings.HasPrefix(s.Heading, "Lookup"):
			require.NotNil(t, s.Rows)
			assert.Equal(t, 1, s.Rows.Len())
		case s.Heading == "Title and IMDB rating":
			require.NotNil(t, s.Rows)
			assert.Equal(t, []string{schema.ColTitle, schema.ColIMDBRating}, s.Rows.Columns())
		}
	}
	assert.Contains(t, headings, "Title and IMDB rating")

	chart := rep.Chart()
	require.NotNil(t, chart)
	assert.Equal(t, analysis.RatingsChartTitle, chart.ChartConfig.Title)
}

func TestBuildReport_LookupMissing(t *testing.T) {
	raw, err := dataset.Load(testutil.Blockbusters())
	require.NoError(t, err)

	opts := analysis.DefaultReportOptions()
	opts.Lookup = "Avatar"
	_, err = analysis.BuildReport(raw, opts)
	assert.True(t, errors.Is(err, dataset.ErrNotFound))
}
