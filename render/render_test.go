package render_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/boxoffice/analysis"
	"github.com/spektr-org/boxoffice/dataset"
	"github.com/spektr-org/boxoffice/engine"
	"github.com/spektr-org/boxoffice/internal/testutil"
	"github.com/spektr-org/boxoffice/render"
)

func ratingsChart() *engine.ChartConfig {
	return &engine.ChartConfig{
		ChartType: "bar",
		Title:     analysis.RatingsChartTitle,
		XAxis:     analysis.RatingsChartX,
		YAxis:     analysis.RatingsChartY,
		Series: []engine.ChartSeries{{
			Name: analysis.RatingsChartY,
			Data: []engine.ChartPoint{
				{Label: "PG-13", Value: 5},
				{Label: "PG", Value: 4},
				{Label: "R", Value: 4},
			},
		}},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    render.Format
		wantErr bool
	}{
		{"text", render.FormatText, false},
		{"JSON", render.FormatJSON, false},
		{" csv ", render.FormatCSV, false},
		{"", render.FormatText, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := render.ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestBarChart_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.BarChart(&buf, ratingsChart(), 10))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "MPAA Ratings Frequencies", lines[0])
	assert.Contains(t, lines[1], "Rating")
	assert.Contains(t, lines[1], "Frequency")
	assert.Equal(t, 10, strings.Count(lines[2], "█"), "largest bar is full width")
	assert.Equal(t, 8, strings.Count(lines[3], "█"))
	assert.True(t, strings.HasSuffix(lines[4], " 4"))

	assert.ErrorIs(t, render.BarChart(&buf, &engine.ChartConfig{}, 10), render.ErrEmptyChart)
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.WritePNG(&buf, ratingsChart()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
	assert.Greater(t, buf.Len(), 1000)

	assert.ErrorIs(t, render.WritePNG(&buf, nil), render.ErrEmptyChart)
}

func TestResultCSV_Chart(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.ResultCSV(&buf, &engine.Result{ChartConfig: ratingsChart()}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Rating", "Frequency"},
		{"PG-13", "5"},
		{"PG", "4"},
		{"R", "4"},
	}, records)
}

// Two series over two labels; Y has no value in series A.
func splitChart() *engine.ChartConfig {
	return &engine.ChartConfig{
		Title: "Split",
		XAxis: "Label",
		YAxis: "Average",
		Series: []engine.ChartSeries{
			{Name: "A", Data: []engine.ChartPoint{{Label: "X", Value: 2}, {Label: "Y", Value: math.NaN()}}},
			{Name: "B", Data: []engine.ChartPoint{{Label: "X", Value: 4}, {Label: "Y", Value: 1}}},
		},
	}
}

func TestBarChart_MultiSeries(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.BarChart(&buf, splitChart(), 8))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[2], "X / A"))
	assert.Equal(t, 4, strings.Count(lines[2], "█"))
	assert.True(t, strings.HasPrefix(lines[3], "Y / A"))
	assert.Zero(t, strings.Count(lines[3], "█"))
	assert.True(t, strings.HasSuffix(lines[3], "NaN"))
	assert.Equal(t, 8, strings.Count(lines[4], "█"), "largest bar across all series is full width")
	assert.Equal(t, 2, strings.Count(lines[5], "█"))
}

func TestWritePNG_MissingValues(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.WritePNG(&buf, splitChart()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))

	allMissing := &engine.ChartConfig{Series: []engine.ChartSeries{{Data: []engine.ChartPoint{{Label: "Y", Value: math.NaN()}}}}}
	assert.ErrorIs(t, render.WritePNG(&buf, allMissing), render.ErrEmptyChart)
}

func TestResultCSV_MultiSeries(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.ResultCSV(&buf, &engine.Result{ChartConfig: splitChart()}))
	assert.Equal(t, "Label,A,B\nX,2,4\nY,NaN,1\n", buf.String())
}

func TestJSON_MissingValues(t *testing.T) {
	res := &engine.Result{
		Success:     true,
		Type:        "chart",
		ChartConfig: splitChart(),
		Groups:      []engine.Group{{Key: "Y", Label: "Y", Value: math.NaN(), Count: 1}},
		Data:        &engine.TextData{Value: "NaN", RawValue: math.NaN()},
	}
	var buf bytes.Buffer
	require.NoError(t, render.JSON(&buf, res))

	var decoded struct {
		ChartConfig struct {
			Series []struct {
				Data []struct {
					Value *float64 `json:"value"`
				} `json:"data"`
			} `json:"series"`
		} `json:"chartConfig"`
		Groups []struct {
			Value *float64 `json:"value"`
			Count int      `json:"count"`
		} `json:"groups"`
		Data struct {
			RawValue *float64 `json:"rawValue"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Nil(t, decoded.ChartConfig.Series[0].Data[1].Value)
	require.NotNil(t, decoded.ChartConfig.Series[0].Data[0].Value)
	assert.Equal(t, 2.0, *decoded.ChartConfig.Series[0].Data[0].Value)
	assert.Nil(t, decoded.Groups[0].Value)
	assert.Equal(t, 1, decoded.Groups[0].Count)
	assert.Nil(t, decoded.Data.RawValue)
}

func TestResultCSV_Table(t *testing.T) {
	res := &engine.Result{TableData: &engine.TableData{
		Columns: []engine.Column{{Key: "group", Label: "studio"}, {Key: "value", Label: "worldwide_gross"}},
		Rows:    [][]string{{"Marvel Studios", "774000000.00"}},
	}}
	var buf bytes.Buffer
	require.NoError(t, render.ResultCSV(&buf, res))
	assert.Equal(t, "studio,worldwide_gross\nMarvel Studios,774000000.00\n", buf.String())
}

func TestResultCSV_TextFallback(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.ResultCSV(&buf, &engine.Result{
		Reply:       "13 movies.",
		DisplayUnit: "$",
		Data:        &engine.TextData{RawValue: 1234.5},
	}))
	assert.Equal(t, "Summary,Value,Unit\n13 movies.,1234.50,$\n", buf.String())
}

func loadCleaned(t *testing.T) *dataset.Table {
	t.Helper()
	raw, err := dataset.Load(testutil.Blockbusters())
	require.NoError(t, err)
	tbl, err := analysis.Clean(raw)
	require.NoError(t, err)
	return tbl
}

func TestRows_Text(t *testing.T) {
	var buf bytes.Buffer
	tbl := loadCleaned(t)
	sel, err := tbl.Select("title", "rating")
	require.NoError(t, err)
	require.NoError(t, render.Rows(&buf, sel.Head(2)))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "title")
	assert.True(t, strings.HasPrefix(lines[1], "0 "))
	assert.Contains(t, lines[1], "Guardians of the Galaxy")
	assert.Contains(t, lines[2], "Interstellar")
}

func TestRowsJSON(t *testing.T) {
	rows := render.RowsJSON(loadCleaned(t))
	require.Len(t, rows, testutil.FixtureRows)
	assert.Equal(t, "Guardians of the Galaxy", rows[0]["title"])
	assert.Equal(t, 774e6, rows[0]["worldwide_gross"])
	assert.Nil(t, rows[11]["worldwide_gross"])
	assert.Nil(t, rows[7]["Genre_2"])
}

func TestWriteDescribe(t *testing.T) {
	stats := loadCleaned(t).Describe()

	var text bytes.Buffer
	require.NoError(t, render.WriteDescribe(&text, stats, render.FormatText))
	for _, label := range []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"} {
		assert.Contains(t, text.String(), label)
	}

	var js bytes.Buffer
	require.NoError(t, render.WriteDescribe(&js, stats, render.FormatJSON))
	assert.True(t, json.Valid(js.Bytes()))
}

func TestWriteReport(t *testing.T) {
	raw, err := dataset.Load(testutil.Blockbusters())
	require.NoError(t, err)
	rep, err := analysis.BuildReport(raw, analysis.DefaultReportOptions())
	require.NoError(t, err)

	var text bytes.Buffer
	require.NoError(t, render.WriteReport(&text, rep, render.FormatText))
	out := text.String()
	assert.Contains(t, out, "== Dataset info ==")
	assert.Contains(t, out, "== MPAA Ratings Frequencies ==")
	assert.Contains(t, out, "█")
	assert.Contains(t, out, "Marvel Studios")

	var js bytes.Buffer
	require.NoError(t, render.WriteReport(&js, rep, render.FormatJSON))
	var sections []map[string]any
	require.NoError(t, json.Unmarshal(js.Bytes(), &sections))
	assert.Len(t, sections, len(rep.Sections))

	var c bytes.Buffer
	require.NoError(t, render.WriteReport(&c, rep, render.FormatCSV))
	assert.Contains(t, c.String(), "# Movies per year")
}
