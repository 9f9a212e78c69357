package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/rs/zerolog/log"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/spektr-org/boxoffice/engine"
)

// ============================================================================
// PNG BAR CHART — go-chart rendering of a single-series ChartConfig
// ============================================================================

// ErrEmptyChart is returned when a chart has no series or no points.
var ErrEmptyChart = errors.New("chart has no data")

var barColors = []drawing.Color{
	chart.ColorBlue, chart.ColorGreen, chart.ColorOrange, chart.ColorRed,
	chart.ColorAlternateGray, chart.ColorCyan,
}

// WritePNG renders the first series of cfg as a bar chart PNG.
// Points with a missing (NaN) value are left out.
func WritePNG(w io.Writer, cfg *engine.ChartConfig) error {
	if cfg == nil || len(cfg.Series) == 0 {
		return ErrEmptyChart
	}

	bars := make([]chart.Value, 0, len(cfg.Series[0].Data))
	for _, p := range cfg.Series[0].Data {
		if math.IsNaN(p.Value) {
			continue
		}
		i := len(bars)
		bars = append(bars, chart.Value{
			Label: p.Label,
			Value: p.Value,
			Style: chart.Style{
				FillColor:   barColors[i%len(barColors)],
				StrokeColor: barColors[i%len(barColors)],
				StrokeWidth: 1,
			},
		})
	}
	if len(bars) == 0 {
		return ErrEmptyChart
	}

	bc := chart.BarChart{
		Title:      cfg.Title,
		Height:     480,
		Width:      max(480, 100*len(bars)+160),
		BarWidth:   60,
		BarSpacing: 40,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 72, Right: 16, Bottom: 64}},
		YAxis:      chart.YAxis{Name: cfg.YAxis},
		Bars:       bars,
	}
	bc.Elements = []chart.Renderable{axisNames(cfg.XAxis, cfg.YAxis)}

	if err := bc.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// SavePNG writes the chart to path.
func SavePNG(path string, cfg *engine.ChartConfig) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	if err := WritePNG(f, cfg); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("📈 chart written")
	return nil
}

// axisNames draws the x label under the bars and the y label rotated on the left.
func axisNames(x, y string) chart.Renderable {
	return func(r chart.Renderer, canvas chart.Box, defaults chart.Style) {
		r.SetFont(defaults.GetFont())
		r.SetFontColor(chart.ColorBlack)
		r.SetFontSize(11)

		if x != "" {
			tb := r.MeasureText(x)
			r.Text(x, canvas.Left+(canvas.Width()-tb.Width())/2, canvas.Bottom+44)
		}
		if y != "" {
			tb := r.MeasureText(y)
			r.SetTextRotation(chart.DegreesToRadians(270))
			r.Text(y, canvas.Left-52, canvas.Top+(canvas.Height()+tb.Width())/2)
			r.ClearTextRotation()
		}
	}
}
