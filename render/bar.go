package render

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/spektr-org/boxoffice/engine"
)

// DefaultBarWidth is the length in runes of the longest console bar.
const DefaultBarWidth = 40

// BarChart draws cfg as horizontal text bars scaled to width, largest value
// = full width. With more than one series each bar is labelled
// "label / series". Missing (NaN) values print without a bar.
func BarChart(w io.Writer, cfg *engine.ChartConfig, width int) error {
	if cfg == nil || len(cfg.Series) == 0 || len(cfg.Series[0].Data) == 0 {
		return ErrEmptyChart
	}

	peak := 0.0
	for _, s := range cfg.Series {
		for _, p := range s.Data {
			if !math.IsNaN(p.Value) {
				peak = math.Max(peak, p.Value)
			}
		}
	}

	fmt.Fprintln(w, cfg.Title)
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\n", cfg.XAxis, cfg.YAxis)
	multi := len(cfg.Series) > 1
	for _, s := range cfg.Series {
		for _, p := range s.Data {
			label := p.Label
			if multi {
				label = p.Label + " / " + s.Name
			}
			n := 0
			if peak > 0 && p.Value > 0 {
				n = max(1, int(math.Round(p.Value/peak*float64(width))))
			}
			fmt.Fprintf(tw, "%s\t%s %s\n", label, strings.Repeat("█", n), engine.FormatNumber(p.Value))
		}
	}
	return tw.Flush()
}
