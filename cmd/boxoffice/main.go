package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/spektr-org/boxoffice/analysis"
	"github.com/spektr-org/boxoffice/dataset"
	"github.com/spektr-org/boxoffice/internal/config"
	"github.com/spektr-org/boxoffice/internal/logging"
	"github.com/spektr-org/boxoffice/render"
	"github.com/spektr-org/boxoffice/store"
)

// ============================================================================
// BOXOFFICE CLI — Exploratory analysis of the blockbuster movies dataset
// ============================================================================

const version = "0.3.0"

// app carries the resolved flags shared by every command.
type app struct {
	file         string
	sqliteSource string
	format       string
	logLevel     string
	logFormat    string
	chartOut     string
	delimiter    string
	topN         int

	out io.Writer
	err io.Writer
}

func newRootCmd(cfg config.Config, stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		file:      cfg.File,
		format:    cfg.Format,
		logLevel:  cfg.LogLevel,
		logFormat: cfg.LogFormat,
		chartOut:  cfg.ChartOut,
		delimiter: cfg.Delimiter,
		topN:      cfg.TopN,
		out:       stdout,
		err:       stderr,
	}

	root := &cobra.Command{
		Use:   "boxoffice",
		Short: "Explore the blockbuster movies dataset (1975-2014)",
		Long: `boxoffice loads the top-ten-movies-per-year CSV, cleans its currency
columns, and runs the exploratory walkthrough: structure, selections,
value counts, grouped rankings and the MPAA ratings bar chart.

Environment:
  BOXOFFICE_FILE, BOXOFFICE_CHART_OUT, BOXOFFICE_FORMAT,
  BOXOFFICE_LOG_LEVEL, BOXOFFICE_LOG_FORMAT, BOXOFFICE_TOP_N,
  BOXOFFICE_DELIMITER
  (also read from .env)`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logging.Setup(a.err, a.logLevel, a.logFormat)
		},
		RunE: a.runReport,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.file, "file", a.file, "Path to the movies CSV")
	pf.StringVar(&a.delimiter, "delimiter", a.delimiter, "CSV field delimiter (one character)")
	pf.StringVar(&a.sqliteSource, "sqlite-source", "", "Read movies from an exported SQLite database instead of the CSV")
	pf.StringVar(&a.format, "format", a.format, "Output format: text, json or csv")
	pf.StringVar(&a.logLevel, "log-level", a.logLevel, "Log level: debug, info, warn, error")
	pf.StringVar(&a.chartOut, "chart-out", a.chartOut, "Write the ratings bar chart PNG to this path")

	root.AddCommand(
		a.reportCmd(),
		a.infoCmd(),
		a.headCmd(), a.tailCmd(),
		a.describeCmd(),
		a.countsCmd(),
		a.topCmd(),
		a.genreCmd(),
		a.lookupCmd(),
		a.chartCmd(),
		a.discoverCmd(),
		a.exportCmd(),
	)
	return root
}

// ============================================================================
// LOADING
// ============================================================================

func (a *app) outputFormat() (render.Format, error) {
	return render.ParseFormat(a.format)
}

// comma returns the CSV field delimiter; empty means ','.
func (a *app) comma() (rune, error) {
	if a.delimiter == "" {
		return ',', nil
	}
	r := []rune(a.delimiter)
	if len(r) != 1 || r[0] == '"' || r[0] == '\n' || r[0] == '\r' {
		return 0, fmt.Errorf("invalid --delimiter %q (want a single character)", a.delimiter)
	}
	return r[0], nil
}

// loadRaw reads the table as stored, before cleaning.
func (a *app) loadRaw(ctx context.Context) (*dataset.Table, error) {
	if a.sqliteSource != "" {
		s, err := store.Open(ctx, a.sqliteSource)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := s.Close(); err != nil {
				log.Warn().Err(err).Msg("failed to close SQLite source")
			}
		}()
		return s.Load(ctx)
	}

	comma, err := a.comma()
	if err != nil {
		return nil, err
	}
	tbl, err := dataset.LoadFile(a.file, dataset.WithDelimiter(comma))
	if err != nil {
		return nil, err
	}
	rows, cols := tbl.Shape()
	log.Info().Str("file", a.file).Int("rows", rows).Int("columns", cols).Msg("📊 loaded dataset")
	return tbl, nil
}

// loadClean reads and cleans the table.
func (a *app) loadClean(ctx context.Context) (*dataset.Table, error) {
	raw, err := a.loadRaw(ctx)
	if err != nil {
		return nil, err
	}
	return analysis.Clean(raw)
}

func (a *app) saveChart(rep *analysis.Report, path string) error {
	if path == "" || rep == nil {
		return nil
	}
	chart := rep.Chart()
	if chart == nil {
		return render.ErrEmptyChart
	}
	return render.SavePNG(path, chart.ChartConfig)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := newRootCmd(cfg, os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
