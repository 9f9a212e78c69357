package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/spektr-org/boxoffice/analysis"
	"github.com/spektr-org/boxoffice/engine"
	"github.com/spektr-org/boxoffice/render"
	"github.com/spektr-org/boxoffice/schema"
	"github.com/spektr-org/boxoffice/store"
)

// ── report ──────────────────────────────────────────────────────────────────

func (a *app) reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Run the full walkthrough (default)",
		Args:  cobra.NoArgs,
		RunE:  a.runReport,
	}
}

func (a *app) runReport(cmd *cobra.Command, args []string) error {
	f, err := a.outputFormat()
	if err != nil {
		return err
	}
	raw, err := a.loadRaw(cmd.Context())
	if err != nil {
		return err
	}

	opts := analysis.DefaultReportOptions()
	opts.TopN = a.topN
	rep, err := analysis.BuildReport(raw, opts)
	if err != nil {
		return err
	}
	if err := render.WriteReport(a.out, rep, f); err != nil {
		return err
	}
	return a.saveChart(rep, a.chartOut)
}

// ── structure ───────────────────────────────────────────────────────────────

func (a *app) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Column dtypes and non-null counts of the raw file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.outputFormat()
			if err != nil {
				return err
			}
			raw, err := a.loadRaw(cmd.Context())
			if err != nil {
				return err
			}
			return render.WriteInfo(a.out, raw.Info(), f)
		},
	}
}

func (a *app) headCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "head",
		Short: "First rows of the cleaned table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.outputFormat()
			if err != nil {
				return err
			}
			tbl, err := a.loadClean(cmd.Context())
			if err != nil {
				return err
			}
			return render.WriteRows(a.out, tbl.Head(n), f)
		},
	}
	cmd.Flags().IntVarP(&n, "rows", "n", 5, "Number of rows")
	return cmd
}

func (a *app) tailCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Last rows of the cleaned table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.outputFormat()
			if err != nil {
				return err
			}
			tbl, err := a.loadClean(cmd.Context())
			if err != nil {
				return err
			}
			return render.WriteRows(a.out, tbl.Tail(n), f)
		},
	}
	cmd.Flags().IntVarP(&n, "rows", "n", 5, "Number of rows")
	return cmd
}

func (a *app) describeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "Summary statistics of the numeric columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.outputFormat()
			if err != nil {
				return err
			}
			tbl, err := a.loadClean(cmd.Context())
			if err != nil {
				return err
			}
			return render.WriteDescribe(a.out, tbl.Describe(), f)
		},
	}
}

// ── queries ─────────────────────────────────────────────────────────────────

func (a *app) countsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "counts <column>",
		Short: "Value counts of a column, most frequent first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.outputFormat()
			if err != nil {
				return err
			}
			tbl, err := a.loadClean(cmd.Context())
			if err != nil {
				return err
			}
			res, err := analysis.ValueCounts(tbl, args[0])
			if err != nil {
				return err
			}
			return render.WriteResult(a.out, res, f)
		},
	}
}

func (a *app) topCmd() *cobra.Command {
	var by []string
	var measure, agg, sortBy string
	var n int
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Group by up to two columns, aggregate a measure, keep the top N",
		Long: `Group by up to two columns, aggregate a measure, keep the top N.

One --by column prints a ranked table. Two columns (--by Genre_1,rating)
print one series per value of the second column. Without --by the
aggregate is computed over every movie.`,
		Example: `  boxoffice top --by studio --measure worldwide_gross --agg avg
  boxoffice top --by Genre_1 --measure worldwide_gross --agg sum -n 10
  boxoffice top --by Genre_1,rating --agg count
  boxoffice top --by studio --agg count --sort label_asc
  boxoffice top --measure imdb_rating --agg max`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch agg {
			case engine.AggAvg, engine.AggSum, engine.AggCount, engine.AggMax, engine.AggMin:
			default:
				return fmt.Errorf("invalid --agg %q (want avg, sum, count, max or min)", agg)
			}
			switch sortBy {
			case engine.SortValueDesc, engine.SortValueAsc, engine.SortLabelAsc, engine.SortLabelDesc:
			default:
				return fmt.Errorf("invalid --sort %q (want value_desc, value_asc, label_asc or label_desc)", sortBy)
			}
			if n <= 0 {
				n = a.topN
			}
			f, err := a.outputFormat()
			if err != nil {
				return err
			}
			tbl, err := a.loadClean(cmd.Context())
			if err != nil {
				return err
			}
			res, err := analysis.Top(tbl, by, measure, agg, sortBy, n)
			if err != nil {
				return err
			}
			return render.WriteResult(a.out, res, f)
		},
	}
	cmd.Flags().StringSliceVar(&by, "by", nil, "Columns to group by, comma separated (at most two; none for a single total)")
	cmd.Flags().StringVar(&measure, "measure", schema.ColWorldwideGross, "Measure to aggregate")
	cmd.Flags().StringVar(&agg, "agg", engine.AggAvg, "Aggregation: avg, sum, count, max, min")
	cmd.Flags().StringVar(&sortBy, "sort", engine.SortValueDesc, "Group order: value_desc, value_asc, label_asc, label_desc")
	cmd.Flags().IntVarP(&n, "rows", "n", 0, "Number of groups (default BOXOFFICE_TOP_N)")
	return cmd
}

func (a *app) genreCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "genre [name]",
		Short: "Top rated movies tagged with a genre in any genre column",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			genre := analysis.DefaultGenre
			if len(args) == 1 {
				genre = args[0]
			}
			f, err := a.outputFormat()
			if err != nil {
				return err
			}
			tbl, err := a.loadClean(cmd.Context())
			if err != nil {
				return err
			}
			res, err := analysis.TopRatedInGenre(tbl, genre, n)
			if err != nil {
				return err
			}
			return render.WriteResult(a.out, res, f)
		},
	}
	cmd.Flags().IntVarP(&n, "rows", "n", analysis.DefaultGenreLimit, "Number of movies")
	return cmd
}

func (a *app) lookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <title>",
		Short: "Rows whose title matches exactly (typed movie records with --format json)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.outputFormat()
			if err != nil {
				return err
			}
			tbl, err := a.loadClean(cmd.Context())
			if err != nil {
				return err
			}
			indexed, err := tbl.IndexBy(schema.ColTitle)
			if err != nil {
				return err
			}
			rows, err := indexed.Loc(strings.Join(args, " "))
			if err != nil {
				return err
			}
			if f == render.FormatJSON {
				return render.JSON(a.out, rows.Movies())
			}
			return render.WriteRows(a.out, rows, f)
		},
	}
}

func (a *app) chartCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "MPAA ratings frequencies bar chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.outputFormat()
			if err != nil {
				return err
			}
			tbl, err := a.loadClean(cmd.Context())
			if err != nil {
				return err
			}
			res, err := analysis.RatingFrequencies(tbl)
			if err != nil {
				return err
			}
			if err := render.WriteResult(a.out, res, f); err != nil {
				return err
			}
			if out == "" {
				out = a.chartOut
			}
			if out == "" {
				return nil
			}
			return render.SavePNG(out, res.ChartConfig)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "PNG output path (default --chart-out)")
	return cmd
}

// ── schema & export ─────────────────────────────────────────────────────────

func (a *app) discoverCmd() *cobra.Command {
	var recoverCols []string
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Print the auto-detected column schema as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			comma, err := a.comma()
			if err != nil {
				return err
			}
			fh, err := os.Open(a.file)
			if err != nil {
				return fmt.Errorf("failed to open dataset: %w", err)
			}
			defer fh.Close()

			opts := schema.DefaultDiscoverOptions()
			opts.RecoverColumns = recoverCols
			opts.Delimiter = comma
			sch, err := schema.DiscoverFromCSV(fh, opts)
			if err != nil {
				return fmt.Errorf("auto-detect failed: %w", err)
			}
			log.Info().
				Int("dimensions", len(sch.Dimensions)).
				Int("measures", len(sch.Measures)).
				Int("skipped", len(sch.SkippedColumns)).
				Msg("🔍 auto-detect")
			return render.JSON(a.out, sch)
		},
	}
	cmd.Flags().StringSliceVar(&recoverCols, "recover", nil, "Columns to keep even if auto-skipped")
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the cleaned table to a SQLite database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				return fmt.Errorf("--sqlite is required")
			}
			ctx := cmd.Context()
			tbl, err := a.loadClean(ctx)
			if err != nil {
				return err
			}
			s, err := store.Open(ctx, path)
			if err != nil {
				return err
			}
			defer s.Close()

			if _, err := s.Save(ctx, tbl); err != nil {
				return err
			}
			n, err := s.Count(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Exported %d movies to %s\n", n, path)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "sqlite", "", "SQLite database path")
	return cmd
}
