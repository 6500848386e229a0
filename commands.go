package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"cursor-stats/config"
	"cursor-stats/models"
	"cursor-stats/report"
	"cursor-stats/services"
	"cursor-stats/storage"
	"cursor-stats/utils"
)

// app is the state shared by every command once flags and config are resolved.
type app struct {
	cfg      *config.Config
	logger   *utils.Logger
	runID    uuid.UUID
	domain   models.EmailDomain
	pipeline *services.Pipeline
}

type globalFlags struct {
	domain      string
	tinderOnly  bool
	concurrency int
	logLevel    string
}

func newRootCmd() *cobra.Command {
	var (
		flags globalFlags
		a     = &app{}
	)

	root := &cobra.Command{
		Use:   "cursorstats",
		Short: "Merge Cursor usage CSV exports into one row per user",
		Long: `cursorstats reads one or more Cursor usage CSV exports, keeps the rows of
one IDE extension, optionally restricts them to a company email domain, and
merges the daily rows of each user into a single row.

Merged rows can be exported as CSV (plus optional XLSX and PostgreSQL sinks),
previewed in the terminal, or summarised per company as a table or chart.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd, flags)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.domain, "domain", "", "email domain filter: tinder, hinge, okcupid, match, theLeague, eureka, meetic or all")
	pf.BoolVar(&flags.tinderOnly, "tinder-only", false, "only include @gotinder.com emails (same as --domain tinder)")
	pf.IntVar(&flags.concurrency, "concurrency", 0, "files parsed in parallel (default from MAX_CONCURRENCY)")
	pf.StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error (default from LOG_LEVEL)")

	root.AddCommand(exportCmd(a))
	root.AddCommand(previewCmd(a))
	root.AddCommand(summaryCmd(a))
	root.AddCommand(statsCmd(a))
	root.AddCommand(chartCmd(a))
	root.AddCommand(domainsCmd())

	return root
}

func (a *app) init(cmd *cobra.Command, flags globalFlags) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("domain") {
		cfg.EmailDomain = flags.domain
	}
	if cmd.Flags().Changed("tinder-only") {
		cfg.TinderOnly = flags.tinderOnly
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.MaxConcurrency = flags.concurrency
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	domain, err := cfg.Domain()
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.domain = domain
	a.runID = uuid.New()
	a.logger = utils.NewLogger()
	a.logger.SetLevel(utils.ParseLevel(cfg.LogLevel))
	a.pipeline = services.NewPipeline(a.logger, cfg.MaxConcurrency)

	a.logger.Debug("Run %s: domain=%s concurrency=%d", a.runID, domain.DisplayName(), cfg.MaxConcurrency)
	return nil
}

// load reads every input file. Unreadable files are reported but do not
// abort the run as long as at least one file produced rows.
func (a *app) load(ctx context.Context, paths []string) ([]*models.Row, error) {
	rows, err := a.pipeline.LoadFiles(ctx, paths)
	if err != nil {
		if len(rows) == 0 {
			return nil, err
		}
		a.logger.Warn("Some files could not be loaded: %v", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("no data rows found in the given files")
	}
	a.logger.Info("Loaded %d rows from %d file(s)", len(rows), len(paths))
	return rows, nil
}

func exportCmd(a *app) *cobra.Command {
	var (
		outDir   string
		ext      string
		fileName string
		xlsx     bool
		postgres bool
	)

	cmd := &cobra.Command{
		Use:   "export FILE...",
		Short: "Write merged iOS and Android CSV files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if cmd.Flags().Changed("out") {
				a.cfg.OutputDir = outDir
			}
			if cmd.Flags().Changed("xlsx") {
				a.cfg.WriteXLSX = xlsx
			}
			if cmd.Flags().Changed("postgres") {
				a.cfg.Postgres.Enabled = postgres
			}

			variants := a.cfg.Variants()
			if ext != "" {
				variants = []models.Variant{singleVariant(ext, fileName)}
			}

			rows, err := a.load(ctx, args)
			if err != nil {
				return err
			}

			a.logger.Info("=== Exporting run %s (%s) ===", a.runID, a.domain.DisplayName())
			exports := a.pipeline.BuildExports(rows, variants, a.domain)

			saver := storage.NewFileSaver(a.logger)
			written, saveErr := saver.SaveExports(a.cfg.OutputDir, exports)

			var errs []error
			if saveErr != nil {
				errs = append(errs, saveErr)
			}
			if err := a.writeSinks(ctx, exports); err != nil {
				errs = append(errs, err)
			}

			for _, p := range written {
				fmt.Fprintf(cmd.OutOrStdout(), "  wrote %s\n", p)
			}
			return errors.Join(errs...)
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "destination directory (default from OUTPUT_DIR)")
	cmd.Flags().StringVar(&ext, "ext", "", "export a single extension instead of the iOS/Android pair")
	cmd.Flags().StringVar(&fileName, "file", "cursor_stats.csv", "file name used with --ext")
	cmd.Flags().BoolVar(&xlsx, "xlsx", false, "also write an XLSX workbook (default from WRITE_XLSX)")
	cmd.Flags().BoolVar(&postgres, "postgres", false, "also store merged rows in PostgreSQL (default from POSTGRES_ENABLED)")
	return cmd
}

// writeSinks feeds the exports to the optional XLSX and PostgreSQL sinks.
// Each sink is attempted even when the other fails.
func (a *app) writeSinks(ctx context.Context, exports []models.ExportFile) error {
	var sinks []storage.ExportWriter
	var errs []error

	if a.cfg.WriteXLSX {
		sinks = append(sinks, storage.NewXLSXWriter(filepath.Join(a.cfg.OutputDir, a.cfg.XLSXFileName)))
	}
	if a.cfg.Postgres.Enabled {
		retry := &utils.RetryConfig{MaxAttempts: a.cfg.MaxRetries, BaseDelay: 2 * time.Second, Logger: a.logger}
		pg, err := storage.NewPostgresWriter(ctx, a.cfg.DSN(), a.runID, retry)
		if err != nil {
			a.logger.Error("Failed to connect to PostgreSQL: %v", err)
			errs = append(errs, err)
		} else {
			a.logger.Info("Storing run %s in PostgreSQL", pg.RunID())
			sinks = append(sinks, pg)
		}
	}

	for _, sink := range sinks {
		for _, f := range exports {
			if err := sink.WriteExport(f); err != nil {
				a.logger.Error("Sink write for %s failed: %v", f.Label, err)
				errs = append(errs, err)
			}
		}
		if err := sink.Close(); err != nil {
			a.logger.Error("Closing sink failed: %v", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func previewCmd(a *app) *cobra.Command {
	var (
		ext   string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "preview FILE...",
		Short: "Print merged rows and the company dashboard without writing files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := a.load(cmd.Context(), args)
			if err != nil {
				return err
			}

			merged := <-a.pipeline.Aggregator.AggregateAsync(rows, ext, a.domain)
			preview := a.pipeline.Exporter.ToPreviewRows(merged)

			dash := services.NewDashboard(cmd.OutOrStdout())
			dash.PrintRows(preview, limit)
			dash.PrintCompanies("Usage dashboard: "+ext, a.pipeline.Reducer.Summarize(preview), models.MetricEmployees)
			return nil
		},
	}

	cmd.Flags().StringVar(&ext, "ext", "swift", "extension to preview")
	cmd.Flags().IntVar(&limit, "limit", 25, "maximum rows to print, 0 for all")
	return cmd
}

func summaryCmd(a *app) *cobra.Command {
	var (
		ext    string
		metric string
	)

	cmd := &cobra.Command{
		Use:   "summary FILE...",
		Short: "Print employees and requests per company",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := models.ParseChartMetric(metric)
			if err != nil {
				return err
			}
			rows, err := a.load(cmd.Context(), args)
			if err != nil {
				return err
			}

			merged := a.pipeline.Aggregator.Aggregate(rows, ext, a.domain)
			services.NewDashboard(cmd.OutOrStdout()).
				PrintCompanies("Company summary: "+ext, a.pipeline.Reducer.Summarize(merged), m)
			return nil
		},
	}

	cmd.Flags().StringVar(&ext, "ext", "swift", "extension to summarise")
	cmd.Flags().StringVar(&metric, "metric", string(models.MetricRequests), "ranking metric: employees or requests")
	return cmd
}

func statsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats FILE...",
		Short: "Describe the loaded rows before merging",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := a.load(cmd.Context(), args)
			if err != nil {
				return err
			}
			services.NewDashboard(cmd.OutOrStdout()).PrintLoad(a.pipeline.Reducer.SummarizeLoad(rows))
			return nil
		},
	}
}

func chartCmd(a *app) *cobra.Command {
	var (
		ext       string
		metric    string
		chartType string
		out       string
		title     string
	)

	cmd := &cobra.Command{
		Use:   "chart FILE...",
		Short: "Render the company chart as PNG (or HTML when --out ends in .html)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := report.DefaultChartOptions()
			var err error
			if opts.Metric, err = models.ParseChartMetric(metric); err != nil {
				return err
			}
			if opts.Type, err = models.ParseChartType(chartType); err != nil {
				return err
			}
			if title != "" {
				opts.Title = title
			}

			rows, err := a.load(cmd.Context(), args)
			if err != nil {
				return err
			}
			merged := a.pipeline.Aggregator.Aggregate(rows, ext, a.domain)
			stats := a.pipeline.Reducer.Summarize(merged)

			page, err := report.BuildChartHTML(stats, opts)
			if err != nil {
				return err
			}

			data := []byte(page)
			if !strings.EqualFold(filepath.Ext(out), ".html") {
				renderer := report.NewChartRenderer(a.logger, a.cfg.ChromeBin, a.cfg.MaxRetries)
				if data, err = renderer.RenderPNG(cmd.Context(), page, opts.Width, opts.Height); err != nil {
					return err
				}
			}

			if err := storage.NewFileSaver(a.logger).Save(out, data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&ext, "ext", "swift", "extension to chart")
	cmd.Flags().StringVar(&metric, "metric", string(models.MetricEmployees), "employees or requests")
	cmd.Flags().StringVar(&chartType, "type", string(models.ChartPie), "pie or bar")
	cmd.Flags().StringVarP(&out, "out", "o", "cursor_chart.png", "output file (.png or .html)")
	cmd.Flags().StringVar(&title, "title", "", "chart title")
	return cmd
}

func domainsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "domains",
		Short: "List the supported email domain filters",
		Args:  cobra.NoArgs,
		// Listing the table needs no configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			for _, d := range models.AllDomains() {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-10s %s\n", d, d.DisplayName())
			}
		},
	}
}

// singleVariant builds an export for one extension, reusing the iOS/Android
// label when the extension is one of theirs.
func singleVariant(ext, fileName string) models.Variant {
	for _, v := range models.DefaultVariants {
		if strings.EqualFold(v.Extension, ext) {
			v.FileName = fileName
			return v
		}
	}
	return models.Variant{Extension: ext, Label: ext, FileName: fileName}
}
