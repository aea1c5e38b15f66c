package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jhouedanou/lessonpatch/internal/config"
	"github.com/jhouedanou/lessonpatch/internal/database"
	"github.com/jhouedanou/lessonpatch/internal/log"
	"github.com/jhouedanou/lessonpatch/internal/model"
	"github.com/jhouedanou/lessonpatch/internal/pipeline"
	"github.com/jhouedanou/lessonpatch/internal/report"
	"github.com/spf13/cobra"
)

// errDocumentsFailed is returned when at least one document of a run failed.
var errDocumentsFailed = errors.New("one or more documents failed")

// variant describes how a patch command builds its pipelines.
type variant struct {
	// name is the pipeline name shown in reports.
	name string

	// registry returns the documents processed by --all.
	registry func(f *config.File) []string

	// factory returns the per-document pipeline constructor.
	factory func(cfg *config.Config, logger *slog.Logger) (func() *pipeline.Pipeline, error)
}

// addPatchFlags registers the flags shared by the quiz and theme commands.
func addPatchFlags(cmd *cobra.Command) {
	// Target flags
	cmd.Flags().BoolP("all", "a", false,
		"Patch every document of the built-in or configured registry")
	cmd.Flags().String("root", config.DefaultRootDir,
		"Directory relative document paths are resolved against")
	cmd.Flags().String("lesson-id", "",
		"Override the lesson identifier derived from the file name (one document only)")

	// Behavior flags
	cmd.Flags().BoolP("dry-run", "n", false,
		"Report the changes without writing backups or documents")
	cmd.Flags().Int("concurrency", config.DefaultConcurrency,
		"Number of documents patched at once")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .lessonpatch.yaml in current, XDG config or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// History flags
	cmd.Flags().Bool("no-history", false,
		"Do not record the run in the history database")
	cmd.Flags().String("db-dir", "",
		"Directory of the history database (default: XDG data directory)")
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags and the
// configuration file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Documents = args
	cfg.Verbose = getVerboseFlag(cmd)

	var err error

	if cfg.All, err = cmd.Flags().GetBool("all"); err != nil {
		return nil, err
	}
	if cfg.RootDir, err = cmd.Flags().GetString("root"); err != nil {
		return nil, err
	}
	if cfg.LessonID, err = cmd.Flags().GetString("lesson-id"); err != nil {
		return nil, err
	}
	if cfg.DryRun, err = cmd.Flags().GetBool("dry-run"); err != nil {
		return nil, err
	}
	if cfg.Concurrency, err = cmd.Flags().GetInt("concurrency"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = cmd.Flags().GetString("config"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}

	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveHistory = !noHistory

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if dbDir != "" {
		cfg.DBDir = dbDir
	}

	// An explicit --config must exist; otherwise the built-in settings apply
	// when no file is found.
	if _, err := cfg.Load(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return cfg, nil
}

// runPatchCmd returns the RunE function of a patch command.
func runPatchCmd(v variant) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig(cmd, args)
		if err != nil {
			return err
		}

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		logger := log.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)

		// Cancel on interrupt; documents already started finish their commit.
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runPatch(ctx, cmd.OutOrStdout(), cfg, v, logger)
	}
}

// runPatch executes one pipeline variant over the configured targets.
func runPatch(ctx context.Context, stdout io.Writer, cfg *config.Config, v variant, logger *slog.Logger) error {
	targets := cfg.Targets(v.registry(cfg.File))

	factory, err := v.factory(cfg, logger)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger.Info("starting patch run",
		"pipeline", v.name,
		"documents", len(targets),
		"dry_run", cfg.DryRun,
		"save_history", cfg.SaveHistory,
	)

	// Open database connection if history is enabled
	var db *database.HistoryDB
	if cfg.SaveHistory {
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	output, closeOutput, err := openOutput(cfg.ReportFile, stdout)
	if err != nil {
		return err
	}
	defer closeOutput()

	writer := newReportWriter(cfg, output)
	streaming := !cfg.JSONReport

	bp := pipeline.NewBatchProcessor(factory,
		pipeline.WithConcurrency(cfg.Concurrency),
		pipeline.WithDryRun(cfg.DryRun),
		pipeline.WithLessonID(cfg.LessonID),
		pipeline.WithBatchLogger(logger),
	)

	reports := make([]*model.PatchReport, len(targets))
	batchErr := bp.ProcessBatchWithCallback(ctx, targets, func(r *model.PatchReport, index int) {
		reports[index] = r

		if streaming {
			if _, err := writer.Write(r); err != nil {
				logger.Error("report failed", "document", r.Path, "error", err)
			}
		}

		if err := saveRun(ctx, db, r, logger); err != nil {
			logger.Error("failed to save patch run", "document", r.Path, "error", err)
		}
	})

	summary := model.NewBatchSummary(v.name, cfg.DryRun, reports)
	if _, err := writer.WriteSummary(summary); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	if batchErr != nil {
		return fmt.Errorf("patch run interrupted: %w", batchErr)
	}
	if !summary.Succeeded() {
		return fmt.Errorf("%w: %d of %d", errDocumentsFailed, summary.Failed, summary.Total)
	}
	return nil
}

// newReportWriter selects the writer for the requested format.
func newReportWriter(cfg *config.Config, output io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}
}

// openOutput returns the report destination: the report file when one is
// configured, stdout otherwise. The returned function closes the file.
func openOutput(reportFile string, stdout io.Writer) (io.Writer, func(), error) {
	if reportFile == "" {
		return stdout, func() {}, nil
	}

	// Create directories if they don't exist
	dir := filepath.Dir(reportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Reports name backup paths and local directories, so only the owner reads them
	f, err := os.OpenFile(reportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return f, func() { _ = f.Close() }, nil //nolint:errcheck // Best effort close after writes
}

// saveRun records the report in the history database.
// If db is nil, this function is a no-op.
func saveRun(ctx context.Context, db *database.HistoryDB, r *model.PatchReport, logger *slog.Logger) error {
	if db == nil || r == nil {
		return nil
	}

	// The run is recorded even when the batch is being cancelled.
	id, err := db.SaveRun(context.WithoutCancel(ctx), r)
	if err != nil {
		return fmt.Errorf("failed to save patch run: %w", err)
	}

	logger.Info("patch run saved to database", "document", r.Path, "run_id", id)
	return nil
}
