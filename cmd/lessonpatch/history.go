package main

import (
	"errors"
	"fmt"

	"github.com/jhouedanou/lessonpatch/internal/config"
	"github.com/jhouedanou/lessonpatch/internal/database"
	"github.com/jhouedanou/lessonpatch/internal/report"
	"github.com/spf13/cobra"
)

// defaultHistoryLimit is the number of runs listed by default.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
// This command lists the patch runs stored in the database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [document]",
		Short: "Show recorded patch runs",
		Long: `History lists the patch runs recorded by the quiz and theme commands.

Each run shows the pipeline, outcome, number of changes, the backup that
was written and the content digests before and after the run.

Examples:
  # Show the latest runs for every document
  lessonpatch history

  # Show the runs of one document
  lessonpatch history maths-lecon-2-diviseurs.html

  # List every document with recorded runs
  lessonpatch history --list-documents

  # Output in JSON format
  lessonpatch history --json --limit 5`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "l", defaultHistoryLimit,
		"Maximum number of runs to show (0 for all)")
	cmd.Flags().BoolP("list-documents", "L", false,
		"List every document with recorded runs")
	cmd.Flags().String("db-dir", "",
		"Directory of the history database (default: XDG data directory)")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output runs in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output runs in Markdown format")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	if limit < 0 {
		return errors.New("limit must not be negative")
	}

	listDocuments, err := cmd.Flags().GetBool("list-documents")
	if err != nil {
		return err
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonOutput && markdownOutput {
		return config.ErrConflictingReportFormats
	}

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if listDocuments {
		documents, err := db.ListDocuments(ctx)
		if err != nil {
			return fmt.Errorf("failed to list documents: %w", err)
		}
		if len(documents) == 0 {
			fmt.Fprintln(out, "No documents recorded.")
			return nil
		}
		for _, d := range documents {
			fmt.Fprintln(out, d)
		}
		return nil
	}

	var document string
	if len(args) == 1 {
		document = args[0]
	}

	runs, err := db.ListRuns(ctx, document, limit)
	if err != nil {
		return fmt.Errorf("failed to list patch runs: %w", err)
	}

	var writer report.Writer
	switch {
	case jsonOutput:
		writer = report.NewJSONWriter(out, report.WithPrettyPrint())
	case markdownOutput:
		writer = report.NewMarkdownWriter(out)
	default:
		writer = report.NewSimpleWriter(out)
	}

	_, err = writer.WriteHistory(runs)
	return err
}
