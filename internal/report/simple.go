package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jhouedanou/lessonpatch/internal/database"
	"github.com/jhouedanou/lessonpatch/internal/model"
)

// itoa is strconv.Itoa, shortened for table code.
func itoa(n int) string {
	return strconv.Itoa(n)
}

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
type SimpleWriter struct {
	baseWriter

	// verbose enables additional detail in the output
	// (digests, performed steps, section classification).
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs one document report.
func (w *SimpleWriter) Write(report *model.PatchReport) (int, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "[%s] %s (%s): %s\n", report.Pipeline, report.Path, report.Identifier(), report.Outcome)

	for _, e := range report.Changes {
		state := "-"
		if e.Applied {
			state = "applied"
		}
		fmt.Fprintf(&sb, "  %-13s %-8s %s\n", e.Name, state, changeCell(e))
	}

	if w.verbose {
		for _, s := range report.Sections {
			mark := ""
			if s.Patched {
				mark = " +placeholder"
			}
			fmt.Fprintf(&sb, "  section %d %-20s %s%s\n", s.Ordinal, s.ID, s.Role, mark)
		}
	}

	for _, d := range report.Diagnostics {
		fmt.Fprintf(&sb, "  ! %s\n", d)
	}

	if report.BackupPath != "" {
		fmt.Fprintf(&sb, "  backup: %s\n", report.BackupPath)
	}
	if report.ErrorMessage != "" {
		fmt.Fprintf(&sb, "  error: %s\n", report.ErrorMessage)
	}

	if w.verbose {
		if report.BeforeDigest != "" {
			fmt.Fprintf(&sb, "  digest: %s -> %s\n", shortDigest(report.BeforeDigest), shortDigest(report.AfterDigest))
		}
		fmt.Fprintf(&sb, "  steps: %s (%s)\n", strings.Join(report.PerformedSteps, ", "), report.Duration())
	}

	return io.WriteString(w.output, sb.String())
}

// WriteSummary outputs the batch totals.
func (w *SimpleWriter) WriteSummary(summary *model.BatchSummary) (int, error) {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%s pipeline summary\n", summary.Pipeline)
	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "Documents:  %d\n", summary.Total)
	fmt.Fprintf(&sb, "Successful: %d (%d committed)\n", summary.Successful, summary.Committed)
	fmt.Fprintf(&sb, "Failed:     %d\n", summary.Failed)
	fmt.Fprintf(&sb, "Skipped:    %d\n", summary.Skipped)

	if summary.DryRun {
		sb.WriteString("\nDRY RUN: no file was written. Run again without --dry-run to apply.\n")
	}

	return io.WriteString(w.output, sb.String())
}

// WriteHistory outputs recorded runs, one per line.
func (w *SimpleWriter) WriteHistory(runs []*database.RunRecord) (int, error) {
	if len(runs) == 0 {
		return io.WriteString(w.output, "No patch runs recorded.\n")
	}

	var sb strings.Builder
	for _, r := range runs {
		mode := ""
		if r.DryRun {
			mode = " (dry run)"
		}
		fmt.Fprintf(&sb, "%s  %-5s  %-9s  %2d change(s)  %s%s\n",
			r.Timestamp.Local().Format(timeLayout),
			r.Pipeline,
			r.Outcome,
			r.Changes.TotalChanges(),
			r.Document,
			mode,
		)
		if r.BackupPath != "" {
			fmt.Fprintf(&sb, "    backup: %s\n", r.BackupPath)
		}
		if r.Error != "" {
			fmt.Fprintf(&sb, "    error: %s\n", r.Error)
		}
	}

	return io.WriteString(w.output, sb.String())
}
