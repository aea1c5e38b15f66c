package report

import (
	"io"

	"github.com/jhouedanou/lessonpatch/internal/database"
	"github.com/jhouedanou/lessonpatch/internal/model"
)

// Writer defines the interface for report output.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files or stdout with the
// same API.
type Writer interface {
	// Write outputs a single document report.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.PatchReport) (int, error)

	// WriteSummary outputs the aggregate result of a batch.
	WriteSummary(summary *model.BatchSummary) (int, error)

	// WriteHistory outputs recorded patch runs.
	WriteHistory(runs []*database.RunRecord) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface is different
// from io.Writer - we write reports, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(report *model.PatchReport) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.Write(report) })
}

// WriteSummary outputs the summary to all configured Writers.
func (m *MultiWriter) WriteSummary(summary *model.BatchSummary) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteSummary(summary) })
}

// WriteHistory outputs the runs to all configured Writers.
func (m *MultiWriter) WriteHistory(runs []*database.RunRecord) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteHistory(runs) })
}

// each calls fn for every writer, stopping on the first error.
func (m *MultiWriter) each(fn func(Writer) (int, error)) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := fn(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// timeLayout is used for timestamps in text and Markdown output.
const timeLayout = "2006-01-02 15:04:05 MST"

// shortDigest shortens a hex digest for display.
func shortDigest(digest string) string {
	if len(digest) <= 12 {
		return digest
	}
	return digest[:12]
}

// changeCell renders a change entry as "count" or "count (skipped N)".
func changeCell(e model.ChangeEntry) string {
	s := itoa(e.Count)
	if e.Skipped > 0 {
		s += " (" + itoa(e.Skipped) + " skipped)"
	}
	return s
}
