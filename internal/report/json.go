package report

import (
	"encoding/json"
	"io"

	"github.com/jhouedanou/lessonpatch/internal/database"
	"github.com/jhouedanou/lessonpatch/internal/model"
)

// JSONWriter outputs reports in JSON format.
// This format is designed for tool integration and programmatic processing.
//
// Design decision: We use standard encoding/json rather than a third-party
// JSON library because the report types only need struct tags and
// text marshalers, which encoding/json handles directly.
type JSONWriter struct {
	baseWriter

	// indentString is the indentation string; empty means compact output.
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indentString = "  "
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs one document report as a JSON object.
func (w *JSONWriter) Write(report *model.PatchReport) (int, error) {
	return w.writeJSON(report)
}

// WriteSummary outputs the summary, including every report, as one JSON object.
func (w *JSONWriter) WriteSummary(summary *model.BatchSummary) (int, error) {
	return w.writeJSON(summary)
}

// WriteHistory outputs recorded runs as a JSON array.
func (w *JSONWriter) WriteHistory(runs []*database.RunRecord) (int, error) {
	if runs == nil {
		runs = make([]*database.RunRecord, 0)
	}
	return w.writeJSON(runs)
}

// writeJSON marshals v and writes it followed by a newline.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indentString != "" {
		data, err = json.MarshalIndent(v, "", w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
