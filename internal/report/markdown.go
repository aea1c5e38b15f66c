package report

import (
	"io"
	"strconv"

	"github.com/jhouedanou/lessonpatch/internal/database"
	"github.com/jhouedanou/lessonpatch/internal/model"
	"github.com/nao1215/markdown"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables and lists
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs one document report in Markdown format.
func (w *MarkdownWriter) Write(report *model.PatchReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H2(report.Path)
	md.PlainText("")

	rows := [][]string{
		{"Pipeline", report.Pipeline},
		{"Lesson ID", "`" + report.Identifier() + "`"},
		{"Outcome", outcomeText(report.Outcome)},
	}
	if report.BackupPath != "" {
		rows = append(rows, []string{"Backup", "`" + report.BackupPath + "`"})
	}
	if report.BeforeDigest != "" {
		rows = append(rows, []string{"Digest", "`" + shortDigest(report.BeforeDigest) + "` → `" + shortDigest(report.AfterDigest) + "`"})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	if len(report.Changes) > 0 {
		w.writeChanges(md, report.Changes)
	}
	if len(report.Sections) > 0 {
		w.writeSections(md, report.Sections)
	}
	w.writeDiagnostics(md, report)

	return len(md.String()), md.Build()
}

// writeChanges writes the per-stage change table.
func (w *MarkdownWriter) writeChanges(md *markdown.Markdown, changes model.ChangeReport) {
	rows := make([][]string, 0, len(changes)+1)
	for _, e := range changes {
		applied := "no"
		if e.Applied {
			applied = "yes"
		}
		rows = append(rows, []string{e.Name, applied, changeCell(e)})
	}
	rows = append(rows, []string{"**Total**", "", "**" + strconv.Itoa(changes.TotalChanges()) + "**"})

	md.Table(markdown.TableSet{
		Header: []string{"Stage", "Applied", "Changes"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeSections writes the section classification table.
func (w *MarkdownWriter) writeSections(md *markdown.Markdown, sections []model.Section) {
	rows := make([][]string, len(sections))
	for i, s := range sections {
		placeholder := "-"
		if s.Patched {
			placeholder = "`" + model.PlaceholderID(s.ID) + "`"
		}
		rows[i] = []string{strconv.Itoa(s.Ordinal), "`" + s.ID + "`", s.Role.String(), placeholder}
	}

	md.Table(markdown.TableSet{
		Header: []string{"#", "Section", "Role", "Inserted"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeDiagnostics writes diagnostics and the error, if any.
func (w *MarkdownWriter) writeDiagnostics(md *markdown.Markdown, report *model.PatchReport) {
	if report.ErrorMessage != "" {
		md.Cautionf("%s", report.ErrorMessage)
		md.PlainText("")
	}

	if len(report.Diagnostics) == 0 {
		return
	}

	items := make([]string, len(report.Diagnostics))
	for i, d := range report.Diagnostics {
		items[i] = d.String()
	}
	md.BulletList(items...)
	md.PlainText("")
}

// WriteSummary outputs the batch totals in Markdown format.
func (w *MarkdownWriter) WriteSummary(summary *model.BatchSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("lessonpatch " + summary.Pipeline + " report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Documents", "Successful", "Committed", "Failed", "Skipped"},
		Rows: [][]string{{
			strconv.Itoa(summary.Total),
			strconv.Itoa(summary.Successful),
			strconv.Itoa(summary.Committed),
			strconv.Itoa(summary.Failed),
			strconv.Itoa(summary.Skipped),
		}},
	})
	md.PlainText("")

	switch {
	case summary.Failed > 0:
		md.Warningf("%d document(s) could not be patched.", summary.Failed)
	case summary.DryRun:
		md.Note("Dry run: no file was written.")
	default:
		md.Tip("All documents processed.")
	}
	md.PlainText("")

	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by lessonpatch*")

	return len(md.String()), md.Build()
}

// WriteHistory outputs recorded runs as a Markdown table.
func (w *MarkdownWriter) WriteHistory(runs []*database.RunRecord) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Patch history")
	md.PlainText("")

	if len(runs) == 0 {
		md.PlainText("No patch runs recorded.")
		return len(md.String()), md.Build()
	}

	rows := make([][]string, len(runs))
	for i, r := range runs {
		backupPath := "-"
		if r.BackupPath != "" {
			backupPath = "`" + r.BackupPath + "`"
		}
		rows[i] = []string{
			r.Timestamp.Local().Format(timeLayout),
			r.Pipeline,
			r.Outcome.String(),
			strconv.Itoa(r.Changes.TotalChanges()),
			"`" + r.Document + "`",
			backupPath,
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Date", "Pipeline", "Outcome", "Changes", "Document", "Backup"},
		Rows:   rows,
	})

	return len(md.String()), md.Build()
}

// outcomeText decorates an outcome for Markdown tables.
func outcomeText(o model.Outcome) string {
	switch o {
	case model.OutcomeCommitted:
		return "✅ committed"
	case model.OutcomeUnchanged:
		return "➖ unchanged"
	case model.OutcomeDryRun:
		return "📝 dry-run"
	case model.OutcomeSkipped:
		return "⏭️ skipped"
	case model.OutcomeFailed:
		return "❌ failed"
	default:
		return o.String()
	}
}
