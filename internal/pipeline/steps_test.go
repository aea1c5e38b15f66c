package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/jhouedanou/lessonpatch/internal/backup"
	"github.com/jhouedanou/lessonpatch/internal/model"
	"github.com/jhouedanou/lessonpatch/internal/transform"
)

// fakeTransformation appends a suffix unless it is already present.
type fakeTransformation struct {
	suffix     string
	applyCalls int
	err        error
	diags      []model.Diagnostic
}

func (f *fakeTransformation) Name() string { return "fake" }

func (f *fakeTransformation) Applied(doc *model.Document) bool {
	return len(doc.Content) >= len(f.suffix) && doc.Content[len(doc.Content)-len(f.suffix):] == f.suffix
}

func (f *fakeTransformation) Apply(doc *model.Document) (transform.Result, error) {
	f.applyCalls++
	if f.err != nil {
		return transform.Result{}, f.err
	}
	doc.Content += f.suffix
	return transform.Result{Count: 1, Skipped: 2, Diagnostics: f.diags}, nil
}

// loadedReport returns a report whose document holds content.
func loadedReport(path, content string, dryRun bool) *model.PatchReport {
	report := model.NewPatchReport(path, "quiz", dryRun)
	report.Document = model.NewDocument(path, "", content)
	return report
}

func TestDigest(t *testing.T) {
	t.Parallel()

	a := Digest("<html></html>")
	if len(a) != 64 {
		t.Errorf("expected 64 hex characters, got %d", len(a))
	}
	if a != Digest("<html></html>") {
		t.Error("expected digest to be deterministic")
	}
	if a == Digest("<html> </html>") {
		t.Error("expected different content to produce a different digest")
	}
}

func TestLoadStep(t *testing.T) {
	t.Parallel()

	t.Run("loads document and digest", func(t *testing.T) {
		t.Parallel()

		path := writeDocument(t, t.TempDir(), "maths-lecon-2-diviseurs.html", "<html></html>")
		report := model.NewPatchReport(path, "quiz", false)

		if err := NewLoadStep().Do(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Document == nil {
			t.Fatal("expected document to be loaded")
		}
		if report.Document.ID != "maths-lecon-2-diviseurs" {
			t.Errorf("unexpected id %q", report.Document.ID)
		}
		if report.BeforeDigest != Digest("<html></html>") {
			t.Error("unexpected before digest")
		}
	})

	t.Run("lesson id override", func(t *testing.T) {
		t.Parallel()

		path := writeDocument(t, t.TempDir(), "page.html", "<html></html>")
		report := model.NewPatchReport(path, "quiz", false)
		report.LessonID = "override"

		if err := NewLoadStep().Do(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Document.ID != "override" {
			t.Errorf("expected id 'override', got %q", report.Document.ID)
		}
	})

	t.Run("missing document", func(t *testing.T) {
		t.Parallel()

		report := model.NewPatchReport(filepath.Join(t.TempDir(), "missing.html"), "quiz", false)
		err := NewLoadStep().Do(context.Background(), report)
		if !errors.Is(err, model.ErrDocumentNotFound) {
			t.Errorf("expected ErrDocumentNotFound, got %v", err)
		}
	})

	t.Run("missing document skipped", func(t *testing.T) {
		t.Parallel()

		report := model.NewPatchReport(filepath.Join(t.TempDir(), "missing.html"), "theme", false)
		err := NewLoadStep(WithSkipMissing(true)).Do(context.Background(), report)
		if !errors.Is(err, ErrSkipDocument) {
			t.Errorf("expected ErrSkipDocument, got %v", err)
		}
		if len(report.Diagnostics) != 1 {
			t.Errorf("expected 1 diagnostic, got %d", len(report.Diagnostics))
		}
	})

	t.Run("directory is unreadable", func(t *testing.T) {
		t.Parallel()

		report := model.NewPatchReport(t.TempDir(), "quiz", false)
		err := NewLoadStep().Do(context.Background(), report)
		if !errors.Is(err, model.ErrDocumentUnreadable) {
			t.Errorf("expected ErrDocumentUnreadable, got %v", err)
		}
	})
}

func TestTransformStep(t *testing.T) {
	t.Parallel()

	t.Run("applies and records entry", func(t *testing.T) {
		t.Parallel()

		fake := &fakeTransformation{
			suffix: "<!-- patched -->",
			diags:  []model.Diagnostic{{Stage: "fake", Section: "tab2", Message: "note"}},
		}
		report := loadedReport("lesson.html", "<html></html>", false)

		if err := NewTransformStep(fake).Do(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		entry, ok := report.Changes.Entry("fake")
		if !ok {
			t.Fatal("expected change entry")
		}
		if !entry.Applied || entry.Count != 1 || entry.Skipped != 2 {
			t.Errorf("unexpected entry %+v", entry)
		}
		if len(report.Diagnostics) != 1 || report.Diagnostics[0].Section != "tab2" {
			t.Errorf("unexpected diagnostics %+v", report.Diagnostics)
		}
	})

	t.Run("already applied does not call Apply", func(t *testing.T) {
		t.Parallel()

		fake := &fakeTransformation{suffix: "<!-- patched -->"}
		report := loadedReport("lesson.html", "<html></html><!-- patched -->", false)

		if err := NewTransformStep(fake).Do(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fake.applyCalls != 0 {
			t.Errorf("expected Apply not to be called, got %d calls", fake.applyCalls)
		}
		entry, _ := report.Changes.Entry("fake")
		if entry.Applied || entry.Count != 0 {
			t.Errorf("expected applied=false count=0, got %+v", entry)
		}
		if report.Document.Changed() {
			t.Error("expected document to be unchanged")
		}
	})

	t.Run("apply error is wrapped", func(t *testing.T) {
		t.Parallel()

		errBroken := errors.New("broken")
		fake := &fakeTransformation{suffix: "x", err: errBroken}
		report := loadedReport("lesson.html", "<html></html>", false)

		err := NewTransformStep(fake).Do(context.Background(), report)
		if !errors.Is(err, errBroken) {
			t.Errorf("expected wrapped error, got %v", err)
		}
	})

	t.Run("requires a loaded document", func(t *testing.T) {
		t.Parallel()

		report := model.NewPatchReport("lesson.html", "quiz", false)
		err := NewTransformStep(&fakeTransformation{suffix: "x"}).Do(context.Background(), report)
		if !errors.Is(err, errNoDocument) {
			t.Errorf("expected errNoDocument, got %v", err)
		}
	})
}

func TestCommitStep(t *testing.T) {
	t.Parallel()

	t.Run("unchanged document is not written", func(t *testing.T) {
		t.Parallel()

		path := writeDocument(t, t.TempDir(), "lesson.html", "<html></html>")
		report := loadedReport(path, "<html></html>", false)

		step := NewCommitStep(backup.NewManager(backup.WithClock(fixedClock())))
		if err := step.Do(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Outcome != model.OutcomeUnchanged {
			t.Errorf("expected unchanged, got %v", report.Outcome)
		}
		if len(backupsOf(t, path)) != 0 {
			t.Error("expected no backup")
		}
	})

	t.Run("dry run writes nothing", func(t *testing.T) {
		t.Parallel()

		path := writeDocument(t, t.TempDir(), "lesson.html", "<html></html>")
		report := loadedReport(path, "<html></html>", true)
		report.Document.Content = "<html>patched</html>"

		step := NewCommitStep(backup.NewManager(backup.WithClock(fixedClock())))
		if err := step.Do(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Outcome != model.OutcomeDryRun {
			t.Errorf("expected dry-run, got %v", report.Outcome)
		}
		if got := readDocument(t, path); got != "<html></html>" {
			t.Errorf("expected original content, got %q", got)
		}
		if len(backupsOf(t, path)) != 0 {
			t.Error("expected no backup")
		}
		if report.AfterDigest != Digest("<html>patched</html>") {
			t.Error("expected after digest of the patched content")
		}
	})

	t.Run("commits with backup", func(t *testing.T) {
		t.Parallel()

		path := writeDocument(t, t.TempDir(), "lesson.html", "<html></html>")
		report := loadedReport(path, "<html></html>", false)
		report.Document.Content = "<html>patched</html>"

		step := NewCommitStep(backup.NewManager(backup.WithClock(fixedClock())))
		if err := step.Do(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Outcome != model.OutcomeCommitted {
			t.Errorf("expected committed, got %v", report.Outcome)
		}
		if got := readDocument(t, path); got != "<html>patched</html>" {
			t.Errorf("expected patched content, got %q", got)
		}
		if report.BackupPath != path+".backup_20250314_092653" {
			t.Errorf("unexpected backup path %q", report.BackupPath)
		}
		if got := readDocument(t, report.BackupPath); got != "<html></html>" {
			t.Errorf("expected backup to hold the original, got %q", got)
		}
	})

	t.Run("backup failure leaves original untouched", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := writeDocument(t, dir, "lesson.html", "<html></html>")

		// Occupy every candidate snapshot name.
		base := path + ".backup_20250314_092653"
		for i := 0; i < 100; i++ {
			name := base
			if i > 0 {
				name = base + "-" + strconv.Itoa(i)
			}
			if err := os.Mkdir(name, 0o755); err != nil {
				t.Fatal(err)
			}
		}

		report := loadedReport(path, "<html></html>", false)
		report.Document.Content = "<html>patched</html>"

		step := NewCommitStep(backup.NewManager(backup.WithClock(fixedClock())))
		err := step.Do(context.Background(), report)
		if !errors.Is(err, model.ErrBackupWriteFailed) {
			t.Errorf("expected ErrBackupWriteFailed, got %v", err)
		}
		if got := readDocument(t, path); got != "<html></html>" {
			t.Errorf("expected original content, got %q", got)
		}
		if report.BackupPath != "" {
			t.Errorf("expected no backup path, got %q", report.BackupPath)
		}
	})
}
