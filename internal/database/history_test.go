package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jhouedanou/lessonpatch/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *HistoryDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// finishedReport builds a report as the pipeline would leave it.
func finishedReport(path, pipeline string, outcome model.Outcome, at time.Time) *model.PatchReport {
	r := model.NewPatchReport(path, pipeline, outcome == model.OutcomeDryRun)
	r.AddChange(model.ChangeEntry{Name: "stylesheet", Applied: true, Count: 1})
	r.AddChange(model.ChangeEntry{Name: "placeholders", Applied: true, Count: 3, Skipped: 1})
	r.AddDiagnostic(model.Diagnostic{Stage: "placeholders", Section: "tab5", Message: "no container"})
	r.Outcome = outcome
	r.BeforeDigest = "before"
	r.AfterDigest = "after"
	r.FinishedAt = at
	return r
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dbDir, DBFileName)); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
		if db.Path() != filepath.Join(dbDir, DBFileName) {
			t.Errorf("unexpected path %q", db.Path())
		}
	})

	t.Run("CreateIfNotExists=false fails for missing database", func(t *testing.T) {
		t.Parallel()

		_, err := Open(filepath.Join(t.TempDir(), "missing"), Options{CreateIfNotExists: false})
		if err == nil {
			t.Error("expected error for missing database")
		}
	})

	t.Run("reopens an existing database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		db, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		if _, err := db.SaveRun(context.Background(), finishedReport("a.html", "quiz", model.OutcomeCommitted, time.Now())); err != nil {
			t.Fatalf("failed to save run: %v", err)
		}
		_ = db.Close()

		again, err := Open(dir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to reopen database: %v", err)
		}
		defer again.Close()

		runs, err := again.ListRuns(context.Background(), "a.html", 0)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 1 {
			t.Errorf("expected 1 run, got %d", len(runs))
		}
	})
}

// TestSaveRun tests that a saved run reads back intact.
func TestSaveRun(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	at := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	report := finishedReport("lessons/maths.html", "quiz", model.OutcomeCommitted, at)
	report.BackupPath = "lessons/maths.html.backup_20250314_092653"

	id, err := db.SaveRun(ctx, report)
	if err != nil {
		t.Fatalf("failed to save run: %v", err)
	}
	if id <= 0 {
		t.Errorf("expected positive id, got %d", id)
	}

	runs, err := db.ListRuns(ctx, "lessons/maths.html", 10)
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}

	got := runs[0]
	if got.Document != DocumentKey("lessons/maths.html") {
		t.Errorf("unexpected document %q", got.Document)
	}
	if got.Identifier != "maths" {
		t.Errorf("expected identifier 'maths', got %q", got.Identifier)
	}
	if got.Outcome != model.OutcomeCommitted {
		t.Errorf("expected committed, got %v", got.Outcome)
	}
	if got.Changes.TotalChanges() != 4 {
		t.Errorf("expected 4 changes, got %d", got.Changes.TotalChanges())
	}
	if len(got.Diagnostics) != 1 || got.Diagnostics[0].Section != "tab5" {
		t.Errorf("unexpected diagnostics %+v", got.Diagnostics)
	}
	if got.BackupPath != report.BackupPath {
		t.Errorf("unexpected backup path %q", got.BackupPath)
	}
	if got.BeforeDigest != "before" || got.AfterDigest != "after" {
		t.Error("unexpected digests")
	}
	if !got.Timestamp.Equal(at) {
		t.Errorf("expected timestamp %v, got %v", at, got.Timestamp)
	}
}

// TestListRuns tests ordering, filtering and limits.
func TestListRuns(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	for i, r := range []*model.PatchReport{
		finishedReport("a.html", "quiz", model.OutcomeCommitted, base),
		finishedReport("b.html", "theme", model.OutcomeCommitted, base.Add(time.Minute)),
		finishedReport("a.html", "quiz", model.OutcomeUnchanged, base.Add(2*time.Minute)),
	} {
		if _, err := db.SaveRun(ctx, r); err != nil {
			t.Fatalf("failed to save run %d: %v", i, err)
		}
	}

	t.Run("all documents newest first", func(t *testing.T) {
		t.Parallel()

		runs, err := db.ListRuns(ctx, "", 0)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 3 {
			t.Fatalf("expected 3 runs, got %d", len(runs))
		}
		if runs[0].Outcome != model.OutcomeUnchanged || runs[2].Outcome != model.OutcomeCommitted {
			t.Error("expected newest run first")
		}
	})

	t.Run("filter by document", func(t *testing.T) {
		t.Parallel()

		runs, err := db.ListRuns(ctx, "a.html", 0)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 2 {
			t.Errorf("expected 2 runs, got %d", len(runs))
		}
	})

	t.Run("limit", func(t *testing.T) {
		t.Parallel()

		runs, err := db.ListRuns(ctx, "", 1)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 1 {
			t.Errorf("expected 1 run, got %d", len(runs))
		}
	})
}

// TestLatestRun tests per-pipeline lookup.
func TestLatestRun(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	if _, err := db.SaveRun(ctx, finishedReport("a.html", "quiz", model.OutcomeCommitted, base)); err != nil {
		t.Fatal(err)
	}
	if _, err := db.SaveRun(ctx, finishedReport("a.html", "theme", model.OutcomeDryRun, base.Add(time.Hour))); err != nil {
		t.Fatal(err)
	}

	run, err := db.LatestRun(ctx, "a.html", "quiz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run == nil || run.Pipeline != "quiz" || run.Outcome != model.OutcomeCommitted {
		t.Errorf("unexpected run %+v", run)
	}

	none, err := db.LatestRun(ctx, "never.html", "quiz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if none != nil {
		t.Errorf("expected nil for unknown document, got %+v", none)
	}
}

// TestSaveRunFailed tests that failures keep their error message.
func TestSaveRunFailed(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	r := model.NewPatchReport("missing.html", "quiz", false)
	r.Fail(errors.New("document not found: missing.html"))
	r.Finish()

	if _, err := db.SaveRun(ctx, r); err != nil {
		t.Fatalf("failed to save run: %v", err)
	}

	run, err := db.LatestRun(ctx, "missing.html", "quiz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.Outcome != model.OutcomeFailed {
		t.Errorf("expected failed, got %v", run.Outcome)
	}
	if run.Error != "document not found: missing.html" {
		t.Errorf("unexpected error message %q", run.Error)
	}
}

// TestListDocuments tests the distinct document listing.
func TestListDocuments(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	for _, p := range []string{"b.html", "a.html", "b.html"} {
		if _, err := db.SaveRun(ctx, finishedReport(p, "quiz", model.OutcomeCommitted, time.Now())); err != nil {
			t.Fatal(err)
		}
	}

	docs, err := db.ListDocuments(ctx)
	if err != nil {
		t.Fatalf("failed to list documents: %v", err)
	}
	want := []string{DocumentKey("a.html"), DocumentKey("b.html")}
	if len(docs) != 2 || docs[0] != want[0] || docs[1] != want[1] {
		t.Errorf("expected %v, got %v", want, docs)
	}
}

// TestParseTimestamp tests the timestamp fallbacks.
func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		zero bool
	}{
		{"2025-03-14T09:26:53.123456789Z", false},
		{"2025-03-14 09:26:53", false},
		{"2025-03-14T09:26:53", false},
		{"not a time", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			if got := parseTimestamp(tt.in); got.IsZero() != tt.zero {
				t.Errorf("parseTimestamp(%q) = %v", tt.in, got)
			}
		})
	}
}
