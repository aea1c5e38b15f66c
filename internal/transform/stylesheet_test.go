package transform

import (
	"strings"
	"testing"

	"github.com/jhouedanou/lessonpatch/internal/model"
)

// TestStylesheetLinker tests link insertion and its precondition.
func TestStylesheetLinker(t *testing.T) {
	t.Parallel()

	t.Run("inserts link after title", func(t *testing.T) {
		t.Parallel()

		s := NewStylesheetLinker("css/section-quiz.css")
		doc := model.NewDocument("a.html", "", "<head><title>T</title></head>")

		if s.Applied(doc) {
			t.Fatal("expected precondition to be false")
		}
		res, err := s.Apply(doc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Count != 1 {
			t.Errorf("got count %d, expected 1", res.Count)
		}
		want := "<head><title>T</title>\n    <link rel=\"stylesheet\" href=\"css/section-quiz.css\"></head>"
		if doc.Content != want {
			t.Errorf("got %q, want %q", doc.Content, want)
		}
	})

	t.Run("precondition holds after insertion", func(t *testing.T) {
		t.Parallel()

		s := NewStylesheetLinker("css/karniella-theme.css")
		doc := model.NewDocument("a.html", "", "<title>T</title>")
		if _, err := s.Apply(doc); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !s.Applied(doc) {
			t.Error("expected precondition to be true after insertion")
		}
	})

	t.Run("matches title case-insensitively and only once", func(t *testing.T) {
		t.Parallel()

		s := NewStylesheetLinker("css/section-quiz.css")
		doc := model.NewDocument("a.html", "", "<TITLE>a</TITLE><svg><title>b</title></svg>")
		if _, err := s.Apply(doc); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Count(doc.Content, "section-quiz.css") != 1 {
			t.Errorf("expected exactly one link: %q", doc.Content)
		}
		if !strings.HasPrefix(doc.Content, "<TITLE>a</TITLE>\n    <link") {
			t.Errorf("link not after first title: %q", doc.Content)
		}
	})

	t.Run("missing title is a diagnostic", func(t *testing.T) {
		t.Parallel()

		s := NewStylesheetLinker("css/section-quiz.css")
		doc := model.NewDocument("a.html", "", "<p>no head</p>")
		res, err := s.Apply(doc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Count != 0 || len(res.Diagnostics) != 1 {
			t.Errorf("got %+v", res)
		}
		if doc.Changed() {
			t.Error("document should be unchanged")
		}
	})

	t.Run("existing reference with another path counts as applied", func(t *testing.T) {
		t.Parallel()

		s := NewStylesheetLinker("css/section-quiz.css")
		doc := model.NewDocument("a.html", "", `<link rel="stylesheet" href="../css/section-quiz.css">`)
		if !s.Applied(doc) {
			t.Error("expected precondition to be true")
		}
	})
}
