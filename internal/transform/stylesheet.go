package transform

import (
	"html"
	"path"
	"regexp"
	"strings"

	"github.com/jhouedanou/lessonpatch/internal/model"
)

// titleCloseRe finds the anchor the stylesheet link is inserted after.
var titleCloseRe = regexp.MustCompile(`(?i)</title\s*>`)

// StylesheetLinker inserts a stylesheet <link> right after </title>.
type StylesheetLinker struct {
	href   string
	marker string
}

// NewStylesheetLinker creates a linker for href (e.g. "css/section-quiz.css").
// The precondition checks for the file's base name anywhere in the document,
// so a link written by hand with a different relative path also counts.
func NewStylesheetLinker(href string) *StylesheetLinker {
	return &StylesheetLinker{
		href:   href,
		marker: path.Base(href),
	}
}

// Name returns the stage name.
func (s *StylesheetLinker) Name() string {
	return StageStylesheet
}

// Applied reports whether the stylesheet is already referenced.
func (s *StylesheetLinker) Applied(doc *model.Document) bool {
	return strings.Contains(doc.Content, s.marker)
}

// Apply inserts the link after the first </title>.
func (s *StylesheetLinker) Apply(doc *model.Document) (Result, error) {
	loc := titleCloseRe.FindStringIndex(doc.Content)
	if loc == nil {
		return Result{
			Diagnostics: []model.Diagnostic{diagnostic(StageStylesheet, "", "no </title> anchor; stylesheet link not inserted")},
		}, nil
	}

	link := "\n    <link rel=\"stylesheet\" href=\"" + html.EscapeString(s.href) + "\">"
	doc.Content = doc.Content[:loc[1]] + link + doc.Content[loc[1]:]

	return Result{Count: 1}, nil
}
