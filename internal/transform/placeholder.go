package transform

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/jhouedanou/lessonpatch/internal/model"
)

// Default selectors for the lesson layout.
const (
	// DefaultSectionSelector matches the tab panels switched by the lesson viewer.
	DefaultSectionSelector = "div.tab-content"

	// DefaultContainerSelector matches the layout wrapper inside a panel that
	// receives the placeholder.
	DefaultContainerSelector = "div.container"

	// placeholderMarker is the comment written before each placeholder.
	placeholderMarker = " Section Quiz "
)

// PlaceholderInserter inserts an empty quiz placeholder at the end of every
// content section.
//
// Design decision: We use golang.org/x/net/html (through goquery selectors)
// rather than regular expressions because sections nest arbitrary markup and
// the insertion point is "last child of a nested wrapper", which a regex
// cannot find reliably. The tree is only rendered back to text when a
// placeholder was actually inserted, so documents that need no change are
// passed through byte for byte.
type PlaceholderInserter struct {
	sectionSelector   string
	containerSelector string
	logger            *slog.Logger
}

// PlaceholderOption configures a PlaceholderInserter.
type PlaceholderOption func(*PlaceholderInserter)

// WithSectionSelector overrides the selector used to find tab sections.
func WithSectionSelector(selector string) PlaceholderOption {
	return func(p *PlaceholderInserter) {
		p.sectionSelector = selector
	}
}

// WithContainerSelector overrides the selector used to find the insertion container.
func WithContainerSelector(selector string) PlaceholderOption {
	return func(p *PlaceholderInserter) {
		p.containerSelector = selector
	}
}

// WithPlaceholderLogger sets the logger.
func WithPlaceholderLogger(logger *slog.Logger) PlaceholderOption {
	return func(p *PlaceholderInserter) {
		p.logger = logger
	}
}

// NewPlaceholderInserter creates a PlaceholderInserter with the lesson layout defaults.
func NewPlaceholderInserter(opts ...PlaceholderOption) *PlaceholderInserter {
	p := &PlaceholderInserter{
		sectionSelector:   DefaultSectionSelector,
		containerSelector: DefaultContainerSelector,
		logger:            slog.Default(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the stage name.
func (p *PlaceholderInserter) Name() string {
	return StagePlaceholders
}

// Applied always returns false; the guard is evaluated per section in Apply.
func (p *PlaceholderInserter) Applied(_ *model.Document) bool {
	return false
}

// Apply walks the top-level sections in document order and inserts the
// missing placeholders.
func (p *PlaceholderInserter) Apply(doc *model.Document) (Result, error) {
	tree, err := goquery.NewDocumentFromReader(strings.NewReader(doc.Content))
	if err != nil {
		return Result{}, fmt.Errorf("failed to parse document: %w", err)
	}

	sections := p.topLevelSections(tree)
	total := sections.Length()

	result := Result{
		Sections: make([]model.Section, 0, total),
	}

	if total == 0 {
		result.Diagnostics = append(result.Diagnostics,
			diagnostic(StagePlaceholders, "", "no tab sections found ("+p.sectionSelector+")"))
		return result, nil
	}

	sections.Each(func(i int, s *goquery.Selection) {
		section := p.visit(s, i, total, &result)
		result.Sections = append(result.Sections, section)
	})

	if result.Count == 0 {
		return result, nil
	}

	var sb strings.Builder
	if err := html.Render(&sb, tree.Nodes[0]); err != nil {
		return Result{}, fmt.Errorf("failed to render document: %w", err)
	}
	doc.Content = sb.String()

	return result, nil
}

// topLevelSections returns the sections that are not nested in another section.
func (p *PlaceholderInserter) topLevelSections(tree *goquery.Document) *goquery.Selection {
	return tree.Find(p.sectionSelector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.ParentsFiltered(p.sectionSelector).Length() == 0
	})
}

// visit classifies one section and patches it when needed.
func (p *PlaceholderInserter) visit(s *goquery.Selection, index, total int, result *Result) model.Section {
	id, ok := s.Attr("id")
	if !ok || id == "" {
		id = model.DefaultSectionID(index)
	}

	section := model.Section{
		ID:      id,
		Ordinal: index + 1,
		Role:    model.ClassifySection(id, index, total),
	}

	if section.Role == model.RoleQuiz {
		p.logger.Debug("skipping quiz section", "section", id)
		result.Skipped++
		return section
	}

	if s.Find("div[id^='"+model.PlaceholderPrefix+"']").Length() > 0 {
		p.logger.Debug("placeholder already present", "section", id)
		result.Skipped++
		return section
	}

	container := s.Find(p.containerSelector).First()
	if container.Length() == 0 {
		p.logger.Warn("no insertion container", "section", id, "selector", p.containerSelector)
		result.Diagnostics = append(result.Diagnostics, diagnostic(StagePlaceholders, id,
			fmt.Sprintf("%v: no %s in section", model.ErrMissingInsertionAnchor, p.containerSelector)))
		result.Skipped++
		return section
	}

	appendPlaceholder(container.Get(0), model.PlaceholderID(id))

	p.logger.Debug("placeholder inserted", "section", id, "placeholder", model.PlaceholderID(id))
	section.Patched = true
	result.Count++

	return section
}

// appendPlaceholder appends the marker comment and the placeholder element
// as the last children of container.
func appendPlaceholder(container *html.Node, placeholderID string) {
	container.AppendChild(&html.Node{Type: html.TextNode, Data: "\n\n                "})
	container.AppendChild(&html.Node{Type: html.CommentNode, Data: placeholderMarker})
	container.AppendChild(&html.Node{Type: html.TextNode, Data: "\n                "})
	container.AppendChild(&html.Node{
		Type:     html.ElementNode,
		Data:     atom.Div.String(),
		DataAtom: atom.Div,
		Attr:     []html.Attribute{{Key: "id", Val: placeholderID}},
	})
	container.AppendChild(&html.Node{Type: html.TextNode, Data: "\n"})
}
