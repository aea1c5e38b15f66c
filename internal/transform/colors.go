package transform

import "github.com/jhouedanou/lessonpatch/internal/model"

// ColorHarmonizer rewrites embedded style values through a PatternTransformer.
type ColorHarmonizer struct {
	patterns *PatternTransformer
}

// NewColorHarmonizer creates a ColorHarmonizer from a compiled rule set.
func NewColorHarmonizer(patterns *PatternTransformer) *ColorHarmonizer {
	return &ColorHarmonizer{patterns: patterns}
}

// Name returns the stage name.
func (c *ColorHarmonizer) Name() string {
	return StageColors
}

// Applied always returns false: idempotence comes from the rule set itself,
// whose replacements must never match their own patterns.
func (c *ColorHarmonizer) Applied(_ *model.Document) bool {
	return false
}

// Apply rewrites the document content.
func (c *ColorHarmonizer) Apply(doc *model.Document) (Result, error) {
	content, n := c.patterns.Replace(doc.Content)
	doc.Content = content
	return Result{Count: n}, nil
}
