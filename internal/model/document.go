package model

import (
	"path/filepath"
	"strings"
)

// htmlExtension is stripped from file names when deriving a document identifier.
const htmlExtension = ".html"

// Document is a lesson file held in memory for the duration of one pipeline run.
// Transformation steps mutate Content; Original is kept untouched so the
// pipeline can decide whether a write is needed at all.
type Document struct {
	// Path is the file path the document was loaded from. It is the document's identity.
	Path string

	// ID is the logical identifier used by the injected script to look up
	// the lesson's questions in the question data file.
	ID string

	// Original is the raw text as read from disk.
	Original string

	// Content is the current text after the transformations applied so far.
	Content string
}

// NewDocument creates a Document from raw text.
// If id is empty, it is derived from the file name.
func NewDocument(path, id, content string) *Document {
	if id == "" {
		id = DeriveID(path)
	}
	return &Document{
		Path:     path,
		ID:       id,
		Original: content,
		Content:  content,
	}
}

// Changed reports whether any transformation modified the content.
func (d *Document) Changed() bool {
	return d.Content != d.Original
}

// DeriveID returns the document identifier for a path: the base name
// without its ".html" extension.
//
// For example, "lessons/maths-lecon-2-diviseurs.html" yields "maths-lecon-2-diviseurs".
func DeriveID(path string) string {
	base := filepath.Base(path)
	if strings.HasSuffix(strings.ToLower(base), htmlExtension) {
		return base[:len(base)-len(htmlExtension)]
	}
	return base
}
