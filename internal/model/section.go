package model

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// quizKeyword marks a section as the lesson's own quiz tab.
const quizKeyword = "quiz"

// PlaceholderPrefix is the identity-token prefix of every inserted quiz placeholder.
const PlaceholderPrefix = "quiz-"

// SectionRole classifies a tab section.
//
// Design decision: We use a small enum type with a single classifier
// function rather than scattering string checks through the transformers.
// The rule is order dependent (the last section is always a quiz), so it
// needs both the identity token and the position to decide.
type SectionRole int

const (
	// RoleContent is a regular lesson panel that receives a quiz placeholder.
	RoleContent SectionRole = iota

	// RoleQuiz is the lesson's quiz panel; it never receives a placeholder.
	RoleQuiz
)

// String returns the role name used in logs and reports.
func (r SectionRole) String() string {
	switch r {
	case RoleContent:
		return "content"
	case RoleQuiz:
		return "quiz"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so roles serialize by name.
func (r SectionRole) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *SectionRole) UnmarshalText(text []byte) error {
	switch string(text) {
	case "content":
		*r = RoleContent
	case "quiz":
		*r = RoleQuiz
	default:
		return fmt.Errorf("unknown section role %q", string(text))
	}
	return nil
}

// ClassifySection returns the role of the section at position index
// (zero-based) among total sections.
//
// A section is a quiz when its identity token contains "quiz" under Unicode
// case folding, or when it is the last section in document order. The
// positional rule also catches a genuine content panel placed last; that
// behavior is kept on purpose because existing lessons rely on it.
func ClassifySection(id string, index, total int) SectionRole {
	if strings.Contains(cases.Fold().String(id), quizKeyword) {
		return RoleQuiz
	}
	if index == total-1 {
		return RoleQuiz
	}
	return RoleContent
}

// DefaultSectionID returns the identity token used for a section that has
// no id attribute: "tab" followed by its one-based ordinal.
func DefaultSectionID(index int) string {
	return "tab" + strconv.Itoa(index+1)
}

// PlaceholderID returns the identity token of the placeholder owned by a section.
func PlaceholderID(sectionID string) string {
	return PlaceholderPrefix + sectionID
}

// Section describes one tab section as seen by the placeholder inserter.
type Section struct {
	// ID is the section's identity token.
	ID string `json:"id"`

	// Ordinal is the one-based position in document order.
	Ordinal int `json:"ordinal"`

	// Role is the classification computed by ClassifySection.
	Role SectionRole `json:"role"`

	// Patched is true when a placeholder was inserted during this run.
	Patched bool `json:"patched"`
}
