package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and File.Validate().
var (
	// ErrNoTarget is returned when neither a document nor --all is given.
	ErrNoTarget = errors.New("no target specified: provide one or more documents or use --all")

	// ErrConflictingTargets is returned when documents are listed together with --all.
	ErrConflictingTargets = errors.New("conflicting targets: documents cannot be combined with --all")

	// ErrLessonIDRequiresSingleDocument is returned when --lesson-id is used
	// with anything other than exactly one document.
	ErrLessonIDRequiresSingleDocument = errors.New("--lesson-id requires exactly one document")

	// ErrInvalidConcurrency is returned when the concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown are given.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrEmptyReplacementPattern is returned when a theme replacement has no pattern.
	ErrEmptyReplacementPattern = errors.New("theme replacement with empty pattern")

	// ErrEmptyStylesheet is returned when a pipeline has no stylesheet href.
	ErrEmptyStylesheet = errors.New("stylesheet href must not be empty")
)
