package model

import "errors"

// Patch errors.
// Every error is scoped to a single document (or a single section for
// ErrMissingInsertionAnchor); none of them stops a batch.
var (
	// ErrDocumentNotFound is returned when the document path does not exist.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrDocumentUnreadable is returned when the document exists but cannot be read.
	ErrDocumentUnreadable = errors.New("document unreadable")

	// ErrMissingInsertionAnchor is recorded when a section has no insertion container.
	// It is reported as a diagnostic and only skips that section.
	ErrMissingInsertionAnchor = errors.New("missing insertion anchor")

	// ErrBackupWriteFailed is returned when the snapshot could not be written.
	// The commit is not attempted and the original file is left untouched.
	ErrBackupWriteFailed = errors.New("backup write failed")

	// ErrCommitFailed is returned when the patched content could not be written.
	ErrCommitFailed = errors.New("commit failed")
)
