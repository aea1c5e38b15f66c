// Package model defines the core data structures used throughout lessonpatch.
//
// This package contains the following main types:
//   - Document: A lesson HTML file loaded into memory for patching
//   - SectionRole: The classification of a tab section (content or quiz)
//   - ChangeReport: The ordered list of transformation results for a document
//   - PatchReport: The complete per-document result handed back to callers
//   - BatchSummary: Success/failure counts over a batch of PatchReports
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The transform, pipeline, database and report packages all need
// these types, so centralizing them prevents import cycles.
//
// PatchReport is serializable to JSON for report output and for the history
// ledger.
package model
