package model

import (
	"fmt"
	"time"
)

// Outcome is the final state of a document after a pipeline run.
type Outcome int

const (
	// OutcomePending means the pipeline has not finished with the document.
	OutcomePending Outcome = iota

	// OutcomeUnchanged means every stage was a no-op; nothing was written.
	OutcomeUnchanged

	// OutcomeDryRun means changes were computed but not written.
	OutcomeDryRun

	// OutcomeCommitted means a backup was taken and the document rewritten.
	OutcomeCommitted

	// OutcomeSkipped means the document was deliberately not processed
	// (e.g. a registry entry missing on disk in the theme pipeline).
	OutcomeSkipped

	// OutcomeFailed means the document could not be processed.
	OutcomeFailed
)

var outcomeNames = map[Outcome]string{
	OutcomePending:   "pending",
	OutcomeUnchanged: "unchanged",
	OutcomeDryRun:    "dry-run",
	OutcomeCommitted: "committed",
	OutcomeSkipped:   "skipped",
	OutcomeFailed:    "failed",
}

// String returns the outcome name.
func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Outcome) UnmarshalText(text []byte) error {
	for k, v := range outcomeNames {
		if v == string(text) {
			*o = k
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", string(text))
}

// Succeeded reports whether the outcome counts as a success for batch summaries.
// Skipped documents are neither successes nor failures.
func (o Outcome) Succeeded() bool {
	return o == OutcomeUnchanged || o == OutcomeDryRun || o == OutcomeCommitted
}

// PatchReport is the per-document result of a pipeline run.
//
// Design decision: Like a scan report, a single struct accumulates state from
// every step. Steps write into it, the pipeline records errors in it, and the
// report writers and the history ledger read from it. This keeps the step
// interface small (one argument) and makes the result trivially serializable.
type PatchReport struct {
	// Path is the document path as supplied by the caller.
	Path string `json:"path"`

	// LessonID overrides the identifier derived from the file name when set.
	LessonID string `json:"lesson_id,omitempty"`

	// Pipeline is the name of the pipeline variant ("quiz" or "theme").
	Pipeline string `json:"pipeline"`

	// DryRun is true when the run must not write anything.
	DryRun bool `json:"dry_run"`

	// Document is the in-memory document. It is populated by the load step.
	Document *Document `json:"-"`

	// Changes holds one entry per transformation stage in execution order.
	Changes ChangeReport `json:"changes"`

	// Sections lists the sections visited by the placeholder stage.
	Sections []Section `json:"sections,omitempty"`

	// Diagnostics holds non-fatal observations.
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`

	// Outcome is the final state of the document.
	Outcome Outcome `json:"outcome"`

	// BackupPath is the snapshot path when the document was committed.
	BackupPath string `json:"backup_path,omitempty"`

	// BeforeDigest and AfterDigest are SHA3-256 digests of the content
	// before and after the run.
	BeforeDigest string `json:"before_digest,omitempty"`
	AfterDigest  string `json:"after_digest,omitempty"`

	// Error is the error that stopped the pipeline, if any.
	Error error `json:"-"`

	// ErrorMessage is the string form of Error, kept for serialization.
	ErrorMessage string `json:"error,omitempty"`

	// PerformedSteps lists the steps that ran, in order.
	PerformedSteps []string `json:"performed_steps"`

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// NewPatchReport creates a report for a document path.
func NewPatchReport(path, pipeline string, dryRun bool) *PatchReport {
	return &PatchReport{
		Path:           path,
		Pipeline:       pipeline,
		DryRun:         dryRun,
		Changes:        make(ChangeReport, 0),
		Diagnostics:    make([]Diagnostic, 0),
		PerformedSteps: make([]string, 0),
		StartedAt:      time.Now(),
	}
}

// Identifier returns the document identifier, falling back to the
// override or the derived name when the document has not been loaded.
func (r *PatchReport) Identifier() string {
	if r.Document != nil {
		return r.Document.ID
	}
	if r.LessonID != "" {
		return r.LessonID
	}
	return DeriveID(r.Path)
}

// AddChange appends a stage result.
func (r *PatchReport) AddChange(entry ChangeEntry) {
	r.Changes = append(r.Changes, entry)
}

// AddDiagnostic appends a non-fatal observation.
func (r *PatchReport) AddDiagnostic(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
}

// Fail records err as the reason the document could not be processed.
func (r *PatchReport) Fail(err error) {
	r.Error = err
	r.ErrorMessage = err.Error()
	r.Outcome = OutcomeFailed
}

// Finish stamps the end time.
func (r *PatchReport) Finish() {
	r.FinishedAt = time.Now()
}

// Duration returns how long the run took.
func (r *PatchReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
