package pipeline

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/jhouedanou/lessonpatch/internal/backup"
	"github.com/jhouedanou/lessonpatch/internal/model"
	"github.com/jhouedanou/lessonpatch/internal/transform"
	"golang.org/x/crypto/sha3"
)

// Step names that are not transformation stages.
const (
	StepLoad   = "load"
	StepCommit = "commit"
)

// errNoDocument is returned when a step runs before the load step.
var errNoDocument = errors.New("document not loaded")

// Digest returns the hex encoded SHA3-256 digest of content.
// Reports carry digests so two runs can be compared without keeping the
// documents themselves.
func Digest(content string) string {
	sum := sha3.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// LoadStep reads the document from disk into the report.
type LoadStep struct {
	// skipMissing turns a missing file into a skipped document instead of
	// a failure.
	skipMissing bool
}

// LoadStepOption configures a LoadStep.
type LoadStepOption func(*LoadStep)

// WithSkipMissing makes the load step skip documents that do not exist.
// Registry runs use it because a registry may list lessons that were
// never published in a given checkout.
func WithSkipMissing(skip bool) LoadStepOption {
	return func(s *LoadStep) {
		s.skipMissing = skip
	}
}

// NewLoadStep creates a new load step.
func NewLoadStep(opts ...LoadStepOption) *LoadStep {
	s := &LoadStep{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *LoadStep) Name() string {
	return StepLoad
}

// Do loads report.Path into report.Document.
func (s *LoadStep) Do(_ context.Context, report *model.PatchReport) error {
	data, err := os.ReadFile(report.Path) //nolint:gosec // Document paths come from the operator
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if s.skipMissing {
				report.AddDiagnostic(model.Diagnostic{Stage: StepLoad, Message: "document does not exist"})
				return ErrSkipDocument
			}
			return fmt.Errorf("%w: %s", model.ErrDocumentNotFound, report.Path)
		}
		return fmt.Errorf("%w: %s: %v", model.ErrDocumentUnreadable, report.Path, err)
	}

	content := string(data)
	report.Document = model.NewDocument(report.Path, report.LessonID, content)
	report.BeforeDigest = Digest(content)
	return nil
}

// TransformStep runs one transformation over the loaded document.
//
// Design decision: The precondition check lives here rather than inside
// each transformation's Apply so every stage reports "already applied"
// the same way: an entry with applied=false and count=0.
type TransformStep struct {
	transformation transform.Transformation
	logger         *slog.Logger
}

// TransformStepOption configures a TransformStep.
type TransformStepOption func(*TransformStep)

// WithTransformLogger sets a custom logger for the transform step.
func WithTransformLogger(logger *slog.Logger) TransformStepOption {
	return func(s *TransformStep) {
		s.logger = logger
	}
}

// NewTransformStep wraps t as a pipeline step.
func NewTransformStep(t transform.Transformation, opts ...TransformStepOption) *TransformStep {
	s := &TransformStep{
		transformation: t,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the transformation's stage name.
func (s *TransformStep) Name() string {
	return s.transformation.Name()
}

// Do applies the transformation unless the document already carries it.
func (s *TransformStep) Do(_ context.Context, report *model.PatchReport) error {
	doc := report.Document
	if doc == nil {
		return fmt.Errorf("%s: %w", s.Name(), errNoDocument)
	}

	if s.transformation.Applied(doc) {
		s.logger.Debug("already applied",
			"stage", s.Name(),
			"document", doc.Path,
		)
		report.AddChange(model.ChangeEntry{Name: s.Name()})
		return nil
	}

	result, err := s.transformation.Apply(doc)
	if err != nil {
		return fmt.Errorf("%s: %w", s.Name(), err)
	}

	report.AddChange(model.ChangeEntry{
		Name:    s.Name(),
		Applied: result.Count > 0,
		Count:   result.Count,
		Skipped: result.Skipped,
	})
	for _, d := range result.Diagnostics {
		s.logger.Warn(d.Message,
			"stage", d.Stage,
			"section", d.Section,
			"document", doc.Path,
		)
		report.AddDiagnostic(d)
	}
	if len(result.Sections) > 0 {
		report.Sections = result.Sections
	}

	return nil
}

// CommitStep persists the document when it changed.
//
// Outcomes:
//   - content unchanged: OutcomeUnchanged, no backup, no write
//   - dry run: OutcomeDryRun, no backup, no write
//   - otherwise: snapshot, then commit, OutcomeCommitted
//
// A snapshot failure aborts the step before the original is touched.
type CommitStep struct {
	backups *backup.Manager
	logger  *slog.Logger
}

// CommitStepOption configures a CommitStep.
type CommitStepOption func(*CommitStep)

// WithCommitLogger sets a custom logger for the commit step.
func WithCommitLogger(logger *slog.Logger) CommitStepOption {
	return func(s *CommitStep) {
		s.logger = logger
	}
}

// NewCommitStep creates a commit step using backups for snapshots.
func NewCommitStep(backups *backup.Manager, opts ...CommitStepOption) *CommitStep {
	s := &CommitStep{
		backups: backups,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *CommitStep) Name() string {
	return StepCommit
}

// Do decides whether and how to persist the document.
func (s *CommitStep) Do(_ context.Context, report *model.PatchReport) error {
	doc := report.Document
	if doc == nil {
		return fmt.Errorf("%s: %w", s.Name(), errNoDocument)
	}

	report.AfterDigest = Digest(doc.Content)

	if !doc.Changed() {
		report.Outcome = model.OutcomeUnchanged
		return nil
	}

	if report.DryRun {
		report.Outcome = model.OutcomeDryRun
		return nil
	}

	backupPath, err := s.backups.Snapshot(doc.Path)
	if err != nil {
		return err
	}
	report.BackupPath = backupPath
	s.logger.Debug("snapshot written",
		"document", doc.Path,
		"backup", backupPath,
	)

	if err := s.backups.Commit(doc.Path, doc.Content); err != nil {
		return err
	}

	report.Outcome = model.OutcomeCommitted
	return nil
}
