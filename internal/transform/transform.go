package transform

import "github.com/jhouedanou/lessonpatch/internal/model"

// Stage names used in change reports.
const (
	StageStylesheet   = "stylesheet"
	StagePlaceholders = "placeholders"
	StageScript       = "script"
	StageColors       = "colors"
)

// Result describes what a single Apply call did.
type Result struct {
	// Count is the number of changes made.
	Count int

	// Skipped is the number of units deliberately left alone.
	Skipped int

	// Sections lists the sections visited, for tree based transformations.
	Sections []model.Section

	// Diagnostics holds non-fatal observations.
	Diagnostics []model.Diagnostic
}

// Transformation is a single idempotent patch.
type Transformation interface {
	// Name returns the stage name used in change reports.
	Name() string

	// Applied reports whether the document already carries this patch.
	// When it returns true the pipeline skips Apply entirely.
	Applied(doc *model.Document) bool

	// Apply mutates doc.Content. Non-fatal problems are returned as
	// diagnostics; an error means the document could not be processed.
	Apply(doc *model.Document) (Result, error)
}

// diagnostic is a small constructor used by the transformations.
func diagnostic(stage, section, message string) model.Diagnostic {
	return model.Diagnostic{Stage: stage, Section: section, Message: message}
}
