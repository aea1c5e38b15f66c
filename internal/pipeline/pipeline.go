package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jhouedanou/lessonpatch/internal/model"
)

// ErrSkipDocument is returned by a step to stop the pipeline without
// failing the document. The report's outcome becomes OutcomeSkipped.
var ErrSkipDocument = errors.New("document skipped")

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, with each step receiving the accumulated
// report from previous steps.
//
// Design decision: We use an interface rather than function types because:
// 1. It allows steps to carry configuration state
// 2. It provides a Name() method for logging and the performed-steps list
type Step interface {
	// Do executes the pipeline step.
	// It receives the context for cancellation, and the report to modify.
	// Returns an error if the document cannot be processed; non-fatal
	// problems are recorded as diagnostics and Do returns nil.
	Do(ctx context.Context, report *model.PatchReport) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
// It maintains a list of steps and executes them in order.
type Pipeline struct {
	// name identifies the variant in reports ("quiz", "theme").
	name string

	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// continueOnError determines whether to continue executing steps
	// after one fails. If false, the pipeline stops on first error.
	continueOnError bool
}

// Option is a function that configures a Pipeline.
// This follows the functional options pattern for clean API design.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithName sets the pipeline name recorded in reports.
func WithName(name string) Option {
	return func(p *Pipeline) {
		p.name = name
	}
}

// WithContinueOnError configures the pipeline to continue execution
// even when a step fails. The first error is still recorded in the report.
//
// Design decision: The default is to stop on error because a failed load
// or snapshot means later stages must not run: committing without a
// backup would break the "original is always recoverable" guarantee.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps:           make([]Step, 0),
		continueOnError: false,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// Name returns the pipeline name.
func (p *Pipeline) Name() string {
	return p.name
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence.
// It respects context cancellation and logs each step's execution.
//
// Design decision: We check context.Done() before each step rather than
// during, because a step works on an in-memory document and finishes
// quickly. Cancelling between steps never leaves a half-committed file.
//
// Returns the first error encountered if continueOnError is false,
// or nil if all steps complete (errors are recorded in report).
// ErrSkipDocument stops the pipeline and is not reported as an error.
func (p *Pipeline) Execute(ctx context.Context, report *model.PatchReport) error {
	var firstErr error

	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"document", report.Path,
				"reason", ctx.Err(),
			)
			report.Fail(ctx.Err())
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"document", report.Path,
		)

		err := step.Do(ctx, report)
		if errors.Is(err, ErrSkipDocument) {
			p.logger.Info("document skipped",
				"step", step.Name(),
				"document", report.Path,
			)
			report.Outcome = model.OutcomeSkipped
			report.PerformedSteps = append(report.PerformedSteps, step.Name())
			return nil
		}
		if err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"document", report.Path,
				"error", err,
			)

			if firstErr == nil {
				firstErr = err
				report.Fail(err)
			}

			if !p.continueOnError {
				return err
			}
		} else {
			p.logger.Debug("step completed",
				"step", step.Name(),
				"document", report.Path,
			)
		}

		report.PerformedSteps = append(report.PerformedSteps, step.Name())
	}

	return firstErr
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}

// Patch runs p once for the document at path and returns its report.
// lessonID overrides the identifier derived from the file name when set.
// The returned error is also recorded in the report.
func Patch(ctx context.Context, p *Pipeline, path, lessonID string, dryRun bool) (*model.PatchReport, error) {
	report := model.NewPatchReport(path, p.Name(), dryRun)
	report.LessonID = lessonID

	err := p.Execute(ctx, report)
	report.Finish()

	return report, err
}
