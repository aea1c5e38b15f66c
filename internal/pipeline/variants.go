package pipeline

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jhouedanou/lessonpatch/internal/backup"
	"github.com/jhouedanou/lessonpatch/internal/config"
	"github.com/jhouedanou/lessonpatch/internal/transform"
)

// Pipeline variant names.
const (
	QuizPipelineName  = "quiz"
	ThemePipelineName = "theme"
)

// variantOptions collects the settings shared by the two variants.
type variantOptions struct {
	logger      *slog.Logger
	clock       func() time.Time
	skipMissing bool
}

// VariantOption configures a pipeline variant.
type VariantOption func(*variantOptions)

// WithVariantLogger sets the logger used by the pipeline and its steps.
func WithVariantLogger(logger *slog.Logger) VariantOption {
	return func(o *variantOptions) {
		o.logger = logger
	}
}

// WithBackupClock sets the clock used to timestamp backups.
func WithBackupClock(now func() time.Time) VariantOption {
	return func(o *variantOptions) {
		o.clock = now
	}
}

// WithMissingAsSkipped reports documents that do not exist as skipped
// instead of failed.
func WithMissingAsSkipped(skip bool) VariantOption {
	return func(o *variantOptions) {
		o.skipMissing = skip
	}
}

func newVariantOptions(opts []VariantOption) *variantOptions {
	o := &variantOptions{
		logger: slog.Default(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// assemble builds load, transform and commit steps around transformations.
func assemble(name, suffix string, o *variantOptions, transformations ...transform.Transformation) *Pipeline {
	p := New(WithName(name), WithLogger(o.logger))

	p.AddStep(NewLoadStep(WithSkipMissing(o.skipMissing)))
	for _, t := range transformations {
		p.AddStep(NewTransformStep(t, WithTransformLogger(o.logger)))
	}
	p.AddStep(NewCommitStep(
		backup.NewManager(backup.WithSuffix(suffix), backup.WithClock(o.clock)),
		WithCommitLogger(o.logger),
	))

	return p
}

// NewQuizPipeline creates the quiz variant:
// stylesheet link, section placeholders, then the initialization script.
// Empty settings fall back to the built-in defaults.
//
// Design decision: The script stage runs after the placeholder stage
// because it counts the placeholders present in the document, both new
// ones and ones from an earlier run.
func NewQuizPipeline(settings config.QuizSettings, opts ...VariantOption) *Pipeline {
	o := newVariantOptions(opts)
	settings = (&config.File{Quiz: settings}).WithDefaults().Quiz

	return assemble(QuizPipelineName, backup.QuizSuffix, o,
		transform.NewStylesheetLinker(settings.Stylesheet),
		transform.NewPlaceholderInserter(
			transform.WithSectionSelector(settings.SectionSelector),
			transform.WithContainerSelector(settings.ContainerSelector),
			transform.WithPlaceholderLogger(o.logger),
		),
		transform.NewScriptInjector(
			transform.WithScriptSrc(settings.Script),
			transform.WithQuestionsURL(settings.Questions),
			transform.WithInitFunction(settings.InitFunction),
		),
	)
}

// CompileThemeRules compiles the theme replacement rules.
// The result is safe for concurrent use and can be shared by every
// theme pipeline of a batch.
func CompileThemeRules(rules []config.ReplacementRule) (*transform.PatternTransformer, error) {
	converted := make([]transform.Rule, len(rules))
	for i, r := range rules {
		converted[i] = transform.Rule{Pattern: r.Pattern, Replacement: r.Replacement}
	}

	patterns, err := transform.NewPatternTransformer(converted)
	if err != nil {
		return nil, fmt.Errorf("failed to compile theme rules: %w", err)
	}
	return patterns, nil
}

// NewThemePipeline creates the theme variant:
// stylesheet link, then color harmonization.
func NewThemePipeline(stylesheet string, patterns *transform.PatternTransformer, opts ...VariantOption) *Pipeline {
	o := newVariantOptions(opts)
	if stylesheet == "" {
		stylesheet = config.DefaultThemeStylesheet
	}

	return assemble(ThemePipelineName, backup.ThemeSuffix, o,
		transform.NewStylesheetLinker(stylesheet),
		transform.NewColorHarmonizer(patterns),
	)
}
