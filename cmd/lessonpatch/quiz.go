package main

import (
	"log/slog"

	"github.com/jhouedanou/lessonpatch/internal/config"
	"github.com/jhouedanou/lessonpatch/internal/pipeline"
	"github.com/spf13/cobra"
)

// quizVariant builds quiz pipelines from the configured quiz settings.
var quizVariant = variant{
	name: pipeline.QuizPipelineName,
	registry: func(f *config.File) []string {
		return f.Quiz.Documents
	},
	factory: func(cfg *config.Config, logger *slog.Logger) (func() *pipeline.Pipeline, error) {
		settings := cfg.File.Quiz
		return func() *pipeline.Pipeline {
			return pipeline.NewQuizPipeline(settings, pipeline.WithVariantLogger(logger))
		}, nil
	},
}

// NewQuizCmd creates the quiz command.
func NewQuizCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz [document...]",
		Short: "Add section quizzes to lesson pages",
		Long: `Quiz prepares lesson pages for the section quiz widget.

For every document it:
- Links css/section-quiz.css right after </title>
- Inserts <div id="quiz-<section>"></div> into each content tab
- Injects the script that loads the questions and initializes each quiz

The last tab and tabs whose id contains "quiz" are treated as quiz tabs
and never receive a placeholder. Already patched documents are left
untouched. A backup (<document>.backup_<timestamp>) is written before a
document is rewritten.

Examples:
  # Patch a single lesson
  lessonpatch quiz maths-lecon-2-diviseurs.html

  # Patch with an explicit lesson identifier
  lessonpatch quiz --lesson-id maths-lecon-2 lessons/diviseurs.html

  # Preview the changes for every registered lesson
  lessonpatch quiz --all --dry-run

  # Write a Markdown report
  lessonpatch quiz --all --markdown -o reports/quiz.md`,
		Args: cobra.ArbitraryArgs,
		RunE: runPatchCmd(quizVariant),
	}

	addPatchFlags(cmd)

	return cmd
}
