package main

import (
	"log/slog"

	"github.com/jhouedanou/lessonpatch/internal/config"
	"github.com/jhouedanou/lessonpatch/internal/pipeline"
	"github.com/spf13/cobra"
)

// themeVariant builds theme pipelines from the configured theme settings.
//
// Design decision: The replacement rules are compiled once per run and
// shared by every pipeline; an invalid rule fails the run before any
// document is touched.
var themeVariant = variant{
	name: pipeline.ThemePipelineName,
	registry: func(f *config.File) []string {
		return f.Theme.Documents
	},
	factory: func(cfg *config.Config, logger *slog.Logger) (func() *pipeline.Pipeline, error) {
		patterns, err := pipeline.CompileThemeRules(cfg.File.Theme.Replacements)
		if err != nil {
			return nil, err
		}

		stylesheet := cfg.File.Theme.Stylesheet
		opts := []pipeline.VariantOption{
			pipeline.WithVariantLogger(logger),
			// Registry entries that were never created are not failures.
			pipeline.WithMissingAsSkipped(cfg.All),
		}

		return func() *pipeline.Pipeline {
			return pipeline.NewThemePipeline(stylesheet, patterns, opts...)
		}, nil
	},
}

// NewThemeCmd creates the theme command.
func NewThemeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme [document...]",
		Short: "Apply the site theme to lesson pages",
		Long: `Theme moves lesson pages to the site color palette.

For every document it:
- Links css/karniella-theme.css right after </title>
- Rewrites the old colors with ordered, case-insensitive replacement rules

With --all, registered documents missing on disk are reported as skipped.
A backup (<document>.theme_backup_<timestamp>) is written before a
document is rewritten.

Examples:
  # Apply the theme to every registered page
  lessonpatch theme --all

  # Preview the color changes of one page
  lessonpatch theme --dry-run svt.html

  # Use custom replacement rules
  lessonpatch theme -c site.yaml --all`,
		Args: cobra.ArbitraryArgs,
		RunE: runPatchCmd(themeVariant),
	}

	addPatchFlags(cmd)

	return cmd
}
