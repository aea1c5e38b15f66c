package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for lessonpatch.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lessonpatch",
		Short: "Idempotent patcher for static lesson pages",
		Long: `lessonpatch applies content-aware, idempotent patches to static HTML lessons.

The quiz pipeline links css/section-quiz.css, inserts a quiz placeholder in
every content tab and injects the script that initializes the quizzes.
The theme pipeline links css/karniella-theme.css and rewrites the old
color palette.

Running a pipeline twice never changes a document twice. Every rewritten
document is copied to a timestamped backup first.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewQuizCmd())
	cmd.AddCommand(NewThemeCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
