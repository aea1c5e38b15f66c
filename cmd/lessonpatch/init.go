package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jhouedanou/lessonpatch/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/lessonpatch.yaml
var configTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new lessonpatch configuration file",
		Long: `Initialize creates a new .lessonpatch.yaml configuration file in the current directory.

The generated file includes:
- The built-in stylesheet, script and selector settings
- Commented examples for document registries and theme replacements

Examples:
  # Create .lessonpatch.yaml in current directory
  lessonpatch init

  # Create config file at a specific path
  lessonpatch init -o site/lessonpatch.yaml

  # Force overwrite existing file
  lessonpatch init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/lessonpatch.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to configure settings such as:")
	fmt.Fprintln(out, "  - The document registries used by --all")
	fmt.Fprintln(out, "  - Stylesheet, script and question data paths")
	fmt.Fprintln(out, "  - Theme color replacement rules")

	return nil
}
