package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "lessonpatch"

	// DefaultConcurrency processes one document at a time.
	// Documents are independent, but sequential processing keeps log output
	// and backup timestamps in registry order.
	DefaultConcurrency = 1

	// DefaultRootDir is the directory registry paths are resolved against.
	DefaultRootDir = "."
)

// Config holds the options of a single CLI invocation.
// It is populated from flags and the configuration file and passed down
// explicitly; nothing in lessonpatch reads global state.
type Config struct {
	// RootDir is the directory relative document paths are resolved against.
	RootDir string

	// Documents is the list of document paths to patch.
	// Mutually exclusive with All.
	Documents []string

	// All selects every document of the pipeline's registry.
	All bool

	// DryRun computes and reports changes without writing anything.
	DryRun bool

	// LessonID overrides the identifier derived from the file name.
	// Only valid with exactly one document.
	LessonID string

	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool

	// Concurrency is the number of documents processed at once.
	Concurrency int

	// ConfigFilePath is the explicit configuration file path, if any.
	ConfigFilePath string

	// File holds the settings loaded from the configuration file merged
	// with the built-in defaults.
	File *File

	// JSONReport enables JSON report output. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report; stdout when empty.
	ReportFile string

	// SaveHistory records every processed document in the history database.
	SaveHistory bool

	// DBDir is the directory holding the history database.
	DBDir string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		RootDir:     DefaultRootDir,
		Concurrency: DefaultConcurrency,
		File:        DefaultFile(),
		SaveHistory: true,
		DBDir:       XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for lessonpatch.
// On Linux: ~/.local/share/lessonpatch
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for lessonpatch.
// On Linux: ~/.config/lessonpatch
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ResolvePath resolves a document path against RootDir.
// Absolute paths are returned unchanged.
func (c *Config) ResolvePath(path string) string {
	if filepath.IsAbs(path) || c.RootDir == "" {
		return path
	}
	return filepath.Join(c.RootDir, path)
}

// Targets returns the resolved document paths for a pipeline registry.
// When All is set the registry is used; otherwise Documents.
func (c *Config) Targets(registry []string) []string {
	source := c.Documents
	if c.All {
		source = registry
	}

	targets := make([]string, len(source))
	for i, p := range source {
		targets[i] = c.ResolvePath(p)
	}
	return targets
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if len(c.Documents) == 0 && !c.All {
		return ErrNoTarget
	}

	if len(c.Documents) > 0 && c.All {
		return ErrConflictingTargets
	}

	if c.LessonID != "" && (c.All || len(c.Documents) != 1) {
		return ErrLessonIDRequiresSingleDocument
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}
