// Package log provides logging built on top of the standard slog package.
//
// This package extends slog to provide:
//   - Rewriting of home directory prefixes in path attributes to "~"
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//
// Lesson runs are often pasted into issues or chat when a page looks
// wrong; document and backup paths are logged on almost every line, and
// absolute paths expose the operator's account name.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//
//	logger.Warn("no insertion container",
//	    "document", "/home/alice/site/maths.html", // Logged as "~/site/maths.html"
//	)
//
//	slog.SetDefault(logger)
package log
