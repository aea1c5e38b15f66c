package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// HomeToken replaces the home directory in logged values.
const HomeToken = "~"

// PathHandler wraps an slog.Handler and rewrites every occurrence of the
// user's home directory in string attributes to HomeToken.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Call sites log raw paths and never need to remember to shorten them
type PathHandler struct {
	// handler is the underlying slog handler that receives rewritten records.
	handler slog.Handler

	// home is the directory to hide. Empty disables rewriting.
	home string
}

// NewPathHandler creates a new PathHandler wrapping the given handler.
// If handler is nil, slog.Default().Handler() is used. A home of "" or "/"
// disables rewriting.
func NewPathHandler(handler slog.Handler, home string) *PathHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}

	home = filepath.Clean(home)
	if home == "." || home == string(filepath.Separator) {
		home = ""
	}

	return &PathHandler{handler: handler, home: home}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *PathHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle rewrites the record's attributes and passes it to the underlying handler.
func (h *PathHandler) Handle(ctx context.Context, r slog.Record) error {
	rewritten := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		rewritten.AddAttrs(h.rewriteAttr(a))
		return true
	})

	return h.handler.Handle(ctx, rewritten)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are rewritten before being added.
func (h *PathHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	rewritten := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		rewritten[i] = h.rewriteAttr(a)
	}
	return &PathHandler{handler: h.handler.WithAttrs(rewritten), home: h.home}
}

// WithGroup returns a new handler with the given group name.
func (h *PathHandler) WithGroup(name string) slog.Handler {
	return &PathHandler{handler: h.handler.WithGroup(name), home: h.home}
}

// rewriteAttr rewrites a single attribute, recursively handling groups.
func (h *PathHandler) rewriteAttr(a slog.Attr) slog.Attr {
	if h.home == "" {
		return a
	}

	switch a.Value.Kind() {
	case slog.KindGroup:
		attrs := a.Value.Group()
		rewritten := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			rewritten[i] = h.rewriteAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(rewritten...)}
	case slog.KindString:
		return slog.String(a.Key, h.ShortenPath(a.Value.String()))
	case slog.KindAny:
		// Errors usually embed the failing path.
		if err, ok := a.Value.Any().(error); ok {
			return slog.String(a.Key, h.ShortenPath(err.Error()))
		}
	}

	return a
}

// ShortenPath replaces every occurrence of the home directory in s.
// Only whole path prefixes are replaced: with home "/home/al", the
// value "/home/alice" is left alone.
func (h *PathHandler) ShortenPath(s string) string {
	if h.home == "" || !strings.Contains(s, h.home) {
		return s
	}

	var sb strings.Builder
	rest := s
	for {
		i := strings.Index(rest, h.home)
		if i < 0 {
			sb.WriteString(rest)
			break
		}

		end := i + len(h.home)
		if end == len(rest) || rest[end] == filepath.Separator || rest[end] == '/' {
			sb.WriteString(rest[:i])
			sb.WriteString(HomeToken)
		} else {
			sb.WriteString(rest[:end])
		}
		rest = rest[end:]
	}
	return sb.String()
}

// NewLogger creates a new slog.Logger writing text records to w with home
// directories shortened.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}

	return slog.New(NewPathHandler(slog.NewTextHandler(w, opts), home))
}
