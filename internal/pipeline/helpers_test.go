package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// lessonHTML builds a lesson page with one tab section per id.
func lessonHTML(ids ...string) string {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html lang=\"fr\">\n<head>\n    <meta charset=\"UTF-8\">\n    <title>Leçon</title>\n</head>\n<body>\n")
	for i, id := range ids {
		fmt.Fprintf(&sb, "    <div class=\"tab-content\" id=\"%s\">\n        <div class=\"container\">\n            <p>Section %d</p>\n        </div>\n    </div>\n", id, i+1)
	}
	sb.WriteString("</body>\n</html>\n")
	return sb.String()
}

// themeHTML builds a page using the old palette.
func themeHTML() string {
	return "<html>\n<head>\n<title>Cours</title>\n<style>\n" +
		".header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); }\n" +
		".btn { color: #667EEA; }\n" +
		".tab { background: #444; }\n" +
		"</style>\n</head>\n<body></body>\n</html>\n"
}

// writeDocument writes content to dir/name and returns the path.
func writeDocument(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write document: %v", err)
	}
	return path
}

// readDocument returns the content of path.
func readDocument(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read document: %v", err)
	}
	return string(data)
}

// backupsOf lists the backup files of path.
func backupsOf(t *testing.T, path string) []string {
	t.Helper()

	matches, err := filepath.Glob(path + ".*backup_*")
	if err != nil {
		t.Fatalf("glob failed: %v", err)
	}
	return matches
}

// fixedClock returns a clock frozen at a known instant.
func fixedClock() func() time.Time {
	t := time.Date(2025, 3, 14, 9, 26, 53, 0, time.Local)
	return func() time.Time { return t }
}
