package transform

import (
	"fmt"
	"strings"
)

// lessonHTML builds a lesson page with one tab section per id.
// An empty id produces a section without an id attribute.
func lessonHTML(ids ...string) string {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html lang=\"fr\">\n<head>\n    <meta charset=\"UTF-8\">\n    <title>Leçon</title>\n</head>\n<body>\n")
	for i, id := range ids {
		attr := ""
		if id != "" {
			attr = fmt.Sprintf(` id="%s"`, id)
		}
		fmt.Fprintf(&sb, "    <div class=\"tab-content\"%s>\n        <div class=\"container\">\n            <p>Section %d</p>\n        </div>\n    </div>\n", attr, i+1)
	}
	sb.WriteString("</body>\n</html>\n")
	return sb.String()
}
