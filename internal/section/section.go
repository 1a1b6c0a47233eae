// Package section classifies header lines and resolves the dotted-id hierarchy.
package section

import (
	"strings"
	"unicode"
)

// IsHeader reports whether a line opens a new section: after trimming it is
// non-empty and starts with an ASCII digit. Page numbers and numbered list
// items match too; callers rely on that.
func IsHeader(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	return line[0] >= '0' && line[0] <= '9'
}

// SplitHeader returns the section id and title of a header line. The id is the
// first whitespace-delimited token with trailing dots removed; the title is the
// rest of the line, or "" when there is none.
func SplitHeader(line string) (id, title string) {
	line = strings.TrimSpace(line)
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return strings.TrimRight(line, "."), ""
	}
	id = strings.TrimRight(line[:i], ".")
	title = strings.TrimLeftFunc(line[i:], unicode.IsSpace)
	return id, title
}

// Level is the number of dot-separated components in id.
func Level(id string) int {
	return strings.Count(id, ".") + 1
}

// ParentID returns id without its last component. ok is false for
// top-level ids.
func ParentID(id string) (parent string, ok bool) {
	i := strings.LastIndex(id, ".")
	if i < 0 {
		return "", false
	}
	return id[:i], true
}
