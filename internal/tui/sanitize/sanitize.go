// Package sanitize cleans text received from the backend (project names,
// release names, error details) before it is drawn in the terminal. Escape
// sequences are removed so a crafted name cannot move the cursor, switch
// screens or recolor the dashboard.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	oscRe = regexp.MustCompile(`\x1b\][^\x07\x1b]*(\x07|\x1b\\)`)
	csiRe = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)
	escRe = regexp.MustCompile(`\x1b[@-Z\\-_]`)
)

// Text strips escape sequences and control characters. Newlines and tabs
// become single spaces and runs of whitespace are collapsed.
func Text(in string) string {
	out := oscRe.ReplaceAllString(in, "")
	out = csiRe.ReplaceAllString(out, "")
	out = escRe.ReplaceAllString(out, "")

	var b strings.Builder
	b.Grow(len(out))
	space := false
	for _, r := range out {
		switch {
		case r == '\n' || r == '\r' || r == '\t' || unicode.IsSpace(r):
			if !space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = true
			continue
		case unicode.IsControl(r), r == '\u200B', r == '\u200C', r == '\u200D', r == '\uFEFF':
			continue
		}
		space = false
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), " ")
}

// Truncate shortens s to at most width runes, ending with an ellipsis when
// cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
