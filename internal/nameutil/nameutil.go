// Package nameutil cleans and checks free-text names typed into forms
// (release names, build releases, requirement folder names).
package nameutil

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ValidateName checks whether the provided value is acceptable for the
// named field. It trims and checks for empty values and non-UTF8 bytes. It
// does NOT mutate the input; use SanitizeName to remove undesirable
// characters first when desired.
func ValidateName(label, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%s is required", label)
	}
	if !utf8.ValidString(name) {
		return fmt.Errorf("%s contains invalid encoding", label)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("%s contains control character U+%04X (%q)", label, r, r)
		}
	}
	return nil
}

// SanitizeName removes common invisible/control characters and returns the
// sanitized string and a boolean indicating whether any change was made.
// It removes control characters, NULs, and zero-width characters commonly
// introduced by copy/paste (e.g., U+200B). Trimming of leading/trailing
// whitespace is also performed. Invalid UTF-8 bytes are kept as they are
// so ValidateName can reject them.
func SanitizeName(name string) (string, bool) {
	if name == "" {
		return name, false
	}
	var b strings.Builder
	b.Grow(len(name))
	for i := 0; i < len(name); {
		r, size := utf8.DecodeRuneInString(name[i:])
		seg := name[i : i+size]
		i += size
		if r == utf8.RuneError && size == 1 {
			b.WriteString(seg)
			continue
		}
		if unicode.IsControl(r) {
			continue
		}
		switch r {
		case '\u200B', '\u200C', '\u200D', '\uFEFF':
			continue
		}
		b.WriteString(seg)
	}
	res := strings.TrimSpace(b.String())
	return res, res != name
}
