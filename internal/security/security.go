// Package security keeps credentials out of logs and terminal output.
package security

import (
	"regexp"
	"strings"
)

var secretPatterns = []*regexp.Regexp{
	// Authorization headers
	regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9\-._~+/]+=*`),
	// JSON credential fields
	regexp.MustCompile(`(?i)("(?:passcode|token|zephyr_token|jira_token)"\s*:\s*")[^"]*(")`),
}

// MaskToken keeps the last four characters of a token for identification.
func MaskToken(tok string) string {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return ""
	}
	if len(tok) <= 8 {
		return strings.Repeat("*", len(tok))
	}
	return strings.Repeat("*", 8) + tok[len(tok)-4:]
}

// Scrub replaces credentials found in s (bearer tokens, passcode and token
// JSON fields) with a fixed marker.
func Scrub(s string) string {
	out := secretPatterns[0].ReplaceAllString(s, "${1}[redacted]")
	out = secretPatterns[1].ReplaceAllString(out, "${1}[redacted]${2}")
	return out
}
