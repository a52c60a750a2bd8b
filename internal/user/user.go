// Package user holds the identity rules for CQE accounts.
package user

import (
	"regexp"
	"strings"
)

// PasscodeLength is the fixed number of digits of a passcode.
const PasscodeLength = 4

var (
	soeidRe    = regexp.MustCompile(`^[A-Za-z]{2}\d{5}$`)
	passcodeRe = regexp.MustCompile(`^\d{4}$`)
)

// ValidSOEID reports whether s has the SOEID shape: two letters followed by
// five digits (e.g. AB12345).
func ValidSOEID(s string) bool {
	return soeidRe.MatchString(strings.TrimSpace(s))
}

// ValidPasscode reports whether s is exactly PasscodeLength digits.
func ValidPasscode(s string) bool {
	return passcodeRe.MatchString(s)
}

// NormalizeSOEID trims and upper-cases an SOEID.
func NormalizeSOEID(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// DigitsOnly drops every non-digit rune, mirroring how passcode fields only
// accept digits as they are typed. The result is capped at PasscodeLength.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' && b.Len() < PasscodeLength {
			b.WriteRune(r)
		}
	}
	return b.String()
}
