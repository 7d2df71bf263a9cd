// Package validate holds the input checks applied to customer contact
// details before a booking reaches the scheduling engine.
package validate

import (
	"regexp"
	"strings"
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	// Four digits (e.g. 2300), or four digits plus two letters with an
	// optional separating space (e.g. 1012AB, 1012 AB).
	postalCodeRe = regexp.MustCompile(`^[0-9]{4}(\s?[A-Za-z]{2})?$`)

	compactPostalRe = regexp.MustCompile(`^[0-9]{4}[A-Za-z]{2}$`)

	phoneStripRe = regexp.MustCompile(`[\s\-().]`)
	phoneRe      = regexp.MustCompile(`^\+?[0-9]{8,15}$`)
)

// Email reports whether s looks like a deliverable address. Deliberately
// permissive; the mail system is the real arbiter.
func Email(s string) bool {
	return emailRe.MatchString(strings.TrimSpace(s))
}

// Phone accepts 8 to 15 digits after stripping common separators, with an
// optional leading +.
func Phone(s string) bool {
	stripped := phoneStripRe.ReplaceAllString(strings.TrimSpace(s), "")
	return phoneRe.MatchString(stripped)
}

// PostalCode accepts the two supported national formats.
func PostalCode(s string) bool {
	return postalCodeRe.MatchString(strings.TrimSpace(s))
}

// NormalizePostalCode upper-cases and inserts the separating space in a
// six-character digit-letter code ("1012ab" -> "1012 AB"). Anything else is
// returned trimmed but otherwise untouched.
func NormalizePostalCode(s string) string {
	trimmed := strings.TrimSpace(s)
	if compactPostalRe.MatchString(trimmed) {
		return strings.ToUpper(trimmed[:4] + " " + trimmed[4:])
	}
	return strings.ToUpper(trimmed)
}
