// Package validator holds the per-channel recipient predicates and the
// phone canonicalizer. All functions are total over arbitrary input: they
// never panic on malformed strings, they just reject them.
package validator

import (
	"regexp"
	"strings"
)

// Cameroonian mobile numbers: optional +237/237 prefix, then 9 significant
// digits starting with 6 or 7.
var cameroonPhonePattern = regexp.MustCompile(`^(\+237|237)?[6-7][0-9]{8}$`)

// ValidEmail reports whether the string can be used as an email recipient.
// The check is deliberately minimal (non-empty, contains '@'); invalid
// addresses are rejected and logged by the dispatcher, never silently
// dropped.
func ValidEmail(addr string) bool {
	addr = strings.TrimSpace(addr)
	return addr != "" && strings.Contains(addr, "@")
}

// ValidCameroonPhone reports whether the string, with internal spaces
// removed, is a valid Cameroonian mobile number.
func ValidCameroonPhone(phone string) bool {
	return cameroonPhonePattern.MatchString(strings.ReplaceAll(phone, " ", ""))
}

// FormatCameroonPhone normalizes a Cameroonian number to international
// +237XXXXXXXXX form. Input that does not look like a Cameroonian number is
// returned unchanged: an invalid number must never be "fixed" into a
// false-valid one, and callers re-validate before use.
func FormatCameroonPhone(phone string) string {
	cleaned := strings.ReplaceAll(phone, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "+", "")

	switch {
	case strings.HasPrefix(cleaned, "237"):
		return "+" + cleaned
	case len(cleaned) == 9 && (cleaned[0] == '6' || cleaned[0] == '7'):
		return "+237" + cleaned
	default:
		return phone
	}
}
