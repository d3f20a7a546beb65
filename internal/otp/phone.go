package otp

import (
	"strings"
)

// CountryCode is prefixed to bare national numbers.
const CountryCode = "91"

var phoneStripper = strings.NewReplacer(" ", "", "\t", "", "-", "", "(", "", ")", "")

// NormalizePhone returns the canonical international form of raw.
//
// Whitespace, dashes and parentheses are removed. A number already starting
// with "+" is kept, a 12 digit number starting with the country code gains
// "+", and anything else gets "+91" prepended. Empty input stays empty.
func NormalizePhone(raw string) string {
	clean := phoneStripper.Replace(strings.TrimSpace(raw))
	if clean == "" {
		return ""
	}
	if strings.HasPrefix(clean, "+") {
		return clean
	}
	if strings.HasPrefix(clean, CountryCode) && len(clean) == 12 {
		return "+" + clean
	}
	return "+" + CountryCode + clean
}

// LooksLikePhone reports whether identifier should be treated as a phone
// number rather than an email address.
func LooksLikePhone(identifier string) bool {
	s := strings.TrimSpace(identifier)
	if s == "" || strings.Contains(s, "@") {
		return false
	}
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' || r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits > 0
}
