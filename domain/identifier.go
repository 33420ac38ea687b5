package domain

import (
	"regexp"
	"strings"
)

var (
	nonDigitPattern = regexp.MustCompile(`\D`)
	// Intentionally permissive: anything@anything.anything without spaces.
	// Matches what the rest of the platform accepts, so do not tighten it.
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	otpPattern   = regexp.MustCompile(`^\d{6}$`)
)

// NormalizePhone strips every non-digit character and returns the canonical
// 10-digit mobile number. Exactly 10 digits must remain and the first must
// be 6-9, per the regional mobile numbering plan.
func NormalizePhone(raw string) (string, error) {
	digits := nonDigitPattern.ReplaceAllString(raw, "")
	if len(digits) != 10 {
		return "", ErrInvalidPhone
	}
	if digits[0] < '6' || digits[0] > '9' {
		return "", ErrInvalidPhone
	}
	return digits, nil
}

// ValidateEmail reports whether raw looks like an email address.
func ValidateEmail(raw string) bool {
	return emailPattern.MatchString(raw)
}

// IsEmail classifies a combined email-or-phone input: it is an email iff it
// contains an @, otherwise it is treated as a phone number to normalize.
func IsEmail(identifier string) bool {
	return strings.Contains(identifier, "@")
}

// ValidOTPFormat reports whether code is exactly six digits.
func ValidOTPFormat(code string) bool {
	return otpPattern.MatchString(code)
}
