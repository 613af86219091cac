// Package validation holds the pure input predicates used by account setup,
// profile editing and the resume bank. Predicates never fail with an error:
// malformed input is simply invalid.
package validation

import (
	"regexp"
	"unicode/utf8"
)

var (
	emailRe     = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,4}$`)
	tamuEmailRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@tamu\.edu$`)

	// Allow-listed printable ASCII for passwords, 6-64 chars.
	passwordRe = regexp.MustCompile("^[A-Za-z0-9!@#$%^&*()_\\-+=\\[\\]{};:'\",.<>/?\\\\|`~ ]{6,64}$")

	// A password that is one unbroken run of letters or of digits.
	simpleRunRe = regexp.MustCompile(`^[A-Za-z]+$|^[0-9]+$`)

	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// ValidateEmail reports whether s looks like name@domain.tld with a 2-4 letter
// TLD, case-insensitively.
func ValidateEmail(s string) bool {
	return emailRe.MatchString(s)
}

// ValidateTamuEmail accepts the same local part as ValidateEmail with the
// domain fixed to the institutional suffix.
func ValidateTamuEmail(s string) bool {
	return tamuEmailRe.MatchString(s)
}

// ValidatePassword reports whether s is 6-64 characters drawn from the
// allow-listed printable-ASCII set.
func ValidatePassword(s string) bool {
	return passwordRe.MatchString(s)
}

// PasswordStrength is the coarse tier shown next to the password field.
type PasswordStrength int

const (
	StrengthInvalid PasswordStrength = iota
	StrengthWeak
	StrengthAverage
	StrengthStrong
)

func (s PasswordStrength) String() string {
	switch s {
	case StrengthWeak:
		return "WEAK"
	case StrengthAverage:
		return "AVERAGE"
	case StrengthStrong:
		return "STRONG"
	default:
		return "INVALID"
	}
}

// EvaluatePasswordStrength maps every string to exactly one tier. Strings that
// fail ValidatePassword are INVALID; otherwise length and content decide.
func EvaluatePasswordStrength(s string) PasswordStrength {
	if !ValidatePassword(s) {
		return StrengthInvalid
	}
	n := len(s)
	if n <= 7 {
		return StrengthWeak
	}
	if (n <= 14 && simpleRunRe.MatchString(s)) || n < 10 {
		return StrengthAverage
	}
	return StrengthStrong
}

// ValidateDisplayName accepts 1-80 character display names. Lengths count
// characters, not bytes, so accented names are measured as typed.
func ValidateDisplayName(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= 1 && n <= 80
}

// ValidateName accepts 1-255 character full names.
func ValidateName(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= 1 && n <= 255
}

// ValidateUsername restricts usernames to alphanumerics plus '_' and '-'.
// Uniqueness is a separate async lookup, not part of this predicate.
func ValidateUsername(s string) bool {
	return usernameRe.MatchString(s)
}

// ResumeFiles and ImageFiles are the MIME allow-lists for uploads.
var (
	ResumeFiles = []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
	ImageFiles = []string{
		"image/png",
		"image/jpg",
		"image/jpeg",
		"image/gif",
	}
)

// ValidateFileBlob checks a declared MIME type against an allow-list and,
// when maxBytes > 0, enforces a size cap.
func ValidateFileBlob(contentType string, size int64, allowed []string, maxBytes int64) bool {
	if maxBytes > 0 && size > maxBytes {
		return false
	}
	for _, t := range allowed {
		if contentType == t {
			return true
		}
	}
	return false
}
