package validation

import (
	"strings"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"member@example.com", true},
		{"first.last@dept.example.org", true},
		{"UPPER@EXAMPLE.COM", true},
		{"short@ex.io", true},
		{"name@domain.museum", false}, // TLD longer than 4
		{"name@domain.c", false},      // TLD shorter than 2
		{"no-at-sign.com", false},
		{"two@@example.com", false},
		{"@example.com", false},
		{"name@", false},
		{"", false},
		{"name@example.com ", false},
	}
	for _, tt := range tests {
		if got := ValidateEmail(tt.in); got != tt.want {
			t.Errorf("ValidateEmail(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidateTamuEmail(t *testing.T) {
	if !ValidateTamuEmail("howdy@tamu.edu") {
		t.Error("expected institutional address to validate")
	}
	if ValidateTamuEmail("howdy@gmail.com") {
		t.Error("non-institutional domain must fail")
	}
	if ValidateTamuEmail("howdy@email.tamu.edu") {
		t.Error("subdomain addresses must fail")
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"abc123", true},
		{"p@ssw0rd!", true},
		{"with space ok", true},
		{"short", false},  // 5 chars
		{"abcde", false},  // 5 chars
		{"\tbad\tpw", false}, // control chars outside allow-list
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidatePassword(tt.in); got != tt.want {
			t.Errorf("ValidatePassword(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	long := make([]byte, 65)
	for i := range long {
		long[i] = 'a'
	}
	if ValidatePassword(string(long)) {
		t.Error("65-char password must fail")
	}
	if !ValidatePassword(string(long[:64])) {
		t.Error("64-char password must pass")
	}
}

func TestEvaluatePasswordStrength(t *testing.T) {
	tests := []struct {
		in   string
		want PasswordStrength
	}{
		{"bad", StrengthInvalid},       // fails base regex
		{"", StrengthInvalid},
		{"abc123", StrengthWeak},       // 6 chars
		{"abcdefg", StrengthWeak},      // 7 chars
		{"abcdefgh", StrengthAverage},  // 8, all letters
		{"12345678901234", StrengthAverage}, // 14, all digits
		{"a1b2c3d4", StrengthAverage},  // mixed but < 10
		{"a1b2c3d4e5", StrengthStrong}, // 10, mixed
		{"correct horse batt", StrengthStrong},
		{"abcdefghijklmno", StrengthStrong}, // 15 letters: run regex no longer demotes
	}
	for _, tt := range tests {
		if got := EvaluatePasswordStrength(tt.in); got != tt.want {
			t.Errorf("EvaluatePasswordStrength(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// Every string accepted by ValidatePassword maps to one of the three non-invalid
// tiers, and every rejected string maps to INVALID.
func TestStrengthTotalOverValidity(t *testing.T) {
	samples := []string{
		"", "a", "abc123", "abcdefgh", "p@ss word 42", "1234567890123456",
		"\x00bad", "with\ttab", "ok-pass_123",
	}
	for _, s := range samples {
		strength := EvaluatePasswordStrength(s)
		if ValidatePassword(s) {
			if strength == StrengthInvalid {
				t.Errorf("valid password %q mapped to INVALID", s)
			}
		} else if strength != StrengthInvalid {
			t.Errorf("invalid password %q mapped to %v", s, strength)
		}
	}
}

func TestNameValidators(t *testing.T) {
	if !ValidateDisplayName("Paco") || !ValidateName("Paco") {
		t.Error("short names must validate")
	}
	if ValidateDisplayName("") || ValidateName("") {
		t.Error("empty names must fail")
	}

	long := make([]byte, 256)
	for i := range long {
		long[i] = 'x'
	}
	if ValidateDisplayName(string(long[:81])) {
		t.Error("81-char display name must fail")
	}
	if !ValidateDisplayName(string(long[:80])) {
		t.Error("80-char display name must pass")
	}
	if ValidateName(string(long)) {
		t.Error("256-char name must fail")
	}
	if !ValidateName(string(long[:255])) {
		t.Error("255-char name must pass")
	}

	// Accented names are two bytes per rune in UTF-8; length limits count runes.
	if !ValidateDisplayName(strings.Repeat("é", 80)) {
		t.Error("80-character accented display name must pass")
	}
	if ValidateDisplayName(strings.Repeat("é", 81)) {
		t.Error("81-character accented display name must fail")
	}
	if !ValidateName(strings.Repeat("ñ", 255)) {
		t.Error("255-character accented name must pass")
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"paco_42", true},
		{"paco-42", true},
		{"Paco42", true},
		{"paco 42", false},
		{"paco!", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidateUsername(tt.in); got != tt.want {
			t.Errorf("ValidateUsername(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidateFileBlob(t *testing.T) {
	const mb = 1 << 20

	if !ValidateFileBlob("application/pdf", 2*mb, ResumeFiles, 5*mb) {
		t.Error("pdf within size cap must pass")
	}
	if ValidateFileBlob("application/pdf", 6*mb, ResumeFiles, 5*mb) {
		t.Error("oversize pdf must fail")
	}
	if ValidateFileBlob("image/png", mb, ResumeFiles, 5*mb) {
		t.Error("image type must fail the resume allow-list")
	}
	if !ValidateFileBlob("image/png", mb, ImageFiles, 0) {
		t.Error("zero maxBytes disables the size check")
	}
}
