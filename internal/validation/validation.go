// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9\-]+(\.[a-zA-Z0-9\-]+)*\.[a-zA-Z]{2,}$`)
	otpRegex   = regexp.MustCompile(`^[0-9]{6}$`)
	phoneRegex = regexp.MustCompile(`^\+?[0-9 ()\-]{5,20}$`)
)

const (
	maxUsernameLen = 30
	maxEmailLen    = 254
	// bcrypt ignores input past 72 bytes.
	maxPasswordBytes = 72
)

// ValidateUsername requires a non-empty username with no whitespace.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return fmt.Errorf("username must not exceed %d characters", maxUsernameLen)
	}
	for _, r := range username {
		if unicode.IsSpace(r) {
			return fmt.Errorf("username must not contain whitespace")
		}
	}
	return nil
}

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}

	if len(email) > maxEmailLen {
		return fmt.Errorf("email must not exceed %d characters", maxEmailLen)
	}

	return nil
}

// ValidatePassword requires a non-empty password bcrypt can hash in full.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password is required")
	}
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("password must not exceed %d bytes", maxPasswordBytes)
	}
	return nil
}

// ValidateOTP checks a 6-digit numeric code.
func ValidateOTP(code string) error {
	if !otpRegex.MatchString(code) {
		return fmt.Errorf("otp must be a 6-digit code")
	}
	return nil
}

// ValidatePhone accepts digits with common separators and an optional leading +.
func ValidatePhone(phone string) error {
	if !phoneRegex.MatchString(phone) {
		return fmt.Errorf("invalid phone number")
	}
	return nil
}

// Required returns an error naming field when value is blank.
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

// MaxRunes bounds value to max characters.
func MaxRunes(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return fmt.Errorf("%s must not exceed %d characters", field, max)
	}
	return nil
}

// ParseDeadline accepts a calendar date (YYYY-MM-DD) or an RFC 3339 timestamp.
func ParseDeadline(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("deadline is required")
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("deadline must be YYYY-MM-DD or RFC 3339")
}

// NormalizeDomains trims entries, drops blanks and removes duplicates while
// preserving first-seen order.
func NormalizeDomains(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, d := range in {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		key := strings.ToLower(d)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, d)
	}
	return out
}
