package domain

import (
	"regexp"
	"strings"
	"time"
)

const (
	MinPasswordLength = 8
	MaxNameLength     = 200
)

var emailRE = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func ValidateEmail(email string) error {
	if !emailRE.MatchString(email) {
		return Validation("invalid email address")
	}
	return nil
}

func ValidatePassword(pw string) error {
	if len(pw) < MinPasswordLength {
		return Validation("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// ValidateUsername accepts 3 to 32 letters, digits, dots, dashes and
// underscores.
func ValidateUsername(name string) error {
	if len(name) < 3 || len(name) > 32 {
		return Validation("username must be 3 to 32 characters")
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '.', r == '-', r == '_':
		default:
			return Validation("username may only contain letters, digits, '.', '-' and '_'")
		}
	}
	return nil
}

// RequireText trims s and checks it is non-empty and not overly long.
func RequireText(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", Validation("%s is required", field)
	}
	if len(s) > MaxNameLength {
		return "", Validation("%s must be at most %d characters", field, MaxNameLength)
	}
	return s, nil
}

// ValidateMeetingWindow requires end strictly after start.
func ValidateMeetingWindow(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return Validation("start and end time are required")
	}
	if !end.After(start) {
		return Validation("end time must be after start time")
	}
	return nil
}
