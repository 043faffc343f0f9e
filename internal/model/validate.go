package model

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrValidation matches every *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError reports a single rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is lets callers test for ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid returns a ValidationError for field.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ValidateLength trims value and checks its rune count is within [min, max].
// Returns the trimmed value.
func ValidateLength(field, value string, min, max int) (string, error) {
	value = strings.TrimSpace(value)
	n := utf8.RuneCountInString(value)
	if n < min {
		if min == 1 {
			return value, Invalid(field, "is required")
		}
		return value, Invalid(field, "must be at least %d characters", min)
	}
	if n > max {
		return value, Invalid(field, "must be at most %d characters", max)
	}
	return value, nil
}

// ValidateEmail performs a syntactic check: a non-empty local part, a single
// "@" and a dotted domain with non-empty labels. Returns the trimmed value.
func ValidateEmail(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return value, Invalid(field, "is required")
	}
	if len(value) > 254 {
		return value, Invalid(field, "is too long")
	}
	if strings.IndexFunc(value, unicode.IsSpace) >= 0 {
		return value, Invalid(field, "must not contain spaces")
	}

	local, domain, ok := strings.Cut(value, "@")
	if !ok || local == "" || strings.Contains(domain, "@") {
		return value, Invalid(field, "is not a valid email address")
	}

	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return value, Invalid(field, "is not a valid email address")
	}
	for _, l := range labels {
		if l == "" || strings.HasPrefix(l, "-") || strings.HasSuffix(l, "-") {
			return value, Invalid(field, "is not a valid email address")
		}
	}
	return value, nil
}

// ValidatePassword checks the password length bounds.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return Invalid("password", "must be at least %d characters", MinPasswordLength)
	}
	if len(password) > MaxPasswordBytes {
		return Invalid("password", "must be at most %d bytes", MaxPasswordBytes)
	}
	return nil
}

// ValidateCategory returns the canonical category. Empty input means Other.
func ValidateCategory(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return CategoryOther, nil
	}
	for _, c := range Categories {
		if strings.EqualFold(c, value) {
			return c, nil
		}
	}
	return value, Invalid("category", "unknown category %q", value)
}

// ValidateItemStatus rejects anything outside the item status enum.
func ValidateItemStatus(status string) error {
	for _, s := range ItemStatuses {
		if s == status {
			return nil
		}
	}
	return Invalid("status", "unknown status %q", status)
}
