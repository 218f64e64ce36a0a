package submit

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers for submission failure classification. Wrap tags errors
// with one of these so callers can map them to the right surface.
var (
	// ErrCooldown rejects a repeated trigger inside the cooldown window.
	// It is a rate limit, not a failure.
	ErrCooldown = errors.New("submission cooldown")
	// ErrNotConfigured covers every "farm not connected" state.
	ErrNotConfigured = errors.New("farm not configured")
	// ErrValidation covers precondition failures: unsaved document, empty
	// output, inverted range.
	ErrValidation = errors.New("validation error")
	// ErrIO covers save and write failures.
	ErrIO = errors.New("io error")
)

// Severity classifies a submission error for reporting.
type Severity int

const (
	SeverityFailure Severity = iota
	SeverityRateLimit
	SeverityConfiguration
	SeverityValidation
)

// Classify maps a submission error to its reporting severity.
func Classify(err error) Severity {
	switch {
	case errors.Is(err, ErrCooldown):
		return SeverityRateLimit
	case errors.Is(err, ErrNotConfigured):
		return SeverityConfiguration
	case errors.Is(err, ErrValidation):
		return SeverityValidation
	default:
		return SeverityFailure
	}
}

// Wrap builds an error message that includes operation context while tagging
// it with the provided marker for later classification.
func Wrap(marker error, operation, message string, err error) error {
	detail := buildDetail(operation, message)
	if marker == nil {
		marker = ErrIO
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(operation, message string) string {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "submission failure"
	}
	return strings.Join(parts, ": ")
}
