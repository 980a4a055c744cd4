package ml

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MinimumTextLength is the minimum number of characters (after trimming)
// an input must have to be worth classifying.
const MinimumTextLength = 10

// ValidationReason identifies why an input was rejected.
type ValidationReason string

const (
	ReasonEmptyInput        ValidationReason = "empty_input"
	ReasonTooShort          ValidationReason = "too_short"
	ReasonWhitespaceOnly    ValidationReason = "whitespace_only"
	ReasonEmptyAfterCleanup ValidationReason = "empty_after_cleaning"
)

// ValidationError reports a rejected input. Callers match it with
// errors.As and map it to a 4xx status.
type ValidationError struct {
	Reason  ValidationReason
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(reason ValidationReason, format string, args ...any) *ValidationError {
	return &ValidationError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// ValidateInput checks raw user text before any normalization work is
// spent on it. Lengths count runes, not bytes, so multibyte scripts are
// held to the same bar as ASCII. The cleaned text is re-checked
// separately with ValidateCleaned, since markup stripping can consume
// all content.
func ValidateInput(text string) error {
	if text == "" {
		return newValidationError(ReasonEmptyInput, "input must be a non-empty string")
	}

	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < MinimumTextLength {
		return newValidationError(ReasonTooShort, "text too short (minimum %d characters)", MinimumTextLength)
	}

	// Whitespace-only input trims to length zero, so the length check
	// above already reported it as too short; this is a terminal guard.
	if trimmed == "" {
		return newValidationError(ReasonWhitespaceOnly, "text contains only whitespace")
	}

	return nil
}

// ValidateCleaned re-checks the minimum length after cleaning and
// truncation, failing when markup or links consumed all meaningful
// content.
func ValidateCleaned(cleaned string) error {
	if utf8.RuneCountInString(cleaned) < MinimumTextLength {
		return newValidationError(ReasonEmptyAfterCleanup, "text is empty or too short after preprocessing")
	}
	return nil
}
