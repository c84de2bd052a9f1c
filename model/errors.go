package model

import "fmt"

// ValidationError reports a payload field that failed construction-time
// validation. A payload is never partially accepted: the first failing field
// aborts validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
