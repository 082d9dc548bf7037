package schema

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError aggregates every per-field problem found during a
// single Load call, keyed by field name, so a caller can report all of
// them in one round trip.
type ValidationError struct {
	FieldErrors map[string]string
}

func newValidationError() *ValidationError {
	return &ValidationError{FieldErrors: make(map[string]string)}
}

func (e *ValidationError) add(field, message string) {
	e.FieldErrors[field] = message
}

func (e *ValidationError) empty() bool {
	return len(e.FieldErrors) == 0
}

// Error lists the failing fields in deterministic order.
func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.FieldErrors))
	for name := range e.FieldErrors {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.FieldErrors[name]))
	}
	return "invalid request: " + strings.Join(parts, "; ")
}

// InvalidArgumentCombo reports a cross-field rule violation: each field
// passed on its own but the combination is inconsistent. Values holds
// the offending field values for diagnostics.
type InvalidArgumentCombo struct {
	Message string
	Values  map[string]any
}

func (e *InvalidArgumentCombo) Error() string {
	return e.Message
}
