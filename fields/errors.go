package fields

import "fmt"

// DecodeError reports that a single field's raw value could not be
// converted to its domain type. The schema layer fills in Field when it
// knows which declared field produced the failure.
type DecodeError struct {
	Field string
	Cause error
}

// Error returns the field-tagged message.
func (e *DecodeError) Error() string {
	if e.Field == "" {
		return e.Cause.Error()
	}
	return fmt.Sprintf("invalid value for %q: %v", e.Field, e.Cause)
}

// Unwrap exposes the cause for errors.Is/As.
func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// decodeErrorf builds an unnamed DecodeError.
func decodeErrorf(format string, args ...any) error {
	return &DecodeError{Cause: fmt.Errorf(format, args...)}
}

// Named tags err with the field name it belongs to. An existing unnamed
// DecodeError is claimed in place; anything else is wrapped.
func Named(field string, err error) *DecodeError {
	if derr, ok := err.(*DecodeError); ok {
		if derr.Field == "" {
			derr.Field = field
		}
		return derr
	}
	return &DecodeError{Field: field, Cause: err}
}
