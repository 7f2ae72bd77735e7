package errors

import (
	"errors"
	"fmt"
)

// Common error types
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that invalid input was provided
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingField indicates that a required setting is empty
	ErrMissingField = errors.New("required value is empty")

	// ErrInvalidURL indicates that a setting is not an absolute http(s) URL
	ErrInvalidURL = errors.New("not an absolute http(s) URL")

	// ErrUnknownEnvironment indicates an unsupported deployment target name
	ErrUnknownEnvironment = errors.New("unknown environment")
)

// FieldError reports a problem with one setting, named by its persisted key
// (for example "auth0.callbackURL").
type FieldError struct {
	Field string // Setting that failed
	Value string // Offending value, empty when the setting is missing
	Err   error  // Underlying error
}

// Error implements the error interface
func (e *FieldError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: %v (value: %q)", e.Field, e.Err, e.Value)
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

// Unwrap allows errors.Is and errors.As to work
func (e *FieldError) Unwrap() error {
	return e.Err
}

// NewFieldError creates a new FieldError
func NewFieldError(field string, err error) *FieldError {
	return &FieldError{
		Field: field,
		Err:   err,
	}
}

// WithValue records the offending value on a FieldError
func (e *FieldError) WithValue(value string) *FieldError {
	e.Value = value
	return e
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error was produced by validating settings
func IsValidation(err error) bool {
	return errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrInvalidURL) ||
		errors.Is(err, ErrInvalidInput)
}

// Fields returns the names of every setting reported in err, in order.
// It understands errors joined with errors.Join.
func Fields(err error) []string {
	var out []string
	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		if fe, ok := e.(*FieldError); ok {
			out = append(out, fe.Field)
			return
		}
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(u.Unwrap())
		}
	}
	walk(err)
	return out
}
