package errors

import (
	"errors"
	"fmt"
)

// Error kinds. Service sentinels wrap exactly one of these so the HTTP layer
// can pick a status code without knowing every sentinel.
var (
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

// New declares a sentinel of the given kind.
func New(kind error, message string) error {
	return &kindError{kind: kind, message: message}
}

type kindError struct {
	kind    error
	message string
}

func (e *kindError) Error() string { return e.message }
func (e *kindError) Unwrap() error { return e.kind }

// ValidationError is a field level validation failure (surfaced as 422).
type ValidationError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// NewValidation builds a field error.
func NewValidation(field, rule, message string) *ValidationError {
	return &ValidationError{Field: field, Rule: rule, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// KindOf returns the taxonomy kind err belongs to, or nil.
func KindOf(err error) error {
	for _, k := range []error{ErrValidation, ErrConflict, ErrBadRequest, ErrUnauthorized, ErrForbidden, ErrNotFound} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
