package domain

import (
	"errors"
	"strings"
)

var (
	// ErrTestNotFound is returned when a test id does not resolve.
	ErrTestNotFound = errors.New("test not found")
	// ErrUnauthorized is returned when the caller could not be identified.
	ErrUnauthorized = errors.New("not authorized")
	// ErrForbidden is returned when the caller lacks the admin role.
	ErrForbidden = errors.New("not authorized as an admin")
)

// FieldError describes a problem with one payload field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when a payload is missing or has invalid fields.
type ValidationError struct {
	Message string
	Fields  []FieldError
}

func NewValidationError(message string, fields ...FieldError) error {
	return &ValidationError{Message: message, Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return e.Message + ": " + strings.Join(msgs, ", ")
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
