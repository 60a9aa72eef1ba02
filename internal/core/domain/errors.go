package domain

import (
	"errors"
	"strings"
)

// Error kinds. Every error that leaves the core wraps exactly one of these so
// the transport layer can map it to a status code with errors.Is.
var (
	ErrValidation     = errors.New("validation error")
	ErrAuthentication = errors.New("authentication error")
	ErrAuthorization  = errors.New("authorization error")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrRateLimited    = errors.New("rate limit exceeded")
	ErrDatabase       = errors.New("database error")
	ErrInternal       = errors.New("internal server error")
)

// Error carries a client-safe message and optional details on top of a kind.
type Error struct {
	Kind    error
	Message string
	Details any
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

// NewError builds an Error of the given kind.
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func AuthenticationError(message string) *Error { return NewError(ErrAuthentication, message) }
func AuthorizationError(message string) *Error  { return NewError(ErrAuthorization, message) }
func NotFoundError(message string) *Error       { return NewError(ErrNotFound, message) }
func ConflictError(message string) *Error       { return NewError(ErrConflict, message) }

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects field errors so they can be reported together.
type ValidationErrors []FieldError

// Add appends a field error.
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, FieldError{Field: field, Message: message})
}

// Err returns nil when no field errors were collected, otherwise a
// validation Error whose details list every field error.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(v))
	for _, fe := range v {
		msgs = append(msgs, fe.Message)
	}
	return &Error{Kind: ErrValidation, Message: strings.Join(msgs, "; "), Details: []FieldError(v)}
}
