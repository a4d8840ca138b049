// Package apperr defines the typed error taxonomy shared by every layer.
// Handlers switch on the error Kind to choose an HTTP status; nothing in the
// codebase matches on error message text.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for HTTP mapping.
type Kind int

const (
	// KindInternal is a store failure or unexpected condition (500).
	KindInternal Kind = iota
	// KindValidation is a missing or malformed field (422).
	KindValidation
	// KindAuth is a missing or invalid session (401).
	KindAuth
	// KindForbidden is an insufficient role or ownership (403).
	KindForbidden
	// KindNotFound is an absent entity (404).
	KindNotFound
	// KindConflict is a duplicate credential or duplicate registration (409).
	KindConflict
)

// Error carries a Kind and a user-facing message. Validation errors
// additionally carry a field-keyed map of messages.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New constructs an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches an underlying cause to an internal error.
func Wrap(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// Validation builds a 422-style error from a field-error map.
func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "validation failed", Fields: fields}
}

// NotFound builds a 404-style error.
func NotFound(message string) *Error { return New(KindNotFound, message) }

// Conflict builds a 409-style error.
func Conflict(message string) *Error { return New(KindConflict, message) }

// Auth builds a 401-style error.
func Auth(message string) *Error { return New(KindAuth, message) }

// Forbidden builds a 403-style error.
func Forbidden(message string) *Error { return New(KindForbidden, message) }

// KindOf extracts the Kind from err, defaulting to KindInternal for
// unclassified errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// FieldsOf returns the field-error map if err is a validation error.
func FieldsOf(err error) map[string]string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Fields
	}
	return nil
}
