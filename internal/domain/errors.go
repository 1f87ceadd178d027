package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure so the API layer can map it to a response
// without inspecting error strings.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindIO         ErrorKind = "io"
	KindPermission ErrorKind = "permission"
	KindTransport  ErrorKind = "transport"
	KindUpstream   ErrorKind = "upstream"
	KindParse      ErrorKind = "parse"

	// KindUnknown is reported for errors that were never classified.
	KindUnknown ErrorKind = "unknown"
)

// Error is a classified failure raised by the storage and captioning layers.
type Error struct {
	Kind    ErrorKind
	Op      string // operation that failed, e.g. "storage.save"
	Path    string // filesystem path or URL involved, if any
	Status  int    // upstream HTTP status for KindUpstream
	Message string // client-safe message, only surfaced for KindValidation
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a classified error wrapping err.
func NewError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// NewValidationError builds a validation error whose message is safe to
// return to the caller verbatim.
func NewValidationError(op, message string) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: message}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
