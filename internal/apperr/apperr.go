// Package apperr defines the application error types
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error so that callers can react to the category
// without matching on individual error values.
type Kind string

const (
	InvalidState  Kind = "invalid_state_transition"
	Validation    Kind = "validation_failure"
	NotFound      Kind = "not_found"
	Storage       Kind = "storage_failure"
	PartialExport Kind = "partial_export_failure"
)

// Error is an application error with an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	args    []any
	cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if len(e.args) > 0 {
		msg = fmt.Sprintf(e.Message, e.args...)
	}

	if e.cause != nil {
		return msg + ": " + e.cause.Error()
	}

	return msg
}

// Fmt returns a copy of the error with its message arguments filled in.
func (e *Error) Fmt(args ...any) *Error {
	c := *e
	c.args = args

	return &c
}

// Wrap returns a copy of the error with an underlying cause attached.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.cause = err

	return &c
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports a match when the target is an *Error of the same kind, so
// errors.Is(err, &Error{Kind: NotFound}) works kind-wise.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	return e.Kind == t.Kind
}

// KindOf returns the kind of err if it is (or wraps) an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}

	return "", false
}
