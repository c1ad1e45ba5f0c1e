package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error for boundary handling. The set is closed: every
// error a handler can see maps to exactly one of these.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuth
	KindConflict
	KindNotFound
	KindInternal
)

// Error carries a user-facing message alongside the kind. For KindInternal
// the Message is never shown to callers; the wrapped error is logged
// server-side instead.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Auth(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns the kind of err, defaulting to KindInternal for anything
// that escaped classification.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// PublicMessage is the message safe to return to the caller. Internal
// failures get a generic text so infrastructure detail never leaks.
func PublicMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Kind != KindInternal {
		return appErr.Message
	}
	return "An error occurred. Please try again."
}

// HTTPStatus maps an error kind to its response status. Duplicate-account
// conflicts deliberately report 400, matching the public API contract.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
