package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure so transports can map it to a status code.
type Kind string

const (
	KindNotFound      Kind = "NOT_FOUND"
	KindAlreadyExists Kind = "ALREADY_EXISTS"
	KindValidation    Kind = "VALIDATION"
	KindUnauthorized  Kind = "UNAUTHORIZED"
	KindForbidden     Kind = "FORBIDDEN"
	KindInternal      Kind = "INTERNAL"
)

var (
	// ErrNotFound matches any error of kind NotFound via errors.Is.
	ErrNotFound = &Error{Kind: KindNotFound, Message: "not found"}
	// ErrAlreadyExists matches any error of kind AlreadyExists.
	ErrAlreadyExists = &Error{Kind: KindAlreadyExists, Message: "already exists"}
	// ErrValidation matches any error of kind Validation.
	ErrValidation = &Error{Kind: KindValidation, Message: "validation failed"}
	// ErrUnauthorized matches any error of kind Unauthorized.
	ErrUnauthorized = &Error{Kind: KindUnauthorized, Message: "unauthorized"}
	// ErrForbidden matches any error of kind Forbidden.
	ErrForbidden = &Error{Kind: KindForbidden, Message: "forbidden"}
	// ErrInternal matches any error of kind Internal.
	ErrInternal = &Error{Kind: KindInternal, Message: "internal server error"}
)

// Error is a typed domain failure.
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

// Is reports kind equality so that errors.Is(err, ErrNotFound) works for any NotFound.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error { return newf(KindNotFound, format, args...) }
func AlreadyExists(format string, args ...any) *Error {
	return newf(KindAlreadyExists, format, args...)
}
func Validation(format string, args ...any) *Error   { return newf(KindValidation, format, args...) }
func Unauthorized(format string, args ...any) *Error { return newf(KindUnauthorized, format, args...) }
func Forbidden(format string, args ...any) *Error    { return newf(KindForbidden, format, args...) }

// Internal wraps an unexpected failure.
func Internal(err error, message string) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns the kind of err, or KindInternal when err is not typed.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps err to the status code the API responds with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindAlreadyExists:
		return http.StatusConflict
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to show to clients.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return ErrInternal.Message
}
