// Package common defines the error taxonomy shared by services and controllers.
// Services return *Error values tagged with a Kind; controllers map the Kind to
// an HTTP status at the boundary.
package common

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindUnauthenticated
	KindForbidden
	KindConflict
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// HTTPStatus returns the response status for the kind. Conflicts are reported
// as 400 to keep the registration contract clients already depend on.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error is a tagged application error.
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

func newError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func Validation(msg string) *Error      { return newError(KindValidation, msg, nil) }
func NotFound(msg string) *Error        { return newError(KindNotFound, msg, nil) }
func Unauthenticated(msg string) *Error { return newError(KindUnauthenticated, msg, nil) }
func Forbidden(msg string) *Error       { return newError(KindForbidden, msg, nil) }
func Conflict(msg string) *Error        { return newError(KindConflict, msg, nil) }

// Unavailable marks a failure of a backing dependency (store, cache).
func Unavailable(msg string, err error) *Error { return newError(KindUnavailable, msg, err) }

// Internal wraps an unexpected failure.
func Internal(msg string, err error) *Error { return newError(KindInternal, msg, err) }

// Wrap attaches a kind and message to a lower level error.
func Wrap(err error, kind Kind, msg string) *Error { return newError(kind, msg, err) }

// KindOf reports the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the client-facing message for err. Internal failures never
// leak their cause.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal server error"
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
