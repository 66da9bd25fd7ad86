// Package apperr defines the typed error kinds returned by usecases and their HTTP status mapping.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an application error.
type Kind uint8

const (
	// KindInternal is the zero value; unclassified errors are internal.
	KindInternal Kind = iota
	KindValidation
	KindBadRequest
	KindConflict
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindInvalidToken
	KindUpstream
)

// String returns the taxonomy name of the kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindBadRequest:
		return "BAD_REQUEST"
	case KindConflict:
		return "CONFLICT"
	case KindUnauthorized:
		return "UNAUTHORIZED"
	case KindForbidden:
		return "FORBIDDEN"
	case KindNotFound:
		return "NOT_FOUND"
	case KindInvalidToken:
		return "INVALID_OR_EXPIRED"
	case KindUpstream:
		return "UPSTREAM_ERROR"
	default:
		return "INTERNAL_SERVER_ERROR"
	}
}

// Status maps the kind to an HTTP status code.
// Conflicts are reported as 400 because clients of /auth/register and /user/create rely on it.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindBadRequest, KindConflict, KindInvalidToken:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is an error carrying a Kind and a client-facing message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// New creates an Error without a cause. Values created by New are usable as sentinels.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an Error that keeps err as its cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// MessageOf returns the client-facing message for err.
// Unclassified errors expose their own message.
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return err.Error()
}
