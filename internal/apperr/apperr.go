// Package apperr defines the closed set of error kinds the service can
// surface. Handlers map kinds to HTTP statuses; the wrapped cause is for
// logs only and is never rendered to clients.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	ValidationFailure Kind = iota
	AlreadyExists
	NotFound
	Expired
	InvalidCredentials
	PersistenceFailure
	DispatchFailure
)

type Error struct {
	Kind    Kind
	Message string // safe to show to clients
	Err     error  // underlying cause, logs only
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from err. Errors outside the taxonomy report
// PersistenceFailure so they always render as a generic 500.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return PersistenceFailure, false
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// HTTPStatus is the error-kind-to-status mapping table used at the
// handler boundary.
func HTTPStatus(kind Kind) int {
	switch kind {
	case ValidationFailure:
		return http.StatusBadRequest
	case AlreadyExists:
		return http.StatusConflict
	case NotFound:
		return http.StatusNotFound
	case Expired:
		return http.StatusBadRequest
	case InvalidCredentials:
		return http.StatusUnauthorized
	case PersistenceFailure, DispatchFailure:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// TypeName is the machine-readable error type rendered in the response
// envelope.
func TypeName(kind Kind) string {
	switch kind {
	case ValidationFailure:
		return "ValidationFailure"
	case AlreadyExists:
		return "AlreadyExists"
	case NotFound:
		return "NotFound"
	case Expired:
		return "Expired"
	case InvalidCredentials:
		return "InvalidCredentials"
	case DispatchFailure:
		return "DispatchFailure"
	default:
		return "InternalServerError"
	}
}
