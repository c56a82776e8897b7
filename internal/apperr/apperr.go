// Package apperr defines the error taxonomy shared by all handlers. Every
// error that crosses a handler boundary is one of these kinds; anything
// unclassified is treated as a store failure.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation Kind = "validation_error"
	KindNotFound   Kind = "not_found"
	KindForbidden  Kind = "forbidden"
	KindConflict   Kind = "conflict"
	KindStore      Kind = "store_error"
)

// Error carries a kind, a caller-facing message, and optional structured
// detail (e.g. upgrade metadata on entitlement denials).
type Error struct {
	Kind    Kind
	Message string
	Detail  map[string]interface{}
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.err }

// Status maps the kind to its HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }
func NotFound(msg string) *Error   { return &Error{Kind: KindNotFound, Message: msg} }
func Forbidden(msg string) *Error  { return &Error{Kind: KindForbidden, Message: msg} }
func Conflict(msg string) *Error   { return &Error{Kind: KindConflict, Message: msg} }

// Store wraps a transient backing-store failure. Retries happen below this
// layer; by the time a Store error surfaces, retries are exhausted.
func Store(msg string, err error) *Error {
	return &Error{Kind: KindStore, Message: msg, err: err}
}

// WithDetail attaches structured detail and returns the same error.
func (e *Error) WithDetail(detail map[string]interface{}) *Error {
	e.Detail = detail
	return e
}

// From extracts an *Error, wrapping unclassified errors as store failures.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Store("internal error", err)
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}
