package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Kind classifies a lifecycle failure. Each kind maps to one HTTP status.
type Kind string

const (
	KindBadRequest Kind = "badRequest"
	KindForbidden  Kind = "forbidden"
	KindNotFound   Kind = "notFound"
	KindConflict   Kind = "conflict"
	KindInternal   Kind = "internal"
)

// Error is the typed error every lifecycle operation returns.
// Code is a stable machine readable identifier such as "match.notFound".
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, code, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

func badRequest(code, format string, args ...interface{}) *Error {
	return newError(KindBadRequest, code, format, args...)
}

func forbidden(code, format string, args ...interface{}) *Error {
	return newError(KindForbidden, code, format, args...)
}

func notFound(code, format string, args ...interface{}) *Error {
	return newError(KindNotFound, code, format, args...)
}

func conflict(code, format string, args ...interface{}) *Error {
	return newError(KindConflict, code, format, args...)
}

// classify turns any error escaping a transaction into an *Error.
// Typed errors pass through; duplicate keys become conflicts; anything
// else from the store is internal.
func classify(op string, err error) *Error {
	var serviceErr *Error
	if errors.As(err, &serviceErr) {
		return serviceErr
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &Error{Kind: KindConflict, Code: op + ".conflict", Message: "conflicting record exists", Err: err}
	}
	return &Error{Kind: KindInternal, Code: op + ".internal", Message: "store failure", Err: err}
}

// KindOf returns the kind of err, or "" for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var serviceErr *Error
	if errors.As(err, &serviceErr) {
		return serviceErr.Kind
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return KindConflict
	}
	return KindInternal
}
