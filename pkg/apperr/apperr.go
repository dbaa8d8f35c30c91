// Package apperr defines the typed business-error taxonomy shared by the
// loan engine. Callers branch on the Kind, not on message text.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	// Malformed or out-of-range input, rejected before touching state.
	KindValidation
	// An id did not resolve to a row.
	KindNotFound
	// The requested transition is not legal from the current status.
	KindInvalidState
	// Actor lacks the role, or the resource belongs to someone else.
	KindUnauthorized
	// Business-rule violation that is not a pure state mismatch.
	KindNotAllowed
	// The settlement gateway returned a non-success outcome.
	KindGateway
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func newf(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

func Validationf(format string, args ...any) *Error   { return newf(KindValidation, format, args...) }
func NotFoundf(format string, args ...any) *Error     { return newf(KindNotFound, format, args...) }
func InvalidStatef(format string, args ...any) *Error { return newf(KindInvalidState, format, args...) }
func Unauthorizedf(format string, args ...any) *Error { return newf(KindUnauthorized, format, args...) }
func NotAllowedf(format string, args ...any) *Error   { return newf(KindNotAllowed, format, args...) }
func Gatewayf(format string, args ...any) *Error      { return newf(KindGateway, format, args...) }

// Wrap keeps the original error reachable through errors.Unwrap.
func Wrap(k Kind, err error, msg string) *Error {
	return &Error{Kind: k, Msg: msg, Err: err}
}

// KindOf returns the kind of err, or KindUnknown for untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsKind(err error, k Kind) bool { return KindOf(err) == k }
