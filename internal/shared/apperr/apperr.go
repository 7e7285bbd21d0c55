// Package apperr carries the error taxonomy shared by every feature package.
// Only Transient errors are retried; the HTTP layer maps each kind to a status.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for retry and presentation decisions.
type Kind int

const (
	Unknown Kind = iota
	Validation
	AuthExpired
	NotFound
	Transient
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case AuthExpired:
		return "auth_expired"
	case NotFound:
		return "not_found"
	case Transient:
		return "transient"
	default:
		return "unknown"
	}
}

// Error is a classified error with a stable machine code.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details any
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches another *Error by kind and code so sentinels compare by identity of meaning.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && t.Code == e.Code
}

// WithDetails returns a copy of e carrying details.
func (e *Error) WithDetails(details any) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

// Wrap returns a copy of e with cause attached.
func (e *Error) Wrap(cause error) *Error {
	cp := *e
	cp.Cause = cause
	return &cp
}

func newErr(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func NewValidation(code, message string) *Error  { return newErr(Validation, code, message) }
func NewAuthExpired(code, message string) *Error { return newErr(AuthExpired, code, message) }
func NewNotFound(code, message string) *Error    { return newErr(NotFound, code, message) }

// NewTransient wraps cause as a retryable failure.
func NewTransient(code, message string, cause error) *Error {
	e := newErr(Transient, code, message)
	e.Cause = cause
	return e
}

// NewUnknown wraps cause as a non-retryable failure.
func NewUnknown(code, message string, cause error) *Error {
	e := newErr(Unknown, code, message)
	e.Cause = cause
	return e
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf reports the kind of err. Unclassified errors run through Classify.
func KindOf(err error) Kind {
	if err == nil {
		return Unknown
	}
	if e, ok := As(err); ok {
		return e.Kind
	}
	return Classify(err).Kind
}

// IsTransient reports whether err may succeed on retry.
func IsTransient(err error) bool {
	return err != nil && KindOf(err) == Transient
}

func IsValidation(err error) bool  { return err != nil && KindOf(err) == Validation }
func IsNotFound(err error) bool    { return err != nil && KindOf(err) == NotFound }
func IsAuthExpired(err error) bool { return err != nil && KindOf(err) == AuthExpired }
