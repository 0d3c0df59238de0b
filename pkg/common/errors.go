package common

import (
	"errors"
	"fmt"
)

// ErrorKind identifies a class of domain failure. Callers branch on kinds,
// never on raw storage or transport errors.
type ErrorKind string

const (
	// KindNotFound covers both a genuinely missing row and a row owned by
	// another user. The two are indistinguishable on purpose so the API
	// never leaks the existence of other users' data.
	KindNotFound               ErrorKind = "not_found"
	KindConflict               ErrorKind = "conflict"
	KindInvalidOperation       ErrorKind = "invalid_operation"
	KindInvalidStateTransition ErrorKind = "invalid_state_transition"
	KindConsentRequired        ErrorKind = "consent_required"
	KindContentTooShort        ErrorKind = "content_too_short"
	KindValidation             ErrorKind = "validation"
	KindResponseValidation     ErrorKind = "response_validation"
	KindAPIError               ErrorKind = "api_error"
	KindRateLimit              ErrorKind = "rate_limit"
	KindAuthentication         ErrorKind = "authentication"
	KindNetwork                ErrorKind = "network"
)

// Error is the single error type crossing service boundaries. Err, when set,
// holds the underlying cause for logging; Message is safe to show to users.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a domain error of the given kind.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError builds a domain error that keeps the underlying cause.
func WrapError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(message string) *Error         { return NewError(KindNotFound, message) }
func Conflict(message string) *Error         { return NewError(KindConflict, message) }
func InvalidOperation(message string) *Error { return NewError(KindInvalidOperation, message) }
func InvalidStateTransition(message string) *Error {
	return NewError(KindInvalidStateTransition, message)
}
func ConsentRequired(message string) *Error     { return NewError(KindConsentRequired, message) }
func ContentTooShort(message string) *Error     { return NewError(KindContentTooShort, message) }
func Validation(message string) *Error          { return NewError(KindValidation, message) }
func ResponseValidation(message string) *Error  { return NewError(KindResponseValidation, message) }

// KindOf extracts the domain kind of err, or empty when err is not a
// domain error.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
