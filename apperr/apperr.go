package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so handlers can map it to a response without
// inspecting message strings.
type Kind string

const (
	KindInvalidInput           Kind = "invalid_input"
	KindMissingOrigin          Kind = "missing_origin"
	KindUpstream               Kind = "upstream_error"
	KindNotFound               Kind = "not_found"
	KindVerificationFailed     Kind = "verification_failed"
	KindAmbiguousPaymentMethod Kind = "ambiguous_payment_method"
	KindSignatureInvalid       Kind = "signature_invalid"
)

// Error carries a kind, a client-safe message and the wrapped upstream cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
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

// New creates a new Error.
func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err, or KindUpstream for errors that did not
// originate in this package.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUpstream
}

// Message returns the client-safe message of err. For foreign errors the raw
// error text is used, matching the contract of relaying upstream messages.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
