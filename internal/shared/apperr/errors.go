// Package apperr defines the error kinds surfaced by the API and the single
// place where they are translated into HTTP status codes.
package apperr

import (
	"context"
	"errors"
	"net/http"
)

// Kind classifies an error for transport mapping.
type Kind string

const (
	KindUnauthenticated      Kind = "unauthenticated"
	KindNotFound             Kind = "not_found"
	KindValidation           Kind = "validation_error"
	KindConflict             Kind = "conflict"
	KindUpstreamUnavailable  Kind = "upstream_unavailable"
	KindMalformedModelOutput Kind = "malformed_model_output"
	KindConversionTimeout    Kind = "conversion_timeout"
	KindConversionFailure    Kind = "conversion_failure"
	KindInternal             Kind = "internal"
)

// Error carries a Kind, a client-safe message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Sentinels usable with errors.Is; they match any *Error of the same kind.
var (
	ErrUnauthenticated      = &Error{Kind: KindUnauthenticated}
	ErrNotFound             = &Error{Kind: KindNotFound}
	ErrValidation           = &Error{Kind: KindValidation}
	ErrConflict             = &Error{Kind: KindConflict}
	ErrUpstreamUnavailable  = &Error{Kind: KindUpstreamUnavailable}
	ErrMalformedModelOutput = &Error{Kind: KindMalformedModelOutput}
	ErrConversionTimeout    = &Error{Kind: KindConversionTimeout}
	ErrConversionFailure    = &Error{Kind: KindConversionFailure}
)

// New returns an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap returns an error of the given kind wrapping cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// Validation is shorthand for a validation error.
func Validation(message string) *Error {
	return New(KindValidation, message)
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports a match against a kind sentinel (an *Error with no message).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Message == "" && t.Err == nil {
		return t.Kind == e.Kind
	}
	return t == e
}

// KindOf returns the kind of the outermost *Error in the chain.
// Context cancellation and deadline errors without a kind are reported as
// upstream unavailable.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindUpstreamUnavailable
	}
	return KindInternal
}

var defaultMessages = map[Kind]string{
	KindUnauthenticated:      "authentication required",
	KindNotFound:             "resource not found",
	KindValidation:           "invalid request",
	KindConflict:             "resource already exists",
	KindUpstreamUnavailable:  "upstream service unavailable",
	KindMalformedModelOutput: "model returned an unreadable response",
	KindConversionTimeout:    "document conversion timed out",
	KindConversionFailure:    "document conversion failed",
}

// MessageOf returns the client-facing message for err.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	if msg, ok := defaultMessages[KindOf(err)]; ok {
		return msg
	}
	return "unexpected server error"
}

// Status maps an error kind to an HTTP status code.
func Status(kind Kind) int {
	switch kind {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindUpstreamUnavailable:
		return http.StatusServiceUnavailable
	case KindMalformedModelOutput:
		return http.StatusBadGateway
	case KindConversionTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
