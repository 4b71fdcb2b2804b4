// Package apperrors defines the error taxonomy of the article generation pipeline.
// Every error that leaves the pipeline is an *AppError carrying a Kind and the HTTP
// status a transport layer should answer with.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a pipeline failure.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindConfiguration Kind = "configuration"
	KindEmptyOutput   Kind = "empty_output"
	KindRateLimit     Kind = "rate_limit"
	KindProvider      Kind = "provider"
	KindCancelled     Kind = "cancelled"
	KindStorage       Kind = "storage"
)

// StatusClientClosedRequest is returned for requests abandoned by the caller.
const StatusClientClosedRequest = 499

// RateLimitMessage is shown to the user verbatim once all retries are exhausted.
const RateLimitMessage = "AI provider rate limit exceeded. Please wait a few minutes and try again."

// AppError is an application level error.
type AppError struct {
	Kind       Kind   `json:"kind"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an AppError of the given kind.
func New(kind Kind, message string) *AppError {
	return &AppError{
		Kind:       kind,
		Message:    message,
		HTTPStatus: kindToHTTPStatus(kind),
	}
}

// Wrap creates an AppError of the given kind around err.
func Wrap(err error, kind Kind, message string) *AppError {
	return &AppError{
		Kind:       kind,
		Message:    message,
		HTTPStatus: kindToHTTPStatus(kind),
		Err:        err,
	}
}

func kindToHTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindRateLimit:
		return http.StatusTooManyRequests
	case KindProvider:
		return http.StatusBadGateway
	case KindCancelled:
		return StatusClientClosedRequest
	default:
		return http.StatusInternalServerError
	}
}

// Validation returns a KindValidation error.
func Validation(format string, args ...any) *AppError {
	return New(KindValidation, fmt.Sprintf(format, args...))
}

// KindOf reports the Kind of err, or an empty Kind when err is not an AppError.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// AsAppError converts any error to an AppError, treating unknown errors as internal.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Kind:       "internal",
		Message:    "internal error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}
