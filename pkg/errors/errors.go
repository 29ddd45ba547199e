package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound      = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden     = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized  = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict      = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation    = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal      = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrInvalidFormat = New("INVALID_TIME_FORMAT", http.StatusBadRequest, "time must be HH:mm or HH:mm:ss")
	ErrUnknownSlot   = New("UNKNOWN_SLOT", http.StatusBadRequest, "time does not match a known lesson slot")
	ErrInvalidRange  = New("INVALID_RANGE", http.StatusBadRequest, "range end precedes start")
	ErrNotConfigured = New("NOT_CONFIGURED", http.StatusUnprocessableEntity, "branch schedule settings incomplete")
	ErrTransient     = New("TRANSIENT", http.StatusServiceUnavailable, "upstream temporarily unavailable")

	// ErrCacheMiss signals a cache lookup found nothing; never sent to clients.
	ErrCacheMiss = New("CACHE_MISS", http.StatusInternalServerError, "cache miss")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// IsTransient reports whether the error should be retried by the caller.
func IsTransient(err error) bool {
	appErr := FromError(err)
	return appErr != nil && appErr.Code == ErrTransient.Code
}

// IsConflict reports whether the error is an occupancy conflict. Callers
// must re-check availability instead of retrying the same write.
func IsConflict(err error) bool {
	appErr := FromError(err)
	return appErr != nil && appErr.Code == ErrConflict.Code
}
