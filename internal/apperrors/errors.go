package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a domain error carrying the HTTP status code it maps to.
// Handlers convert it into the standard error envelope; anything that
// is not an *Error is reported as an internal server error.
type Error struct {
	Code    int    // HTTP status code
	Message string // Client-facing message
}

func (e *Error) Error() string {
	return e.Message
}

// New creates a domain error with an explicit status code.
func New(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a domain error with a formatted message.
func Newf(code int, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// InvalidInput maps to 400.
func InvalidInput(message string) *Error {
	return New(http.StatusBadRequest, message)
}

// Unauthenticated maps to 401.
func Unauthenticated(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

// Forbidden maps to 403.
func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message)
}

// NotFound maps to 404.
func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

// Conflict maps to 409.
func Conflict(message string) *Error {
	return New(http.StatusConflict, message)
}

// Internal maps to 500.
func Internal(message string) *Error {
	return New(http.StatusInternalServerError, message)
}

// StatusCode returns the HTTP status carried by err, or 500 when err
// is not a domain error.
func StatusCode(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

// Message returns the client-facing message for err. Non-domain errors
// are masked so internals never leak to the client.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal server error"
}
