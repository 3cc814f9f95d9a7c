// Package apierror defines the structured error type used for every terminal
// failure reported by the API client. Callers can inspect the code, origin
// and HTTP status of a failure without parsing error strings.
package apierror

import (
	"errors"
	"fmt"
)

// Code classifies a terminal client failure.
type Code string

const (
	// CodeFailedToFetch indicates a transport-level failure (DNS, connection reset).
	CodeFailedToFetch Code = "FAILED_TO_FETCH"
	// CodeAPIError indicates an unexpected response status or a missing token.
	CodeAPIError Code = "API_ERROR"
	// CodeInvalidResponseHeader indicates a Content-Type mismatch on an otherwise successful response.
	CodeInvalidResponseHeader Code = "INVALID_RESPONSE_HEADER"
	// CodeAuthError indicates an authentication failure: an invalid or expired
	// token that could not be refreshed, or a revoked provider session.
	CodeAuthError Code = "AUTH_ERROR"
)

// Error is the uniform failure record carried by every rejection from the
// client. Service and Function identify the calling site; Method, Path and
// Status describe the HTTP exchange; Cause holds the underlying error, if any.
type Error struct {
	Service  string
	Function string
	Method   string
	Path     string
	Status   int
	Code     Code
	Message  string
	Cause    error
}

// New creates an Error with the given code and human-readable message.
// Request context is attached with the chainable With* methods.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithOrigin records the service and function that issued the request.
func (e *Error) WithOrigin(service, function string) *Error {
	e.Service = service
	e.Function = function
	return e
}

// WithRequest records the HTTP method and path of the failed request.
func (e *Error) WithRequest(method, path string) *Error {
	e.Method = method
	e.Path = path
	return e
}

// WithStatus records the HTTP status code of the failed response.
func (e *Error) WithStatus(status int) *Error {
	e.Status = status
	return e
}

// WithCause attaches the underlying error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Service != "" {
		msg = fmt.Sprintf("%s [%s.%s]", msg, e.Service, e.Function)
	}
	if e.Method != "" || e.Path != "" {
		msg = fmt.Sprintf("%s %s %s", msg, e.Method, e.Path)
	}
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is/errors.As chains.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode reports whether err is (or wraps) an *Error with the given code.
func IsCode(err error, code Code) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == code
	}
	return false
}

// IsAuthError reports whether err is an authentication failure.
func IsAuthError(err error) bool {
	return IsCode(err, CodeAuthError)
}

// StatusOf returns the HTTP status carried by err, or 0 when err is not a
// structured error or carries no status.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
