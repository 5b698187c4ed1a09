// Package apperr defines the error taxonomy shared by services and handlers.
package apperr

import (
	"errors"
	"net/http"
)

// Code is a machine-readable error category.
type Code string

const (
	CodeValidation          Code = "validation"
	CodeDeviceUnavailable   Code = "device_unavailable"
	CodeNotAuthenticated    Code = "not_authenticated"
	CodeForbidden           Code = "forbidden"
	CodeDuplicateSubmission Code = "duplicate_submission"
	CodeNotFound            Code = "not_found"
	CodeNetworkFailure      Code = "network_failure"
	CodeUnavailable         Code = "unavailable"
	CodeInternal            Code = "internal"
)

// HTTPStatus maps a code to the status the API answers with.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotAuthenticated:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeDuplicateSubmission:
		return http.StatusConflict
	case CodeNotFound:
		return http.StatusNotFound
	case CodeNetworkFailure:
		return http.StatusBadGateway
	case CodeDeviceUnavailable, CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error is the domain error type. Message is user-facing; Fields carries
// per-field validation messages keyed by the JSON field name.
type Error struct {
	Code    Code
	Message string
	Fields  map[string]string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error carrying the same code, so callers can write
// errors.Is(err, apperr.ErrNotFound).
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinels for errors.Is comparisons.
var (
	ErrValidation          = &Error{Code: CodeValidation}
	ErrDeviceUnavailable   = &Error{Code: CodeDeviceUnavailable}
	ErrNotAuthenticated    = &Error{Code: CodeNotAuthenticated}
	ErrForbidden           = &Error{Code: CodeForbidden}
	ErrDuplicateSubmission = &Error{Code: CodeDuplicateSubmission}
	ErrNotFound            = &Error{Code: CodeNotFound}
	ErrNetworkFailure      = &Error{Code: CodeNetworkFailure}
	ErrUnavailable         = &Error{Code: CodeUnavailable}
)

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Validation builds a validation error with field messages.
func Validation(message string, fields map[string]string) *Error {
	return &Error{Code: CodeValidation, Message: message, Fields: fields}
}

// CodeOf returns the code of the first *Error in err's chain, or
// CodeInternal when there is none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
