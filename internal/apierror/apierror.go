// Package apierror provides the typed error taxonomy for the engine and the
// standardized JSON envelopes returned to clients. All errors crossing the
// handler boundary go through this package so internal details (stack traces,
// raw DB errors) never leak to clients.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies an error class in a machine-readable way.
type Code string

const (
	CodeValidation         Code = "VALIDATION_ERROR"
	CodeNotFound           Code = "NOT_FOUND"
	CodeCycleDetected      Code = "CYCLE_DETECTED"
	CodeDepthExceeded      Code = "DEPTH_EXCEEDED"
	CodeConstraintConflict Code = "CONSTRAINT_CONFLICT"
	CodeStrategy           Code = "STRATEGY_ERROR"
	CodeStore              Code = "STORE_ERROR"
)

// Error is a typed engine error. Services return these; handlers map them to
// HTTP statuses via Status and to response bodies via From.
type Error struct {
	Code   Code
	Detail string
	cause  error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Detail, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Detail)
}

func (e *Error) Unwrap() error { return e.cause }

func Validation(format string, args ...interface{}) *Error {
	return &Error{Code: CodeValidation, Detail: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Code: CodeNotFound, Detail: fmt.Sprintf(format, args...)}
}

func CycleDetected(format string, args ...interface{}) *Error {
	return &Error{Code: CodeCycleDetected, Detail: fmt.Sprintf(format, args...)}
}

func DepthExceeded(format string, args ...interface{}) *Error {
	return &Error{Code: CodeDepthExceeded, Detail: fmt.Sprintf(format, args...)}
}

func ConstraintConflict(format string, args ...interface{}) *Error {
	return &Error{Code: CodeConstraintConflict, Detail: fmt.Sprintf(format, args...)}
}

func Strategy(format string, args ...interface{}) *Error {
	return &Error{Code: CodeStrategy, Detail: fmt.Sprintf(format, args...)}
}

// Store wraps an underlying persistence fault. The cause is logged server-side
// but never serialized to clients.
func Store(cause error) *Error {
	return &Error{Code: CodeStore, Detail: "persistent store failure", cause: cause}
}

// CodeOf extracts the taxonomy code from err, defaulting to CodeStore for
// anything untyped.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeStore
}

// Status maps an error to its HTTP status code.
// Cycle and depth faults are structural (the request was well-formed but the
// graph is not), so they map to 422 rather than 400.
func Status(err error) int {
	switch CodeOf(err) {
	case CodeValidation, CodeStrategy:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConstraintConflict:
		return http.StatusConflict
	case CodeCycleDetected, CodeDepthExceeded:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Success bool   `json:"success"`
	Code    Code   `json:"code"`
	Detail  string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Success: false, Code: CodeStore, Detail: msg}
}

// From builds the client-facing envelope for err. Untyped errors are reported
// as opaque store failures.
func From(err error) *APIError {
	var e *Error
	if errors.As(err, &e) {
		return &APIError{Success: false, Code: e.Code, Detail: e.Detail}
	}
	return &APIError{Success: false, Code: CodeStore, Detail: "internal error"}
}

// ValidationFields wraps multiple field-level binding errors.
type ValidationFields struct {
	Success bool              `json:"success"`
	Code    Code              `json:"code"`
	Detail  string            `json:"detail"`
	Fields  map[string]string `json:"fields"`
}

func NewValidationFields(fields map[string]string) *ValidationFields {
	return &ValidationFields{Success: false, Code: CodeValidation, Detail: "validation failed", Fields: fields}
}
