package errors

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Common error types that can be used across the application
var (
	ErrNotFound            = New(ErrCodeNotFound, "resource not found")
	ErrAlreadyExists       = New(ErrCodeAlreadyExists, "resource already exists")
	ErrValidation          = New(ErrCodeValidation, "validation error")
	ErrInvalidOperation    = New(ErrCodeInvalidOperation, "invalid operation")
	ErrDataIntegrity       = New(ErrCodeDataIntegrity, "data integrity error")
	ErrUpstreamUnavailable = New(ErrCodeUpstreamUnavailable, "upstream unavailable")
	ErrHTTPClient          = New(ErrCodeHTTPClient, "http client error")
	ErrDatabase            = New(ErrCodeDatabase, "database error")
	ErrSystem              = New(ErrCodeSystemError, "system error")
	// maps errors to http status codes, first match wins
	statusCodes = []struct {
		err    error
		status int
	}{
		{ErrUpstreamUnavailable, http.StatusServiceUnavailable},
		{ErrHTTPClient, http.StatusBadGateway},
		{ErrDatabase, http.StatusInternalServerError},
		{ErrNotFound, http.StatusNotFound},
		{ErrAlreadyExists, http.StatusConflict},
		{ErrDataIntegrity, http.StatusUnprocessableEntity},
		{ErrValidation, http.StatusBadRequest},
		{ErrInvalidOperation, http.StatusBadRequest},
		{ErrSystem, http.StatusInternalServerError},
	}
	// upstream failures are safe to retry by the caller
	retryable = []error{
		ErrUpstreamUnavailable,
		ErrHTTPClient,
	}
)

const (
	ErrCodeHTTPClient          = "http_client_error"
	ErrCodeSystemError         = "system_error"
	ErrCodeNotFound            = "not_found"
	ErrCodeAlreadyExists       = "already_exists"
	ErrCodeValidation          = "validation_error"
	ErrCodeInvalidOperation    = "invalid_operation"
	ErrCodeDataIntegrity       = "data_integrity_error"
	ErrCodeUpstreamUnavailable = "upstream_unavailable"
	ErrCodeDatabase            = "database_error"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Op      string // Logical operation name
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) DisplayError() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

// New creates a new InternalError
func New(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsInvalidOperation checks if an error is an invalid operation error
func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidOperation)
}

// IsDataIntegrity checks if an error is caused by a malformed pricing configuration
func IsDataIntegrity(err error) bool {
	return errors.Is(err, ErrDataIntegrity)
}

// IsUpstreamUnavailable checks if an error is an upstream unavailability error
func IsUpstreamUnavailable(err error) bool {
	return errors.Is(err, ErrUpstreamUnavailable)
}

// IsHTTPClient checks if an error is an http client error
func IsHTTPClient(err error) bool {
	return errors.Is(err, ErrHTTPClient)
}

// IsDatabase checks if an error is a database error
func IsDatabase(err error) bool {
	return errors.Is(err, ErrDatabase)
}

// IsRetryable reports whether the caller may retry the failed operation as-is.
// The engine itself never retries.
func IsRetryable(err error) bool {
	for _, e := range retryable {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

func HTTPStatusFromErr(err error) int {
	for _, sc := range statusCodes {
		if errors.Is(err, sc.err) {
			return sc.status
		}
	}
	return http.StatusInternalServerError
}
