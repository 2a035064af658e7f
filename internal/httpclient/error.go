package httpclient

import (
	"fmt"
	"net/http"

	"github.com/stayquote/stayquote/internal/errors"
)

// Error is a non-2xx response, kept with its body for diagnostics
type Error struct {
	*errors.InternalError
	StatusCode int
	Response   []byte
}

func (e *Error) Unwrap() error {
	return e.InternalError.Unwrap()
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: status %d", e.InternalError.Error(), e.StatusCode)
}

// Transient reports whether the remote side may answer differently on a later call
func (e *Error) Transient() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

func NewError(statusCode int, response []byte) *Error {
	return &Error{
		InternalError: errors.New(errors.ErrCodeHTTPClient, http.StatusText(statusCode)),
		StatusCode:    statusCode,
		Response:      response,
	}
}

// IsHTTPError unwraps err to the response error, if any
func IsHTTPError(err error) (*Error, bool) {
	var httpErr *Error
	if errors.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}
