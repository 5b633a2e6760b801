package client

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is returned before any network call when the caller's
	// input cannot form a valid request.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrMalformedResponse is returned when the server answered successfully
	// but the body does not have the expected shape.
	ErrMalformedResponse = errors.New("malformed response")
)

// HTTPError represents an HTTP response the operation does not accept.
// Usually that is a 4xx/5xx, but operations with a strict success status
// (SendMessage wants 201) also report other 2xx codes this way.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}
