package github

import (
	"fmt"
	"net/http"
)

// NetworkError is returned when the request never produced a response
// (DNS failure, refused connection, timeout). Its message is the
// transport's message, unmodified.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }

// DecodeError is returned when the response body does not match the
// search response schema.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }

// HTTPStatusError is returned for non-2xx responses. Message holds the
// "message" field of GitHub's error body when there is one.
type HTTPStatusError struct {
	StatusCode       int
	Message          string
	DocumentationURL string
	RequestURL       string
}

func (e *HTTPStatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if msg == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, msg)
}

// IsUnauthorized reports a missing, invalid or expired token
func (e *HTTPStatusError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}
