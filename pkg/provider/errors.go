package provider

import (
	"fmt"
)

// NetworkError indicates the request never produced an HTTP-level answer:
// connection failures, DNS errors, or the dispatch timeout elapsing.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError indicates the provider answered with a non-success status.
// Body carries the provider's diagnostic payload.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

// ParseError indicates the provider answered successfully but the reply
// text could not be located in the response.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Msg)
}
