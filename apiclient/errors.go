package apiclient

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrUnexpectedResponse is wrapped by every APIError.
var ErrUnexpectedResponse = errors.New("books API returned a non-2xx HTTP status code")

// APIError encapsulates a non-2xx response of the books API.
// The message is the response body text, unchanged.
type APIError struct {
	status int
	body   string
}

// Error returns the response body returned by the books API.
func (e *APIError) Error() string {
	return e.body
}

// Status returns the http status code returned by the books API.
func (e *APIError) Status() int {
	return e.status
}

// Body returns the http response body returned by the books API.
func (e *APIError) Body() string {
	return e.body
}

func (e *APIError) Unwrap() error {
	return ErrUnexpectedResponse
}

// NetworkError is a transport level failure: DNS, connection, timeout or a broken body.
type NetworkError struct {
	err error
}

func (e *NetworkError) Error() string {
	return e.err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.err
}

// DecodeError is returned when a successful response does not carry valid JSON.
type DecodeError struct {
	err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed JSON response: %v", e.err)
}

func (e *DecodeError) Unwrap() error {
	return e.err
}
