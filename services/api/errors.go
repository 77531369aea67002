package apisvc

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// APIError is a failure reported by the server.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed: %d %s", e.Status, http.StatusText(e.Status))
}

// TransportError is a request that never got a response.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return e.Endpoint + ": " + e.Err.Error()
}

func (e *TransportError) Cause() error  { return e.Err }
func (e *TransportError) Unwrap() error { return e.Err }

// MalformedResponseError is a successful response whose body does not hold the expected shape.
type MalformedResponseError struct {
	Endpoint string
	Err      error
}

func (e *MalformedResponseError) Error() string {
	return "malformed response from " + e.Endpoint + ": " + e.Err.Error()
}

func (e *MalformedResponseError) Cause() error  { return e.Err }
func (e *MalformedResponseError) Unwrap() error { return e.Err }

// DetailOr returns the server-reported message of err, or fallback when there is none.
func DetailOr(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}

func IsTransport(err error) bool {
	var tErr *TransportError
	return errors.As(err, &tErr)
}

func IsMalformed(err error) bool {
	var mErr *MalformedResponseError
	return errors.As(err, &mErr)
}

func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
