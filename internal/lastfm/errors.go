// Scrobblerec - Listening-Event Recommender Toolkit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblerec

package lastfm

import (
	"errors"
	"fmt"
)

var (
	// ErrCircuitOpen is returned when the circuit breaker rejects a request.
	ErrCircuitOpen = errors.New("lastfm: circuit breaker open")

	// ErrUnexpectedResponse is returned when a response body does not have
	// the expected shape.
	ErrUnexpectedResponse = errors.New("lastfm: unexpected response")
)

// Last.fm API error codes.
// See https://www.last.fm/api/errorcodes
const (
	CodeInvalidParameters = 6
	CodeOperationFailed   = 8
	CodeInvalidAPIKey     = 10
	CodeServiceOffline    = 11
	CodeTemporaryError    = 16
	CodeSuspendedAPIKey   = 26
	CodeRateLimitExceeded = 29
)

// APIError is an error payload returned by the Last.fm API.
type APIError struct {
	Code       int    `json:"error"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
}

// Error implements error.
func (e *APIError) Error() string {
	return fmt.Sprintf("lastfm: error %d: %s (HTTP %d)", e.Code, e.Message, e.StatusCode)
}

// Temporary reports whether retrying the same call later may succeed.
func (e *APIError) Temporary() bool {
	switch e.Code {
	case CodeOperationFailed, CodeServiceOffline, CodeTemporaryError, CodeRateLimitExceeded:
		return true
	default:
		return e.StatusCode >= 500
	}
}

// isRequestError reports whether err is tied to the request itself (unknown
// user, bad parameters, an odd payload) rather than to the service.
func isRequestError(err error) bool {
	if errors.Is(err, ErrUnexpectedResponse) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && !apiErr.Temporary()
}
