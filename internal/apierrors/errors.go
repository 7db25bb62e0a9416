// Package apierrors provides shared error types for the SendGrid client.
package apierrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingAPIKey is returned when no API key is provided.
	ErrMissingAPIKey = errors.New("API key is required")

	// ErrUnauthorized is returned when the API key is invalid or lacks permission.
	ErrUnauthorized = errors.New("invalid or unauthorized API key")

	// ErrTransport is matched by every TransportError.
	ErrTransport = errors.New("request failed")

	// ErrProvider is matched by every ProviderError.
	ErrProvider = errors.New("provider returned an error")

	// ErrDecode is matched by every DecodeError.
	ErrDecode = errors.New("invalid JSON response")
)

// ProviderError is an error reported by SendGrid in the response body,
// either as a single "error" object or as an "errors" list.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("provider error (status %d)", e.StatusCode)
}

// Is implements errors.Is for sentinel error matching.
func (e *ProviderError) Is(target error) bool {
	switch target {
	case ErrProvider:
		return true
	case ErrUnauthorized:
		return e.StatusCode == 401 || e.StatusCode == 403
	}
	return false
}

// TransportError represents a failure before any response was obtained.
type TransportError struct {
	Err error
	URL string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("Request failed. %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// DecodeError indicates the response body was not valid JSON.
type DecodeError struct {
	StatusCode int
	Body       string // truncated
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid JSON response (status %d): %v", e.StatusCode, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}
