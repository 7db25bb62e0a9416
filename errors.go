package sendgrid

import (
	"errors"
	"fmt"
	"strings"

	"github.com/formsend/client-go/internal/apierrors"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingAPIKey is returned when no API key is provided.
	ErrMissingAPIKey = errors.New("API key is required")

	// ErrUnauthorized is returned when SendGrid rejects the API key (401/403).
	ErrUnauthorized = errors.New("invalid or unauthorized API key")

	// ErrTransport is matched by every TransportError.
	ErrTransport = errors.New("request failed")

	// ErrProvider is matched by every ProviderError.
	ErrProvider = errors.New("provider returned an error")

	// ErrDecode is matched by every DecodeError.
	ErrDecode = errors.New("invalid JSON response")

	// ErrInvalidDays is returned when a negative stats window is requested.
	ErrInvalidDays = errors.New("days must not be negative")

	// ErrNoRecipient indicates the message has no "to" address.
	ErrNoRecipient = errors.New("message must have at least one recipient")

	// ErrNoSender indicates the message has no from address.
	ErrNoSender = errors.New("message must have a sender")

	// ErrNoSubject indicates a personalization has no subject and the message has none either.
	ErrNoSubject = errors.New("message must have a subject")

	// ErrNoContent indicates the message has neither content nor a template.
	ErrNoContent = errors.New("message must have content or a template")
)

// SendGridError is implemented by all SDK errors.
type SendGridError interface {
	error
	SendGridError() // marker method
}

// ProviderError is an error reported by SendGrid in the response body.
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

// SendGridError implements the SendGridError interface.
func (e *ProviderError) SendGridError() {}

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

// TransportError represents a network-level failure: DNS, connection,
// timeout or cancellation. No response was received.
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

// SendGridError implements the SendGridError interface.
func (e *TransportError) SendGridError() {}

// DecodeError indicates a response body that is not valid JSON.
type DecodeError struct {
	StatusCode int    // zero when the value did not match the expected shape
	Body       string // first bytes of the body
	Err        error
}

func (e *DecodeError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("invalid JSON response: %v", e.Err)
	}
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

// SendGridError implements the SendGridError interface.
func (e *DecodeError) SendGridError() {}

// ValidationError lists the problems found in a message before sending.
type ValidationError struct {
	Errors []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Unwrap returns the individual validation failures.
func (e *ValidationError) Unwrap() []error {
	return e.Errors
}

// SendGridError implements the SendGridError interface.
func (e *ValidationError) SendGridError() {}

// wrapError converts internal API errors to public errors.
// This ensures that errors.Is() checks work with public sentinel errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var provErr *apierrors.ProviderError
	if errors.As(err, &provErr) {
		return &ProviderError{
			StatusCode: provErr.StatusCode,
			Message:    provErr.Message,
		}
	}

	var trErr *apierrors.TransportError
	if errors.As(err, &trErr) {
		return &TransportError{
			Err: trErr.Err,
			URL: trErr.URL,
		}
	}

	var decErr *apierrors.DecodeError
	if errors.As(err, &decErr) {
		return &DecodeError{
			StatusCode: decErr.StatusCode,
			Body:       decErr.Body,
			Err:        decErr.Err,
		}
	}

	if errors.Is(err, apierrors.ErrMissingAPIKey) {
		return ErrMissingAPIKey
	}

	return err
}
