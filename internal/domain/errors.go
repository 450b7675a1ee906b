package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent error conditions in the axship domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrAuth is returned when the ingest service rejects the token or dataset (HTTP 403).
	ErrAuth = errors.New("axship: invalid token or dataset name")

	// ErrInvalidPayload matches every *InvalidPayloadError (HTTP 400).
	ErrInvalidPayload = errors.New("axship: invalid payload")

	// ErrInvalidConfig is returned when pool configuration validation fails.
	ErrInvalidConfig = errors.New("axship: invalid configuration")

	// ErrInvalidRequest is returned when a one-shot ingest request is malformed.
	ErrInvalidRequest = errors.New("axship: invalid request")

	// ErrNotJSONObject is returned when a timestamp must be attached to an
	// event that does not encode to a JSON object.
	ErrNotJSONObject = errors.New("axship: event does not encode to a JSON object")

	// ErrNilRow is returned when a nil row is given where a CSV row is expected.
	ErrNilRow = errors.New("axship: nil CSV row")

	// ErrPoolClosed is returned by lifecycle transitions out of the closed state.
	ErrPoolClosed = errors.New("axship: pool closed")

	// ErrShutdownTimeout is returned when the auto-flush worker does not exit
	// before the shutdown context ends.
	ErrShutdownTimeout = errors.New("axship: shutdown timeout")
)

// InvalidPayloadError carries the message of an HTTP 400 response verbatim.
type InvalidPayloadError struct {
	Message string
}

func (e *InvalidPayloadError) Error() string {
	return "axship: invalid payload: " + e.Message
}

// Is makes errors.Is(err, ErrInvalidPayload) match.
func (e *InvalidPayloadError) Is(target error) bool {
	return target == ErrInvalidPayload
}

// APIError is any other non-200 response from the ingest service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("axship: server returned %d: %s", e.StatusCode, e.Message)
}

// ConfigError names the configuration field that failed validation.
func ConfigError(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidConfig, field, reason)
}
