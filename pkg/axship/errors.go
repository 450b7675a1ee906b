package axship

import "github.com/bft-labs/axship/internal/domain"

// Errors returned by pools and clients. Check them with errors.Is.
var (
	// ErrAuth is returned when the token or dataset is rejected (HTTP 403).
	ErrAuth = domain.ErrAuth

	// ErrInvalidPayload matches every *InvalidPayloadError.
	ErrInvalidPayload = domain.ErrInvalidPayload

	// ErrInvalidConfig is wrapped by configuration validation failures.
	ErrInvalidConfig = domain.ErrInvalidConfig

	// ErrInvalidRequest is wrapped by malformed one-shot ingest requests.
	ErrInvalidRequest = domain.ErrInvalidRequest

	// ErrNotJSONObject is returned when an event must be stamped but does
	// not encode to a JSON object.
	ErrNotJSONObject = domain.ErrNotJSONObject

	// ErrNilRow is returned by CSVPool.Injest for a nil row.
	ErrNilRow = domain.ErrNilRow

	// ErrShutdownTimeout is returned when Shutdown's context ends before the
	// background flush worker exits.
	ErrShutdownTimeout = domain.ErrShutdownTimeout
)

// InvalidPayloadError is returned for HTTP 400 and carries the server message.
type InvalidPayloadError = domain.InvalidPayloadError

// APIError is returned for any other non-200 response.
type APIError = domain.APIError
