package ports

import (
	"context"

	"github.com/bft-labs/axship/internal/domain"
)

// PayloadSender transmits one payload to the ingest service.
// Implementations handle compression, HTTP communication, and authentication.
type PayloadSender interface {
	// Send transmits the payload to the dataset named in metadata.
	// Returns nil on success, a typed domain error on rejection.
	// Implementations must not retry.
	Send(ctx context.Context, payload domain.Payload, metadata SendMetadata) error
}

// SendMetadata provides the destination and credentials for a send.
type SendMetadata struct {
	// Token is the API token sent as a bearer credential
	Token string

	// Dataset is the name of the dataset to ingest into
	Dataset string

	// ServiceURL is the base URL of the ingest service
	ServiceURL string
}
