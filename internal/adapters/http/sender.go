package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/bft-labs/axship/internal/domain"
	"github.com/bft-labs/axship/internal/ports"
)

const ingestEndpoint = "/v1/datasets/%s/ingest"

// maxErrorBody bounds how much of a failed response is read.
const maxErrorBody = 64 << 10

// IngestSender implements ports.PayloadSender using HTTP.
type IngestSender struct {
	client ports.HTTPClient
	logger ports.Logger
}

// NewIngestSender creates a new HTTP ingest sender.
func NewIngestSender(client ports.HTTPClient, logger ports.Logger) *IngestSender {
	return &IngestSender{
		client: client,
		logger: logger,
	}
}

// Send posts the payload to the dataset's ingest endpoint.
func (s *IngestSender) Send(ctx context.Context, payload domain.Payload, metadata ports.SendMetadata) error {
	body, err := encodeBody(payload)
	if err != nil {
		return err
	}

	// Build request
	endpoint := metadata.ServiceURL + fmt.Sprintf(ingestEndpoint, url.PathEscape(metadata.Dataset))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	// Set headers
	req.Header.Set("Authorization", "Bearer "+metadata.Token)
	req.Header.Set("Content-Type", payload.ContentType.String())
	if payload.Encoding != domain.EncodingIdentity {
		req.Header.Set("Content-Encoding", payload.Encoding.String())
	}

	// Send request
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	s.logger.Debug("ingest rejected",
		ports.Int("status", resp.StatusCode),
		ports.String("dataset", metadata.Dataset),
	)
	return statusError(resp.StatusCode, respBody)
}

// encodeBody returns the request body, gzip-compressed when requested.
func encodeBody(payload domain.Payload) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	switch payload.Encoding {
	case domain.EncodingIdentity:
		buf.WriteString(payload.Body)
	case domain.EncodingGzip:
		zw := gzip.NewWriter(&buf)
		if _, err := io.WriteString(zw, payload.Body); err != nil {
			return nil, fmt.Errorf("compress payload: %w", err)
		}
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("compress payload: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", payload.Encoding)
	}
	return &buf, nil
}

// errorResponse is the body the ingest service returns on failure.
type errorResponse struct {
	Message string `json:"message"`
}

// statusError maps a non-200 response to a typed domain error.
func statusError(status int, body []byte) error {
	if status == http.StatusForbidden {
		return domain.ErrAuth
	}

	message := errorMessage(status, body)
	if status == http.StatusBadRequest {
		return &domain.InvalidPayloadError{Message: message}
	}
	return &domain.APIError{StatusCode: status, Message: message}
}

func errorMessage(status int, body []byte) string {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Message != "" {
		return er.Message
	}

	// Not the documented shape, surface whatever the server sent.
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return http.StatusText(status)
}
