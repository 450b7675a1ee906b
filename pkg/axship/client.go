package axship

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	httpAdapter "github.com/bft-labs/axship/internal/adapters/http"
	"github.com/bft-labs/axship/internal/domain"
	"github.com/bft-labs/axship/internal/ports"
)

// Item is a single event of a one-shot ingest request.
type Item = domain.Item

// JSON wraps a value encoded with encoding/json. It can be sent as JSON or NDJSON.
func JSON(v any) Item {
	return domain.JSONItem(v)
}

// JSONWith wraps a value encoded with marshal instead of encoding/json.
func JSONWith(v any, marshal MarshalFunc) Item {
	return domain.JSONItemWith(v, marshal)
}

// CSV wraps a row encoded from its fields. It can only be sent as CSV.
// A nil row makes Ingest fail with ErrInvalidRequest.
func CSV(row CSVEncodable) Item {
	if row == nil {
		return domain.InvalidItem(domain.ItemCSV, ErrNilRow)
	}
	return domain.CSVItem(row.CSVFields())
}

// CSVLine wraps a pre-formatted CSV row. It can only be sent as CSV.
func CSVLine(line string) Item {
	return domain.CSVLineItem(line)
}

// Request is a one-shot ingest of a fixed set of items.
type Request struct {
	// Dataset is the dataset to ingest into. Required.
	Dataset string

	// ContentType of the payload. Default: the preferred type of the first item.
	ContentType ContentType

	// Encoding of the request body. Default: gzip.
	Encoding ContentEncoding

	// Header is the CSV header line. Required for CSV.
	Header string

	// Items to send, in order. Required.
	Items []Item
}

// Client sends single requests without queueing. Items are sent exactly as
// given; no timestamps are added.
type Client struct {
	token      string
	serviceURL string
	sender     ports.PayloadSender
	logger     ports.Logger
}

// NewClient creates a client from the Token, ServiceURL and HTTPTimeout of
// cfg; the pool settings are ignored, as are the event handler, metrics and
// clock options.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	cfg.SetDefaults()
	if cfg.Token == "" {
		return nil, domain.ConfigError("token", "is required")
	}

	o := buildOptions(cfg, opts)
	return &Client{
		token:      cfg.Token,
		serviceURL: cfg.ServiceURL,
		sender:     httpAdapter.NewIngestSender(o.httpClient, o.logger),
		logger:     o.logger,
	}, nil
}

// Ingest validates and sends the request.
func (c *Client) Ingest(ctx context.Context, req Request) error {
	payload, err := buildPayload(req)
	if err != nil {
		return err
	}
	c.logger.Debug("ingest request",
		ports.String("dataset", req.Dataset),
		ports.String("content_type", payload.ContentType.String()),
		ports.Int("items", len(req.Items)),
	)
	return c.sender.Send(ctx, payload, ports.SendMetadata{
		Token:      c.token,
		Dataset:    req.Dataset,
		ServiceURL: c.serviceURL,
	})
}

func buildPayload(req Request) (domain.Payload, error) {
	if len(req.Items) == 0 {
		return domain.Payload{}, fmt.Errorf("%w: payload cannot be empty", domain.ErrInvalidRequest)
	}
	if req.Dataset == "" {
		return domain.Payload{}, fmt.Errorf("%w: dataset must be set", domain.ErrInvalidRequest)
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = req.Items[0].SupportedTypes()[0]
	}
	if !contentType.Valid() {
		return domain.Payload{}, fmt.Errorf("%w: unknown content type %q", domain.ErrInvalidRequest, contentType)
	}
	encoding := req.Encoding
	if encoding == "" {
		encoding = EncodingGzip
	}
	if !encoding.Valid() {
		return domain.Payload{}, fmt.Errorf("%w: unknown content encoding %q", domain.ErrInvalidRequest, encoding)
	}
	if contentType == ContentTypeCSV && strings.TrimSpace(req.Header) == "" {
		return domain.Payload{}, fmt.Errorf("%w: csv header must be set", domain.ErrInvalidRequest)
	}

	serialized := make([]string, len(req.Items))
	for i, item := range req.Items {
		if !item.Supports(contentType) {
			return domain.Payload{}, fmt.Errorf("%w: item %d (%s) cannot be sent as %s",
				domain.ErrInvalidRequest, i, item.Kind(), contentType)
		}
		s, err := item.Serialize(json.Marshal, "")
		if err != nil {
			return domain.Payload{}, fmt.Errorf("%w: item %d: %w", domain.ErrInvalidRequest, i, err)
		}
		serialized[i] = s
	}

	return domain.NewBatch(serialized).Payload(contentType, encoding, req.Header), nil
}
