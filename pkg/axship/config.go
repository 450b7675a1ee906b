package axship

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/bft-labs/axship/internal/domain"
)

// DefaultServiceURL is the base URL of the Axiom API.
const DefaultServiceURL = "https://api.axiom.co"

// ContentType is the MIME type of an ingest payload.
type ContentType = domain.ContentType

// Supported content types.
const (
	ContentTypeJSON   = domain.ContentTypeJSON
	ContentTypeNDJSON = domain.ContentTypeNDJSON
	ContentTypeCSV    = domain.ContentTypeCSV
)

// ContentEncoding is the encoding applied to the request body.
type ContentEncoding = domain.ContentEncoding

// Supported encodings.
const (
	EncodingIdentity = domain.EncodingIdentity
	EncodingGzip     = domain.EncodingGzip
)

// JSONFormat selects the payload layout of a JSON pool.
type JSONFormat = domain.JSONFormat

// Supported JSON formats.
const (
	FormatJSON   = domain.FormatJSON
	FormatNDJSON = domain.FormatNDJSON
)

// MarshalFunc turns an event into JSON.
type MarshalFunc = domain.MarshalFunc

// Config holds the settings shared by every pool kind.
// Use SetDefaults to fill in optional fields, Validate to check it.
type Config struct {
	// Token is the API token. Required.
	Token string

	// Dataset is the dataset events are ingested into. Required.
	Dataset string

	// Encoding of the request body. Default: gzip.
	Encoding ContentEncoding

	// AutoFlush is the pause between background flushes. Zero disables
	// background flushing; call Flush yourself.
	AutoFlush time.Duration

	// UseRemoteTime leaves timestamps to the ingest service. When false,
	// every event is stamped with the UTC time it was injested at.
	UseRemoteTime bool

	// ServiceURL is the base URL of the API. Default: DefaultServiceURL.
	ServiceURL string

	// HTTPTimeout bounds each request of the default HTTP client.
	// Zero means no client-side timeout. Ignored with WithHTTPClient.
	HTTPTimeout time.Duration
}

// SetDefaults fills in zero-valued optional fields.
func (c *Config) SetDefaults() {
	if c.Encoding == "" {
		c.Encoding = EncodingGzip
	}
	if c.ServiceURL == "" {
		c.ServiceURL = DefaultServiceURL
	}
	// Ensure no trailing slash
	c.ServiceURL = strings.TrimRight(c.ServiceURL, "/")
}

// Validate checks the settings shared by every pool.
func (c *Config) Validate() error {
	if c.Token == "" {
		return domain.ConfigError("token", "is required")
	}
	if c.Dataset == "" {
		return domain.ConfigError("dataset", "is required")
	}
	if !c.Encoding.Valid() {
		return domain.ConfigError("encoding", "must be gzip or identity")
	}
	if c.AutoFlush < 0 {
		return domain.ConfigError("auto flush", "must not be negative")
	}
	if c.HTTPTimeout < 0 {
		return domain.ConfigError("http timeout", "must not be negative")
	}
	return nil
}

// JSONConfig configures a JSONPool.
type JSONConfig struct {
	Config

	// Format of the payload. Default: FormatJSON.
	Format JSONFormat

	// Marshal encodes events. Default: encoding/json.Marshal.
	Marshal MarshalFunc
}

// SetDefaults fills in zero-valued optional fields.
func (c *JSONConfig) SetDefaults() {
	c.Config.SetDefaults()
	if c.Format == "" {
		c.Format = FormatJSON
	}
	if c.Marshal == nil {
		c.Marshal = json.Marshal
	}
}

// Validate checks the configuration.
func (c *JSONConfig) Validate() error {
	if err := c.Config.Validate(); err != nil {
		return err
	}
	if !c.Format.Valid() {
		return domain.ConfigError("format", "must be json or ndjson")
	}
	return nil
}

// CSVConfig configures a CSVPool.
type CSVConfig struct {
	Config

	// Header is the CSV header line, e.g. "level,message". Required.
	// The _time column is appended automatically unless UseRemoteTime is set.
	Header string
}

// Validate checks the configuration.
func (c *CSVConfig) Validate() error {
	if c.Header == "" {
		return domain.ConfigError("header", "is required")
	}
	return c.Config.Validate()
}
