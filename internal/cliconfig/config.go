package cliconfig

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/axship/internal/domain"
)

// DefaultServiceURL is the default Axiom API endpoint.
const DefaultServiceURL = "https://api.axiom.co"

// Config holds CLI configuration for axship.
type Config struct {
	Token   string
	Dataset string

	// Format is json, ndjson or csv.
	Format string
	Header string

	// Encoding is gzip or identity.
	Encoding string

	ServiceURL    string
	FlushInterval time.Duration
	HTTPTimeout   time.Duration
	UseRemoteTime bool

	Follow      bool
	MetricsAddr string
	LogLevel    string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Format:        "json",
		Encoding:      string(domain.EncodingGzip),
		ServiceURL:    DefaultServiceURL,
		FlushInterval: 5 * time.Second,
		HTTPTimeout:   15 * time.Second,
		LogLevel:      "info",
		Token:         os.Getenv("AXIOM_TOKEN"),
	}
}

// Validate checks the configuration for errors and normalizes values.
func (c *Config) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("token is required")
	}
	if c.Dataset == "" {
		return fmt.Errorf("dataset is required")
	}

	contentType, err := domain.ParseContentType(c.Format)
	if err != nil {
		return fmt.Errorf("format: %w", err)
	}
	if contentType == domain.ContentTypeCSV && strings.TrimSpace(c.Header) == "" {
		return fmt.Errorf("header is required for csv")
	}
	if _, err := domain.ParseContentEncoding(c.Encoding); err != nil {
		return fmt.Errorf("encoding: %w", err)
	}

	if c.ServiceURL == "" {
		c.ServiceURL = DefaultServiceURL
	}
	// Ensure no trailing slash
	c.ServiceURL = strings.TrimRight(c.ServiceURL, "/")

	if c.FlushInterval < 0 {
		return fmt.Errorf("flush interval must not be negative")
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// ContentType returns the parsed payload content type.
func (c *Config) ContentType() domain.ContentType {
	ct, _ := domain.ParseContentType(c.Format)
	return ct
}

// ContentEncoding returns the parsed body encoding.
func (c *Config) ContentEncoding() domain.ContentEncoding {
	enc, _ := domain.ParseContentEncoding(c.Encoding)
	return enc
}

// Level returns the parsed log level.
func (c *Config) Level() (zerolog.Level, error) {
	if c.LogLevel == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log level: %w", err)
	}
	return lvl, nil
}

// Masked returns a copy safe to log.
func (c Config) Masked() Config {
	if len(c.Token) > 0 {
		c.Token = "*****"
	}
	return c
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
