package cliconfig

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/axship/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("AXIOM_TOKEN", "from-env")
	cfg := DefaultConfig()

	if cfg.Format != "json" {
		t.Errorf("Format = %v, want json", cfg.Format)
	}
	if cfg.Encoding != "gzip" {
		t.Errorf("Encoding = %v, want gzip", cfg.Encoding)
	}
	if cfg.FlushInterval != 5*time.Second {
		t.Errorf("FlushInterval = %v, want 5s", cfg.FlushInterval)
	}
	if cfg.ServiceURL != DefaultServiceURL {
		t.Errorf("ServiceURL = %v, want %v", cfg.ServiceURL, DefaultServiceURL)
	}
	if cfg.Token != "from-env" {
		t.Errorf("Token = %v, want from-env", cfg.Token)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name           string
		config         Config
		wantErr        bool
		wantServiceURL string
	}{
		{
			name: "valid minimal config",
			config: Config{
				Token:    "t",
				Dataset:  "d",
				Format:   "json",
				Encoding: "gzip",
			},
			wantErr:        false,
			wantServiceURL: DefaultServiceURL,
		},
		{
			name: "missing token",
			config: Config{
				Dataset:  "d",
				Format:   "json",
				Encoding: "gzip",
			},
			wantErr: true,
		},
		{
			name: "missing dataset",
			config: Config{
				Token:    "t",
				Format:   "json",
				Encoding: "gzip",
			},
			wantErr: true,
		},
		{
			name: "unknown format",
			config: Config{
				Token:    "t",
				Dataset:  "d",
				Format:   "xml",
				Encoding: "gzip",
			},
			wantErr: true,
		},
		{
			name: "csv without header",
			config: Config{
				Token:    "t",
				Dataset:  "d",
				Format:   "csv",
				Encoding: "gzip",
			},
			wantErr: true,
		},
		{
			name: "csv with header",
			config: Config{
				Token:    "t",
				Dataset:  "d",
				Format:   "csv",
				Header:   "a,b",
				Encoding: "identity",
			},
			wantErr: false,
		},
		{
			name: "unknown encoding",
			config: Config{
				Token:    "t",
				Dataset:  "d",
				Format:   "ndjson",
				Encoding: "br",
			},
			wantErr: true,
		},
		{
			name: "negative flush interval",
			config: Config{
				Token:         "t",
				Dataset:       "d",
				Format:        "json",
				Encoding:      "gzip",
				FlushInterval: -time.Second,
			},
			wantErr: true,
		},
		{
			name: "invalid log level",
			config: Config{
				Token:    "t",
				Dataset:  "d",
				Format:   "json",
				Encoding: "gzip",
				LogLevel: "loud",
			},
			wantErr: true,
		},
		{
			name: "trailing slash trimmed",
			config: Config{
				Token:      "t",
				Dataset:    "d",
				Format:     "json",
				Encoding:   "gzip",
				ServiceURL: "http://localhost:8080/",
			},
			wantErr:        false,
			wantServiceURL: "http://localhost:8080",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && tt.wantServiceURL != "" && tt.config.ServiceURL != tt.wantServiceURL {
				t.Errorf("ServiceURL = %v, want %v", tt.config.ServiceURL, tt.wantServiceURL)
			}
		})
	}
}

func TestConfig_Parsed(t *testing.T) {
	cfg := Config{Format: "ndjson", Encoding: "none", LogLevel: "DEBUG"}

	if got := cfg.ContentType(); got != domain.ContentTypeNDJSON {
		t.Errorf("ContentType() = %v, want ndjson", got)
	}
	if got := cfg.ContentEncoding(); got != domain.EncodingIdentity {
		t.Errorf("ContentEncoding() = %v, want identity", got)
	}
	lvl, err := cfg.Level()
	if err != nil || lvl != zerolog.DebugLevel {
		t.Errorf("Level() = %v, %v, want debug", lvl, err)
	}
}

func TestConfig_Masked(t *testing.T) {
	cfg := Config{Token: "xaat-secret", Dataset: "d"}
	masked := cfg.Masked()

	if masked.Token != "*****" {
		t.Errorf("Token = %v, want masked", masked.Token)
	}
	if cfg.Token != "xaat-secret" {
		t.Error("Masked() modified the original")
	}
	if empty := (Config{}).Masked(); empty.Token != "" {
		t.Errorf("empty Token masked to %q", empty.Token)
	}
}
