// Package axship batches structured events in memory and ships them to the
// Axiom ingest API as JSON, NDJSON or CSV.
//
// Example usage:
//
//	pool, err := axship.NewCSVPool(axship.CSVConfig{
//	    Config: axship.Config{
//	        Token:     os.Getenv("AXIOM_TOKEN"),
//	        Dataset:   "jobs",
//	        AutoFlush: 5 * time.Second,
//	    },
//	    Header: "job,result",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Shutdown(context.Background())
//	_ = pool.InjestLines("backup,ok")
//
// JSON pools are generic; use the pkg/axship package directly for them.
package axship

import (
	"github.com/bft-labs/axship/pkg/axship"
)

// Config holds the settings shared by every pool kind.
type Config = axship.Config

// JSONConfig configures a JSON pool created with axship.NewJSONPool.
type JSONConfig = axship.JSONConfig

// CSVConfig configures a CSV pool.
type CSVConfig = axship.CSVConfig

// CSVPool batches rows and ships them as CSV under a fixed header.
type CSVPool = axship.CSVPool

// Client sends single ingest requests without queueing.
type Client = axship.Client

// Request is a one-shot ingest of a fixed set of items.
type Request = axship.Request

// Option configures optional behavior of pools and clients.
type Option = axship.Option

// NewCSVPool validates cfg and creates a CSV pool.
func NewCSVPool(cfg CSVConfig, opts ...Option) (*CSVPool, error) {
	return axship.NewCSVPool(cfg, opts...)
}

// NewClient creates a one-shot ingest client.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	return axship.NewClient(cfg, opts...)
}

// DefaultServiceURL is the base URL of the Axiom API.
const DefaultServiceURL = axship.DefaultServiceURL
