package axship

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bft-labs/axship/internal/ports"
	"github.com/bft-labs/axship/pkg/log"
)

// HTTPClient is the interface for making HTTP requests.
// *http.Client satisfies this interface.
type HTTPClient = ports.HTTPClient

// Logger is the interface for structured logging.
type Logger = log.Logger

// Clock supplies event timestamps.
type Clock = ports.Clock

// Option configures optional behavior of pools and clients.
type Option func(*options)

// options holds the optional configuration for a pool or client.
type options struct {
	httpClient   ports.HTTPClient
	logger       ports.Logger
	eventHandler EventHandler
	clock        ports.Clock
	registerer   prometheus.Registerer
}

// defaultOptions returns options with sensible defaults.
func defaultOptions(client *http.Client) options {
	return options{
		httpClient: client,
		logger:     log.NewNoopLogger(),
		clock:      ports.SystemClock{},
	}
}

// WithHTTPClient sets a custom HTTP client for API communication.
// If not provided, a client with the configured HTTPTimeout is used.
func WithHTTPClient(client HTTPClient) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithEventHandler sets a handler for pool events.
// Flush events are called synchronously from the goroutine that flushed,
// which is the background worker for auto flushes.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithClock overrides the source of event timestamps.
func WithClock(clock Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithMetrics registers flush metrics (axship_flushes_total,
// axship_events_sent_total, axship_events_dropped_total, ...) with r.
// Pools sharing a registerer share the metric vectors, labeled by dataset.
func WithMetrics(r prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = r
	}
}

func buildOptions(cfg Config, opts []Option) options {
	o := defaultOptions(&http.Client{Timeout: cfg.HTTPTimeout})
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.NewNoopLogger()
	}
	if o.clock == nil {
		o.clock = ports.SystemClock{}
	}
	return o
}
