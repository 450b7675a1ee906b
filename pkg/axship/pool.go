package axship

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	httpAdapter "github.com/bft-labs/axship/internal/adapters/http"
	"github.com/bft-labs/axship/internal/adapters/metrics"
	"github.com/bft-labs/axship/internal/app"
	"github.com/bft-labs/axship/internal/domain"
)

// CSVEncodable is implemented by values that can be written as one CSV row.
type CSVEncodable interface {
	// CSVFields returns the fields of the row in header order.
	CSVFields() []string
}

// pool wires the internal pool to its adapters.
type pool struct {
	core *app.Pool
}

func newPool(cfg Config, contentType ContentType, header string, marshal MarshalFunc, opts []Option) (pool, error) {
	o := buildOptions(cfg, opts)

	id := uuid.NewString()
	emitter := &eventEmitterWrapper{
		handler: o.eventHandler,
		poolID:  id,
		dataset: cfg.Dataset,
	}
	if o.registerer != nil {
		collector := metrics.NewCollector()
		if err := collector.Register(o.registerer); err != nil {
			return pool{}, err
		}
		emitter.observer = collector.ForDataset(cfg.Dataset)
	}

	core := app.NewPool(app.PoolConfig{
		ID:            id,
		Token:         cfg.Token,
		Dataset:       cfg.Dataset,
		ServiceURL:    cfg.ServiceURL,
		ContentType:   contentType,
		Encoding:      cfg.Encoding,
		Header:        header,
		AutoFlush:     cfg.AutoFlush,
		UseRemoteTime: cfg.UseRemoteTime,
		Marshal:       marshal,
	},
		httpAdapter.NewIngestSender(o.httpClient, o.logger),
		o.clock,
		o.logger,
		emitter,
		emitter,
	)
	return pool{core: core}, nil
}

// ID returns the unique identifier of the pool.
func (p pool) ID() string {
	return p.core.ID()
}

// Len returns the number of events waiting for the next flush.
func (p pool) Len() int {
	return p.core.Len()
}

// Status returns the lifecycle state of the pool.
// Safe to call concurrently from any goroutine.
func (p pool) Status() State {
	return convertState(p.core.State())
}

// Closed reports whether Shutdown has been called.
func (p pool) Closed() bool {
	return p.core.Closed()
}

// Flush sends every queued event in one request. An empty queue makes no
// request. Events drained by a failed flush are not retried.
func (p pool) Flush(ctx context.Context) error {
	return p.core.Flush(ctx)
}

// Shutdown stops background flushing, waits for an in-flight background
// flush to finish and flushes what is left. Events injested afterwards are
// dropped silently. ctx bounds the wait and the final request.
func (p pool) Shutdown(ctx context.Context) error {
	return p.core.Shutdown(ctx)
}

// JSONPool batches events of type T and ships them as a JSON array or NDJSON.
type JSONPool[T any] struct {
	pool
}

// NewJSONPool validates cfg and creates a pool. When cfg.AutoFlush is set the
// pool starts flushing in the background immediately.
func NewJSONPool[T any](cfg JSONConfig, opts ...Option) (*JSONPool[T], error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p, err := newPool(cfg.Config, cfg.Format.ContentType(), "", cfg.Marshal, opts)
	if err != nil {
		return nil, err
	}
	return &JSONPool[T]{pool: p}, nil
}

// Injest serializes events and queues them. It never blocks on the network.
// If an event cannot be serialized none of the events are queued.
func (p *JSONPool[T]) Injest(events ...T) error {
	items := make([]domain.Item, len(events))
	for i, e := range events {
		items[i] = domain.JSONItem(e)
	}
	return p.core.Injest(items...)
}

// CSVPool batches rows and ships them as CSV under a fixed header.
type CSVPool struct {
	pool
}

// NewCSVPool validates cfg and creates a pool. When cfg.AutoFlush is set the
// pool starts flushing in the background immediately.
func NewCSVPool(cfg CSVConfig, opts ...Option) (*CSVPool, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p, err := newPool(cfg.Config, ContentTypeCSV, cfg.Header, nil, opts)
	if err != nil {
		return nil, err
	}
	return &CSVPool{pool: p}, nil
}

// Injest encodes rows as CSV, quoting fields as needed, and queues them.
// Nothing is queued if any row is nil.
func (p *CSVPool) Injest(rows ...CSVEncodable) error {
	items := make([]domain.Item, len(rows))
	for i, r := range rows {
		if r == nil {
			return fmt.Errorf("row %d: %w", i, ErrNilRow)
		}
		items[i] = domain.CSVItem(r.CSVFields())
	}
	return p.core.Injest(items...)
}

// InjestLines queues rows that are already CSV formatted.
func (p *CSVPool) InjestLines(lines ...string) error {
	items := make([]domain.Item, len(lines))
	for i, l := range lines {
		items[i] = domain.CSVLineItem(l)
	}
	return p.core.Injest(items...)
}
