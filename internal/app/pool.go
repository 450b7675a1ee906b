package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bft-labs/axship/internal/domain"
	"github.com/bft-labs/axship/internal/ports"
	"github.com/bft-labs/axship/pkg/log"
)

// PoolConfig contains the frozen settings of a pool.
type PoolConfig struct {
	// ID identifies the pool in logs and events. Generated when empty.
	ID string

	Token      string
	Dataset    string
	ServiceURL string

	ContentType domain.ContentType
	Encoding    domain.ContentEncoding

	// Header is the CSV header line, without the _time column.
	Header string

	// AutoFlush is the pause between background flushes. Zero disables the worker.
	AutoFlush time.Duration

	// UseRemoteTime leaves timestamps to the ingest service instead of
	// stamping each item at enqueue time.
	UseRemoteTime bool

	Marshal domain.MarshalFunc
}

// FlushEventEmitter is called after every flush that reached the sender.
type FlushEventEmitter interface {
	OnFlushSuccess(items, bytes int, duration time.Duration)
	OnFlushError(err error, items int)
}

// Pool queues serialized events and ships them in batches.
type Pool struct {
	id        string
	config    PoolConfig
	header    string
	queue     *Queue
	sender    ports.PayloadSender
	clock     ports.Clock
	logger    ports.Logger
	lifecycle *Lifecycle
	emitter   FlushEventEmitter

	stopOnce sync.Once
	stop     chan struct{}
}

// NewPool creates a pool and, when AutoFlush is set, starts its background
// flush worker.
func NewPool(
	config PoolConfig,
	sender ports.PayloadSender,
	clock ports.Clock,
	logger ports.Logger,
	emitter FlushEventEmitter,
	lifecycleEmitter EventEmitter,
) *Pool {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	id := config.ID
	if id == "" {
		id = uuid.NewString()
	}
	logger = log.With(logger,
		ports.String("pool", id),
		ports.String("dataset", config.Dataset),
	)

	p := &Pool{
		id:        id,
		config:    config,
		queue:     NewQueue(),
		sender:    sender,
		clock:     clock,
		logger:    logger,
		lifecycle: NewLifecycle(logger, lifecycleEmitter),
		emitter:   emitter,
		stop:      make(chan struct{}),
	}
	if config.ContentType == domain.ContentTypeCSV {
		p.header = domain.CSVHeader(config.Header, !config.UseRemoteTime)
	}

	if config.AutoFlush > 0 {
		p.lifecycle.AddWorker()
		go p.runAutoFlush()
	}
	return p
}

// ID returns the unique identifier of the pool.
func (p *Pool) ID() string {
	return p.id
}

// Len returns the number of queued items.
func (p *Pool) Len() int {
	return p.queue.Len()
}

// State returns the lifecycle state of the pool.
func (p *Pool) State() State {
	return p.lifecycle.State()
}

// Closed reports whether Shutdown has been called.
func (p *Pool) Closed() bool {
	return p.lifecycle.Closed()
}

// Injest serializes items and appends them to the queue.
// Items are dropped silently once the pool is closed. If any item fails to
// serialize, none of the items from this call are queued.
func (p *Pool) Injest(items ...domain.Item) error {
	if p.lifecycle.Closed() || len(items) == 0 {
		return nil
	}

	serialized := make([]string, 0, len(items))
	for i, item := range items {
		if !item.Supports(p.config.ContentType) {
			return fmt.Errorf("injest item %d: %s item cannot be sent as %s", i, item.Kind(), p.config.ContentType)
		}
		s, err := item.Serialize(p.config.Marshal, p.stamp())
		if err != nil {
			return fmt.Errorf("injest item %d: %w", i, err)
		}
		serialized = append(serialized, s)
	}

	p.queue.Push(serialized...)
	p.logger.Debug("queued events", ports.Int("count", len(serialized)))
	return nil
}

// stamp returns the client-side timestamp for an item, or "" when the
// ingest service assigns time.
func (p *Pool) stamp() string {
	if p.config.UseRemoteTime {
		return ""
	}
	return p.clock.Now().UTC().Format(time.RFC3339Nano)
}

// Flush drains the queue and sends its contents as one payload.
// An empty queue is a no-op. Drained items are not restored on failure.
func (p *Pool) Flush(ctx context.Context) error {
	batch := p.queue.Drain()
	if batch.Empty() {
		return nil
	}

	payload := batch.Payload(p.config.ContentType, p.config.Encoding, p.header)
	metadata := ports.SendMetadata{
		Token:      p.config.Token,
		Dataset:    p.config.Dataset,
		ServiceURL: p.config.ServiceURL,
	}

	start := time.Now()
	err := p.sender.Send(ctx, payload, metadata)
	duration := time.Since(start)

	if err != nil {
		if p.emitter != nil {
			p.emitter.OnFlushError(err, batch.Size())
		}
		return err
	}

	p.logger.Info("sent batch",
		ports.Int("items", batch.Size()),
		ports.Int("bytes", batch.TotalBytes),
		ports.Duration("duration", duration),
	)
	if p.emitter != nil {
		p.emitter.OnFlushSuccess(batch.Size(), batch.TotalBytes, duration)
	}
	return nil
}

// Shutdown closes the pool, waits for the auto-flush worker to exit and
// performs a final flush. Injest calls after Shutdown are dropped.
// ctx bounds the wait for the worker and the final send.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.lifecycle.Close("Shutdown() called")
	p.stopOnce.Do(func() { close(p.stop) })

	if err := p.lifecycle.Wait(ctx); err != nil {
		return err
	}

	if err := p.Flush(ctx); err != nil {
		p.logger.Error("final flush failed", ports.Err(err))
		return err
	}
	return nil
}

// runAutoFlush flushes, then waits the full interval, until stopped.
func (p *Pool) runAutoFlush() {
	defer p.lifecycle.WorkerDone()

	for {
		if p.lifecycle.Closed() {
			return
		}

		// An in-flight send is never cut short by Shutdown.
		if err := p.Flush(context.Background()); err != nil {
			p.logger.Error("auto flush failed", ports.Err(err))
		}

		// The pause starts once the flush has returned.
		timer := time.NewTimer(p.config.AutoFlush)
		select {
		case <-p.stop:
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}
