// Package metrics exposes pool flush outcomes as prometheus metrics.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bft-labs/axship/internal/domain"
)

const prefix = "axship_"

const (
	datasetLabel = "dataset"
	resultLabel  = "result"
	reasonLabel  = "reason"
)

// Collector counts flushes, shipped events and dropped events per dataset.
type Collector struct {
	flushes       *prometheus.CounterVec
	eventsSent    *prometheus.CounterVec
	bytesSent     *prometheus.CounterVec
	eventsDropped *prometheus.CounterVec
	flushDuration *prometheus.HistogramVec
}

// NewCollector creates the metric vectors. Call Register to expose them.
func NewCollector() *Collector {
	flushes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "flushes_total",
			Help: "Flushes that reached the ingest endpoint, by result",
		},
		[]string{datasetLabel, resultLabel},
	)
	eventsSent := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "events_sent_total",
			Help: "Events accepted by the ingest endpoint",
		},
		[]string{datasetLabel},
	)
	bytesSent := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "payload_bytes_sent_total",
			Help: "Uncompressed serialized event bytes accepted by the ingest endpoint",
		},
		[]string{datasetLabel},
	)
	eventsDropped := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "events_dropped_total",
			Help: "Events lost because the flush carrying them failed",
		},
		[]string{datasetLabel, reasonLabel},
	)
	flushDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "flush_duration_seconds",
			Help:    "Time spent sending a successful flush",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		},
		[]string{datasetLabel},
	)

	return &Collector{
		flushes:       flushes,
		eventsSent:    eventsSent,
		bytesSent:     bytesSent,
		eventsDropped: eventsDropped,
		flushDuration: flushDuration,
	}
}

// Register adds all metrics to the registerer. Metrics another collector
// already registered there are adopted, so several pools can share one
// registry.
func (c *Collector) Register(r prometheus.Registerer) error {
	var err error
	if c.flushes, err = register(r, c.flushes); err != nil {
		return err
	}
	if c.eventsSent, err = register(r, c.eventsSent); err != nil {
		return err
	}
	if c.bytesSent, err = register(r, c.bytesSent); err != nil {
		return err
	}
	if c.eventsDropped, err = register(r, c.eventsDropped); err != nil {
		return err
	}
	if c.flushDuration, err = register(r, c.flushDuration); err != nil {
		return err
	}
	return nil
}

func register[T prometheus.Collector](r prometheus.Registerer, m T) (T, error) {
	if err := r.Register(m); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return m, err
	}
	return m, nil
}

// ForDataset returns a flush observer bound to a dataset label.
func (c *Collector) ForDataset(dataset string) *DatasetObserver {
	return &DatasetObserver{c: c, dataset: dataset}
}

// DatasetObserver records flush outcomes for one dataset.
type DatasetObserver struct {
	c       *Collector
	dataset string
}

// OnFlushSuccess records an accepted flush.
func (o *DatasetObserver) OnFlushSuccess(items, bytes int, duration time.Duration) {
	o.c.flushes.WithLabelValues(o.dataset, "success").Inc()
	o.c.eventsSent.WithLabelValues(o.dataset).Add(float64(items))
	o.c.bytesSent.WithLabelValues(o.dataset).Add(float64(bytes))
	o.c.flushDuration.WithLabelValues(o.dataset).Observe(duration.Seconds())
}

// OnFlushError records a failed flush and the events it lost.
func (o *DatasetObserver) OnFlushError(err error, items int) {
	o.c.flushes.WithLabelValues(o.dataset, "error").Inc()
	o.c.eventsDropped.WithLabelValues(o.dataset, Reason(err)).Add(float64(items))
}

// Reason classifies a flush error into a low-cardinality label value.
func Reason(err error) string {
	var apiErr *domain.APIError
	switch {
	case errors.Is(err, domain.ErrAuth):
		return "auth"
	case errors.Is(err, domain.ErrInvalidPayload):
		return "invalid_payload"
	case errors.As(err, &apiErr):
		return "server"
	default:
		return "transport"
	}
}
