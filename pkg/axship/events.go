package axship

import (
	"time"

	"github.com/bft-labs/axship/internal/app"
)

// State is the lifecycle state of a pool.
type State int

const (
	// StateActive accepts events.
	StateActive State = iota

	// StateClosed drops events. Terminal.
	StateClosed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateActive:
		return "Active"
	case StateClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// StateChangeEvent describes a lifecycle transition.
type StateChangeEvent struct {
	PoolID   string
	Previous State
	Current  State
	Reason   string
}

// FlushSuccessEvent describes a flush the ingest service accepted.
type FlushSuccessEvent struct {
	PoolID   string
	Dataset  string
	Items    int
	Bytes    int
	Duration time.Duration
}

// FlushErrorEvent describes a failed flush. The Items it carried are lost.
type FlushErrorEvent struct {
	PoolID  string
	Dataset string
	Error   error
	Items   int
}

// EventHandler receives notifications about pool operations.
// Embed BaseEventHandler to implement only the methods you need.
type EventHandler interface {
	OnStateChange(event StateChangeEvent)
	OnFlushSuccess(event FlushSuccessEvent)
	OnFlushError(event FlushErrorEvent)
}

// BaseEventHandler implements EventHandler with no-op methods.
type BaseEventHandler struct{}

func (BaseEventHandler) OnStateChange(StateChangeEvent)   {}
func (BaseEventHandler) OnFlushSuccess(FlushSuccessEvent) {}
func (BaseEventHandler) OnFlushError(FlushErrorEvent)     {}

// eventEmitterWrapper adapts EventHandler and the metrics observer to the
// internal emitter interfaces.
type eventEmitterWrapper struct {
	handler  EventHandler
	observer app.FlushEventEmitter
	poolID   string
	dataset  string
}

func (e *eventEmitterWrapper) OnStateChange(previous, current app.State, reason string) {
	if e.handler == nil {
		return
	}
	e.handler.OnStateChange(StateChangeEvent{
		PoolID:   e.poolID,
		Previous: convertState(previous),
		Current:  convertState(current),
		Reason:   reason,
	})
}

func (e *eventEmitterWrapper) OnFlushSuccess(items, bytes int, duration time.Duration) {
	if e.observer != nil {
		e.observer.OnFlushSuccess(items, bytes, duration)
	}
	if e.handler == nil {
		return
	}
	e.handler.OnFlushSuccess(FlushSuccessEvent{
		PoolID:   e.poolID,
		Dataset:  e.dataset,
		Items:    items,
		Bytes:    bytes,
		Duration: duration,
	})
}

func (e *eventEmitterWrapper) OnFlushError(err error, items int) {
	if e.observer != nil {
		e.observer.OnFlushError(err, items)
	}
	if e.handler == nil {
		return
	}
	e.handler.OnFlushError(FlushErrorEvent{
		PoolID:  e.poolID,
		Dataset: e.dataset,
		Error:   err,
		Items:   items,
	})
}

func convertState(s app.State) State {
	if s == app.StateClosed {
		return StateClosed
	}
	return StateActive
}
