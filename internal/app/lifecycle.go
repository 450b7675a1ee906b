package app

import (
	"context"
	"sync"

	"github.com/bft-labs/axship/internal/domain"
	"github.com/bft-labs/axship/internal/ports"
)

// State represents the lifecycle state of a pool.
type State int

const (
	StateActive State = iota
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

// Lifecycle manages the Active -> Closed state machine of a pool and tracks
// its background workers.
type Lifecycle struct {
	mu           sync.RWMutex
	state        State
	wg           sync.WaitGroup
	logger       ports.Logger
	eventEmitter EventEmitter
}

// EventEmitter is called when lifecycle state changes.
type EventEmitter interface {
	OnStateChange(previous, current State, reason string)
}

// NewLifecycle creates a new lifecycle manager in StateActive.
func NewLifecycle(logger ports.Logger, emitter EventEmitter) *Lifecycle {
	return &Lifecycle{
		state:        StateActive,
		logger:       logger,
		eventEmitter: emitter,
	}
}

// State returns the current lifecycle state.
func (l *Lifecycle) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// Closed reports whether the pool has been closed.
func (l *Lifecycle) Closed() bool {
	return l.State() == StateClosed
}

// TransitionTo attempts to transition to a new state.
// Closed is terminal; leaving it returns ErrPoolClosed.
func (l *Lifecycle) TransitionTo(newState State, reason string) error {
	l.mu.Lock()
	oldState := l.state

	if oldState == StateClosed && newState != StateClosed {
		l.mu.Unlock()
		return domain.ErrPoolClosed
	}
	if oldState == newState {
		l.mu.Unlock()
		return nil
	}

	l.state = newState
	l.mu.Unlock()

	// Emit event outside of lock
	if l.eventEmitter != nil {
		l.eventEmitter.OnStateChange(oldState, newState, reason)
	}

	l.logger.Info("state transition",
		ports.String("from", oldState.String()),
		ports.String("to", newState.String()),
		ports.String("reason", reason),
	)

	return nil
}

// Close moves the lifecycle to StateClosed. It returns true only for the
// call that performed the transition.
func (l *Lifecycle) Close(reason string) bool {
	if l.Closed() {
		return false
	}
	_ = l.TransitionTo(StateClosed, reason)
	return true
}

// AddWorker increments the worker count.
func (l *Lifecycle) AddWorker() {
	l.wg.Add(1)
}

// WorkerDone decrements the worker count.
func (l *Lifecycle) WorkerDone() {
	l.wg.Done()
}

// Wait blocks until all workers have finished or ctx is done.
// Returns ErrShutdownTimeout if ctx ends first.
func (l *Lifecycle) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		l.logger.Warn("shutdown interrupted before workers exited", ports.Err(ctx.Err()))
		return domain.ErrShutdownTimeout
	}
}
