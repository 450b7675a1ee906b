package app

import (
	"sync"

	"github.com/bft-labs/axship/internal/domain"
)

// Queue is an unbounded FIFO of serialized items, safe for concurrent
// producers and consumers.
type Queue struct {
	mu    sync.Mutex
	items []string
}

// NewQueue creates a new empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends items to the tail of the queue, preserving their order.
func (q *Queue) Push(items ...string) {
	if len(items) == 0 {
		return
	}
	q.mu.Lock()
	q.items = append(q.items, items...)
	q.mu.Unlock()
}

// Drain removes every queued item and returns them as a batch.
// Items pushed after the swap land in the next drain.
func (q *Queue) Drain() *domain.Batch {
	q.mu.Lock()
	items := q.items
	q.items = nil
	q.mu.Unlock()
	return domain.NewBatch(items)
}

// Len returns the number of queued items.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
