package batch

import (
	"context"
	"sync"
)

// Dispatcher runs continuations on the goroutine that owns the
// orchestrator state
type Dispatcher interface {
	Dispatch(fn func())
}

// DispatchFunc adapts a function such as fyne.Do to a Dispatcher
type DispatchFunc func(fn func())

// Dispatch calls f(fn)
func (f DispatchFunc) Dispatch(fn func()) {
	f(fn)
}

// Queue is an unbounded FIFO Dispatcher drained by its owner, for main
// loops that are not driven by a UI toolkit
type Queue struct {
	mu     sync.Mutex
	items  []func()
	signal chan struct{}
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{signal: make(chan struct{}, 1)}
}

// Dispatch enqueues fn. It never blocks.
func (q *Queue) Dispatch(fn func()) {
	q.mu.Lock()
	q.items = append(q.items, fn)
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// Drain runs everything queued so far, including continuations queued by
// those it runs, and returns how many ran
func (q *Queue) Drain() int {
	n := 0
	for {
		q.mu.Lock()
		items := q.items
		q.items = nil
		q.mu.Unlock()

		if len(items) == 0 {
			return n
		}
		for _, fn := range items {
			fn()
			n++
		}
	}
}

// Wait blocks until something is queued or ctx is done
func (q *Queue) Wait(ctx context.Context) error {
	q.mu.Lock()
	pending := len(q.items)
	q.mu.Unlock()
	if pending > 0 {
		return nil
	}

	select {
	case <-q.signal:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunUntilIdle drains continuations until o has no work in flight
func (q *Queue) RunUntilIdle(ctx context.Context, o *Orchestrator) error {
	for {
		q.Drain()
		if o.Idle() {
			return nil
		}
		if err := q.Wait(ctx); err != nil {
			return err
		}
	}
}
