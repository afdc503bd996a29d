package dispatch

import "sync"

// Scheduler runs a continuation once, after the current dispatch turn has
// returned to the host's event loop. No ordering is promised relative to
// other events.
type Scheduler interface {
	Defer(fn func())
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(fn func())

func (f SchedulerFunc) Defer(fn func()) { f(fn) }

// Queue is a FIFO Scheduler drained explicitly by the host.
type Queue struct {
	mu      sync.Mutex
	pending []func()
}

// Defer queues fn.
func (q *Queue) Defer(fn func()) {
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()
}

// Len returns the number of queued continuations.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Run executes the continuations queued so far and returns how many ran.
// Continuations queued while running wait for the next call.
func (q *Queue) Run() int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()
	for _, fn := range batch {
		fn()
	}
	return len(batch)
}
