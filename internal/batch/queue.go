package batch

import (
	"context"
	"sync"

	"github.com/okian/trueskill/internal/domain/model"
	"github.com/okian/trueskill/pkg/metrics"
)

// Job is a match tagged with its position in the input.
type Job struct {
	Index int
	Match model.Match
}

// Queue is a bounded FIFO of jobs backed by a buffered channel.
type Queue struct {
	jobs   chan Job
	mu     sync.RWMutex
	closed bool
}

// NewQueue creates a queue holding up to capacity jobs; capacity < 1 means unbuffered.
func NewQueue(capacity int) *Queue {
	if capacity < 0 {
		capacity = 0
	}
	return &Queue{jobs: make(chan Job, capacity)}
}

// Enqueue blocks until the job is accepted, the queue is closed or ctx ends.
func (q *Queue) Enqueue(ctx context.Context, job Job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.jobs <- job:
		metrics.UpdateBatchPending(len(q.jobs))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dequeue returns the receive side. It is closed by Close.
func (q *Queue) Dequeue() <-chan Job {
	return q.jobs
}

// Len returns the number of queued jobs.
func (q *Queue) Len() int {
	return len(q.jobs)
}

// Close stops accepting jobs. Queued jobs remain readable. Close is idempotent.
func (q *Queue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	q.closed = true
	close(q.jobs)
	return nil
}

// IsClosed reports whether Close was called.
func (q *Queue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
