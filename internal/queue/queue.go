// Package queue holds the FIFO of task IDs waiting for a worker.
package queue

import (
	"context"
	"sync"
)

// Queue is a FIFO of task IDs with in-flight tracking
type Queue interface {
	// Push appends a task ID.
	Push(ctx context.Context, taskID string) error

	// Pop removes and returns the oldest task ID, or "" when the queue is empty.
	Pop(ctx context.Context) (string, error)

	// Len returns the number of queued task IDs.
	Len(ctx context.Context) (int64, error)

	// SetInFlight records that worker is executing taskID.
	SetInFlight(ctx context.Context, taskID, worker string) error

	// RemoveInFlight clears the in-flight record of taskID.
	RemoveInFlight(ctx context.Context, taskID string) error

	// InFlight returns task IDs currently executing, keyed to their worker.
	InFlight(ctx context.Context) (map[string]string, error)

	// Close releases the queue's resources.
	Close() error
}

// MemoryQueue is an in-process Queue
type MemoryQueue struct {
	mu       sync.Mutex
	items    []string
	inFlight map[string]string
}

// NewMemoryQueue creates an empty in-process queue
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{inFlight: make(map[string]string)}
}

// Push appends a task ID
func (q *MemoryQueue) Push(_ context.Context, taskID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, taskID)
	return nil
}

// Pop removes and returns the oldest task ID, or "" when empty
func (q *MemoryQueue) Pop(_ context.Context) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return "", nil
	}
	id := q.items[0]
	q.items = q.items[1:]
	return id, nil
}

// Len returns the number of queued task IDs
func (q *MemoryQueue) Len(_ context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.items)), nil
}

// SetInFlight records that worker is executing taskID
func (q *MemoryQueue) SetInFlight(_ context.Context, taskID, worker string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.inFlight[taskID] = worker
	return nil
}

// RemoveInFlight clears the in-flight record of taskID
func (q *MemoryQueue) RemoveInFlight(_ context.Context, taskID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.inFlight, taskID)
	return nil
}

// InFlight returns a copy of the in-flight records
func (q *MemoryQueue) InFlight(_ context.Context) (map[string]string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make(map[string]string, len(q.inFlight))
	for k, v := range q.inFlight {
		out[k] = v
	}
	return out, nil
}

// Close is a no-op
func (q *MemoryQueue) Close() error {
	return nil
}
