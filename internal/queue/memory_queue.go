package queue

import (
	"context"
	"fmt"
)

// MemoryQueue is a channel-backed TaskQueue for tests and single-process runs.
type MemoryQueue struct {
	tasks chan uint
}

func NewMemoryQueue(capacity int) *MemoryQueue {
	if capacity <= 0 {
		capacity = 1024
	}
	return &MemoryQueue{tasks: make(chan uint, capacity)}
}

func (q *MemoryQueue) Enqueue(_ context.Context, questionID uint) error {
	select {
	case q.tasks <- questionID:
		return nil
	default:
		return fmt.Errorf("queue is full, dropping question %d", questionID)
	}
}

func (q *MemoryQueue) Dequeue(ctx context.Context) (uint, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case id := <-q.tasks:
		return id, nil
	}
}

// Len reports the number of queued tasks.
func (q *MemoryQueue) Len() int {
	return len(q.tasks)
}
