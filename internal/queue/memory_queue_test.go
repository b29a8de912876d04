package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryQueueRoundTrip(t *testing.T) {
	q := NewMemoryQueue(4)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, 7))
	require.NoError(t, q.Enqueue(ctx, 8))
	assert.Equal(t, 2, q.Len())

	id, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(7), id)

	id, err = q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(8), id)
}

func TestMemoryQueueDequeueHonoursCancellation(t *testing.T) {
	q := NewMemoryQueue(4)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := q.Dequeue(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
