package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	citelinkerrors "github.com/citelink/citelink/pkg/errors"
)

func TestMemoryQueue_EnqueueDequeueAck(t *testing.T) {
	ctx := context.Background()
	q := NewMemoryQueue()
	defer q.Close()

	job := NewJob(JobTypeExtract, map[string]interface{}{"text": "hello"})
	require.NoError(t, q.Enqueue(ctx, job))

	depth, err := q.GetDepth(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, depth)

	dequeued, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, job.ID, dequeued.ID)
	assert.Equal(t, JobStatusRunning, dequeued.Status)

	require.NoError(t, q.Ack(ctx, job.ID))
}

func TestMemoryQueue_NackRequeuesWhenRetryable(t *testing.T) {
	ctx := context.Background()
	q := NewMemoryQueue()
	defer q.Close()

	job := NewJob(JobTypeExtract, nil)
	job.MaxAttempts = 3
	require.NoError(t, q.Enqueue(ctx, job))

	dequeued, err := q.Dequeue(ctx)
	require.NoError(t, err)
	dequeued.Status = JobStatusRetrying

	require.NoError(t, q.Nack(ctx, dequeued.ID, true))

	depth, err := q.GetDepth(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, depth)
}

func TestMemoryQueue_AckUnknownJobErrors(t *testing.T) {
	q := NewMemoryQueue()
	defer q.Close()

	err := q.Ack(context.Background(), "unknown")
	assert.ErrorIs(t, err, citelinkerrors.ErrNotFound)
}

func TestMemoryQueue_EnqueueAfterCloseErrors(t *testing.T) {
	q := NewMemoryQueue()
	require.NoError(t, q.Close())

	err := q.Enqueue(context.Background(), NewJob(JobTypeExtract, nil))
	assert.ErrorIs(t, err, citelinkerrors.ErrQueueClosed)
}

func TestMemoryQueue_DequeueBlocksUntilContextCancelled(t *testing.T) {
	q := NewMemoryQueue()
	defer q.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := q.Dequeue(ctx)
	assert.Error(t, err)
}

func TestJob_MarkCompletedSetsStatus(t *testing.T) {
	job := NewJob(JobTypeExtract, nil)
	job.MarkCompleted(map[string]interface{}{"citations": 3})

	assert.Equal(t, JobStatusCompleted, job.Status)
	assert.NotNil(t, job.CompletedAt)
}

func TestJob_ShouldRetryRespectsMaxAttempts(t *testing.T) {
	job := NewJob(JobTypeExtract, nil)
	job.MaxAttempts = 1
	job.MarkStarted()
	job.MarkFailed(nil)

	assert.False(t, job.ShouldRetry())
}
