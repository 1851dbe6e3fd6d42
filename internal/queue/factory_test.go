package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQueue_NilConfigReturnsMemoryQueue(t *testing.T) {
	q, err := NewQueue(nil)
	require.NoError(t, err)
	defer q.Close()
	_, ok := q.(*MemoryQueue)
	assert.True(t, ok)
}

func TestNewQueue_EmptyDriverDefaultsToMemory(t *testing.T) {
	q, err := NewQueue(&QueueConfig{})
	require.NoError(t, err)
	defer q.Close()
	_, ok := q.(*MemoryQueue)
	assert.True(t, ok)
}

func TestNewQueue_UnknownDriverReturnsError(t *testing.T) {
	_, err := NewQueue(&QueueConfig{Driver: "carrier-pigeon"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown queue driver")
}
