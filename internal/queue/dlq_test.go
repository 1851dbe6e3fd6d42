package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDLQ_AddThenGetReturnsJob(t *testing.T) {
	dlq := NewMemoryDLQ()
	job := &Job{ID: "job-1", Type: JobTypeExtract}

	require.NoError(t, dlq.Add(job))

	got, err := dlq.Get("job-1")
	require.NoError(t, err)
	assert.Equal(t, job, got)
	assert.Equal(t, 1, dlq.GetSize())
}

func TestMemoryDLQ_GetMissingJobReturnsNilWithoutError(t *testing.T) {
	dlq := NewMemoryDLQ()
	got, err := dlq.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryDLQ_ListRespectsLimitAndOffset(t *testing.T) {
	dlq := NewMemoryDLQ()
	for i := 0; i < 3; i++ {
		require.NoError(t, dlq.Add(&Job{ID: string(rune('a' + i))}))
	}

	all, err := dlq.List(0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	page, err := dlq.List(1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "b", page[0].ID)
}

func TestMemoryDLQ_RemoveDeletesJobFromMapAndList(t *testing.T) {
	dlq := NewMemoryDLQ()
	require.NoError(t, dlq.Add(&Job{ID: "job-1"}))

	require.NoError(t, dlq.Remove("job-1"))

	got, err := dlq.Get("job-1")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 0, dlq.GetSize())
}

func TestMemoryDLQ_RetryResetsJobAndRemovesFromDLQ(t *testing.T) {
	dlq := NewMemoryDLQ()
	require.NoError(t, dlq.Add(&Job{ID: "job-1", Status: JobStatusFailed, Attempts: 3, Error: "boom"}))

	retried, err := dlq.Retry("job-1")
	require.NoError(t, err)
	require.NotNil(t, retried)
	assert.Equal(t, JobStatusPending, retried.Status)
	assert.Equal(t, 0, retried.Attempts)
	assert.Empty(t, retried.Error)
	assert.Equal(t, 0, dlq.GetSize())
}

func TestMemoryDLQ_ClearRemovesAllJobs(t *testing.T) {
	dlq := NewMemoryDLQ()
	require.NoError(t, dlq.Add(&Job{ID: "job-1"}))
	require.NoError(t, dlq.Add(&Job{ID: "job-2"}))

	require.NoError(t, dlq.Clear())
	assert.Equal(t, 0, dlq.GetSize())
}

func TestMemoryDLQ_GetStatsSummarizesJobsByTypeAndError(t *testing.T) {
	dlq := NewMemoryDLQ()
	require.NoError(t, dlq.Add(&Job{ID: "job-1", Type: JobTypeExtract, Error: "timeout", Attempts: 2}))
	require.NoError(t, dlq.Add(&Job{ID: "job-2", Type: JobTypeExtract, Error: "timeout", Attempts: 4}))

	stats := dlq.GetStats()
	assert.Equal(t, 2, stats.TotalJobs)
	assert.Equal(t, 2, stats.ByType[JobTypeExtract])
	assert.Equal(t, 2, stats.ByError["timeout"])
	assert.Equal(t, 3.0, stats.AvgAttempts)
}
