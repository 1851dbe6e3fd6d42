package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQueueMetrics_RecordEnqueueTracksTotalsByTypeAndPriority(t *testing.T) {
	qm := NewQueueMetrics()
	qm.RecordEnqueue(&Job{Type: JobTypeExtract, Priority: PriorityHigh})

	assert.EqualValues(t, 1, qm.TotalEnqueued)
	assert.EqualValues(t, 1, qm.ByType[JobTypeExtract].Enqueued)
	assert.EqualValues(t, 1, qm.ByPriority[PriorityHigh].Enqueued)
}

func TestQueueMetrics_RecordCompletionComputesProcessTime(t *testing.T) {
	qm := NewQueueMetrics()
	qm.RecordEnqueue(&Job{Type: JobTypeExtract, Priority: PriorityNormal})

	started := time.Now().Add(-time.Second)
	completed := time.Now()
	qm.RecordCompletion(&Job{Type: JobTypeExtract, Priority: PriorityNormal, StartedAt: &started, CompletedAt: &completed})

	assert.EqualValues(t, 1, qm.TotalCompleted)
	assert.EqualValues(t, 1, qm.LastHourCompleted)
	assert.Greater(t, qm.AvgProcessTime, time.Duration(0))
}

func TestQueueMetrics_RecordFailureIncrementsFailureCounters(t *testing.T) {
	qm := NewQueueMetrics()
	qm.RecordEnqueue(&Job{Type: JobTypeExtract, Priority: PriorityNormal})
	qm.RecordFailure(&Job{Type: JobTypeExtract, Priority: PriorityNormal})

	assert.EqualValues(t, 1, qm.TotalFailed)
	assert.EqualValues(t, 1, qm.ByType[JobTypeExtract].Failed)
}

func TestQueueMetrics_GetSummaryComputesSuccessRate(t *testing.T) {
	qm := NewQueueMetrics()
	qm.RecordEnqueue(&Job{Type: JobTypeExtract, Priority: PriorityNormal})
	qm.RecordEnqueue(&Job{Type: JobTypeExtract, Priority: PriorityNormal})

	started := time.Now().Add(-time.Millisecond)
	completed := time.Now()
	qm.RecordCompletion(&Job{Type: JobTypeExtract, Priority: PriorityNormal, StartedAt: &started, CompletedAt: &completed})
	qm.RecordFailure(&Job{Type: JobTypeExtract, Priority: PriorityNormal})

	summary := qm.GetSummary()
	assert.InDelta(t, 50.0, summary.SuccessRate, 0.001)
}

func TestQueueMetrics_ResetClearsAccumulatedState(t *testing.T) {
	qm := NewQueueMetrics()
	qm.RecordEnqueue(&Job{Type: JobTypeExtract, Priority: PriorityNormal})

	qm.Reset()

	assert.EqualValues(t, 0, qm.TotalEnqueued)
	assert.Empty(t, qm.ByType)
	assert.Equal(t, time.Hour, qm.MinProcessTime)
}
