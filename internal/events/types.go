package events

import (
	"time"
)

// EventType represents the type of event
type EventType string

const (
	// Pipeline stage events
	EventCleanCompleted    EventType = "clean.completed"
	EventTokenizeCompleted EventType = "tokenize.completed"
	EventExtractCompleted  EventType = "extract.completed"
	EventResolveCompleted  EventType = "resolve.completed"
	EventAnnotateCompleted EventType = "annotate.completed"

	// Diagnostic events, one per recovered *errors.CitelinkError
	// surfaced in an ExtractResult.Diagnostics entry
	EventPatternFailure      EventType = "diagnostic.pattern_execution"
	EventExtractorFailure    EventType = "diagnostic.extractor_parse"
	EventResolutionFailure   EventType = "diagnostic.resolution"
	EventAnnotationFailure   EventType = "diagnostic.annotation_snap"
	EventInvariantViolation  EventType = "diagnostic.invariant"

	// Corpus events
	EventDocumentSaved   EventType = "document.saved"
	EventDocumentDeleted EventType = "document.deleted"

	// Worker/queue events
	EventWorkerStarted EventType = "worker.started"
	EventWorkerStopped EventType = "worker.stopped"
	EventJobQueued     EventType = "job.queued"
	EventJobCompleted  EventType = "job.completed"
	EventJobFailed     EventType = "job.failed"
)

// Event represents a system event
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
}

// NewEvent creates a new event
func NewEvent(eventType EventType, source string, data map[string]interface{}) *Event {
	return &Event{
		ID:        generateEventID(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    source,
		Data:      data,
	}
}

// ExtractCompletedEvent reports how many citations a single
// extractCitations call produced, and how many diagnostics it
// recovered along the way.
func ExtractCompletedEvent(citationCount, diagnosticCount int, duration time.Duration) *Event {
	return NewEvent(EventExtractCompleted, "pkg/citation", map[string]interface{}{
		"citation_count":   citationCount,
		"diagnostic_count": diagnosticCount,
		"duration_ms":      duration.Milliseconds(),
	})
}

// DiagnosticEvent wraps one recovered pipeline error (pattern
// execution, extractor parse, resolution, annotation snap, or
// invariant violation) as an event, keyed by its error Kind.
func DiagnosticEvent(eventType EventType, kind string, message string) *Event {
	return NewEvent(eventType, "pkg/citation", map[string]interface{}{
		"kind":    kind,
		"message": message,
	})
}

// DocumentSavedEvent creates a document saved event
func DocumentSavedEvent(documentID string, citationCount int) *Event {
	return NewEvent(EventDocumentSaved, "corpus", map[string]interface{}{
		"document_id":    documentID,
		"citation_count": citationCount,
	})
}

// DocumentDeletedEvent creates a document deleted event
func DocumentDeletedEvent(documentID string) *Event {
	return NewEvent(EventDocumentDeleted, "corpus", map[string]interface{}{
		"document_id": documentID,
	})
}

// WorkerStartedEvent creates a worker started event
func WorkerStartedEvent(workerID string) *Event {
	return NewEvent(EventWorkerStarted, "worker-pool", map[string]interface{}{
		"worker_id": workerID,
	})
}

// WorkerStoppedEvent creates a worker stopped event
func WorkerStoppedEvent(workerID string) *Event {
	return NewEvent(EventWorkerStopped, "worker-pool", map[string]interface{}{
		"worker_id": workerID,
	})
}

// JobQueuedEvent creates a job queued event
func JobQueuedEvent(jobID string, jobType string) *Event {
	return NewEvent(EventJobQueued, "queue", map[string]interface{}{
		"job_id":   jobID,
		"job_type": jobType,
	})
}

// JobCompletedEvent creates a job completed event
func JobCompletedEvent(jobID string, duration time.Duration) *Event {
	return NewEvent(EventJobCompleted, "worker", map[string]interface{}{
		"job_id":      jobID,
		"duration_ms": duration.Milliseconds(),
	})
}

// JobFailedEvent creates a job failed event
func JobFailedEvent(jobID string, err error) *Event {
	return NewEvent(EventJobFailed, "worker", map[string]interface{}{
		"job_id": jobID,
		"error":  err.Error(),
	})
}

// generateEventID generates a unique event ID
func generateEventID() string {
	return time.Now().Format("20060102150405.000000000")
}
