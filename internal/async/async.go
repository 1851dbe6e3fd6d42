// Package async implements a durable job facade over
// pkg/citation.Service: a Queue of extraction/annotation jobs drained
// by an internal/worker.Pool. This package gives extractCitationsAsync
// a real queue instead of a bare goroutine, while the pipeline itself
// still runs synchronously inside one worker per job, so a single
// document's citations are never extracted by more than one goroutine
// at a time.
package async

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/citelink/citelink/internal/clean"
	"github.com/citelink/citelink/internal/queue"
	"github.com/citelink/citelink/internal/worker"
	"github.com/citelink/citelink/pkg/citation"
	citelinkerrors "github.com/citelink/citelink/pkg/errors"
	"github.com/citelink/citelink/pkg/models"
)

// JobView is the status/result snapshot returned by Runner.GetJob,
// independent of whatever the underlying Queue does with completed
// jobs internally (the memory/Redis queues drop a job's entry on Ack).
type JobView struct {
	ID          string
	Status      queue.JobStatus
	Citations   []models.Citation
	Diagnostics []string
	Error       string
}

// extractPayload is the JSON shape stored in a Job's Payload map for
// JobTypeExtract.
type extractPayload struct {
	Text    string                   `json:"text"`
	Resolve bool                     `json:"resolve"`
	Scope   citation.Scope           `json:"scope"`
	Steps   []string                 `json:"cleanSteps,omitempty"`
}

// extractResultPayload is the JSON shape stored in a completed Job's
// Result map for JobTypeExtract.
type extractResultPayload struct {
	Citations   []models.Citation `json:"citations"`
	Diagnostics []string          `json:"diagnostics,omitempty"`
}

// Runner owns a Queue + worker Pool wired to a citation.Service. Build
// one per process; Submit enqueues work, Start/Stop manage the pool.
type Runner struct {
	q       queue.Queue
	pool    *worker.Pool
	service *citation.Service

	mu      sync.RWMutex
	results map[string]JobView
}

// NewRunner builds a Runner whose worker pool dequeues from q and
// runs jobs against service.
func NewRunner(q queue.Queue, service *citation.Service, workerCount int) *Runner {
	r := &Runner{q: q, service: service, results: make(map[string]JobView)}
	r.pool = worker.NewPool(worker.PoolConfig{WorkerCount: workerCount}, q, r.handle)
	return r
}

// GetJob returns the latest known status/result for jobID, or
// (JobView{}, false) if jobID was never submitted to this Runner.
func (r *Runner) GetJob(jobID string) (JobView, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.results[jobID]
	return v, ok
}

func (r *Runner) setJob(v JobView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[v.ID] = v
}

// Start launches workerCount goroutines draining the queue.
func (r *Runner) Start(workerCount int) error {
	return r.pool.Start(workerCount)
}

// Stop gracefully drains in-flight jobs, waiting up to timeout.
func (r *Runner) Stop(timeout time.Duration) error {
	return r.pool.Stop(timeout)
}

// SubmitExtract enqueues a JobTypeExtract job and returns its id.
func (r *Runner) SubmitExtract(ctx context.Context, text string, opts citation.ExtractOptions) (string, error) {
	steps := make([]string, len(opts.CleanSteps))
	for i, s := range opts.CleanSteps {
		steps[i] = string(s)
	}
	payload := extractPayload{Text: text, Resolve: opts.Resolve, Scope: opts.Scope, Steps: steps}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", citelinkerrors.QueueError("marshal extract payload", err)
	}

	job := queue.NewJob(queue.JobTypeExtract, map[string]interface{}{"data": string(raw)})
	if err := r.q.Enqueue(ctx, job); err != nil {
		return "", err
	}
	r.setJob(JobView{ID: job.ID, Status: queue.JobStatusPending})
	return job.ID, nil
}

// handle is the worker.JobHandler dispatching on Job.Type.
func (r *Runner) handle(ctx context.Context, job *queue.Job) error {
	r.setJob(JobView{ID: job.ID, Status: queue.JobStatusRunning})

	var err error
	switch job.Type {
	case queue.JobTypeExtract:
		err = r.handleExtract(ctx, job)
	default:
		err = citelinkerrors.QueueError("unsupported job type: "+string(job.Type), nil)
	}

	if err != nil {
		r.setJob(JobView{ID: job.ID, Status: queue.JobStatusFailed, Error: err.Error()})
		return err
	}
	return nil
}

func (r *Runner) handleExtract(ctx context.Context, job *queue.Job) error {
	raw, _ := job.Payload["data"].(string)
	var payload extractPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return citelinkerrors.QueueError("unmarshal extract payload", err)
	}

	steps := make([]clean.Step, len(payload.Steps))
	for i, s := range payload.Steps {
		steps[i] = clean.Step(s)
	}

	opts := citation.ExtractOptions{CleanSteps: steps, Resolve: payload.Resolve, Scope: payload.Scope}
	result := r.service.ExtractCitations(payload.Text, opts)

	diagnostics := make([]string, len(result.Diagnostics))
	for i, d := range result.Diagnostics {
		diagnostics[i] = d.Error()
	}

	out, err := json.Marshal(extractResultPayload{Citations: result.Citations, Diagnostics: diagnostics})
	if err != nil {
		return citelinkerrors.QueueError("marshal extract result", err)
	}
	job.Result = map[string]interface{}{"data": string(out)}

	r.setJob(JobView{
		ID:          job.ID,
		Status:      queue.JobStatusCompleted,
		Citations:   result.Citations,
		Diagnostics: diagnostics,
	})
	return nil
}
