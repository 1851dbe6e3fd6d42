package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/citelink/citelink/internal/async"
	"github.com/citelink/citelink/internal/clean"
	"github.com/citelink/citelink/internal/events"
	"github.com/citelink/citelink/internal/observability"
	"github.com/citelink/citelink/internal/queue"
	"github.com/citelink/citelink/pkg/citation"
	citelinkerrors "github.com/citelink/citelink/pkg/errors"
)

// CitationHandler serves the extraction surface: extractCitations and
// extractCitationsAsync over HTTP.
type CitationHandler struct {
	service *citation.Service
	runner  *async.Runner
	bus     *events.Bus
	logger  *observability.Logger
}

// NewCitationHandler creates a new CitationHandler. bus may be nil, in
// which case job-queued events are not published.
func NewCitationHandler(service *citation.Service, runner *async.Runner, bus *events.Bus, logger *observability.Logger) *CitationHandler {
	return &CitationHandler{service: service, runner: runner, bus: bus, logger: logger}
}

// extractRequest is the body of POST /v1/extract and /v1/extract/async.
type extractRequest struct {
	Text       string   `json:"text" validate:"required"`
	CleanSteps []string `json:"cleanSteps,omitempty"`
	Resolve    bool     `json:"resolve,omitempty"`
	Scope      string   `json:"scope,omitempty"`
}

func (r extractRequest) toOptions() citation.ExtractOptions {
	steps := make([]clean.Step, len(r.CleanSteps))
	for i, s := range r.CleanSteps {
		steps[i] = clean.Step(s)
	}
	scope := citation.Scope(r.Scope)
	if scope == "" {
		scope = citation.ScopeNone
	}
	return citation.ExtractOptions{CleanSteps: steps, Resolve: r.Resolve, Scope: scope}
}

// Extract handles POST /v1/extract: run the pipeline synchronously and
// return the citations found plus any diagnostics.
func (h *CitationHandler) Extract(c *fiber.Ctx) error {
	var req extractRequest
	if err := c.BodyParser(&req); err != nil {
		return citelinkerrors.ValidationError("invalid request body", err)
	}
	if req.Text == "" {
		return citelinkerrors.ValidationError("text is required", nil)
	}

	result := h.service.ExtractCitations(req.Text, req.toOptions())

	diagnostics := make([]string, len(result.Diagnostics))
	for i, d := range result.Diagnostics {
		diagnostics[i] = d.Error()
	}

	return c.JSON(fiber.Map{
		"citations":   result.Citations,
		"diagnostics": diagnostics,
	})
}

// ExtractAsync handles POST /v1/extract/async: enqueue the pipeline run
// and return a job id for polling via GET /v1/jobs/:id.
func (h *CitationHandler) ExtractAsync(c *fiber.Ctx) error {
	var req extractRequest
	if err := c.BodyParser(&req); err != nil {
		return citelinkerrors.ValidationError("invalid request body", err)
	}
	if req.Text == "" {
		return citelinkerrors.ValidationError("text is required", nil)
	}

	jobID, err := h.runner.SubmitExtract(c.Context(), req.Text, req.toOptions())
	if err != nil {
		return err
	}

	if h.bus != nil {
		h.bus.Publish(events.JobQueuedEvent(jobID, "extract"))
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"jobId":  jobID,
		"status": queue.JobStatusPending,
	})
}

// GetJob handles GET /v1/jobs/:id: report a previously submitted async
// extraction job's status and, once completed, its result.
func (h *CitationHandler) GetJob(c *fiber.Ctx) error {
	jobID := c.Params("id")

	job, ok := h.runner.GetJob(jobID)
	if !ok {
		return citelinkerrors.StorageError("job not found", citelinkerrors.ErrNotFound)
	}

	resp := fiber.Map{
		"jobId":  job.ID,
		"status": job.Status,
	}
	if job.Status == queue.JobStatusCompleted {
		resp["citations"] = job.Citations
		resp["diagnostics"] = job.Diagnostics
	}
	if job.Error != "" {
		resp["error"] = job.Error
	}

	return c.JSON(resp)
}
