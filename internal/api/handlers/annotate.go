package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/citelink/citelink/internal/annotate"
	"github.com/citelink/citelink/internal/observability"
	"github.com/citelink/citelink/pkg/citation"
	citelinkerrors "github.com/citelink/citelink/pkg/errors"
	"github.com/citelink/citelink/pkg/models"
)

// AnnotateHandler serves the annotation surface over HTTP: wraps
// citation spans in a text with markup.
type AnnotateHandler struct {
	service *citation.Service
	logger  *observability.Logger
}

// NewAnnotateHandler creates a new AnnotateHandler.
func NewAnnotateHandler(service *citation.Service, logger *observability.Logger) *AnnotateHandler {
	return &AnnotateHandler{service: service, logger: logger}
}

type annotateRequest struct {
	Text         string            `json:"text" validate:"required"`
	Citations    []models.Citation `json:"citations" validate:"required"`
	UseCleanText bool              `json:"useCleanText,omitempty"`
	AutoEscape   *bool             `json:"autoEscape,omitempty"`
	Before       string            `json:"before,omitempty"`
	After        string            `json:"after,omitempty"`
}

// Annotate handles POST /v1/annotate: wrap the given citations' spans
// in the given text with the requested before/after markup.
func (h *AnnotateHandler) Annotate(c *fiber.Ctx) error {
	var req annotateRequest
	if err := c.BodyParser(&req); err != nil {
		return citelinkerrors.ValidationError("invalid request body", err)
	}
	if req.Text == "" {
		return citelinkerrors.ValidationError("text is required", nil)
	}

	opts := annotate.Options{UseCleanText: req.UseCleanText, AutoEscape: true}
	if req.AutoEscape != nil {
		opts.AutoEscape = *req.AutoEscape
	}
	if req.Before != "" || req.After != "" {
		opts.Template = &annotate.Template{Before: req.Before, After: req.After}
	}

	result := h.service.Annotate(req.Text, req.Citations, opts)

	return c.JSON(fiber.Map{
		"text":        result.Text,
		"positionMap": result.PositionMap,
		"skipped":     result.Skipped,
	})
}
