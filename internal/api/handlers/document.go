package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/citelink/citelink/internal/corpus"
	"github.com/citelink/citelink/internal/events"
	"github.com/citelink/citelink/internal/observability"
	"github.com/citelink/citelink/pkg/citation"
	citelinkerrors "github.com/citelink/citelink/pkg/errors"
	"github.com/citelink/citelink/pkg/models"
	"github.com/citelink/citelink/pkg/validation"
)

// newDocumentID builds a sortable, collision-resistant document id,
// matching the scheme queue.generateJobID uses for job ids.
func newDocumentID() string {
	b := make([]byte, 5)
	if _, err := rand.Read(b); err != nil {
		return time.Now().Format("20060102150405")
	}
	return time.Now().Format("20060102150405") + "-" + hex.EncodeToString(b)
}

// DocumentHandler serves corpus storage of documents and their
// extracted citations.
type DocumentHandler struct {
	store     corpus.Store
	service   *citation.Service
	bus       *events.Bus
	logger    *observability.Logger
	validator *validation.Validator
}

// NewDocumentHandler creates a new DocumentHandler. bus may be nil, in
// which case document events are not published.
func NewDocumentHandler(store corpus.Store, service *citation.Service, bus *events.Bus, logger *observability.Logger) *DocumentHandler {
	return &DocumentHandler{store: store, service: service, bus: bus, logger: logger, validator: validation.NewValidator()}
}

type createDocumentRequest struct {
	Text    string `json:"text" validate:"required"`
	Extract bool   `json:"extract,omitempty"`
	Resolve bool   `json:"resolve,omitempty"`
}

// Create handles POST /v1/documents: persist a document and, if
// requested, extract and persist its citations in the same call.
func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	var req createDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return citelinkerrors.ValidationError("invalid request body", err)
	}
	if req.Text == "" {
		return citelinkerrors.ValidationError("text is required", nil)
	}

	doc := &corpus.Document{ID: newDocumentID(), Text: req.Text}
	ctx := c.Context()
	if err := h.store.SaveDocument(ctx, doc); err != nil {
		return err
	}

	resp := fiber.Map{"document": doc}
	citationCount := 0

	if req.Extract {
		result := h.service.ExtractCitations(req.Text, citation.ExtractOptions{Resolve: req.Resolve})

		dedup := validation.NewDeduplicationService()
		citations := make([]models.Citation, 0, len(result.Citations))
		for i := range result.Citations {
			cit := result.Citations[i]
			if err := h.validator.ValidateCitation(&cit); err != nil {
				h.logger.Warnf("dropping invalid citation in document %s: %v", doc.ID, err)
				continue
			}
			if dedup.IsDuplicate(dedup.ComputeCitationHash(&cit)) {
				continue
			}
			citations = append(citations, cit)
		}

		if err := h.store.SaveCitations(ctx, doc.ID, citations); err != nil {
			return err
		}
		resp["citations"] = citations
		citationCount = len(citations)
	}

	if h.bus != nil {
		h.bus.Publish(events.DocumentSavedEvent(doc.ID, citationCount))
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Get handles GET /v1/documents/:id.
func (h *DocumentHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")
	doc, err := h.store.GetDocument(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(doc)
}

// List handles GET /v1/documents.
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	docs, err := h.store.ListDocuments(c.Context(), corpus.DocumentFilter{})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"documents": docs})
}

// Delete handles DELETE /v1/documents/:id.
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.store.DeleteDocument(c.Context(), id); err != nil {
		return err
	}
	if h.bus != nil {
		h.bus.Publish(events.DocumentDeletedEvent(id))
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Citations handles GET /v1/documents/:id/citations.
func (h *DocumentHandler) Citations(c *fiber.Ctx) error {
	id := c.Params("id")
	records, err := h.store.ListCitations(c.Context(), corpus.CitationFilter{DocumentID: id})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"citations": records})
}
