package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/citelink/citelink/internal/events"
	"github.com/citelink/citelink/internal/observability"
	citelinkerrors "github.com/citelink/citelink/pkg/errors"
)

// WebhookHandler exposes CRUD over the event bus's webhook
// subscriptions, so operators can register delivery targets for
// document and job lifecycle events without a redeploy.
type WebhookHandler struct {
	manager *events.WebhookManager
	logger  *observability.Logger
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(manager *events.WebhookManager, logger *observability.Logger) *WebhookHandler {
	return &WebhookHandler{manager: manager, logger: logger}
}

type createWebhookRequest struct {
	URL        string             `json:"url" validate:"required"`
	EventTypes []events.EventType `json:"eventTypes,omitempty"`
	Secret     string             `json:"secret,omitempty"`
	MaxRetries int                `json:"maxRetries,omitempty"`
}

// Create handles POST /v1/webhooks.
func (h *WebhookHandler) Create(c *fiber.Ctx) error {
	var req createWebhookRequest
	if err := c.BodyParser(&req); err != nil {
		return citelinkerrors.ValidationError("invalid request body", err)
	}
	if req.URL == "" {
		return citelinkerrors.ValidationError("url is required", nil)
	}

	webhook := &events.Webhook{
		URL:        req.URL,
		EventTypes: req.EventTypes,
		Secret:     req.Secret,
		MaxRetries: req.MaxRetries,
	}
	if err := h.manager.AddWebhook(webhook); err != nil {
		return citelinkerrors.ValidationError("failed to register webhook", err)
	}

	return c.Status(fiber.StatusCreated).JSON(webhook)
}

// List handles GET /v1/webhooks.
func (h *WebhookHandler) List(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"webhooks": h.manager.ListWebhooks()})
}

// Get handles GET /v1/webhooks/:id.
func (h *WebhookHandler) Get(c *fiber.Ctx) error {
	webhook, err := h.manager.GetWebhook(c.Params("id"))
	if err != nil {
		return citelinkerrors.StorageError(err.Error(), citelinkerrors.ErrNotFound)
	}
	return c.JSON(webhook)
}

// Delete handles DELETE /v1/webhooks/:id.
func (h *WebhookHandler) Delete(c *fiber.Ctx) error {
	if err := h.manager.RemoveWebhook(c.Params("id")); err != nil {
		return citelinkerrors.StorageError(err.Error(), citelinkerrors.ErrNotFound)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Enable handles POST /v1/webhooks/:id/enable.
func (h *WebhookHandler) Enable(c *fiber.Ctx) error {
	if err := h.manager.EnableWebhook(c.Params("id")); err != nil {
		return citelinkerrors.StorageError(err.Error(), citelinkerrors.ErrNotFound)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Disable handles POST /v1/webhooks/:id/disable.
func (h *WebhookHandler) Disable(c *fiber.Ctx) error {
	if err := h.manager.DisableWebhook(c.Params("id")); err != nil {
		return citelinkerrors.StorageError(err.Error(), citelinkerrors.ErrNotFound)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
