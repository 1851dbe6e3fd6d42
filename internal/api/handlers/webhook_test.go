package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citelink/citelink/internal/events"
	"github.com/citelink/citelink/internal/observability"
)

func newTestWebhookHandler() *WebhookHandler {
	manager := events.NewWebhookManager(events.NewBus(8))
	return NewWebhookHandler(manager, observability.NewLogger("error", "json"))
}

func TestWebhookHandler_CreateRegistersWebhook(t *testing.T) {
	app := testApp()
	h := newTestWebhookHandler()
	app.Post("/v1/webhooks", h.Create)

	body, _ := json.Marshal(map[string]interface{}{"url": "https://example.com/hook"})
	req := httptest.NewRequest("POST", "/v1/webhooks", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestWebhookHandler_CreateRequiresURL(t *testing.T) {
	app := testApp()
	h := newTestWebhookHandler()
	app.Post("/v1/webhooks", h.Create)

	body, _ := json.Marshal(map[string]interface{}{"url": ""})
	req := httptest.NewRequest("POST", "/v1/webhooks", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestWebhookHandler_ListReturnsRegisteredWebhooks(t *testing.T) {
	app := testApp()
	h := newTestWebhookHandler()
	app.Post("/v1/webhooks", h.Create)
	app.Get("/v1/webhooks", h.List)

	body, _ := json.Marshal(map[string]interface{}{"url": "https://example.com/hook"})
	req := httptest.NewRequest("POST", "/v1/webhooks", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	_, err := app.Test(req)
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/webhooks", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	webhooks := out["webhooks"].([]interface{})
	assert.Len(t, webhooks, 1)
}

func TestWebhookHandler_GetMissingWebhookReturnsNotFound(t *testing.T) {
	app := testApp()
	h := newTestWebhookHandler()
	app.Get("/v1/webhooks/:id", h.Get)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/webhooks/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestWebhookHandler_DeleteThenGetReturnsNotFound(t *testing.T) {
	app := testApp()
	h := newTestWebhookHandler()
	app.Post("/v1/webhooks", h.Create)
	app.Delete("/v1/webhooks/:id", h.Delete)
	app.Get("/v1/webhooks/:id", h.Get)

	body, _ := json.Marshal(map[string]interface{}{"url": "https://example.com/hook"})
	req := httptest.NewRequest("POST", "/v1/webhooks", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	createResp, err := app.Test(req)
	require.NoError(t, err)

	var created events.Webhook
	require.NoError(t, json.NewDecoder(createResp.Body).Decode(&created))

	delResp, err := app.Test(httptest.NewRequest("DELETE", "/v1/webhooks/"+created.ID, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, delResp.StatusCode)

	getResp, err := app.Test(httptest.NewRequest("GET", "/v1/webhooks/"+created.ID, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, getResp.StatusCode)
}

func TestWebhookHandler_EnableAndDisableToggleState(t *testing.T) {
	app := testApp()
	h := newTestWebhookHandler()
	app.Post("/v1/webhooks", h.Create)
	app.Post("/v1/webhooks/:id/enable", h.Enable)
	app.Post("/v1/webhooks/:id/disable", h.Disable)

	body, _ := json.Marshal(map[string]interface{}{"url": "https://example.com/hook"})
	req := httptest.NewRequest("POST", "/v1/webhooks", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	createResp, err := app.Test(req)
	require.NoError(t, err)

	var created events.Webhook
	require.NoError(t, json.NewDecoder(createResp.Body).Decode(&created))

	disableResp, err := app.Test(httptest.NewRequest("POST", "/v1/webhooks/"+created.ID+"/disable", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, disableResp.StatusCode)

	enableResp, err := app.Test(httptest.NewRequest("POST", "/v1/webhooks/"+created.ID+"/enable", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, enableResp.StatusCode)
}
