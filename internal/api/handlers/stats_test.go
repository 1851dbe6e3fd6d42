package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citelink/citelink/internal/cache"
	"github.com/citelink/citelink/internal/corpus"
	"github.com/citelink/citelink/internal/observability"
	"github.com/citelink/citelink/internal/queue"
)

func TestStatsHandler_GetStatsSummarizesStoreOnly(t *testing.T) {
	app := testApp()
	store := corpus.NewMemoryStore()
	require.NoError(t, store.SaveDocument(context.Background(), &corpus.Document{ID: "doc-1", Text: "hello"}))

	h := NewStatsHandler(store, nil, nil, nil, observability.NewLogger("error", "json"))
	app.Get("/v1/stats", h.GetStats)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/stats", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestStatsHandler_GetStatsIncludesCacheAndQueueWhenPresent(t *testing.T) {
	app := testApp()
	store := corpus.NewMemoryStore()
	c := cache.NewMemoryCache(nil)
	q := queue.NewMemoryQueue()
	defer q.Close()

	h := NewStatsHandler(store, c, q, buildTestGraph(), observability.NewLogger("error", "json"))
	app.Get("/v1/stats", h.GetStats)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/stats", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Contains(t, out, "cache")
	assert.Contains(t, out, "queueDepth")
	assert.Contains(t, out, "graph")
}

func TestStatsHandler_GetGraphStatsWithoutGraphReturnsMessage(t *testing.T) {
	app := testApp()
	h := NewStatsHandler(corpus.NewMemoryStore(), nil, nil, nil, observability.NewLogger("error", "json"))
	app.Get("/v1/stats/graph", h.GetGraphStats)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/stats/graph", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Contains(t, out, "message")
}
