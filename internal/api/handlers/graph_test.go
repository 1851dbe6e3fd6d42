package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citelink/citelink/internal/graph"
	"github.com/citelink/citelink/internal/observability"
	"github.com/citelink/citelink/pkg/models"
)

func buildTestGraph() *graph.Graph {
	g := graph.New()
	g.AddDocument("doc-a")
	g.AddDocument("doc-b")
	g.AddDocument("doc-c")
	g.AddCitation("doc-a", "doc-b", models.Citation{})
	g.AddCitation("doc-b", "doc-c", models.Citation{})
	g.Build()
	return g
}

func TestGraphHandler_AuthorityReturnsMostCitedNodes(t *testing.T) {
	app := testApp()
	h := NewGraphHandler(buildTestGraph(), observability.NewLogger("error", "json"))
	app.Get("/v1/graph/authority", h.Authority)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/graph/authority?limit=2", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGraphHandler_AuthorityRejectsInvalidLimit(t *testing.T) {
	app := testApp()
	h := NewGraphHandler(buildTestGraph(), observability.NewLogger("error", "json"))
	app.Get("/v1/graph/authority", h.Authority)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/graph/authority?limit=not-a-number", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGraphHandler_ChainReturnsPathBetweenDocuments(t *testing.T) {
	app := testApp()
	h := NewGraphHandler(buildTestGraph(), observability.NewLogger("error", "json"))
	app.Get("/v1/graph/chain", h.Chain)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/graph/chain?from=doc-a&to=doc-c", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGraphHandler_ChainRequiresFromAndTo(t *testing.T) {
	app := testApp()
	h := NewGraphHandler(buildTestGraph(), observability.NewLogger("error", "json"))
	app.Get("/v1/graph/chain", h.Chain)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/graph/chain?from=doc-a", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGraphHandler_ChainReturnsNotFoundWhenUnreachable(t *testing.T) {
	app := testApp()
	g := buildTestGraph()
	g.AddDocument("doc-isolated")
	h := NewGraphHandler(g, observability.NewLogger("error", "json"))
	app.Get("/v1/graph/chain", h.Chain)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/graph/chain?from=doc-a&to=doc-isolated", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGraphHandler_DepthReturnsDocumentDepth(t *testing.T) {
	app := testApp()
	h := NewGraphHandler(buildTestGraph(), observability.NewLogger("error", "json"))
	app.Get("/v1/graph/depth/:id", h.Depth)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/graph/depth/doc-a", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
