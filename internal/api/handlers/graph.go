package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/citelink/citelink/internal/graph"
	"github.com/citelink/citelink/internal/observability"
	citelinkerrors "github.com/citelink/citelink/pkg/errors"
)

// GraphHandler serves the cross-document citation graph: most-cited
// documents, citation chains between two documents, and reachable
// depth from a document.
type GraphHandler struct {
	graph  *graph.Graph
	logger *observability.Logger
}

// NewGraphHandler creates a new GraphHandler.
func NewGraphHandler(g *graph.Graph, logger *observability.Logger) *GraphHandler {
	return &GraphHandler{graph: g, logger: logger}
}

// Authority handles GET /v1/graph/authority?limit=: the most-cited
// documents ranked by inbound citation count.
func (h *GraphHandler) Authority(c *fiber.Ctx) error {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return citelinkerrors.ValidationError("limit must be a positive integer", err)
		}
		limit = n
	}

	return c.JSON(fiber.Map{
		"nodes": h.graph.MostCited(limit),
	})
}

// Chain handles GET /v1/graph/chain?from=&to=: the shortest citation
// chain between two documents.
func (h *GraphHandler) Chain(c *fiber.Ctx) error {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		return citelinkerrors.ValidationError("from and to query parameters are required", nil)
	}

	path := h.graph.ShortestPath(from, to)
	if path == nil {
		return citelinkerrors.StorageError("no citation chain found between the given documents", citelinkerrors.ErrNotFound)
	}

	return c.JSON(fiber.Map{"path": path})
}

// Depth handles GET /v1/graph/depth/:id: the maximum citation depth
// reachable from a document.
func (h *GraphHandler) Depth(c *fiber.Ctx) error {
	id := c.Params("id")
	return c.JSON(fiber.Map{
		"documentId": id,
		"depth":      h.graph.Depth(id),
	})
}
