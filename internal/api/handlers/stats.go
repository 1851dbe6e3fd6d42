package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/citelink/citelink/internal/cache"
	"github.com/citelink/citelink/internal/corpus"
	"github.com/citelink/citelink/internal/graph"
	"github.com/citelink/citelink/internal/observability"
	"github.com/citelink/citelink/internal/queue"
)

// StatsHandler reports aggregate statistics across the corpus, cache,
// queue and citation graph.
type StatsHandler struct {
	store  corpus.Store
	cache  cache.Cache
	queue  queue.Queue
	graph  *graph.Graph
	logger *observability.Logger
}

// NewStatsHandler creates a new StatsHandler. cache, queue and graph may
// be nil when the corresponding backend isn't configured.
func NewStatsHandler(store corpus.Store, c cache.Cache, q queue.Queue, g *graph.Graph, logger *observability.Logger) *StatsHandler {
	return &StatsHandler{store: store, cache: c, queue: q, graph: g, logger: logger}
}

// GetStats handles GET /v1/stats.
func (h *StatsHandler) GetStats(c *fiber.Ctx) error {
	ctx := c.Context()
	out := fiber.Map{}

	docs, err := h.store.ListDocuments(ctx, corpus.DocumentFilter{})
	if err == nil {
		out["documents"] = len(docs)
	}

	cits, err := h.store.ListCitations(ctx, corpus.CitationFilter{})
	if err == nil {
		out["citations"] = len(cits)
	}

	if h.cache != nil {
		if stats, err := h.cache.Stats(ctx); err == nil {
			out["cache"] = stats
		}
	}

	if h.queue != nil {
		if depth, err := h.queue.GetDepth(ctx); err == nil {
			out["queueDepth"] = depth
		}
	}

	if h.graph != nil {
		out["graph"] = h.graph.Stats()
	}

	return c.JSON(out)
}

// GetGraphStats handles GET /v1/stats/graph.
func (h *StatsHandler) GetGraphStats(c *fiber.Ctx) error {
	if h.graph == nil {
		return c.JSON(fiber.Map{"message": "citation graph not available"})
	}
	return c.JSON(h.graph.Stats())
}
