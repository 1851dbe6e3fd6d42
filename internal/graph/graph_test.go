package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citelink/citelink/pkg/models"
)

func buildChainGraph() *Graph {
	g := New()
	g.AddCitation("doc-a", "doc-b", models.Citation{Text: "a cites b"})
	g.AddCitation("doc-b", "doc-c", models.Citation{Text: "b cites c"})
	return g
}

func TestGraph_AddCitationUpdatesCounters(t *testing.T) {
	g := buildChainGraph()

	assert.Equal(t, 1, g.nodes["doc-a"].OutboundCitations)
	assert.Equal(t, 1, g.nodes["doc-b"].InboundCitations)
	assert.Equal(t, 1, g.nodes["doc-b"].OutboundCitations)
	assert.Equal(t, 1, g.nodes["doc-c"].InboundCitations)
}

func TestGraph_AddCitationIgnoresEmptyIDs(t *testing.T) {
	g := New()
	g.AddCitation("", "doc-b", models.Citation{})
	assert.Len(t, g.nodes, 0)
}

func TestGraph_MostCitedOrdersByInbound(t *testing.T) {
	g := New()
	g.AddCitation("doc-a", "doc-c", models.Citation{})
	g.AddCitation("doc-b", "doc-c", models.Citation{})
	g.AddCitation("doc-a", "doc-b", models.Citation{})

	top := g.MostCited(1)
	require.Len(t, top, 1)
	assert.Equal(t, "doc-c", top[0].DocumentID)
	assert.Equal(t, 2, top[0].InboundCitations)
}

func TestGraph_ShortestPathFindsChain(t *testing.T) {
	g := buildChainGraph()

	path := g.ShortestPath("doc-a", "doc-c")
	assert.Equal(t, []string{"doc-a", "doc-b", "doc-c"}, path)
}

func TestGraph_ShortestPathReturnsNilWhenUnreachable(t *testing.T) {
	g := buildChainGraph()
	g.AddDocument("doc-isolated")

	path := g.ShortestPath("doc-a", "doc-isolated")
	assert.Nil(t, path)
}

func TestGraph_DepthCountsLongestChain(t *testing.T) {
	g := buildChainGraph()

	assert.Equal(t, 3, g.Depth("doc-a"))
	assert.Equal(t, 1, g.Depth("doc-c"))
}

func TestGraph_DepthHandlesCycles(t *testing.T) {
	g := New()
	g.AddCitation("doc-a", "doc-b", models.Citation{})
	g.AddCitation("doc-b", "doc-a", models.Citation{})

	assert.NotPanics(t, func() {
		g.Depth("doc-a")
	})
}

func TestGraph_BuildAssignsInfluenceScores(t *testing.T) {
	g := buildChainGraph()
	g.Build()

	assert.Greater(t, g.nodes["doc-c"].InfluenceScore, 0.0)
}

func TestGraph_StatsSummarizesGraph(t *testing.T) {
	g := buildChainGraph()
	g.Build()

	stats := g.Stats()
	assert.Equal(t, 3, stats.TotalNodes)
	assert.Equal(t, 2, stats.TotalEdges)
	assert.NotEmpty(t, stats.MostInfluentialDocID)
}
