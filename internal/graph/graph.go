// Package graph implements the cross-document citation graph and
// authority scoring: documents are nodes, a resolved citation from one
// document to another (by volume/reporter/page match) is an edge, and
// a damped iterative influence score ranks authority, alongside BFS
// shortest-path lookup and DFS depth computation.
package graph

import (
	"sort"

	"github.com/citelink/citelink/pkg/models"
)

// Node is one document in the citation graph.
type Node struct {
	DocumentID        string
	InboundCitations  int
	OutboundCitations int
	InfluenceScore    float64
}

// Edge is a directed citation from one document to another.
type Edge struct {
	FromDocumentID string
	ToDocumentID   string
	Citation       models.Citation
	Weight         int
}

// Graph is the in-memory citation graph for a corpus of documents.
type Graph struct {
	nodes map[string]*Node
	edges []*Edge
}

// New builds an empty graph.
func New() *Graph {
	return &Graph{nodes: make(map[string]*Node)}
}

// AddDocument registers documentID as a node, a no-op if it already exists.
func (g *Graph) AddDocument(documentID string) {
	if _, exists := g.nodes[documentID]; exists {
		return
	}
	g.nodes[documentID] = &Node{DocumentID: documentID}
}

// AddCitation records a citation from fromDocumentID that resolves to
// a span inside toDocumentID, adding an edge and bumping both
// endpoints' in/out counters.
func (g *Graph) AddCitation(fromDocumentID, toDocumentID string, c models.Citation) {
	if fromDocumentID == "" || toDocumentID == "" {
		return
	}
	g.AddDocument(fromDocumentID)
	g.AddDocument(toDocumentID)

	g.edges = append(g.edges, &Edge{FromDocumentID: fromDocumentID, ToDocumentID: toDocumentID, Citation: c, Weight: 1})
	g.nodes[fromDocumentID].OutboundCitations++
	g.nodes[toDocumentID].InboundCitations++
}

// Build recomputes every node's InfluenceScore from the graph's
// current edges.
func (g *Graph) Build() {
	g.calculateInfluenceScores()
}

// MostCited returns the top limit documents by inbound citation count,
// descending.
func (g *Graph) MostCited(limit int) []*Node {
	nodes := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		nodes = append(nodes, n)
	}
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].InboundCitations > nodes[j].InboundCitations
	})
	if limit < len(nodes) {
		nodes = nodes[:limit]
	}
	return nodes
}

// ShortestPath finds the shortest citation chain from fromDocumentID
// to toDocumentID via breadth-first search, returning nil if no path
// exists.
func (g *Graph) ShortestPath(fromDocumentID, toDocumentID string) []string {
	if _, ok := g.nodes[fromDocumentID]; !ok {
		return nil
	}
	if _, ok := g.nodes[toDocumentID]; !ok {
		return nil
	}

	visited := map[string]bool{fromDocumentID: true}
	parent := map[string]string{}
	queue := []string{fromDocumentID}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current == toDocumentID {
			path := []string{toDocumentID}
			for path[0] != fromDocumentID {
				path = append([]string{parent[path[0]]}, path...)
			}
			return path
		}

		for _, e := range g.edges {
			if e.FromDocumentID == current && !visited[e.ToDocumentID] {
				visited[e.ToDocumentID] = true
				parent[e.ToDocumentID] = current
				queue = append(queue, e.ToDocumentID)
			}
		}
	}
	return nil
}

// Depth calculates the maximum citation depth reachable from
// documentID via depth-first search, guarding against cycles.
func (g *Graph) Depth(documentID string) int {
	if _, ok := g.nodes[documentID]; !ok {
		return 0
	}
	return g.dfs(documentID, map[string]bool{})
}

func (g *Graph) dfs(documentID string, visited map[string]bool) int {
	if visited[documentID] {
		return 0
	}
	visited[documentID] = true
	defer delete(visited, documentID)

	maxDepth := 0
	for _, e := range g.edges {
		if e.FromDocumentID == documentID {
			if d := g.dfs(e.ToDocumentID, visited); d > maxDepth {
				maxDepth = d
			}
		}
	}
	return maxDepth + 1
}

// calculateInfluenceScores runs a fixed number of damped iterations of
// a PageRank-style propagation (damping 0.85, 10 iterations).
func (g *Graph) calculateInfluenceScores() {
	const dampingFactor = 0.85
	const iterations = 10

	scores := make(map[string]float64, len(g.nodes))
	for id := range g.nodes {
		scores[id] = 1.0
	}

	for i := 0; i < iterations; i++ {
		next := make(map[string]float64, len(g.nodes))
		for id := range g.nodes {
			next[id] = 1.0 - dampingFactor
		}
		for _, e := range g.edges {
			from := g.nodes[e.FromDocumentID]
			if from == nil || from.OutboundCitations == 0 {
				continue
			}
			next[e.ToDocumentID] += dampingFactor * scores[e.FromDocumentID] / float64(from.OutboundCitations)
		}
		scores = next
	}

	for id, score := range scores {
		g.nodes[id].InfluenceScore = score
	}
}

// Statistics summarizes the graph for diagnostic/API reporting.
type Statistics struct {
	TotalNodes            int
	TotalEdges            int
	AvgInboundCitations   float64
	AvgOutboundCitations  float64
	MostInfluentialDocID  string
	MaxInfluenceScore     float64
}

// Stats computes summary Statistics over the current graph.
func (g *Graph) Stats() Statistics {
	var s Statistics
	s.TotalNodes = len(g.nodes)
	s.TotalEdges = len(g.edges)

	var totalIn, totalOut int
	for id, n := range g.nodes {
		totalIn += n.InboundCitations
		totalOut += n.OutboundCitations
		if n.InfluenceScore > s.MaxInfluenceScore {
			s.MaxInfluenceScore = n.InfluenceScore
			s.MostInfluentialDocID = id
		}
	}
	if s.TotalNodes > 0 {
		s.AvgInboundCitations = float64(totalIn) / float64(s.TotalNodes)
		s.AvgOutboundCitations = float64(totalOut) / float64(s.TotalNodes)
	}
	return s
}
