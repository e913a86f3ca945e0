package graph

import (
	"sort"

	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/vanderheijden86/castgraph/pkg/metrics"
)

// Stats summarizes a graph for the stats command.
type Stats struct {
	Nodes        int                `json:"nodes"`
	Links        int                `json:"links"`
	Movies       int                `json:"movies"`
	Interactions int                `json:"interactions"`
	Missing      []string           `json:"missing_records,omitempty"`
	InDegree     map[string]int     `json:"in_degree"`
	OutDegree    map[string]int     `json:"out_degree"`
	PageRank     map[string]float64 `json:"pagerank"`
	Components   [][]string         `json:"components"`
	LinksByType  map[string]int     `json:"links_by_interaction"`
}

// Stats computes degree, PageRank and weakly connected components.
// Parallel links count toward degree but collapse to a single edge for
// PageRank; self-links are ignored by the gonum graphs.
func (g *Graph) Stats() Stats {
	defer metrics.Timer(metrics.GraphStats)()

	s := Stats{
		Nodes:        len(g.Nodes),
		Links:        len(g.Links),
		Movies:       len(g.Movies),
		Interactions: len(g.Interactions),
		InDegree:     make(map[string]int, len(g.Nodes)),
		OutDegree:    make(map[string]int, len(g.Nodes)),
		PageRank:     make(map[string]float64, len(g.Nodes)),
		LinksByType:  make(map[string]int, len(g.Interactions)),
	}

	for _, n := range g.Nodes {
		if _, ok := g.Lookup[n.ID]; !ok {
			s.Missing = append(s.Missing, n.ID)
		}
	}

	directed := simple.NewDirectedGraph()
	undirected := simple.NewUndirectedGraph()
	for _, n := range g.Nodes {
		directed.AddNode(simple.Node(int64(n.Index)))
		undirected.AddNode(simple.Node(int64(n.Index)))
	}

	for _, l := range g.Links {
		s.OutDegree[l.Source.ID]++
		s.InDegree[l.Target.ID]++
		s.LinksByType[l.Interaction]++

		// gonum's simple graphs reject self edges.
		if l.Source == l.Target {
			continue
		}
		u, v := int64(l.Source.Index), int64(l.Target.Index)
		if !directed.HasEdgeFromTo(u, v) {
			directed.SetEdge(directed.NewEdge(simple.Node(u), simple.Node(v)))
		}
		if !undirected.HasEdgeBetween(u, v) {
			undirected.SetEdge(undirected.NewEdge(simple.Node(u), simple.Node(v)))
		}
	}

	// PageRank panics on an empty graph.
	if len(g.Nodes) > 0 {
		for id, rank := range network.PageRank(directed, 0.85, 1e-6) {
			s.PageRank[g.Nodes[id].ID] = rank
		}
	}

	for _, comp := range topo.ConnectedComponents(undirected) {
		ids := make([]string, 0, len(comp))
		for _, n := range comp {
			ids = append(ids, g.Nodes[n.ID()].ID)
		}
		sort.Strings(ids)
		s.Components = append(s.Components, ids)
	}
	sort.Slice(s.Components, func(i, j int) bool {
		if len(s.Components[i]) != len(s.Components[j]) {
			return len(s.Components[i]) > len(s.Components[j])
		}
		return s.Components[i][0] < s.Components[j][0]
	})

	return s
}

// RankedNode is a node id with a score.
type RankedNode struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// TopPageRank returns up to n nodes ordered by descending PageRank, ties
// broken by id.
func (s Stats) TopPageRank(n int) []RankedNode {
	ranked := make([]RankedNode, 0, len(s.PageRank))
	for id, score := range s.PageRank {
		ranked = append(ranked, RankedNode{ID: id, Score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		const eps = 1e-9
		if d := ranked[i].Score - ranked[j].Score; d > eps || d < -eps {
			return d > 0
		}
		return ranked[i].ID < ranked[j].ID
	})
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
