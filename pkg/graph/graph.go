// Package graph derives the drawable character graph from raw records: the
// node lookup, the distinct node set, links with resolved endpoints, the
// ordinal color scales and one arrow marker per interaction type.
package graph

import (
	"github.com/vanderheijden86/castgraph/pkg/debug"
	"github.com/vanderheijden86/castgraph/pkg/metrics"
	"github.com/vanderheijden86/castgraph/pkg/model"
)

// Element is anything drawn on the canvas that can be hovered: a *Node or a
// *Link.
type Element interface {
	element()
}

// Node is one character on the canvas. Its identity is ID; the position and
// velocity fields are owned by the layout simulation once it starts.
type Node struct {
	ID    string
	Index int

	X, Y   float64
	VX, VY float64

	// FX and FY pin the node when non-nil.
	FX, FY *float64

	placed bool
}

func (*Node) element() {}

// Placed reports whether the node has been given an initial position.
func (n *Node) Placed() bool {
	return n.placed
}

// Place sets the node's position and marks it as placed.
func (n *Node) Place(x, y float64) {
	n.X, n.Y = x, y
	n.placed = true
}

// Pin fixes the node at (x, y) until Unpin is called.
func (n *Node) Pin(x, y float64) {
	n.FX, n.FY = &x, &y
	n.Place(x, y)
}

// Unpin releases a pinned node.
func (n *Node) Unpin() {
	n.FX, n.FY = nil, nil
}

// Link is one edge record bound to its endpoint nodes.
type Link struct {
	Source      *Node
	Target      *Node
	Interaction string
	Index       int
}

func (*Link) element() {}

// Lookup maps a node id to its full record.
type Lookup map[string]model.NodeRecord

// Options configures Build.
type Options struct {
	LinkPalette []string
	NodePalette []string
	Fallback    string
}

// DefaultOptions returns the palettes the graph is normally drawn with.
func DefaultOptions() Options {
	return Options{
		LinkPalette: Category10,
		NodePalette: MoviePalette,
		Fallback:    DefaultFallbackColor,
	}
}

// Graph is the drawable graph derived from one dataset.
type Graph struct {
	Nodes        []*Node
	Links        []*Link
	Lookup       Lookup
	Movies       []string
	Interactions []string
	LinkColors   *Ordinal
	NodeColors   *Ordinal
	Markers      []Marker

	nodeByID map[string]*Node
	markerBy map[string]int
}

// Build derives a Graph from a dataset. It never fails: records that cannot
// be resolved degrade to fallback colors and labels at draw time.
func Build(ds model.Dataset, opts Options) *Graph {
	defer metrics.Timer(metrics.Build)()

	if opts.LinkPalette == nil {
		opts.LinkPalette = Category10
	}
	if opts.NodePalette == nil {
		opts.NodePalette = MoviePalette
	}
	if opts.Fallback == "" {
		opts.Fallback = DefaultFallbackColor
	}

	g := &Graph{
		Lookup:   make(Lookup, len(ds.Nodes)),
		nodeByID: make(map[string]*Node),
	}

	// First write wins on duplicate ids.
	seenMovie := make(map[string]bool)
	for _, rec := range ds.Nodes {
		_, dup := g.Lookup[rec.ID]
		debug.LogIf(dup, "graph: duplicate record %q ignored", rec.ID)
		if !dup {
			g.Lookup[rec.ID] = rec
		}
		if !seenMovie[rec.Movie] {
			seenMovie[rec.Movie] = true
			g.Movies = append(g.Movies, rec.Movie)
		}
	}

	seenInteraction := make(map[string]bool)
	for _, e := range ds.Edges {
		if !seenInteraction[e.Interaction] {
			seenInteraction[e.Interaction] = true
			g.Interactions = append(g.Interactions, e.Interaction)
		}
	}

	// The node set is the union of edge endpoints; records without edges
	// are not drawn.
	g.Links = make([]*Link, 0, len(ds.Edges))
	for i, e := range ds.Edges {
		src := g.ensureNode(e.Source)
		tgt := g.ensureNode(e.Target)
		g.Links = append(g.Links, &Link{
			Source:      src,
			Target:      tgt,
			Interaction: e.Interaction,
			Index:       i,
		})
	}

	g.LinkColors = NewOrdinal(g.Interactions, opts.LinkPalette, opts.Fallback)
	g.NodeColors = NewOrdinal(g.Movies, opts.NodePalette, opts.Fallback)
	g.Markers, g.markerBy = buildMarkers(g.Interactions, g.LinkColors)

	debug.Log("graph: %d nodes, %d links, %d interactions, %d movies",
		len(g.Nodes), len(g.Links), len(g.Interactions), len(g.Movies))
	return g
}

func (g *Graph) ensureNode(id string) *Node {
	if n, ok := g.nodeByID[id]; ok {
		return n
	}
	n := &Node{ID: id, Index: len(g.Nodes)}
	g.nodeByID[id] = n
	g.Nodes = append(g.Nodes, n)
	return n
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodeByID[id]
	return n, ok
}

// Record returns the node record for a node, if one was loaded.
func (g *Graph) Record(n *Node) (model.NodeRecord, bool) {
	rec, ok := g.Lookup[n.ID]
	return rec, ok
}

// Label is the text drawn under a node: its name, or its id when the record
// is missing or unnamed.
func (g *Graph) Label(n *Node) string {
	if rec, ok := g.Lookup[n.ID]; ok && rec.Name != "" {
		return rec.Name
	}
	return n.ID
}

// NodeColor is the fill color for a node, keyed by its movie.
func (g *Graph) NodeColor(n *Node) string {
	rec, ok := g.Lookup[n.ID]
	if !ok {
		return g.NodeColors.Fallback()
	}
	return g.NodeColors.Color(rec.Movie)
}

// LinkColor is the stroke color for a link, keyed by its interaction.
func (g *Graph) LinkColor(l *Link) string {
	return g.LinkColors.Color(l.Interaction)
}

// MarkerFor returns the arrow marker for an interaction type.
func (g *Graph) MarkerFor(interaction string) (Marker, bool) {
	i, ok := g.markerBy[interaction]
	if !ok {
		return Marker{}, false
	}
	return g.Markers[i], true
}

// Degree returns the number of links touching each node, counting parallel
// links and counting a self-link twice.
func (g *Graph) Degree() map[*Node]int {
	deg := make(map[*Node]int, len(g.Nodes))
	for _, l := range g.Links {
		deg[l.Source]++
		deg[l.Target]++
	}
	return deg
}
