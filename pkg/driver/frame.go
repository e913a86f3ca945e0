package driver

import (
	"time"

	"github.com/vanderheijden86/castgraph/pkg/geom"
	"github.com/vanderheijden86/castgraph/pkg/graph"
	"github.com/vanderheijden86/castgraph/pkg/tooltip"
)

// LinkFrame is one link's shape for a frame.
type LinkFrame struct {
	Link *graph.Link
	Arc  geom.Arc
}

// Path is the SVG path data of the link's arc.
func (lf LinkFrame) Path() string {
	return lf.Arc.Path()
}

// NodeFrame is one node's position for a frame.
type NodeFrame struct {
	Node *graph.Node
	Pos  geom.Point
}

// Transform is the SVG transform that places the node's group.
func (nf NodeFrame) Transform() string {
	return "translate(" + geom.Num(nf.Pos.X) + "," + geom.Num(nf.Pos.Y) + ")"
}

// TooltipView is a snapshot of the tooltip at one instant.
type TooltipView struct {
	State    tooltip.State
	Opacity  float64
	Position geom.Point
	Content  tooltip.Content
	Fading   bool
}

// Shown reports whether any part of the tooltip is visible.
func (v TooltipView) Shown() bool {
	return v.Opacity > 0
}

// Frame is everything a surface needs to draw one simulation step. Links
// and nodes are in paint order.
type Frame struct {
	Graph   *graph.Graph
	Tick    int
	Alpha   float64
	Cooled  bool
	Links   []LinkFrame
	Nodes   []NodeFrame
	Tooltip TooltipView
	At      time.Time
}

// Bounds returns the bounding box of node centers, or zero points for an
// empty frame.
func (f Frame) Bounds() (min, max geom.Point) {
	for i, nf := range f.Nodes {
		if i == 0 {
			min, max = nf.Pos, nf.Pos
			continue
		}
		if nf.Pos.X < min.X {
			min.X = nf.Pos.X
		}
		if nf.Pos.Y < min.Y {
			min.Y = nf.Pos.Y
		}
		if nf.Pos.X > max.X {
			max.X = nf.Pos.X
		}
		if nf.Pos.Y > max.Y {
			max.Y = nf.Pos.Y
		}
	}
	return min, max
}
