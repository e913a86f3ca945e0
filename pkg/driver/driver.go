// Package driver owns the layout simulation and tooltip state of one graph
// and turns them into frames for a rendering surface. Pointer events from
// the surface are hit-tested against the current layout and fed to the
// tooltip state machine.
//
// A Driver is not safe for concurrent use; the surface's event loop owns it.
package driver

import (
	"context"
	"math"
	"time"

	"github.com/vanderheijden86/castgraph/pkg/debug"
	"github.com/vanderheijden86/castgraph/pkg/geom"
	"github.com/vanderheijden86/castgraph/pkg/graph"
	"github.com/vanderheijden86/castgraph/pkg/layout"
	"github.com/vanderheijden86/castgraph/pkg/tooltip"
)

const (
	// DefaultNodeRadius is the radius of a node's circle.
	DefaultNodeRadius = 16
	// DefaultLinkStroke is the stroke width of a link.
	DefaultLinkStroke = 8
)

// Surface binds frames to something visible. Draw must be idempotent:
// drawing the same frame twice leaves the same result.
type Surface interface {
	Draw(Frame)
}

// TooltipSurface is implemented by surfaces that redraw the tooltip on
// pointer events without waiting for the next simulation step.
type TooltipSurface interface {
	DrawTooltip(TooltipView)
}

// SurfaceFunc adapts a function to Surface.
type SurfaceFunc func(Frame)

func (f SurfaceFunc) Draw(fr Frame) { f(fr) }

// Options configures a Driver.
type Options struct {
	Layout     layout.Params
	NodeRadius float64
	LinkStroke float64
	// LinkHitSlop widens link hit testing beyond half the stroke, for
	// surfaces coarser than the layout's units.
	LinkHitSlop float64
	// TooltipFade overrides tooltip.FadeDuration when positive.
	TooltipFade time.Duration
	// Clock returns the current time for tooltip fades. Defaults to time.Now.
	Clock func() time.Time
}

// Driver runs the layout of one graph and handles hover.
type Driver struct {
	g       *graph.Graph
	sim     *layout.Simulation
	tip     *tooltip.Tooltip
	surface Surface

	nodeRadius float64
	linkStroke float64
	linkSlop   float64
	clock      func() time.Time

	hovered graph.Element
	pointer geom.Point
}

// New creates a driver for g. surface may be nil for headless use.
func New(g *graph.Graph, surface Surface, opts Options) *Driver {
	if opts.Layout == (layout.Params{}) {
		opts.Layout = layout.DefaultParams()
	}
	if opts.NodeRadius <= 0 {
		opts.NodeRadius = DefaultNodeRadius
	}
	if opts.LinkStroke <= 0 {
		opts.LinkStroke = DefaultLinkStroke
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	tip := tooltip.New()
	if opts.TooltipFade > 0 {
		tip.Duration = opts.TooltipFade
	}
	return &Driver{
		g:          g,
		sim:        layout.ForGraph(g, opts.Layout),
		tip:        tip,
		surface:    surface,
		nodeRadius: opts.NodeRadius,
		linkStroke: opts.LinkStroke,
		linkSlop:   math.Max(opts.LinkHitSlop, 0),
		clock:      opts.Clock,
	}
}

// Graph returns the driven graph.
func (d *Driver) Graph() *graph.Graph {
	return d.g
}

// Simulation returns the underlying simulation.
func (d *Driver) Simulation() *layout.Simulation {
	return d.sim
}

// Tooltip returns the tooltip state machine.
func (d *Driver) Tooltip() *tooltip.Tooltip {
	return d.tip
}

// Hovered returns the element under the pointer, or nil.
func (d *Driver) Hovered() graph.Element {
	return d.hovered
}

// Cooled reports whether the layout has settled.
func (d *Driver) Cooled() bool {
	return d.sim.Cooled()
}

// Frame computes the current frame without advancing the simulation.
func (d *Driver) Frame() Frame {
	now := d.clock()
	f := Frame{
		Graph:   d.g,
		Tick:    d.sim.Ticks(),
		Alpha:   d.sim.Alpha(),
		Cooled:  d.sim.Cooled(),
		Links:   make([]LinkFrame, len(d.g.Links)),
		Nodes:   make([]NodeFrame, len(d.g.Nodes)),
		Tooltip: d.tooltipView(now),
		At:      now,
	}
	for i, l := range d.g.Links {
		f.Links[i] = LinkFrame{
			Link: l,
			Arc:  geom.LinkArc(geom.Pt(l.Source.X, l.Source.Y), geom.Pt(l.Target.X, l.Target.Y)),
		}
	}
	for i, n := range d.g.Nodes {
		f.Nodes[i] = NodeFrame{Node: n, Pos: geom.Pt(n.X, n.Y)}
	}
	return f
}

func (d *Driver) tooltipView(now time.Time) TooltipView {
	return TooltipView{
		State:    d.tip.State(),
		Opacity:  d.tip.Opacity(now),
		Position: d.tip.Position(),
		Content:  d.tip.Content(),
		Fading:   d.tip.Fading(now),
	}
}

// Redraw sends the current frame to the surface.
func (d *Driver) Redraw() Frame {
	f := d.Frame()
	if d.surface != nil {
		d.surface.Draw(f)
	}
	return f
}

// Step advances the simulation one tick and draws the result. The element
// under a stationary pointer can change as nodes move, so hover is
// re-evaluated too.
func (d *Driver) Step() Frame {
	d.sim.Step()
	if d.hovered != nil {
		d.updateHover(d.pointer)
	}
	return d.Redraw()
}

// Settle runs the simulation synchronously until it cools or max ticks have
// passed, then draws once.
func (d *Driver) Settle(max int) Frame {
	d.sim.Settle(max)
	debug.Log("driver: settled after %d ticks (alpha=%.4f)", d.sim.Ticks(), d.sim.Alpha())
	return d.Redraw()
}

// Run steps the simulation on a timer, drawing every step, until it cools
// or ctx is cancelled.
func (d *Driver) Run(ctx context.Context, interval time.Duration) error {
	return d.sim.Run(ctx, interval, func() {
		if d.hovered != nil {
			d.updateHover(d.pointer)
		}
		d.Redraw()
	})
}

// SetHitArea changes the node hit radius and the link slop used by HitTest.
// A non-positive radius keeps the current one.
func (d *Driver) SetHitArea(nodeRadius, linkSlop float64) {
	if nodeRadius > 0 {
		d.nodeRadius = nodeRadius
	}
	d.linkSlop = math.Max(linkSlop, 0)
}

// HitTest returns the topmost element at p in layout coordinates. Nodes are
// drawn above links, and later elements above earlier ones.
func (d *Driver) HitTest(p geom.Point) graph.Element {
	for i := len(d.g.Nodes) - 1; i >= 0; i-- {
		n := d.g.Nodes[i]
		if p.InCircle(geom.Pt(n.X, n.Y), d.nodeRadius) {
			return n
		}
	}
	half := d.linkStroke/2 + d.linkSlop
	for i := len(d.g.Links) - 1; i >= 0; i-- {
		l := d.g.Links[i]
		arc := geom.LinkArc(geom.Pt(l.Source.X, l.Source.Y), geom.Pt(l.Target.X, l.Target.Y))
		if arc.DistanceTo(p) <= half {
			return l
		}
	}
	return nil
}

// PointerMove handles pointer motion at p in layout coordinates. It reports
// whether the hovered element changed.
func (d *Driver) PointerMove(p geom.Point) bool {
	d.pointer = p
	changed := d.updateHover(p)
	if !changed {
		d.tip.Move(p)
	}
	d.drawTooltip()
	return changed
}

// PointerLeave handles the pointer leaving the surface.
func (d *Driver) PointerLeave() {
	if d.hovered == nil {
		return
	}
	d.tip.Leave(d.clock())
	d.hovered = nil
	d.drawTooltip()
}

func (d *Driver) updateHover(p geom.Point) bool {
	hit := d.HitTest(p)
	if hit == d.hovered {
		return false
	}
	now := d.clock()
	if d.hovered != nil {
		d.tip.Leave(now)
	}
	if hit != nil {
		d.tip.Enter(hit, tooltip.For(hit, d.g.Lookup), p, now)
		debug.Log("driver: hover %s", describe(hit))
	}
	d.hovered = hit
	return true
}

func (d *Driver) drawTooltip() {
	if ts, ok := d.surface.(TooltipSurface); ok {
		ts.DrawTooltip(d.tooltipView(d.clock()))
	}
}

func describe(e graph.Element) string {
	switch v := e.(type) {
	case *graph.Node:
		return "node " + v.ID
	case *graph.Link:
		return "link " + v.Source.ID + "->" + v.Target.ID
	default:
		return "nothing"
	}
}
