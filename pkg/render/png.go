package render

import (
	"fmt"
	"io"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/castgraph/pkg/driver"
	"github.com/vanderheijden86/castgraph/pkg/geom"
	"github.com/vanderheijden86/castgraph/pkg/metrics"
)

// arrowScale converts marker viewBox units to multiples of the stroke
// width: a 6-stroke-wide marker over a 10-unit viewBox.
const arrowScale = 0.6

// WritePNG rasterizes one frame.
func WritePNG(w io.Writer, f driver.Frame, opts Options) error {
	defer metrics.Timer(metrics.Render)()

	if f.Graph == nil {
		return fmt.Errorf("frame has no graph")
	}
	dc := drawFrame(f, opts.withDefaults())
	return dc.EncodePNG(w)
}

func drawFrame(f driver.Frame, opts Options) *gg.Context {
	st := opts.Style
	width, height := opts.Canvas.Size()

	dc := gg.NewContext(width, height)
	dc.SetColor(parseColor(st.Background))
	dc.Clear()
	dc.Translate(float64(width)/2+opts.Canvas.MarginLeft, float64(height)/2+opts.Canvas.MarginTop)
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetLineWidth(st.LinkStroke)
	for _, lf := range f.Links {
		c := parseColor(f.Graph.LinkColor(lf.Link))
		dc.SetColor(c)
		drawArc(dc, lf.Arc)
		dc.Stroke()
		if markerFor(f, lf) != "" {
			drawArrowhead(dc, lf.Arc, st.LinkStroke)
		}
	}

	for _, nf := range f.Nodes {
		x, y := nf.Pos.X, nf.Pos.Y
		dc.SetColor(parseColor(f.Graph.NodeColor(nf.Node)))
		dc.DrawCircle(x, y, st.NodeRadius)
		dc.FillPreserve()
		dc.SetColor(parseColor(st.NodeStroke))
		dc.SetLineWidth(1)
		dc.Stroke()

		label := f.Graph.Label(nf.Node)
		lx, ly := x+st.LabelX, y+st.NodeRadius+13
		dc.SetColor(parseColor(st.HaloColor))
		for _, d := range [][2]float64{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
			dc.DrawString(label, lx+d[0], ly+d[1])
		}
		dc.SetColor(parseColor(st.TextColor))
		dc.DrawString(label, lx, ly)
	}
	return dc
}

func drawArc(dc *gg.Context, a geom.Arc) {
	if a.Degenerate() {
		dc.MoveTo(a.From.X, a.From.Y)
		dc.LineTo(a.To.X, a.To.Y)
		return
	}
	c := a.Center()
	start := a.StartAngle()
	dc.NewSubPath()
	dc.DrawArc(c.X, c.Y, a.Radius, start, start+geom.Sweep)
}

// drawArrowhead mirrors the SVG marker: the tip sits past the arc's end by
// (refX - 10) marker units along the end tangent.
func drawArrowhead(dc *gg.Context, a geom.Arc, stroke float64) {
	if a.Degenerate() {
		return
	}
	unit := stroke * arrowScale
	dir := a.EndDirection()
	normal := geom.Pt(-dir.Y, dir.X)

	// Marker-space origin lands on the path end shifted back by refX.
	origin := a.To.Sub(dir.Scale(15 * unit))
	tip := origin.Add(dir.Scale(10 * unit))
	left := origin.Add(normal.Scale(5 * unit))
	right := origin.Sub(normal.Scale(5 * unit))

	dc.NewSubPath()
	dc.MoveTo(left.X, left.Y)
	dc.LineTo(tip.X, tip.Y)
	dc.LineTo(right.X, right.Y)
	dc.ClosePath()
	dc.Fill()
}
