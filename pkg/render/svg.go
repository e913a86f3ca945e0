package render

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/vanderheijden86/castgraph/pkg/driver"
	"github.com/vanderheijden86/castgraph/pkg/geom"
	"github.com/vanderheijden86/castgraph/pkg/graph"
	"github.com/vanderheijden86/castgraph/pkg/metrics"
	"github.com/vanderheijden86/castgraph/pkg/tooltip"
)

// SVGOptions adds SVG-only switches to Options.
type SVGOptions struct {
	Options
	// Interactive tags every node and link with its tooltip HTML in a
	// data-tip attribute for the HTML page's script.
	Interactive bool
}

// WriteSVG writes one frame as a standalone SVG document.
func WriteSVG(w io.Writer, f driver.Frame, opts SVGOptions) error {
	defer metrics.Timer(metrics.Render)()

	if f.Graph == nil {
		return fmt.Errorf("frame has no graph")
	}
	opts.Options = opts.Options.withDefaults()
	st := opts.Style
	width, height := opts.Canvas.Size()

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(width, height,
		fmt.Sprintf(`viewBox="%s %s %d %d"`, geom.Num(-float64(width)/2), geom.Num(-float64(height)/2), width, height),
		`font-family="sans-serif"`,
	)
	canvas.Title(opts.Title)
	canvas.Gtransform(fmt.Sprintf("translate(%s, %s)", geom.Num(opts.Canvas.MarginLeft), geom.Num(opts.Canvas.MarginTop)))

	writeMarkers(canvas, f.Graph.Markers)

	canvas.Group(`fill="none"`, fmt.Sprintf(`stroke-width="%s"`, geom.Num(st.LinkStroke)), `class="links"`)
	for _, lf := range f.Links {
		attrs := []string{fmt.Sprintf(`stroke="%s"`, attr(f.Graph.LinkColor(lf.Link)))}
		if id := markerFor(f, lf); id != "" {
			attrs = append(attrs, fmt.Sprintf(`marker-end="url(#%s)"`, id))
		}
		content := tooltip.ForLink(lf.Link)
		if opts.Interactive {
			attrs = append(attrs, tipAttr(content))
		}
		fmt.Fprintf(canvas.Writer, `<path d="%s" %s>`, lf.Path(), strings.Join(attrs, " "))
		canvas.Title(strings.Join(content.Plain(), "\n"))
		fmt.Fprintln(canvas.Writer, `</path>`)
	}
	canvas.Gend()

	canvas.Group(`fill="currentColor"`, `stroke-linecap="round"`, `stroke-linejoin="round"`, `class="nodes"`)
	for _, nf := range f.Nodes {
		writeNode(canvas, f.Graph, nf, st, opts.Interactive)
	}
	canvas.Gend()

	canvas.Gend()
	canvas.End()
	return ew.err
}

func writeMarkers(canvas *svg.SVG, markers []graph.Marker) {
	if len(markers) == 0 {
		return
	}
	canvas.Def()
	for _, m := range markers {
		fmt.Fprintf(canvas.Writer,
			`<marker id="%s" viewBox="%s" refX="%s" refY="%s" markerWidth="%s" markerHeight="%s" orient="%s">`+"\n",
			attr(m.ID), m.ViewBox, geom.Num(m.RefX), geom.Num(m.RefY), geom.Num(m.Width), geom.Num(m.Height), m.Orient)
		canvas.Path(m.Path, fmt.Sprintf(`fill="%s"`, attr(m.Color)))
		canvas.MarkerEnd()
	}
	canvas.DefEnd()
}

func writeNode(canvas *svg.SVG, g *graph.Graph, nf driver.NodeFrame, st Style, interactive bool) {
	content := tooltip.ForNode(nf.Node, g.Lookup)
	attrs := []string{fmt.Sprintf(`transform="%s"`, nf.Transform())}
	if interactive {
		attrs = append(attrs, tipAttr(content))
	}
	canvas.Group(attrs...)
	canvas.Title(strings.Join(content.Plain(), "\n"))

	r := int(st.NodeRadius)
	canvas.Circle(0, 0, r,
		fmt.Sprintf(`stroke="%s"`, attr(st.NodeStroke)),
		`stroke-width="1"`,
		fmt.Sprintf(`fill="%s"`, attr(g.NodeColor(nf.Node))),
	)

	label := g.Label(nf.Node)
	x := int(st.LabelX)
	size := fmt.Sprintf(`font-size="%s"`, geom.Num(st.FontSize))
	dy := fmt.Sprintf(`dy="%s"`, st.LabelDY)
	// Halo first so the label paints over it.
	canvas.Text(x, 0, label, dy, size, `fill="none"`,
		fmt.Sprintf(`stroke="%s"`, attr(st.HaloColor)),
		fmt.Sprintf(`stroke-width="%s"`, geom.Num(st.HaloWidth)))
	canvas.Text(x, 0, label, dy, size)
	canvas.Gend()
}

// tipAttr carries a tooltip's HTML through an attribute; the page script
// assigns it to innerHTML.
func tipAttr(c tooltip.Content) string {
	return fmt.Sprintf(`data-tip="%s"`, html.EscapeString(string(c.HTML())))
}

func attr(s string) string {
	return html.EscapeString(s)
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

// SVGSurface keeps the SVG of the most recent frame. Drawing the same frame
// twice yields the same document.
type SVGSurface struct {
	Options SVGOptions

	buf bytes.Buffer
	err error
}

// Draw renders f, replacing the previous document.
func (s *SVGSurface) Draw(f driver.Frame) {
	s.buf.Reset()
	s.err = WriteSVG(&s.buf, f, s.Options)
}

// Bytes returns the last rendered document.
func (s *SVGSurface) Bytes() []byte {
	return s.buf.Bytes()
}

// Err returns the error from the last Draw.
func (s *SVGSurface) Err() error {
	return s.err
}
