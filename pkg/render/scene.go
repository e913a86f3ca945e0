// Package render draws driver frames onto static and interactive surfaces:
// SVG documents, PNG images and a self-contained HTML page.
package render

import (
	"image/color"
	"math"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/vanderheijden86/castgraph/pkg/driver"
	"github.com/vanderheijden86/castgraph/pkg/geom"
	"github.com/vanderheijden86/castgraph/pkg/tooltip"
)

// Canvas describes the drawing area: Scale of a Viewport, with the origin at
// the center and the content shifted by the margins.
type Canvas struct {
	ViewportWidth  int     `yaml:"viewport_width"`
	ViewportHeight int     `yaml:"viewport_height"`
	Scale          float64 `yaml:"scale"`
	MarginLeft     float64 `yaml:"margin_left"`
	MarginTop      float64 `yaml:"margin_top"`
}

// DefaultCanvas is 80% of a 1280×800 viewport with a (60, 40) margin.
func DefaultCanvas() Canvas {
	return Canvas{
		ViewportWidth:  1280,
		ViewportHeight: 800,
		Scale:          0.8,
		MarginLeft:     60,
		MarginTop:      40,
	}
}

// withDefaults treats a zero Canvas as DefaultCanvas and fills any missing
// size or scale. Explicit zero margins on a configured canvas are kept.
func (c Canvas) withDefaults() Canvas {
	d := DefaultCanvas()
	if c == (Canvas{}) {
		return d
	}
	if c.ViewportWidth <= 0 {
		c.ViewportWidth = d.ViewportWidth
	}
	if c.ViewportHeight <= 0 {
		c.ViewportHeight = d.ViewportHeight
	}
	if c.Scale <= 0 {
		c.Scale = d.Scale
	}
	return c
}

// Size returns the canvas size in pixels.
func (c Canvas) Size() (w, h int) {
	c = c.withDefaults()
	return int(math.Round(float64(c.ViewportWidth) * c.Scale)),
		int(math.Round(float64(c.ViewportHeight) * c.Scale))
}

// ToScreen maps a layout point to canvas pixels.
func (c Canvas) ToScreen(p geom.Point) geom.Point {
	c = c.withDefaults()
	w, h := c.Size()
	return geom.Pt(p.X+float64(w)/2+c.MarginLeft, p.Y+float64(h)/2+c.MarginTop)
}

// ToLayout maps canvas pixels back to layout coordinates.
func (c Canvas) ToLayout(p geom.Point) geom.Point {
	c = c.withDefaults()
	w, h := c.Size()
	return geom.Pt(p.X-float64(w)/2-c.MarginLeft, p.Y-float64(h)/2-c.MarginTop)
}

// Style holds the fixed visual attributes of nodes and links.
type Style struct {
	NodeRadius  float64
	NodeStroke  string
	LinkStroke  float64
	FontSize    float64
	LabelX      float64
	LabelDY     string
	HaloWidth   float64
	HaloColor   string
	Background  string
	TextColor   string
	TooltipFont string
}

// DefaultStyle matches the interactive page.
func DefaultStyle() Style {
	return Style{
		NodeRadius:  driver.DefaultNodeRadius,
		NodeStroke:  "white",
		LinkStroke:  driver.DefaultLinkStroke,
		FontSize:    20,
		LabelX:      -32,
		LabelDY:     "1.8em",
		HaloWidth:   6,
		HaloColor:   "white",
		Background:  "white",
		TextColor:   "#000",
		TooltipFont: "sans-serif",
	}
}

// Options configures every renderer in this package.
type Options struct {
	Canvas Canvas
	Style  Style
	Title  string
	// Fade is the tooltip fade on interactive pages. Zero means
	// tooltip.FadeDuration.
	Fade time.Duration
}

func (o Options) withDefaults() Options {
	o.Canvas = o.Canvas.withDefaults()
	if o.Style == (Style{}) {
		o.Style = DefaultStyle()
	}
	if o.Fade <= 0 {
		o.Fade = tooltip.FadeDuration
	}
	if strings.TrimSpace(o.Title) == "" {
		o.Title = "Character Graph"
	}
	return o
}

// parseColor turns a CSS hex color or one of the few named colors used here
// into a color.Color. Unknown values come back as mid grey.
func parseColor(s string) color.Color {
	switch strings.ToLower(s) {
	case "white":
		return color.White
	case "black":
		return color.Black
	case "none", "":
		return color.Transparent
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.Gray{Y: 0x99}
	}
	return c
}

// markerFor returns the marker id a link's path should end with, or "".
func markerFor(f driver.Frame, lf driver.LinkFrame) string {
	m, ok := f.Graph.MarkerFor(lf.Link.Interaction)
	if !ok {
		return ""
	}
	return m.ID
}
