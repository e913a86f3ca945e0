package ui

import (
	"math"
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/castgraph/pkg/driver"
	"github.com/vanderheijden86/castgraph/pkg/geom"
	"github.com/vanderheijden86/castgraph/pkg/render"
	"github.com/vanderheijden86/castgraph/pkg/tooltip"
)

func TestProjection(t *testing.T) {
	p := newProjection(render.DefaultCanvas(), 100, 40)

	col, row, ok := p.cell(geom.Pt(0, 0))
	if !ok || col != 50 || row != 20 {
		t.Errorf("cell(origin) = %d,%d,%v", col, row, ok)
	}
	if _, _, ok := p.cell(geom.Pt(600, 0)); ok {
		t.Error("point beyond the canvas should be off the grid")
	}

	// Every cell's center maps back to that cell.
	for _, c := range [][2]int{{0, 0}, {99, 39}, {13, 27}} {
		gc, gr, ok := p.cell(p.layout(c[0], c[1]))
		if !ok || gc != c[0] || gr != c[1] {
			t.Errorf("round trip of cell %v = %d,%d,%v", c, gc, gr, ok)
		}
	}

	if _, _, ok := (projection{}).cell(geom.Pt(0, 0)); ok {
		t.Error("zero projection should not map points")
	}
}

func TestArrowGlyph(t *testing.T) {
	tests := []struct {
		dir  geom.Point
		want rune
	}{
		{geom.Pt(1, 0), '→'},
		{geom.Pt(0, 1), '↓'},
		{geom.Pt(-1, 0), '←'},
		{geom.Pt(0, -1), '↑'},
		{geom.Pt(1, 1), '↘'},
		{geom.Pt(-1, -1), '↖'},
	}
	for _, tt := range tests {
		if got := arrowGlyph(tt.dir); got != tt.want {
			t.Errorf("arrowGlyph(%v) = %c, want %c", tt.dir, got, tt.want)
		}
	}
}

func TestGridText_WideRunes(t *testing.T) {
	g := newGrid(6, 1)
	end := g.text(0, 0, "a名b", "", false)
	if end != 4 {
		t.Errorf("end = %d, want 4", end)
	}
	if got := g.plain(); got != "a名b  " {
		t.Errorf("plain = %q", got)
	}

	// Clipped at the right edge without splitting a wide rune.
	g = newGrid(3, 1)
	g.text(2, 0, "名", "", false)
	if got := g.plain(); got != "   " {
		t.Errorf("plain = %q", got)
	}
}

func TestGridText_OverwriteWideHalf(t *testing.T) {
	tests := []struct {
		name string
		col  int
		text string
		want string
	}{
		{"right half", 1, "x", " x界   "},
		{"left half", 2, "x", "世x    "},
		{"wide over wide offset", 1, "名", " 名    "},
		{"wide over wide aligned", 2, "名", "世名   "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGrid(7, 1)
			g.text(0, 0, "世界", "", false)
			g.text(tt.col, 0, tt.text, "", false)

			got := g.plain()
			if got != tt.want {
				t.Errorf("plain = %q, want %q", got, tt.want)
			}
			if w := runewidth.StringWidth(got); w != g.cols {
				t.Errorf("row width = %d, want %d", w, g.cols)
			}
		})
	}
}

func rasterFrame(t *testing.T) driver.Frame {
	t.Helper()
	g := testGraph()
	d := driver.New(g, nil, driver.Options{})
	g.Nodes[0].Place(0, 0)
	g.Nodes[1].Place(300, 0)
	return d.Frame()
}

func TestRasterize(t *testing.T) {
	p := newProjection(render.DefaultCanvas(), 100, 40)
	out := rasterize(rasterFrame(t), p, TestTheme(), nil).plain()
	lines := strings.Split(out, "\n")
	if len(lines) != 40 {
		t.Fatalf("got %d rows", len(lines))
	}

	if !strings.HasPrefix(lines[20][strings.Index(lines[20], "●"):], "● Alice") {
		t.Errorf("row 20 = %q", lines[20])
	}
	if !strings.Contains(lines[20], "Bob") {
		t.Errorf("node B label missing from row 20: %q", lines[20])
	}
	if !strings.Contains(out, string(linkGlyph)) {
		t.Error("link not drawn")
	}

	// The A→B arc bends clockwise, so it passes above the row the nodes sit
	// on and ends at B heading down and to the right.
	above := strings.Join(lines[:20], "\n")
	if !strings.Contains(above, string(linkGlyph)) {
		t.Error("arc should bulge above the nodes")
	}
	if !strings.ContainsAny(out, "↘↓") {
		t.Error("arrowhead missing")
	}
}

func TestRasterize_Empty(t *testing.T) {
	g := rasterize(driver.Frame{}, newProjection(render.DefaultCanvas(), 10, 4), TestTheme(), nil)
	if strings.TrimSpace(g.plain()) != "" {
		t.Errorf("empty frame drew %q", g.plain())
	}
}

func TestDrawTooltip_ClampedToGrid(t *testing.T) {
	p := newProjection(render.DefaultCanvas(), 40, 10)
	g := newGrid(40, 10)
	v := driver.TooltipView{
		State:    tooltip.Visible,
		Opacity:  1,
		Position: geom.Pt(500, 300), // bottom-right corner
		Content: tooltip.Content{Lines: []tooltip.Line{
			{Label: "Interaction", Value: "talks"},
		}},
	}
	drawTooltip(g, v, p, TestTheme())

	lines := strings.Split(g.plain(), "\n")
	if !strings.HasSuffix(lines[7], "╭────────────────────╮") {
		t.Errorf("top border = %q", lines[7])
	}
	if !strings.HasSuffix(lines[8], "│ Interaction: talks │") {
		t.Errorf("body = %q", lines[8])
	}
	if !strings.HasSuffix(lines[9], "╰────────────────────╯") {
		t.Errorf("bottom border = %q", lines[9])
	}
}

func TestDrawTooltip_Hidden(t *testing.T) {
	g := newGrid(40, 10)
	drawTooltip(g, driver.TooltipView{Content: tooltip.Content{Lines: []tooltip.Line{{Value: tooltip.NoData}}}},
		newProjection(render.DefaultCanvas(), 40, 10), TestTheme())
	if strings.TrimSpace(g.plain()) != "" {
		t.Error("a fully faded tooltip should not be drawn")
	}
}

func TestThemeFade(t *testing.T) {
	th := TestTheme()
	th.Background = "#000000"

	if got := th.Fade("#ffffff", 1); got != "#ffffff" {
		t.Errorf("Fade(1) = %s", got)
	}
	if got := th.Fade("#ffffff", 0); got != "#000000" {
		t.Errorf("Fade(0) = %s", got)
	}
	if got := th.Fade("not a color", 0.5); got != "not a color" {
		t.Errorf("bad color should pass through, got %s", got)
	}

	// Lightness grows with opacity.
	prev := -1.0
	for _, op := range []float64{0, 0.25, 0.5, 0.75, 1} {
		c, err := colorful.Hex(th.Fade("#01FABF", op))
		if err != nil {
			t.Fatal(err)
		}
		l, _, _ := c.Lab()
		if l < prev-1e-9 {
			t.Errorf("lightness fell at opacity %v", op)
		}
		prev = l
	}
	if math.IsNaN(prev) {
		t.Error("NaN lightness")
	}
}

func TestDefaultTheme(t *testing.T) {
	th := TestTheme()
	if th.Renderer == nil {
		t.Fatal("nil renderer")
	}
	for name, hex := range map[string]string{"background": th.Background, "text": th.Text, "tooltip": th.TooltipFg} {
		if _, err := colorful.Hex(hex); err != nil {
			t.Errorf("%s color %q: %v", name, hex, err)
		}
	}
}
