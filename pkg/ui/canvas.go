package ui

import (
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/castgraph/pkg/driver"
	"github.com/vanderheijden86/castgraph/pkg/geom"
	"github.com/vanderheijden86/castgraph/pkg/graph"
	"github.com/vanderheijden86/castgraph/pkg/render"
)

const (
	nodeGlyph    = '●'
	hoveredGlyph = '◉'
	linkGlyph    = '·'
)

// arrowGlyphs are indexed by direction in 45° steps, clockwise from east.
var arrowGlyphs = []rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}

// projection maps the layout's drawing area onto a grid of terminal cells.
// The layout is centered on the origin; cell (0,0) is its top-left corner.
type projection struct {
	cols, rows int
	w, h       float64
}

func newProjection(c render.Canvas, cols, rows int) projection {
	w, h := c.Size()
	return projection{cols: cols, rows: rows, w: float64(w), h: float64(h)}
}

func (p projection) valid() bool {
	return p.cols > 0 && p.rows > 0 && p.w > 0 && p.h > 0
}

// cell returns the cell containing pt, and whether it is on the grid.
func (p projection) cell(pt geom.Point) (col, row int, ok bool) {
	if !p.valid() {
		return 0, 0, false
	}
	col = int(math.Floor((pt.X + p.w/2) / p.w * float64(p.cols)))
	row = int(math.Floor((pt.Y + p.h/2) / p.h * float64(p.rows)))
	return col, row, col >= 0 && col < p.cols && row >= 0 && row < p.rows
}

// layout returns the layout point at the center of a cell.
func (p projection) layout(col, row int) geom.Point {
	return geom.Pt(
		(float64(col)+0.5)/float64(p.cols)*p.w-p.w/2,
		(float64(row)+0.5)/float64(p.rows)*p.h-p.h/2,
	)
}

// cellSize is the layout extent of one cell.
func (p projection) cellSize() (float64, float64) {
	return p.w / float64(p.cols), p.h / float64(p.rows)
}

type cell struct {
	r     rune // 0 marks the right half of a wide rune
	color string
	bold  bool
}

// grid is a frame rasterized to terminal cells.
type grid struct {
	cols, rows int
	cells      []cell
}

func newGrid(cols, rows int) *grid {
	g := &grid{cols: cols, rows: rows, cells: make([]cell, cols*rows)}
	for i := range g.cells {
		g.cells[i].r = ' '
	}
	return g
}

func (g *grid) set(col, row int, c cell) {
	if col < 0 || col >= g.cols || row < 0 || row >= g.rows {
		return
	}
	g.split(col, row)
	g.cells[row*g.cols+col] = c
}

// split blanks the other half of a wide rune whose half at (col,row) is
// about to be overwritten.
func (g *grid) split(col, row int) {
	i := row*g.cols + col
	switch old := g.cells[i]; {
	case old.r == 0 && col > 0:
		g.cells[i-1] = cell{r: ' '}
	case runewidth.RuneWidth(old.r) == 2 && col+1 < g.cols && g.cells[i+1].r == 0:
		g.cells[i+1] = cell{r: ' '}
	}
}

func (g *grid) at(col, row int) cell {
	return g.cells[row*g.cols+col]
}

// text writes s starting at (col,row), clipped to the grid. Wide runes take
// two cells. It returns the column after the last rune written.
func (g *grid) text(col, row int, s, color string, bold bool) int {
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col+w > g.cols {
			break
		}
		g.set(col, row, cell{r: r, color: color, bold: bold})
		if w == 2 && row >= 0 && row < g.rows && col >= 0 {
			g.split(col+1, row)
			g.cells[row*g.cols+col+1] = cell{r: 0, color: color}
		}
		col += w
	}
	return col
}

// rasterize draws a frame in paint order: links, arrowheads, nodes, labels,
// then the tooltip on top.
func rasterize(f driver.Frame, p projection, theme Theme, hovered graph.Element) *grid {
	g := newGrid(p.cols, p.rows)
	if f.Graph == nil || !p.valid() {
		return g
	}
	cw, ch := p.cellSize()
	step := math.Min(cw, ch) / 2

	for _, lf := range f.Links {
		color := f.Graph.LinkColor(lf.Link)
		length := lf.Arc.Radius * math.Pi / 3
		n := int(length/step) + 1
		tc, tr, _ := p.cell(lf.Arc.To)
		arrowCol, arrowRow, haveArrow := -1, -1, false
		for i := 0; i <= n; i++ {
			pt := lf.Arc.PointAt(float64(i) / float64(n))
			col, row, ok := p.cell(pt)
			if !ok {
				continue
			}
			if col == tc && row == tr {
				continue
			}
			g.set(col, row, cell{r: linkGlyph, color: color, bold: lf.Link == hovered})
			arrowCol, arrowRow, haveArrow = col, row, true
		}
		if haveArrow {
			g.set(arrowCol, arrowRow, cell{r: arrowGlyph(lf.Arc.EndDirection()), color: color, bold: true})
		}
	}

	for _, nf := range f.Nodes {
		col, row, ok := p.cell(nf.Pos)
		if !ok {
			continue
		}
		glyph := nodeGlyph
		if nf.Node == hovered {
			glyph = hoveredGlyph
		}
		g.set(col, row, cell{r: glyph, color: f.Graph.NodeColor(nf.Node), bold: true})
	}
	for _, nf := range f.Nodes {
		col, row, ok := p.cell(nf.Pos)
		if !ok {
			continue
		}
		g.text(col+2, row, f.Graph.Label(nf.Node), theme.Text, false)
	}

	drawTooltip(g, f.Tooltip, p, theme)
	return g
}

func arrowGlyph(dir geom.Point) rune {
	angle := math.Atan2(dir.Y, dir.X)
	i := int(math.Round(angle/(math.Pi/4))) % 8
	if i < 0 {
		i += 8
	}
	return arrowGlyphs[i]
}

// drawTooltip draws a bordered box at the tooltip position, faded
// toward the background by its opacity.
func drawTooltip(g *grid, v driver.TooltipView, p projection, theme Theme) {
	if !v.Shown() || v.Content.Empty() {
		return
	}
	col, row, _ := p.cell(v.Position)
	lines := v.Content.Plain()

	inner := 0
	for _, l := range lines {
		if w := runewidth.StringWidth(l); w > inner {
			inner = w
		}
	}
	boxW, boxH := inner+4, len(lines)+2
	if boxW > g.cols {
		boxW = g.cols
		inner = boxW - 4
	}

	// Keep the box on the grid.
	if col+boxW > g.cols {
		col = g.cols - boxW
	}
	if row+boxH > g.rows {
		row = g.rows - boxH
	}
	if col < 0 {
		col = 0
	}
	if row < 0 {
		row = 0
	}

	color := theme.Fade(theme.TooltipFg, v.Opacity)
	border := theme.Fade(theme.Primary.Dark, v.Opacity)
	if !theme.Renderer.HasDarkBackground() {
		border = theme.Fade(theme.Primary.Light, v.Opacity)
	}

	horiz := strings.Repeat("─", boxW-2)
	g.text(col, row, "╭"+horiz+"╮", border, false)
	for i, l := range lines {
		r := row + 1 + i
		g.text(col, r, "│ ", border, false)
		end := g.text(col+2, r, runewidth.Truncate(l, inner, "…"), color, false)
		for c := end; c < col+boxW-2; c++ {
			g.set(c, r, cell{r: ' '})
		}
		g.text(col+boxW-2, r, " │", border, false)
	}
	g.text(col, row+boxH-1, "╰"+horiz+"╯", border, false)
}

// render draws the grid with lipgloss, one style per run of same-colored
// cells.
func (g *grid) render(theme Theme) string {
	var sb strings.Builder
	var run strings.Builder
	for row := 0; row < g.rows; row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		var cur cell
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if cur.color == "" {
				sb.WriteString(run.String())
			} else {
				sb.WriteString(theme.Foreground(cur.color).Bold(cur.bold).Render(run.String()))
			}
			run.Reset()
		}
		for col := 0; col < g.cols; col++ {
			c := g.at(col, row)
			if c.r == 0 {
				continue
			}
			if c.color != cur.color || c.bold != cur.bold {
				flush()
				cur = c
			}
			run.WriteRune(c.r)
		}
		flush()
	}
	return sb.String()
}

// plain renders the grid without styling.
func (g *grid) plain() string {
	var sb strings.Builder
	for row := 0; row < g.rows; row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		for col := 0; col < g.cols; col++ {
			if c := g.at(col, row); c.r != 0 {
				sb.WriteRune(c.r)
			}
		}
	}
	return sb.String()
}
