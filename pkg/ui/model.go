// Package ui is the terminal surface for castgraph. It rasterizes each
// frame of the layout to terminal cells, turns mouse motion into pointer
// events for the driver, and draws the tooltip as a floating box.
package ui

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/castgraph/pkg/debug"
	"github.com/vanderheijden86/castgraph/pkg/driver"
	"github.com/vanderheijden86/castgraph/pkg/geom"
	"github.com/vanderheijden86/castgraph/pkg/graph"
	"github.com/vanderheijden86/castgraph/pkg/layout"
	"github.com/vanderheijden86/castgraph/pkg/metrics"
	"github.com/vanderheijden86/castgraph/pkg/render"
)

// Rows reserved for the header and footer.
const chromeRows = 2

// Options configures the viewer.
type Options struct {
	Render render.Options
	// FrameInterval is the delay between simulation steps.
	FrameInterval time.Duration
	ShowHelp      bool
	// SnapshotDir and SnapshotFormat control the snapshot key.
	SnapshotDir    string
	SnapshotFormat string
	// Clipboard receives copied text. Defaults to the system clipboard.
	Clipboard func(string) error
	// Changes signals that the input documents changed on disk; Reload
	// then fetches and builds the new graph. Both are optional.
	Changes <-chan struct{}
	Reload  func() (*graph.Graph, error)
}

// tickMsg advances the layout by one frame.
type tickMsg time.Time

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type dataChangedMsg struct{}

type reloadedMsg struct {
	g   *graph.Graph
	err error
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return dataChangedMsg{}
	}
}

func reloadCmd(reload func() (*graph.Graph, error)) tea.Cmd {
	return func() tea.Msg {
		g, err := reload()
		return reloadedMsg{g: g, err: err}
	}
}

// screen is the driver's surface. It keeps the latest frame and tooltip for
// View to rasterize.
type screen struct {
	frame driver.Frame
}

func (s *screen) Draw(f driver.Frame) {
	s.frame = f
}

func (s *screen) DrawTooltip(v driver.TooltipView) {
	s.frame.Tooltip = v
}

// Model is the Bubble Tea model for the graph viewer.
type Model struct {
	drv   *driver.Driver
	dopts driver.Options
	scr   *screen
	theme Theme
	opts  Options

	keys     keyMap
	help     help.Model
	helpView viewport.Model
	showHelp bool

	width, height int
	proj          projection
	ready         bool
	paused        bool

	status    string
	statusErr bool
}

// New creates a viewer for g. The driver is created here so that its
// surface is this model.
func New(g *graph.Graph, dopts driver.Options, opts Options) Model {
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = layout.DefaultFrameInterval
	}
	if opts.SnapshotFormat == "" {
		opts.SnapshotFormat = "svg"
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}

	scr := &screen{}
	drv := driver.New(g, scr, dopts)
	drv.Redraw()

	theme := DefaultTheme(lipgloss.DefaultRenderer())
	h := help.New()
	h.Styles.ShortKey = theme.Renderer.NewStyle().Foreground(theme.Primary)
	h.Styles.ShortDesc = theme.Footer

	return Model{
		drv:      drv,
		dopts:    dopts,
		scr:      scr,
		theme:    theme,
		opts:     opts,
		keys:     defaultKeyMap(),
		help:     h,
		showHelp: opts.ShowHelp,
	}
}

// Driver returns the driver behind the viewer.
func (m Model) Driver() *driver.Driver {
	return m.drv
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.opts.FrameInterval), waitForChange(m.opts.Changes))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.proj = newProjection(m.opts.Render.Canvas, m.width, m.height-chromeRows)
		m.fitHitArea()
		m.helpView = viewport.New(m.width, m.height-chromeRows)
		m.helpView.SetContent(renderHelp(m.width - 4))
		m.help.Width = m.width
		m.ready = true
		return m, nil

	case tickMsg:
		switch {
		case !m.paused && !m.drv.Cooled():
			m.drv.Step()
		case m.scr.frame.Tooltip.Fading:
			m.drv.Redraw()
		}
		return m, tickCmd(m.opts.FrameInterval)

	case dataChangedMsg:
		if m.opts.Reload == nil {
			return m, waitForChange(m.opts.Changes)
		}
		m.setStatus("input changed, reloading", false)
		return m, tea.Batch(reloadCmd(m.opts.Reload), waitForChange(m.opts.Changes))

	case reloadedMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("reload: %v", msg.err), true)
			return m, nil
		}
		m.swapGraph(msg.g)
		m.setStatus(fmt.Sprintf("reloaded %d characters, %d interactions", len(msg.g.Nodes), len(msg.g.Links)), false)
		return m, nil

	case tea.MouseMsg:
		if m.showHelp {
			var cmd tea.Cmd
			m.helpView, cmd = m.helpView.Update(msg)
			return m, cmd
		}
		if msg.Action == tea.MouseActionMotion {
			m.pointer(msg.X, msg.Y)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// pointer forwards a mouse position in screen cells to the driver. Rows
// outside the canvas count as leaving it.
func (m *Model) pointer(x, y int) {
	row := y - 1
	if !m.proj.valid() || row < 0 || row >= m.proj.rows || x < 0 || x >= m.proj.cols {
		m.drv.PointerLeave()
		return
	}
	// A node occupies its whole cell.
	nodes := m.drv.Graph().Nodes
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		if col, r, ok := m.proj.cell(geom.Pt(n.X, n.Y)); ok && col == x && r == row {
			m.drv.PointerMove(geom.Pt(n.X, n.Y))
			return
		}
	}
	m.drv.PointerMove(m.proj.layout(x, row))
}

// fitHitArea scales hit testing to the cell size. Any cell a link is drawn
// through has its center within half a cell diagonal of the arc, and a node
// radius under half a cell keeps nodes from claiming neighbouring cells.
func (m *Model) fitHitArea() {
	if !m.proj.valid() {
		return
	}
	cw, ch := m.proj.cellSize()
	m.drv.SetHitArea(math.Min(cw, ch)/4, math.Hypot(cw, ch)/2)
}

// swapGraph replaces the driven graph. Characters present in both graphs
// keep their positions so the layout continues from where it was.
func (m *Model) swapGraph(g *graph.Graph) {
	old := m.drv.Graph()
	for _, n := range g.Nodes {
		if prev, ok := old.Node(n.ID); ok {
			n.Place(prev.X, prev.Y)
		}
	}
	m.drv = driver.New(g, m.scr, m.dopts)
	m.fitHitArea()
	m.paused = false
	m.drv.Redraw()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.Quit) && msg.String() == "ctrl+c":
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Leave), key.Matches(msg, m.keys.Quit):
			m.showHelp = false
			return m, nil
		}
		var cmd tea.Cmd
		m.helpView, cmd = m.helpView.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		m.helpView.GotoTop()
	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
		if m.paused {
			m.setStatus("paused", false)
		} else {
			m.setStatus("resumed", false)
		}
	case key.Matches(msg, m.keys.Reheat):
		m.drv.Simulation().SetAlpha(1)
		m.paused = false
		m.setStatus("reheated", false)
	case key.Matches(msg, m.keys.Copy):
		m.copyTooltip()
	case key.Matches(msg, m.keys.Snapshot):
		m.snapshot()
	case key.Matches(msg, m.keys.Leave):
		m.drv.PointerLeave()
	}
	return m, nil
}

func (m *Model) copyTooltip() {
	c := m.drv.Tooltip().Content()
	if m.drv.Hovered() == nil || c.Empty() {
		m.setStatus("nothing to copy: hover a character or an arrow", true)
		return
	}
	if err := m.opts.Clipboard(strings.Join(c.Plain(), "\n")); err != nil {
		m.setStatus(fmt.Sprintf("clipboard: %v", err), true)
		return
	}
	m.setStatus("copied tooltip to clipboard", false)
}

func (m *Model) snapshot() {
	f := m.drv.Frame()
	name := fmt.Sprintf("castgraph-%s.%s", f.At.Format("20060102-150405"), m.opts.SnapshotFormat)
	path := filepath.Join(m.opts.SnapshotDir, name)
	err := render.SaveSnapshot(render.SnapshotOptions{
		Path:    path,
		Format:  m.opts.SnapshotFormat,
		Frame:   f,
		Options: m.opts.Render,
	})
	if err != nil {
		m.setStatus(fmt.Sprintf("snapshot: %v", err), true)
		return
	}
	m.setStatus("saved "+path, false)
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status, m.statusErr = s, isErr
	debug.Log("ui: %s", s)
}

func (m Model) View() string {
	defer metrics.Timer(metrics.UIRender)()

	if !m.ready {
		return "Initializing..."
	}

	var body string
	if m.showHelp {
		body = m.helpView.View()
	} else {
		body = rasterize(m.scr.frame, m.proj, m.theme, m.drv.Hovered()).render(m.theme)
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.header(), body, m.footer())
}

func (m Model) header() string {
	f := m.scr.frame
	state := "settling"
	switch {
	case m.paused:
		state = "paused"
	case f.Cooled:
		state = "settled"
	}
	text := fmt.Sprintf("castgraph  %d characters  %d interactions  tick %d  alpha %.3f  %s",
		len(f.Nodes), len(f.Links), f.Tick, f.Alpha, state)
	return m.theme.Header.Width(m.width).MaxWidth(m.width).Render(text)
}

func (m Model) footer() string {
	if m.status != "" {
		if m.statusErr {
			return m.theme.Error.MaxWidth(m.width).Render(m.status)
		}
		return m.theme.Status.MaxWidth(m.width).Render(m.status)
	}
	return m.help.View(m.keys)
}

// Run starts the viewer and blocks until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
