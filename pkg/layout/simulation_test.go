package layout

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/vanderheijden86/castgraph/pkg/graph"
	"github.com/vanderheijden86/castgraph/pkg/model"
)

func triangle() *graph.Graph {
	return graph.Build(model.Dataset{
		Edges: []model.EdgeRecord{
			{Source: "a", Target: "b", Interaction: "friend"},
			{Source: "b", Target: "c", Interaction: "friend"},
			{Source: "c", Target: "a", Interaction: "rival"},
		},
	}, graph.DefaultOptions())
}

func star(n int) *graph.Graph {
	ds := model.Dataset{}
	for i := 0; i < n; i++ {
		ds.Edges = append(ds.Edges, model.EdgeRecord{
			Source: "hub", Target: string(rune('a' + i)), Interaction: "knows",
		})
	}
	return graph.Build(ds, graph.DefaultOptions())
}

func TestNew_PlacesNodesOnSpiral(t *testing.T) {
	g := triangle()
	New(g.Nodes)

	first := g.Nodes[0]
	if math.Abs(first.X-10*math.Sqrt(0.5)) > 1e-9 || math.Abs(first.Y) > 1e-9 {
		t.Errorf("node 0 at (%v, %v), want (%v, 0)", first.X, first.Y, 10*math.Sqrt(0.5))
	}
	for i, n := range g.Nodes {
		r := math.Hypot(n.X, n.Y)
		want := 10 * math.Sqrt(0.5+float64(i))
		if math.Abs(r-want) > 1e-9 {
			t.Errorf("node %d radius = %v, want %v", i, r, want)
		}
	}
}

func TestNew_KeepsPlacedNodes(t *testing.T) {
	g := triangle()
	g.Nodes[1].Place(42, -7)
	New(g.Nodes)

	if g.Nodes[1].X != 42 || g.Nodes[1].Y != -7 {
		t.Errorf("placed node moved to (%v, %v)", g.Nodes[1].X, g.Nodes[1].Y)
	}
}

func TestSimulation_CoolsInAboutThreeHundredTicks(t *testing.T) {
	sim := ForGraph(star(6), DefaultParams())
	if got := sim.TicksToCool(); got < 299 || got > 302 {
		t.Errorf("TicksToCool = %d, want ~300", got)
	}

	sim.Settle(1000)
	if !sim.Cooled() {
		t.Fatalf("not cooled after %d ticks, alpha=%v", sim.Ticks(), sim.Alpha())
	}
	if sim.Ticks() < 299 || sim.Ticks() > 302 {
		t.Errorf("cooled after %d ticks, want ~300", sim.Ticks())
	}
}

func TestSimulation_CentroidStaysNearOrigin(t *testing.T) {
	g := star(8)
	sim := ForGraph(g, DefaultParams())
	sim.Settle(1000)

	var cx, cy float64
	for _, n := range g.Nodes {
		if math.IsNaN(n.X) || math.IsNaN(n.Y) {
			t.Fatalf("node %s has NaN position", n.ID)
		}
		cx += n.X
		cy += n.Y
	}
	cx /= float64(len(g.Nodes))
	cy /= float64(len(g.Nodes))
	if math.Hypot(cx, cy) > 25 {
		t.Errorf("centroid = (%.2f, %.2f), want near origin", cx, cy)
	}
}

func TestSimulation_SpreadsNodesApart(t *testing.T) {
	g := triangle()
	sim := ForGraph(g, DefaultParams())
	sim.Settle(1000)

	for i := range g.Nodes {
		for j := i + 1; j < len(g.Nodes); j++ {
			a, b := g.Nodes[i], g.Nodes[j]
			if d := math.Hypot(a.X-b.X, a.Y-b.Y); d < 50 {
				t.Errorf("%s and %s only %.1f apart", a.ID, b.ID, d)
			}
		}
	}
}

func TestSimulation_DeterministicWithSeed(t *testing.T) {
	run := func() []float64 {
		g := star(5)
		p := DefaultParams()
		p.Seed = 7
		sim := ForGraph(g, p)
		sim.Tick(120)
		var out []float64
		for _, n := range g.Nodes {
			out = append(out, n.X, n.Y)
		}
		return out
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("coordinate %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestSimulation_PinnedNodeStays(t *testing.T) {
	g := star(4)
	hub := node(t, g, "hub")
	hub.Pin(30, 30)

	sim := ForGraph(g, DefaultParams())
	sim.Tick(50)

	if hub.X != 30 || hub.Y != 30 {
		t.Errorf("pinned hub moved to (%v, %v)", hub.X, hub.Y)
	}
	if hub.VX != 0 || hub.VY != 0 {
		t.Errorf("pinned hub has velocity (%v, %v)", hub.VX, hub.VY)
	}
}

func TestSimulation_AlphaTargetKeepsItWarm(t *testing.T) {
	sim := ForGraph(triangle(), DefaultParams())
	sim.SetAlphaTarget(0.3)
	sim.Tick(2000)

	if sim.Cooled() {
		t.Error("simulation cooled despite alpha target")
	}
	if sim.TicksToCool() != -1 {
		t.Errorf("TicksToCool = %d, want -1 while held warm", sim.TicksToCool())
	}
}

func TestSimulation_SetForceReplacesAndRemoves(t *testing.T) {
	g := triangle()
	sim := ForGraph(g, DefaultParams())

	if sim.Force(ForceCharge) == nil {
		t.Fatal("charge force missing")
	}
	weaker := NewManyBodyForce(-10)
	sim.SetForce(ForceCharge, weaker)
	if sim.Force(ForceCharge) != Force(weaker) {
		t.Error("charge force not replaced")
	}
	sim.SetForce(ForceCharge, nil)
	if sim.Force(ForceCharge) != nil {
		t.Error("charge force not removed")
	}
	if sim.Force(ForceLink) == nil {
		t.Error("removing charge dropped the link force")
	}
}

func TestSimulation_RunStopsWhenCooled(t *testing.T) {
	sim := New(triangle().Nodes, WithAlphaDecay(0.5))
	frames := 0

	err := sim.Run(context.Background(), time.Millisecond, func() { frames++ })
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !sim.Cooled() {
		t.Error("Run returned before cooling")
	}
	if frames != sim.Ticks() {
		t.Errorf("onTick called %d times for %d ticks", frames, sim.Ticks())
	}
}

func TestSimulation_RunHonorsCancel(t *testing.T) {
	sim := ForGraph(triangle(), DefaultParams())
	ctx, cancel := context.WithCancel(context.Background())

	err := sim.Run(ctx, time.Millisecond, func() {
		if sim.Ticks() == 3 {
			cancel()
		}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
	if sim.Cooled() {
		t.Error("cancelled run should not have cooled")
	}
}

func node(t testing.TB, g *graph.Graph, id string) *graph.Node {
	t.Helper()
	n, ok := g.Node(id)
	if !ok {
		t.Fatalf("node %q not in graph", id)
	}
	return n
}
