package geom

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

const eps = 1e-6

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestLinkArc_Path(t *testing.T) {
	a := LinkArc(Pt(0, 0), Pt(30, 40))

	if a.Radius != 50 {
		t.Errorf("radius = %v, want 50", a.Radius)
	}
	if got, want := a.Path(), "M0,0 A50,50 0 0,1 30,40"; got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
}

func TestNum(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{-0.001, "0"},
		{1.5, "1.5"},
		{-12.346, "-12.35"},
		{100, "100"},
	}
	for _, tt := range tests {
		if got := Num(tt.in); got != tt.want {
			t.Errorf("Num(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestArc_CenterAndEndpoints(t *testing.T) {
	a := LinkArc(Pt(0, 0), Pt(1, 0))
	c := a.Center()

	if !near(c.X, 0.5, eps) || !near(c.Y, math.Sqrt(3)/2, eps) {
		t.Errorf("center = %+v, want (0.5, %.4f)", c, math.Sqrt(3)/2)
	}

	start := a.PointAt(0)
	end := a.PointAt(1)
	if start.Dist(a.From) > eps || end.Dist(a.To) > eps {
		t.Errorf("PointAt(0)=%+v PointAt(1)=%+v, want endpoints", start, end)
	}

	// Clockwise on a y-down screen bulges towards negative y for a
	// left-to-right link.
	if mid := a.PointAt(0.5); mid.Y >= 0 {
		t.Errorf("arc midpoint %+v should bulge upwards", mid)
	}
}

func TestArc_DistanceTo(t *testing.T) {
	a := LinkArc(Pt(-50, 0), Pt(50, 0))

	if d := a.DistanceTo(a.PointAt(0.3)); d > eps {
		t.Errorf("point on arc has distance %v", d)
	}
	if d := a.DistanceTo(a.Center()); !near(d, a.Radius, eps) {
		t.Errorf("center distance = %v, want radius %v", d, a.Radius)
	}
	// Beyond the arc's span the nearest point is an endpoint.
	if d := a.DistanceTo(Pt(-60, 0)); !near(d, 10, eps) {
		t.Errorf("distance past the start = %v, want 10", d)
	}
}

func TestArc_Degenerate(t *testing.T) {
	a := LinkArc(Pt(3, 4), Pt(3, 4))

	if !a.Degenerate() {
		t.Fatal("coincident endpoints should be degenerate")
	}
	if a.Center() != Pt(3, 4) {
		t.Errorf("center = %+v", a.Center())
	}
	if a.PointAt(0.5) != Pt(3, 4) {
		t.Errorf("PointAt = %+v", a.PointAt(0.5))
	}
	if d := a.DistanceTo(Pt(6, 8)); !near(d, 5, eps) {
		t.Errorf("distance = %v, want 5", d)
	}
	if got := a.Path(); got != "M3,4 A0,0 0 0,1 3,4" {
		t.Errorf("path = %q", got)
	}
}

func TestArc_EndDirection(t *testing.T) {
	a := LinkArc(Pt(0, 0), Pt(100, 0))
	dir := a.EndDirection()

	if !near(math.Hypot(dir.X, dir.Y), 1, eps) {
		t.Errorf("direction %+v is not a unit vector", dir)
	}
	// Step back along the tangent and we should be close to the arc.
	back := a.To.Sub(dir.Scale(1))
	if d := a.DistanceTo(back); d > 0.01 {
		t.Errorf("tangent leaves the arc too quickly: %v", d)
	}
}

// The radius always equals the endpoint distance, and both endpoints lie on
// the arc's circle.
func TestProperty_ArcRadiusIsEndpointDistance(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		coord := rapid.Float64Range(-1e4, 1e4)
		from := Pt(coord.Draw(t, "x1"), coord.Draw(t, "y1"))
		to := Pt(coord.Draw(t, "x2"), coord.Draw(t, "y2"))
		a := LinkArc(from, to)

		if a.Radius != math.Hypot(to.X-from.X, to.Y-from.Y) {
			t.Fatalf("radius %v != distance", a.Radius)
		}
		if a.Degenerate() {
			return
		}
		c := a.Center()
		tol := 1e-6 * math.Max(1, a.Radius)
		if !near(c.Dist(from), a.Radius, tol) || !near(c.Dist(to), a.Radius, tol) {
			t.Fatalf("endpoints not on circle: %v %v vs %v", c.Dist(from), c.Dist(to), a.Radius)
		}
	})
}
