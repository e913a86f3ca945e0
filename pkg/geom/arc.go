package geom

import (
	"math"
	"strings"
)

// Arc is the curved shape of a link: a circular arc from From to To whose
// radius equals the straight-line distance between them. With that radius
// the arc always subtends 60°, so curvature looks the same at every length.
// The arc bends clockwise on screen (SVG sweep-flag 1, small arc).
type Arc struct {
	From   Point
	To     Point
	Radius float64
}

// Sweep is the angle every link arc subtends.
const Sweep = math.Pi / 3

// LinkArc returns the arc drawn between two endpoints.
func LinkArc(from, to Point) Arc {
	return Arc{From: from, To: to, Radius: from.Dist(to)}
}

// Degenerate reports whether both endpoints coincide.
func (a Arc) Degenerate() bool {
	return a.Radius == 0
}

// Path returns SVG path data for the arc.
func (a Arc) Path() string {
	var b strings.Builder
	b.WriteString("M")
	b.WriteString(Num(a.From.X))
	b.WriteString(",")
	b.WriteString(Num(a.From.Y))
	b.WriteString(" A")
	b.WriteString(Num(a.Radius))
	b.WriteString(",")
	b.WriteString(Num(a.Radius))
	b.WriteString(" 0 0,1 ")
	b.WriteString(Num(a.To.X))
	b.WriteString(",")
	b.WriteString(Num(a.To.Y))
	return b.String()
}

// Center returns the center of the arc's circle. For a degenerate arc it is
// the shared endpoint.
func (a Arc) Center() Point {
	if a.Degenerate() {
		return a.From
	}
	d := a.To.Sub(a.From)
	mid := a.From.Add(d.Scale(0.5))
	// Unit normal to the right of travel on a y-down screen.
	n := Point{-d.Y, d.X}.Scale(1 / a.Radius)
	// The center sits on an equilateral triangle with the two endpoints.
	return mid.Add(n.Scale(a.Radius * math.Sqrt(3) / 2))
}

// StartAngle is the angle of From as seen from the center. Angles grow
// clockwise on screen.
func (a Arc) StartAngle() float64 {
	c := a.Center()
	return math.Atan2(a.From.Y-c.Y, a.From.X-c.X)
}

// PointAt returns the point a fraction t (0..1) along the arc.
func (a Arc) PointAt(t float64) Point {
	if a.Degenerate() {
		return a.From
	}
	c := a.Center()
	theta := a.StartAngle() + t*Sweep
	return Point{c.X + a.Radius*math.Cos(theta), c.Y + a.Radius*math.Sin(theta)}
}

// EndDirection is the unit tangent at To, pointing along the direction of
// travel. Arrowheads are oriented along it.
func (a Arc) EndDirection() Point {
	if a.Degenerate() {
		return Point{1, 0}
	}
	theta := a.StartAngle() + Sweep
	return Point{-math.Sin(theta), math.Cos(theta)}
}

// DistanceTo returns the shortest distance from p to the arc.
func (a Arc) DistanceTo(p Point) float64 {
	if a.Degenerate() {
		return p.Dist(a.From)
	}
	c := a.Center()
	start := a.StartAngle()
	theta := math.Atan2(p.Y-c.Y, p.X-c.X)
	delta := math.Mod(theta-start, 2*math.Pi)
	if delta < 0 {
		delta += 2 * math.Pi
	}
	if delta <= Sweep {
		return math.Abs(p.Dist(c) - a.Radius)
	}
	return math.Min(p.Dist(a.From), p.Dist(a.To))
}
