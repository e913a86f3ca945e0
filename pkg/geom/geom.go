// Package geom holds the 2D geometry shared by the layout driver and the
// rendering surfaces: points, the arced link shape and the hit tests run
// against them.
package geom

import (
	"math"
	"strconv"
)

// Point is a position in layout coordinates (origin-centered, y down).
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Scale returns p scaled by f.
func (p Point) Scale(f float64) Point {
	return Point{p.X * f, p.Y * f}
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// InCircle reports whether p lies inside (or on) the circle at c with radius r.
func (p Point) InCircle(c Point, r float64) bool {
	return p.Dist(c) <= r
}

// Num formats a coordinate for SVG path data: two decimals, no trailing
// zeros, and never "-0".
func Num(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
