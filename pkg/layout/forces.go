package layout

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/barneshut"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vanderheijden86/castgraph/pkg/graph"
)

// LinkForce pulls the endpoints of each link toward a rest distance. Links
// touching high-degree nodes are weaker, and the lower-degree endpoint moves
// more, so hubs stay put while leaves swing around them.
type LinkForce struct {
	Distance   float64
	Iterations int

	links    []*graph.Link
	strength []float64
	bias     []float64
	rnd      *rand.Rand
}

// NewLinkForce creates a link force with the given rest distance.
func NewLinkForce(links []*graph.Link, distance float64) *LinkForce {
	return &LinkForce{Distance: distance, Iterations: 1, links: links}
}

func (f *LinkForce) Initialize(nodes []*graph.Node, rnd *rand.Rand) {
	f.rnd = rnd
	count := make(map[*graph.Node]int, len(nodes))
	for _, l := range f.links {
		count[l.Source]++
		count[l.Target]++
	}
	f.strength = make([]float64, len(f.links))
	f.bias = make([]float64, len(f.links))
	for i, l := range f.links {
		cs, ct := float64(count[l.Source]), float64(count[l.Target])
		f.strength[i] = 1 / math.Min(cs, ct)
		f.bias[i] = cs / (cs + ct)
	}
}

func (f *LinkForce) Apply(alpha float64) {
	for k := 0; k < f.Iterations; k++ {
		for i, l := range f.links {
			s, t := l.Source, l.Target
			x := t.X + t.VX - s.X - s.VX
			if x == 0 {
				x = jiggle(f.rnd)
			}
			y := t.Y + t.VY - s.Y - s.VY
			if y == 0 {
				y = jiggle(f.rnd)
			}
			d := math.Sqrt(x*x + y*y)
			d = (d - f.Distance) / d * alpha * f.strength[i]
			x *= d
			y *= d

			b := f.bias[i]
			t.VX -= x * b
			t.VY -= y * b
			b = 1 - b
			s.VX += x * b
			s.VY += y * b
		}
	}
}

// ManyBodyForce applies a pairwise force between all nodes, approximated
// with a Barnes-Hut quadtree. A negative strength repels.
type ManyBodyForce struct {
	Strength     float64
	Theta        float64
	DistanceMin2 float64
	DistanceMax2 float64

	nodes     []*graph.Node
	particles []barneshut.Particle2
	rnd       *rand.Rand
}

// NewManyBodyForce creates a many-body force with the given strength.
func NewManyBodyForce(strength float64) *ManyBodyForce {
	return &ManyBodyForce{
		Strength:     strength,
		Theta:        0.9,
		DistanceMin2: 1,
		DistanceMax2: math.Inf(1),
	}
}

type particle struct {
	n *graph.Node
}

func (p particle) Coord2() r2.Vec { return r2.Vec{X: p.n.X, Y: p.n.Y} }
func (p particle) Mass() float64  { return 1 }

func (f *ManyBodyForce) Initialize(nodes []*graph.Node, rnd *rand.Rand) {
	f.nodes = nodes
	f.rnd = rnd
	f.particles = make([]barneshut.Particle2, len(nodes))
	for i, n := range nodes {
		f.particles[i] = particle{n: n}
	}
}

func (f *ManyBodyForce) Apply(alpha float64) {
	if len(f.nodes) < 2 {
		return
	}
	if f.coincident() {
		f.applyExact(alpha)
		return
	}
	plane, err := barneshut.NewPlane(f.particles)
	if err != nil {
		f.applyExact(alpha)
		return
	}
	for i, p := range f.particles {
		v := plane.ForceOn(p, f.Theta, f.pair)
		f.nodes[i].VX += v.X * alpha
		f.nodes[i].VY += v.Y * alpha
	}
}

// pair is the force on p1 from the mass m2 at offset v. p2 is nil when m2 is
// an aggregate of several nodes.
func (f *ManyBodyForce) pair(p1, p2 barneshut.Particle2, _, m2 float64, v r2.Vec) r2.Vec {
	if p2 != nil && p1 == p2 {
		return r2.Vec{}
	}
	d2 := v.X*v.X + v.Y*v.Y
	if d2 >= f.DistanceMax2 {
		return r2.Vec{}
	}
	if d2 == 0 {
		v = r2.Vec{X: jiggle(f.rnd), Y: jiggle(f.rnd)}
		d2 = v.X*v.X + v.Y*v.Y
	}
	if d2 < f.DistanceMin2 {
		d2 = math.Sqrt(f.DistanceMin2 * d2)
	}
	return r2.Scale(f.Strength*m2/d2, v)
}

// applyExact is the O(n²) fallback used when the quadtree cannot separate
// the particles.
func (f *ManyBodyForce) applyExact(alpha float64) {
	for i, p1 := range f.particles {
		var sum r2.Vec
		for j, p2 := range f.particles {
			if i == j {
				continue
			}
			v := r2.Sub(p2.Coord2(), p1.Coord2())
			sum = r2.Add(sum, f.pair(p1, nil, 1, 1, v))
		}
		f.nodes[i].VX += sum.X * alpha
		f.nodes[i].VY += sum.Y * alpha
	}
}

func (f *ManyBodyForce) coincident() bool {
	seen := make(map[r2.Vec]bool, len(f.particles))
	for _, p := range f.particles {
		c := p.Coord2()
		if seen[c] {
			return true
		}
		seen[c] = true
	}
	return false
}

// Axis selects the coordinate a PositionForce acts on.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// PositionForce pulls every node toward Target along one axis, with a
// strength proportional to the distance.
type PositionForce struct {
	Axis     Axis
	Target   float64
	Strength float64

	nodes []*graph.Node
}

// NewPositionForce creates a centering force along axis toward target.
func NewPositionForce(axis Axis, target, strength float64) *PositionForce {
	return &PositionForce{Axis: axis, Target: target, Strength: strength}
}

func (f *PositionForce) Initialize(nodes []*graph.Node, _ *rand.Rand) {
	f.nodes = nodes
}

func (f *PositionForce) Apply(alpha float64) {
	k := f.Strength * alpha
	for _, n := range f.nodes {
		if f.Axis == AxisX {
			n.VX += (f.Target - n.X) * k
		} else {
			n.VY += (f.Target - n.Y) * k
		}
	}
}
