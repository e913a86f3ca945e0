// Package layout implements the force-directed placement of graph nodes.
//
// The simulation is a velocity-Verlet relaxation with "alpha" cooling: each
// tick the forces add to node velocities scaled by alpha, velocities decay by
// a constant factor, and alpha decays geometrically toward alphaTarget. The
// layout is considered stable once alpha drops below alphaMin.
package layout

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/vanderheijden86/castgraph/pkg/debug"
	"github.com/vanderheijden86/castgraph/pkg/graph"
	"github.com/vanderheijden86/castgraph/pkg/metrics"
)

const (
	// DefaultAlphaMin is the alpha below which the simulation has cooled.
	DefaultAlphaMin = 0.001
	// DefaultVelocityDecay is the fraction of velocity lost each tick.
	DefaultVelocityDecay = 0.4
	// DefaultFrameInterval paces Run at roughly 60 ticks per second.
	DefaultFrameInterval = time.Second / 60

	initialRadius = 10
)

// DefaultAlphaDecay cools alpha from 1 to DefaultAlphaMin in 300 ticks.
var DefaultAlphaDecay = 1 - math.Pow(DefaultAlphaMin, 1.0/300)

var initialAngle = math.Pi * (3 - math.Sqrt(5))

// Force contributes velocity to nodes each tick.
type Force interface {
	// Initialize is called when the force is added and whenever the node
	// set changes.
	Initialize(nodes []*graph.Node, rnd *rand.Rand)
	// Apply adds this force's contribution, scaled by alpha, to velocities.
	Apply(alpha float64)
}

type namedForce struct {
	name  string
	force Force
}

// Simulation owns node positions and velocities while it runs.
type Simulation struct {
	nodes  []*graph.Node
	forces []namedForce
	rnd    *rand.Rand

	alpha         float64
	alphaMin      float64
	alphaDecay    float64
	alphaTarget   float64
	velocityDecay float64

	ticks int
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithSeed makes jiggle offsets reproducible.
func WithSeed(seed uint64) Option {
	return func(s *Simulation) {
		s.rnd = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithAlphaMin sets the cooling threshold.
func WithAlphaMin(v float64) Option {
	return func(s *Simulation) {
		s.alphaMin = v
	}
}

// WithAlphaDecay sets the per-tick alpha decay rate.
func WithAlphaDecay(v float64) Option {
	return func(s *Simulation) {
		s.alphaDecay = v
	}
}

// WithVelocityDecay sets the fraction of velocity lost each tick.
func WithVelocityDecay(v float64) Option {
	return func(s *Simulation) {
		s.velocityDecay = 1 - v
	}
}

// New creates a simulation over nodes. Nodes that have not been placed are
// arranged on a phyllotaxis spiral around the origin.
func New(nodes []*graph.Node, opts ...Option) *Simulation {
	s := &Simulation{
		nodes:         nodes,
		alpha:         1,
		alphaMin:      DefaultAlphaMin,
		alphaDecay:    DefaultAlphaDecay,
		velocityDecay: 1 - DefaultVelocityDecay,
	}
	WithSeed(1)(s)
	for _, opt := range opts {
		opt(s)
	}
	s.initializeNodes()
	return s
}

func (s *Simulation) initializeNodes() {
	for i, n := range s.nodes {
		if n.FX != nil {
			n.X = *n.FX
		}
		if n.FY != nil {
			n.Y = *n.FY
		}
		if !n.Placed() || math.IsNaN(n.X) || math.IsNaN(n.Y) {
			radius := initialRadius * math.Sqrt(0.5+float64(i))
			angle := float64(i) * initialAngle
			n.Place(radius*math.Cos(angle), radius*math.Sin(angle))
		}
		if math.IsNaN(n.VX) || math.IsNaN(n.VY) {
			n.VX, n.VY = 0, 0
		}
	}
}

// SetForce adds or replaces the named force. A nil force removes it.
func (s *Simulation) SetForce(name string, f Force) *Simulation {
	for i, nf := range s.forces {
		if nf.name != name {
			continue
		}
		if f == nil {
			s.forces = append(s.forces[:i], s.forces[i+1:]...)
		} else {
			f.Initialize(s.nodes, s.rnd)
			s.forces[i].force = f
		}
		return s
	}
	if f != nil {
		f.Initialize(s.nodes, s.rnd)
		s.forces = append(s.forces, namedForce{name: name, force: f})
	}
	return s
}

// Force returns the named force, or nil.
func (s *Simulation) Force(name string) Force {
	for _, nf := range s.forces {
		if nf.name == name {
			return nf.force
		}
	}
	return nil
}

// Nodes returns the simulated nodes.
func (s *Simulation) Nodes() []*graph.Node {
	return s.nodes
}

// Alpha returns the current alpha.
func (s *Simulation) Alpha() float64 {
	return s.alpha
}

// SetAlpha sets alpha directly, e.g. to reheat a cooled layout.
func (s *Simulation) SetAlpha(a float64) {
	s.alpha = a
}

// SetAlphaTarget sets the value alpha decays toward. A target above alphaMin
// keeps the simulation running, as while a node is being dragged.
func (s *Simulation) SetAlphaTarget(a float64) {
	s.alphaTarget = a
}

// Ticks returns the number of steps taken so far.
func (s *Simulation) Ticks() int {
	return s.ticks
}

// Cooled reports whether alpha has fallen below alphaMin.
func (s *Simulation) Cooled() bool {
	return s.alpha < s.alphaMin
}

// Step advances the simulation by one tick.
func (s *Simulation) Step() {
	defer metrics.Timer(metrics.LayoutTick)()

	s.alpha += (s.alphaTarget - s.alpha) * s.alphaDecay

	for _, nf := range s.forces {
		nf.force.Apply(s.alpha)
	}

	for _, n := range s.nodes {
		if n.FX == nil {
			n.VX *= s.velocityDecay
			n.X += n.VX
		} else {
			n.X = *n.FX
			n.VX = 0
		}
		if n.FY == nil {
			n.VY *= s.velocityDecay
			n.Y += n.VY
		} else {
			n.Y = *n.FY
			n.VY = 0
		}
	}
	s.ticks++
}

// Tick runs n steps synchronously.
func (s *Simulation) Tick(n int) {
	for i := 0; i < n; i++ {
		s.Step()
	}
}

// TicksToCool is the number of steps alpha needs to go from its current value
// below alphaMin, assuming alphaTarget stays below alphaMin.
func (s *Simulation) TicksToCool() int {
	if s.Cooled() {
		return 0
	}
	if s.alphaTarget >= s.alphaMin || s.alphaDecay <= 0 {
		return -1
	}
	n := math.Log((s.alphaMin-s.alphaTarget)/(s.alpha-s.alphaTarget)) / math.Log(1-s.alphaDecay)
	return int(math.Ceil(n))
}

// Settle steps until the simulation cools, bounded by max steps.
func (s *Simulation) Settle(max int) {
	for i := 0; i < max && !s.Cooled(); i++ {
		s.Step()
	}
}

// Run steps the simulation on a timer, calling onTick after every step, until
// it cools or ctx is cancelled. It returns ctx.Err() on cancellation.
func (s *Simulation) Run(ctx context.Context, interval time.Duration, onTick func()) error {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	debug.Log("layout: running %d nodes, alpha=%.3f", len(s.nodes), s.alpha)
	for !s.Cooled() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		s.Step()
		if onTick != nil {
			onTick()
		}
	}
	debug.Log("layout: cooled after %d ticks", s.ticks)
	return nil
}

func jiggle(rnd *rand.Rand) float64 {
	return (rnd.Float64() - 0.5) * 1e-6
}
