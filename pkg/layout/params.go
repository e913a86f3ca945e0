package layout

import (
	"github.com/vanderheijden86/castgraph/pkg/graph"
)

// Force names registered by ForGraph.
const (
	ForceLink   = "link"
	ForceCharge = "charge"
	ForceX      = "x"
	ForceY      = "y"
)

// Params are the tunables of the character-graph layout.
type Params struct {
	LinkDistance   float64 `yaml:"link_distance"`
	Charge         float64 `yaml:"charge"`
	CenterStrength float64 `yaml:"center_strength"`
	Theta          float64 `yaml:"theta"`
	AlphaMin       float64 `yaml:"alpha_min"`
	VelocityDecay  float64 `yaml:"velocity_decay"`
	Seed           uint64  `yaml:"seed"`
}

// DefaultParams returns the layout used for the character graph.
func DefaultParams() Params {
	return Params{
		LinkDistance:   100,
		Charge:         -600,
		CenterStrength: 0.1,
		Theta:          0.9,
		AlphaMin:       DefaultAlphaMin,
		VelocityDecay:  DefaultVelocityDecay,
		Seed:           1,
	}
}

// withDefaults fills zero fields from DefaultParams. Charge and Seed are
// left alone since zero is meaningful for both.
func (p Params) withDefaults() Params {
	d := DefaultParams()
	if p.LinkDistance <= 0 {
		p.LinkDistance = d.LinkDistance
	}
	if p.CenterStrength <= 0 {
		p.CenterStrength = d.CenterStrength
	}
	if p.Theta <= 0 {
		p.Theta = d.Theta
	}
	if p.AlphaMin <= 0 {
		p.AlphaMin = d.AlphaMin
	}
	if p.VelocityDecay <= 0 || p.VelocityDecay >= 1 {
		p.VelocityDecay = d.VelocityDecay
	}
	return p
}

// ForGraph creates a simulation over g's nodes with link, charge and
// centering forces.
func ForGraph(g *graph.Graph, p Params) *Simulation {
	p = p.withDefaults()
	sim := New(g.Nodes,
		WithSeed(p.Seed),
		WithAlphaMin(p.AlphaMin),
		WithVelocityDecay(p.VelocityDecay),
	)

	charge := NewManyBodyForce(p.Charge)
	charge.Theta = p.Theta

	sim.SetForce(ForceLink, NewLinkForce(g.Links, p.LinkDistance)).
		SetForce(ForceCharge, charge).
		SetForce(ForceX, NewPositionForce(AxisX, 0, p.CenterStrength)).
		SetForce(ForceY, NewPositionForce(AxisY, 0, p.CenterStrength))
	return sim
}
