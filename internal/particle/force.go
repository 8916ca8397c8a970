package particle

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/softbody/internal/dynamo"
)

// ForceGenerator adds force to a particle once per step.
type ForceGenerator interface {
	UpdateForce(p *Particle, dt float64)
}

// Gravity applies G scaled by mass to particles with finite mass.
type Gravity struct {
	G mgl64.Vec3
}

func NewGravity(g mgl64.Vec3) *Gravity {
	return &Gravity{G: g}
}

func (g *Gravity) UpdateForce(p *Particle, _ float64) {
	if !p.HasFiniteMass() {
		return
	}
	p.AddForce(g.G.Mul(p.Mass()))
}

// SpringDamper connects a particle to Other. The damping term is
// proportional to dot(relative velocity, spring force), so its strength
// follows the current displacement.
type SpringDamper struct {
	Other          *Particle
	SpringConstant float64
	RestLength     float64
	Damping        float64
}

func NewSpringDamper(other *Particle, springConstant, restLength, damping float64) *SpringDamper {
	return &SpringDamper{
		Other:          other,
		SpringConstant: springConstant,
		RestLength:     restLength,
		Damping:        damping,
	}
}

func (s *SpringDamper) UpdateForce(p *Particle, _ float64) {
	spring := springForce(p.Position().Sub(s.Other.Position()), s.SpringConstant, s.RestLength)
	p.AddForce(spring)

	rel := p.Velocity().Sub(s.Other.Velocity())
	mag := rel.Dot(spring) * s.Damping
	p.AddForce(dynamo.SafeNormalize(spring).Mul(-mag))
}

// AnchoredSpring ties a particle to a fixed point in world space.
type AnchoredSpring struct {
	Anchor         mgl64.Vec3
	SpringConstant float64
	RestLength     float64
}

func NewAnchoredSpring(anchor mgl64.Vec3, springConstant, restLength float64) *AnchoredSpring {
	return &AnchoredSpring{Anchor: anchor, SpringConstant: springConstant, RestLength: restLength}
}

func (s *AnchoredSpring) UpdateForce(p *Particle, _ float64) {
	p.AddForce(springForce(p.Position().Sub(s.Anchor), s.SpringConstant, s.RestLength))
}

// Drag opposes motion with k1·|v| + k2·|v|².
type Drag struct {
	K1, K2 float64
}

func NewDrag(k1, k2 float64) *Drag {
	return &Drag{K1: k1, K2: k2}
}

func (d *Drag) UpdateForce(p *Particle, _ float64) {
	v := p.Velocity()
	speed := v.Len()
	coeff := d.K1*speed + d.K2*speed*speed
	p.AddForce(dynamo.SafeNormalize(v).Mul(-coeff))
}

// springForce is Hooke's law along d, pushing toward the rest length.
// A zero-length d yields no force.
func springForce(d mgl64.Vec3, k, rest float64) mgl64.Vec3 {
	mag := k * (d.Len() - rest)
	return dynamo.SafeNormalize(d).Mul(-mag)
}
