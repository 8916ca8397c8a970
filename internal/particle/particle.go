package particle

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultDamping leaves roughly 90% of velocity after one second.
const DefaultDamping = 0.9

// Particle is a point mass integrated with semi-implicit Euler.
type Particle struct {
	position     mgl64.Vec3
	velocity     mgl64.Vec3
	acceleration mgl64.Vec3
	force        mgl64.Vec3
	inverseMass  float64
	damping      float64
}

// New returns a particle at rest at pos with the given mass and damping.
// A mass of zero or less makes the particle immovable.
func New(pos mgl64.Vec3, mass, damping float64) *Particle {
	p := &Particle{position: pos, damping: damping}
	p.SetMass(mass)
	return p
}

// Integrate advances the particle by dt seconds. Velocity is updated first
// and the new velocity moves the position, then the accumulator is cleared.
func (p *Particle) Integrate(dt float64) {
	if p.inverseMass <= 0 {
		return
	}

	acc := p.acceleration.Add(p.force.Mul(p.inverseMass))

	p.velocity = p.velocity.Add(acc.Mul(dt))
	p.velocity = p.velocity.Mul(math.Pow(p.damping, dt))
	p.position = p.position.Add(p.velocity.Mul(dt))

	p.ClearAccumulator()
}

func (p *Particle) SetMass(mass float64) {
	if mass <= 0 {
		p.inverseMass = 0
		return
	}
	p.inverseMass = 1 / mass
}

// Mass returns math.MaxFloat64 for immovable particles.
func (p *Particle) Mass() float64 {
	if p.inverseMass == 0 {
		return math.MaxFloat64
	}
	return 1 / p.inverseMass
}

func (p *Particle) SetInverseMass(inverseMass float64) { p.inverseMass = inverseMass }
func (p *Particle) InverseMass() float64               { return p.inverseMass }

// HasFiniteMass reports whether forces can move the particle.
func (p *Particle) HasFiniteMass() bool { return p.inverseMass > 0 }

func (p *Particle) SetDamping(damping float64) { p.damping = damping }
func (p *Particle) Damping() float64           { return p.damping }

func (p *Particle) SetPosition(pos mgl64.Vec3) { p.position = pos }
func (p *Particle) Position() mgl64.Vec3       { return p.position }

func (p *Particle) SetVelocity(vel mgl64.Vec3) { p.velocity = vel }
func (p *Particle) Velocity() mgl64.Vec3       { return p.velocity }

func (p *Particle) SetAcceleration(acc mgl64.Vec3) { p.acceleration = acc }
func (p *Particle) Acceleration() mgl64.Vec3       { return p.acceleration }

// Force returns the forces accumulated since the last integration.
func (p *Particle) Force() mgl64.Vec3 { return p.force }

func (p *Particle) ClearAccumulator() { p.force = mgl64.Vec3{} }

func (p *Particle) AddForce(f mgl64.Vec3) { p.force = p.force.Add(f) }

// AddImpulse changes velocity immediately by j scaled by inverse mass.
func (p *Particle) AddImpulse(j mgl64.Vec3) {
	p.velocity = p.velocity.Add(j.Mul(p.inverseMass))
}

// KineticEnergy returns ½mv², zero for immovable particles.
func (p *Particle) KineticEnergy() float64 {
	if p.inverseMass <= 0 {
		return 0
	}
	return 0.5 * p.velocity.Dot(p.velocity) / p.inverseMass
}
