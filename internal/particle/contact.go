package particle

import "github.com/go-gl/mathgl/mgl64"

// Contact is a single instantaneous contact. Particles[1] is nil when the
// first particle touches static geometry. Normal points away from the
// second participant, as seen from Particles[0].
type Contact struct {
	Particles   [2]*Particle
	Restitution float64
	Normal      mgl64.Vec3
	Penetration float64
	Point       mgl64.Vec3

	// movement is the positional correction applied by the last Resolve.
	movement [2]mgl64.Vec3
}

// Resolve applies the velocity impulse and then the positional correction.
// Contacts between two immovable participants are left untouched.
func (c *Contact) Resolve(dt float64) {
	if !c.Resolvable() {
		return
	}
	c.resolveVelocity(dt)
	c.resolveInterpenetration()
}

// Resolvable reports whether at least one participant can move.
func (c *Contact) Resolvable() bool {
	return c.Particles[0] != nil && c.totalInverseMass() > 0
}

// SeparatingVelocity is negative when the participants are closing.
func (c *Contact) SeparatingVelocity() float64 {
	if c.Particles[0] == nil {
		return 0
	}
	rel := c.Particles[0].Velocity()
	if c.Particles[1] != nil {
		rel = rel.Sub(c.Particles[1].Velocity())
	}
	return rel.Dot(c.Normal)
}

func (c *Contact) totalInverseMass() float64 {
	total := c.Particles[0].InverseMass()
	if c.Particles[1] != nil {
		total += c.Particles[1].InverseMass()
	}
	return total
}

func (c *Contact) resolveVelocity(dt float64) {
	sepVel := c.SeparatingVelocity()
	if sepVel > 0 {
		return
	}

	newSepVel := -sepVel * c.Restitution

	// Closing velocity built up by constant acceleration during this step
	// is removed so resting contacts do not gain energy from gravity.
	accVel := c.Particles[0].Acceleration()
	if c.Particles[1] != nil {
		accVel = accVel.Sub(c.Particles[1].Acceleration())
	}
	accSepVel := accVel.Dot(c.Normal) * dt
	if accSepVel < 0 {
		newSepVel += c.Restitution * accSepVel
		if newSepVel < 0 {
			newSepVel = 0
		}
	}

	totalInverseMass := c.totalInverseMass()
	if totalInverseMass <= 0 {
		return
	}

	deltaVel := newSepVel - sepVel
	impulsePerIMass := c.Normal.Mul(deltaVel / totalInverseMass)

	c.Particles[0].AddImpulse(impulsePerIMass)
	if c.Particles[1] != nil {
		c.Particles[1].AddImpulse(impulsePerIMass.Mul(-1))
	}
}

func (c *Contact) resolveInterpenetration() {
	c.movement = [2]mgl64.Vec3{}
	if c.Penetration <= 0 {
		return
	}

	totalInverseMass := c.totalInverseMass()
	if totalInverseMass <= 0 {
		return
	}

	movePerIMass := c.Normal.Mul(c.Penetration / totalInverseMass)

	p0 := c.Particles[0]
	c.movement[0] = movePerIMass.Mul(p0.InverseMass())
	p0.SetPosition(p0.Position().Add(c.movement[0]))
	if p1 := c.Particles[1]; p1 != nil {
		c.movement[1] = movePerIMass.Mul(-p1.InverseMass())
		p1.SetPosition(p1.Position().Add(c.movement[1]))
	}
	c.Penetration = 0
}
