package particle

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func headOn(restitution float64) (*Contact, *Particle, *Particle) {
	a := New(mgl64.Vec3{-1, 0, 0}, 1, 1)
	b := New(mgl64.Vec3{1, 0, 0}, 1, 1)
	a.SetVelocity(mgl64.Vec3{2, 0, 0})
	b.SetVelocity(mgl64.Vec3{-2, 0, 0})
	c := &Contact{
		Particles:   [2]*Particle{a, b},
		Restitution: restitution,
		Normal:      mgl64.Vec3{-1, 0, 0},
	}
	return c, a, b
}

func TestResolveInelastic(t *testing.T) {
	c, _, _ := headOn(0)
	if c.SeparatingVelocity() >= 0 {
		t.Fatalf("expected closing contact, got %v", c.SeparatingVelocity())
	}

	c.Resolve(0.01)

	if got := c.SeparatingVelocity(); math.Abs(got) > 1e-12 {
		t.Errorf("expected separating velocity 0, got %v", got)
	}
}

func TestResolveRestitution(t *testing.T) {
	for _, e := range []float64{0.25, 0.5, 1} {
		c, _, _ := headOn(e)
		before := c.SeparatingVelocity()
		c.Resolve(0.01)
		after := c.SeparatingVelocity()
		if after < 0 {
			t.Errorf("restitution %v: still closing %v", e, after)
		}
		if math.Abs(after-(-before*e)) > 1e-12 {
			t.Errorf("restitution %v: expected %v, got %v", e, -before*e, after)
		}
	}
}

func TestResolveSeparatingIsNoop(t *testing.T) {
	c, a, b := headOn(0.5)
	a.SetVelocity(mgl64.Vec3{-1, 0, 0})
	b.SetVelocity(mgl64.Vec3{1, 0, 0})

	c.Resolve(0.01)

	if a.Velocity() != (mgl64.Vec3{-1, 0, 0}) || b.Velocity() != (mgl64.Vec3{1, 0, 0}) {
		t.Errorf("separating contact changed velocities: %v %v", a.Velocity(), b.Velocity())
	}
}

func TestResolveRestingContactDoesNotGainEnergy(t *testing.T) {
	// A particle resting on the ground has picked up one step of gravity.
	dt := 0.01
	p := New(mgl64.Vec3{0, 0, 0}, 1, 1)
	p.SetAcceleration(mgl64.Vec3{0, -9.8, 0})
	p.SetVelocity(mgl64.Vec3{0, -9.8 * dt, 0})
	c := &Contact{Particles: [2]*Particle{p, nil}, Restitution: 1, Normal: mgl64.Vec3{0, 1, 0}}

	c.Resolve(dt)

	if math.Abs(p.Velocity().Y()) > 1e-12 {
		t.Errorf("resting contact should not bounce, got vy %v", p.Velocity().Y())
	}
}

func TestResolveInterpenetrationByInverseMass(t *testing.T) {
	a := New(mgl64.Vec3{0, 0, 0}, 1, 1)
	b := New(mgl64.Vec3{0, 0, 0}, 3, 1)
	c := &Contact{
		Particles:   [2]*Particle{a, b},
		Normal:      mgl64.Vec3{0, 1, 0},
		Penetration: 0.4,
	}

	c.Resolve(0.01)

	// inverse masses 1 and 1/3: shares 3/4 and 1/4
	if math.Abs(a.Position().Y()-0.3) > 1e-12 {
		t.Errorf("expected a.y 0.3, got %v", a.Position().Y())
	}
	if math.Abs(b.Position().Y()+0.1) > 1e-12 {
		t.Errorf("expected b.y -0.1, got %v", b.Position().Y())
	}
	if a.Velocity() != (mgl64.Vec3{}) {
		t.Errorf("positional correction changed velocity: %v", a.Velocity())
	}
}

func TestResolveBothImmovable(t *testing.T) {
	a := New(mgl64.Vec3{}, 0, 1)
	b := New(mgl64.Vec3{}, 0, 1)
	a.SetVelocity(mgl64.Vec3{1, 0, 0})
	c := &Contact{Particles: [2]*Particle{a, b}, Normal: mgl64.Vec3{-1, 0, 0}, Penetration: 1}

	c.Resolve(0.01)

	if a.Position() != (mgl64.Vec3{}) || a.Velocity() != (mgl64.Vec3{1, 0, 0}) {
		t.Errorf("immovable pair was modified: %v %v", a.Position(), a.Velocity())
	}
}

func TestResolverPicksWorstAndStopsEarly(t *testing.T) {
	slow := New(mgl64.Vec3{}, 1, 1)
	fast := New(mgl64.Vec3{}, 1, 1)
	slow.SetVelocity(mgl64.Vec3{0, -1, 0})
	fast.SetVelocity(mgl64.Vec3{0, -5, 0})
	up := mgl64.Vec3{0, 1, 0}

	contacts := []Contact{
		{Particles: [2]*Particle{slow, nil}, Normal: up},
		{Particles: [2]*Particle{fast, nil}, Normal: up},
	}

	r := NewResolver(1)
	r.ResolveContacts(contacts, 0.01)
	if fast.Velocity().Y() != 0 {
		t.Errorf("worst contact should resolve first, fast vy = %v", fast.Velocity().Y())
	}
	if slow.Velocity().Y() != -1 {
		t.Errorf("iteration cap exceeded, slow vy = %v", slow.Velocity().Y())
	}

	r = NewResolver(10)
	r.ResolveContacts(contacts, 0.01)
	if r.IterationsUsed() != 1 {
		t.Errorf("expected early stop after 1 iteration, used %d", r.IterationsUsed())
	}
	if slow.Velocity().Y() != 0 {
		t.Errorf("expected slow contact resolved, vy = %v", slow.Velocity().Y())
	}
}

func TestResolverNoContacts(t *testing.T) {
	r := NewResolver(0)
	if r.Iterations != DefaultIterations {
		t.Errorf("expected default iterations, got %d", r.Iterations)
	}
	r.ResolveContacts(nil, 0.01)
	if r.IterationsUsed() != 0 {
		t.Errorf("expected 0 iterations, got %d", r.IterationsUsed())
	}
}

func TestResolverSharesCorrectionAcrossContacts(t *testing.T) {
	p := New(mgl64.Vec3{0, -0.5, 0}, 1, 1)
	up := mgl64.Vec3{0, 1, 0}

	// four corners of one box sunk by the same depth
	contacts := make([]Contact, 4)
	for i := range contacts {
		contacts[i] = Contact{Particles: [2]*Particle{p, nil}, Normal: up, Penetration: 0.5}
	}

	NewResolver(16).ResolveContacts(contacts, 0.01)

	if got := p.Position().Y(); math.Abs(got) > 1e-12 {
		t.Errorf("expected body lifted exactly to the surface, y = %v", got)
	}
	for i, c := range contacts {
		if c.Penetration > 1e-12 {
			t.Errorf("contact %d still penetrating by %v", i, c.Penetration)
		}
	}
}
