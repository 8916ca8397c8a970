package scene

import (
	"fmt"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/softbody/internal/collide"
	"github.com/san-kum/softbody/internal/config"
	"github.com/san-kum/softbody/internal/dynamo"
	"github.com/san-kum/softbody/internal/metrics"
	"github.com/san-kum/softbody/internal/particle"
)

// Bounce drops spheres onto a ground plane between two walls. Gravity is a
// constant particle acceleration so the resolver can cancel the closing
// speed it builds up on resting contacts. Contacts go through the collision
// detector and the resolver.
type Bounce struct {
	cfg config.SceneConfig

	bodies []*particle.Particle
	radii  []float64
	start  []mgl64.Vec3

	contacts   *collide.Data
	resolver   *particle.Resolver
	iterations int
	ground     collide.Plane
	walls      [2]collide.Plane
}

func NewBounce(cfg *config.Config) *Bounce {
	sc := cfg.Scene
	n := sc.Bodies
	rng := rand.New(rand.NewSource(cfg.Seed))

	b := &Bounce{
		cfg:        sc,
		contacts:   collide.NewData(n*(n+5)/2 + 1),
		resolver:   particle.NewResolver(cfg.Iterations),
		iterations: cfg.Iterations,
		ground:     collide.GroundPlane(sc.GroundHeight),
	}

	half := float64(n)*sc.Spread/2 + sc.Radius
	b.walls = [2]collide.Plane{
		{Normal: mgl64.Vec3{1, 0, 0}, Offset: -half},
		{Normal: mgl64.Vec3{1, 0, 0}, Offset: half},
	}

	gravity := mgl64.Vec3{0, sc.Gravity, 0}
	for i := 0; i < n; i++ {
		x := (float64(i)-float64(n-1)/2)*sc.Spread + (rng.Float64()-0.5)*0.2*sc.Radius
		pos := mgl64.Vec3{x, sc.DropHeight + float64(i)*sc.Radius, 0}

		p := particle.New(pos, sc.Mass, sc.Damping)
		b.bodies = append(b.bodies, p)
		b.radii = append(b.radii, sc.Radius)
		b.start = append(b.start, pos)
		p.SetAcceleration(gravity)
	}
	return b
}

func (s *Bounce) Name() string { return "bounce" }

func (s *Bounce) Step(dt float64) {
	for _, p := range s.bodies {
		p.Integrate(dt)
	}

	s.contacts.Reset()
	s.contacts.Restitution = s.cfg.Restitution
	for i, p := range s.bodies {
		sphere := collide.Sphere{Body: p, Radius: s.radii[i]}
		collide.SphereAndHalfSpace(sphere, s.ground, s.contacts)
		for _, w := range s.walls {
			collide.SphereAndTruePlane(sphere, w, s.contacts)
		}
		for j := i + 1; j < len(s.bodies); j++ {
			collide.SphereAndSphere(sphere, collide.Sphere{Body: s.bodies[j], Radius: s.radii[j]}, s.contacts)
		}
	}
	contacts := s.contacts.Contacts()
	s.resolver.Iterations = max(s.iterations, 2*len(contacts))
	s.resolver.ResolveContacts(contacts, dt)
}

func (s *Bounce) Reset() {
	for i, p := range s.bodies {
		p.SetPosition(s.start[i])
		p.SetVelocity(mgl64.Vec3{})
		p.ClearAccumulator()
	}
}

func (s *Bounce) Particles() []*particle.Particle { return s.bodies }
func (s *Bounce) Radii() []float64                { return s.radii }

func (s *Bounce) Labels() []string {
	labels := make([]string, 0, len(s.bodies)+1)
	for i := range s.bodies {
		labels = append(labels, fmt.Sprintf("y%d", i))
	}
	return append(labels, "kinetic_energy")
}

func (s *Bounce) Observe() dynamo.State {
	x := make(dynamo.State, 0, len(s.bodies)+1)
	for _, p := range s.bodies {
		x = append(x, p.Position().Y())
	}
	return append(x, metrics.TotalKinetic(s.bodies))
}

func (s *Bounce) Params() map[string]float64 {
	return map[string]float64{
		"restitution": s.cfg.Restitution,
		"gravity":     s.cfg.Gravity,
	}
}

func (s *Bounce) SetParam(name string, value float64) error {
	switch name {
	case "restitution":
		s.cfg.Restitution = value
	case "gravity":
		s.cfg.Gravity = value
		for _, p := range s.bodies {
			p.SetAcceleration(mgl64.Vec3{0, value, 0})
		}
	default:
		return fmt.Errorf("%w: %q", dynamo.ErrUnknownParam, name)
	}
	return nil
}
