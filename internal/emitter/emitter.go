package emitter

import (
	"math"
	"math/rand"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/softbody/internal/collide"
	"github.com/san-kum/softbody/internal/dynamo"
	"github.com/san-kum/softbody/internal/particle"
)

type live struct {
	body     *particle.Particle
	drag     particle.Drag
	radius   float64
	age      float64
	lifespan float64
}

// Emitter owns its particles. Expired particles are removed by swapping
// with the last live one, so iteration order is not spawn order.
type Emitter struct {
	cfg       Config
	rng       *rand.Rand
	live      []live
	sinceLast float64

	contacts *collide.Data
	resolver *particle.Resolver

	positions []mgl64.Vec3
	radii     []float64
	spawned   int
	expired   int
}

func New(cfg Config) (*Emitter, error) {
	if cfg.Capacity == 0 {
		cfg.Capacity = MaxParticles
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	e := &Emitter{
		cfg:      cfg,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		contacts: collide.NewData(cfg.Capacity),
		resolver: particle.NewResolver(0),
	}
	log.Debug("emitter built", "rate", cfg.Rate, "capacity", cfg.Capacity, "seed", cfg.Seed)
	return e, nil
}

// Update spawns, ages and moves the particles by dt.
func (e *Emitter) Update(dt float64) {
	if dt <= 0 {
		return
	}

	e.spawn(dt)

	for i := 0; i < len(e.live); {
		l := &e.live[i]
		l.age += dt
		if l.age >= l.lifespan {
			e.remove(i)
			continue
		}
		l.drag.UpdateForce(l.body, dt)
		l.body.Integrate(dt)
		i++
	}

	e.collideGround(dt)
	e.refresh()
}

func (e *Emitter) spawn(dt float64) {
	if e.cfg.Rate <= 0 {
		e.sinceLast = 0
		return
	}
	e.sinceLast += dt

	n := int(math.Floor(e.sinceLast * e.cfg.Rate))
	if n <= 0 {
		return
	}
	e.sinceLast -= float64(n) / e.cfg.Rate

	if room := e.cfg.Capacity - len(e.live); n > room {
		n = room
	}
	for i := 0; i < n; i++ {
		e.live = append(e.live, e.newParticle())
	}
	e.spawned += n
}

func (e *Emitter) newParticle() live {
	cfg := e.cfg
	radius := math.Max(cfg.RadiusLowerBound, cfg.Radius+e.spread(cfg.RadiusVariance))

	body := particle.New(cfg.Position.Add(e.spreadVec(cfg.PositionVariance)), cfg.Mass, cfg.Damping)
	body.SetVelocity(cfg.Velocity.Add(e.spreadVec(cfg.VelocityVariance)))
	body.SetAcceleration(cfg.Gravity)

	// quadratic drag on a sphere: ½ρCdπr²|v|²
	k2 := 0.5 * cfg.AirDensity * cfg.DragCoefficient * math.Pi * radius * radius

	return live{
		body:     body,
		drag:     particle.Drag{K2: k2},
		radius:   radius,
		lifespan: cfg.Lifespan + e.spread(cfg.LifespanVariance),
	}
}

func (e *Emitter) spread(variance float64) float64 {
	if variance == 0 {
		return 0
	}
	return (2*e.rng.Float64() - 1) * variance
}

func (e *Emitter) spreadVec(variance mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{e.spread(variance[0]), e.spread(variance[1]), e.spread(variance[2])}
}

func (e *Emitter) remove(i int) {
	last := len(e.live) - 1
	e.live[i] = e.live[last]
	e.live[last] = live{}
	e.live = e.live[:last]
	e.expired++
}

// collideGround bounces particles off the ground through the contact
// resolver, then applies kinetic friction to those touching it.
func (e *Emitter) collideGround(dt float64) {
	ground := collide.GroundPlane(e.cfg.GroundHeight)

	e.contacts.Reset()
	e.contacts.Restitution = e.cfg.Elasticity
	e.contacts.Friction = e.cfg.Friction
	for _, l := range e.live {
		collide.SphereAndHalfSpace(collide.Sphere{Body: l.body, Radius: l.radius}, ground, e.contacts)
	}

	contacts := e.contacts.Contacts()
	if len(contacts) == 0 {
		return
	}
	e.resolver.Iterations = 2 * len(contacts)
	e.resolver.ResolveContacts(contacts, dt)

	if e.cfg.Friction <= 0 {
		return
	}
	load := math.Abs(e.cfg.Gravity.Y())
	for _, c := range contacts {
		p := c.Particles[0]
		vel := p.Velocity()
		tangent := vel.Sub(c.Normal.Mul(vel.Dot(c.Normal)))
		if tangent.LenSqr() < dynamo.Epsilon {
			continue
		}
		p.AddForce(dynamo.SafeNormalize(tangent).Mul(-e.cfg.Friction * p.Mass() * load))
	}
}

func (e *Emitter) refresh() {
	e.positions = e.positions[:0]
	e.radii = e.radii[:0]
	for _, l := range e.live {
		e.positions = append(e.positions, l.body.Position())
		e.radii = append(e.radii, l.radius)
	}
}

// Reset removes every live particle and reseeds the generator, so a reset
// emitter replays the same sequence.
func (e *Emitter) Reset() {
	clear(e.live)
	e.live = e.live[:0]
	e.sinceLast = 0
	e.spawned, e.expired = 0, 0
	e.rng.Seed(e.cfg.Seed)
	e.contacts.Reset()
	e.refresh()
}

// Positions returns live particle centres. The slice is reused by Update.
func (e *Emitter) Positions() []mgl64.Vec3 { return e.positions }
func (e *Emitter) Radii() []float64        { return e.radii }
func (e *Emitter) Count() int              { return len(e.live) }

// Particles returns the live particle bodies in storage order.
func (e *Emitter) Particles() []*particle.Particle {
	out := make([]*particle.Particle, len(e.live))
	for i, l := range e.live {
		out[i] = l.body
	}
	return out
}

// Spawned and Expired count particles since construction or the last Reset.
func (e *Emitter) Spawned() int { return e.spawned }
func (e *Emitter) Expired() int { return e.expired }

func (e *Emitter) Config() Config { return e.cfg }

// SetConfig replaces the configuration. Live particles keep their radius,
// lifespan and drag; gravity and damping apply to them immediately.
func (e *Emitter) SetConfig(cfg Config) error {
	if cfg.Capacity == 0 {
		cfg.Capacity = MaxParticles
	}
	if err := cfg.validate(); err != nil {
		return err
	}
	if cfg.Capacity != e.cfg.Capacity {
		e.contacts = collide.NewData(cfg.Capacity)
	}
	e.cfg = cfg
	for _, l := range e.live {
		l.body.SetAcceleration(cfg.Gravity)
		l.body.SetDamping(cfg.Damping)
	}
	return nil
}
