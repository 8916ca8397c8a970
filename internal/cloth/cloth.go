package cloth

import (
	"math"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/softbody/internal/dynamo"
	"github.com/san-kum/softbody/internal/particle"
)

type spring struct {
	a, b int
	rest float64
}

// Face indexes three particles of one triangle.
type Face [3]int

type Cloth struct {
	cfg        Config
	rows, cols int

	particles []*particle.Particle
	initial   []mgl64.Vec3
	springs   []spring
	faces     []Face

	vertices  []mgl64.Vec3
	normals   []mgl64.Vec3
	transform mgl64.Mat4
}

func New(cfg Config) (*Cloth, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	c := &Cloth{
		cfg:  cfg,
		rows: cfg.rows(),
		cols: cfg.cols(),
	}
	n := c.rows * c.cols
	c.particles = make([]*particle.Particle, n)
	c.initial = make([]mgl64.Vec3, n)
	c.vertices = make([]mgl64.Vec3, n)
	c.normals = make([]mgl64.Vec3, n)

	d := float64(cfg.Density)
	for i := 0; i < c.rows; i++ {
		for j := 0; j < c.cols; j++ {
			pos := mgl64.Vec3{float64(cfg.Width) - float64(j)/d, float64(cfg.Height) - float64(i)/d, 0}
			mass := cfg.ParticleMass
			if i == 0 {
				mass = 0
			}
			p := particle.New(pos, mass, cfg.ParticleDamping)
			p.SetAcceleration(cfg.Gravity)

			idx := c.index(i, j)
			c.particles[idx] = p
			c.initial[idx] = pos
		}
	}

	c.buildTopology()
	c.updateTransform()
	c.refreshMesh()

	log.Debug("cloth built", "rows", c.rows, "cols", c.cols, "springs", len(c.springs), "faces", len(c.faces))
	return c, nil
}

func (c *Cloth) index(row, col int) int { return row*c.cols + col }

// buildTopology wires four edge springs and two diagonals per quad, and
// splits every quad into two triangles. Edges shared by neighbouring quads
// get one spring from each, so interior edges are twice as stiff as the
// border.
func (c *Cloth) buildTopology() {
	link := func(a, b int) {
		rest := c.initial[a].Sub(c.initial[b]).Len()
		c.springs = append(c.springs, spring{a: a, b: b, rest: rest})
	}

	for i := 0; i < c.rows-1; i++ {
		for j := 0; j < c.cols-1; j++ {
			p1 := c.index(i, j)
			p2 := c.index(i+1, j)
			p3 := c.index(i+1, j+1)
			p4 := c.index(i, j+1)

			link(p1, p2)
			link(p1, p4)
			link(p2, p3)
			link(p3, p4)
			link(p1, p3)
			link(p2, p4)

			c.faces = append(c.faces, Face{p1, p2, p3}, Face{p1, p3, p4})
		}
	}
}

// Update advances the cloth. With UseFixedStep the configured timestep
// replaces dt; a non-positive dt is ignored either way.
func (c *Cloth) Update(dt float64) {
	if dt <= 0 {
		return
	}
	if c.cfg.UseFixedStep {
		dt = c.cfg.FixedDeltaTime
	}

	c.updateTransform()
	c.refreshMesh()
	c.applyDrag()
	c.applySprings()

	for _, p := range c.particles {
		p.Integrate(dt)
		// pinned particles skip integration and would keep accumulating
		p.ClearAccumulator()
	}

	c.collideGround()
}

func (c *Cloth) updateTransform() {
	pos, scale := c.cfg.Position, c.cfg.Scale
	c.transform = mgl64.Translate3D(pos[0], pos[1], pos[2]).
		Mul4(c.cfg.Rotation.Mat4()).
		Mul4(mgl64.Scale3D(scale[0], scale[1], scale[2]))
}

// refreshMesh copies particle positions into the vertex array and rebuilds
// per-vertex normals by summing the unit normal of every adjoining face.
func (c *Cloth) refreshMesh() {
	for i, p := range c.particles {
		c.vertices[i] = p.Position()
		c.normals[i] = mgl64.Vec3{}
	}
	for _, f := range c.faces {
		n := dynamo.SafeNormalize(c.faceCross(f))
		for _, idx := range f {
			c.normals[idx] = c.normals[idx].Add(n)
		}
	}
	for i := range c.normals {
		c.normals[i] = dynamo.SafeNormalize(c.normals[i])
	}
}

func (c *Cloth) faceCross(f Face) mgl64.Vec3 {
	a, b, d := c.vertices[f[0]], c.vertices[f[1]], c.vertices[f[2]]
	return b.Sub(a).Cross(d.Sub(a))
}

// applyDrag pushes each triangle against its velocity relative to the wind.
// The force acts along the face normal with the area the flow actually sees.
func (c *Cloth) applyDrag() {
	for _, f := range c.faces {
		cross := c.faceCross(f)
		area := cross.Len() / 2
		if area < dynamo.Epsilon {
			continue
		}
		normal := cross.Mul(1 / (2 * area))

		v := c.particles[f[0]].Velocity().
			Add(c.particles[f[1]].Velocity()).
			Add(c.particles[f[2]].Velocity()).
			Mul(1.0 / 3).
			Sub(c.cfg.Wind)

		speedSq := v.LenSqr()
		if speedSq < dynamo.Epsilon {
			continue
		}
		facing := v.Mul(1 / math.Sqrt(speedSq)).Dot(normal)
		if facing < 0 {
			normal = normal.Mul(-1)
			facing = -facing
		}

		mag := 0.5 * c.cfg.AirDensity * speedSq * c.cfg.DragCoefficient * area * facing
		share := normal.Mul(-mag / 3)
		for _, idx := range f {
			c.particles[idx].AddForce(share)
		}
	}
}

func (c *Cloth) applySprings() {
	k, damp := c.cfg.SpringConstant, c.cfg.DampingConstant
	for _, s := range c.springs {
		p1, p2 := c.particles[s.a], c.particles[s.b]
		d := p2.Position().Sub(p1.Position())
		e := dynamo.SafeNormalize(d)

		f := k*(d.Len()-s.rest) - damp*p1.Velocity().Sub(p2.Velocity()).Dot(e)
		p1.AddForce(e.Mul(f))
		p2.AddForce(e.Mul(-f))
	}
}

// collideGround bounces particles off the plane y = GroundHeight and adds a
// kinetic friction force against their sliding direction. It does not go
// through the contact resolver.
func (c *Cloth) collideGround() {
	floor := c.cfg.GroundHeight
	for _, p := range c.particles {
		if !p.HasFiniteMass() {
			continue
		}
		pos := p.Position()
		if pos.Y() > floor {
			continue
		}

		vel := p.Velocity()
		if vel.Y() < 0 {
			j := -(1 + c.cfg.Restitution) * vel.Y() * p.Mass()
			p.AddImpulse(mgl64.Vec3{0, j, 0})
		}
		pos[1] = floor + c.cfg.Bias
		p.SetPosition(pos)

		vel = p.Velocity()
		tangent := mgl64.Vec3{vel.X(), 0, vel.Z()}
		if tangent.LenSqr() < dynamo.Epsilon {
			continue
		}
		load := p.Mass() * math.Abs(c.cfg.Gravity.Y())
		p.AddForce(dynamo.SafeNormalize(tangent).Mul(-c.cfg.Friction * load))
	}
}

// Reset puts every particle back at its construction position at rest.
func (c *Cloth) Reset() {
	for i, p := range c.particles {
		p.SetPosition(c.initial[i])
		p.SetVelocity(mgl64.Vec3{})
		p.ClearAccumulator()
	}
	c.refreshMesh()
}

func (c *Cloth) Config() Config { return c.cfg }

// SetConfig applies the tunable fields of cfg. Grid dimensions are fixed at
// construction and are ignored here.
func (c *Cloth) SetConfig(cfg Config) {
	cfg.Width, cfg.Height, cfg.Density = c.cfg.Width, c.cfg.Height, c.cfg.Density
	massChanged := cfg.ParticleMass != c.cfg.ParticleMass
	c.cfg = cfg

	for i, p := range c.particles {
		p.SetAcceleration(cfg.Gravity)
		p.SetDamping(cfg.ParticleDamping)
		if massChanged && i >= c.cols {
			p.SetMass(cfg.ParticleMass)
		}
	}
}

// Vertices returns the mesh positions in model space. The slice is owned by
// the cloth and rewritten on every Update.
func (c *Cloth) Vertices() []mgl64.Vec3 { return c.vertices }
func (c *Cloth) Normals() []mgl64.Vec3  { return c.normals }
func (c *Cloth) Faces() []Face          { return c.faces }

func (c *Cloth) Particles() []*particle.Particle { return c.particles }

func (c *Cloth) Particle(row, col int) *particle.Particle {
	return c.particles[c.index(row, col)]
}

// Transform is the model matrix built from Position, Rotation and Scale.
func (c *Cloth) Transform() mgl64.Mat4 { return c.transform }

func (c *Cloth) Rows() int        { return c.rows }
func (c *Cloth) Cols() int        { return c.cols }
func (c *Cloth) SpringCount() int { return len(c.springs) }
