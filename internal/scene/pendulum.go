package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/softbody/internal/config"
	"github.com/san-kum/softbody/internal/dynamo"
	"github.com/san-kum/softbody/internal/metrics"
	"github.com/san-kum/softbody/internal/particle"
)

// Pendulum is a chain of beads hung from a fixed anchor by springs and
// released horizontally. All forces go through one registry.
type Pendulum struct {
	cfg    config.SceneConfig
	anchor mgl64.Vec3

	beads  []*particle.Particle
	start  []mgl64.Vec3
	forces *particle.Registry
}

func NewPendulum(cfg *config.Config) *Pendulum {
	sc := cfg.Scene
	s := &Pendulum{
		cfg:    sc,
		anchor: mgl64.Vec3{0, sc.DropHeight, 0},
		forces: particle.NewRegistry(),
	}

	for i := 0; i < sc.Bodies; i++ {
		pos := s.anchor.Add(mgl64.Vec3{float64(i+1) * sc.RestLength, 0, 0})
		s.beads = append(s.beads, particle.New(pos, sc.Mass, sc.Damping))
		s.start = append(s.start, pos)
	}
	s.wire()
	return s
}

func (s *Pendulum) wire() {
	sc := s.cfg
	s.forces.Clear()
	gravity := particle.NewGravity(mgl64.Vec3{0, sc.Gravity, 0})

	for i, b := range s.beads {
		s.forces.Add(b, gravity)
		if i == 0 {
			s.forces.Add(b, particle.NewAnchoredSpring(s.anchor, sc.SpringConstant, sc.RestLength))
			continue
		}
		prev := s.beads[i-1]
		s.forces.Add(b, particle.NewSpringDamper(prev, sc.SpringConstant, sc.RestLength, sc.SpringDamping))
		s.forces.Add(prev, particle.NewSpringDamper(b, sc.SpringConstant, sc.RestLength, sc.SpringDamping))
	}
}

func (s *Pendulum) Name() string { return "pendulum" }

func (s *Pendulum) Step(dt float64) {
	s.forces.UpdateForces(dt)
	for _, b := range s.beads {
		b.Integrate(dt)
	}
}

func (s *Pendulum) Reset() {
	for i, b := range s.beads {
		b.SetPosition(s.start[i])
		b.SetVelocity(mgl64.Vec3{})
		b.ClearAccumulator()
	}
}

func (s *Pendulum) Anchor() mgl64.Vec3               { return s.anchor }
func (s *Pendulum) Particles() []*particle.Particle { return s.beads }

func (s *Pendulum) Labels() []string {
	return []string{"end_x", "end_y", "end_z", "kinetic_energy"}
}

func (s *Pendulum) Observe() dynamo.State {
	x := make(dynamo.State, 0, 4)
	if len(s.beads) == 0 {
		return append(x, 0, 0, 0, 0)
	}
	x = dynamo.AppendVec(x, s.beads[len(s.beads)-1].Position())
	return append(x, metrics.TotalKinetic(s.beads))
}

func (s *Pendulum) Params() map[string]float64 {
	return map[string]float64{
		"spring_constant": s.cfg.SpringConstant,
		"spring_damping":  s.cfg.SpringDamping,
		"rest_length":     s.cfg.RestLength,
		"gravity":         s.cfg.Gravity,
	}
}

// SetParam rewires the registry with the new value.
func (s *Pendulum) SetParam(name string, value float64) error {
	switch name {
	case "spring_constant":
		s.cfg.SpringConstant = value
	case "spring_damping":
		s.cfg.SpringDamping = value
	case "rest_length":
		s.cfg.RestLength = value
	case "gravity":
		s.cfg.Gravity = value
	default:
		return fmt.Errorf("%w: %q", dynamo.ErrUnknownParam, name)
	}
	s.wire()
	return nil
}
