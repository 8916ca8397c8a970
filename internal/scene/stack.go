package scene

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/softbody/internal/collide"
	"github.com/san-kum/softbody/internal/config"
	"github.com/san-kum/softbody/internal/dynamo"
	"github.com/san-kum/softbody/internal/metrics"
	"github.com/san-kum/softbody/internal/particle"
)

// Stack drops a row of yawed boxes onto the ground and a ball onto the
// first box. Boxes carry no angular state. Box-box pairs are only tested
// for overlap and the count is recorded, since no contacts are generated
// between boxes.
type Stack struct {
	cfg config.SceneConfig

	boxes []collide.Box
	ball  collide.Sphere
	start []mgl64.Vec3

	contacts   *collide.Data
	resolver   *particle.Resolver
	iterations int
	ground     collide.Plane
	overlaps   int
}

func NewStack(cfg *config.Config) *Stack {
	sc := cfg.Scene
	rng := rand.New(rand.NewSource(cfg.Seed))

	s := &Stack{
		cfg:        sc,
		contacts:   collide.NewData(9*sc.Bodies + 1),
		resolver:   particle.NewResolver(cfg.Iterations),
		iterations: cfg.Iterations,
		ground:     collide.GroundPlane(sc.GroundHeight),
	}

	half := mgl64.Vec3{sc.Radius, sc.Radius, sc.Radius}
	gravity := mgl64.Vec3{0, sc.Gravity, 0}
	for i := 0; i < sc.Bodies; i++ {
		centre := mgl64.Vec3{
			(float64(i) - float64(sc.Bodies-1)/2) * (2*sc.Radius + sc.Spread),
			sc.DropHeight + float64(i)*sc.Radius,
			0,
		}
		yaw := mgl64.QuatRotate(rng.Float64()*math.Pi/2, mgl64.Vec3{0, 1, 0})

		body := particle.New(centre, sc.Mass, sc.Damping)
		body.SetAcceleration(gravity)
		s.boxes = append(s.boxes, collide.NewBox(body, centre, half, yaw))
		s.start = append(s.start, centre)
	}

	ballPos := mgl64.Vec3{0, sc.DropHeight + 4*sc.Radius, 0}
	if len(s.boxes) > 0 {
		ballPos = s.start[0].Add(mgl64.Vec3{0.2 * sc.Radius, 4 * sc.Radius, 0})
	}
	ball := particle.New(ballPos, sc.Mass/2, sc.Damping)
	ball.SetAcceleration(gravity)
	s.ball = collide.Sphere{Body: ball, Radius: sc.Radius / 2}
	s.start = append(s.start, ballPos)

	return s
}

func (s *Stack) Name() string { return "stack" }

func (s *Stack) Step(dt float64) {
	for i := range s.boxes {
		s.boxes[i].Body.Integrate(dt)
		s.boxes[i].Sync()
	}
	s.ball.Body.Integrate(dt)

	s.contacts.Reset()
	s.contacts.Restitution = s.cfg.Restitution
	s.overlaps = 0
	for i, box := range s.boxes {
		collide.BoxAndHalfSpace(box, s.ground, s.contacts)
		collide.BoxAndSphere(box, s.ball, s.contacts)
		for j := i + 1; j < len(s.boxes); j++ {
			if collide.BoxAndBox(box, s.boxes[j]) {
				s.overlaps++
			}
		}
	}
	collide.SphereAndHalfSpace(s.ball, s.ground, s.contacts)

	contacts := s.contacts.Contacts()
	s.resolver.Iterations = max(s.iterations, 2*len(contacts))
	s.resolver.ResolveContacts(contacts, dt)
	for i := range s.boxes {
		s.boxes[i].Sync()
	}
}

func (s *Stack) Reset() {
	for i := range s.boxes {
		b := s.boxes[i].Body
		b.SetPosition(s.start[i])
		b.SetVelocity(mgl64.Vec3{})
		b.ClearAccumulator()
		s.boxes[i].Sync()
	}
	ball := s.ball.Body
	ball.SetPosition(s.start[len(s.start)-1])
	ball.SetVelocity(mgl64.Vec3{})
	ball.ClearAccumulator()
	s.overlaps = 0
}

func (s *Stack) Boxes() []collide.Box { return s.boxes }
func (s *Stack) Ball() collide.Sphere { return s.ball }
func (s *Stack) Overlaps() int        { return s.overlaps }

func (s *Stack) Particles() []*particle.Particle {
	out := make([]*particle.Particle, 0, len(s.boxes)+1)
	for _, b := range s.boxes {
		out = append(out, b.Body)
	}
	return append(out, s.ball.Body)
}

func (s *Stack) Labels() []string {
	labels := make([]string, 0, len(s.boxes)+3)
	for i := range s.boxes {
		labels = append(labels, fmt.Sprintf("box%d_y", i))
	}
	return append(labels, "ball_y", "overlaps", "kinetic_energy")
}

func (s *Stack) Observe() dynamo.State {
	x := make(dynamo.State, 0, len(s.boxes)+3)
	for _, b := range s.boxes {
		x = append(x, b.Center().Y())
	}
	return append(x, s.ball.Position().Y(), float64(s.overlaps), metrics.TotalKinetic(s.Particles()))
}
