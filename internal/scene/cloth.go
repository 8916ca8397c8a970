package scene

import (
	"github.com/san-kum/softbody/internal/cloth"
	"github.com/san-kum/softbody/internal/config"
	"github.com/san-kum/softbody/internal/dynamo"
	"github.com/san-kum/softbody/internal/metrics"
	"github.com/san-kum/softbody/internal/particle"
)

// Cloth records the free bottom corner, the mean height and the kinetic
// energy of a pinned sheet.
type Cloth struct {
	c *cloth.Cloth
}

func NewCloth(cfg *config.Config) (*Cloth, error) {
	c, err := cloth.New(cfg.ClothParams())
	if err != nil {
		return nil, err
	}
	return &Cloth{c: c}, nil
}

func (s *Cloth) Name() string    { return "cloth" }
func (s *Cloth) Step(dt float64) { s.c.Update(dt) }
func (s *Cloth) Reset()          { s.c.Reset() }

// Sheet exposes the cloth for renderers.
func (s *Cloth) Sheet() *cloth.Cloth { return s.c }

func (s *Cloth) Particles() []*particle.Particle { return s.c.Particles() }

func (s *Cloth) Labels() []string {
	return []string{"tip_x", "tip_y", "tip_z", "mean_y", "kinetic_energy"}
}

func (s *Cloth) Observe() dynamo.State {
	tip := s.c.Particle(s.c.Rows()-1, 0).Position()
	x := dynamo.AppendVec(make(dynamo.State, 0, 5), tip)

	sum := 0.0
	for _, v := range s.c.Vertices() {
		sum += v.Y()
	}
	return append(x, sum/float64(len(s.c.Vertices())), metrics.TotalKinetic(s.c.Particles()))
}

func (s *Cloth) Params() map[string]float64 { return s.c.Params() }

func (s *Cloth) SetParam(name string, value float64) error { return s.c.SetParam(name, value) }
