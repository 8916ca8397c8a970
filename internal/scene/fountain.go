package scene

import (
	"math"

	"github.com/san-kum/softbody/internal/config"
	"github.com/san-kum/softbody/internal/dynamo"
	"github.com/san-kum/softbody/internal/emitter"
	"github.com/san-kum/softbody/internal/metrics"
	"github.com/san-kum/softbody/internal/particle"
)

type Fountain struct {
	e *emitter.Emitter
}

func NewFountain(cfg *config.Config) (*Fountain, error) {
	e, err := emitter.New(cfg.EmitterParams())
	if err != nil {
		return nil, err
	}
	return &Fountain{e: e}, nil
}

func (s *Fountain) Name() string              { return "fountain" }
func (s *Fountain) Step(dt float64)           { s.e.Update(dt) }
func (s *Fountain) Reset()                    { s.e.Reset() }
func (s *Fountain) Emitter() *emitter.Emitter { return s.e }

func (s *Fountain) Particles() []*particle.Particle { return s.e.Particles() }

func (s *Fountain) Labels() []string {
	return []string{"count", "mean_y", "max_y", "kinetic_energy"}
}

func (s *Fountain) Observe() dynamo.State {
	positions := s.e.Positions()
	meanY, maxY := 0.0, 0.0
	if len(positions) > 0 {
		maxY = math.Inf(-1)
		for _, p := range positions {
			meanY += p.Y()
			maxY = math.Max(maxY, p.Y())
		}
		meanY /= float64(len(positions))
	}
	return dynamo.State{float64(s.e.Count()), meanY, maxY, metrics.TotalKinetic(s.e.Particles())}
}

func (s *Fountain) Params() map[string]float64 { return s.e.Params() }

func (s *Fountain) SetParam(name string, value float64) error { return s.e.SetParam(name, value) }
