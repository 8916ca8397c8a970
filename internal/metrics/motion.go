package metrics

import (
	"math"

	"github.com/san-kum/softbody/internal/dynamo"
	"github.com/san-kum/softbody/internal/particle"
)

// MaxSpeed records the fastest particle speed seen.
type MaxSpeed struct {
	name string
	max  float64
}

func NewMaxSpeed() *MaxSpeed {
	return &MaxSpeed{name: "max_speed"}
}

func (m *MaxSpeed) Name() string { return m.name }

func (m *MaxSpeed) Observe(_ dynamo.State, particles []*particle.Particle, _ float64) {
	for _, p := range particles {
		m.max = math.Max(m.max, p.Velocity().Len())
	}
}

func (m *MaxSpeed) Value() float64 { return m.max }
func (m *MaxSpeed) Reset()         { m.max = 0 }

// LowestPoint records the minimum particle height seen, which shows
// tunnelling through a ground plane.
type LowestPoint struct {
	name    string
	lowest  float64
	samples int
}

func NewLowestPoint() *LowestPoint {
	return &LowestPoint{name: "lowest_point", lowest: math.Inf(1)}
}

func (l *LowestPoint) Name() string { return l.name }

func (l *LowestPoint) Observe(_ dynamo.State, particles []*particle.Particle, _ float64) {
	for _, p := range particles {
		l.lowest = math.Min(l.lowest, p.Position().Y())
		l.samples++
	}
}

func (l *LowestPoint) Value() float64 {
	if l.samples == 0 {
		return 0
	}
	return l.lowest
}

func (l *LowestPoint) Reset() {
	l.lowest = math.Inf(1)
	l.samples = 0
}
