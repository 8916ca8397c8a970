package sim

import (
	"math"

	"github.com/san-kum/softbody/internal/dynamo"
	"github.com/san-kum/softbody/internal/particle"
)

// Scenario is a self-contained physics setup the simulator can step.
// Observe flattens whatever the scenario wants recorded into a State whose
// entries line up with Labels.
type Scenario interface {
	Name() string
	Step(dt float64)
	Reset()
	Particles() []*particle.Particle
	Labels() []string
	Observe() dynamo.State
}

type Metric interface {
	Name() string
	Observe(x dynamo.State, particles []*particle.Particle, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x dynamo.State, t float64)
}

// StepCount is the number of dt steps that cover duration. It rounds so
// that 0.3/0.1 gives 3 rather than 2.
func StepCount(duration, dt float64) int {
	if dt <= 0 || duration <= 0 {
		return 0
	}
	return int(math.Round(duration / dt))
}

type Config struct {
	Dt            float64
	Duration      float64
	Seed          int64
	ValidateState bool
}

type Result struct {
	Scenario   string
	Labels     []string
	States     []dynamo.State
	Times      []float64
	Metrics    map[string]float64
	StepsTaken int
}
