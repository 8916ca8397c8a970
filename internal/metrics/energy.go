package metrics

import (
	"math"

	"github.com/san-kum/softbody/internal/dynamo"
	"github.com/san-kum/softbody/internal/particle"
)

// KineticEnergy averages the total kinetic energy of all movable particles.
type KineticEnergy struct {
	name    string
	samples int
	total   float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(_ dynamo.State, particles []*particle.Particle, _ float64) {
	k.total += TotalKinetic(particles)
	k.samples++
}

func (k *KineticEnergy) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.total / float64(k.samples)
}

func (k *KineticEnergy) Reset() {
	k.total = 0
	k.samples = 0
}

// TotalKinetic sums ½mv² over the particles.
func TotalKinetic(particles []*particle.Particle) float64 {
	sum := 0.0
	for _, p := range particles {
		sum += p.KineticEnergy()
	}
	return sum
}

// Mechanical is kinetic plus gravitational potential energy measured from
// y = 0. Immovable particles contribute nothing.
func Mechanical(particles []*particle.Particle, gravity float64) float64 {
	sum := 0.0
	for _, p := range particles {
		if !p.HasFiniteMass() {
			continue
		}
		sum += p.KineticEnergy() + p.Mass()*gravity*p.Position().Y()
	}
	return sum
}

// EnergyDrift tracks the largest relative change of mechanical energy from
// the first sample. Damping and contacts make some drift expected.
type EnergyDrift struct {
	name          string
	gravity       float64
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(gravity float64) *EnergyDrift {
	return &EnergyDrift{
		name:    "energy_drift",
		gravity: gravity,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(_ dynamo.State, particles []*particle.Particle, _ float64) {
	energy := Mechanical(particles, e.gravity)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
