package emitter

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/softbody/internal/dynamo"
)

// MaxParticles caps the live population when Config.Capacity is unset.
const MaxParticles = 10000

// Config describes spawning and the physics applied to live particles.
// Variance fields spread a value uniformly over [v-var, v+var].
type Config struct {
	Rate float64

	Position         mgl64.Vec3
	PositionVariance mgl64.Vec3
	Velocity         mgl64.Vec3
	VelocityVariance mgl64.Vec3

	Lifespan         float64
	LifespanVariance float64

	Radius           float64
	RadiusVariance   float64
	RadiusLowerBound float64

	Gravity         mgl64.Vec3
	AirDensity      float64
	DragCoefficient float64

	GroundHeight float64
	Elasticity   float64
	Friction     float64

	Mass     float64
	Damping  float64
	Capacity int
	Seed     int64
}

func DefaultConfig() Config {
	return Config{
		Rate:             200,
		Position:         mgl64.Vec3{0, 1, 0},
		Velocity:         mgl64.Vec3{0, 5, 0},
		VelocityVariance: mgl64.Vec3{1, 1, 1},
		Lifespan:         1,
		Radius:           0.1,
		RadiusLowerBound: 0.01,
		Gravity:          mgl64.Vec3{0, -9.8, 0},
		AirDensity:       1.225,
		DragCoefficient:  0.47,
		Mass:             0.1,
		Damping:          0.9,
		Capacity:         MaxParticles,
		Seed:             42,
	}
}

func (c Config) validate() error {
	if c.Rate < 0 {
		return fmt.Errorf("%w: spawn rate %v", dynamo.ErrParameterBounds, c.Rate)
	}
	if c.Mass <= 0 {
		return fmt.Errorf("%w: particle mass %v", dynamo.ErrParameterBounds, c.Mass)
	}
	if c.Capacity < 0 || c.Capacity > MaxParticles {
		return fmt.Errorf("%w: capacity %d", dynamo.ErrParameterBounds, c.Capacity)
	}
	return nil
}
