package cloth

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/softbody/internal/dynamo"
)

// Config holds construction parameters and the tunables read on every
// Update. Only the tunables may change after New, through SetConfig or
// SetParam.
type Config struct {
	Width   int
	Height  int
	Density int

	SpringConstant  float64
	DampingConstant float64

	// UseFixedStep replaces the caller's dt with FixedDeltaTime, decoupling
	// the simulation rate from the frame rate.
	UseFixedStep   bool
	FixedDeltaTime float64

	Wind            mgl64.Vec3
	Gravity         mgl64.Vec3
	AirDensity      float64
	DragCoefficient float64

	GroundHeight float64
	Restitution  float64
	Friction     float64
	Bias         float64

	ParticleMass    float64
	ParticleDamping float64

	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3
}

func DefaultConfig() Config {
	return Config{
		Width:           4,
		Height:          4,
		Density:         10,
		SpringConstant:  100,
		DampingConstant: 0.6,
		UseFixedStep:    true,
		FixedDeltaTime:  0.01,
		Wind:            mgl64.Vec3{0, 0, 4},
		Gravity:         mgl64.Vec3{0, -9.8, 0},
		AirDensity:      1.225,
		DragCoefficient: 1.28,
		GroundHeight:    0,
		Restitution:     0.2,
		Friction:        0.3,
		Bias:            0.001,
		ParticleMass:    0.1,
		ParticleDamping: 0.9,
		Rotation:        mgl64.QuatIdent(),
		Scale:           mgl64.Vec3{1, 1, 1},
	}
}

func (c Config) validate() error {
	if c.Width <= 0 || c.Height <= 0 || c.Density <= 0 {
		return fmt.Errorf("%w: cloth needs positive width, height and density (got %d, %d, %d)",
			dynamo.ErrParameterBounds, c.Width, c.Height, c.Density)
	}
	if c.ParticleMass <= 0 {
		return fmt.Errorf("%w: particle mass %v", dynamo.ErrParameterBounds, c.ParticleMass)
	}
	if c.UseFixedStep && c.FixedDeltaTime <= 0 {
		return fmt.Errorf("%w: fixed timestep %v", dynamo.ErrParameterBounds, c.FixedDeltaTime)
	}
	return nil
}

func (c Config) rows() int { return c.Height * c.Density }
func (c Config) cols() int { return c.Width * c.Density }
