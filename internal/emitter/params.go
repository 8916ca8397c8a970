package emitter

import (
	"fmt"

	"github.com/san-kum/softbody/internal/dynamo"
)

func (e *Emitter) Params() map[string]float64 {
	cfg := e.cfg
	return map[string]float64{
		"rate":             cfg.Rate,
		"lifespan":         cfg.Lifespan,
		"radius":           cfg.Radius,
		"velocity_y":       cfg.Velocity[1],
		"gravity_y":        cfg.Gravity[1],
		"air_density":      cfg.AirDensity,
		"drag_coefficient": cfg.DragCoefficient,
		"elasticity":       cfg.Elasticity,
		"friction":         cfg.Friction,
		"ground_height":    cfg.GroundHeight,
	}
}

func (e *Emitter) SetParam(name string, value float64) error {
	cfg := e.cfg
	switch name {
	case "rate":
		cfg.Rate = value
	case "lifespan":
		cfg.Lifespan = value
	case "radius":
		cfg.Radius = value
	case "velocity_y":
		cfg.Velocity[1] = value
	case "gravity_y":
		cfg.Gravity[1] = value
	case "air_density":
		cfg.AirDensity = value
	case "drag_coefficient":
		cfg.DragCoefficient = value
	case "elasticity":
		cfg.Elasticity = value
	case "friction":
		cfg.Friction = value
	case "ground_height":
		cfg.GroundHeight = value
	default:
		return fmt.Errorf("%w: %q", dynamo.ErrUnknownParam, name)
	}
	return e.SetConfig(cfg)
}
