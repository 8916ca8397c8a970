package cloth

import (
	"fmt"

	"github.com/san-kum/softbody/internal/dynamo"
)

func (c *Cloth) Params() map[string]float64 {
	cfg := c.cfg
	return map[string]float64{
		"spring_constant":  cfg.SpringConstant,
		"damping_constant": cfg.DampingConstant,
		"fixed_dt":         cfg.FixedDeltaTime,
		"wind_x":           cfg.Wind[0],
		"wind_y":           cfg.Wind[1],
		"wind_z":           cfg.Wind[2],
		"gravity_y":        cfg.Gravity[1],
		"air_density":      cfg.AirDensity,
		"drag_coefficient": cfg.DragCoefficient,
		"ground_height":    cfg.GroundHeight,
		"restitution":      cfg.Restitution,
		"friction":         cfg.Friction,
		"particle_mass":    cfg.ParticleMass,
		"particle_damping": cfg.ParticleDamping,
	}
}

func (c *Cloth) SetParam(name string, value float64) error {
	cfg := c.cfg
	switch name {
	case "spring_constant":
		cfg.SpringConstant = value
	case "damping_constant":
		cfg.DampingConstant = value
	case "fixed_dt":
		if value <= 0 {
			return fmt.Errorf("%w: fixed_dt %v", dynamo.ErrParameterBounds, value)
		}
		cfg.FixedDeltaTime = value
	case "wind_x":
		cfg.Wind[0] = value
	case "wind_y":
		cfg.Wind[1] = value
	case "wind_z":
		cfg.Wind[2] = value
	case "gravity_y":
		cfg.Gravity[1] = value
	case "air_density":
		cfg.AirDensity = value
	case "drag_coefficient":
		cfg.DragCoefficient = value
	case "ground_height":
		cfg.GroundHeight = value
	case "restitution":
		cfg.Restitution = value
	case "friction":
		cfg.Friction = value
	case "particle_mass":
		if value <= 0 {
			return fmt.Errorf("%w: particle_mass %v", dynamo.ErrParameterBounds, value)
		}
		cfg.ParticleMass = value
	case "particle_damping":
		cfg.ParticleDamping = value
	default:
		return fmt.Errorf("%w: %q", dynamo.ErrUnknownParam, name)
	}
	c.SetConfig(cfg)
	return nil
}
