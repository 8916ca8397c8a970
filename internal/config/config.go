package config

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/softbody/internal/cloth"
	"github.com/san-kum/softbody/internal/dynamo"
	"github.com/san-kum/softbody/internal/emitter"
)

const (
	DefaultScenario   = "cloth"
	DefaultDt         = 1.0 / 60
	DefaultDuration   = 10.0
	DefaultIterations = 16
	DefaultGravity    = -9.8
)

type Config struct {
	Scenario   string        `yaml:"scenario"`
	Dt         float64       `yaml:"dt"`
	Duration   float64       `yaml:"duration"`
	Seed       int64         `yaml:"seed"`
	Iterations int           `yaml:"iterations"`
	Cloth      ClothConfig   `yaml:"cloth"`
	Emitter    EmitterConfig `yaml:"emitter"`
	Scene      SceneConfig   `yaml:"scene"`
}

type ClothConfig struct {
	Width           int        `yaml:"width"`
	Height          int        `yaml:"height"`
	Density         int        `yaml:"density"`
	SpringConstant  float64    `yaml:"spring_constant"`
	DampingConstant float64    `yaml:"damping_constant"`
	UseFixedStep    bool       `yaml:"use_fixed_step"`
	FixedDt         float64    `yaml:"fixed_dt"`
	Wind            mgl64.Vec3 `yaml:"wind"`
	Gravity         mgl64.Vec3 `yaml:"gravity"`
	AirDensity      float64    `yaml:"air_density"`
	DragCoefficient float64    `yaml:"drag_coefficient"`
	GroundHeight    float64    `yaml:"ground_height"`
	Restitution     float64    `yaml:"restitution"`
	Friction        float64    `yaml:"friction"`
	ParticleMass    float64    `yaml:"particle_mass"`
	ParticleDamping float64    `yaml:"particle_damping"`
}

type EmitterConfig struct {
	Rate             float64    `yaml:"rate"`
	Position         mgl64.Vec3 `yaml:"position"`
	PositionVariance mgl64.Vec3 `yaml:"position_variance"`
	Velocity         mgl64.Vec3 `yaml:"velocity"`
	VelocityVariance mgl64.Vec3 `yaml:"velocity_variance"`
	Lifespan         float64    `yaml:"lifespan"`
	LifespanVariance float64    `yaml:"lifespan_variance"`
	Radius           float64    `yaml:"radius"`
	RadiusVariance   float64    `yaml:"radius_variance"`
	Gravity          mgl64.Vec3 `yaml:"gravity"`
	AirDensity       float64    `yaml:"air_density"`
	DragCoefficient  float64    `yaml:"drag_coefficient"`
	Elasticity       float64    `yaml:"elasticity"`
	Friction         float64    `yaml:"friction"`
	Mass             float64    `yaml:"mass"`
	Damping          float64    `yaml:"damping"`
	Capacity         int        `yaml:"capacity"`
}

// SceneConfig parameterises the small rigid-primitive scenes: bounce,
// stack and pendulum.
type SceneConfig struct {
	Bodies         int     `yaml:"bodies"`
	Radius         float64 `yaml:"radius"`
	Mass           float64 `yaml:"mass"`
	Damping        float64 `yaml:"damping"`
	Restitution    float64 `yaml:"restitution"`
	Gravity        float64 `yaml:"gravity"`
	GroundHeight   float64 `yaml:"ground_height"`
	DropHeight     float64 `yaml:"drop_height"`
	Spread         float64 `yaml:"spread"`
	SpringConstant float64 `yaml:"spring_constant"`
	SpringDamping  float64 `yaml:"spring_damping"`
	RestLength     float64 `yaml:"rest_length"`
}

func DefaultConfig() *Config {
	cc := cloth.DefaultConfig()
	ec := emitter.DefaultConfig()
	return &Config{
		Scenario:   DefaultScenario,
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Seed:       ec.Seed,
		Iterations: DefaultIterations,
		Cloth: ClothConfig{
			Width:           cc.Width,
			Height:          cc.Height,
			Density:         cc.Density,
			SpringConstant:  cc.SpringConstant,
			DampingConstant: cc.DampingConstant,
			UseFixedStep:    cc.UseFixedStep,
			FixedDt:         cc.FixedDeltaTime,
			Wind:            cc.Wind,
			Gravity:         cc.Gravity,
			AirDensity:      cc.AirDensity,
			DragCoefficient: cc.DragCoefficient,
			GroundHeight:    cc.GroundHeight,
			Restitution:     cc.Restitution,
			Friction:        cc.Friction,
			ParticleMass:    cc.ParticleMass,
			ParticleDamping: cc.ParticleDamping,
		},
		Emitter: EmitterConfig{
			Rate:             ec.Rate,
			Position:         ec.Position,
			PositionVariance: ec.PositionVariance,
			Velocity:         ec.Velocity,
			VelocityVariance: ec.VelocityVariance,
			Lifespan:         ec.Lifespan,
			LifespanVariance: ec.LifespanVariance,
			Radius:           ec.Radius,
			RadiusVariance:   ec.RadiusVariance,
			Gravity:          ec.Gravity,
			AirDensity:       ec.AirDensity,
			DragCoefficient:  ec.DragCoefficient,
			Elasticity:       ec.Elasticity,
			Friction:         ec.Friction,
			Mass:             ec.Mass,
			Damping:          ec.Damping,
			Capacity:         ec.Capacity,
		},
		Scene: SceneConfig{
			Bodies:         5,
			Radius:         0.5,
			Mass:           1,
			Damping:        0.99,
			Restitution:    0.6,
			Gravity:        DefaultGravity,
			DropHeight:     5,
			Spread:         1.5,
			SpringConstant: 40,
			SpringDamping:  0.5,
			RestLength:     1,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects values no scenario can run with and clamps damping
// factors into (0, 1].
func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %v", dynamo.ErrParameterBounds, c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %v", dynamo.ErrParameterBounds, c.Duration)
	}
	if c.Cloth.ParticleMass < 0 || c.Emitter.Mass < 0 || c.Scene.Mass < 0 {
		return fmt.Errorf("%w: mass must not be negative", dynamo.ErrParameterBounds)
	}
	if c.Cloth.Width <= 0 || c.Cloth.Height <= 0 || c.Cloth.Density <= 0 {
		return fmt.Errorf("%w: cloth dimensions must be positive", dynamo.ErrParameterBounds)
	}
	if c.Scene.Bodies < 0 {
		return fmt.Errorf("%w: bodies must not be negative", dynamo.ErrParameterBounds)
	}
	if c.Iterations <= 0 {
		c.Iterations = DefaultIterations
	}

	c.Cloth.ParticleDamping = clampDamping(c.Cloth.ParticleDamping)
	c.Emitter.Damping = clampDamping(c.Emitter.Damping)
	c.Scene.Damping = clampDamping(c.Scene.Damping)
	return nil
}

// clampDamping maps zero or negative damping to 1 (no decay), since a zero
// factor would stop every particle dead on the first step.
func clampDamping(d float64) float64 {
	if d <= 0 || d > 1 {
		return 1
	}
	return d
}

func (c *Config) ClothParams() cloth.Config {
	cc := c.Cloth
	out := cloth.DefaultConfig()
	out.Width, out.Height, out.Density = cc.Width, cc.Height, cc.Density
	out.SpringConstant = cc.SpringConstant
	out.DampingConstant = cc.DampingConstant
	out.UseFixedStep = cc.UseFixedStep
	out.FixedDeltaTime = cc.FixedDt
	out.Wind = cc.Wind
	out.Gravity = cc.Gravity
	out.AirDensity = cc.AirDensity
	out.DragCoefficient = cc.DragCoefficient
	out.GroundHeight = cc.GroundHeight
	out.Restitution = cc.Restitution
	out.Friction = cc.Friction
	out.ParticleMass = cc.ParticleMass
	out.ParticleDamping = cc.ParticleDamping
	return out
}

func (c *Config) EmitterParams() emitter.Config {
	ec := c.Emitter
	out := emitter.DefaultConfig()
	out.Rate = ec.Rate
	out.Position, out.PositionVariance = ec.Position, ec.PositionVariance
	out.Velocity, out.VelocityVariance = ec.Velocity, ec.VelocityVariance
	out.Lifespan, out.LifespanVariance = ec.Lifespan, ec.LifespanVariance
	out.Radius, out.RadiusVariance = ec.Radius, ec.RadiusVariance
	out.Gravity = ec.Gravity
	out.AirDensity = ec.AirDensity
	out.DragCoefficient = ec.DragCoefficient
	out.Elasticity = ec.Elasticity
	out.Friction = ec.Friction
	out.Mass = ec.Mass
	out.Damping = ec.Damping
	out.Capacity = ec.Capacity
	out.Seed = c.Seed
	return out
}
