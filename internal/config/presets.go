package config

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Presets adjust DefaultConfig for a scenario.
var Presets = map[string]map[string]func(*Config){
	"cloth": {
		"calm": func(c *Config) {
			c.Cloth.Wind = mgl64.Vec3{}
		},
		"breeze": func(c *Config) {
			c.Cloth.Wind = mgl64.Vec3{0, 0, 4}
		},
		"gale": func(c *Config) {
			c.Cloth.Wind = mgl64.Vec3{2, 0, 15}
			c.Duration = 20
		},
		"floor": func(c *Config) {
			c.Cloth.GroundHeight = 1.5
			c.Cloth.Friction = 0.6
		},
		"coarse": func(c *Config) {
			c.Cloth.Density = 4
			c.Cloth.SpringConstant = 60
		},
	},
	"fountain": {
		"gentle": func(c *Config) {
			c.Emitter.Rate = 100
			c.Emitter.Velocity = mgl64.Vec3{0, 4, 0}
		},
		"geyser": func(c *Config) {
			c.Emitter.Rate = 600
			c.Emitter.Velocity = mgl64.Vec3{0, 12, 0}
			c.Emitter.Lifespan = 3
			c.Emitter.Elasticity = 0.4
		},
		"sprinkler": func(c *Config) {
			c.Emitter.Velocity = mgl64.Vec3{3, 3, 0}
			c.Emitter.VelocityVariance = mgl64.Vec3{3, 0.5, 3}
			c.Emitter.Lifespan = 2
			c.Emitter.Friction = 0.4
		},
	},
	"bounce": {
		"rubber": func(c *Config) {
			c.Scene.Restitution = 0.9
		},
		"clay": func(c *Config) {
			c.Scene.Restitution = 0.1
		},
		"crowd": func(c *Config) {
			c.Scene.Bodies = 12
			c.Scene.Spread = 0.8
		},
	},
	"stack": {
		"tower": func(c *Config) {
			c.Scene.Bodies = 4
			c.Scene.Spread = 0
			c.Scene.Restitution = 0.2
		},
		"row": func(c *Config) {
			c.Scene.Bodies = 6
			c.Scene.DropHeight = 1
		},
	},
	"pendulum": {
		"chain": func(c *Config) {
			c.Scene.Bodies = 6
		},
		"stiff": func(c *Config) {
			c.Scene.SpringConstant = 400
			c.Scene.SpringDamping = 2
			c.Dt = 1.0 / 240
		},
		"slinky": func(c *Config) {
			c.Scene.SpringConstant = 8
			c.Scene.RestLength = 0.5
			c.Scene.Bodies = 8
		},
	},
}

// GetPreset returns DefaultConfig for the scenario with the preset applied,
// or nil when either name is unknown.
func GetPreset(scenario, preset string) *Config {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	apply, ok := scenarioPresets[preset]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Scenario = scenario
	apply(cfg)
	return cfg
}

func ListPresets(scenario string) []string {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenarioPresets))
	for name := range scenarioPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
