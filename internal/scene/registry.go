package scene

import (
	"fmt"
	"sort"

	"github.com/san-kum/softbody/internal/config"
	"github.com/san-kum/softbody/internal/dynamo"
	"github.com/san-kum/softbody/internal/metrics"
	"github.com/san-kum/softbody/internal/sim"
)

type Factory func(cfg *config.Config) (sim.Scenario, error)

type Registry struct {
	scenarios map[string]Factory
}

func NewRegistry() *Registry {
	r := &Registry{scenarios: make(map[string]Factory)}

	r.scenarios["cloth"] = func(cfg *config.Config) (sim.Scenario, error) { return NewCloth(cfg) }
	r.scenarios["fountain"] = func(cfg *config.Config) (sim.Scenario, error) { return NewFountain(cfg) }
	r.scenarios["bounce"] = func(cfg *config.Config) (sim.Scenario, error) { return NewBounce(cfg), nil }
	r.scenarios["stack"] = func(cfg *config.Config) (sim.Scenario, error) { return NewStack(cfg), nil }
	r.scenarios["pendulum"] = func(cfg *config.Config) (sim.Scenario, error) { return NewPendulum(cfg), nil }

	return r
}

func (r *Registry) Get(name string, cfg *config.Config) (sim.Scenario, error) {
	fn, ok := r.scenarios[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", dynamo.ErrUnknownScenario, name, r.List())
	}
	return fn(cfg)
}

// Factory returns a constructor suitable for an ensemble. Each member gets
// its own copy of cfg with the member seed.
func (r *Registry) Factory(name string, cfg *config.Config) sim.Factory {
	return func(seed int64) (sim.Scenario, error) {
		c := *cfg
		c.Seed = seed
		return r.Get(name, &c)
	}
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.scenarios))
	for name := range r.scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics(name string, cfg *config.Config) []sim.Metric {
	ms := []sim.Metric{
		metrics.NewKineticEnergy(),
		metrics.NewMaxSpeed(),
		metrics.NewLowestPoint(),
		metrics.NewStability(1e3),
	}
	switch name {
	case "pendulum", "bounce":
		ms = append(ms, metrics.NewEnergyDrift(-cfg.Scene.Gravity))
	}
	return ms
}
