package sim

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/san-kum/softbody/internal/dynamo"
)

type Simulator struct {
	scenario  Scenario
	metrics   []Metric
	observers []Observer
}

func New(scenario Scenario) *Simulator {
	return &Simulator{
		scenario:  scenario,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Scenario() Scenario { return s.scenario }

// Run steps the scenario from its current state for cfg.Duration and
// records one observation per step. On divergence the partial result is
// returned together with a *dynamo.SimulationError.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := StepCount(cfg.Duration, cfg.Dt)
	result := &Result{
		Scenario: s.scenario.Name(),
		Labels:   s.scenario.Labels(),
		States:   make([]dynamo.State, 0, steps+1),
		Times:    make([]float64, 0, steps+1),
		Metrics:  make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	t := 0.0
	x := s.scenario.Observe()
	result.States = append(result.States, x)
	result.Times = append(result.Times, t)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		particles := s.scenario.Particles()
		for _, m := range s.metrics {
			m.Observe(x, particles, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(x, t)
		}

		s.scenario.Step(cfg.Dt)
		t += cfg.Dt
		x = s.scenario.Observe()

		if cfg.ValidateState && !x.IsValid() {
			log.Warn("simulation diverged", "scenario", result.Scenario, "step", i, "t", t)
			s.collect(result)
			return result, &dynamo.SimulationError{Step: i, Time: t, State: x, Wrapped: dynamo.ErrUnstable}
		}

		result.StepsTaken++
		result.States = append(result.States, x)
		result.Times = append(result.Times, t)
	}

	s.collect(result)
	return result, nil
}

func (s *Simulator) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", dynamo.ErrParameterBounds, cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", dynamo.ErrParameterBounds, cfg.Duration)
	}
	return nil
}

// RunWithCallback steps until the duration elapses, the context ends or the
// callback returns false. The callback sees the state before each step.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(dynamo.State, float64) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	x := s.scenario.Observe()
	t := 0.0

	steps := StepCount(cfg.Duration, cfg.Dt)
	for step := 0; step < steps; step++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(x, t) {
			return nil
		}

		s.scenario.Step(cfg.Dt)
		t += cfg.Dt
		x = s.scenario.Observe()

		if cfg.ValidateState && !x.IsValid() {
			return &dynamo.SimulationError{Step: step, Time: t, State: x, Wrapped: dynamo.ErrUnstable}
		}
	}

	return nil
}
