package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/softbody/internal/config"
	"github.com/san-kum/softbody/internal/dynamo"
	"github.com/san-kum/softbody/internal/scene"
	"github.com/san-kum/softbody/internal/sim"
	"github.com/san-kum/softbody/internal/storage"
)

// Batch is a scripted sequence of runs.
type Batch struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Steps       []BatchStep `yaml:"steps"`
}

// BatchStep is one run. Zero Dt, Duration and Seed keep the preset's
// values.
type BatchStep struct {
	Scenario string             `yaml:"scenario"`
	Preset   string             `yaml:"preset"`
	Duration float64            `yaml:"duration"`
	Dt       float64            `yaml:"dt"`
	Seed     int64              `yaml:"seed"`
	Params   map[string]float64 `yaml:"params"`
	Save     bool               `yaml:"save"`
}

type BatchResult struct {
	Step   int
	RunID  string
	Result *sim.Result
}

func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var batch Batch
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, err
	}
	if len(batch.Steps) == 0 {
		return nil, fmt.Errorf("batch %s has no steps", path)
	}
	return &batch, nil
}

// RunBatch executes the steps in order. Steps marked save are written to
// store when it is non-nil. Results gathered before a failing step are
// returned with the error.
func RunBatch(ctx context.Context, batch *Batch, registry *scene.Registry, store *storage.Store) ([]BatchResult, error) {
	results := make([]BatchResult, 0, len(batch.Steps))

	for i, step := range batch.Steps {
		log.Info("batch step", "n", i+1, "of", len(batch.Steps), "scenario", step.Scenario, "preset", step.Preset)

		cfg, err := stepConfig(step)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		sc, err := registry.Get(step.Scenario, cfg)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		if err := applyParams(sc, step.Params); err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		s := sim.New(sc)
		for _, m := range registry.DefaultMetrics(step.Scenario, cfg) {
			s.AddMetric(m)
		}
		result, err := s.Run(ctx, sim.Config{Dt: cfg.Dt, Duration: cfg.Duration, Seed: cfg.Seed})
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		br := BatchResult{Step: i + 1, Result: result}
		if step.Save && store != nil {
			br.RunID, err = store.Save(storage.RunInfo{
				Scenario: step.Scenario,
				Preset:   step.Preset,
				Seed:     cfg.Seed,
				Dt:       cfg.Dt,
				Duration: cfg.Duration,
			}, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, br)
	}

	return results, nil
}

func stepConfig(step BatchStep) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if step.Preset != "" {
		cfg = config.GetPreset(step.Scenario, step.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q for %s", step.Preset, step.Scenario)
		}
	}
	cfg.Scenario = step.Scenario
	if step.Dt != 0 {
		cfg.Dt = step.Dt
	}
	if step.Duration != 0 {
		cfg.Duration = step.Duration
	}
	if step.Seed != 0 {
		cfg.Seed = step.Seed
	}
	return cfg, cfg.Validate()
}

func applyParams(sc sim.Scenario, params map[string]float64) error {
	if len(params) == 0 {
		return nil
	}
	tunable, ok := sc.(dynamo.Configurable)
	if !ok {
		return fmt.Errorf("%w: %s has no tunable parameters", dynamo.ErrUnknownParam, sc.Name())
	}
	for k, v := range params {
		if err := tunable.SetParam(k, v); err != nil {
			return err
		}
	}
	return nil
}

type MonteCarloConfig struct {
	Scenario     string
	Config       *config.Config
	Perturbation float64
	Trials       int
	Seed         int64
	// Threshold bounds every observed value of a stable trial.
	Threshold float64
}

type MonteCarloResult struct {
	Trial  int
	Seed   int64
	Final  dynamo.State
	Stable bool
}

// RunMonteCarlo runs Trials copies of a scenario concurrently. Each trial
// jitters every movable particle by up to Perturbation on each axis, using
// its own seed, before stepping.
func RunMonteCarlo(ctx context.Context, cfg MonteCarloConfig, registry *scene.Registry) ([]MonteCarloResult, error) {
	if cfg.Trials <= 0 {
		return nil, fmt.Errorf("%w: trials must be positive", dynamo.ErrParameterBounds)
	}
	threshold := cfg.Threshold
	if threshold <= 0 {
		threshold = 1e6
	}

	base := registry.Factory(cfg.Scenario, cfg.Config)
	factory := func(seed int64) (sim.Scenario, error) {
		sc, err := base(seed)
		if err != nil {
			return nil, err
		}
		jitter(sc, rand.New(rand.NewSource(seed)), cfg.Perturbation)
		return sc, nil
	}

	runs, err := sim.NewEnsemble(factory, cfg.Trials, cfg.Seed).
		Run(ctx, sim.Config{Dt: cfg.Config.Dt, Duration: cfg.Config.Duration})
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, len(runs))
	for i, r := range runs {
		var final dynamo.State
		if len(r.States) > 0 {
			final = r.States[len(r.States)-1]
		}
		results[i] = MonteCarloResult{
			Trial:  i,
			Seed:   cfg.Seed + int64(i),
			Final:  final,
			Stable: bounded(final, threshold),
		}
	}
	log.Debug("monte carlo done", "scenario", cfg.Scenario, "trials", cfg.Trials)
	return results, nil
}

func jitter(sc sim.Scenario, rng *rand.Rand, amount float64) {
	if amount <= 0 {
		return
	}
	for _, p := range sc.Particles() {
		if !p.HasFiniteMass() {
			continue
		}
		d := mgl64.Vec3{
			(rng.Float64() - 0.5) * 2 * amount,
			(rng.Float64() - 0.5) * 2 * amount,
			(rng.Float64() - 0.5) * 2 * amount,
		}
		p.SetPosition(p.Position().Add(d))
	}
}

func bounded(x dynamo.State, threshold float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.Abs(v) > threshold {
			return false
		}
	}
	return true
}

func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
