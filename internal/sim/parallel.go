package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Factory builds a fresh scenario for one ensemble member.
type Factory func(seed int64) (Scenario, error)

// Ensemble runs independent scenario instances concurrently, one goroutine
// per member. Members share nothing, so no locking is needed. The first
// failing member cancels the rest.
type Ensemble struct {
	factory    Factory
	newMetrics func() []Metric
	numRuns    int
	seedStart  int64
}

func NewEnsemble(factory Factory, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{factory: factory, numRuns: numRuns, seedStart: seedStart}
}

// WithMetrics sets a constructor for per-member metrics.
func (e *Ensemble) WithMetrics(newMetrics func() []Metric) *Ensemble {
	e.newMetrics = newMetrics
	return e
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	g, ctx := errgroup.WithContext(ctx)

	for i := 0; i < e.numRuns; i++ {
		idx := i
		g.Go(func() error {
			seed := e.seedStart + int64(idx)
			sc, err := e.factory(seed)
			if err != nil {
				return fmt.Errorf("member %d: %w", idx, err)
			}

			sim := New(sc)
			if e.newMetrics != nil {
				for _, m := range e.newMetrics() {
					sim.AddMetric(m)
				}
			}

			cfgCopy := cfg
			cfgCopy.Seed = seed
			res, err := sim.Run(ctx, cfgCopy)
			if err != nil {
				return fmt.Errorf("member %d: %w", idx, err)
			}
			results[idx] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
