package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/softbody/internal/automation"
	"github.com/san-kum/softbody/internal/dynamo"
	"github.com/san-kum/softbody/internal/optim"
	"github.com/san-kum/softbody/internal/scene"
	"github.com/san-kum/softbody/internal/sim"
	"github.com/san-kum/softbody/internal/storage"
)

var (
	trials    int
	jitterAmt float64
	grid      []string
	objective string
)

func batchCommands() []*cobra.Command {
	batchCmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "run a yaml batch of scenarios",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [scenario]",
		Short: "count stable trials under random position jitter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	addRunFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Float64Var(&jitterAmt, "jitter", 0.05, "maximum position offset per axis")

	tuneCmd := &cobra.Command{
		Use:   "tune [scenario]",
		Short: "grid search parameters minimising a metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTune,
	}
	addRunFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&grid, "grid", nil, "name=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&objective, "metric", "kinetic_energy", "metric to minimise")
	_ = tuneCmd.MarkFlagRequired("grid")

	return []*cobra.Command{batchCmd, monteCarloCmd, tuneCmd}
}

func runBatch(cmd *cobra.Command, args []string) error {
	batch, err := automation.LoadBatch(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	results, err := automation.RunBatch(cmd.Context(), batch, scene.NewRegistry(), st)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSCENARIO\tSAMPLES\tRUN")
	for _, r := range results {
		id := r.RunID
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", r.Step, r.Result.Scenario, len(r.Result.Times), id)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	name, cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	results, err := automation.RunMonteCarlo(context.Background(), automation.MonteCarloConfig{
		Scenario:     name,
		Config:       cfg,
		Perturbation: jitterAmt,
		Trials:       trials,
		Seed:         cfg.Seed,
	}, scene.NewRegistry())
	if err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("%s: %d stable, %d unstable of %d trials\n", name, stable, unstable, len(results))
	return nil
}

func runTune(cmd *cobra.Command, args []string) error {
	name, cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	names, ranges, err := parseGrid(grid)
	if err != nil {
		return err
	}

	registry := scene.NewRegistry()
	build := func(params map[string]float64) (*sim.Simulator, error) {
		sc, err := registry.Get(name, cfg)
		if err != nil {
			return nil, err
		}
		tunable, ok := sc.(dynamo.Configurable)
		if !ok {
			return nil, fmt.Errorf("%w: %s has no tunable parameters", dynamo.ErrUnknownParam, name)
		}
		for k, v := range params {
			if err := tunable.SetParam(k, v); err != nil {
				return nil, err
			}
		}
		s := sim.New(sc)
		for _, m := range registry.DefaultMetrics(name, cfg) {
			s.AddMetric(m)
		}
		return s, nil
	}

	best, val, err := optim.NewGridSearch(names, ranges).
		Search(cmd.Context(), build, sim.Config{Dt: cfg.Dt, Duration: cfg.Duration}, objective)
	if err != nil {
		return err
	}

	fmt.Printf("best %s: %.6f\n", objective, val)
	for _, k := range sortedKeys(best) {
		fmt.Printf("  %s = %g\n", k, best[k])
	}
	return nil
}

// parseGrid reads name=v1,v2,... entries.
func parseGrid(entries []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(entries))
	ranges := make([][]float64, 0, len(entries))
	for _, e := range entries {
		name, list, ok := strings.Cut(e, "=")
		if !ok || name == "" {
			return nil, nil, fmt.Errorf("bad grid entry %q, want name=v1,v2", e)
		}
		var values []float64
		for _, s := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("grid %s: %w", name, err)
			}
			values = append(values, v)
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}
