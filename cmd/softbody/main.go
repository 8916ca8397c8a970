package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/softbody/internal/config"
	"github.com/san-kum/softbody/internal/dynamo"
	"github.com/san-kum/softbody/internal/gui"
	"github.com/san-kum/softbody/internal/scene"
	"github.com/san-kum/softbody/internal/sim"
	"github.com/san-kum/softbody/internal/storage"
	"github.com/san-kum/softbody/internal/viz"
)

var (
	dataDir    string
	logLevel   string
	dt         float64
	duration   float64
	seed       int64
	iterations int
	configFile string
	presetName string
	members    int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "softbody",
		Short: "particle, cloth and contact simulator",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			log.SetLevel(level)
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			gui.Run(scene.NewRegistry(), config.DefaultConfig(), "")
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".softbody", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a scenario and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list available scenarios",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range scene.NewRegistry().List() {
				fmt.Println(name)
			}
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list parameter presets",
		Args:  cobra.MaximumNArgs(1),
		Run:   listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [scenario]",
		Short: "run an ensemble concurrently and report throughput",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runBench,
	}
	addRunFlags(benchCmd)
	benchCmd.Flags().IntVar(&members, "members", 8, "ensemble size")

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "watch a scenario in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, cfg, err := loadConfig(cmd, args)
			if err != nil {
				return err
			}
			sc, err := scene.NewRegistry().Get(name, cfg)
			if err != nil {
				return err
			}
			return viz.RunLive(sc, cfg.Dt)
		},
	}
	addRunFlags(liveCmd)

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "pick a scenario and preset from a terminal menu",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunMenu(scene.NewRegistry())
		},
	}

	guiCmd := &cobra.Command{
		Use:   "gui [scenario]",
		Short: "open the 3d window",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			_, cfg, err := loadConfig(cmd, args)
			if err != nil {
				return err
			}
			gui.Run(scene.NewRegistry(), cfg, name)
			return nil
		},
	}
	addRunFlags(guiCmd)

	rootCmd.AddCommand(runCmd, listCmd, scenariosCmd, presetsCmd, benchCmd, liveCmd, tuiCmd, guiCmd)
	rootCmd.AddCommand(inspectCommands()...)
	rootCmd.AddCommand(analysisCommands()...)
	rootCmd.AddCommand(batchCommands()...)
	rootCmd.AddCommand(collideCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "time step")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "simulated seconds")
	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed")
	cmd.Flags().IntVar(&iterations, "iterations", config.DefaultIterations, "contact resolver iterations")
	cmd.Flags().StringVar(&configFile, "config", "", "yaml config file")
	cmd.Flags().StringVar(&presetName, "preset", "", "parameter preset")
}

// loadConfig layers defaults, the preset, the config file and finally any
// flag the user set explicitly.
func loadConfig(cmd *cobra.Command, args []string) (string, *config.Config, error) {
	name := config.DefaultScenario
	if len(args) > 0 {
		name = args[0]
	}

	cfg := config.DefaultConfig()
	if presetName != "" {
		p := config.GetPreset(name, presetName)
		if p == nil {
			return "", nil, fmt.Errorf("unknown preset %q for %s (available: %v)", presetName, name, config.ListPresets(name))
		}
		cfg = p
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return "", nil, err
		}
		cfg = fileCfg
		if len(args) == 0 && cfg.Scenario != "" {
			name = cfg.Scenario
		}
	}

	flags := cmd.Flags()
	if flags.Changed("dt") || (presetName == "" && configFile == "") {
		cfg.Dt = dt
	}
	if flags.Changed("time") || (presetName == "" && configFile == "") {
		cfg.Duration = duration
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("iterations") {
		cfg.Iterations = iterations
	}
	cfg.Scenario = name

	if err := cfg.Validate(); err != nil {
		return "", nil, err
	}
	return name, cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	name, cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	registry := scene.NewRegistry()
	sc, err := registry.Get(name, cfg)
	if err != nil {
		return err
	}

	s := sim.New(sc)
	for _, m := range registry.DefaultMetrics(name, cfg) {
		s.AddMetric(m)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info("running", "scenario", name, "dt", cfg.Dt, "duration", cfg.Duration, "seed", cfg.Seed)
	start := time.Now()
	result, err := s.Run(ctx, sim.Config{Dt: cfg.Dt, Duration: cfg.Duration, Seed: cfg.Seed, ValidateState: true})
	var simErr *dynamo.SimulationError
	if err != nil && !errors.As(err, &simErr) {
		return err
	}
	if simErr != nil {
		log.Warn("run diverged, storing partial result", "err", simErr)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	id, err := st.Save(storage.RunInfo{
		Scenario: name,
		Preset:   presetName,
		Seed:     cfg.Seed,
		Dt:       cfg.Dt,
		Duration: cfg.Duration,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", id)
	fmt.Printf("steps: %d (%s)\n", len(result.Times), time.Since(start).Round(time.Millisecond))
	for _, key := range sortedKeys(result.Metrics) {
		fmt.Printf("  %s: %.6f\n", key, result.Metrics[key])
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tPRESET\tSTEPS\tTIMESTAMP")
	for _, r := range runs {
		preset := r.Preset
		if preset == "" {
			preset = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", r.ID, r.Scenario, preset, r.Steps, r.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) {
	names := scene.NewRegistry().List()
	if len(args) > 0 {
		names = args
	}
	for _, name := range names {
		presets := config.ListPresets(name)
		if len(presets) == 0 {
			continue
		}
		fmt.Printf("%s:\n", name)
		for _, p := range presets {
			fmt.Printf("  %s\n", p)
		}
	}
}

func runBench(cmd *cobra.Command, args []string) error {
	name, cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if members <= 0 {
		return fmt.Errorf("%w: members must be positive", dynamo.ErrParameterBounds)
	}

	registry := scene.NewRegistry()
	ens := sim.NewEnsemble(registry.Factory(name, cfg), members, cfg.Seed).
		WithMetrics(func() []sim.Metric { return registry.DefaultMetrics(name, cfg) })

	start := time.Now()
	results, err := ens.Run(context.Background(), sim.Config{Dt: cfg.Dt, Duration: cfg.Duration})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	total := 0
	for _, r := range results {
		total += len(r.Times)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tSTEPS\tKINETIC\tMAX SPEED")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%.4f\t%.4f\n", cfg.Seed+int64(i), len(r.Times), r.Metrics["kinetic_energy"], r.Metrics["max_speed"])
	}
	fmt.Fprintf(w, "\ntotal\t%d\t%s\t%.0f steps/s\n", total, elapsed.Round(time.Millisecond), float64(total)/elapsed.Seconds())
	return w.Flush()
}
