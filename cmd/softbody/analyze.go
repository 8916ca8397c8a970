package main

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/softbody/internal/analysis"
	"github.com/san-kum/softbody/internal/export"
	"github.com/san-kum/softbody/internal/scene"
	"github.com/san-kum/softbody/internal/sim"
	"github.com/san-kum/softbody/internal/storage"
	"github.com/san-kum/softbody/internal/viz"
)

var (
	channel      string
	phaseX       string
	phaseY       string
	crossLabel   string
	crossAt      float64
	sweepParam   string
	sweepMin     float64
	sweepMax     float64
	sweepSteps   int
	transient    float64
	perturbation float64
	outPath      string
	svgOut       string
	svgSize      int
)

func analysisCommands() []*cobra.Command {
	analyzeCmd := &cobra.Command{
		Use:   "analyze [run-id]",
		Short: "power spectrum and dominant frequency of a channel",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&channel, "channel", "kinetic_energy", "channel to analyse")

	phaseCmd := &cobra.Command{
		Use:   "phase [run-id]",
		Short: "plot one channel against another",
		Args:  cobra.ExactArgs(1),
		RunE:  phaseRun,
	}
	phaseCmd.Flags().StringVar(&phaseX, "x", "", "horizontal channel (default first)")
	phaseCmd.Flags().StringVar(&phaseY, "y", "", "vertical channel (default second)")
	phaseCmd.Flags().StringVar(&crossLabel, "cross", "", "only keep upward crossings of this channel")
	phaseCmd.Flags().Float64Var(&crossAt, "threshold", 0, "crossing threshold")
	phaseCmd.Flags().StringVar(&outPath, "out", "", "also write the portrait as svg")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "settled channel values across a parameter range",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepRun,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "", "parameter to vary")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "range start")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "range end")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 40, "number of values")
	sweepCmd.Flags().StringVar(&channel, "channel", "kinetic_energy", "observed channel")
	sweepCmd.Flags().Float64Var(&transient, "transient", 2, "seconds discarded before recording")
	_ = sweepCmd.MarkFlagRequired("param")

	divergenceCmd := &cobra.Command{
		Use:   "divergence [scenario]",
		Short: "growth rate of a small perturbation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  divergenceRun,
	}
	addRunFlags(divergenceCmd)
	divergenceCmd.Flags().Float64Var(&perturbation, "perturbation", 1e-6, "initial x offset")

	svgCmd := &cobra.Command{
		Use:   "svg [scenario]",
		Short: "run a scenario and draw its final frame as svg",
		Args:  cobra.MaximumNArgs(1),
		RunE:  svgRun,
	}
	addRunFlags(svgCmd)
	svgCmd.Flags().StringVar(&svgOut, "out", "frame.svg", "output file")
	svgCmd.Flags().IntVar(&svgSize, "size", 600, "image width and height")

	return []*cobra.Command{analyzeCmd, phaseCmd, sweepCmd, divergenceCmd, svgCmd}
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	labels, states, _, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	data, err := storage.Channel(labels, states, channel)
	if err != nil {
		return err
	}
	if len(data) < 4 {
		return fmt.Errorf("run %s is too short to analyse", args[0])
	}

	spectrum := analysis.PowerSpectrum(data)
	half := spectrum[:len(spectrum)/2]
	graph := asciigraph.Plot(half,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum: "+channel),
	)
	fmt.Println(graph)

	freq := analysis.DominantFrequency(data, meta.Dt)
	fmt.Printf("\ndominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1/freq)
	}
	return nil
}

func phaseRun(cmd *cobra.Command, args []string) error {
	labels, states, _, err := storage.New(dataDir).LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(labels) < 2 {
		return fmt.Errorf("run %s has fewer than two channels", args[0])
	}
	x, y := phaseX, phaseY
	if x == "" {
		x = labels[0]
	}
	if y == "" {
		y = labels[1]
	}

	portrait, err := analysis.NewPhasePortrait(labels, states, x, y)
	if err != nil {
		return err
	}
	if crossLabel != "" {
		points, err := analysis.Crossings(labels, states, crossLabel, crossAt, x, y)
		if err != nil {
			return err
		}
		portrait.Points = points
		fmt.Printf("%d crossings of %s = %g\n", len(points), crossLabel, crossAt)
	}

	fmt.Println(analysis.PhasePortraitToASCII(portrait, 80, 30))

	if outPath != "" {
		svg := export.TrajectoryToSVG(portrait.Points, 600, 600, "#00a8cc")
		if err := os.WriteFile(outPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", outPath)
	}
	return nil
}

func sweepRun(cmd *cobra.Command, args []string) error {
	name, cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	sc, err := scene.NewRegistry().Get(name, cfg)
	if err != nil {
		return err
	}

	data, err := analysis.Sweep(sc, analysis.SweepConfig{
		Param:     sweepParam,
		Min:       sweepMin,
		Max:       sweepMax,
		Steps:     sweepSteps,
		Channel:   channel,
		Dt:        cfg.Dt,
		Transient: transient,
		Record:    cfg.Duration,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s: %s vs %s\n", name, channel, sweepParam)
	fmt.Println(analysis.SweepToASCII(data, 80, 24))
	return nil
}

func divergenceRun(cmd *cobra.Command, args []string) error {
	name, cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	rate, err := analysis.Divergence(scene.NewRegistry().Factory(name, cfg), cfg.Seed, perturbation, cfg.Dt, cfg.Duration)
	if err != nil {
		return err
	}

	fmt.Printf("%s divergence rate: %.4f /s\n", name, rate)
	if rate > 0 {
		fmt.Println("small disturbances grow")
	} else {
		fmt.Println("small disturbances decay")
	}
	return nil
}

func svgRun(cmd *cobra.Command, args []string) error {
	name, cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	sc, err := scene.NewRegistry().Get(name, cfg)
	if err != nil {
		return err
	}
	if _, err := sim.New(sc).Run(cmd.Context(), sim.Config{Dt: cfg.Dt, Duration: cfg.Duration}); err != nil {
		return err
	}

	var svg string
	switch s := sc.(type) {
	case *scene.Cloth:
		svg = export.MeshToSVG(viz.ClothVertices(s.Sheet()), s.Sheet().Faces(), svgSize, svgSize)
	case *scene.Fountain:
		svg = export.ParticlesToSVG(s.Emitter().Positions(), s.Emitter().Radii(), svgSize, svgSize)
	case *scene.Bounce:
		svg = export.ParticlesToSVG(positions(s), s.Radii(), svgSize, svgSize)
	case *scene.Stack:
		w := viz.NewWireframe()
		pts := make([]mgl64.Vec3, 0, len(s.Boxes())*8+1)
		for _, b := range s.Boxes() {
			w.AddBox(b)
			pts = append(pts, b.Center())
		}
		w.AddPoint(s.Ball().Position())
		pts = append(pts, s.Ball().Position())

		canvas := viz.NewCanvas(svgSize/8, svgSize/16)
		cam := viz.NewCamera()
		cam.Fit(pts)
		viz.Render(canvas, w, cam)
		svg = export.CanvasToSVG(canvas, 4)
	default:
		svg = export.ParticlesToSVG(positions(sc), nil, svgSize, svgSize)
	}

	if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgOut)
	return nil
}

func positions(sc sim.Scenario) []mgl64.Vec3 {
	ps := sc.Particles()
	out := make([]mgl64.Vec3, len(ps))
	for i, p := range ps {
		out[i] = p.Position()
	}
	return out
}
