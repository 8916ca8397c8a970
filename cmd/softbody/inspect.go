package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/softbody/internal/sim"
	"github.com/san-kum/softbody/internal/storage"
)

var plotChannels []string

func inspectCommands() []*cobra.Command {
	plotCmd := &cobra.Command{
		Use:   "plot [run-id]",
		Short: "plot recorded channels",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&plotChannels, "channel", nil, "channels to plot (default all)")

	exportCmd := &cobra.Command{
		Use:   "export [run-id]",
		Short: "print run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := storage.New(dataDir).Load(args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(meta)
		},
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run-id]",
		Short: "print recorded states as csv",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, result, err := loadRun(args[0])
			if err != nil {
				return err
			}
			return storage.WriteCSV(os.Stdout, result)
		},
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run-id]",
		Short: "print a full run as json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, result, err := loadRun(args[0])
			if err != nil {
				return err
			}
			return storage.ExportJSONStdout(info, result)
		},
	}

	return []*cobra.Command{plotCmd, exportCmd, exportCSVCmd, exportJSONCmd}
}

// loadRun rebuilds a result from a stored run.
func loadRun(id string) (storage.RunInfo, *sim.Result, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(id)
	if err != nil {
		return storage.RunInfo{}, nil, err
	}
	labels, states, times, err := st.LoadStates(id)
	if err != nil {
		return storage.RunInfo{}, nil, err
	}

	info := storage.RunInfo{
		Scenario: meta.Scenario,
		Preset:   meta.Preset,
		Seed:     meta.Seed,
		Dt:       meta.Dt,
		Duration: meta.Duration,
	}
	return info, &sim.Result{
		Scenario:   meta.Scenario,
		Labels:     labels,
		States:     states,
		Times:      times,
		Metrics:    meta.Metrics,
		StepsTaken: len(times),
	}, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	labels, states, _, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("run %s has no states", args[0])
	}

	channels := plotChannels
	if len(channels) == 0 {
		channels = labels
	}

	for _, name := range channels {
		data, err := storage.Channel(labels, states, name)
		if err != nil {
			return err
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
