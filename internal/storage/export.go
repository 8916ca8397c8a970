package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/softbody/internal/sim"
)

type ExportData struct {
	Scenario string             `json:"scenario"`
	Preset   string             `json:"preset,omitempty"`
	Seed     int64              `json:"seed"`
	Dt       float64            `json:"dt"`
	Duration float64            `json:"duration"`
	Steps    int                `json:"steps"`
	Labels   []string           `json:"labels"`
	Times    []float64          `json:"times"`
	States   [][]float64        `json:"states"`
	Metrics  map[string]float64 `json:"metrics"`
}

func newExportData(info RunInfo, result *sim.Result) ExportData {
	data := ExportData{
		Scenario: info.Scenario,
		Preset:   info.Preset,
		Seed:     info.Seed,
		Dt:       info.Dt,
		Duration: info.Duration,
		Steps:    len(result.Times),
		Labels:   result.Labels,
		Times:    result.Times,
		States:   make([][]float64, len(result.States)),
		Metrics:  result.Metrics,
	}
	for i, s := range result.States {
		data.States[i] = s
	}
	return data
}

func ExportJSON(path string, info RunInfo, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, info, result)
}

func ExportJSONStdout(info RunInfo, result *sim.Result) error {
	return WriteJSON(os.Stdout, info, result)
}

func WriteJSON(w io.Writer, info RunInfo, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(info, result))
}
