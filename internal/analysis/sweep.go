package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/softbody/internal/dynamo"
	"github.com/san-kum/softbody/internal/sim"
)

// SweepPoint holds the distinct settled values of one channel for a single
// parameter value.
type SweepPoint struct {
	Param  float64
	Values []float64
}

type SweepConfig struct {
	Param      string
	Min, Max   float64
	Steps      int
	Channel    string
	Dt         float64
	Transient  float64
	Record     float64
	Resolution float64
}

// Sweep steps a scenario across a range of one tunable parameter. After a
// transient it records the distinct values the channel visits, quantised to
// Resolution. The scenario is reset before each value and the parameter is
// restored afterwards.
func Sweep(sc sim.Scenario, cfg SweepConfig) ([]SweepPoint, error) {
	tunable, ok := sc.(dynamo.Configurable)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no tunable parameters", dynamo.ErrUnknownParam, sc.Name())
	}
	original, ok := tunable.Params()[cfg.Param]
	if !ok {
		return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownParam, cfg.Param)
	}
	idx := indexOf(sc.Labels(), cfg.Channel)
	if idx < 0 {
		return nil, fmt.Errorf("unknown channel %q (available: %v)", cfg.Channel, sc.Labels())
	}
	if cfg.Dt <= 0 {
		return nil, fmt.Errorf("%w: dt must be positive", dynamo.ErrParameterBounds)
	}

	steps := cfg.Steps
	if steps <= 1 {
		steps = 2
	}
	res := cfg.Resolution
	if res <= 0 {
		res = 1e-3
	}
	stride := (cfg.Max - cfg.Min) / float64(steps-1)

	defer func() {
		_ = tunable.SetParam(cfg.Param, original)
		sc.Reset()
	}()

	results := make([]SweepPoint, 0, steps)
	for i := 0; i < steps; i++ {
		param := cfg.Min + float64(i)*stride
		sc.Reset()
		if err := tunable.SetParam(cfg.Param, param); err != nil {
			return results, err
		}

		for n := sim.StepCount(cfg.Transient, cfg.Dt); n > 0; n-- {
			sc.Step(cfg.Dt)
		}

		values := make([]float64, 0, 32)
		seen := make(map[int64]bool)
		for n := sim.StepCount(cfg.Record, cfg.Dt); n > 0; n-- {
			sc.Step(cfg.Dt)

			x := sc.Observe()
			if idx >= len(x) || math.IsNaN(x[idx]) {
				continue
			}
			key := int64(math.Round(x[idx] / res))
			if !seen[key] {
				seen[key] = true
				values = append(values, x[idx])
			}
		}

		results = append(results, SweepPoint{Param: param, Values: values})
	}

	return results, nil
}

func indexOf(labels []string, name string) int {
	for i, l := range labels {
		if l == name {
			return i
		}
	}
	return -1
}

// SweepToASCII plots every recorded value against its parameter column.
func SweepToASCII(data []SweepPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	var minVal, maxVal float64
	found := false
	for _, p := range data {
		for _, v := range p.Values {
			if !found {
				minVal, maxVal = v, v
				found = true
				continue
			}
			minVal = math.Min(minVal, v)
			maxVal = math.Max(maxVal, v)
		}
	}
	if !found {
		return ""
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	canvas := blankCanvas(width, height)
	for i, p := range data {
		col := i * width / len(data)
		if col >= width {
			col = width - 1
		}
		for _, v := range p.Values {
			row := height - 1 - int((v-minVal)/(maxVal-minVal)*float64(height-1))
			if row >= 0 && row < height {
				canvas[row][col] = '•'
			}
		}
	}
	return joinCanvas(canvas)
}

func blankCanvas(width, height int) [][]rune {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}
	return canvas
}

func joinCanvas(canvas [][]rune) string {
	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
