package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/softbody/internal/dynamo"
)

type Point struct{ X, Y float64 }

// PhasePortrait holds two recorded channels plotted against each other.
type PhasePortrait struct {
	XLabel, YLabel string
	Points         []Point
}

// NewPhasePortrait pairs two channels of a recorded run.
func NewPhasePortrait(labels []string, states []dynamo.State, xName, yName string) (*PhasePortrait, error) {
	xi, yi := indexOf(labels, xName), indexOf(labels, yName)
	if xi < 0 || yi < 0 {
		return nil, fmt.Errorf("unknown channel pair %q/%q (available: %v)", xName, yName, labels)
	}

	portrait := &PhasePortrait{
		XLabel: xName,
		YLabel: yName,
		Points: make([]Point, 0, len(states)),
	}
	for _, x := range states {
		if xi >= len(x) || yi >= len(x) {
			continue
		}
		portrait.Points = append(portrait.Points, Point{X: x[xi], Y: x[yi]})
	}
	return portrait, nil
}

// PhasePortraitToASCII draws the portrait with 10% padding and the axes
// when they are in view.
func PhasePortraitToASCII(portrait *PhasePortrait, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y
	for _, p := range portrait.Points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := blankCanvas(width, height)

	for _, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	return joinCanvas(canvas)
}

// Crossings records (x, y) each time the cross channel rises through
// threshold, interpolating between the two samples that straddle it.
func Crossings(labels []string, states []dynamo.State, cross string, threshold float64, xName, yName string) ([]Point, error) {
	ci, xi, yi := indexOf(labels, cross), indexOf(labels, xName), indexOf(labels, yName)
	if ci < 0 || xi < 0 || yi < 0 {
		return nil, fmt.Errorf("unknown channel among %q, %q, %q (available: %v)", cross, xName, yName, labels)
	}

	var points []Point
	for i := 1; i < len(states); i++ {
		prev, curr := states[i-1], states[i]
		if prev[ci] >= threshold || curr[ci] < threshold {
			continue
		}
		frac := (threshold - prev[ci]) / (curr[ci] - prev[ci])
		if math.IsNaN(frac) || math.IsInf(frac, 0) {
			frac = 0.5
		}
		points = append(points, Point{
			X: prev[xi] + frac*(curr[xi]-prev[xi]),
			Y: prev[yi] + frac*(curr[yi]-prev[yi]),
		})
	}
	return points, nil
}
