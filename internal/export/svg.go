package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/softbody/internal/analysis"
	"github.com/san-kum/softbody/internal/cloth"
	"github.com/san-kum/softbody/internal/viz"
)

const background = "#0a0a0a"

func header(sb *strings.Builder, width, height float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

// CanvasToSVG draws one circle per lit braille dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	var sb strings.Builder
	header(&sb, float64(canvas.SubWidth())*scale, float64(canvas.SubHeight())*scale)
	sb.WriteString("<g fill=\"#00ff00\">\n")

	r := scale * 0.4
	for y := 0; y < canvas.SubHeight(); y++ {
		for x := 0; x < canvas.SubWidth(); x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, r)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// frame maps world x/y into a width x height viewport with 10% padding,
// keeping the aspect ratio.
type frame struct {
	minX, minY, scale float64
	width, height     float64
}

func newFrame(xs, ys []float64, width, height int) frame {
	minX, maxX := xs[0], xs[0]
	minY, maxY := ys[0], ys[0]
	for i := range xs {
		minX, maxX = math.Min(minX, xs[i]), math.Max(maxX, xs[i])
		minY, maxY = math.Min(minY, ys[i]), math.Max(maxY, ys[i])
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
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	scale := math.Min(float64(width)/rangeX, float64(height)/rangeY)
	return frame{minX: minX, minY: minY, scale: scale, width: float64(width), height: float64(height)}
}

func (f frame) point(x, y float64) (float64, float64) {
	return (x - f.minX) * f.scale, f.height - (y-f.minY)*f.scale
}

// TrajectoryToSVG draws a polyline through points.
func TrajectoryToSVG(points []analysis.Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.X, p.Y
	}
	f := newFrame(xs, ys, width, height)

	var sb strings.Builder
	header(&sb, float64(width), float64(height))
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor)

	for i, p := range points {
		x, y := f.point(p.X, p.Y)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// MeshToSVG draws the triangles of a mesh projected onto the XY plane.
// Faces are shaded by how directly their normal faces the viewer.
func MeshToSVG(verts []mgl64.Vec3, faces []cloth.Face, width, height int) string {
	if len(verts) == 0 || len(faces) == 0 {
		return ""
	}

	xs := make([]float64, len(verts))
	ys := make([]float64, len(verts))
	for i, v := range verts {
		xs[i], ys[i] = v[0], v[1]
	}
	f := newFrame(xs, ys, width, height)

	var sb strings.Builder
	header(&sb, float64(width), float64(height))
	sb.WriteString("<g stroke=\"#f2e8cf\" stroke-width=\"0.5\">\n")

	for _, face := range faces {
		a, b, c := verts[face[0]], verts[face[1]], verts[face[2]]
		n := b.Sub(a).Cross(c.Sub(a))
		shade := 0.2
		if l := n.Len(); l > 0 {
			shade = 0.2 + 0.6*math.Abs(n[2])/l
		}
		grey := int(shade * 255)

		sb.WriteString("<polygon points=\"")
		for i, v := range [3]mgl64.Vec3{a, b, c} {
			x, y := f.point(v[0], v[1])
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		}
		fmt.Fprintf(&sb, "\" fill=\"rgb(%d,%d,%d)\"/>\n", grey/2, grey/2, grey)
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// ParticlesToSVG draws circles at the XY projection of each position.
// radii may be shorter than positions; missing radii fall back to 0.05.
func ParticlesToSVG(positions []mgl64.Vec3, radii []float64, width, height int) string {
	if len(positions) == 0 {
		return ""
	}

	xs := make([]float64, len(positions))
	ys := make([]float64, len(positions))
	for i, p := range positions {
		xs[i], ys[i] = p[0], p[1]
	}
	f := newFrame(xs, ys, width, height)

	var sb strings.Builder
	header(&sb, float64(width), float64(height))
	sb.WriteString("<g fill=\"#00a8cc\">\n")
	for i, p := range positions {
		r := 0.05
		if i < len(radii) {
			r = radii[i]
		}
		x, y := f.point(p[0], p[1])
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", x, y, math.Max(r*f.scale, 0.5))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}
