package gui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/softbody/internal/collide"
	"github.com/san-kum/softbody/internal/scene"
	"github.com/san-kum/softbody/internal/sim"
)

func vec(v mgl64.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v[0]), float32(v[1]), float32(v[2]))
}

func wrap(i, n int) int {
	if n <= 0 {
		return 0
	}
	return ((i % n) + n) % n
}

// paramStep is a tenth of the value's order of magnitude, so 9.8 moves by
// 0.1 and 0.002 moves by 0.0001.
func paramStep(v float64) float64 {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0.1
	}
	return math.Pow(10, math.Floor(math.Log10(math.Abs(v)))-1)
}

// speedColor fades from grey at rest to white at 10 m/s.
func speedColor(speed float64) rl.Color {
	v := uint8(math.Min(100+speed*15.5, 255))
	return rl.NewColor(v, v, v, 255)
}

// faceShade lights a face by how much its normal points toward +z.
func faceShade(n mgl64.Vec3) rl.Color {
	l := n.Len()
	k := 0.35
	if l > 0 {
		k += 0.65 * math.Abs(n[2]) / l
	}
	return rl.NewColor(
		uint8(float64(ColCloth.R)*k),
		uint8(float64(ColCloth.G)*k),
		uint8(float64(ColCloth.B)*k),
		255,
	)
}

var boxEdges = [12][2]int{
	{0, 1}, {1, 3}, {3, 2}, {2, 0},
	{4, 5}, {5, 7}, {7, 6}, {6, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

func boxCorners(b collide.Box) [8]mgl64.Vec3 {
	var out [8]mgl64.Vec3
	for i := range out {
		local := b.HalfSize
		for axis := 0; axis < 3; axis++ {
			if i&(1<<axis) != 0 {
				local[axis] = -local[axis]
			}
		}
		out[i] = mgl64.TransformCoordinate(local, b.Transform)
	}
	return out
}

// telemetryPoints maps values onto a strip inside the given rectangle.
func telemetryPoints(values []float64, x, y, w, h float32) []rl.Vector2 {
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}

	pts := make([]rl.Vector2, len(values))
	for i, v := range values {
		px := x + float32(i)/float32(len(values))*w
		py := y + h - float32((v-lo)/(hi-lo))*h
		pts[i] = rl.NewVector2(px, py)
	}
	return pts
}

// frameCamera places the camera in front of the scenario along +z, far
// enough back to see its particles.
func frameCamera(sc sim.Scenario) (pos, target rl.Vector3) {
	var pts []mgl64.Vec3
	switch s := sc.(type) {
	case *scene.Fountain:
		cfg := s.Emitter().Config()
		top := cfg.Position.Add(mgl64.Vec3{0, cfg.Velocity.Len() * cfg.Lifespan / 2, 0})
		pts = []mgl64.Vec3{cfg.Position, top, {cfg.Position[0], cfg.GroundHeight, cfg.Position[2]}}
	case *scene.Pendulum:
		pts = append(pts, s.Anchor())
		for _, p := range s.Particles() {
			r := p.Position().Sub(s.Anchor()).Len()
			pts = append(pts, s.Anchor().Sub(mgl64.Vec3{r, r, 0}), s.Anchor().Add(mgl64.Vec3{r, 0, 0}))
		}
	default:
		for _, p := range sc.Particles() {
			pts = append(pts, p.Position())
		}
	}
	if len(pts) == 0 {
		return rl.NewVector3(0, 2, 10), rl.NewVector3(0, 1, 0)
	}

	lo, hi := pts[0], pts[0]
	for _, p := range pts[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = math.Min(lo[i], p[i])
			hi[i] = math.Max(hi[i], p[i])
		}
	}
	centre := lo.Add(hi).Mul(0.5)
	extent := math.Max(hi.Sub(lo).Len(), 1)

	// 45 degree field of view
	dist := extent / (2 * math.Tan(math.Pi/8)) * 1.2
	eye := centre.Add(mgl64.Vec3{0, extent * 0.2, dist})
	return vec(eye), vec(centre)
}
