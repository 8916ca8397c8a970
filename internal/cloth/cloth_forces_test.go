package cloth

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// newQuad builds a single quad, rows 2 x cols 2, with half-unit edges in
// the z = 0 plane and no gravity. Particle indices are 0 (0,0), 1 (0,1),
// 2 (1,0) and 3 (1,1); faces are {0,2,3} and {0,3,1}.
func newQuad(t *testing.T, mutate func(*Config)) *Cloth {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Width, cfg.Height, cfg.Density = 1, 1, 2
	cfg.Gravity = mgl64.Vec3{}
	cfg.Wind = mgl64.Vec3{}
	if mutate != nil {
		mutate(&cfg)
	}
	c, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestVertexNormalsAverageUnitFaceNormals(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height, cfg.Density = 1, 2, 2
	c, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}

	p := c.Particle(2, 1)
	p.SetPosition(p.Position().Add(mgl64.Vec3{0, -3, 2}))
	c.refreshMesh()

	pos := make([]mgl64.Vec3, len(c.Particles()))
	for i, q := range c.Particles() {
		pos[i] = q.Position()
	}
	sums := make([]mgl64.Vec3, len(pos))
	for _, f := range c.Faces() {
		a, b, d := pos[f[0]], pos[f[1]], pos[f[2]]
		n := b.Sub(a).Cross(d.Sub(a)).Normalize()
		for _, idx := range f {
			sums[idx] = sums[idx].Add(n)
		}
	}

	for i, got := range c.Normals() {
		want := sums[i].Normalize()
		if !got.ApproxEqualThreshold(want, 1e-9) {
			t.Errorf("vertex %d: expected normal %v, got %v", i, want, got)
		}
	}

	// vertex 4 is (2,0); its adjoining faces range from 0.125 to 0.94 in
	// area, so an area-weighted sum flips the sign of z
	area := mgl64.Vec3{}
	for _, f := range c.Faces() {
		for _, idx := range f {
			if idx == 4 {
				a, b, d := pos[f[0]], pos[f[1]], pos[f[2]]
				area = area.Add(b.Sub(a).Cross(d.Sub(a)))
			}
		}
	}
	if c.Normals()[4].ApproxEqualThreshold(area.Normalize(), 1e-3) {
		t.Errorf("vertex 4 normal %v matches the area-weighted sum", c.Normals()[4])
	}
}

func TestDragForcePerVertex(t *testing.T) {
	const (
		rho  = 1.225
		cd   = 1.28
		area = 0.125
	)
	tests := []struct {
		name string
		wind mgl64.Vec3
		// magnitude of one face's drag before the three-way split
		face float64
	}{
		{"head on", mgl64.Vec3{0, 0, 4}, 0.5 * rho * 16 * cd * area * 1},
		{"oblique", mgl64.Vec3{3, 0, 4}, 0.5 * rho * 25 * cd * area * 0.8},
		{"edge on", mgl64.Vec3{2, 0, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newQuad(t, func(cfg *Config) {
				cfg.Wind = tt.wind
				cfg.AirDensity = rho
				cfg.DragCoefficient = cd
			})
			c.applyDrag()

			// vertices 0 and 3 sit on both faces
			shares := []float64{2, 1, 1, 2}
			for i, p := range c.Particles() {
				want := mgl64.Vec3{0, 0, shares[i] * tt.face / 3}
				if !p.Force().ApproxEqualThreshold(want, 1e-9) {
					t.Errorf("vertex %d: expected %v, got %v", i, want, p.Force())
				}
			}
		})
	}
}

func TestDragUsesVelocityRelativeToWind(t *testing.T) {
	c := newQuad(t, func(cfg *Config) { cfg.Wind = mgl64.Vec3{0, 0, 4} })
	for _, p := range c.Particles() {
		p.SetVelocity(mgl64.Vec3{0, 0, 4})
	}
	c.applyDrag()

	for i, p := range c.Particles() {
		if p.Force() != (mgl64.Vec3{}) {
			t.Errorf("vertex %d moving with the wind got force %v", i, p.Force())
		}
	}
}

func TestSpringForces(t *testing.T) {
	t.Run("stretch", func(t *testing.T) {
		c := newQuad(t, func(cfg *Config) {
			cfg.SpringConstant = 100
			cfg.DampingConstant = 0
		})
		// pull (1,1) from (0.5, 0.5) down to (0.5, 0)
		c.Particle(1, 1).SetPosition(mgl64.Vec3{0.5, 0, 0})
		c.applySprings()

		// springs to (1,0), (0,1) and (0,0) stretch by sqrt(0.5)-0.5, 0.5
		// and sqrt(1.25)-sqrt(0.5)
		side := 100 * (0.5 - math.Sqrt(0.125))
		diagX := 100 * (0.5 - 0.5*math.Sqrt(0.4))
		diagY := 100 * (1 - math.Sqrt(0.4))
		want := map[int]mgl64.Vec3{
			3: {side + diagX, side + 50 + diagY, 0},
			2: {-side, -side, 0},
			1: {0, -50, 0},
			0: {-diagX, -diagY, 0},
		}
		for i, w := range want {
			if got := c.Particles()[i].Force(); !got.ApproxEqualThreshold(w, 1e-9) {
				t.Errorf("vertex %d: expected %v, got %v", i, w, got)
			}
		}
	})

	t.Run("damping", func(t *testing.T) {
		c := newQuad(t, func(cfg *Config) {
			cfg.SpringConstant = 100
			cfg.DampingConstant = 2
		})
		c.Particle(1, 1).SetVelocity(mgl64.Vec3{0, -1, 0})
		c.applySprings()

		// the horizontal spring to (1,0) is perpendicular to the motion
		want := map[int]mgl64.Vec3{
			3: {1, 3, 0},
			2: {0, 0, 0},
			1: {0, -2, 0},
			0: {-1, -1, 0},
		}
		for i, w := range want {
			if got := c.Particles()[i].Force(); !got.ApproxEqualThreshold(w, 1e-9) {
				t.Errorf("vertex %d: expected %v, got %v", i, w, got)
			}
		}
	})
}
