package cloth

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/softbody/internal/dynamo"
)

func TestNewTopology(t *testing.T) {
	tests := []struct {
		w, h, d    int
		rows, cols int
	}{
		{1, 1, 1, 1, 1},
		{1, 1, 3, 3, 3},
		{2, 1, 2, 2, 4},
		{4, 4, 10, 40, 40},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.Width, cfg.Height, cfg.Density = tt.w, tt.h, tt.d
		c, err := New(cfg)
		if err != nil {
			t.Fatalf("New(%d,%d,%d): %v", tt.w, tt.h, tt.d, err)
		}
		if c.Rows() != tt.rows || c.Cols() != tt.cols {
			t.Errorf("expected %dx%d grid, got %dx%d", tt.rows, tt.cols, c.Rows(), c.Cols())
		}
		quads := (tt.rows - 1) * (tt.cols - 1)
		if c.SpringCount() != 6*quads {
			t.Errorf("expected %d springs, got %d", 6*quads, c.SpringCount())
		}
		if len(c.Faces()) != 2*quads {
			t.Errorf("expected %d faces, got %d", 2*quads, len(c.Faces()))
		}
		if len(c.Vertices()) != tt.rows*tt.cols || len(c.Normals()) != tt.rows*tt.cols {
			t.Errorf("mesh arrays do not match particle count")
		}
	}
}

func TestNewLayout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height, cfg.Density = 2, 1, 2
	c, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		row, col int
		want     mgl64.Vec3
		pinned   bool
	}{
		{0, 0, mgl64.Vec3{2, 1, 0}, true},
		{0, 3, mgl64.Vec3{0.5, 1, 0}, true},
		{1, 0, mgl64.Vec3{2, 0.5, 0}, false},
		{1, 2, mgl64.Vec3{1, 0.5, 0}, false},
	}
	for _, tt := range tests {
		p := c.Particle(tt.row, tt.col)
		if p.Position() != tt.want {
			t.Errorf("particle (%d,%d) at %v, want %v", tt.row, tt.col, p.Position(), tt.want)
		}
		if p.HasFiniteMass() == tt.pinned {
			t.Errorf("particle (%d,%d) pinned = %v, want %v", tt.row, tt.col, !p.HasFiniteMass(), tt.pinned)
		}
	}
	if m := c.Particle(1, 1).Mass(); math.Abs(m-cfg.ParticleMass) > 1e-12 {
		t.Errorf("expected mass %v, got %v", cfg.ParticleMass, m)
	}
}

func TestNewRejectsBadDimensions(t *testing.T) {
	bad := []func(*Config){
		func(c *Config) { c.Width = 0 },
		func(c *Config) { c.Height = -1 },
		func(c *Config) { c.Density = 0 },
		func(c *Config) { c.ParticleMass = 0 },
		func(c *Config) { c.FixedDeltaTime = 0 },
	}
	for i, mutate := range bad {
		cfg := DefaultConfig()
		mutate(&cfg)
		if _, err := New(cfg); !errors.Is(err, dynamo.ErrParameterBounds) {
			t.Errorf("case %d: expected ErrParameterBounds, got %v", i, err)
		}
	}
}

func TestSpringRestLengths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height, cfg.Density = 1, 1, 2
	c, _ := New(cfg)

	edge, diag := 0.5, math.Sqrt(0.5)
	for _, s := range c.springs {
		if math.Abs(s.rest-edge) > 1e-12 && math.Abs(s.rest-diag) > 1e-12 {
			t.Errorf("unexpected rest length %v", s.rest)
		}
	}
}

func TestSetParam(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height, cfg.Density = 1, 1, 2
	c, _ := New(cfg)

	if err := c.SetParam("spring_constant", 250); err != nil {
		t.Fatal(err)
	}
	if c.Config().SpringConstant != 250 || c.Params()["spring_constant"] != 250 {
		t.Error("spring constant not applied")
	}

	if err := c.SetParam("gravity_y", -1.6); err != nil {
		t.Fatal(err)
	}
	if c.Particle(1, 0).Acceleration().Y() != -1.6 {
		t.Error("gravity not pushed to particles")
	}

	if err := c.SetParam("particle_mass", 0.5); err != nil {
		t.Fatal(err)
	}
	if math.Abs(c.Particle(1, 1).Mass()-0.5) > 1e-12 {
		t.Errorf("expected mass 0.5, got %v", c.Particle(1, 1).Mass())
	}
	if c.Particle(0, 1).HasFiniteMass() {
		t.Error("top row must stay pinned")
	}

	if err := c.SetParam("particle_mass", -1); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
	if err := c.SetParam("colour", 1); !errors.Is(err, dynamo.ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
}

func TestSetConfigKeepsGrid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height, cfg.Density = 1, 1, 2
	c, _ := New(cfg)

	next := c.Config()
	next.Width = 10
	next.Restitution = 0.9
	c.SetConfig(next)

	if c.Config().Width != 1 {
		t.Error("grid dimensions changed after construction")
	}
	if c.Config().Restitution != 0.9 {
		t.Error("restitution not applied")
	}
}

func TestGroundBounce(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height, cfg.Density = 1, 1, 2
	cfg.Restitution = 0.5
	cfg.Friction = 0
	c, _ := New(cfg)

	p := c.Particle(1, 0)
	p.SetPosition(mgl64.Vec3{1, -0.2, 0})
	p.SetVelocity(mgl64.Vec3{0, -2, 0})
	c.collideGround()

	if got := p.Position().Y(); math.Abs(got-cfg.Bias) > 1e-12 {
		t.Errorf("expected snap to %v, got %v", cfg.Bias, got)
	}
	if got := p.Velocity().Y(); math.Abs(got-1) > 1e-9 {
		t.Errorf("expected rebound speed 1, got %v", got)
	}
}

func TestGroundFrictionOpposesSliding(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height, cfg.Density = 1, 1, 2
	cfg.Friction = 0.5
	c, _ := New(cfg)

	p := c.Particle(1, 0)
	p.SetPosition(mgl64.Vec3{1, -0.1, 0})
	p.SetVelocity(mgl64.Vec3{3, 0, 0})
	c.collideGround()

	want := -0.5 * cfg.ParticleMass * 9.8
	if got := p.Force().X(); math.Abs(got-want) > 1e-9 {
		t.Errorf("expected friction %v, got %v", want, got)
	}
	if p.Force().Y() != 0 || p.Force().Z() != 0 {
		t.Errorf("friction should be tangential, got %v", p.Force())
	}
}

func TestTransform(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height, cfg.Density = 1, 1, 1
	cfg.Position = mgl64.Vec3{1, 2, 3}
	cfg.Scale = mgl64.Vec3{2, 2, 2}
	c, _ := New(cfg)

	got := mgl64.TransformCoordinate(mgl64.Vec3{1, 0, 0}, c.Transform())
	if !got.ApproxEqualThreshold(mgl64.Vec3{3, 2, 3}, 1e-12) {
		t.Errorf("unexpected transformed point %v", got)
	}
}
