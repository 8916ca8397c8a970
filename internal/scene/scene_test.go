package scene

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/softbody/internal/config"
	"github.com/san-kum/softbody/internal/dynamo"
)

func smallConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Cloth.Width, cfg.Cloth.Height, cfg.Cloth.Density = 1, 1, 4
	cfg.Emitter.Rate = 60
	return cfg
}

func TestRegistryBuildsEveryScenario(t *testing.T) {
	r := NewRegistry()
	names := r.List()
	if len(names) != 5 {
		t.Fatalf("expected 5 scenarios, got %v", names)
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			sc, err := r.Get(name, smallConfig())
			if err != nil {
				t.Fatal(err)
			}
			if sc.Name() != name {
				t.Errorf("expected name %s, got %s", name, sc.Name())
			}

			for i := 0; i < 120; i++ {
				sc.Step(1.0 / 60)
				x := sc.Observe()
				if len(x) != len(sc.Labels()) {
					t.Fatalf("observation has %d entries for %d labels", len(x), len(sc.Labels()))
				}
				if !x.IsValid() {
					t.Fatalf("step %d: invalid state %v", i, x)
				}
			}
		})
	}
}

func TestRegistryUnknownScenario(t *testing.T) {
	_, err := NewRegistry().Get("trampoline", smallConfig())
	if !errors.Is(err, dynamo.ErrUnknownScenario) {
		t.Errorf("expected ErrUnknownScenario, got %v", err)
	}
}

func TestResetRestoresInitialObservation(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"cloth", "bounce", "stack", "pendulum"} {
		sc, err := r.Get(name, smallConfig())
		if err != nil {
			t.Fatal(err)
		}
		first := sc.Observe()
		for i := 0; i < 30; i++ {
			sc.Step(1.0 / 60)
		}
		sc.Reset()
		again := sc.Observe()
		for i := range first {
			if first[i] != again[i] {
				t.Errorf("%s: %s = %v after reset, want %v", name, sc.Labels()[i], again[i], first[i])
			}
		}
	}
}

func TestBounceSettlesOnGround(t *testing.T) {
	cfg := smallConfig()
	b := NewBounce(cfg)

	for i := 0; i < 600; i++ {
		b.Step(1.0 / 60)
	}
	for i, p := range b.Particles() {
		if y := p.Position().Y(); y < cfg.Scene.GroundHeight+b.Radii()[i]-0.05 {
			t.Errorf("sphere %d sank to %v", i, y)
		}
	}
}

func TestBounceGravityIsAcceleration(t *testing.T) {
	cfg := smallConfig()
	b := NewBounce(cfg)

	want := mgl64.Vec3{0, cfg.Scene.Gravity, 0}
	for i, p := range b.Particles() {
		if p.Acceleration() != want {
			t.Errorf("sphere %d: expected acceleration %v, got %v", i, want, p.Acceleration())
		}
	}

	if err := b.SetParam("gravity", -1.6); err != nil {
		t.Fatal(err)
	}
	for i, p := range b.Particles() {
		if p.Acceleration().Y() != -1.6 {
			t.Errorf("sphere %d: gravity not updated, got %v", i, p.Acceleration())
		}
	}
}

func TestBounceRestingContactDoesNotRebound(t *testing.T) {
	cfg := smallConfig()
	cfg.Scene.Bodies = 1
	cfg.Scene.Restitution = 0.8
	b := NewBounce(cfg)

	p := b.Particles()[0]
	p.SetPosition(mgl64.Vec3{0, cfg.Scene.GroundHeight + b.Radii()[0] - 0.001, 0})
	p.SetVelocity(mgl64.Vec3{})
	b.Step(1.0 / 60)

	// the closing speed came from one step of gravity alone, so nothing of
	// it is reflected back
	if vy := p.Velocity().Y(); math.Abs(vy) > 1e-9 {
		t.Errorf("resting sphere picked up vertical speed %v", vy)
	}
}

func TestStackRestsOnGround(t *testing.T) {
	cfg := smallConfig()
	s := NewStack(cfg)

	for i := 0; i < 600; i++ {
		s.Step(1.0 / 60)
	}
	for i, b := range s.Boxes() {
		if y := b.Center().Y(); y < cfg.Scene.Radius-0.05 {
			t.Errorf("box %d sank to %v", i, y)
		}
	}
	if s.Overlaps() != 0 {
		t.Errorf("spaced boxes should not overlap, got %d", s.Overlaps())
	}
}

func TestStackReportsOverlaps(t *testing.T) {
	cfg := smallConfig()
	cfg.Scene.Bodies = 2
	cfg.Scene.Spread = -0.5
	s := NewStack(cfg)

	s.Step(1.0 / 60)
	if s.Overlaps() != 1 {
		t.Errorf("expected one overlapping pair, got %d", s.Overlaps())
	}
}

func TestPendulumHangsBelowAnchor(t *testing.T) {
	cfg := smallConfig()
	p := NewPendulum(cfg)

	for i := 0; i < 240; i++ {
		p.Step(1.0 / 60)
	}
	end := p.Observe()
	if end[1] >= p.Anchor().Y() {
		t.Errorf("chain end should swing below the anchor, y = %v", end[1])
	}
}

func TestSceneParams(t *testing.T) {
	r := NewRegistry()
	for _, name := range r.List() {
		sc, err := r.Get(name, smallConfig())
		if err != nil {
			t.Fatal(err)
		}
		conf, ok := sc.(dynamo.Configurable)
		if !ok {
			continue
		}
		for key, val := range conf.Params() {
			if err := conf.SetParam(key, val); err != nil {
				t.Errorf("%s: setting %s to its current value failed: %v", name, key, err)
			}
		}
		if err := conf.SetParam("no_such_param", 1); !errors.Is(err, dynamo.ErrUnknownParam) {
			t.Errorf("%s: expected ErrUnknownParam, got %v", name, err)
		}
	}
}

func TestFactorySetsSeed(t *testing.T) {
	r := NewRegistry()
	cfg := smallConfig()
	factory := r.Factory("bounce", cfg)

	a, _ := factory(1)
	b, _ := factory(2)
	if a.Observe()[0] == b.Observe()[0] && a.Particles()[0].Position() == b.Particles()[0].Position() {
		t.Error("different seeds should jitter the spheres differently")
	}
	if cfg.Seed != config.DefaultConfig().Seed {
		t.Error("factory must not mutate the shared config")
	}
}
