package analysis

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/softbody/internal/dynamo"
	"github.com/san-kum/softbody/internal/particle"
	"github.com/san-kum/softbody/internal/sim"
)

// oscillator is a bead on an anchored spring moving along x between 0.5
// and 1.5.
type oscillator struct {
	k      float64
	bead   *particle.Particle
	forces *particle.Registry
}

func newOscillator(k float64) *oscillator {
	o := &oscillator{k: k, forces: particle.NewRegistry()}
	o.bead = particle.New(mgl64.Vec3{1.5, 0, 0}, 1, 1)
	o.wire()
	return o
}

func (o *oscillator) wire() {
	o.forces.Clear()
	o.forces.Add(o.bead, particle.NewAnchoredSpring(mgl64.Vec3{}, o.k, 1))
}

func (o *oscillator) Name() string { return "oscillator" }
func (o *oscillator) Step(dt float64) {
	o.forces.UpdateForces(dt)
	o.bead.Integrate(dt)
}
func (o *oscillator) Reset() {
	o.bead.SetPosition(mgl64.Vec3{1.5, 0, 0})
	o.bead.SetVelocity(mgl64.Vec3{})
}
func (o *oscillator) Particles() []*particle.Particle { return []*particle.Particle{o.bead} }
func (o *oscillator) Labels() []string               { return []string{"x", "vx"} }
func (o *oscillator) Observe() dynamo.State {
	return dynamo.State{o.bead.Position().X(), o.bead.Velocity().X()}
}
func (o *oscillator) Params() map[string]float64 { return map[string]float64{"k": o.k} }
func (o *oscillator) SetParam(name string, value float64) error {
	if name != "k" {
		return fmt.Errorf("%w: %q", dynamo.ErrUnknownParam, name)
	}
	o.k = value
	o.wire()
	return nil
}

func TestFFTPadsToPowerOfTwo(t *testing.T) {
	tests := []struct {
		n, want int
	}{
		{0, 1},
		{1, 1},
		{3, 4},
		{8, 8},
		{100, 128},
	}

	for _, tt := range tests {
		got := FFT(make([]float64, tt.n))
		if len(got) != tt.want {
			t.Errorf("FFT(len %d): expected %d bins, got %d", tt.n, tt.want, len(got))
		}
	}
}

func TestFFTConstant(t *testing.T) {
	out := FFT([]float64{1, 1, 1, 1})
	if math.Abs(real(out[0])-4) > 1e-12 {
		t.Errorf("expected DC bin 4, got %v", out[0])
	}
	for i := 1; i < len(out); i++ {
		if cmplx.Abs(out[i]) > 1e-12 {
			t.Errorf("expected empty bin %d, got %v", i, out[i])
		}
	}
}

func TestFFTMatchesDirectTransform(t *testing.T) {
	data := []float64{0.5, -1, 2, 3, 0, 1.5, -2, 0.25}
	got := FFT(data)

	n := len(data)
	for k := 0; k < n; k++ {
		var want complex128
		for i, v := range data {
			want += complex(v, 0) * cmplx.Exp(complex(0, -2*math.Pi*float64(k*i)/float64(n)))
		}
		if cmplx.Abs(got[k]-want) > 1e-9 {
			t.Errorf("bin %d: expected %v, got %v", k, want, got[k])
		}
	}
}

func TestPowerSpectrumPeak(t *testing.T) {
	// 8 cycles over 64 samples lands exactly on bin 8
	samples := make([]float64, 64)
	for i := range samples {
		samples[i] = 5 + 3*math.Sin(2*math.Pi*8*float64(i)/64)
	}
	ps := PowerSpectrum(samples)
	if len(ps) != 32 {
		t.Fatalf("expected 32 bins, got %d", len(ps))
	}
	if math.Abs(ps[8]-96) > 1e-9 {
		t.Errorf("expected peak 96 at bin 8, got %v", ps[8])
	}
	for i, v := range ps {
		if i != 8 && v > 1e-9 {
			t.Errorf("expected empty bin %d, got %v", i, v)
		}
	}
}

func TestDominantFrequency(t *testing.T) {
	dt := 0.01
	tests := []float64{1, 3, 7.5}

	for _, hz := range tests {
		samples := make([]float64, 1000)
		for i := range samples {
			samples[i] = 2 + math.Sin(2*math.Pi*hz*float64(i)*dt)
		}
		got := DominantFrequency(samples, dt)
		if math.Abs(got-hz) > 0.15 {
			t.Errorf("expected about %.2f Hz, got %.3f", hz, got)
		}
	}
}

func TestDominantFrequencyDegenerate(t *testing.T) {
	if f := DominantFrequency(nil, 0.01); f != 0 {
		t.Errorf("expected 0 for no samples, got %v", f)
	}
	if f := DominantFrequency([]float64{1, 2, 3}, 0); f != 0 {
		t.Errorf("expected 0 for dt=0, got %v", f)
	}
}

func TestDominantFrequencyOfOscillator(t *testing.T) {
	o := newOscillator(4 * math.Pi * math.Pi)
	dt := 0.01
	samples := make([]float64, 1000)
	for i := range samples {
		o.Step(dt)
		samples[i] = o.Observe()[0]
	}

	got := DominantFrequency(samples, dt)
	if math.Abs(got-1) > 0.1 {
		t.Errorf("expected about 1 Hz, got %.3f", got)
	}
}

func TestSweep(t *testing.T) {
	o := newOscillator(20)
	points, err := Sweep(o, SweepConfig{
		Param:     "k",
		Min:       10,
		Max:       40,
		Steps:     4,
		Channel:   "x",
		Dt:        0.01,
		Transient: 0.5,
		Record:    2,
	})
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(points) != 4 {
		t.Fatalf("expected 4 points, got %d", len(points))
	}

	for i, p := range points {
		want := 10 + 10*float64(i)
		if math.Abs(p.Param-want) > 1e-9 {
			t.Errorf("point %d: expected param %v, got %v", i, want, p.Param)
		}
		if len(p.Values) == 0 {
			t.Errorf("point %d recorded nothing", i)
		}
		for _, v := range p.Values {
			if v < 0.4 || v > 1.6 {
				t.Errorf("point %d: value %v outside the swing", i, v)
			}
		}
	}

	if o.k != 20 {
		t.Errorf("expected k restored to 20, got %v", o.k)
	}
	if pos := o.bead.Position(); pos.X() != 1.5 {
		t.Errorf("expected scenario reset after sweep, bead at %v", pos)
	}

	if out := SweepToASCII(points, 20, 6); strings.Count(out, "\n") != 6 {
		t.Errorf("expected 6 rows, got %q", out)
	}
}

func TestSweepErrors(t *testing.T) {
	o := newOscillator(20)

	if _, err := Sweep(o, SweepConfig{Param: "mass", Channel: "x", Dt: 0.01}); !errors.Is(err, dynamo.ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
	if _, err := Sweep(o, SweepConfig{Param: "k", Channel: "nope", Dt: 0.01}); err == nil {
		t.Error("expected error for unknown channel")
	}
	if _, err := Sweep(o, SweepConfig{Param: "k", Channel: "x"}); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
}

func TestDivergenceOfOscillatorStaysBounded(t *testing.T) {
	factory := func(int64) (sim.Scenario, error) { return newOscillator(20), nil }

	rate, err := Divergence(factory, 1, 1e-6, 0.01, 5)
	if err != nil {
		t.Fatalf("divergence: %v", err)
	}
	if math.IsNaN(rate) || rate > 1 {
		t.Errorf("expected a bounded rate for a linear oscillator, got %v", rate)
	}
}

func TestDivergenceErrors(t *testing.T) {
	boom := errors.New("boom")
	failing := func(int64) (sim.Scenario, error) { return nil, boom }
	if _, err := Divergence(failing, 1, 1e-6, 0.01, 1); !errors.Is(err, boom) {
		t.Errorf("expected factory error, got %v", err)
	}

	pinned := func(int64) (sim.Scenario, error) {
		o := newOscillator(20)
		o.bead.SetInverseMass(0)
		return o, nil
	}
	if _, err := Divergence(pinned, 1, 1e-6, 0.01, 1); !errors.Is(err, ErrNoMovableParticle) {
		t.Errorf("expected ErrNoMovableParticle, got %v", err)
	}
}

func TestPhasePortrait(t *testing.T) {
	labels := []string{"x", "vx"}
	states := []dynamo.State{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}

	p, err := NewPhasePortrait(labels, states, "x", "vx")
	if err != nil {
		t.Fatalf("portrait: %v", err)
	}
	if len(p.Points) != 4 || p.Points[1] != (Point{1, 0}) {
		t.Errorf("unexpected points %v", p.Points)
	}

	out := PhasePortraitToASCII(p, 21, 11)
	if strings.Count(out, "•") == 0 || !strings.Contains(out, "│") {
		t.Errorf("expected points and an axis, got\n%s", out)
	}

	if _, err := NewPhasePortrait(labels, states, "x", "y"); err == nil {
		t.Error("expected error for unknown channel")
	}
	if PhasePortraitToASCII(nil, 10, 10) != "" {
		t.Error("expected empty output for nil portrait")
	}
}

func TestCrossings(t *testing.T) {
	labels := []string{"x", "vx"}
	states := []dynamo.State{{-1, 0}, {1, 2}, {2, 0}, {-1, 4}, {3, 8}}

	pts, err := Crossings(labels, states, "x", 0, "x", "vx")
	if err != nil {
		t.Fatalf("crossings: %v", err)
	}
	if len(pts) != 2 {
		t.Fatalf("expected 2 upward crossings, got %v", pts)
	}
	if math.Abs(pts[0].Y-1) > 1e-12 || math.Abs(pts[1].Y-5) > 1e-12 {
		t.Errorf("expected interpolated vx 1 and 5, got %v", pts)
	}
}
