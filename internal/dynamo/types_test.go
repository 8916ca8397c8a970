package dynamo

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"normal", State{1.0, 2.0, 3.0}, true},
		{"with NaN", State{1.0, math.NaN()}, false},
		{"with +Inf", State{1.0, math.Inf(1)}, false},
		{"with -Inf", State{1.0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestState_NormAndSub(t *testing.T) {
	a := State{4, 6}
	b := State{1, 2}
	if got := a.Sub(b).Norm(); math.Abs(got-5) > 1e-12 {
		t.Errorf("expected 5, got %v", got)
	}

	c := a.Clone()
	c[0] = 100
	if a[0] != 4 {
		t.Error("Clone must not alias the original")
	}
}

func TestSafeNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   mgl64.Vec3
		want mgl64.Vec3
	}{
		{"zero", mgl64.Vec3{}, mgl64.Vec3{}},
		{"tiny", mgl64.Vec3{1e-14, 0, 0}, mgl64.Vec3{}},
		{"axis", mgl64.Vec3{0, -3, 0}, mgl64.Vec3{0, -1, 0}},
		{"diagonal", mgl64.Vec3{3, 4, 0}, mgl64.Vec3{0.6, 0.8, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SafeNormalize(tt.in)
			if !got.ApproxEqualThreshold(tt.want, 1e-12) {
				t.Errorf("SafeNormalize(%v) = %v, want %v", tt.in, got, tt.want)
			}
			if !FiniteVec(got) {
				t.Errorf("SafeNormalize(%v) produced non-finite %v", tt.in, got)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	if Clamp(-1, 0, 1) != 0 || Clamp(2, 0, 1) != 1 || Clamp(0.5, 0, 1) != 0.5 {
		t.Error("Clamp did not bound values")
	}
}
