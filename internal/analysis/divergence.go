package analysis

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/softbody/internal/particle"
	"github.com/san-kum/softbody/internal/sim"
)

var ErrNoMovableParticle = errors.New("scenario has no movable particle to perturb")

// Divergence estimates how fast two copies of a scenario drift apart after
// one movable particle in the second copy is nudged along x by perturbation.
// It returns the mean log growth rate of the separation per second, so a
// positive value means small disturbances grow.
//
// Separation is the root of summed squared position differences over the
// particles both copies share. The perturbed copy is pulled back toward the
// reference whenever the separation exceeds 1.
func Divergence(factory sim.Factory, seed int64, perturbation, dt, duration float64) (float64, error) {
	if perturbation <= 0 || dt <= 0 {
		return 0, nil
	}
	ref, err := factory(seed)
	if err != nil {
		return 0, err
	}
	pert, err := factory(seed)
	if err != nil {
		return 0, err
	}

	target := firstMovable(pert.Particles())
	if target == nil {
		return 0, ErrNoMovableParticle
	}
	target.SetPosition(target.Position().Add(mgl64.Vec3{perturbation, 0, 0}))

	d0 := perturbation
	sumLog := 0.0
	count := 0

	for n := sim.StepCount(duration, dt); n > 0; n-- {
		ref.Step(dt)
		pert.Step(dt)

		a, b := ref.Particles(), pert.Particles()
		sep := separation(a, b)
		if math.IsNaN(sep) || math.IsInf(sep, 0) {
			break
		}

		if sep > 0 {
			sumLog += math.Log(sep / d0)
			count++
		}

		if sep > 1.0 {
			renormalize(a, b, d0/sep)
		}
	}

	if count == 0 {
		return 0, nil
	}
	return sumLog / (float64(count) * dt), nil
}

func firstMovable(ps []*particle.Particle) *particle.Particle {
	for _, p := range ps {
		if p.HasFiniteMass() {
			return p
		}
	}
	return nil
}

func separation(a, b []*particle.Particle) float64 {
	n := min(len(a), len(b))
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += b[i].Position().Sub(a[i].Position()).LenSqr()
	}
	return math.Sqrt(sum)
}

func renormalize(a, b []*particle.Particle, scale float64) {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		ref := a[i].Position()
		b[i].SetPosition(ref.Add(b[i].Position().Sub(ref).Mul(scale)))
	}
}
