package particle

import (
	"math"

	"github.com/charmbracelet/log"
)

// DefaultIterations is the resolver cap used when none is configured.
const DefaultIterations = 16

// Resolver resolves contacts greedily: each iteration handles the single
// worst contact. Resolving one contact can disturb another, so quality is
// bounded by the iteration cap rather than the contact count.
type Resolver struct {
	Iterations     int
	iterationsUsed int
}

func NewResolver(iterations int) *Resolver {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return &Resolver{Iterations: iterations}
}

// IterationsUsed reports how many contacts the last call resolved.
func (r *Resolver) IterationsUsed() int { return r.iterationsUsed }

func (r *Resolver) ResolveContacts(contacts []Contact, dt float64) {
	r.iterationsUsed = 0

	for r.iterationsUsed < r.Iterations {
		worst := math.MaxFloat64
		worstIdx := -1

		for i := range contacts {
			if !contacts[i].Resolvable() {
				continue
			}
			sepVel := contacts[i].SeparatingVelocity()
			if sepVel < worst && (sepVel < 0 || contacts[i].Penetration > 0) {
				worst = sepVel
				worstIdx = i
			}
		}

		if worstIdx < 0 {
			return
		}

		contacts[worstIdx].Resolve(dt)
		updatePenetrations(contacts, worstIdx)
		r.iterationsUsed++
	}

	if len(contacts) > 0 {
		log.Debug("contact resolver hit iteration cap", "iterations", r.Iterations, "contacts", len(contacts))
	}
}

// updatePenetrations accounts for the correction just applied by
// contacts[resolved] in every other contact sharing one of its particles.
// Without it several contacts on one body each push it out in full.
func updatePenetrations(contacts []Contact, resolved int) {
	moved := contacts[resolved].Particles
	movement := contacts[resolved].movement

	for i := range contacts {
		if i == resolved {
			continue
		}
		c := &contacts[i]
		for k := 0; k < 2; k++ {
			if moved[k] == nil {
				continue
			}
			if c.Particles[0] == moved[k] {
				c.Penetration -= movement[k].Dot(c.Normal)
			} else if c.Particles[1] == moved[k] {
				c.Penetration += movement[k].Dot(c.Normal)
			}
		}
	}
}
