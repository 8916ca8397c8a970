package emitter_test

import (
	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/softbody/internal/emitter"
)

var _ = Describe("Emitter", func() {
	var (
		cfg emitter.Config
		em  *emitter.Emitter
	)

	BeforeEach(func() {
		cfg = emitter.DefaultConfig()
		cfg.Rate = 10
	})

	JustBeforeEach(func() {
		var err error
		em, err = emitter.New(cfg)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("spawning", func() {
		It("spawns floor(elapsed * rate) particles", func() {
			em.Update(0.5)
			Expect(em.Count()).To(Equal(5))
			Expect(em.Positions()).To(HaveLen(5))
			Expect(em.Radii()).To(HaveLen(5))
		})

		It("carries fractional spawns to later frames", func() {
			em.Update(0.05)
			Expect(em.Count()).To(BeZero())
			em.Update(0.05)
			em.Update(0.05)
			Expect(em.Spawned()).To(Equal(1))
		})

		Context("at capacity", func() {
			BeforeEach(func() {
				cfg.Capacity = 3
			})

			It("drops spawns that do not fit", func() {
				em.Update(0.5)
				Expect(em.Count()).To(Equal(3))
			})
		})

		Context("with radius variance", func() {
			BeforeEach(func() {
				cfg.Radius = 0.05
				cfg.RadiusVariance = 0.2
				cfg.RadiusLowerBound = 0.02
			})

			It("never goes below the lower bound", func() {
				em.Update(0.5)
				for _, r := range em.Radii() {
					Expect(r).To(BeNumerically(">=", 0.02))
				}
			})
		})
	})

	Describe("expiry", func() {
		It("removes particles once their lifespan is used up", func() {
			em.Update(0.5)
			Expect(em.SetParam("rate", 0)).To(Succeed())
			em.Update(0.5)
			Expect(em.Count()).To(BeZero())
			Expect(em.Expired()).To(Equal(5))
		})

		It("keeps the survivors when only some expire", func() {
			em.Update(0.5)
			em.Update(0.5)
			Expect(em.Count()).To(Equal(5))
			Expect(em.Expired()).To(Equal(5))
		})
	})

	Describe("Reset", func() {
		It("clears live particles and replays the same sequence", func() {
			for i := 0; i < 3; i++ {
				em.Update(0.2)
			}
			first := append([]mgl64.Vec3(nil), em.Positions()...)

			em.Reset()
			Expect(em.Count()).To(BeZero())
			Expect(em.Positions()).To(BeEmpty())

			for i := 0; i < 3; i++ {
				em.Update(0.2)
			}
			Expect(em.Positions()).To(Equal(first))
		})
	})

	Describe("ground contact", func() {
		BeforeEach(func() {
			cfg.Rate = 2
			cfg.Lifespan = 10
			cfg.VelocityVariance = mgl64.Vec3{}
			cfg.Position = mgl64.Vec3{0, 0.05, 0}
			cfg.Radius = 0.1
			cfg.Damping = 1
			cfg.AirDensity = 0
		})

		Context("falling straight down", func() {
			BeforeEach(func() {
				cfg.Gravity = mgl64.Vec3{}
				cfg.Velocity = mgl64.Vec3{0, -2, 0}
				cfg.Elasticity = 0.5
			})

			It("bounces with the configured elasticity and leaves the plane", func() {
				em.Update(0.5)
				Expect(em.Count()).To(Equal(1))
				p := em.Particles()[0]
				Expect(p.Velocity().Y()).To(BeNumerically("~", 1, 1e-9))
				Expect(p.Position().Y()).To(BeNumerically("~", cfg.Radius, 1e-9))
			})
		})

		Context("sliding", func() {
			BeforeEach(func() {
				cfg.Velocity = mgl64.Vec3{2, 0, 0}
				cfg.Friction = 0.5
			})

			It("pushes back against the sliding direction", func() {
				em.Update(0.5)
				p := em.Particles()[0]
				Expect(p.Force().X()).To(BeNumerically("~", -0.5*cfg.Mass*9.8, 1e-9))
				Expect(p.Force().Y()).To(BeZero())
			})
		})

		It("never leaves a particle sunk into the ground", func() {
			cfg := emitter.DefaultConfig()
			cfg.Rate = 500
			cfg.Elasticity = 0.3
			e, err := emitter.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 60; i++ {
				e.Update(1.0 / 60)
				for j, pos := range e.Positions() {
					Expect(pos.Y()).To(BeNumerically(">=", cfg.GroundHeight+e.Radii()[j]-1e-9))
				}
			}
		})
	})
})
