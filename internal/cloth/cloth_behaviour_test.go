package cloth_test

import (
	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/softbody/internal/cloth"
)

func smallConfig() cloth.Config {
	cfg := cloth.DefaultConfig()
	cfg.Width, cfg.Height, cfg.Density = 1, 1, 4
	return cfg
}

func positions(c *cloth.Cloth) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, 0, len(c.Particles()))
	for _, p := range c.Particles() {
		out = append(out, p.Position())
	}
	return out
}

var _ = Describe("Cloth", func() {
	var (
		cfg cloth.Config
		c   *cloth.Cloth
	)

	BeforeEach(func() {
		cfg = smallConfig()
	})

	JustBeforeEach(func() {
		var err error
		c, err = cloth.New(cfg)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Reset", func() {
		It("restores construction positions after running", func() {
			start := positions(c)
			for i := 0; i < 50; i++ {
				c.Update(0.016)
			}
			Expect(positions(c)).NotTo(Equal(start))

			c.Reset()
			Expect(positions(c)).To(Equal(start))
			for _, p := range c.Particles() {
				Expect(p.Velocity()).To(Equal(mgl64.Vec3{}))
				Expect(p.Force()).To(Equal(mgl64.Vec3{}))
			}
		})

		It("is idempotent", func() {
			c.Update(0.016)
			c.Reset()
			once := positions(c)
			c.Reset()
			Expect(positions(c)).To(Equal(once))
			Expect(c.Vertices()).To(Equal(once))
		})
	})

	Describe("Update", func() {
		It("ignores non-positive timesteps", func() {
			start := positions(c)
			c.Update(0)
			c.Update(-1)
			Expect(positions(c)).To(Equal(start))
		})

		It("never moves the pinned top row", func() {
			for i := 0; i < 100; i++ {
				c.Update(0.016)
			}
			for col := 0; col < c.Cols(); col++ {
				p := c.Particle(0, col)
				Expect(p.HasFiniteMass()).To(BeFalse())
				Expect(p.Velocity()).To(Equal(mgl64.Vec3{}))
			}
		})

		It("sags under gravity", func() {
			before := c.Particle(c.Rows()-1, 0).Position().Y()
			for i := 0; i < 20; i++ {
				c.Update(0.016)
			}
			Expect(c.Particle(c.Rows()-1, 0).Position().Y()).To(BeNumerically("<", before))
		})

		Context("with the fixed step enabled", func() {
			It("advances by the configured step whatever dt is passed", func() {
				other, err := cloth.New(cfg)
				Expect(err).NotTo(HaveOccurred())

				c.Update(1.0)
				other.Update(cfg.FixedDeltaTime)
				Expect(positions(c)).To(Equal(positions(other)))
			})
		})

		Context("with the fixed step disabled", func() {
			BeforeEach(func() {
				cfg.UseFixedStep = false
			})

			It("uses the caller's dt", func() {
				other, err := cloth.New(cfg)
				Expect(err).NotTo(HaveOccurred())

				c.Update(0.02)
				other.Update(0.01)
				Expect(positions(c)).NotTo(Equal(positions(other)))
			})
		})

		Context("without gravity or wind", func() {
			BeforeEach(func() {
				cfg.Gravity = mgl64.Vec3{}
				cfg.Wind = mgl64.Vec3{}
			})

			It("stays at rest", func() {
				start := positions(c)
				for i := 0; i < 10; i++ {
					c.Update(0.016)
				}
				Expect(positions(c)).To(Equal(start))
			})
		})

		Context("in a steady wind", func() {
			BeforeEach(func() {
				cfg.Gravity = mgl64.Vec3{}
				cfg.Wind = mgl64.Vec3{0, 0, 4}
			})

			It("billows downwind", func() {
				for i := 0; i < 10; i++ {
					c.Update(0.016)
				}
				Expect(c.Particle(c.Rows()-1, 1).Position().Z()).To(BeNumerically(">", 0))
				Expect(c.Particle(0, 1).Position().Z()).To(Equal(0.0))
			})
		})

		Context("with the ground above the lower rows", func() {
			BeforeEach(func() {
				cfg.GroundHeight = 0.6
			})

			It("keeps movable particles on or above the plane", func() {
				for i := 0; i < 30; i++ {
					c.Update(0.016)
					for _, p := range c.Particles() {
						if p.HasFiniteMass() {
							Expect(p.Position().Y()).To(BeNumerically(">=", cfg.GroundHeight))
						}
					}
				}
			})
		})
	})

	Describe("mesh", func() {
		It("has unit normals facing along z while flat", func() {
			for _, n := range c.Normals() {
				Expect(n.Len()).To(BeNumerically("~", 1, 1e-9))
				Expect(n.Z()).To(BeNumerically("~", -1, 1e-9))
			}
		})

		It("keeps every face index inside the particle grid", func() {
			for _, f := range c.Faces() {
				for _, idx := range f {
					Expect(idx).To(BeNumerically(">=", 0))
					Expect(idx).To(BeNumerically("<", len(c.Particles())))
				}
			}
		})
	})
})
