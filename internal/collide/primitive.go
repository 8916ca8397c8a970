package collide

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/softbody/internal/particle"
)

// Sphere is a ball. When Body is set its position overrides Center.
type Sphere struct {
	Body   *particle.Particle
	Center mgl64.Vec3
	Radius float64
}

// Position returns the world-space centre.
func (s Sphere) Position() mgl64.Vec3 {
	if s.Body != nil {
		return s.Body.Position()
	}
	return s.Center
}

// Plane is the boundary of the halfspace dot(Normal, x) <= Offset. Normal
// must be unit length. Planes are usually static, so Body is normally nil.
type Plane struct {
	Body   *particle.Particle
	Normal mgl64.Vec3
	Offset float64
}

// GroundPlane returns the horizontal plane y = height.
func GroundPlane(height float64) Plane {
	return Plane{Normal: mgl64.Vec3{0, 1, 0}, Offset: height}
}

// Box is an oriented box with local-to-world Transform and HalfSize extents.
type Box struct {
	Body      *particle.Particle
	Transform mgl64.Mat4
	HalfSize  mgl64.Vec3
}

// NewBox builds an axis-aligned box at center, optionally rotated by rot.
func NewBox(body *particle.Particle, center, halfSize mgl64.Vec3, rot mgl64.Quat) Box {
	t := mgl64.Translate3D(center[0], center[1], center[2]).Mul4(rot.Mat4())
	return Box{Body: body, Transform: t, HalfSize: halfSize}
}

// Axis returns column i of the transform: the local axes for 0..2 and the
// world position for 3.
func (b Box) Axis(i int) mgl64.Vec3 {
	return b.Transform.Col(i).Vec3()
}

// Center returns the world-space centre of the box.
func (b Box) Center() mgl64.Vec3 { return b.Axis(3) }

// Sync moves the box to its body's position, keeping its orientation.
func (b *Box) Sync() {
	if b.Body == nil {
		return
	}
	p := b.Body.Position()
	b.Transform.SetCol(3, p.Vec4(1))
}

func (b Box) transformPoint(local mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformCoordinate(local, b.Transform)
}

// projectOnto is the half-length of the box's projection onto axis.
func (b Box) projectOnto(axis mgl64.Vec3) float64 {
	return b.HalfSize[0]*math.Abs(axis.Dot(b.Axis(0))) +
		b.HalfSize[1]*math.Abs(axis.Dot(b.Axis(1))) +
		b.HalfSize[2]*math.Abs(axis.Dot(b.Axis(2)))
}
