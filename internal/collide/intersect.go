package collide

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// parallelEpsilon rejects cross-product axes from nearly parallel edges.
const parallelEpsilon = 1e-9

// IntersectSphereSphere reports overlap without generating contacts.
func IntersectSphereSphere(one, two Sphere) bool {
	r := one.Radius + two.Radius
	return one.Position().Sub(two.Position()).LenSqr() < r*r
}

// IntersectSphereHalfSpace reports whether the sphere reaches the halfspace.
func IntersectSphereHalfSpace(sphere Sphere, plane Plane) bool {
	return plane.Normal.Dot(sphere.Position())-sphere.Radius <= plane.Offset
}

// IntersectBoxHalfSpace compares the box's projected radius with the
// distance of its centre from the plane.
func IntersectBoxHalfSpace(box Box, plane Plane) bool {
	radius := box.projectOnto(plane.Normal)
	dist := plane.Normal.Dot(box.Center()) - radius
	return dist <= plane.Offset
}

// BoxAndBox runs the separating axis test over the 15 candidate axes: the
// three face normals of each box and the nine edge-edge cross products. It
// only answers whether the boxes overlap; no contacts are generated.
func BoxAndBox(one, two Box) bool {
	_, ok := SeparatingAxis(one, two)
	return !ok
}

// SeparatingAxis returns the first axis along which the boxes' projections
// do not overlap, and false when none exists. Touching boxes overlap.
func SeparatingAxis(one, two Box) (mgl64.Vec3, bool) {
	toCentre := two.Center().Sub(one.Center())

	for _, axis := range candidateAxes(one, two) {
		if axis.LenSqr() < parallelEpsilon {
			continue
		}
		if penetrationOnAxis(one, two, axis.Normalize(), toCentre) < 0 {
			return axis, true
		}
	}
	return mgl64.Vec3{}, false
}

func candidateAxes(one, two Box) [15]mgl64.Vec3 {
	var axes [15]mgl64.Vec3
	for i := 0; i < 3; i++ {
		axes[i] = one.Axis(i)
		axes[3+i] = two.Axis(i)
	}
	n := 6
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			axes[n] = one.Axis(i).Cross(two.Axis(j))
			n++
		}
	}
	return axes
}

func penetrationOnAxis(one, two Box, axis, toCentre mgl64.Vec3) float64 {
	return one.projectOnto(axis) + two.projectOnto(axis) - math.Abs(toCentre.Dot(axis))
}
