package collide

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/softbody/internal/dynamo"
	"github.com/san-kum/softbody/internal/particle"
)

var boxCorners = [8]mgl64.Vec3{
	{1, 1, 1}, {-1, 1, 1}, {1, -1, 1}, {-1, -1, 1},
	{1, 1, -1}, {-1, 1, -1}, {1, -1, -1}, {-1, -1, -1},
}

// SphereAndSphere writes one contact when the spheres overlap. Coincident
// centres have no defined normal and produce nothing.
func SphereAndSphere(one, two Sphere, data *Data) int {
	if data.ContactsLeft() <= 0 {
		return 0
	}

	posOne, posTwo := one.Position(), two.Position()
	midline := posOne.Sub(posTwo)
	size := midline.Len()

	if size <= 0 || size >= one.Radius+two.Radius {
		return 0
	}

	data.add(particle.Contact{
		Particles:   [2]*particle.Particle{one.Body, two.Body},
		Normal:      midline.Mul(1 / size),
		Point:       posTwo.Add(midline.Mul(0.5)),
		Penetration: one.Radius + two.Radius - size,
	})
	return 1
}

// SphereAndHalfSpace treats everything behind the plane as solid.
func SphereAndHalfSpace(sphere Sphere, plane Plane, data *Data) int {
	if data.ContactsLeft() <= 0 {
		return 0
	}

	pos := sphere.Position()
	dist := plane.Normal.Dot(pos) - sphere.Radius - plane.Offset
	if dist >= 0 {
		return 0
	}

	data.add(particle.Contact{
		Particles:   [2]*particle.Particle{sphere.Body, plane.Body},
		Normal:      plane.Normal,
		Penetration: -dist,
		Point:       pos.Sub(plane.Normal.Mul(dist + sphere.Radius)),
	})
	return 1
}

// SphereAndTruePlane collides against a two-sided plane.
func SphereAndTruePlane(sphere Sphere, plane Plane, data *Data) int {
	if data.ContactsLeft() <= 0 {
		return 0
	}

	pos := sphere.Position()
	centreDist := plane.Normal.Dot(pos) - plane.Offset
	if centreDist*centreDist > sphere.Radius*sphere.Radius {
		return 0
	}

	normal := plane.Normal
	penetration := -centreDist
	if centreDist < 0 {
		normal = normal.Mul(-1)
		penetration = -penetration
	}
	penetration += sphere.Radius

	data.add(particle.Contact{
		Particles:   [2]*particle.Particle{sphere.Body, plane.Body},
		Normal:      normal,
		Penetration: penetration,
		Point:       pos.Sub(plane.Normal.Mul(centreDist)),
	})
	return 1
}

// BoxAndHalfSpace writes one contact per box corner behind the plane. When
// the buffer fills it returns early with the contacts written so far.
func BoxAndHalfSpace(box Box, plane Plane, data *Data) int {
	if data.ContactsLeft() <= 0 {
		return 0
	}
	if !IntersectBoxHalfSpace(box, plane) {
		return 0
	}

	used := 0
	for _, corner := range boxCorners {
		local := mgl64.Vec3{
			corner[0] * box.HalfSize[0],
			corner[1] * box.HalfSize[1],
			corner[2] * box.HalfSize[2],
		}
		world := box.transformPoint(local)

		dist := world.Dot(plane.Normal)
		if dist > plane.Offset {
			continue
		}

		data.add(particle.Contact{
			Particles:   [2]*particle.Particle{box.Body, plane.Body},
			Normal:      plane.Normal,
			Penetration: plane.Offset - dist,
			Point:       world.Add(plane.Normal.Mul(plane.Offset - dist)),
		})
		used++
		if data.ContactsLeft() == 0 {
			return used
		}
	}
	return used
}

// BoxAndSphere finds the closest point of the box to the sphere centre. The
// normal points from that point toward the sphere centre.
func BoxAndSphere(box Box, sphere Sphere, data *Data) int {
	if data.ContactsLeft() <= 0 {
		return 0
	}

	centre := sphere.Position()
	rel := mgl64.TransformCoordinate(centre, box.Transform.Inv())

	if math.Abs(rel[0])-sphere.Radius > box.HalfSize[0] ||
		math.Abs(rel[1])-sphere.Radius > box.HalfSize[1] ||
		math.Abs(rel[2])-sphere.Radius > box.HalfSize[2] {
		return 0
	}

	var closest mgl64.Vec3
	for i := 0; i < 3; i++ {
		closest[i] = dynamo.Clamp(rel[i], -box.HalfSize[i], box.HalfSize[i])
	}

	distSq := closest.Sub(rel).LenSqr()
	if distSq > sphere.Radius*sphere.Radius {
		return 0
	}

	closestWorld := box.transformPoint(closest)
	data.add(particle.Contact{
		Particles:   [2]*particle.Particle{sphere.Body, box.Body},
		Normal:      dynamo.SafeNormalize(centre.Sub(closestWorld)),
		Point:       closestWorld,
		Penetration: sphere.Radius - math.Sqrt(distSq),
	})
	return 1
}
