package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Shape is the collision geometry of a body, expressed in the body's local frame.
type Shape interface {
	// LocalInertia returns the principal moments of inertia for the given mass.
	LocalInertia(mass float64) mgl64.Vec3
	// IntersectRay tests a local-space ray (dir unit length) up to maxDist.
	// The returned normal is in local space and faces the ray origin.
	IntersectRay(origin, dir mgl64.Vec3, maxDist float64) (dist float64, normal mgl64.Vec3, ok bool)
}

// Plane is an infinite plane through the body origin whose normal is the body's local +Y axis.
// Points below the plane are solid; rays starting underneath do not hit it.
type Plane struct{}

// LocalInertia is zero: planes are only used on static bodies.
func (Plane) LocalInertia(mass float64) mgl64.Vec3 {
	return mgl64.Vec3{}
}

// IntersectRay hits the plane from above only.
func (Plane) IntersectRay(origin, dir mgl64.Vec3, maxDist float64) (float64, mgl64.Vec3, bool) {
	up := mgl64.Vec3{0, 1, 0}
	denom := dir.Dot(up)
	if denom >= 0 || origin.Y() < 0 {
		return 0, mgl64.Vec3{}, false
	}
	t := -origin.Y() / denom
	if t < 0 || t > maxDist {
		return 0, mgl64.Vec3{}, false
	}
	return t, up, true
}

// Box is an oriented box centred on the body origin.
type Box struct {
	HalfExtents mgl64.Vec3
}

// LocalInertia uses the solid cuboid formula m/12 * (a^2 + b^2) over full extents.
func (s Box) LocalInertia(mass float64) mgl64.Vec3 {
	e := s.HalfExtents.Mul(2)
	return mgl64.Vec3{
		mass / 12 * (e.Y()*e.Y() + e.Z()*e.Z()),
		mass / 12 * (e.X()*e.X() + e.Z()*e.Z()),
		mass / 12 * (e.X()*e.X() + e.Y()*e.Y()),
	}
}

// IntersectRay is a slab test. Rays starting inside the box do not report a hit.
func (s Box) IntersectRay(origin, dir mgl64.Vec3, maxDist float64) (float64, mgl64.Vec3, bool) {
	tMin, tMax := math.Inf(-1), math.Inf(1)
	axis, sign := -1, 0.0
	for i := 0; i < 3; i++ {
		h := s.HalfExtents[i]
		if math.Abs(dir[i]) < 1e-12 {
			if origin[i] < -h || origin[i] > h {
				return 0, mgl64.Vec3{}, false
			}
			continue
		}
		inv := 1 / dir[i]
		t1 := (-h - origin[i]) * inv
		t2 := (h - origin[i]) * inv
		entrySign := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			entrySign = 1
		}
		if t1 > tMin {
			tMin = t1
			axis = i
			sign = entrySign
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return 0, mgl64.Vec3{}, false
		}
	}
	if axis < 0 || tMin < 0 || tMin > maxDist {
		return 0, mgl64.Vec3{}, false
	}
	var n mgl64.Vec3
	n[axis] = sign
	return tMin, n, true
}
