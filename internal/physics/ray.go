package physics

import "github.com/go-gl/mathgl/mgl64"

// RayOptions filters which bodies a raycast may hit.
type RayOptions struct {
	// Mask is and-ed with each body's CollisionGroup. Zero means DefaultCollisionGroup.
	Mask uint32
	// Skip is never hit, typically the body casting the ray.
	Skip *Body
}

// RaycastResult describes the closest hit of a ray, if any.
type RaycastResult struct {
	HasHit   bool
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
	Body     *Body
}

// RaycastClosest casts a segment from -> to against every body shape and returns the nearest hit.
func (w *World) RaycastClosest(from, to mgl64.Vec3, opts RayOptions) RaycastResult {
	var res RaycastResult
	seg := to.Sub(from)
	length := seg.Len()
	if length == 0 {
		return res
	}
	dir := seg.Mul(1 / length)
	mask := opts.Mask
	if mask == 0 {
		mask = DefaultCollisionGroup
	}
	best := length
	for _, b := range w.Bodies {
		if b == opts.Skip || b.Shape == nil || b.CollisionGroup&mask == 0 {
			continue
		}
		dist, n, ok := b.Shape.IntersectRay(b.PointToLocal(from), b.VectorToLocal(dir), best)
		if !ok {
			continue
		}
		best = dist
		res = RaycastResult{
			HasHit:   true,
			Point:    from.Add(dir.Mul(dist)),
			Normal:   b.VectorToWorld(n).Normalize(),
			Distance: dist,
			Body:     b,
		}
	}
	return res
}
