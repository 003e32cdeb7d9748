package vehicle

import (
	"math"

	"raycast-car/internal/physics"

	"github.com/go-gl/mathgl/mgl64"
)

// contactDamping is the share of the slip velocity each wheel removes per step.
// Keeping it well under 1/numWheels stops wheels from overcorrecting each other.
const contactDamping = 0.2

// groundVelocity is the velocity of the contact body at p; zero for static ground.
func groundVelocity(b *physics.Body, p mgl64.Vec3) mgl64.Vec3 {
	if b == nil || b.Type == physics.Static {
		return mgl64.Vec3{}
	}
	return b.VelocityAtWorldPoint(p)
}

// groundAxle projects the axle onto the contact plane.
func groundAxle(normal, axle mgl64.Vec3) mgl64.Vec3 {
	a := axle.Sub(normal.Mul(axle.Dot(normal)))
	if a.Len() < 1e-9 {
		return mgl64.Vec3{}
	}
	return a.Normalize()
}

// groundForward is the rolling direction on the contact plane: axle x normal.
func groundForward(normal, axle mgl64.Vec3) mgl64.Vec3 {
	a := groundAxle(normal, axle)
	if a == (mgl64.Vec3{}) {
		return a
	}
	return a.Cross(normal).Normalize()
}

// pairEffectiveMass combines the effective masses of the chassis and a movable ground body.
func pairEffectiveMass(chassis, ground *physics.Body, p, dir mgl64.Vec3) float64 {
	m := chassis.EffectiveMass(p, dir)
	if ground == nil || ground.Type != physics.Dynamic || m == 0 {
		return m
	}
	g := ground.EffectiveMass(p, dir)
	if g == 0 {
		return m
	}
	return 1 / (1/m + 1/g)
}

// updateFriction computes forward (engine and brake) and side forces for a wheel in contact,
// then scales both into the friction circle of radius frictionSlip * suspensionForce.
func (v *RaycastVehicle) updateFriction(world *physics.World, w *Wheel, axleW mgl64.Vec3, dt float64) {
	spec, st := w.Spec, &w.State
	axle := groundAxle(st.ContactNormal, axleW)
	if axle == (mgl64.Vec3{}) {
		return
	}
	fwd := axle.Cross(st.ContactNormal).Normalize()
	rel := v.Chassis.VelocityAtWorldPoint(st.ContactPoint).Sub(groundVelocity(st.ContactBody, st.ContactPoint))

	side := -spec.SideFrictionStiffness * contactDamping * rel.Dot(axle) *
		pairEffectiveMass(v.Chassis, st.ContactBody, st.ContactPoint, axle) / dt

	forward := st.EngineForce
	if st.Brake != 0 {
		stop := -contactDamping * rel.Dot(fwd) * pairEffectiveMass(v.Chassis, st.ContactBody, st.ContactPoint, fwd) / dt
		brake := abs(st.Brake)
		forward += clamp(stop, -brake, brake)
	}

	grip := spec.FrictionSlip
	if spec.Material != nil && st.ContactBody != nil {
		if cm, ok := world.LookupContactMaterial(spec.Material, st.ContactBody.Material); ok {
			grip *= cm.Friction
		}
	}
	maxForce := grip * st.SuspensionForce
	if mag := math.Hypot(forward, side); mag > maxForce && mag > 0 {
		st.SkidInfo = maxForce / mag
		st.Sliding = true
		forward *= st.SkidInfo
		side *= st.SkidInfo
	}
	st.ForwardForce = forward
	st.SideForce = side
}

// applyContactForces pushes the chassis at the contact point. The side force acts through a
// lever arm whose chassis-up component is scaled by RollInfluence, which keeps cornering
// forces from rolling the chassis over.
func (v *RaycastVehicle) applyContactForces(w *Wheel, axleW mgl64.Vec3) {
	spec, st := w.Spec, &w.State
	chassis := v.Chassis
	relPos := st.ContactPoint.Sub(chassis.Position)

	suspension := st.ContactNormal.Mul(st.SuspensionForce)
	chassis.ApplyForce(suspension, relPos)
	total := suspension

	axle := groundAxle(st.ContactNormal, axleW)
	if axle != (mgl64.Vec3{}) {
		forward := axle.Cross(st.ContactNormal).Normalize().Mul(st.ForwardForce)
		chassis.ApplyForce(forward, relPos)

		side := axle.Mul(st.SideForce)
		local := chassis.VectorToLocal(relPos)
		local[v.UpAxis] *= spec.RollInfluence
		chassis.ApplyForce(side, chassis.VectorToWorld(local))
		total = total.Add(forward).Add(side)
	}

	if ground := st.ContactBody; ground != nil && ground.Type == physics.Dynamic {
		ground.ApplyForce(total.Mul(-1), st.ContactPoint.Sub(ground.Position))
	}
}
