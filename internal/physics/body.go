package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BodyType selects how the world integrates a body.
type BodyType uint8

const (
	// Dynamic bodies respond to gravity, forces and impulses.
	Dynamic BodyType = iota
	// Static bodies have infinite mass and never move.
	Static
	// Kinematic bodies move by their velocity but ignore forces and gravity.
	Kinematic
)

// DefaultCollisionGroup is the group every new body starts in. Group 0 turns collisions off.
const DefaultCollisionGroup uint32 = 1

// Body is a 3D rigid body: mass, pose and velocity state plus the shape used for raycasts.
// Position is the centre of mass. Forces accumulate between steps and are cleared by World.Step.
type Body struct {
	Mass            float64
	Type            BodyType
	Position        mgl64.Vec3
	Orientation     mgl64.Quat
	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3
	Shape           Shape
	Material        *Material
	LinearDamping   float64
	AngularDamping  float64
	CollisionGroup  uint32

	invMass         float64
	invInertiaLocal mgl64.Vec3
	force           mgl64.Vec3
	torque          mgl64.Vec3
}

// NewBody returns a body at the origin with identity orientation.
// mass == 0 makes the body static; mass > 0 makes it dynamic with inertia taken from shape.
func NewBody(mass float64, shape Shape) *Body {
	b := &Body{
		Orientation:    mgl64.QuatIdent(),
		Shape:          shape,
		CollisionGroup: DefaultCollisionGroup,
	}
	b.SetMass(mass)
	return b
}

// SetMass changes the mass and recomputes inverse mass and inertia. mass <= 0 makes the body static.
func (b *Body) SetMass(mass float64) {
	if mass <= 0 || math.IsInf(mass, 1) {
		b.Mass = 0
		b.Type = Static
		b.invMass = 0
		b.invInertiaLocal = mgl64.Vec3{}
		b.Velocity = mgl64.Vec3{}
		b.AngularVelocity = mgl64.Vec3{}
		return
	}
	b.Mass = mass
	if b.Type == Static {
		b.Type = Dynamic
	}
	b.invMass = 1 / mass
	b.invInertiaLocal = mgl64.Vec3{}
	if b.Shape == nil {
		return
	}
	inertia := b.Shape.LocalInertia(mass)
	for i := 0; i < 3; i++ {
		if inertia[i] > 0 {
			b.invInertiaLocal[i] = 1 / inertia[i]
		}
	}
}

// SetKinematic switches the body to kinematic motion. Its mass no longer matters for integration.
func (b *Body) SetKinematic() {
	b.Type = Kinematic
	b.invMass = 0
	b.invInertiaLocal = mgl64.Vec3{}
}

// InvMass is 0 for static and kinematic bodies.
func (b *Body) InvMass() float64 {
	return b.invMass
}

// InvInertiaWorld returns R * diag(invI) * R^T for the current orientation.
func (b *Body) InvInertiaWorld() mgl64.Mat3 {
	r := b.Orientation.Mat4().Mat3()
	return r.Mul3(mgl64.Diag3(b.invInertiaLocal)).Mul3(r.Transpose())
}

// ApplyForce accumulates force at relPoint, a world-space offset from the centre of mass.
// Forces on static or kinematic bodies are dropped.
func (b *Body) ApplyForce(force, relPoint mgl64.Vec3) {
	if b.Type != Dynamic {
		return
	}
	b.force = b.force.Add(force)
	b.torque = b.torque.Add(relPoint.Cross(force))
}

// ApplyImpulse changes linear and angular velocity immediately.
func (b *Body) ApplyImpulse(impulse, relPoint mgl64.Vec3) {
	if b.Type != Dynamic {
		return
	}
	b.Velocity = b.Velocity.Add(impulse.Mul(b.invMass))
	b.AngularVelocity = b.AngularVelocity.Add(b.InvInertiaWorld().Mul3x1(relPoint.Cross(impulse)))
}

// Force returns the force accumulated since the last step.
func (b *Body) Force() mgl64.Vec3 {
	return b.force
}

// Torque returns the torque accumulated since the last step.
func (b *Body) Torque() mgl64.Vec3 {
	return b.torque
}

func (b *Body) clearForces() {
	b.force = mgl64.Vec3{}
	b.torque = mgl64.Vec3{}
}

// VelocityAtWorldPoint is v + w x (p - x).
func (b *Body) VelocityAtWorldPoint(p mgl64.Vec3) mgl64.Vec3 {
	return b.Velocity.Add(b.AngularVelocity.Cross(p.Sub(b.Position)))
}

// PointToWorld transforms a body-local point to world space.
func (b *Body) PointToWorld(local mgl64.Vec3) mgl64.Vec3 {
	return b.Orientation.Rotate(local).Add(b.Position)
}

// PointToLocal transforms a world point to body-local space.
func (b *Body) PointToLocal(world mgl64.Vec3) mgl64.Vec3 {
	return b.Orientation.Conjugate().Rotate(world.Sub(b.Position))
}

// VectorToWorld rotates a body-local direction into world space.
func (b *Body) VectorToWorld(local mgl64.Vec3) mgl64.Vec3 {
	return b.Orientation.Rotate(local)
}

// VectorToLocal rotates a world direction into body-local space.
func (b *Body) VectorToLocal(world mgl64.Vec3) mgl64.Vec3 {
	return b.Orientation.Conjugate().Rotate(world)
}

// EffectiveMass is the mass felt by an impulse along dir applied at the world point p.
// Zero for bodies that cannot be moved.
func (b *Body) EffectiveMass(p, dir mgl64.Vec3) float64 {
	if b.Type != Dynamic {
		return 0
	}
	rn := p.Sub(b.Position).Cross(dir)
	denom := b.invMass + rn.Dot(b.InvInertiaWorld().Mul3x1(rn))
	if denom <= 0 {
		return 0
	}
	return 1 / denom
}
