package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// World holds a set of bodies and runs a 3D rigid-body step: gravity, forces, integration.
// There is no general contact resolution; vehicles produce their own contact forces.
type World struct {
	Gravity                mgl64.Vec3
	Bodies                 []*Body
	ContactMaterials       []*ContactMaterial
	DefaultContactMaterial *ContactMaterial
}

// NewWorld returns a world with gravity (0, -9.82, 0), Y up.
func NewWorld() *World {
	return &World{
		Gravity:                mgl64.Vec3{0, -9.82, 0},
		DefaultContactMaterial: &ContactMaterial{Friction: 0.3},
	}
}

// SetGravity sets the gravity vector applied uniformly to every dynamic body.
func (w *World) SetGravity(g mgl64.Vec3) {
	w.Gravity = g
}

// AddBody appends a body. Order is preserved for syncing with scene objects.
// Adding a body twice is a no-op.
func (w *World) AddBody(b *Body) {
	if b == nil || w.indexOf(b) >= 0 {
		return
	}
	w.Bodies = append(w.Bodies, b)
}

// RemoveBody drops a body from the world, keeping the order of the rest.
func (w *World) RemoveBody(b *Body) {
	i := w.indexOf(b)
	if i < 0 {
		return
	}
	w.Bodies = append(w.Bodies[:i], w.Bodies[i+1:]...)
}

func (w *World) indexOf(b *Body) int {
	for i, other := range w.Bodies {
		if other == b {
			return i
		}
	}
	return -1
}

// AddContactMaterial registers friction/restitution for a material pair.
func (w *World) AddContactMaterial(cm *ContactMaterial) {
	w.ContactMaterials = append(w.ContactMaterials, cm)
}

// ContactMaterialFor returns the pair registered for a and b in either order,
// or the default contact material.
func (w *World) ContactMaterialFor(a, b *Material) *ContactMaterial {
	cm, ok := w.LookupContactMaterial(a, b)
	if !ok {
		return w.DefaultContactMaterial
	}
	return cm
}

// LookupContactMaterial reports whether a pair is registered for a and b.
func (w *World) LookupContactMaterial(a, b *Material) (*ContactMaterial, bool) {
	if a == nil || b == nil {
		return nil, false
	}
	for _, cm := range w.ContactMaterials {
		if cm.matches(a, b) {
			return cm, true
		}
	}
	return nil, false
}

// Step advances the simulation by dt seconds. dt <= 0 is ignored.
// Dynamic bodies: v += (g + F/m)*dt, w += I^-1*T*dt, then position and orientation follow
// the new velocities. Kinematic bodies only follow their velocities. Static bodies never move.
func (w *World) Step(dt float64) {
	if !(dt > 0) {
		return
	}
	for _, b := range w.Bodies {
		switch b.Type {
		case Static:
			b.clearForces()
			continue
		case Dynamic:
			accel := w.Gravity.Add(b.force.Mul(b.invMass))
			b.Velocity = b.Velocity.Add(accel.Mul(dt))
			b.AngularVelocity = b.AngularVelocity.Add(b.InvInertiaWorld().Mul3x1(b.torque).Mul(dt))
			if b.LinearDamping > 0 {
				b.Velocity = b.Velocity.Mul(math.Pow(1-b.LinearDamping, dt))
			}
			if b.AngularDamping > 0 {
				b.AngularVelocity = b.AngularVelocity.Mul(math.Pow(1-b.AngularDamping, dt))
			}
		}
		integratePose(b, dt)
		b.clearForces()
	}
}

func integratePose(b *Body, dt float64) {
	b.Position = b.Position.Add(b.Velocity.Mul(dt))
	spin := mgl64.Quat{W: 0, V: b.AngularVelocity}.Mul(b.Orientation).Scale(0.5 * dt)
	b.Orientation = b.Orientation.Add(spin).Normalize()
}
