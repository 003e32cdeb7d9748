package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepNeverMovesStaticBody(t *testing.T) {
	w := NewWorld()
	ground := NewBody(0, Plane{})
	ground.Position = mgl64.Vec3{1, 2, 3}
	ground.Orientation = mgl64.QuatRotate(0.3, mgl64.Vec3{0, 0, 1})
	w.AddBody(ground)

	startPos, startRot := ground.Position, ground.Orientation
	for _, dt := range []float64{1.0 / 60, 0.5, 1e-4, 3} {
		ground.ApplyForce(mgl64.Vec3{100, 100, 100}, mgl64.Vec3{1, 0, 0})
		for i := 0; i < 50; i++ {
			w.Step(dt)
		}
	}
	assert.Equal(t, startPos, ground.Position)
	assert.Equal(t, startRot, ground.Orientation)
	assert.Equal(t, Static, ground.Type)
}

func TestFreeFallVelocity(t *testing.T) {
	w := NewWorld()
	b := NewBody(2, Box{HalfExtents: mgl64.Vec3{1, 1, 1}})
	b.Position = mgl64.Vec3{0, 100, 0}
	w.AddBody(b)

	dt := 1.0 / 60
	for n := 1; n <= 120; n++ {
		w.Step(dt)
		require.InDelta(t, -9.82*dt*float64(n), b.Velocity.Y(), 1e-9, "step %d", n)
	}
	assert.InDelta(t, 0, b.Velocity.X(), 1e-12)
	assert.InDelta(t, 0, b.Velocity.Z(), 1e-12)
	assert.Less(t, b.Position.Y(), 100.0)
}

func TestStepIgnoresNonPositiveDt(t *testing.T) {
	w := NewWorld()
	b := NewBody(1, Box{HalfExtents: mgl64.Vec3{1, 1, 1}})
	b.Velocity = mgl64.Vec3{1, 0, 0}
	w.AddBody(b)

	w.Step(0)
	w.Step(-1)
	assert.Equal(t, mgl64.Vec3{}, b.Position)
	assert.Equal(t, mgl64.Vec3{1, 0, 0}, b.Velocity)
}

func TestForceProducesTorque(t *testing.T) {
	w := NewWorld()
	w.SetGravity(mgl64.Vec3{})
	b := NewBody(1, Box{HalfExtents: mgl64.Vec3{1, 1, 1}})
	w.AddBody(b)

	// Push +X at a point above the centre: spins about -Z.
	b.ApplyForce(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0})
	assert.Equal(t, mgl64.Vec3{0, 0, -1}, b.Torque())
	w.Step(0.1)

	assert.Greater(t, b.Velocity.X(), 0.0)
	assert.Less(t, b.AngularVelocity.Z(), 0.0)
	assert.Equal(t, mgl64.Vec3{}, b.Force(), "accumulators are cleared after a step")
	assert.InDelta(t, 1, b.Orientation.Len(), 1e-12)
}

func TestKinematicIgnoresGravity(t *testing.T) {
	w := NewWorld()
	b := NewBody(5, Box{HalfExtents: mgl64.Vec3{0.5, 0.5, 0.5}})
	b.SetKinematic()
	b.Velocity = mgl64.Vec3{0, 0, 2}
	w.AddBody(b)

	w.Step(0.5)
	assert.Equal(t, mgl64.Vec3{0, 0, 2}, b.Velocity)
	assert.InDelta(t, 1, b.Position.Z(), 1e-12)
}

func TestAddRemoveBody(t *testing.T) {
	w := NewWorld()
	a := NewBody(1, Plane{})
	b := NewBody(1, Plane{})
	c := NewBody(1, Plane{})
	w.AddBody(a)
	w.AddBody(b)
	w.AddBody(b)
	w.AddBody(c)
	require.Len(t, w.Bodies, 3)

	w.RemoveBody(b)
	assert.Equal(t, []*Body{a, c}, w.Bodies)
	w.RemoveBody(b)
	assert.Len(t, w.Bodies, 2)
}

func TestContactMaterialLookup(t *testing.T) {
	w := NewWorld()
	ground := NewMaterial("groundMaterial")
	wheel := NewMaterial("wheelMaterial")
	ice := NewMaterial("ice")
	pair := NewContactMaterial(wheel, ground, 0.3, 0)
	w.AddContactMaterial(pair)

	assert.Same(t, pair, w.ContactMaterialFor(ground, wheel))
	assert.Same(t, pair, w.ContactMaterialFor(wheel, ground))
	assert.Same(t, w.DefaultContactMaterial, w.ContactMaterialFor(wheel, ice))
	assert.Same(t, w.DefaultContactMaterial, w.ContactMaterialFor(nil, ground))

	_, ok := w.LookupContactMaterial(ice, ground)
	assert.False(t, ok)
}
