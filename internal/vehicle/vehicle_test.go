package vehicle

import (
	"math"
	"sync"
	"testing"

	"raycast-car/internal/physics"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// carSpec is the wheel template of the demo car.
func carSpec(conn mgl64.Vec3) WheelSpec {
	s := DefaultWheelSpec()
	s.Radius = 0.5
	s.SuspensionStiffness = 30
	s.SuspensionRestLength = 0.4
	s.FrictionSlip = 6
	s.DampingRelaxation = 2.3
	s.DampingCompression = 4.4
	s.MaxSuspensionForce = 100000
	s.RollInfluence = 0.01
	s.MaxSuspensionTravel = 0.3
	s.CustomSlidingRotationalSpeed = 30
	s.UseCustomSlidingRotationalSpeed = true
	s.ChassisConnectionPointLocal = conn
	return s
}

var carWheels = []mgl64.Vec3{{1.9, 1.3, 0}, {1.9, -1.1, 0}, {-1.7, 1.5, 0}, {-1.7, -1.3, 0}}

// rig builds a flat ground and a chassis at height h whose local +Z points up.
func rig(t *testing.T, h float64, conns ...mgl64.Vec3) (*physics.World, *RaycastVehicle) {
	t.Helper()
	w := physics.NewWorld()
	w.AddBody(physics.NewBody(0, physics.Plane{}))
	chassis := physics.NewBody(190, physics.Box{HalfExtents: mgl64.Vec3{3.6, 1.65, 0.85}})
	chassis.Position = mgl64.Vec3{0, h, 0}
	chassis.Orientation = mgl64.QuatRotate(-math.Pi/2, mgl64.Vec3{1, 0, 0})
	w.AddBody(chassis)

	v := New(chassis)
	for _, c := range conns {
		_, err := v.AddWheel(carSpec(c))
		require.NoError(t, err)
	}
	return w, v
}

func TestAddWheelAssignsSequentialIndices(t *testing.T) {
	_, v := rig(t, 1)
	for i, c := range carWheels {
		idx, err := v.AddWheel(carSpec(c))
		require.NoError(t, err)
		assert.Equal(t, i, idx)
	}
	assert.Equal(t, 4, v.NumWheels())

	w, err := v.Wheel(2)
	require.NoError(t, err)
	assert.Equal(t, 0.4, w.State.SuspensionLength)
	assert.Zero(t, w.State.SuspensionForce)
	assert.False(t, w.State.InContact)
}

func TestAddWheelRejectsInvalidConfiguration(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*WheelSpec)
	}{
		{"zero direction", func(s *WheelSpec) { s.DirectionLocal = mgl64.Vec3{} }},
		{"zero axle", func(s *WheelSpec) { s.AxleLocal = mgl64.Vec3{} }},
		{"axle along direction", func(s *WheelSpec) { s.AxleLocal = mgl64.Vec3{0, 0, 2} }},
		{"zero radius", func(s *WheelSpec) { s.Radius = 0 }},
		{"negative radius", func(s *WheelSpec) { s.Radius = -1 }},
		{"zero stiffness", func(s *WheelSpec) { s.SuspensionStiffness = 0 }},
		{"NaN stiffness", func(s *WheelSpec) { s.SuspensionStiffness = math.NaN() }},
		{"negative travel", func(s *WheelSpec) { s.MaxSuspensionTravel = -0.1 }},
		{"negative max force", func(s *WheelSpec) { s.MaxSuspensionForce = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, v := rig(t, 1, carWheels[0])
			spec := carSpec(mgl64.Vec3{})
			tt.mutate(&spec)
			idx, err := v.AddWheel(spec)
			assert.ErrorIs(t, err, ErrInvalidConfiguration)
			assert.Equal(t, -1, idx)
			assert.Equal(t, 1, v.NumWheels(), "rejected wheel must not be added")
		})
	}
}

func TestAddWheelNormalizesVectors(t *testing.T) {
	_, v := rig(t, 1)
	spec := carSpec(mgl64.Vec3{})
	spec.DirectionLocal = mgl64.Vec3{0, 0, -5}
	spec.AxleLocal = mgl64.Vec3{0, 3, 0}
	_, err := v.AddWheel(spec)
	require.NoError(t, err)
	w, _ := v.Wheel(0)
	assert.InDelta(t, 1, w.Spec.DirectionLocal.Len(), 1e-12)
	assert.InDelta(t, 1, w.Spec.AxleLocal.Len(), 1e-12)
}

func TestPerWheelCallsRejectBadIndex(t *testing.T) {
	_, v := rig(t, 1, carWheels...)
	for _, i := range []int{-1, 4, 100} {
		assert.ErrorIs(t, v.ApplyEngineForce(1, i), ErrIndexOutOfRange)
		assert.ErrorIs(t, v.SetSteeringValue(1, i), ErrIndexOutOfRange)
		assert.ErrorIs(t, v.SetBrake(1, i), ErrIndexOutOfRange)
		_, err := v.UpdateWheelTransform(i)
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
		_, err = v.Wheel(i)
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
	}
	for i := range carWheels {
		w, err := v.Wheel(i)
		require.NoError(t, err)
		assert.Zero(t, w.State.EngineForce)
	}
}

func TestAirborneWheelHasNoSuspensionForce(t *testing.T) {
	world, v := rig(t, 4, carWheels...)
	require.NoError(t, v.ApplyEngineForce(300, 2))
	v.Update(world, 1.0/60)

	for i := range carWheels {
		w, err := v.Wheel(i)
		require.NoError(t, err)
		assert.False(t, w.State.InContact)
		assert.Equal(t, 0.0, w.State.SuspensionForce)
		assert.InDelta(t, 0.7, w.State.SuspensionLength, 1e-12)
		assert.Nil(t, w.State.ContactBody)
	}
	assert.Equal(t, mgl64.Vec3{}, v.Chassis.Force())
}

func TestSuspensionForceGrowsAsGroundGetsCloser(t *testing.T) {
	heights := []float64{0.75, 0.69, 0.6, 0.5, 0.4, 0.35, 0.3, 0.2, 0.1, 0.05}
	prev := -1.0
	var last float64
	for _, h := range heights {
		world, v := rig(t, h)
		spec := carSpec(mgl64.Vec3{})
		spec.MaxSuspensionForce = 1000
		_, err := v.AddWheel(spec)
		require.NoError(t, err)

		v.Update(world, 1.0/60)
		w, _ := v.Wheel(0)
		f := w.State.SuspensionForce
		assert.GreaterOrEqual(t, f, prev, "height %v", h)
		assert.LessOrEqual(t, f, 1000.0, "height %v", h)
		assert.GreaterOrEqual(t, f, 0.0, "height %v", h)
		prev, last = f, f
	}
	assert.Equal(t, 1000.0, last, "deep compression clamps at max force")
}

func TestSuspensionClampsToTravel(t *testing.T) {
	world, v := rig(t, 0.02, mgl64.Vec3{})
	v.Update(world, 1.0/60)
	w, _ := v.Wheel(0)
	require.True(t, w.State.InContact)
	assert.InDelta(t, 0.1, w.State.SuspensionLength, 1e-12)
}

func TestSuspensionDampingUsesCompressionWhenClosing(t *testing.T) {
	world, v := rig(t, 0.4, mgl64.Vec3{})
	v.Chassis.Velocity = mgl64.Vec3{0, -1, 0}
	v.Update(world, 1.0/60)
	w, _ := v.Wheel(0)
	// At rest length only damping acts: -4.4 * -1 per unit mass.
	assert.InDelta(t, 4.4*190, w.State.SuspensionForce, 1e-6)

	world, v = rig(t, 0.4, mgl64.Vec3{})
	v.Chassis.Velocity = mgl64.Vec3{0, 1, 0}
	v.Update(world, 1.0/60)
	w, _ = v.Wheel(0)
	assert.Equal(t, 0.0, w.State.SuspensionForce, "suspension never pulls")
}

func TestOppositeSteeringKeepsForwardForceZero(t *testing.T) {
	world, v := rig(t, 0.35, carWheels...)
	require.NoError(t, v.SetSteeringValue(0.3, 0))
	require.NoError(t, v.SetSteeringValue(-0.3, 1))
	v.Update(world, 1.0/60)

	left, _ := v.Wheel(0)
	right, _ := v.Wheel(1)
	assert.Equal(t, left.State.Steering, -right.State.Steering)
	assert.Equal(t, 0.0, left.State.EngineForce+right.State.EngineForce)
	assert.Equal(t, 0.0, left.State.ForwardForce)
	assert.Equal(t, 0.0, right.State.ForwardForce)
}

func TestEngineForcePushesForward(t *testing.T) {
	world, v := rig(t, 0.35, carWheels...)
	require.NoError(t, v.ApplyEngineForce(300, 2))
	require.NoError(t, v.ApplyEngineForce(300, 3))
	v.Update(world, 1.0/60)

	for _, i := range []int{2, 3} {
		w, _ := v.Wheel(i)
		require.True(t, w.State.InContact)
		assert.InDelta(t, 300, w.State.ForwardForce, 1e-9)
		assert.False(t, w.State.Sliding)
	}
	assert.InDelta(t, 0, v.ForwardWorld().Sub(mgl64.Vec3{1, 0, 0}).Len(), 1e-12)
	assert.InDelta(t, 600, v.Chassis.Force().X(), 1e-6)
}

func TestFrictionCircleLimitsForces(t *testing.T) {
	world, v := rig(t, 0.35, carWheels...)
	require.NoError(t, v.ApplyEngineForce(1e6, 2))
	v.Chassis.Velocity = mgl64.Vec3{0, 0, 5}
	v.Update(world, 1.0/60)

	w, _ := v.Wheel(2)
	budget := w.Spec.FrictionSlip * w.State.SuspensionForce
	assert.True(t, w.State.Sliding)
	assert.Less(t, w.State.SkidInfo, 1.0)
	assert.InDelta(t, budget, math.Hypot(w.State.ForwardForce, w.State.SideForce), 1e-6)
}

func TestBrakeOpposesMotion(t *testing.T) {
	world, v := rig(t, 0.35, carWheels...)
	v.Chassis.Velocity = mgl64.Vec3{3, 0, 0}
	require.NoError(t, v.SetBrake(30, 3))
	v.Update(world, 1.0/60)

	w, _ := v.Wheel(3)
	assert.InDelta(t, -30, w.State.ForwardForce, 1e-9)
	assert.Equal(t, 0.0, w.State.DeltaRotation, "braked wheel does not spin")

	free, _ := v.Wheel(0)
	assert.Equal(t, 0.0, free.State.ForwardForce)
	assert.Greater(t, free.State.DeltaRotation, 0.0, "rolling forward spins the wheel forward")
}

func TestRollInfluenceScalesSideForceLever(t *testing.T) {
	roll := func(influence float64) float64 {
		world, v := rig(t, 0.35)
		spec := carSpec(mgl64.Vec3{})
		spec.RollInfluence = influence
		_, err := v.AddWheel(spec)
		require.NoError(t, err)
		// Slide along the axle so the wheel produces a side force.
		v.Chassis.Velocity = mgl64.Vec3{0, 0, 2}
		v.Update(world, 1.0/60)
		w, _ := v.Wheel(0)
		require.NotZero(t, w.State.SideForce)
		return v.Chassis.Torque().Dot(v.ForwardWorld())
	}
	assert.InDelta(t, 0, roll(0), 1e-9)
	full := roll(1)
	assert.NotZero(t, full)
	assert.InDelta(t, full*0.01, roll(0.01), 1e-6)
}

func TestContactMaterialScalesGrip(t *testing.T) {
	world, v := rig(t, 0.35)
	groundMat := physics.NewMaterial("ground")
	wheelMat := physics.NewMaterial("wheel")
	world.Bodies[0].Material = groundMat
	world.AddContactMaterial(physics.NewContactMaterial(wheelMat, groundMat, 0.5, 0))

	spec := carSpec(mgl64.Vec3{})
	spec.Material = wheelMat
	_, err := v.AddWheel(spec)
	require.NoError(t, err)
	require.NoError(t, v.ApplyEngineForce(1e6, 0))
	v.Update(world, 1.0/60)

	w, _ := v.Wheel(0)
	assert.InDelta(t, 6*0.5*w.State.SuspensionForce, math.Abs(w.State.ForwardForce), 1e-6)
}

func TestCustomSlidingRotationWhenAirborne(t *testing.T) {
	world, v := rig(t, 5, mgl64.Vec3{})
	require.NoError(t, v.ApplyEngineForce(100, 0))
	dt := 1.0 / 60
	v.Update(world, dt)
	w, _ := v.Wheel(0)
	assert.InDelta(t, 30*dt, w.State.Rotation, 1e-12)

	require.NoError(t, v.ApplyEngineForce(-100, 0))
	v.Update(world, dt)
	w, _ = v.Wheel(0)
	assert.InDelta(t, 0, w.State.Rotation, 1e-12)
}

func TestUpdateWheelTransformIsIdempotent(t *testing.T) {
	world, v := rig(t, 0.35, carWheels...)
	require.NoError(t, v.SetSteeringValue(0.4, 0))
	v.Chassis.Velocity = mgl64.Vec3{2, 0, 0}
	v.Update(world, 1.0/60)

	for i := range carWheels {
		a, err := v.UpdateWheelTransform(i)
		require.NoError(t, err)
		b, err := v.UpdateWheelTransform(i)
		require.NoError(t, err)
		assert.Equal(t, a, b)
		w, _ := v.Wheel(i)
		assert.Equal(t, a, w.State.WorldPose)
	}
}

func TestWheelTransformPlacement(t *testing.T) {
	world, v := rig(t, 0.35, carWheels...)
	v.Update(world, 1.0/60)

	pose, err := v.UpdateWheelTransform(0)
	require.NoError(t, err)
	w, _ := v.Wheel(0)
	// Local +Z is world up: the hub sits radius above the contact point.
	want := mgl64.Vec3{1.9, 0.35 - w.State.SuspensionLength + 0.5, -1.3}
	assert.InDelta(t, 0, pose.Position.Sub(want).Len(), 1e-9, "got %v want %v", pose.Position, want)
	// q and -q are the same rotation.
	assert.InDelta(t, 1, math.Abs(pose.Orientation.Dot(v.Chassis.Orientation)), 1e-9)
}

func TestSettersRaceWithUpdate(t *testing.T) {
	world, v := rig(t, 0.35, carWheels...)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			_ = v.ApplyEngineForce(float64(i), i%4)
			_ = v.SetSteeringValue(0.1, 0)
			_ = v.SetBrake(0, 3)
		}
	}()
	for i := 0; i < 200; i++ {
		v.Update(world, 1.0/60)
		world.Step(1.0 / 60)
	}
	wg.Wait()
}
