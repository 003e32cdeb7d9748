package sim

import (
	"math"
	"testing"

	"raycast-car/internal/config"
	"raycast-car/internal/controls"
	"raycast-car/internal/physics"
	"raycast-car/internal/stepper"
	"raycast-car/internal/vehicle"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = 1.0 / 60

func newSim(t *testing.T, p config.Profile) *Sim {
	t.Helper()
	s, err := New(p, zerolog.Nop())
	require.NoError(t, err)
	return s
}

func settle(s *Sim) {
	for i := 0; i < 120; i++ {
		s.Tick(controls.Input{}, frame)
	}
}

func TestCarSettlesOnSuspension(t *testing.T) {
	s := newSim(t, config.Default())
	settle(s)

	snap := s.Snapshot()
	require.Len(t, snap.Wheels, 4)
	assert.True(t, snap.Grounded(), "all wheels should touch the ground")
	for i, w := range snap.Wheels {
		assert.Greater(t, w.SuspensionForce, 0.0, "wheel %d", i)
	}
	assert.Less(t, math.Abs(snap.Velocity.Y()), 0.25, "chassis should be resting, not falling")
	assert.Greater(t, snap.Chassis.Position.Y(), 0.1)
	assert.Less(t, snap.Chassis.Position.Y(), 0.7)
	assert.InDelta(t, 2.0, snap.Time, 1e-9)
	assert.Equal(t, uint64(120), snap.Tick)
}

func TestEngineForceAcceleratesMonotonically(t *testing.T) {
	s := newSim(t, config.Default())
	settle(s)

	require.NoError(t, s.car.ApplyEngineForce(300, 2))
	require.NoError(t, s.car.ApplyEngineForce(300, 3))
	vehicles := []stepper.Vehicle{s.car}

	prev := s.car.Chassis.Velocity.X()
	start := prev
	for i := 0; i < 120; i++ {
		require.Equal(t, 1, s.stepper.Advance(s.world, vehicles, frame))
		vx := s.car.Chassis.Velocity.X()
		assert.Greater(t, vx, prev, "step %d", i)
		prev = vx
	}
	assert.Greater(t, prev-start, 3.0, "two seconds at ~3 m/s^2")
	assert.Greater(t, s.car.SpeedKmHour(), 0.0)
}

func TestThrottleFromDriver(t *testing.T) {
	s := newSim(t, config.Default())
	settle(s)
	x := s.car.Chassis.Position.X()
	for i := 0; i < 60; i++ {
		s.Tick(controls.Input{Accelerate: true}, frame)
	}
	snap := s.Snapshot()
	assert.True(t, snap.EngineActive)
	assert.InDelta(t, 300, snap.EngineForce, 1e-6)
	assert.Greater(t, s.car.Chassis.Position.X(), x)
	assert.Greater(t, snap.SpeedKmHour, 0.0)
}

func TestTickIgnoresDegenerateFrames(t *testing.T) {
	s := newSim(t, config.Default())
	pos := s.car.Chassis.Position
	assert.Equal(t, 0, s.Tick(controls.Input{}, 0))
	assert.Equal(t, 0, s.Tick(controls.Input{}, -frame))
	assert.Equal(t, pos, s.car.Chassis.Position)
	assert.Equal(t, 0.0, s.Time())
}

func TestLongFrameIsCapped(t *testing.T) {
	s := newSim(t, config.Default())
	assert.Equal(t, 3, s.Tick(controls.Input{}, 1))
	assert.InDelta(t, 3*frame, s.Time(), 1e-12)
}

func TestWheelBodiesFollowWheels(t *testing.T) {
	s := newSim(t, config.Default())
	s.Tick(controls.Input{}, frame)

	bodies := s.WheelBodies()
	require.Len(t, bodies, 4)
	snap := s.Snapshot()
	for i, b := range bodies {
		assert.Equal(t, physics.Kinematic, b.Type)
		assert.Zero(t, b.CollisionGroup)
		assert.Equal(t, snap.Wheels[i].Pose.Position, b.Position)
	}
}

func TestTerrainIsAddedToWorld(t *testing.T) {
	p := config.Default()
	p.Terrain.Enabled = true
	p.Terrain.Seed = 5
	p.Terrain.Width, p.Terrain.Depth = 4, 4
	s := newSim(t, p)

	require.Len(t, s.Terrain(), 16)
	// ground + 16 blocks + chassis + 4 wheel proxies
	assert.Len(t, s.World().Bodies, 1+16+1+4)
}

func TestAddVehicleIsStepped(t *testing.T) {
	s := newSim(t, config.Default())
	chassis := physics.NewBody(50, physics.Box{HalfExtents: mgl64.Vec3{1, 0.5, 0.5}})
	chassis.Position = mgl64.Vec3{-10, 5, -10}
	other := vehicle.New(chassis)
	s.AddVehicle(other)

	require.Len(t, s.Vehicles(), 2)
	assert.Same(t, s.Car(), s.Vehicles()[0])
	s.Tick(controls.Input{}, frame)
	assert.Less(t, chassis.Velocity.Y(), 0.0)
}

func TestNewRejectsBadProfile(t *testing.T) {
	p := config.Default()
	p.Wheel.Radius = 0
	_, err := New(p, zerolog.Nop())
	assert.ErrorIs(t, err, vehicle.ErrInvalidConfiguration)

	p = config.Default()
	p.World.FixedTimestep = 0
	_, err = New(p, zerolog.Nop())
	assert.Error(t, err)
}
