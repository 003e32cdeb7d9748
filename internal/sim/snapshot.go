package sim

import (
	"raycast-car/internal/vehicle"

	"github.com/go-gl/mathgl/mgl64"
)

// WheelSnapshot is what the viewer and the trace need of one wheel.
type WheelSnapshot struct {
	Pose             vehicle.Pose
	Radius           float64
	InContact        bool
	ContactPoint     mgl64.Vec3
	SuspensionLength float64
	SuspensionForce  float64
	Rotation         float64
	Sliding          bool
}

// Snapshot is a read-only view of the car after a tick.
type Snapshot struct {
	Tick         uint64
	Time         float64
	Alpha        float64
	Chassis      vehicle.Pose
	HalfExtents  mgl64.Vec3
	Forward      mgl64.Vec3
	Velocity     mgl64.Vec3
	Wheels       []WheelSnapshot
	SpeedKmHour  float64
	EngineForce  float64
	Steering     float64
	EngineActive bool
}

// Grounded reports whether every wheel touches the ground.
func (s Snapshot) Grounded() bool {
	for _, w := range s.Wheels {
		if !w.InContact {
			return false
		}
	}
	return len(s.Wheels) > 0
}

// Snapshot captures the player's car.
func (s *Sim) Snapshot() Snapshot {
	car := s.car
	snap := Snapshot{
		Tick:         s.ticks,
		Time:         s.stepper.Time(),
		Alpha:        s.stepper.Alpha(),
		Chassis:      vehicle.Pose{Position: car.Chassis.Position, Orientation: car.Chassis.Orientation},
		HalfExtents:  mgl64.Vec3(s.Profile.Chassis.HalfExtents),
		Forward:      car.ForwardWorld(),
		Velocity:     car.Chassis.Velocity,
		Wheels:       make([]WheelSnapshot, 0, car.NumWheels()),
		SpeedKmHour:  car.SpeedKmHour(),
		EngineForce:  s.driver.EngineForce(),
		Steering:     s.driver.Steering(),
		EngineActive: s.driver.EngineActive(),
	}
	for i := 0; i < car.NumWheels(); i++ {
		pose, err := car.UpdateWheelTransform(i)
		if err != nil {
			continue
		}
		w, _ := car.Wheel(i)
		snap.Wheels = append(snap.Wheels, WheelSnapshot{
			Pose:             pose,
			Radius:           w.Spec.Radius,
			InContact:        w.State.InContact,
			ContactPoint:     w.State.ContactPoint,
			SuspensionLength: w.State.SuspensionLength,
			SuspensionForce:  w.State.SuspensionForce,
			Rotation:         w.State.Rotation,
			Sliding:          w.State.Sliding,
		})
	}
	return snap
}
