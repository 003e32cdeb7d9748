// Package controls turns held keys into ramped engine, steering and brake values.
package controls

import (
	"errors"
	"math"

	"raycast-car/internal/config"
)

// Input is the state of the driving keys for one frame.
type Input struct {
	Accelerate bool
	SteerLeft  bool
	SteerRight bool
}

// Brake reports whether both steer keys are held, which brakes the car.
func (in Input) Brake() bool {
	return in.SteerLeft && in.SteerRight
}

// Car is the part of a vehicle the driver talks to.
type Car interface {
	ApplyEngineForce(force float64, wheel int) error
	SetSteeringValue(angle float64, wheel int) error
	SetBrake(force float64, wheel int) error
	NumWheels() int
}

// Driver keeps the ramped control values between frames.
type Driver struct {
	cfg config.DriverConfig

	engine float64
	steer  float64
	input  Input
}

// NewDriver returns a driver at rest.
func NewDriver(cfg config.DriverConfig) *Driver {
	return &Driver{cfg: cfg}
}

// Update ramps the engine force and steering angle towards the held keys.
// Throttle builds up to MaxEngineForce and bleeds off at ReleaseRate once let go.
// Steering moves at SteerRate within ±MaxSteer, positive to the left, and recentres as soon
// as no steer key is held.
func (d *Driver) Update(in Input, dt float64) {
	if !(dt > 0) {
		return
	}
	d.input = in

	if in.Accelerate {
		d.engine = math.Min(d.engine+d.cfg.ThrottleRate*dt, d.cfg.MaxEngineForce)
	} else {
		d.engine = math.Max(d.engine-d.cfg.ReleaseRate*dt, 0)
	}

	if in.SteerLeft {
		d.steer = math.Min(d.steer+d.cfg.SteerRate*dt, d.cfg.MaxSteer)
	}
	if in.SteerRight {
		d.steer = math.Max(d.steer-d.cfg.SteerRate*dt, -d.cfg.MaxSteer)
	}
	if !in.SteerLeft && !in.SteerRight {
		d.steer = 0
	}
}

// Apply pushes the current values to the car: engine force on the driven wheels,
// steering on the steered wheels, and the brake on the braked wheels while both
// steer keys are held (every brake is released otherwise).
func (d *Driver) Apply(car Car) error {
	var errs []error
	for _, i := range d.cfg.DrivenWheels {
		errs = append(errs, car.ApplyEngineForce(d.engine, i))
	}
	for _, i := range d.cfg.SteeredWheels {
		errs = append(errs, car.SetSteeringValue(d.steer, i))
	}
	if d.input.Brake() {
		for _, i := range d.cfg.BrakedWheels {
			errs = append(errs, car.SetBrake(d.cfg.BrakeForce, i))
		}
	} else {
		for i := 0; i < car.NumWheels(); i++ {
			errs = append(errs, car.SetBrake(0, i))
		}
	}
	return errors.Join(errs...)
}

// EngineForce is the current engine force.
func (d *Driver) EngineForce() float64 { return d.engine }

// Steering is the current steering angle in radians.
func (d *Driver) Steering() float64 { return d.steer }

// EngineActive reports whether the throttle was held on the last update.
func (d *Driver) EngineActive() bool { return d.input.Accelerate }
