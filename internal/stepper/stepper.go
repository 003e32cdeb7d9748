// Package stepper runs physics at a fixed timestep regardless of the frame rate.
package stepper

import (
	"math"

	"raycast-car/internal/physics"
)

// Vehicle is anything that applies its forces once per fixed sub-step.
type Vehicle interface {
	Update(world *physics.World, dt float64)
}

// Stepper accumulates frame time and spends it in fixed sub-steps.
type Stepper struct {
	FixedTimestep float64
	MaxSubSteps   int

	acc  float64
	time float64
}

// New returns a stepper with the given fixed step and sub-step cap.
func New(fixed float64, maxSubSteps int) *Stepper {
	return &Stepper{FixedTimestep: fixed, MaxSubSteps: maxSubSteps}
}

// Advance adds frameDt to the accumulator and runs as many fixed sub-steps as fit,
// up to MaxSubSteps. It returns the number of sub-steps taken.
func (s *Stepper) Advance(world *physics.World, vehicles []Vehicle, frameDt float64) int {
	return Advance(s, world, vehicles, frameDt, s.FixedTimestep, s.MaxSubSteps)
}

// Advance is the explicit form of Stepper.Advance. Each sub-step updates every vehicle,
// then integrates the world. A non-positive frameDt or fixed step does nothing. Time left
// over after hitting maxSubSteps is trimmed to one fixed step so a stalled frame cannot
// snowball into ever longer catch-up.
func Advance(s *Stepper, world *physics.World, vehicles []Vehicle, frameDt, fixed float64, maxSubSteps int) int {
	if !(frameDt > 0) || !(fixed > 0) || math.IsInf(frameDt, 1) {
		return 0
	}
	if maxSubSteps < 1 {
		maxSubSteps = 1
	}
	s.acc += frameDt

	// Clamp before converting: a huge but finite frame would overflow int.
	steps := math.Min(math.Floor(s.acc/fixed), float64(maxSubSteps))
	n := int(steps)
	for i := 0; i < n; i++ {
		for _, v := range vehicles {
			v.Update(world, fixed)
		}
		world.Step(fixed)
	}
	s.acc -= float64(n) * fixed
	if s.acc > fixed {
		s.acc = fixed
	}
	s.time += float64(n) * fixed
	return n
}

// Alpha is the unspent fraction of a fixed step, for interpolating render poses.
func (s *Stepper) Alpha() float64 {
	if !(s.FixedTimestep > 0) {
		return 0
	}
	return math.Min(s.acc/s.FixedTimestep, 1)
}

// Time is the total simulated time.
func (s *Stepper) Time() float64 {
	return s.time
}
