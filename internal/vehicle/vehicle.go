package vehicle

import (
	"fmt"

	"raycast-car/internal/physics"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sasha-s/go-deadlock"
)

// RaycastVehicle simulates suspension-based wheel contact for a chassis body. Wheels are not
// bodies: each step casts one ray per wheel and turns the hit into forces on the chassis.
//
// Chassis axes are picked by index (0=X, 1=Y, 2=Z). The defaults are forward X, right Y, up Z.
type RaycastVehicle struct {
	Chassis     *physics.Body
	RightAxis   int
	ForwardAxis int
	UpAxis      int
	RayMask     uint32

	wheels []*Wheel

	// mu guards inputs so driver setters may run on another goroutine than the step.
	mu     deadlock.Mutex
	inputs []Input
}

// Option configures a RaycastVehicle.
type Option func(*RaycastVehicle)

// WithAxes sets the chassis-local right, forward and up axis indices.
func WithAxes(right, forward, up int) Option {
	return func(v *RaycastVehicle) {
		v.RightAxis, v.ForwardAxis, v.UpAxis = right, forward, up
	}
}

// WithRayMask limits suspension rays to bodies whose collision group matches mask.
func WithRayMask(mask uint32) Option {
	return func(v *RaycastVehicle) {
		v.RayMask = mask
	}
}

// New wraps chassis. The chassis must also be added to the world by the caller.
func New(chassis *physics.Body, opts ...Option) *RaycastVehicle {
	v := &RaycastVehicle{
		Chassis:     chassis,
		RightAxis:   1,
		ForwardAxis: 0,
		UpAxis:      2,
		RayMask:     physics.DefaultCollisionGroup,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// AddWheel validates spec and appends it, returning its 0-based index.
// The new wheel starts at rest length with zero suspension force.
func (v *RaycastVehicle) AddWheel(spec WheelSpec) (int, error) {
	if err := spec.Validate(); err != nil {
		return -1, err
	}
	spec.DirectionLocal = spec.DirectionLocal.Normalize()
	spec.AxleLocal = spec.AxleLocal.Normalize()
	w := &Wheel{
		Spec: spec,
		State: WheelState{
			SuspensionLength: spec.SuspensionRestLength,
			SkidInfo:         1,
		},
	}
	v.wheels = append(v.wheels, w)
	v.mu.Lock()
	v.inputs = append(v.inputs, Input{})
	v.mu.Unlock()
	return len(v.wheels) - 1, nil
}

// NumWheels returns how many wheels have been added.
func (v *RaycastVehicle) NumWheels() int {
	return len(v.wheels)
}

func (v *RaycastVehicle) checkIndex(i int) error {
	if i < 0 || i >= len(v.wheels) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, i, len(v.wheels))
	}
	return nil
}

// ApplyEngineForce sets the engine force of wheel i. Positive pushes along the chassis forward axis.
func (v *RaycastVehicle) ApplyEngineForce(force float64, i int) error {
	if err := v.checkIndex(i); err != nil {
		return err
	}
	v.mu.Lock()
	v.inputs[i].EngineForce = force
	v.mu.Unlock()
	return nil
}

// SetSteeringValue sets the steering angle of wheel i in radians, about the wheel's up axis.
func (v *RaycastVehicle) SetSteeringValue(angle float64, i int) error {
	if err := v.checkIndex(i); err != nil {
		return err
	}
	v.mu.Lock()
	v.inputs[i].Steering = angle
	v.mu.Unlock()
	return nil
}

// SetBrake sets the brake force of wheel i.
func (v *RaycastVehicle) SetBrake(force float64, i int) error {
	if err := v.checkIndex(i); err != nil {
		return err
	}
	v.mu.Lock()
	v.inputs[i].Brake = force
	v.mu.Unlock()
	return nil
}

func (v *RaycastVehicle) input(i int) Input {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.inputs[i]
}

// Wheel returns a copy of wheel i with the latest driver inputs filled in.
func (v *RaycastVehicle) Wheel(i int) (Wheel, error) {
	if err := v.checkIndex(i); err != nil {
		return Wheel{}, err
	}
	w := *v.wheels[i]
	in := v.input(i)
	w.State.EngineForce, w.State.Brake, w.State.Steering = in.EngineForce, in.Brake, in.Steering
	return w, nil
}

func (v *RaycastVehicle) axis(i int) mgl64.Vec3 {
	var a mgl64.Vec3
	a[i] = 1
	return a
}

// ForwardWorld is the chassis forward axis in world space.
func (v *RaycastVehicle) ForwardWorld() mgl64.Vec3 {
	return v.Chassis.VectorToWorld(v.axis(v.ForwardAxis))
}

// SpeedKmHour is the chassis velocity along its forward axis, in km/h.
func (v *RaycastVehicle) SpeedKmHour() float64 {
	return 3.6 * v.Chassis.Velocity.Dot(v.ForwardWorld())
}

// steeredAxleLocal rotates the axle about the wheel's up axis (opposite of the suspension direction).
func steeredAxleLocal(spec WheelSpec, steering float64) mgl64.Vec3 {
	if steering == 0 {
		return spec.AxleLocal
	}
	return mgl64.QuatRotate(steering, spec.DirectionLocal.Mul(-1)).Rotate(spec.AxleLocal)
}

// UpdateWheelTransform computes the world pose of wheel i for rendering and caches it on the wheel.
// The hub sits one radius above the contact end of the suspension.
func (v *RaycastVehicle) UpdateWheelTransform(i int) (Pose, error) {
	if err := v.checkIndex(i); err != nil {
		return Pose{}, err
	}
	w := v.wheels[i]
	spec := w.Spec
	in := v.input(i)

	hubLocal := spec.ChassisConnectionPointLocal.Add(spec.DirectionLocal.Mul(w.State.SuspensionLength - spec.Radius))
	steer := mgl64.QuatRotate(in.Steering, spec.DirectionLocal.Mul(-1))
	spin := mgl64.QuatRotate(w.State.Rotation, spec.AxleLocal)
	pose := Pose{
		Position:    v.Chassis.PointToWorld(hubLocal),
		Orientation: v.Chassis.Orientation.Mul(steer).Mul(spin).Normalize(),
	}
	w.State.WorldPose = pose
	return pose, nil
}

// Update runs one fixed sub-step for every wheel in index order: raycast, suspension,
// friction, force application and wheel spin. Forces accumulate on the chassis and are
// integrated by the following World.Step.
func (v *RaycastVehicle) Update(world *physics.World, dt float64) {
	if !(dt > 0) || v.Chassis == nil {
		return
	}
	v.mu.Lock()
	inputs := append([]Input(nil), v.inputs...)
	v.mu.Unlock()

	for i, w := range v.wheels {
		in := inputs[i]
		w.State.EngineForce, w.State.Brake, w.State.Steering = in.EngineForce, in.Brake, in.Steering

		axleW := v.castRay(world, w)
		v.updateSuspension(w)
		if w.State.InContact {
			v.updateFriction(world, w, axleW, dt)
			v.applyContactForces(w, axleW)
		}
		v.updateRotation(w, dt)
	}
}

// castRay fills contact state for w and returns its steered axle in world space.
func (v *RaycastVehicle) castRay(world *physics.World, w *Wheel) mgl64.Vec3 {
	spec, st := w.Spec, &w.State
	chassis := v.Chassis

	from := chassis.PointToWorld(spec.ChassisConnectionPointLocal)
	dir := chassis.VectorToWorld(spec.DirectionLocal)
	axleW := chassis.VectorToWorld(steeredAxleLocal(spec, st.Steering))
	minLen := spec.SuspensionRestLength - spec.MaxSuspensionTravel
	maxLen := spec.SuspensionRestLength + spec.MaxSuspensionTravel

	res := world.RaycastClosest(from, from.Add(dir.Mul(maxLen)), physics.RayOptions{Mask: v.RayMask, Skip: chassis})
	st.ForwardForce, st.SideForce = 0, 0
	st.SkidInfo, st.Sliding = 1, false
	if !res.HasHit {
		st.InContact = false
		st.ContactBody = nil
		st.SuspensionLength = maxLen
		st.ContactNormal = dir.Mul(-1)
		st.ContactPoint = from.Add(dir.Mul(maxLen))
		st.SuspensionRelativeVelocity = 0
		st.SuspensionForce = 0
		return axleW
	}

	st.InContact = true
	st.ContactBody = res.Body
	st.ContactPoint = res.Point
	st.ContactNormal = res.Normal
	st.SuspensionLength = clamp(res.Distance, minLen, maxLen)

	relVel := chassis.VelocityAtWorldPoint(res.Point).Sub(groundVelocity(res.Body, res.Point))
	denom := res.Normal.Dot(dir)
	if denom >= -0.1 {
		st.SuspensionRelativeVelocity = 0
		w.clippedInvContactDotSuspension = 10
	} else {
		inv := -1 / denom
		st.SuspensionRelativeVelocity = res.Normal.Dot(relVel) * inv
		w.clippedInvContactDotSuspension = inv
	}
	return axleW
}

// updateSuspension computes the damped spring force, clamped to [0, MaxSuspensionForce].
func (v *RaycastVehicle) updateSuspension(w *Wheel) {
	spec, st := w.Spec, &w.State
	if !st.InContact {
		st.SuspensionForce = 0
		return
	}
	force := spec.SuspensionStiffness * (spec.SuspensionRestLength - st.SuspensionLength) * w.clippedInvContactDotSuspension
	damping := spec.DampingRelaxation
	if st.SuspensionRelativeVelocity < 0 {
		damping = spec.DampingCompression
	}
	force -= damping * st.SuspensionRelativeVelocity
	st.SuspensionForce = clamp(force*v.Chassis.Mass, 0, spec.MaxSuspensionForce)
}

func (v *RaycastVehicle) updateRotation(w *Wheel, dt float64) {
	spec, st := w.Spec, &w.State
	if st.InContact {
		fwd := groundForward(st.ContactNormal, v.Chassis.VectorToWorld(steeredAxleLocal(spec, st.Steering)))
		vel := v.Chassis.VelocityAtWorldPoint(st.ContactPoint).Sub(groundVelocity(st.ContactBody, st.ContactPoint))
		st.DeltaRotation = fwd.Dot(vel) * dt / spec.Radius
	}
	if (st.Sliding || !st.InContact) && st.EngineForce != 0 && spec.UseCustomSlidingRotationalSpeed {
		sign := 1.0
		if st.EngineForce < 0 {
			sign = -1
		}
		st.DeltaRotation = sign * spec.CustomSlidingRotationalSpeed * dt
	}
	if abs(st.Brake) > abs(st.EngineForce) {
		st.DeltaRotation = 0
	}
	st.Rotation += st.DeltaRotation
	// Free-spinning wheels slow down.
	st.DeltaRotation *= 0.99
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
