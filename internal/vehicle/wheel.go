package vehicle

import (
	"fmt"
	"math"

	"raycast-car/internal/physics"

	"github.com/go-gl/mathgl/mgl64"
)

// WheelSpec is the static suspension and friction setup of one wheel, in the chassis frame.
// Suspension stiffness and damping are per unit of chassis mass.
type WheelSpec struct {
	Radius                          float64
	DirectionLocal                  mgl64.Vec3
	AxleLocal                       mgl64.Vec3
	ChassisConnectionPointLocal     mgl64.Vec3
	SuspensionRestLength            float64
	SuspensionStiffness             float64
	DampingCompression              float64
	DampingRelaxation               float64
	MaxSuspensionTravel             float64
	MaxSuspensionForce              float64
	FrictionSlip                    float64
	SideFrictionStiffness           float64
	RollInfluence                   float64
	UseCustomSlidingRotationalSpeed bool
	CustomSlidingRotationalSpeed    float64
	// Material, when set, scales the grip budget by the friction of the
	// contact material registered for it and the ground body's material.
	Material *physics.Material
}

// DefaultWheelSpec mirrors the defaults of the common raycast-vehicle implementations.
func DefaultWheelSpec() WheelSpec {
	return WheelSpec{
		Radius:                       1,
		DirectionLocal:               mgl64.Vec3{0, 0, -1},
		AxleLocal:                    mgl64.Vec3{0, 1, 0},
		SuspensionRestLength:         1,
		SuspensionStiffness:          100,
		DampingCompression:           10,
		DampingRelaxation:            10,
		MaxSuspensionTravel:          1,
		MaxSuspensionForce:           math.MaxFloat64,
		FrictionSlip:                 10.5,
		SideFrictionStiffness:        1,
		RollInfluence:                0.01,
		CustomSlidingRotationalSpeed: -0.1,
	}
}

// Validate reports ErrInvalidConfiguration for specs the vehicle cannot simulate.
func (s WheelSpec) Validate() error {
	switch {
	case s.DirectionLocal.Len() < 1e-9:
		return fmt.Errorf("%w: zero-length suspension direction", ErrInvalidConfiguration)
	case s.AxleLocal.Len() < 1e-9:
		return fmt.Errorf("%w: zero-length axle", ErrInvalidConfiguration)
	case s.DirectionLocal.Normalize().Cross(s.AxleLocal.Normalize()).Len() < 1e-6:
		return fmt.Errorf("%w: axle parallel to suspension direction", ErrInvalidConfiguration)
	case !(s.Radius > 0):
		return fmt.Errorf("%w: radius %v must be positive", ErrInvalidConfiguration, s.Radius)
	case !(s.SuspensionStiffness > 0):
		return fmt.Errorf("%w: stiffness %v must be positive", ErrInvalidConfiguration, s.SuspensionStiffness)
	case s.SuspensionRestLength < 0, s.MaxSuspensionTravel < 0:
		return fmt.Errorf("%w: negative suspension length or travel", ErrInvalidConfiguration)
	case s.MaxSuspensionForce < 0, s.FrictionSlip < 0:
		return fmt.Errorf("%w: negative force limit or friction slip", ErrInvalidConfiguration)
	}
	return nil
}

// Pose is a world-space position and orientation.
type Pose struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat
}

// WheelState is recomputed every step. Rotation keeps integrating across steps;
// EngineForce, Brake and Steering mirror the last values set by the driver.
type WheelState struct {
	SuspensionLength           float64
	InContact                  bool
	ContactPoint               mgl64.Vec3
	ContactNormal              mgl64.Vec3
	ContactBody                *physics.Body
	SuspensionRelativeVelocity float64
	SuspensionForce            float64
	ForwardForce               float64
	SideForce                  float64
	SkidInfo                   float64
	Sliding                    bool
	EngineForce                float64
	Brake                      float64
	Steering                   float64
	Rotation                   float64
	DeltaRotation              float64
	WorldPose                  Pose
}

// Wheel pairs a spec with its runtime state.
type Wheel struct {
	Spec  WheelSpec
	State WheelState

	clippedInvContactDotSuspension float64
}

// Input is the driver-controlled part of a wheel.
type Input struct {
	EngineForce float64
	Brake       float64
	Steering    float64
}
