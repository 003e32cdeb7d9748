// Package config holds the vehicle/world profile: the car, the ground it drives on,
// the driver constants and the stepping parameters.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"

	"raycast-car/internal/vehicle"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jinzhu/copier"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment overrides read by ApplyEnv.
const (
	EnvFixedTimestep = "RCCAR_FIXED_TIMESTEP"
	EnvMaxSubSteps   = "RCCAR_MAX_SUBSTEPS"
	EnvGravityY      = "RCCAR_GRAVITY_Y"
)

// Profile is a complete driving setup, usually loaded from YAML.
type Profile struct {
	World   WorldConfig   `yaml:"world"`
	Chassis ChassisConfig `yaml:"chassis"`
	// Wheel is the template every wheel starts from.
	Wheel   WheelConfig   `yaml:"wheel"`

	// Wheels lists one chassis-local connection point per wheel, in index order.
	Wheels  [][3]float64  `yaml:"wheels"`
	Ground  GroundConfig  `yaml:"ground"`
	Driver  DriverConfig  `yaml:"driver"`
	Terrain TerrainConfig `yaml:"terrain"`
}

// WorldConfig sets gravity and the fixed-step parameters.
type WorldConfig struct {
	Gravity       [3]float64 `yaml:"gravity"`
	FixedTimestep float64    `yaml:"fixed_timestep"`
	MaxSubSteps   int        `yaml:"max_substeps"`
}

// ChassisConfig is the chassis body and its local axis layout.
type ChassisConfig struct {
	Mass        float64    `yaml:"mass"`
	HalfExtents [3]float64 `yaml:"half_extents"`
	Position    [3]float64 `yaml:"position"`

	// Orientation is an axis and an angle in degrees.
	OrientationAxis [3]float64 `yaml:"orientation_axis"`
	OrientationDeg  float64    `yaml:"orientation_deg"`
	AngularVelocity [3]float64 `yaml:"angular_velocity,omitempty"`
	RightAxis       int        `yaml:"right_axis"`
	ForwardAxis     int        `yaml:"forward_axis"`
	UpAxis          int        `yaml:"up_axis"`
}

// WheelConfig field names match vehicle.WheelSpec so the template copies across by name.
type WheelConfig struct {
	Radius                          float64    `yaml:"radius"`
	DirectionLocal                  [3]float64 `yaml:"direction"`
	AxleLocal                       [3]float64 `yaml:"axle"`
	SuspensionRestLength            float64    `yaml:"suspension_rest_length"`
	SuspensionStiffness             float64    `yaml:"suspension_stiffness"`
	DampingCompression              float64    `yaml:"damping_compression"`
	DampingRelaxation               float64    `yaml:"damping_relaxation"`
	MaxSuspensionTravel             float64    `yaml:"max_suspension_travel"`
	MaxSuspensionForce              float64    `yaml:"max_suspension_force"`
	FrictionSlip                    float64    `yaml:"friction_slip"`
	SideFrictionStiffness           float64    `yaml:"side_friction_stiffness"`
	RollInfluence                   float64    `yaml:"roll_influence"`
	UseCustomSlidingRotationalSpeed bool       `yaml:"use_custom_sliding_rotational_speed"`
	CustomSlidingRotationalSpeed    float64    `yaml:"custom_sliding_rotational_speed"`
}

// GroundConfig is the wheel/ground contact material.
type GroundConfig struct {
	Friction    float64 `yaml:"friction"`
	Restitution float64 `yaml:"restitution"`
}

// DriverConfig holds the throttle and steering ramps and which wheels they act on.
type DriverConfig struct {
	MaxSteer       float64 `yaml:"max_steer"`
	SteerRate      float64 `yaml:"steer_rate"`
	MaxEngineForce float64 `yaml:"max_engine_force"`
	ThrottleRate   float64 `yaml:"throttle_rate"`
	ReleaseRate    float64 `yaml:"release_rate"`
	BrakeForce     float64 `yaml:"brake_force"`
	DrivenWheels   []int   `yaml:"driven_wheels"`
	SteeredWheels  []int   `yaml:"steered_wheels"`
	BrakedWheels   []int   `yaml:"braked_wheels"`
}

// TerrainConfig enables the noise heightmap of static blocks around the origin.
type TerrainConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Seed        int64   `yaml:"seed"`
	Width       int     `yaml:"width"`
	Depth       int     `yaml:"depth"`
	TileSize    float64 `yaml:"tile_size"`
	HeightScale float64 `yaml:"height_scale"`
	OffsetY     float64 `yaml:"offset_y"`
}

// Default returns the demo scene: a 190 kg car dropped onto a flat plane.
func Default() Profile {
	return Profile{
		World: WorldConfig{
			Gravity:       [3]float64{0, -9.82, 0},
			FixedTimestep: 1.0 / 60,
			MaxSubSteps:   3,
		},
		Chassis: ChassisConfig{
			Mass:            190,
			HalfExtents:     [3]float64{3.6, 1.65, 0.85},
			Position:        [3]float64{16, 4, 16},
			OrientationAxis: [3]float64{1, 0, 0},
			OrientationDeg:  -90,
			RightAxis:       1,
			ForwardAxis:     0,
			UpAxis:          2,
		},
		Wheel: WheelConfig{
			Radius:                          0.5,
			DirectionLocal:                  [3]float64{0, 0, -1},
			AxleLocal:                       [3]float64{0, 1, 0},
			SuspensionRestLength:            0.4,
			SuspensionStiffness:             30,
			DampingCompression:              4.4,
			DampingRelaxation:               2.3,
			MaxSuspensionTravel:             0.3,
			MaxSuspensionForce:              100000,
			FrictionSlip:                    6,
			SideFrictionStiffness:           1,
			RollInfluence:                   0.01,
			UseCustomSlidingRotationalSpeed: true,
			CustomSlidingRotationalSpeed:    30,
		},
		Wheels: [][3]float64{
			{1.9, 1.3, 0},
			{1.9, -1.1, 0},
			{-1.7, 1.5, 0},
			{-1.7, -1.3, 0},
		},
		Ground: GroundConfig{Friction: 0.3, Restitution: 0},
		Driver: DriverConfig{
			MaxSteer:       0.5,
			SteerRate:      3,
			MaxEngineForce: 300,
			ThrottleRate:   300,
			ReleaseRate:    350,
			BrakeForce:     30,
			DrivenWheels:   []int{2, 3},
			SteeredWheels:  []int{0, 1},
			BrakedWheels:   []int{3},
		},
		Terrain: TerrainConfig{
			Width:       24,
			Depth:       24,
			TileSize:    4,
			HeightScale: 1.5,
			OffsetY:     -1,
		},
	}
}

// Load reads a YAML profile from path over Default, so a file only needs the fields it changes.
func Load(path string) (Profile, error) {
	p := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("config: %s: %w", path, err)
	}
	return p, nil
}

// Marshal renders p as YAML.
func Marshal(p Profile) ([]byte, error) {
	return yaml.Marshal(p)
}

// ApplyEnv loads the given .env files (default ".env"; missing files are skipped) and then
// overrides the stepping parameters from the environment. Variables already set in the
// process environment win over the files.
func ApplyEnv(p *Profile, files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	if s, ok := os.LookupEnv(EnvFixedTimestep); ok {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || !(v > 0) {
			return fmt.Errorf("config: %s=%q must be a positive number", EnvFixedTimestep, s)
		}
		p.World.FixedTimestep = v
	}
	if s, ok := os.LookupEnv(EnvMaxSubSteps); ok {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return fmt.Errorf("config: %s=%q must be a positive integer", EnvMaxSubSteps, s)
		}
		p.World.MaxSubSteps = v
	}
	if s, ok := os.LookupEnv(EnvGravityY); ok {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("config: %s=%q: %w", EnvGravityY, s, err)
		}
		p.World.Gravity[1] = v
	}
	return nil
}

// Validate checks the parts of the profile the simulation cannot recover from.
// Wheel geometry is checked by the vehicle when the wheels are added.
func (p Profile) Validate() error {
	switch {
	case !(p.World.FixedTimestep > 0):
		return fmt.Errorf("fixed timestep %v must be positive", p.World.FixedTimestep)
	case p.World.MaxSubSteps < 1:
		return fmt.Errorf("max substeps %d must be at least 1", p.World.MaxSubSteps)
	case !(p.Chassis.Mass > 0):
		return fmt.Errorf("chassis mass %v must be positive", p.Chassis.Mass)
	case len(p.Wheels) == 0:
		return errors.New("profile has no wheels")
	}
	for _, a := range []int{p.Chassis.RightAxis, p.Chassis.ForwardAxis, p.Chassis.UpAxis} {
		if a < 0 || a > 2 {
			return fmt.Errorf("chassis axis index %d out of range", a)
		}
	}
	for _, set := range [][]int{p.Driver.DrivenWheels, p.Driver.SteeredWheels, p.Driver.BrakedWheels} {
		for _, i := range set {
			if i < 0 || i >= len(p.Wheels) {
				return fmt.Errorf("driver wheel %d out of range (have %d)", i, len(p.Wheels))
			}
		}
	}
	return nil
}

// Orientation returns the chassis start orientation.
func (c ChassisConfig) Orientation() mgl64.Quat {
	axis := mgl64.Vec3(c.OrientationAxis)
	if axis.Len() == 0 || c.OrientationDeg == 0 {
		return mgl64.QuatIdent()
	}
	return mgl64.QuatRotate(mgl64.DegToRad(c.OrientationDeg), axis.Normalize())
}

// WheelSpecs expands the wheel template into one spec per connection point.
func (p Profile) WheelSpecs() ([]vehicle.WheelSpec, error) {
	specs := make([]vehicle.WheelSpec, 0, len(p.Wheels))
	for _, conn := range p.Wheels {
		spec := vehicle.DefaultWheelSpec()
		if err := copier.CopyWithOption(&spec, &p.Wheel, copier.Option{DeepCopy: true}); err != nil {
			return nil, fmt.Errorf("config: copy wheel template: %w", err)
		}
		spec.ChassisConnectionPointLocal = conn
		if spec.MaxSuspensionForce == 0 {
			spec.MaxSuspensionForce = math.MaxFloat64
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
