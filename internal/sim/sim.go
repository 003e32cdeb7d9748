// Package sim owns one driving session: the world, the car, its driver and the stepper.
package sim

import (
	"fmt"

	"raycast-car/internal/config"
	"raycast-car/internal/controls"
	"raycast-car/internal/physics"
	"raycast-car/internal/stepper"
	"raycast-car/internal/terrain"
	"raycast-car/internal/vehicle"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

// Sim is a single-threaded simulation. Tick must be called from one goroutine.
type Sim struct {
	Profile config.Profile

	log      zerolog.Logger
	world    *physics.World
	ground   *physics.Body
	car      *vehicle.RaycastVehicle
	vehicles []*vehicle.RaycastVehicle
	// wheelBodies are kinematic, non-colliding proxies that follow the car's wheels.
	wheelBodies []*physics.Body
	blocks      []terrain.Block
	driver      *controls.Driver
	stepper     *stepper.Stepper

	ticks     uint64
	inContact []bool
}

// New builds the world described by p: gravity, a ground plane, optional terrain and
// the car with one wheel per connection point.
func New(p config.Profile, log zerolog.Logger) (*Sim, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	s := &Sim{
		Profile: p,
		log:     log.With().Str("module", "sim").Logger(),
		world:   physics.NewWorld(),
		driver:  controls.NewDriver(p.Driver),
		stepper: stepper.New(p.World.FixedTimestep, p.World.MaxSubSteps),
	}
	s.world.SetGravity(mgl64.Vec3(p.World.Gravity))

	groundMat := physics.NewMaterial("ground")
	wheelMat := physics.NewMaterial("wheel")
	s.world.AddContactMaterial(physics.NewContactMaterial(wheelMat, groundMat, p.Ground.Friction, p.Ground.Restitution))

	s.ground = physics.NewBody(0, physics.Plane{})
	s.ground.Material = groundMat
	s.world.AddBody(s.ground)

	if p.Terrain.Enabled {
		opts := terrain.DefaultOptions()
		opts.Seed = p.Terrain.Seed
		opts.Width, opts.Depth = p.Terrain.Width, p.Terrain.Depth
		opts.TileSize = float32(p.Terrain.TileSize)
		opts.HeightScale = float32(p.Terrain.HeightScale)
		opts.BaseY = float32(p.Terrain.OffsetY)
		s.blocks = terrain.Generate(opts)
		terrain.AddToWorld(s.world, s.blocks, groundMat)
		s.log.Info().Int("blocks", len(s.blocks)).Int64("seed", opts.Seed).Msg("terrain generated")
	}

	c := p.Chassis
	chassis := physics.NewBody(c.Mass, physics.Box{HalfExtents: mgl64.Vec3(c.HalfExtents)})
	chassis.Position = mgl64.Vec3(c.Position)
	chassis.Orientation = c.Orientation()
	chassis.AngularVelocity = mgl64.Vec3(c.AngularVelocity)

	specs, err := p.WheelSpecs()
	if err != nil {
		return nil, err
	}
	car := vehicle.New(chassis, vehicle.WithAxes(c.RightAxis, c.ForwardAxis, c.UpAxis))
	for i, spec := range specs {
		spec.Material = wheelMat
		if _, err := car.AddWheel(spec); err != nil {
			return nil, fmt.Errorf("sim: wheel %d: %w", i, err)
		}
	}
	s.car = car
	s.AddVehicle(car)

	for _, spec := range specs {
		r := spec.Radius
		wb := physics.NewBody(0, physics.Box{HalfExtents: mgl64.Vec3{r, r, r}})
		wb.SetKinematic()
		wb.CollisionGroup = 0
		s.world.AddBody(wb)
		s.wheelBodies = append(s.wheelBodies, wb)
	}
	s.syncWheelBodies()

	s.log.Info().
		Float64("mass", c.Mass).
		Int("wheels", car.NumWheels()).
		Float64("fixed_dt", p.World.FixedTimestep).
		Int("max_substeps", p.World.MaxSubSteps).
		Msg("car ready")
	return s, nil
}

// AddVehicle adds another vehicle to the world and steps it with the rest.
func (s *Sim) AddVehicle(v *vehicle.RaycastVehicle) {
	s.world.AddBody(v.Chassis)
	s.vehicles = append(s.vehicles, v)
	s.inContact = append(s.inContact, false)
}

// Vehicles returns every stepped vehicle; the player's car is first.
func (s *Sim) Vehicles() []*vehicle.RaycastVehicle {
	return s.vehicles
}

// World returns the physics world.
func (s *Sim) World() *physics.World { return s.world }

// Car returns the player's car.
func (s *Sim) Car() *vehicle.RaycastVehicle { return s.car }

// Driver returns the player's driver.
func (s *Sim) Driver() *controls.Driver { return s.driver }

// Terrain returns the generated terrain blocks, if any.
func (s *Sim) Terrain() []terrain.Block { return s.blocks }

// Time is the simulated time in seconds.
func (s *Sim) Time() float64 { return s.stepper.Time() }

// Tick runs one frame: the driver reacts to in over frameDt, its controls go to the car,
// and the stepper spends frameDt in fixed sub-steps. It returns the sub-steps taken.
func (s *Sim) Tick(in controls.Input, frameDt float64) int {
	s.driver.Update(in, frameDt)
	if err := s.driver.Apply(s.car); err != nil {
		s.log.Error().Err(err).Msg("driver controls rejected")
	}

	vehicles := make([]stepper.Vehicle, len(s.vehicles))
	for i, v := range s.vehicles {
		vehicles[i] = v
	}
	n := s.stepper.Advance(s.world, vehicles, frameDt)
	if n == s.stepper.MaxSubSteps && frameDt > float64(n)*s.stepper.FixedTimestep*2 {
		s.log.Warn().Float64("frame_dt", frameDt).Int("substeps", n).Msg("frame too long, dropping simulation time")
	}
	s.ticks++
	s.syncWheelBodies()
	s.logContacts()
	return n
}

func (s *Sim) syncWheelBodies() {
	for i, wb := range s.wheelBodies {
		pose, err := s.car.UpdateWheelTransform(i)
		if err != nil {
			continue
		}
		wb.Position, wb.Orientation = pose.Position, pose.Orientation
	}
}

// logContacts logs when a vehicle lands or leaves the ground.
func (s *Sim) logContacts() {
	for i, v := range s.vehicles {
		grounded := false
		for w := 0; w < v.NumWheels(); w++ {
			if wheel, err := v.Wheel(w); err == nil && wheel.State.InContact {
				grounded = true
				break
			}
		}
		if grounded != s.inContact[i] {
			s.inContact[i] = grounded
			s.log.Debug().Int("vehicle", i).Bool("grounded", grounded).Float64("t", s.Time()).Msg("ground contact changed")
		}
	}
}

// WheelBodies returns the kinematic wheel proxies, one per car wheel.
func (s *Sim) WheelBodies() []*physics.Body { return s.wheelBodies }
