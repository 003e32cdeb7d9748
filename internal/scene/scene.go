package scene

import (
	"raycast-car/internal/primitives"
	"raycast-car/internal/sim"
	"raycast-car/internal/terrain"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	gridExtent     = 100
	gridMinorStep  = 1
	gridMajorStep  = 10
	gridMinorAlpha = 50
	gridMajorAlpha = 120
	axisLineAlpha  = 220

	chaseDistance  = 14
	chaseHeight    = 5
	chaseStiffness = 4
	wheelWidth     = 0.4
	contactRadius  = 0.08
)

var (
	chassisColor = rl.NewColor(200, 60, 50, 255)
	wheelColor   = rl.NewColor(40, 40, 45, 255)
	skidColor    = rl.NewColor(230, 160, 40, 255)
	blockColor   = rl.NewColor(90, 130, 80, 255)
	skyColor     = rl.NewColor(135, 170, 210, 255)
)

// Scene holds the 3D camera and draws the car, the ground grid and terrain.
// The camera chases the car unless FreeCamera is set.
type Scene struct {
	Camera      rl.Camera3D
	GridVisible bool
	FreeCamera  bool
	ShowContact bool

	prims      *primitives.Registry
	cursorDone bool
}

// New returns a scene with a perspective camera. Grid is visible by default.
func New() *Scene {
	s := &Scene{GridVisible: true, prims: primitives.NewRegistry()}
	s.Camera.Position = rl.NewVector3(10, 10, 10)
	s.Camera.Target = rl.NewVector3(0, 0, 0)
	s.Camera.Up = rl.NewVector3(0, 1, 0)
	s.Camera.Fovy = 60
	s.Camera.Projection = rl.CameraPerspective
	return s
}

// SetGridVisible sets whether the ground grid is drawn.
func (s *Scene) SetGridVisible(visible bool) {
	s.GridVisible = visible
}

// Update moves the camera once per frame: either the raylib free camera, or a chase
// camera easing towards a point behind and above the car.
func (s *Scene) Update(snap sim.Snapshot, dt float32) {
	if s.FreeCamera {
		if !s.cursorDone {
			rl.DisableCursor()
			s.cursorDone = true
		}
		rl.UpdateCamera(&s.Camera, rl.CameraFree)
		return
	}
	if s.cursorDone {
		rl.EnableCursor()
		s.cursorDone = false
	}
	target := vec(snap.Chassis.Position)
	fx, fz := float32(snap.Forward.X()), float32(snap.Forward.Z())
	if l := math32.Hypot(fx, fz); l > 1e-4 {
		fx, fz = fx/l, fz/l
	} else {
		fx, fz = 1, 0
	}
	want := rl.NewVector3(target.X-fx*chaseDistance, target.Y+chaseHeight, target.Z-fz*chaseDistance)

	k := 1 - math32.Exp(-chaseStiffness*dt)
	s.Camera.Position = rl.Vector3Lerp(s.Camera.Position, want, k)
	s.Camera.Target = rl.Vector3Lerp(s.Camera.Target, target, math32.Min(1, 2*k))
}

// Draw renders the 3D scene. Call after ClearBackground and before any 2D overlay.
func (s *Scene) Draw(snap sim.Snapshot, blocks []terrain.Block) {
	rl.ClearBackground(skyColor)
	rl.BeginMode3D(s.Camera)
	p := s.Camera.Position
	s.prims.SetView([3]float32{p.X, p.Y, p.Z}, [3]float32{0.5, 1, 0.3})

	if s.GridVisible {
		drawGrid()
	}
	for _, b := range blocks {
		s.prims.Draw(primitives.Cube, b.Center, mgl64.QuatIdent(), b.HalfExtents.Mul(2), blockColor)
	}

	s.prims.Draw(primitives.Cube, snap.Chassis.Position, snap.Chassis.Orientation, snap.HalfExtents.Mul(2), chassisColor)
	for _, w := range snap.Wheels {
		c := wheelColor
		if w.Sliding {
			c = skidColor
		}
		d := 2 * w.Radius
		s.prims.Draw(primitives.Cylinder, w.Pose.Position, w.Pose.Orientation, mgl64.Vec3{d, wheelWidth, d}, c)
		if s.ShowContact && w.InContact {
			rl.DrawSphere(vec(w.ContactPoint), contactRadius, rl.Yellow)
			rl.DrawLine3D(vec(w.ContactPoint), vec(w.Pose.Position), rl.Yellow)
		}
	}
	rl.EndMode3D()
}

// Unload releases GPU meshes.
func (s *Scene) Unload() {
	s.prims.Unload()
}

func vec(v mgl64.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X()), float32(v.Y()), float32(v.Z()))
}

// drawGrid draws a grid on the XZ plane with major/minor lines and axis lines.
// Reuses start/end vectors to avoid per-frame allocations in the hot loop.
func drawGrid() {
	minor := rl.NewColor(70, 70, 70, gridMinorAlpha)
	major := rl.NewColor(60, 60, 60, gridMajorAlpha)

	var start, end rl.Vector3
	for i := -gridExtent; i <= gridExtent; i += gridMinorStep {
		c := major
		if i%gridMajorStep != 0 {
			c = minor
		}
		start.X, start.Y, start.Z = float32(i), 0, float32(-gridExtent)
		end.X, end.Y, end.Z = float32(i), 0, float32(gridExtent)
		rl.DrawLine3D(start, end, c)
		start.X, start.Y, start.Z = float32(-gridExtent), 0, float32(i)
		end.X, end.Y, end.Z = float32(gridExtent), 0, float32(i)
		rl.DrawLine3D(start, end, c)
	}

	rl.DrawLine3D(rl.NewVector3(-gridExtent, 0, 0), rl.NewVector3(gridExtent, 0, 0), rl.NewColor(220, 80, 80, axisLineAlpha))
	rl.DrawLine3D(rl.NewVector3(0, 0, -gridExtent), rl.NewVector3(0, 0, gridExtent), rl.NewColor(80, 80, 220, axisLineAlpha))
}
