package main

import (
	"raycast-car/internal/audio"
	"raycast-car/internal/commands"
	"raycast-car/internal/config"
	"raycast-car/internal/controls"
	"raycast-car/internal/debug"
	"raycast-car/internal/fonts"
	"raycast-car/internal/graphics"
	"raycast-car/internal/logger"
	"raycast-car/internal/prefs"
	"raycast-car/internal/scene"
	"raycast-car/internal/sim"
	"raycast-car/internal/terminal"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const hudFontSize = 20

// session is the windowed driving session. It is also the console's command target.
type session struct {
	log     *logger.Logger
	profile config.Profile
	sim     *sim.Sim
	scene   *scene.Scene
	hud     *debug.Debug
	view    prefs.Viewer
	paused  bool
}

func (s *session) Reset() error {
	next, err := sim.New(s.profile, s.log.Logger)
	if err != nil {
		return err
	}
	// Keep whatever gravity the console set.
	next.World().SetGravity(s.sim.World().Gravity)
	s.sim = next
	return nil
}

func (s *session) SetGravity(y float64) {
	g := s.sim.World().Gravity
	g[1] = y
	s.sim.World().SetGravity(g)
}

func (s *session) SetGridVisible(visible bool) {
	s.view.GridVisible = visible
	s.scene.SetGridVisible(visible)
}

func (s *session) SetShowFPS(show bool) {
	s.view.ShowFPS = show
	s.hud.ShowFPS = show
}

func (s *session) SetFreeCamera(free bool) {
	s.view.FreeCamera = free
	s.scene.FreeCamera = free
}

func (s *session) SetPaused(paused bool) { s.paused = paused }

// applyView pushes the stored preferences onto the scene and HUD.
func (s *session) applyView() {
	s.scene.SetGridVisible(s.view.GridVisible)
	s.scene.FreeCamera = s.view.FreeCamera
	s.hud.ShowFPS = s.view.ShowFPS
	s.hud.ShowMemAlloc = s.view.ShowMemAlloc
	s.hud.ShowTelemetry = s.view.ShowTelemetry
}

// readInput samples the driving keys: left mouse or W/Up for throttle, A/E/Left and
// D/F/Right for steering. Holding both steer keys brakes.
func readInput() controls.Input {
	return controls.Input{
		Accelerate: rl.IsMouseButtonDown(rl.MouseButtonLeft) || rl.IsKeyDown(rl.KeyW) || rl.IsKeyDown(rl.KeyUp),
		SteerLeft:  rl.IsKeyDown(rl.KeyA) || rl.IsKeyDown(rl.KeyE) || rl.IsKeyDown(rl.KeyLeft),
		SteerRight: rl.IsKeyDown(rl.KeyD) || rl.IsKeyDown(rl.KeyF) || rl.IsKeyDown(rl.KeyRight),
	}
}

func runViewer(log *logger.Logger, p config.Profile) error {
	s, err := sim.New(p, log.Logger)
	if err != nil {
		return err
	}
	view, err := prefs.Load(prefs.Path)
	if err != nil {
		log.Warn().Err(err).Msg("viewer preferences ignored")
	}
	sess := &session{log: log, profile: p, sim: s, scene: scene.New(), hud: debug.New(), view: view}
	sess.applyView()
	term := terminal.New(log, commands.New(sess))

	var engine *audio.Engine
	var snap sim.Snapshot
	update := func(dt float32) bool {
		if engine == nil {
			// Window and GL context exist from the first frame on.
			engine = audio.NewEngine()
			if path, ok := fonts.Find(); ok {
				font := rl.LoadFontEx(path, hudFontSize*2, nil)
				sess.hud.SetFont(font)
				term.SetFont(font)
			}
			log.Info().Bool("audio", engine.Loaded()).Msg("viewer ready")
		}
		term.Update()
		in := controls.Input{}
		if !term.IsOpen() {
			in = readInput()
		}
		if !sess.paused {
			sess.sim.Tick(in, float64(dt))
		}
		snap = sess.sim.Snapshot()
		sess.scene.Update(snap, dt)
		engine.Update(snap.EngineActive && !sess.paused)
		return true
	}
	draw := func() {
		sess.scene.Draw(snap, sess.sim.Terrain())
		sess.hud.Draw(snap)
		term.Draw()
	}
	graphics.Run("drive", update, draw)

	sess.scene.Unload()
	if engine != nil {
		engine.Close()
	}
	log.Info().Float64("t", sess.sim.Time()).Msg("viewer closed")
	return prefs.Save(prefs.Path, sess.view)
}
