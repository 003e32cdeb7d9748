// Package audio loops the engine sound while the throttle is held.
package audio

import (
	"os"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// enginePaths are tried in order so the clip is found from the repo root or cmd/drive.
// A user clip in mp3 or ogg takes precedence over the bundled wav.
var enginePaths = []string{
	"assets/sounds/car.mp3",
	"assets/sounds/car.ogg",
	"assets/sounds/car.wav",
	"../../assets/sounds/car.mp3",
	"../../assets/sounds/car.ogg",
	"../../assets/sounds/car.wav",
}

// Engine streams the engine clip. Without an audio device or clip it does nothing.
type Engine struct {
	music   rl.Music
	loaded  bool
	playing bool
}

// NewEngine opens the audio device and loads the first engine clip found.
// Call after the window exists.
func NewEngine() *Engine {
	e := &Engine{}
	path, ok := findClip(enginePaths)
	if !ok {
		return e
	}
	rl.InitAudioDevice()
	if !rl.IsAudioDeviceReady() {
		return e
	}
	e.music = rl.LoadMusicStream(path)
	if !rl.IsMusicValid(e.music) {
		rl.CloseAudioDevice()
		return e
	}
	e.music.Looping = true
	e.loaded = true
	return e
}

// Loaded reports whether a clip is ready to play.
func (e *Engine) Loaded() bool { return e.loaded }

// Update starts or pauses the loop to follow active and feeds the stream. Call once per frame.
func (e *Engine) Update(active bool) {
	if !e.loaded {
		return
	}
	switch {
	case active && !e.playing:
		rl.PlayMusicStream(e.music)
		e.playing = true
	case !active && e.playing:
		rl.PauseMusicStream(e.music)
		e.playing = false
	}
	rl.UpdateMusicStream(e.music)
}

// Close releases the stream and the audio device.
func (e *Engine) Close() {
	if !e.loaded {
		return
	}
	rl.UnloadMusicStream(e.music)
	rl.CloseAudioDevice()
	e.loaded = false
}

// findClip returns the first of paths that exists as a regular file.
func findClip(paths []string) (string, bool) {
	for _, p := range paths {
		p = filepath.Clean(p)
		if fi, err := os.Stat(p); err == nil && fi.Mode().IsRegular() {
			return p, true
		}
	}
	return "", false
}
