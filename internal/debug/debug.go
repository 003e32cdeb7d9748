package debug

import (
	"fmt"
	"runtime"
	"strings"

	"raycast-car/internal/sim"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	fontSize   = 20
	padding    = 12
	lineHeight = fontSize + 4
	// updateInterval: only refresh FPS/Mem text every N frames to reduce allocations.
	updateInterval = 30
)

var panelColor = rl.NewColor(0, 0, 0, 140)

// Debug draws the HUD: car telemetry on the left, FPS and memory on the right.
type Debug struct {
	ShowFPS       bool
	ShowMemAlloc  bool
	ShowTelemetry bool
	font          rl.Font // optional; when set, Draw uses DrawTextEx instead of default font
	frameCount    uint32
	lastFpsText   string
	lastMemText   string
	lastMemStats  runtime.MemStats
}

// New returns a HUD showing telemetry only.
func New() *Debug {
	return &Debug{ShowTelemetry: true}
}

// SetFont sets the HUD font. Zero texture ID = use raylib default.
func (d *Debug) SetFont(font rl.Font) {
	d.font = font
}

// Telemetry formats the car state shown on the HUD, one line per entry.
func Telemetry(snap sim.Snapshot) []string {
	lines := []string{
		fmt.Sprintf("Speed: %6.1f km/h", snap.SpeedKmHour),
		fmt.Sprintf("Engine: %5.0f N  Steer: %+.2f rad", snap.EngineForce, snap.Steering),
		fmt.Sprintf("Time: %.2f s", snap.Time),
	}
	var b strings.Builder
	b.WriteString("Wheels:")
	for i, w := range snap.Wheels {
		state := "air"
		switch {
		case w.Sliding:
			state = "skid"
		case w.InContact:
			state = "grip"
		}
		fmt.Fprintf(&b, " %d:%s", i, state)
	}
	lines = append(lines, b.String())
	for i, w := range snap.Wheels {
		lines = append(lines, fmt.Sprintf("  %d susp %.2f m  %6.0f N", i, w.SuspensionLength, w.SuspensionForce))
	}
	return lines
}

// Draw renders the enabled overlays. Call after the scene in the draw loop.
func (d *Debug) Draw(snap sim.Snapshot) {
	d.frameCount++
	update := (d.frameCount % updateInterval) == 0

	if d.ShowTelemetry {
		lines := Telemetry(snap)
		rl.DrawRectangle(padding/2, padding/2, 360, int32(len(lines)*lineHeight+padding), panelColor)
		for i, line := range lines {
			d.text(line, padding, int32(padding+i*lineHeight), rl.RayWhite)
		}
	}

	screenW := int32(rl.GetScreenWidth())
	y := int32(padding)
	if d.ShowFPS {
		if update || d.lastFpsText == "" {
			d.lastFpsText = fmt.Sprintf("FPS: %d", rl.GetFPS())
		}
		d.text(d.lastFpsText, screenW-d.measure(d.lastFpsText)-padding, y, rl.Green)
		y += lineHeight
	}
	if d.ShowMemAlloc {
		if update || d.lastMemText == "" {
			runtime.ReadMemStats(&d.lastMemStats)
			d.lastMemText = fmt.Sprintf("Mem: %.2f MiB", float64(d.lastMemStats.Alloc)/(1024*1024))
		}
		d.text(d.lastMemText, screenW-d.measure(d.lastMemText)-padding, y, rl.Green)
	}
}

func (d *Debug) measure(text string) int32 {
	if d.font.Texture.ID != 0 {
		return int32(rl.MeasureTextEx(d.font, text, fontSize, 1).X)
	}
	return rl.MeasureText(text, fontSize)
}

func (d *Debug) text(text string, x, y int32, c rl.Color) {
	if d.font.Texture.ID != 0 {
		rl.DrawTextEx(d.font, text, rl.NewVector2(float32(x), float32(y)), fontSize, 1, c)
		return
	}
	rl.DrawText(text, x, y, fontSize, c)
}
