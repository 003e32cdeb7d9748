package graphics

import rl "github.com/gen2brain/raylib-go/raylib"

const (
	defaultWidth  = 1280
	defaultHeight = 720
	targetFPS     = 60
)

// Run opens a resizable window and runs the main loop. Each frame it calls update with the
// frame time in seconds, then draw between BeginDrawing and EndDrawing. The loop ends when
// the window is closed or update returns false.
func Run(title string, update func(dt float32) bool, draw func()) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(defaultWidth, defaultHeight, title)
	defer rl.CloseWindow()

	rl.SetExitKey(rl.KeyNull) // ESC toggles the console; close via window button
	rl.SetTargetFPS(targetFPS)

	for !rl.WindowShouldClose() {
		if !update(rl.GetFrameTime()) {
			return
		}
		rl.BeginDrawing()
		draw()
		rl.EndDrawing()
	}
}
