package graphics

import rl "github.com/gen2brain/raylib-go/raylib"

const (
	defaultWidth  = 1280
	defaultHeight = 720
)

// Run starts the window and main loop. Each frame it calls update with the
// frame delta in seconds, then clears the screen and calls draw.
// The window is resizable; the overlay reads the viewport every frame and
// reflows its layout on resize.
func Run(update func(dt float32), draw func()) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(defaultWidth, defaultHeight, "Vinyl Portfolio")
	defer rl.CloseWindow()

	rl.SetTargetFPS(60)

	for !rl.WindowShouldClose() {
		update(rl.GetFrameTime())

		rl.BeginDrawing()
		rl.ClearBackground(rl.NewColor(16, 15, 18, 255))
		draw()
		rl.EndDrawing()
	}
}
