package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// PollWindow reads the raylib keyboard and mouse state for this frame.
// Clicks that land on the controls panel are left to the panel.
func PollWindow(screenW, screenH int, panel *Controls) Actions {
	var a Actions

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		m := rl.GetMousePosition()
		if panel == nil || !panel.Contains(m) {
			a.ToggleZoom = true
			a.Mouse = scaleMouse(float64(m.X), float64(m.Y),
				float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight()), screenW, screenH)
		}
	}
	if rl.IsKeyPressed(rl.KeyOne) {
		a.ToggleInfo = true
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.ToggleDrawing = true
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.Reload = true
	}
	if rl.IsKeyPressed(rl.KeyZ) {
		a.ResetZoom = true
	}
	if rl.IsKeyPressed(rl.KeyTab) && panel != nil {
		panel.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	return a
}
