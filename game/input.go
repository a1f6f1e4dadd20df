package game

import (
	"log/slog"

	"gonum.org/v1/gonum/spatial/r2"
)

// ToggleZoom zooms in at the screen position mouse, or back out when
// already zoomed.
func (g *Game) ToggleZoom(mouse r2.Vec) {
	rect := g.zoom.Toggle(mouse)
	slog.Debug("zoom_toggled", "zoomed", g.zoom.Zoomed, "x", rect.X, "y", rect.Y)
}

// ResetZoom returns to the full-area view.
func (g *Game) ResetZoom() {
	g.zoom.Default()
}

// ToggleInfo switches the body info overlay.
func (g *Game) ToggleInfo() {
	g.showInfo = !g.showInfo
}

// ShowInfo reports whether the body info overlay is on.
func (g *Game) ShowInfo() bool {
	return g.showInfo
}

// ToggleDrawing switches world drawing. The simulation keeps running either way.
func (g *Game) ToggleDrawing() {
	g.drawing = !g.drawing
}

// Drawing reports whether the world is drawn.
func (g *Game) Drawing() bool {
	return g.drawing
}
