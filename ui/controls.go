package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Theme holds panel styling.
type Theme struct {
	PanelBg      rl.Color
	PanelBorder  rl.Color
	Padding      float32
	ButtonWidth  float32
	ButtonHeight float32
}

// DefaultTheme returns the default panel theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:      rl.Color{R: 20, G: 25, B: 30, A: 220},
		PanelBorder:  rl.Color{R: 60, G: 70, B: 80, A: 255},
		Padding:      8,
		ButtonWidth:  120,
		ButtonHeight: 26,
	}
}

// Controls is a small button panel anchored to the top-right corner.
type Controls struct {
	Theme   Theme
	visible bool
	bounds  rl.Rectangle
}

// NewControls creates a visible controls panel.
func NewControls() *Controls {
	return &Controls{Theme: DefaultTheme(), visible: true}
}

// Toggle switches panel visibility.
func (c *Controls) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Contains reports whether p hits the panel as laid out in the last Draw.
func (c *Controls) Contains(p rl.Vector2) bool {
	return c.visible && rl.CheckCollisionPointRec(p, c.bounds)
}

// Draw renders the buttons and returns the actions they triggered.
func (c *Controls) Draw(showInfo, drawing bool) Actions {
	var a Actions
	if !c.visible {
		return a
	}

	th := c.Theme
	labels := []string{
		"Reset zoom",
		toggleText(showInfo, "Hide info", "Show info"),
		toggleText(drawing, "Pause drawing", "Resume drawing"),
		"Reload config",
	}

	w := th.ButtonWidth + 2*th.Padding
	h := float32(len(labels))*(th.ButtonHeight+th.Padding) + th.Padding
	c.bounds = rl.Rectangle{X: float32(rl.GetScreenWidth()) - w - th.Padding, Y: th.Padding, Width: w, Height: h}

	rl.DrawRectangleRec(c.bounds, th.PanelBg)
	rl.DrawRectangleLinesEx(c.bounds, 1, th.PanelBorder)

	x := c.bounds.X + th.Padding
	y := c.bounds.Y + th.Padding
	pressed := make([]bool, len(labels))
	for i, label := range labels {
		pressed[i] = gui.Button(rl.Rectangle{X: x, Y: y, Width: th.ButtonWidth, Height: th.ButtonHeight}, label)
		y += th.ButtonHeight + th.Padding
	}

	a.ResetZoom = pressed[0]
	a.ToggleInfo = pressed[1]
	a.ToggleDrawing = pressed[2]
	a.Reload = pressed[3]
	return a
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
