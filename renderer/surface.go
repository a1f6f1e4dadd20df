// Package renderer provides drawing surfaces the simulation renders onto:
// a raylib window, a tcell terminal, and a recorder for tests.
package renderer

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/eportal/camera"
)

// Surface receives draw calls. Between BeginWorld and EndWorld coordinates
// are world coordinates mapped through the given view; ScreenText is drawn in
// surface coordinates and must be called outside that pair.
type Surface interface {
	// Size returns the surface dimensions in its own units.
	Size() (w, h float64)

	BeginWorld(view camera.View)
	EndWorld()

	Circle(center r2.Vec, radius float64, c color.RGBA)
	CircleLines(center r2.Vec, radius, thickness float64, c color.RGBA)
	Triangle(a, b, p r2.Vec, c color.RGBA)
	TriangleLines(a, b, p r2.Vec, thickness float64, c color.RGBA)
	Square(center r2.Vec, side float64, c color.RGBA)
	Line(from, to r2.Vec, thickness float64, c color.RGBA)
	Text(text string, pos r2.Vec, size float64, c color.RGBA)

	ScreenText(text string, x, y, size float64, c color.RGBA)
}

// Palette used by the simulation.
var (
	Green     = color.RGBA{R: 0, G: 228, B: 48, A: 255}
	Red       = color.RGBA{R: 230, G: 41, B: 55, A: 255}
	White     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	LightGray = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	Gray      = color.RGBA{R: 130, G: 130, B: 130, A: 255}
	Black     = color.RGBA{R: 0, G: 0, B: 0, A: 255}
)

// RGBA converts a body color to an opaque draw color.
func RGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// WithAlpha returns c with alpha a.
func WithAlpha(c color.RGBA, a uint8) color.RGBA {
	c.A = a
	return c
}
