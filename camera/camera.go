// Package camera provides viewport math: which part of the area is visible
// and how world coordinates map onto a drawing surface.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/eportal/geom"
)

// View maps a visible world rectangle onto a viewport of the given size.
// The rectangle is scaled uniformly and centered in the viewport.
type View struct {
	Rect geom.Rect

	// Viewport dimensions (surface size)
	ViewportW, ViewportH float64
}

// Scale returns viewport units per world unit.
func (v View) Scale() float64 {
	if v.Rect.W <= 0 || v.Rect.H <= 0 {
		return 1
	}
	return math.Min(v.ViewportW/v.Rect.W, v.ViewportH/v.Rect.H)
}

// WorldToScreen converts world coordinates to viewport coordinates.
func (v View) WorldToScreen(p r2.Vec) r2.Vec {
	s := v.Scale()
	c := v.Rect.Center()
	return r2.Vec{
		X: v.ViewportW/2 + (p.X-c.X)*s,
		Y: v.ViewportH/2 + (p.Y-c.Y)*s,
	}
}

// ScreenToWorld converts viewport coordinates to world coordinates.
func (v View) ScreenToWorld(p r2.Vec) r2.Vec {
	s := v.Scale()
	c := v.Rect.Center()
	return r2.Vec{
		X: c.X + (p.X-v.ViewportW/2)/s,
		Y: c.Y + (p.Y-v.ViewportH/2)/s,
	}
}
