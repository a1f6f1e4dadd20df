package camera

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/eportal/config"
	"github.com/pthm-cable/eportal/geom"
)

// Zoom is the viewport state: either the whole area or a zoomed-in rectangle
// following the mouse.
type Zoom struct {
	Zoomed bool

	// World units per screen pixel at the default zoom
	ScalingWidth, ScalingHeight float64

	Center   r2.Vec // center of the visible rect
	MousePos r2.Vec // last mouse position in world coordinates

	Rect         geom.Rect // visible world rectangle
	ExtendedRect geom.Rect // Rect inflated by one body radius, used for culling

	areaW, areaH float64
	rectW, rectH float64 // zoomed rect size
	minZoom      float64
	radius       float64
}

// NewZoom creates a zoom for the configured area and screen, at the default view.
func NewZoom(cfg *config.Config) *Zoom {
	z := &Zoom{
		ScalingWidth:  cfg.Derived.WorldW / float64(cfg.Screen.Width),
		ScalingHeight: cfg.Derived.WorldH / float64(cfg.Screen.Height),
		areaW:         cfg.Derived.WorldW,
		areaH:         cfg.Derived.WorldH,
		rectW:         cfg.Derived.ZoomW,
		rectH:         cfg.Derived.ZoomH,
		minZoom:       cfg.Zoom.Min,
		radius:        cfg.Body.Radius,
	}
	z.Default()
	return z
}

// Default resets the zoom to the full-area view and returns it.
func (z *Zoom) Default() geom.Rect {
	z.Zoomed = false
	z.Center = r2.Vec{X: z.areaW / 2, Y: z.areaH / 2}
	z.Rect = geom.RectCentered(z.Center, z.areaW/z.minZoom, z.areaH/z.minZoom)
	z.ExtendedRect = z.Rect.Inflate(z.radius)
	return z.Rect
}

// Target zooms in on the screen position mouse. The center is clamped so the
// zoomed rect never leaves the area. It returns the new visible rect.
func (z *Zoom) Target(mouse r2.Vec) geom.Rect {
	z.MousePos = r2.Vec{X: mouse.X * z.ScalingWidth, Y: mouse.Y * z.ScalingHeight}
	z.Center = z.adjustedPos(z.MousePos)
	z.Rect = geom.RectCentered(z.Center, z.rectW, z.rectH)
	z.ExtendedRect = z.Rect.Inflate(z.radius)
	z.Zoomed = true
	return z.Rect
}

// Toggle switches between the default view and zooming at mouse.
func (z *Zoom) Toggle(mouse r2.Vec) geom.Rect {
	if z.Zoomed {
		return z.Default()
	}
	return z.Target(mouse)
}

// adjustedPos clamps p so a zoomed rect centered on it stays inside the area.
func (z *Zoom) adjustedPos(p r2.Vec) r2.Vec {
	return geom.Clamp(p, z.rectW/2, z.rectH/2, z.areaW-z.rectW/2, z.areaH-z.rectH/2)
}

// View returns the mapping of the visible rect onto a viewport.
func (z *Zoom) View(viewportW, viewportH float64) View {
	return View{Rect: z.Rect, ViewportW: viewportW, ViewportH: viewportH}
}

// CircleVisible reports whether a circle may show up in the extended rect.
func (z *Zoom) CircleVisible(center r2.Vec, radius float64) bool {
	r := z.ExtendedRect
	if r.Contains(center) {
		return true
	}
	for _, c := range r.Corners() {
		if geom.Distance(c, center) <= radius {
			return true
		}
	}
	for _, e := range r.Edges() {
		if geom.CircleSegmentIntersects(center, radius, e[0], e[1]) {
			return true
		}
	}
	return false
}

// SegmentVisible reports whether the segment p1-p2 crosses the extended rect.
func (z *Zoom) SegmentVisible(p1, p2 r2.Vec) bool {
	r := z.ExtendedRect
	if r.Contains(p1) || r.Contains(p2) {
		return true
	}
	for _, e := range r.Edges() {
		if geom.SegmentsIntersect(p1, p2, e[0], e[1]) {
			return true
		}
	}
	return false
}
