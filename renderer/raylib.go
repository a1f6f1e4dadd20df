package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/eportal/camera"
)

// Raylib draws onto the current raylib window. The caller owns
// BeginDrawing/EndDrawing; world calls go through a Camera2D.
type Raylib struct{}

// NewRaylib creates a raylib surface. The window must already be open.
func NewRaylib() *Raylib {
	return &Raylib{}
}

func vec(p r2.Vec) rl.Vector2 {
	return rl.NewVector2(float32(p.X), float32(p.Y))
}

func col(c color.RGBA) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}

func (s *Raylib) Size() (float64, float64) {
	return float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight())
}

func (s *Raylib) BeginWorld(view camera.View) {
	center := view.Rect.Center()
	rl.BeginMode2D(rl.Camera2D{
		Offset: rl.NewVector2(float32(view.ViewportW/2), float32(view.ViewportH/2)),
		Target: vec(center),
		Zoom:   float32(view.Scale()),
	})
}

func (s *Raylib) EndWorld() {
	rl.EndMode2D()
}

func (s *Raylib) Circle(center r2.Vec, radius float64, c color.RGBA) {
	rl.DrawCircleV(vec(center), float32(radius), col(c))
}

func (s *Raylib) CircleLines(center r2.Vec, radius, thickness float64, c color.RGBA) {
	inner := float32(max(0, radius-thickness))
	rl.DrawRing(vec(center), inner, float32(radius), 0, 360, 64, col(c))
}

// Triangle draws a filled triangle. Raylib only fills counter-clockwise
// triangles, so the winding is fixed up here.
func (s *Raylib) Triangle(a, b, p r2.Vec, c color.RGBA) {
	if r2.Cross(r2.Sub(b, a), r2.Sub(p, a)) > 0 {
		b, p = p, b
	}
	rl.DrawTriangle(vec(a), vec(b), vec(p), col(c))
}

func (s *Raylib) TriangleLines(a, b, p r2.Vec, thickness float64, c color.RGBA) {
	s.Line(a, b, thickness, c)
	s.Line(b, p, thickness, c)
	s.Line(p, a, thickness, c)
}

func (s *Raylib) Square(center r2.Vec, side float64, c color.RGBA) {
	rl.DrawRectangleV(
		rl.NewVector2(float32(center.X-side/2), float32(center.Y-side/2)),
		rl.NewVector2(float32(side), float32(side)),
		col(c),
	)
}

func (s *Raylib) Line(from, to r2.Vec, thickness float64, c color.RGBA) {
	rl.DrawLineEx(vec(from), vec(to), float32(thickness), col(c))
}

func (s *Raylib) Text(text string, pos r2.Vec, size float64, c color.RGBA) {
	font := rl.GetFontDefault()
	rl.DrawTextEx(font, text, vec(pos), float32(size), float32(size)/10, col(c))
}

func (s *Raylib) ScreenText(text string, x, y, size float64, c color.RGBA) {
	rl.DrawText(text, int32(x), int32(y), int32(size), col(c))
}
