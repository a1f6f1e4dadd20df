package renderer

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/eportal/camera"
	"github.com/pthm-cable/eportal/geom"
)

func TestRGBA(t *testing.T) {
	got := RGBA(colorful.Color{R: 1, G: 0, B: 0.5})
	if got.R != 255 || got.G != 0 || got.A != 255 {
		t.Errorf("RGBA: got %+v", got)
	}
	// Out-of-gamut input is clamped
	got = RGBA(colorful.Color{R: 2, G: -1, B: 0})
	if got.R != 255 || got.G != 0 {
		t.Errorf("clamped RGBA: got %+v", got)
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder(800, 600)
	view := camera.View{Rect: geom.Rect{W: 100, H: 100}, ViewportW: 800, ViewportH: 600}

	r.BeginWorld(view)
	r.Circle(r2.Vec{X: 1, Y: 1}, 5, Green)
	r.Square(r2.Vec{X: 2, Y: 2}, 10, Red)
	r.Square(r2.Vec{X: 3, Y: 3}, 10, Red)
	r.EndWorld()
	r.ScreenText("hello", 0, 0, 17, White)

	if r.Count(OpSquare) != 2 || r.Count(OpCircle) != 1 || r.Count(OpScreenText) != 1 {
		t.Errorf("counts: %d squares, %d circles, %d texts",
			r.Count(OpSquare), r.Count(OpCircle), r.Count(OpScreenText))
	}
	if r.View != view {
		t.Error("recorder did not keep the view")
	}
	r.Reset()
	if len(r.Ops) != 0 {
		t.Error("Reset left ops behind")
	}
}

func TestTerminalCellMapping(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	screen.SetSize(80, 24)
	term := NewTerminal(screen)

	w, h := term.Size()
	if w != 80 || h != 48 {
		t.Fatalf("size: got %vx%v, want 80x48", w, h)
	}

	// 800x480 world area onto 80 columns and 48 half-rows
	term.BeginWorld(camera.View{Rect: geom.Rect{W: 800, H: 480}, ViewportW: w, ViewportH: h})

	tests := []struct {
		p      r2.Vec
		x, y   int
		inside bool
	}{
		{r2.Vec{X: 0, Y: 0}, 0, 0, true},
		{r2.Vec{X: 400, Y: 240}, 40, 12, true},
		{r2.Vec{X: 799, Y: 479}, 79, 23, true},
		{r2.Vec{X: 900, Y: 100}, 90, 5, false},
	}
	for _, tt := range tests {
		x, y, ok := term.cellOf(tt.p)
		if x != tt.x || y != tt.y || ok != tt.inside {
			t.Errorf("cellOf(%v): got (%d,%d,%v), want (%d,%d,%v)", tt.p, x, y, ok, tt.x, tt.y, tt.inside)
		}
	}

	// Drawing off-screen or with odd sizes must not panic
	term.Circle(r2.Vec{X: -100, Y: -100}, 50, Green)
	term.Square(r2.Vec{X: 400, Y: 240}, 100, Red)
	term.Line(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 2000, Y: 2000}, 1, White)
	term.ScreenText("status", 0, 0, 0, White)
	term.EndWorld()
}
