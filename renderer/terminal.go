package renderer

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/eportal/camera"
)

// Terminal draws onto a tcell screen. Each terminal row counts as two
// vertical units so shapes keep roughly their proportions.
type Terminal struct {
	screen tcell.Screen
	view   camera.View
}

// NewTerminal wraps an initialized tcell screen.
func NewTerminal(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

// Screen returns the underlying tcell screen.
func (t *Terminal) Screen() tcell.Screen {
	return t.screen
}

func (t *Terminal) Size() (float64, float64) {
	w, h := t.screen.Size()
	return float64(w), float64(h * 2)
}

func (t *Terminal) BeginWorld(view camera.View) {
	t.view = view
}

func (t *Terminal) EndWorld() {}

func style(c color.RGBA) tcell.Style {
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
}

// cellOf maps a world point to a terminal cell.
func (t *Terminal) cellOf(p r2.Vec) (x, y int, ok bool) {
	s := t.view.WorldToScreen(p)
	x, y = int(math.Floor(s.X)), int(math.Floor(s.Y/2))
	w, h := t.screen.Size()
	return x, y, x >= 0 && y >= 0 && x < w && y < h
}

func (t *Terminal) plot(p r2.Vec, r rune, c color.RGBA) {
	if x, y, ok := t.cellOf(p); ok {
		t.screen.SetContent(x, y, r, nil, style(c))
	}
}

// fill plots r on every cell whose center lies within radius of center, or
// on the center cell alone when the shape is smaller than a cell.
func (t *Terminal) fill(center r2.Vec, radius float64, r rune, c color.RGBA, inside func(r2.Vec) bool) {
	scale := t.view.Scale()
	if radius*scale < 1 {
		t.plot(center, r, c)
		return
	}
	step := 1 / scale
	for y := center.Y - radius; y <= center.Y+radius; y += step {
		for x := center.X - radius; x <= center.X+radius; x += step {
			p := r2.Vec{X: x, Y: y}
			if inside(p) {
				t.plot(p, r, c)
			}
		}
	}
}

func (t *Terminal) Circle(center r2.Vec, radius float64, c color.RGBA) {
	t.fill(center, radius, '●', c, func(p r2.Vec) bool {
		return r2.Norm(r2.Sub(p, center)) <= radius
	})
}

func (t *Terminal) CircleLines(center r2.Vec, radius, thickness float64, c color.RGBA) {
	n := max(8, int(2*math.Pi*radius*t.view.Scale()))
	for i := range n {
		a := 2 * math.Pi * float64(i) / float64(n)
		t.plot(r2.Vec{X: center.X + radius*math.Cos(a), Y: center.Y + radius*math.Sin(a)}, '·', c)
	}
}

func (t *Terminal) Triangle(a, b, p r2.Vec, c color.RGBA) {
	centroid := r2.Scale(1.0/3, r2.Add(r2.Add(a, b), p))
	t.plot(centroid, '▲', c)
}

func (t *Terminal) TriangleLines(a, b, p r2.Vec, thickness float64, c color.RGBA) {
	t.Line(a, b, thickness, c)
	t.Line(b, p, thickness, c)
	t.Line(p, a, thickness, c)
}

func (t *Terminal) Square(center r2.Vec, side float64, c color.RGBA) {
	half := side / 2
	t.fill(center, half, '■', c, func(p r2.Vec) bool {
		return math.Abs(p.X-center.X) <= half && math.Abs(p.Y-center.Y) <= half
	})
}

func (t *Terminal) Line(from, to r2.Vec, thickness float64, c color.RGBA) {
	d := r2.Norm(r2.Sub(to, from)) * t.view.Scale()
	n := max(1, int(d))
	for i := 0; i <= n; i++ {
		f := float64(i) / float64(n)
		t.plot(r2.Add(from, r2.Scale(f, r2.Sub(to, from))), '·', c)
	}
}

func (t *Terminal) Text(text string, pos r2.Vec, size float64, c color.RGBA) {
	x, y, ok := t.cellOf(pos)
	if !ok {
		return
	}
	t.put(x, y, text, c)
}

func (t *Terminal) ScreenText(text string, x, y, size float64, c color.RGBA) {
	// Screen coordinates are in pixels of a size-high line; map them to rows.
	if size <= 0 {
		size = 1
	}
	t.put(int(x/size), int(y/size), text, c)
}

func (t *Terminal) put(x, y int, text string, c color.RGBA) {
	w, h := t.screen.Size()
	if y < 0 || y >= h {
		return
	}
	st := style(c)
	for _, r := range text {
		if x >= w {
			return
		}
		if x >= 0 {
			t.screen.SetContent(x, y, r, nil, st)
		}
		x++
	}
}
