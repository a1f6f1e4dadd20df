package renderer

import (
	"image/color"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/eportal/camera"
)

// OpKind identifies a recorded draw call.
type OpKind uint8

const (
	OpCircle OpKind = iota
	OpCircleLines
	OpTriangle
	OpTriangleLines
	OpSquare
	OpLine
	OpText
	OpScreenText
)

// Op is one recorded draw call. Unused fields stay zero.
type Op struct {
	Kind   OpKind
	Points []r2.Vec
	Size   float64 // radius, side, thickness or font size
	Text   string
	Color  color.RGBA
}

// Recorder is a Surface that stores draw calls instead of drawing them.
type Recorder struct {
	W, H float64
	View camera.View
	Ops  []Op

	inWorld bool
}

// NewRecorder creates a recorder with the given surface size.
func NewRecorder(w, h float64) *Recorder {
	return &Recorder{W: w, H: h}
}

// Reset drops all recorded calls.
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
}

// Count returns how many calls of kind were recorded.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Filter returns the recorded calls of kind.
func (r *Recorder) Filter(kind OpKind) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

func (r *Recorder) Size() (float64, float64) { return r.W, r.H }

func (r *Recorder) BeginWorld(view camera.View) {
	r.View = view
	r.inWorld = true
}

func (r *Recorder) EndWorld() { r.inWorld = false }

func (r *Recorder) add(op Op) { r.Ops = append(r.Ops, op) }

func (r *Recorder) Circle(center r2.Vec, radius float64, c color.RGBA) {
	r.add(Op{Kind: OpCircle, Points: []r2.Vec{center}, Size: radius, Color: c})
}

func (r *Recorder) CircleLines(center r2.Vec, radius, thickness float64, c color.RGBA) {
	r.add(Op{Kind: OpCircleLines, Points: []r2.Vec{center}, Size: radius, Color: c})
}

func (r *Recorder) Triangle(a, b, p r2.Vec, c color.RGBA) {
	r.add(Op{Kind: OpTriangle, Points: []r2.Vec{a, b, p}, Color: c})
}

func (r *Recorder) TriangleLines(a, b, p r2.Vec, thickness float64, c color.RGBA) {
	r.add(Op{Kind: OpTriangleLines, Points: []r2.Vec{a, b, p}, Size: thickness, Color: c})
}

func (r *Recorder) Square(center r2.Vec, side float64, c color.RGBA) {
	r.add(Op{Kind: OpSquare, Points: []r2.Vec{center}, Size: side, Color: c})
}

func (r *Recorder) Line(from, to r2.Vec, thickness float64, c color.RGBA) {
	r.add(Op{Kind: OpLine, Points: []r2.Vec{from, to}, Size: thickness, Color: c})
}

func (r *Recorder) Text(text string, pos r2.Vec, size float64, c color.RGBA) {
	r.add(Op{Kind: OpText, Points: []r2.Vec{pos}, Size: size, Text: text, Color: c})
}

func (r *Recorder) ScreenText(text string, x, y, size float64, c color.RGBA) {
	r.add(Op{Kind: OpScreenText, Points: []r2.Vec{{X: x, Y: y}}, Size: size, Text: text, Color: c})
}
