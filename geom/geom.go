// Package geom provides the small amount of plane geometry the simulation
// needs: axis-aligned rectangles and circle/segment intersection tests used
// for viewport culling.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Tolerance is the slack allowed when testing whether a point lies on a segment.
const Tolerance = 1.0

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// RectCentered returns a w*h rectangle centered on c.
func RectCentered(c r2.Vec, w, h float64) Rect {
	return Rect{X: c.X - w/2, Y: c.Y - h/2, W: w, H: h}
}

// Center returns the rectangle's center.
func (r Rect) Center() r2.Vec {
	return r2.Vec{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains reports whether p lies inside r, borders included.
func (r Rect) Contains(p r2.Vec) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Inflate grows r by d on every side.
func (r Rect) Inflate(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, W: r.W + 2*d, H: r.H + 2*d}
}

// Corners returns the four corners clockwise from the top-left.
func (r Rect) Corners() [4]r2.Vec {
	return [4]r2.Vec{
		{X: r.X, Y: r.Y},
		{X: r.X + r.W, Y: r.Y},
		{X: r.X + r.W, Y: r.Y + r.H},
		{X: r.X, Y: r.Y + r.H},
	}
}

// Edges returns the four edges as segment endpoint pairs.
func (r Rect) Edges() [4][2]r2.Vec {
	c := r.Corners()
	return [4][2]r2.Vec{
		{c[0], c[1]},
		{c[1], c[2]},
		{c[2], c[3]},
		{c[3], c[0]},
	}
}

// Clamp returns p moved inside [minX,maxX]x[minY,maxY].
func Clamp(p r2.Vec, minX, minY, maxX, maxY float64) r2.Vec {
	return r2.Vec{
		X: math.Max(minX, math.Min(maxX, p.X)),
		Y: math.Max(minY, math.Min(maxY, p.Y)),
	}
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b r2.Vec) float64 {
	return r2.Norm(r2.Sub(a, b))
}

// Towards returns p moved by step in the direction of target.
// A negative step moves away. If p == target, p is returned unchanged.
func Towards(p, target r2.Vec, step float64) r2.Vec {
	d := r2.Sub(target, p)
	n := r2.Norm(d)
	if n == 0 {
		return p
	}
	return r2.Add(p, r2.Scale(step/n, d))
}

// CircleSegmentIntersects reports whether the circle (center, radius) touches
// the segment p1-p2. Only horizontal and vertical segments are supported;
// any other segment reports false, as do non-positive radii and NaN input.
func CircleSegmentIntersects(center r2.Vec, radius float64, p1, p2 r2.Vec) bool {
	if !(radius > 0) || hasNaN(center, p1, p2) {
		return false
	}

	switch {
	case p1.Y == p2.Y:
		return chordOverlaps(center.Y-p1.Y, radius, center.X, p1.X, p2.X)
	case p1.X == p2.X:
		return chordOverlaps(center.X-p1.X, radius, center.Y, p1.Y, p2.Y)
	}
	return false
}

// chordOverlaps checks the chord cut by an axis line at perpendicular distance
// dist from the center against the segment's extent [a,b] along that line.
func chordOverlaps(dist, radius, c, a, b float64) bool {
	dist = math.Abs(dist)
	if dist > radius {
		return false
	}
	half := math.Sqrt(radius*radius - dist*dist)
	lo, hi := math.Min(a, b), math.Max(a, b)
	return c+half >= lo && c-half <= hi
}

// LineCoeffs returns (a, b, c) such that a*x + b*y = c holds on the line through p1 and p2.
func LineCoeffs(p1, p2 r2.Vec) (a, b, c float64) {
	return p1.Y - p2.Y, p2.X - p1.X, p2.X*p1.Y - p1.X*p2.Y
}

// SegmentContainsPoint reports whether p lies within the bounding box of the
// segment p1-p2, with Tolerance of slack on each side.
func SegmentContainsPoint(p1, p2, p r2.Vec) bool {
	minX, maxX := math.Min(p1.X, p2.X), math.Max(p1.X, p2.X)
	minY, maxY := math.Min(p1.Y, p2.Y), math.Max(p1.Y, p2.Y)
	return p.X > minX-Tolerance && p.X < maxX+Tolerance &&
		p.Y > minY-Tolerance && p.Y < maxY+Tolerance
}

// SegmentsIntersect reports whether segment p1-p2 crosses segment p3-p4.
// Parallel segments report false, including collinear ones that overlap.
func SegmentsIntersect(p1, p2, p3, p4 r2.Vec) bool {
	a2, b2, c2 := LineCoeffs(p1, p2)
	a1, b1, c1 := LineCoeffs(p3, p4)

	d := a1*b2 - b1*a2
	if d == 0 {
		return false
	}
	x := (c1*b2 - b1*c2) / d
	y := (a1*c2 - c1*a2) / d
	if math.IsInf(x, 0) || math.IsInf(y, 0) || math.IsNaN(x) || math.IsNaN(y) {
		return false
	}

	p := r2.Vec{X: x, Y: y}
	return SegmentContainsPoint(p1, p2, p) && SegmentContainsPoint(p3, p4, p)
}

func hasNaN(vs ...r2.Vec) bool {
	for _, v := range vs {
		if math.IsNaN(v.X) || math.IsNaN(v.Y) {
			return true
		}
	}
	return false
}
