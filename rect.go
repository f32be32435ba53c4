package curve

import (
	"math"
)

// Rect is an axis-aligned box in drawing coordinates. Shapes report their
// bounds as Rects, the eraser uses them to reject disjoint edges early, and
// cmd/inkpath derives the document's viewBox from one.
//
// Rectangles built by this package have X0 ≤ X1 and Y0 ≤ Y1.
type Rect struct {
	X0, Y0 float64
	X1, Y1 float64
}

// NewRectFromPoints returns the smallest rectangle containing p0 and p1.
func NewRectFromPoints(p0, p1 Point) Rect {
	return Rect{
		X0: min(p0.X, p1.X),
		Y0: min(p0.Y, p1.Y),
		X1: max(p0.X, p1.X),
		Y1: max(p0.Y, p1.Y),
	}
}

// Width returns X1 − X0.
func (r Rect) Width() float64 {
	return r.X1 - r.X0
}

// Height returns Y1 − Y0.
func (r Rect) Height() float64 {
	return r.Y1 - r.Y0
}

// Diagonal returns the length of the rectangle's diagonal, the scale that
// relative tolerances are measured against.
func (r Rect) Diagonal() float64 {
	return math.Hypot(r.Width(), r.Height())
}

// ContainsRect reports whether o lies within r, boundaries included.
func (r Rect) ContainsRect(o Rect) bool {
	return o.X0 >= r.X0 && o.X1 <= r.X1 && o.Y0 >= r.Y0 && o.Y1 <= r.Y1
}

// Overlaps reports whether r and o share at least one point, boundaries
// included. Shapes whose bounds merely touch therefore overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.X0 <= o.X1 && o.X0 <= r.X1 && r.Y0 <= o.Y1 && o.Y0 <= r.Y1
}

// Union returns the smallest rectangle enclosing r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		X0: min(r.X0, o.X0),
		Y0: min(r.Y0, o.Y0),
		X1: max(r.X1, o.X1),
		Y1: max(r.Y1, o.Y1),
	}
}

// UnionPoint returns the smallest rectangle enclosing r and pt. Starting from
// a zero-area rectangle at the first point, successive calls yield the
// bounds of a point sequence.
func (r Rect) UnionPoint(pt Point) Rect {
	return Rect{
		X0: min(r.X0, pt.X),
		Y0: min(r.Y0, pt.Y),
		X1: max(r.X1, pt.X),
		Y1: max(r.Y1, pt.Y),
	}
}

// Inflate grows r by dx on the left and right and by dy on the top and
// bottom.
func (r Rect) Inflate(dx, dy float64) Rect {
	return Rect{
		X0: r.X0 - dx,
		Y0: r.Y0 - dy,
		X1: r.X1 + dx,
		Y1: r.Y1 + dy,
	}
}

// Shape returns a closed, single-subpath shape tracing the rectangle
// (X0, Y0) → (X1, Y0) → (X1, Y1) → (X0, Y1).
func (r Rect) Shape() *PathShape {
	return NewPathShapeFromPolygon(Polygon{
		Points: []Point{
			{r.X0, r.Y0},
			{r.X1, r.Y0},
			{r.X1, r.Y1},
			{r.X0, r.Y1},
		},
		Closed: true,
	}, NonZero)
}
