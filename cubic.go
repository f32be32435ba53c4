package curve

import (
	"math"
	"slices"
)

// maxFlattenSteps bounds the number of lines a single cubic is flattened into.
const maxFlattenSteps = 4096

// CubicBez is a cubic Bézier segment, the one segment type stored by
// [PathShape]. Straight lines are cubics whose control points coincide with
// their endpoints; see [NewLineSegment].
type CubicBez struct {
	P0 Point
	P1 Point
	P2 Point
	P3 Point
}

// NewLineSegment returns the degenerate cubic representing the straight line
// from p0 to p1.
func NewLineSegment(p0, p1 Point) CubicBez {
	return CubicBez{p0, p0, p1, p1}
}

// IsFinite reports whether all four control points are finite.
func (c CubicBez) IsFinite() bool {
	return c.P0.IsFinite() && c.P1.IsFinite() && c.P2.IsFinite() && c.P3.IsFinite()
}

// IsLine reports whether c is the canonical line form produced by
// [NewLineSegment].
func (c CubicBez) IsLine() bool {
	return c.P1 == c.P0 && c.P2 == c.P3
}

// IsFlat reports whether both control points lie within eps of the chord and
// project onto it between the endpoints. Such a cubic traces a straight line,
// although not necessarily at uniform speed.
func (c CubicBez) IsFlat(eps float64) bool {
	if c.IsLine() {
		return true
	}
	chord := c.P3.Sub(c.P0)
	l2 := chord.Hypot2()
	if l2 == 0 {
		return c.P1.Near(c.P0, eps) && c.P2.Near(c.P0, eps)
	}
	l := math.Sqrt(l2)
	for _, p := range [2]Point{c.P1, c.P2} {
		d := p.Sub(c.P0)
		if math.Abs(chord.Cross(d))/l > eps {
			return false
		}
		t := chord.Dot(d) / l2
		if t < -eps/l || t > 1+eps/l {
			return false
		}
	}
	return true
}

// ControlBox returns the bounding box of the four control points, which
// conservatively encloses the curve.
func (c CubicBez) ControlBox() Rect {
	return NewRectFromPoints(c.P0, c.P1).UnionPoint(c.P2).UnionPoint(c.P3)
}

// BoundingBox returns the smallest rectangle enclosing the curve.
func (c CubicBez) BoundingBox() Rect {
	bbox := NewRectFromPoints(c.P0, c.P3)
	ex, n := c.Extrema()
	for _, t := range ex[:n] {
		bbox = bbox.UnionPoint(c.Eval(t))
	}
	return bbox
}

func (c CubicBez) Eval(t float64) Point {
	mt := 1.0 - t
	a := Vec2(c.P0).Mul(mt * mt * mt)
	b := Vec2(c.P1).Mul(mt * mt * 3.0)
	cc := Vec2(c.P2).Mul(mt * 3.0)
	d := Vec2(c.P3)
	v := a.Add(b.Add(cc.Add(d.Mul(t)).Mul(t)).Mul(t))
	return Point(v)
}

// SplitAt splits the cubic at t using de Casteljau's algorithm. The two
// halves share the split point exactly, and keep c's endpoints exactly.
func (c CubicBez) SplitAt(t float64) (CubicBez, CubicBez) {
	p01 := c.P0.Lerp(c.P1, t)
	p12 := c.P1.Lerp(c.P2, t)
	p23 := c.P2.Lerp(c.P3, t)
	p012 := p01.Lerp(p12, t)
	p123 := p12.Lerp(p23, t)
	pm := p012.Lerp(p123, t)
	return CubicBez{c.P0, p01, p012, pm}, CubicBez{pm, p123, p23, c.P3}
}

func (c CubicBez) Differentiate() QuadBez {
	return QuadBez{
		Point(c.P1.Sub(c.P0).Mul(3)),
		Point(c.P2.Sub(c.P1).Mul(3)),
		Point(c.P3.Sub(c.P2).Mul(3)),
	}
}

// Extrema returns the parameters in (0, 1) at which the curve has an
// axis-aligned extremum, in increasing order.
func (c CubicBez) Extrema() ([4]float64, int) {
	// two calls to oneCoord, up to 2 roots per call, for a total of 4 possible values.
	var out [4]float64
	var outN int
	oneCoord := func(d0, d1, d2 float64) {
		a := d0 - 2*d1 + d2
		b := 2 * (d1 - d0)
		c := d0
		roots, n := solveQuadratic(c, b, a)
		for _, t := range roots[:n] {
			if t > 0.0 && t < 1.0 {
				out[outN] = t
				outN++
			}
		}
	}

	d0 := c.P1.Sub(c.P0)
	d1 := c.P2.Sub(c.P1)
	d2 := c.P3.Sub(c.P2)
	oneCoord(d0.X, d1.X, d2.X)
	oneCoord(d0.Y, d1.Y, d2.Y)
	slices.Sort(out[:outN])
	return out, outN
}

func (c CubicBez) Transform(aff Affine) CubicBez {
	return CubicBez{
		P0: c.P0.Transform(aff),
		P1: c.P1.Transform(aff),
		P2: c.P2.Transform(aff),
		P3: c.P3.Transform(aff),
	}
}

func (c CubicBez) SignedArea() float64 {
	v := c.P0.X*(6.0*c.P1.Y+3.0*c.P2.Y+c.P3.Y) +
		3.0*(c.P1.X*(-2.0*c.P0.Y+c.P2.Y+c.P3.Y)-c.P2.X*(c.P0.Y+c.P1.Y-2.0*c.P3.Y)) -
		c.P3.X*(c.P0.Y+3.0*c.P1.Y+6.0*c.P2.Y)
	return v * (1.0 / 20.0)
}

// Tangents returns the directions of the curve at its start and end.
//
// This version is robust to the segment not being a regular curve: coincident
// control points fall back to the next distinct one.
func (c CubicBez) Tangents() (Vec2, Vec2) {
	const epsilon = 1e-12
	d01 := c.P1.Sub(c.P0)
	var d0, d1 Vec2
	if d01.Hypot2() > epsilon {
		d0 = d01
	} else {
		d02 := c.P2.Sub(c.P0)
		if d02.Hypot2() > epsilon {
			d0 = d02
		} else {
			d0 = c.P3.Sub(c.P0)
		}
	}
	d23 := c.P3.Sub(c.P2)
	if d23.Hypot2() > epsilon {
		d1 = d23
	} else {
		d13 := c.P3.Sub(c.P1)
		if d13.Hypot2() > epsilon {
			d1 = d13
		} else {
			d1 = c.P3.Sub(c.P0)
		}
	}
	return d0, d1
}

// flattenSteps returns how many equal parameter steps approximate c with
// lines to within tolerance.
//
// This is Wang's formula, which bounds the distance between the curve and its
// uniform polyline by 3/4 of the largest second difference of the control
// polygon.
func (c CubicBez) flattenSteps(tolerance float64) int {
	if c.IsFlat(1e-12 * (1 + c.P3.Sub(c.P0).Hypot())) {
		return 1
	}
	dd0 := Vec2(c.P0).Sub(Vec2(c.P1).Mul(2)).Add(Vec2(c.P2)).Hypot()
	dd1 := Vec2(c.P1).Sub(Vec2(c.P2).Mul(2)).Add(Vec2(c.P3)).Hypot()
	m := max(dd0, dd1)
	n := math.Ceil(math.Sqrt(0.75 * m / tolerance))
	if math.IsNaN(n) || n < 1 {
		return 1
	}
	if n > maxFlattenSteps {
		return maxFlattenSteps
	}
	return int(n)
}

// appendFlattened appends the points approximating c, excluding c.P0, to dst.
// The last point appended is exactly c.P3.
func (c CubicBez) appendFlattened(dst []Point, tolerance float64) []Point {
	n := c.flattenSteps(tolerance)
	step := 1.0 / float64(n)
	for i := 1; i < n; i++ {
		dst = append(dst, c.Eval(float64(i)*step))
	}
	return append(dst, c.P3)
}
