package curve

import (
	"math"
)

// Line is a straight edge of a flattened subpath. The eraser and the stroke
// outliner work on Lines; shapes store them as cubics.
type Line struct {
	P0 Point
	P1 Point
}

func (l Line) Eval(t float64) Point {
	return l.P0.Lerp(l.P1, t)
}

// Nearest returns the squared distance from pt to the closest point of the
// segment, and that point's parameter.
func (l Line) Nearest(pt Point) (distSq, t float64) {
	d := l.P1.Sub(l.P0)
	dotp := d.Dot(pt.Sub(l.P0))
	dSquared := d.Dot(d)
	if dotp <= 0.0 {
		return pt.Sub(l.P0).Hypot2(), 0.0
	} else if dotp >= dSquared {
		return pt.Sub(l.P1).Hypot2(), 1.0
	} else {
		t := dotp / dSquared
		dist := pt.Sub(l.Eval(t)).Hypot2()
		return dist, t
	}
}

func (l Line) SignedArea() float64 {
	return Vec2(l.P0).Cross(Vec2(l.P1)) * 0.5
}

// SegmentIntersection is a point shared by two line segments, as returned by
// [Line.IntersectSegment].
type SegmentIntersection struct {
	// Parameter of the point on the receiver, in [0, 1].
	T float64
	// Parameter of the point on the other segment, in [0, 1].
	U     float64
	Point Point
}

// IntersectSegment computes the points shared by the segments l and o.
//
// Crossing segments produce one intersection. Collinear, overlapping segments
// produce up to two: the ends of the overlap. Endpoints are matched with the
// absolute tolerance eps, and parameters are clamped to [0, 1].
func (l Line) IntersectSegment(o Line, eps float64) ([2]SegmentIntersection, int) {
	var out [2]SegmentIntersection
	d1 := l.P1.Sub(l.P0)
	d2 := o.P1.Sub(o.P0)
	len1 := d1.Hypot()
	len2 := d2.Hypot()
	if len1 == 0 || len2 == 0 {
		return out, 0
	}
	w := o.P0.Sub(l.P0)
	det := d1.Cross(d2)

	if math.Abs(det) <= 1e-12*len1*len2 {
		// Parallel. Only collinear overlap is of interest.
		if math.Abs(w.Cross(d1))/len1 > eps {
			return out, 0
		}
		n := 0
		add := func(t, u float64) {
			if n == 2 {
				return
			}
			t = clamp01(t)
			u = clamp01(u)
			p := l.Eval(t)
			for _, prev := range out[:n] {
				if prev.Point.Near(p, eps) {
					return
				}
			}
			out[n] = SegmentIntersection{T: t, U: u, Point: p}
			n++
		}
		inv1 := 1.0 / (len1 * len1)
		inv2 := 1.0 / (len2 * len2)
		tEps := eps / len1
		uEps := eps / len2
		// Endpoints of o projected onto l.
		for _, q := range [2]Point{o.P0, o.P1} {
			t := q.Sub(l.P0).Dot(d1) * inv1
			if t >= -tEps && t <= 1+tEps {
				add(t, q.Sub(o.P0).Dot(d2)*inv2)
			}
		}
		// Endpoints of l projected onto o.
		for _, q := range [2]Point{l.P0, l.P1} {
			u := q.Sub(o.P0).Dot(d2) * inv2
			if u >= -uEps && u <= 1+uEps {
				add(q.Sub(l.P0).Dot(d1)*inv1, u)
			}
		}
		return out, n
	}

	t := w.Cross(d2) / det
	u := w.Cross(d1) / det
	tEps := eps / len1
	uEps := eps / len2
	if t < -tEps || t > 1+tEps || u < -uEps || u > 1+uEps {
		return out, 0
	}
	t = clamp01(t)
	u = clamp01(u)
	out[0] = SegmentIntersection{T: t, U: u, Point: l.Eval(t)}
	return out, 1
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
