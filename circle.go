package curve

import (
	"math"
)

// Circle describes a circle for conversion to a [PathShape]. The circular
// arrowhead is built from one.
type Circle struct {
	Center Point
	Radius float64
}

// Shape returns the circle as a closed shape of cubic segments, within
// tolerance of the true circle. It starts at the rightmost point and runs
// counter-clockwise in a y-up coordinate system.
func (c Circle) Shape(tolerance float64) *PathShape {
	tolerance = clampTolerance(tolerance)
	scaledError := math.Abs(c.Radius) / tolerance
	var n int
	var armLength float64
	if scaledError < 1.0/1.9608e-4 {
		// Solution from http://spencermortensen.com/articles/bezier-circle/
		n = 4
		armLength = 0.551915024494
	} else {
		// This is empirically determined to fall within error tolerance.
		n = int(math.Ceil(math.Pow(1.1163*scaledError, 1.0/6.0)))
		// Note: this isn't minimum error, but it is simple and we can easily
		// estimate the error.
		armLength = (4.0 / 3.0) * math.Tan(math.Pi/2/(float64(n)))
	}

	x, y := c.Center.X, c.Center.Y
	r := c.Radius
	sp := Subpath{Closed: true}
	last := Pt(x+r, y)
	deltaTh := 2.0 * math.Pi / float64(n)
	for ix := 1; ix <= n; ix++ {
		a := armLength
		th1 := deltaTh * float64(ix)
		th0 := th1 - deltaTh
		s0, c0 := math.Sincos(th0)
		var s1, c1 float64
		if ix == n {
			s1 = 0.0
			c1 = 1.0
		} else {
			s1, c1 = math.Sincos(th1)
		}
		end := Pt(x+r*c1, y+r*s1)
		if ix == n {
			end = sp.Segments[0].P0
		}
		sp.Segments = append(sp.Segments, CubicBez{
			last,
			Pt(x+r*(c0-a*s0), y+r*(s0+a*c0)),
			Pt(x+r*(c1+a*s1), y+r*(s1-a*c1)),
			end,
		})
		last = end
	}
	s := NewPathShape(NonZero)
	s.subpaths = append(s.subpaths, sp)
	return s
}
