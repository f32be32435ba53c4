package curve

import (
	"math"
)

// Affine describes an affine transform via coefficients. Editors use it to
// move, scale and rotate whole shapes, arrowheads are placed with it, and
// [Rasterize] maps drawing coordinates to pixels with it.
//
// If the coefficients are (a, b, c, d, e, f), then the resulting
// transformation represents this augmented matrix:
//
//	| a c e |
//	| b d f |
//	| 0 0 1 |
//
// Composition reads right to left: (A * B) * v == A * (B * v). The Then
// methods compose in reading order instead.
type Affine struct {
	N0, N1, N2, N3, N4, N5 float64
}

// Identity is the identity transform.
var Identity = Affine{1, 0, 0, 1, 0, 0}

// FlipY mirrors the y axis, converting between y-up drawing space and y-down
// screen space. It reverses the orientation of every subpath.
var FlipY = Affine{1, 0, 0, -1, 0, 0}

// Scale creates an affine transform representing non-uniform scaling with
// different scale values for x and y
func Scale(x, y float64) Affine {
	return Affine{x, 0, 0, y, 0, 0}
}

// Translate creates an affine transform representing translation.
func Translate(v Vec2) Affine {
	return Affine{1, 0, 0, 1, v.X, v.Y}
}

// Rotate creates an affine transform representing rotation by th radians.
//
// A positive angle rotates the positive x direction into the positive y
// direction: counter-clockwise in a y-up coordinate system, clockwise on a
// y-down screen.
func Rotate(th float64) Affine {
	sin, cos := math.Sincos(th)
	return Affine{cos, sin, -sin, cos, 0, 0}
}

// RotateAbout creates an affine transform representing a rotation of th radians
// about center, such as the pivot of a selection.
func RotateAbout(th float64, center Point) Affine {
	c := Vec2(center)
	return Translate(c.Negate()).ThenRotate(th).ThenTranslate(c)
}

// Mul returns the transform that applies o first and then aff.
func (aff Affine) Mul(o Affine) Affine {
	return Affine{
		aff.N0*o.N0 + aff.N2*o.N1,
		aff.N1*o.N0 + aff.N3*o.N1,
		aff.N0*o.N2 + aff.N2*o.N3,
		aff.N1*o.N2 + aff.N3*o.N3,
		aff.N0*o.N4 + aff.N2*o.N5 + aff.N4,
		aff.N1*o.N4 + aff.N3*o.N5 + aff.N5,
	}
}

// ThenRotate returns aff followed by a rotation of th.
func (aff Affine) ThenRotate(th float64) Affine {
	return Rotate(th).Mul(aff)
}

// ThenTranslate returns aff followed by a translation of v.
func (aff Affine) ThenTranslate(v Vec2) Affine {
	aff.N4 += v.X
	aff.N5 += v.Y
	return aff
}

// Determinant returns the area scale factor of the transform. It is negative
// for transforms that mirror, and so reverse subpath orientation.
func (aff Affine) Determinant() float64 {
	return aff.N0*aff.N3 - aff.N1*aff.N2
}

// Invert returns the inverse transform, such as the one mapping pointer
// positions in pixels back to drawing coordinates. It returns false for
// transforms that collapse the plane onto a line or a point.
func (aff Affine) Invert() (Affine, bool) {
	det := aff.Determinant()
	if det == 0 || !isFinite(det) {
		return Affine{}, false
	}
	invDet := 1 / det
	return Affine{
		+invDet * aff.N3,
		-invDet * aff.N1,
		-invDet * aff.N2,
		+invDet * aff.N0,
		+invDet * (aff.N2*aff.N5 - aff.N3*aff.N4),
		+invDet * (aff.N1*aff.N4 - aff.N0*aff.N5),
	}, true
}

// IsFinite reports whether all coefficients are finite. Only finite
// transforms keep shapes finite.
func (aff Affine) IsFinite() bool {
	for _, n := range [...]float64{aff.N0, aff.N1, aff.N2, aff.N3, aff.N4, aff.N5} {
		if !isFinite(n) {
			return false
		}
	}
	return true
}

func isFinite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}
