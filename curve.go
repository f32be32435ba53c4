package curve

import (
	"math"
)

// DefaultFlattenTolerance is the flattening tolerance used by queries that
// don't take one, such as [PathShape.Contains]. It is suitable for drawings
// whose units are roughly pixels.
const DefaultFlattenTolerance = 0.05

// minTolerance is the smallest flattening tolerance honoured. Smaller requests,
// including zero and negative ones, are clamped to it.
const minTolerance = 1e-6

func clampTolerance(tolerance float64) float64 {
	if math.IsNaN(tolerance) || tolerance < minTolerance {
		return minTolerance
	}
	return tolerance
}

// solveQuadratic returns the real roots of c0 + c1·x + c2·x² = 0 in
// increasing order. A vanishing c2 degrades to the linear equation. When every
// coefficient is zero, 0 is reported as the single root.
func solveQuadratic(c0, c1, c2 float64) ([2]float64, int) {
	sc0 := c0 / c2
	sc1 := c1 / c2
	if !isFinite(sc0) || !isFinite(sc1) {
		root := -c0 / c1
		switch {
		case isFinite(root):
			return [2]float64{root}, 1
		case c0 == 0 && c1 == 0:
			return [2]float64{0}, 1
		default:
			return [2]float64{}, 0
		}
	}
	arg := sc1*sc1 - 4.0*sc0
	var root1 float64
	switch {
	case math.IsInf(arg, 0):
		// sc1² overflowed; x² + sc1·x dominates.
		root1 = -sc1
	case arg < 0:
		return [2]float64{}, 0
	case arg == 0:
		return [2]float64{-0.5 * sc1}, 1
	default:
		// Avoid cancellation by taking the root of larger magnitude first.
		root1 = -0.5 * (sc1 + math.Copysign(math.Sqrt(arg), sc1))
	}
	root2 := sc0 / root1
	if !isFinite(root2) {
		return [2]float64{root1}, 1
	}
	return [2]float64{min(root1, root2), max(root1, root2)}, 2
}

// option is a value that may be absent, such as the previous control point
// while parsing path data.
type option[T any] struct {
	isSet bool
	value T
}

func (opt *option[T]) set(v T) {
	opt.isSet = true
	opt.value = v
}
