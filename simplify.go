package curve

import (
	"fmt"
	"math"
	"slices"
)

// SimplifyOptions tunes [PathShape.SimplifyOpt].
type SimplifyOptions struct {
	// AngleThresh is the tangent of the turning angle between adjoining
	// segments above which they meet at a corner. Turns of more than a right
	// angle are always corners.
	AngleThresh float64
	// Fit tunes the curve fitting of smooth runs.
	Fit FitOptions
}

var DefaultSimplifyOptions = SimplifyOptions{
	AngleThresh: math.Tan(math.Pi / 3),
	Fit:         DefaultFitOptions,
}

// Simplify refits every subpath of s with as few segments as the tolerance
// allows. See [PathShape.SimplifyOpt].
func (s *PathShape) Simplify(tolerance float64) error {
	return s.SimplifyOpt(tolerance, DefaultSimplifyOptions)
}

// SimplifyOpt refits every subpath of s with as few segments as the tolerance
// allows, keeping its corners and whether it is closed.
//
// Each subpath is split where adjoining segments meet at an angle. The smooth
// runs in between are flattened and fitted again with the same algorithm as
// [FitPointsOpt], such that the result stays within tolerance of the original
// curves. A closed subpath without corners is refitted as a loop.
//
// On error, s is left unchanged.
func (s *PathShape) SimplifyOpt(tolerance float64, opts SimplifyOptions) error {
	if tolerance < 0 || math.IsNaN(tolerance) {
		return fmt.Errorf("simplify tolerance %g: %w", tolerance, ErrInvalidTolerance)
	}
	out := make([]Subpath, len(s.subpaths))
	for i, sp := range s.subpaths {
		simplified, err := simplifySubpath(sp, tolerance, opts)
		if err != nil {
			return fmt.Errorf("simplifying subpath %d: %w", i, err)
		}
		out[i] = simplified
	}
	s.invalidate()
	s.subpaths = out
	return nil
}

func isSegmentCorner(a, b CubicBez, angleThresh float64) bool {
	_, lastTan := a.Tangents()
	thisTan, _ := b.Tangents()
	dot := lastTan.Dot(thisTan)
	return dot < 0 || math.Abs(lastTan.Cross(thisTan)) > math.Abs(dot)*angleThresh
}

func simplifySubpath(sp Subpath, tolerance float64, opts SimplifyOptions) (Subpath, error) {
	// Flattening and fitting share the error budget.
	flatTol := clampTolerance(tolerance * 0.25)
	fitTol := tolerance * 0.75

	segs := sp.Segments
	n := len(segs)
	var corners []int
	for i := 1; i < n; i++ {
		if isSegmentCorner(segs[i-1], segs[i], opts.AngleThresh) {
			corners = append(corners, i)
		}
	}
	if sp.Closed && n > 1 && isSegmentCorner(segs[n-1], segs[0], opts.AngleThresh) {
		corners = append([]int{0}, corners...)
	}

	flattenRun := func(run []CubicBez) []Point {
		pts := []Point{run[0].P0}
		for _, seg := range run {
			pts = seg.appendFlattened(pts, flatTol)
		}
		return dedupPoints(pts)
	}

	if sp.Closed && len(corners) == 0 {
		loop := flattenRun(segs)
		loop = loop[:len(loop)-1]
		for len(loop) > 1 && loop[len(loop)-1] == loop[0] {
			loop = loop[:len(loop)-1]
		}
		if len(loop) < 2 {
			return sp.clone(), nil
		}
		return fitPolyline(loop, fitTol, true, opts.Fit)
	}

	if sp.Closed {
		// Rotate so that the subpath starts and ends on a corner.
		c := corners[0]
		segs = append(slices.Clone(segs[c:]), segs[:c]...)
		for i := range corners {
			corners[i] = (corners[i] - c + n) % n
		}
	}
	bounds := append(corners, n)
	if len(bounds) == 0 || bounds[0] != 0 {
		bounds = append([]int{0}, bounds...)
	}

	out := Subpath{Closed: sp.Closed}
	for i := 1; i < len(bounds); i++ {
		pts := flattenRun(segs[bounds[i-1]:bounds[i]])
		if len(pts) < 2 {
			// A run of zero length. Skipping it keeps the subpath continuous.
			continue
		}
		fitted, err := fitPolyline(pts, fitTol, false, opts.Fit)
		if err != nil {
			return Subpath{}, err
		}
		out.Segments = append(out.Segments, fitted.Segments...)
	}
	if len(out.Segments) == 0 {
		return sp.clone(), nil
	}
	return out, nil
}
