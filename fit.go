package curve

import (
	"fmt"
	"math"
)

// FitOptions tunes [FitPointsOpt].
type FitOptions struct {
	// MaxDepth bounds the recursion depth of subdivision. Fitting fails with
	// [ErrFitConvergence] when it is exceeded.
	MaxDepth int
	// MaxSegments bounds the number of segments in the result. Zero means no
	// limit.
	MaxSegments int
	// ReparamIterations is the number of Newton-Raphson reparameterization
	// passes tried on a near miss before the run is split.
	ReparamIterations int
	// CornerAngle is the turning angle, in radians, above which a sample is
	// treated as a corner. The curve doesn't have to be smooth at corners.
	CornerAngle float64
	// CloseDistance is the largest distance between the first and last sample
	// for which a close hint is honoured. Zero means the fit tolerance.
	CloseDistance float64
}

var DefaultFitOptions = FitOptions{
	MaxDepth:          1024,
	MaxSegments:       1 << 20,
	ReparamIterations: 4,
	CornerAngle:       math.Pi / 3,
}

// FitPoints fits a sequence of sampled points with cubic Bézier segments, none
// of which deviates from the samples it covers by more than tolerance. It uses
// [DefaultFitOptions].
//
// See [FitPointsOpt] for details.
func FitPoints(points []Point, tolerance float64, closeHint bool) (*PathShape, error) {
	return FitPointsOpt(points, tolerance, closeHint, DefaultFitOptions)
}

// FitPointsOpt fits a sequence of sampled points with cubic Bézier segments.
//
// Consecutive duplicate points are ignored. At least two distinct points are
// required. The result has exactly one subpath and the NonZero fill rule. It
// is closed if closeHint is set and the first and last samples are no more
// than opts.CloseDistance apart; the last sample is then replaced by the first
// one.
//
// The fit uses chord-length parameterization and least-squares estimation of
// the control points, as described in [An Algorithm for Automatically Fitting
// Digitized Curves]. Runs that miss the tolerance are split at the sample of
// largest error, with the tangent there estimated from the neighbouring
// samples. Samples where the polyline turns by more than opts.CornerAngle split
// the fit up front and get one-sided tangents. Runs whose samples lie on a
// straight line become straight segments. A curve is only accepted if
// flattening it at the tolerance also stays within the tolerance of its
// samples, so Flatten(tolerance) of the result reproduces every sample.
//
// A tolerance of zero asks for maximum fidelity and still terminates: every
// run of two samples is represented exactly.
//
// [An Algorithm for Automatically Fitting Digitized Curves]: https://dl.acm.org/doi/10.5555/90767.90941
func FitPointsOpt(points []Point, tolerance float64, closeHint bool, opts FitOptions) (*PathShape, error) {
	if tolerance < 0 || math.IsNaN(tolerance) {
		return nil, fmt.Errorf("fit tolerance %g: %w", tolerance, ErrInvalidTolerance)
	}
	for _, p := range points {
		if !p.IsFinite() {
			return nil, fmt.Errorf("sample %v: %w", p, ErrDegenerateInput)
		}
	}
	pts := dedupPoints(points)
	if len(pts) < 2 {
		return nil, fmt.Errorf("%d distinct points: %w", len(pts), ErrDegenerateInput)
	}

	closed := false
	if closeHint {
		closeDist := opts.CloseDistance
		if closeDist <= 0 {
			closeDist = tolerance
		}
		if pts[0].Distance(pts[len(pts)-1]) <= closeDist {
			loop := pts[:len(pts)-1]
			for len(loop) > 1 && loop[len(loop)-1] == loop[0] {
				loop = loop[:len(loop)-1]
			}
			if len(loop) >= 2 {
				pts = loop
				closed = true
			}
		}
	}

	sp, err := fitPolyline(pts, tolerance, closed, opts)
	if err != nil {
		return nil, err
	}
	s := NewPathShape(NonZero)
	s.subpaths = append(s.subpaths, sp)
	return s, nil
}

// fitPolyline fits distinct, finite points. If closed is set, pts describes a
// loop whose first point isn't repeated at the end.
func fitPolyline(pts []Point, tolerance float64, closed bool, opts FitOptions) (Subpath, error) {
	f := fitter{
		tol2: tolerance * tolerance,
		tol:  tolerance,
		opts: opts,
	}
	var err error
	if closed {
		err = f.fitLoop(pts)
	} else {
		err = f.fitOpen(pts)
	}
	if err != nil {
		Logger().Debug("curve fit failed",
			"points", len(pts),
			"tolerance", tolerance,
			"segments", len(f.segs),
			"err", err)
		return Subpath{}, err
	}
	return Subpath{Segments: f.segs, Closed: closed}, nil
}

type fitter struct {
	tol  float64
	tol2 float64
	opts FitOptions
	segs []CubicBez
}

func (f *fitter) emit(c CubicBez) error {
	if f.opts.MaxSegments > 0 && len(f.segs) >= f.opts.MaxSegments {
		return fmt.Errorf("more than %d segments: %w", f.opts.MaxSegments, ErrFitConvergence)
	}
	f.segs = append(f.segs, c)
	return nil
}

// isCorner reports whether the polyline prev → p → next turns by more than
// the corner angle at p.
func (f *fitter) isCorner(prev, p, next Point) bool {
	d0 := p.Sub(prev)
	d1 := next.Sub(p)
	return math.Atan2(math.Abs(d0.Cross(d1)), d0.Dot(d1)) > f.opts.CornerAngle
}

func (f *fitter) fitOpen(pts []Point) error {
	start := 0
	for i := 1; i < len(pts)-1; i++ {
		if f.isCorner(pts[i-1], pts[i], pts[i+1]) {
			if err := f.fitPiece(pts[start : i+1]); err != nil {
				return err
			}
			start = i
		}
	}
	return f.fitPiece(pts[start:])
}

func (f *fitter) fitLoop(loop []Point) error {
	n := len(loop)
	corner := -1
	for i := range n {
		if f.isCorner(loop[(i+n-1)%n], loop[i], loop[(i+1)%n]) {
			corner = i
			break
		}
	}
	if corner >= 0 {
		// Start at a corner and close exactly on it.
		seq := make([]Point, 0, n+1)
		seq = append(seq, loop[corner:]...)
		seq = append(seq, loop[:corner]...)
		seq = append(seq, loop[corner])
		return f.fitOpen(seq)
	}
	seq := make([]Point, 0, n+1)
	seq = append(seq, loop...)
	seq = append(seq, loop[0])
	tan, ok := loop[1].Sub(loop[n-1]).TryNormalize()
	if !ok {
		return f.fitPiece(seq)
	}
	return f.fitCubic(seq, tan, tan.Negate(), 0)
}

// fitPiece fits a run bounded by corners or the ends of an open polyline.
func (f *fitter) fitPiece(pts []Point) error {
	n := len(pts)
	tHat1, ok1 := pts[1].Sub(pts[0]).TryNormalize()
	tHat2, ok2 := pts[n-2].Sub(pts[n-1]).TryNormalize()
	if !ok1 || !ok2 {
		return fmt.Errorf("zero-length tangent: %w", ErrDegenerateInput)
	}
	return f.fitCubic(pts, tHat1, tHat2, 0)
}

// fitCubic fits pts with tHat1 pointing from the first point into the run and
// tHat2 pointing from the last point back into it.
func (f *fitter) fitCubic(pts []Point, tHat1, tHat2 Vec2, depth int) error {
	if depth > f.opts.MaxDepth {
		return fmt.Errorf("subdivision depth above %d: %w", f.opts.MaxDepth, ErrFitConvergence)
	}
	n := len(pts)
	first, last := pts[0], pts[n-1]
	if n == 2 || f.isStraight(pts) {
		return f.emit(NewLineSegment(first, last))
	}

	u := chordLengthParameterize(pts)
	bez := generateBezier(pts, u, tHat1, tHat2)
	maxErr, split := computeMaxError(pts, bez, u)
	if maxErr <= f.tol2 {
		flatErr, at := f.flattenedError(pts, bez)
		if flatErr <= f.tol2 {
			return f.emit(bez)
		}
		split = at
	} else if maxErr <= 4*f.tol2 {
		// Close misses are worth a few reparameterization passes before
		// splitting.
		for range f.opts.ReparamIterations {
			u = reparameterize(pts, u, bez)
			bez = generateBezier(pts, u, tHat1, tHat2)
			maxErr, split = computeMaxError(pts, bez, u)
			if maxErr > f.tol2 {
				continue
			}
			flatErr, at := f.flattenedError(pts, bez)
			if flatErr <= f.tol2 {
				return f.emit(bez)
			}
			split = at
			break
		}
	}

	left, right := splitTangents(pts, split)
	if err := f.fitCubic(pts[:split+1], tHat1, left, depth+1); err != nil {
		return err
	}
	return f.fitCubic(pts[split:], right, tHat2, depth+1)
}

// isStraight reports whether every point of pts lies within tolerance of the
// chord, in order along it.
func (f *fitter) isStraight(pts []Point) bool {
	first, last := pts[0], pts[len(pts)-1]
	chord := last.Sub(first)
	l2 := chord.Hypot2()
	if l2 == 0 {
		return false
	}
	l := math.Sqrt(l2)
	slack := f.tol / l
	prevT := 0.0
	for _, p := range pts[1 : len(pts)-1] {
		d := p.Sub(first)
		if math.Abs(chord.Cross(d))/l > f.tol {
			return false
		}
		t := chord.Dot(d) / l2
		if t < prevT-slack || t > 1+slack {
			return false
		}
		prevT = max(prevT, t)
	}
	return true
}

// splitTangents returns the tangents at pts[split] for the run ending there
// and the run starting there.
func splitTangents(pts []Point, split int) (Vec2, Vec2) {
	prev, p, next := pts[split-1], pts[split], pts[split+1]
	if c, ok := prev.Sub(next).TryNormalize(); ok {
		return c, c.Negate()
	}
	// The run doubles back on itself.
	left, _ := prev.Sub(p).TryNormalize()
	right, _ := next.Sub(p).TryNormalize()
	return left, right
}

func chordLengthParameterize(pts []Point) []float64 {
	u := make([]float64, len(pts))
	for i := 1; i < len(pts); i++ {
		u[i] = u[i-1] + pts[i].Distance(pts[i-1])
	}
	total := u[len(u)-1]
	for i := 1; i < len(u); i++ {
		u[i] /= total
	}
	return u
}

func bernstein(t float64) (b0, b1, b2, b3 float64) {
	mt := 1 - t
	return mt * mt * mt, 3 * t * mt * mt, 3 * t * t * mt, t * t * t
}

// generateBezier computes the least-squares control points for pts at
// parameters u, with the control arms constrained to the given tangents.
func generateBezier(pts []Point, u []float64, tHat1, tHat2 Vec2) CubicBez {
	first, last := pts[0], pts[len(pts)-1]
	var c00, c01, c11, x0, x1 float64
	for i, p := range pts {
		b0, b1, b2, b3 := bernstein(u[i])
		a0 := tHat1.Mul(b1)
		a1 := tHat2.Mul(b2)
		c00 += a0.Dot(a0)
		c01 += a0.Dot(a1)
		c11 += a1.Dot(a1)
		base := Vec2(first).Mul(b0 + b1).Add(Vec2(last).Mul(b2 + b3))
		tmp := Vec2(p).Sub(base)
		x0 += a0.Dot(tmp)
		x1 += a1.Dot(tmp)
	}
	det := c00*c11 - c01*c01
	var alphaL, alphaR float64
	if det != 0 {
		alphaL = (x0*c11 - x1*c01) / det
		alphaR = (c00*x1 - c01*x0) / det
	}
	segLength := first.Distance(last)
	if segLength == 0 {
		// A loop; the chord says nothing about its size.
		segLength = Polygon{Points: pts}.Length() / 3
	}
	eps := 1e-6 * segLength
	if alphaL < eps || alphaR < eps || math.IsNaN(alphaL) || math.IsNaN(alphaR) {
		alphaL = segLength / 3
		alphaR = alphaL
	}
	return CubicBez{
		first,
		first.Translate(tHat1.Mul(alphaL)),
		last.Translate(tHat2.Mul(alphaR)),
		last,
	}
}

// computeMaxError returns the largest squared distance between an interior
// sample and its point on c, and the index of that sample.
func computeMaxError(pts []Point, c CubicBez, u []float64) (float64, int) {
	split := len(pts) / 2
	maxDist := 0.0
	for i := 1; i < len(pts)-1; i++ {
		d := c.Eval(u[i]).DistanceSquared(pts[i])
		if d >= maxDist {
			maxDist = d
			split = i
		}
	}
	return maxDist, split
}

// flattenedError returns the largest squared distance between an interior
// sample and the polyline that flattening c at the fit tolerance produces,
// and the index of that sample. Flattened output then stays within the
// tolerance of the samples, not just the curve.
func (f *fitter) flattenedError(pts []Point, c CubicBez) (float64, int) {
	poly := c.appendFlattened([]Point{c.P0}, clampTolerance(f.tol))
	split := len(pts) / 2
	maxDist := 0.0
	for i := 1; i < len(pts)-1; i++ {
		best := math.Inf(1)
		for j := 1; j < len(poly); j++ {
			d, _ := Line{poly[j-1], poly[j]}.Nearest(pts[i])
			best = min(best, d)
		}
		if best >= maxDist {
			maxDist = best
			split = i
		}
	}
	return maxDist, split
}

// reparameterize improves u by one Newton-Raphson step towards the parameters
// of the points on c nearest to pts.
func reparameterize(pts []Point, u []float64, c CubicBez) []float64 {
	d1 := c.Differentiate()
	d2 := d1.Differentiate()
	out := make([]float64, len(u))
	for i, p := range pts {
		t := u[i]
		q := c.Eval(t).Sub(p)
		q1 := Vec2(d1.Eval(t))
		q2 := Vec2(d2.Eval(t))
		num := q.Dot(q1)
		den := q1.Dot(q1) + q.Dot(q2)
		if den == 0 || math.IsNaN(den) {
			out[i] = t
			continue
		}
		out[i] = clamp01(t - num/den)
	}
	out[0], out[len(out)-1] = 0, 1
	return out
}
