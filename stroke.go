package curve

import (
	"fmt"
	"math"
)

// OutlinePredicate decides whether a shape can be outlined with a style. It
// returns nil if it can, and an error wrapping [ErrNotOutlinable] otherwise.
type OutlinePredicate func(shape *PathShape, style StrokeStyle) error

// OutlineDecorator adds to or adjusts a freshly computed outline. It receives
// the outline, which it may modify, and the centerline, which it must not.
type OutlineDecorator func(outline, centerline *PathShape, style StrokeStyle) error

// Outliner converts stroked centerlines into fillable outlines.
type Outliner struct {
	// Tolerance for flattening the centerline and approximating arcs. Zero
	// chooses a tolerance proportional to the stroke width.
	Tolerance float64
	// CanOutline is consulted before outlining. Nil means DefaultCanOutline.
	CanOutline OutlinePredicate
	// Decorators run in order on every outline produced.
	Decorators []OutlineDecorator
}

var DefaultOutliner = Outliner{CanOutline: DefaultCanOutline}

// DefaultCanOutline rejects styles that fail [StrokeStyle.Validate] and shapes
// with a subpath that doesn't have two distinct points.
func DefaultCanOutline(shape *PathShape, style StrokeStyle) error {
	if err := style.Validate(); err != nil {
		return err
	}
	for i, sp := range shape.subpaths {
		if !hasDistinctPoints(sp) {
			return fmt.Errorf("subpath %d has a single distinct point: %w", i, ErrNotOutlinable)
		}
	}
	return nil
}

func hasDistinctPoints(sp Subpath) bool {
	p := sp.Start()
	for _, seg := range sp.Segments {
		if seg.P1 != p || seg.P2 != p || seg.P3 != p {
			return true
		}
	}
	return false
}

// Outline converts shape, interpreted as a centerline, into the region a
// stroke with the given style would paint, using [DefaultOutliner].
func Outline(shape *PathShape, style StrokeStyle) (*PathShape, error) {
	return DefaultOutliner.Outline(shape, style)
}

// ToOutline is shorthand for [Outline].
func (s *PathShape) ToOutline(style StrokeStyle) (*PathShape, error) {
	return Outline(s, style)
}

// widthTolerance picks a flattening tolerance for a stroke width, tighter
// for thin strokes.
func widthTolerance(width float64) float64 {
	return clampTolerance(min(width*0.02, 0.25))
}

// Outline converts shape, interpreted as a centerline, into the region a
// stroke with the given style would paint.
//
// Every subpath is flattened, dashed if the style has a dash pattern, and
// offset by half the stroke width to both sides, with joins at interior
// vertices and caps at open ends. An open run becomes one closed subpath:
// the forward offset, the end cap, the reversed backward offset and the start
// cap. An undashed closed subpath becomes two closed subpaths of opposite
// orientation, except that an inner loop which folds over because the
// subpath is tighter than the stroke is dropped. Other self-overlaps are left
// in place and the result uses the NonZero fill rule. Overlaps of the same
// orientation fill correctly under it; local folds at bends tighter than half
// the width may leave small gaps.
//
// The result is a new shape. Neither shape nor style is modified or retained.
func (o *Outliner) Outline(shape *PathShape, style StrokeStyle) (*PathShape, error) {
	can := o.CanOutline
	if can == nil {
		can = DefaultCanOutline
	}
	if err := can(shape, style); err != nil {
		return nil, err
	}

	tolerance := o.Tolerance
	if tolerance <= 0 {
		tolerance = widthTolerance(style.Width)
	}
	out := NewPathShape(NonZero)
	ctx := strokeCtx{
		style:      style,
		tolerance:  tolerance,
		joinThresh: 2.0 * tolerance / style.Width,
		out:        out,
	}
	for _, sp := range shape.subpaths {
		poly := sp.Flatten(tolerance)
		if len(style.Dashes) == 0 {
			ctx.strokePolyline(poly.Points, poly.Closed)
			continue
		}
		for _, run := range dashPolyline(poly, style.Dashes, style.DashOffset) {
			ctx.strokePolyline(run.points, run.closed)
		}
	}
	for _, d := range o.Decorators {
		if err := d(out, shape, style); err != nil {
			return nil, err
		}
	}
	out.invalidate()
	return out, nil
}

type strokeCtx struct {
	style     StrokeStyle
	tolerance float64
	out       *PathShape

	started   bool
	center    []Point
	forward   []Point
	backward  []Point
	startPt   Point
	startNorm Vec2
	startTan  Vec2
	lastPt    Point
	lastTan   Vec2
	// Precomputation of the join threshold to optimize per-join logic.
	// If hypot < (hypot + dot) * joinThresh omit join altogether.
	joinThresh float64
}

func (ctx *strokeCtx) reset() {
	ctx.started = false
	ctx.forward = nil
	ctx.backward = nil
}

func (ctx *strokeCtx) strokePolyline(pts []Point, closed bool) {
	if len(pts) < 2 {
		return
	}
	ctx.reset()
	ctx.center = pts
	ctx.startPt = pts[0]
	ctx.lastPt = pts[0]
	for _, p := range pts[1:] {
		ctx.lineTo(p)
	}
	if closed {
		ctx.lineTo(ctx.startPt)
		ctx.finishClosed()
	} else {
		ctx.finish()
	}
}

func (ctx *strokeCtx) lineTo(p1 Point) {
	if p1 == ctx.lastPt {
		return
	}
	tangent := p1.Sub(ctx.lastPt)
	ctx.doJoin(tangent)
	ctx.lastTan = tangent
	ctx.doLine(tangent, p1)
}

func (ctx *strokeCtx) emit(pts []Point) {
	s := NewPathShapeFromPolygon(Polygon{Points: pts, Closed: true}, NonZero)
	if s.IsEmpty() {
		Logger().Debug("dropping degenerate outline loop", "points", len(pts))
		return
	}
	ctx.out.subpaths = append(ctx.out.subpaths, s.subpaths...)
}

// Append backward path to output.
func (ctx *strokeCtx) finish() {
	if !ctx.started {
		return
	}
	returnPt := ctx.backward[len(ctx.backward)-1]
	d := ctx.lastPt.Sub(returnPt)
	pts := ctx.forward
	switch ctx.style.Cap {
	case RoundCap:
		pts = appendArc(pts, ctx.lastPt, d, math.Pi, ctx.tolerance)
	case SquareCap:
		pts = squareCap(pts, ctx.lastPt, d)
	}
	for i := len(ctx.backward) - 1; i >= 0; i-- {
		pts = append(pts, ctx.backward[i])
	}
	switch ctx.style.Cap {
	case RoundCap:
		pts = appendArc(pts, ctx.startPt, ctx.startNorm, math.Pi, ctx.tolerance)
	case SquareCap:
		pts = squareCap(pts, ctx.startPt, ctx.startNorm)
	}
	ctx.emit(pts)
	ctx.reset()
}

// Finish a closed path
func (ctx *strokeCtx) finishClosed() {
	if !ctx.started {
		return
	}
	ctx.doJoin(ctx.startTan)
	back := make([]Point, len(ctx.backward))
	for i, p := range ctx.backward {
		back[len(back)-1-i] = p
	}
	for _, loop := range [2][]Point{ctx.forward, back} {
		if ctx.folded(loop) {
			Logger().Debug("dropping folded outline loop", "points", len(loop))
			continue
		}
		ctx.emit(loop)
	}
	ctx.reset()
}

// folded reports whether no edge of an offset loop keeps half the stroke
// width away from the centerline. That is the inner loop of a closed subpath
// too tight for the stroke; it turns inside out and would cut a hole into
// area the stroke covers.
func (ctx *strokeCtx) folded(loop []Point) bool {
	limit := 0.5*ctx.style.Width - ctx.tolerance
	if limit <= 0 || len(loop) < 2 {
		return false
	}
	limit2 := limit * limit
	n := len(ctx.center)
	for i, p := range loop {
		mid := p.Midpoint(loop[(i+1)%len(loop)])
		far := true
		for j := range n {
			if d, _ := (Line{ctx.center[j], ctx.center[(j+1)%n]}).Nearest(mid); d < limit2 {
				far = false
				break
			}
		}
		if far {
			return false
		}
	}
	return true
}

func (ctx *strokeCtx) norm(tan Vec2) Vec2 {
	scale := 0.5 * ctx.style.Width / tan.Hypot()
	return tan.Perp().Mul(scale)
}

func (ctx *strokeCtx) doJoin(tan0 Vec2) {
	norm := ctx.norm(tan0)
	p0 := ctx.lastPt
	if !ctx.started {
		ctx.forward = append(ctx.forward, p0.Translate(norm.Negate()))
		ctx.backward = append(ctx.backward, p0.Translate(norm))
		ctx.startTan = tan0
		ctx.startNorm = norm
		ctx.started = true
		return
	}
	ab := ctx.lastTan
	cd := tan0
	cross := ab.Cross(cd)
	dot := ab.Dot(cd)
	hypot := math.Hypot(cross, dot)
	if dot > 0.0 && math.Abs(cross) < hypot*ctx.joinThresh {
		return
	}
	lastNorm := ctx.norm(ab)
	switch ctx.style.Join {
	case BevelJoin:
		ctx.forward = append(ctx.forward, p0.Translate(norm.Negate()))
		ctx.backward = append(ctx.backward, p0.Translate(norm))
	case MiterJoin:
		ml := ctx.style.MiterLimit
		if 2.0*hypot < (hypot+dot)*ml*ml {
			if cross > 0.0 {
				fpLast := p0.Translate(lastNorm.Negate())
				fpThis := p0.Translate(norm.Negate())
				h := ab.Cross(fpThis.Sub(fpLast)) / cross
				miterPt := fpThis.Translate(cd.Mul(h).Negate())
				ctx.forward = append(ctx.forward, miterPt)
			} else if cross < 0.0 {
				fpLast := p0.Translate(lastNorm)
				fpThis := p0.Translate(norm)
				h := ab.Cross(fpThis.Sub(fpLast)) / cross
				miterPt := fpThis.Translate(cd.Mul(h).Negate())
				ctx.backward = append(ctx.backward, miterPt)
			}
		}
		ctx.forward = append(ctx.forward, p0.Translate(norm.Negate()))
		ctx.backward = append(ctx.backward, p0.Translate(norm))
	case RoundJoin:
		angle := math.Atan2(cross, dot)
		if angle > 0.0 {
			ctx.backward = append(ctx.backward, p0.Translate(norm))
			ctx.forward = appendArc(ctx.forward, p0, lastNorm.Negate(), angle, ctx.tolerance)
			ctx.forward = append(ctx.forward, p0.Translate(norm.Negate()))
		} else {
			ctx.forward = append(ctx.forward, p0.Translate(norm.Negate()))
			ctx.backward = appendArc(ctx.backward, p0, lastNorm, angle, ctx.tolerance)
			ctx.backward = append(ctx.backward, p0.Translate(norm))
		}
	}
}

func (ctx *strokeCtx) doLine(tangent Vec2, p1 Point) {
	norm := ctx.norm(tangent)
	ctx.forward = append(ctx.forward, p1.Translate(norm.Negate()))
	ctx.backward = append(ctx.backward, p1.Translate(norm))
	ctx.lastPt = p1
}

// arcSteps returns the number of chords approximating an arc of the given
// radius and sweep within tolerance.
func arcSteps(radius, sweep, tolerance float64) int {
	sweep = math.Abs(sweep)
	if radius <= tolerance {
		return max(1, int(math.Ceil(sweep/(math.Pi/2))))
	}
	step := 2 * math.Acos(max(1-tolerance/radius, 0))
	n := math.Ceil(sweep / step)
	if math.IsNaN(n) || n < 1 {
		return 1
	}
	return int(min(n, maxFlattenSteps))
}

// appendArc appends the interior points of the arc around center that starts
// at center+from and sweeps angle radians. The end point is left to the
// caller.
func appendArc(dst []Point, center Point, from Vec2, angle, tolerance float64) []Point {
	n := arcSteps(from.Hypot(), angle, tolerance)
	for i := 1; i < n; i++ {
		th := angle * float64(i) / float64(n)
		dst = append(dst, center.Translate(from.Rotate(th)))
	}
	return dst
}

// squareCap appends the two outer corners of a square cap at center, where
// norm points from center to the side the cap starts on.
func squareCap(dst []Point, center Point, norm Vec2) []Point {
	a := Affine{norm.X, norm.Y, -norm.Y, norm.X, center.X, center.Y}
	return append(dst, Pt(1.0, 1.0).Transform(a), Pt(-1.0, 1.0).Transform(a))
}
