package curve

import (
	"fmt"
	"iter"
)

type PathElementKind int

const (
	// Move directly to the point without drawing anything, starting a new
	// subpath.
	MoveToKind PathElementKind = iota + 1
	// Draw a line from the current location to the point.
	LineToKind
	// Draw a cubic Bézier using the current location and the three points.
	CubicToKind
	// Close off the subpath.
	ClosePathKind
)

// PathElement is one drawing command of a shape's command view.
//
// A valid sequence has a MoveTo at the beginning of each subpath.
type PathElement struct {
	Kind PathElementKind
	P0   Point
	P1   Point
	P2   Point
}

func (el PathElement) String() string {
	var kind string
	switch el.Kind {
	case MoveToKind:
		kind = "MoveTo"
	case LineToKind:
		kind = "LineTo"
	case CubicToKind:
		kind = "CubicTo"
	case ClosePathKind:
		kind = "ClosePath"
	default:
		kind = "InvalidPathElement"
	}
	return fmt.Sprintf("%s(%s, %s, %s)", kind, el.P0, el.P1, el.P2)
}

func (el PathElement) Transform(aff Affine) PathElement {
	switch el.Kind {
	case MoveToKind:
		return MoveTo(el.P0.Transform(aff))
	case LineToKind:
		return LineTo(el.P0.Transform(aff))
	case CubicToKind:
		return CubicTo(el.P0.Transform(aff), el.P1.Transform(aff), el.P2.Transform(aff))
	case ClosePathKind:
		return ClosePath()
	default:
		return PathElement{}
	}
}

// EndPoint returns the point the element ends on. ClosePath has no end point
// of its own.
func (el PathElement) EndPoint() (Point, bool) {
	switch el.Kind {
	case MoveToKind, LineToKind:
		return el.P0, true
	case CubicToKind:
		return el.P2, true
	default:
		return Point{}, false
	}
}

func MoveTo(pt Point) PathElement {
	return PathElement{Kind: MoveToKind, P0: pt}
}

func LineTo(pt Point) PathElement {
	return PathElement{Kind: LineToKind, P0: pt}
}

func CubicTo(p0, p1, p2 Point) PathElement {
	return PathElement{Kind: CubicToKind, P0: p0, P1: p1, P2: p2}
}

func ClosePath() PathElement {
	return PathElement{Kind: ClosePathKind}
}

// Elements returns the command view of s. Every subpath starts with a MoveTo;
// segments in line form become LineTo, all others CubicTo. A closed subpath's
// closing segment is emitted like any other, followed by ClosePath.
func (s *PathShape) Elements() iter.Seq[PathElement] {
	return func(yield func(PathElement) bool) {
		for _, sp := range s.subpaths {
			if !yield(MoveTo(sp.Start())) {
				return
			}
			for _, seg := range sp.Segments {
				var el PathElement
				if seg.IsLine() {
					el = LineTo(seg.P3)
				} else {
					el = CubicTo(seg.P1, seg.P2, seg.P3)
				}
				if !yield(el) {
					return
				}
			}
			if sp.Closed {
				if !yield(ClosePath()) {
					return
				}
			}
		}
	}
}

// NewPathShapeFromElements builds a shape from a command sequence.
//
// Drawing commands that don't follow a MoveTo continue from the current
// point; after a ClosePath that is the start of the closed subpath. A
// ClosePath whose subpath doesn't end at its start adds a straight closing
// segment. Subpaths without segments are dropped.
func NewPathShapeFromElements(seq iter.Seq[PathElement], rule FillRule) (*PathShape, error) {
	var b shapeBuilder
	b.shape = NewPathShape(rule)
	for el := range seq {
		if !el.isFinite() {
			return nil, fmt.Errorf("element %v: %w", el, ErrDegenerateInput)
		}
		switch el.Kind {
		case MoveToKind:
			b.moveTo(el.P0)
		case LineToKind:
			b.lineTo(el.P0)
		case CubicToKind:
			b.cubicTo(el.P0, el.P1, el.P2)
		case ClosePathKind:
			b.closePath()
		default:
			return nil, fmt.Errorf("element kind %d: %w", el.Kind, ErrUnsupportedCommand)
		}
	}
	b.flush()
	return b.shape, nil
}

// isFinite reports whether the points used by the element are finite. Unused
// points are zero.
func (el PathElement) isFinite() bool {
	return el.P0.IsFinite() && el.P1.IsFinite() && el.P2.IsFinite()
}

// shapeBuilder accumulates subpaths from drawing commands.
type shapeBuilder struct {
	shape   *PathShape
	cur     Subpath
	startPt Point
	lastPt  Point
}

func (b *shapeBuilder) flush() {
	if len(b.cur.Segments) > 0 {
		b.shape.subpaths = append(b.shape.subpaths, b.cur)
	}
	b.cur = Subpath{}
}

func (b *shapeBuilder) moveTo(p Point) {
	b.flush()
	b.startPt = p
	b.lastPt = p
}

func (b *shapeBuilder) lineTo(p Point) {
	b.cur.Segments = append(b.cur.Segments, NewLineSegment(b.lastPt, p))
	b.lastPt = p
}

func (b *shapeBuilder) cubicTo(p1, p2, p3 Point) {
	b.cur.Segments = append(b.cur.Segments, CubicBez{b.lastPt, p1, p2, p3})
	b.lastPt = p3
}

func (b *shapeBuilder) closePath() {
	if len(b.cur.Segments) > 0 {
		if b.lastPt != b.startPt {
			b.lineTo(b.startPt)
		}
		b.cur.Closed = true
	}
	b.flush()
	b.lastPt = b.startPt
}
