package curve

import (
	"encoding/xml"
	"io"
	"math"
)

// Attr is a single markup attribute.
type Attr struct {
	Name  string
	Value string
}

// Element is a node of a generic markup tree, such as an SVG element.
type Element struct {
	Name     string
	Attrs    []Attr
	Children []*Element
}

// Attr returns the value of the named attribute.
func (el *Element) Attr(name string) (string, bool) {
	for _, a := range el.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// AppendElement adds a child, making every Element a [MarkupSink].
func (el *Element) AppendElement(child *Element) {
	el.Children = append(el.Children, child)
}

// WriteXML writes el and its children to w as XML.
func (el *Element) WriteXML(w io.Writer) error {
	enc := xml.NewEncoder(w)
	if err := el.encode(enc); err != nil {
		return err
	}
	return enc.Flush()
}

func (el *Element) encode(enc *xml.Encoder) error {
	start := xml.StartElement{Name: xml.Name{Local: el.Name}}
	for _, a := range el.Attrs {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: a.Name}, Value: a.Value})
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for _, child := range el.Children {
		if err := child.encode(enc); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// MarkupSink receives elements emitted by [EmitArrowheads].
type MarkupSink interface {
	AppendElement(el *Element)
}

// Group is a MarkupSink that collects elements in order.
type Group struct {
	Elements []*Element
}

func (g *Group) AppendElement(el *Element) {
	g.Elements = append(g.Elements, el)
}

// The marker outlines below are in stroke-width units, with the tip at the
// origin pointing along +x.
const (
	arrowLength    = 3.0
	arrowHalfWidth = 1.5
)

// arrowGeometry returns the marker outline for kind and whether it is filled.
func arrowGeometry(kind ArrowKind) (*PathShape, bool) {
	switch kind {
	case ArrowTriangle:
		return NewPathShapeFromPolygon(Polygon{
			Points: []Point{{0, 0}, {-arrowLength, arrowHalfWidth}, {-arrowLength, -arrowHalfWidth}},
			Closed: true,
		}, NonZero), true
	case ArrowOpen:
		return NewPathShapeFromPolygon(Polygon{
			Points: []Point{{-arrowLength, arrowHalfWidth}, {0, 0}, {-arrowLength, -arrowHalfWidth}},
		}, NonZero), false
	case ArrowCircle:
		return Circle{Center: Pt(-arrowHalfWidth, 0), Radius: arrowHalfWidth}.Shape(DefaultFlattenTolerance), true
	case ArrowSquare:
		return Rect{-arrowLength, -arrowHalfWidth, 0, arrowHalfWidth}.Shape(), true
	case ArrowBar:
		return Rect{-0.5, -2, 0.5, 2}.Shape(), true
	default:
		return nil, false
	}
}

// endDirections returns the direction pointing out of the subpath at its start
// and at its end. Degenerate segments are skipped.
func endDirections(sp Subpath) (start, end Vec2, ok bool) {
	for _, seg := range sp.Segments {
		if d, _ := seg.Tangents(); d != (Vec2{}) {
			start = d.Negate()
			ok = true
			break
		}
	}
	if !ok {
		return Vec2{}, Vec2{}, false
	}
	for i := len(sp.Segments) - 1; i >= 0; i-- {
		if _, d := sp.Segments[i].Tangents(); d != (Vec2{}) {
			end = d
			break
		}
	}
	return start, end, true
}

// EmitArrowheads appends one path element per arrowhead requested by style to
// sink and returns how many it appended. Markers are placed at both ends of
// every open subpath, pointing away from it and scaled by the stroke width.
// Closed subpaths never get markers.
//
// Each element is an SVG path with a "class" of "arrowhead start" or
// "arrowhead end". Filled markers carry fill="currentColor"; the open marker
// is stroked with the stroke width instead.
func EmitArrowheads(shape *PathShape, style StrokeStyle, sink MarkupSink) int {
	if style.StartArrow == ArrowNone && style.EndArrow == ArrowNone {
		return 0
	}
	w := style.Width
	if !(w > 0) || math.IsInf(w, 0) {
		return 0
	}
	n := 0
	emit := func(kind ArrowKind, pos Point, dir Vec2, class string) {
		geom, filled := arrowGeometry(kind)
		if geom == nil {
			return
		}
		if err := geom.ApplyTransform(Scale(w, w).ThenRotate(dir.Angle()).ThenTranslate(Vec2(pos))); err != nil {
			Logger().Debug("skipping arrowhead", "class", class, "err", err)
			return
		}
		el := &Element{
			Name:  "path",
			Attrs: []Attr{{"class", class}, {"d", PathData(geom, SVGOptions{})}},
		}
		if filled {
			el.Attrs = append(el.Attrs, Attr{"fill", "currentColor"})
		} else {
			el.Attrs = append(el.Attrs,
				Attr{"fill", "none"},
				Attr{"stroke", "currentColor"},
				Attr{"stroke-width", formatCoord(w, 0)})
		}
		sink.AppendElement(el)
		n++
	}
	for _, sp := range shape.subpaths {
		if sp.Closed {
			continue
		}
		start, end, ok := endDirections(sp)
		if !ok {
			Logger().Debug("skipping arrowheads on degenerate subpath")
			continue
		}
		emit(style.StartArrow, sp.Start(), start, "arrowhead start")
		emit(style.EndArrow, sp.End(), end, "arrowhead end")
	}
	return n
}
