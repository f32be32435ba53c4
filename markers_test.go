package curve

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
)

func markerShape(t *testing.T, el *Element) *PathShape {
	t.Helper()
	d, ok := el.Attr("d")
	if !ok {
		t.Fatal("marker has no path data")
	}
	s, err := ParsePathData(d)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestEmitArrowheads(t *testing.T) {
	shape := NewPathShapeFromPolygon(Polygon{Points: []Point{{0, 0}, {10, 0}}}, NonZero)
	style := DefaultStrokeStyle.WithWidth(2).WithArrows(ArrowTriangle, ArrowTriangle)

	var g Group
	if n := EmitArrowheads(shape, style, &g); n != 2 || len(g.Elements) != 2 {
		t.Fatalf("got %d markers and %d elements, want 2", n, len(g.Elements))
	}

	start, end := g.Elements[0], g.Elements[1]
	if class, _ := start.Attr("class"); class != "arrowhead start" {
		t.Errorf("got class %q for first marker", class)
	}
	if class, _ := end.Attr("class"); class != "arrowhead end" {
		t.Errorf("got class %q for second marker", class)
	}
	if fill, _ := end.Attr("fill"); fill != "currentColor" {
		t.Errorf("got fill %q, want currentColor", fill)
	}

	// The end marker points along +x with its tip on the end point.
	if d, _ := end.Attr("d"); d != "M10,0 L4,3 L4,-3 L10,0 Z" {
		t.Errorf("got end marker %q", d)
	}
	// The start marker points back along -x.
	opt := cmpopts.EquateApprox(0, 1e-9)
	diff(t, markerShape(t, start).BoundingBox(), Rect{0, -3, 6, 3}, opt)
	if !markerShape(t, start).Contains(Pt(4, 0)) {
		t.Error("start marker doesn't cover its axis")
	}
}

func TestEmitArrowheadsKinds(t *testing.T) {
	shape := NewPathShapeFromPolygon(Polygon{Points: []Point{{0, 0}, {0, 10}}}, NonZero)
	tests := []struct {
		kind ArrowKind
		// Bounding box of the end marker for width 1, pointing along +y.
		want Rect
	}{
		{ArrowTriangle, Rect{-1.5, 7, 1.5, 10}},
		{ArrowOpen, Rect{-1.5, 7, 1.5, 10}},
		{ArrowCircle, Rect{-1.5, 7, 1.5, 10}},
		{ArrowSquare, Rect{-1.5, 7, 1.5, 10}},
		{ArrowBar, Rect{-2, 9.5, 2, 10.5}},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			var g Group
			n := EmitArrowheads(shape, DefaultStrokeStyle.WithArrows(ArrowNone, tt.kind), &g)
			if n != 1 {
				t.Fatalf("got %d markers, want 1", n)
			}
			el := g.Elements[0]
			// Circles are approximated by cubics, which stay within a
			// small fraction of the radius.
			diff(t, markerShape(t, el).BoundingBox(), tt.want, cmpopts.EquateApprox(0, 1e-3))

			fill, _ := el.Attr("fill")
			stroke, hasStroke := el.Attr("stroke")
			if tt.kind == ArrowOpen {
				if fill != "none" || stroke != "currentColor" {
					t.Errorf("got fill %q and stroke %q for open marker", fill, stroke)
				}
				if w, _ := el.Attr("stroke-width"); w != "1" {
					t.Errorf("got stroke width %q, want 1", w)
				}
			} else if fill != "currentColor" || hasStroke {
				t.Errorf("got fill %q and stroke %q for filled marker", fill, stroke)
			}
		})
	}
}

func TestEmitArrowheadsSkips(t *testing.T) {
	open := NewPathShapeFromPolygon(Polygon{Points: []Point{{0, 0}, {10, 0}}}, NonZero)
	closed := rectShape(0, 0, 10, 10, NonZero)
	dot := NewPathShape(NonZero)
	if err := dot.AddSubpath(Subpath{Segments: []CubicBez{NewLineSegment(Pt(1, 1), Pt(1, 1))}}); err != nil {
		t.Fatal(err)
	}
	arrows := DefaultStrokeStyle.WithArrows(ArrowTriangle, ArrowBar)

	tests := []struct {
		name  string
		shape *PathShape
		style StrokeStyle
	}{
		{"no arrows", open, DefaultStrokeStyle},
		{"closed subpath", closed, arrows},
		{"degenerate subpath", dot, arrows},
		{"zero width", open, arrows.WithWidth(0)},
		{"infinite width", open, arrows.WithWidth(math.Inf(1))},
		{"empty shape", NewPathShape(NonZero), arrows},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var g Group
			if n := EmitArrowheads(tt.shape, tt.style, &g); n != 0 || len(g.Elements) != 0 {
				t.Errorf("got %d markers, want none", n)
			}
		})
	}
}

func TestEmitArrowheadsPerSubpath(t *testing.T) {
	shape := NewPathShape(NonZero)
	for _, sp := range []Subpath{wave(), square(0, 0, 1, 1), wave()} {
		if err := shape.AddSubpath(sp); err != nil {
			t.Fatal(err)
		}
	}
	root := &Element{Name: "g"}
	n := EmitArrowheads(shape, DefaultStrokeStyle.WithArrows(ArrowOpen, ArrowNone), root)
	if n != 2 || len(root.Children) != 2 {
		t.Errorf("got %d markers and %d children, want 2", n, len(root.Children))
	}
}

func TestElementWriteXML(t *testing.T) {
	doc := &Element{Name: "svg", Attrs: []Attr{{"xmlns", "http://www.w3.org/2000/svg"}}}
	g := &Element{Name: "g", Attrs: []Attr{{"class", "a&b"}}}
	g.AppendElement(&Element{Name: "path", Attrs: []Attr{{"d", "M0,0 L1,1"}}})
	doc.AppendElement(g)

	sb := &strings.Builder{}
	if err := doc.WriteXML(sb); err != nil {
		t.Fatal(err)
	}
	want := `<svg xmlns="http://www.w3.org/2000/svg"><g class="a&amp;b"><path d="M0,0 L1,1"></path></g></svg>`
	if sb.String() != want {
		t.Errorf("got %s, want %s", sb.String(), want)
	}

	if _, ok := doc.Attr("viewBox"); ok {
		t.Error("found attribute that was never set")
	}
}
