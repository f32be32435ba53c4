package curve

import (
	"cmp"
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
)

func rectShape(x0, y0, x1, y1 float64, rule FillRule) *PathShape {
	s := NewPathShape(rule)
	if err := s.AddSubpath(square(x0, y0, x1, y1)); err != nil {
		panic(err)
	}
	return s
}

func TestErase(t *testing.T) {
	tests := []struct {
		name     string
		subject  *PathShape
		eraser   *PathShape
		boxes    []Rect
		areas    []float64
		subpaths []int
	}{
		{
			name:    "covered",
			subject: rectShape(2, 2, 8, 8, NonZero),
			eraser:  rectShape(0, 0, 10, 10, NonZero),
		},
		{
			name:     "partial",
			subject:  rectShape(0, 0, 10, 10, NonZero),
			eraser:   rectShape(5, -5, 15, 15, NonZero),
			boxes:    []Rect{{0, 0, 5, 10}},
			areas:    []float64{50},
			subpaths: []int{1},
		},
		{
			name:     "hole",
			subject:  rectShape(0, 0, 10, 10, NonZero),
			eraser:   rectShape(3, 3, 6, 6, NonZero),
			boxes:    []Rect{{0, 0, 10, 10}},
			areas:    []float64{91},
			subpaths: []int{2},
		},
		{
			name:     "split",
			subject:  rectShape(0, 0, 30, 10, NonZero),
			eraser:   rectShape(10, -5, 20, 15, NonZero),
			boxes:    []Rect{{0, 0, 10, 10}, {20, 0, 30, 10}},
			areas:    []float64{100, 100},
			subpaths: []int{1, 1},
		},
		{
			name:     "touching",
			subject:  rectShape(0, 0, 10, 10, NonZero),
			eraser:   rectShape(10, 0, 20, 10, NonZero),
			boxes:    []Rect{{0, 0, 10, 10}},
			areas:    []float64{100},
			subpaths: []int{1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Erase(tt.subject, tt.eraser)
			slices.SortFunc(got, func(a, b *PathShape) int {
				return cmp.Compare(a.BoundingBox().X0, b.BoundingBox().X0)
			})
			var boxes []Rect
			var areas []float64
			var subpaths []int
			for _, piece := range got {
				if piece.FillRule != NonZero {
					t.Errorf("got fill rule %s, want NonZero", piece.FillRule)
				}
				checkContinuity(t, piece)
				boxes = append(boxes, piece.BoundingBox())
				areas = append(areas, piece.Area())
				subpaths = append(subpaths, piece.SubpathCount())
			}
			opt := cmpopts.EquateApprox(0, 1e-6)
			diff(t, boxes, tt.boxes, opt, cmpopts.EquateEmpty())
			diff(t, areas, tt.areas, opt, cmpopts.EquateEmpty())
			diff(t, subpaths, tt.subpaths, cmpopts.EquateEmpty())
		})
	}
}

func TestEraseOuterLoopsAreCounterClockwise(t *testing.T) {
	// A clockwise subject still yields counter-clockwise outer loops.
	subject := NewPathShapeFromPolygon(Polygon{
		Points: []Point{{0, 0}, {0, 10}, {10, 10}, {10, 0}},
		Closed: true,
	}, NonZero)
	got := Erase(subject, rectShape(5, -5, 15, 15, NonZero))
	if len(got) != 1 {
		t.Fatalf("got %d pieces, want 1", len(got))
	}
	sp := got[0].mustSubpath(0)
	if a := sp.Flatten(0.1).SignedArea(); math.Abs(a-50) > 1e-6 {
		t.Errorf("got signed area %g, want 50", a)
	}
}

func TestEraseUntouched(t *testing.T) {
	tests := []struct {
		name    string
		subject *PathShape
		eraser  *PathShape
	}{
		{"disjoint", rectShape(0, 0, 10, 10, NonZero), rectShape(20, 20, 30, 30, NonZero)},
		{"empty eraser", rectShape(0, 0, 10, 10, NonZero), NewPathShape(NonZero)},
		{
			// The eraser lies in the even-odd hole of the subject.
			"inside hole",
			func() *PathShape {
				s := rectShape(0, 0, 10, 10, EvenOdd)
				if err := s.AddSubpath(square(2, 2, 8, 8)); err != nil {
					panic(err)
				}
				return s
			}(),
			rectShape(3, 3, 7, 7, NonZero),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Erase(tt.subject, tt.eraser)
			if len(got) != 1 || got[0] != tt.subject {
				t.Errorf("got %v, want the subject itself", got)
			}
		})
	}
}

func TestEraseFillRule(t *testing.T) {
	// Under NonZero, the inner square doesn't open a hole, so erasing
	// inside it does.
	subject := rectShape(0, 0, 10, 10, NonZero)
	if err := subject.AddSubpath(square(2, 2, 8, 8)); err != nil {
		t.Fatal(err)
	}
	got := Erase(subject, rectShape(3, 3, 7, 7, NonZero))
	if len(got) != 1 {
		t.Fatalf("got %d pieces, want 1", len(got))
	}
	if a := got[0].Area(); math.Abs(a-84) > 1e-6 {
		t.Errorf("got area %g, want 84", a)
	}
	if got[0].Contains(Pt(5, 5)) {
		t.Error("erased region is still covered")
	}
	if !got[0].Contains(Pt(1, 1)) || !got[0].Contains(Pt(2.5, 5)) {
		t.Error("remaining region isn't covered")
	}
}

func TestEraseEmptySubject(t *testing.T) {
	got := Erase(NewPathShape(NonZero), rectShape(0, 0, 10, 10, NonZero))
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty non-nil result", got)
	}
}

func TestEraseInvalidTolerance(t *testing.T) {
	for _, tol := range []float64{-1, math.NaN()} {
		_, err := EraseOpt(rectShape(0, 0, 1, 1, NonZero), rectShape(0, 0, 1, 1, NonZero), EraseOptions{Tolerance: tol})
		if !errors.Is(err, ErrInvalidTolerance) {
			t.Errorf("tolerance %g: got error %v, want ErrInvalidTolerance", tol, err)
		}
	}
}

func TestEraseLeavesInputsAlone(t *testing.T) {
	subject := NewPathShape(EvenOdd)
	if err := subject.AddSubpath(wave()); err != nil {
		t.Fatal(err)
	}
	eraser := rectShape(20, -30, 40, 30, NonZero)
	wantSubject := subject.Subpaths()
	wantEraser := eraser.Subpaths()

	Erase(subject, eraser)

	diff(t, subject.Subpaths(), wantSubject)
	diff(t, eraser.Subpaths(), wantEraser)
	if subject.flat != nil || eraser.flat != nil {
		t.Error("erasing populated an input's flattening cache")
	}
	if subject.FillRule != EvenOdd {
		t.Errorf("subject fill rule changed to %s", subject.FillRule)
	}
}

func TestEraseCurvedSubject(t *testing.T) {
	// A disc with its right half erased.
	disc := Circle{Center: Pt(0, 0), Radius: 10}.Shape(0.01)
	got, err := EraseOpt(disc, rectShape(0, -20, 20, 20, NonZero), EraseOptions{Tolerance: 0.001})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d pieces, want 1", len(got))
	}
	box := got[0].BoundingBox()
	if math.Abs(box.X1) > 1e-6 || box.X0 > -9.9 {
		t.Errorf("got bounding box %v, want left half of the disc", box)
	}
	if a, want := got[0].Area(), 50*math.Pi; math.Abs(a-want) > 0.5 {
		t.Errorf("got area %g, want about %g", a, want)
	}
}
