package curve

import (
	"errors"
	"math"
	"slices"
	"testing"
)

func TestElements(t *testing.T) {
	s := NewPathShape(NonZero)
	for _, sp := range []Subpath{wave(), square(0, 0, 1, 1)} {
		if err := s.AddSubpath(sp); err != nil {
			t.Fatal(err)
		}
	}
	want := []PathElement{
		MoveTo(Pt(0, 0)),
		CubicTo(Pt(10, 20), Pt(20, 20), Pt(30, 0)),
		CubicTo(Pt(40, -20), Pt(50, -20), Pt(60, 0)),
		LineTo(Pt(70, 0)),
		MoveTo(Pt(0, 0)),
		LineTo(Pt(1, 0)),
		LineTo(Pt(1, 1)),
		LineTo(Pt(0, 1)),
		LineTo(Pt(0, 0)),
		ClosePath(),
	}
	diff(t, slices.Collect(s.Elements()), want)

	// Stopping early must not panic.
	for range s.Elements() {
		break
	}
}

func TestNewPathShapeFromElements(t *testing.T) {
	s := NewPathShape(EvenOdd)
	for _, sp := range []Subpath{wave(), square(0, 0, 1, 1)} {
		if err := s.AddSubpath(sp); err != nil {
			t.Fatal(err)
		}
	}
	got, err := NewPathShapeFromElements(s.Elements(), EvenOdd)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, got.Subpaths(), s.Subpaths())

	// ClosePath adds the closing segment, and drawing continues from the
	// start of the closed subpath.
	els := []PathElement{
		MoveTo(Pt(0, 0)),
		LineTo(Pt(2, 0)),
		LineTo(Pt(2, 2)),
		ClosePath(),
		LineTo(Pt(-2, 0)),
		MoveTo(Pt(5, 5)),
	}
	got, err = NewPathShapeFromElements(slices.Values(els), NonZero)
	if err != nil {
		t.Fatal(err)
	}
	want := []Subpath{
		{
			Segments: []CubicBez{
				NewLineSegment(Pt(0, 0), Pt(2, 0)),
				NewLineSegment(Pt(2, 0), Pt(2, 2)),
				NewLineSegment(Pt(2, 2), Pt(0, 0)),
			},
			Closed: true,
		},
		{Segments: []CubicBez{NewLineSegment(Pt(0, 0), Pt(-2, 0))}},
	}
	diff(t, got.Subpaths(), want)

	bad := []PathElement{MoveTo(Pt(0, 0)), LineTo(Pt(math.NaN(), 0))}
	if _, err := NewPathShapeFromElements(slices.Values(bad), NonZero); !errors.Is(err, ErrDegenerateInput) {
		t.Errorf("got error %v, want ErrDegenerateInput", err)
	}
}

func TestPathElementTransform(t *testing.T) {
	el := CubicTo(Pt(1, 0), Pt(0, 1), Pt(1, 1)).Transform(Translate(Vec(1, 2)))
	diff(t, el, CubicTo(Pt(2, 2), Pt(1, 3), Pt(2, 3)))
	if p, ok := el.EndPoint(); !ok || p != Pt(2, 3) {
		t.Errorf("got end point %v, %t", p, ok)
	}
	if _, ok := ClosePath().EndPoint(); ok {
		t.Error("ClosePath has an end point")
	}
}
