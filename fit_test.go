package curve

import (
	"errors"
	"math"
	"testing"
)

// distanceToPolygons returns the distance from p to the nearest edge of
// polys.
func distanceToPolygons(p Point, polys []Polygon) float64 {
	best := math.Inf(1)
	for _, poly := range polys {
		n := len(poly.Points)
		for i := range n {
			j := i + 1
			if j == n {
				if !poly.Closed {
					break
				}
				j = 0
			}
			d, _ := Line{poly.Points[i], poly.Points[j]}.Nearest(p)
			best = min(best, d)
		}
	}
	return math.Sqrt(best)
}

func circleSamples(center Point, r float64, n int) []Point {
	pts := make([]Point, n)
	for i := range pts {
		th := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = center.Translate(Vec(r, 0).Rotate(th))
	}
	return pts
}

func TestFitSquare(t *testing.T) {
	pts := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}
	s, err := FitPoints(pts, 0.01, true)
	if err != nil {
		t.Fatal(err)
	}
	if s.SubpathCount() != 1 {
		t.Fatalf("got %d subpaths, want 1", s.SubpathCount())
	}
	sp := s.mustSubpath(0)
	if !sp.Closed {
		t.Error("square isn't closed")
	}
	if len(sp.Segments) != 4 {
		t.Fatalf("got %d segments, want 4", len(sp.Segments))
	}
	for i, seg := range sp.Segments {
		if !seg.IsLine() {
			t.Errorf("segment %d isn't a line: %v", i, seg)
		}
	}
	diff(t, s.Bounds(), Rect{0, 0, 10, 10})
	if s.FillRule != NonZero {
		t.Errorf("got fill rule %v, want nonzero", s.FillRule)
	}
	checkContinuity(t, s)
}

func TestFitRoundTrip(t *testing.T) {
	tests := []struct {
		samples int
		tol     float64
	}{
		{64, 2},
		{64, 0.5},
		{64, 0.1},
		{200, 1},
		{200, 0.1},
		{200, 0.01},
	}
	for _, tt := range tests {
		pts := circleSamples(Pt(100, 100), 50, tt.samples)
		pts = append(pts, pts[0])
		s, err := FitPoints(pts, tt.tol, true)
		if err != nil {
			t.Fatal(err)
		}
		if sp := s.mustSubpath(0); !sp.Closed {
			t.Errorf("%d samples, tolerance %g: sampled circle isn't closed", tt.samples, tt.tol)
		}
		// Flattening at the fit tolerance reproduces every sample.
		polys := s.Flatten(tt.tol)
		for _, p := range pts {
			if d := distanceToPolygons(p, polys); d > tt.tol {
				t.Errorf("%d samples, tolerance %g: sample %v is %g away", tt.samples, tt.tol, p, d)
			}
		}
		if s.SegmentCount() >= tt.samples {
			t.Errorf("%d samples, tolerance %g: got %d segments", tt.samples, tt.tol, s.SegmentCount())
		}
		checkContinuity(t, s)
	}
}

func TestFitOpenCurve(t *testing.T) {
	var pts []Point
	for i := range 101 {
		x := float64(i)
		pts = append(pts, Pt(x, 20*math.Sin(x/15)))
	}
	const tol = 0.25
	s, err := FitPoints(pts, tol, true)
	if err != nil {
		t.Fatal(err)
	}
	sp := s.mustSubpath(0)
	if sp.Closed {
		t.Error("open curve was closed")
	}
	diff(t, sp.Start(), pts[0])
	diff(t, sp.End(), pts[len(pts)-1])
	polys := s.Flatten(tol)
	for _, p := range pts {
		if d := distanceToPolygons(p, polys); d > tol {
			t.Errorf("sample %v is %g away", p, d)
		}
	}
}

func TestFitZeroTolerance(t *testing.T) {
	var pts []Point
	for i := range 200 {
		x := float64(i)
		pts = append(pts, Pt(x, math.Mod(x*x*0.37, 7)))
	}
	s, err := FitPoints(pts, 0, false)
	if err != nil {
		t.Fatal(err)
	}
	sp := s.mustSubpath(0)
	if len(sp.Segments) > len(pts)-1 {
		t.Errorf("got %d segments for %d samples", len(sp.Segments), len(pts))
	}
	diff(t, sp.Start(), pts[0])
	diff(t, sp.End(), pts[len(pts)-1])
	checkContinuity(t, s)
}

func TestFitStraight(t *testing.T) {
	pts := []Point{{0, 0}, {1, 0.01}, {2, -0.01}, {3, 0}, {3, 0}, {4, 0.02}, {10, 0}}
	s, err := FitPoints(pts, 0.1, false)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, s.Subpaths(), []Subpath{{Segments: []CubicBez{NewLineSegment(Pt(0, 0), Pt(10, 0))}}})

	s, err = FitPoints([]Point{{1, 1}, {1, 1}, {4, 5}}, 1, false)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, s.Subpaths(), []Subpath{{Segments: []CubicBez{NewLineSegment(Pt(1, 1), Pt(4, 5))}}})
}

func TestFitDegenerateInput(t *testing.T) {
	tests := []struct {
		name string
		pts  []Point
		tol  float64
		want error
	}{
		{"no points", nil, 1, ErrDegenerateInput},
		{"one point", []Point{{1, 2}}, 1, ErrDegenerateInput},
		{"duplicates", []Point{{1, 2}, {1, 2}, {1, 2}}, 1, ErrDegenerateInput},
		{"nan", []Point{{0, 0}, {math.NaN(), 1}, {2, 2}}, 1, ErrDegenerateInput},
		{"inf", []Point{{0, 0}, {math.Inf(-1), 1}}, 1, ErrDegenerateInput},
		{"negative tolerance", []Point{{0, 0}, {1, 1}}, -1, ErrInvalidTolerance},
		{"nan tolerance", []Point{{0, 0}, {1, 1}}, math.NaN(), ErrInvalidTolerance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := FitPoints(tt.pts, tt.tol, false)
			if !errors.Is(err, tt.want) {
				t.Errorf("got error %v, want %v", err, tt.want)
			}
			if s != nil {
				t.Error("got a shape along with an error")
			}
		})
	}
}

func TestFitCloseHint(t *testing.T) {
	pts := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 2}}
	s, err := FitPoints(pts, 0.5, true)
	if err != nil {
		t.Fatal(err)
	}
	if s.mustSubpath(0).Closed {
		t.Error("closed despite a gap larger than the tolerance")
	}

	opts := DefaultFitOptions
	opts.CloseDistance = 3
	s, err = FitPointsOpt(pts, 0.5, true, opts)
	if err != nil {
		t.Fatal(err)
	}
	sp := s.mustSubpath(0)
	if !sp.Closed {
		t.Fatal("not closed despite a gap within CloseDistance")
	}
	diff(t, sp.End(), Pt(0, 0))
	diff(t, sp.Start(), Pt(0, 0))

	s, err = FitPointsOpt(pts, 0.5, false, opts)
	if err != nil {
		t.Fatal(err)
	}
	if s.mustSubpath(0).Closed {
		t.Error("closed without a close hint")
	}
}

func TestFitCeilings(t *testing.T) {
	zigzag := []Point{{0, 0}, {1, 1}, {2, 0}, {3, 1}, {4, 0}, {5, 1}}
	opts := DefaultFitOptions
	opts.MaxSegments = 2
	if _, err := FitPointsOpt(zigzag, 0.1, false, opts); !errors.Is(err, ErrFitConvergence) {
		t.Errorf("got error %v, want ErrFitConvergence", err)
	}

	var wave []Point
	for i := range 50 {
		x := float64(i)
		wave = append(wave, Pt(x, 10*math.Sin(x/4)))
	}
	opts = DefaultFitOptions
	opts.MaxDepth = 0
	if _, err := FitPointsOpt(wave, 0.01, false, opts); !errors.Is(err, ErrFitConvergence) {
		t.Errorf("got error %v, want ErrFitConvergence", err)
	}
}
