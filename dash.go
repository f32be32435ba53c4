package curve

import (
	"math"
)

// dashRun is one "on" interval of a dashed polyline. A run is closed only
// when a closed polyline is covered by a single dash.
type dashRun struct {
	points []Point
	closed bool
}

// dashPolyline partitions poly into its "on" intervals by cumulative arc
// length, following the dash pattern starting offset units into it.
//
// On a closed polyline, the dash that crosses the start point is returned as
// one run. Runs with fewer than two distinct points are dropped.
func dashPolyline(poly Polygon, dashes []float64, offset float64) []dashRun {
	var period float64
	for _, d := range dashes {
		period += d
	}
	offset = math.Mod(offset, period)
	if offset < 0 {
		offset += period
	}

	dashIdx := 0
	isActive := true
	dashRemaining := dashes[dashIdx] - offset
	// Find place in dashes array for initial offset.
	for dashRemaining < 0.0 {
		dashIdx = (dashIdx + 1) % len(dashes)
		dashRemaining += dashes[dashIdx]
		isActive = !isActive
	}
	initIsActive := isActive

	pts := poly.Points
	if poly.Closed && len(pts) > 1 {
		pts = append(pts[:len(pts):len(pts)], pts[0])
	}
	if len(pts) == 0 {
		return nil
	}

	var runs [][]Point
	var cur []Point
	broken := false
	if isActive {
		cur = []Point{pts[0]}
	}
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		l := a.Distance(b)
		if l == 0 {
			continue
		}
		t := 0.0
		for l-t > dashRemaining {
			t += dashRemaining
			p := a.Lerp(b, t/l)
			if isActive {
				runs = append(runs, append(cur, p))
				cur = nil
			} else {
				cur = []Point{p}
			}
			broken = true
			isActive = !isActive
			dashIdx = (dashIdx + 1) % len(dashes)
			dashRemaining = dashes[dashIdx]
		}
		dashRemaining -= l - t
		if isActive {
			cur = append(cur, b)
		}
	}

	if !broken && isActive {
		// The whole polyline is one dash.
		return filterRuns([]dashRun{{points: cur, closed: poly.Closed}})
	}
	if isActive {
		if poly.Closed && initIsActive && len(runs) > 0 {
			// The last dash continues into the first one.
			runs[0] = append(cur, runs[0][1:]...)
		} else {
			runs = append(runs, cur)
		}
	}
	out := make([]dashRun, len(runs))
	for i, r := range runs {
		out[i] = dashRun{points: r}
	}
	return filterRuns(out)
}

func filterRuns(runs []dashRun) []dashRun {
	out := runs[:0]
	for _, r := range runs {
		r.points = dedupPoints(r.points)
		if r.closed && len(r.points) > 1 && r.points[0] == r.points[len(r.points)-1] {
			r.points = r.points[:len(r.points)-1]
		}
		if len(r.points) < 2 {
			Logger().Debug("dropping degenerate dash", "points", len(r.points))
			continue
		}
		out = append(out, r)
	}
	return out
}
