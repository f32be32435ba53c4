package curve

import (
	"cmp"
	"fmt"
	"math"
	"slices"
)

// EraseOptions tunes [EraseOpt].
type EraseOptions struct {
	// Tolerance for flattening both shapes. Zero means
	// DefaultFlattenTolerance.
	Tolerance float64
	// SnapDistance is the distance below which vertices are merged. Zero
	// chooses a distance relative to the size of the shapes.
	SnapDistance float64
	// MinArea is the area below which result loops are dropped as slivers.
	// Zero chooses an area relative to the size of the shapes.
	MinArea float64
}

var DefaultEraseOptions = EraseOptions{}

// Erase subtracts the region covered by eraser from subject. See [EraseOpt].
func Erase(subject, eraser *PathShape) []*PathShape {
	// The default options are always valid.
	out, _ := EraseOpt(subject, eraser, DefaultEraseOptions)
	return out
}

// EraseOpt subtracts the region covered by eraser from subject, each
// evaluated under its own fill rule, and returns the disjoint pieces that
// remain.
//
// If the shapes' bounding boxes don't overlap, or if their outlines neither
// cross nor contain each other, the result is subject itself, not a copy. A
// fully covered subject yields an empty result.
//
// Otherwise both shapes are flattened, their edges are split at all
// intersections and classified by sampling the result region on either side.
// Edges with the result on exactly one side form the new boundary, which is
// walked into loops. Every counter-clockwise loop, in a y-up coordinate
// system, becomes one NonZero shape together with the clockwise loops (holes)
// it contains. Edges that merely touch don't change the result.
//
// The inputs are not modified or retained.
func EraseOpt(subject, eraser *PathShape, opts EraseOptions) ([]*PathShape, error) {
	tolerance := opts.Tolerance
	if tolerance < 0 || math.IsNaN(tolerance) {
		return nil, fmt.Errorf("erase tolerance %g: %w", tolerance, ErrInvalidTolerance)
	}
	if tolerance == 0 {
		tolerance = DefaultFlattenTolerance
	}
	if subject.IsEmpty() {
		return []*PathShape{}, nil
	}
	if eraser.IsEmpty() || !subject.Bounds().Overlaps(eraser.Bounds()) {
		return []*PathShape{subject}, nil
	}

	e := eraseCtx{
		subjRule:  subject.FillRule,
		eraseRule: eraser.FillRule,
	}
	for _, sp := range subject.subpaths {
		e.subjPolys = append(e.subjPolys, sp.Flatten(tolerance))
	}
	for _, sp := range eraser.subpaths {
		e.erasePolys = append(e.erasePolys, sp.Flatten(tolerance))
	}
	scale := max(subject.Bounds().Union(eraser.Bounds()).Diagonal(), 1)
	e.eps = opts.SnapDistance
	if e.eps <= 0 {
		e.eps = 1e-9 * scale
	}
	e.minArea = opts.MinArea
	if e.minArea <= 0 {
		e.minArea = 1e-9 * scale * scale
	}

	e.collectEdges()
	crossings := e.splitEdges()
	if crossings == 0 && !e.containsEither() {
		return []*PathShape{subject}, nil
	}
	loops := e.walk(e.classify())
	return e.assemble(loops), nil
}

type eraseEdge struct {
	a, b    Point
	box     Rect
	subject bool
	splits  []edgeSplit
}

type edgeSplit struct {
	t float64
	p Point
}

type eraseCtx struct {
	subjRule   FillRule
	eraseRule  FillRule
	subjPolys  []Polygon
	erasePolys []Polygon
	eps        float64
	minArea    float64

	edges []eraseEdge
	verts vertexSet
	// Undirected sub-edges between vertex ids, a < b.
	segs [][2]int
}

func (e *eraseCtx) collectEdges() {
	add := func(polys []Polygon, subject bool) {
		for _, poly := range polys {
			n := len(poly.Points)
			for i, a := range poly.Points {
				if n < 2 {
					break
				}
				b := poly.Points[(i+1)%n]
				if a == b {
					continue
				}
				e.edges = append(e.edges, eraseEdge{
					a:       a,
					b:       b,
					box:     NewRectFromPoints(a, b).Inflate(e.eps, e.eps),
					subject: subject,
				})
			}
		}
	}
	add(e.subjPolys, true)
	add(e.erasePolys, false)
}

// splitEdges intersects all edges with each other, including edges of the
// same shape, and splits them into sub-edges between snapped vertices. It
// returns the number of intersections between subject and eraser edges.
func (e *eraseCtx) splitEdges() int {
	order := make([]int, len(e.edges))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(i, j int) int {
		return cmp.Compare(e.edges[i].box.X0, e.edges[j].box.X0)
	})

	crossings := 0
	for oi, i := range order {
		ei := &e.edges[i]
		for _, j := range order[oi+1:] {
			ej := &e.edges[j]
			if ej.box.X0 > ei.box.X1 {
				break
			}
			if !ei.box.Overlaps(ej.box) {
				continue
			}
			hits, n := Line{ei.a, ei.b}.IntersectSegment(Line{ej.a, ej.b}, e.eps)
			for _, hit := range hits[:n] {
				ei.splits = append(ei.splits, edgeSplit{hit.T, hit.Point})
				ej.splits = append(ej.splits, edgeSplit{hit.U, hit.Point})
				if ei.subject != ej.subject {
					crossings++
				}
			}
		}
	}

	e.verts = vertexSet{eps: e.eps, cells: make(map[[2]int64][]int)}
	seen := make(map[[2]int]bool)
	for i := range e.edges {
		ed := &e.edges[i]
		splits := append(ed.splits, edgeSplit{0, ed.a}, edgeSplit{1, ed.b})
		slices.SortFunc(splits, func(x, y edgeSplit) int { return cmp.Compare(x.t, y.t) })
		prev := e.verts.id(splits[0].p)
		for _, s := range splits[1:] {
			id := e.verts.id(s.p)
			if id == prev {
				continue
			}
			key := [2]int{min(prev, id), max(prev, id)}
			if !seen[key] {
				seen[key] = true
				e.segs = append(e.segs, key)
			}
			prev = id
		}
	}
	return crossings
}

// containsEither reports whether a vertex of either shape lies inside the
// other shape.
func (e *eraseCtx) containsEither() bool {
	for _, poly := range e.erasePolys {
		for _, p := range poly.Points {
			if e.subjRule.Inside(windingOf(e.subjPolys, p)) {
				return true
			}
		}
	}
	for _, poly := range e.subjPolys {
		for _, p := range poly.Points {
			if e.eraseRule.Inside(windingOf(e.erasePolys, p)) {
				return true
			}
		}
	}
	return false
}

func (e *eraseCtx) inResult(p Point) bool {
	return e.subjRule.Inside(windingOf(e.subjPolys, p)) &&
		!e.eraseRule.Inside(windingOf(e.erasePolys, p))
}

// classify returns the boundary edges of the result, directed so that the
// result lies on their left.
func (e *eraseCtx) classify() [][2]int {
	var out [][2]int
	for _, s := range e.segs {
		a, b := e.verts.pts[s[0]], e.verts.pts[s[1]]
		d := b.Sub(a)
		l := d.Hypot()
		delta := min(max(4*e.eps, 1e-6*l), 0.25*l)
		side := d.Perp().Mul(delta / l)
		m := a.Midpoint(b)
		left := e.inResult(m.Translate(side))
		right := e.inResult(m.Translate(side.Negate()))
		switch {
		case left && !right:
			out = append(out, s)
		case right && !left:
			out = append(out, [2]int{s[1], s[0]})
		}
	}
	return out
}

// walk links directed boundary edges into closed loops of vertex ids. At a
// vertex with several outgoing edges, it takes the one turning furthest
// clockwise from the edge it arrived on, which keeps each loop on the
// boundary of a single region.
func (e *eraseCtx) walk(edges [][2]int) [][]int {
	outgoing := make(map[int][]int)
	for i, ed := range edges {
		outgoing[ed[0]] = append(outgoing[ed[0]], i)
	}
	used := make([]bool, len(edges))
	var loops [][]int
	for start := range edges {
		if used[start] {
			continue
		}
		used[start] = true
		first := edges[start][0]
		loop := []int{first}
		cur := start
		closed := false
		for range len(edges) {
			v := edges[cur][1]
			if v == first {
				closed = true
				break
			}
			loop = append(loop, v)
			back := e.verts.pts[edges[cur][0]].Sub(e.verts.pts[v])
			next := -1
			best := -1.0
			for _, cand := range outgoing[v] {
				if used[cand] {
					continue
				}
				dir := e.verts.pts[edges[cand][1]].Sub(e.verts.pts[v])
				ang := math.Atan2(back.Cross(dir), back.Dot(dir))
				if ang < 0 {
					ang += 2 * math.Pi
				}
				if ang > best {
					best = ang
					next = cand
				}
			}
			if next < 0 {
				break
			}
			used[next] = true
			cur = next
		}
		if !closed {
			Logger().Debug("discarding open erase boundary", "vertices", len(loop))
			continue
		}
		loops = append(loops, loop)
	}
	return loops
}

// assemble groups loops into shapes, each outer loop with the holes it
// contains.
func (e *eraseCtx) assemble(loops [][]int) []*PathShape {
	type piece struct {
		poly  Polygon
		area  float64
		holes []Polygon
	}
	var outers []*piece
	var holes []Polygon
	for _, loop := range loops {
		pts := make([]Point, len(loop))
		for i, id := range loop {
			pts[i] = e.verts.pts[id]
		}
		poly := Polygon{Points: pts, Closed: true}
		a := poly.SignedArea()
		switch {
		case math.Abs(a) < e.minArea:
			Logger().Debug("dropping erase sliver", "area", a)
		case a > 0:
			outers = append(outers, &piece{poly: poly, area: a})
		default:
			holes = append(holes, poly)
		}
	}
	for _, h := range holes {
		var owner *piece
		for _, o := range outers {
			if owner != nil && o.area >= owner.area {
				continue
			}
			if containsPolygon(o.poly, h) {
				owner = o
			}
		}
		if owner == nil {
			Logger().Debug("dropping erase hole without outer loop", "vertices", len(h.Points))
			continue
		}
		owner.holes = append(owner.holes, h)
	}

	out := make([]*PathShape, 0, len(outers))
	for _, o := range outers {
		s := NewPathShapeFromPolygon(o.poly, NonZero)
		for _, h := range o.holes {
			hs := NewPathShapeFromPolygon(h, NonZero)
			s.subpaths = append(s.subpaths, hs.subpaths...)
		}
		out = append(out, s)
	}
	return out
}

// containsPolygon reports whether inner lies inside outer, judged by the
// first vertex of inner that isn't on outer's boundary.
func containsPolygon(outer, inner Polygon) bool {
	if !outer.BoundingBox().ContainsRect(inner.BoundingBox()) {
		return false
	}
	onBoundary := make(map[Point]bool, len(outer.Points))
	for _, p := range outer.Points {
		onBoundary[p] = true
	}
	for _, p := range inner.Points {
		if onBoundary[p] {
			continue
		}
		return outer.Winding(p) != 0
	}
	// All vertices are shared; fall back to an edge midpoint.
	if len(inner.Points) > 1 {
		return outer.Winding(inner.Points[0].Midpoint(inner.Points[1])) != 0
	}
	return false
}

// vertexSet assigns ids to points, merging points within eps of each other.
type vertexSet struct {
	eps   float64
	cells map[[2]int64][]int
	pts   []Point
}

func (vs *vertexSet) cell(p Point) [2]int64 {
	return [2]int64{int64(math.Floor(p.X / vs.eps)), int64(math.Floor(p.Y / vs.eps))}
}

func (vs *vertexSet) id(p Point) int {
	c := vs.cell(p)
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for _, id := range vs.cells[[2]int64{c[0] + dx, c[1] + dy}] {
				if vs.pts[id].Near(p, vs.eps) {
					return id
				}
			}
		}
	}
	id := len(vs.pts)
	vs.pts = append(vs.pts, p)
	vs.cells[c] = append(vs.cells[c], id)
	return id
}
