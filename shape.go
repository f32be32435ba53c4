package curve

import (
	"fmt"
	"slices"
)

// FillRule decides which points are inside a shape, given their winding
// number.
type FillRule int

const (
	// Points with a non-zero winding number are inside.
	NonZero FillRule = iota
	// Points with an odd winding number are inside.
	EvenOdd
)

func (r FillRule) String() string {
	switch r {
	case NonZero:
		return "nonzero"
	case EvenOdd:
		return "evenodd"
	default:
		return fmt.Sprintf("FillRule(%d)", int(r))
	}
}

// Inside reports whether a point with the given winding number is inside.
func (r FillRule) Inside(winding int) bool {
	if r == EvenOdd {
		return winding%2 != 0
	}
	return winding != 0
}

// Subpath is one continuous run of cubic segments. Each segment starts
// exactly where the previous one ends. A closed subpath stores its closing
// segment explicitly, so that its last segment ends exactly where the first
// one starts.
type Subpath struct {
	Segments []CubicBez
	Closed   bool
}

// Start returns the first point of the subpath.
func (sp Subpath) Start() Point { return sp.Segments[0].P0 }

// End returns the last point of the subpath.
func (sp Subpath) End() Point { return sp.Segments[len(sp.Segments)-1].P3 }

// NodeCount returns the number of on-curve points of the subpath. The shared
// start and end point of a closed subpath counts once.
func (sp Subpath) NodeCount() int {
	if sp.Closed {
		return len(sp.Segments)
	}
	return len(sp.Segments) + 1
}

// Node returns the i-th on-curve point.
func (sp Subpath) Node(i int) Point {
	if i == len(sp.Segments) {
		return sp.End()
	}
	return sp.Segments[i].P0
}

// Validate checks that sp can be committed to a shape.
func (sp Subpath) Validate() error {
	if len(sp.Segments) == 0 {
		return fmt.Errorf("empty subpath: %w", ErrDegenerateInput)
	}
	for i, seg := range sp.Segments {
		if !seg.IsFinite() {
			return fmt.Errorf("segment %d has non-finite coordinates: %w", i, ErrDegenerateInput)
		}
		if i > 0 && seg.P0 != sp.Segments[i-1].P3 {
			return fmt.Errorf("segment %d starts at %v, previous ends at %v: %w",
				i, seg.P0, sp.Segments[i-1].P3, ErrDiscontinuousSegment)
		}
	}
	if sp.Closed && sp.End() != sp.Start() {
		return fmt.Errorf("closed subpath ends at %v, starts at %v: %w",
			sp.End(), sp.Start(), ErrDiscontinuousSegment)
	}
	return nil
}

func (sp Subpath) clone() Subpath {
	return Subpath{Segments: slices.Clone(sp.Segments), Closed: sp.Closed}
}

// ControlBox returns the bounding box of all control points.
func (sp Subpath) ControlBox() Rect {
	bbox := sp.Segments[0].ControlBox()
	for _, seg := range sp.Segments[1:] {
		bbox = bbox.Union(seg.ControlBox())
	}
	return bbox
}

// Flatten approximates the subpath with a polygon whose points are within
// tolerance of the curve.
func (sp Subpath) Flatten(tolerance float64) Polygon {
	tolerance = clampTolerance(tolerance)
	pts := []Point{sp.Start()}
	for _, seg := range sp.Segments {
		pts = seg.appendFlattened(pts, tolerance)
	}
	if sp.Closed && len(pts) > 1 {
		// The closing point repeats the first one.
		pts = pts[:len(pts)-1]
	}
	return Polygon{Points: pts, Closed: sp.Closed}
}

// Polygon is a flattened subpath. A closed polygon doesn't repeat its first
// point at the end.
type Polygon struct {
	Points []Point
	Closed bool
}

func (poly Polygon) clone() Polygon {
	return Polygon{Points: slices.Clone(poly.Points), Closed: poly.Closed}
}

// SignedArea returns the area of the polygon, closing it implicitly if it is
// open. The area is positive if the points are in counter-clockwise order in
// a y-up coordinate system.
func (poly Polygon) SignedArea() float64 {
	var a float64
	n := len(poly.Points)
	for i, p := range poly.Points {
		q := poly.Points[(i+1)%n]
		a += Vec2(p).Cross(Vec2(q))
	}
	return a * 0.5
}

// Length returns the length of the polygon's outline, including the closing
// edge if it is closed.
func (poly Polygon) Length() float64 {
	var l float64
	for i := 1; i < len(poly.Points); i++ {
		l += poly.Points[i].Distance(poly.Points[i-1])
	}
	if poly.Closed && len(poly.Points) > 1 {
		l += poly.Points[0].Distance(poly.Points[len(poly.Points)-1])
	}
	return l
}

func (poly Polygon) BoundingBox() Rect {
	if len(poly.Points) == 0 {
		return Rect{}
	}
	bbox := NewRectFromPoints(poly.Points[0], poly.Points[0])
	for _, p := range poly.Points[1:] {
		bbox = bbox.UnionPoint(p)
	}
	return bbox
}

// Winding returns the winding number of pt with respect to the polygon,
// treating it as closed. Points on a horizontal edge's upper half-line count
// as below it, so each crossing is counted once.
func (poly Polygon) Winding(pt Point) int {
	var w int
	n := len(poly.Points)
	for i, a := range poly.Points {
		b := poly.Points[(i+1)%n]
		if a.Y <= pt.Y {
			if b.Y > pt.Y && b.Sub(a).Cross(pt.Sub(a)) > 0 {
				w++
			}
		} else if b.Y <= pt.Y && b.Sub(a).Cross(pt.Sub(a)) < 0 {
			w--
		}
	}
	return w
}

func windingOf(polys []Polygon, pt Point) int {
	var w int
	for _, poly := range polys {
		w += poly.Winding(pt)
	}
	return w
}

// PathShape is a sequence of subpaths with a fill rule.
//
// A PathShape owns its geometry: subpaths passed in are copied, and
// subpaths handed out are copies. Flattened geometry is cached per tolerance
// and discarded by every mutating method.
//
// A PathShape is not safe for concurrent use; queries fill its flattening cache.
type PathShape struct {
	// FillRule is consulted by queries. Changing it doesn't invalidate cached
	// geometry.
	FillRule FillRule

	subpaths []Subpath
	flat     map[float64][]Polygon
}

// NewPathShape returns an empty shape.
func NewPathShape(rule FillRule) *PathShape {
	return &PathShape{FillRule: rule}
}

// NewPathShapeFromPolygon returns a shape with one subpath of straight
// segments through the points of poly. Non-finite points and consecutive
// duplicates are skipped, and a closed polygon gets an explicit closing
// segment. The shape is empty if poly has fewer than two distinct finite
// points.
func NewPathShapeFromPolygon(poly Polygon, rule FillRule) *PathShape {
	s := NewPathShape(rule)
	pts := poly.Points
	if slices.ContainsFunc(pts, func(p Point) bool { return !p.IsFinite() }) {
		pts = slices.DeleteFunc(slices.Clone(pts), func(p Point) bool { return !p.IsFinite() })
	}
	pts = dedupPoints(pts)
	if poly.Closed && len(pts) > 1 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}
	if len(pts) < 2 {
		return s
	}
	sp := Subpath{Closed: poly.Closed}
	for i := 1; i < len(pts); i++ {
		sp.Segments = append(sp.Segments, NewLineSegment(pts[i-1], pts[i]))
	}
	if poly.Closed {
		sp.Segments = append(sp.Segments, NewLineSegment(pts[len(pts)-1], pts[0]))
	}
	s.subpaths = append(s.subpaths, sp)
	return s
}

func dedupPoints(pts []Point) []Point {
	out := make([]Point, 0, len(pts))
	for _, p := range pts {
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (s *PathShape) invalidate() {
	s.flat = nil
}

// Clone returns a deep copy of s.
func (s *PathShape) Clone() *PathShape {
	out := &PathShape{FillRule: s.FillRule, subpaths: make([]Subpath, len(s.subpaths))}
	for i, sp := range s.subpaths {
		out.subpaths[i] = sp.clone()
	}
	return out
}

// IsEmpty reports whether s has no subpaths.
func (s *PathShape) IsEmpty() bool {
	return len(s.subpaths) == 0
}

func (s *PathShape) SubpathCount() int {
	return len(s.subpaths)
}

// Subpath returns a copy of the i-th subpath.
func (s *PathShape) Subpath(i int) (Subpath, bool) {
	if i < 0 || i >= len(s.subpaths) {
		return Subpath{}, false
	}
	return s.subpaths[i].clone(), true
}

// Subpaths returns copies of all subpaths.
func (s *PathShape) Subpaths() []Subpath {
	out := make([]Subpath, len(s.subpaths))
	for i, sp := range s.subpaths {
		out[i] = sp.clone()
	}
	return out
}

// SegmentCount returns the total number of segments over all subpaths.
func (s *PathShape) SegmentCount() int {
	var n int
	for _, sp := range s.subpaths {
		n += len(sp.Segments)
	}
	return n
}

func (s *PathShape) checkSubpath(i int) error {
	if i < 0 || i >= len(s.subpaths) {
		return fmt.Errorf("subpath %d of %d: %w", i, len(s.subpaths), ErrIndexOutOfRange)
	}
	return nil
}

// AddSubpath appends a copy of sp. It fails if sp is empty, not continuous,
// or marked closed without ending where it starts.
func (s *PathShape) AddSubpath(sp Subpath) error {
	if err := sp.Validate(); err != nil {
		return err
	}
	s.invalidate()
	s.subpaths = append(s.subpaths, sp.clone())
	return nil
}

// RemoveSubpath removes the i-th subpath. Removing the last remaining subpath
// leaves a valid, empty shape.
func (s *PathShape) RemoveSubpath(i int) error {
	if err := s.checkSubpath(i); err != nil {
		return err
	}
	s.invalidate()
	s.subpaths = slices.Delete(s.subpaths, i, i+1)
	return nil
}

// AppendSegment extends the open subpath sub by seg, which must start exactly
// where the subpath ends.
func (s *PathShape) AppendSegment(sub int, seg CubicBez) error {
	if err := s.checkSubpath(sub); err != nil {
		return err
	}
	sp := &s.subpaths[sub]
	if sp.Closed {
		return fmt.Errorf("subpath %d is closed: %w", sub, ErrDiscontinuousSegment)
	}
	if seg.P0 != sp.End() {
		return fmt.Errorf("segment starts at %v, subpath %d ends at %v: %w",
			seg.P0, sub, sp.End(), ErrDiscontinuousSegment)
	}
	if !seg.IsFinite() {
		return fmt.Errorf("segment has non-finite coordinates: %w", ErrDegenerateInput)
	}
	s.invalidate()
	sp.Segments = append(sp.Segments, seg)
	return nil
}

// CloseSubpath marks the i-th subpath as closed, adding a straight closing
// segment if it doesn't already end where it starts.
func (s *PathShape) CloseSubpath(i int) error {
	if err := s.checkSubpath(i); err != nil {
		return err
	}
	sp := &s.subpaths[i]
	if sp.Closed {
		return nil
	}
	s.invalidate()
	if sp.End() != sp.Start() {
		sp.Segments = append(sp.Segments, NewLineSegment(sp.End(), sp.Start()))
	}
	sp.Closed = true
	return nil
}

// InsertNode splits segment seg of subpath sub at parameter t, which must lie
// strictly between 0 and 1. The curve's geometry is unchanged.
func (s *PathShape) InsertNode(sub, seg int, t float64) error {
	if err := s.checkSubpath(sub); err != nil {
		return err
	}
	sp := &s.subpaths[sub]
	if seg < 0 || seg >= len(sp.Segments) {
		return fmt.Errorf("segment %d of %d: %w", seg, len(sp.Segments), ErrIndexOutOfRange)
	}
	if !(t > 0 && t < 1) {
		return fmt.Errorf("split parameter %g outside (0, 1): %w", t, ErrIndexOutOfRange)
	}
	s.invalidate()
	c := sp.Segments[seg]
	a, b := c.SplitAt(t)
	if c.IsLine() {
		// Keep both halves in canonical line form.
		a = NewLineSegment(a.P0, a.P3)
		b = NewLineSegment(b.P0, b.P3)
	}
	sp.Segments = slices.Insert(sp.Segments, seg+1, b)
	sp.Segments[seg] = a
	return nil
}

// DeleteNode removes an on-curve point of subpath sub. An interior node's
// neighbouring segments are merged into one, keeping their outer control
// points. Deleting an end node of an open subpath drops its segment. A
// subpath left without segments is removed from the shape, as is a closed
// subpath left with a single segment.
func (s *PathShape) DeleteNode(sub, node int) error {
	if err := s.checkSubpath(sub); err != nil {
		return err
	}
	sp := &s.subpaths[sub]
	if node < 0 || node >= sp.NodeCount() {
		return fmt.Errorf("node %d of %d: %w", node, sp.NodeCount(), ErrIndexOutOfRange)
	}
	s.invalidate()
	segs := sp.Segments
	n := len(segs)
	merge := func(a, b CubicBez) CubicBez {
		if a.IsLine() && b.IsLine() {
			return NewLineSegment(a.P0, b.P3)
		}
		return CubicBez{a.P0, a.P1, b.P2, b.P3}
	}
	switch {
	case n == 1, sp.Closed && n == 2:
		// A closed subpath of one segment collapses onto itself.
		segs = nil
	case sp.Closed && node == 0:
		m := merge(segs[n-1], segs[0])
		segs = append(slices.Clone(segs[1:n-1]), m)
	case !sp.Closed && node == 0:
		segs = slices.Clone(segs[1:])
	case !sp.Closed && node == n:
		segs = slices.Clone(segs[:n-1])
	default:
		m := merge(segs[node-1], segs[node])
		segs = slices.Replace(segs, node-1, node+1, m)
	}
	if len(segs) == 0 {
		s.subpaths = slices.Delete(s.subpaths, sub, sub+1)
		return nil
	}
	sp.Segments = segs
	return nil
}

// MoveNode moves an on-curve point of subpath sub to pt. The control points
// attached to the node move along with it.
func (s *PathShape) MoveNode(sub, node int, pt Point) error {
	if err := s.checkSubpath(sub); err != nil {
		return err
	}
	sp := &s.subpaths[sub]
	if node < 0 || node >= sp.NodeCount() {
		return fmt.Errorf("node %d of %d: %w", node, sp.NodeCount(), ErrIndexOutOfRange)
	}
	if !pt.IsFinite() {
		return fmt.Errorf("node position %v: %w", pt, ErrDegenerateInput)
	}
	s.invalidate()
	d := pt.Sub(sp.Node(node))
	n := len(sp.Segments)
	moveIn := func(i int) {
		c := &sp.Segments[i]
		c.P2 = c.P2.Translate(d)
		c.P3 = pt
	}
	moveOut := func(i int) {
		c := &sp.Segments[i]
		c.P0 = pt
		c.P1 = c.P1.Translate(d)
	}
	if node < n {
		moveOut(node)
	}
	switch {
	case node > 0:
		moveIn(node - 1)
	case sp.Closed:
		moveIn(n - 1)
	}
	return nil
}

// ApplyTransform transforms every point of s by aff. A transform with
// non-finite coefficients is rejected with ErrDegenerateInput and s is left
// unchanged.
func (s *PathShape) ApplyTransform(aff Affine) error {
	if !aff.IsFinite() {
		return fmt.Errorf("transform %v: %w", aff, ErrDegenerateInput)
	}
	s.invalidate()
	for i := range s.subpaths {
		for j, seg := range s.subpaths[i].Segments {
			s.subpaths[i].Segments[j] = seg.Transform(aff)
		}
	}
	return nil
}

// Flatten approximates every subpath with a polygon, within tolerance of the
// curves. Results are cached per tolerance until s is next mutated. The
// returned polygons are copies.
func (s *PathShape) Flatten(tolerance float64) []Polygon {
	polys := s.flatten(tolerance)
	out := make([]Polygon, len(polys))
	for i, poly := range polys {
		out[i] = poly.clone()
	}
	return out
}

// flatten is like Flatten but returns the cached polygons themselves, which
// must not be modified.
func (s *PathShape) flatten(tolerance float64) []Polygon {
	tolerance = clampTolerance(tolerance)
	if polys, ok := s.flat[tolerance]; ok {
		return polys
	}
	polys := make([]Polygon, len(s.subpaths))
	for i, sp := range s.subpaths {
		polys[i] = sp.Flatten(tolerance)
	}
	if s.flat == nil {
		s.flat = make(map[float64][]Polygon)
	}
	s.flat[tolerance] = polys
	return polys
}

// Flattened returns a new shape whose segments are the straight edges of s
// flattened at tolerance.
func (s *PathShape) Flattened(tolerance float64) *PathShape {
	out := NewPathShape(s.FillRule)
	for _, poly := range s.flatten(tolerance) {
		sub := NewPathShapeFromPolygon(poly, s.FillRule)
		out.subpaths = append(out.subpaths, sub.subpaths...)
	}
	return out
}

// FlattenInPlace replaces the curves of s by straight segments within
// tolerance of them.
func (s *PathShape) FlattenInPlace(tolerance float64) {
	flat := s.Flattened(tolerance)
	s.invalidate()
	s.subpaths = flat.subpaths
}

// Bounds returns the bounding box of all control points. It encloses the
// curves but may be larger than [PathShape.BoundingBox]. An empty shape has
// zero bounds.
func (s *PathShape) Bounds() Rect {
	if len(s.subpaths) == 0 {
		return Rect{}
	}
	bbox := s.subpaths[0].ControlBox()
	for _, sp := range s.subpaths[1:] {
		bbox = bbox.Union(sp.ControlBox())
	}
	return bbox
}

// BoundingBox returns the smallest rectangle enclosing the curves.
func (s *PathShape) BoundingBox() Rect {
	var bbox option[Rect]
	for _, sp := range s.subpaths {
		for _, seg := range sp.Segments {
			r := seg.BoundingBox()
			if bbox.isSet {
				r = bbox.value.Union(r)
			}
			bbox.set(r)
		}
	}
	return bbox.value
}

// Winding returns the winding number of pt, computed on the shape flattened
// at [DefaultFlattenTolerance]. Open subpaths are closed implicitly.
func (s *PathShape) Winding(pt Point) int {
	return windingOf(s.flatten(DefaultFlattenTolerance), pt)
}

// Contains reports whether pt is inside the shape under its fill rule.
func (s *PathShape) Contains(pt Point) bool {
	return s.FillRule.Inside(s.Winding(pt))
}

// Area returns the signed area enclosed by the shape, closing open subpaths
// with a straight line. Counter-clockwise subpaths in a y-up coordinate
// system contribute positive area.
func (s *PathShape) Area() float64 {
	var a float64
	for _, sp := range s.subpaths {
		for _, seg := range sp.Segments {
			a += seg.SignedArea()
		}
		if !sp.Closed {
			a += Line{sp.End(), sp.Start()}.SignedArea()
		}
	}
	return a
}

// IsFinite reports whether all coordinates of s are finite.
func (s *PathShape) IsFinite() bool {
	for _, sp := range s.subpaths {
		for _, seg := range sp.Segments {
			if !seg.IsFinite() {
				return false
			}
		}
	}
	return true
}
