// Package curve is the geometry engine of a vector drawing editor. It turns
// sampled pointer input into smooth Bézier paths, edits them node by node, and
// derives new shapes from them.
//
// # Features
//
// We provide the following notable features:
//
//   - Curve fitting of sampled points (see [FitPoints])
//   - Curve simplification (see [PathShape.Simplify])
//   - Stroke outlining, including dashing (see [Outliner])
//   - Erasing one shape from another (see [Erase])
//   - SVG path data output and input (see [PathData] and [ParsePathData])
//   - Arrowhead markers (see [EmitArrowheads])
//   - Affine transformations (see [Affine])
//   - Rasterization via golang.org/x/image/vector (see [Rasterize])
//
// # Shapes, subpaths, and segments
//
// A [PathShape] is a list of [Subpath] values together with a [FillRule].
// Every segment of a subpath is a [CubicBez]; straight segments are cubics
// whose inner control points coincide with their end points (see
// [NewLineSegment]). Segments are contiguous, and a closed subpath stores its
// closing segment explicitly, so that its last end point is its first start
// point.
//
// A PathShape owns its geometry. Slices passed in are copied and accessors
// return copies, so the only way to change a shape is through its methods.
// Flattened versions of a shape are cached per tolerance and dropped by every
// method that changes the shape.
//
// [PathShape.Elements] views a shape as a sequence of [PathElement] commands
// (move, line, cubic, close), which is how it is serialized and rasterized.
//
// # Coordinate system
//
// Nothing in this package assumes a direction for the y axis. Where
// orientation matters, as in [PathShape.Area] or the loops returned by
// [Erase], "counter-clockwise" refers to a y-up coordinate system, in which
// counter-clockwise loops have positive area.
//
// # Tolerances
//
// Curves are approximated by polylines for hit testing, outlining and
// erasing. Tolerances are distances in the shape's coordinate space and bound
// how far the polyline may deviate from the curve. Operations that accept a
// zero tolerance pick a sensible default, and all of them clamp tiny
// tolerances so that they terminate.
//
// # Errors and logging
//
// Failures are reported as errors wrapping one of the package's sentinel
// errors, such as [ErrDegenerateInput], and can be matched with errors.Is.
// Near-degenerate geometry is handled silently. Diagnostics about such cases
// go to a [log/slog] logger that discards everything until [SetLogger] is
// called.
//
// # Concurrency
//
// All operations run synchronously on the calling goroutine. A PathShape is
// not safe for concurrent use, as even queries may fill its cache. Functions
// that derive new shapes never retain their inputs.
package curve
