package curve

import "errors"

var (
	// ErrDegenerateInput is returned for input that is empty, non-finite, or
	// has fewer than two distinct points once consecutive duplicates are
	// removed.
	ErrDegenerateInput = errors.New("curve: degenerate input")
	// ErrFitConvergence is returned when curve fitting reaches its subdivision
	// ceiling.
	ErrFitConvergence = errors.New("curve: fit did not converge")
	// ErrDiscontinuousSegment is returned when a segment doesn't start where
	// the previous one ends.
	ErrDiscontinuousSegment = errors.New("curve: discontinuous segment")
	// ErrNotOutlinable is returned when a shape can't be outlined with the
	// given stroke style.
	ErrNotOutlinable = errors.New("curve: shape not outlinable")
	// ErrInvalidFillRuleCombination is reserved for boolean operations over
	// incompatible fill rules. Erasing always produces NonZero output and
	// currently never returns it.
	ErrInvalidFillRuleCombination = errors.New("curve: invalid fill rule combination")
	// ErrInvalidTolerance is returned for negative or NaN tolerances.
	ErrInvalidTolerance = errors.New("curve: invalid tolerance")
	// ErrIndexOutOfRange is returned when a subpath, segment or node index
	// doesn't exist.
	ErrIndexOutOfRange = errors.New("curve: index out of range")
	// ErrUnsupportedCommand is returned by [ParsePathData] for path commands
	// it doesn't understand.
	ErrUnsupportedCommand = errors.New("curve: unsupported path command")
	// ErrPathSyntax is returned by [ParsePathData] for malformed path data.
	ErrPathSyntax = errors.New("curve: path data syntax error")
)
