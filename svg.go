package curve

import (
	"io"
	"strconv"
	"strings"
)

// SVGOptions controls how [PathData] and [WritePathData] format coordinates.
type SVGOptions struct {
	// The maximum number of digits after the decimal point. A value of 0
	// chooses the shortest representation that parses back to the same
	// coordinate.
	MaxPrecision int
}

// PathData returns the SVG path data ("d" attribute) of a shape.
//
// Every subpath starts with an absolute M. Segments in line form become L,
// all others C, and closed subpaths end with Z after their explicit closing
// segment. Commands are separated by single spaces and coordinate pairs are
// joined by commas. Numbers are written in locale-independent decimal
// notation, without exponents and without negative zero.
//
// The output is stable: equal shapes produce byte-identical path data.
func PathData(s *PathShape, opts SVGOptions) string {
	return string(appendPathData(nil, s, opts))
}

// WritePathData writes the SVG path data of a shape to w. See [PathData] for
// the format.
func WritePathData(w io.Writer, s *PathShape, opts SVGOptions) error {
	_, err := w.Write(appendPathData(nil, s, opts))
	return err
}

func appendPathData(dst []byte, s *PathShape, opts SVGOptions) []byte {
	pt := func(dst []byte, p Point) []byte {
		dst = appendCoord(dst, p.X, opts.MaxPrecision)
		dst = append(dst, ',')
		return appendCoord(dst, p.Y, opts.MaxPrecision)
	}
	for el := range s.Elements() {
		if len(dst) > 0 {
			dst = append(dst, ' ')
		}
		switch el.Kind {
		case MoveToKind:
			dst = pt(append(dst, 'M'), el.P0)
		case LineToKind:
			dst = pt(append(dst, 'L'), el.P0)
		case CubicToKind:
			dst = pt(append(dst, 'C'), el.P0)
			dst = pt(append(dst, ' '), el.P1)
			dst = pt(append(dst, ' '), el.P2)
		case ClosePathKind:
			dst = append(dst, 'Z')
		}
	}
	return dst
}

func appendCoord(dst []byte, n float64, maxPrec int) []byte {
	return append(dst, formatCoord(n, maxPrec)...)
}

func formatCoord(n float64, maxPrec int) string {
	prec := -1
	if maxPrec > 0 {
		prec = maxPrec
	}
	s := strconv.FormatFloat(n, 'f', prec, 64)
	if prec > 0 && strings.IndexByte(s, '.') >= 0 {
		s = strings.TrimSuffix(strings.TrimRight(s, "0"), ".")
	}
	if s == "-0" {
		return "0"
	}
	return s
}
