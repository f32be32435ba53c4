package curve

import (
	"image"
	"image/draw"

	"golang.org/x/image/vector"
)

// AddToRasterizer adds the shape's outline, transformed by aff, to z.
//
// Open subpaths are closed with a straight line. The rasterizer accumulates
// signed coverage, so overlapping subpaths of the same orientation fill like
// NonZero and opposite orientations cancel. An EvenOdd shape whose subpaths
// overlap with the same orientation renders as if it were NonZero.
func (s *PathShape) AddToRasterizer(z *vector.Rasterizer, aff Affine) {
	for el := range s.Elements() {
		el = el.Transform(aff)
		switch el.Kind {
		case MoveToKind:
			// vector doesn't close open subpaths on its own.
			z.ClosePath()
			z.MoveTo(float32(el.P0.X), float32(el.P0.Y))
		case LineToKind:
			z.LineTo(float32(el.P0.X), float32(el.P0.Y))
		case CubicToKind:
			z.CubeTo(
				float32(el.P0.X), float32(el.P0.Y),
				float32(el.P1.X), float32(el.P1.Y),
				float32(el.P2.X), float32(el.P2.Y),
			)
		case ClosePathKind:
			z.ClosePath()
		}
	}
	z.ClosePath()
}

// Rasterize renders the coverage of shape, transformed by aff, into a new
// width×height alpha mask.
func Rasterize(shape *PathShape, width, height int, aff Affine) *image.Alpha {
	z := vector.NewRasterizer(width, height)
	z.DrawOp = draw.Src
	shape.AddToRasterizer(z, aff)
	dst := image.NewAlpha(image.Rect(0, 0, width, height))
	z.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})
	return dst
}
