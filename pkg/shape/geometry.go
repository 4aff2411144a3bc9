package shape

import (
	"slices"

	errs "github.com/matzehuels/drawgraph/pkg/errors"
	"github.com/matzehuels/drawgraph/pkg/geom"
)

// Geometry is a snapshot of the minimal field set that defines a variant's
// size and position. Resize commands store a before and an after snapshot
// instead of deltas so repeated resizes never compound rounding error.
type Geometry interface {
	geometry()
}

// LineGeometry holds a line's end points.
type LineGeometry struct{ X1, Y1, X2, Y2 float64 }

// BoxGeometry holds the anchor and size of rectangles and images.
type BoxGeometry struct{ X, Y, Width, Height float64 }

// EllipseGeometry holds the center and radii of ellipses and nodes.
type EllipseGeometry struct{ CX, CY, RX, RY float64 }

// TextGeometry holds a text block's anchor and font size.
type TextGeometry struct{ X, Y, FontSize float64 }

// PointsGeometry holds the vertex list of polygons and polylines.
type PointsGeometry struct{ Points []geom.Point }

// PathGeometry holds the segments of a path.
type PathGeometry struct{ Segments []Segment }

func (LineGeometry) geometry()    {}
func (BoxGeometry) geometry()     {}
func (EllipseGeometry) geometry() {}
func (TextGeometry) geometry()    {}
func (PointsGeometry) geometry()  {}
func (PathGeometry) geometry()    {}

// Resizable is implemented by every variant whose geometry can be snapshotted
// and restored. Edges and groups are not resizable.
type Resizable interface {
	Shape
	Geometry() Geometry
	SetGeometry(g Geometry) error
}

// EqualGeometry reports whether two snapshots describe the same geometry.
func EqualGeometry(a, b Geometry) bool {
	switch ga := a.(type) {
	case PointsGeometry:
		gb, ok := b.(PointsGeometry)
		return ok && slices.Equal(ga.Points, gb.Points)
	case PathGeometry:
		gb, ok := b.(PathGeometry)
		return ok && slices.EqualFunc(ga.Segments, gb.Segments, func(x, y Segment) bool { return x == y })
	default:
		return a == b
	}
}

func geometryMismatch(s Shape, g Geometry) error {
	return errs.New(errs.ErrCodeInvalidShape, "%s %s: geometry %T does not apply", s.Type(), s.ID(), g)
}

func roundPoints(pts []geom.Point) []geom.Point {
	out := make([]geom.Point, len(pts))
	for i, p := range pts {
		out[i] = geom.RoundPoint(p)
	}
	return out
}
