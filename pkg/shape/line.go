package shape

import "github.com/matzehuels/drawgraph/pkg/geom"

// Line is a straight segment between two points.
type Line struct {
	base
	X1, Y1, X2, Y2 float64
}

var _ Resizable = (*Line)(nil)

// NewLine returns a line from (x1, y1) to (x2, y2).
func NewLine(x1, y1, x2, y2 float64) *Line {
	return &Line{
		base: newBase(TypeLine),
		X1:   geom.Round3(x1), Y1: geom.Round3(y1),
		X2: geom.Round3(x2), Y2: geom.Round3(y2),
	}
}

func (l *Line) start() geom.Point { return geom.Pt(l.X1, l.Y1) }
func (l *Line) end() geom.Point   { return geom.Pt(l.X2, l.Y2) }

func (l *Line) local() geom.Bounds { return geom.BoundsOf(l.start(), l.end()) }

func (l *Line) HitTest(p geom.Point, tol float64) bool {
	p = l.toLocal(p, l.local())
	return geom.DistanceToSegment(p, l.start(), l.end()) <= tol
}

func (l *Line) Bounds() geom.Bounds { return l.worldBounds(l.local()).Round() }

func (l *Line) Move(dx, dy float64) {
	l.X1, l.Y1 = geom.Round3(l.X1+dx), geom.Round3(l.Y1+dy)
	l.X2, l.Y2 = geom.Round3(l.X2+dx), geom.Round3(l.Y2+dy)
}

func (l *Line) ApplyTransform(tx, ty, sx, sy float64) {
	l.X1, l.Y1 = geom.Round3(l.X1*sx+tx), geom.Round3(l.Y1*sy+ty)
	l.X2, l.Y2 = geom.Round3(l.X2*sx+tx), geom.Round3(l.Y2*sy+ty)
}

func (l *Line) Clone() Shape {
	c := *l
	c.base = l.cloned()
	return &c
}

func (l *Line) Serialize() Record {
	return l.record(map[string]any{"x1": l.X1, "y1": l.Y1, "x2": l.X2, "y2": l.Y2})
}

func (l *Line) Geometry() Geometry {
	return LineGeometry{X1: l.X1, Y1: l.Y1, X2: l.X2, Y2: l.Y2}
}

func (l *Line) SetGeometry(g Geometry) error {
	lg, ok := g.(LineGeometry)
	if !ok {
		return geometryMismatch(l, g)
	}
	l.X1, l.Y1 = geom.Round3(lg.X1), geom.Round3(lg.Y1)
	l.X2, l.Y2 = geom.Round3(lg.X2), geom.Round3(lg.Y2)
	return nil
}
