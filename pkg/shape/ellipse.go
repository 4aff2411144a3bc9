package shape

import (
	"math"

	"github.com/matzehuels/drawgraph/pkg/geom"
)

// Ellipse is an ellipse given by center and radii.
type Ellipse struct {
	base
	CX, CY, RX, RY float64
}

var _ Resizable = (*Ellipse)(nil)

// NewEllipse returns an ellipse centered at (cx, cy).
func NewEllipse(cx, cy, rx, ry float64) *Ellipse {
	e := &Ellipse{base: newBase(TypeEllipse)}
	e.setEllipse(EllipseGeometry{CX: cx, CY: cy, RX: rx, RY: ry})
	return e
}

func (e *Ellipse) local() geom.Bounds {
	return ellipseBounds(e.CX, e.CY, e.RX, e.RY)
}

// HitTest treats an unfilled ellipse as an annulus of half-width tol around
// its outline.
func (e *Ellipse) HitTest(p geom.Point, tol float64) bool {
	p = e.toLocal(p, e.local())
	return hitEllipse(geom.Pt(e.CX, e.CY), e.RX, e.RY, p, tol, e.style.HasFill())
}

func (e *Ellipse) Bounds() geom.Bounds { return e.worldBounds(e.local()).Round() }

func (e *Ellipse) Move(dx, dy float64) {
	e.CX, e.CY = geom.Round3(e.CX+dx), geom.Round3(e.CY+dy)
}

func (e *Ellipse) ApplyTransform(tx, ty, sx, sy float64) {
	e.setEllipse(transformEllipse(e.ellipseGeometry(), tx, ty, sx, sy))
}

func (e *Ellipse) Clone() Shape {
	c := *e
	c.base = e.cloned()
	return &c
}

func (e *Ellipse) Serialize() Record {
	return e.record(map[string]any{"cx": e.CX, "cy": e.CY, "rx": e.RX, "ry": e.RY})
}

func (e *Ellipse) Geometry() Geometry { return e.ellipseGeometry() }

func (e *Ellipse) SetGeometry(g Geometry) error {
	eg, ok := g.(EllipseGeometry)
	if !ok {
		return geometryMismatch(e, g)
	}
	e.setEllipse(eg)
	return nil
}

func (e *Ellipse) ellipseGeometry() EllipseGeometry {
	return EllipseGeometry{CX: e.CX, CY: e.CY, RX: e.RX, RY: e.RY}
}

func (e *Ellipse) setEllipse(g EllipseGeometry) {
	e.CX, e.CY = geom.Round3(g.CX), geom.Round3(g.CY)
	e.RX, e.RY = geom.Round3(g.RX), geom.Round3(g.RY)
}

// =============================================================================
// Ellipse helpers
// =============================================================================

func ellipseBounds(cx, cy, rx, ry float64) geom.Bounds {
	return geom.Bounds{X: cx - rx, Y: cy - ry, Width: 2 * rx, Height: 2 * ry}
}

// hitEllipse tests p against an axis-aligned ellipse. The outline distance is
// approximated by the distance to the boundary point on the ray through p,
// which is exact for circles.
func hitEllipse(c geom.Point, rx, ry float64, p geom.Point, tol float64, filled bool) bool {
	d := p.Sub(c)
	if rx <= 0 || ry <= 0 {
		// Degenerate: a point or a segment along the non-zero axis.
		half := geom.Pt(math.Max(rx, 0), math.Max(ry, 0))
		return geom.DistanceToSegment(p, c.Sub(half), c.Add(half)) <= tol
	}
	if d.X == 0 && d.Y == 0 {
		return filled || math.Min(rx, ry) <= tol
	}
	norm := (d.X*d.X)/(rx*rx) + (d.Y*d.Y)/(ry*ry)
	if filled && norm <= 1 {
		return true
	}
	edge := d.Mul(1 / math.Sqrt(norm))
	return math.Abs(d.Length()-edge.Length()) <= tol
}

func transformEllipse(g EllipseGeometry, tx, ty, sx, sy float64) EllipseGeometry {
	return EllipseGeometry{
		CX: g.CX*sx + tx,
		CY: g.CY*sy + ty,
		RX: g.RX * math.Abs(sx),
		RY: g.RY * math.Abs(sy),
	}
}
