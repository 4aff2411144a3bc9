package shape

import (
	"slices"

	"github.com/matzehuels/drawgraph/pkg/geom"
)

// Polygon is a closed vertex list.
type Polygon struct {
	base
	Points []geom.Point
}

// Polyline is an open vertex list.
type Polyline struct {
	base
	Points []geom.Point
}

var (
	_ Resizable = (*Polygon)(nil)
	_ Resizable = (*Polyline)(nil)
)

// NewPolygon returns a closed polygon through pts.
func NewPolygon(pts ...geom.Point) *Polygon {
	return &Polygon{base: newBase(TypePolygon), Points: roundPoints(pts)}
}

// NewPolyline returns an open polyline through pts.
func NewPolyline(pts ...geom.Point) *Polyline {
	return &Polyline{base: newBase(TypePolyline), Points: roundPoints(pts)}
}

// HitTest accepts points near any edge, or anywhere inside when filled.
func (pg *Polygon) HitTest(p geom.Point, tol float64) bool {
	local := geom.BoundsOf(pg.Points...)
	p = pg.toLocal(p, local)
	if pg.style.HasFill() && geom.PointInPolygon(p, pg.Points) {
		return true
	}
	return geom.DistanceToPolyline(p, pg.Points, true) <= tol
}

func (pg *Polygon) Bounds() geom.Bounds {
	return pg.worldBounds(geom.BoundsOf(pg.Points...)).Round()
}

func (pg *Polygon) Move(dx, dy float64) { pg.Points = movePoints(pg.Points, dx, dy) }

func (pg *Polygon) ApplyTransform(tx, ty, sx, sy float64) {
	pg.Points = transformPoints(pg.Points, tx, ty, sx, sy)
}

func (pg *Polygon) Clone() Shape {
	c := *pg
	c.base = pg.cloned()
	c.Points = slices.Clone(pg.Points)
	return &c
}

func (pg *Polygon) Serialize() Record {
	return pg.record(map[string]any{"points": flattenPoints(pg.Points)})
}

func (pg *Polygon) Geometry() Geometry {
	return PointsGeometry{Points: slices.Clone(pg.Points)}
}

func (pg *Polygon) SetGeometry(g Geometry) error {
	pts, ok := g.(PointsGeometry)
	if !ok {
		return geometryMismatch(pg, g)
	}
	pg.Points = roundPoints(pts.Points)
	return nil
}

func (pl *Polyline) HitTest(p geom.Point, tol float64) bool {
	p = pl.toLocal(p, geom.BoundsOf(pl.Points...))
	return geom.DistanceToPolyline(p, pl.Points, false) <= tol
}

func (pl *Polyline) Bounds() geom.Bounds {
	return pl.worldBounds(geom.BoundsOf(pl.Points...)).Round()
}

func (pl *Polyline) Move(dx, dy float64) { pl.Points = movePoints(pl.Points, dx, dy) }

func (pl *Polyline) ApplyTransform(tx, ty, sx, sy float64) {
	pl.Points = transformPoints(pl.Points, tx, ty, sx, sy)
}

func (pl *Polyline) Clone() Shape {
	c := *pl
	c.base = pl.cloned()
	c.Points = slices.Clone(pl.Points)
	return &c
}

func (pl *Polyline) Serialize() Record {
	return pl.record(map[string]any{"points": flattenPoints(pl.Points)})
}

func (pl *Polyline) Geometry() Geometry {
	return PointsGeometry{Points: slices.Clone(pl.Points)}
}

func (pl *Polyline) SetGeometry(g Geometry) error {
	pts, ok := g.(PointsGeometry)
	if !ok {
		return geometryMismatch(pl, g)
	}
	pl.Points = roundPoints(pts.Points)
	return nil
}

func movePoints(pts []geom.Point, dx, dy float64) []geom.Point {
	out := make([]geom.Point, len(pts))
	for i, p := range pts {
		out[i] = geom.RoundPoint(geom.Pt(p.X+dx, p.Y+dy))
	}
	return out
}

func transformPoints(pts []geom.Point, tx, ty, sx, sy float64) []geom.Point {
	out := make([]geom.Point, len(pts))
	for i, p := range pts {
		out[i] = geom.RoundPoint(geom.Pt(p.X*sx+tx, p.Y*sy+ty))
	}
	return out
}
