package geom

import "math"

// NormalizeRotation maps any angle in degrees onto [0, 360).
func NormalizeRotation(deg float64) float64 {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return 0
	}
	r := math.Mod(deg, 360)
	if r < 0 {
		r += 360
	}
	r = Round3(r)
	if r >= 360 {
		r = 0
	}
	return r
}

// RotatePoint rotates p about pivot by deg degrees (clockwise on screen, where
// y grows downward). Rotating by -deg maps a world point back into the frame
// of a shape rotated by deg.
func RotatePoint(p, pivot Point, deg float64) Point {
	if deg == 0 {
		return p
	}
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	dx, dy := p.X-pivot.X, p.Y-pivot.Y
	return Point{
		X: Round3(pivot.X + dx*cos - dy*sin),
		Y: Round3(pivot.Y + dx*sin + dy*cos),
	}
}

// RotatedBounds returns the axis-aligned box enclosing b rotated by deg about
// its own center. A zero angle returns b unchanged.
func RotatedBounds(b Bounds, deg float64) Bounds {
	if NormalizeRotation(deg) == 0 {
		return b
	}
	c := b.Center()
	corners := b.Corners()
	pts := make([]Point, 0, len(corners))
	for _, p := range corners {
		pts = append(pts, RotatePoint(p, c, deg))
	}
	return BoundsOf(pts...).Round()
}
