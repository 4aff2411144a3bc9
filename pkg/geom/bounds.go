package geom

import "math"

// Bounds is an axis-aligned box given by its top-left corner and size.
// Width and Height are never negative for boxes produced by this package.
type Bounds struct {
	X, Y          float64
	Width, Height float64
}

// BoundsOf returns the smallest box containing all points.
// No points yields the zero Bounds.
func BoundsOf(pts ...Point) Bounds {
	if len(pts) == 0 {
		return Bounds{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Bounds{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// MinX returns the left edge.
func (b Bounds) MinX() float64 { return b.X }

// MinY returns the top edge.
func (b Bounds) MinY() float64 { return b.Y }

// MaxX returns the right edge.
func (b Bounds) MaxX() float64 { return b.X + b.Width }

// MaxY returns the bottom edge.
func (b Bounds) MaxY() float64 { return b.Y + b.Height }

// Center returns the center of the box.
func (b Bounds) Center() Point {
	return Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// Corners returns the four corners clockwise from top-left.
func (b Bounds) Corners() [4]Point {
	return [4]Point{
		{b.X, b.Y},
		{b.MaxX(), b.Y},
		{b.MaxX(), b.MaxY()},
		{b.X, b.MaxY()},
	}
}

// IsEmpty reports whether the box has no area and sits at the origin.
func (b Bounds) IsEmpty() bool {
	return b == Bounds{}
}

// Contains reports whether p lies inside or on the box.
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.X && p.X <= b.MaxX() && p.Y >= b.Y && p.Y <= b.MaxY()
}

// Expand grows the box by d on every side. A negative d shrinks it; the result
// collapses to its center when it would turn inside out.
func (b Bounds) Expand(d float64) Bounds {
	w, h := b.Width+2*d, b.Height+2*d
	x, y := b.X-d, b.Y-d
	if w < 0 {
		x, w = b.X+b.Width/2, 0
	}
	if h < 0 {
		y, h = b.Y+b.Height/2, 0
	}
	return Bounds{X: x, Y: y, Width: w, Height: h}
}

// Union returns the smallest box containing both boxes.
// Empty boxes are ignored.
func (b Bounds) Union(o Bounds) Bounds {
	if b.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return b
	}
	minX := math.Min(b.X, o.X)
	minY := math.Min(b.Y, o.Y)
	maxX := math.Max(b.MaxX(), o.MaxX())
	maxY := math.Max(b.MaxY(), o.MaxY())
	return Bounds{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Round returns the box with every field rounded by [Round3].
func (b Bounds) Round() Bounds {
	return Bounds{X: Round3(b.X), Y: Round3(b.Y), Width: Round3(b.Width), Height: Round3(b.Height)}
}
