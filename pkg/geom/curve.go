package geom

import "math"

// QuadBez is a quadratic Bézier curve.
type QuadBez struct {
	P0, P1, P2 Point
}

// Eval returns the point at parameter t in [0, 1].
func (q QuadBez) Eval(t float64) Point {
	mt := 1 - t
	return Point{
		X: mt*mt*q.P0.X + 2*mt*t*q.P1.X + t*t*q.P2.X,
		Y: mt*mt*q.P0.Y + 2*mt*t*q.P1.Y + t*t*q.P2.Y,
	}
}

// Sample evaluates the curve at steps+1 evenly spaced parameters,
// including both end points.
func (q QuadBez) Sample(steps int) []Point {
	return sample(steps, q.Eval)
}

// CubicBez is a cubic Bézier curve.
type CubicBez struct {
	P0, P1, P2, P3 Point
}

// Eval returns the point at parameter t in [0, 1].
func (c CubicBez) Eval(t float64) Point {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	d := 3 * mt * t * t
	e := t * t * t
	return Point{
		X: a*c.P0.X + b*c.P1.X + d*c.P2.X + e*c.P3.X,
		Y: a*c.P0.Y + b*c.P1.Y + d*c.P2.Y + e*c.P3.Y,
	}
}

// Sample evaluates the curve at steps+1 evenly spaced parameters,
// including both end points.
func (c CubicBez) Sample(steps int) []Point {
	return sample(steps, c.Eval)
}

func sample(steps int, eval func(float64) Point) []Point {
	steps = max(steps, 1)
	pts := make([]Point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		pts = append(pts, eval(float64(i)/float64(steps)))
	}
	return pts
}

// EllipseBoundary returns the point where the ray from center in direction
// dir leaves the axis-aligned ellipse with radii rx, ry. A zero direction or a
// degenerate ellipse returns center. The result is rounded by [Round3].
func EllipseBoundary(center Point, rx, ry float64, dir Point) Point {
	if dir.X == 0 && dir.Y == 0 {
		return center
	}
	if rx <= 0 || ry <= 0 {
		return center
	}
	t := 1 / math.Sqrt((dir.X*dir.X)/(rx*rx)+(dir.Y*dir.Y)/(ry*ry))
	return RoundPoint(center.Add(dir.Mul(t)))
}
