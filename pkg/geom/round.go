package geom

import "math"

// Precision is the number of decimal places kept for stored coordinates.
const Precision = 3

const precisionScale = 1000

// Round3 rounds x to three decimal places, half away from zero.
// NaN and infinities pass through unchanged.
func Round3(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	r := math.Round(x*precisionScale) / precisionScale
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}

// RoundPoint rounds both coordinates of p.
func RoundPoint(p Point) Point {
	return Point{X: Round3(p.X), Y: Round3(p.Y)}
}

// ApproxEqual reports whether a and b agree within the stored precision.
func ApproxEqual(a, b float64) bool {
	return math.Abs(a-b) <= 0.5/precisionScale+1e-9
}
