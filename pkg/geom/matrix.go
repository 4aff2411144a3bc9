package geom

import (
	"math"

	"golang.org/x/image/math/f64"
)

// Matrix is a 2x3 affine matrix in row-major order:
//
//	| m[0] m[1] m[2] |
//	| m[3] m[4] m[5] |
//
// representing x' = m[0]*x + m[1]*y + m[2] and y' = m[3]*x + m[4]*y + m[5].
type Matrix f64.Aff3

// Identity returns the identity transformation matrix.
func Identity() Matrix {
	return Matrix{1, 0, 0, 0, 1, 0}
}

// MatrixFromSVG builds a Matrix from the markup convention matrix(a b c d e f),
// where x' = a*x + c*y + e and y' = b*x + d*y + f.
func MatrixFromSVG(a, b, c, d, e, f float64) Matrix {
	return Matrix{a, c, e, b, d, f}
}

// Multiply returns m * n (n is applied first).
func (m Matrix) Multiply(n Matrix) Matrix {
	return Matrix{
		m[0]*n[0] + m[1]*n[3],
		m[0]*n[1] + m[1]*n[4],
		m[0]*n[2] + m[1]*n[5] + m[2],
		m[3]*n[0] + m[4]*n[3],
		m[3]*n[1] + m[4]*n[4],
		m[3]*n[2] + m[4]*n[5] + m[5],
	}
}

// TransformPoint applies the matrix to p.
func (m Matrix) TransformPoint(p Point) Point {
	return Point{
		X: m[0]*p.X + m[1]*p.Y + m[2],
		Y: m[3]*p.X + m[4]*p.Y + m[5],
	}
}

// Decomposition is an approximate split of an affine matrix into the
// parameters shapes understand. Angles are in degrees.
type Decomposition struct {
	TranslateX, TranslateY float64
	ScaleX, ScaleY         float64
	Rotation               float64
	SkewX, SkewY           float64
}

// HasSkew reports whether the decomposition carries a skew component that
// shapes without skew support will drop.
func (d Decomposition) HasSkew() bool {
	return math.Abs(d.SkewX) > 1e-6 || math.Abs(d.SkewY) > 1e-6
}

// Decompose extracts translate, scale, rotation and skew from m using
// M = T * R(rotation) * SkewX * S. Reflections are carried by a negative
// ScaleY. A matrix whose first column vanishes is decomposed from its second
// column and reports its shear as SkewY.
func Decompose(m Matrix) Decomposition {
	a, b, c, d := m[0], m[3], m[1], m[4]
	out := Decomposition{TranslateX: Round3(m[2]), TranslateY: Round3(m[5])}

	det := a*d - b*c
	sx := math.Hypot(a, b)
	if sx != 0 {
		out.ScaleX = Round3(sx)
		out.ScaleY = Round3(det / sx)
		out.Rotation = NormalizeRotation(math.Atan2(b, a) * 180 / math.Pi)
		if det != 0 {
			out.SkewX = Round3(math.Atan((a*c+b*d)/det) * 180 / math.Pi)
		}
		return out
	}

	sy := math.Hypot(c, d)
	if sy == 0 {
		return out
	}
	out.ScaleY = Round3(sy)
	out.Rotation = NormalizeRotation(math.Atan2(-c, d) * 180 / math.Pi)
	out.SkewY = 90 // first column collapsed onto the second
	return out
}
