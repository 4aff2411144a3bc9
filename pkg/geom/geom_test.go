package geom

import (
	"math"
	"testing"
)

func TestRound3(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{1.23449, 1.234},
		{1.2346, 1.235},
		{-1.2346, -1.235},
		{-0.0001, 0},
		{100, 100},
	}
	for _, tt := range tests {
		if got := Round3(tt.in); got != tt.want {
			t.Errorf("Round3(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if got := Round3(math.Inf(1)); !math.IsInf(got, 1) {
		t.Errorf("Round3(+Inf) = %v, want +Inf", got)
	}
}

func TestNormalizeRotation(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{360, 0},
		{370, 10},
		{-90, 270},
		{-720, 0},
		{725.5, 5.5},
		{359.9999, 0},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := NormalizeRotation(tt.in); got != tt.want {
			t.Errorf("NormalizeRotation(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRotatePoint(t *testing.T) {
	tests := []struct {
		name  string
		p     Point
		pivot Point
		deg   float64
		want  Point
	}{
		{"zero", Pt(10, 0), Pt(0, 0), 0, Pt(10, 0)},
		{"quarter", Pt(10, 0), Pt(0, 0), 90, Pt(0, 10)},
		{"half", Pt(10, 0), Pt(0, 0), 180, Pt(-10, 0)},
		{"about pivot", Pt(20, 10), Pt(10, 10), 90, Pt(10, 20)},
		{"negative", Pt(0, 10), Pt(0, 0), -90, Pt(10, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RotatePoint(tt.p, tt.pivot, tt.deg); got != tt.want {
				t.Errorf("RotatePoint() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRotatePointInverse(t *testing.T) {
	p, pivot := Pt(13.5, -7.25), Pt(3, 4)
	for _, deg := range []float64{17, 45, 133, 271.5} {
		back := RotatePoint(RotatePoint(p, pivot, deg), pivot, -deg)
		if !ApproxEqual(back.X, p.X) || !ApproxEqual(back.Y, p.Y) {
			t.Errorf("deg %v: round trip = %v, want %v", deg, back, p)
		}
	}
}

func TestRotatedBounds(t *testing.T) {
	b := Bounds{X: 0, Y: 0, Width: 40, Height: 20}

	if got := RotatedBounds(b, 0); got != b {
		t.Errorf("RotatedBounds(0) = %v, want %v", got, b)
	}

	got := RotatedBounds(b, 90)
	want := Bounds{X: 10, Y: -10, Width: 20, Height: 40}
	if got != want {
		t.Errorf("RotatedBounds(90) = %v, want %v", got, want)
	}

	got = RotatedBounds(Bounds{X: -5, Y: -5, Width: 10, Height: 10}, 45)
	half := Round3(5 * math.Sqrt2)
	if !ApproxEqual(got.Width, 2*half) || !ApproxEqual(got.X, -half) {
		t.Errorf("RotatedBounds(45) = %v, want width %v", got, 2*half)
	}
}

func TestBounds(t *testing.T) {
	b := Bounds{X: 0, Y: 0, Width: 10, Height: 10}

	if !b.Contains(Pt(10, 10)) {
		t.Error("Contains should include the edge")
	}
	if b.Contains(Pt(10.1, 5)) {
		t.Error("Contains should exclude outside points")
	}
	if got := b.Expand(-6); got.Width != 0 || got.Center() != b.Center() {
		t.Errorf("Expand(-6) = %v, want collapsed at center", got)
	}
	u := b.Union(Bounds{X: 20, Y: -5, Width: 5, Height: 5})
	if u != (Bounds{X: 0, Y: -5, Width: 25, Height: 15}) {
		t.Errorf("Union() = %v", u)
	}
	if got := (Bounds{}).Union(b); got != b {
		t.Errorf("empty Union() = %v, want %v", got, b)
	}
	if got := BoundsOf(); !got.IsEmpty() {
		t.Errorf("BoundsOf() = %v, want empty", got)
	}
}

func TestDistanceToSegment(t *testing.T) {
	tests := []struct {
		name string
		p    Point
		a, b Point
		want float64
	}{
		{"perpendicular", Pt(5, 3), Pt(0, 0), Pt(10, 0), 3},
		{"beyond end", Pt(13, 4), Pt(0, 0), Pt(10, 0), 5},
		{"degenerate", Pt(3, 4), Pt(0, 0), Pt(0, 0), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DistanceToSegment(tt.p, tt.a, tt.b); got != tt.want {
				t.Errorf("DistanceToSegment() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDistanceToPolyline(t *testing.T) {
	square := []Point{Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10)}
	if got := DistanceToPolyline(Pt(-2, 5), square, false); got != math.Hypot(2, 5) {
		t.Errorf("open = %v, want %v", got, math.Hypot(2, 5))
	}
	if got := DistanceToPolyline(Pt(-2, 5), square, true); got != 2 {
		t.Errorf("closed = %v, want 2", got)
	}
	if got := DistanceToPolyline(Pt(5, -1), square[:1], false); got != math.Hypot(5, 1) {
		t.Errorf("single = %v", got)
	}
	if got := DistanceToPolyline(Pt(0, 0), nil, false); !math.IsInf(got, 1) {
		t.Errorf("empty = %v, want +Inf", got)
	}
}

func TestPointInPolygon(t *testing.T) {
	tri := []Point{Pt(0, 0), Pt(10, 0), Pt(0, 10)}
	if !PointInPolygon(Pt(2, 2), tri) {
		t.Error("point should be inside triangle")
	}
	if PointInPolygon(Pt(8, 8), tri) {
		t.Error("point should be outside triangle")
	}
	if PointInPolygon(Pt(0, 0), tri[:2]) {
		t.Error("degenerate polygon should contain nothing")
	}
}

func TestDecompose(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
		want Decomposition
	}{
		{
			name: "identity",
			m:    Identity(),
			want: Decomposition{ScaleX: 1, ScaleY: 1},
		},
		{
			name: "translate scale",
			m:    MatrixFromSVG(2, 0, 0, 3, 10, 20),
			want: Decomposition{TranslateX: 10, TranslateY: 20, ScaleX: 2, ScaleY: 3},
		},
		{
			name: "rotate 90",
			m:    MatrixFromSVG(0, 1, -1, 0, 0, 0),
			want: Decomposition{ScaleX: 1, ScaleY: 1, Rotation: 90},
		},
		{
			name: "mirror",
			m:    MatrixFromSVG(1, 0, 0, -1, 0, 0),
			want: Decomposition{ScaleX: 1, ScaleY: -1},
		},
		{
			name: "skew x 45",
			m:    MatrixFromSVG(1, 0, 1, 1, 0, 0),
			want: Decomposition{ScaleX: 1, ScaleY: 1, SkewX: 45},
		},
		{
			name: "collapsed",
			m:    Matrix{0, 0, 5, 0, 0, 6},
			want: Decomposition{TranslateX: 5, TranslateY: 6},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decompose(tt.m); got != tt.want {
				t.Errorf("Decompose() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMatrixMultiply(t *testing.T) {
	m := MatrixFromSVG(1, 0, 0, 1, 5, 0).Multiply(MatrixFromSVG(2, 0, 0, 2, 0, 0))
	if got := m.TransformPoint(Pt(1, 1)); got != Pt(7, 2) {
		t.Errorf("TransformPoint() = %v, want (7,2)", got)
	}
}

func TestCurves(t *testing.T) {
	q := QuadBez{Pt(0, 0), Pt(5, 10), Pt(10, 0)}
	if got := q.Eval(0.5); got != Pt(5, 5) {
		t.Errorf("QuadBez.Eval(0.5) = %v, want (5,5)", got)
	}
	pts := q.Sample(4)
	if len(pts) != 5 || pts[0] != q.P0 || pts[4] != q.P2 {
		t.Errorf("QuadBez.Sample() = %v", pts)
	}

	c := CubicBez{Pt(0, 0), Pt(0, 10), Pt(10, 10), Pt(10, 0)}
	if got := c.Eval(0.5); got != Pt(5, 7.5) {
		t.Errorf("CubicBez.Eval(0.5) = %v, want (5,7.5)", got)
	}
	if got := len(c.Sample(0)); got != 2 {
		t.Errorf("Sample(0) len = %d, want 2", got)
	}
}

func TestEllipseBoundary(t *testing.T) {
	c := Pt(100, 0)
	if got := EllipseBoundary(c, 20, 20, Pt(-1, 0)); got != Pt(80, 0) {
		t.Errorf("EllipseBoundary() = %v, want (80,0)", got)
	}
	if got := EllipseBoundary(c, 20, 10, Pt(0, 5)); got != Pt(100, 10) {
		t.Errorf("EllipseBoundary() = %v, want (100,10)", got)
	}
	if got := EllipseBoundary(c, 0, 0, Pt(1, 0)); got != c {
		t.Errorf("degenerate EllipseBoundary() = %v, want center", got)
	}
}
