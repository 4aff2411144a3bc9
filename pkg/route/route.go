// Package route computes the derived geometry of graph edges.
//
// Edges store no coordinates. Their path is recomputed from the live state of
// the nodes they connect, and the same [Path] value feeds both the render
// hook ([Path.SVG]) and hit testing ([Path.HitTest]) so the two can never
// disagree about where an edge is.
//
// Three shapes of path exist:
//
//   - Straight: a single edge between a pair of nodes, clipped to the node
//     boundaries facing each other.
//   - Quad: a parallel edge bowed by a signed perpendicular offset. The
//     control point sits at the midpoint displaced along the perpendicular of
//     the source→target direction and the end points are re-aimed at it.
//   - Cubic: a self-loop leaving and returning around an assigned angle.
package route

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/drawgraph/pkg/geom"
)

// DefaultSteps is the sample count used for curved paths in hit testing and
// bounds computation.
const DefaultSteps = 20

// Kind identifies the curve type of a path.
type Kind int

const (
	// None is the empty path of an edge whose endpoints cannot be resolved.
	None Kind = iota
	// Straight is a line segment.
	Straight
	// Quad is a quadratic Bézier using Control1.
	Quad
	// Cubic is a cubic Bézier using Control1 and Control2.
	Cubic
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Straight:
		return "straight"
	case Quad:
		return "quad"
	case Cubic:
		return "cubic"
	default:
		return "none"
	}
}

// Endpoint is the routing view of a node: an ellipse that may be rotated
// about its center.
type Endpoint struct {
	Center   geom.Point
	RX, RY   float64
	Rotation float64
}

// Options tunes self-loop placement.
type Options struct {
	// Spread is the half-width in degrees of the window the loop departs and
	// returns within around its assigned angle.
	Spread float64
	// Bow scales the node's larger radius to get the loop's outward reach.
	Bow float64
}

// DefaultOptions returns the standard self-loop parameters (±30°, 1.5×).
func DefaultOptions() Options {
	return Options{Spread: 30, Bow: 1.5}
}

// Path is a computed edge path. All coordinates are rounded to the geometry
// kernel's precision.
type Path struct {
	Kind     Kind
	Start    geom.Point
	Control1 geom.Point
	Control2 geom.Point
	End      geom.Point
}

// Empty reports whether the path has no geometry.
func (p Path) Empty() bool { return p.Kind == None }

// Compute routes an edge between two distinct nodes. A zero offset yields a
// straight segment; any other offset yields a quadratic bowed to that side of
// the source→target direction.
func Compute(src, dst Endpoint, offset float64) Path {
	if offset == 0 {
		return Path{
			Kind:  Straight,
			Start: boundary(src, dst.Center),
			End:   boundary(dst, src.Center),
		}
	}

	dir := dst.Center.Sub(src.Center)
	if dir.Length() == 0 {
		dir = geom.Pt(1, 0)
	}
	normal := dir.Normalize().Perp()
	ctrl := geom.RoundPoint(src.Center.Midpoint(dst.Center).Add(normal.Mul(offset)))

	return Path{
		Kind:     Quad,
		Start:    boundary(src, ctrl),
		Control1: ctrl,
		End:      boundary(dst, ctrl),
	}
}

// SelfLoop routes a loop on a single node at the given angle in degrees
// (0 = right, 90 = down in screen space).
func SelfLoop(n Endpoint, angle float64, opts Options) Path {
	reach := math.Max(n.RX, n.RY) * opts.Bow
	out, back := angle-opts.Spread, angle+opts.Spread

	start := boundary(n, n.Center.Add(geom.Polar(out)))
	end := boundary(n, n.Center.Add(geom.Polar(back)))

	return Path{
		Kind:     Cubic,
		Start:    start,
		Control1: geom.RoundPoint(start.Add(geom.Polar(out).Mul(reach))),
		Control2: geom.RoundPoint(end.Add(geom.Polar(back).Mul(reach))),
		End:      end,
	}
}

// boundary returns where the ray from the endpoint's center toward target
// crosses its ellipse, honouring the endpoint's rotation.
func boundary(e Endpoint, target geom.Point) geom.Point {
	dir := target.Sub(e.Center)
	if e.Rotation == 0 {
		return geom.EllipseBoundary(e.Center, e.RX, e.RY, dir)
	}
	origin := geom.Point{}
	local := geom.RotatePoint(dir, origin, -e.Rotation)
	hit := geom.EllipseBoundary(origin, e.RX, e.RY, local)
	return geom.RoundPoint(e.Center.Add(geom.RotatePoint(hit, origin, e.Rotation)))
}

// Points samples the path. Straight paths return their two end points, curves
// return steps+1 samples, empty paths return nil.
func (p Path) Points(steps int) []geom.Point {
	switch p.Kind {
	case Straight:
		return []geom.Point{p.Start, p.End}
	case Quad:
		return geom.QuadBez{P0: p.Start, P1: p.Control1, P2: p.End}.Sample(steps)
	case Cubic:
		return geom.CubicBez{P0: p.Start, P1: p.Control1, P2: p.Control2, P3: p.End}.Sample(steps)
	default:
		return nil
	}
}

// HitTest reports whether pt lies within tol of the sampled path.
func (p Path) HitTest(pt geom.Point, tol float64, steps int) bool {
	pts := p.Points(steps)
	if len(pts) == 0 {
		return false
	}
	return geom.DistanceToPolyline(pt, pts, false) <= tol
}

// Bounds returns the box around the sampled path.
func (p Path) Bounds(steps int) geom.Bounds {
	return geom.BoundsOf(p.Points(steps)...).Round()
}

// SVG returns the path in markup path-data syntax. Empty paths yield "".
func (p Path) SVG() string {
	var b strings.Builder
	switch p.Kind {
	case Straight:
		b.WriteString("M ")
		writePoints(&b, p.Start)
		b.WriteString(" L ")
		writePoints(&b, p.End)
	case Quad:
		b.WriteString("M ")
		writePoints(&b, p.Start)
		b.WriteString(" Q ")
		writePoints(&b, p.Control1, p.End)
	case Cubic:
		b.WriteString("M ")
		writePoints(&b, p.Start)
		b.WriteString(" C ")
		writePoints(&b, p.Control1, p.Control2, p.End)
	}
	return b.String()
}

func writePoints(b *strings.Builder, pts ...geom.Point) {
	for i, pt := range pts {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.FormatFloat(pt.X, 'f', -1, 64))
		b.WriteByte(' ')
		b.WriteString(strconv.FormatFloat(pt.Y, 'f', -1, 64))
	}
}
