package shape

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/drawgraph/pkg/geom"
	"github.com/matzehuels/drawgraph/pkg/route"
)

// SegmentOp is an absolute path command.
type SegmentOp byte

// Path commands. Parsed relative and shorthand commands are normalised to
// these.
const (
	OpMove  SegmentOp = 'M'
	OpLine  SegmentOp = 'L'
	OpQuad  SegmentOp = 'Q'
	OpCubic SegmentOp = 'C'
	OpClose SegmentOp = 'Z'
)

// Segment is one path command. Move and Line use Pts[0]; Quad uses the
// control point Pts[0] and end Pts[1]; Cubic uses all three.
type Segment struct {
	Op  SegmentOp
	Pts [3]geom.Point
}

// Points returns the points the segment uses.
func (s Segment) Points() []geom.Point { return s.Pts[:s.arity()] }

func (s Segment) arity() int {
	switch s.Op {
	case OpMove, OpLine:
		return 1
	case OpQuad:
		return 2
	case OpCubic:
		return 3
	}
	return 0
}

// Path is a sequence of move, line, curve and close segments.
type Path struct {
	base
	Segments []Segment
	// Samples is the per-curve sample count for hit testing and bounds;
	// zero means route.DefaultSteps.
	Samples int
}

var _ Resizable = (*Path)(nil)

// NewPath returns a path built from segments.
func NewPath(segs ...Segment) *Path {
	p := &Path{base: newBase(TypePath)}
	p.Segments = roundSegments(segs)
	return p
}

// NewPathFromData parses markup path data into a new path.
func NewPathFromData(d string) (*Path, error) {
	segs, err := ParsePathData(d)
	if err != nil {
		return nil, err
	}
	return NewPath(segs...), nil
}

func (p *Path) steps() int {
	if p.Samples > 0 {
		return p.Samples
	}
	return route.DefaultSteps
}

type subpath struct {
	pts    []geom.Point
	closed bool
}

// flatten samples the path into polylines, one per subpath.
func (p *Path) flatten() []subpath {
	var (
		out     []subpath
		cur     subpath
		pen     geom.Point
		started bool
	)
	flush := func() {
		if len(cur.pts) > 0 {
			out = append(out, cur)
		}
		cur = subpath{}
	}
	for _, s := range p.Segments {
		switch s.Op {
		case OpMove:
			flush()
			pen = s.Pts[0]
			cur.pts = []geom.Point{pen}
			started = true
			continue
		case OpClose:
			cur.closed = true
			var start geom.Point
			if len(cur.pts) > 0 {
				start = cur.pts[0]
			}
			flush()
			pen = start
			started = false
			continue
		}
		if !started {
			cur.pts = []geom.Point{pen}
			started = true
		}
		switch s.Op {
		case OpLine:
			cur.pts = append(cur.pts, s.Pts[0])
			pen = s.Pts[0]
		case OpQuad:
			q := geom.QuadBez{P0: pen, P1: s.Pts[0], P2: s.Pts[1]}
			cur.pts = append(cur.pts, q.Sample(p.steps())[1:]...)
			pen = s.Pts[1]
		case OpCubic:
			c := geom.CubicBez{P0: pen, P1: s.Pts[0], P2: s.Pts[1], P3: s.Pts[2]}
			cur.pts = append(cur.pts, c.Sample(p.steps())[1:]...)
			pen = s.Pts[2]
		}
	}
	flush()
	return out
}

func (p *Path) local() geom.Bounds {
	var all []geom.Point
	for _, sp := range p.flatten() {
		all = append(all, sp.pts...)
	}
	return geom.BoundsOf(all...)
}

// HitTest samples curves and tests the resulting polylines. Closed
// subpaths of a filled path also hit on their interior.
func (p *Path) HitTest(pt geom.Point, tol float64) bool {
	pt = p.toLocal(pt, p.local())
	filled := p.style.HasFill()
	for _, sp := range p.flatten() {
		if geom.DistanceToPolyline(pt, sp.pts, sp.closed) <= tol {
			return true
		}
		if filled && geom.PointInPolygon(pt, sp.pts) {
			return true
		}
	}
	return false
}

func (p *Path) Bounds() geom.Bounds { return p.worldBounds(p.local()).Round() }

func (p *Path) Move(dx, dy float64) {
	p.ApplyTransform(dx, dy, 1, 1)
}

func (p *Path) ApplyTransform(tx, ty, sx, sy float64) {
	for i := range p.Segments {
		s := &p.Segments[i]
		for j := 0; j < s.arity(); j++ {
			s.Pts[j] = geom.RoundPoint(geom.Pt(s.Pts[j].X*sx+tx, s.Pts[j].Y*sy+ty))
		}
	}
}

func (p *Path) Clone() Shape {
	c := *p
	c.base = p.cloned()
	c.Segments = append([]Segment(nil), p.Segments...)
	return &c
}

func (p *Path) Serialize() Record {
	return p.record(map[string]any{"d": FormatPathData(p.Segments)})
}

func (p *Path) Geometry() Geometry {
	return PathGeometry{Segments: append([]Segment(nil), p.Segments...)}
}

func (p *Path) SetGeometry(g Geometry) error {
	pg, ok := g.(PathGeometry)
	if !ok {
		return geometryMismatch(p, g)
	}
	p.Segments = roundSegments(pg.Segments)
	return nil
}

func roundSegments(segs []Segment) []Segment {
	out := make([]Segment, len(segs))
	for i, s := range segs {
		out[i] = Segment{Op: s.Op}
		for j := 0; j < s.arity(); j++ {
			out[i].Pts[j] = geom.RoundPoint(s.Pts[j])
		}
	}
	return out
}

// =============================================================================
// Path data
// =============================================================================

// FormatPathData renders segments in markup path-data syntax.
func FormatPathData(segs []Segment) string {
	var b strings.Builder
	for i, s := range segs {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(byte(s.Op))
		for j := 0; j < s.arity(); j++ {
			b.WriteByte(' ')
			b.WriteString(strconv.FormatFloat(s.Pts[j].X, 'f', -1, 64))
			b.WriteByte(' ')
			b.WriteString(strconv.FormatFloat(s.Pts[j].Y, 'f', -1, 64))
		}
	}
	return b.String()
}

// ParsePathData parses the M, L, H, V, Q, C and Z commands of markup path
// data in absolute and relative form. Arcs and smooth curves are not
// supported.
func ParsePathData(d string) ([]Segment, error) {
	toks, err := tokenizePath(d)
	if err != nil {
		return nil, err
	}

	var (
		segs  []Segment
		pen   geom.Point
		start geom.Point
		cmd   byte
		i     int
	)
	next := func() (float64, error) {
		if i >= len(toks) || toks[i].cmd != 0 {
			return 0, fmt.Errorf("path data: command %q is missing a number", cmd)
		}
		v := toks[i].num
		i++
		return v, nil
	}
	point := func(rel bool) (geom.Point, error) {
		x, err := next()
		if err != nil {
			return geom.Point{}, err
		}
		y, err := next()
		if err != nil {
			return geom.Point{}, err
		}
		if rel {
			return geom.Pt(pen.X+x, pen.Y+y), nil
		}
		return geom.Pt(x, y), nil
	}

	for i < len(toks) {
		if toks[i].cmd != 0 {
			cmd = toks[i].cmd
			i++
		} else if cmd == 0 {
			return nil, fmt.Errorf("path data must start with a command")
		}
		rel := cmd >= 'a' && cmd <= 'z'
		upper := cmd &^ 0x20

		switch upper {
		case 'M':
			p, err := point(rel)
			if err != nil {
				return nil, err
			}
			segs = append(segs, Segment{Op: OpMove, Pts: [3]geom.Point{p}})
			pen, start = p, p
			// Further coordinate pairs are implicit line-tos.
			if rel {
				cmd = 'l'
			} else {
				cmd = 'L'
			}
		case 'L':
			p, err := point(rel)
			if err != nil {
				return nil, err
			}
			segs = append(segs, Segment{Op: OpLine, Pts: [3]geom.Point{p}})
			pen = p
		case 'H', 'V':
			v, err := next()
			if err != nil {
				return nil, err
			}
			p := pen
			switch {
			case upper == 'H' && rel:
				p.X += v
			case upper == 'H':
				p.X = v
			case rel:
				p.Y += v
			default:
				p.Y = v
			}
			segs = append(segs, Segment{Op: OpLine, Pts: [3]geom.Point{p}})
			pen = p
		case 'Q':
			c, err := point(rel)
			if err != nil {
				return nil, err
			}
			e, err := point(rel)
			if err != nil {
				return nil, err
			}
			segs = append(segs, Segment{Op: OpQuad, Pts: [3]geom.Point{c, e}})
			pen = e
		case 'C':
			c1, err := point(rel)
			if err != nil {
				return nil, err
			}
			c2, err := point(rel)
			if err != nil {
				return nil, err
			}
			e, err := point(rel)
			if err != nil {
				return nil, err
			}
			segs = append(segs, Segment{Op: OpCubic, Pts: [3]geom.Point{c1, c2, e}})
			pen = e
		case 'Z':
			segs = append(segs, Segment{Op: OpClose})
			pen = start
			// Z takes no numbers; a following number is an error.
			if i < len(toks) && toks[i].cmd == 0 {
				return nil, fmt.Errorf("path data: unexpected number after Z")
			}
		default:
			return nil, fmt.Errorf("path data: unsupported command %q", cmd)
		}
	}
	return roundSegments(segs), nil
}

type pathToken struct {
	cmd byte
	num float64
}

func tokenizePath(d string) ([]pathToken, error) {
	var toks []pathToken
	for i := 0; i < len(d); {
		c := d[i]
		switch {
		case c == ' ' || c == ',' || c == '\t' || c == '\n' || c == '\r':
			i++
		case (c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z') && c != 'e' && c != 'E':
			toks = append(toks, pathToken{cmd: c})
			i++
		default:
			j := scanNumber(d, i)
			if j == i {
				return nil, fmt.Errorf("path data: unexpected %q at offset %d", c, i)
			}
			v, err := strconv.ParseFloat(d[i:j], 64)
			if err != nil {
				return nil, fmt.Errorf("path data: %w", err)
			}
			toks = append(toks, pathToken{num: v})
			i = j
		}
	}
	return toks, nil
}

// scanNumber returns the end of the number starting at i. A second sign or
// decimal point starts a new number, as in "10-5" or "0.5.5".
func scanNumber(d string, i int) int {
	j := i
	if j < len(d) && (d[j] == '+' || d[j] == '-') {
		j++
	}
	digits, dot := false, false
	for ; j < len(d); j++ {
		c := d[j]
		if c >= '0' && c <= '9' {
			digits = true
			continue
		}
		if c == '.' && !dot {
			dot = true
			continue
		}
		break
	}
	if !digits {
		return i
	}
	if j < len(d) && (d[j] == 'e' || d[j] == 'E') {
		k := j + 1
		if k < len(d) && (d[k] == '+' || d[k] == '-') {
			k++
		}
		if k < len(d) && d[k] >= '0' && d[k] <= '9' {
			for k < len(d) && d[k] >= '0' && d[k] <= '9' {
				k++
			}
			j = k
		}
	}
	return j
}
