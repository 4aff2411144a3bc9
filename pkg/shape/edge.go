package shape

import (
	"github.com/matzehuels/drawgraph/pkg/geom"
	"github.com/matzehuels/drawgraph/pkg/route"
)

// Direction is the arrowhead placement of an edge.
type Direction string

// Edge directions.
const (
	DirectionNone     Direction = "none"
	DirectionForward  Direction = "forward"
	DirectionBackward Direction = "backward"
)

// NodeResolver looks up live nodes by id. The graph registry implements it.
type NodeResolver interface {
	Node(id string) (*Node, bool)
}

// Edge connects two nodes by id. It stores no coordinates: its path is
// recomputed from the nodes on every query, so it is never stale.
type Edge struct {
	base
	source, target string
	direction      Direction
	curveOffset    float64
	selfLoop       bool
	selfLoopAngle  float64
	resolver       NodeResolver
	loop           route.Options
}

// NewEdge returns an edge between source and target resolved through r.
// An edge whose endpoints match is a self-loop.
func NewEdge(source, target string, r NodeResolver) *Edge {
	return &Edge{
		base:      newBase(TypeEdge),
		source:    source,
		target:    target,
		direction: DirectionForward,
		selfLoop:  source == target,
		resolver:  r,
		loop:      defaultLoopOptions(),
	}
}

func defaultLoopOptions() route.Options { return route.DefaultOptions() }

// Source returns the source node id.
func (e *Edge) Source() string { return e.source }

// Target returns the target node id.
func (e *Edge) Target() string { return e.target }

// Connects reports whether the edge touches the node.
func (e *Edge) Connects(nodeID string) bool { return e.source == nodeID || e.target == nodeID }

func (e *Edge) Direction() Direction     { return e.direction }
func (e *Edge) SetDirection(d Direction) { e.direction = d }

// CurveOffset returns the signed perpendicular offset of a parallel edge.
func (e *Edge) CurveOffset() float64 { return e.curveOffset }

func (e *Edge) SetCurveOffset(off float64) { e.curveOffset = geom.Round3(off) }

func (e *Edge) IsSelfLoop() bool { return e.selfLoop }

// SelfLoopAngle returns the angle in degrees the loop is centered on.
func (e *Edge) SelfLoopAngle() float64 { return e.selfLoopAngle }

func (e *Edge) SetSelfLoopAngle(deg float64) { e.selfLoopAngle = geom.NormalizeRotation(deg) }

// SetResolver binds the edge to a node lookup.
func (e *Edge) SetResolver(r NodeResolver) { e.resolver = r }

// SetLoopOptions replaces the self-loop spread and bow.
func (e *Edge) SetLoopOptions(o route.Options) { e.loop = o }

// Path computes the current path. It is empty when either node cannot be
// resolved.
func (e *Edge) Path() route.Path {
	if e.resolver == nil {
		return route.Path{}
	}
	src, ok := e.resolver.Node(e.source)
	if !ok {
		return route.Path{}
	}
	if e.selfLoop {
		return route.SelfLoop(src.Endpoint(), e.selfLoopAngle, e.loop)
	}
	dst, ok := e.resolver.Node(e.target)
	if !ok {
		return route.Path{}
	}
	return route.Compute(src.Endpoint(), dst.Endpoint(), e.curveOffset)
}

// SetRotation accepts only zero.
func (e *Edge) SetRotation(deg float64) error {
	if geom.NormalizeRotation(deg) != 0 {
		return ErrEdgeRotation
	}
	return nil
}

func (e *Edge) HitTest(p geom.Point, tol float64) bool {
	return e.Path().HitTest(p, tol, route.DefaultSteps)
}

func (e *Edge) Bounds() geom.Bounds {
	return e.Path().Bounds(route.DefaultSteps)
}

// Move is a no-op: edges follow their nodes.
func (e *Edge) Move(dx, dy float64) {}

// ApplyTransform is a no-op: edges follow their nodes.
func (e *Edge) ApplyTransform(tx, ty, sx, sy float64) {}

func (e *Edge) Clone() Shape {
	c := *e
	c.base = e.cloned()
	return &c
}

func (e *Edge) Serialize() Record {
	return e.record(map[string]any{
		"source":        e.source,
		"target":        e.target,
		"direction":     string(e.direction),
		"curveOffset":   e.curveOffset,
		"isSelfLoop":    e.selfLoop,
		"selfLoopAngle": e.selfLoopAngle,
	})
}
