package graph

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/drawgraph/pkg/event"
	"github.com/matzehuels/drawgraph/pkg/geom"
	"github.com/matzehuels/drawgraph/pkg/shape"
)

// DefaultParallelSpacing is the distance between neighbouring parallel edges.
const DefaultParallelSpacing = 30.0

// ErrUnknownNode is returned when an edge refers to a node that is not
// registered.
var ErrUnknownNode = errors.New("unknown node")

// ErrInconsistent is returned by [Registry.Validate] when the adjacency index
// disagrees with the edge table.
var ErrInconsistent = errors.New("graph registry inconsistent")

// Options configures a [Registry]. The zero value is usable.
type Options struct {
	// ParallelSpacing is the offset step d; zero means DefaultParallelSpacing.
	ParallelSpacing float64
	// Bus receives shape:updated events. It may be nil.
	Bus *event.Bus
	// Logger receives debug output. Nil means log.Default().
	Logger *log.Logger
}

// Registry is the node/edge/adjacency index of one document.
type Registry struct {
	nodes   map[string]*shape.Node
	edges   map[string]*shape.Edge
	adj     map[string]map[string]struct{}
	spacing float64
	bus     *event.Bus
	logger  *log.Logger
}

var _ shape.NodeResolver = (*Registry)(nil)

// New returns an empty registry.
func New(opts Options) *Registry {
	if opts.ParallelSpacing <= 0 {
		opts.ParallelSpacing = DefaultParallelSpacing
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Registry{
		nodes:   make(map[string]*shape.Node),
		edges:   make(map[string]*shape.Edge),
		adj:     make(map[string]map[string]struct{}),
		spacing: opts.ParallelSpacing,
		bus:     opts.Bus,
		logger:  opts.Logger,
	}
}

// ParallelSpacing returns the offset step d.
func (r *Registry) ParallelSpacing() float64 { return r.spacing }

// =============================================================================
// Registration
// =============================================================================

// RegisterNode adds or replaces a node.
func (r *Registry) RegisterNode(n *shape.Node) {
	r.nodes[n.ID()] = n
	if r.adj[n.ID()] == nil {
		r.adj[n.ID()] = make(map[string]struct{})
	}
	r.logger.Debug("registered node", "id", n.ID(), "label", n.Label())
}

// UnregisterNode removes a node. Incident edges are left registered; the
// adjacency entry survives until the last of them is unregistered.
func (r *Registry) UnregisterNode(id string) {
	if _, ok := r.nodes[id]; !ok {
		return
	}
	delete(r.nodes, id)
	if len(r.adj[id]) == 0 {
		delete(r.adj, id)
	}
	r.logger.Debug("unregistered node", "id", id)
}

// RegisterEdge adds or replaces an edge and binds it to this registry for
// node lookups. The endpoints need not be registered yet.
func (r *Registry) RegisterEdge(e *shape.Edge) {
	if old, ok := r.edges[e.ID()]; ok {
		r.unlink(old)
	}
	r.edges[e.ID()] = e
	e.SetResolver(r)
	r.link(e.Source(), e.ID())
	r.link(e.Target(), e.ID())
	r.logger.Debug("registered edge", "id", e.ID(), "source", e.Source(), "target", e.Target())
}

// UnregisterEdge removes an edge and its adjacency entries.
func (r *Registry) UnregisterEdge(id string) {
	e, ok := r.edges[id]
	if !ok {
		return
	}
	delete(r.edges, id)
	r.unlink(e)
	r.logger.Debug("unregistered edge", "id", id)
}

func (r *Registry) link(nodeID, edgeID string) {
	set := r.adj[nodeID]
	if set == nil {
		set = make(map[string]struct{})
		r.adj[nodeID] = set
	}
	set[edgeID] = struct{}{}
}

func (r *Registry) unlink(e *shape.Edge) {
	for _, nodeID := range []string{e.Source(), e.Target()} {
		set := r.adj[nodeID]
		delete(set, e.ID())
		if len(set) == 0 {
			if _, live := r.nodes[nodeID]; !live {
				delete(r.adj, nodeID)
			}
		}
	}
}

// Clear empties every table.
func (r *Registry) Clear() {
	clear(r.nodes)
	clear(r.edges)
	clear(r.adj)
}

// =============================================================================
// Queries
// =============================================================================

// Node returns a registered node.
func (r *Registry) Node(id string) (*shape.Node, bool) {
	n, ok := r.nodes[id]
	return n, ok
}

// Edge returns a registered edge.
func (r *Registry) Edge(id string) (*shape.Edge, bool) {
	e, ok := r.edges[id]
	return e, ok
}

// Endpoints returns the (source, target) pair of an edge.
func (r *Registry) Endpoints(edgeID string) (source, target string, ok bool) {
	e, ok := r.edges[edgeID]
	if !ok {
		return "", "", false
	}
	return e.Source(), e.Target(), true
}

// NodeIDs returns the registered node ids in sorted order.
func (r *Registry) NodeIDs() []string {
	return slices.Sorted(maps.Keys(r.nodes))
}

// EdgeIDs returns the registered edge ids in sorted order.
func (r *Registry) EdgeIDs() []string {
	return slices.Sorted(maps.Keys(r.edges))
}

// EdgeIDsForNode returns the ids of edges incident to a node, sorted.
// A self-loop appears once.
func (r *Registry) EdgeIDsForNode(nodeID string) []string {
	return slices.Sorted(maps.Keys(r.adj[nodeID]))
}

// UpdateEdgesForNode announces that every edge incident to nodeID must be
// re-routed and returns their ids. Paths are derived, so nothing is
// recomputed here.
func (r *Registry) UpdateEdgesForNode(nodeID string) []string {
	ids := r.EdgeIDsForNode(nodeID)
	for _, id := range ids {
		r.bus.Publish(event.ShapeUpdated, event.ShapeChange{ID: id, Type: string(shape.TypeEdge)})
	}
	return ids
}

// =============================================================================
// Placement policies
// =============================================================================

// CalculateParallelOffset returns the curve offset a new source→target edge
// should use: the first of 0, +d, −d, +2d, −2d, ... not already taken by an
// edge between the same two nodes. The result is expressed in the new edge's
// own source→target frame.
func (r *Registry) CalculateParallelOffset(source, target string) float64 {
	if source == target {
		return 0
	}
	var used []float64
	for id := range r.adj[source] {
		e := r.edges[id]
		if e.IsSelfLoop() {
			continue
		}
		if (e.Source() == source && e.Target() == target) || (e.Source() == target && e.Target() == source) {
			used = append(used, canonicalSign(e.Source(), e.Target())*e.CurveOffset())
		}
	}

	sign := canonicalSign(source, target)
	for k := 0; ; k++ {
		off := float64((k+1)/2) * r.spacing
		if k%2 == 0 {
			off = -off
		}
		if !containsApprox(used, off) {
			return geom.Round3(sign * off)
		}
	}
}

// canonicalSign maps an offset into the frame where the smaller id is the
// source. The perpendicular flips with the direction, so the sign does too.
func canonicalSign(source, target string) float64 {
	if source <= target {
		return 1
	}
	return -1
}

// maxLoopLevel bounds the bisection depth of self-loop angles; beyond it
// angles repeat from the top.
const maxLoopLevel = 6

var baseLoopAngles = []float64{270, 0, 90, 180}

// NextSelfLoopAngle returns the first unused self-loop angle on a node.
func (r *Registry) NextSelfLoopAngle(nodeID string) float64 {
	var used []float64
	for id := range r.adj[nodeID] {
		if e := r.edges[id]; e.IsSelfLoop() && e.Source() == nodeID {
			used = append(used, e.SelfLoopAngle())
		}
	}
	for level := 0; level <= maxLoopLevel; level++ {
		for _, a := range loopAngles(level) {
			if !containsApprox(used, a) {
				return a
			}
		}
	}
	return baseLoopAngles[0]
}

// loopAngles returns the angles first introduced at a bisection level: the
// quadrant angles at level 0, then odd multiples of 90/2^level added to each.
func loopAngles(level int) []float64 {
	if level == 0 {
		return baseLoopAngles
	}
	steps := 1 << level
	step := 90 / float64(steps)
	var out []float64
	for _, b := range baseLoopAngles {
		for j := 1; j < steps; j += 2 {
			out = append(out, geom.NormalizeRotation(b+float64(j)*step))
		}
	}
	return out
}

func containsApprox(vals []float64, v float64) bool {
	return slices.ContainsFunc(vals, func(u float64) bool { return math.Abs(u-v) < 1e-6 })
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks that the adjacency index matches the edge table and that
// every edge refers to registered nodes.
func (r *Registry) Validate() error {
	var errs []error
	for _, id := range r.EdgeIDs() {
		e := r.edges[id]
		for _, end := range []string{e.Source(), e.Target()} {
			if _, ok := r.nodes[end]; !ok {
				errs = append(errs, fmt.Errorf("edge %s: %w %s", id, ErrUnknownNode, end))
			}
			if _, ok := r.adj[end][id]; !ok {
				errs = append(errs, fmt.Errorf("%w: edge %s missing from adjacency of %s", ErrInconsistent, id, end))
			}
		}
	}
	for _, nodeID := range slices.Sorted(maps.Keys(r.adj)) {
		for _, edgeID := range r.EdgeIDsForNode(nodeID) {
			e, ok := r.edges[edgeID]
			if !ok || !e.Connects(nodeID) {
				errs = append(errs, fmt.Errorf("%w: stale edge %s in adjacency of %s", ErrInconsistent, edgeID, nodeID))
			}
		}
	}
	return errors.Join(errs...)
}
