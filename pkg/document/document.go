package document

import (
	"slices"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/drawgraph/pkg/errors"
	"github.com/matzehuels/drawgraph/pkg/event"
	"github.com/matzehuels/drawgraph/pkg/geom"
	"github.com/matzehuels/drawgraph/pkg/graph"
	"github.com/matzehuels/drawgraph/pkg/shape"
)

// Options configures a [Document]. The zero value is usable.
type Options struct {
	// Registry indexes graph shapes. Nil creates a fresh one sharing Bus.
	Registry *graph.Registry
	// Bus receives shape events. It may be nil.
	Bus *event.Bus
	// Logger receives debug output. Nil means log.Default().
	Logger *log.Logger
}

// Document is an ordered list of top-level shapes. It is not safe for
// concurrent use.
type Document struct {
	shapes   []shape.Shape
	registry *graph.Registry
	bus      *event.Bus
	logger   *log.Logger
}

// New returns an empty document.
func New(opts Options) *Document {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Registry == nil {
		opts.Registry = graph.New(graph.Options{Bus: opts.Bus, Logger: opts.Logger})
	}
	return &Document{registry: opts.Registry, bus: opts.Bus, logger: opts.Logger}
}

// Registry returns the graph registry.
func (d *Document) Registry() *graph.Registry { return d.registry }

// Bus returns the event bus, which may be nil.
func (d *Document) Bus() *event.Bus { return d.bus }

// Len returns the number of top-level shapes.
func (d *Document) Len() int { return len(d.shapes) }

// =============================================================================
// Mutation
// =============================================================================

// Insert places s at index, clamped to [0, Len()]. Graph shapes are
// registered.
func (d *Document) Insert(index int, s shape.Shape) error {
	if d.IndexOf(s.ID()) >= 0 {
		return errs.New(errs.ErrCodeInvalidInput, "shape %s is already in the document", s.ID())
	}
	index = max(0, min(index, len(d.shapes)))
	d.shapes = slices.Insert(d.shapes, index, s)
	d.register(s)
	d.logger.Debug("inserted shape", "id", s.ID(), "type", s.Type(), "index", index)
	d.publish(event.ShapeAdded, s)
	return nil
}

// Append places s on top.
func (d *Document) Append(s shape.Shape) error {
	return d.Insert(len(d.shapes), s)
}

// Remove takes a shape out of the document and returns it with the index
// it occupied. Graph shapes are unregistered; a node's edges are not.
func (d *Document) Remove(id string) (shape.Shape, int, bool) {
	i := d.IndexOf(id)
	if i < 0 {
		return nil, -1, false
	}
	s := d.shapes[i]
	d.shapes = slices.Delete(d.shapes, i, i+1)
	d.unregister(s)
	d.logger.Debug("removed shape", "id", id, "type", s.Type(), "index", i)
	d.publish(event.ShapeRemoved, s)
	return s, i, true
}

// SetOrder reorders the document. ids must be a permutation of the current
// shape ids.
func (d *Document) SetOrder(ids []string) error {
	if len(ids) != len(d.shapes) {
		return errs.New(errs.ErrCodeInvalidInput, "order has %d ids, document has %d shapes", len(ids), len(d.shapes))
	}
	byID := make(map[string]shape.Shape, len(d.shapes))
	for _, s := range d.shapes {
		byID[s.ID()] = s
	}
	next := make([]shape.Shape, 0, len(ids))
	for _, id := range ids {
		s, ok := byID[id]
		if !ok {
			return errs.New(errs.ErrCodeInvalidInput, "order names unknown or repeated shape %q", id)
		}
		delete(byID, id)
		next = append(next, s)
	}
	d.shapes = next
	return nil
}

// Touch announces that a shape changed in place.
func (d *Document) Touch(s shape.Shape) {
	d.publish(event.ShapeUpdated, s)
}

// Clear removes every shape and empties the registry.
func (d *Document) Clear() {
	for _, s := range d.shapes {
		d.publish(event.ShapeRemoved, s)
	}
	d.shapes = nil
	d.registry.Clear()
}

func (d *Document) register(s shape.Shape) {
	switch v := s.(type) {
	case *shape.Node:
		d.registry.RegisterNode(v)
	case *shape.Edge:
		d.registry.RegisterEdge(v)
	}
}

func (d *Document) unregister(s shape.Shape) {
	switch s.Type() {
	case shape.TypeNode:
		d.registry.UnregisterNode(s.ID())
	case shape.TypeEdge:
		d.registry.UnregisterEdge(s.ID())
	}
}

func (d *Document) publish(topic event.Topic, s shape.Shape) {
	d.bus.Publish(topic, event.ShapeChange{ID: s.ID(), Type: string(s.Type())})
}

// =============================================================================
// Queries
// =============================================================================

// IndexOf returns the z-index of a top-level shape, or -1.
func (d *Document) IndexOf(id string) int {
	return slices.IndexFunc(d.shapes, func(s shape.Shape) bool { return s.ID() == id })
}

// Shape returns a top-level shape by id.
func (d *Document) Shape(id string) (shape.Shape, bool) {
	if i := d.IndexOf(id); i >= 0 {
		return d.shapes[i], true
	}
	return nil, false
}

// Shapes returns the shapes bottom to top. The slice is a copy.
func (d *Document) Shapes() []shape.Shape { return slices.Clone(d.shapes) }

// Order returns the shape ids bottom to top.
func (d *Document) Order() []string {
	ids := make([]string, len(d.shapes))
	for i, s := range d.shapes {
		ids[i] = s.ID()
	}
	return ids
}

// HitTest returns the topmost shape within tol of p.
func (d *Document) HitTest(p geom.Point, tol float64) (shape.Shape, bool) {
	for i := len(d.shapes) - 1; i >= 0; i-- {
		if d.shapes[i].HitTest(p, tol) {
			return d.shapes[i], true
		}
	}
	return nil, false
}

// HitTestAll returns every shape within tol of p, topmost first.
func (d *Document) HitTestAll(p geom.Point, tol float64) []shape.Shape {
	var out []shape.Shape
	for i := len(d.shapes) - 1; i >= 0; i-- {
		if d.shapes[i].HitTest(p, tol) {
			out = append(out, d.shapes[i])
		}
	}
	return out
}

// Nodes returns the nodes bottom to top.
func (d *Document) Nodes() []*shape.Node {
	var out []*shape.Node
	for _, s := range d.shapes {
		if n, ok := s.(*shape.Node); ok {
			out = append(out, n)
		}
	}
	return out
}

// Edges returns the edges bottom to top.
func (d *Document) Edges() []*shape.Edge {
	var out []*shape.Edge
	for _, s := range d.shapes {
		if e, ok := s.(*shape.Edge); ok {
			out = append(out, e)
		}
	}
	return out
}

// Bounds returns the union of every shape's bounds.
func (d *Document) Bounds() geom.Bounds {
	var b geom.Bounds
	for _, s := range d.shapes {
		b = b.Union(s.Bounds())
	}
	return b
}
