package command

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"

	"github.com/matzehuels/drawgraph/pkg/document"
	"github.com/matzehuels/drawgraph/pkg/geom"
	"github.com/matzehuels/drawgraph/pkg/shape"
)

// =============================================================================
// Move
// =============================================================================

// Move translates shapes. Edges in the selection are carried along by their
// nodes and ignore the delta themselves.
type Move struct {
	doc    *document.Document
	shapes []shape.Shape
	dx, dy float64
}

// NewMove returns a command moving the shapes by (dx, dy).
func NewMove(doc *document.Document, ids []string, dx, dy float64) (*Move, error) {
	shapes, err := lookup(doc, ids)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(dx) || math.IsNaN(dy) || math.IsInf(dx, 0) || math.IsInf(dy, 0) {
		return nil, invalid("move: delta (%v, %v) is not finite", dx, dy)
	}
	return &Move{doc: doc, shapes: shapes, dx: geom.Round3(dx), dy: geom.Round3(dy)}, nil
}

func (c *Move) Execute() error {
	c.apply(c.dx, c.dy)
	return nil
}

func (c *Move) Undo() error {
	c.apply(-c.dx, -c.dy)
	return nil
}

func (c *Move) apply(dx, dy float64) {
	for _, s := range c.shapes {
		s.Move(dx, dy)
	}
	refreshEdges(c.doc, c.shapes...)
}

func (c *Move) Description() string { return "Move " + noun(c.shapes) }

// =============================================================================
// Resize
// =============================================================================

// Resize replaces a shape's geometry wholesale.
type Resize struct {
	doc           *document.Document
	shape         shape.Resizable
	before, after shape.Geometry
}

// NewResize returns a command setting the geometry of a shape. after must be
// the snapshot type the shape's variant uses.
func NewResize(doc *document.Document, id string, after shape.Geometry) (*Resize, error) {
	s, err := lookupOne(doc, id)
	if err != nil {
		return nil, err
	}
	r, ok := s.(shape.Resizable)
	if !ok {
		return nil, invalid("resize: %s %s cannot be resized", s.Type(), id)
	}
	before := r.Geometry()
	if reflect.TypeOf(before) != reflect.TypeOf(after) {
		return nil, invalid("resize: %s %s takes %T, got %T", s.Type(), id, before, after)
	}
	return &Resize{doc: doc, shape: r, before: before, after: after}, nil
}

// NewResizeTo returns a command fitting a shape's unrotated box to w × h,
// keeping its top-left corner (or center for ellipses and nodes).
func NewResizeTo(doc *document.Document, id string, w, h float64) (*Resize, error) {
	if w < 0 || h < 0 {
		return nil, invalid("resize: negative size %v x %v", w, h)
	}
	s, err := lookupOne(doc, id)
	if err != nil {
		return nil, err
	}
	r, ok := s.(shape.Resizable)
	if !ok {
		return nil, invalid("resize: %s %s cannot be resized", s.Type(), id)
	}
	return NewResize(doc, id, fitGeometry(r.Geometry(), w, h))
}

func fitGeometry(g shape.Geometry, w, h float64) shape.Geometry {
	switch g := g.(type) {
	case shape.BoxGeometry:
		g.Width, g.Height = w, h
		return g
	case shape.EllipseGeometry:
		g.RX, g.RY = w/2, h/2
		return g
	case shape.LineGeometry:
		b := geom.BoundsOf(geom.Pt(g.X1, g.Y1), geom.Pt(g.X2, g.Y2))
		sx, sy := ratio(w, b.Width), ratio(h, b.Height)
		return shape.LineGeometry{
			X1: b.X + (g.X1-b.X)*sx, Y1: b.Y + (g.Y1-b.Y)*sy,
			X2: b.X + (g.X2-b.X)*sx, Y2: b.Y + (g.Y2-b.Y)*sy,
		}
	case shape.TextGeometry:
		// Text is sized by its font; height drives it.
		if h > 0 {
			g.FontSize = h
		}
		return g
	case shape.PointsGeometry:
		b := geom.BoundsOf(g.Points...)
		sx, sy := ratio(w, b.Width), ratio(h, b.Height)
		pts := make([]geom.Point, len(g.Points))
		for i, p := range g.Points {
			pts[i] = geom.Pt(b.X+(p.X-b.X)*sx, b.Y+(p.Y-b.Y)*sy)
		}
		return shape.PointsGeometry{Points: pts}
	case shape.PathGeometry:
		var all []geom.Point
		for _, seg := range g.Segments {
			all = append(all, seg.Points()...)
		}
		b := geom.BoundsOf(all...)
		sx, sy := ratio(w, b.Width), ratio(h, b.Height)
		segs := slices.Clone(g.Segments)
		for i := range segs {
			for j := range segs[i].Points() {
				p := segs[i].Pts[j]
				segs[i].Pts[j] = geom.Pt(b.X+(p.X-b.X)*sx, b.Y+(p.Y-b.Y)*sy)
			}
		}
		return shape.PathGeometry{Segments: segs}
	}
	return g
}

func ratio(want, have float64) float64 {
	if have == 0 {
		return 1
	}
	return want / have
}

func (c *Resize) Execute() error {
	if err := c.shape.SetGeometry(c.after); err != nil {
		return err
	}
	refreshEdges(c.doc, c.shape)
	return nil
}

func (c *Resize) Undo() error {
	if err := c.shape.SetGeometry(c.before); err != nil {
		return err
	}
	refreshEdges(c.doc, c.shape)
	return nil
}

func (c *Resize) Description() string { return fmt.Sprintf("Resize %s", c.shape.Type()) }

// =============================================================================
// Rotate
// =============================================================================

// Rotate sets a shape's rotation.
type Rotate struct {
	doc           *document.Document
	shape         shape.Shape
	before, after float64
}

// NewRotate returns a command setting the absolute rotation of a shape.
// Edges cannot be rotated.
func NewRotate(doc *document.Document, id string, deg float64) (*Rotate, error) {
	s, err := lookupOne(doc, id)
	if err != nil {
		return nil, err
	}
	after := geom.NormalizeRotation(deg)
	if s.Type() == shape.TypeEdge && after != 0 {
		return nil, invalid("rotate %s: %v", id, shape.ErrEdgeRotation)
	}
	return &Rotate{doc: doc, shape: s, before: s.Rotation(), after: after}, nil
}

// NewRotateBy returns a command rotating a shape by delta degrees.
func NewRotateBy(doc *document.Document, id string, delta float64) (*Rotate, error) {
	s, err := lookupOne(doc, id)
	if err != nil {
		return nil, err
	}
	return NewRotate(doc, id, s.Rotation()+delta)
}

func (c *Rotate) Execute() error { return c.set(c.after) }

func (c *Rotate) Undo() error { return c.set(c.before) }

func (c *Rotate) set(deg float64) error {
	if err := c.shape.SetRotation(deg); err != nil && !errors.Is(err, shape.ErrEdgeRotation) {
		return err
	}
	refreshEdges(c.doc, c.shape)
	return nil
}

func (c *Rotate) Description() string {
	return fmt.Sprintf("Rotate %s to %g°", c.shape.Type(), c.after)
}

// =============================================================================
// Layout
// =============================================================================

// Layout repositions nodes, typically from an automatic layouter.
type Layout struct {
	doc    *document.Document
	nodes  []*shape.Node
	before []geom.Point
	after  []geom.Point
	name   string
}

// NewLayout returns a command moving each listed node's center to its new
// position. name labels the command, e.g. the layout engine.
func NewLayout(doc *document.Document, name string, centers map[string]geom.Point) (*Layout, error) {
	if len(centers) == 0 {
		return nil, invalid("layout: no positions")
	}
	c := &Layout{doc: doc, name: name}
	ids := make([]string, 0, len(centers))
	for id := range centers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		n, ok := doc.Registry().Node(id)
		if !ok {
			return nil, invalid("layout: %s is not a node", id)
		}
		c.nodes = append(c.nodes, n)
		c.before = append(c.before, n.Center())
		c.after = append(c.after, geom.RoundPoint(centers[id]))
	}
	return c, nil
}

func (c *Layout) Execute() error {
	c.place(c.after)
	return nil
}

func (c *Layout) Undo() error {
	c.place(c.before)
	return nil
}

func (c *Layout) place(centers []geom.Point) {
	for i, n := range c.nodes {
		n.SetCenter(centers[i])
	}
	for _, n := range c.nodes {
		refreshEdges(c.doc, n)
	}
}

func (c *Layout) Description() string {
	if c.name == "" {
		return fmt.Sprintf("Layout %d nodes", len(c.nodes))
	}
	return fmt.Sprintf("Layout %d nodes (%s)", len(c.nodes), c.name)
}
