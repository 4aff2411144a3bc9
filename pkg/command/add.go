package command

import (
	"fmt"

	"github.com/matzehuels/drawgraph/pkg/document"
	"github.com/matzehuels/drawgraph/pkg/shape"
)

// AddShape places a new shape on top of the document.
type AddShape struct {
	doc   *document.Document
	shape shape.Shape
	index int
	desc  string
}

// NewAddShape returns a command adding s. Graph shapes should use
// [NewAddNode] and [NewAddEdge] so their placement policy is applied.
func NewAddShape(doc *document.Document, s shape.Shape) (*AddShape, error) {
	if s == nil {
		return nil, invalid("add: no shape")
	}
	if _, exists := doc.Shape(s.ID()); exists {
		return nil, invalid("add: shape %s already in document", s.ID())
	}
	if g, ok := s.(*shape.Group); ok {
		if err := checkGroupable(g.Children()); err != nil {
			return nil, err
		}
	}
	return &AddShape{doc: doc, shape: s, index: doc.Len(), desc: fmt.Sprintf("Add %s", s.Type())}, nil
}

// NewAddNode returns a command adding a circular node.
func NewAddNode(doc *document.Document, cx, cy, r float64, label string) (*AddShape, error) {
	if r <= 0 {
		r = shape.DefaultNodeRadius
	}
	return NewAddShape(doc, shape.NewNode(cx, cy, r, label))
}

// NewAddEdge returns a command adding an edge between two registered nodes.
// The parallel offset or self-loop angle is fixed now, so redo reuses it.
func NewAddEdge(doc *document.Document, source, target string, dir shape.Direction) (*AddShape, error) {
	reg := doc.Registry()
	for _, id := range []string{source, target} {
		if _, ok := reg.Node(id); !ok {
			return nil, invalid("add edge: node %s not found", id)
		}
	}
	e := shape.NewEdge(source, target, reg)
	if dir != "" {
		e.SetDirection(dir)
	}
	if e.IsSelfLoop() {
		e.SetSelfLoopAngle(reg.NextSelfLoopAngle(source))
	} else {
		e.SetCurveOffset(reg.CalculateParallelOffset(source, target))
	}
	return NewAddShape(doc, e)
}

// Shape returns the shape being added.
func (c *AddShape) Shape() shape.Shape { return c.shape }

func (c *AddShape) Execute() error {
	return c.doc.Insert(c.index, c.shape)
}

func (c *AddShape) Undo() error {
	c.doc.Remove(c.shape.ID())
	return nil
}

func (c *AddShape) Description() string { return c.desc }
