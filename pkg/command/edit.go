package command

import (
	"fmt"

	"github.com/matzehuels/drawgraph/pkg/document"
	"github.com/matzehuels/drawgraph/pkg/event"
	"github.com/matzehuels/drawgraph/pkg/shape"
)

// SetStyle changes the style of shapes.
type SetStyle struct {
	doc           *document.Document
	shapes        []shape.Shape
	before, after []shape.Style
}

// NewSetStyle returns a command replacing each shape's style with
// apply(current). apply is called once per shape, here.
func NewSetStyle(doc *document.Document, ids []string, apply func(shape.Style) shape.Style) (*SetStyle, error) {
	if apply == nil {
		return nil, invalid("style: no change")
	}
	shapes, err := lookup(doc, ids)
	if err != nil {
		return nil, err
	}
	c := &SetStyle{doc: doc, shapes: shapes}
	for _, s := range shapes {
		st := s.Style()
		c.before = append(c.before, st)
		c.after = append(c.after, apply(st.Clone()))
	}
	return c, nil
}

func (c *SetStyle) Execute() error {
	c.apply(c.after)
	return nil
}

func (c *SetStyle) Undo() error {
	c.apply(c.before)
	return nil
}

func (c *SetStyle) apply(styles []shape.Style) {
	ids := make([]string, len(c.shapes))
	for i, s := range c.shapes {
		s.SetStyle(styles[i])
		ids[i] = s.ID()
		c.doc.Touch(s)
	}
	c.doc.Bus().Publish(event.StyleChanged, event.StyleChange{IDs: ids})
}

func (c *SetStyle) Description() string { return "Style " + noun(c.shapes) }

// EditLabel changes the text of a node or text shape.
type EditLabel struct {
	doc           *document.Document
	shape         shape.Labeled
	before, after string
}

// NewEditLabel returns a command setting the label of a node or text.
func NewEditLabel(doc *document.Document, id, label string) (*EditLabel, error) {
	s, err := lookupOne(doc, id)
	if err != nil {
		return nil, err
	}
	l, ok := s.(shape.Labeled)
	if !ok {
		return nil, invalid("label: %s %s has no label", s.Type(), id)
	}
	return &EditLabel{doc: doc, shape: l, before: l.Label(), after: label}, nil
}

func (c *EditLabel) Execute() error {
	c.shape.SetLabel(c.after)
	c.doc.Touch(c.shape)
	return nil
}

func (c *EditLabel) Undo() error {
	c.shape.SetLabel(c.before)
	c.doc.Touch(c.shape)
	return nil
}

func (c *EditLabel) Description() string { return fmt.Sprintf("Edit %s label", c.shape.Type()) }
