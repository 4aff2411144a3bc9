package command

import (
	"fmt"

	"github.com/matzehuels/drawgraph/pkg/document"
	"github.com/matzehuels/drawgraph/pkg/geom"
	"github.com/matzehuels/drawgraph/pkg/shape"
)

// checkGroupable rejects graph shapes: edges must stay top-level so the
// registry and the document agree on them.
func checkGroupable(shapes []shape.Shape) error {
	for _, s := range shapes {
		if s.Type().IsGraph() {
			return invalid("group: %s %s cannot be grouped", s.Type(), s.ID())
		}
	}
	return nil
}

// Group wraps shapes in a new group placed where the topmost of them was.
type Group struct {
	doc     *document.Document
	group   *shape.Group
	entries []placed
	index   int
}

// NewGroup returns a command grouping at least two top-level shapes. The
// group keeps the children's relative z-order.
func NewGroup(doc *document.Document, ids []string) (*Group, error) {
	if len(ids) < 2 {
		return nil, invalid("group: need at least 2 shapes, got %d", len(ids))
	}
	shapes, err := lookup(doc, ids)
	if err != nil {
		return nil, err
	}
	if err := checkGroupable(shapes); err != nil {
		return nil, err
	}

	c := &Group{doc: doc}
	for _, s := range shapes {
		c.entries = append(c.entries, placed{shape: s, index: doc.IndexOf(s.ID())})
	}
	sortByIndex(c.entries)
	children := make([]shape.Shape, len(c.entries))
	for i, e := range c.entries {
		children[i] = e.shape
	}
	c.group = shape.NewGroup(children...)
	// After removing the children the topmost one's slot shifts down by the
	// number of children below it.
	c.index = c.entries[len(c.entries)-1].index - (len(c.entries) - 1)
	return c, nil
}

// Group returns the group the command creates.
func (c *Group) Group() *shape.Group { return c.group }

func (c *Group) Execute() error {
	removeAll(c.doc, c.entries)
	return c.doc.Insert(c.index, c.group)
}

func (c *Group) Undo() error {
	c.doc.Remove(c.group.ID())
	return insertAll(c.doc, c.entries)
}

func (c *Group) Description() string { return fmt.Sprintf("Group %d shapes", len(c.entries)) }

// Ungroup replaces a group by its children. A rotated group hands its
// rotation down: each child turns about the group's center and adds the
// group's angle to its own, so the drawing looks the same afterwards.
type Ungroup struct {
	doc      *document.Document
	group    *shape.Group
	children []released
	index    int
}

// released is the placement change of one child leaving its group.
type released struct {
	shape         shape.Shape
	dx, dy        float64
	before, after float64
	geometry      shape.Geometry // nil for nested groups
}

// NewUngroup returns a command dissolving a top-level group.
func NewUngroup(doc *document.Document, id string) (*Ungroup, error) {
	s, err := lookupOne(doc, id)
	if err != nil {
		return nil, err
	}
	g, ok := s.(*shape.Group)
	if !ok {
		return nil, invalid("ungroup: %s %s is not a group", s.Type(), id)
	}

	rot := g.Rotation()
	pivot := g.Bounds().Center()
	c := &Ungroup{doc: doc, group: g, index: doc.IndexOf(id)}
	for _, child := range g.Children() {
		r := released{shape: child, before: child.Rotation(), after: child.Rotation()}
		if rot != 0 {
			// A shape rotates about the center of its bounds, which
			// rotation leaves in place.
			center := child.Bounds().Center()
			moved := geom.RotatePoint(center, pivot, rot)
			r.dx, r.dy = geom.Round3(moved.X-center.X), geom.Round3(moved.Y-center.Y)
			r.after = geom.NormalizeRotation(r.before + rot)
		}
		if rs, ok := child.(shape.Resizable); ok {
			r.geometry = rs.Geometry()
		}
		c.children = append(c.children, r)
	}
	return c, nil
}

func (c *Ungroup) Execute() error {
	c.doc.Remove(c.group.ID())
	for i, r := range c.children {
		r.shape.Move(r.dx, r.dy)
		_ = r.shape.SetRotation(r.after)
		if err := c.doc.Insert(c.index+i, r.shape); err != nil {
			return err
		}
	}
	return nil
}

func (c *Ungroup) Undo() error {
	for _, r := range c.children {
		c.doc.Remove(r.shape.ID())
		if rs, ok := r.shape.(shape.Resizable); ok && r.geometry != nil {
			if err := rs.SetGeometry(r.geometry); err != nil {
				return err
			}
		} else {
			r.shape.Move(-r.dx, -r.dy)
		}
		_ = r.shape.SetRotation(r.before)
	}
	return c.doc.Insert(c.index, c.group)
}

func (c *Ungroup) Description() string { return fmt.Sprintf("Ungroup %d shapes", len(c.children)) }
