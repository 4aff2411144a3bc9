package shape

import (
	"slices"

	"github.com/matzehuels/drawgraph/pkg/geom"
)

// Group is an ordered container of shapes treated as one. Children keep their
// own coordinates; the group's rotation is applied on top about the center of
// the children's combined bounds.
type Group struct {
	base
	children []Shape
}

// NewGroup returns a group owning children in the given order.
func NewGroup(children ...Shape) *Group {
	return &Group{base: newBase(TypeGroup), children: slices.Clone(children)}
}

// Children returns the children in order. The slice is a copy; the shapes
// are not.
func (g *Group) Children() []Shape { return slices.Clone(g.children) }

// Len returns the number of children.
func (g *Group) Len() int { return len(g.children) }

func (g *Group) local() geom.Bounds {
	var b geom.Bounds
	for _, c := range g.children {
		b = b.Union(c.Bounds())
	}
	return b
}

func (g *Group) HitTest(p geom.Point, tol float64) bool {
	p = g.toLocal(p, g.local())
	for i := len(g.children) - 1; i >= 0; i-- {
		if g.children[i].HitTest(p, tol) {
			return true
		}
	}
	return false
}

func (g *Group) Bounds() geom.Bounds { return g.worldBounds(g.local()).Round() }

func (g *Group) Move(dx, dy float64) {
	for _, c := range g.children {
		c.Move(dx, dy)
	}
}

func (g *Group) ApplyTransform(tx, ty, sx, sy float64) {
	for _, c := range g.children {
		c.ApplyTransform(tx, ty, sx, sy)
	}
}

// Clone deep-copies the subtree; every clone gets a new identity.
func (g *Group) Clone() Shape {
	c := &Group{base: g.cloned(), children: make([]Shape, len(g.children))}
	for i, child := range g.children {
		c.children[i] = child.Clone()
	}
	return c
}

func (g *Group) Serialize() Record {
	rec := g.record(nil)
	for _, c := range g.children {
		rec.Children = append(rec.Children, c.Serialize())
	}
	return rec
}
