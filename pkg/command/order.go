package command

import (
	"fmt"
	"slices"

	"github.com/matzehuels/drawgraph/pkg/document"
	"github.com/matzehuels/drawgraph/pkg/geom"
	"github.com/matzehuels/drawgraph/pkg/shape"
)

// =============================================================================
// Z-order
// =============================================================================

// ZOp is a stacking change.
type ZOp string

// Stacking changes.
const (
	BringToFront ZOp = "front"
	SendToBack   ZOp = "back"
	BringForward ZOp = "forward"
	SendBackward ZOp = "backward"
)

// ParseZOp validates a stacking change name.
func ParseZOp(s string) (ZOp, error) {
	switch op := ZOp(s); op {
	case BringToFront, SendToBack, BringForward, SendBackward:
		return op, nil
	}
	return "", invalid("unknown z-order operation %q", s)
}

// ZOrder restacks shapes. The full order before and after is computed at
// construction.
type ZOrder struct {
	doc           *document.Document
	op            ZOp
	count         int
	before, after []string
}

// NewZOrder returns a command applying op to the selection. Selected shapes
// keep their relative order.
func NewZOrder(doc *document.Document, ids []string, op ZOp) (*ZOrder, error) {
	if _, err := ParseZOp(string(op)); err != nil {
		return nil, err
	}
	shapes, err := lookup(doc, ids)
	if err != nil {
		return nil, err
	}
	sel := make(map[string]bool, len(shapes))
	for _, s := range shapes {
		sel[s.ID()] = true
	}
	before := doc.Order()
	return &ZOrder{doc: doc, op: op, count: len(shapes), before: before, after: restack(before, sel, op)}, nil
}

func restack(order []string, sel map[string]bool, op ZOp) []string {
	out := slices.Clone(order)
	switch op {
	case BringToFront, SendToBack:
		var picked, rest []string
		for _, id := range order {
			if sel[id] {
				picked = append(picked, id)
			} else {
				rest = append(rest, id)
			}
		}
		if op == BringToFront {
			return append(rest, picked...)
		}
		return append(picked, rest...)
	case BringForward:
		for i := len(out) - 2; i >= 0; i-- {
			if sel[out[i]] && !sel[out[i+1]] {
				out[i], out[i+1] = out[i+1], out[i]
			}
		}
	case SendBackward:
		for i := 1; i < len(out); i++ {
			if sel[out[i]] && !sel[out[i-1]] {
				out[i], out[i-1] = out[i-1], out[i]
			}
		}
	}
	return out
}

// After returns the order the command produces.
func (c *ZOrder) After() []string { return slices.Clone(c.after) }

func (c *ZOrder) Execute() error { return c.doc.SetOrder(c.after) }

func (c *ZOrder) Undo() error { return c.doc.SetOrder(c.before) }

func (c *ZOrder) Description() string {
	names := map[ZOp]string{
		BringToFront: "Bring to front",
		SendToBack:   "Send to back",
		BringForward: "Bring forward",
		SendBackward: "Send backward",
	}
	if c.count == 1 {
		return names[c.op]
	}
	return fmt.Sprintf("%s (%d shapes)", names[c.op], c.count)
}

// =============================================================================
// Distribute
// =============================================================================

// Axis selects horizontal or vertical distribution.
type Axis string

// Distribution axes.
const (
	Horizontal Axis = "horizontal"
	Vertical   Axis = "vertical"
)

// Distribute spaces shapes evenly between the outermost two. The gap is
// (last max − first min − Σ sizes) / (n − 1); the outermost shapes stay put.
type Distribute struct {
	doc    *document.Document
	shapes []shape.Shape
	deltas []float64
	axis   Axis
}

// NewDistribute returns a command distributing at least three shapes along
// axis. Per-shape deltas are computed once, here.
func NewDistribute(doc *document.Document, ids []string, axis Axis) (*Distribute, error) {
	if axis != Horizontal && axis != Vertical {
		return nil, invalid("distribute: unknown axis %q", axis)
	}
	if len(ids) < 3 {
		return nil, invalid("distribute: need at least 3 shapes, got %d", len(ids))
	}
	shapes, err := lookup(doc, ids)
	if err != nil {
		return nil, err
	}
	for _, s := range shapes {
		if s.Type() == shape.TypeEdge {
			return nil, invalid("distribute: edge %s cannot be positioned", s.ID())
		}
	}

	span := func(b geom.Bounds) (lo, size float64) {
		if axis == Horizontal {
			return b.X, b.Width
		}
		return b.Y, b.Height
	}
	slices.SortStableFunc(shapes, func(a, b shape.Shape) int {
		la, _ := span(a.Bounds())
		lb, _ := span(b.Bounds())
		switch {
		case la < lb:
			return -1
		case la > lb:
			return 1
		}
		return 0
	})

	first, _ := span(shapes[0].Bounds())
	lastLo, lastSize := span(shapes[len(shapes)-1].Bounds())
	var total float64
	for _, s := range shapes {
		_, size := span(s.Bounds())
		total += size
	}
	gap := (lastLo + lastSize - first - total) / float64(len(shapes)-1)

	c := &Distribute{doc: doc, shapes: shapes, deltas: make([]float64, len(shapes)), axis: axis}
	_, firstSize := span(shapes[0].Bounds())
	cursor := first + firstSize + gap
	for i := 1; i < len(shapes)-1; i++ {
		lo, size := span(shapes[i].Bounds())
		c.deltas[i] = geom.Round3(cursor - lo)
		cursor += size + gap
	}
	return c, nil
}

func (c *Distribute) Execute() error {
	c.apply(1)
	return nil
}

func (c *Distribute) Undo() error {
	c.apply(-1)
	return nil
}

func (c *Distribute) apply(sign float64) {
	for i, s := range c.shapes {
		d := sign * c.deltas[i]
		if d == 0 {
			continue
		}
		if c.axis == Horizontal {
			s.Move(d, 0)
		} else {
			s.Move(0, d)
		}
		refreshEdges(c.doc, s)
	}
}

func (c *Distribute) Description() string {
	return fmt.Sprintf("Distribute %d shapes %sly", len(c.shapes), c.axis)
}
