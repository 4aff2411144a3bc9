package command

import (
	"fmt"

	"github.com/matzehuels/drawgraph/pkg/document"
	"github.com/matzehuels/drawgraph/pkg/shape"
)

// DeleteShapes removes shapes. Deleting a node also deletes every edge
// incident to it at construction time; undo restores all of them at their
// original z-indices.
type DeleteShapes struct {
	doc     *document.Document
	entries []placed
	desc    string
}

// NewDeleteShapes returns a command deleting the given top-level shapes and
// the edges of any node among them.
func NewDeleteShapes(doc *document.Document, ids ...string) (*DeleteShapes, error) {
	shapes, err := lookup(doc, ids)
	if err != nil {
		return nil, err
	}

	selected := make(map[string]bool, len(shapes))
	for _, s := range shapes {
		selected[s.ID()] = true
	}
	cascade := 0
	for _, s := range shapes {
		if s.Type() != shape.TypeNode {
			continue
		}
		for _, edgeID := range doc.Registry().EdgeIDsForNode(s.ID()) {
			if selected[edgeID] {
				continue
			}
			if e, ok := doc.Shape(edgeID); ok {
				selected[edgeID] = true
				shapes = append(shapes, e)
				cascade++
			}
		}
	}

	c := &DeleteShapes{doc: doc}
	for _, s := range shapes {
		c.entries = append(c.entries, placed{shape: s, index: doc.IndexOf(s.ID())})
	}
	sortByIndex(c.entries)

	c.desc = fmt.Sprintf("Delete %s", noun(shapes[:len(shapes)-cascade]))
	if cascade > 0 {
		c.desc += fmt.Sprintf(" and %d edge", cascade)
		if cascade > 1 {
			c.desc += "s"
		}
	}
	return c, nil
}

// NewDeleteNode returns a command deleting a node and its edges.
func NewDeleteNode(doc *document.Document, nodeID string) (*DeleteShapes, error) {
	if _, ok := doc.Registry().Node(nodeID); !ok {
		return nil, invalid("delete node: %s is not a node", nodeID)
	}
	return NewDeleteShapes(doc, nodeID)
}

// NewDeleteEdge returns a command deleting a single edge.
func NewDeleteEdge(doc *document.Document, edgeID string) (*DeleteShapes, error) {
	if _, ok := doc.Registry().Edge(edgeID); !ok {
		return nil, invalid("delete edge: %s is not an edge", edgeID)
	}
	return NewDeleteShapes(doc, edgeID)
}

// Deleted returns the ids the command removes, including cascaded edges,
// in z-order.
func (c *DeleteShapes) Deleted() []string {
	ids := make([]string, len(c.entries))
	for i, e := range c.entries {
		ids[i] = e.shape.ID()
	}
	return ids
}

func (c *DeleteShapes) Execute() error {
	removeAll(c.doc, c.entries)
	return nil
}

func (c *DeleteShapes) Undo() error {
	return insertAll(c.doc, c.entries)
}

func (c *DeleteShapes) Description() string { return c.desc }
