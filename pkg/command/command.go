package command

import (
	"fmt"
	"slices"

	errs "github.com/matzehuels/drawgraph/pkg/errors"
	"github.com/matzehuels/drawgraph/pkg/document"
	"github.com/matzehuels/drawgraph/pkg/history"
	"github.com/matzehuels/drawgraph/pkg/shape"
)

var (
	_ history.Command = (*AddShape)(nil)
	_ history.Command = (*DeleteShapes)(nil)
	_ history.Command = (*Move)(nil)
	_ history.Command = (*Resize)(nil)
	_ history.Command = (*Rotate)(nil)
	_ history.Command = (*ZOrder)(nil)
	_ history.Command = (*Distribute)(nil)
	_ history.Command = (*Group)(nil)
	_ history.Command = (*Ungroup)(nil)
	_ history.Command = (*SetStyle)(nil)
	_ history.Command = (*EditLabel)(nil)
	_ history.Command = (*Layout)(nil)
	_ history.Command = (*Batch)(nil)
)

func invalid(format string, args ...any) error {
	return errs.New(errs.ErrCodeInvalidCommand, format, args...)
}

// lookup resolves top-level shapes by id, rejecting empty, unknown and
// repeated ids.
func lookup(doc *document.Document, ids []string) ([]shape.Shape, error) {
	if len(ids) == 0 {
		return nil, invalid("no shapes selected")
	}
	out := make([]shape.Shape, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, invalid("shape %s selected twice", id)
		}
		seen[id] = true
		s, ok := doc.Shape(id)
		if !ok {
			return nil, invalid("shape %s not found", id)
		}
		out = append(out, s)
	}
	return out, nil
}

func lookupOne(doc *document.Document, id string) (shape.Shape, error) {
	s, err := lookup(doc, []string{id})
	if err != nil {
		return nil, err
	}
	return s[0], nil
}

// noun describes a selection for command descriptions.
func noun(shapes []shape.Shape) string {
	if len(shapes) == 1 {
		return string(shapes[0].Type())
	}
	return fmt.Sprintf("%d shapes", len(shapes))
}

// refreshEdges re-announces the edges of any node among shapes.
func refreshEdges(doc *document.Document, shapes ...shape.Shape) {
	for _, s := range shapes {
		if s.Type() == shape.TypeNode {
			doc.Registry().UpdateEdgesForNode(s.ID())
		}
		doc.Touch(s)
	}
}

// placed is a shape and the z-index it occupied.
type placed struct {
	shape shape.Shape
	index int
}

// removeAll removes entries from the top down so recorded indices stay valid.
func removeAll(doc *document.Document, entries []placed) {
	for i := len(entries) - 1; i >= 0; i-- {
		doc.Remove(entries[i].shape.ID())
	}
}

// insertAll reinserts entries bottom up at their recorded indices.
func insertAll(doc *document.Document, entries []placed) error {
	for _, e := range entries {
		if err := doc.Insert(e.index, e.shape); err != nil {
			return err
		}
	}
	return nil
}

func sortByIndex(entries []placed) {
	slices.SortFunc(entries, func(a, b placed) int { return a.index - b.index })
}
