package document

import (
	errs "github.com/matzehuels/drawgraph/pkg/errors"
	"github.com/matzehuels/drawgraph/pkg/shape"
)

// SnapshotVersion is the current snapshot layout version.
const SnapshotVersion = 1

// Snapshot is the plain form of a document: its shapes' records bottom to
// top.
type Snapshot struct {
	Version int            `json:"version" bson:"version"`
	Shapes  []shape.Record `json:"shapes" bson:"shapes"`
}

// Snapshot returns the records of every shape.
func (d *Document) Snapshot() Snapshot {
	snap := Snapshot{Version: SnapshotVersion, Shapes: make([]shape.Record, 0, len(d.shapes))}
	for _, s := range d.shapes {
		snap.Shapes = append(snap.Shapes, s.Serialize())
	}
	return snap
}

// FromSnapshot replaces the document's contents. Records may come in any
// order; an edge loaded before its nodes routes once they arrive. Dangling
// edges are kept and logged.
func (d *Document) FromSnapshot(snap Snapshot) error {
	if err := checkUniqueIDs(snap.Shapes, make(map[string]bool)); err != nil {
		return err
	}
	shapes := make([]shape.Shape, 0, len(snap.Shapes))
	for _, rec := range snap.Shapes {
		s, err := shape.FromRecord(rec, d.registry)
		if err != nil {
			return err
		}
		shapes = append(shapes, s)
	}

	d.Clear()
	for _, s := range shapes {
		if err := d.Append(s); err != nil {
			return err
		}
	}
	if err := d.registry.Validate(); err != nil {
		d.logger.Warn("loaded document has dangling edges", "err", err)
	}
	d.logger.Debug("loaded snapshot", "shapes", len(shapes))
	return nil
}

// checkUniqueIDs rejects a record tree that uses an id twice, at any depth.
// Records without an id get a fresh one on load and are skipped.
func checkUniqueIDs(recs []shape.Record, seen map[string]bool) error {
	for _, rec := range recs {
		if rec.ID != "" {
			if seen[rec.ID] {
				return errs.New(errs.ErrCodeInvalidRecord, "duplicate shape id %s", rec.ID)
			}
			seen[rec.ID] = true
		}
		if err := checkUniqueIDs(rec.Children, seen); err != nil {
			return err
		}
	}
	return nil
}
