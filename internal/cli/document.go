package cli

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/matzehuels/drawgraph/pkg/document"
	"github.com/matzehuels/drawgraph/pkg/editor"
	errs "github.com/matzehuels/drawgraph/pkg/errors"
	"github.com/matzehuels/drawgraph/pkg/store"
)

// readDocument loads a JSON snapshot from path.
func readDocument(path string) (document.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return document.Snapshot{}, errs.Wrap(errs.ErrCodeNotFound, err, "document %s", path)
		}
		return document.Snapshot{}, errs.Wrap(errs.ErrCodeInvalidInput, err, "read %s", path)
	}
	return store.Decode(data)
}

// writeDocument writes snap to path as indented JSON, replacing the file
// atomically.
func writeDocument(path string, snap document.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "encode snapshot")
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "create %s", dir)
	}
	tmp, err := os.CreateTemp(dir, ".drawgraph-*")
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "write %s", path)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "write %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "write %s", path)
	}
	return nil
}

// openDocument returns an editor holding the document at path. A missing
// file yields an empty document when create is set.
func (c *CLI) openDocument(path string, create bool) (*editor.Editor, error) {
	ed := c.newEditor()
	snap, err := readDocument(path)
	switch {
	case err == nil:
		if err := ed.Load(snap); err != nil {
			return nil, err
		}
		c.Logger.Debug("document loaded", "path", path, "shapes", ed.Document().Len())
	case create && errs.Is(err, errs.ErrCodeNotFound):
		c.Logger.Debug("starting new document", "path", path)
	default:
		return nil, err
	}
	return ed, nil
}

// documentStats counts the nodes and edges of ed's document.
func documentStats(ed *editor.Editor) (shapes, nodes, edges int) {
	doc := ed.Document()
	return doc.Len(), len(doc.Nodes()), len(doc.Edges())
}
