package editor

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/drawgraph/pkg/command"
	"github.com/matzehuels/drawgraph/pkg/config"
	"github.com/matzehuels/drawgraph/pkg/document"
	errs "github.com/matzehuels/drawgraph/pkg/errors"
	"github.com/matzehuels/drawgraph/pkg/event"
	"github.com/matzehuels/drawgraph/pkg/geom"
	"github.com/matzehuels/drawgraph/pkg/graph"
	"github.com/matzehuels/drawgraph/pkg/history"
	"github.com/matzehuels/drawgraph/pkg/layout"
	"github.com/matzehuels/drawgraph/pkg/route"
	"github.com/matzehuels/drawgraph/pkg/shape"
)

// Options configures an Editor.
type Options struct {
	// Config supplies editing policy. The zero value means config.Default().
	Config config.Config
	// Bus receives every event. Nil creates a private bus.
	Bus *event.Bus
	// Measurer, when set, is attached to every Text so bounds use real
	// glyph widths.
	Measurer shape.Measurer
	Logger   *log.Logger
}

// Editor is one editing session.
type Editor struct {
	cfg      config.Config
	doc      *document.Document
	reg      *graph.Registry
	hist     *history.History
	bus      *event.Bus
	measurer shape.Measurer
	logger   *log.Logger
}

// New returns an editor over an empty document.
func New(opts Options) *Editor {
	if opts.Config == (config.Config{}) {
		opts.Config = config.Default()
	}
	if opts.Bus == nil {
		opts.Bus = event.New()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	cfg := opts.Config

	reg := graph.New(graph.Options{
		ParallelSpacing: cfg.Graph.ParallelSpacing,
		Bus:             opts.Bus,
		Logger:          opts.Logger,
	})
	return &Editor{
		cfg: cfg,
		doc: document.New(document.Options{Registry: reg, Bus: opts.Bus, Logger: opts.Logger}),
		reg: reg,
		hist: history.New(history.Options{
			Limit:  cfg.Editor.HistoryLimit,
			Bus:    opts.Bus,
			Logger: opts.Logger,
		}),
		bus:      opts.Bus,
		measurer: opts.Measurer,
		logger:   opts.Logger,
	}
}

func (e *Editor) Config() config.Config               { return e.cfg }
func (e *Editor) Document() *document.Document        { return e.doc }
func (e *Editor) Registry() *graph.Registry           { return e.reg }
func (e *Editor) History() *history.History           { return e.hist }
func (e *Editor) Bus() *event.Bus                     { return e.bus }
func (e *Editor) Logger() *log.Logger                 { return e.logger }
func (e *Editor) Shape(id string) (shape.Shape, bool) { return e.doc.Shape(id) }

// Do runs cmd through the history.
func (e *Editor) Do(cmd history.Command) error {
	if err := e.hist.Execute(cmd); err != nil {
		return err
	}
	e.logger.Debug("executed", "command", cmd.Description())
	return nil
}

// Undo reverts the most recent command. It is a no-op when there is none.
func (e *Editor) Undo() error { return e.hist.Undo() }

// Redo re-applies the most recently undone command.
func (e *Editor) Redo() error { return e.hist.Redo() }

// HitTest returns the topmost shape under p within the configured
// tolerance.
func (e *Editor) HitTest(p geom.Point) (shape.Shape, bool) {
	return e.doc.HitTest(p, e.cfg.Editor.Tolerance)
}

// =============================================================================
// Creation and deletion
// =============================================================================

// AddShape adds s on top of the document and returns its id.
func (e *Editor) AddShape(s shape.Shape) (string, error) {
	e.prepare(s)
	cmd, err := command.NewAddShape(e.doc, s)
	if err != nil {
		return "", err
	}
	return s.ID(), e.Do(cmd)
}

// AddNode adds a circular node. A non-positive r uses the default radius.
func (e *Editor) AddNode(cx, cy, r float64, label string) (string, error) {
	if err := errs.ValidateLabel(label); err != nil {
		return "", err
	}
	cmd, err := command.NewAddNode(e.doc, cx, cy, r, label)
	if err != nil {
		return "", err
	}
	return cmd.Shape().ID(), e.Do(cmd)
}

// AddEdge connects two nodes. The parallel offset or self-loop angle is
// fixed now and survives undo and redo.
func (e *Editor) AddEdge(source, target string, dir shape.Direction) (string, error) {
	cmd, err := command.NewAddEdge(e.doc, source, target, dir)
	if err != nil {
		return "", err
	}
	e.prepare(cmd.Shape())
	return cmd.Shape().ID(), e.Do(cmd)
}

// Delete removes shapes. Deleting a node also deletes its edges.
func (e *Editor) Delete(ids ...string) error {
	cmd, err := command.NewDeleteShapes(e.doc, ids...)
	if err != nil {
		return err
	}
	return e.Do(cmd)
}

// =============================================================================
// Transforms
// =============================================================================

func (e *Editor) Move(ids []string, dx, dy float64) error {
	cmd, err := command.NewMove(e.doc, ids, dx, dy)
	if err != nil {
		return err
	}
	return e.Do(cmd)
}

// Rotate sets an absolute rotation in degrees.
func (e *Editor) Rotate(id string, deg float64) error {
	cmd, err := command.NewRotate(e.doc, id, deg)
	if err != nil {
		return err
	}
	return e.Do(cmd)
}

// RotateAll sets the same rotation on every listed shape. Several shapes
// make one undo step.
func (e *Editor) RotateAll(ids []string, deg float64) error {
	cmds := make([]history.Command, 0, len(ids))
	for _, id := range ids {
		cmd, err := command.NewRotate(e.doc, id, deg)
		if err != nil {
			return err
		}
		cmds = append(cmds, cmd)
	}
	if len(cmds) == 1 {
		return e.Do(cmds[0])
	}
	batch, err := command.NewBatch(fmt.Sprintf("Rotate %d shapes", len(cmds)), cmds...)
	if err != nil {
		return err
	}
	return e.Do(batch)
}

// Resize scales a shape so its unrotated bounds measure w by h.
func (e *Editor) Resize(id string, w, h float64) error {
	cmd, err := command.NewResizeTo(e.doc, id, w, h)
	if err != nil {
		return err
	}
	return e.Do(cmd)
}

// SetGeometry replaces a shape's geometry outright.
func (e *Editor) SetGeometry(id string, g shape.Geometry) error {
	cmd, err := command.NewResize(e.doc, id, g)
	if err != nil {
		return err
	}
	return e.Do(cmd)
}

// =============================================================================
// Arrangement
// =============================================================================

func (e *Editor) Reorder(ids []string, op command.ZOp) error {
	cmd, err := command.NewZOrder(e.doc, ids, op)
	if err != nil {
		return err
	}
	return e.Do(cmd)
}

func (e *Editor) Distribute(ids []string, axis command.Axis) error {
	cmd, err := command.NewDistribute(e.doc, ids, axis)
	if err != nil {
		return err
	}
	return e.Do(cmd)
}

// Group wraps shapes in a new group and returns the group's id.
func (e *Editor) Group(ids []string) (string, error) {
	cmd, err := command.NewGroup(e.doc, ids)
	if err != nil {
		return "", err
	}
	return cmd.Group().ID(), e.Do(cmd)
}

func (e *Editor) Ungroup(id string) error {
	cmd, err := command.NewUngroup(e.doc, id)
	if err != nil {
		return err
	}
	return e.Do(cmd)
}

// =============================================================================
// Appearance
// =============================================================================

// SetStyle rewrites the style of each shape with apply.
func (e *Editor) SetStyle(ids []string, apply func(shape.Style) shape.Style) error {
	cmd, err := command.NewSetStyle(e.doc, ids, apply)
	if err != nil {
		return err
	}
	return e.Do(cmd)
}

// EditLabel changes a node label or text content.
func (e *Editor) EditLabel(id, label string) error {
	if err := errs.ValidateLabel(label); err != nil {
		return err
	}
	cmd, err := command.NewEditLabel(e.doc, id, label)
	if err != nil {
		return err
	}
	return e.Do(cmd)
}

// =============================================================================
// Layout and persistence
// =============================================================================

// ApplyLayout places every node with the named layouter as one undoable
// step. The diagram keeps its top-left corner.
func (e *Editor) ApplyLayout(ctx context.Context, name string) error {
	nodes := e.doc.Nodes()
	if len(nodes) == 0 {
		return errs.New(errs.ErrCodeInvalidInput, "layout: document has no nodes")
	}
	origin := nodes[0].Bounds()
	for _, n := range nodes[1:] {
		origin = origin.Union(n.Bounds())
	}

	l, err := layout.New(name, layout.Options{
		Origin: geom.Pt(origin.MinX(), origin.MinY()),
		Logger: e.logger,
	})
	if err != nil {
		return err
	}
	centers, err := l.Layout(ctx, layout.FromDocument(e.doc))
	if err != nil {
		return err
	}
	cmd, err := command.NewLayout(e.doc, l.Name(), centers)
	if err != nil {
		return err
	}
	return e.Do(cmd)
}

// Snapshot returns the document's records.
func (e *Editor) Snapshot() document.Snapshot { return e.doc.Snapshot() }

// Load replaces the document with snap and clears the history.
func (e *Editor) Load(snap document.Snapshot) error {
	if err := e.doc.FromSnapshot(snap); err != nil {
		return err
	}
	for _, s := range e.doc.Shapes() {
		e.prepare(s)
	}
	e.hist.Clear()
	return nil
}

// prepare applies session settings that are not part of a shape's record.
func (e *Editor) prepare(s shape.Shape) {
	switch v := s.(type) {
	case *shape.Text:
		if v.LineHeight == shape.DefaultLineHeight {
			v.LineHeight = e.cfg.Editor.TextLineHeight
		}
		if e.measurer != nil {
			v.Measurer = e.measurer
		}
	case *shape.Path:
		v.Samples = e.cfg.Editor.PathSamples
	case *shape.Edge:
		v.SetLoopOptions(route.Options{
			Spread: e.cfg.Graph.SelfLoopSpread,
			Bow:    e.cfg.Graph.SelfLoopBow,
		})
	case *shape.Group:
		for _, c := range v.Children() {
			e.prepare(c)
		}
	}
}
