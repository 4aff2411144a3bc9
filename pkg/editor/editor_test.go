package editor

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/drawgraph/pkg/command"
	"github.com/matzehuels/drawgraph/pkg/config"
	errs "github.com/matzehuels/drawgraph/pkg/errors"
	"github.com/matzehuels/drawgraph/pkg/event"
	"github.com/matzehuels/drawgraph/pkg/geom"
	"github.com/matzehuels/drawgraph/pkg/shape"
)

func newEditor(t *testing.T, mutate ...func(*config.Config)) *Editor {
	t.Helper()
	cfg := config.Default()
	for _, m := range mutate {
		m(&cfg)
	}
	return New(Options{Config: cfg, Logger: log.New(io.Discard)})
}

// mustID returns a checker for the (id, error) results of editor calls.
func mustID(t *testing.T) func(string, error) string {
	return func(id string, err error) string {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
		return id
	}
}

func TestNodeEdgeSession(t *testing.T) {
	must := mustID(t)
	ed := newEditor(t)
	a := must(ed.AddNode(0, 0, 20, "A"))
	b := must(ed.AddNode(200, 0, 20, "B"))
	e1 := must(ed.AddEdge(a, b, shape.DirectionForward))
	e2 := must(ed.AddEdge(a, b, shape.DirectionForward))

	edge1, _ := ed.Shape(e1)
	edge2, _ := ed.Shape(e2)
	before1 := edge1.(*shape.Edge).Path()
	before2 := edge2.(*shape.Edge).Path()

	if err := ed.Move([]string{a}, 0, 50); err != nil {
		t.Fatal(err)
	}
	if edge1.(*shape.Edge).Path() == before1 {
		t.Error("edge 1 did not re-route after move")
	}

	if err := ed.Undo(); err != nil {
		t.Fatal(err)
	}
	if edge1.(*shape.Edge).Path() != before1 || edge2.(*shape.Edge).Path() != before2 {
		t.Error("undo did not restore both edge paths")
	}

	if err := ed.Delete(a); err != nil {
		t.Fatal(err)
	}
	if ed.Document().Len() != 1 {
		t.Errorf("Len() after node delete = %d, want 1", ed.Document().Len())
	}
	if err := ed.Undo(); err != nil {
		t.Fatal(err)
	}
	if ed.Document().Len() != 4 || ed.Registry().Validate() != nil {
		t.Errorf("undo delete: Len %d, Validate %v", ed.Document().Len(), ed.Registry().Validate())
	}
}

func TestHistoryLimitFromConfig(t *testing.T) {
	ed := newEditor(t, func(c *config.Config) { c.Editor.HistoryLimit = 3 })
	for i := range 5 {
		if _, err := ed.AddNode(float64(i*50), 0, 10, ""); err != nil {
			t.Fatal(err)
		}
	}
	if got := ed.History().Len(); got != 3 {
		t.Errorf("History().Len() = %d, want 3", got)
	}
}

func TestParallelSpacingFromConfig(t *testing.T) {
	must := mustID(t)
	ed := newEditor(t, func(c *config.Config) { c.Graph.ParallelSpacing = 12 })
	a := must(ed.AddNode(0, 0, 20, "A"))
	b := must(ed.AddNode(200, 0, 20, "B"))
	must(ed.AddEdge(a, b, shape.DirectionNone))
	id := must(ed.AddEdge(a, b, shape.DirectionNone))
	s, _ := ed.Shape(id)
	if off := s.(*shape.Edge).CurveOffset(); off != 12 && off != -12 {
		t.Errorf("CurveOffset() = %v, want ±12", off)
	}
}

func TestHitTestTolerance(t *testing.T) {
	must := mustID(t)
	ed := newEditor(t, func(c *config.Config) { c.Editor.Tolerance = 2 })
	id := must(ed.AddShape(shape.NewLine(0, 0, 100, 0)))

	if _, ok := ed.HitTest(geom.Pt(50, 4)); ok {
		t.Error("hit outside tolerance 2")
	}
	got, ok := ed.HitTest(geom.Pt(50, 1.5))
	if !ok || got.ID() != id {
		t.Errorf("HitTest = %v, %v; want line", got, ok)
	}
}

func TestPrepare(t *testing.T) {
	must := mustID(t)
	ed := newEditor(t, func(c *config.Config) {
		c.Editor.PathSamples = 7
		c.Editor.TextLineHeight = 1.5
	})
	p, err := shape.NewPathFromData("M0 0 Q50 50 100 0")
	if err != nil {
		t.Fatal(err)
	}
	txt := shape.NewText(0, 0, "hi")
	must(ed.AddShape(p))
	must(ed.AddShape(txt))
	if p.Samples != 7 {
		t.Errorf("path Samples = %d, want 7", p.Samples)
	}
	if txt.LineHeight != 1.5 {
		t.Errorf("text LineHeight = %v, want 1.5", txt.LineHeight)
	}
}

func TestLabelValidation(t *testing.T) {
	must := mustID(t)
	ed := newEditor(t)
	if _, err := ed.AddNode(0, 0, 10, "bad\x07"); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("AddNode(control char) = %v, want INVALID_INPUT", err)
	}
	id := must(ed.AddNode(0, 0, 10, "ok"))
	if err := ed.EditLabel(id, "two\nlines"); err != nil {
		t.Errorf("EditLabel = %v", err)
	}
}

func TestEventsPublished(t *testing.T) {
	bus := event.New()
	var topics []event.Topic
	bus.SubscribeAll(func(ev event.Event) { topics = append(topics, ev.Topic) })

	ed := New(Options{Bus: bus, Logger: log.New(io.Discard)})
	if _, err := ed.AddNode(0, 0, 10, "A"); err != nil {
		t.Fatal(err)
	}
	want := map[event.Topic]bool{event.ShapeAdded: false, event.HistoryChanged: false}
	for _, tp := range topics {
		if _, ok := want[tp]; ok {
			want[tp] = true
		}
	}
	for tp, seen := range want {
		if !seen {
			t.Errorf("topic %s not published", tp)
		}
	}
}

func TestApplyLayout(t *testing.T) {
	must := mustID(t)
	ed := newEditor(t)
	var ids []string
	for i := range 4 {
		ids = append(ids, must(ed.AddNode(float64(i), 0, 20, "")))
	}
	must(ed.AddEdge(ids[0], ids[1], shape.DirectionNone))

	before := centers(ed)
	if err := ed.ApplyLayout(context.Background(), "circle"); err != nil {
		t.Fatal(err)
	}
	after := centers(ed)
	if after[ids[0]] == after[ids[1]] {
		t.Error("layout left nodes stacked")
	}
	if err := ed.Undo(); err != nil {
		t.Fatal(err)
	}
	for id, p := range centers(ed) {
		if p != before[id] {
			t.Errorf("undo layout: %s = %v, want %v", id, p, before[id])
		}
	}

	empty := newEditor(t)
	if err := empty.ApplyLayout(context.Background(), "circle"); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("ApplyLayout(empty) = %v, want INVALID_INPUT", err)
	}
	if err := ed.ApplyLayout(context.Background(), "spring"); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("ApplyLayout(spring) = %v, want INVALID_INPUT", err)
	}
}

func centers(ed *Editor) map[string]geom.Point {
	out := make(map[string]geom.Point)
	for _, n := range ed.Document().Nodes() {
		out[n.ID()] = n.Center()
	}
	return out
}

func TestSnapshotLoad(t *testing.T) {
	must := mustID(t)
	src := newEditor(t)
	a := must(src.AddNode(0, 0, 20, "A"))
	must(src.AddEdge(a, a, shape.DirectionForward))
	must(src.AddShape(shape.NewRectangle(10, 10, 30, 30)))

	dst := newEditor(t, func(c *config.Config) { c.Graph.SelfLoopBow = 3 })
	if _, err := dst.AddNode(0, 0, 5, "stale"); err != nil {
		t.Fatal(err)
	}
	if err := dst.Load(src.Snapshot()); err != nil {
		t.Fatal(err)
	}
	if dst.History().CanUndo() {
		t.Error("Load should clear history")
	}
	if got, want := dst.Document().Order(), src.Document().Order(); len(got) != len(want) || got[0] != want[0] {
		t.Errorf("Order() = %v, want %v", got, want)
	}

	// Bow 3 reaches further than the source's 1.5.
	loopSrc := src.Document().Edges()[0].Path().Bounds(20)
	loopDst := dst.Document().Edges()[0].Path().Bounds(20)
	if loopDst.Width*loopDst.Height <= loopSrc.Width*loopSrc.Height {
		t.Errorf("loaded loop %v not larger than source %v", loopDst, loopSrc)
	}
}

func TestArrangement(t *testing.T) {
	must := mustID(t)
	ed := newEditor(t)
	r1 := must(ed.AddShape(shape.NewRectangle(0, 0, 40, 40)))
	r2 := must(ed.AddShape(shape.NewRectangle(50, 0, 40, 40)))
	r3 := must(ed.AddShape(shape.NewRectangle(200, 0, 40, 40)))

	if err := ed.Distribute([]string{r1, r2, r3}, command.Horizontal); err != nil {
		t.Fatal(err)
	}
	s2, _ := ed.Shape(r2)
	if x := s2.Bounds().X; x != 100 {
		t.Errorf("middle x = %v, want 100", x)
	}

	if err := ed.Reorder([]string{r1}, command.BringToFront); err != nil {
		t.Fatal(err)
	}
	if order := ed.Document().Order(); order[2] != r1 {
		t.Errorf("Order() = %v, want %s on top", order, r1)
	}

	g := must(ed.Group([]string{r2, r3}))
	if ed.Document().Len() != 2 {
		t.Errorf("Len() after group = %d, want 2", ed.Document().Len())
	}
	if err := ed.Ungroup(g); err != nil {
		t.Fatal(err)
	}
	if ed.Document().Len() != 3 {
		t.Errorf("Len() after ungroup = %d, want 3", ed.Document().Len())
	}

	if err := ed.Rotate(r1, 450); err != nil {
		t.Fatal(err)
	}
	s1, _ := ed.Shape(r1)
	if s1.Rotation() != 90 {
		t.Errorf("Rotation() = %v, want 90", s1.Rotation())
	}
	if err := ed.Resize(r1, 80, 20); err != nil {
		t.Fatal(err)
	}
	if b := s1.(*shape.Rectangle); b.Width != 80 || b.Height != 20 {
		t.Errorf("size = %vx%v, want 80x20", b.Width, b.Height)
	}
	if err := ed.SetStyle([]string{r1}, func(s shape.Style) shape.Style { s.Fill = "#ff0000"; return s }); err != nil {
		t.Fatal(err)
	}
	if s1.Style().Fill != "#ff0000" {
		t.Errorf("Fill = %q", s1.Style().Fill)
	}
}

func TestRotateAll(t *testing.T) {
	must := mustID(t)
	ed := newEditor(t)
	r1 := must(ed.AddShape(shape.NewRectangle(0, 0, 40, 40)))
	r2 := must(ed.AddShape(shape.NewEllipse(100, 100, 10, 20)))
	a := must(ed.AddNode(0, 200, 20, "a"))
	b := must(ed.AddNode(200, 200, 20, "b"))
	e := must(ed.AddEdge(a, b, shape.DirectionForward))
	steps := ed.History().Len()

	if err := ed.RotateAll([]string{r1, r2}, 45); err != nil {
		t.Fatal(err)
	}
	if got := ed.History().Len(); got != steps+1 {
		t.Errorf("History().Len() = %d, want %d", got, steps+1)
	}
	for _, id := range []string{r1, r2} {
		if s, _ := ed.Shape(id); s.Rotation() != 45 {
			t.Errorf("%s rotation = %v, want 45", id, s.Rotation())
		}
	}

	if err := ed.Undo(); err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{r1, r2} {
		if s, _ := ed.Shape(id); s.Rotation() != 0 {
			t.Errorf("after undo %s rotation = %v, want 0", id, s.Rotation())
		}
	}

	if err := ed.RotateAll([]string{r1, e}, 30); !errs.Is(err, errs.ErrCodeInvalidCommand) {
		t.Errorf("rotate with edge: err = %v, want INVALID_COMMAND", err)
	}
	if s, _ := ed.Shape(r1); s.Rotation() != 0 {
		t.Error("failed RotateAll must not rotate anything")
	}
	if err := ed.RotateAll(nil, 30); !errs.Is(err, errs.ErrCodeInvalidCommand) {
		t.Errorf("rotate nothing: err = %v, want INVALID_COMMAND", err)
	}
}
