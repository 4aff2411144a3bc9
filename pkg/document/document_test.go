package document

import (
	"encoding/json"
	"io"
	"slices"
	"testing"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/drawgraph/pkg/errors"
	"github.com/matzehuels/drawgraph/pkg/event"
	"github.com/matzehuels/drawgraph/pkg/geom"
	"github.com/matzehuels/drawgraph/pkg/shape"
)

func quietOptions(bus *event.Bus) Options {
	return Options{Bus: bus, Logger: log.New(io.Discard)}
}

func filled(s shape.Shape) shape.Shape {
	st := s.Style()
	st.Fill = "#cccccc"
	s.SetStyle(st)
	return s
}

func TestInsertRemove(t *testing.T) {
	bus := event.New()
	var added, removed []string
	bus.Subscribe(event.ShapeAdded, func(e event.Event) { added = append(added, e.Payload.(event.ShapeChange).ID) })
	bus.Subscribe(event.ShapeRemoved, func(e event.Event) { removed = append(removed, e.Payload.(event.ShapeChange).ID) })

	d := New(quietOptions(bus))
	a := shape.NewRectangle(0, 0, 10, 10)
	b := shape.NewEllipse(5, 5, 5, 5)
	c := shape.NewLine(0, 0, 1, 1)
	_ = d.Append(a)
	_ = d.Append(b)
	_ = d.Insert(0, c)

	if got, want := d.Order(), []string{c.ID(), a.ID(), b.ID()}; !slices.Equal(got, want) {
		t.Errorf("Order() = %v, want %v", got, want)
	}
	if err := d.Append(a); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("duplicate Append() = %v, want INVALID_INPUT", err)
	}

	s, idx, ok := d.Remove(a.ID())
	if !ok || idx != 1 || s != shape.Shape(a) {
		t.Errorf("Remove() = %v, %d, %v", s, idx, ok)
	}
	if _, _, ok := d.Remove(a.ID()); ok {
		t.Error("second Remove() should fail")
	}
	if len(added) != 3 || len(removed) != 1 {
		t.Errorf("events: added %d removed %d, want 3 and 1", len(added), len(removed))
	}
}

func TestGraphRegistration(t *testing.T) {
	d := New(quietOptions(nil))
	a := shape.NewNode(0, 0, 10, "A")
	b := shape.NewNode(100, 0, 10, "B")
	e := shape.NewEdge(a.ID(), b.ID(), nil)
	for _, s := range []shape.Shape{a, b, e} {
		if err := d.Append(s); err != nil {
			t.Fatal(err)
		}
	}

	reg := d.Registry()
	if _, ok := reg.Node(a.ID()); !ok {
		t.Error("node not registered")
	}
	if ids := reg.EdgeIDsForNode(a.ID()); !slices.Equal(ids, []string{e.ID()}) {
		t.Errorf("EdgeIDsForNode() = %v", ids)
	}
	if e.Path().Empty() {
		t.Error("edge should be bound to the registry")
	}
	if got := len(d.Nodes()); got != 2 {
		t.Errorf("Nodes() = %d, want 2", got)
	}

	d.Remove(e.ID())
	if len(reg.EdgeIDsForNode(a.ID())) != 0 {
		t.Error("removed edge still registered")
	}
}

func TestHitTestTopmost(t *testing.T) {
	d := New(quietOptions(nil))
	bottom := filled(shape.NewRectangle(0, 0, 100, 100))
	top := filled(shape.NewRectangle(40, 40, 20, 20))
	_ = d.Append(bottom)
	_ = d.Append(top)

	tests := []struct {
		p    geom.Point
		want string
	}{
		{geom.Pt(50, 50), top.ID()},
		{geom.Pt(10, 10), bottom.ID()},
		{geom.Pt(500, 500), ""},
	}
	for _, tt := range tests {
		s, ok := d.HitTest(tt.p, shape.DefaultTolerance)
		got := ""
		if ok {
			got = s.ID()
		}
		if got != tt.want {
			t.Errorf("HitTest(%v) = %q, want %q", tt.p, got, tt.want)
		}
	}
	if n := len(d.HitTestAll(geom.Pt(50, 50), 0)); n != 2 {
		t.Errorf("HitTestAll() = %d shapes, want 2", n)
	}
}

func TestSetOrder(t *testing.T) {
	d := New(quietOptions(nil))
	a, b := shape.NewLine(0, 0, 1, 1), shape.NewLine(0, 0, 2, 2)
	_ = d.Append(a)
	_ = d.Append(b)

	if err := d.SetOrder([]string{b.ID(), a.ID()}); err != nil {
		t.Fatal(err)
	}
	if got := d.Order(); got[0] != b.ID() {
		t.Errorf("Order() = %v", got)
	}

	bad := [][]string{
		{a.ID()},
		{a.ID(), a.ID()},
		{a.ID(), "nope"},
	}
	for _, ids := range bad {
		if err := d.SetOrder(ids); err == nil {
			t.Errorf("SetOrder(%v) expected error", ids)
		}
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	src := New(quietOptions(nil))
	a := shape.NewNode(0, 0, 10, "A")
	b := shape.NewNode(100, 0, 10, "B")
	e := shape.NewEdge(a.ID(), b.ID(), nil)
	r := shape.NewRectangle(1, 2, 3, 4)
	// Edge first: loading must not depend on record order.
	for _, s := range []shape.Shape{e, a, b, r} {
		_ = src.Append(s)
	}

	raw, err := json.Marshal(src.Snapshot())
	if err != nil {
		t.Fatal(err)
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		t.Fatal(err)
	}

	dst := New(quietOptions(nil))
	_ = dst.Append(shape.NewLine(0, 0, 5, 5))
	if err := dst.FromSnapshot(snap); err != nil {
		t.Fatal(err)
	}

	if got, want := dst.Order(), src.Order(); !slices.Equal(got, want) {
		t.Errorf("Order() = %v, want %v", got, want)
	}
	loaded, _ := dst.Shape(e.ID())
	if got, want := loaded.(*shape.Edge).Path(), e.Path(); got != want {
		t.Errorf("edge path = %+v, want %+v", got, want)
	}
	if err := dst.Registry().Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestFromSnapshotBadRecord(t *testing.T) {
	rect := func(id string) shape.Record {
		return shape.Record{ID: id, Type: shape.TypeRectangle, Attrs: map[string]any{"width": 10.0, "height": 10.0}}
	}
	node := shape.Record{ID: "n1", Type: shape.TypeNode, Attrs: map[string]any{"rx": 20.0, "ry": 20.0}}

	tests := []struct {
		name   string
		shapes []shape.Record
	}{
		{"UnknownType", []shape.Record{{Type: "blob"}}},
		{"NodeInGroup", []shape.Record{{ID: "g", Type: shape.TypeGroup, Children: []shape.Record{node, rect("r1")}}}},
		{"EdgeInGroup", []shape.Record{node, {ID: "g", Type: shape.TypeGroup, Children: []shape.Record{
			{ID: "e", Type: shape.TypeEdge, Attrs: map[string]any{"source": "n1", "target": "n1"}},
		}}}},
		{"DuplicateID", []shape.Record{rect("r1"), node, rect("r1")}},
		{"DuplicateNestedID", []shape.Record{rect("r1"), {ID: "g", Type: shape.TypeGroup, Children: []shape.Record{rect("r1"), rect("r2")}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(quietOptions(nil))
			keep := shape.NewNode(0, 0, 10, "keep")
			_ = d.Append(keep)

			err := d.FromSnapshot(Snapshot{Version: SnapshotVersion, Shapes: tt.shapes})
			if !errs.Is(err, errs.ErrCodeInvalidRecord) {
				t.Errorf("err = %v, want INVALID_RECORD", err)
			}
			if d.Len() != 1 || d.IndexOf(keep.ID()) != 0 {
				t.Errorf("failed load should leave the document untouched, got %v", d.Order())
			}
			if got := d.Registry().NodeIDs(); !slices.Equal(got, []string{keep.ID()}) {
				t.Errorf("NodeIDs() = %v, want only the kept node", got)
			}
		})
	}
}
