package shape

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/drawgraph/pkg/errors"
	"github.com/matzehuels/drawgraph/pkg/geom"
	"github.com/matzehuels/drawgraph/pkg/route"
)

type nodeMap map[string]*Node

func (m nodeMap) Node(id string) (*Node, bool) {
	n, ok := m[id]
	return n, ok
}

func TestRectangleHitTest(t *testing.T) {
	outline := NewRectangle(0, 0, 100, 50)
	filled := NewRectangle(0, 0, 100, 50)
	st := filled.Style()
	st.Fill = "#ff0000"
	filled.SetStyle(st)

	tests := []struct {
		name  string
		shape Shape
		p     geom.Point
		want  bool
	}{
		{"outline center", outline, geom.Pt(50, 25), false},
		{"outline near edge", outline, geom.Pt(2, 25), true},
		{"outline just outside", outline, geom.Pt(104, 25), true},
		{"outline far outside", outline, geom.Pt(106, 25), false},
		{"filled center", filled, geom.Pt(50, 25), true},
		{"filled outside", filled, geom.Pt(50, 60), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.shape.HitTest(tt.p, DefaultTolerance); got != tt.want {
				t.Errorf("HitTest(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestRotatedRectangle(t *testing.T) {
	r := NewRectangle(0, 0, 100, 50)
	if err := r.SetRotation(90); err != nil {
		t.Fatal(err)
	}

	if !r.HitTest(geom.Pt(50, -20), DefaultTolerance) {
		t.Error("rotated outline should hit above the unrotated box")
	}
	if r.HitTest(geom.Pt(95, 25), DefaultTolerance) {
		t.Error("rotated outline should not hit the unrotated right edge")
	}

	want := geom.Bounds{X: 25, Y: -25, Width: 50, Height: 100}
	if got := r.Bounds(); got != want {
		t.Errorf("Bounds() = %v, want %v", got, want)
	}

	// Rotation must not disturb the stored geometry.
	if r.X != 0 || r.Y != 0 || r.Width != 100 || r.Height != 50 {
		t.Errorf("geometry changed by rotation: %+v", r.Geometry())
	}
}

func TestRotationNormalised(t *testing.T) {
	e := NewEllipse(0, 0, 10, 10)
	tests := []struct {
		in, want float64
	}{
		{360, 0},
		{-90, 270},
		{450, 90},
		{12.34567, 12.346},
	}
	for _, tt := range tests {
		if err := e.SetRotation(tt.in); err != nil {
			t.Fatal(err)
		}
		if got := e.Rotation(); got != tt.want {
			t.Errorf("SetRotation(%v): Rotation() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestApplyTransformFlipsBoxAnchor(t *testing.T) {
	r := NewRectangle(10, 0, 20, 10)
	r.ApplyTransform(0, 0, -1, 1)
	want := BoxGeometry{X: -30, Y: 0, Width: 20, Height: 10}
	if got := r.Geometry(); got != want {
		t.Errorf("Geometry() = %+v, want %+v", got, want)
	}

	im := NewImage(0, 0, 10, 10, "a.png")
	im.ApplyTransform(5, 5, 2, -1)
	want = BoxGeometry{X: 5, Y: -5, Width: 20, Height: 10}
	if got := im.Geometry(); got != want {
		t.Errorf("Image Geometry() = %+v, want %+v", got, want)
	}
}

func TestEllipseHitTest(t *testing.T) {
	e := NewEllipse(0, 0, 50, 25)
	tests := []struct {
		name string
		p    geom.Point
		want bool
	}{
		{"on outline", geom.Pt(50, 0), true},
		{"near outline", geom.Pt(0, 27), true},
		{"center unfilled", geom.Pt(0, 0), false},
		{"outside", geom.Pt(0, 40), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.HitTest(tt.p, DefaultTolerance); got != tt.want {
				t.Errorf("HitTest(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}

	dot := NewEllipse(10, 10, 0, 0)
	if !dot.HitTest(geom.Pt(13, 10), DefaultTolerance) {
		t.Error("zero-radius ellipse should hit within tolerance of its center")
	}
	if got := dot.Bounds(); got != (geom.Bounds{X: 10, Y: 10}) {
		t.Errorf("zero-radius Bounds() = %v", got)
	}
}

func TestTextBounds(t *testing.T) {
	txt := NewText(0, 0, "hello\nhi")
	want := geom.Bounds{Width: 48, Height: 38.4}
	if got := txt.Bounds(); got != want {
		t.Errorf("approximate Bounds() = %v, want %v", got, want)
	}

	txt.Measurer = NewBasicMeasurer()
	txt.FontSize = 13
	txt.LineHeight = 1
	want = geom.Bounds{Width: 35, Height: 26}
	if got := txt.Bounds(); got != want {
		t.Errorf("measured Bounds() = %v, want %v", got, want)
	}

	txt.ApplyTransform(0, 0, 3, -2)
	if txt.FontSize != 26 {
		t.Errorf("FontSize = %v, want 26", txt.FontSize)
	}
}

func TestPolygonHitTest(t *testing.T) {
	pg := NewPolygon(geom.Pt(0, 0), geom.Pt(100, 0), geom.Pt(0, 100))
	if pg.HitTest(geom.Pt(10, 10), DefaultTolerance) {
		t.Error("unfilled polygon interior should not hit")
	}
	if !pg.HitTest(geom.Pt(2, 50), DefaultTolerance) {
		t.Error("closing edge should hit")
	}
	st := pg.Style()
	st.Fill = "blue"
	pg.SetStyle(st)
	if !pg.HitTest(geom.Pt(10, 10), DefaultTolerance) {
		t.Error("filled polygon interior should hit")
	}

	pl := NewPolyline(geom.Pt(0, 0), geom.Pt(100, 0), geom.Pt(0, 100))
	if pl.HitTest(geom.Pt(2, 50), DefaultTolerance) {
		t.Error("polyline is open and should not hit the closing edge")
	}

	empty := NewPolygon()
	if empty.HitTest(geom.Pt(0, 0), DefaultTolerance) {
		t.Error("empty polygon should never hit")
	}
}

func TestParsePathData(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "M 10 20 L 30 40 Q 50 60 70 80 Z", want: "M 10 20 L 30 40 Q 50 60 70 80 Z"},
		{in: "m10,10 l10,0 v10 h-10 z", want: "M 10 10 L 20 10 L 20 20 L 10 20 Z"},
		{in: "M0 0 10 10 20 0", want: "M 0 0 L 10 10 L 20 0"},
		{in: "M0-5C1e1,0 2.5.5 30 0", want: "M 0 -5 C 10 0 2.5 0.5 30 0"},
		{in: "L", wantErr: true},
		{in: "10 20", wantErr: true},
		{in: "M 0 0 A 1 1 0 0 1 2 2", wantErr: true},
		{in: "M 0 0 Z 5", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			segs, err := ParsePathData(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParsePathData(%q) expected error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePathData(%q): %v", tt.in, err)
			}
			if got := FormatPathData(segs); got != tt.want {
				t.Errorf("Got = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPathHitTest(t *testing.T) {
	curve, err := NewPathFromData("M 0 0 Q 50 100 100 0")
	if err != nil {
		t.Fatal(err)
	}
	if !curve.HitTest(geom.Pt(50, 50), 1) {
		t.Error("curve apex should hit")
	}
	if curve.HitTest(geom.Pt(50, 0), DefaultTolerance) {
		t.Error("chord midpoint should not hit an unfilled curve")
	}

	curve.Move(10, 0)
	if !curve.HitTest(geom.Pt(60, 50), 1) {
		t.Error("moved curve apex should hit")
	}
}

func TestEdgePath(t *testing.T) {
	nodes := nodeMap{
		"a": NewNode(0, 0, 10, "A"),
		"b": NewNode(100, 0, 10, "B"),
	}
	e := NewEdge("a", "b", nodes)

	p := e.Path()
	if p.Kind != route.Straight || p.Start != geom.Pt(10, 0) || p.End != geom.Pt(90, 0) {
		t.Errorf("Path() = %+v", p)
	}
	if !e.HitTest(geom.Pt(50, 2), DefaultTolerance) {
		t.Error("edge should hit near its segment")
	}

	// Moving a node re-routes the edge on the next query.
	nodes["b"].Move(0, 100)
	if e.HitTest(geom.Pt(50, 2), DefaultTolerance) {
		t.Error("edge should follow the moved node")
	}

	dangling := NewEdge("a", "missing", nodes)
	if !dangling.Path().Empty() || dangling.HitTest(geom.Pt(0, 0), 100) {
		t.Error("edge with an unresolved endpoint should have an empty path")
	}
	if got := dangling.Bounds(); !got.IsEmpty() {
		t.Errorf("dangling Bounds() = %v, want empty", got)
	}

	loop := NewEdge("a", "a", nodes)
	if !loop.IsSelfLoop() || loop.Path().Kind != route.Cubic {
		t.Error("edge to itself should route as a cubic self-loop")
	}
}

func TestEdgeRotation(t *testing.T) {
	e := NewEdge("a", "b", nil)
	if err := e.SetRotation(90); !errors.Is(err, ErrEdgeRotation) {
		t.Errorf("SetRotation(90) = %v, want ErrEdgeRotation", err)
	}
	if err := e.SetRotation(360); err != nil {
		t.Errorf("SetRotation(360) = %v, want nil", err)
	}
	if e.Rotation() != 0 {
		t.Errorf("Rotation() = %v, want 0", e.Rotation())
	}
}

func TestGroup(t *testing.T) {
	r := NewRectangle(0, 0, 10, 10)
	e := NewEllipse(50, 50, 10, 10)
	g := NewGroup(r, e)

	want := geom.Bounds{X: 0, Y: 0, Width: 60, Height: 60}
	if got := g.Bounds(); got != want {
		t.Errorf("Bounds() = %v, want %v", got, want)
	}

	c := g.Clone().(*Group)
	if c.ID() == g.ID() {
		t.Error("clone kept the group id")
	}
	kids := c.Children()
	if kids[0].ID() == r.ID() || kids[1].ID() == e.ID() {
		t.Error("clone kept a child id")
	}
	c.Move(100, 0)
	if r.X != 0 {
		t.Errorf("moving the clone moved the original: X = %v", r.X)
	}

	g.Move(5, 5)
	if r.X != 5 || e.CX != 55 {
		t.Errorf("group move not propagated: rect X = %v, ellipse CX = %v", r.X, e.CX)
	}
	if !g.HitTest(geom.Pt(65, 55), DefaultTolerance) {
		t.Error("group should hit through its children")
	}
}

func TestStyleIsCopied(t *testing.T) {
	r := NewRectangle(0, 0, 1, 1)
	st := r.Style()
	st.Dash = []float64{4, 2}
	r.SetStyle(st)
	st.Dash[0] = 99
	if got := r.Style().Dash[0]; got != 4 {
		t.Errorf("style aliased caller slice: Dash[0] = %v", got)
	}
	got := r.Style()
	got.Dash[1] = 99
	if r.Style().Dash[1] != 2 {
		t.Error("Style() returned an aliased slice")
	}
}

func TestRecordRoundTrip(t *testing.T) {
	nodes := nodeMap{"a": NewNode(0, 0, 10, "A"), "b": NewNode(100, 0, 10, "B")}
	edge := NewEdge("a", "b", nodes)
	edge.SetCurveOffset(-30)
	edge.SetDirection(DirectionBackward)

	poly := NewPolygon(geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(5, 8.5))
	_ = poly.SetRotation(45)
	group := NewGroup(NewLine(0, 0, 10, 10), NewText(1, 2, "label"))

	for _, s := range []Shape{edge, poly, group, nodes["a"]} {
		t.Run(string(s.Type()), func(t *testing.T) {
			// Through JSON so attribute values come back loosely typed.
			raw, err := json.Marshal(s.Serialize())
			if err != nil {
				t.Fatal(err)
			}
			var rec Record
			if err := json.Unmarshal(raw, &rec); err != nil {
				t.Fatal(err)
			}
			got, err := FromRecord(rec, nodes)
			if err != nil {
				t.Fatalf("FromRecord: %v", err)
			}
			if got.ID() != s.ID() || got.Type() != s.Type() || got.Rotation() != s.Rotation() {
				t.Errorf("identity lost: got %s/%s/%v", got.ID(), got.Type(), got.Rotation())
			}
			if got.Bounds() != s.Bounds() {
				t.Errorf("Bounds() = %v, want %v", got.Bounds(), s.Bounds())
			}
		})
	}

	back, _ := FromRecord(edge.Serialize(), nodes)
	be := back.(*Edge)
	if be.CurveOffset() != -30 || be.Direction() != DirectionBackward || be.Source() != "a" {
		t.Errorf("edge fields lost: %+v", be.Serialize().Attrs)
	}
}

func TestFromRecordUnknownType(t *testing.T) {
	_, err := FromRecord(Record{Type: "hexagon"}, nil)
	if !errs.Is(err, errs.ErrCodeInvalidRecord) {
		t.Errorf("err = %v, want INVALID_RECORD", err)
	}
}

func TestSetGeometryMismatch(t *testing.T) {
	l := NewLine(0, 0, 1, 1)
	err := l.SetGeometry(BoxGeometry{Width: 1})
	if !errs.Is(err, errs.ErrCodeInvalidShape) {
		t.Errorf("err = %v, want INVALID_SHAPE", err)
	}
}

func TestApplyMatrix(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(log.New(&buf))
	defer SetLogger(nil)

	r := NewRectangle(0, 0, 10, 10)
	ApplyMatrix(r, geom.MatrixFromSVG(1, 0, 0.5, 1, 0, 0))
	if !strings.Contains(buf.String(), "dropping skew") {
		t.Errorf("expected skew warning, log = %q", buf.String())
	}
	if r.Width != 10 || r.Rotation() != 0 {
		t.Errorf("skew-only matrix changed the shape: %+v rot %v", r.Geometry(), r.Rotation())
	}

	buf.Reset()
	ApplyMatrix(r, geom.MatrixFromSVG(0, 1, -1, 0, 0, 0))
	if r.Rotation() != 90 {
		t.Errorf("Rotation() = %v, want 90", r.Rotation())
	}
	if buf.Len() != 0 {
		t.Errorf("pure rotation should not warn, log = %q", buf.String())
	}

	ApplyMatrix(r, geom.MatrixFromSVG(2, 0, 0, 2, 5, 5))
	if want := (BoxGeometry{X: 5, Y: 5, Width: 20, Height: 20}); r.Geometry() != want {
		t.Errorf("Geometry() = %+v, want %+v", r.Geometry(), want)
	}
}
