package cli

import (
	"context"
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/drawgraph/pkg/editor"
	errs "github.com/matzehuels/drawgraph/pkg/errors"
	"github.com/matzehuels/drawgraph/pkg/geom"
	"github.com/matzehuels/drawgraph/pkg/shape"
)

func newTestInterpreter() *Interpreter {
	quiet := log.New(io.Discard)
	return NewInterpreter(editor.New(editor.Options{Logger: quiet}), quiet)
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		line string
		want []token
	}{
		{"", nil},
		{"   # only a comment", nil},
		{"node a 1 2", []token{{value: "node"}, {value: "a"}, {value: "1"}, {value: "2"}}},
		{`text t 0 0 "a = b"`, []token{{value: "text"}, {value: "t"}, {value: "0"}, {value: "0"}, {value: "a = b"}}},
		{`node a 1 2 label="Hello world" r=5`, []token{
			{value: "node"}, {value: "a"}, {value: "1"}, {value: "2"},
			{key: "label", value: "Hello world"}, {key: "r", value: "5"},
		}},
		{"style a fill=#fff # trailing", []token{{value: "style"}, {value: "a"}, {key: "fill", value: "#fff"}}},
		{"label a x=y=z", []token{{value: "label"}, {value: "a"}, {key: "x", value: "y=z"}}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := tokenize(tt.line)
			if err != nil {
				t.Fatal(err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Got = %+v, want %+v", got, tt.want)
			}
		})
	}

	if _, err := tokenize(`text t 0 0 "open`); !errs.Is(err, errs.ErrCodeInvalidScript) {
		t.Errorf("unterminated string: err = %v", err)
	}
}

const demoScript = `
# two nodes and a pair of edges
node a 0 0 r=20
node b 200 0 r=20 label="Node B"
edge ab a b
edge ba b a dir=none
rect box 10 100 40 20 fill=#eeeeee
text t 0 200 "hello = world"
polygon tri 0,0 10,0 5,10
move 10 0 a
rotate box 90
style box stroke=#ff0000 width=3 dash=4,2
label b "Renamed"
front a
undo
redo
`

func TestRunScript(t *testing.T) {
	in := newTestInterpreter()
	n, err := in.Run(context.Background(), strings.NewReader(demoScript))
	if err != nil {
		t.Fatal(err)
	}
	if n != 14 {
		t.Errorf("operations = %d, want 14", n)
	}

	ed := in.ed
	if got := ed.Document().Len(); got != 7 {
		t.Errorf("Len() = %d, want 7", got)
	}
	ids := in.Aliases()

	a, _ := ed.Shape(ids["a"])
	if c := a.(*shape.Node).Center(); c != geom.Pt(10, 0) {
		t.Errorf("a center = %v, want (10,0)", c)
	}
	b, _ := ed.Shape(ids["b"])
	if got := b.(*shape.Node).Label(); got != "Renamed" {
		t.Errorf("b label = %q", got)
	}
	box, _ := ed.Shape(ids["box"])
	if box.Rotation() != 90 {
		t.Errorf("box rotation = %v", box.Rotation())
	}
	st := box.Style()
	if st.Stroke != "#ff0000" || st.StrokeWidth != 3 || !slices.Equal(st.Dash, []float64{4, 2}) || st.Fill != "#eeeeee" {
		t.Errorf("box style = %+v", st)
	}
	txt, _ := ed.Shape(ids["t"])
	if got := txt.(*shape.Text).Content; got != "hello = world" {
		t.Errorf("text = %q", got)
	}
	ab, _ := ed.Shape(ids["ab"])
	ba, _ := ed.Shape(ids["ba"])
	if ab.(*shape.Edge).CurveOffset() == ba.(*shape.Edge).CurveOffset() {
		t.Error("parallel edges share an offset")
	}
	if ba.(*shape.Edge).Direction() != shape.DirectionNone {
		t.Errorf("ba direction = %v", ba.(*shape.Edge).Direction())
	}
	if order := ed.Document().Order(); order[len(order)-1] != ids["a"] {
		t.Errorf("a not on top after front/undo/redo: %v", order)
	}
}

func TestRunScriptErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		code   errs.Code
		line   string
	}{
		{"UnknownOp", "explode a", errs.ErrCodeInvalidScript, "line 1"},
		{"Usage", "node a 1", errs.ErrCodeInvalidScript, "line 1"},
		{"BadNumber", "node a one 2", errs.ErrCodeInvalidScript, "line 1"},
		{"UnknownRef", "node a 0 0\nmove 1 1 ghost", errs.ErrCodeShapeNotFound, "line 2"},
		{"DuplicateAlias", "node a 0 0\nnode a 5 5", errs.ErrCodeInvalidScript, "line 2"},
		{"BadAlias", "node 9lives 0 0", errs.ErrCodeInvalidScript, "line 1"},
		{"BadDirection", "node a 0 0\nedge e a a dir=up", errs.ErrCodeInvalidScript, "line 2"},
		{"EdgeRotation", "node a 0 0\nnode b 9 9\nedge e a b\nrotate e 45", errs.ErrCodeInvalidCommand, "line 4"},
		{"StyleWithoutOptions", "node a 0 0\nstyle a", errs.ErrCodeInvalidScript, "line 2"},
		{"Unterminated", `text t 0 0 "oops`, errs.ErrCodeInvalidScript, "line 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestInterpreter().Run(context.Background(), strings.NewReader(tt.script))
			if !errs.Is(err, tt.code) {
				t.Fatalf("err = %v, want code %s", err, tt.code)
			}
			if !strings.Contains(err.Error(), tt.line) {
				t.Errorf("err = %v, want %q", err, tt.line)
			}
		})
	}
}

func TestRunStopsAtFailure(t *testing.T) {
	in := newTestInterpreter()
	n, err := in.Run(context.Background(), strings.NewReader("node a 0 0\nbogus\nnode b 1 1"))
	if err == nil {
		t.Fatal("expected error")
	}
	if n != 1 || in.ed.Document().Len() != 1 {
		t.Errorf("ran %d operations, %d shapes; want 1, 1", n, in.ed.Document().Len())
	}
}

func TestVerbs(t *testing.T) {
	want := []string{"node", "edge", "rect", "ellipse", "line", "text", "polygon", "polyline",
		"move", "rotate", "resize", "delete", "front", "back", "forward", "backward",
		"distribute", "group", "ungroup", "style", "label", "undo", "redo", "layout"}
	verbs := Verbs()
	for _, v := range want {
		if !slices.Contains(verbs, v) {
			t.Errorf("missing verb %q", v)
		}
	}
}

func TestGroupAndDistribute(t *testing.T) {
	in := newTestInterpreter()
	script := `
rect r1 0 0 40 40
rect r2 50 0 40 40
rect r3 200 0 40 40
distribute horizontal r1 r2 r3
group g r1 r2
ungroup g
delete r3
`
	if _, err := in.Run(context.Background(), strings.NewReader(script)); err != nil {
		t.Fatal(err)
	}
	r2, _ := in.ed.Shape(in.Aliases()["r2"])
	if x := r2.Bounds().X; x != 100 {
		t.Errorf("r2 x = %v, want 100", x)
	}
	if in.ed.Document().Len() != 2 {
		t.Errorf("Len() = %d, want 2", in.ed.Document().Len())
	}
}

func TestRotateSeveral(t *testing.T) {
	in := newTestInterpreter()
	script := `
rect r1 0 0 40 20
ellipse e1 100 100 10 5
rotate r1 e1 90
`
	if _, err := in.Run(context.Background(), strings.NewReader(script)); err != nil {
		t.Fatal(err)
	}
	ids := in.Aliases()
	for _, alias := range []string{"r1", "e1"} {
		if s, _ := in.ed.Shape(ids[alias]); s.Rotation() != 90 {
			t.Errorf("%s rotation = %v, want 90", alias, s.Rotation())
		}
	}
	if err := in.Exec(context.Background(), "undo"); err != nil {
		t.Fatal(err)
	}
	for _, alias := range []string{"r1", "e1"} {
		if s, _ := in.ed.Shape(ids[alias]); s.Rotation() != 0 {
			t.Errorf("%s rotation after one undo = %v, want 0", alias, s.Rotation())
		}
	}
}
