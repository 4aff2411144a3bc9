package cli

import (
	"bufio"
	"context"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/drawgraph/pkg/command"
	"github.com/matzehuels/drawgraph/pkg/editor"
	errs "github.com/matzehuels/drawgraph/pkg/errors"
	"github.com/matzehuels/drawgraph/pkg/geom"
	"github.com/matzehuels/drawgraph/pkg/shape"
)

// =============================================================================
// Edit scripts
// =============================================================================
//
// An edit script holds one operation per line. Shapes are created under an
// alias that later lines use in place of the generated id; raw ids work
// too. Options are key=value pairs and strings may be double-quoted.
//
//	node a 100 100 label="Start"
//	node b 300 100 r=40
//	edge ab a b dir=forward
//	rect box 50 250 120 60 fill=#eeeeee
//	move 0 20 a b
//	layout neato
//	undo

// Interpreter runs edit scripts against an editor.
type Interpreter struct {
	ed      *editor.Editor
	aliases map[string]string
	logger  *log.Logger
}

// NewInterpreter returns an interpreter over ed.
func NewInterpreter(ed *editor.Editor, logger *log.Logger) *Interpreter {
	if logger == nil {
		logger = log.Default()
	}
	return &Interpreter{ed: ed, aliases: make(map[string]string), logger: logger}
}

// Aliases returns a copy of the alias table.
func (in *Interpreter) Aliases() map[string]string {
	out := make(map[string]string, len(in.aliases))
	for k, v := range in.aliases {
		out[k] = v
	}
	return out
}

// Run executes every line of r. It stops at the first failing line.
func (in *Interpreter) Run(ctx context.Context, r io.Reader) (int, error) {
	sc := bufio.NewScanner(r)
	n, ops := 0, 0
	for sc.Scan() {
		n++
		if err := ctx.Err(); err != nil {
			return ops, err
		}
		toks, err := tokenize(sc.Text())
		if err == nil && len(toks) == 0 {
			continue
		}
		if err == nil {
			err = in.exec(ctx, toks)
		}
		if err != nil {
			return ops, lineError(n, err)
		}
		ops++
	}
	if err := sc.Err(); err != nil {
		return ops, err
	}
	in.logger.Debug("script finished", "lines", n, "operations", ops)
	return ops, nil
}

// lineError prefixes err's message with the script line, keeping its code.
func lineError(n int, err error) error {
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInvalidScript
	}
	return errs.New(code, "line %d: %s", n, errs.UserMessage(err))
}

// Exec runs a single line.
func (in *Interpreter) Exec(ctx context.Context, line string) error {
	toks, err := tokenize(line)
	if err != nil || len(toks) == 0 {
		return err
	}
	return in.exec(ctx, toks)
}

// token is one word of a line. Options carry their key separately so a
// quoted value containing '=' is never mistaken for an option.
type token struct {
	key   string
	value string
}

func (t token) isOption() bool { return t.key != "" }

func tokenize(line string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(line) {
		c := line[i]
		if c == ' ' || c == '\t' {
			i++
			continue
		}
		if c == '#' {
			break
		}

		var (
			b      strings.Builder
			tok    token
			quoted bool
		)
		for i < len(line) && line[i] != ' ' && line[i] != '\t' {
			switch {
			case line[i] == '"':
				q, err := strconv.QuotedPrefix(line[i:])
				if err != nil {
					return nil, errs.New(errs.ErrCodeInvalidScript, "unterminated string")
				}
				s, _ := strconv.Unquote(q)
				b.WriteString(s)
				i += len(q)
				quoted = true
			case line[i] == '=' && !quoted && tok.key == "" && b.Len() > 0:
				tok.key = b.String()
				b.Reset()
				i++
			default:
				b.WriteByte(line[i])
				i++
			}
		}
		tok.value = b.String()
		toks = append(toks, tok)
	}
	return toks, nil
}

// args splits tokens into positionals and options.
func args(toks []token) ([]string, map[string]string) {
	var pos []string
	opts := make(map[string]string)
	for _, t := range toks {
		if t.isOption() {
			opts[t.key] = t.value
		} else {
			pos = append(pos, t.value)
		}
	}
	return pos, opts
}

type op struct {
	usage string
	min   int // minimum positional arguments after the verb
	run   func(in *Interpreter, ctx context.Context, pos []string, opts map[string]string) error
}

var ops = map[string]op{
	"node":     {"node <alias> <x> <y> [r=] [label=]", 3, (*Interpreter).node},
	"edge":     {"edge <alias> <source> <target> [dir=]", 3, (*Interpreter).edge},
	"rect":     {"rect <alias> <x> <y> <w> <h> [rx=]", 5, (*Interpreter).rect},
	"ellipse":  {"ellipse <alias> <cx> <cy> <rx> <ry>", 5, (*Interpreter).ellipse},
	"line":     {"line <alias> <x1> <y1> <x2> <y2>", 5, (*Interpreter).line},
	"text":     {"text <alias> <x> <y> <content> [size=]", 4, (*Interpreter).text},
	"polygon":  {"polygon <alias> <x,y>...", 2, (*Interpreter).poly},
	"polyline": {"polyline <alias> <x,y>...", 2, (*Interpreter).poly},
	"path":     {"path <alias> <data>", 2, (*Interpreter).path},
	"image":    {"image <alias> <x> <y> <w> <h> <href>", 6, (*Interpreter).image},

	"move":       {"move <dx> <dy> <ref>...", 3, (*Interpreter).move},
	"rotate":     {"rotate <ref>... <degrees>", 2, (*Interpreter).rotate},
	"resize":     {"resize <ref> <w> <h>", 3, (*Interpreter).resize},
	"delete":     {"delete <ref>...", 1, (*Interpreter).delete},
	"front":      {"front <ref>...", 1, (*Interpreter).zorder},
	"back":       {"back <ref>...", 1, (*Interpreter).zorder},
	"forward":    {"forward <ref>...", 1, (*Interpreter).zorder},
	"backward":   {"backward <ref>...", 1, (*Interpreter).zorder},
	"distribute": {"distribute horizontal|vertical <ref>...", 4, (*Interpreter).distribute},
	"group":      {"group <alias> <ref>...", 2, (*Interpreter).group},
	"ungroup":    {"ungroup <ref>", 1, (*Interpreter).ungroup},
	"style":      {"style <ref>... fill= stroke= width= opacity= dash= cap=", 1, (*Interpreter).style},
	"label":      {"label <ref> <text>", 2, (*Interpreter).label},
	"undo":       {"undo", 0, func(in *Interpreter, _ context.Context, _ []string, _ map[string]string) error { return in.ed.Undo() }},
	"redo":       {"redo", 0, func(in *Interpreter, _ context.Context, _ []string, _ map[string]string) error { return in.ed.Redo() }},
	"layout":     {"layout [engine]", 0, (*Interpreter).layout},
}

// Verbs lists the script operations in sorted order.
func Verbs() []string {
	out := make([]string, 0, len(ops))
	for k := range ops {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

func (in *Interpreter) exec(ctx context.Context, toks []token) error {
	if toks[0].isOption() {
		return errs.New(errs.ErrCodeInvalidScript, "expected an operation, got %s=", toks[0].key)
	}
	verb := toks[0].value
	o, ok := ops[verb]
	if !ok {
		return errs.New(errs.ErrCodeInvalidScript, "unknown operation %q", verb)
	}
	pos, opts := args(toks[1:])
	if len(pos) < o.min {
		return errs.New(errs.ErrCodeInvalidScript, "usage: %s", o.usage)
	}
	// Operations sharing a handler get the verb as the first positional.
	if verb == "polygon" || verb == "polyline" || isZOp(verb) {
		pos = append([]string{verb}, pos...)
	}
	return o.run(in, ctx, pos, opts)
}

func isZOp(verb string) bool {
	_, err := command.ParseZOp(verb)
	return err == nil
}

// =============================================================================
// Argument helpers
// =============================================================================

func num(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errs.New(errs.ErrCodeInvalidScript, "not a number: %q", s)
	}
	return f, nil
}

func nums(ss ...string) ([]float64, error) {
	out := make([]float64, len(ss))
	for i, s := range ss {
		f, err := num(s)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

func point(s string) (geom.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return geom.Point{}, errs.New(errs.ErrCodeInvalidScript, "not a point: %q (want x,y)", s)
	}
	v, err := nums(xs, ys)
	if err != nil {
		return geom.Point{}, err
	}
	return geom.Pt(v[0], v[1]), nil
}

// ref resolves an alias or raw shape id.
func (in *Interpreter) ref(s string) (string, error) {
	if id, ok := in.aliases[s]; ok {
		return id, nil
	}
	if _, ok := in.ed.Shape(s); ok {
		return s, nil
	}
	return "", errs.New(errs.ErrCodeShapeNotFound, "unknown shape %q", s)
}

func (in *Interpreter) refs(ss []string) ([]string, error) {
	out := make([]string, len(ss))
	for i, s := range ss {
		id, err := in.ref(s)
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}

func (in *Interpreter) bind(alias, id string) error {
	if err := in.checkAlias(alias); err != nil {
		return err
	}
	in.aliases[alias] = id
	return nil
}

// checkAlias validates alias before anything is created under it.
func (in *Interpreter) checkAlias(alias string) error {
	if err := errs.ValidateAlias(alias); err != nil {
		return err
	}
	if _, taken := in.aliases[alias]; taken {
		return errs.New(errs.ErrCodeInvalidScript, "alias %q already used", alias)
	}
	return nil
}

// styleFrom applies style options over st. It reports whether any style
// option was present.
func styleFrom(st shape.Style, opts map[string]string) (shape.Style, bool, error) {
	touched := false
	for k, v := range opts {
		switch k {
		case "fill":
			st.Fill = v
		case "stroke":
			st.Stroke = v
		case "cap":
			st.LineCap = v
		case "width", "opacity":
			f, err := num(v)
			if err != nil {
				return st, false, err
			}
			if k == "width" {
				st.StrokeWidth = f
			} else {
				st.Opacity = f
			}
		case "dash":
			st.Dash = nil
			if v != "" && v != "none" {
				d, err := nums(strings.Split(v, ",")...)
				if err != nil {
					return st, false, err
				}
				st.Dash = d
			}
		default:
			continue
		}
		touched = true
	}
	return st, touched, nil
}

// add styles s from opts and adds it under alias.
func (in *Interpreter) add(alias string, s shape.Shape, opts map[string]string) error {
	if err := in.checkAlias(alias); err != nil {
		return err
	}
	st, _, err := styleFrom(s.Style(), opts)
	if err != nil {
		return err
	}
	s.SetStyle(st)
	id, err := in.ed.AddShape(s)
	if err != nil {
		return err
	}
	return in.bind(alias, id)
}

// =============================================================================
// Creation
// =============================================================================

func (in *Interpreter) node(_ context.Context, pos []string, opts map[string]string) error {
	v, err := nums(pos[1], pos[2])
	if err != nil {
		return err
	}
	r := shape.DefaultNodeRadius
	if s, ok := opts["r"]; ok {
		if r, err = num(s); err != nil {
			return err
		}
	}
	label, ok := opts["label"]
	if !ok {
		label = pos[0]
	}
	if err := errs.ValidateLabel(label); err != nil {
		return err
	}
	return in.add(pos[0], shape.NewNode(v[0], v[1], r, label), opts)
}

func (in *Interpreter) edge(ctx context.Context, pos []string, opts map[string]string) error {
	if err := in.checkAlias(pos[0]); err != nil {
		return err
	}
	ends, err := in.refs(pos[1:3])
	if err != nil {
		return err
	}
	dir := shape.DirectionForward
	if d, ok := opts["dir"]; ok {
		switch shape.Direction(d) {
		case shape.DirectionNone, shape.DirectionForward, shape.DirectionBackward:
			dir = shape.Direction(d)
		default:
			return errs.New(errs.ErrCodeInvalidScript, "unknown direction %q", d)
		}
	}
	id, err := in.ed.AddEdge(ends[0], ends[1], dir)
	if err != nil {
		return err
	}
	if err := in.bind(pos[0], id); err != nil {
		return err
	}
	if _, touched, _ := styleFrom(shape.Style{}, opts); touched {
		return in.style(ctx, []string{pos[0]}, opts)
	}
	return nil
}

func (in *Interpreter) rect(_ context.Context, pos []string, opts map[string]string) error {
	v, err := nums(pos[1:5]...)
	if err != nil {
		return err
	}
	r := shape.NewRectangle(v[0], v[1], v[2], v[3])
	if s, ok := opts["rx"]; ok {
		if r.CornerRadius, err = num(s); err != nil {
			return err
		}
	}
	return in.add(pos[0], r, opts)
}

func (in *Interpreter) ellipse(_ context.Context, pos []string, opts map[string]string) error {
	v, err := nums(pos[1:5]...)
	if err != nil {
		return err
	}
	return in.add(pos[0], shape.NewEllipse(v[0], v[1], v[2], v[3]), opts)
}

func (in *Interpreter) line(_ context.Context, pos []string, opts map[string]string) error {
	v, err := nums(pos[1:5]...)
	if err != nil {
		return err
	}
	return in.add(pos[0], shape.NewLine(v[0], v[1], v[2], v[3]), opts)
}

func (in *Interpreter) text(_ context.Context, pos []string, opts map[string]string) error {
	v, err := nums(pos[1], pos[2])
	if err != nil {
		return err
	}
	content := strings.Join(pos[3:], " ")
	if err := errs.ValidateLabel(content); err != nil {
		return err
	}
	t := shape.NewText(v[0], v[1], content)
	if s, ok := opts["size"]; ok {
		if t.FontSize, err = num(s); err != nil {
			return err
		}
	}
	if f, ok := opts["font"]; ok {
		t.FontFamily = f
	}
	return in.add(pos[0], t, opts)
}

// poly receives the verb as pos[0].
func (in *Interpreter) poly(_ context.Context, pos []string, opts map[string]string) error {
	verb, alias := pos[0], pos[1]
	pts := make([]geom.Point, 0, len(pos)-2)
	for _, s := range pos[2:] {
		p, err := point(s)
		if err != nil {
			return err
		}
		pts = append(pts, p)
	}
	if verb == "polygon" {
		return in.add(alias, shape.NewPolygon(pts...), opts)
	}
	return in.add(alias, shape.NewPolyline(pts...), opts)
}

func (in *Interpreter) path(_ context.Context, pos []string, opts map[string]string) error {
	p, err := shape.NewPathFromData(strings.Join(pos[1:], " "))
	if err != nil {
		return err
	}
	return in.add(pos[0], p, opts)
}

func (in *Interpreter) image(_ context.Context, pos []string, opts map[string]string) error {
	v, err := nums(pos[1:5]...)
	if err != nil {
		return err
	}
	return in.add(pos[0], shape.NewImage(v[0], v[1], v[2], v[3], pos[5]), opts)
}

// =============================================================================
// Editing
// =============================================================================

func (in *Interpreter) move(_ context.Context, pos []string, _ map[string]string) error {
	d, err := nums(pos[0], pos[1])
	if err != nil {
		return err
	}
	ids, err := in.refs(pos[2:])
	if err != nil {
		return err
	}
	return in.ed.Move(ids, d[0], d[1])
}

func (in *Interpreter) rotate(_ context.Context, pos []string, _ map[string]string) error {
	ids, err := in.refs(pos[:len(pos)-1])
	if err != nil {
		return err
	}
	deg, err := num(pos[len(pos)-1])
	if err != nil {
		return err
	}
	return in.ed.RotateAll(ids, deg)
}

func (in *Interpreter) resize(_ context.Context, pos []string, _ map[string]string) error {
	id, err := in.ref(pos[0])
	if err != nil {
		return err
	}
	v, err := nums(pos[1], pos[2])
	if err != nil {
		return err
	}
	return in.ed.Resize(id, v[0], v[1])
}

func (in *Interpreter) delete(_ context.Context, pos []string, _ map[string]string) error {
	ids, err := in.refs(pos)
	if err != nil {
		return err
	}
	return in.ed.Delete(ids...)
}

// zorder receives the verb as pos[0].
func (in *Interpreter) zorder(_ context.Context, pos []string, _ map[string]string) error {
	zop, err := command.ParseZOp(pos[0])
	if err != nil {
		return err
	}
	ids, err := in.refs(pos[1:])
	if err != nil {
		return err
	}
	return in.ed.Reorder(ids, zop)
}

func (in *Interpreter) distribute(_ context.Context, pos []string, _ map[string]string) error {
	ids, err := in.refs(pos[1:])
	if err != nil {
		return err
	}
	return in.ed.Distribute(ids, command.Axis(pos[0]))
}

func (in *Interpreter) group(_ context.Context, pos []string, _ map[string]string) error {
	if err := in.checkAlias(pos[0]); err != nil {
		return err
	}
	ids, err := in.refs(pos[1:])
	if err != nil {
		return err
	}
	id, err := in.ed.Group(ids)
	if err != nil {
		return err
	}
	return in.bind(pos[0], id)
}

func (in *Interpreter) ungroup(_ context.Context, pos []string, _ map[string]string) error {
	id, err := in.ref(pos[0])
	if err != nil {
		return err
	}
	return in.ed.Ungroup(id)
}

func (in *Interpreter) style(_ context.Context, pos []string, opts map[string]string) error {
	if _, touched, err := styleFrom(shape.Style{}, opts); err != nil {
		return err
	} else if !touched {
		return errs.New(errs.ErrCodeInvalidScript, "style: no style options given")
	}
	ids, err := in.refs(pos)
	if err != nil {
		return err
	}
	return in.ed.SetStyle(ids, func(st shape.Style) shape.Style {
		out, _, _ := styleFrom(st, opts)
		return out
	})
}

func (in *Interpreter) label(_ context.Context, pos []string, _ map[string]string) error {
	id, err := in.ref(pos[0])
	if err != nil {
		return err
	}
	return in.ed.EditLabel(id, strings.Join(pos[1:], " "))
}

func (in *Interpreter) layout(ctx context.Context, pos []string, _ map[string]string) error {
	name := "neato"
	if len(pos) > 0 {
		name = pos[0]
	}
	return in.ed.ApplyLayout(ctx, name)
}
