package layout

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	errs "github.com/matzehuels/drawgraph/pkg/errors"
	"github.com/matzehuels/drawgraph/pkg/geom"
)

// pointsPerInch converts between drawing units and Graphviz inches.
const pointsPerInch = 72

// Graphviz lays out with one of the Graphviz engines.
type Graphviz struct {
	engine string
	opts   Options
}

// NewGraphviz returns a layouter for engine ("neato", "dot", "fdp",
// "circo" or "twopi").
func NewGraphviz(engine string, opts Options) *Graphviz {
	return &Graphviz{engine: engine, opts: opts.withDefaults()}
}

func (g *Graphviz) Name() string { return g.engine }

func (g *Graphviz) Layout(ctx context.Context, in Input) (map[string]geom.Point, error) {
	if len(in.Nodes) == 0 {
		return map[string]geom.Point{}, nil
	}
	dot, names := g.ToDOT(in)

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeLayoutFailed, err, "init graphviz")
	}
	defer gv.Close()

	graph, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeLayoutFailed, err, "parse DOT")
	}
	defer graph.Close()

	gv.SetLayout(graphviz.Layout(g.engine))
	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.Format("dot"), &buf); err != nil {
		return nil, errs.Wrap(errs.ErrCodeLayoutFailed, err, "%s layout", g.engine)
	}

	raw, err := parsePositions(buf.Bytes(), names)
	if err != nil {
		return nil, err
	}
	g.opts.Logger.Debug("graphviz layout", "engine", g.engine, "nodes", len(raw), "edges", len(in.Edges))
	return normalize(in, raw, g.opts.Origin), nil
}

// ToDOT writes in as an undirected DOT graph. Nodes are renamed n0, n1, ...
// so ids never need quoting rules; names maps the DOT name back to the id.
func (g *Graphviz) ToDOT(in Input) (dot string, names map[string]string) {
	names = make(map[string]string, len(in.Nodes))
	alias := make(map[string]string, len(in.Nodes))

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  overlap=false;\n")
	fmt.Fprintf(&buf, "  sep=\"+%s\";\n", ftoa(g.opts.Spacing/2))
	fmt.Fprintf(&buf, "  nodesep=%s;\n", ftoa(g.opts.Spacing/pointsPerInch))
	fmt.Fprintf(&buf, "  ranksep=%s;\n", ftoa(g.opts.Spacing/pointsPerInch))
	buf.WriteString("  node [shape=ellipse, fixedsize=true, label=\"\"];\n\n")

	for i, n := range in.Nodes {
		name := "n" + strconv.Itoa(i)
		names[name] = n.ID
		alias[n.ID] = name
		fmt.Fprintf(&buf, "  %s [width=%s, height=%s];\n", name,
			ftoa(max(n.Width, 1)/pointsPerInch), ftoa(max(n.Height, 1)/pointsPerInch))
	}
	buf.WriteString("\n")
	for _, e := range in.Edges {
		s, okS := alias[e.Source]
		t, okT := alias[e.Target]
		if okS && okT {
			fmt.Fprintf(&buf, "  %s -- %s;\n", s, t)
		}
	}
	buf.WriteString("}\n")
	return buf.String(), names
}

// posRe matches a node statement and its pos attribute. Attribute lists in
// Graphviz output may span lines; edge statements never match because
// their first name is followed by "--".
var posRe = regexp.MustCompile(`(?m)^\s*(n\d+)\s+\[[^\]]*?pos="(-?[0-9.e+-]+),(-?[0-9.e+-]+)!?"`)

// parsePositions reads node positions from Graphviz DOT output, flipping
// the y axis so y grows downward.
func parsePositions(out []byte, names map[string]string) (map[string]geom.Point, error) {
	pos := make(map[string]geom.Point, len(names))
	for _, m := range posRe.FindAllSubmatch(out, -1) {
		id, ok := names[string(m[1])]
		if !ok {
			continue
		}
		x, errX := strconv.ParseFloat(string(m[2]), 64)
		y, errY := strconv.ParseFloat(string(m[3]), 64)
		if errX != nil || errY != nil {
			return nil, errs.New(errs.ErrCodeLayoutFailed, "bad position for %s", m[1])
		}
		pos[id] = geom.Pt(x, -y)
	}
	if len(pos) != len(names) {
		return nil, errs.New(errs.ErrCodeLayoutFailed, "graphviz positioned %d of %d nodes", len(pos), len(names))
	}
	return pos, nil
}

func ftoa(f float64) string {
	return strconv.FormatFloat(geom.Round3(f), 'f', -1, 64)
}
