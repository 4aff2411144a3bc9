package layout

import (
	"context"
	"math"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/drawgraph/pkg/document"
	errs "github.com/matzehuels/drawgraph/pkg/errors"
	"github.com/matzehuels/drawgraph/pkg/geom"
)

// Input is the graph handed to a layouter.
type Input struct {
	Nodes []Node
	Edges []Edge
}

// Node is a node's identity and extent.
type Node struct {
	ID            string
	Width, Height float64
}

// Edge connects two node ids. Self-loops are allowed.
type Edge struct {
	Source, Target string
}

// Layouter computes node centers.
type Layouter interface {
	Name() string
	Layout(ctx context.Context, in Input) (map[string]geom.Point, error)
}

// Options are shared by all layouters.
type Options struct {
	// Origin is the top-left corner of the laid out diagram.
	Origin geom.Point
	// Spacing is the minimum gap between nodes. Defaults to DefaultSpacing.
	Spacing float64
	Logger  *log.Logger
}

// DefaultSpacing separates nodes when Options.Spacing is zero.
const DefaultSpacing = 40

func (o Options) withDefaults() Options {
	if o.Spacing <= 0 {
		o.Spacing = DefaultSpacing
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return o
}

// Names lists the layouts accepted by New.
func Names() []string {
	return []string{"circle", "circo", "dot", "fdp", "neato", "twopi"}
}

// New returns the layouter registered under name.
func New(name string, opts Options) (Layouter, error) {
	switch name {
	case "circle":
		return NewCircle(opts), nil
	case "neato", "dot", "fdp", "circo", "twopi":
		return NewGraphviz(name, opts), nil
	}
	return nil, errs.New(errs.ErrCodeInvalidInput, "unknown layout %q (want one of %v)", name, Names())
}

// FromDocument collects the document's nodes and edges. Edges whose
// endpoints are not both present are skipped.
func FromDocument(doc *document.Document) Input {
	var in Input
	known := make(map[string]bool)
	for _, n := range doc.Nodes() {
		b := n.Bounds()
		in.Nodes = append(in.Nodes, Node{ID: n.ID(), Width: b.Width, Height: b.Height})
		known[n.ID()] = true
	}
	for _, e := range doc.Edges() {
		if known[e.Source()] && known[e.Target()] {
			in.Edges = append(in.Edges, Edge{Source: e.Source(), Target: e.Target()})
		}
	}
	return in
}

// Circle places nodes evenly on a circle in input order.
type Circle struct {
	opts Options
}

// NewCircle returns a circle layouter.
func NewCircle(opts Options) *Circle {
	return &Circle{opts: opts.withDefaults()}
}

func (c *Circle) Name() string { return "circle" }

func (c *Circle) Layout(ctx context.Context, in Input) (map[string]geom.Point, error) {
	out := make(map[string]geom.Point, len(in.Nodes))
	if len(in.Nodes) == 0 {
		return out, nil
	}

	var size float64
	for _, n := range in.Nodes {
		size = max(size, n.Width, n.Height)
	}
	// Chord between neighbours must fit one node plus spacing.
	step := size + c.opts.Spacing
	radius := step / 2
	if len(in.Nodes) > 1 {
		radius = max(radius, step/(2*math.Sin(math.Pi/float64(len(in.Nodes)))))
	}
	center := c.opts.Origin.Add(geom.Pt(radius+size/2, radius+size/2))

	for i, n := range in.Nodes {
		// Start at 12 o'clock, go clockwise in screen coordinates.
		a := 2*math.Pi*float64(i)/float64(len(in.Nodes)) - math.Pi/2
		out[n.ID] = geom.Pt(
			geom.Round3(center.X+radius*math.Cos(a)),
			geom.Round3(center.Y+radius*math.Sin(a)),
		)
	}
	return out, nil
}

// normalize translates positions so their bounding box of node extents
// starts at origin.
func normalize(in Input, pos map[string]geom.Point, origin geom.Point) map[string]geom.Point {
	if len(pos) == 0 {
		return pos
	}
	minX, minY := math.Inf(1), math.Inf(1)
	for _, n := range in.Nodes {
		p, ok := pos[n.ID]
		if !ok {
			continue
		}
		minX = min(minX, p.X-n.Width/2)
		minY = min(minY, p.Y-n.Height/2)
	}
	out := make(map[string]geom.Point, len(pos))
	for id, p := range pos {
		out[id] = geom.Pt(geom.Round3(p.X-minX+origin.X), geom.Round3(p.Y-minY+origin.Y))
	}
	return out
}

var (
	_ Layouter = (*Circle)(nil)
	_ Layouter = (*Graphviz)(nil)
)
