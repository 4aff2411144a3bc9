package shape

import (
	"github.com/matzehuels/drawgraph/pkg/geom"
	"github.com/matzehuels/drawgraph/pkg/route"
)

// DefaultNodeRadius is the radius of nodes created without an explicit size.
const DefaultNodeRadius = 30.0

// Node is a labelled ellipse that edges attach to. Its interior is always
// hittable so nodes can be picked up anywhere.
type Node struct {
	base
	CX, CY, RX, RY float64
	Text           string
	FontSize       float64
	FontFamily     string
}

var (
	_ Resizable = (*Node)(nil)
	_ Labeled   = (*Node)(nil)
)

// NewNode returns a circular node of radius r centered at (cx, cy).
func NewNode(cx, cy, r float64, label string) *Node {
	n := &Node{base: newBase(TypeNode), Text: label, FontSize: DefaultFontSize}
	n.style.Fill = "#ffffff"
	n.setEllipse(EllipseGeometry{CX: cx, CY: cy, RX: r, RY: r})
	return n
}

func (n *Node) Label() string         { return n.Text }
func (n *Node) SetLabel(label string) { n.Text = label }

// Center returns the node center.
func (n *Node) Center() geom.Point { return geom.Pt(n.CX, n.CY) }

// SetCenter moves the node so its center is p.
func (n *Node) SetCenter(p geom.Point) {
	n.CX, n.CY = geom.Round3(p.X), geom.Round3(p.Y)
}

// Endpoint returns the routing view of the node.
func (n *Node) Endpoint() route.Endpoint {
	return route.Endpoint{Center: n.Center(), RX: n.RX, RY: n.RY, Rotation: n.rotation}
}

func (n *Node) local() geom.Bounds { return ellipseBounds(n.CX, n.CY, n.RX, n.RY) }

func (n *Node) HitTest(p geom.Point, tol float64) bool {
	p = n.toLocal(p, n.local())
	return hitEllipse(n.Center(), n.RX, n.RY, p, tol, true)
}

func (n *Node) Bounds() geom.Bounds { return n.worldBounds(n.local()).Round() }

func (n *Node) Move(dx, dy float64) {
	n.CX, n.CY = geom.Round3(n.CX+dx), geom.Round3(n.CY+dy)
}

func (n *Node) ApplyTransform(tx, ty, sx, sy float64) {
	n.setEllipse(transformEllipse(n.ellipseGeometry(), tx, ty, sx, sy))
}

func (n *Node) Clone() Shape {
	c := *n
	c.base = n.cloned()
	return &c
}

func (n *Node) Serialize() Record {
	return n.record(map[string]any{
		"cx": n.CX, "cy": n.CY, "rx": n.RX, "ry": n.RY,
		"label": n.Text, "fontSize": n.FontSize, "fontFamily": n.FontFamily,
	})
}

func (n *Node) Geometry() Geometry { return n.ellipseGeometry() }

func (n *Node) SetGeometry(g Geometry) error {
	eg, ok := g.(EllipseGeometry)
	if !ok {
		return geometryMismatch(n, g)
	}
	n.setEllipse(eg)
	return nil
}

func (n *Node) ellipseGeometry() EllipseGeometry {
	return EllipseGeometry{CX: n.CX, CY: n.CY, RX: n.RX, RY: n.RY}
}

func (n *Node) setEllipse(g EllipseGeometry) {
	n.CX, n.CY = geom.Round3(g.CX), geom.Round3(g.CY)
	n.RX, n.RY = geom.Round3(g.RX), geom.Round3(g.RY)
}
