package shape

import (
	"encoding/json"
	"reflect"

	errs "github.com/matzehuels/drawgraph/pkg/errors"
	"github.com/matzehuels/drawgraph/pkg/geom"
)

// Record is the plain, self-describing form of a shape used at the
// serialisation boundary. Variant fields live in Attrs under stable keys;
// points are flattened into [x0, y0, x1, y1, ...].
type Record struct {
	ID       string         `json:"id" bson:"id"`
	Type     Type           `json:"type" bson:"type"`
	Class    string         `json:"class,omitempty" bson:"class,omitempty"`
	Rotation float64        `json:"rotation,omitempty" bson:"rotation,omitempty"`
	Style    Style          `json:"style" bson:"style"`
	Attrs    map[string]any `json:"attrs,omitempty" bson:"attrs,omitempty"`
	Children []Record       `json:"children,omitempty" bson:"children,omitempty"`
}

// FromRecord rebuilds a shape, preserving its identity. Edges are bound to
// resolver; it may be nil and set later with [Edge.SetResolver].
func FromRecord(rec Record, resolver NodeResolver) (Shape, error) {
	a := attrs(rec.Attrs)
	var s Shape

	switch rec.Type {
	case TypeLine:
		s = &Line{X1: a.num("x1"), Y1: a.num("y1"), X2: a.num("x2"), Y2: a.num("y2")}
	case TypeRectangle:
		s = &Rectangle{X: a.num("x"), Y: a.num("y"), Width: a.num("width"), Height: a.num("height"), CornerRadius: a.num("rx")}
	case TypeImage:
		s = &Image{X: a.num("x"), Y: a.num("y"), Width: a.num("width"), Height: a.num("height"), Href: a.str("href")}
	case TypeEllipse:
		s = &Ellipse{CX: a.num("cx"), CY: a.num("cy"), RX: a.num("rx"), RY: a.num("ry")}
	case TypeText:
		s = &Text{X: a.num("x"), Y: a.num("y"), Content: a.str("content"), FontSize: a.num("fontSize"),
			FontFamily: a.str("fontFamily"), LineHeight: a.num("lineHeight")}
	case TypePolygon:
		s = &Polygon{Points: a.points("points")}
	case TypePolyline:
		s = &Polyline{Points: a.points("points")}
	case TypePath:
		segs, err := ParsePathData(a.str("d"))
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidRecord, err, "path %s", rec.ID)
		}
		s = &Path{Segments: segs}
	case TypeNode:
		s = &Node{CX: a.num("cx"), CY: a.num("cy"), RX: a.num("rx"), RY: a.num("ry"),
			Text: a.str("label"), FontSize: a.num("fontSize"), FontFamily: a.str("fontFamily")}
	case TypeEdge:
		e := &Edge{
			source:        a.str("source"),
			target:        a.str("target"),
			direction:     Direction(a.str("direction")),
			curveOffset:   a.num("curveOffset"),
			selfLoop:      a.boolean("isSelfLoop"),
			selfLoopAngle: a.num("selfLoopAngle"),
			resolver:      resolver,
			loop:          defaultLoopOptions(),
		}
		if e.direction == "" {
			e.direction = DirectionNone
		}
		s = e
	case TypeGroup:
		g := &Group{}
		for _, child := range rec.Children {
			// Graph shapes are registered only at the top level.
			if child.Type.IsGraph() {
				return nil, errs.New(errs.ErrCodeInvalidRecord, "group %s: %s %s cannot be grouped", rec.ID, child.Type, child.ID)
			}
			cs, err := FromRecord(child, resolver)
			if err != nil {
				return nil, err
			}
			g.children = append(g.children, cs)
		}
		s = g
	default:
		return nil, errs.New(errs.ErrCodeInvalidRecord, "unknown shape type %q", rec.Type)
	}

	restoreBase(s, rec)
	return s, nil
}

// restoreBase fills the shared fields; the embedded base is reached through
// the concrete type because Shape does not expose it.
func restoreBase(s Shape, rec Record) {
	var b *base
	switch v := s.(type) {
	case *Line:
		b = &v.base
	case *Rectangle:
		b = &v.base
	case *Image:
		b = &v.base
	case *Ellipse:
		b = &v.base
	case *Text:
		b = &v.base
	case *Polygon:
		b = &v.base
	case *Polyline:
		b = &v.base
	case *Path:
		b = &v.base
	case *Node:
		b = &v.base
	case *Edge:
		b = &v.base
	case *Group:
		b = &v.base
	}
	b.typ = rec.Type
	b.id = NewID()
	b.restore(rec)
	if rec.Type == TypeEdge {
		b.rotation = 0
	}
}

// =============================================================================
// Attribute decoding
// =============================================================================

// attrs reads loosely typed values: JSON decodes numbers as float64 and
// document stores may hand back int32/int64 or their own slice types.
type attrs map[string]any

func (a attrs) num(key string) float64 {
	return toFloat(a[key])
}

func (a attrs) str(key string) string {
	s, _ := a[key].(string)
	return s
}

func (a attrs) boolean(key string) bool {
	b, _ := a[key].(bool)
	return b
}

func (a attrs) points(key string) []geom.Point {
	v := reflect.ValueOf(a[key])
	if v.Kind() != reflect.Slice {
		return nil
	}
	pts := make([]geom.Point, 0, v.Len()/2)
	for i := 0; i+1 < v.Len(); i += 2 {
		pts = append(pts, geom.Pt(toFloat(v.Index(i).Interface()), toFloat(v.Index(i+1).Interface())))
	}
	return pts
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	}
	return 0
}

func flattenPoints(pts []geom.Point) []float64 {
	out := make([]float64, 0, 2*len(pts))
	for _, p := range pts {
		out = append(out, p.X, p.Y)
	}
	return out
}
