package shape

import (
	"errors"
	"slices"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/drawgraph/pkg/geom"
)

// DefaultTolerance is the hit-test tolerance used when callers have no
// preference.
const DefaultTolerance = 5.0

// ErrEdgeRotation is returned by [Edge.SetRotation] for any non-zero angle.
// Edges have no orientation of their own; their path is derived.
var ErrEdgeRotation = errors.New("edges cannot be rotated")

// Type is the fixed discriminant of a shape variant.
type Type string

// Shape variants.
const (
	TypeLine      Type = "line"
	TypeRectangle Type = "rectangle"
	TypeEllipse   Type = "ellipse"
	TypeText      Type = "text"
	TypePolygon   Type = "polygon"
	TypePolyline  Type = "polyline"
	TypePath      Type = "path"
	TypeImage     Type = "image"
	TypeNode      Type = "node"
	TypeEdge      Type = "edge"
	TypeGroup     Type = "group"
)

// IsGraph reports whether the type takes part in the graph registry.
func (t Type) IsGraph() bool { return t == TypeNode || t == TypeEdge }

// Shape is the capability contract shared by every variant.
type Shape interface {
	// ID returns the opaque identifier, fixed for the shape's lifetime.
	ID() string
	// Type returns the variant discriminant.
	Type() Type
	// Class returns the markup class metadata.
	Class() string
	// SetClass replaces the markup class metadata.
	SetClass(class string)
	// Style returns a copy of the style attributes.
	Style() Style
	// SetStyle stores a copy of s.
	SetStyle(s Style)
	// Rotation returns the rotation in degrees in [0, 360).
	Rotation() float64
	// SetRotation normalises and stores deg.
	SetRotation(deg float64) error
	// HitTest reports whether p lies within tolerance of the shape.
	HitTest(p geom.Point, tolerance float64) bool
	// Bounds returns the axis-aligned bounds in world space.
	Bounds() geom.Bounds
	// Move translates the shape.
	Move(dx, dy float64)
	// ApplyTransform scales position fields by the signed factors, size
	// fields by their absolute values, then translates.
	ApplyTransform(tx, ty, sx, sy float64)
	// Clone returns a deep copy under a new identity.
	Clone() Shape
	// Serialize returns a self-describing plain record.
	Serialize() Record

	sealed()
}

// Labeled is implemented by shapes that carry editable text.
type Labeled interface {
	Shape
	Label() string
	SetLabel(label string)
}

// NewID returns a fresh opaque shape identifier.
func NewID() string {
	return uuid.NewString()
}

// =============================================================================
// Style
// =============================================================================

// Style holds presentation attributes. It is always copied, never aliased.
type Style struct {
	Fill        string    `json:"fill,omitempty" bson:"fill,omitempty"`
	Stroke      string    `json:"stroke,omitempty" bson:"stroke,omitempty"`
	StrokeWidth float64   `json:"strokeWidth,omitempty" bson:"strokeWidth,omitempty"`
	Opacity     float64   `json:"opacity,omitempty" bson:"opacity,omitempty"`
	Dash        []float64 `json:"dash,omitempty" bson:"dash,omitempty"`
	LineCap     string    `json:"lineCap,omitempty" bson:"lineCap,omitempty"`
}

// DefaultStyle returns the style new shapes start with: black 2px stroke,
// no fill.
func DefaultStyle() Style {
	return Style{
		Fill:        "none",
		Stroke:      "#000000",
		StrokeWidth: 2,
		Opacity:     1,
		LineCap:     "butt",
	}
}

// Clone returns a copy that shares no memory with s.
func (s Style) Clone() Style {
	s.Dash = slices.Clone(s.Dash)
	return s
}

// Equal reports whether two styles are identical.
func (s Style) Equal(o Style) bool {
	return s.Fill == o.Fill && s.Stroke == o.Stroke && s.StrokeWidth == o.StrokeWidth &&
		s.Opacity == o.Opacity && s.LineCap == o.LineCap && slices.Equal(s.Dash, o.Dash)
}

// HasFill reports whether the interior is painted, which makes the whole
// interior hittable rather than just the stroke.
func (s Style) HasFill() bool {
	switch s.Fill {
	case "", "none", "transparent":
		return false
	}
	return true
}

// =============================================================================
// base - fields shared by every variant
// =============================================================================

type base struct {
	id       string
	typ      Type
	class    string
	style    Style
	rotation float64
}

func newBase(t Type) base {
	return base{id: NewID(), typ: t, style: DefaultStyle()}
}

func (b *base) ID() string            { return b.id }
func (b *base) Type() Type            { return b.typ }
func (b *base) Class() string         { return b.class }
func (b *base) SetClass(class string) { b.class = class }
func (b *base) Style() Style          { return b.style.Clone() }
func (b *base) SetStyle(s Style)      { b.style = s.Clone() }
func (b *base) Rotation() float64     { return b.rotation }
func (*base) sealed()                 {}

func (b *base) SetRotation(deg float64) error {
	b.rotation = geom.NormalizeRotation(deg)
	return nil
}

// cloned returns a copy of b under a new identity.
func (b *base) cloned() base {
	c := *b
	c.id = NewID()
	c.style = b.style.Clone()
	return c
}

// toLocal maps a world point into the unrotated frame of a shape whose local
// bounds are local.
func (b *base) toLocal(p geom.Point, local geom.Bounds) geom.Point {
	if b.rotation == 0 {
		return p
	}
	return geom.RotatePoint(p, local.Center(), -b.rotation)
}

// worldBounds returns the rotated bounds of local.
func (b *base) worldBounds(local geom.Bounds) geom.Bounds {
	return geom.RotatedBounds(local, b.rotation)
}

// record starts a Record with the shared fields filled in.
func (b *base) record(attrs map[string]any) Record {
	return Record{
		ID:       b.id,
		Type:     b.typ,
		Class:    b.class,
		Rotation: b.rotation,
		Style:    b.style.Clone(),
		Attrs:    attrs,
	}
}

// restore applies the shared fields of rec.
func (b *base) restore(rec Record) {
	if rec.ID != "" {
		b.id = rec.ID
	}
	b.class = rec.Class
	b.style = rec.Style.Clone()
	b.rotation = geom.NormalizeRotation(rec.Rotation)
}

// =============================================================================
// Logging
// =============================================================================

var logger atomic.Pointer[log.Logger]

func init() {
	logger.Store(log.Default())
}

// SetLogger sets the logger used for non-fatal geometry warnings such as skew
// dropped from an imported matrix. Passing nil restores log.Default().
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.Default()
	}
	logger.Store(l)
}

func warn(msg string, keyvals ...any) {
	logger.Load().Warn(msg, keyvals...)
}
