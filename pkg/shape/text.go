package shape

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/drawgraph/pkg/geom"
)

// Text defaults.
const (
	DefaultFontSize   = 16.0
	DefaultLineHeight = 1.2
)

// Text is a block of one or more lines anchored at its top-left corner.
type Text struct {
	base
	X, Y       float64
	Content    string
	FontSize   float64
	FontFamily string
	LineHeight float64
	// Measurer, when set, measures line widths. It is not serialised.
	Measurer Measurer
}

var (
	_ Resizable = (*Text)(nil)
	_ Labeled   = (*Text)(nil)
)

// NewText returns a text block at (x, y) with the default font size.
func NewText(x, y float64, content string) *Text {
	return &Text{
		base:       newBase(TypeText),
		X:          geom.Round3(x),
		Y:          geom.Round3(y),
		Content:    content,
		FontSize:   DefaultFontSize,
		LineHeight: DefaultLineHeight,
	}
}

func (t *Text) Label() string         { return t.Content }
func (t *Text) SetLabel(label string) { t.Content = label }

func (t *Text) lines() []string { return strings.Split(t.Content, "\n") }

func (t *Text) local() geom.Bounds {
	size := t.FontSize
	if size <= 0 {
		size = DefaultFontSize
	}
	lh := t.LineHeight
	if lh <= 0 {
		lh = DefaultLineHeight
	}
	lines := t.lines()
	var width float64
	for _, line := range lines {
		if t.Measurer != nil {
			width = math.Max(width, t.Measurer.MeasureLine(line, size))
		} else {
			width = math.Max(width, float64(utf8.RuneCountInString(line))*size*approxCharWidth)
		}
	}
	return geom.Bounds{X: t.X, Y: t.Y, Width: width, Height: float64(len(lines)) * size * lh}
}

// HitTest treats the whole text box as solid.
func (t *Text) HitTest(p geom.Point, tol float64) bool {
	local := t.local()
	return local.Expand(tol).Contains(t.toLocal(p, local))
}

func (t *Text) Bounds() geom.Bounds { return t.worldBounds(t.local()).Round() }

func (t *Text) Move(dx, dy float64) {
	t.X, t.Y = geom.Round3(t.X+dx), geom.Round3(t.Y+dy)
}

// ApplyTransform scales the font by |sy|; glyphs have no independent
// horizontal scale.
func (t *Text) ApplyTransform(tx, ty, sx, sy float64) {
	t.X, t.Y = geom.Round3(t.X*sx+tx), geom.Round3(t.Y*sy+ty)
	t.FontSize = geom.Round3(t.FontSize * math.Abs(sy))
}

func (t *Text) Clone() Shape {
	c := *t
	c.base = t.cloned()
	return &c
}

func (t *Text) Serialize() Record {
	return t.record(map[string]any{
		"x": t.X, "y": t.Y, "content": t.Content,
		"fontSize": t.FontSize, "fontFamily": t.FontFamily, "lineHeight": t.LineHeight,
	})
}

func (t *Text) Geometry() Geometry {
	return TextGeometry{X: t.X, Y: t.Y, FontSize: t.FontSize}
}

func (t *Text) SetGeometry(g Geometry) error {
	tg, ok := g.(TextGeometry)
	if !ok {
		return geometryMismatch(t, g)
	}
	t.X, t.Y, t.FontSize = geom.Round3(tg.X), geom.Round3(tg.Y), geom.Round3(tg.FontSize)
	return nil
}
