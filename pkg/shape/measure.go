package shape

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Measurer reports the advance width of a single line of text at a font size.
type Measurer interface {
	MeasureLine(line string, fontSize float64) float64
}

// approxCharWidth is the average advance, as a fraction of the font size,
// used when no Measurer is set.
const approxCharWidth = 0.6

// FaceMeasurer measures text with a font.Face rendered at Size pixels and
// scales the result linearly to the requested size.
type FaceMeasurer struct {
	Face font.Face
	Size float64
}

var _ Measurer = FaceMeasurer{}

// NewBasicMeasurer returns a measurer backed by the fixed 7x13 bitmap face,
// which needs no font files.
func NewBasicMeasurer() FaceMeasurer {
	return FaceMeasurer{Face: basicfont.Face7x13, Size: 13}
}

func (m FaceMeasurer) MeasureLine(line string, fontSize float64) float64 {
	if m.Face == nil || m.Size <= 0 {
		return float64(len([]rune(line))) * fontSize * approxCharWidth
	}
	adv := font.MeasureString(m.Face, line)
	return float64(adv) / 64 * fontSize / m.Size
}
