package shape

import (
	"github.com/matzehuels/drawgraph/pkg/geom"
)

// ApplyMatrix folds an imported affine matrix into s: scale and translation
// go through ApplyTransform and the rotation component is added to the
// shape's own. Skew cannot be represented and is dropped with a warning.
// Edges ignore the matrix entirely.
func ApplyMatrix(s Shape, m geom.Matrix) {
	if s.Type() == TypeEdge {
		return
	}
	d := geom.Decompose(m)
	if d.HasSkew() {
		warn("dropping skew from imported transform",
			"shape", s.ID(), "type", s.Type(), "skewX", geom.Round3(d.SkewX), "skewY", geom.Round3(d.SkewY))
	}
	s.ApplyTransform(d.TranslateX, d.TranslateY, d.ScaleX, d.ScaleY)
	if d.Rotation != 0 {
		_ = s.SetRotation(s.Rotation() + d.Rotation)
	}
}
