package shape

import (
	"math"

	"github.com/matzehuels/drawgraph/pkg/geom"
)

// Rectangle is an axis-aligned box anchored at its top-left corner, drawn
// rotated about its center.
type Rectangle struct {
	base
	X, Y, Width, Height float64
	// CornerRadius rounds the corners when drawn. It does not affect hit
	// testing.
	CornerRadius float64
}

var _ Resizable = (*Rectangle)(nil)

// NewRectangle returns a rectangle with the given anchor and size.
func NewRectangle(x, y, w, h float64) *Rectangle {
	r := &Rectangle{base: newBase(TypeRectangle)}
	r.setBox(BoxGeometry{X: x, Y: y, Width: w, Height: h})
	return r
}

func (r *Rectangle) local() geom.Bounds {
	return geom.Bounds{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// HitTest treats an unfilled rectangle as its outline: the point must be in
// the box grown by tol but not strictly inside the box shrunk by tol.
func (r *Rectangle) HitTest(p geom.Point, tol float64) bool {
	local := r.local()
	return hitBox(local, r.toLocal(p, local), tol, r.style.HasFill())
}

func (r *Rectangle) Bounds() geom.Bounds { return r.worldBounds(r.local()).Round() }

func (r *Rectangle) Move(dx, dy float64) {
	r.X, r.Y = geom.Round3(r.X+dx), geom.Round3(r.Y+dy)
}

func (r *Rectangle) ApplyTransform(tx, ty, sx, sy float64) {
	r.setBox(transformBox(r.boxGeometry(), tx, ty, sx, sy))
}

func (r *Rectangle) Clone() Shape {
	c := *r
	c.base = r.cloned()
	return &c
}

func (r *Rectangle) Serialize() Record {
	return r.record(map[string]any{"x": r.X, "y": r.Y, "width": r.Width, "height": r.Height, "rx": r.CornerRadius})
}

func (r *Rectangle) Geometry() Geometry { return r.boxGeometry() }

func (r *Rectangle) SetGeometry(g Geometry) error {
	bg, ok := g.(BoxGeometry)
	if !ok {
		return geometryMismatch(r, g)
	}
	r.setBox(bg)
	return nil
}

func (r *Rectangle) boxGeometry() BoxGeometry {
	return BoxGeometry{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func (r *Rectangle) setBox(g BoxGeometry) {
	r.X, r.Y = geom.Round3(g.X), geom.Round3(g.Y)
	r.Width, r.Height = geom.Round3(g.Width), geom.Round3(g.Height)
}

// Image is a raster reference placed in a box. Its whole box is hittable.
type Image struct {
	base
	X, Y, Width, Height float64
	Href                string
}

var _ Resizable = (*Image)(nil)

// NewImage returns an image placed at the given box.
func NewImage(x, y, w, h float64, href string) *Image {
	im := &Image{base: newBase(TypeImage), Href: href}
	im.setBox(BoxGeometry{X: x, Y: y, Width: w, Height: h})
	return im
}

func (im *Image) local() geom.Bounds {
	return geom.Bounds{X: im.X, Y: im.Y, Width: im.Width, Height: im.Height}
}

func (im *Image) HitTest(p geom.Point, tol float64) bool {
	local := im.local()
	return hitBox(local, im.toLocal(p, local), tol, true)
}

func (im *Image) Bounds() geom.Bounds { return im.worldBounds(im.local()).Round() }

func (im *Image) Move(dx, dy float64) {
	im.X, im.Y = geom.Round3(im.X+dx), geom.Round3(im.Y+dy)
}

func (im *Image) ApplyTransform(tx, ty, sx, sy float64) {
	im.setBox(transformBox(im.boxGeometry(), tx, ty, sx, sy))
}

func (im *Image) Clone() Shape {
	c := *im
	c.base = im.cloned()
	return &c
}

func (im *Image) Serialize() Record {
	return im.record(map[string]any{"x": im.X, "y": im.Y, "width": im.Width, "height": im.Height, "href": im.Href})
}

func (im *Image) Geometry() Geometry { return im.boxGeometry() }

func (im *Image) SetGeometry(g Geometry) error {
	bg, ok := g.(BoxGeometry)
	if !ok {
		return geometryMismatch(im, g)
	}
	im.setBox(bg)
	return nil
}

func (im *Image) boxGeometry() BoxGeometry {
	return BoxGeometry{X: im.X, Y: im.Y, Width: im.Width, Height: im.Height}
}

func (im *Image) setBox(g BoxGeometry) {
	im.X, im.Y = geom.Round3(g.X), geom.Round3(g.Y)
	im.Width, im.Height = geom.Round3(g.Width), geom.Round3(g.Height)
}

// =============================================================================
// Box helpers
// =============================================================================

func hitBox(b geom.Bounds, p geom.Point, tol float64, filled bool) bool {
	if !b.Expand(tol).Contains(p) {
		return false
	}
	if filled {
		return true
	}
	inner := b.Expand(-tol)
	if inner.Width == 0 || inner.Height == 0 {
		return true
	}
	strictlyInside := p.X > inner.X && p.X < inner.MaxX() && p.Y > inner.Y && p.Y < inner.MaxY()
	return !strictlyInside
}

// transformBox scales a box. A negative factor mirrors the box, so the
// anchor moves to the opposite edge to keep the size positive.
func transformBox(g BoxGeometry, tx, ty, sx, sy float64) BoxGeometry {
	out := BoxGeometry{
		X:      g.X*sx + tx,
		Y:      g.Y*sy + ty,
		Width:  g.Width * math.Abs(sx),
		Height: g.Height * math.Abs(sy),
	}
	if sx < 0 {
		out.X -= out.Width
	}
	if sy < 0 {
		out.Y -= out.Height
	}
	return out
}
