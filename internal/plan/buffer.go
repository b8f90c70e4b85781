package plan

import (
	"math"

	"github.com/alexiusacademia/gotakeoff/internal/geom"
)

// Buffer returns the rectangle of the given width centred on the segment
// from a to b, with its short edges perpendicular to the segment. The ring
// is counter-clockwise. Segments shorter than MinWallLength, non-positive
// widths and non-finite input yield false.
func Buffer(a, b geom.Point, width float64) (geom.Polygon, bool) {
	if !a.IsFinite() || !b.IsFinite() || !(width > 0) || math.IsInf(width, 0) {
		return geom.Polygon{}, false
	}
	d := b.Sub(a)
	l := d.Len()
	if l < MinWallLength {
		return geom.Polygon{}, false
	}

	n := d.Scale(1 / l).Perp().Scale(width / 2)
	return geom.Polygon{Shell: geom.Ring{
		a.Sub(n),
		b.Sub(n),
		b.Add(n),
		a.Add(n),
	}}, true
}

// Footprint returns the wall's plan rectangle: wall length by thickness,
// centred on the centerline.
func (w Wall) Footprint() (geom.Polygon, bool) {
	return Buffer(w.Start, w.End, w.Thickness)
}

// Footprint returns the column's plan rectangle, rotated about its centre.
func (c Column) Footprint() (geom.Polygon, bool) {
	if !(c.Width > 0) || !(c.Height > 0) {
		return geom.Polygon{}, false
	}
	rad := c.Rotation * math.Pi / 180
	hx := geom.Pt(c.Width/2, 0).Rotate(rad)
	hy := geom.Pt(0, c.Height/2).Rotate(rad)
	return geom.Polygon{Shell: geom.Ring{
		c.Position.Sub(hx).Sub(hy),
		c.Position.Add(hx).Sub(hy),
		c.Position.Add(hx).Add(hy),
		c.Position.Sub(hx).Add(hy),
	}}, true
}

// Area returns the column cross-section area.
func (c Column) Area() float64 {
	return c.Width * c.Height
}
