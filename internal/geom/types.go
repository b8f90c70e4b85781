// Package geom holds the planar primitives used by the takeoff engine:
// points, rings, polygons with holes and multi-polygons.
//
// Coordinates are in a single drawing unit (millimetres in practice); the
// package never assumes a scale. Shells are counter-clockwise and holes are
// clockwise, so the signed area of a polygon's rings sums to its net area.
package geom

import "math"

// PointTolerance is the default distance under which two points are
// considered the same point. Sub-millimetre for millimetre drawings.
const PointTolerance = 1e-3

// Point represents a 2D coordinate
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p * k.
func (p Point) Scale(k float64) Point { return Point{p.X * k, p.Y * k} }

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y }

// Cross returns the z component of p × q.
func (p Point) Cross(q Point) float64 { return p.X*q.Y - p.Y*q.X }

// Len returns the Euclidean norm of p.
func (p Point) Len() float64 { return math.Hypot(p.X, p.Y) }

// Dist returns the distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// Perp returns p rotated 90° counter-clockwise.
func (p Point) Perp() Point { return Point{-p.Y, p.X} }

// Unit returns p scaled to length one. The zero vector is returned unchanged.
func (p Point) Unit() Point {
	l := p.Len()
	if l == 0 {
		return p
	}
	return Point{p.X / l, p.Y / l}
}

// Rotate rotates p about the origin by radians counter-clockwise.
func (p Point) Rotate(radians float64) Point {
	s, c := math.Sincos(radians)
	return Point{p.X*c - p.Y*s, p.X*s + p.Y*c}
}

// Near reports whether p and q are within tol of each other.
func (p Point) Near(q Point, tol float64) bool {
	return p.Dist(q) <= tol
}

// Equal reports whether p and q coincide within PointTolerance.
func (p Point) Equal(q Point) bool {
	return p.Near(q, PointTolerance)
}

// IsFinite reports whether both coordinates are finite numbers.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Ring is a closed sequence of points. The closing edge from the last
// point back to the first is implicit; no duplicate end point is stored.
type Ring []Point

// Polygon is a shell with zero or more holes.
type Polygon struct {
	Shell Ring   `json:"shell"`
	Holes []Ring `json:"holes,omitempty"`
}

// MultiPolygon is a set of disjoint polygons.
type MultiPolygon []Polygon

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min Point
	Max Point
}

// EmptyBounds returns a box that contains nothing and grows on Extend.
func EmptyBounds() Bounds {
	return Bounds{
		Min: Point{math.Inf(1), math.Inf(1)},
		Max: Point{math.Inf(-1), math.Inf(-1)},
	}
}

// IsEmpty reports whether the box has never been extended.
func (b Bounds) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y
}

// Extend grows the box to include p.
func (b Bounds) Extend(p Point) Bounds {
	b.Min.X = math.Min(b.Min.X, p.X)
	b.Min.Y = math.Min(b.Min.Y, p.Y)
	b.Max.X = math.Max(b.Max.X, p.X)
	b.Max.Y = math.Max(b.Max.Y, p.Y)
	return b
}

// Union returns the smallest box containing b and o.
func (b Bounds) Union(o Bounds) Bounds {
	if o.IsEmpty() {
		return b
	}
	return b.Extend(o.Min).Extend(o.Max)
}

// Pad grows the box by d on every side.
func (b Bounds) Pad(d float64) Bounds {
	return Bounds{
		Min: Point{b.Min.X - d, b.Min.Y - d},
		Max: Point{b.Max.X + d, b.Max.Y + d},
	}
}

// Intersects reports whether the boxes overlap or touch.
func (b Bounds) Intersects(o Bounds) bool {
	return b.Min.X <= o.Max.X && o.Min.X <= b.Max.X &&
		b.Min.Y <= o.Max.Y && o.Min.Y <= b.Max.Y
}

// ContainsPoint reports whether p lies inside or on the box.
func (b Bounds) ContainsPoint(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Width returns the X extent of the box.
func (b Bounds) Width() float64 { return b.Max.X - b.Min.X }

// Height returns the Y extent of the box.
func (b Bounds) Height() float64 { return b.Max.Y - b.Min.Y }

// Extent returns the larger of the box's width and height.
func (b Bounds) Extent() float64 {
	if b.IsEmpty() {
		return 0
	}
	return math.Max(b.Width(), b.Height())
}
