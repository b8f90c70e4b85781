package geom

import "math"

// Segment is a directed line segment from A to B.
type Segment struct {
	A Point
	B Point
}

// Len returns the segment length.
func (s Segment) Len() float64 {
	return s.A.Dist(s.B)
}

// Dir returns the unit direction from A to B.
func (s Segment) Dir() Point {
	return s.B.Sub(s.A).Unit()
}

// Midpoint returns the midpoint of the segment.
func (s Segment) Midpoint() Point {
	return Point{(s.A.X + s.B.X) / 2, (s.A.Y + s.B.Y) / 2}
}

// Bounds returns the bounding box of the segment.
func (s Segment) Bounds() Bounds {
	return EmptyBounds().Extend(s.A).Extend(s.B)
}

// Project returns the parameter t of the point on the supporting line
// closest to p, where t=0 is A and t=1 is B.
func (s Segment) Project(p Point) float64 {
	d := s.B.Sub(s.A)
	l2 := d.Dot(d)
	if l2 == 0 {
		return 0
	}
	return p.Sub(s.A).Dot(d) / l2
}

// At returns the point at parameter t.
func (s Segment) At(t float64) Point {
	return s.A.Add(s.B.Sub(s.A).Scale(t))
}

// DistanceTo returns the distance from p to the closest point of the segment.
func (s Segment) DistanceTo(p Point) float64 {
	t := math.Max(0, math.Min(1, s.Project(p)))
	return s.At(t).Dist(p)
}

// Intersection returns the crossing point of two segments when they
// cross at a single point. Parallel and collinear segments report false.
func (s Segment) Intersection(o Segment) (Point, bool) {
	r := s.B.Sub(s.A)
	q := o.B.Sub(o.A)
	den := r.Cross(q)
	if math.Abs(den) <= 1e-12*r.Len()*q.Len() {
		return Point{}, false
	}
	w := o.A.Sub(s.A)
	t := w.Cross(q) / den
	u := w.Cross(r) / den
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Point{}, false
	}
	return s.At(t), true
}

// Crosses reports whether the segments cross at a point interior to both.
// Touching at an endpoint does not count.
func (s Segment) Crosses(o Segment) bool {
	r := s.B.Sub(s.A)
	q := o.B.Sub(o.A)
	den := r.Cross(q)
	if math.Abs(den) <= 1e-12*r.Len()*q.Len() {
		return false
	}
	w := o.A.Sub(s.A)
	t := w.Cross(q) / den
	u := w.Cross(r) / den
	const eps = 1e-9
	return t > eps && t < 1-eps && u > eps && u < 1-eps
}

// AngleBetween returns the included angle in degrees (0..180) between the
// directions of two segments.
func AngleBetween(a, b Segment) float64 {
	da, db := a.Dir(), b.Dir()
	c := math.Max(-1, math.Min(1, da.Dot(db)))
	return math.Acos(c) * 180 / math.Pi
}
