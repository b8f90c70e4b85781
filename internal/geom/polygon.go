package geom

import (
	"math"
	"slices"
	"sort"
)

// SignedArea computes the ring area using the shoelace formula.
// Counter-clockwise rings are positive.
func (r Ring) SignedArea() float64 {
	n := len(r)
	if n < 3 {
		return 0
	}

	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += r[i].X*r[j].Y - r[j].X*r[i].Y
	}
	return sum / 2
}

// Area returns the absolute ring area.
func (r Ring) Area() float64 {
	return math.Abs(r.SignedArea())
}

// IsCCW reports whether the ring winds counter-clockwise.
func (r Ring) IsCCW() bool {
	return r.SignedArea() > 0
}

// Reversed returns a copy of the ring in the opposite winding.
func (r Ring) Reversed() Ring {
	out := slices.Clone(r)
	slices.Reverse(out)
	return out
}

// Bounds returns the bounding box of the ring.
func (r Ring) Bounds() Bounds {
	b := EmptyBounds()
	for _, p := range r {
		b = b.Extend(p)
	}
	return b
}

// Centroid returns the area centroid of the ring. Degenerate rings
// return the vertex average.
func (r Ring) Centroid() Point {
	n := len(r)
	if n == 0 {
		return Point{}
	}

	var signedArea, sumX, sumY float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := r[i].X*r[j].Y - r[j].X*r[i].Y
		signedArea += cross
		sumX += (r[i].X + r[j].X) * cross
		sumY += (r[i].Y + r[j].Y) * cross
	}
	signedArea /= 2

	if signedArea == 0 {
		var c Point
		for _, p := range r {
			c = c.Add(p)
		}
		return c.Scale(1 / float64(n))
	}
	return Point{sumX / (6 * signedArea), sumY / (6 * signedArea)}
}

// Contains reports whether p lies strictly inside the ring using the
// even-odd crossing rule. Points on the boundary may go either way.
func (r Ring) Contains(p Point) bool {
	inside := false
	n := len(r)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := r[i], r[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// Perimeter returns the length of the closed ring.
func (r Ring) Perimeter() float64 {
	var sum float64
	for i := range r {
		sum += r[i].Dist(r[(i+1)%len(r)])
	}
	return sum
}

// IsSimple reports whether the ring has at least three distinct vertices,
// a non-zero area and no pair of non-adjacent edges that cross. Rings that
// only touch themselves at a vertex are accepted. Edges are swept in X
// order so the check stays close to linear for wall-shaped rings.
func (r Ring) IsSimple(tol float64) bool {
	n := len(r)
	if n < 3 || r.Area() <= tol*tol {
		return false
	}
	for i := 0; i < n; i++ {
		if r[i].Near(r[(i+1)%n], tol) {
			return false
		}
	}

	edge := func(i int) Segment { return Segment{r[i], r[(i+1)%n]} }
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return edge(order[a]).Bounds().Min.X < edge(order[b]).Bounds().Min.X
	})

	for oi, i := range order {
		a := edge(i)
		maxX := a.Bounds().Max.X
		for _, j := range order[oi+1:] {
			b := edge(j)
			if b.Bounds().Min.X > maxX {
				break
			}
			if adjacent(i, j, n) {
				continue
			}
			if a.Crosses(b) {
				return false
			}
		}
	}
	return true
}

func adjacent(i, j, n int) bool {
	d := i - j
	if d < 0 {
		d = -d
	}
	return d == 1 || d == n-1
}

// Area returns the shell area minus the hole areas, floored at zero.
func (p Polygon) Area() float64 {
	a := p.Shell.Area()
	for _, h := range p.Holes {
		a -= h.Area()
	}
	return math.Max(0, a)
}

// Bounds returns the bounding box of the shell.
func (p Polygon) Bounds() Bounds {
	return p.Shell.Bounds()
}

// Contains reports whether pt is inside the shell and outside every hole.
func (p Polygon) Contains(pt Point) bool {
	if !p.Shell.Contains(pt) {
		return false
	}
	for _, h := range p.Holes {
		if h.Contains(pt) {
			return false
		}
	}
	return true
}

// IsEmpty reports whether the polygon has no shell.
func (p Polygon) IsEmpty() bool {
	return len(p.Shell) < 3
}

// Normalized returns the polygon with a CCW shell and CW holes.
func (p Polygon) Normalized() Polygon {
	out := Polygon{Shell: p.Shell}
	if !p.Shell.IsCCW() {
		out.Shell = p.Shell.Reversed()
	}
	for _, h := range p.Holes {
		if h.IsCCW() {
			h = h.Reversed()
		}
		out.Holes = append(out.Holes, h)
	}
	return out
}

// Area returns the summed area of all member polygons.
func (m MultiPolygon) Area() float64 {
	var sum float64
	for _, p := range m {
		sum += p.Area()
	}
	return sum
}

// ShellArea returns the summed shell areas, ignoring holes. For a wall
// footprint this is the floor area enclosed by its outer faces.
func (m MultiPolygon) ShellArea() float64 {
	var sum float64
	for _, p := range m {
		sum += p.Shell.Area()
	}
	return sum
}

// Bounds returns the bounding box of all member polygons.
func (m MultiPolygon) Bounds() Bounds {
	b := EmptyBounds()
	for _, p := range m {
		b = b.Union(p.Bounds())
	}
	return b
}

// Contains reports whether pt lies inside any member polygon.
func (m MultiPolygon) Contains(pt Point) bool {
	for _, p := range m {
		if p.Contains(pt) {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the multi-polygon has no members.
func (m MultiPolygon) IsEmpty() bool {
	return len(m) == 0
}

// Rect returns the CCW rectangle spanning the two corners.
func Rect(x0, y0, x1, y1 float64) Polygon {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return Polygon{Shell: Ring{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}}
}
