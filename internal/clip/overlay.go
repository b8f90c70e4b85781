package clip

import (
	"fmt"
	"math"
	"slices"
	"sort"

	sf "github.com/peterstace/simplefeatures/geom"

	"github.com/alexiusacademia/gotakeoff/internal/geom"
)

// vkey is a vertex position on the snap grid.
type vkey struct {
	x, y int64
}

// operand is a snapped input polygon and its overlay geometry.
type operand struct {
	poly geom.Polygon
	ov   sf.Geometry
}

// snapGrid rounds coordinates to multiples of tol. When 1/tol is a whole
// number the grid divides by it instead of multiplying by tol, so decimal
// coordinates map back to the exact same float.
type snapGrid struct {
	tol float64
	inv float64
}

func newSnapGrid(tol float64) snapGrid {
	g := snapGrid{tol: tol}
	if inv := math.Round(1 / tol); inv >= 1 && math.Abs(1/tol-inv) <= 1e-9*inv {
		g.inv = inv
	}
	return g
}

func (g snapGrid) key(p geom.Point) vkey {
	if g.inv > 0 {
		return vkey{int64(math.Round(p.X * g.inv)), int64(math.Round(p.Y * g.inv))}
	}
	return vkey{int64(math.Round(p.X / g.tol)), int64(math.Round(p.Y / g.tol))}
}

func (g snapGrid) point(k vkey) geom.Point {
	if g.inv > 0 {
		return geom.Point{X: float64(k.x) / g.inv, Y: float64(k.y) / g.inv}
	}
	return geom.Point{X: float64(k.x) * g.tol, Y: float64(k.y) * g.tol}
}

// snapRing rounds a ring onto the grid, dropping repeated vertices and a
// duplicated closing vertex. Non-finite coordinates void the ring.
func (g snapGrid) snapRing(r geom.Ring) geom.Ring {
	keys := make([]vkey, 0, len(r))
	for _, p := range r {
		if !p.IsFinite() {
			return nil
		}
		k := g.key(p)
		if len(keys) > 0 && keys[len(keys)-1] == k {
			continue
		}
		keys = append(keys, k)
	}
	for len(keys) > 1 && keys[0] == keys[len(keys)-1] {
		keys = keys[:len(keys)-1]
	}

	out := make(geom.Ring, len(keys))
	for i, k := range keys {
		out[i] = g.point(k)
	}
	return out
}

// prepare snaps every polygon of a set and discards the ones that are not
// valid simple polygons. Invalid holes are dropped from otherwise valid
// shells. When snapping breaks a polygon that was valid as given, the
// unsnapped polygon is used instead. Operands come back in canonical
// order, so the overlay sees the same sequence whatever the input order.
func (g snapGrid) prepare(set []geom.Polygon) []operand {
	var ops []operand
	for _, p := range set {
		if op, ok := g.operand(p, true); ok {
			ops = append(ops, op)
		} else if op, ok := g.operand(p, false); ok {
			ops = append(ops, op)
		}
	}
	sort.Slice(ops, func(i, j int) bool {
		return polygonLess(ops[i].poly, ops[j].poly)
	})
	return ops
}

func (g snapGrid) operand(p geom.Polygon, snap bool) (operand, bool) {
	ring := func(r geom.Ring) geom.Ring {
		if snap {
			return g.snapRing(r)
		}
		return g.closeless(r)
	}

	shell := ring(p.Shell)
	if !shell.IsSimple(g.tol/2) || shell.Area() <= g.tol*shell.Perimeter() {
		return operand{}, false
	}
	poly := geom.Polygon{Shell: startLowest(orient(shell, true))}
	for _, h := range p.Holes {
		hole := ring(h)
		if !hole.IsSimple(g.tol/2) || hole.Area() <= g.tol*hole.Perimeter() {
			continue
		}
		poly.Holes = append(poly.Holes, startLowest(orient(hole, false)))
	}
	sort.Slice(poly.Holes, func(a, b int) bool {
		return lowerLeft(poly.Holes[a][0], poly.Holes[b][0])
	})

	sp, err := toOverlay(poly)
	if err != nil && len(poly.Holes) > 0 {
		poly.Holes = nil
		sp, err = toOverlay(poly)
	}
	if err != nil {
		return operand{}, false
	}
	return operand{poly: poly, ov: sp.AsGeometry()}, true
}

// closeless drops non-finite rings and a duplicated closing vertex.
func (g snapGrid) closeless(r geom.Ring) geom.Ring {
	for _, p := range r {
		if !p.IsFinite() {
			return nil
		}
	}
	if n := len(r); n > 1 && r[0].Equal(r[n-1]) {
		r = r[:n-1]
	}
	return r
}

func orient(r geom.Ring, ccw bool) geom.Ring {
	if r.IsCCW() != ccw {
		return r.Reversed()
	}
	return r
}

// polygonLess is a total order on normalised polygons.
func polygonLess(a, b geom.Polygon) bool {
	if c := compareRings(a.Shell, b.Shell); c != 0 {
		return c < 0
	}
	if len(a.Holes) != len(b.Holes) {
		return len(a.Holes) < len(b.Holes)
	}
	for i := range a.Holes {
		if c := compareRings(a.Holes[i], b.Holes[i]); c != 0 {
			return c < 0
		}
	}
	return false
}

func compareRings(a, b geom.Ring) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		switch {
		case lowerLeft(a[i], b[i]):
			return -1
		case lowerLeft(b[i], a[i]):
			return 1
		}
	}
	return len(a) - len(b)
}

// toOverlay converts a polygon to the overlay library's representation.
// Construction validates the rings.
func toOverlay(p geom.Polygon) (sf.Polygon, error) {
	rings := make([]sf.LineString, 0, 1+len(p.Holes))
	for _, r := range append([]geom.Ring{p.Shell}, p.Holes...) {
		coords := make([]float64, 0, 2*(len(r)+1))
		for _, pt := range r {
			coords = append(coords, pt.X, pt.Y)
		}
		coords = append(coords, r[0].X, r[0].Y)

		ls, err := sf.NewLineString(sf.NewSequence(coords, sf.DimXY))
		if err != nil {
			return sf.Polygon{}, err
		}
		rings = append(rings, ls)
	}
	return sf.NewPolygon(rings)
}

// unionAll merges operands pairwise in a balanced tree.
func unionAll(ops []operand) (sf.Geometry, error) {
	switch len(ops) {
	case 0:
		return sf.Geometry{}, nil
	case 1:
		return ops[0].ov, nil
	}
	mid := len(ops) / 2
	a, err := unionAll(ops[:mid])
	if err != nil {
		return sf.Geometry{}, err
	}
	b, err := unionAll(ops[mid:])
	if err != nil {
		return sf.Geometry{}, err
	}
	u, err := sf.Union(a, b)
	if err != nil {
		return sf.Geometry{}, fmt.Errorf("failed to union polygons: %w", err)
	}
	return u, nil
}

// build turns an overlay result into canonical polygons: collinear
// vertices dissolved, shells counter-clockwise and holes clockwise, each
// ring starting at its lowest-left vertex, shells sorted by their lower
// left corner. Rings thinner than the grid are dropped.
func (g snapGrid) build(res sf.Geometry) geom.MultiPolygon {
	var shells []geom.Polygon
	g.collect(res, &shells)
	if len(shells) == 0 {
		return nil
	}

	sort.Slice(shells, func(i, j int) bool {
		bi, bj := shells[i].Bounds(), shells[j].Bounds()
		if bi.Min != bj.Min {
			return lowerLeft(bi.Min, bj.Min)
		}
		return shells[i].Area() < shells[j].Area()
	})
	return geom.MultiPolygon(shells)
}

func (g snapGrid) collect(res sf.Geometry, out *[]geom.Polygon) {
	switch res.Type() {
	case sf.TypePolygon:
		if p, ok := g.fromOverlay(res.AsPolygon()); ok {
			*out = append(*out, p)
		}
	case sf.TypeMultiPolygon:
		mp := res.AsMultiPolygon()
		for i := 0; i < mp.NumPolygons(); i++ {
			if p, ok := g.fromOverlay(mp.PolygonN(i)); ok {
				*out = append(*out, p)
			}
		}
	case sf.TypeGeometryCollection:
		gc := res.AsGeometryCollection()
		for i := 0; i < gc.NumGeometries(); i++ {
			g.collect(gc.GeometryN(i), out)
		}
	}
}

func (g snapGrid) fromOverlay(p sf.Polygon) (geom.Polygon, bool) {
	if p.IsEmpty() {
		return geom.Polygon{}, false
	}
	minArea := g.tol * g.tol

	shell := dissolve(ringOf(p.ExteriorRing()))
	if len(shell) < 3 || shell.Area() <= minArea {
		return geom.Polygon{}, false
	}
	out := geom.Polygon{Shell: startLowest(orient(shell, true))}
	for i := 0; i < p.NumInteriorRings(); i++ {
		hole := dissolve(ringOf(p.InteriorRingN(i)))
		if len(hole) < 3 || hole.Area() <= minArea {
			continue
		}
		out.Holes = append(out.Holes, startLowest(orient(hole, false)))
	}
	sort.Slice(out.Holes, func(a, b int) bool {
		return lowerLeft(out.Holes[a][0], out.Holes[b][0])
	})
	return out, true
}

// ringOf reads an overlay ring without its closing vertex.
func ringOf(ls sf.LineString) geom.Ring {
	seq := ls.Coordinates()
	n := seq.Length()
	if n > 1 && seq.GetXY(0) == seq.GetXY(n-1) {
		n--
	}
	r := make(geom.Ring, n)
	for i := range r {
		xy := seq.GetXY(i)
		r[i] = geom.Point{X: xy.X, Y: xy.Y}
	}
	return r
}

// dissolve removes vertices where the ring runs straight on or doubles
// back on itself.
func dissolve(r geom.Ring) geom.Ring {
	out := slices.Clone(r)
	for changed := true; changed && len(out) >= 3; {
		changed = false
		for i := 0; i < len(out) && len(out) >= 3; i++ {
			n := len(out)
			a, b, c := out[(i+n-1)%n], out[i], out[(i+1)%n]
			u, v := b.Sub(a), c.Sub(b)
			if math.Abs(u.Cross(v)) <= 1e-12*u.Len()*v.Len() {
				out = slices.Delete(out, i, i+1)
				changed = true
				i--
			}
		}
	}
	return out
}

func lowerLeft(p, q geom.Point) bool {
	if p.Y != q.Y {
		return p.Y < q.Y
	}
	return p.X < q.X
}

// startLowest rotates a ring so it starts at its lowest, then leftmost,
// vertex.
func startLowest(r geom.Ring) geom.Ring {
	first := 0
	for i := range r {
		if lowerLeft(r[i], r[first]) {
			first = i
		}
	}
	out := make(geom.Ring, 0, len(r))
	out = append(out, r[first:]...)
	return append(out, r[:first]...)
}
