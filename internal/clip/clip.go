// Package clip implements polygon boolean operations (union, difference,
// intersection) over multi-polygons.
//
// Operands are snap-rounded to a grid whose pitch is the engine tolerance,
// invalid rings are dropped, and the overlay itself runs on the
// simplefeatures DCEL engine. Results are converted back with collinear
// vertices dissolved, shells counter-clockwise and holes clockwise.
//
// All operations are pure. Operands are overlaid in a canonical order and
// results are sorted canonically, so the output does not depend on
// operand order.
package clip

import (
	"fmt"
	"math"

	sf "github.com/peterstace/simplefeatures/geom"

	"github.com/alexiusacademia/gotakeoff/internal/geom"
)

// Snap tolerance policy.
//
// Every operand vertex is rounded to a grid of pitch tol,
// where tol = max(AbsoluteSnapTolerance, RelativeSnapTolerance × extent)
// rounded down to a power of ten, and extent is the larger side of the
// operands' bounding box. For a 10 m plan drawn in millimetres this is
// 1e-3 mm, so decimal input coordinates land on the grid unchanged.
// Result rings with less than one grid cell of area are dropped.
const (
	RelativeSnapTolerance = 1e-7
	AbsoluteSnapTolerance = 1e-9
)

// Engine performs boolean operations with a fixed snap tolerance.
// The zero value derives the tolerance from the operands' extent.
type Engine struct {
	// Tolerance is the snap grid pitch in drawing units. Zero means
	// "derive from the operands".
	Tolerance float64
}

// New returns an engine with an explicit snap tolerance.
func New(tolerance float64) *Engine {
	return &Engine{Tolerance: tolerance}
}

var defaultEngine = &Engine{}

// Union merges all polygons into a set of disjoint polygons.
func Union(polys ...geom.Polygon) (geom.MultiPolygon, error) {
	return defaultEngine.Union(polys...)
}

// Difference returns the parts of a not covered by b.
func Difference(a, b geom.MultiPolygon) (geom.MultiPolygon, error) {
	return defaultEngine.Difference(a, b)
}

// Intersection returns the parts covered by both a and b.
func Intersection(a, b geom.MultiPolygon) (geom.MultiPolygon, error) {
	return defaultEngine.Intersection(a, b)
}

// Union merges all polygons into a set of disjoint polygons. Degenerate
// and self-intersecting polygons are skipped.
func (e *Engine) Union(polys ...geom.Polygon) (geom.MultiPolygon, error) {
	g := newSnapGrid(e.tolerance([][]geom.Polygon{polys}))
	ops := g.prepare(polys)
	if len(ops) == 0 {
		return nil, nil
	}
	u, err := unionAll(ops)
	if err != nil {
		return nil, err
	}
	return g.build(u), nil
}

// Difference returns the parts of a not covered by b. When b covers a
// completely the result is empty.
func (e *Engine) Difference(a, b geom.MultiPolygon) (geom.MultiPolygon, error) {
	if len(a) == 0 {
		return nil, nil
	}
	if len(b) == 0 || !a.Bounds().Intersects(b.Bounds()) {
		return e.Union(a...)
	}
	return e.binary(a, b, sf.Difference, "difference")
}

// Intersection returns the parts covered by both a and b.
func (e *Engine) Intersection(a, b geom.MultiPolygon) (geom.MultiPolygon, error) {
	if len(a) == 0 || len(b) == 0 || !a.Bounds().Intersects(b.Bounds()) {
		return nil, nil
	}
	return e.binary(a, b, sf.Intersection, "intersection")
}

func (e *Engine) binary(a, b geom.MultiPolygon, op func(x, y sf.Geometry) (sf.Geometry, error), name string) (geom.MultiPolygon, error) {
	g := newSnapGrid(e.tolerance([][]geom.Polygon{a, b}))
	ua, err := unionAll(g.prepare(a))
	if err != nil {
		return nil, err
	}
	ub, err := unionAll(g.prepare(b))
	if err != nil {
		return nil, err
	}
	res, err := op(ua, ub)
	if err != nil {
		return nil, fmt.Errorf("failed to compute %s: %w", name, err)
	}
	return g.build(res), nil
}

// tolerance returns the snap pitch for a set of operands.
func (e *Engine) tolerance(sets [][]geom.Polygon) float64 {
	if e.Tolerance > 0 {
		return e.Tolerance
	}
	b := geom.EmptyBounds()
	for _, set := range sets {
		for _, p := range set {
			b = b.Union(p.Bounds())
		}
	}
	raw := math.Max(AbsoluteSnapTolerance, RelativeSnapTolerance*b.Extent())
	exp := math.Floor(math.Log10(raw))
	if math.Pow(10, exp+1) <= raw*(1+1e-9) {
		exp++
	}
	return math.Pow(10, exp)
}
