package clip

import (
	"sort"

	"github.com/dhconnelly/rtreego"

	"github.com/alexiusacademia/gotakeoff/internal/geom"
)

// R-tree branching factors.
const (
	treeMinChildren = 25
	treeMaxChildren = 50
)

// indexed wraps an item index and its box so it can live in an R-tree.
type indexed struct {
	idx  int
	rect rtreego.Rect
}

// Bounds implements the rtreego.Spatial interface
func (s *indexed) Bounds() rtreego.Rect {
	return s.rect
}

// toRect converts a box into an R-tree rectangle grown by pad on every
// side. pad must be positive so axis-aligned segments get a non-zero extent.
func toRect(b geom.Bounds, pad float64) rtreego.Rect {
	rect, _ := rtreego.NewRect(
		rtreego.Point{b.Min.X - pad, b.Min.Y - pad},
		[]float64{b.Width() + 2*pad, b.Height() + 2*pad},
	)
	return rect
}

// Index is a static R-tree over a list of boxes. Queries return item
// indexes in ascending order so callers stay deterministic.
type Index struct {
	tree *rtreego.Rtree
	pad  float64
}

// NewIndex builds an index over boxes, each grown by pad.
func NewIndex(boxes []geom.Bounds, pad float64) *Index {
	tree := rtreego.NewTree(2, treeMinChildren, treeMaxChildren)
	for i, b := range boxes {
		tree.Insert(&indexed{idx: i, rect: toRect(b, pad)})
	}
	return &Index{tree: tree, pad: pad}
}

// Search returns the indexes of all boxes that intersect b.
func (ix *Index) Search(b geom.Bounds) []int {
	hits := ix.tree.SearchIntersect(toRect(b, ix.pad))
	out := make([]int, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.(*indexed).idx)
	}
	sort.Ints(out)
	return out
}

// SearchPoint returns the indexes of all boxes containing p.
func (ix *Index) SearchPoint(p geom.Point) []int {
	return ix.Search(geom.Bounds{Min: p, Max: p})
}

// Size returns the number of indexed boxes.
func (ix *Index) Size() int {
	return ix.tree.Size()
}
