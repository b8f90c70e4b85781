package takeoff

import (
	"math"

	"github.com/alexiusacademia/gotakeoff/internal/clip"
	"github.com/alexiusacademia/gotakeoff/internal/geom"
)

// JunctionKind describes how two walls meet.
type JunctionKind string

const (
	// Corner: both walls end at the junction.
	Corner JunctionKind = "corner"
	// Tee: one wall ends on the run of the other.
	Tee JunctionKind = "tee"
	// Cross: the walls pass through each other.
	Cross JunctionKind = "cross"
)

// junction is a pair of walls, by index into estimator.items, whose
// centerlines come within half the larger thickness of each other.
type junction struct {
	a, b  int
	kind  JunctionKind
	angle float64 // degrees
}

// junctions finds all meeting wall pairs. Candidates come from an R-tree
// over the centerline boxes grown by half the thickest wall.
func (e *estimator) junctions() []junction {
	n := len(e.items)
	if n < 2 {
		return nil
	}

	var maxT float64
	boxes := make([]geom.Bounds, n)
	for i, it := range e.items {
		boxes[i] = it.wall.Segment().Bounds()
		maxT = math.Max(maxT, it.wall.Thickness)
	}
	ix := clip.NewIndex(boxes, maxT/2)

	var out []junction
	for i, it := range e.items {
		for _, j := range ix.Search(boxes[i]) {
			if j <= i {
				continue
			}
			other := e.items[j]
			reach := math.Max(it.wall.Thickness, other.wall.Thickness) / 2
			if jn, ok := meet(i, j, it.wall.Segment(), other.wall.Segment(), reach); ok {
				out = append(out, jn)
			}
		}
	}
	return out
}

// meet classifies the junction of segments s and o, or reports false when
// they are further apart than reach.
func meet(i, j int, s, o geom.Segment, reach float64) (junction, bool) {
	if segmentDistance(s, o) > reach {
		return junction{}, false
	}

	sEnd, sAt := nearEnd(s, o, reach)
	oEnd, oAt := nearEnd(o, s, reach)

	jn := junction{a: i, b: j}
	switch {
	case sEnd && oEnd:
		jn.kind = Corner
		jn.angle = rayAngle(s, sAt, o, oAt)
	case sEnd || oEnd:
		jn.kind = Tee
		jn.angle = lineAngle(s, o)
	default:
		jn.kind = Cross
		jn.angle = lineAngle(s, o)
	}
	return jn, true
}

// nearEnd reports whether an endpoint of s lies within reach of o, and
// which one (true for B).
func nearEnd(s, o geom.Segment, reach float64) (bool, bool) {
	da, db := o.DistanceTo(s.A), o.DistanceTo(s.B)
	if db < da {
		return db <= reach, true
	}
	return da <= reach, false
}

// rayAngle is the included angle between the two walls measured from
// their shared end.
func rayAngle(s geom.Segment, sAtB bool, o geom.Segment, oAtB bool) float64 {
	ds, do := s.Dir(), o.Dir()
	if sAtB {
		ds = ds.Scale(-1)
	}
	if oAtB {
		do = do.Scale(-1)
	}
	c := math.Max(-1, math.Min(1, ds.Dot(do)))
	return math.Acos(c) * 180 / math.Pi
}

// lineAngle is the acute angle between the supporting lines.
func lineAngle(s, o geom.Segment) float64 {
	a := geom.AngleBetween(s, o)
	return math.Min(a, 180-a)
}

func segmentDistance(s, o geom.Segment) float64 {
	if s.Crosses(o) {
		return 0
	}
	return math.Min(
		math.Min(o.DistanceTo(s.A), o.DistanceTo(s.B)),
		math.Min(s.DistanceTo(o.A), s.DistanceTo(o.B)),
	)
}
