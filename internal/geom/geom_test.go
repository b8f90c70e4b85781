package geom

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingSignedArea(t *testing.T) {
	tests := []struct {
		name string
		ring Ring
		want float64
	}{
		{"empty", nil, 0},
		{"two points", Ring{{0, 0}, {1, 1}}, 0},
		{"unit square ccw", Ring{{0, 0}, {1, 0}, {1, 1}, {0, 1}}, 1},
		{"unit square cw", Ring{{0, 0}, {0, 1}, {1, 1}, {1, 0}}, -1},
		{"triangle", Ring{{0, 0}, {4, 0}, {0, 3}}, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.ring.SignedArea(), 1e-12)
		})
	}
}

func TestPolygonAreaNetsOutHoles(t *testing.T) {
	p := Polygon{
		Shell: Rect(0, 0, 10, 10).Shell,
		Holes: []Ring{Rect(2, 2, 4, 4).Shell.Reversed(), Rect(6, 6, 9, 9).Shell.Reversed()},
	}
	assert.InDelta(t, 100-4-9, p.Area(), 1e-12)

	m := MultiPolygon{p, Rect(20, 20, 21, 22)}
	assert.InDelta(t, 87+2, m.Area(), 1e-12)
	assert.InDelta(t, 100+2, m.ShellArea(), 1e-12)
}

func TestPolygonAreaNeverNegative(t *testing.T) {
	p := Polygon{Shell: Rect(0, 0, 1, 1).Shell, Holes: []Ring{Rect(-1, -1, 2, 2).Shell}}
	assert.Equal(t, 0.0, p.Area())
}

func TestPolygonContains(t *testing.T) {
	p := Polygon{Shell: Rect(0, 0, 10, 10).Shell, Holes: []Ring{Rect(2, 2, 4, 4).Shell.Reversed()}}
	assert.True(t, p.Contains(Pt(1, 1)))
	assert.False(t, p.Contains(Pt(3, 3)))
	assert.False(t, p.Contains(Pt(11, 5)))
}

func TestRingIsSimple(t *testing.T) {
	assert.True(t, Rect(0, 0, 3, 1).Shell.IsSimple(PointTolerance))

	bowtie := Ring{{0, 0}, {2, 2}, {2, 0}, {0, 2}}
	assert.False(t, bowtie.IsSimple(PointTolerance))

	crossed := Ring{{0, 0}, {4, 0}, {0, 4}, {1, 5}}
	require.Greater(t, crossed.Area(), 1.0)
	assert.False(t, crossed.IsSimple(PointTolerance), "non-adjacent edges cross")

	pinched := Ring{{0, 0}, {4, 0}, {4, 4}, {2, 2}, {0, 4}, {2, 2}}
	assert.True(t, pinched.IsSimple(PointTolerance), "touching at a vertex is allowed")

	flat := Ring{{0, 0}, {5, 0}, {5, 0}, {0, 0}}
	assert.False(t, flat.IsSimple(PointTolerance))

	assert.False(t, Ring{{0, 0}, {1, 0}}.IsSimple(PointTolerance))
}

func TestPointNear(t *testing.T) {
	assert.True(t, Pt(0, 0).Equal(Pt(0.0005, 0)))
	assert.False(t, Pt(0, 0).Equal(Pt(0.01, 0)))
	assert.False(t, Point{math.NaN(), 0}.IsFinite())
}

func TestSegmentIntersection(t *testing.T) {
	a := Segment{Pt(0, 0), Pt(10, 0)}
	b := Segment{Pt(5, -5), Pt(5, 5)}
	p, ok := a.Intersection(b)
	require.True(t, ok)
	assert.InDelta(t, 5, p.X, 1e-12)
	assert.InDelta(t, 0, p.Y, 1e-12)

	_, ok = a.Intersection(Segment{Pt(0, 1), Pt(10, 1)})
	assert.False(t, ok, "parallel segments do not cross")

	assert.InDelta(t, 3, a.DistanceTo(Pt(13, 0)), 1e-12)
	assert.InDelta(t, 90, AngleBetween(a, b), 1e-9)
}

func TestRingCentroid(t *testing.T) {
	c := Rect(0, 0, 4, 2).Shell.Centroid()
	assert.InDelta(t, 2, c.X, 1e-12)
	assert.InDelta(t, 1, c.Y, 1e-12)
}

func TestOrbRoundTripKeepsArea(t *testing.T) {
	p := Polygon{Shell: Rect(0, 0, 10, 10).Shell, Holes: []Ring{Rect(2, 2, 4, 4).Shell.Reversed()}}
	m := MultiPolygon{p, Rect(20, 0, 25, 2)}

	assert.InDelta(t, m.Area(), planar.Area(m.Orb()), 1e-9)

	back := PolygonFromOrb(p.Orb())
	assert.InDelta(t, p.Area(), back.Area(), 1e-12)
	assert.True(t, back.Shell.IsCCW())
	assert.Len(t, back.Shell, 4)

	assert.Equal(t, orb.Point{0, 0}, p.Shell.Orb()[4], "orb rings are closed")
}
