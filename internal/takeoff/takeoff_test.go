package takeoff

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/alexiusacademia/gotakeoff/internal/geom"
	"github.com/alexiusacademia/gotakeoff/internal/materials"
	"github.com/alexiusacademia/gotakeoff/internal/plan"
	"github.com/alexiusacademia/gotakeoff/internal/settings"
)

func wall(id string, x0, y0, x1, y1, t float64) plan.Wall {
	return plan.Wall{ID: id, Start: geom.Pt(x0, y0), End: geom.Pt(x1, y1), Thickness: t}
}

func lPlan() *plan.Plan {
	return &plan.Plan{Walls: []plan.Wall{
		wall("a", 0, 0, 3000, 0, 225),
		wall("b", 3000, 0, 3000, 3000, 225),
	}}
}

func tPlan() *plan.Plan {
	return &plan.Plan{Walls: []plan.Wall{
		wall("a", 0, 0, 2000, 0, 225),
		wall("b", 2000, 0, 4000, 0, 225),
		wall("c", 2000, 0, 2000, 3000, 225),
	}}
}

func xPlan() *plan.Plan {
	return &plan.Plan{Walls: []plan.Wall{
		wall("e", 0, 0, 2000, 0, 225),
		wall("w", 0, 0, -2000, 0, 225),
		wall("n", 0, 0, 0, 2000, 225),
		wall("s", 0, 0, 0, -2000, 225),
	}}
}

func roomPlan() *plan.Plan {
	return &plan.Plan{Walls: []plan.Wall{
		wall("south", 0, 0, 4000, 0, 225),
		wall("east", 4000, 0, 4000, 4000, 225),
		wall("north", 4000, 4000, 0, 4000, 225),
		wall("west", 0, 4000, 0, 0, 225),
	}}
}

func roomWithPartition() *plan.Plan {
	p := roomPlan()
	p.Walls = append(p.Walls, wall("partition", 2000, 0, 2000, 4000, 100))
	return p
}

func estimate(t *testing.T, p *plan.Plan, s *settings.Settings, opts ...Option) *Result {
	t.Helper()
	if s == nil {
		s = &settings.Settings{}
	}
	r, err := Estimate(p, s, opts...)
	require.NoError(t, err)
	return r
}

const (
	unitCell225 = 475.0 * 250 * 225
	unitCell100 = 475.0 * 250 * 100
)

func TestScenarios(t *testing.T) {
	tests := []struct {
		name   string
		plan   *plan.Plan
		area   float64 // mm², structural
		blocks int
	}{
		// Butt-ended footprints overlap by (t/2)² at an L.
		{"L junction", lPlan(), 2*3000*225 - 112.5*112.5, 151},
		// 4 649 062 500 mm³ is exactly 174 unit cells.
		{"T junction", tPlan(), 4000*225 + 3000*225 - 225*112.5, 174},
		{"cross junction", xPlan(), 2*4000*225 - 225*225, 197},
		// Outer corners of a butt-ended room are notched by (t/2)².
		{"room", roomPlan(), 4225*4225 - 3775*3775 - 4*112.5*112.5, 399},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := estimate(t, tt.plan, nil)
			assert.InEpsilon(t, tt.area/1e6, r.Structural.Area, 1e-9)
			assert.InEpsilon(t, tt.area*3000/1e9, r.Structural.GrossVolume, 1e-9)
			assert.InEpsilon(t, unitCell225/1e9, r.Structural.UnitCell, 1e-12)
			assert.Equal(t, tt.blocks, r.Structural.Blocks)
			assert.Equal(t, tt.blocks, r.TotalBlocks)
			assert.Zero(t, r.Partition.Blocks)
		})
	}
}

// naiveContacts counts, at every wall end, the arms that leave it (one per
// wall ending there, two per wall running through) less one. A naive
// takeoff removes one t² square per contact.
func naiveContacts(p *plan.Plan) (contacts, pairs int) {
	var nodes []geom.Point
	for _, w := range p.Walls {
		for _, q := range []geom.Point{w.Start, w.End} {
			if !slices.ContainsFunc(nodes, func(n geom.Point) bool { return n.Near(q, 1e-6) }) {
				nodes = append(nodes, q)
			}
		}
	}
	for _, n := range nodes {
		arms, walls := 0, 0
		for _, w := range p.Walls {
			switch {
			case w.Start.Near(n, 1e-6) || w.End.Near(n, 1e-6):
				arms++
				walls++
			case w.Segment().DistanceTo(n) < 1e-6:
				arms += 2
				walls++
			}
		}
		contacts += arms - 1
		pairs += walls * (walls - 1) / 2
	}
	return contacts, pairs
}

func TestNaiveJunctionFigures(t *testing.T) {
	withPartition := roomPlan()
	withPartition.Walls = append(withPartition.Walls, wall("partition", 2000, 0, 2000, 4000, 225))

	tests := []struct {
		name     string
		plan     *plan.Plan
		contacts int
		naive    int
		exact    int
	}{
		{"L junction", lPlan(), 1, 146, 151},
		{"T junction", tPlan(), 2, 166, 174},
		{"cross junction", xPlan(), 3, 186, 197},
		{"room", roomPlan(), 4, 382, 399},
		{"room with partition", withPartition, 8, 460, 494},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := estimate(t, tt.plan, nil, WithDiagnostics())

			contacts, pairs := naiveContacts(tt.plan)
			require.Equal(t, tt.contacts, contacts)
			assert.Len(t, r.Diagnostics.Junctions, pairs)

			var naiveArea float64 // m²
			for _, c := range r.Diagnostics.Classes {
				naiveArea += c.NaiveArea
			}
			const th, h = 0.225, 3.0
			volume := (naiveArea - float64(contacts)*th*th) * h
			naive := int(math.Ceil(volume/r.Structural.UnitCell - 1e-9))

			assert.Equal(t, tt.naive, naive)
			assert.Equal(t, tt.exact, r.TotalBlocks)
			assert.Greater(t, r.TotalBlocks, naive, "exact footprints keep the material a naive takeoff removes")
		})
	}
}

func TestRoomWithPartition(t *testing.T) {
	r := estimate(t, roomWithPartition(), nil)

	assert.Equal(t, 399, r.Structural.Blocks)
	assert.Equal(t, 1, r.Partition.Walls)
	// The partition is trimmed where it runs into the structural walls.
	assert.InEpsilon(t, 100*3775/1e6, r.Partition.Area, 1e-9)
	assert.InEpsilon(t, unitCell100/1e9, r.Partition.UnitCell, 1e-12)
	assert.Equal(t, 96, r.Partition.Blocks)
	assert.Equal(t, 495, r.TotalBlocks)
}

func TestOrderIndependence(t *testing.T) {
	p := roomWithPartition()
	p.Openings = []plan.Opening{{ID: "d1", WallID: "south", Width: 900, Height: 2100, Position: 1000}}
	p.Columns = []plan.Column{{ID: "c1", Position: geom.Pt(4000, 4000), Width: 300, Height: 300}}

	base := estimate(t, p, nil, WithDiagnostics())

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		q := *p
		q.Walls = append([]plan.Wall(nil), p.Walls...)
		rng.Shuffle(len(q.Walls), func(a, b int) { q.Walls[a], q.Walls[b] = q.Walls[b], q.Walls[a] })

		got := estimate(t, &q, nil, WithDiagnostics())
		require.Equal(t, base, got, "permutation %d", i)
	}
}

func TestDeterminism(t *testing.T) {
	p := roomWithPartition()
	a, err := json.Marshal(estimate(t, p, nil, WithDiagnostics()))
	require.NoError(t, err)
	b, err := json.Marshal(estimate(t, p, nil, WithDiagnostics()))
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestStructuralPrecedence(t *testing.T) {
	p := &plan.Plan{Walls: []plan.Wall{
		wall("s", 0, 0, 4000, 0, 225),
		wall("p", 1000, 0, 3000, 0, 100),
	}}
	r := estimate(t, p, nil)
	assert.InDelta(t, 0, r.Partition.Area, 1e-9)
	assert.Zero(t, r.Partition.Blocks)
	assert.Equal(t, 1, r.Partition.Walls)
	assert.InEpsilon(t, 0.9, r.Structural.Area, 1e-12)
}

func TestHeightBands(t *testing.T) {
	t.Run("disjoint", func(t *testing.T) {
		p := &plan.Plan{Walls: []plan.Wall{
			wall("a", 0, 0, 4000, 0, 225),
			wall("b", 0, 2000, 4000, 2000, 225),
		}}
		p.Walls[0].Height = 3000
		p.Walls[1].Height = 2000
		r := estimate(t, p, nil)
		assert.InEpsilon(t, 0.9*3+0.9*2, r.Structural.GrossVolume, 1e-12)
	})

	t.Run("overlap counted at the lower height", func(t *testing.T) {
		p := lPlan()
		p.Walls[1].Height = 2000
		r := estimate(t, p, nil)
		want := 675000.0*3000 + 675000*2000 - 112.5*112.5*2000
		assert.InEpsilon(t, want/1e9, r.Structural.GrossVolume, 1e-9)
	})

	t.Run("zero height uses default", func(t *testing.T) {
		s := &settings.Settings{WallHeightDefault: settings.Float(2400)}
		r := estimate(t, lPlan(), s)
		assert.InEpsilon(t, (2*3000*225-112.5*112.5)*2400/1e9, r.Structural.GrossVolume, 1e-9)
	})
}

func TestOpeningsAndLintels(t *testing.T) {
	p := roomPlan()
	p.Openings = []plan.Opening{{ID: "d1", WallID: "south", Kind: plan.Door, Width: 900, Height: 2100, Position: 2000}}
	gross := (4225.0*4225 - 3775*3775 - 4*112.5*112.5) * 3000

	r := estimate(t, p, nil)
	assert.InEpsilon(t, 0.42525, r.Structural.OpeningVolume, 1e-12)
	assert.InEpsilon(t, 0.0405, r.Structural.LintelVolume, 1e-12)
	assert.False(t, r.Structural.LintelDeducted)
	assert.InEpsilon(t, (gross-425250000)/1e9, r.Structural.NetVolume, 1e-9)
	assert.Equal(t, 383, r.Structural.Blocks)

	lintel, ok := r.Concrete.Item(ItemLintel)
	require.True(t, ok)
	assert.InEpsilon(t, 0.0405, lintel.Volume, 1e-12)

	bars, ok := r.Steel.Item(ItemLintelBars)
	require.True(t, ok)
	assert.InEpsilon(t, 2.4, bars.Length, 1e-12)
	assert.InEpsilon(t, materials.RebarMass(10, 2.4), bars.Mass, 1e-12)

	r = estimate(t, p, &settings.Settings{DeductLintelFromBlocks: true})
	assert.True(t, r.Structural.LintelDeducted)
	assert.Equal(t, 382, r.Structural.Blocks)

	t.Run("explicit zero overhang and mortar", func(t *testing.T) {
		r := estimate(t, p, &settings.Settings{
			LintelOverhang:  settings.Float(0),
			MortarThickness: settings.Float(0),
		})
		assert.InEpsilon(t, 0.030375, r.Structural.LintelVolume, 1e-12)
		assert.InEpsilon(t, 0.02278125, r.Structural.UnitCell, 1e-12)
		assert.Equal(t, 449, r.Structural.Blocks)
		assert.InDelta(t, 0, r.Structural.Mortar.WetVolume, 1e-9)

		bars, ok := r.Steel.Item(ItemLintelBars)
		require.True(t, ok)
		assert.InEpsilon(t, 1.8, bars.Length, 1e-12)
	})
}

func TestChainLintel(t *testing.T) {
	r := estimate(t, lPlan(), &settings.Settings{LintelType: "chain"})
	area := 2*3000*225 - 112.5*112.5
	assert.InEpsilon(t, area*150/1e9, r.Structural.LintelVolume, 1e-9)

	bars, _ := r.Steel.Item(ItemLintelBars)
	assert.InEpsilon(t, 2*6.0, bars.Length, 1e-12)
}

func TestDanglingOpening(t *testing.T) {
	p := lPlan()
	p.Openings = []plan.Opening{{ID: "w1", WallID: "missing", Width: 1200, Height: 1200}}
	base := estimate(t, lPlan(), nil)

	r := estimate(t, p, nil, WithDiagnostics())
	assert.Zero(t, r.Structural.OpeningVolume)
	assert.Equal(t, base.Structural.Blocks, r.Structural.Blocks)
	require.NotNil(t, r.Diagnostics)
	assert.Equal(t, []string{"w1"}, r.Diagnostics.DanglingOpenings)
}

func TestDegenerateWall(t *testing.T) {
	p := lPlan()
	p.Walls = append(p.Walls, wall("dot", 500, 500, 500, 500, 225))
	r := estimate(t, p, nil, WithDiagnostics())

	assert.Equal(t, 151, r.Structural.Blocks)
	assert.Equal(t, 2, r.Structural.Walls)
	assert.Equal(t, []string{"dot"}, r.Diagnostics.SkippedWalls)
}

func TestNetVolumeClamped(t *testing.T) {
	p := &plan.Plan{
		Walls:    []plan.Wall{wall("a", 0, 0, 1000, 0, 225)},
		Openings: []plan.Opening{{WallID: "a", Width: 2000, Height: 3000}},
	}
	r := estimate(t, p, nil)
	assert.Zero(t, r.Structural.NetVolume)
	assert.Zero(t, r.Structural.Blocks)
	assert.Zero(t, r.Structural.Mortar.WetVolume)
}

func TestColumnDeduction(t *testing.T) {
	p := roomPlan()
	p.Columns = []plan.Column{{ID: "c1", Position: geom.Pt(2000, 0), Width: 300, Height: 300}}
	gross := (4225.0*4225 - 3775*3775 - 4*112.5*112.5) * 3000

	t.Run("spatial", func(t *testing.T) {
		r := estimate(t, p, nil)
		// Only the part of the column inside the wall is removed.
		assert.InEpsilon(t, 300*225*3000/1e9, r.Structural.ColumnVolume, 1e-9)
		assert.Equal(t, 391, r.Structural.Blocks)
	})

	t.Run("global", func(t *testing.T) {
		r := estimate(t, p, &settings.Settings{ColumnDeduction: "global"})
		assert.InEpsilon(t, 0.27, r.Structural.ColumnVolume, 1e-12)
		assert.InEpsilon(t, (gross-270e6)/1e9, r.Structural.NetVolume, 1e-9)
		assert.Equal(t, 389, r.Structural.Blocks)
	})

	t.Run("column off the walls", func(t *testing.T) {
		q := roomPlan()
		q.Columns = []plan.Column{{Position: geom.Pt(2000, 2000), Width: 300, Height: 300}}
		r := estimate(t, q, nil)
		assert.Zero(t, r.Structural.ColumnVolume)
		assert.Equal(t, 399, r.Structural.Blocks)
	})
}

func TestWastage(t *testing.T) {
	r := estimate(t, lPlan(), &settings.Settings{WastagePercentage: settings.Float(5)})
	assert.Equal(t, 158, r.Structural.Blocks)
}

func TestMortar(t *testing.T) {
	r := estimate(t, lPlan(), nil)
	net := (2*3000*225 - 112.5*112.5) * 3000
	raw := net / unitCell225
	want := (net - raw*450*225*225) / 1e9

	assert.InEpsilon(t, want, r.Structural.Mortar.WetVolume, 1e-9)
	assert.InEpsilon(t, want*materials.MortarDryFactor, r.Mortar.DryVolume, 1e-9)
	assert.Zero(t, r.Mortar.AggregateVolume)
	assert.Greater(t, r.Mortar.Bags(), 0)
}

func TestConcrete(t *testing.T) {
	p := roomPlan()
	p.Columns = []plan.Column{{ID: "c1", Position: geom.Pt(0, 0), Width: 300, Height: 300}}
	p.Beams = []plan.Beam{{ID: "b1", Start: geom.Pt(0, 0), End: geom.Pt(4000, 0), Width: 250, Depth: 400}}
	p.Slabs = []plan.Slab{{ID: "s1", Outline: []geom.Point{
		geom.Pt(0, 0), geom.Pt(0, 4000), geom.Pt(4000, 4000), geom.Pt(4000, 0),
	}}}

	r := estimate(t, p, nil)
	require.Len(t, r.Concrete.Items, 6)

	want := map[string]float64{
		// Shell of the notched room outline.
		ItemFloor: (4225.0*4225 - 4*112.5*112.5) * 100 / 1e9,
		// 600 mm strips, overlapping by 300² at each corner.
		ItemFoundation: (4*4000*600 - 4*300*300) * 250 / 1e9,
		ItemColumns:    0.27,
		ItemBeams:      0.4,
		ItemSlabs:      1.6,
	}
	var total float64
	for name, v := range want {
		it, ok := r.Concrete.Item(name)
		require.True(t, ok, name)
		assert.InEpsilon(t, v, it.Volume, 1e-9, name)
		assert.Equal(t, "1:2:4", it.Mix)
		total += v
	}
	assert.InEpsilon(t, total, r.Concrete.Total.WetVolume, 1e-9)
}

func TestPadFoundation(t *testing.T) {
	p := roomPlan()
	p.Columns = []plan.Column{
		{ID: "c1", Position: geom.Pt(0, 0), Width: 300, Height: 300},
		{ID: "c2", Position: geom.Pt(4000, 0), Width: 300, Height: 300, PadWidth: 1500},
	}
	r := estimate(t, p, &settings.Settings{FoundationType: "pad"})
	it, ok := r.Concrete.Item(ItemFoundation)
	require.True(t, ok)
	assert.InEpsilon(t, 0.3+0.45, it.Volume, 1e-12)
}

func TestSteel(t *testing.T) {
	p := &plan.Plan{
		Columns: []plan.Column{{ID: "c1", Position: geom.Pt(0, 0), Width: 300, Height: 300}},
		Beams:   []plan.Beam{{ID: "b1", Start: geom.Pt(0, 0), End: geom.Pt(4000, 0), Width: 250, Depth: 400}},
		Slabs: []plan.Slab{{Outline: []geom.Point{
			geom.Pt(0, 0), geom.Pt(4000, 0), geom.Pt(4000, 4000), geom.Pt(0, 4000),
		}}},
	}
	r := estimate(t, p, nil)
	require.Len(t, r.Steel.Items, 6)

	want := map[string]float64{
		ItemColumnBars:     4 * 3.0,
		ItemColumnStirrups: 16 * 0.88,
		ItemBeamBars:       4 * 4.0,
		ItemBeamStirrups:   21 * 0.98,
		ItemSlabMesh:       160,
	}
	var mass float64
	for _, it := range r.Steel.Items {
		mass += it.Mass
		if v, ok := want[it.Name]; ok {
			assert.InEpsilon(t, v, it.Length, 1e-9, it.Name)
			assert.InEpsilon(t, materials.RebarMass(it.Diameter, v), it.Mass, 1e-9, it.Name)
		}
	}
	assert.InDelta(t, mass, r.Steel.TotalMass, 1e-9)
	assert.Empty(t, r.Steel.Beams)
}

func TestDesignedBeamBars(t *testing.T) {
	p := &plan.Plan{Beams: []plan.Beam{{
		ID: "b1", Start: geom.Pt(0, 0), End: geom.Pt(4000, 0),
		Width: 250, Depth: 400, TributaryWidth: 3000,
	}}}
	r := estimate(t, p, nil)
	require.Len(t, r.Steel.Beams, 1)

	d := r.Steel.Beams[0]
	assert.Equal(t, "b1", d.BeamID)
	assert.InEpsilon(t, 4.0, d.Span, 1e-12)
	assert.InEpsilon(t, 11.04*3, d.Load, 1e-9)
	require.NotNil(t, d.Bars)
	assert.Equal(t, int(math.Ceil(d.Bars.AsRequired/materials.BarArea(12)-1e-9)), d.Bars.Count)

	bars, _ := r.Steel.Item(ItemBeamBars)
	assert.InEpsilon(t, float64(d.Bars.Count)*4, bars.Length, 1e-9)
}

func TestLabor(t *testing.T) {
	r := estimate(t, roomWithPartition(), nil)
	// 4 corners plus the partition's two tees.
	assert.Equal(t, 6, r.Labor.Junctions)
	assert.InDelta(t, 1+0.25*6.0/5, r.Labor.Complexity, 1e-12)
	assert.InDelta(t, 495*1.3/200, r.Labor.Days, 1e-9)
	assert.InDelta(t, r.Labor.Days*4, r.Labor.ManDays, 1e-9)
}

func TestJunctionDiagnostics(t *testing.T) {
	r := estimate(t, roomWithPartition(), nil, WithDiagnostics())
	require.NotNil(t, r.Diagnostics)

	kinds := map[JunctionKind]int{}
	for _, j := range r.Diagnostics.Junctions {
		kinds[j.Kind]++
		switch j.Kind {
		case Corner:
			assert.InDelta(t, 90, j.Angle, 1e-9)
			assert.InEpsilon(t, 112.5*112.5/1e6, j.OverlapArea, 1e-9)
			assert.InEpsilon(t, 112.5*112.5*3000/1e9, j.OverlapVolume, 1e-9)
		case Tee:
			assert.InDelta(t, 90, j.Angle, 1e-9)
			assert.InEpsilon(t, 100*112.5/1e6, j.OverlapArea, 1e-9)
		}
		assert.False(t, j.Acute)
	}
	assert.Equal(t, map[JunctionKind]int{Corner: 4, Tee: 2}, kinds)

	require.Len(t, r.Diagnostics.Classes, 2)
	s := r.Diagnostics.Classes[0]
	assert.Equal(t, plan.Structural, s.Class)
	assert.InEpsilon(t, 4*4*0.225, s.NaiveArea, 1e-12)
	assert.InEpsilon(t, 4*112.5*112.5/1e6, s.Difference, 1e-9)

	p := r.Diagnostics.Classes[1]
	assert.InEpsilon(t, 0.4, p.NaiveArea, 1e-12)
	assert.InEpsilon(t, 0.3775, p.ExactArea, 1e-9)
}

func TestDiagnosticsOptional(t *testing.T) {
	r := estimate(t, lPlan(), nil)
	assert.Nil(t, r.Diagnostics)
}

func TestCrossingOverlap(t *testing.T) {
	const th = 225.0
	for _, deg := range []float64{20, 30, 45, 60, 90, 120, 150} {
		t.Run(fmt.Sprintf("%v°", deg), func(t *testing.T) {
			rad := deg * math.Pi / 180
			dx, dy := 2000*math.Cos(rad), 2000*math.Sin(rad)
			p := &plan.Plan{Walls: []plan.Wall{
				wall("a", -2000, 0, 2000, 0, th),
				wall("b", -dx, -dy, dx, dy, th),
			}}
			r := estimate(t, p, nil, WithDiagnostics())
			require.Len(t, r.Diagnostics.Junctions, 1)

			j := r.Diagnostics.Junctions[0]
			assert.Equal(t, Cross, j.Kind)
			assert.InEpsilon(t, th*th/math.Sin(rad)/1e6, j.OverlapArea, 1e-3)
			assert.InDelta(t, math.Min(deg, 180-deg), j.Angle, 1e-9)
		})
	}
}

func TestCornerOverlapMonotone(t *testing.T) {
	prev := math.Inf(1)
	for deg := 10.0; deg <= 150; deg += 10 {
		rad := deg * math.Pi / 180
		p := &plan.Plan{Walls: []plan.Wall{
			wall("a", 0, 0, 3000, 0, 225),
			wall("b", 0, 0, 3000*math.Cos(rad), 3000*math.Sin(rad), 225),
		}}
		r := estimate(t, p, nil, WithDiagnostics())
		require.Len(t, r.Diagnostics.Junctions, 1, "%v°", deg)

		j := r.Diagnostics.Junctions[0]
		assert.Equal(t, Corner, j.Kind)
		assert.InDelta(t, deg, j.Angle, 1e-9)
		assert.Equal(t, deg < MinJunctionAngle, j.Acute)
		assert.Less(t, j.OverlapArea, prev, "%v°", deg)

		// The union never double counts the overlap.
		naive := 2 * 3000 * 225 / 1e6
		assert.InEpsilon(t, naive-j.OverlapArea, r.Structural.Area, 1e-4, "%v°", deg)
		prev = j.OverlapArea
	}
}

// perturb moves every endpoint by up to shift and turns every wall about
// its midpoint by up to turn degrees.
func perturb(p *plan.Plan, rng *rand.Rand, shift, turn float64) *plan.Plan {
	q := &plan.Plan{Walls: make([]plan.Wall, len(p.Walls))}
	for i, w := range p.Walls {
		jitter := func() geom.Point {
			return geom.Pt((rng.Float64()*2-1)*shift, (rng.Float64()*2-1)*shift)
		}
		a, b := w.Start.Add(jitter()), w.End.Add(jitter())
		mid := geom.Segment{A: a, B: b}.Midpoint()
		rad := (rng.Float64()*2 - 1) * turn * math.Pi / 180
		w.Start = mid.Add(a.Sub(mid).Rotate(rad))
		w.End = mid.Add(b.Sub(mid).Rotate(rad))
		q.Walls[i] = w
	}
	return q
}

func variation(t *testing.T, p *plan.Plan, shift, turn float64) (volume, blocks float64) {
	t.Helper()
	rng := rand.New(rand.NewSource(42))
	var vs, bs []float64
	for i := 0; i < 30; i++ {
		r := estimate(t, perturb(p, rng, shift, turn), nil)
		vs = append(vs, r.Structural.NetVolume)
		bs = append(bs, float64(r.TotalBlocks))
	}
	return cv(vs), cv(bs)
}

func cv(xs []float64) float64 {
	var mean float64
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	var ss float64
	for _, x := range xs {
		ss += (x - mean) * (x - mean)
	}
	return math.Sqrt(ss/float64(len(xs))) / mean
}

func TestNoiseRobustness(t *testing.T) {
	for name, p := range map[string]*plan.Plan{
		"L":    lPlan(),
		"T":    tPlan(),
		"X":    xPlan(),
		"room": roomPlan(),
	} {
		t.Run(name, func(t *testing.T) {
			vol, blocks := variation(t, p, 5, 1)
			assert.Less(t, vol, 0.01)
			assert.Less(t, blocks, 0.01)
		})
	}

	small, _ := variation(t, roomPlan(), 5, 1)
	large, _ := variation(t, roomPlan(), 100, 5)
	assert.Greater(t, large, small)

	// Turning a butt-ended footprint about its midpoint keeps its area, so
	// only the end jitter moves the count: about 1.6 × shift / 16 m for the
	// room. Coarse ±50 mm / ±10° drafting stays under 1 %, and the count
	// only varies by more than 5 % once ends wander by about ±500 mm.
	t.Run("coarse drafting", func(t *testing.T) {
		_, at50 := variation(t, roomPlan(), 50, 10)
		_, at250 := variation(t, roomPlan(), 250, 10)
		_, at1000 := variation(t, roomPlan(), 1000, 10)
		assert.Less(t, at50, 0.01)
		assert.Less(t, at250, 0.05)
		assert.Greater(t, at1000, 0.05)
	})
}

func TestEstimateErrors(t *testing.T) {
	_, err := Estimate(lPlan(), nil)
	assert.ErrorIs(t, err, settings.ErrNilSettings)

	_, err = EstimateConfig(lPlan(), nil)
	assert.ErrorIs(t, err, settings.ErrNilSettings)

	_, err = Estimate(lPlan(), &settings.Settings{BlockLength: settings.Float(-1)})
	var serr *settings.ValidationError
	assert.True(t, errors.As(err, &serr))

	bad := lPlan()
	bad.Walls[0].Thickness = 0
	_, err = Estimate(bad, &settings.Settings{})
	var perr *plan.ValidationError
	require.True(t, errors.As(err, &perr))
	assert.Contains(t, err.Error(), `wall "a" thickness must be positive`)

	bad = lPlan()
	bad.Walls[1].End.X = math.NaN()
	_, err = Estimate(bad, &settings.Settings{})
	assert.Error(t, err)
}

func TestEmptyPlan(t *testing.T) {
	for _, p := range []*plan.Plan{nil, {}} {
		r := estimate(t, p, nil)
		assert.Zero(t, r.TotalBlocks)
		assert.Zero(t, r.Concrete.Total.WetVolume)
		assert.Zero(t, r.Steel.TotalMass)
		assert.Zero(t, r.Labor.Days)
		assert.Equal(t, 100, r.Safety.Score)
	}
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	p := lPlan()
	p.Openings = []plan.Opening{{ID: "x", WallID: "nope", Width: 900, Height: 2100}}

	a := estimate(t, p, nil, WithLogger(zap.New(core)))
	b := estimate(t, p, nil)
	assert.Equal(t, a, b)

	assert.Equal(t, 1, logs.FilterMessage("inputs skipped").Len())
	assert.Equal(t, 2, logs.FilterMessage("wall class resolved").Len())
	assert.Equal(t, 1, logs.FilterMessage("estimate complete").Len())
}

func gridPlan(n int) *plan.Plan {
	const bay = 3000.0
	p := &plan.Plan{}
	for i := 0; i <= n; i++ {
		c := float64(i) * bay
		p.Walls = append(p.Walls,
			wall(fmt.Sprintf("h%d", i), 0, c, float64(n)*bay, c, 225),
			wall(fmt.Sprintf("v%d", i), c, 0, c, float64(n)*bay, 225),
		)
	}
	return p
}

func TestGrid(t *testing.T) {
	r := estimate(t, gridPlan(3), nil)
	// Eight 9 m bars. Interior crossings overlap by t², crossings on the
	// boundary by t²/2 and the butt-ended corners by (t/2)².
	area := 8*9000*225.0 - 4*225*225 - 8*225*112.5 - 4*112.5*112.5
	assert.InEpsilon(t, area/1e6, r.Structural.Area, 1e-9)
}

func BenchmarkEstimateGrid(b *testing.B) {
	for _, n := range []int{2, 4, 8} {
		p := gridPlan(n)
		b.Run(fmt.Sprintf("%dx%d", n, n), func(b *testing.B) {
			s := &settings.Settings{}
			for i := 0; i < b.N; i++ {
				if _, err := Estimate(p, s); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
