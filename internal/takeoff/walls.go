package takeoff

import (
	"math"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/alexiusacademia/gotakeoff/internal/clip"
	"github.com/alexiusacademia/gotakeoff/internal/geom"
	"github.com/alexiusacademia/gotakeoff/internal/plan"
	"github.com/alexiusacademia/gotakeoff/internal/safety"
	"github.com/alexiusacademia/gotakeoff/internal/settings"
)

// wallItem is a non-degenerate wall with its footprint and effective
// height.
type wallItem struct {
	wall   plan.Wall
	fp     geom.Polygon
	height float64
}

// estimator carries the working set of one Estimate call.
type estimator struct {
	plan *plan.Plan
	cfg  *settings.Config
	eng  *clip.Engine
	log  *zap.Logger

	items   []wallItem // canonical order
	skipped []string
	columns geom.MultiPolygon

	diag *Diagnostics

	// err is the first overlay failure; later overlays are skipped.
	err error
}

func (e *estimator) union(polys ...geom.Polygon) geom.MultiPolygon {
	if e.err != nil {
		return nil
	}
	u, err := e.eng.Union(polys...)
	e.err = err
	return u
}

func (e *estimator) difference(a, b geom.MultiPolygon) geom.MultiPolygon {
	if e.err != nil {
		return nil
	}
	d, err := e.eng.Difference(a, b)
	e.err = err
	return d
}

func (e *estimator) intersection(a, b geom.MultiPolygon) geom.MultiPolygon {
	if e.err != nil {
		return nil
	}
	i, err := e.eng.Intersection(a, b)
	e.err = err
	return i
}

func newEstimator(p *plan.Plan, cfg *settings.Config, o options) *estimator {
	e := &estimator{plan: p, cfg: cfg, eng: o.engine, log: o.logger}
	if o.diagnostics {
		e.diag = &Diagnostics{}
	}

	for i, w := range p.Walls {
		fp, ok := w.Footprint()
		if !ok {
			e.skipped = append(e.skipped, wallName(w, i))
			continue
		}
		e.items = append(e.items, wallItem{wall: w, fp: fp, height: e.wallHeight(w)})
	}
	sort.Slice(e.items, func(i, j int) bool {
		return itemLess(e.items[i], e.items[j])
	})
	sort.Strings(e.skipped)

	if cfg.ColumnDeduction == settings.ColumnSpatial && len(p.Columns) > 0 {
		var fps []geom.Polygon
		for _, c := range p.Columns {
			if fp, ok := c.Footprint(); ok {
				fps = append(fps, fp)
			}
		}
		e.columns = e.union(fps...)
	}
	return e
}

func (e *estimator) wallHeight(w plan.Wall) float64 {
	if w.Height > 0 {
		return w.Height
	}
	return e.cfg.WallHeightDefault
}

func wallName(w plan.Wall, i int) string {
	if w.ID != "" {
		return w.ID
	}
	return "#" + strconv.Itoa(i+1)
}

// itemLess orders walls by geometry first so that every sum over walls is
// taken in the same order whatever the input order.
func itemLess(a, b wallItem) bool {
	ka := [...]float64{a.wall.Start.X, a.wall.Start.Y, a.wall.End.X, a.wall.End.Y, a.wall.Thickness, a.height}
	kb := [...]float64{b.wall.Start.X, b.wall.Start.Y, b.wall.End.X, b.wall.End.Y, b.wall.Thickness, b.height}
	for i := range ka {
		if ka[i] != kb[i] {
			return ka[i] < kb[i]
		}
	}
	return a.wall.ID < b.wall.ID
}

func (e *estimator) itemsOf(c plan.ThicknessClass) []wallItem {
	var out []wallItem
	for _, it := range e.items {
		if it.wall.Class() == c {
			out = append(out, it)
		}
	}
	return out
}

// classGeometry holds the drawing-unit quantities of one class before
// deductions.
type classGeometry struct {
	footprint geom.MultiPolygon
	gross     float64 // units³
	column    float64 // units³, spatial deduction
	length    float64 // units
	thickness float64 // length-weighted mean
}

// resolveClass unions the class footprints in height bands. For distinct
// heights h1 > h2 > … > hn, band k is the union of walls at least hk tall,
// extruded over hk − hk+1. With one height this is area × height. The
// region is trimmed by trim (the structural union for partitions) and,
// when columns are given, the part covered by columns is reported as the
// column deduction.
func (e *estimator) resolveClass(items []wallItem, trim geom.MultiPolygon) classGeometry {
	var g classGeometry
	if len(items) == 0 {
		return g
	}

	var weighted float64
	for _, it := range items {
		l := it.wall.Length()
		g.length += l
		weighted += l * it.wall.Thickness
	}
	g.thickness = weighted / g.length

	heights := distinctHeights(items)
	for k, h := range heights {
		var polys []geom.Polygon
		for _, it := range items {
			if it.height >= h {
				polys = append(polys, it.fp)
			}
		}

		region := e.union(polys...)
		if len(trim) > 0 {
			region = e.difference(region, trim)
		}

		next := 0.0
		if k+1 < len(heights) {
			next = heights[k+1]
		}
		band := h - next
		area := region.Area()
		g.gross += area * band

		if len(e.columns) > 0 {
			cut := e.difference(region, e.columns)
			g.column += math.Max(0, area-cut.Area()) * band
		}
		g.footprint = region
	}
	return g
}

func distinctHeights(items []wallItem) []float64 {
	seen := make(map[float64]bool)
	var hs []float64
	for _, it := range items {
		if !seen[it.height] {
			seen[it.height] = true
			hs = append(hs, it.height)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(hs)))
	return hs
}

// deductions are the drawing-unit volumes removed from one class.
type deductions struct {
	openings  float64
	lintel    float64
	lintelRun float64 // lintel length, for lintel bars
}

// openingDeductions attributes each opening's void and lintel to the class
// of its host wall. Openings whose host is missing or degenerate are
// skipped.
func (e *estimator) openingDeductions() (map[plan.ThicknessClass]*deductions, []string) {
	out := map[plan.ThicknessClass]*deductions{
		plan.Structural: {},
		plan.Partition:  {},
	}
	var dangling []string

	for i, o := range e.plan.Openings {
		host, ok := e.plan.WallByID(o.WallID)
		if !ok || host.IsDegenerate() {
			name := o.ID
			if name == "" {
				name = "#" + strconv.Itoa(i+1)
			}
			dangling = append(dangling, name)
			continue
		}

		d := out[host.Class()]
		d.openings += o.Width * o.Height * host.Thickness
		if e.cfg.LintelType == settings.LintelOpening {
			run := o.Width + 2*e.cfg.LintelOverhang
			d.lintel += run * host.Thickness * e.cfg.LintelDepth
			d.lintelRun += run
		}
	}
	return out, dangling
}

// blockCount converts a net volume into blocks. raw is the count without
// wastage.
func blockCount(net, unitCell, wastage float64) (raw float64, blocks int) {
	if unitCell <= 0 || net <= 0 {
		return 0, 0
	}
	raw = net / unitCell
	n := raw * (1 + wastage)
	return raw, int(math.Ceil(n - CountEpsilon*math.Max(1, n)))
}

func (e *estimator) run() *Result {
	cfg := e.cfg
	u := cfg.UnitsPerMeter
	u2, u3 := u*u, u*u*u

	structural := e.itemsOf(plan.Structural)
	partition := e.itemsOf(plan.Partition)

	sg := e.resolveClass(structural, nil)
	pg := e.resolveClass(partition, sg.footprint)

	ded, dangling := e.openingDeductions()

	res := &Result{}
	var lintelRun float64
	for _, c := range []struct {
		class plan.ThicknessClass
		items []wallItem
		geo   classGeometry
		out   *ClassResult
	}{
		{plan.Structural, structural, sg, &res.Structural},
		{plan.Partition, partition, pg, &res.Partition},
	} {
		d := ded[c.class]
		g := c.geo

		column := g.column
		if cfg.ColumnDeduction == settings.ColumnGlobal && c.class == plan.Structural {
			column = 0
			for _, col := range e.plan.Columns {
				column += col.Area() * cfg.WallHeightDefault
			}
		}

		lintel := d.lintel
		lintelRun += d.lintelRun
		if cfg.LintelType == settings.LintelChain {
			lintel = g.footprint.Area() * cfg.LintelDepth
			lintelRun += g.length
		}

		net := g.gross - d.openings - column
		if cfg.DeductLintelFromBlocks {
			net -= lintel
		}
		net = math.Max(0, net)

		unitCell := (cfg.BlockLength + cfg.MortarThickness) * (cfg.BlockHeight + cfg.MortarThickness) * g.thickness
		raw, blocks := blockCount(net, unitCell, cfg.Wastage)
		mortar := math.Max(0, net-raw*cfg.BlockLength*cfg.BlockHeight*g.thickness)

		*c.out = ClassResult{
			Class:          c.class,
			Walls:          len(c.items),
			Length:         g.length / u,
			Thickness:      g.thickness,
			Area:           g.footprint.Area() / u2,
			GrossVolume:    g.gross / u3,
			OpeningVolume:  d.openings / u3,
			ColumnVolume:   column / u3,
			LintelVolume:   lintel / u3,
			LintelDeducted: cfg.DeductLintelFromBlocks,
			NetVolume:      net / u3,
			UnitCell:       unitCell / u3,
			Blocks:         blocks,
			Mortar:         cfg.MortarMix.Mortar(mortar / u3),
			Footprint:      g.footprint,
		}

		e.log.Debug("wall class resolved",
			zap.Stringer("class", c.class),
			zap.Int("walls", len(c.items)),
			zap.Float64("area_m2", c.out.Area),
			zap.Float64("net_m3", c.out.NetVolume),
			zap.Int("blocks", blocks),
		)
	}

	res.TotalBlocks = res.Structural.Blocks + res.Partition.Blocks
	res.Mortar = res.Structural.Mortar.Add(res.Partition.Mortar)
	res.Concrete = e.concrete(sg.footprint, res.Structural.LintelVolume+res.Partition.LintelVolume)
	res.Steel = e.steel(lintelRun)

	junctions := e.junctions()
	res.Labor = e.labor(res.TotalBlocks, len(junctions))
	res.Safety = safety.Analyze(e.plan, cfg)

	if e.diag != nil {
		e.diag.SkippedWalls = e.skipped
		e.diag.DanglingOpenings = dangling
		e.diag.Junctions = e.junctionDiagnostics(junctions)
		e.diag.Classes = []ClassCheck{
			e.classCheck(plan.Structural, structural, sg.footprint),
			e.classCheck(plan.Partition, partition, pg.footprint),
		}
		res.Diagnostics = e.diag
	}

	if len(e.skipped) > 0 || len(dangling) > 0 {
		e.log.Debug("inputs skipped",
			zap.Strings("degenerate_walls", e.skipped),
			zap.Strings("dangling_openings", dangling),
		)
	}
	e.log.Debug("estimate complete",
		zap.Int("total_blocks", res.TotalBlocks),
		zap.Int("junctions", len(junctions)),
	)
	return res
}
