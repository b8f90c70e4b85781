// Package safety screens columns with a simple tributary-area heuristic:
// slenderness, span to the nearest neighbouring column and factored axial
// load against the tied-column capacity. It flags layouts worth a proper
// structural check; it is not a design.
package safety

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"

	"github.com/alexiusacademia/gotakeoff/internal/materials"
	"github.com/alexiusacademia/gotakeoff/internal/nscp"
	"github.com/alexiusacademia/gotakeoff/internal/plan"
	"github.com/alexiusacademia/gotakeoff/internal/settings"
)

// Screening limits.
const (
	MaxSlenderness  = 15.0
	SpanWarning     = 4.5 // m
	SpanCritical    = 5.5 // m
	IsolatedSpan    = 3.0 // m, assumed for a column with no neighbour
	TributaryFactor = 0.6 // share of span² carried by one column

	CriticalPenalty = 20
	WarningPenalty  = 5
)

// Severity of a column finding.
type Severity string

const (
	OK       Severity = "ok"
	Warning  Severity = "warning"
	Critical Severity = "critical"
)

// ColumnCheck is the screening result of one column.
type ColumnCheck struct {
	ColumnID    string   `json:"columnId"`
	Slenderness float64  `json:"slenderness"`
	Span        float64  `json:"span"`     // m
	Neighbor    string   `json:"neighbor"` // empty when isolated
	Load        float64  `json:"load"`     // kN
	Capacity    float64  `json:"capacity"` // kN
	Utilization float64  `json:"utilization"`
	Severity    Severity `json:"severity"`
	Issues      []string `json:"issues,omitempty"`
}

// Report is the screening result of a plan.
type Report struct {
	Columns      []ColumnCheck `json:"columns"`
	Critical     int           `json:"critical"`
	Warnings     int           `json:"warnings"`
	Score        int           `json:"score"`
	LoadPerFloor float64       `json:"loadPerFloor"` // kPa, factored
	Governing    string        `json:"governing"`    // load combination
}

// point wraps a column centre for the R-tree.
type point struct {
	idx  int
	rect rtreego.Rect
}

// Bounds implements the rtreego.Spatial interface
func (p *point) Bounds() rtreego.Rect {
	return p.rect
}

// Analyze screens every column of p. Dimensions are converted to mm and m
// with cfg.UnitsPerMeter.
func Analyze(p *plan.Plan, cfg *settings.Config) *Report {
	pressure, combo := nscp.FactoredFloorPressure()
	r := &Report{
		Columns:      []ColumnCheck{},
		Score:        100,
		LoadPerFloor: pressure,
		Governing:    combo.Description,
	}
	if p == nil || cfg == nil || len(p.Columns) == 0 {
		return r
	}

	u := cfg.UnitsPerMeter
	mm := 1000 / u

	tree := rtreego.NewTree(2, 25, 50)
	for i, c := range p.Columns {
		rect, _ := rtreego.NewRect(rtreego.Point{c.Position.X, c.Position.Y}, []float64{1e-9, 1e-9})
		tree.Insert(&point{idx: i, rect: rect})
	}

	for i, c := range p.Columns {
		chk := ColumnCheck{ColumnID: c.ID, Span: IsolatedSpan, Severity: OK}

		if m := math.Min(c.Width, c.Height); m > 0 {
			chk.Slenderness = cfg.WallHeightDefault / m
		}
		if chk.Slenderness > MaxSlenderness || chk.Slenderness == 0 {
			chk.warn("slender column")
		}

		if j, d, ok := nearest(tree, p, i); ok {
			chk.Span = d / u
			chk.Neighbor = p.Columns[j].ID
			if d == 0 {
				chk.warn("coincides with another column")
			}
		}
		switch {
		case chk.Span > SpanCritical:
			chk.critical("span exceeds critical limit")
		case chk.Span > SpanWarning:
			chk.warn("long span")
		}

		chk.Load = TributaryFactor * chk.Span * chk.Span * pressure * float64(cfg.FloorCount)
		ag := c.Width * mm * c.Height * mm
		ast := float64(cfg.MainBarCount) * materials.BarArea(cfg.MainBarDiameter)
		chk.Capacity = nscp.TiedColumnCapacity(ag, ast, cfg.ConcreteStrength, cfg.SteelYield)
		if chk.Capacity > 0 {
			chk.Utilization = chk.Load / chk.Capacity
		}
		if chk.Load > chk.Capacity {
			chk.critical("axial load exceeds capacity")
		}

		switch chk.Severity {
		case Critical:
			r.Critical++
		case Warning:
			r.Warnings++
		}
		r.Columns = append(r.Columns, chk)
	}

	r.Score = max(0, 100-CriticalPenalty*r.Critical-WarningPenalty*r.Warnings)
	return r
}

// nearest returns the closest other column to column i and its distance,
// zero for a coincident column. Ties are broken by index, so the query
// widens until no tied column can lie beyond the hits.
func nearest(tree *rtreego.Rtree, p *plan.Plan, i int) (int, float64, bool) {
	c := p.Columns[i].Position
	type cand struct {
		idx  int
		dist float64
	}

	for k := min(tree.Size(), 8); ; k = min(tree.Size(), 2*k) {
		var cands []cand
		var reach float64
		for _, h := range tree.NearestNeighbors(k, rtreego.Point{c.X, c.Y}) {
			pt, ok := h.(*point)
			if !ok {
				continue
			}
			d := c.Dist(p.Columns[pt.idx].Position)
			reach = math.Max(reach, d)
			if pt.idx != i {
				cands = append(cands, cand{pt.idx, d})
			}
		}
		if len(cands) == 0 {
			return 0, 0, false
		}
		sort.Slice(cands, func(a, b int) bool {
			if cands[a].dist != cands[b].dist {
				return cands[a].dist < cands[b].dist
			}
			return cands[a].idx < cands[b].idx
		})
		if best := cands[0]; best.dist < reach || k == tree.Size() {
			return best.idx, best.dist, true
		}
	}
}
