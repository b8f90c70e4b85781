package takeoff

import (
	"math"

	"go.uber.org/zap"

	"github.com/alexiusacademia/gotakeoff/internal/beam"
	"github.com/alexiusacademia/gotakeoff/internal/materials"
	"github.com/alexiusacademia/gotakeoff/internal/nscp"
)

// StirrupCover is the clear cover to column and beam ties (mm).
const StirrupCover = 40.0

// Steel item names.
const (
	ItemColumnBars     = "column main bars"
	ItemColumnStirrups = "column stirrups"
	ItemBeamBars       = "beam main bars"
	ItemBeamStirrups   = "beam stirrups"
	ItemLintelBars     = "lintel bars"
	ItemSlabMesh       = "slab mesh"
)

// SteelItem is the total run of one bar group.
type SteelItem struct {
	Name     string  `json:"name"`
	Diameter float64 `json:"diameter"` // mm
	Length   float64 `json:"length"`   // m
	Mass     float64 `json:"mass"`     // kg
}

// BeamDesign is the bottom reinforcement chosen for a beam with a
// tributary width.
type BeamDesign struct {
	BeamID string         `json:"beamId"`
	Span   float64        `json:"span"` // m
	Load   float64        `json:"load"` // kN/m, factored
	Bars   *beam.MainBars `json:"bars"`
}

// SteelResult lists every reinforcement item, always in the same order.
type SteelResult struct {
	Items       []SteelItem  `json:"items"`
	Beams       []BeamDesign `json:"beams,omitempty"`
	TotalLength float64      `json:"totalLength"` // m
	TotalMass   float64      `json:"totalMass"`   // kg
}

// Item returns the named item.
func (r SteelResult) Item(name string) (SteelItem, bool) {
	for _, it := range r.Items {
		if it.Name == name {
			return it, true
		}
	}
	return SteelItem{}, false
}

// steel measures column, beam, lintel and slab reinforcement. lintelRun is
// the total lintel length in drawing units.
func (e *estimator) steel(lintelRun float64) SteelResult {
	cfg := e.cfg
	u := cfg.UnitsPerMeter
	mm := 1000 / u // drawing units to mm
	cover := StirrupCover / mm

	colHeight := cfg.WallHeightDefault * float64(cfg.FloorCount)

	var colBars, colTies float64
	for _, c := range e.plan.Columns {
		colBars += float64(cfg.MainBarCount) * colHeight
		colTies += ties(colHeight, cfg.ColumnStirrupSpacing) * tiePerimeter(c.Width, c.Height, cover)
	}

	var r SteelResult
	var beamBars, beamTies float64
	pressure, _ := nscp.FactoredFloorPressure()
	for _, b := range e.plan.Beams {
		l := b.Length()
		beamTies += ties(l, cfg.ColumnStirrupSpacing) * tiePerimeter(b.Width, b.Depth, cover)

		count := float64(cfg.MainBarCount)
		if b.TributaryWidth > 0 && l > 0 {
			d := BeamDesign{BeamID: b.ID, Span: l / u, Load: pressure * b.TributaryWidth / u}
			s := beam.NewSection(b.Width*mm, b.Depth*mm, beam.DefaultCover, cfg.ConcreteStrength, cfg.SteelYield)
			bars, err := beam.DesignMainBars(s, d.Span, d.Load, cfg.MainBarDiameter)
			if err != nil {
				e.log.Debug("beam design skipped", zap.String("beam", b.ID), zap.Error(err))
			} else {
				d.Bars = bars
				count = float64(bars.Count)
				r.Beams = append(r.Beams, d)
			}
		}
		beamBars += count * l
	}

	var slabMesh float64
	if cfg.SlabBarSpacing > 0 {
		for _, s := range e.plan.Slabs {
			slabMesh += 2 * s.Polygon().Area() / cfg.SlabBarSpacing
		}
	}

	items := []struct {
		name     string
		diameter float64
		length   float64
	}{
		{ItemColumnBars, cfg.MainBarDiameter, colBars},
		{ItemColumnStirrups, cfg.StirrupDiameter, colTies},
		{ItemBeamBars, cfg.MainBarDiameter, beamBars},
		{ItemBeamStirrups, cfg.StirrupDiameter, beamTies},
		{ItemLintelBars, cfg.LintelBarDiameter, float64(cfg.LintelBarCount) * lintelRun},
		{ItemSlabMesh, cfg.SlabBarDiameter, slabMesh},
	}
	for _, it := range items {
		l := it.length / u
		m := materials.RebarMass(it.diameter, l)
		r.Items = append(r.Items, SteelItem{Name: it.name, Diameter: it.diameter, Length: l, Mass: m})
		r.TotalLength += l
		r.TotalMass += m
	}
	return r
}

// ties returns the number of ties over a member length.
func ties(length, spacing float64) float64 {
	if length <= 0 || spacing <= 0 {
		return 0
	}
	return math.Floor(length/spacing) + 1
}

// tiePerimeter is the length of one closed tie inside the cover.
func tiePerimeter(w, h, cover float64) float64 {
	return 2 * (math.Max(0, w-2*cover) + math.Max(0, h-2*cover))
}
