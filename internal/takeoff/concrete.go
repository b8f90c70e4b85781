package takeoff

import (
	"github.com/alexiusacademia/gotakeoff/internal/geom"
	"github.com/alexiusacademia/gotakeoff/internal/materials"
	"github.com/alexiusacademia/gotakeoff/internal/plan"
	"github.com/alexiusacademia/gotakeoff/internal/settings"
)

// Concrete item names.
const (
	ItemFloor      = "floor"
	ItemFoundation = "foundation"
	ItemLintel     = "lintel"
	ItemColumns    = "columns"
	ItemBeams      = "beams"
	ItemSlabs      = "slabs"
)

// ConcreteItem is one concrete element group.
type ConcreteItem struct {
	Name     string             `json:"name"`
	Mix      string             `json:"mix"`
	Volume   float64            `json:"volume"` // m³
	Quantity materials.Quantity `json:"quantity"`
}

// ConcreteResult lists every concrete item, always in the same order.
type ConcreteResult struct {
	Items []ConcreteItem     `json:"items"`
	Total materials.Quantity `json:"total"`
}

// Item returns the named item.
func (r ConcreteResult) Item(name string) (ConcreteItem, bool) {
	for _, it := range r.Items {
		if it.Name == name {
			return it, true
		}
	}
	return ConcreteItem{}, false
}

// concrete measures floor, foundations, lintels, columns, beams and slabs.
// structural is the resolved structural footprint; lintel is the lintel
// volume already measured per class (m³).
func (e *estimator) concrete(structural geom.MultiPolygon, lintel float64) ConcreteResult {
	cfg := e.cfg
	u := cfg.UnitsPerMeter
	u3 := u * u * u

	floor := structural.ShellArea() * cfg.FloorThickness / u3

	var columns float64
	for _, c := range e.plan.Columns {
		columns += c.Area() * cfg.WallHeightDefault * float64(cfg.FloorCount)
	}

	var beams float64
	for _, b := range e.plan.Beams {
		beams += b.Width * b.Depth * b.Length()
	}

	var slabs float64
	for _, s := range e.plan.Slabs {
		t := s.Thickness
		if t == 0 {
			t = cfg.FloorThickness
		}
		slabs += s.Polygon().Area() * t
	}

	items := []struct {
		name   string
		mix    materials.Mix
		volume float64
	}{
		{ItemFloor, cfg.FloorMix, floor},
		{ItemFoundation, cfg.ConcreteMix, e.foundation() / u3},
		{ItemLintel, cfg.ConcreteMix, lintel},
		{ItemColumns, cfg.ConcreteMix, columns / u3},
		{ItemBeams, cfg.ConcreteMix, beams / u3},
		{ItemSlabs, cfg.ConcreteMix, slabs / u3},
	}

	var r ConcreteResult
	for _, it := range items {
		q := it.mix.Concrete(it.volume)
		r.Items = append(r.Items, ConcreteItem{
			Name:     it.name,
			Mix:      it.mix.String(),
			Volume:   it.volume,
			Quantity: q,
		})
		r.Total = r.Total.Add(q)
	}
	return r
}

// foundation returns the footing volume in drawing units. Strip footings
// follow the structural walls, so their footprints are unioned like the
// walls themselves. Pad footings sit under columns.
func (e *estimator) foundation() float64 {
	cfg := e.cfg
	switch cfg.FoundationType {
	case settings.FoundationPad:
		var v float64
		for _, c := range e.plan.Columns {
			v += or(c.PadWidth, cfg.PadWidth) * or(c.PadLength, cfg.PadLength) * or(c.PadDepth, cfg.PadDepth)
		}
		return v

	default:
		var strips []geom.Polygon
		for _, it := range e.items {
			if it.wall.Class() != plan.Structural {
				continue
			}
			if fp, ok := plan.Buffer(it.wall.Start, it.wall.End, cfg.FoundationWidth); ok {
				strips = append(strips, fp)
			}
		}
		if len(strips) == 0 {
			return 0
		}
		return e.union(strips...).Area() * cfg.FoundationDepth
	}
}

func or(v, def float64) float64 {
	if v > 0 {
		return v
	}
	return def
}
