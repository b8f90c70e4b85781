package beam

import (
	"math"

	"github.com/alexiusacademia/gotakeoff/internal/materials"
)

// MinMainBars is the least number of bottom bars placed in any beam.
const MinMainBars = 2

// MainBars is the bottom reinforcement chosen for a simply supported
// floor beam.
type MainBars struct {
	Mu         float64 `json:"mu"`         // kN-m
	AsRequired float64 `json:"asRequired"` // mm²
	Count      int     `json:"count"`
	AsProvided float64 `json:"asProvided"` // mm²
	PhiMn      float64 `json:"phiMn"`      // kN-m
	Adequate   bool    `json:"adequate"`
	Message    string  `json:"message"`
}

// DesignMainBars sizes the bottom bars of a simply supported beam of the
// given span (m) under a uniform factored load wu (kN/m), with
// Mu = wu·L²/8. When the section cannot carry the moment singly
// reinforced, the bars are sized to the maximum tension-controlled steel
// and the result is flagged inadequate.
func DesignMainBars(s *Section, span, wu, barDiameter float64) (*MainBars, error) {
	mu := wu * span * span / 8

	d, err := s.Design(mu)
	if err != nil {
		return nil, err
	}

	as := d.AsRequired
	if !d.IsAdequate && as == 0 {
		as = d.AsMax
	}

	bar := materials.BarArea(barDiameter)
	count := int(math.Ceil(as/bar - 1e-9))
	if count < MinMainBars {
		count = MinMainBars
	}

	out := &MainBars{
		Mu:         mu,
		AsRequired: d.AsRequired,
		Count:      count,
		AsProvided: float64(count) * bar,
		Message:    d.Message,
	}

	c, err := s.Capacity(out.AsProvided)
	if err != nil {
		return nil, err
	}
	out.PhiMn = c.PhiMn
	out.Adequate = d.IsAdequate && c.PhiMn >= mu
	return out, nil
}
