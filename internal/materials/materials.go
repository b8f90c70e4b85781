// Package materials converts wet concrete and mortar volumes into their
// dry ingredients and computes reinforcing bar masses.
package materials

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// CementBagVolume is the volume of one 40 kg cement bag (m³).
	CementBagVolume = 0.035

	// ConcreteDryFactor converts a wet concrete volume to the loose dry
	// volume of its ingredients.
	ConcreteDryFactor = 1.54

	// MortarDryFactor is the same factor for mortar.
	MortarDryFactor = 1.33

	SandDensity      = 1600.0 // kg/m³, loose
	AggregateDensity = 1500.0 // kg/m³, loose
	CementDensity    = 1440.0 // kg/m³
)

// Mix is a volumetric mix ratio, cement : sand : aggregate. Mortar mixes
// have no aggregate.
type Mix struct {
	Cement    float64
	Sand      float64
	Aggregate float64
}

// ParseMix parses "1:2:4" (concrete) or "1:6" (mortar).
func ParseMix(s string) (Mix, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Mix{}, fmt.Errorf("invalid mix ratio %q: want c:s or c:s:a", s)
	}

	vals := make([]float64, 3)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Mix{}, fmt.Errorf("invalid mix ratio %q: %w", s, err)
		}
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return Mix{}, fmt.Errorf("invalid mix ratio %q: parts must be non-negative", s)
		}
		vals[i] = v
	}
	if vals[0] <= 0 {
		return Mix{}, fmt.Errorf("invalid mix ratio %q: cement part must be positive", s)
	}
	return Mix{Cement: vals[0], Sand: vals[1], Aggregate: vals[2]}, nil
}

// Parts returns the sum of all parts.
func (m Mix) Parts() float64 {
	return m.Cement + m.Sand + m.Aggregate
}

func (m Mix) String() string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	if m.Aggregate == 0 {
		return f(m.Cement) + ":" + f(m.Sand)
	}
	return f(m.Cement) + ":" + f(m.Sand) + ":" + f(m.Aggregate)
}

// Quantity is the material breakdown of one wet volume. Volumes in m³,
// masses in kg.
type Quantity struct {
	WetVolume       float64 `json:"wetVolume"`
	DryVolume       float64 `json:"dryVolume"`
	CementBags      float64 `json:"cementBags"`
	SandVolume      float64 `json:"sandVolume"`
	SandMass        float64 `json:"sandMass"`
	AggregateVolume float64 `json:"aggregateVolume,omitempty"`
	AggregateMass   float64 `json:"aggregateMass,omitempty"`
}

// Split converts a wet volume into ingredient quantities using the given
// dry-volume factor.
func (m Mix) Split(wet, dryFactor float64) Quantity {
	if wet <= 0 || m.Parts() <= 0 {
		return Quantity{}
	}
	dry := wet * dryFactor
	parts := m.Parts()

	q := Quantity{WetVolume: wet, DryVolume: dry}
	q.CementBags = dry * m.Cement / parts / CementBagVolume
	q.SandVolume = dry * m.Sand / parts
	q.SandMass = q.SandVolume * SandDensity
	q.AggregateVolume = dry * m.Aggregate / parts
	q.AggregateMass = q.AggregateVolume * AggregateDensity
	return q
}

// Concrete splits a wet concrete volume.
func (m Mix) Concrete(wet float64) Quantity {
	return m.Split(wet, ConcreteDryFactor)
}

// Mortar splits a wet mortar volume.
func (m Mix) Mortar(wet float64) Quantity {
	return m.Split(wet, MortarDryFactor)
}

// Add returns the component-wise sum of two quantities.
func (q Quantity) Add(o Quantity) Quantity {
	return Quantity{
		WetVolume:       q.WetVolume + o.WetVolume,
		DryVolume:       q.DryVolume + o.DryVolume,
		CementBags:      q.CementBags + o.CementBags,
		SandVolume:      q.SandVolume + o.SandVolume,
		SandMass:        q.SandMass + o.SandMass,
		AggregateVolume: q.AggregateVolume + o.AggregateVolume,
		AggregateMass:   q.AggregateMass + o.AggregateMass,
	}
}

// Bags returns the whole number of cement bags to order.
func (q Quantity) Bags() int {
	return int(math.Ceil(q.CementBags - 1e-9))
}

// BarArea returns the cross-section area of a bar (mm²).
func BarArea(diameter float64) float64 {
	return math.Pi * diameter * diameter / 4
}

// RebarMass returns the mass in kg of a bar of the given diameter (mm)
// and length (m), using the d²/162 kg/m rule.
func RebarMass(diameter, length float64) float64 {
	return diameter * diameter / 162 * length
}
