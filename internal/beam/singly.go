// Package beam sizes the main reinforcement of rectangular floor beams,
// designed as singly reinforced sections per NSCP 2015.
package beam

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/gotakeoff/internal/nscp"
)

// DefaultCover is the effective cover to the tension steel centroid (mm).
const DefaultCover = 65.0

// Section represents a singly reinforced rectangular beam section
type Section struct {
	// Geometry (mm)
	Width          float64 // b - beam width
	Height         float64 // h - total depth
	EffectiveDepth float64 // d - effective depth (to centroid of tension steel)
	Cover          float64 // concrete cover to centroid of reinforcement

	// Materials (MPa)
	Fc float64 // f'c - concrete compressive strength
	Fy float64 // fy - steel yield strength
}

// NewSection creates a section with its effective depth derived from the cover
func NewSection(width, height, cover, fc, fy float64) *Section {
	return &Section{
		Width:          width,
		Height:         height,
		Cover:          cover,
		EffectiveDepth: height - cover,
		Fc:             fc,
		Fy:             fy,
	}
}

func (s *Section) check() error {
	if s.Width <= 0 || s.EffectiveDepth <= 0 {
		return fmt.Errorf("invalid beam dimensions: width=%.2f, d=%.2f", s.Width, s.EffectiveDepth)
	}
	if s.Fc <= 0 || s.Fy <= 0 {
		return fmt.Errorf("invalid material properties: f'c=%.2f, fy=%.2f", s.Fc, s.Fy)
	}
	return nil
}

// DesignResult holds the results of beam design
type DesignResult struct {
	AsRequired float64 // Required steel area (mm²)
	AsMin      float64 // Minimum steel area (mm²)
	AsMax      float64 // Maximum steel area (mm²)

	RhoRequired float64
	RhoMin      float64
	RhoMax      float64

	A        float64 // Depth of compression block (mm)
	C        float64 // Neutral axis depth (mm)
	EpsilonT float64 // Tensile strain
	Phi      float64 // Strength reduction factor

	PhiMn float64 // Design moment capacity (kN-m)

	IsTensionControlled bool
	IsAdequate          bool
	Message             string
}

// Design calculates the required tension steel for a factored moment (kN-m)
func (s *Section) Design(mu float64) (*DesignResult, error) {
	if err := s.check(); err != nil {
		return nil, err
	}

	result := &DesignResult{
		RhoMin: nscp.RhoMin(s.Fc, s.Fy),
		RhoMax: nscp.RhoMax(s.Fc, s.Fy),
	}
	bd := s.Width * s.EffectiveDepth
	result.AsMin = result.RhoMin * bd
	result.AsMax = result.RhoMax * bd

	// Capacity of the section at the tension-controlled steel limit
	aMax := result.AsMax * s.Fy / (0.85 * s.Fc * s.Width)
	phiMnMax := nscp.PhiFlexure * 0.85 * s.Fc * s.Width * aMax * (s.EffectiveDepth - aMax/2) / 1e6
	if mu > phiMnMax {
		result.PhiMn = phiMnMax
		result.Message = fmt.Sprintf("Section inadequate for singly reinforced design. Mu=%.2f kN-m > φMn,max=%.2f kN-m", mu, phiMnMax)
		return result, nil
	}

	// Rn = Mu / (φ b d²), assuming a tension-controlled section
	rn := mu * 1e6 / (nscp.PhiFlexure * s.Width * s.EffectiveDepth * s.EffectiveDepth)
	term := 2 * rn / (0.85 * s.Fc)
	if term > 1 {
		result.Message = "Section inadequate - moment too high for singly reinforced design"
		return result, nil
	}

	// ρ = (0.85 f'c / fy) (1 - √(1 - 2Rn / 0.85f'c))
	result.RhoRequired = (0.85 * s.Fc / s.Fy) * (1 - math.Sqrt(1-term))
	result.AsRequired = math.Max(result.RhoRequired, result.RhoMin) * bd

	result.A = result.AsRequired * s.Fy / (0.85 * s.Fc * s.Width)
	result.C = result.A / nscp.Beta1(s.Fc)
	result.EpsilonT = nscp.EpsilonCU * (s.EffectiveDepth - result.C) / result.C
	result.Phi = nscp.Phi(result.EpsilonT, s.Fy)
	result.IsTensionControlled = result.EpsilonT >= 0.005

	result.PhiMn = result.Phi * result.AsRequired * s.Fy * (s.EffectiveDepth - result.A/2) / 1e6
	result.IsAdequate = result.PhiMn >= mu

	switch {
	case !result.IsAdequate:
		result.Message = "Section inadequate - strength reduction in transition zone"
	case result.IsTensionControlled:
		result.Message = "Design OK - Section is tension-controlled"
	default:
		result.Message = "Design OK - Section is in transition zone"
	}
	return result, nil
}

// CapacityResult holds the moment capacity of a given steel area
type CapacityResult struct {
	Rho      float64
	A        float64 // Depth of compression block (mm)
	C        float64 // Neutral axis depth (mm)
	EpsilonT float64 // Tensile strain
	Phi      float64 // Strength reduction factor
	Mn       float64 // Nominal moment capacity (kN-m)
	PhiMn    float64 // Design moment capacity (kN-m)

	MeetsMinReinf bool
	MeetsMaxReinf bool
}

// Capacity calculates φMn for a provided tension steel area (mm²)
func (s *Section) Capacity(as float64) (*CapacityResult, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	if as <= 0 {
		return nil, fmt.Errorf("invalid reinforcement area: As=%.2f", as)
	}

	result := &CapacityResult{Rho: as / (s.Width * s.EffectiveDepth)}
	result.MeetsMinReinf = result.Rho >= nscp.RhoMin(s.Fc, s.Fy)
	result.MeetsMaxReinf = result.Rho <= nscp.RhoMax(s.Fc, s.Fy)

	// T = C → As fy = 0.85 f'c b a
	result.A = as * s.Fy / (0.85 * s.Fc * s.Width)
	result.C = result.A / nscp.Beta1(s.Fc)
	result.EpsilonT = nscp.EpsilonCU * (s.EffectiveDepth - result.C) / result.C
	result.Phi = nscp.Phi(result.EpsilonT, s.Fy)

	// Mn = As fy (d - a/2)
	result.Mn = as * s.Fy * (s.EffectiveDepth - result.A/2) / 1e6
	result.PhiMn = result.Phi * result.Mn
	return result, nil
}
