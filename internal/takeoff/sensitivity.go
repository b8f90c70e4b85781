package takeoff

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/gotakeoff/internal/geom"
	"github.com/alexiusacademia/gotakeoff/internal/plan"
	"github.com/alexiusacademia/gotakeoff/internal/settings"
)

// SensitivityPoint is the overlap of two crossing walls at one angle.
type SensitivityPoint struct {
	Angle    float64 `json:"angle"`    // degrees
	Analytic float64 `json:"analytic"` // t²h / sin θ, m³
	Measured float64 `json:"measured"` // from the resolved footprints, m³
}

// Sensitivity measures how the overlap of two crossing walls of the given
// thickness and height (drawing units) grows as the angle between them
// closes. Angles must lie in (0, 180).
func Sensitivity(s *settings.Settings, thickness, height float64, angles []float64, opts ...Option) ([]SensitivityPoint, error) {
	if !(thickness > 0) || !(height > 0) {
		return nil, fmt.Errorf("thickness and height must be positive")
	}
	cfg, err := s.Resolve()
	if err != nil {
		return nil, err
	}
	u3 := cfg.UnitsPerMeter * cfg.UnitsPerMeter * cfg.UnitsPerMeter

	opts = append(opts, WithDiagnostics())
	out := make([]SensitivityPoint, 0, len(angles))
	for _, deg := range angles {
		if !(deg > 0 && deg < 180) {
			return nil, fmt.Errorf("angle must lie in (0, 180), got %v", deg)
		}
		rad := deg * math.Pi / 180

		// Arms reach well past the overlap rhombus so no end clips it.
		arm := math.Max(10*thickness, 4*thickness/math.Sin(rad))
		dx, dy := arm*math.Cos(rad), arm*math.Sin(rad)
		p := &plan.Plan{Walls: []plan.Wall{
			{ID: "a", Start: geom.Pt(-arm, 0), End: geom.Pt(arm, 0), Thickness: thickness, Height: height},
			{ID: "b", Start: geom.Pt(-dx, -dy), End: geom.Pt(dx, dy), Thickness: thickness, Height: height},
		}}

		r, err := EstimateConfig(p, cfg, opts...)
		if err != nil {
			return nil, err
		}
		pt := SensitivityPoint{
			Angle:    deg,
			Analytic: thickness * thickness * height / math.Sin(rad) / u3,
		}
		for _, j := range r.Diagnostics.Junctions {
			pt.Measured += j.OverlapVolume
		}
		out = append(out, pt)
	}
	return out, nil
}

// Angles returns n evenly spaced angles from lo to hi inclusive.
func Angles(lo, hi float64, n int) []float64 {
	if n < 2 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}
