package takeoff

import (
	"math"

	"github.com/alexiusacademia/gotakeoff/internal/geom"
	"github.com/alexiusacademia/gotakeoff/internal/plan"
)

// Diagnostics explains how the resolved geometry differs from a naive
// length × thickness takeoff.
type Diagnostics struct {
	Junctions        []Junction   `json:"junctions"`
	Classes          []ClassCheck `json:"classes"`
	SkippedWalls     []string     `json:"skippedWalls,omitempty"`
	DanglingOpenings []string     `json:"danglingOpenings,omitempty"`
}

// Junction reports the footprint overlap of one wall pair, which a naive
// takeoff counts twice.
type Junction struct {
	WallA         string       `json:"wallA"`
	WallB         string       `json:"wallB"`
	Kind          JunctionKind `json:"kind"`
	Angle         float64      `json:"angle"`         // degrees
	OverlapArea   float64      `json:"overlapArea"`   // m²
	OverlapVolume float64      `json:"overlapVolume"` // m³
	Acute         bool         `json:"acute"`
}

// ClassCheck compares the naive and resolved plan areas of a class (m²).
type ClassCheck struct {
	Class      plan.ThicknessClass `json:"class"`
	NaiveArea  float64             `json:"naiveArea"`
	ExactArea  float64             `json:"exactArea"`
	Difference float64             `json:"difference"`
}

func (e *estimator) junctionDiagnostics(js []junction) []Junction {
	u := e.cfg.UnitsPerMeter
	out := make([]Junction, 0, len(js))
	for _, j := range js {
		a, b := e.items[j.a], e.items[j.b]
		overlap := e.intersection(geom.MultiPolygon{a.fp}, geom.MultiPolygon{b.fp}).Area()
		out = append(out, Junction{
			WallA:         a.wall.ID,
			WallB:         b.wall.ID,
			Kind:          j.kind,
			Angle:         j.angle,
			OverlapArea:   overlap / (u * u),
			OverlapVolume: overlap * math.Min(a.height, b.height) / (u * u * u),
			Acute:         j.angle < MinJunctionAngle,
		})
	}
	return out
}

func (e *estimator) classCheck(c plan.ThicknessClass, items []wallItem, fp geom.MultiPolygon) ClassCheck {
	u2 := e.cfg.UnitsPerMeter * e.cfg.UnitsPerMeter
	var naive float64
	for _, it := range items {
		naive += it.wall.Length() * it.wall.Thickness
	}
	exact := fp.Area()
	return ClassCheck{
		Class:      c,
		NaiveArea:  naive / u2,
		ExactArea:  exact / u2,
		Difference: (naive - exact) / u2,
	}
}
