// Package settings holds the estimation options of a takeoff. Settings is
// the flat record read from project files; Resolve turns it into a Config
// with every default applied and every ratio parsed, once, at entry.
package settings

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/alexiusacademia/gotakeoff/internal/materials"
)

// ErrNilSettings is returned when a takeoff is run without settings.
var ErrNilSettings = errors.New("settings: nil settings")

// LintelType selects how lintel concrete is measured.
type LintelType string

const (
	// LintelOpening places one lintel over each opening.
	LintelOpening LintelType = "opening"
	// LintelChain runs a continuous lintel over every wall.
	LintelChain LintelType = "chain"
)

// FoundationType selects the footing system.
type FoundationType string

const (
	FoundationStrip FoundationType = "strip"
	FoundationPad   FoundationType = "pad"
)

// ColumnDeduction selects how embedded columns are removed from the
// structural wall volume.
type ColumnDeduction string

const (
	// ColumnSpatial subtracts column footprints from the wall geometry.
	ColumnSpatial ColumnDeduction = "spatial"
	// ColumnGlobal subtracts Σ footprint × wall height from the structural
	// class without checking where the columns are.
	ColumnGlobal ColumnDeduction = "global"
)

// Settings is the user-facing options record. Nil numeric fields and
// empty strings take the value from Defaults; a numeric field that is set,
// zero included, is used as given.
type Settings struct {
	// Blocks and mortar (mm)
	BlockLength       *float64 `json:"blockLength,omitempty" yaml:"blockLength,omitempty"`
	BlockHeight       *float64 `json:"blockHeight,omitempty" yaml:"blockHeight,omitempty"`
	BlockThickness    *float64 `json:"blockThickness,omitempty" yaml:"blockThickness,omitempty"`
	MortarThickness   *float64 `json:"mortarThickness,omitempty" yaml:"mortarThickness,omitempty"`
	WallHeightDefault *float64 `json:"wallHeightDefault,omitempty" yaml:"wallHeightDefault,omitempty"`
	WastagePercentage *float64 `json:"wastagePercentage,omitempty" yaml:"wastagePercentage,omitempty"`
	MortarRatio       string   `json:"mortarRatio,omitempty" yaml:"mortarRatio,omitempty"`

	// Lintels
	LintelType             string   `json:"lintelType,omitempty" yaml:"lintelType,omitempty"`
	LintelOverhang         *float64 `json:"lintelOverhang,omitempty" yaml:"lintelOverhang,omitempty"`
	LintelDepth            *float64 `json:"lintelDepth,omitempty" yaml:"lintelDepth,omitempty"`
	DeductLintelFromBlocks bool     `json:"deductLintelFromBlocks,omitempty" yaml:"deductLintelFromBlocks,omitempty"`
	LintelBarDiameter      *float64 `json:"lintelBarDiameter,omitempty" yaml:"lintelBarDiameter,omitempty"`
	LintelBarCount         *int     `json:"lintelBarCount,omitempty" yaml:"lintelBarCount,omitempty"`

	// Concrete
	FloorMixRatio    string   `json:"floorMixRatio,omitempty" yaml:"floorMixRatio,omitempty"`
	ConcreteMixRatio string   `json:"concreteMixRatio,omitempty" yaml:"concreteMixRatio,omitempty"`
	FloorThickness   *float64 `json:"floorThickness,omitempty" yaml:"floorThickness,omitempty"`
	ConcreteStrength *float64 `json:"concreteStrength,omitempty" yaml:"concreteStrength,omitempty"` // f'c, MPa
	SteelYield       *float64 `json:"steelYield,omitempty" yaml:"steelYield,omitempty"`             // fy, MPa

	// Foundations (mm)
	FoundationType  string   `json:"foundationType,omitempty" yaml:"foundationType,omitempty"`
	FoundationWidth *float64 `json:"foundationWidth,omitempty" yaml:"foundationWidth,omitempty"`
	FoundationDepth *float64 `json:"foundationDepth,omitempty" yaml:"foundationDepth,omitempty"`
	PadWidth        *float64 `json:"padWidth,omitempty" yaml:"padWidth,omitempty"`
	PadLength       *float64 `json:"padLength,omitempty" yaml:"padLength,omitempty"`
	PadDepth        *float64 `json:"padDepth,omitempty" yaml:"padDepth,omitempty"`

	// Reinforcement (mm)
	MainBarDiameter      *float64 `json:"mainBarDiameter,omitempty" yaml:"mainBarDiameter,omitempty"`
	MainBarCount         *int     `json:"mainBarCount,omitempty" yaml:"mainBarCount,omitempty"`
	StirrupDiameter      *float64 `json:"stirrupDiameter,omitempty" yaml:"stirrupDiameter,omitempty"`
	ColumnStirrupSpacing *float64 `json:"columnStirrupSpacing,omitempty" yaml:"columnStirrupSpacing,omitempty"`
	SlabBarDiameter      *float64 `json:"slabBarDiameter,omitempty" yaml:"slabBarDiameter,omitempty"`
	SlabBarSpacing       *float64 `json:"slabBarSpacing,omitempty" yaml:"slabBarSpacing,omitempty"`

	// Labor
	Masons          *int     `json:"masons,omitempty" yaml:"masons,omitempty"`
	Laborers        *int     `json:"laborers,omitempty" yaml:"laborers,omitempty"`
	TargetDailyRate *float64 `json:"targetDailyRate,omitempty" yaml:"targetDailyRate,omitempty"` // blocks per mason per day

	// Project
	FloorCount      *int     `json:"floorCount,omitempty" yaml:"floorCount,omitempty"`
	UnitsPerMeter   *float64 `json:"unitsPerMeter,omitempty" yaml:"unitsPerMeter,omitempty"`
	ColumnDeduction string   `json:"columnDeduction,omitempty" yaml:"columnDeduction,omitempty"`
}

// Float returns a pointer to v, for numeric fields of a Settings literal.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Config is the fully resolved, immutable configuration the engine works
// from. Lengths are in drawing units unless noted.
type Config struct {
	BlockLength       float64
	BlockHeight       float64
	BlockThickness    float64
	MortarThickness   float64
	WallHeightDefault float64
	Wastage           float64 // fraction, 0.05 = 5 %
	MortarMix         materials.Mix

	LintelType             LintelType
	LintelOverhang         float64
	LintelDepth            float64
	DeductLintelFromBlocks bool
	LintelBarDiameter      float64
	LintelBarCount         int

	FloorMix         materials.Mix
	ConcreteMix      materials.Mix
	FloorThickness   float64
	ConcreteStrength float64
	SteelYield       float64

	FoundationType  FoundationType
	FoundationWidth float64
	FoundationDepth float64
	PadWidth        float64
	PadLength       float64
	PadDepth        float64

	MainBarDiameter      float64
	MainBarCount         int
	StirrupDiameter      float64
	ColumnStirrupSpacing float64
	SlabBarDiameter      float64
	SlabBarSpacing       float64

	Masons          int
	Laborers        int
	TargetDailyRate float64

	FloorCount      int
	UnitsPerMeter   float64
	ColumnDeduction ColumnDeduction
}

// Defaults is the single table of fallback values.
var Defaults = Config{
	BlockLength:       450,
	BlockHeight:       225,
	BlockThickness:    225,
	MortarThickness:   25,
	WallHeightDefault: 3000,
	Wastage:           0,
	MortarMix:         materials.Mix{Cement: 1, Sand: 6},

	LintelType:        LintelOpening,
	LintelOverhang:    150,
	LintelDepth:       150,
	LintelBarDiameter: 10,
	LintelBarCount:    2,

	FloorMix:         materials.Mix{Cement: 1, Sand: 2, Aggregate: 4},
	ConcreteMix:      materials.Mix{Cement: 1, Sand: 2, Aggregate: 4},
	FloorThickness:   100,
	ConcreteStrength: 21,
	SteelYield:       415,

	FoundationType:  FoundationStrip,
	FoundationWidth: 600,
	FoundationDepth: 250,
	PadWidth:        1000,
	PadLength:       1000,
	PadDepth:        300,

	MainBarDiameter:      12,
	MainBarCount:         4,
	StirrupDiameter:      10,
	ColumnStirrupSpacing: 200,
	SlabBarDiameter:      10,
	SlabBarSpacing:       200,

	Masons:          2,
	Laborers:        2,
	TargetDailyRate: 100,

	FloorCount:      1,
	UnitsPerMeter:   1000,
	ColumnDeduction: ColumnSpatial,
}

// ValidationError represents a settings validation error
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return "settings: " + e.msg
}

func errorf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// Resolve validates the settings and applies defaults to the fields that
// are not set.
func (s *Settings) Resolve() (*Config, error) {
	if s == nil {
		return nil, ErrNilSettings
	}
	if err := s.validate(); err != nil {
		return nil, err
	}

	cfg := Defaults
	num(&cfg.BlockLength, s.BlockLength)
	num(&cfg.BlockHeight, s.BlockHeight)
	num(&cfg.BlockThickness, s.BlockThickness)
	num(&cfg.MortarThickness, s.MortarThickness)
	num(&cfg.WallHeightDefault, s.WallHeightDefault)
	if s.WastagePercentage != nil {
		cfg.Wastage = *s.WastagePercentage / 100
	}

	num(&cfg.LintelOverhang, s.LintelOverhang)
	num(&cfg.LintelDepth, s.LintelDepth)
	cfg.DeductLintelFromBlocks = s.DeductLintelFromBlocks
	num(&cfg.LintelBarDiameter, s.LintelBarDiameter)
	count(&cfg.LintelBarCount, s.LintelBarCount)

	num(&cfg.FloorThickness, s.FloorThickness)
	num(&cfg.ConcreteStrength, s.ConcreteStrength)
	num(&cfg.SteelYield, s.SteelYield)

	num(&cfg.FoundationWidth, s.FoundationWidth)
	num(&cfg.FoundationDepth, s.FoundationDepth)
	num(&cfg.PadWidth, s.PadWidth)
	num(&cfg.PadLength, s.PadLength)
	num(&cfg.PadDepth, s.PadDepth)

	num(&cfg.MainBarDiameter, s.MainBarDiameter)
	count(&cfg.MainBarCount, s.MainBarCount)
	num(&cfg.StirrupDiameter, s.StirrupDiameter)
	num(&cfg.ColumnStirrupSpacing, s.ColumnStirrupSpacing)
	num(&cfg.SlabBarDiameter, s.SlabBarDiameter)
	num(&cfg.SlabBarSpacing, s.SlabBarSpacing)

	count(&cfg.Masons, s.Masons)
	count(&cfg.Laborers, s.Laborers)
	num(&cfg.TargetDailyRate, s.TargetDailyRate)

	count(&cfg.FloorCount, s.FloorCount)
	num(&cfg.UnitsPerMeter, s.UnitsPerMeter)

	var err error
	if cfg.MortarMix, err = mix("mortarRatio", s.MortarRatio, cfg.MortarMix); err != nil {
		return nil, err
	}
	if cfg.FloorMix, err = mix("floorMixRatio", s.FloorMixRatio, cfg.FloorMix); err != nil {
		return nil, err
	}
	if cfg.ConcreteMix, err = mix("concreteMixRatio", s.ConcreteMixRatio, cfg.ConcreteMix); err != nil {
		return nil, err
	}

	switch v := LintelType(str(s.LintelType, string(cfg.LintelType))); v {
	case LintelOpening, LintelChain:
		cfg.LintelType = v
	default:
		return nil, errorf("lintelType must be %q or %q, got %q", LintelOpening, LintelChain, v)
	}

	switch v := FoundationType(str(s.FoundationType, string(cfg.FoundationType))); v {
	case FoundationStrip, FoundationPad:
		cfg.FoundationType = v
	default:
		return nil, errorf("foundationType must be %q or %q, got %q", FoundationStrip, FoundationPad, v)
	}

	switch v := ColumnDeduction(str(s.ColumnDeduction, string(cfg.ColumnDeduction))); v {
	case ColumnSpatial, ColumnGlobal:
		cfg.ColumnDeduction = v
	default:
		return nil, errorf("columnDeduction must be %q or %q, got %q", ColumnSpatial, ColumnGlobal, v)
	}

	return &cfg, nil
}

// validate rejects negative and non-finite numbers, and zeros where a
// quantity is divided by the field or no block or material fits.
func (s *Settings) validate() error {
	fields := []struct {
		name     string
		v        *float64
		positive bool
	}{
		{"blockLength", s.BlockLength, true},
		{"blockHeight", s.BlockHeight, true},
		{"blockThickness", s.BlockThickness, true},
		{"mortarThickness", s.MortarThickness, false},
		{"wallHeightDefault", s.WallHeightDefault, true},
		{"wastagePercentage", s.WastagePercentage, false},
		{"lintelOverhang", s.LintelOverhang, false},
		{"lintelDepth", s.LintelDepth, false},
		{"lintelBarDiameter", s.LintelBarDiameter, false},
		{"lintelBarCount", intField(s.LintelBarCount), false},
		{"floorThickness", s.FloorThickness, false},
		{"concreteStrength", s.ConcreteStrength, true},
		{"steelYield", s.SteelYield, true},
		{"foundationWidth", s.FoundationWidth, false},
		{"foundationDepth", s.FoundationDepth, false},
		{"padWidth", s.PadWidth, false},
		{"padLength", s.PadLength, false},
		{"padDepth", s.PadDepth, false},
		{"mainBarDiameter", s.MainBarDiameter, false},
		{"mainBarCount", intField(s.MainBarCount), false},
		{"stirrupDiameter", s.StirrupDiameter, false},
		{"columnStirrupSpacing", s.ColumnStirrupSpacing, true},
		{"slabBarDiameter", s.SlabBarDiameter, false},
		{"slabBarSpacing", s.SlabBarSpacing, true},
		{"masons", intField(s.Masons), true},
		{"laborers", intField(s.Laborers), false},
		{"targetDailyRate", s.TargetDailyRate, true},
		{"floorCount", intField(s.FloorCount), true},
		{"unitsPerMeter", s.UnitsPerMeter, true},
	}
	for _, f := range fields {
		if f.v == nil {
			continue
		}
		v := *f.v
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errorf("%s must be a finite number", f.name)
		}
		if v < 0 {
			return errorf("%s must not be negative, got %v", f.name, v)
		}
		if f.positive && v == 0 {
			return errorf("%s must be positive", f.name)
		}
	}
	return nil
}

func intField(v *int) *float64 {
	if v == nil {
		return nil
	}
	return Float(float64(*v))
}

func num(dst, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func count(dst, v *int) {
	if v != nil {
		*dst = *v
	}
}

func str(v, def string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return def
	}
	return v
}

func mix(name, v string, def materials.Mix) (materials.Mix, error) {
	if strings.TrimSpace(v) == "" {
		return def, nil
	}
	m, err := materials.ParseMix(strings.TrimSpace(v))
	if err != nil {
		return materials.Mix{}, errorf("%s: %v", name, err)
	}
	return m, nil
}
