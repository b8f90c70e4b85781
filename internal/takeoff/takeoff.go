// Package takeoff turns a floor plan into material quantities.
//
// Walls are buffered into footprints and unioned per thickness class, so
// every junction is counted once whatever its angle. Partition footprints
// are trimmed against the structural union. Openings, embedded columns and
// lintels are deducted from the resulting volumes, which are converted into
// block counts, mortar, concrete, reinforcement and labor.
//
// Estimate is a pure function: identical inputs give identical results,
// whatever the order of the walls.
package takeoff

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/alexiusacademia/gotakeoff/internal/clip"
	"github.com/alexiusacademia/gotakeoff/internal/geom"
	"github.com/alexiusacademia/gotakeoff/internal/materials"
	"github.com/alexiusacademia/gotakeoff/internal/plan"
	"github.com/alexiusacademia/gotakeoff/internal/safety"
	"github.com/alexiusacademia/gotakeoff/internal/settings"
)

// CountEpsilon is the relative slack allowed before a block count rounds
// up, so volumes that are exact multiples of the unit cell do not gain a
// block from floating-point noise.
const CountEpsilon = 1e-6

// MinJunctionAngle is the included angle (degrees) under which a junction
// is reported as acute. Overlap grows as 1/sin θ, so junctions sharper
// than this dominate the volume correction.
const MinJunctionAngle = 15.0

// Result is the full output of one takeoff. Areas are in m², volumes in
// m³ and lengths in m unless noted.
type Result struct {
	Structural  ClassResult        `json:"structural"`
	Partition   ClassResult        `json:"partition"`
	TotalBlocks int                `json:"totalBlocks"`
	Mortar      materials.Quantity `json:"mortar"`
	Concrete    ConcreteResult     `json:"concrete"`
	Steel       SteelResult        `json:"steel"`
	Labor       LaborResult        `json:"labor"`
	Safety      *safety.Report     `json:"safety"`
	Diagnostics *Diagnostics       `json:"diagnostics,omitempty"`
}

// ClassResult holds the wall quantities of one thickness class.
type ClassResult struct {
	Class          plan.ThicknessClass `json:"class"`
	Walls          int                 `json:"walls"`
	Length         float64             `json:"length"`    // centreline
	Thickness      float64             `json:"thickness"` // length-weighted mean, drawing units
	Area           float64             `json:"area"`
	GrossVolume    float64             `json:"grossVolume"`
	OpeningVolume  float64             `json:"openingVolume"`
	ColumnVolume   float64             `json:"columnVolume"`
	LintelVolume   float64             `json:"lintelVolume"`
	LintelDeducted bool                `json:"lintelDeducted"`
	NetVolume      float64             `json:"netVolume"`
	UnitCell       float64             `json:"unitCell"`
	Blocks         int                 `json:"blocks"`
	Mortar         materials.Quantity  `json:"mortar"`

	// Footprint is the resolved plan geometry of the class in drawing
	// units.
	Footprint geom.MultiPolygon `json:"-"`
}

// Option configures an estimate.
type Option func(*options)

type options struct {
	logger      *zap.Logger
	diagnostics bool
	engine      *clip.Engine
}

// WithLogger sets the logger used for advisory debug output.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithDiagnostics requests per-junction and per-class diagnostics in
// Result.Diagnostics.
func WithDiagnostics() Option {
	return func(o *options) {
		o.diagnostics = true
	}
}

// WithEngine sets the boolean engine, typically to force a snap tolerance.
func WithEngine(e *clip.Engine) Option {
	return func(o *options) {
		if e != nil {
			o.engine = e
		}
	}
}

// Estimate computes the takeoff of p under s. It fails only on nil or
// invalid settings and on plan values no quantity can be computed from;
// degenerate walls and openings on missing walls are skipped.
func Estimate(p *plan.Plan, s *settings.Settings, opts ...Option) (*Result, error) {
	cfg, err := s.Resolve()
	if err != nil {
		return nil, err
	}
	return EstimateConfig(p, cfg, opts...)
}

// EstimateConfig is Estimate with already resolved settings.
func EstimateConfig(p *plan.Plan, cfg *settings.Config, opts ...Option) (*Result, error) {
	if cfg == nil {
		return nil, settings.ErrNilSettings
	}
	if p == nil {
		p = &plan.Plan{}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	o := options{logger: zap.NewNop(), engine: &clip.Engine{}}
	for _, opt := range opts {
		opt(&o)
	}

	e := newEstimator(p, cfg, o)
	res := e.run()
	if e.err != nil {
		return nil, fmt.Errorf("failed to resolve footprints: %w", e.err)
	}
	return res, nil
}
