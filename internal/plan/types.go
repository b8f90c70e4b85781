// Package plan defines the floor-plan input of a takeoff: walls drawn as
// centerlines with a thickness, the openings they host, columns, beams and
// slabs. All lengths share one drawing unit (millimetres in practice).
package plan

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/gotakeoff/internal/geom"
)

// StructuralThreshold separates the two thickness classes. Walls thicker
// than this are structural, the rest are partitions.
const StructuralThreshold = 150.0

// MinWallLength is the centerline length under which a wall is degenerate
// and contributes no footprint.
const MinWallLength = 1e-3

// ThicknessClass groups walls that are unioned together.
type ThicknessClass int

const (
	Partition ThicknessClass = iota
	Structural
)

// ClassOf returns the class for a wall thickness.
func ClassOf(thickness float64) ThicknessClass {
	if thickness > StructuralThreshold {
		return Structural
	}
	return Partition
}

func (c ThicknessClass) String() string {
	if c == Structural {
		return "structural"
	}
	return "partition"
}

// MarshalText implements encoding.TextMarshaler.
func (c ThicknessClass) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Wall is a straight wall run given by its centerline.
type Wall struct {
	ID        string     `json:"id" yaml:"id"`
	Start     geom.Point `json:"start" yaml:"start"`
	End       geom.Point `json:"end" yaml:"end"`
	Thickness float64    `json:"thickness" yaml:"thickness"`                 // mm
	Height    float64    `json:"height,omitempty" yaml:"height,omitempty"` // mm, 0 = project default
}

// Length returns the centerline length.
func (w Wall) Length() float64 {
	return w.Start.Dist(w.End)
}

// Class returns the thickness class of the wall.
func (w Wall) Class() ThicknessClass {
	return ClassOf(w.Thickness)
}

// Segment returns the wall centerline.
func (w Wall) Segment() geom.Segment {
	return geom.Segment{A: w.Start, B: w.End}
}

// IsDegenerate reports whether the wall is too short to have a footprint.
func (w Wall) IsDegenerate() bool {
	return w.Length() < MinWallLength
}

// OpeningKind distinguishes doors from windows.
type OpeningKind string

const (
	Door   OpeningKind = "door"
	Window OpeningKind = "window"
)

// Opening is a door or window cut through a host wall.
type Opening struct {
	ID         string      `json:"id" yaml:"id"`
	WallID     string      `json:"wallId" yaml:"wallId"`
	Kind       OpeningKind `json:"kind,omitempty" yaml:"kind,omitempty"`
	Width      float64     `json:"width" yaml:"width"`                             // mm
	Height     float64     `json:"height" yaml:"height"`                           // mm
	Position   float64     `json:"position" yaml:"position"`                       // mm from host start to opening centre
	SillHeight float64     `json:"sillHeight,omitempty" yaml:"sillHeight,omitempty"` // mm
}

// Column is a rectangular column, optionally rotated, with an optional
// pad footing that overrides the project pad size.
type Column struct {
	ID        string     `json:"id" yaml:"id"`
	Position  geom.Point `json:"position" yaml:"position"`
	Width     float64    `json:"width" yaml:"width"`                           // mm
	Height    float64    `json:"height" yaml:"height"`                         // mm, plan depth
	Rotation  float64    `json:"rotation,omitempty" yaml:"rotation,omitempty"` // degrees
	PadWidth  float64    `json:"padWidth,omitempty" yaml:"padWidth,omitempty"`
	PadLength float64    `json:"padLength,omitempty" yaml:"padLength,omitempty"`
	PadDepth  float64    `json:"padDepth,omitempty" yaml:"padDepth,omitempty"`
}

// Beam is a rectangular beam between two points. Beams with a tributary
// width get their reinforcement designed from the floor load.
type Beam struct {
	ID             string     `json:"id" yaml:"id"`
	Start          geom.Point `json:"start" yaml:"start"`
	End            geom.Point `json:"end" yaml:"end"`
	Width          float64    `json:"width" yaml:"width"` // mm
	Depth          float64    `json:"depth" yaml:"depth"` // mm
	TributaryWidth float64    `json:"tributaryWidth,omitempty" yaml:"tributaryWidth,omitempty"`
}

// Length returns the beam span.
func (b Beam) Length() float64 {
	return b.Start.Dist(b.End)
}

// Slab is a flat slab over a closed outline.
type Slab struct {
	ID        string       `json:"id" yaml:"id"`
	Outline   []geom.Point `json:"outline" yaml:"outline"`
	Thickness float64      `json:"thickness" yaml:"thickness"` // mm
}

// Polygon returns the slab outline as a CCW polygon.
func (s Slab) Polygon() geom.Polygon {
	return geom.Polygon{Shell: geom.Ring(s.Outline)}.Normalized()
}

// Plan is the full takeoff input.
type Plan struct {
	Walls    []Wall    `json:"walls" yaml:"walls"`
	Openings []Opening `json:"openings,omitempty" yaml:"openings,omitempty"`
	Columns  []Column  `json:"columns,omitempty" yaml:"columns,omitempty"`
	Beams    []Beam    `json:"beams,omitempty" yaml:"beams,omitempty"`
	Slabs    []Slab    `json:"slabs,omitempty" yaml:"slabs,omitempty"`
}

// WallByID returns the first wall with the given id.
func (p *Plan) WallByID(id string) (Wall, bool) {
	for _, w := range p.Walls {
		if w.ID == id {
			return w, true
		}
	}
	return Wall{}, false
}

// Validate rejects inputs no takeoff can be computed from: non-finite
// coordinates, non-positive wall thickness and negative dimensions.
// Degenerate geometry is not an error.
func (p *Plan) Validate() error {
	for i, w := range p.Walls {
		name := label("wall", w.ID, i)
		if !w.Start.IsFinite() || !w.End.IsFinite() {
			return errorf("%s has non-finite coordinates", name)
		}
		if !(w.Thickness > 0) || math.IsInf(w.Thickness, 0) {
			return errorf("%s thickness must be positive, got %v", name, w.Thickness)
		}
		if err := nonNegative(name, "height", w.Height); err != nil {
			return err
		}
	}

	for i, o := range p.Openings {
		name := label("opening", o.ID, i)
		for _, d := range []struct {
			field string
			v     float64
		}{{"width", o.Width}, {"height", o.Height}, {"sill height", o.SillHeight}} {
			if err := nonNegative(name, d.field, d.v); err != nil {
				return err
			}
		}
		if math.IsNaN(o.Position) || math.IsInf(o.Position, 0) {
			return errorf("%s position must be finite", name)
		}
	}

	for i, c := range p.Columns {
		name := label("column", c.ID, i)
		if !c.Position.IsFinite() {
			return errorf("%s has non-finite coordinates", name)
		}
		for _, d := range []struct {
			field string
			v     float64
		}{
			{"width", c.Width}, {"height", c.Height}, {"pad width", c.PadWidth},
			{"pad length", c.PadLength}, {"pad depth", c.PadDepth},
		} {
			if err := nonNegative(name, d.field, d.v); err != nil {
				return err
			}
		}
		if math.IsNaN(c.Rotation) || math.IsInf(c.Rotation, 0) {
			return errorf("%s rotation must be finite", name)
		}
	}

	for i, b := range p.Beams {
		name := label("beam", b.ID, i)
		if !b.Start.IsFinite() || !b.End.IsFinite() {
			return errorf("%s has non-finite coordinates", name)
		}
		for _, d := range []struct {
			field string
			v     float64
		}{{"width", b.Width}, {"depth", b.Depth}, {"tributary width", b.TributaryWidth}} {
			if err := nonNegative(name, d.field, d.v); err != nil {
				return err
			}
		}
	}

	for i, s := range p.Slabs {
		name := label("slab", s.ID, i)
		for _, pt := range s.Outline {
			if !pt.IsFinite() {
				return errorf("%s has non-finite coordinates", name)
			}
		}
		if err := nonNegative(name, "thickness", s.Thickness); err != nil {
			return err
		}
	}
	return nil
}

func label(kind, id string, i int) string {
	if id == "" {
		return fmt.Sprintf("%s #%d", kind, i+1)
	}
	return fmt.Sprintf("%s %q", kind, id)
}

func nonNegative(name, field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errorf("%s %s must be finite", name, field)
	}
	if v < 0 {
		return errorf("%s %s must not be negative, got %v", name, field, v)
	}
	return nil
}

// ValidationError represents a plan validation error
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func errorf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}
