// Package dxfimport turns line work from a DXF drawing into plan walls.
// Each LINE becomes a wall, and each LWPOLYLINE becomes one wall per
// segment. Walls take a fixed thickness; the drawing carries none.
package dxfimport

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/alexiusacademia/gotakeoff/internal/geom"
	"github.com/alexiusacademia/gotakeoff/internal/plan"
)

// Options controls how line work is converted.
type Options struct {
	// Thickness of every imported wall, in plan units.
	Thickness float64
	// Height of every imported wall; 0 leaves the project default.
	Height float64
	// Scale multiplies drawing coordinates into plan units, for example
	// 1000 for a drawing in metres. 0 means 1.
	Scale float64
	// Layers restricts the import to these layers (case-insensitive).
	// Empty means every layer.
	Layers []string
}

// Segment is one straight piece of line work.
type Segment struct {
	Layer string
	Start geom.Point
	End   geom.Point
}

// Read extracts the straight segments of a DXF file.
func Read(path string) ([]Segment, error) {
	d, err := dxf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dxf: %w", err)
	}

	var segs []Segment
	for _, e := range d.Entities() {
		layer := ""
		if l := e.Layer(); l != nil {
			layer = l.Name()
		}

		switch e := e.(type) {
		case *entity.Line:
			segs = append(segs, Segment{Layer: layer, Start: point(e.Start), End: point(e.End)})

		case *entity.LwPolyline:
			n := len(e.Vertices)
			last := n - 1
			if e.Closed {
				last = n
			}
			for i := 0; i < last && n > 1; i++ {
				segs = append(segs, Segment{
					Layer: layer,
					Start: point(e.Vertices[i]),
					End:   point(e.Vertices[(i+1)%n]),
				})
			}
		}
	}
	return segs, nil
}

func point(v []float64) geom.Point {
	var p geom.Point
	if len(v) > 0 {
		p.X = v[0]
	}
	if len(v) > 1 {
		p.Y = v[1]
	}
	return p
}

// Build converts segments into a plan. Segments on other layers and
// segments shorter than plan.MinWallLength after scaling are dropped.
func Build(segs []Segment, opts Options) (*plan.Plan, error) {
	if !(opts.Thickness > 0) {
		return nil, fmt.Errorf("wall thickness must be positive, got %v", opts.Thickness)
	}
	if opts.Height < 0 || opts.Scale < 0 {
		return nil, fmt.Errorf("height and scale must not be negative")
	}
	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}

	keep := func(string) bool { return true }
	if len(opts.Layers) > 0 {
		want := make(map[string]bool, len(opts.Layers))
		for _, l := range opts.Layers {
			want[strings.ToLower(l)] = true
		}
		keep = func(l string) bool { return want[strings.ToLower(l)] }
	}

	p := &plan.Plan{}
	for _, s := range segs {
		if !keep(s.Layer) {
			continue
		}
		w := plan.Wall{
			ID:        uuid.NewString(),
			Start:     s.Start.Scale(scale),
			End:       s.End.Scale(scale),
			Thickness: opts.Thickness,
			Height:    opts.Height,
		}
		if w.IsDegenerate() {
			continue
		}
		p.Walls = append(p.Walls, w)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Import reads a DXF file and builds a plan from it.
func Import(path string, opts Options) (*plan.Plan, error) {
	segs, err := Read(path)
	if err != nil {
		return nil, err
	}
	return Build(segs, opts)
}
