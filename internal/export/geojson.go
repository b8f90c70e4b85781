// Package export writes takeoff results for other tools: GeoJSON for GIS
// and CAD viewers, and an xlsx bill of quantities.
package export

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/alexiusacademia/gotakeoff/internal/plan"
	"github.com/alexiusacademia/gotakeoff/internal/takeoff"
)

// Feature kinds, stored in the "kind" property.
const (
	KindFootprint = "footprint"
	KindWall      = "wall"
	KindColumn    = "column"
)

// FeatureCollection returns the resolved class footprints, wall
// centerlines and column outlines in drawing units.
func FeatureCollection(p *plan.Plan, r *takeoff.Result) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, c := range []takeoff.ClassResult{r.Structural, r.Partition} {
		if len(c.Footprint) == 0 {
			continue
		}
		f := geojson.NewFeature(c.Footprint.Orb())
		f.Properties["kind"] = KindFootprint
		f.Properties["class"] = c.Class.String()
		f.Properties["area"] = c.Area
		f.Properties["netVolume"] = c.NetVolume
		f.Properties["blocks"] = c.Blocks
		fc.Append(f)
	}

	for _, w := range p.Walls {
		if w.IsDegenerate() {
			continue
		}
		f := geojson.NewFeature(orb.LineString{{w.Start.X, w.Start.Y}, {w.End.X, w.End.Y}})
		f.ID = w.ID
		f.Properties["kind"] = KindWall
		f.Properties["class"] = w.Class().String()
		f.Properties["thickness"] = w.Thickness
		if w.Height > 0 {
			f.Properties["height"] = w.Height
		}
		fc.Append(f)
	}

	for _, c := range p.Columns {
		fp, ok := c.Footprint()
		if !ok {
			continue
		}
		f := geojson.NewFeature(fp.Orb())
		f.ID = c.ID
		f.Properties["kind"] = KindColumn
		fc.Append(f)
	}
	return fc
}

// WriteGeoJSON writes the feature collection to path.
func WriteGeoJSON(path string, p *plan.Plan, r *takeoff.Result) error {
	data, err := FeatureCollection(p, r).MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode geojson: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write geojson: %w", err)
	}
	return nil
}
