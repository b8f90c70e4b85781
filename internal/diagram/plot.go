package diagram

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/alexiusacademia/gotakeoff/internal/geom"
	"github.com/alexiusacademia/gotakeoff/internal/plan"
	"github.com/alexiusacademia/gotakeoff/internal/takeoff"
)

var (
	structuralFill = color.RGBA{R: 100, G: 149, B: 237, A: 150}
	partitionFill  = color.RGBA{R: 255, G: 165, B: 0, A: 150}
	columnFill     = color.RGBA{R: 139, G: 69, B: 19, A: 220}
	outline        = color.RGBA{R: 0, G: 0, B: 139, A: 255}
)

// ExportPlan draws the resolved wall footprints, wall centrelines and
// columns of a takeoff.
func ExportPlan(p *plan.Plan, r *takeoff.Result, filename string) error {
	pl := plot.New()
	pl.Title.Text = "Resolved Wall Footprints"
	pl.X.Label.Text = "X (mm)"
	pl.Y.Label.Text = "Y (mm)"

	for _, c := range []struct {
		res  takeoff.ClassResult
		fill color.Color
	}{{r.Structural, structuralFill}, {r.Partition, partitionFill}} {
		for _, poly := range c.res.Footprint {
			shape, err := plotter.NewPolygon(polygonXYs(poly)...)
			if err != nil {
				return err
			}
			shape.Color = c.fill
			shape.LineStyle.Color = outline
			pl.Add(shape)
		}
		if len(c.res.Footprint) > 0 {
			pl.Legend.Add(fmt.Sprintf("%s (%d blocks)", c.res.Class, c.res.Blocks), swatch(c.fill))
		}
	}

	for _, w := range p.Walls {
		if w.IsDegenerate() {
			continue
		}
		axis, err := plotter.NewLine(plotter.XYs{{X: w.Start.X, Y: w.Start.Y}, {X: w.End.X, Y: w.End.Y}})
		if err != nil {
			return err
		}
		axis.LineStyle.Width = vg.Points(0.5)
		axis.LineStyle.Color = color.Gray{Y: 96}
		axis.LineStyle.Dashes = []vg.Length{vg.Points(3), vg.Points(2)}
		pl.Add(axis)
	}

	for _, c := range p.Columns {
		fp, ok := c.Footprint()
		if !ok {
			continue
		}
		shape, err := plotter.NewPolygon(polygonXYs(fp)...)
		if err != nil {
			return err
		}
		shape.Color = columnFill
		shape.LineStyle.Color = color.Black
		pl.Add(shape)
	}

	// Keep the drawing to scale.
	b := r.Structural.Footprint.Bounds().Union(r.Partition.Footprint.Bounds())
	if !b.IsEmpty() {
		side := math.Max(b.Width(), b.Height()) * 1.05
		cx, cy := (b.Min.X+b.Max.X)/2, (b.Min.Y+b.Max.Y)/2
		pl.X.Min, pl.X.Max = cx-side/2, cx+side/2
		pl.Y.Min, pl.Y.Max = cy-side/2, cy+side/2
	}

	return save(pl, 8*vg.Inch, 8*vg.Inch, filename)
}

// ExportSensitivity plots the crossing overlap volume against the
// intersection angle, with the acute-junction threshold marked.
func ExportSensitivity(points []takeoff.SensitivityPoint, filename string) error {
	pl := plot.New()
	pl.Title.Text = "Sensitivity Analysis: Overlap Volume vs. Intersection Angle"
	pl.X.Label.Text = "Intersection Angle (degrees)"
	pl.Y.Label.Text = "Overlap Volume (m³)"
	pl.Add(plotter.NewGrid())

	analytic := make(plotter.XYs, len(points))
	measured := make(plotter.XYs, len(points))
	top := 0.0
	for i, pt := range points {
		analytic[i] = plotter.XY{X: pt.Angle, Y: pt.Analytic}
		measured[i] = plotter.XY{X: pt.Angle, Y: pt.Measured}
		top = math.Max(top, pt.Analytic)
	}

	curve, err := plotter.NewLine(analytic)
	if err != nil {
		return err
	}
	curve.LineStyle.Width = vg.Points(2)
	curve.LineStyle.Color = color.RGBA{B: 255, A: 255}
	pl.Add(curve)
	pl.Legend.Add("V = t²h / sin θ", curve)

	dots, err := plotter.NewScatter(measured)
	if err != nil {
		return err
	}
	dots.GlyphStyle.Color = columnFill
	dots.GlyphStyle.Radius = vg.Points(2.5)
	dots.GlyphStyle.Shape = draw.CircleGlyph{}
	pl.Add(dots)
	pl.Legend.Add("resolved footprints", dots)

	if top == 0 {
		top = 1
	}
	threshold, err := plotter.NewLine(plotter.XYs{
		{X: takeoff.MinJunctionAngle, Y: 0},
		{X: takeoff.MinJunctionAngle, Y: top},
	})
	if err != nil {
		return err
	}
	threshold.LineStyle.Color = color.RGBA{R: 255, A: 255}
	threshold.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
	pl.Add(threshold)
	pl.Legend.Add(fmt.Sprintf("threshold θ = %.0f°", takeoff.MinJunctionAngle), threshold)
	pl.Legend.Top = true

	pl.X.Min, pl.X.Max = 0, 90
	pl.Y.Min = 0

	return save(pl, 10*vg.Inch, 6*vg.Inch, filename)
}

func polygonXYs(p geom.Polygon) []plotter.XYer {
	rings := make([]plotter.XYer, 0, 1+len(p.Holes))
	for _, r := range append([]geom.Ring{p.Shell}, p.Holes...) {
		xys := make(plotter.XYs, len(r))
		for i, pt := range r {
			xys[i] = plotter.XY{X: pt.X, Y: pt.Y}
		}
		rings = append(rings, xys)
	}
	return rings
}

func swatch(c color.Color) plot.Thumbnailer {
	s, _ := plotter.NewPolygon(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}})
	s.Color = c
	return s
}

// save writes the plot in the format named by the file extension,
// falling back to png.
func save(p *plot.Plot, width, height vg.Length, filename string) error {
	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	switch filepath.Ext(filename) {
	case ".png", ".svg", ".pdf", ".jpg", ".jpeg":
		return p.Save(width, height, filename)
	default:
		return p.Save(width, height, filename+".png")
	}
}
