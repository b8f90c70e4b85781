package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gotakeoff/internal/diagram"
	"github.com/alexiusacademia/gotakeoff/internal/export"
	"github.com/alexiusacademia/gotakeoff/internal/takeoff"
)

var (
	estimateFile        string
	estimateSettings    string
	estimateDiagnostics bool
	estimateJSON        bool

	// Outputs
	estimateXLSX    string
	estimateGeoJSON string
	estimatePlot    string
	estimateASCII   bool
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Compute the bill of materials of a project",
	Long: `Resolve the walls of a project file into footprints and compute the
block count, mortar, concrete, reinforcing steel and labor.

The project is a JSON or YAML file holding walls, openings, columns,
beams, slabs and optional settings.

Examples:
  # Print the takeoff report
  gotakeoff estimate -f house.yaml

  # Override the project settings and show junction diagnostics
  gotakeoff estimate -f house.yaml --settings site.yml --diagnostics

  # Export a bill of quantities and a plan drawing
  gotakeoff estimate -f house.yaml --xlsx boq.xlsx -o plan.png`,
	Args: cobra.NoArgs,
	RunE: runEstimate,
}

func init() {
	rootCmd.AddCommand(estimateCmd)

	estimateCmd.Flags().StringVarP(&estimateFile, "file", "f", "", "Project file (.json, .yaml) [required]")
	estimateCmd.Flags().StringVarP(&estimateSettings, "settings", "s", "", "Settings file replacing the project settings")
	estimateCmd.Flags().BoolVar(&estimateDiagnostics, "diagnostics", false, "Report junction overlaps and naive-vs-exact areas")
	estimateCmd.Flags().BoolVar(&estimateJSON, "json", false, "Print the result as JSON instead of a report")
	estimateCmd.MarkFlagRequired("file")

	estimateCmd.Flags().StringVar(&estimateXLSX, "xlsx", "", "Export the bill of quantities to an Excel workbook")
	estimateCmd.Flags().StringVar(&estimateGeoJSON, "geojson", "", "Export footprints, walls and columns as GeoJSON")
	estimateCmd.Flags().StringVarP(&estimatePlot, "output", "o", "", "Export a plan drawing (png, svg, pdf)")
	estimateCmd.Flags().BoolVar(&estimateASCII, "ascii", false, "Show an ASCII plan preview")
}

func runEstimate(cmd *cobra.Command, args []string) error {
	p, err := loadProject(estimateFile, estimateSettings)
	if err != nil {
		return err
	}

	opts := []takeoff.Option{takeoff.WithLogger(log)}
	if estimateDiagnostics {
		opts = append(opts, takeoff.WithDiagnostics())
	}
	r, err := p.Estimate(opts...)
	if err != nil {
		return err
	}

	if estimateJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	title := "QUANTITY TAKEOFF"
	if p.Name != "" {
		title += " - " + strings.ToUpper(p.Name)
	}
	header(title)
	printWalls(r)
	printMaterials(r)
	printSteel(r)
	printLabor(r)
	if r.Safety != nil && len(r.Safety.Columns) > 0 {
		printSafety(r.Safety)
	}
	if r.Diagnostics != nil {
		printDiagnostics(r.Diagnostics)
	}

	fmt.Print(diagram.DrawSummaryBox("TOTALS", []string{
		fmt.Sprintf("Blocks:    %d pcs", r.TotalBlocks),
		fmt.Sprintf("Cement:    %d bags", r.Mortar.Bags()+r.Concrete.Total.Bags()),
		fmt.Sprintf("Sand:      %.2f m³", r.Mortar.SandVolume+r.Concrete.Total.SandVolume),
		fmt.Sprintf("Gravel:    %.2f m³", r.Concrete.Total.AggregateVolume),
		fmt.Sprintf("Steel:     %.1f kg", r.Steel.TotalMass),
	}))
	fmt.Println()

	if estimateASCII {
		fmt.Print(diagram.DrawPlan(&p.Plan, r, 60))
		fmt.Println()
	}

	if estimateXLSX != "" {
		if err := export.WriteWorkbook(estimateXLSX, &p.Plan, r); err != nil {
			return err
		}
		fmt.Printf("Bill of quantities exported to: %s\n", estimateXLSX)
	}
	if estimateGeoJSON != "" {
		if err := export.WriteGeoJSON(estimateGeoJSON, &p.Plan, r); err != nil {
			return err
		}
		fmt.Printf("GeoJSON exported to: %s\n", estimateGeoJSON)
	}
	if estimatePlot != "" {
		if err := diagram.ExportPlan(&p.Plan, r, estimatePlot); err != nil {
			return fmt.Errorf("failed to export plan: %w", err)
		}
		fmt.Printf("Plan exported to: %s\n", estimatePlot)
	}
	return nil
}

func printWalls(r *takeoff.Result) {
	section("WALLS:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  \tStructural\tPartition\n")
	fmt.Fprintf(w, "  \t──────────\t─────────\n")
	s, p := r.Structural, r.Partition
	fmt.Fprintf(w, "  Walls:\t%d\t%d\n", s.Walls, p.Walls)
	fmt.Fprintf(w, "  Centreline length:\t%.2f m\t%.2f m\n", s.Length, p.Length)
	fmt.Fprintf(w, "  Footprint area:\t%.3f m²\t%.3f m²\n", s.Area, p.Area)
	fmt.Fprintf(w, "  Gross volume:\t%.3f m³\t%.3f m³\n", s.GrossVolume, p.GrossVolume)
	fmt.Fprintf(w, "  Openings:\t-%.3f m³\t-%.3f m³\n", s.OpeningVolume, p.OpeningVolume)
	fmt.Fprintf(w, "  Columns:\t-%.3f m³\t-%.3f m³\n", s.ColumnVolume, p.ColumnVolume)
	if s.LintelDeducted || p.LintelDeducted {
		fmt.Fprintf(w, "  Lintels:\t-%.3f m³\t-%.3f m³\n", s.LintelVolume, p.LintelVolume)
	}
	fmt.Fprintf(w, "  Net volume:\t%.3f m³\t%.3f m³\n", s.NetVolume, p.NetVolume)
	fmt.Fprintf(w, "  Blocks:\t%d pcs\t%d pcs\n", s.Blocks, p.Blocks)
	w.Flush()
	fmt.Println()
}

func printMaterials(r *takeoff.Result) {
	section("MORTAR AND CONCRETE:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Item\tMix\tVolume\tCement\tSand\tGravel\n")
	fmt.Fprintf(w, "  ────\t───\t──────\t──────\t────\t──────\n")
	m := r.Mortar
	fmt.Fprintf(w, "  mortar\t\t%.3f m³\t%d bags\t%.3f m³\t\n", m.WetVolume, m.Bags(), m.SandVolume)
	for _, it := range r.Concrete.Items {
		q := it.Quantity
		fmt.Fprintf(w, "  %s\t%s\t%.3f m³\t%d bags\t%.3f m³\t%.3f m³\n",
			it.Name, it.Mix, it.Volume, q.Bags(), q.SandVolume, q.AggregateVolume)
	}
	w.Flush()
	fmt.Println()
}

func printSteel(r *takeoff.Result) {
	if len(r.Steel.Items) == 0 {
		return
	}
	section("REINFORCING STEEL:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Bars\tφ\tLength\tMass\n")
	fmt.Fprintf(w, "  ────\t─\t──────\t────\n")
	for _, it := range r.Steel.Items {
		fmt.Fprintf(w, "  %s\t%.0f mm\t%.2f m\t%.2f kg\n", it.Name, it.Diameter, it.Length, it.Mass)
	}
	fmt.Fprintf(w, "  Total\t\t%.2f m\t%.2f kg\n", r.Steel.TotalLength, r.Steel.TotalMass)
	w.Flush()
	fmt.Println()

	for _, b := range r.Steel.Beams {
		if b.Bars == nil {
			continue
		}
		status := "✓"
		if !b.Bars.Adequate {
			status = "✗ " + b.Bars.Message
		}
		fmt.Printf("  Beam %s: L=%.2f m, wu=%.2f kN/m, Mu=%.2f kN-m → %d bars, φMn=%.2f kN-m %s\n",
			b.BeamID, b.Span, b.Load, b.Bars.Mu, b.Bars.Count, b.Bars.PhiMn, status)
	}
	if len(r.Steel.Beams) > 0 {
		fmt.Println()
	}
}

func printLabor(r *takeoff.Result) {
	section("LABOR:")
	l := r.Labor
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Crew:\t%d masons, %d laborers\n", l.Masons, l.Laborers)
	fmt.Fprintf(w, "  Junctions / openings:\t%d / %d\n", l.Junctions, l.Openings)
	fmt.Fprintf(w, "  Complexity factor:\t%.3f\n", l.Complexity)
	fmt.Fprintf(w, "  Duration:\t%.1f days\n", l.Days)
	fmt.Fprintf(w, "  Labor:\t%.1f man-days\n", l.ManDays)
	w.Flush()
	fmt.Println()
}

func printDiagnostics(d *takeoff.Diagnostics) {
	section("DIAGNOSTICS:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Walls\tKind\tAngle\tOverlap\t\n")
	fmt.Fprintf(w, "  ─────\t────\t─────\t───────\t\n")
	for _, j := range d.Junctions {
		mark := ""
		if j.Acute {
			mark = "⚠ acute"
		}
		fmt.Fprintf(w, "  %s × %s\t%s\t%.1f°\t%.4f m³\t%s\n", j.WallA, j.WallB, j.Kind, j.Angle, j.OverlapVolume, mark)
	}
	w.Flush()
	fmt.Println()

	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, c := range d.Classes {
		fmt.Fprintf(w, "  %s area:\tnaive %.3f m²\texact %.3f m²\tdifference %.3f m²\n", c.Class, c.NaiveArea, c.ExactArea, c.Difference)
	}
	w.Flush()
	if len(d.SkippedWalls) > 0 {
		fmt.Printf("  Skipped degenerate walls: %s\n", strings.Join(d.SkippedWalls, ", "))
	}
	if len(d.DanglingOpenings) > 0 {
		fmt.Printf("  Openings on missing walls: %s\n", strings.Join(d.DanglingOpenings, ", "))
	}
	fmt.Println()
}
