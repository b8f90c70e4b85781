package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gotakeoff/internal/diagram"
	"github.com/alexiusacademia/gotakeoff/internal/project"
	"github.com/alexiusacademia/gotakeoff/internal/settings"
	"github.com/alexiusacademia/gotakeoff/internal/takeoff"
)

var (
	sensThickness float64
	sensHeight    float64
	sensFrom      float64
	sensTo        float64
	sensSteps     int
	sensSettings  string
	sensExport    string
)

var sensitivityCmd = &cobra.Command{
	Use:   "sensitivity",
	Short: "Show how junction overlap grows as walls meet at sharper angles",
	Long: `Cross two walls at a range of angles and compare the overlap volume
measured from the resolved footprints with V = t²h / sin θ.

A naive length × thickness takeoff counts this overlap twice, so the
error it makes grows without bound as the angle closes.

Examples:
  gotakeoff sensitivity --thickness 225 --height 3000
  gotakeoff sensitivity --from 5 --to 90 --steps 18 -o sensitivity.png`,
	Args: cobra.NoArgs,
	RunE: runSensitivity,
}

func init() {
	rootCmd.AddCommand(sensitivityCmd)

	sensitivityCmd.Flags().Float64VarP(&sensThickness, "thickness", "t", 225, "Wall thickness (mm)")
	sensitivityCmd.Flags().Float64Var(&sensHeight, "height", 3000, "Wall height (mm)")
	sensitivityCmd.Flags().Float64Var(&sensFrom, "from", 5, "Smallest angle (degrees)")
	sensitivityCmd.Flags().Float64Var(&sensTo, "to", 90, "Largest angle (degrees)")
	sensitivityCmd.Flags().IntVar(&sensSteps, "steps", 18, "Number of angles")
	sensitivityCmd.Flags().StringVarP(&sensSettings, "settings", "s", "", "Settings file (for unitsPerMeter)")
	sensitivityCmd.Flags().StringVarP(&sensExport, "output", "o", "", "Export the curve to file (png, svg, pdf)")
}

func runSensitivity(cmd *cobra.Command, args []string) error {
	s := &settings.Settings{}
	if sensSettings != "" {
		var err error
		if s, err = project.LoadSettings(sensSettings); err != nil {
			return err
		}
	}

	pts, err := takeoff.Sensitivity(s, sensThickness, sensHeight, takeoff.Angles(sensFrom, sensTo, sensSteps),
		takeoff.WithLogger(log))
	if err != nil {
		return err
	}

	header("JUNCTION OVERLAP SENSITIVITY")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  θ\tt²h/sin θ\tMeasured\tError\n")
	fmt.Fprintf(w, "  ─\t─────────\t────────\t─────\n")
	for _, p := range pts {
		rel := 0.0
		if p.Analytic > 0 {
			rel = (p.Measured - p.Analytic) / p.Analytic * 100
		}
		fmt.Fprintf(w, "  %.1f°\t%.4f m³\t%.4f m³\t%+.2f %%\n", p.Angle, p.Analytic, p.Measured, rel)
	}
	w.Flush()

	fmt.Println(diagram.DrawSensitivity(pts))

	if sensExport != "" {
		if err := diagram.ExportSensitivity(pts, sensExport); err != nil {
			return fmt.Errorf("failed to export plot: %w", err)
		}
		fmt.Printf("Plot exported to: %s\n", sensExport)
	}
	return nil
}
