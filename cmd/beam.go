package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gotakeoff/internal/beam"
	"github.com/alexiusacademia/gotakeoff/internal/materials"
	"github.com/alexiusacademia/gotakeoff/internal/nscp"
)

var (
	// Section inputs
	beamWidth  float64
	beamHeight float64
	beamCover  float64
	beamFc     float64
	beamFy     float64
	beamBar    float64

	// Loading inputs
	beamSpan float64
	beamDead float64
	beamLive float64
	beamWu   float64
)

var beamCmd = &cobra.Command{
	Use:   "beam",
	Short: "Size the main bars of a simply supported floor beam",
	Long: `Size the bottom reinforcement of a simply supported rectangular
floor beam, the way the takeoff does for beams with a tributary width.

The factored line load is either given directly (--wu) or taken as the
governing NSCP 2015 combination of --dead and --live. The moment is
Mu = wu·L²/8 and the section is designed singly reinforced.

Examples:
  # 250x400mm beam spanning 4 m with D=12 kN/m, L=5 kN/m
  gotakeoff beam -b 250 --height 400 --span 4 --dead 12 --live 5

  # Factored load given directly, 20 mm bars
  gotakeoff beam -b 300 --height 500 --span 6 --wu 40 --bar 20`,
	Args: cobra.NoArgs,
	RunE: runBeam,
}

func init() {
	rootCmd.AddCommand(beamCmd)

	// Geometry flags
	beamCmd.Flags().Float64VarP(&beamWidth, "width", "b", 0, "Beam width (mm) [required]")
	beamCmd.Flags().Float64Var(&beamHeight, "height", 0, "Beam total depth (mm) [required]")
	beamCmd.Flags().Float64VarP(&beamCover, "cover", "c", beam.DefaultCover, "Effective cover to steel centroid (mm)")

	// Material flags
	beamCmd.Flags().Float64Var(&beamFc, "fc", 21, "Concrete compressive strength f'c (MPa)")
	beamCmd.Flags().Float64Var(&beamFy, "fy", 415, "Steel yield strength fy (MPa)")
	beamCmd.Flags().Float64Var(&beamBar, "bar", 16, "Main bar diameter (mm)")

	// Loading flags
	beamCmd.Flags().Float64VarP(&beamSpan, "span", "L", 0, "Clear span (m) [required]")
	beamCmd.Flags().Float64Var(&beamDead, "dead", 0, "Service dead load (kN/m)")
	beamCmd.Flags().Float64Var(&beamLive, "live", 0, "Service live load (kN/m)")
	beamCmd.Flags().Float64Var(&beamWu, "wu", 0, "Factored load (kN/m), overrides --dead and --live")

	// Mark required flags
	beamCmd.MarkFlagRequired("width")
	beamCmd.MarkFlagRequired("height")
	beamCmd.MarkFlagRequired("span")
}

func runBeam(cmd *cobra.Command, args []string) error {
	wu, combo := beamWu, "given"
	if wu == 0 {
		var lc nscp.LoadCombination
		wu, lc = nscp.Governing(nscp.Loads{Dead: beamDead, Live: beamLive}, nscp.LoadCombinations)
		combo = lc.Description
	}
	if wu <= 0 {
		return fmt.Errorf("no load given: use --wu or --dead/--live")
	}

	s := beam.NewSection(beamWidth, beamHeight, beamCover, beamFc, beamFy)
	bars, err := beam.DesignMainBars(s, beamSpan, wu, beamBar)
	if err != nil {
		return err
	}
	design, err := s.Design(bars.Mu)
	if err != nil {
		return err
	}

	header("FLOOR BEAM MAIN BARS - NSCP 2015")

	// Input summary
	section("INPUT DATA:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Beam Width (b):\t%.0f mm\n", s.Width)
	fmt.Fprintf(w, "  Beam Depth (h):\t%.0f mm\n", s.Height)
	fmt.Fprintf(w, "  Effective Depth (d):\t%.0f mm\n", s.EffectiveDepth)
	fmt.Fprintf(w, "  f'c:\t%.1f MPa\n", s.Fc)
	fmt.Fprintf(w, "  fy:\t%.1f MPa\n", s.Fy)
	fmt.Fprintf(w, "  Span (L):\t%.2f m\n", beamSpan)
	fmt.Fprintf(w, "  Factored Load (wu):\t%.2f kN/m (%s)\n", wu, combo)
	fmt.Fprintf(w, "  Factored Moment (Mu):\t%.2f kN-m\n", bars.Mu)
	w.Flush()
	fmt.Println()

	// Steel area limits
	section("STEEL AREA:")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  ρ_min / ρ_max / ρ_bal:\t%.6f / %.6f / %.6f\n", design.RhoMin, design.RhoMax, nscp.RhoBalanced(s.Fc, s.Fy))
	fmt.Fprintf(w, "  As,min:\t%.2f mm²\n", design.AsMin)
	fmt.Fprintf(w, "  As,max:\t%.2f mm²\n", design.AsMax)
	fmt.Fprintf(w, "  As,required:\t%.2f mm²\n", bars.AsRequired)
	fmt.Fprintf(w, "  As,provided:\t%.2f mm² (%d - φ%.0fmm)\n", bars.AsProvided, bars.Count, beamBar)
	w.Flush()
	fmt.Println()

	// Design result
	section("DESIGN RESULT:")
	if bars.Adequate {
		fmt.Printf("  φMn = %.2f kN-m ≥ Mu = %.2f kN-m ✓\n", bars.PhiMn, bars.Mu)
	} else {
		fmt.Println("  ╔═════════════════════════════════════════╗")
		fmt.Println("  ║  DESIGN NOT ADEQUATE                    ║")
		fmt.Println("  ╚═════════════════════════════════════════╝")
	}
	fmt.Printf("  Status: %s\n", bars.Message)
	fmt.Println()

	if bars.AsRequired > 0 {
		printBarSuggestions(bars.AsRequired)
	}
	return nil
}

func printBarSuggestions(asRequired float64) {
	section("SUGGESTED BAR COMBINATIONS:")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Bars\tAs Provided\tRatio\n")
	fmt.Fprintf(w, "  ────\t───────────\t─────\n")

	for _, dia := range []float64{12, 16, 20, 25, 28, 32} {
		area := materials.BarArea(dia)
		count := int(asRequired/area) + 1
		if count < beam.MinMainBars || count > 8 {
			continue
		}
		total := float64(count) * area
		fmt.Fprintf(w, "  %d - φ%.0fmm\t%.2f mm²\t%.2f\n", count, dia, total, total/asRequired)
	}
	w.Flush()
	fmt.Println()
}
