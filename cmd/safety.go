package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gotakeoff/internal/safety"
)

var (
	safetyFile     string
	safetySettings string
)

var safetyCmd = &cobra.Command{
	Use:   "safety",
	Short: "Screen column spacing, slenderness and load",
	Long: `Screen every column of a project for slenderness, span to the
nearest column and tributary axial load against a tied-column capacity
per NSCP 2015.

This is a screening aid, not a structural design.

Examples:
  gotakeoff safety -f house.yaml`,
	Args: cobra.NoArgs,
	RunE: runSafety,
}

func init() {
	rootCmd.AddCommand(safetyCmd)

	safetyCmd.Flags().StringVarP(&safetyFile, "file", "f", "", "Project file (.json, .yaml) [required]")
	safetyCmd.Flags().StringVarP(&safetySettings, "settings", "s", "", "Settings file replacing the project settings")
	safetyCmd.MarkFlagRequired("file")
}

func runSafety(cmd *cobra.Command, args []string) error {
	p, err := loadProject(safetyFile, safetySettings)
	if err != nil {
		return err
	}
	cfg, err := p.Settings.Resolve()
	if err != nil {
		return err
	}

	header("COLUMN SCREENING - NSCP 2015")
	printSafety(safety.Analyze(&p.Plan, cfg))
	return nil
}

func printSafety(rep *safety.Report) {
	section("COLUMNS:")
	if len(rep.Columns) == 0 {
		fmt.Println("  No columns in plan.")
		fmt.Println()
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Column\tkL/r\tSpan\tLoad\tCapacity\tStatus\n")
	fmt.Fprintf(w, "  ──────\t────\t────\t────\t────────\t──────\n")
	for _, c := range rep.Columns {
		fmt.Fprintf(w, "  %s\t%.1f\t%.2f m\t%.1f kN\t%.1f kN\t%s\n",
			c.ColumnID, c.Slenderness, c.Span, c.Load, c.Capacity, strings.ToUpper(string(c.Severity)))
	}
	w.Flush()
	fmt.Println()

	for _, c := range rep.Columns {
		for _, issue := range c.Issues {
			fmt.Printf("  %s: %s\n", c.ColumnID, issue)
		}
	}

	fmt.Printf("  Factored floor load: %.2f kPa (combination %s)\n", rep.LoadPerFloor, rep.Governing)
	fmt.Printf("  Critical: %d  Warnings: %d  Score: %d/100\n", rep.Critical, rep.Warnings, rep.Score)
	fmt.Println()
}
