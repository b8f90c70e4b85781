package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alexiusacademia/gotakeoff/internal/dxfimport"
	"github.com/alexiusacademia/gotakeoff/internal/project"
)

var (
	importOutput    string
	importThickness float64
	importHeight    float64
	importScale     float64
	importLayers    []string
)

var importCmd = &cobra.Command{
	Use:   "import <drawing.dxf>",
	Short: "Create a project from the line work of a DXF drawing",
	Long: `Read LINE and LWPOLYLINE entities from a DXF drawing and write a
project file with one wall per straight segment.

Walls get the given thickness; add openings, columns and settings to the
written project before estimating.

Examples:
  # Drawing in metres, walls on layer A-WALL
  gotakeoff import plan.dxf --scale 1000 --layer A-WALL -o house.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVarP(&importOutput, "output", "o", "", "Project file to write (.json, .yaml) [required]")
	importCmd.Flags().Float64VarP(&importThickness, "thickness", "t", 150, "Wall thickness (mm)")
	importCmd.Flags().Float64Var(&importHeight, "height", 0, "Wall height (mm); 0 uses the settings default")
	importCmd.Flags().Float64Var(&importScale, "scale", 1, "Drawing units to mm")
	importCmd.Flags().StringSliceVarP(&importLayers, "layer", "l", nil, "Only import these layers")
	importCmd.MarkFlagRequired("output")
}

func runImport(cmd *cobra.Command, args []string) error {
	pl, err := dxfimport.Import(args[0], dxfimport.Options{
		Thickness: importThickness,
		Height:    importHeight,
		Scale:     importScale,
		Layers:    importLayers,
	})
	if err != nil {
		return err
	}

	name := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	p := &project.Project{Name: name, Plan: *pl}
	if err := project.SaveToFile(importOutput, p); err != nil {
		return err
	}

	log.Info("drawing imported", zap.String("source", args[0]), zap.Int("walls", len(pl.Walls)))
	fmt.Printf("Imported %d walls from %s to: %s\n", len(pl.Walls), args[0], importOutput)
	return nil
}
