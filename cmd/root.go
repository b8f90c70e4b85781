package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alexiusacademia/gotakeoff/internal/config"
	"github.com/alexiusacademia/gotakeoff/internal/logger"
	"github.com/alexiusacademia/gotakeoff/internal/version"
)

var (
	logLevel  string
	logFormat string

	// Set by the root pre-run for every subcommand.
	appConfig *config.Config
	log       = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "gotakeoff",
	Short: "Geometric quantity takeoff for masonry buildings",
	Long: `gotakeoff - Go Quantity Takeoff

A CLI tool that turns a floor plan of walls, openings and columns into
a bill of materials: concrete hollow blocks, mortar, concrete, and
reinforcing steel, with a labor estimate and a structural screening.

Walls are resolved as plan geometry, so corners, tees and crossings of
any angle are counted once.

Environment:
  GOTAKEOFF_LOG_LEVEL    debug, info, warn or error (default warn)
  GOTAKEOFF_LOG_FORMAT   console or json (default console)
  GOTAKEOFF_SETTINGS     settings file used when a project has none`,
	PersistentPreRunE: setup,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		fmt.Println("  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Println("  ║                                                           ║")
		fmt.Printf("  ║   gotakeoff v%-45s║\n", version.Version)
		fmt.Println("  ║   Go Quantity Takeoff for Masonry Buildings               ║")
		fmt.Printf("  ║   %s ©  %-36s║\n", version.Author, version.Year)
		fmt.Println("  ║                                                           ║")
		fmt.Println("  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Println()
		fmt.Println("  Features:")
		fmt.Println("    • Block counts from unioned wall footprints")
		fmt.Println("    • Opening, lintel and column deductions")
		fmt.Println("    • Mortar, concrete and reinforcing steel quantities")
		fmt.Println("    • Column spacing and load screening per NSCP 2015")
		fmt.Println("    • DXF import, GeoJSON and Excel export")
		fmt.Println()
		fmt.Println("  Use 'gotakeoff --help' to see available commands.")
		fmt.Println()
		fmt.Println("  ─────────────────────────────────────────────────────────────")
		fmt.Printf("  Copyright © %s %s. All rights reserved.\n", version.Year, version.Author)
		fmt.Println()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	defer func() { _ = log.Sync() }()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format (console, json)")
}

// setup reads the environment and builds the logger. Flags win over the
// environment.
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}

	l, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	appConfig = cfg
	log = l
	return nil
}
