package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gotakeoff/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of gotakeoff",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gotakeoff v%s\n", version.Version)
		fmt.Println("Geometric Quantity Takeoff Tool")
		fmt.Printf("Build: %s (%s)\n", version.BuildTime, version.GitCommit)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
