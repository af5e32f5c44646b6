// Package main is the entry point for the discoveryboard CLI.
//
// discoveryboard can be run either as a library (SDK) or as a standalone
// binary with YAML configuration. This CLI provides the standalone binary
// approach.
//
// Usage:
//
//	discoveryboard serve -c config.yaml     # Start the dashboard
//	discoveryboard snapshot -c config.yaml  # Fetch once and print the view
//	discoveryboard validate -c config.yaml  # Validate configuration
//	discoveryboard version                  # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
// It just displays help - actual functionality is in subcommands.
var rootCmd = &cobra.Command{
	Use:   "discoveryboard",
	Short: "A live dashboard for drug candidates and clinical trials",
	Long: `discoveryboard is a live dashboard for a drug-discovery research API.

It polls the molecular design and clinical trial endpoints at a fixed
interval and shows the latest drug candidates and trials in a web UI,
pushing updates to open browsers as they arrive.

Quick start:
  1. Create a config file (discoveryboard.yaml)
  2. Run: discoveryboard serve -c discoveryboard.yaml
  3. Open http://localhost:8080 in your browser

Example config:
  port: 8080
  poll_interval: 30s
  api:
    base_url: ${API_BASE_URL:-http://localhost:8000}
    timeout: 10s`,
	SilenceUsage: true,
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this discoveryboard binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "discoveryboard %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
