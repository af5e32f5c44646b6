package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/discoveryboard"
	"github.com/jpalmerr/discoveryboard/config"
	"github.com/jpalmerr/discoveryboard/internal/view"
)

// snapshotCmd runs a single refresh cycle and prints the result.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Fetch the research API once and print the dashboard",
	Long: `Fetch drug candidates and clinical trials once and print what the
dashboard would show, without starting the server.

Per-resource failures are reported in the output rather than as a
non-zero exit, matching what the web dashboard displays.

Example:
  discoveryboard snapshot -c config.yaml
  discoveryboard snapshot -c config.yaml --format json`,
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	snapshotCmd.Flags().StringP("format", "f", "text", "output format: text or json")
	_ = snapshotCmd.MarkFlagRequired("config")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "text" && format != "json" {
		return fmt.Errorf("unknown format %q (want text or json)", format)
	}

	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// only warnings on stderr so stdout stays clean for piping
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	opts := append(config.BuildOptions(cfg), discoveryboard.WithLogger(logger))
	db, err := discoveryboard.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create dashboard: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	state, err := db.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("snapshot failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(state)
	}
	return view.RenderText(out, view.Build(db.Title(), state))
}
