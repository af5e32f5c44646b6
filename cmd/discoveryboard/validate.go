package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/discoveryboard/config"
	"github.com/jpalmerr/discoveryboard/internal/poller"
)

// validateCmd validates a config file without starting the server.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a discoveryboard configuration file without starting the server.

This command parses the YAML, expands environment variables, and validates
all fields. It's useful for CI/CD pipelines or pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  discoveryboard validate -c config.yaml
  discoveryboard validate --config /etc/discoveryboard/config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	candidatesPath := cfg.API.CandidatesPath
	if candidatesPath == "" {
		candidatesPath = poller.DefaultCandidatesPath
	}
	trialsPath := cfg.API.TrialsPath
	if trialsPath == "" {
		trialsPath = poller.DefaultTrialsPath
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config is valid!\n")
	fmt.Fprintf(out, "  Port:          %d\n", cfg.Port)
	fmt.Fprintf(out, "  Poll interval: %s\n", cfg.PollInterval.Duration())
	fmt.Fprintf(out, "  Candidates:    %s%s\n", cfg.API.BaseURL, candidatesPath)
	fmt.Fprintf(out, "  Trials:        %s%s\n", cfg.API.BaseURL, trialsPath)

	return nil
}
