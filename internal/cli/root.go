package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/emissionmission/internal/config"
	"github.com/rshade/emissionmission/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the emissionmission CLI.
// It loads .env files, wires up logging, tracing and audit logging, and
// registers every subcommand.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	// .env must be loaded before flag defaults read the global config.
	config.LoadDotEnv()

	cmd := &cobra.Command{
		Use:     "emissionmission",
		Short:   "Household utility emissions estimator",
		Long:    "EmissionMission: estimate monthly CO2 from electricity, gas, water and internet usage",
		Version: ver,
		Example: rootCmdExample,
		// main prints the error and picks the exit status.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.AddCommand(
		newCalculateCmd(),
		newCompareCmd(),
		newSavingsCmd(),
		newStatesCmd(),
		newMapCmd(),
		newReportCmd(),
		newChatCmd(),
		newServeCmd(),
		newConfigCmd(),
	)

	return cmd
}

const rootCmdExample = `  # Estimate monthly emissions
  emissionmission calculate --electricity 900 --gas 40 --water 3000 --internet 150

  # Compare against your state and the national average
  emissionmission calculate --electricity 900 --gas 40 --state texas

  # Edit usage interactively
  emissionmission calculate --interactive

  # Project savings from a 20% electricity reduction
  emissionmission savings --electricity 900 --electricity-reduction 20

  # Export a PDF summary
  emissionmission report --electricity 900 --gas 40 --out emission_report.pdf

  # Run the web form and JSON API
  emissionmission serve --addr 127.0.0.1:8080

  # Initialize configuration
  emissionmission config init`

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(newConfigInitCmd(), newConfigShowCmd(), newConfigValidateCmd())
	return cmd
}
