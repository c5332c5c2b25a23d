package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/emissionmission/internal/config"
)

// newConfigInitCmd creates the config init command for initializing configuration.
func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates $EMISSIONMISSION_HOME/config.yaml (default ~/.emissionmission/config.yaml)
with default values.`,
		Example: `  # Create configuration
  emissionmission config init

  # Create configuration, overwriting existing
  emissionmission config init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")

	return cmd
}

func runConfigInit(cmd *cobra.Command, force bool) error {
	cfg := config.Default()
	cfg.SetConfigPath(config.DefaultConfigPath())

	// Check if config already exists and force isn't set
	if !force {
		if _, err := os.Stat(cfg.ConfigPath()); err == nil {
			return errors.New("configuration file already exists, use --force to overwrite")
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("cannot access config path %s: %w", cfg.ConfigPath(), err)
		}
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	cmd.Printf("Configuration initialized successfully\n")
	cmd.Printf("Configuration file: %s\n", cfg.ConfigPath())

	return nil
}

// newConfigShowCmd prints the effective configuration as YAML.
func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Prints the configuration after defaults, the config file and environment
variables have been applied. The API key is never printed.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := yaml.Marshal(config.New())
			if err != nil {
				return fmt.Errorf("marshalling config: %w", err)
			}
			cmd.Print(string(data))
			return nil
		},
	}
}

// newConfigValidateCmd creates the config validate command for validating configuration.
func newConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the effective configuration for syntax and semantic correctness:
the config file version, output and logging settings, the server address and
timeouts, the session lifetime, the assistant provider and the report name.`,
		Example: `  # Validate current configuration
  emissionmission config validate

  # Validate and show detailed information
  emissionmission config validate --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	path := config.DefaultConfigPath()
	if _, statErr := os.Stat(path); statErr == nil {
		if _, err := config.Load(path); err != nil {
			return fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	cmd.Printf("✅ Configuration is valid\n")

	if verbose {
		printVerboseDetails(cmd, cfg)
	}

	return nil
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Config file: %s\n", cfg.ConfigPath())
	cmd.Printf("  Output format: %s\n", cfg.Output.DefaultFormat)
	cmd.Printf("  Output precision: %d\n", cfg.Output.Precision)
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	cmd.Printf("  Log file: %s\n", cfg.Logging.File)
	cmd.Printf("  Server address: %s\n", cfg.Server.Addr)
	cmd.Printf("  Session TTL: %ds\n", cfg.Session.TTLSeconds)
	cmd.Printf("  Assistant: %s (%s)\n", cfg.Assistant.Provider, cfg.Assistant.Model)
	cmd.Printf("  Report file: %s\n", cfg.Report.FileName)
}
