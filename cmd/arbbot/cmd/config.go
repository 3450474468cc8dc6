package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/arbbot/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage arbbot configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate a configuration file and its environment overrides

Examples:
  arbbot config init -o arbbot.yaml
  arbbot config validate -c arbbot.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	RunE:  runConfigValidate,
}

var configInitOutput string

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "arbbot.yaml", "output config file path")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if err := cfg.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("✓ Created default configuration: %s\n", configInitOutput)
	fmt.Println("\nSet your team name, then run with:")
	fmt.Printf("  arbbot run -c %s\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile, envFile)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	ep, err := cfg.Exchange.Endpoint()
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Printf("✓ Configuration valid\n")
	fmt.Printf("  Team: %s\n", cfg.Exchange.Team)
	fmt.Printf("  Exchange: %s (socket timeout: %v)\n", ep.Addr(), ep.SocketTimeout)
	fmt.Printf("  Journal: %s\n", cfg.Journal.Type)
	fmt.Printf("  Log level: %s\n", cfg.Log.Level)
	return nil
}
