package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "arbbot",
	Short: "An arbitrage and market-making client for a line-protocol exchange",
	Long: `Arbbot connects to a streaming matching-engine exchange and trades a fixed
set of related instruments:

  - BOND market making around its fair value of 1000
  - VALE/VALBZ pair arbitrage with conversion rebalancing
  - XLF basket arbitrage against BOND, GS, MS and WFC

Every fill, instruction and position snapshot can be journaled to SQLite or
CSV for later inspection with "arbbot journal".`,
	SilenceUsage: true,
}

var (
	cfgFile string
	envFile string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON); defaults are used when empty")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "dotenv file with ARBBOT_* overrides (default ./.env)")
}
