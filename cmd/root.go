package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"euclid-swap/config"
	"euclid-swap/pkg/events"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "euclid-swap",
	Short: "A CLI for batched testnet swaps on the Euclid protocol",
	Long: `euclid-swap runs batches of ETH swaps on Arbitrum Sepolia through the
Euclid protocol API. Each transaction is quoted, built, simulated and only
then broadcast, and every confirmed swap is reported to the Euclid tracker.

Examples:
  euclid-swap swap 0.001 ETH to EUCLID
  euclid-swap swap 0.001 ETH to RANDOM --count 10
  euclid-swap routes
  euclid-swap balance
  euclid-swap status <tx-hash>`,
	Version: "0.1.0",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		config.Set(cfg)
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default is $HOME/.euclid-swap.yaml)")
}

// newEventLogger wires the console, file and debug sinks for a command.
// The returned func flushes and stops them.
func newEventLogger(cmd *cobra.Command, cfg *config.Config) (*events.Logger, func(), error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	var sinks []events.Sink
	var closers []func()

	if !jsonOutput {
		console := events.NewConsole(os.Stdout, !color.NoColor)
		sinks = append(sinks, console)
		closers = append(closers, console.Close)
	}

	if cfg.LogFile != "" {
		z, err := events.NewZapFile(cfg.LogFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		sinks = append(sinks, z)
		closers = append(closers, func() { _ = z.Sync() })
	}

	if verbose {
		z, err := events.NewZapDevelopment()
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, z)
		closers = append(closers, func() { _ = z.Sync() })
	}

	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}
	return events.New(sinks...), closeAll, nil
}

func printError(err error) {
	fmt.Printf("\nError: %v\n\n", err)
}
