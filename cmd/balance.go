package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"euclid-swap/config"
	"euclid-swap/pkg/chain"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the wallet address and ETH balance",
	Long: `Show the address derived from PRIVATE_KEY and its ETH balance on
Arbitrum Sepolia.

Examples:
  euclid-swap balance
  euclid-swap balance --json`,
	Args: cobra.NoArgs,
	Run:  runBalance,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func runBalance(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	cfg := config.Get()

	if err := cfg.RequirePrivateKey(); err != nil {
		printError(err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Fetching balance..."
		s.Start()
	}

	ethClient, err := chain.Dial(ctx, cfg.RPCURL, cfg.PrivateKey, cfg.ChainID)
	if err != nil {
		if !jsonOutput {
			s.Stop()
		}
		printError(err)
		os.Exit(1)
	}
	defer ethClient.Close()

	balance, err := ethClient.Balance(ctx)
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		output := map[string]interface{}{
			"address":  ethClient.Address().Hex(),
			"chain_id": cfg.ChainID,
			"balance":  chain.FormatEther(balance),
			"wei":      balance.String(),
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	fmt.Printf("\n  Wallet:   %s\n", color.CyanString(ethClient.Address().Hex()))
	fmt.Printf("  Network:  Arbitrum Sepolia (Chain ID: %d)\n", cfg.ChainID)
	fmt.Printf("  Balance:  %s ETH\n\n", color.YellowString(chain.FormatEther(balance)))
}
