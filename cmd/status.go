package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"euclid-swap/config"
	"euclid-swap/pkg/chain"
)

var (
	watchStatus   bool
	watchInterval int
)

var statusCmd = &cobra.Command{
	Use:   "status <tx-hash>",
	Short: "Check the status of a swap transaction",
	Long: `Check whether a submitted swap transaction was mined and whether it succeeded.

Examples:
  euclid-swap status 0x1234...abcd
  euclid-swap status 0x1234...abcd --watch
  euclid-swap status 0x1234...abcd --watch --interval 10`,
	Args: cobra.ExactArgs(1),
	Run:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVarP(&watchStatus, "watch", "w", false, "Poll until the transaction is mined")
	statusCmd.Flags().IntVar(&watchInterval, "interval", 5, "Polling interval in seconds (when watching)")
}

type statusOutput struct {
	Hash     string `json:"hash"`
	Status   string `json:"status"`
	Block    uint64 `json:"block,omitempty"`
	GasUsed  uint64 `json:"gas_used,omitempty"`
	Explorer string `json:"explorer"`
}

func parseTxHash(s string) (common.Hash, error) {
	raw, err := hexutil.Decode(strings.TrimSpace(s))
	if err != nil || len(raw) != common.HashLength {
		return common.Hash{}, fmt.Errorf("invalid transaction hash %q", s)
	}
	return common.BytesToHash(raw), nil
}

func runStatus(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	cfg := config.Get()

	hash, err := parseTxHash(args[0])
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ethClient, err := chain.DialReadOnly(ctx, cfg.RPCURL, cfg.ChainID)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer ethClient.Close()

	if watchStatus {
		watchTxStatus(ctx, ethClient, cfg, hash, jsonOutput)
		return
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Checking transaction status..."
		s.Start()
	}

	out, err := lookupStatus(ctx, ethClient, cfg, hash)
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	printStatus(out, jsonOutput)
}

func watchTxStatus(ctx context.Context, ethClient *chain.EthClient, cfg *config.Config, hash common.Hash, jsonOutput bool) {
	if !jsonOutput {
		fmt.Printf("\nWatching transaction %s\n", color.CyanString(hash.Hex()))
		fmt.Printf("Checking every %d seconds. Press Ctrl+C to stop.\n\n", watchInterval)
	}

	ticker := time.NewTicker(time.Duration(watchInterval) * time.Second)
	defer ticker.Stop()

	for {
		out, err := lookupStatus(ctx, ethClient, cfg, hash)
		if err != nil {
			color.Red("Error: %v", err)
		} else if out.Status != "PENDING" {
			printStatus(out, jsonOutput)
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func lookupStatus(ctx context.Context, ethClient *chain.EthClient, cfg *config.Config, hash common.Hash) (*statusOutput, error) {
	out := &statusOutput{
		Hash:     hash.Hex(),
		Status:   "PENDING",
		Explorer: strings.TrimRight(cfg.ExplorerURL, "/") + "/tx/" + hash.Hex(),
	}

	receipt, err := ethClient.Receipt(ctx, hash)
	if errors.Is(err, ethereum.NotFound) {
		return out, nil
	}
	if err != nil {
		return nil, err
	}

	out.Status = "FAILED"
	if receipt.Status == gethtypes.ReceiptStatusSuccessful {
		out.Status = "SUCCESS"
	}
	if receipt.BlockNumber != nil {
		out.Block = receipt.BlockNumber.Uint64()
	}
	out.GasUsed = receipt.GasUsed
	return out, nil
}

func printStatus(out *statusOutput, jsonOutput bool) {
	if jsonOutput {
		jsonData, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                     TRANSACTION STATUS")
	fmt.Println(strings.Repeat("=", 70))

	fmt.Printf("\n  Hash:      %s\n", color.CyanString(out.Hash))
	fmt.Printf("  Status:    %s\n", getColoredStatus(out.Status))
	if out.Block > 0 {
		fmt.Printf("  Block:     %d\n", out.Block)
		fmt.Printf("  Gas Used:  %d\n", out.GasUsed)
	}
	fmt.Printf("  Explorer:  %s\n", color.HiBlackString(out.Explorer))

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}

func getColoredStatus(status string) string {
	switch status {
	case "SUCCESS":
		return color.GreenString(status)
	case "PENDING":
		return color.YellowString(status)
	case "FAILED":
		return color.RedString(status)
	default:
		return status
	}
}
