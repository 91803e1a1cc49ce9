package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"euclid-swap/config"
	"euclid-swap/pkg/batch"
	"euclid-swap/pkg/chain"
	"euclid-swap/pkg/client"
	"euclid-swap/pkg/events"
	"euclid-swap/pkg/parser"
	"euclid-swap/pkg/pipeline"
	"euclid-swap/pkg/preflight"
	"euclid-swap/pkg/ratelimit"
	"euclid-swap/pkg/swap"
	"euclid-swap/pkg/tracking"
)

var (
	swapCount int
	noConfirm bool
)

var swapCmd = &cobra.Command{
	Use:   "swap <amount> ETH to <EUCLID|ANDR|RANDOM>",
	Short: "Run a batch of ETH swaps",
	Long: `Swap ETH on Arbitrum Sepolia into EUCLID (delivered on Optimism) or ANDR
(delivered on Andromeda through euclid, usdc and usdt). RANDOM alternates
between the two, starting with EUCLID.

The wallet balance is checked against amount x count plus an estimated gas
cost per transaction before anything is sent. Transactions run one after the
other with a random 15 to 25 second pause between confirmed ones.

Examples:
  euclid-swap swap 0.001 ETH to EUCLID
  euclid-swap swap 0.001 ETH to ANDR --count 5
  euclid-swap swap 0.002 ETH to RANDOM -n 10 --yes`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSwap,
}

func init() {
	rootCmd.AddCommand(swapCmd)

	swapCmd.Flags().IntVarP(&swapCount, "count", "n", 1, "Number of transactions to perform")
	swapCmd.Flags().BoolVarP(&noConfirm, "yes", "y", false, "Skip confirmation prompt")
}

func runSwap(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	cfg := config.Get()

	// Parse the command
	parsed, err := parser.ParseSwapCommand(strings.Join(args, " "))
	if err != nil {
		return err
	}

	amountIn, err := chain.ParseEther(parsed.Amount)
	if err != nil {
		return err
	}
	gasPerTx, err := chain.ParseEther(cfg.GasEstimatePerTx)
	if err != nil {
		return fmt.Errorf("invalid gas_estimate_per_tx: %w", err)
	}

	plan := preflight.Plan{
		AmountIn:         amountIn,
		Count:            swapCount,
		GasEstimatePerTx: gasPerTx,
	}
	if err := plan.Validate(); err != nil {
		return err
	}

	if err := cfg.RequirePrivateKey(); err != nil {
		return err
	}

	log, closeLog, err := newEventLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ethClient, err := chain.Dial(ctx, cfg.RPCURL, cfg.PrivateKey, cfg.ChainID)
	if err != nil {
		return err
	}
	defer ethClient.Close()

	log.Info("Connected to wallet: %s", ethClient.Address().Hex())
	log.Info("Network: Arbitrum Sepolia (Chain ID: %d)", cfg.ChainID)

	checked, err := preflight.Check(ctx, ethClient, plan)
	if err != nil {
		return err
	}
	preflight.LogSummary(log, parsed.Mode, plan, checked)

	// Only --yes skips the prompt. With --json it goes to stderr so stdout
	// stays machine readable.
	promptOut := io.Writer(os.Stdout)
	if jsonOutput {
		promptOut = os.Stderr
	}
	if !confirmBatch(noConfirm, os.Stdin, promptOut) {
		log.Error("Operation cancelled by user.")
		return nil
	}

	orch, err := newOrchestrator(cfg, ethClient, log)
	if err != nil {
		return err
	}

	report, err := orch.Run(ctx, batch.Request{
		Mode:        parsed.Mode,
		AmountIn:    amountIn,
		Count:       swapCount,
		Sender:      ethClient.Address(),
		SlippageBps: cfg.SlippageBps,
	})
	if err != nil {
		log.Warn("Batch interrupted: %v", err)
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(reportJSON(report, orch), "", "  ")
		fmt.Println(string(jsonData))
		return nil
	}
	displayReport(report)
	return nil
}

// newOrchestrator wires the swap service, submission pipeline and tracker
func newOrchestrator(cfg *config.Config, ethClient chain.Client, log *events.Logger) (*batch.Orchestrator, error) {
	ratios, err := swap.ParseHopRatios(cfg.HopRatios)
	if err != nil {
		return nil, err
	}
	maxFee, err := chain.ParseGwei(cfg.MaxFeeGwei)
	if err != nil {
		return nil, fmt.Errorf("invalid max_fee_gwei: %w", err)
	}
	priorityFee, err := chain.ParseGwei(cfg.PriorityFeeGwei)
	if err != nil {
		return nil, fmt.Errorf("invalid priority_fee_gwei: %w", err)
	}

	exec := ratelimit.New(log,
		ratelimit.WithAttempts(cfg.RetryAttempts),
		ratelimit.WithBaseDelay(cfg.RetryBaseDelay),
	)
	api := client.NewEuclidClient(cfg.APIURL, cfg.TrackURL, cfg.ReferralCode)

	svc := swap.NewService(api, exec, swap.Params{
		PartnerFeeBps: cfg.PartnerFeeBps,
		HopRatios:     ratios,
		StrictQuote:   cfg.StrictQuote,
	})
	pipe := pipeline.New(ethClient, pipeline.Config{
		Router:               common.HexToAddress(cfg.RouterAddress),
		MaxFeePerGas:         maxFee,
		MaxPriorityFeePerGas: priorityFee,
		ConfirmTimeout:       cfg.ConfirmTimeout,
	}, log)

	return batch.New(svc, pipe, log,
		batch.WithTracker(tracking.NewReporter(api, exec, api.ReferralCode())),
		batch.WithDelays(cfg.MinDelay, cfg.MaxDelay),
		batch.WithExplorerURL(cfg.ExplorerURL),
	), nil
}

func reportJSON(report *batch.Report, orch *batch.Orchestrator) map[string]interface{} {
	hashes := make([]map[string]interface{}, 0, len(report.Results))
	for _, r := range report.Results {
		hashes = append(hashes, map[string]interface{}{
			"hash":     r.Hash.Hex(),
			"success":  r.Success,
			"gas_used": r.GasUsed,
			"explorer": orch.ExplorerLink(r.Hash),
		})
	}
	return map[string]interface{}{
		"batch_id":     report.BatchID,
		"succeeded":    report.Succeeded,
		"failed":       report.Failed,
		"skipped":      report.Skipped,
		"errored":      report.Errored,
		"transactions": hashes,
	}
}

func displayReport(report *batch.Report) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                    BATCH SUMMARY")
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\n  Batch ID:   %s\n", color.HiBlackString(report.BatchID))
	fmt.Printf("  Succeeded:  %s\n", color.GreenString("%d", report.Succeeded))
	fmt.Printf("  Failed:     %s\n", color.RedString("%d", report.Failed))
	fmt.Printf("  Skipped:    %s\n", color.YellowString("%d", report.Skipped))
	fmt.Printf("  Errors:     %s\n", color.RedString("%d", report.Errored))

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}

// confirmBatch asks for a y/N answer on in unless skip is set
func confirmBatch(skip bool, in io.Reader, out io.Writer) bool {
	if skip {
		return true
	}

	reader := bufio.NewReader(in)
	fmt.Fprint(out, "\nProceed with swap? (y/N): ")

	response, err := reader.ReadString('\n')
	if err != nil && response == "" {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
