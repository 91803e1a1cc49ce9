// Package preflight checks a batch can be paid for before any attempt runs.
package preflight

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"euclid-swap/pkg/chain"
	"euclid-swap/pkg/events"
	"euclid-swap/pkg/types"
)

// ErrInvalidInput is returned for non-positive amounts or counts
var ErrInvalidInput = errors.New("invalid input. Please enter positive numbers")

// InsufficientBalanceError reports both sides of a failed balance check
type InsufficientBalanceError struct {
	Required  *big.Int
	Available *big.Int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("Insufficient ETH balance. Required: %s ETH, Available: %s ETH",
		chain.FormatEther(e.Required), chain.FormatEther(e.Available))
}

// BalanceSource reports the wallet balance in wei
type BalanceSource interface {
	Balance(ctx context.Context) (*big.Int, error)
}

// Plan is what a batch will spend
type Plan struct {
	AmountIn         *big.Int // per transaction, wei
	Count            int
	GasEstimatePerTx *big.Int // wei
}

// Validate checks the plan's inputs without touching the network
func (p Plan) Validate() error {
	if p.AmountIn == nil || p.AmountIn.Sign() <= 0 || p.Count <= 0 {
		return ErrInvalidInput
	}
	if p.GasEstimatePerTx == nil || p.GasEstimatePerTx.Sign() < 0 {
		return fmt.Errorf("%w: gas estimate must not be negative", ErrInvalidInput)
	}
	return nil
}

// RequiredTotal is amountIn × count + gasEstimatePerTx × count
func (p Plan) RequiredTotal() *big.Int {
	count := big.NewInt(int64(p.Count))
	swaps := new(big.Int).Mul(p.AmountIn, count)
	gas := new(big.Int).Mul(p.GasEstimatePerTx, count)
	return swaps.Add(swaps, gas)
}

// Result is the outcome of a passed check
type Result struct {
	Required  *big.Int
	Available *big.Int
}

// Check validates the plan and compares its total against the balance.
// Only available < required is rejected; an exact match passes.
func Check(ctx context.Context, src BalanceSource, p Plan) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	available, err := src.Balance(ctx)
	if err != nil {
		return nil, err
	}

	required := p.RequiredTotal()
	if available.Cmp(required) < 0 {
		return nil, &InsufficientBalanceError{Required: required, Available: available}
	}
	return &Result{Required: required, Available: available}, nil
}

// LogSummary emits the settings a batch is about to run with
func LogSummary(log *events.Logger, mode types.Mode, p Plan, res *Result) {
	log.Warn("Summary:")
	log.Step("Swap type: %s", mode.Label())
	log.Step("Number of transactions: %d", p.Count)
	log.Step("ETH per transaction: %s ETH", chain.FormatEther(p.AmountIn))
	log.Step("Total ETH (incl. gas): %s ETH", chain.FormatEther(res.Required))
}
