// Package pipeline takes built calldata through gas estimation, simulation,
// broadcast and confirmation.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"

	"euclid-swap/pkg/chain"
	"euclid-swap/pkg/events"
	"euclid-swap/pkg/types"
)

// GasHeadroomPercent is applied to a successful gas estimate
const GasHeadroomPercent = 110

var (
	// ErrSimulationFailed means the read-only call reverted; nothing was broadcast
	ErrSimulationFailed = errors.New("transaction simulation failed")
	// ErrConfirmTimeout means no receipt arrived within the confirmation timeout
	ErrConfirmTimeout = errors.New("timed out waiting for confirmation")
)

// Config holds the fixed transaction parameters
type Config struct {
	Router               common.Address
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
	ConfirmTimeout       time.Duration
}

// Pipeline submits swap transactions for a single wallet
type Pipeline struct {
	client chain.Client
	cfg    Config
	log    *events.Logger
}

// New creates a submission pipeline
func New(client chain.Client, cfg Config, log *events.Logger) *Pipeline {
	return &Pipeline{
		client: client,
		cfg:    cfg,
		log:    log,
	}
}

// Build assembles the pending transaction with the route's fallback gas limit
func (p *Pipeline) Build(ctx context.Context, req *types.SwapRequest, calldata []byte) (*types.PendingTransaction, error) {
	nonce, err := p.client.PendingNonce(ctx)
	if err != nil {
		return nil, err
	}

	return &types.PendingTransaction{
		To:                   p.cfg.Router,
		Value:                new(big.Int).Set(req.AmountIn),
		Data:                 calldata,
		GasLimit:             types.Route(req.Kind).FallbackGasLimit,
		Nonce:                nonce,
		MaxFeePerGas:         p.cfg.MaxFeePerGas,
		MaxPriorityFeePerGas: p.cfg.MaxPriorityFeePerGas,
	}, nil
}

// Submit runs one transaction from build to receipt. A simulation failure
// returns ErrSimulationFailed and a nil result. A mined but reverted
// transaction is not an error: it returns a result with Success unset.
func (p *Pipeline) Submit(ctx context.Context, req *types.SwapRequest, calldata []byte) (*types.TxResult, error) {
	tx, err := p.Build(ctx, req, calldata)
	if err != nil {
		return nil, err
	}

	p.estimateGas(ctx, tx)

	if err := p.simulate(ctx, tx); err != nil {
		return nil, err
	}

	sent, err := p.client.SendTransaction(ctx, tx)
	if err != nil {
		return nil, err
	}
	p.log.Info("Transaction sent! Hash: %s", sent.Hash().Hex())

	return p.confirm(ctx, sent)
}

func (p *Pipeline) estimateGas(ctx context.Context, tx *types.PendingTransaction) {
	estimate, err := p.client.EstimateGas(ctx, tx)
	if err != nil {
		p.log.Warn("Gas estimation failed: %v. Using manual gas limit: %d", err, tx.GasLimit)
		return
	}
	p.log.Info("Estimated gas: %d", estimate)
	tx.GasLimit = estimate * GasHeadroomPercent / 100
}

func (p *Pipeline) simulate(ctx context.Context, tx *types.PendingTransaction) error {
	if _, err := p.client.Call(ctx, tx); err != nil {
		reason := chain.RevertReason(err)
		if reason == "" {
			reason = err.Error()
		}
		return fmt.Errorf("%w: %s", ErrSimulationFailed, reason)
	}
	return nil
}

func (p *Pipeline) confirm(ctx context.Context, sent *gethtypes.Transaction) (*types.TxResult, error) {
	if p.cfg.ConfirmTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.ConfirmTimeout)
		defer cancel()
	}

	p.log.Loading("Waiting for confirmation...")
	receipt, err := p.client.WaitForReceipt(ctx, sent)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", ErrConfirmTimeout, sent.Hash().Hex())
		}
		return nil, err
	}

	result := &types.TxResult{
		Hash:    sent.Hash(),
		Success: receipt.Status == gethtypes.ReceiptStatusSuccessful,
		GasUsed: receipt.GasUsed,
	}
	if result.Success {
		p.log.Success("Transaction successful! Gas used: %d", receipt.GasUsed)
	} else {
		p.log.Error("Transaction failed!")
	}
	return result, nil
}
