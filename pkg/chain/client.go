// Package chain is the single chain-client abstraction used by the swap
// pipeline, backed by go-ethereum.
package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"

	"euclid-swap/pkg/types"
)

// Client is everything the pipeline needs from the network
type Client interface {
	Address() common.Address
	Balance(ctx context.Context) (*big.Int, error)
	PendingNonce(ctx context.Context) (uint64, error)
	EstimateGas(ctx context.Context, tx *types.PendingTransaction) (uint64, error)
	Call(ctx context.Context, tx *types.PendingTransaction) ([]byte, error)
	SendTransaction(ctx context.Context, tx *types.PendingTransaction) (*gethtypes.Transaction, error)
	WaitForReceipt(ctx context.Context, tx *gethtypes.Transaction) (*gethtypes.Receipt, error)
	ParseAmount(amount string) (*big.Int, error)
	FormatAmount(wei *big.Int) string
}
