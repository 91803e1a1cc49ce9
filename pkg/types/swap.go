package types

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// SwapKind selects the token a transaction trades into
type SwapKind int

const (
	EuclidTarget SwapKind = iota
	AndrTarget
)

func (k SwapKind) String() string {
	switch k {
	case EuclidTarget:
		return "EUCLID"
	case AndrTarget:
		return "ANDR"
	default:
		return fmt.Sprintf("SwapKind(%d)", int(k))
	}
}

// Description is the human label used in batch logs ("ETH to EUCLID").
func (k SwapKind) Description() string {
	return "ETH to " + k.String()
}

// Mode is one of the three menu modes a batch can run in
type Mode string

const (
	ModeEuclid Mode = "euclid"
	ModeAndr   Mode = "andr"
	ModeRandom Mode = "random"
)

// ParseMode maps a user supplied target ("EUCLID", "andr", "random") to a Mode
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeEuclid:
		return ModeEuclid, nil
	case ModeAndr:
		return ModeAndr, nil
	case ModeRandom:
		return ModeRandom, nil
	}
	return "", fmt.Errorf("unknown swap target %q (expected EUCLID, ANDR or RANDOM)", s)
}

// KindFor returns the swap kind for attempt index i. Random mode alternates
// strictly by parity, starting with EUCLID at index 0.
func (m Mode) KindFor(i int) SwapKind {
	switch m {
	case ModeAndr:
		return AndrTarget
	case ModeRandom:
		if i%2 == 0 {
			return EuclidTarget
		}
		return AndrTarget
	default:
		return EuclidTarget
	}
}

// Label returns the menu label of the mode
func (m Mode) Label() string {
	switch m {
	case ModeEuclid:
		return "ETH - EUCLID (Arbitrum)"
	case ModeAndr:
		return "ETH - ANDR (Arbitrum)"
	case ModeRandom:
		return "Random Swap (Arbitrum)"
	default:
		return string(m)
	}
}

// SwapRequest is the immutable input of one attempt
type SwapRequest struct {
	Kind        SwapKind
	AmountIn    *big.Int // wei
	Sender      common.Address
	Target      common.Address
	SlippageBps int
}

// HopAmount is one "<token>: <amount>" entry of a route breakdown
type HopAmount struct {
	Token  string
	Amount string
}

func (h HopAmount) String() string {
	return h.Token + ": " + h.Amount
}

// Quote is the resolved output of the quote endpoint
type Quote struct {
	AmountOut string
	Hops      []HopAmount
	// Fallback is set when AmountOut is the hardcoded default rather than an
	// API supplied figure.
	Fallback bool
}

// PendingTransaction holds the fields of a transaction before signing
type PendingTransaction struct {
	To                   common.Address
	Value                *big.Int
	Data                 []byte
	GasLimit             uint64
	Nonce                uint64
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
}

// TxResult is the terminal record of a broadcast attempt
type TxResult struct {
	Hash    common.Hash
	Success bool
	GasUsed uint64
}

// BatchState is the progress of a running batch
type BatchState struct {
	Total         int
	Completed     int
	TxCountSeries []int
}
