package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"euclid-swap/pkg/types"
)

// SourceToken is the only token batches spend
const SourceToken = "ETH"

var commandPattern = regexp.MustCompile(`^(\d+\.?\d*)\s+([A-Z0-9]+)\s+TO\s+([A-Z0-9]+)$`)

// SwapCommand is a parsed "<amount> ETH to <target>" command
type SwapCommand struct {
	Amount string
	Mode   types.Mode
}

// ParseSwapCommand parses a swap command
// Examples:
//   - "swap 0.001 ETH to EUCLID"
//   - "0.01 eth to andr"
//   - "0.005 ETH to RANDOM"
func ParseSwapCommand(command string) (*SwapCommand, error) {
	// Normalize the command
	command = strings.TrimSpace(strings.ToUpper(command))
	command = strings.Join(strings.Fields(command), " ")

	// Remove the word "SWAP" if present at the beginning
	command = strings.TrimPrefix(command, "SWAP ")

	matches := commandPattern.FindStringSubmatch(command)
	if matches == nil {
		return nil, errors.New("invalid swap command format. Expected: 'swap <amount> ETH to <EUCLID|ANDR|RANDOM>' (e.g., 'swap 0.001 ETH to EUCLID')")
	}

	if source := NormalizeTokenSymbol(matches[2]); source != SourceToken {
		return nil, fmt.Errorf("unsupported source token %s: only %s can be swapped", matches[2], SourceToken)
	}

	mode, err := types.ParseMode(matches[3])
	if err != nil {
		return nil, err
	}

	return &SwapCommand{
		Amount: matches[1],
		Mode:   mode,
	}, nil
}

// NormalizeTokenSymbol normalizes token symbols to standard format
func NormalizeTokenSymbol(symbol string) string {
	symbol = strings.TrimSpace(strings.ToUpper(symbol))

	// Wrapped ether is spent the same way
	if symbol == "WETH" {
		return SourceToken
	}
	return symbol
}
