package chain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/params"
	"github.com/shopspring/decimal"
)

const etherDecimals = 18

var (
	weiPerEther = decimal.NewFromInt(params.Ether)
	weiPerGwei  = decimal.NewFromInt(params.GWei)
)

// ParseEther converts a decimal ETH amount ("0.001") into wei
func ParseEther(amount string) (*big.Int, error) {
	return parseUnits(amount, weiPerEther)
}

// ParseGwei converts a decimal gwei amount ("0.1") into wei
func ParseGwei(amount string) (*big.Int, error) {
	return parseUnits(amount, weiPerGwei)
}

// FormatEther renders wei as a decimal ETH amount without trailing zeros
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -etherDecimals).String()
}

func parseUnits(amount string, unit decimal.Decimal) (*big.Int, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount format: %s", amount)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("amount must not be negative: %s", amount)
	}

	scaled := d.Mul(unit)
	if !scaled.IsInteger() {
		return nil, fmt.Errorf("amount %s is finer than one wei", amount)
	}
	return scaled.BigInt(), nil
}
