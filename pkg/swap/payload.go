package swap

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"euclid-swap/pkg/client"
	"euclid-swap/pkg/types"
)

const (
	sourceChainUID = "arbitrum"
	routerChainUID = "vsl"
	dexName        = "euclid"
)

// DefaultHopRatios are the empirical amount-out multipliers of the
// intermediate hops on the ANDR route. They track the testnet pools and are
// not derived from any pricing formula.
var DefaultHopRatios = map[string]string{
	"euclid": "9.934",
	"usdc":   "139.36",
	"usdt":   "271.87",
}

// Params are the per-batch constants that shape swap payloads
type Params struct {
	PartnerFeeBps int
	HopRatios     map[string]decimal.Decimal
	// StrictQuote fails an attempt instead of falling back to the
	// hardcoded amount out when the quote carries no route meta.
	StrictQuote bool
}

// ParseHopRatios parses ratio strings and checks every intermediate hop is covered
func ParseHopRatios(raw map[string]string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(raw))
	for _, token := range types.IntermediateHops() {
		s, ok := raw[token]
		if !ok {
			return nil, fmt.Errorf("hop ratio for %s is not configured", token)
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("invalid hop ratio for %s: %w", token, err)
		}
		if !d.IsPositive() {
			return nil, fmt.Errorf("hop ratio for %s must be positive", token)
		}
		out[token] = d
	}
	return out, nil
}

// HopAmounts computes the per-hop breakdown of amountOut along route.
// Intermediate hops are floor(amountOut × ratio); the final token carries
// amountOut itself.
func HopAmounts(route types.RouteSpec, amountOut string, ratios map[string]decimal.Decimal) ([]types.HopAmount, error) {
	out, err := decimal.NewFromString(amountOut)
	if err != nil || !out.Equal(out.Truncate(0)) {
		return nil, fmt.Errorf("%w: %q is not an integer", ErrInvalidAmountOut, amountOut)
	}

	if !route.MultiHop() {
		return []types.HopAmount{{Token: route.FinalToken(), Amount: amountOut}}, nil
	}

	hops := make([]types.HopAmount, 0, len(route.Tokens)-1)
	for _, token := range types.IntermediateHops() {
		ratio, ok := ratios[token]
		if !ok {
			return nil, fmt.Errorf("hop ratio for %s is not configured", token)
		}
		hops = append(hops, types.HopAmount{
			Token:  token,
			Amount: out.Mul(ratio).Floor().String(),
		})
	}
	hops = append(hops, types.HopAmount{Token: route.FinalToken(), Amount: amountOut})
	return hops, nil
}

// QuotePayload builds the quote request: the limit is the per-kind default
// and every hop carries a placeholder zero.
func QuotePayload(req *types.SwapRequest, p Params) *client.SwapPayload {
	route := types.Route(req.Kind)

	hops := make([]string, len(route.Tokens))
	for i, token := range route.Tokens {
		hops[i] = types.HopAmount{Token: token, Amount: "0"}.String()
	}

	return newPayload(req, route, p, route.DefaultAmountOut, "0", hops)
}

// BuildPayload builds the calldata request for a resolved quote. It is a
// pure function of its inputs.
func BuildPayload(req *types.SwapRequest, quote *types.Quote, p Params) *client.SwapPayload {
	route := types.Route(req.Kind)

	hops := make([]string, len(quote.Hops))
	for i, h := range quote.Hops {
		hops[i] = h.String()
	}

	return newPayload(req, route, p, quote.AmountOut, quote.AmountOut, hops)
}

func newPayload(req *types.SwapRequest, route types.RouteSpec, p Params, limit, amountOut string, hops []string) *client.SwapPayload {
	amountIn := req.AmountIn.String()
	sender := req.Sender.Hex()

	return &client.SwapPayload{
		AmountIn: amountIn,
		AssetIn:  client.NativeETH(),
		Slippage: strconv.Itoa(req.SlippageBps),
		CrossChainAddresses: []client.CrossChainAddress{{
			User: client.ChainAddress{
				Address:  req.Target.Hex(),
				ChainUID: route.TargetChainUID,
			},
			Limit: client.Limit{LessThanOrEqual: limit},
		}},
		PartnerFee: client.PartnerFee{
			PartnerFeeBps: p.PartnerFeeBps,
			Recipient:     sender,
		},
		Sender: client.ChainAddress{
			Address:  sender,
			ChainUID: sourceChainUID,
		},
		SwapPath: client.SwapPath{
			Path: []client.PathEntry{{
				Route:            route.Tokens,
				Dex:              dexName,
				AmountIn:         amountIn,
				AmountOut:        amountOut,
				ChainUID:         routerChainUID,
				AmountOutForHops: hops,
			}},
			TotalPriceImpact: "0.00",
		},
	}
}
