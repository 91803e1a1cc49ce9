package types

// RouteSpec describes the fixed hop path and per-kind constants of a swap kind
type RouteSpec struct {
	Kind             SwapKind
	Tokens           []string
	TargetChainUID   string
	DefaultAmountOut string
	FallbackGasLimit uint64
}

// Intermediate tokens whose hop amounts are derived from the final amount
// out on the multi-hop route.
var intermediateHops = []string{"euclid", "usdc", "usdt"}

var routes = map[SwapKind]RouteSpec{
	EuclidTarget: {
		Kind:             EuclidTarget,
		Tokens:           []string{"eth", "euclid"},
		TargetChainUID:   "optimism",
		DefaultAmountOut: "11580659",
		FallbackGasLimit: 812028,
	},
	AndrTarget: {
		Kind:             AndrTarget,
		Tokens:           []string{"eth", "euclid", "usdc", "usdt", "andr"},
		TargetChainUID:   "andromeda",
		DefaultAmountOut: "1471120",
		FallbackGasLimit: 1500000,
	},
}

// Route returns the route spec of a swap kind
func Route(kind SwapKind) RouteSpec {
	r := routes[kind]
	tokens := make([]string, len(r.Tokens))
	copy(tokens, r.Tokens)
	r.Tokens = tokens
	return r
}

// Routes returns all route specs ordered by kind
func Routes() []RouteSpec {
	return []RouteSpec{Route(EuclidTarget), Route(AndrTarget)}
}

// FinalToken is the token the route ends in
func (r RouteSpec) FinalToken() string {
	return r.Tokens[len(r.Tokens)-1]
}

// MultiHop reports whether the route passes through intermediate tokens
// whose amounts must be derived from ratios.
func (r RouteSpec) MultiHop() bool {
	return len(r.Tokens) > 2
}

// IntermediateHops lists the tokens whose hop amounts come from ratios
func IntermediateHops() []string {
	out := make([]string, len(intermediateHops))
	copy(out, intermediateHops)
	return out
}
