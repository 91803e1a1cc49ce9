package swap_test

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"euclid-swap/pkg/client"
	"euclid-swap/pkg/events"
	"euclid-swap/pkg/ratelimit"
	"euclid-swap/pkg/swap"
	"euclid-swap/pkg/types"
)

var wallet = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")

type fakeAPI struct {
	payloads []*client.SwapPayload
	replies  []*client.SwapReply
	errs     []error
}

func (f *fakeAPI) Swap(_ context.Context, payload *client.SwapPayload) (*client.SwapReply, error) {
	i := len(f.payloads)
	f.payloads = append(f.payloads, payload)
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if err != nil {
		return nil, err
	}
	return f.replies[i], nil
}

func metaFor(amountOut string) *string {
	m := `{"swaps":{"path":[{"amount_out":"` + amountOut + `"}]}}`
	return &m
}

func replyFromJSON(t *testing.T, body string) *client.SwapReply {
	t.Helper()

	reply := &client.SwapReply{}
	require.NoError(t, json.Unmarshal([]byte(body), &reply.Body))
	return reply
}

func noSleep(context.Context, time.Duration) error { return nil }

func newService(t *testing.T, api swap.API, strict bool) *swap.Service {
	t.Helper()

	ratios, err := swap.ParseHopRatios(swap.DefaultHopRatios)
	require.NoError(t, err)

	exec := ratelimit.New(events.Nop(), ratelimit.WithSleeper(noSleep))
	return swap.NewService(api, exec, swap.Params{
		PartnerFeeBps: 10,
		HopRatios:     ratios,
		StrictQuote:   strict,
	})
}

func request(kind types.SwapKind) *types.SwapRequest {
	return &types.SwapRequest{
		Kind:        kind,
		AmountIn:    big.NewInt(1_000_000_000_000_000),
		Sender:      wallet,
		Target:      wallet,
		SlippageBps: 500,
	}
}

func TestRouteTable(t *testing.T) {
	t.Parallel()

	euclid := types.Route(types.EuclidTarget)
	assert.Equal(t, []string{"eth", "euclid"}, euclid.Tokens)
	assert.False(t, euclid.MultiHop())

	andr := types.Route(types.AndrTarget)
	assert.Equal(t, []string{"eth", "euclid", "usdc", "usdt", "andr"}, andr.Tokens)
	assert.True(t, andr.MultiHop())

	ratios, err := swap.ParseHopRatios(swap.DefaultHopRatios)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("9.934").Equal(ratios["euclid"]))
	assert.True(t, decimal.RequireFromString("139.36").Equal(ratios["usdc"]))
	assert.True(t, decimal.RequireFromString("271.87").Equal(ratios["usdt"]))
}

func TestParseHopRatios_Errors(t *testing.T) {
	t.Parallel()

	_, err := swap.ParseHopRatios(map[string]string{"euclid": "1", "usdc": "2"})
	require.Error(t, err)

	_, err = swap.ParseHopRatios(map[string]string{"euclid": "1", "usdc": "2", "usdt": "-3"})
	require.Error(t, err)
}

func TestHopAmounts(t *testing.T) {
	t.Parallel()

	ratios, err := swap.ParseHopRatios(swap.DefaultHopRatios)
	require.NoError(t, err)

	hops, err := swap.HopAmounts(types.Route(types.AndrTarget), "1471120", ratios)
	require.NoError(t, err)
	assert.Equal(t, []types.HopAmount{
		{Token: "euclid", Amount: "14614106"},
		{Token: "usdc", Amount: "205015283"},
		{Token: "usdt", Amount: "399953394"},
		{Token: "andr", Amount: "1471120"},
	}, hops)

	hops, err = swap.HopAmounts(types.Route(types.EuclidTarget), "11580659", ratios)
	require.NoError(t, err)
	assert.Equal(t, []types.HopAmount{{Token: "euclid", Amount: "11580659"}}, hops)

	_, err = swap.HopAmounts(types.Route(types.AndrTarget), "1.5", ratios)
	require.ErrorIs(t, err, swap.ErrInvalidAmountOut)
}

func TestQuotePayload(t *testing.T) {
	t.Parallel()

	p := swap.QuotePayload(request(types.AndrTarget), swap.Params{PartnerFeeBps: 10})

	assert.Equal(t, "1000000000000000", p.AmountIn)
	assert.Equal(t, "500", p.Slippage)
	assert.Equal(t, "NativeTokenType", p.AssetIn.TokenType.Typename)
	require.Len(t, p.CrossChainAddresses, 1)
	assert.Equal(t, "andromeda", p.CrossChainAddresses[0].User.ChainUID)
	assert.Equal(t, "1471120", p.CrossChainAddresses[0].Limit.LessThanOrEqual)
	assert.Equal(t, 10, p.PartnerFee.PartnerFeeBps)
	assert.Equal(t, wallet.Hex(), p.PartnerFee.Recipient)
	assert.Equal(t, "arbitrum", p.Sender.ChainUID)

	require.Len(t, p.SwapPath.Path, 1)
	path := p.SwapPath.Path[0]
	assert.Equal(t, "0", path.AmountOut)
	assert.Equal(t, "vsl", path.ChainUID)
	assert.Equal(t, []string{"eth: 0", "euclid: 0", "usdc: 0", "usdt: 0", "andr: 0"}, path.AmountOutForHops)
	assert.Equal(t, "0.00", p.SwapPath.TotalPriceImpact)
}

func TestBuildPayload_Deterministic(t *testing.T) {
	t.Parallel()

	ratios, err := swap.ParseHopRatios(swap.DefaultHopRatios)
	require.NoError(t, err)
	params := swap.Params{PartnerFeeBps: 10, HopRatios: ratios}

	hops, err := swap.HopAmounts(types.Route(types.AndrTarget), "1471120", ratios)
	require.NoError(t, err)
	quote := &types.Quote{AmountOut: "1471120", Hops: hops}

	first, err := json.Marshal(swap.BuildPayload(request(types.AndrTarget), quote, params))
	require.NoError(t, err)
	second, err := json.Marshal(swap.BuildPayload(request(types.AndrTarget), quote, params))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	p := swap.BuildPayload(request(types.AndrTarget), quote, params)
	assert.Equal(t, "1471120", p.CrossChainAddresses[0].Limit.LessThanOrEqual)
	assert.Equal(t, "1471120", p.SwapPath.Path[0].AmountOut)
	assert.Equal(t, []string{"euclid: 14614106", "usdc: 205015283", "usdt: 399953394", "andr: 1471120"},
		p.SwapPath.Path[0].AmountOutForHops)
}

func TestResolveQuote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		kind         types.SwapKind
		strict       bool
		reply        *client.SwapReply
		want         string
		wantFallback bool
		wantErr      error
	}{
		{
			name:  "meta present",
			kind:  types.EuclidTarget,
			reply: &client.SwapReply{Body: client.SwapResponse{Meta: metaFor("11000000")}},
			want:  "11000000",
		},
		{
			name:         "euclid fallback",
			kind:         types.EuclidTarget,
			reply:        &client.SwapReply{},
			want:         "11580659",
			wantFallback: true,
		},
		{
			name:         "andr fallback",
			kind:         types.AndrTarget,
			reply:        &client.SwapReply{},
			want:         "1471120",
			wantFallback: true,
		},
		{
			name:         "empty meta falls back",
			kind:         types.EuclidTarget,
			reply:        replyFromJSON(t, `{"meta":""}`),
			want:         "11580659",
			wantFallback: true,
		},
		{
			name:    "strict with empty meta",
			kind:    types.AndrTarget,
			strict:  true,
			reply:   replyFromJSON(t, `{"meta":""}`),
			wantErr: swap.ErrNoQuoteMeta,
		},
		{
			name:  "numeric amount_out",
			kind:  types.AndrTarget,
			reply: replyFromJSON(t, `{"meta":"{\"swaps\":{\"path\":[{\"amount_out\":1471120}]}}"}`),
			want:  "1471120",
		},
		{
			name:    "malformed meta is skipped",
			kind:    types.EuclidTarget,
			reply:   replyFromJSON(t, `{"meta":"{not json"}`),
			wantErr: swap.ErrInvalidAmountOut,
		},
		{
			name:    "strict without meta",
			kind:    types.EuclidTarget,
			strict:  true,
			reply:   &client.SwapReply{},
			wantErr: swap.ErrNoQuoteMeta,
		},
		{
			name:    "zero amount",
			kind:    types.AndrTarget,
			reply:   &client.SwapReply{Body: client.SwapResponse{Meta: metaFor("0")}},
			wantErr: swap.ErrInvalidAmountOut,
		},
		{
			name:    "empty amount",
			kind:    types.AndrTarget,
			reply:   &client.SwapReply{Body: client.SwapResponse{Meta: metaFor("")}},
			wantErr: swap.ErrInvalidAmountOut,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			api := &fakeAPI{replies: []*client.SwapReply{tt.reply}}
			svc := newService(t, api, tt.strict)

			quote, err := svc.ResolveQuote(context.Background(), request(tt.kind))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, quote.AmountOut)
			assert.Equal(t, tt.wantFallback, quote.Fallback)
			assert.NotEmpty(t, quote.Hops)
		})
	}
}

func TestResolveQuote_RetriesThenPropagates(t *testing.T) {
	t.Parallel()

	boom := errors.New("dial tcp: refused")
	api := &fakeAPI{errs: []error{boom, boom, boom, boom, boom}}
	svc := newService(t, api, false)

	_, err := svc.ResolveQuote(context.Background(), request(types.EuclidTarget))
	require.ErrorIs(t, err, boom)
	assert.Len(t, api.payloads, 5)
}

func TestResolveQuote_RateLimitedThenOK(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		errs:    []error{&ratelimit.StatusError{Code: http.StatusTooManyRequests}},
		replies: []*client.SwapReply{nil, {Body: client.SwapResponse{Meta: metaFor("42")}}},
	}
	svc := newService(t, api, false)

	quote, err := svc.ResolveQuote(context.Background(), request(types.EuclidTarget))
	require.NoError(t, err)
	assert.Equal(t, "42", quote.AmountOut)
}

func TestBuildCalldata(t *testing.T) {
	t.Parallel()

	quote := &types.Quote{AmountOut: "100", Hops: []types.HopAmount{{Token: "euclid", Amount: "100"}}}

	tests := []struct {
		name    string
		reply   client.SwapResponse
		want    []byte
		wantErr error
	}{
		{
			name: "ok, case-insensitive sender",
			reply: client.SwapResponse{
				Msgs:   []client.SwapMsg{{Data: "0xabcdef"}},
				Sender: &client.SwapAccount{Address: "0x70997970c51812dc3a010c7d01b50e0d17dc79c8"},
			},
			want: []byte{0xab, 0xcd, 0xef},
		},
		{
			name:    "missing calldata",
			reply:   client.SwapResponse{Sender: &client.SwapAccount{Address: wallet.Hex()}},
			wantErr: swap.ErrMissingCalldata,
		},
		{
			name: "sender mismatch",
			reply: client.SwapResponse{
				Msgs:   []client.SwapMsg{{Data: "0x01"}},
				Sender: &client.SwapAccount{Address: "0x0000000000000000000000000000000000000001"},
			},
			wantErr: swap.ErrSenderMismatch,
		},
		{
			name:    "missing sender",
			reply:   client.SwapResponse{Msgs: []client.SwapMsg{{Data: "0x01"}}},
			wantErr: swap.ErrSenderMismatch,
		},
		{
			name: "bad hex",
			reply: client.SwapResponse{
				Msgs:   []client.SwapMsg{{Data: "zz"}},
				Sender: &client.SwapAccount{Address: wallet.Hex()},
			},
			wantErr: swap.ErrMissingCalldata,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			api := &fakeAPI{replies: []*client.SwapReply{{Body: tt.reply}}}
			svc := newService(t, api, false)

			data, err := svc.BuildCalldata(context.Background(), request(types.EuclidTarget), quote)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, data)

			require.Len(t, api.payloads, 1)
			assert.Equal(t, []string{"euclid: 100"}, api.payloads[0].SwapPath.Path[0].AmountOutForHops)
		})
	}
}
