package swap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"euclid-swap/pkg/client"
	"euclid-swap/pkg/ratelimit"
	"euclid-swap/pkg/types"
)

var (
	// ErrInvalidAmountOut means the quote yielded an empty or zero amount out
	ErrInvalidAmountOut = errors.New("invalid amount_out in API response")
	// ErrNoQuoteMeta means the quote carried no route meta and strict quoting is on
	ErrNoQuoteMeta = errors.New("quote response carries no route meta")
	// ErrMissingCalldata means the calldata response had no msgs[0].data
	ErrMissingCalldata = errors.New("calldata not found in API response")
	// ErrSenderMismatch means the API echoed a different sender than the wallet
	ErrSenderMismatch = errors.New("API returned incorrect sender address")
)

// API is the swap endpoint
type API interface {
	Swap(ctx context.Context, payload *client.SwapPayload) (*client.SwapReply, error)
}

// Service resolves quotes and builds calldata against the swap API
type Service struct {
	api    API
	exec   *ratelimit.Executor
	params Params
}

// NewService creates a quote/calldata service
func NewService(api API, exec *ratelimit.Executor, params Params) *Service {
	return &Service{
		api:    api,
		exec:   exec,
		params: params,
	}
}

func (s *Service) call(ctx context.Context, payload *client.SwapPayload) (*client.SwapReply, error) {
	return ratelimit.Do(ctx, s.exec, func(ctx context.Context) (*client.SwapReply, error) {
		return s.api.Swap(ctx, payload)
	})
}

// ResolveQuote asks the API for a quote and extracts the amount out.
// Without route meta (absent or empty) the per-kind default is used and the quote is marked
// as a fallback, unless strict quoting is enabled.
func (s *Service) ResolveQuote(ctx context.Context, req *types.SwapRequest) (*types.Quote, error) {
	reply, err := s.call(ctx, QuotePayload(req, s.params))
	if err != nil {
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}

	route := types.Route(req.Kind)
	quote := &types.Quote{}

	if reply.Body.Meta == nil || strings.TrimSpace(*reply.Body.Meta) == "" {
		if s.params.StrictQuote {
			return nil, ErrNoQuoteMeta
		}
		quote.AmountOut = route.DefaultAmountOut
		quote.Fallback = true
	} else {
		quote.AmountOut, err = amountOutFromMeta(*reply.Body.Meta)
		if err != nil {
			return nil, err
		}
	}

	if quote.AmountOut == "" || quote.AmountOut == "0" {
		return nil, ErrInvalidAmountOut
	}

	quote.Hops, err = HopAmounts(route, quote.AmountOut, s.params.HopRatios)
	if err != nil {
		return nil, err
	}
	return quote, nil
}

func amountOutFromMeta(meta string) (string, error) {
	var m client.SwapMeta
	if err := json.Unmarshal([]byte(meta), &m); err != nil {
		return "", fmt.Errorf("%w: failed to decode quote meta: %v", ErrInvalidAmountOut, err)
	}
	if len(m.Swaps.Path) == 0 {
		return "", fmt.Errorf("%w: quote meta has no swap path", ErrInvalidAmountOut)
	}
	return m.Swaps.Path[0].AmountOut.String(), nil
}

// BuildCalldata requests the calldata for a resolved quote and checks the
// API answered for the requesting wallet.
func (s *Service) BuildCalldata(ctx context.Context, req *types.SwapRequest, quote *types.Quote) ([]byte, error) {
	reply, err := s.call(ctx, BuildPayload(req, quote, s.params))
	if err != nil {
		return nil, fmt.Errorf("failed to build swap: %w", err)
	}

	if len(reply.Body.Msgs) == 0 || reply.Body.Msgs[0].Data == "" {
		return nil, ErrMissingCalldata
	}

	want := req.Sender.Hex()
	got := ""
	if reply.Body.Sender != nil {
		got = reply.Body.Sender.Address
	}
	if !strings.EqualFold(got, want) {
		return nil, fmt.Errorf("%w: %s. Expected: %s", ErrSenderMismatch, got, want)
	}

	data, err := hexutil.Decode(reply.Body.Msgs[0].Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingCalldata, err)
	}
	return data, nil
}
