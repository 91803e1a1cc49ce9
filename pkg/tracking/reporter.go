// Package tracking reports confirmed swaps to the app's activity tracker.
package tracking

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-resty/resty/v2"

	"euclid-swap/pkg/client"
	"euclid-swap/pkg/ratelimit"
)

const (
	SourceChainUID = "arbitrum"
	ActivityType   = "swap"
)

// API is the tracking endpoint
type API interface {
	Track(ctx context.Context, payload *client.TrackPayload) (*resty.Response, error)
}

// Reporter posts completion records under the shared retry policy
type Reporter struct {
	api          API
	exec         *ratelimit.Executor
	referralCode string
}

// NewReporter creates a reporter crediting referralCode
func NewReporter(api API, exec *ratelimit.Executor, referralCode string) *Reporter {
	return &Reporter{
		api:          api,
		exec:         exec,
		referralCode: referralCode,
	}
}

// Payload is the record sent for a confirmed transaction
func (r *Reporter) Payload(hash common.Hash, wallet common.Address) *client.TrackPayload {
	return &client.TrackPayload{
		ChainUID:      SourceChainUID,
		TxHash:        hash.Hex(),
		WalletAddress: wallet.Hex(),
		ReferralCode:  r.referralCode,
		Type:          ActivityType,
	}
}

// Report sends the record. Callers treat failures as non-fatal.
func (r *Reporter) Report(ctx context.Context, hash common.Hash, wallet common.Address) error {
	payload := r.Payload(hash, wallet)
	_, err := ratelimit.Do(ctx, r.exec, func(ctx context.Context) (*resty.Response, error) {
		return r.api.Track(ctx, payload)
	})
	if err != nil {
		return fmt.Errorf("failed to track transaction %s: %w", payload.TxHash, err)
	}
	return nil
}
