package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"euclid-swap/pkg/ratelimit"
)

const (
	SwapEndpoint  = "/api/v1/execute/astro/swap"
	TrackEndpoint = "/api/intract-track"
	AppReferer    = "https://testnet.euclidswap.io/"
	HTTPTimeout   = 30 * time.Second
)

// EuclidClient talks to the Euclid swap API and the tracking endpoint
type EuclidClient struct {
	api          *resty.Client
	track        *resty.Client
	referralCode string
}

// NewEuclidClient creates a new API client
func NewEuclidClient(apiURL, trackURL, referralCode string) *EuclidClient {
	newClient := func(baseURL string) *resty.Client {
		return resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(HTTPTimeout).
			SetHeader("Accept", "application/json, text/plain, */*").
			SetHeader("Content-Type", "application/json")
	}

	return &EuclidClient{
		api:          newClient(apiURL),
		track:        newClient(trackURL),
		referralCode: referralCode,
	}
}

// ReferralCode returns the referral code sent with tracking calls
func (c *EuclidClient) ReferralCode() string {
	return c.referralCode
}

// SwapReply is a decoded swap response plus the HTTP headers it came with
type SwapReply struct {
	Body   SwapResponse
	header http.Header
}

// Header exposes the response headers (rate limit fields in particular)
func (r *SwapReply) Header() http.Header {
	return r.header
}

// Swap posts payload to the swap endpoint
func (c *EuclidClient) Swap(ctx context.Context, payload *SwapPayload) (*SwapReply, error) {
	resp, err := c.api.R().
		SetContext(ctx).
		SetHeader("Referer", AppReferer).
		SetBody(payload).
		Post(SwapEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to call swap API: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	reply := &SwapReply{header: resp.Header()}
	if err := json.Unmarshal(resp.Body(), &reply.Body); err != nil {
		return nil, fmt.Errorf("failed to decode swap response: %w", err)
	}
	return reply, nil
}

// Track posts a completion record to the tracking endpoint
func (c *EuclidClient) Track(ctx context.Context, payload *TrackPayload) (*resty.Response, error) {
	resp, err := c.track.R().
		SetContext(ctx).
		SetHeader("Referer", AppReferer+"swap?ref="+payload.ReferralCode).
		SetBody(payload).
		Post(TrackEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to call tracking API: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func checkStatus(resp *resty.Response) error {
	code := resp.StatusCode()
	if code >= 200 && code < 300 {
		return nil
	}

	// Try to extract the actual error message from the response
	body := strings.TrimSpace(resp.String())
	var errorResp map[string]interface{}
	if json.Unmarshal(resp.Body(), &errorResp) == nil {
		if message, ok := errorResp["message"].(string); ok {
			body = message
		} else if errs, ok := errorResp["error"]; ok {
			body = fmt.Sprint(errs)
		}
	}
	return &ratelimit.StatusError{Code: code, Body: body}
}
