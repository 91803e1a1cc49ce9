package client

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SwapPayload is the request body of the swap endpoint. The same shape is
// used for the quote request and for the calldata request.
type SwapPayload struct {
	AmountIn            string              `json:"amount_in"`
	AssetIn             AssetIn             `json:"asset_in"`
	Slippage            string              `json:"slippage"`
	CrossChainAddresses []CrossChainAddress `json:"cross_chain_addresses"`
	PartnerFee          PartnerFee          `json:"partnerFee"`
	Sender              ChainAddress        `json:"sender"`
	SwapPath            SwapPath            `json:"swap_path"`
}

type AssetIn struct {
	Token     string    `json:"token"`
	TokenType TokenType `json:"token_type"`
}

type TokenType struct {
	Typename string      `json:"__typename"`
	Native   NativeToken `json:"native"`
}

type NativeToken struct {
	Typename string `json:"__typename"`
	Denom    string `json:"denom"`
}

type CrossChainAddress struct {
	User  ChainAddress `json:"user"`
	Limit Limit        `json:"limit"`
}

type ChainAddress struct {
	Address  string `json:"address"`
	ChainUID string `json:"chain_uid"`
}

type Limit struct {
	LessThanOrEqual string `json:"less_than_or_equal"`
}

type PartnerFee struct {
	PartnerFeeBps int    `json:"partner_fee_bps"`
	Recipient     string `json:"recipient"`
}

type SwapPath struct {
	Path             []PathEntry `json:"path"`
	TotalPriceImpact string      `json:"total_price_impact"`
}

type PathEntry struct {
	Route            []string `json:"route"`
	Dex              string   `json:"dex"`
	AmountIn         string   `json:"amount_in"`
	AmountOut        string   `json:"amount_out"`
	ChainUID         string   `json:"chain_uid"`
	AmountOutForHops []string `json:"amount_out_for_hops"`
}

// NativeETH is the asset descriptor of the chain's native token
func NativeETH() AssetIn {
	return AssetIn{
		Token: "eth",
		TokenType: TokenType{
			Typename: "NativeTokenType",
			Native: NativeToken{
				Typename: "NativeToken",
				Denom:    "eth",
			},
		},
	}
}

// SwapResponse is the subset of the swap endpoint's reply that is consumed
type SwapResponse struct {
	// Meta is itself a JSON document, delivered as a string
	Meta   *string      `json:"meta,omitempty"`
	Msgs   []SwapMsg    `json:"msgs,omitempty"`
	Sender *SwapAccount `json:"sender,omitempty"`
}

type SwapMsg struct {
	Data string `json:"data"`
}

type SwapAccount struct {
	Address  string `json:"address"`
	ChainUID string `json:"chain_uid,omitempty"`
}

// SwapMeta is the decoded form of SwapResponse.Meta
type SwapMeta struct {
	Swaps struct {
		Path []struct {
			AmountOut Amount `json:"amount_out"`
		} `json:"path"`
	} `json:"swaps"`
}

// Amount is an integer amount the API sends either as a JSON string or
// as a JSON number
type Amount string

// UnmarshalJSON implements json.Unmarshaler
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*a = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var n json.Number
	if err := dec.Decode(&n); err != nil {
		return fmt.Errorf("amount must be a string or number: %w", err)
	}
	*a = Amount(n.String())
	return nil
}

func (a Amount) String() string {
	return string(a)
}

// TrackPayload is the request body of the tracking endpoint
type TrackPayload struct {
	ChainUID      string `json:"chain_uid"`
	TxHash        string `json:"tx_hash"`
	WalletAddress string `json:"wallet_address"`
	ReferralCode  string `json:"referral_code"`
	Type          string `json:"type"`
}
