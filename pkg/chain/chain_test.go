package chain_test

import (
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"euclid-swap/pkg/chain"
)

func TestParseEther(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		give    string
		want    string
		wantErr bool
	}{
		{name: "milli", give: "0.001", want: "1000000000000000"},
		{name: "gas estimate", give: "0.00009794", want: "97940000000000"},
		{name: "whole", give: "2", want: "2000000000000000000"},
		{name: "zero", give: "0", want: "0"},
		{name: "too precise", give: "0.0000000000000000001", wantErr: true},
		{name: "negative", give: "-1", wantErr: true},
		{name: "garbage", give: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := chain.ParseEther(tt.give)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParseGwei(t *testing.T) {
	t.Parallel()

	got, err := chain.ParseGwei("0.1")
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100_000_000), got)
}

func TestFormatEther(t *testing.T) {
	t.Parallel()

	wei, ok := new(big.Int).SetString("5489700000000000", 10)
	require.True(t, ok)

	assert.Equal(t, "0.0054897", chain.FormatEther(wei))
	assert.Equal(t, "0", chain.FormatEther(nil))
	assert.Equal(t, "1", chain.FormatEther(big.NewInt(1e18)))
}

func TestParsePrivateKey(t *testing.T) {
	t.Parallel()

	// well-known hardhat account #0
	const hexKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

	key, err := chain.ParsePrivateKey(hexKey)
	require.NoError(t, err)
	assert.NotNil(t, key)

	_, err = chain.ParsePrivateKey("not-a-key")
	require.Error(t, err)
}

type dataError struct {
	msg  string
	data any
}

func (e *dataError) Error() string  { return e.msg }
func (e *dataError) ErrorData() any { return e.data }

func encodeRevert(t *testing.T, reason string) string {
	t.Helper()

	strType, err := abi.NewType("string", "", nil)
	require.NoError(t, err)

	packed, err := abi.Arguments{{Type: strType}}.Pack(reason)
	require.NoError(t, err)

	selector := []byte{0x08, 0xc3, 0x79, 0xa0}
	return hexutil.Encode(append(selector, packed...))
}

func TestRevertReason(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		give error
		want string
	}{
		{
			name: "rpc data error",
			give: &dataError{msg: "execution reverted", data: encodeRevert(t, "Slippage exceeded")},
			want: "Slippage exceeded",
		},
		{
			name: "wrapped data error",
			give: fmt.Errorf("simulate: %w", &dataError{msg: "execution reverted", data: encodeRevert(t, "Paused")}),
			want: "Paused",
		},
		{
			name: "message only",
			give: errors.New("execution reverted: insufficient output"),
			want: "insufficient output",
		},
		{
			name: "no reason",
			give: errors.New("connection refused"),
			want: "",
		},
		{
			name: "nil",
			give: nil,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, chain.RevertReason(tt.give))
		})
	}
}
