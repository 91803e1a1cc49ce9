package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"euclid-swap/pkg/types"
)

// ErrReadOnly is returned when signing with a client dialed without a key
var ErrReadOnly = errors.New("client has no signing key")

// EthClient implements Client over a JSON-RPC endpoint with a local key
type EthClient struct {
	rpc        *ethclient.Client
	privateKey *ecdsa.PrivateKey
	address    common.Address
	chainID    *big.Int
}

var _ Client = (*EthClient)(nil)

// Dial connects to rpcURL and checks that the node serves chainID
func Dial(ctx context.Context, rpcURL, privateKeyHex string, chainID int64) (*EthClient, error) {
	privateKey, err := ParsePrivateKey(privateKeyHex)
	if err != nil {
		return nil, err
	}

	c, err := DialReadOnly(ctx, rpcURL, chainID)
	if err != nil {
		return nil, err
	}
	c.privateKey = privateKey
	c.address = crypto.PubkeyToAddress(privateKey.PublicKey)
	return c, nil
}

// DialReadOnly connects without a signing key. Only the lookup methods
// (Receipt, BalanceOf) can be used on the returned client.
func DialReadOnly(ctx context.Context, rpcURL string, chainID int64) (*EthClient, error) {
	rpcClient, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC endpoint: %w", err)
	}

	remoteID, err := rpcClient.ChainID(ctx)
	if err != nil {
		rpcClient.Close()
		return nil, fmt.Errorf("failed to get chain id: %w", err)
	}
	if remoteID.Int64() != chainID {
		rpcClient.Close()
		return nil, fmt.Errorf("RPC endpoint serves chain %s, expected %d", remoteID, chainID)
	}

	return &EthClient{
		rpc:     rpcClient,
		chainID: big.NewInt(chainID),
	}, nil
}

// ParsePrivateKey parses a hex secret with or without the 0x prefix
func ParsePrivateKey(privateKeyHex string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return key, nil
}

// Address returns the wallet address derived from the key
func (c *EthClient) Address() common.Address {
	return c.address
}

// Balance returns the latest wallet balance in wei
func (c *EthClient) Balance(ctx context.Context) (*big.Int, error) {
	return c.BalanceOf(ctx, c.address)
}

// BalanceOf returns the latest balance of any address in wei
func (c *EthClient) BalanceOf(ctx context.Context, addr common.Address) (*big.Int, error) {
	balance, err := c.rpc.BalanceAt(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

// PendingNonce returns the next nonce including pending transactions
func (c *EthClient) PendingNonce(ctx context.Context) (uint64, error) {
	nonce, err := c.rpc.PendingNonceAt(ctx, c.address)
	if err != nil {
		return 0, fmt.Errorf("failed to get nonce: %w", err)
	}
	return nonce, nil
}

// EstimateGas estimates the gas of tx, ignoring its current gas limit
func (c *EthClient) EstimateGas(ctx context.Context, tx *types.PendingTransaction) (uint64, error) {
	msg := c.callMsg(tx)
	msg.Gas = 0
	return c.rpc.EstimateGas(ctx, msg)
}

// Call runs tx read-only against the latest state
func (c *EthClient) Call(ctx context.Context, tx *types.PendingTransaction) ([]byte, error) {
	return c.rpc.CallContract(ctx, c.callMsg(tx), nil)
}

// SendTransaction signs tx as an EIP-1559 transaction and broadcasts it
func (c *EthClient) SendTransaction(ctx context.Context, tx *types.PendingTransaction) (*gethtypes.Transaction, error) {
	if c.privateKey == nil {
		return nil, ErrReadOnly
	}

	to := tx.To
	unsigned := gethtypes.NewTx(&gethtypes.DynamicFeeTx{
		ChainID:   c.chainID,
		Nonce:     tx.Nonce,
		GasTipCap: tx.MaxPriorityFeePerGas,
		GasFeeCap: tx.MaxFeePerGas,
		Gas:       tx.GasLimit,
		To:        &to,
		Value:     tx.Value,
		Data:      tx.Data,
	})

	signed, err := gethtypes.SignTx(unsigned, gethtypes.LatestSignerForChainID(c.chainID), c.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := c.rpc.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}
	return signed, nil
}

// WaitForReceipt blocks until tx is mined or ctx is done
func (c *EthClient) WaitForReceipt(ctx context.Context, tx *gethtypes.Transaction) (*gethtypes.Receipt, error) {
	return bind.WaitMined(ctx, c.rpc, tx)
}

// Receipt fetches the receipt of an already mined transaction
func (c *EthClient) Receipt(ctx context.Context, hash common.Hash) (*gethtypes.Receipt, error) {
	receipt, err := c.rpc.TransactionReceipt(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction receipt: %w", err)
	}
	return receipt, nil
}

// ParseAmount converts a decimal ETH amount into wei
func (c *EthClient) ParseAmount(amount string) (*big.Int, error) {
	return ParseEther(amount)
}

// FormatAmount renders wei as ETH
func (c *EthClient) FormatAmount(wei *big.Int) string {
	return FormatEther(wei)
}

// Close closes the RPC connection
func (c *EthClient) Close() {
	if c.rpc != nil {
		c.rpc.Close()
	}
}

func (c *EthClient) callMsg(tx *types.PendingTransaction) ethereum.CallMsg {
	to := tx.To
	return ethereum.CallMsg{
		From:      c.address,
		To:        &to,
		Gas:       tx.GasLimit,
		GasFeeCap: tx.MaxFeePerGas,
		GasTipCap: tx.MaxPriorityFeePerGas,
		Value:     tx.Value,
		Data:      tx.Data,
	}
}
