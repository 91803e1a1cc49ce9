package mocks

import (
	context "context"
	big "math/big"

	common "github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	mock "github.com/stretchr/testify/mock"

	types "euclid-swap/pkg/types"
)

// Client is a mock type for the Client type
type Client struct {
	mock.Mock
}

// Address provides a mock function with no fields
func (_m *Client) Address() common.Address {
	ret := _m.Called()

	var r0 common.Address
	if rf, ok := ret.Get(0).(func() common.Address); ok {
		r0 = rf()
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(common.Address)
	}

	return r0
}

// Balance provides a mock function with given fields: ctx
func (_m *Client) Balance(ctx context.Context) (*big.Int, error) {
	ret := _m.Called(ctx)

	var r0 *big.Int
	if rf, ok := ret.Get(0).(func(context.Context) *big.Int); ok {
		r0 = rf(ctx)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*big.Int)
	}

	return r0, ret.Error(1)
}

// PendingNonce provides a mock function with given fields: ctx
func (_m *Client) PendingNonce(ctx context.Context) (uint64, error) {
	ret := _m.Called(ctx)

	var r0 uint64
	if rf, ok := ret.Get(0).(func(context.Context) uint64); ok {
		r0 = rf(ctx)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(uint64)
	}

	return r0, ret.Error(1)
}

// EstimateGas provides a mock function with given fields: ctx, tx
func (_m *Client) EstimateGas(ctx context.Context, tx *types.PendingTransaction) (uint64, error) {
	ret := _m.Called(ctx, tx)

	var r0 uint64
	if rf, ok := ret.Get(0).(func(context.Context, *types.PendingTransaction) uint64); ok {
		r0 = rf(ctx, tx)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(uint64)
	}

	return r0, ret.Error(1)
}

// Call provides a mock function with given fields: ctx, tx
func (_m *Client) Call(ctx context.Context, tx *types.PendingTransaction) ([]byte, error) {
	ret := _m.Called(ctx, tx)

	var r0 []byte
	if rf, ok := ret.Get(0).(func(context.Context, *types.PendingTransaction) []byte); ok {
		r0 = rf(ctx, tx)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}

	return r0, ret.Error(1)
}

// SendTransaction provides a mock function with given fields: ctx, tx
func (_m *Client) SendTransaction(ctx context.Context, tx *types.PendingTransaction) (*gethtypes.Transaction, error) {
	ret := _m.Called(ctx, tx)

	var r0 *gethtypes.Transaction
	if rf, ok := ret.Get(0).(func(context.Context, *types.PendingTransaction) *gethtypes.Transaction); ok {
		r0 = rf(ctx, tx)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*gethtypes.Transaction)
	}

	return r0, ret.Error(1)
}

// WaitForReceipt provides a mock function with given fields: ctx, tx
func (_m *Client) WaitForReceipt(ctx context.Context, tx *gethtypes.Transaction) (*gethtypes.Receipt, error) {
	ret := _m.Called(ctx, tx)

	var r0 *gethtypes.Receipt
	if rf, ok := ret.Get(0).(func(context.Context, *gethtypes.Transaction) *gethtypes.Receipt); ok {
		r0 = rf(ctx, tx)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*gethtypes.Receipt)
	}

	return r0, ret.Error(1)
}

// ParseAmount provides a mock function with given fields: amount
func (_m *Client) ParseAmount(amount string) (*big.Int, error) {
	ret := _m.Called(amount)

	var r0 *big.Int
	if rf, ok := ret.Get(0).(func(string) *big.Int); ok {
		r0 = rf(amount)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*big.Int)
	}

	return r0, ret.Error(1)
}

// FormatAmount provides a mock function with given fields: wei
func (_m *Client) FormatAmount(wei *big.Int) string {
	ret := _m.Called(wei)

	var r0 string
	if rf, ok := ret.Get(0).(func(*big.Int) string); ok {
		r0 = rf(wei)
	} else {
		r0 = ret.Get(0).(string)
	}

	return r0
}

// NewClient creates a new instance of Client. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *Client {
	m := &Client{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
