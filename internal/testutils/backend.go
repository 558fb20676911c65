// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package testutils

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"sync"

	ethereum "github.com/ava-labs/libevm"
	"github.com/ava-labs/libevm/common"
	"github.com/ava-labs/libevm/core/types"
	"github.com/ava-labs/libevm/crypto"
)

const (
	FakeChainID  = 1337
	fakeGasLimit = 3_000_000
)

var (
	errFakeClosed         = errors.New("fake backend is closed")
	errCallUnsupported    = errors.New("contract calls are not supported by the fake backend")
	errSubscriptionUnused = errors.New("log subscriptions are not supported by the fake backend")
)

// DeployHook produces extra receipt logs for creation txs whose data starts with a
// registered bytecode. [args] holds the abi encoded constructor arguments.
type DeployHook func(args []byte, contractAddress common.Address) []*types.Log

// FakeBackend is an in-memory evm backend that mines every transaction
// synchronously on SendTransaction. It satisfies bind.ContractBackend and
// bind.DeployBackend.
type FakeBackend struct {
	mu sync.Mutex

	chainID  *big.Int
	baseFee  *big.Int
	block    uint64
	nonces   map[common.Address]uint64
	code     map[common.Address][]byte
	receipts map[common.Hash]*types.Receipt
	sent     []*types.Transaction
	hooks    []deployHook
	closed   bool

	// RevertIf forces a failed receipt for the matching tx
	RevertIf func(tx *types.Transaction) bool
	// SendErr is returned by SendTransaction when set
	SendErr error
}

type deployHook struct {
	bytecode []byte
	fn       DeployHook
}

func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		chainID:  big.NewInt(FakeChainID),
		baseFee:  big.NewInt(25_000_000_000),
		nonces:   map[common.Address]uint64{},
		code:     map[common.Address][]byte{},
		receipts: map[common.Hash]*types.Receipt{},
	}
}

// NewFundedKey returns a fresh key as hex (no 0x prefix) and its address
func NewFundedKey() (string, common.Address, *ecdsa.PrivateKey) {
	key, err := crypto.GenerateKey()
	if err != nil {
		panic(err)
	}
	return common.Bytes2Hex(crypto.FromECDSA(key)), crypto.PubkeyToAddress(key.PublicKey), key
}

// OnDeploy registers [fn] to be run for creation txs whose data starts with [bytecode]
func (b *FakeBackend) OnDeploy(bytecode []byte, fn DeployHook) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hooks = append(b.hooks, deployHook{bytecode: bytecode, fn: fn})
}

// SetCode places [code] at [addr]
func (b *FakeBackend) SetCode(addr common.Address, code []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.code[addr] = code
}

// Sent returns the transactions sent so far, in order
func (b *FakeBackend) Sent() []*types.Transaction {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*types.Transaction{}, b.sent...)
}

// Receipt returns the receipt stored for [hash], if any
func (b *FakeBackend) Receipt(hash common.Hash) *types.Receipt {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.receipts[hash]
}

func (b *FakeBackend) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

func (b *FakeBackend) ChainID(context.Context) (*big.Int, error) {
	if b.Closed() {
		return nil, errFakeClosed
	}
	return new(big.Int).Set(b.chainID), nil
}

func (b *FakeBackend) BlockNumber(context.Context) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.block, nil
}

func (b *FakeBackend) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return &types.Header{
		Number:   new(big.Int).SetUint64(b.block),
		BaseFee:  new(big.Int).Set(b.baseFee),
		GasLimit: 8 * fakeGasLimit,
	}, nil
}

func (b *FakeBackend) CodeAt(_ context.Context, contract common.Address, _ *big.Int) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.code[contract], nil
}

func (b *FakeBackend) PendingCodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	return b.CodeAt(ctx, account, nil)
}

func (b *FakeBackend) NonceAt(_ context.Context, account common.Address, _ *big.Int) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.nonces[account], nil
}

func (b *FakeBackend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return b.NonceAt(ctx, account, nil)
}

func (*FakeBackend) SuggestGasPrice(context.Context) (*big.Int, error) {
	return big.NewInt(50_000_000_000), nil
}

func (*FakeBackend) SuggestGasTipCap(context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

func (*FakeBackend) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	return fakeGasLimit, nil
}

func (*FakeBackend) CallContract(context.Context, ethereum.CallMsg, *big.Int) ([]byte, error) {
	return nil, errCallUnsupported
}

func (*FakeBackend) FilterLogs(context.Context, ethereum.FilterQuery) ([]types.Log, error) {
	return nil, nil
}

func (*FakeBackend) SubscribeFilterLogs(
	context.Context,
	ethereum.FilterQuery,
	chan<- types.Log,
) (ethereum.Subscription, error) {
	return nil, errSubscriptionUnused
}

func (b *FakeBackend) TransactionReceipt(_ context.Context, txHash common.Hash) (*types.Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	receipt, ok := b.receipts[txHash]
	if !ok {
		return nil, ethereum.NotFound
	}
	return receipt, nil
}

// SendTransaction mines [tx] into its own block
func (b *FakeBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	if b.SendErr != nil {
		return b.SendErr
	}
	from, err := types.Sender(types.LatestSignerForChainID(b.chainID), tx)
	if err != nil {
		return fmt.Errorf("invalid sender: %w", err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return errFakeClosed
	}
	if expected := b.nonces[from]; tx.Nonce() != expected {
		return fmt.Errorf("invalid nonce for %s: got %d expected %d", from.Hex(), tx.Nonce(), expected)
	}
	b.nonces[from]++
	b.block++
	b.sent = append(b.sent, tx)

	receipt := &types.Receipt{
		Type:        tx.Type(),
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      tx.Hash(),
		GasUsed:     tx.Gas() / 2,
		BlockNumber: new(big.Int).SetUint64(b.block),
	}
	if b.RevertIf != nil && b.RevertIf(tx) {
		receipt.Status = types.ReceiptStatusFailed
		b.receipts[tx.Hash()] = receipt
		return nil
	}
	if tx.To() == nil {
		contractAddress := crypto.CreateAddress(from, tx.Nonce())
		receipt.ContractAddress = contractAddress
		b.code[contractAddress] = tx.Data()
		for _, hook := range b.hooks {
			if bytes.HasPrefix(tx.Data(), hook.bytecode) {
				logs := hook.fn(tx.Data()[len(hook.bytecode):], contractAddress)
				for i, log := range logs {
					log.TxHash = tx.Hash()
					log.BlockNumber = b.block
					log.Index = uint(i)
				}
				receipt.Logs = append(receipt.Logs, logs...)
			}
		}
	}
	b.receipts[tx.Hash()] = receipt
	return nil
}

func (b *FakeBackend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
}
