package test

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

const (
	TestChainID  = 270
	TestGasLimit = 100_000
)

// SentTx is a transaction accepted by FakeBackend together with its recovered sender.
type SentTx struct {
	Tx   *types.Transaction
	From common.Address
}

// FakeBackend is an in-memory chain.Backend. It enforces nonce ordering per
// sender, mines every accepted transaction immediately (unless held) and lets
// tests decide which transactions revert.
type FakeBackend struct {
	mu sync.Mutex

	chainID *big.Int
	// BaseFee of nil makes the backend look like a pre-London chain
	BaseFee *big.Int

	// RevertIf marks matching transactions as failed on inclusion
	RevertIf func(tx SentTx) bool
	// HoldIf keeps matching transactions pending forever
	HoldIf func(tx SentTx) bool
	// SendErr, if set, is returned by SendTransaction for matching transactions
	SendErr func(tx SentTx) error
	// ChainIDErr, if set, is returned by ChainID
	ChainIDErr func() error

	sent     []SentTx
	receipts map[common.Hash]*types.Receipt
	nonces   map[common.Address]uint64
	block    uint64
	closed   bool
}

// NewFakeBackend returns an EIP-1559 fake chain with chain id TestChainID.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		chainID:  big.NewInt(TestChainID),
		BaseFee:  big.NewInt(1_000_000_000),
		receipts: make(map[common.Hash]*types.Receipt),
		nonces:   make(map[common.Address]uint64),
	}
}

func (b *FakeBackend) ChainID(_ context.Context) (*big.Int, error) {
	if b.ChainIDErr != nil {
		if err := b.ChainIDErr(); err != nil {
			return nil, err
		}
	}

	return new(big.Int).Set(b.chainID), nil
}

func (b *FakeBackend) PendingNonceAt(_ context.Context, account common.Address) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.nonces[account], nil
}

func (b *FakeBackend) SuggestGasTipCap(_ context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000), nil
}

func (b *FakeBackend) SuggestGasPrice(_ context.Context) (*big.Int, error) {
	return big.NewInt(2_000_000_000), nil
}

func (b *FakeBackend) HeaderByNumber(_ context.Context, _ *big.Int) (*types.Header, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	header := &types.Header{Number: new(big.Int).SetUint64(b.block)}
	if b.BaseFee != nil {
		header.BaseFee = new(big.Int).Set(b.BaseFee)
	}

	return header, nil
}

func (b *FakeBackend) EstimateGas(_ context.Context, _ ethereum.CallMsg) (uint64, error) {
	return TestGasLimit, nil
}

func (b *FakeBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	from, err := types.Sender(types.LatestSignerForChainID(b.chainID), tx)
	if err != nil {
		return errors.Wrap(err, "invalid sender")
	}

	sent := SentTx{Tx: tx, From: from}

	if b.SendErr != nil {
		if err := b.SendErr(sent); err != nil {
			return err
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return errors.New("backend closed")
	}

	if expected := b.nonces[from]; tx.Nonce() != expected {
		return errors.Errorf("invalid nonce for %s: got %d, expected %d", from.Hex(), tx.Nonce(), expected)
	}

	b.nonces[from]++
	b.sent = append(b.sent, sent)

	if b.HoldIf != nil && b.HoldIf(sent) {
		return nil
	}

	b.block++
	status := types.ReceiptStatusSuccessful
	if b.RevertIf != nil && b.RevertIf(sent) {
		status = types.ReceiptStatusFailed
	}

	receipt := &types.Receipt{
		Type:        tx.Type(),
		Status:      status,
		TxHash:      tx.Hash(),
		GasUsed:     tx.Gas(),
		BlockNumber: new(big.Int).SetUint64(b.block),
	}
	if tx.To() == nil && status == types.ReceiptStatusSuccessful {
		receipt.ContractAddress = crypto.CreateAddress(from, tx.Nonce())
	}

	b.receipts[tx.Hash()] = receipt

	return nil
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

func (b *FakeBackend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
}

// Closed reports whether Close was called.
func (b *FakeBackend) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.closed
}

// Sent returns a copy of all accepted transactions in submission order.
func (b *FakeBackend) Sent() []SentTx {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]SentTx, len(b.sent))
	copy(out, b.sent)
	return out
}

// Receipt returns the receipt of a mined transaction, nil if held.
func (b *FakeBackend) Receipt(txHash common.Hash) *types.Receipt {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.receipts[txHash]
}
