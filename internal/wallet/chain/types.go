package chain

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Backend is the subset of the JSON-RPC surface the provisioner needs.
// *ethclient.Client satisfies it.
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	Close()
}

// Options configures the inclusion wait and fee policy of a Client.
type Options struct {
	ReceiptTimeout      time.Duration
	ReceiptPollInterval time.Duration
	// FeeMultiplier is applied to the latest base fee when computing maxFeePerGas.
	FeeMultiplier int64
}

// TxRequest describes a transaction to be signed and submitted.
type TxRequest struct {
	// To is nil for contract creation
	To    *common.Address
	Data  []byte
	Value *big.Int
	// GasLimit of 0 means estimate
	GasLimit uint64
	// Kind labels the transaction in logs and metrics (deploy, mint, approve)
	Kind string
}

// Observer is notified about every submitted and settled transaction.
type Observer interface {
	TxSubmitted(kind string)
	TxSettled(kind string, success bool, wait time.Duration)
}
