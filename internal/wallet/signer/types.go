package signer

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Deriver produces signers from a seed that has already been unlocked
type Deriver interface {
	// Derive derives the signer at m/44'/60'/0'/0/{index}
	Derive(ctx context.Context, index uint32) (*Signer, error)
}

// SignEVMRequest represents a request to sign an EVM transaction
type SignEVMRequest struct {
	ChainID *big.Int
	// To is nil for contract creation
	To       *common.Address
	Value    *big.Int
	GasLimit uint64
	// GasPrice is only used when the chain has no base fee (legacy transaction)
	GasPrice             *big.Int
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
	Nonce                uint64
	Data                 []byte
}

// SignEVMResponse represents a signed EVM transaction
type SignEVMResponse struct {
	RawTransaction []byte      // RLP-encoded signed transaction
	TxHash         common.Hash // Transaction hash
}
