package signer

import (
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
)

// SignEVMTransaction signs req with the signer's key. An EIP-1559 transaction
// is built when MaxFeePerGas is set, a legacy one otherwise.
func (s *Signer) SignEVMTransaction(req *SignEVMRequest) (*SignEVMResponse, error) {
	if req.ChainID == nil {
		return nil, errors.New("chain id is required")
	}

	value := req.Value
	if value == nil {
		value = new(big.Int)
	}

	var txData types.TxData
	if req.MaxFeePerGas != nil {
		tipCap := req.MaxPriorityFeePerGas
		if tipCap == nil {
			tipCap = new(big.Int)
		}

		txData = &types.DynamicFeeTx{
			ChainID:   req.ChainID,
			Nonce:     req.Nonce,
			GasTipCap: tipCap,
			GasFeeCap: req.MaxFeePerGas,
			Gas:       req.GasLimit,
			To:        req.To,
			Value:     value,
			Data:      req.Data,
		}
	} else {
		if req.GasPrice == nil {
			return nil, errors.New("either maxFeePerGas or gasPrice is required")
		}

		txData = &types.LegacyTx{
			Nonce:    req.Nonce,
			GasPrice: req.GasPrice,
			Gas:      req.GasLimit,
			To:       req.To,
			Value:    value,
			Data:     req.Data,
		}
	}

	signedTx, err := types.SignTx(types.NewTx(txData), types.LatestSignerForChainID(req.ChainID), s.privateKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transaction")
	}

	txBytes, err := signedTx.MarshalBinary()
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal transaction")
	}

	return &SignEVMResponse{
		RawTransaction: txBytes,
		TxHash:         signedTx.Hash(),
	}, nil
}
