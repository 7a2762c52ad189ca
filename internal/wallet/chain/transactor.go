package chain

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github/chapool/testnet-tokens/internal/util"
	"github/chapool/testnet-tokens/internal/wallet/signer"
)

var (
	// ErrReverted is returned when a transaction was included with a failed status.
	ErrReverted = errors.New("transaction reverted")
	// ErrNotIncluded is returned when a transaction is not included within the receipt timeout.
	ErrNotIncluded = errors.New("transaction not included before timeout")
)

const (
	defaultReceiptTimeout      = 2 * time.Minute
	defaultReceiptPollInterval = 3 * time.Second
	defaultFeeMultiplier       = 2
)

// Pending is a submitted but not yet included transaction.
type Pending struct {
	Tx          *types.Transaction
	From        common.Address
	Kind        string
	submittedAt time.Time
}

// fees returns either EIP-1559 caps or a legacy gas price, depending on whether
// the latest header carries a base fee.
func (c *Client) fees(ctx context.Context) (maxFee *big.Int, tipCap *big.Int, gasPrice *big.Int, err error) {
	backend, err := c.getBackend(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	header, err := backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "failed to fetch latest block header")
	}

	if header.BaseFee == nil {
		gasPrice, err = backend.SuggestGasPrice(ctx)
		if err != nil {
			return nil, nil, nil, errors.Wrap(err, "failed to suggest gas price")
		}
		return nil, nil, gasPrice, nil
	}

	tipCap, err = backend.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "failed to suggest gas tip cap")
	}

	multiplier := c.opts.FeeMultiplier
	if multiplier <= 0 {
		multiplier = defaultFeeMultiplier
	}

	maxFee = new(big.Int).Add(
		new(big.Int).Mul(header.BaseFee, big.NewInt(multiplier)),
		tipCap,
	)

	return maxFee, tipCap, nil, nil
}

// Submit signs req with s and broadcasts it without waiting for inclusion.
// The nonce is read from the node's pending count on every call, so
// consecutive submissions from the same signer receive consecutive nonces.
func (c *Client) Submit(ctx context.Context, s *signer.Signer, req *TxRequest) (*Pending, error) {
	log := util.LogFromContext(ctx)

	chainID, err := c.ChainID(ctx)
	if err != nil {
		return nil, err
	}

	nonce, err := c.PendingNonceAt(ctx, s.Address)
	if err != nil {
		return nil, err
	}

	maxFee, tipCap, gasPrice, err := c.fees(ctx)
	if err != nil {
		return nil, err
	}

	gasLimit := req.GasLimit
	if gasLimit == 0 {
		gasLimit, err = c.EstimateGas(ctx, ethereum.CallMsg{
			From:  s.Address,
			To:    req.To,
			Value: req.Value,
			Data:  req.Data,
		})
		if err != nil {
			return nil, err
		}
	}

	signResp, err := s.SignEVMTransaction(&signer.SignEVMRequest{
		ChainID:              chainID,
		To:                   req.To,
		Value:                req.Value,
		GasLimit:             gasLimit,
		GasPrice:             gasPrice,
		MaxFeePerGas:         maxFee,
		MaxPriorityFeePerGas: tipCap,
		Nonce:                nonce,
		Data:                 req.Data,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to sign %s transaction", req.Kind)
	}

	txObj := new(types.Transaction)
	if err := txObj.UnmarshalBinary(signResp.RawTransaction); err != nil {
		return nil, errors.Wrap(err, "failed to decode signed transaction")
	}

	if err := c.SendTransaction(ctx, txObj); err != nil {
		return nil, errors.Wrapf(err, "failed to broadcast %s transaction", req.Kind)
	}

	if c.observer != nil {
		c.observer.TxSubmitted(req.Kind)
	}

	log.Debug().
		Str("kind", req.Kind).
		Str("from", s.Address.Hex()).
		Uint64("nonce", nonce).
		Uint64("gas_limit", gasLimit).
		Str("tx_hash", txObj.Hash().Hex()).
		Msg("Submitted transaction")

	return &Pending{Tx: txObj, From: s.Address, Kind: req.Kind, submittedAt: time.Now()}, nil
}

// Wait blocks until p is included (one confirmation) and fails with
// ErrReverted on a failed status and ErrNotIncluded on timeout.
func (c *Client) Wait(ctx context.Context, p *Pending) (*types.Receipt, error) {
	receipt, err := c.waitForReceipt(ctx, p.Tx.Hash())

	if c.observer != nil {
		c.observer.TxSettled(p.Kind, err == nil && receipt.Status == types.ReceiptStatusSuccessful, time.Since(p.submittedAt))
	}

	if err != nil {
		return nil, err
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, errors.Wrapf(ErrReverted, "%s transaction %s", p.Kind, p.Tx.Hash().Hex())
	}

	return receipt, nil
}

// SubmitAndWait submits req and waits for its inclusion.
func (c *Client) SubmitAndWait(ctx context.Context, s *signer.Signer, req *TxRequest) (*types.Transaction, *types.Receipt, error) {
	pending, err := c.Submit(ctx, s, req)
	if err != nil {
		return nil, nil, err
	}

	receipt, err := c.Wait(ctx, pending)
	if err != nil {
		return pending.Tx, receipt, err
	}

	return pending.Tx, receipt, nil
}

func (c *Client) waitForReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	timeout := c.opts.ReceiptTimeout
	if timeout <= 0 {
		timeout = defaultReceiptTimeout
	}
	pollInterval := c.opts.ReceiptPollInterval
	if pollInterval <= 0 {
		pollInterval = defaultReceiptPollInterval
	}

	localCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.TransactionReceipt(localCtx, txHash)
		if err == nil {
			return receipt, nil
		}

		if !errors.Is(err, ethereum.NotFound) {
			if localCtx.Err() != nil && ctx.Err() == nil {
				return nil, errors.Wrapf(ErrNotIncluded, "%s after %s", txHash.Hex(), timeout)
			}
			return nil, err
		}

		select {
		case <-localCtx.Done():
			if ctx.Err() != nil {
				return nil, errors.Wrap(ctx.Err(), "context canceled while waiting for receipt")
			}
			return nil, errors.Wrapf(ErrNotIncluded, "%s after %s", txHash.Hex(), timeout)
		case <-ticker.C:
			continue
		}
	}
}
