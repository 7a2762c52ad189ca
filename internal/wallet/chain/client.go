package chain

import (
	"context"
	"math/big"
	"strings"
	"sync"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Client wraps one or more JSON-RPC backends with failover. The first healthy
// backend (answering eth_chainId) is used for each call.
type Client struct {
	urls     []string
	backends []Backend
	mu       sync.RWMutex
	current  int
	opts     Options
	observer Observer

	chainIDMu sync.Mutex
	chainID   *big.Int
}

// ParseRPCURLs splits a comma separated list of RPC URLs
func ParseRPCURLs(rpcURL string) []string {
	parts := strings.Split(rpcURL, ",")
	urls := make([]string, 0, len(parts))
	for _, part := range parts {
		if u := strings.TrimSpace(part); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// Dial connects to every URL, retrying each up to retries times with
// exponential backoff. URLs that stay unreachable are retried lazily on use.
func Dial(ctx context.Context, urls []string, retries uint64, opts Options) (*Client, error) {
	if len(urls) == 0 {
		return nil, errors.New("at least one RPC URL is required")
	}

	backends := make([]Backend, 0, len(urls))
	for _, url := range urls {
		var client *ethclient.Client

		operation := func() error {
			c, err := ethclient.DialContext(ctx, url)
			if err != nil {
				return err
			}
			if _, err := c.ChainID(ctx); err != nil {
				c.Close()
				return err
			}
			client = c
			return nil
		}

		policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), retries), ctx)
		if err := backoff.Retry(operation, policy); err != nil {
			log.Warn().
				Str("url", url).
				Err(err).
				Msg("Failed to connect to RPC node, will retry on use")
			backends = append(backends, nil)
			continue
		}

		backends = append(backends, client)
	}

	if allBackendsNil(backends) {
		return nil, errors.New("failed to connect to any RPC node")
	}

	c := NewClient(backends, opts)
	c.urls = urls
	return c, nil
}

// NewClient creates a client over already connected backends
func NewClient(backends []Backend, opts Options) *Client {
	return &Client{
		backends: backends,
		opts:     opts,
	}
}

// SetObserver registers o for transaction notifications
func (c *Client) SetObserver(o Observer) {
	c.observer = o
}

func allBackendsNil(backends []Backend) bool {
	for _, b := range backends {
		if b != nil {
			return false
		}
	}
	return true
}

// Close closes all backend connections
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, b := range c.backends {
		if b != nil {
			b.Close()
		}
	}
}

// ChainID returns the chain id, cached after the first successful call.
// Failures are not cached.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	c.chainIDMu.Lock()
	defer c.chainIDMu.Unlock()

	if c.chainID == nil {
		backend, err := c.getBackend(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to get chain ID")
		}

		chainID, err := backend.ChainID(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to get chain ID")
		}
		c.chainID = chainID
	}

	return new(big.Int).Set(c.chainID), nil
}

// PendingNonceAt returns the pending nonce for the given address
func (c *Client) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	backend, err := c.getBackend(ctx)
	if err != nil {
		return 0, err
	}

	nonce, err := backend.PendingNonceAt(ctx, account)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get pending nonce")
	}

	return nonce, nil
}

// SendTransaction broadcasts a signed transaction
func (c *Client) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	backend, err := c.getBackend(ctx)
	if err != nil {
		return err
	}

	if err := backend.SendTransaction(ctx, tx); err != nil {
		return errors.Wrap(err, "failed to send transaction")
	}

	return nil
}

// TransactionReceipt returns the receipt of a mined transaction or ethereum.NotFound
func (c *Client) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	backend, err := c.getBackend(ctx)
	if err != nil {
		return nil, err
	}

	receipt, err := backend.TransactionReceipt(ctx, txHash)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction receipt")
	}

	return receipt, nil
}

// EstimateGas estimates the gas needed for msg
func (c *Client) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	backend, err := c.getBackend(ctx)
	if err != nil {
		return 0, err
	}

	gas, err := backend.EstimateGas(ctx, msg)
	if err != nil {
		return 0, errors.Wrap(err, "failed to estimate gas")
	}

	return gas, nil
}

// getBackend returns the current healthy backend, failing over to the next one
func (c *Client) getBackend(ctx context.Context) (Backend, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := 0; i < len(c.backends); i++ {
		idx := (c.current + i) % len(c.backends)

		if c.backends[idx] == nil && idx < len(c.urls) {
			client, err := ethclient.DialContext(ctx, c.urls[idx])
			if err != nil {
				continue
			}
			c.backends[idx] = client
		}

		backend := c.backends[idx]
		if backend == nil {
			continue
		}

		if len(c.backends) == 1 {
			return backend, nil
		}

		if _, err := backend.ChainID(ctx); err != nil {
			log.Warn().
				Int("backend", idx).
				Err(err).
				Msg("RPC backend health check failed, trying next")
			continue
		}

		c.current = idx
		return backend, nil
	}

	return nil, errors.New("all RPC backends are unavailable")
}
