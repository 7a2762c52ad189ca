package provision

import (
	"context"
	"strings"

	"github/chapool/testnet-tokens/internal/config"
	"github/chapool/testnet-tokens/internal/token/template"
	"github/chapool/testnet-tokens/internal/wallet/chain"
)

// PROVIDERS - https://github.com/google/wire/blob/main/docs/guide.md#defining-providers

func chainOptions(cfg config.Provisioner) chain.Options {
	return chain.Options{
		ReceiptTimeout:      cfg.Chain.ReceiptTimeout,
		ReceiptPollInterval: cfg.Chain.ReceiptPollInterval,
		FeeMultiplier:       cfg.Chain.FeeMultiplier,
	}
}

// NewChainClient dials the configured RPC URLs. Entries given as a comma
// separated string in a --config file are split as well.
func NewChainClient(ctx context.Context, cfg config.Provisioner) (*chain.Client, error) {
	urls := chain.ParseRPCURLs(strings.Join(cfg.Chain.RPCURLs, ","))
	return chain.Dial(ctx, urls, cfg.Chain.DialRetries, chainOptions(cfg))
}

// NewChainClientWithBackend wraps an already connected backend, e.g. a fake chain in tests.
func NewChainClientWithBackend(cfg config.Provisioner, backend chain.Backend) *chain.Client {
	return chain.NewClient([]chain.Backend{backend}, chainOptions(cfg))
}

// NewRegistry loads the token templates.
func NewRegistry(cfg config.Provisioner) (*template.Registry, error) {
	return template.NewRegistry(template.Options{
		ArtifactsDir: cfg.Templates.ArtifactsDir,
		ManifestPath: cfg.Templates.ManifestPath,
		Default:      cfg.Templates.DefaultImplementation,
	})
}
