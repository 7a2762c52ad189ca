package test

import (
	"testing"
	"time"

	"github/chapool/testnet-tokens/internal/config"
	"github/chapool/testnet-tokens/internal/token/template"
	"github/chapool/testnet-tokens/internal/wallet/chain"
)

// NewClient returns a chain client on top of backend with short receipt timeouts.
func NewClient(t *testing.T, backend chain.Backend) *chain.Client {
	t.Helper()

	client := chain.NewClient([]chain.Backend{backend}, chain.Options{
		ReceiptTimeout:      500 * time.Millisecond,
		ReceiptPollInterval: 5 * time.Millisecond,
	})
	t.Cleanup(client.Close)

	return client
}

// NewConfig returns a provisioner config that does not touch the environment.
func NewConfig() config.Provisioner {
	return config.Provisioner{
		Chain: config.Chain{
			DeployGasLimit:      5_000_000,
			ReceiptTimeout:      500 * time.Millisecond,
			ReceiptPollInterval: 5 * time.Millisecond,
			FeeMultiplier:       2,
		},
		Wallet: config.Wallet{
			Mnemonic:         Mnemonic,
			TestMnemonic:     TestMnemonic,
			DeployerIndex:    1,
			PrintPrivateKeys: true,
		},
		Templates: config.Templates{
			DefaultImplementation: template.DefaultName,
		},
		Seeding: config.Seeding{
			DefaultSpenderAddress: SpenderAddress,
			RichWalletCount:       10,
		},
	}
}
