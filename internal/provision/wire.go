//go:build wireinject

package provision

import (
	"context"

	"github.com/google/wire"
	"github/chapool/testnet-tokens/internal/config"
	"github/chapool/testnet-tokens/internal/metrics"
	"github/chapool/testnet-tokens/internal/token/approver"
	"github/chapool/testnet-tokens/internal/token/deployer"
	"github/chapool/testnet-tokens/internal/token/seeder"
	"github/chapool/testnet-tokens/internal/wallet"
	"github/chapool/testnet-tokens/internal/wallet/chain"
)

// INJECTORS - https://github.com/google/wire/blob/main/docs/guide.md#injectors

// serviceSet groups the default set of providers that are required for initing a provisioner
var serviceSet = wire.NewSet(
	newServiceWithComponents,
	NewRegistry,
	wallet.NewWallets,
	metrics.New,
	deployer.NewService,
	seeder.NewService,
	approver.NewService,
)

// InitNewService returns a new Service connected to the configured RPC URLs.
func InitNewService(
	_ context.Context,
	_ config.Provisioner,
) (*Service, error) {
	wire.Build(serviceSet, NewChainClient)
	return new(Service), nil
}

// InitNewServiceWithBackend returns a new Service on top of the given backend.
// All the other components are initialized via go wire according to the configuration.
func InitNewServiceWithBackend(
	_ config.Provisioner,
	_ chain.Backend,
) (*Service, error) {
	wire.Build(serviceSet, NewChainClientWithBackend)
	return new(Service), nil
}
