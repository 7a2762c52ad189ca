package deployer

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github/chapool/testnet-tokens/internal/config"
	"github/chapool/testnet-tokens/internal/perrors"
	"github/chapool/testnet-tokens/internal/token"
	"github/chapool/testnet-tokens/internal/token/template"
	"github/chapool/testnet-tokens/internal/util"
	"github/chapool/testnet-tokens/internal/wallet/chain"
	"github/chapool/testnet-tokens/internal/wallet/signer"
)

const defaultDeployGasLimit uint64 = 5_000_000

// Service creates token contracts or attaches to existing ones.
type Service interface {
	// Deploy submits a contract creation for spec signed by s and waits for inclusion.
	Deploy(ctx context.Context, spec token.Spec, s *signer.Signer) (*token.Deployed, error)
	// Attach treats spec.Address as an already deployed instance.
	Attach(spec token.Spec) (*token.Deployed, error)
}

type service struct {
	client   *chain.Client
	registry *template.Registry
	gasLimit uint64
}

// NewService creates a new deployer service.
//
//nolint:ireturn // Returning interface is intentional for DI
func NewService(cfg config.Provisioner, client *chain.Client, registry *template.Registry) Service {
	gasLimit := cfg.Chain.DeployGasLimit
	if gasLimit == 0 {
		gasLimit = defaultDeployGasLimit
	}

	return &service{
		client:   client,
		registry: registry,
		gasLimit: gasLimit,
	}
}

func (s *service) Deploy(ctx context.Context, spec token.Spec, deployer *signer.Signer) (*token.Deployed, error) {
	log := util.LogFromContext(ctx)

	implementation := spec.Implementation
	if implementation == "" {
		implementation = s.registry.DefaultName()
	}

	fail := func(err error) error {
		return &perrors.DeploymentFailedError{Implementation: implementation, Symbol: spec.Symbol, Err: err}
	}

	tmpl, err := s.registry.Resolve(implementation)
	if err != nil {
		return nil, fail(err)
	}

	args, err := tmpl.ConstructorArgs(spec.Name, spec.Symbol, spec.Decimals)
	if err != nil {
		return nil, fail(err)
	}

	data, err := tmpl.DeployData(args...)
	if err != nil {
		return nil, fail(err)
	}

	log.Info().
		Str("implementation", tmpl.Name).
		Str("symbol", spec.Symbol).
		Str("deployer", deployer.Address.Hex()).
		Int("constructor_args", len(args)).
		Msg("DeployerService: deploying token")

	tx, receipt, err := s.client.SubmitAndWait(ctx, deployer, &chain.TxRequest{
		Data:     data,
		GasLimit: s.gasLimit,
		Kind:     "deploy",
	})
	if err != nil {
		return nil, fail(errors.Wrap(err, "contract creation failed"))
	}

	contractAddress := receipt.ContractAddress
	if contractAddress == (common.Address{}) {
		contractAddress = crypto.CreateAddress(deployer.Address, tx.Nonce())
	}

	log.Info().
		Str("implementation", tmpl.Name).
		Str("symbol", spec.Symbol).
		Str("address", contractAddress.Hex()).
		Str("tx_hash", tx.Hash().Hex()).
		Msg("DeployerService: token deployed")

	return &token.Deployed{
		Address:  contractAddress,
		Name:     spec.Name,
		Symbol:   spec.Symbol,
		Decimals: spec.Decimals,
		Template: tmpl,
	}, nil
}

func (s *service) Attach(spec token.Spec) (*token.Deployed, error) {
	implementation := spec.Implementation
	if implementation == "" {
		implementation = s.registry.DefaultName()
	}

	if spec.Address == nil {
		return nil, &perrors.MalformedInputError{Input: "token address", Err: errors.New("address is required to attach")}
	}

	tmpl, err := s.registry.Resolve(implementation)
	if err != nil {
		return nil, &perrors.DeploymentFailedError{Implementation: implementation, Symbol: spec.Symbol, Err: err}
	}

	return &token.Deployed{
		Address:  *spec.Address,
		Name:     spec.Name,
		Symbol:   spec.Symbol,
		Decimals: spec.Decimals,
		Template: tmpl,
	}, nil
}
