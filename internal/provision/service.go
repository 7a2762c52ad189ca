package provision

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github/chapool/testnet-tokens/internal/config"
	"github/chapool/testnet-tokens/internal/metrics"
	"github/chapool/testnet-tokens/internal/perrors"
	"github/chapool/testnet-tokens/internal/token"
	"github/chapool/testnet-tokens/internal/token/approver"
	"github/chapool/testnet-tokens/internal/token/deployer"
	"github/chapool/testnet-tokens/internal/token/seeder"
	"github/chapool/testnet-tokens/internal/token/template"
	"github/chapool/testnet-tokens/internal/util"
	"github/chapool/testnet-tokens/internal/wallet"
	"github/chapool/testnet-tokens/internal/wallet/chain"
	"github/chapool/testnet-tokens/internal/wallet/signer"
)

// ApproveOwnerIndex is the derivation index of the second approve signer.
const ApproveOwnerIndex = 0

// Service is a central struct keeping all the dependencies of a provisioning run.
// It is initialized with wire, see wire.go.
type Service struct {
	Config   config.Provisioner
	Client   *chain.Client
	Registry *template.Registry
	Wallets  *wallet.Wallets
	Metrics  *metrics.Service
	Deployer deployer.Service
	Seeder   seeder.Service
	Approver approver.Service
}

func newServiceWithComponents(
	cfg config.Provisioner,
	client *chain.Client,
	registry *template.Registry,
	wallets *wallet.Wallets,
	m *metrics.Service,
	deployerService deployer.Service,
	seederService seeder.Service,
	approverService approver.Service,
) *Service {
	client.SetObserver(m)

	return &Service{
		Config:   cfg,
		Client:   client,
		Registry: registry,
		Wallets:  wallets,
		Metrics:  m,
		Deployer: deployerService,
		Seeder:   seederService,
		Approver: approverService,
	}
}

// DeployerSigner returns the signer for add and add-multi: the explicit key if
// given, the configured deployer index of the main seed phrase otherwise.
func (s *Service) DeployerSigner(ctx context.Context, privateKey string) (*signer.Signer, error) {
	return signer.Resolve(ctx, privateKey, s.Wallets.Deployer, s.Config.Wallet.DeployerIndex)
}

// ApprovalSigners returns the two approve signers in order: the explicit key
// or the deployer index, then index 0.
func (s *Service) ApprovalSigners(ctx context.Context, privateKey string) ([]*signer.Signer, error) {
	first, err := s.DeployerSigner(ctx, privateKey)
	if err != nil {
		return nil, err
	}

	second, err := s.Wallets.Deployer.Derive(ctx, ApproveOwnerIndex)
	if err != nil {
		return nil, err
	}

	return []*signer.Signer{first, second}, nil
}

// DefaultSpender returns the configured spender, nil if none is configured.
func (s *Service) DefaultSpender() (*common.Address, error) {
	raw := s.Config.Seeding.DefaultSpenderAddress
	if raw == "" {
		return nil, nil //nolint:nilnil // no spender configured is not an error
	}

	addr, err := ParseAddress("CONTRACTS_DIAMOND_PROXY_ADDR", raw)
	if err != nil {
		return nil, err
	}

	return &addr, nil
}

// Add deploys (or attaches to) one token and seeds it.
func (s *Service) Add(ctx context.Context, spec token.Spec, deployerSigner *signer.Signer) (*token.Result, error) {
	if err := s.ValidateSpec(spec); err != nil {
		return nil, err
	}

	spender, err := s.DefaultSpender()
	if err != nil {
		return nil, err
	}

	return s.add(ctx, spec, deployerSigner, spender)
}

// AddMulti provisions specs strictly in order. A failure aborts the batch and
// is reported as a BatchError; no partial results are returned.
func (s *Service) AddMulti(ctx context.Context, specs []token.Spec, deployerSigner *signer.Signer) ([]token.Result, error) {
	for i, spec := range specs {
		if err := s.ValidateSpec(spec); err != nil {
			return nil, &perrors.BatchError{Index: i, Err: err}
		}
	}

	spender, err := s.DefaultSpender()
	if err != nil {
		return nil, err
	}

	log := util.LogFromContext(ctx)
	results := make([]token.Result, 0, len(specs))

	for i, spec := range specs {
		log.Info().Int("index", i).Int("total", len(specs)).Str("symbol", spec.Symbol).Msg("Provisioning batch element")

		result, err := s.add(ctx, spec, deployerSigner, spender)
		if err != nil {
			return nil, &perrors.BatchError{Index: i, Err: err}
		}

		results = append(results, *result)
	}

	return results, nil
}

func (s *Service) add(ctx context.Context, spec token.Spec, deployerSigner *signer.Signer, spender *common.Address) (*token.Result, error) {
	var (
		deployed *token.Deployed
		err      error
	)

	if spec.Address != nil {
		util.LogFromContext(ctx).Info().
			Str("address", spec.Address.Hex()).
			Str("symbol", spec.Symbol).
			Msg("Token already has an address, attaching instead of deploying")
		deployed, err = s.Deployer.Attach(spec)
	} else {
		deployed, err = s.Deployer.Deploy(ctx, spec, deployerSigner)
	}
	if err != nil {
		return nil, err
	}

	if err := s.Seeder.Seed(ctx, deployed, deployerSigner, spender); err != nil {
		return nil, err
	}

	s.Metrics.TokenProvisioned(deployed.Template.Name)

	result := deployed.Result()
	return &result, nil
}

// Approve grants spender an allowance on tokenAddress signed by owner.
func (s *Service) Approve(
	ctx context.Context,
	tokenAddress common.Address,
	implementation string,
	owner *signer.Signer,
	spender common.Address,
) (*token.ApprovalResult, error) {
	result, err := s.Approver.Approve(ctx, tokenAddress, implementation, owner, spender)
	if err != nil {
		return nil, err
	}

	s.Metrics.ApprovalGranted()

	return result, nil
}

// ValidateSpec checks operator input before any transaction is submitted.
// Metadata is required unless the template is the wrapped native one.
func (s *Service) ValidateSpec(spec token.Spec) error {
	if s.Registry.IsWrappedNative(spec.Implementation) {
		return nil
	}

	if spec.Name == "" {
		return &perrors.MalformedInputError{Input: "token spec", Err: errors.New("name is required")}
	}
	if spec.Symbol == "" {
		return &perrors.MalformedInputError{Input: "token spec", Err: errors.New("symbol is required")}
	}

	return nil
}

// Close releases the chain connection, wipes seeds and flushes metrics.
func (s *Service) Close() error {
	s.Client.Close()
	s.Wallets.Close()

	return s.Metrics.WriteTextfile()
}

// ParseAddress parses a hex address, reporting input as MalformedInputError.
func ParseAddress(input string, raw string) (common.Address, error) {
	if !common.IsHexAddress(raw) {
		return common.Address{}, &perrors.MalformedInputError{Input: input, Err: errors.Errorf("%q is not a hex address", raw)}
	}

	return common.HexToAddress(raw), nil
}
