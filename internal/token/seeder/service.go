package seeder

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github/chapool/testnet-tokens/internal/config"
	"github/chapool/testnet-tokens/internal/perrors"
	"github/chapool/testnet-tokens/internal/token"
	"github/chapool/testnet-tokens/internal/util"
	"github/chapool/testnet-tokens/internal/wallet"
	"github/chapool/testnet-tokens/internal/wallet/chain"
	"github/chapool/testnet-tokens/internal/wallet/signer"
	"golang.org/x/sync/errgroup"
)

const defaultRichWalletCount = 10

// Service distributes initial balances of a freshly deployed token.
type Service interface {
	// Seed mints to the deployer, approves spender (if set) and mints to every
	// fan-out wallet, in that order. Wrapped native templates are not minted.
	Seed(ctx context.Context, deployed *token.Deployed, deployer *signer.Signer, spender *common.Address) error
}

type service struct {
	client   *chain.Client
	fanOut   signer.Deriver
	count    int
	parallel bool
}

// NewService creates a new seeder service.
//
//nolint:ireturn // Returning interface is intentional for DI
func NewService(cfg config.Provisioner, client *chain.Client, wallets *wallet.Wallets) Service {
	count := cfg.Seeding.RichWalletCount
	if count <= 0 {
		count = defaultRichWalletCount
	}

	return &service{
		client:   client,
		fanOut:   wallets.Test,
		count:    count,
		parallel: cfg.Seeding.ParallelFanOut,
	}
}

func (s *service) Seed(ctx context.Context, deployed *token.Deployed, deployer *signer.Signer, spender *common.Address) error {
	log := util.LogFromContext(ctx)

	if deployed.Template.WrappedNative {
		log.Info().
			Str("token", deployed.Address.Hex()).
			Str("implementation", deployed.Template.Name).
			Msg("SeederService: wrapped native token, skipping mints and approval")
		return nil
	}

	if err := s.mint(ctx, deployed, deployer, deployer.Address, perrors.DeployerIndex); err != nil {
		return err
	}

	if spender != nil {
		if err := s.approve(ctx, deployed, deployer, *spender); err != nil {
			return err
		}
	}

	recipients := make([]*signer.Signer, 0, s.count)
	for i := 0; i < s.count; i++ {
		recipient, err := s.fanOut.Derive(ctx, uint32(i))
		if err != nil {
			return errors.Wrapf(err, "failed to derive fan-out wallet %d", i)
		}
		recipients = append(recipients, recipient)
	}

	if s.parallel {
		if err := s.mintParallel(ctx, deployed, deployer, recipients); err != nil {
			return err
		}
	} else {
		for i, recipient := range recipients {
			if err := s.mint(ctx, deployed, deployer, recipient.Address, i); err != nil {
				return err
			}
		}
	}

	log.Info().
		Str("token", deployed.Address.Hex()).
		Int("wallets", len(recipients)).
		Bool("parallel", s.parallel).
		Msg("SeederService: seeded fan-out wallets")

	return nil
}

func (s *service) mint(ctx context.Context, deployed *token.Deployed, deployer *signer.Signer, to common.Address, index int) error {
	req, err := mintRequest(deployed, to)
	if err != nil {
		return &perrors.MintFailedError{Index: index, Address: to.Hex(), Err: err}
	}

	if _, _, err := s.client.SubmitAndWait(ctx, deployer, req); err != nil {
		return &perrors.MintFailedError{Index: index, Address: to.Hex(), Err: err}
	}

	logMint(ctx, deployed, to, index)

	return nil
}

// mintParallel submits every fan-out mint before awaiting any receipt. Each
// submission reads the pending nonce, so submissions stay sequential. Every
// broadcast mint is awaited, also when a later submission fails, and the
// failure with the lowest wallet index is returned.
func (s *service) mintParallel(ctx context.Context, deployed *token.Deployed, deployer *signer.Signer, recipients []*signer.Signer) error {
	errs := make([]error, len(recipients))
	pending := make([]*chain.Pending, 0, len(recipients))

	for i, recipient := range recipients {
		req, err := mintRequest(deployed, recipient.Address)
		if err == nil {
			var p *chain.Pending
			p, err = s.client.Submit(ctx, deployer, req)
			if err == nil {
				pending = append(pending, p)
				continue
			}
		}

		errs[i] = &perrors.MintFailedError{Index: i, Address: recipient.Address.Hex(), Err: err}
		break
	}

	var g errgroup.Group
	for i, p := range pending {
		recipient := recipients[i].Address

		g.Go(func() error {
			if _, err := s.client.Wait(ctx, p); err != nil {
				errs[i] = &perrors.MintFailedError{Index: i, Address: recipient.Hex(), Err: err}
				return nil
			}

			logMint(ctx, deployed, recipient, i)
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *service) approve(ctx context.Context, deployed *token.Deployed, owner *signer.Signer, spender common.Address) error {
	fail := func(err error) error {
		return &perrors.ApprovalFailedError{Owner: owner.Address.Hex(), Spender: spender.Hex(), Err: err}
	}

	data, err := deployed.Template.PackApprove(spender, token.SeedAmount)
	if err != nil {
		return fail(err)
	}

	if _, _, err := s.client.SubmitAndWait(ctx, owner, &chain.TxRequest{To: &deployed.Address, Data: data, Kind: "approve"}); err != nil {
		return fail(err)
	}

	util.LogFromContext(ctx).Info().
		Str("token", deployed.Address.Hex()).
		Str("owner", owner.Address.Hex()).
		Str("spender", spender.Hex()).
		Str("amount", token.SeedAmount.String()).
		Msg("SeederService: approved spender")

	return nil
}

func mintRequest(deployed *token.Deployed, to common.Address) (*chain.TxRequest, error) {
	data, err := deployed.Template.PackMint(to, new(big.Int).Set(token.SeedAmount))
	if err != nil {
		return nil, err
	}

	return &chain.TxRequest{To: &deployed.Address, Data: data, Kind: "mint"}, nil
}

func logMint(ctx context.Context, deployed *token.Deployed, to common.Address, index int) {
	util.LogFromContext(ctx).Debug().
		Str("token", deployed.Address.Hex()).
		Str("to", to.Hex()).
		Int("index", index).
		Str("amount_wei", token.SeedAmount.String()).
		Str("amount", token.FormatUnits(token.SeedAmount, deployed.Decimals)).
		Msg("SeederService: minted")
}
