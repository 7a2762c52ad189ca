package approver

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github/chapool/testnet-tokens/internal/perrors"
	"github/chapool/testnet-tokens/internal/token"
	"github/chapool/testnet-tokens/internal/token/template"
	"github/chapool/testnet-tokens/internal/util"
	"github/chapool/testnet-tokens/internal/wallet/chain"
	"github/chapool/testnet-tokens/internal/wallet/signer"
)

// Service grants a spender allowance on an existing token.
type Service interface {
	// Approve mints ApproveAmount to the signer, then approves spender for the
	// same amount. The mint is skipped for wrapped native templates.
	Approve(ctx context.Context, tokenAddress common.Address, implementation string, s *signer.Signer, spender common.Address) (*token.ApprovalResult, error)
}

type service struct {
	client   *chain.Client
	registry *template.Registry
}

// NewService creates a new approver service.
//
//nolint:ireturn // Returning interface is intentional for DI
func NewService(client *chain.Client, registry *template.Registry) Service {
	return &service{
		client:   client,
		registry: registry,
	}
}

func (s *service) Approve(
	ctx context.Context,
	tokenAddress common.Address,
	implementation string,
	owner *signer.Signer,
	spender common.Address,
) (*token.ApprovalResult, error) {
	log := util.LogFromContext(ctx)

	tmpl, err := s.registry.Resolve(implementation)
	if err != nil {
		return nil, &perrors.MalformedInputError{Input: "implementation", Err: err}
	}

	amount := new(big.Int).Set(token.ApproveAmount)

	if !tmpl.WrappedNative {
		mintFailed := func(err error) error {
			return &perrors.MintFailedError{Index: signerIndex(owner), Address: owner.Address.Hex(), Err: err}
		}

		data, err := tmpl.PackMint(owner.Address, amount)
		if err != nil {
			return nil, mintFailed(err)
		}

		if _, _, err := s.client.SubmitAndWait(ctx, owner, &chain.TxRequest{To: &tokenAddress, Data: data, Kind: "mint"}); err != nil {
			return nil, mintFailed(err)
		}

		log.Debug().
			Str("token", tokenAddress.Hex()).
			Str("to", owner.Address.Hex()).
			Str("amount_wei", amount.String()).
			Msg("ApproverService: minted approval balance")
	}

	approveFailed := func(err error) error {
		return &perrors.ApprovalFailedError{Owner: owner.Address.Hex(), Spender: spender.Hex(), Err: err}
	}

	data, err := tmpl.PackApprove(spender, amount)
	if err != nil {
		return nil, approveFailed(err)
	}

	if _, _, err := s.client.SubmitAndWait(ctx, owner, &chain.TxRequest{To: &tokenAddress, Data: data, Kind: "approve"}); err != nil {
		return nil, approveFailed(err)
	}

	log.Info().
		Str("token", tokenAddress.Hex()).
		Str("owner", owner.Address.Hex()).
		Str("spender", spender.Hex()).
		Msg("ApproverService: approved spender")

	return &token.ApprovalResult{
		TokenAddress: tokenAddress.Hex(),
		Owner:        owner.Address.Hex(),
		Spender:      spender.Hex(),
		Allowance:    amount.String(),
	}, nil
}

// signerIndex reports the derivation index of s, DeployerIndex for explicit keys.
func signerIndex(s *signer.Signer) int {
	if s.Index == nil {
		return perrors.DeployerIndex
	}

	return int(*s.Index)
}
