package tokens

import (
	"context"

	"github.com/kat-co/vala"
	"github.com/spf13/cobra"
	"github/chapool/testnet-tokens/internal/perrors"
	"github/chapool/testnet-tokens/internal/provision"
	"github/chapool/testnet-tokens/internal/util/command"
)

type approveOptions struct {
	tokenAddress   string
	spenderAddress string
	implementation string
	privateKey     string
}

func newApprove(factory command.Factory) *cobra.Command {
	opts := &approveOptions{}

	cmd := &cobra.Command{
		Use:   "approve",
		Short: "Mints to and approves a spender from two wallets",
		Long: `Mints the approve amount to the signer and approves the spender for it,
first with the given private key (or index 1 of the seed phrase), then with
index 0. Prints one JSON object per signer.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := vala.BeginValidation().Validate(
				vala.StringNotEmpty(opts.tokenAddress, tokenAddressFlag),
			).Check(); err != nil {
				return &perrors.MalformedInputError{Input: "flags", Err: err}
			}

			tokenAddress, err := provision.ParseAddress(tokenAddressFlag, opts.tokenAddress)
			if err != nil {
				return err
			}

			cfg, err := command.LoadConfig(cmd)
			if err != nil {
				return err
			}

			spenderRaw := opts.spenderAddress
			if spenderRaw == "" {
				spenderRaw = cfg.Seeding.DefaultSpenderAddress
			}
			if err := vala.BeginValidation().Validate(
				vala.StringNotEmpty(spenderRaw, spenderAddressFlag),
			).Check(); err != nil {
				return &perrors.MalformedInputError{Input: "flags", Err: err}
			}

			spender, err := provision.ParseAddress(spenderAddressFlag, spenderRaw)
			if err != nil {
				return err
			}

			return command.WithProvisionerFactory(cmd.Context(), cfg, factory, func(ctx context.Context, p *provision.Service) error {
				signers, err := p.ApprovalSigners(ctx, opts.privateKey)
				if err != nil {
					return err
				}

				for _, s := range signers {
					command.EchoSigner(cmd.ErrOrStderr(), s, p.Config.Wallet.PrintPrivateKeys)

					result, err := p.Approve(ctx, tokenAddress, opts.implementation, s, spender)
					if err != nil {
						return err
					}

					if err := command.PrintJSON(cmd.OutOrStdout(), result); err != nil {
						return err
					}
				}

				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&opts.tokenAddress, tokenAddressFlag, "t", "", "address of the token")
	cmd.Flags().StringVarP(&opts.spenderAddress, spenderAddressFlag, "s", "", "spender to approve (default CONTRACTS_DIAMOND_PROXY_ADDR)")
	cmd.Flags().StringVarP(&opts.implementation, implementationFlag, "i", "", "contract template (default TestnetERC20Token)")
	cmd.Flags().StringVar(&opts.privateKey, privateKeyFlag, "", "first signer private key (default: index 1 of the seed phrase)")

	return cmd
}
