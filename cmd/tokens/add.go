package tokens

import (
	"context"
	"strconv"

	"github.com/kat-co/vala"
	"github.com/spf13/cobra"
	"github/chapool/testnet-tokens/internal/perrors"
	"github/chapool/testnet-tokens/internal/provision"
	"github/chapool/testnet-tokens/internal/token"
	"github/chapool/testnet-tokens/internal/token/template"
	"github/chapool/testnet-tokens/internal/util/command"
)

type addOptions struct {
	name           string
	symbol         string
	decimals       string
	implementation string
	privateKey     string
}

func newAdd(factory command.Factory) *cobra.Command {
	opts := &addOptions{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Adds a new token with the given fields",
		Long: `Deploys a token contract, mints the seed amount to the deployer,
approves the diamond proxy (CONTRACTS_DIAMOND_PROXY_ADDR) and mints the seed
amount to the first test wallets. Prints the deployed token as JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := command.LoadConfig(cmd)
			if err != nil {
				return err
			}

			registry, err := provision.NewRegistry(cfg)
			if err != nil {
				return err
			}

			spec, err := opts.spec(registry)
			if err != nil {
				return err
			}

			return command.WithProvisionerFactory(cmd.Context(), cfg, factory, func(ctx context.Context, p *provision.Service) error {
				deployer, err := p.DeployerSigner(ctx, opts.privateKey)
				if err != nil {
					return err
				}

				command.EchoSigner(cmd.ErrOrStderr(), deployer, p.Config.Wallet.PrintPrivateKeys)

				result, err := p.Add(ctx, spec, deployer)
				if err != nil {
					return err
				}

				return command.PrintJSON(cmd.OutOrStdout(), result)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.name, tokenNameFlag, "n", "", "token name")
	cmd.Flags().StringVarP(&opts.symbol, symbolFlag, "s", "", "token symbol")
	cmd.Flags().StringVarP(&opts.decimals, decimalsFlag, "d", "", "token decimals")
	cmd.Flags().StringVarP(&opts.implementation, implementationFlag, "i", "", "contract template (default TestnetERC20Token)")
	cmd.Flags().StringVar(&opts.privateKey, privateKeyFlag, "", "deployer private key (default: index 1 of the seed phrase)")

	return cmd
}

// spec validates the flags. Wrapped native templates take no metadata.
func (o *addOptions) spec(registry *template.Registry) (token.Spec, error) {
	spec := token.Spec{
		Name:           o.name,
		Symbol:         o.symbol,
		Implementation: o.implementation,
	}

	if registry.IsWrappedNative(o.implementation) {
		if o.decimals == "" {
			return spec, nil
		}
	} else if err := vala.BeginValidation().Validate(
		vala.StringNotEmpty(o.name, tokenNameFlag),
		vala.StringNotEmpty(o.symbol, symbolFlag),
		vala.StringNotEmpty(o.decimals, decimalsFlag),
	).Check(); err != nil {
		return spec, &perrors.MalformedInputError{Input: "flags", Err: err}
	}

	decimals, err := strconv.ParseUint(o.decimals, 10, 8)
	if err != nil {
		return spec, &perrors.MalformedInputError{Input: decimalsFlag, Err: err}
	}
	spec.Decimals = uint8(decimals)

	return spec, nil
}
