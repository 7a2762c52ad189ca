package tokens

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github/chapool/testnet-tokens/internal/perrors"
	"github/chapool/testnet-tokens/internal/provision"
	"github/chapool/testnet-tokens/internal/token"
	"github/chapool/testnet-tokens/internal/util/command"
)

func newAddMulti(factory command.Factory) *cobra.Command {
	var privateKey string

	cmd := &cobra.Command{
		Use:   "add-multi <tokens_json>",
		Short: "Adds multiple tokens given in JSON format",
		Long: `Provisions every token of a JSON array in order, like add does for a
single token. Elements with a non-null address are attached instead of
deployed. The first failure aborts the batch and nothing is printed.

Example:
  add-multi '[{"address":null,"name":"DAI","symbol":"DAI","decimals":18}]'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			specs, err := parseSpecs(args[0])
			if err != nil {
				return err
			}

			cfg, err := command.LoadConfig(cmd)
			if err != nil {
				return err
			}

			return command.WithProvisionerFactory(cmd.Context(), cfg, factory, func(ctx context.Context, p *provision.Service) error {
				deployer, err := p.DeployerSigner(ctx, privateKey)
				if err != nil {
					return err
				}

				command.EchoSigner(cmd.ErrOrStderr(), deployer, p.Config.Wallet.PrintPrivateKeys)

				results, err := p.AddMulti(ctx, specs, deployer)
				if err != nil {
					return err
				}

				return command.PrintJSON(cmd.OutOrStdout(), results)
			})
		},
	}

	cmd.Flags().StringVar(&privateKey, privateKeyFlag, "", "deployer private key (default: index 1 of the seed phrase)")

	return cmd
}

func parseSpecs(raw string) ([]token.Spec, error) {
	var specs []token.Spec
	if err := json.Unmarshal([]byte(raw), &specs); err != nil {
		return nil, &perrors.MalformedInputError{Input: "tokens_json", Err: err}
	}

	if specs == nil {
		return nil, &perrors.MalformedInputError{Input: "tokens_json", Err: errors.New("expected a JSON array of tokens")}
	}

	return specs, nil
}
