package command

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/testnet-tokens/internal/config"
	"github/chapool/testnet-tokens/internal/provision"
	"github/chapool/testnet-tokens/internal/util"
	"github/chapool/testnet-tokens/internal/wallet/signer"
)

// ConfigFlag is the persistent root flag naming an override config file.
const ConfigFlag = "config"

// Factory builds the provisioner for one command run.
type Factory func(ctx context.Context, cfg config.Provisioner) (*provision.Service, error)

// NewSubcommandGroup returns a command that only groups the given subcommands.
func NewSubcommandGroup(name string, subCommands ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: fmt.Sprintf("%s subcommands", name),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(subCommands...)

	return cmd
}

// LoadConfig builds the provisioner config from the environment and applies
// the --config file, if one was given.
func LoadConfig(cmd *cobra.Command) (config.Provisioner, error) {
	cfg := config.DefaultProvisionerConfigFromEnv()

	path, err := cmd.Flags().GetString(ConfigFlag)
	if err != nil || path == "" {
		//nolint:nilerr // the flag is only registered on the root command
		return cfg, nil
	}

	if err := cfg.ApplyOverrides(path); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// WithProvisionerFactory configures logging, tags the run with a run id, builds
// the provisioner with factory and runs f. The provisioner is closed afterwards
// and its metrics are flushed even if f fails.
func WithProvisionerFactory(
	ctx context.Context,
	cfg config.Provisioner,
	factory Factory,
	f func(ctx context.Context, p *provision.Service) error,
) error {
	util.ConfigureGlobalLogger(cfg.Logger.Level, cfg.Logger.PrettyPrintConsole, cfg.Logger.LogCaller)

	runID := uuid.New().String()
	ctx = util.WithRunID(ctx, runID)

	p, err := factory(ctx, cfg)
	if err != nil {
		return errors.Wrap(err, "failed to initialize provisioner")
	}

	defer func() {
		if err := p.Close(); err != nil {
			log.Warn().Err(err).Str("run_id", runID).Msg("Failed to close provisioner")
		}
	}()

	return f(ctx, p)
}

// EchoSigner writes the signer banner to w before the signer is used.
func EchoSigner(w io.Writer, s *signer.Signer, printPrivateKey bool) {
	fmt.Fprintln(w, "DEPLOYER ADDRESS")
	fmt.Fprintln(w, s.Address.Hex())

	if printPrivateKey {
		fmt.Fprintln(w, "DEPLOYER PRIVATE KEY")
		fmt.Fprintln(w, s.PrivateKeyHex())
	}
}

// PrintJSON writes v to w indented by two spaces.
func PrintJSON(w io.Writer, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal output")
	}

	if _, err := fmt.Fprintln(w, string(out)); err != nil {
		return errors.Wrap(err, "failed to write output")
	}

	return nil
}
