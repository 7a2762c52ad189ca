package env

import (
	"github.com/spf13/cobra"
	"github/chapool/testnet-tokens/internal/util/command"
)

// New returns the env command printing the effective configuration.
func New() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Prints the effective configuration as JSON",
		Long:  "Prints the configuration resolved from ENV, the test config and --config. Seed phrases are never printed.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := command.LoadConfig(cmd)
			if err != nil {
				return err
			}

			return command.PrintJSON(cmd.OutOrStdout(), cfg)
		},
	}
}
