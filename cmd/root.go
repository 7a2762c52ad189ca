package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/testnet-tokens/cmd/env"
	"github/chapool/testnet-tokens/cmd/keystore"
	"github/chapool/testnet-tokens/cmd/tokens"
	"github/chapool/testnet-tokens/internal/config"
	"github/chapool/testnet-tokens/internal/util/command"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Version: config.GetFormattedBuildArgs(),
	Use:     "testnet-tokens",
	Short:   config.ModuleName,
	Long: fmt.Sprintf(`%v

Deploys and seeds ERC20 test tokens on a local or test network.
Requires configuration through ENV.`, config.ModuleName),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
	rootCmd.PersistentFlags().String(command.ConfigFlag, "", "config file overriding ENV (yaml, json or toml)")

	// attach the subcommands
	rootCmd.AddCommand(tokens.Commands()...)
	rootCmd.AddCommand(
		env.New(),
		keystore.New(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		log.Error().Err(err).Msg("Failed to execute root command")
		os.Exit(1)
	}
}
