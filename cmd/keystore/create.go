package keystore

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github/chapool/testnet-tokens/internal/perrors"
	"github/chapool/testnet-tokens/internal/util/command"
	"github/chapool/testnet-tokens/internal/wallet/keystore"
)

func newCreate(read PasswordReader) *cobra.Command {
	var (
		out   string
		light bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Encrypts the configured seed phrase into a keystore file",
		Long: `Encrypts the seed phrase from PROVISIONER_MNEMONIC (or the test config)
with a password read from the terminal. Point PROVISIONER_KEYSTORE_PATH at the
file to stop keeping the phrase in plaintext.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" {
				return &perrors.MalformedInputError{Input: "flags", Err: errors.Errorf("--%s is required", outFlag)}
			}

			cfg, err := command.LoadConfig(cmd)
			if err != nil {
				return err
			}

			if cfg.Wallet.Mnemonic == "" {
				return &perrors.InvalidSeedError{Reason: "no seed phrase configured"}
			}

			password, err := readNewPassword(passwordReader(read))
			if err != nil {
				return err
			}

			params := keystore.DefaultScryptParams()
			if light {
				params.N = 1 << 12
			}

			ks, err := keystore.Create(cfg.Wallet.Mnemonic, password, params)
			if err != nil {
				return err
			}

			if err := keystore.WriteFile(out, ks); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Keystore %s written, verification address %s\n", out, ks.VerificationAddress)

			return nil
		},
	}

	cmd.Flags().StringVar(&out, outFlag, "", "keystore file to create")
	cmd.Flags().BoolVar(&light, "light-kdf", false, "use cheap scrypt parameters (local development only)")

	return cmd
}

func passwordReader(read PasswordReader) PasswordReader {
	if read == nil {
		return keystore.PromptPassword
	}

	return read
}

func readNewPassword(read PasswordReader) (string, error) {
	password, err := read(fmt.Sprintf("Enter password for keystore (min %d characters): ", minPasswordLength))
	if err != nil {
		return "", errors.Wrap(err, "failed to read password")
	}

	if len(password) < minPasswordLength {
		return "", errors.Errorf("password must be at least %d characters", minPasswordLength)
	}

	confirm, err := read("Confirm password: ")
	if err != nil {
		return "", errors.Wrap(err, "failed to read password confirmation")
	}

	if password != confirm {
		return "", errors.New("passwords do not match")
	}

	return password, nil
}
