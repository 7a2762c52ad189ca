package keystore

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github/chapool/testnet-tokens/internal/perrors"
	"github/chapool/testnet-tokens/internal/wallet/keystore"
)

func newVerify(read PasswordReader) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Checks that a keystore file unlocks with the given password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file == "" {
				return &perrors.MalformedInputError{Input: "flags", Err: errors.Errorf("--%s is required", fileFlag)}
			}

			ks, err := keystore.ReadFile(file)
			if err != nil {
				return err
			}

			password, err := passwordReader(read)(fmt.Sprintf("Enter password for keystore %s: ", file))
			if err != nil {
				return errors.Wrap(err, "failed to read password")
			}

			if _, err := keystore.Unlock(ks, password); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Keystore %s OK, verification address %s\n", file, ks.VerificationAddress)

			return nil
		},
	}

	cmd.Flags().StringVar(&file, fileFlag, "", "keystore file to verify")

	return cmd
}
