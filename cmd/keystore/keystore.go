package keystore

import (
	"github.com/spf13/cobra"
	"github/chapool/testnet-tokens/internal/util/command"
)

const (
	outFlag  = "out"
	fileFlag = "file"

	minPasswordLength = 8
)

// PasswordReader reads a password after printing prompt.
type PasswordReader func(prompt string) (string, error)

func New() *cobra.Command {
	return NewWithPasswordReader(nil)
}

// NewWithPasswordReader returns the keystore command group. A nil reader reads from the terminal.
func NewWithPasswordReader(read PasswordReader) *cobra.Command {
	return command.NewSubcommandGroup("keystore",
		newCreate(read),
		newVerify(read),
	)
}
