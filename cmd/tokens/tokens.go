// Package tokens holds the add, add-multi and approve commands.
package tokens

import (
	"github.com/spf13/cobra"
	"github/chapool/testnet-tokens/internal/provision"
	"github/chapool/testnet-tokens/internal/util/command"
)

const (
	tokenNameFlag      = "token-name"
	symbolFlag         = "symbol"
	decimalsFlag       = "decimals"
	implementationFlag = "implementation"
	privateKeyFlag     = "private-key"
	tokenAddressFlag   = "token-address"
	spenderAddressFlag = "spender-address"
)

// Commands returns the provisioning commands connected to the configured chain.
func Commands() []*cobra.Command {
	return CommandsWithFactory(provision.InitNewService)
}

// CommandsWithFactory returns the provisioning commands building their provisioner with factory.
func CommandsWithFactory(factory command.Factory) []*cobra.Command {
	return []*cobra.Command{
		newAdd(factory),
		newAddMulti(factory),
		newApprove(factory),
	}
}
