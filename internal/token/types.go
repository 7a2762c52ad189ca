// Package token holds the token data model shared by the deployer, seeder and approver.
package token

import (
	"github.com/ethereum/go-ethereum/common"
	"github/chapool/testnet-tokens/internal/token/template"
)

// Spec is a token as described by the operator, either on the command line or
// as an element of an add-multi batch.
type Spec struct {
	// Address is nil until the token is deployed. A non-nil address attaches
	// to an existing instance.
	Address  *common.Address `json:"address"`
	Name     string          `json:"name"`
	Symbol   string          `json:"symbol"`
	Decimals uint8           `json:"decimals"`
	// Implementation names the contract template, empty means the default template.
	Implementation string `json:"implementation,omitempty"`
}

// Deployed is a token instance on chain together with the template it was
// created from. The template is internal and never serialised.
type Deployed struct {
	Address  common.Address
	Name     string
	Symbol   string
	Decimals uint8

	Template *template.Template `json:"-"`
}

// Result is the public output record of add and add-multi.
type Result struct {
	Address  string `json:"address"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// Result strips the implementation details from d.
func (d *Deployed) Result() Result {
	return Result{
		Address:  d.Address.Hex(),
		Name:     d.Name,
		Symbol:   d.Symbol,
		Decimals: d.Decimals,
	}
}

// ApprovalResult is emitted by approve for every approving signer.
type ApprovalResult struct {
	TokenAddress string `json:"tokenAddress"`
	Owner        string `json:"owner"`
	Spender      string `json:"spender"`
	Allowance    string `json:"allowance"`
}
