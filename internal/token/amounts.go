package token

import (
	"math/big"

	"github.com/shopspring/decimal"
)

const etherDecimals = 18

var (
	// SeedAmount is minted to the deployer and each derived wallet: 3e16 ether.
	SeedAmount = ether("30000000000000000")
	// ApproveAmount is minted to and approved by each approve signer: 3e26 ether.
	ApproveAmount = ether("300000000000000000000000000")
)

func ether(whole string) *big.Int {
	amount, ok := new(big.Int).SetString(whole, 10)
	if !ok {
		panic("invalid amount literal " + whole)
	}

	return amount.Mul(amount, new(big.Int).Exp(big.NewInt(10), big.NewInt(etherDecimals), nil))
}

// FormatUnits renders amount in token units for the given decimals, e.g. for logging.
func FormatUnits(amount *big.Int, decimals uint8) string {
	return decimal.NewFromBigInt(amount, -int32(decimals)).String()
}
