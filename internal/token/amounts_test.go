package token_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github/chapool/testnet-tokens/internal/token"
)

func TestAmounts(t *testing.T) {
	seed, ok := new(big.Int).SetString("30000000000000000000000000000000000", 10)
	assert.True(t, ok)
	assert.Equal(t, 0, token.SeedAmount.Cmp(seed))

	approve, ok := new(big.Int).SetString("300000000000000000000000000000000000000000000", 10)
	assert.True(t, ok)
	assert.Equal(t, 0, token.ApproveAmount.Cmp(approve))
}

func TestFormatUnits(t *testing.T) {
	assert.Equal(t, "30000000000000000", token.FormatUnits(token.SeedAmount, 18))
	assert.Equal(t, "1.5", token.FormatUnits(big.NewInt(1500000), 6))
	assert.Equal(t, "42", token.FormatUnits(big.NewInt(42), 0))
}

func TestDeployedResultStripsTemplate(t *testing.T) {
	addr := common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	d := &token.Deployed{Address: addr, Name: "DAI", Symbol: "DAI", Decimals: 18}

	assert.Equal(t, token.Result{
		Address:  "0x5FbDB2315678afecb367f032d93F642f64180aa3",
		Name:     "DAI",
		Symbol:   "DAI",
		Decimals: 18,
	}, d.Result())
}
