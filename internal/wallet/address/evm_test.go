package address_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/testnet-tokens/internal/wallet/address"
	"github/chapool/testnet-tokens/internal/wallet/seed"
)

func TestParseBIP44Path(t *testing.T) {
	indices, err := address.ParseBIP44Path("m/44'/60'/0'/0/7")
	require.NoError(t, err)
	assert.Equal(t, []uint32{2147483692, 2147483708, 2147483648, 0, 7}, indices)

	for _, path := range []string{"", "m", "x/44'/60'", "m/44'/abc", "m//0", "m/4294967296"} {
		_, err := address.ParseBIP44Path(path)
		assert.ErrorIs(t, err, address.ErrInvalidPath, path)
	}
}

func TestGetBIP44Path(t *testing.T) {
	s := address.NewService()
	assert.Equal(t, "m/44'/60'/0'/0/0", s.GetBIP44Path(0))
	assert.Equal(t, "m/44'/60'/0'/0/9", s.GetBIP44Path(9))
}

func TestDerivePrivateKeyKnownVectors(t *testing.T) {
	ctx := t.Context()
	m := seed.NewManager()
	require.NoError(t, m.Initialize("test test test test test test test test test test test junk", ""))

	s := address.NewService()

	key0, err := s.DerivePrivateKey(ctx, m.Seed(), s.GetBIP44Path(0))
	require.NoError(t, err)
	assert.Equal(t, common.FromHex("0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"), key0)

	key1, err := s.DerivePrivateKey(ctx, m.Seed(), s.GetBIP44Path(1))
	require.NoError(t, err)
	ecdsaKey1, err := crypto.ToECDSA(key1)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"), crypto.PubkeyToAddress(ecdsaKey1.PublicKey))

	_, err = s.DerivePrivateKey(ctx, m.Seed(), "m/44'/bad")
	require.ErrorIs(t, err, address.ErrInvalidPath)
}
