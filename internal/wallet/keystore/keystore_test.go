package keystore_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/testnet-tokens/internal/test"
	"github/chapool/testnet-tokens/internal/wallet/keystore"
)

// lightParams keeps scrypt fast in tests
var lightParams = keystore.ScryptParams{DKLen: 32, N: 1 << 12, R: 8, P: 1}

func TestDefaultScryptParams(t *testing.T) {
	params := keystore.DefaultScryptParams()
	assert.Equal(t, 262144, params.N)
	assert.Equal(t, 8, params.R)
	assert.Equal(t, 1, params.P)
	assert.Equal(t, 32, params.DKLen)
}

func TestEncryptDecrypt(t *testing.T) {
	ks, err := keystore.Encrypt(test.Mnemonic, "hunter2", lightParams)
	require.NoError(t, err)

	assert.Equal(t, 3, ks.Version)
	assert.NotEmpty(t, ks.ID)
	assert.Equal(t, "aes-128-ctr", ks.Crypto.Cipher)
	assert.Equal(t, "scrypt", ks.Crypto.KDF)
	assert.NotContains(t, ks.Crypto.Ciphertext, "test")

	mnemonic, err := keystore.Decrypt(ks, "hunter2")
	require.NoError(t, err)
	assert.Equal(t, test.Mnemonic, mnemonic)

	_, err = keystore.Decrypt(ks, "wrong")
	require.ErrorIs(t, err, keystore.ErrInvalidPassword)
}

func TestEncryptRejectsShortKey(t *testing.T) {
	_, err := keystore.Encrypt(test.Mnemonic, "pw", keystore.ScryptParams{DKLen: 16, N: 1 << 12, R: 8, P: 1})
	require.Error(t, err)
}

func TestCreateUnlockFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mnemonic.json")

	ks, err := keystore.Create(test.Mnemonic, "pw", lightParams)
	require.NoError(t, err)
	assert.Equal(t, test.Address0, ks.VerificationAddress)

	require.NoError(t, keystore.WriteFile(path, ks))
	require.Error(t, keystore.WriteFile(path, ks), "existing keystore must not be overwritten")

	loaded, err := keystore.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ks.ID, loaded.ID)

	mnemonic, err := keystore.Unlock(loaded, "pw")
	require.NoError(t, err)
	assert.Equal(t, test.Mnemonic, mnemonic)
}

func TestUnlockDetectsVerificationMismatch(t *testing.T) {
	ks, err := keystore.Create(test.Mnemonic, "pw", lightParams)
	require.NoError(t, err)

	ks.VerificationAddress = test.Address1

	_, err = keystore.Unlock(ks, "pw")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verification failed")
}

func TestCreateRejectsInvalidMnemonic(t *testing.T) {
	_, err := keystore.Create("not a mnemonic", "pw", lightParams)
	require.Error(t, err)
}
