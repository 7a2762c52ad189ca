package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/scrypt"
)

const (
	keystoreVersion = 3
	saltLength      = 32
	ivLength        = 16 // AES-128-CTR
	cipherName      = "aes-128-ctr"
	kdfName         = "scrypt"
	minDKLen        = 32
)

// Encrypt encrypts mnemonic with password using scrypt and AES-128-CTR
//
//nolint:varnamelen // iv is a common abbreviation for initialization vector
func Encrypt(mnemonic string, password string, params ScryptParams) (*KeystoreJSON, error) {
	if params.DKLen < minDKLen {
		return nil, errors.Errorf("derived key length must be at least %d bytes", minDKLen)
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, errors.Wrap(err, "failed to generate salt")
	}

	iv := make([]byte, ivLength)
	if _, err := rand.Read(iv); err != nil {
		return nil, errors.Wrap(err, "failed to generate IV")
	}

	derivedKey, err := scrypt.Key([]byte(password), salt, params.N, params.R, params.P, params.DKLen)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive key")
	}

	ciphertext, err := aes128CTR(derivedKey[:16], iv, []byte(mnemonic))
	if err != nil {
		return nil, errors.Wrap(err, "failed to encrypt mnemonic")
	}

	ks := &KeystoreJSON{
		Version: keystoreVersion,
		ID:      uuid.New().String(),
	}

	ks.Crypto.Ciphertext = hex.EncodeToString(ciphertext)
	ks.Crypto.CipherParams.IV = hex.EncodeToString(iv)
	ks.Crypto.Cipher = cipherName
	ks.Crypto.KDF = kdfName
	ks.Crypto.KDFParams.DKLen = params.DKLen
	ks.Crypto.KDFParams.Salt = hex.EncodeToString(salt)
	ks.Crypto.KDFParams.N = params.N
	ks.Crypto.KDFParams.R = params.R
	ks.Crypto.KDFParams.P = params.P
	ks.Crypto.MAC = hex.EncodeToString(calculateMAC(derivedKey[16:32], ciphertext))

	return ks, nil
}

// aes128CTR encrypts or decrypts data, CTR mode is symmetric
//
//nolint:varnamelen // iv is a common abbreviation for initialization vector
func aes128CTR(key []byte, iv []byte, in []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create cipher")
	}

	out := make([]byte, len(in))
	cipher.NewCTR(block, iv).XORKeyStream(out, in)

	return out, nil
}

// calculateMAC is keccak256(derivedKey[16:32] ++ ciphertext) as in keystore v3
func calculateMAC(key []byte, ciphertext []byte) []byte {
	return crypto.Keccak256(key, ciphertext)
}
