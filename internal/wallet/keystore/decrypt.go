package keystore

import (
	"crypto/subtle"
	"encoding/hex"

	"github.com/pkg/errors"
	"golang.org/x/crypto/scrypt"
)

// ErrInvalidPassword is returned when the MAC does not match, i.e. the password is wrong
var ErrInvalidPassword = errors.New("invalid password: MAC mismatch")

// Decrypt decrypts the mnemonic from ks
//
//nolint:varnamelen // iv is a common abbreviation for initialization vector
func Decrypt(ks *KeystoreJSON, password string) (string, error) {
	if ks.Crypto.Cipher != cipherName || ks.Crypto.KDF != kdfName {
		return "", errors.Errorf("unsupported keystore cipher %q / kdf %q", ks.Crypto.Cipher, ks.Crypto.KDF)
	}

	salt, err := hex.DecodeString(ks.Crypto.KDFParams.Salt)
	if err != nil {
		return "", errors.Wrap(err, "failed to decode salt")
	}

	iv, err := hex.DecodeString(ks.Crypto.CipherParams.IV)
	if err != nil {
		return "", errors.Wrap(err, "failed to decode IV")
	}

	ciphertext, err := hex.DecodeString(ks.Crypto.Ciphertext)
	if err != nil {
		return "", errors.Wrap(err, "failed to decode ciphertext")
	}

	expectedMAC, err := hex.DecodeString(ks.Crypto.MAC)
	if err != nil {
		return "", errors.Wrap(err, "failed to decode MAC")
	}

	params := ks.Crypto.KDFParams
	if params.DKLen < minDKLen {
		return "", errors.Errorf("derived key length must be at least %d bytes", minDKLen)
	}

	derivedKey, err := scrypt.Key([]byte(password), salt, params.N, params.R, params.P, params.DKLen)
	if err != nil {
		return "", errors.Wrap(err, "failed to derive key")
	}

	if subtle.ConstantTimeCompare(calculateMAC(derivedKey[16:32], ciphertext), expectedMAC) != 1 {
		return "", ErrInvalidPassword
	}

	plaintext, err := aes128CTR(derivedKey[:16], iv, ciphertext)
	if err != nil {
		return "", errors.Wrap(err, "failed to decrypt mnemonic")
	}

	return string(plaintext), nil
}
