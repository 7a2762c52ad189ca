package keystore

import (
	"fmt"
	"os"
	"syscall"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github/chapool/testnet-tokens/internal/wallet/signer"
	"golang.org/x/term"
)

// VerificationIndex is the derivation index whose address is stored for unlock verification
const VerificationIndex = 0

// Create encrypts mnemonic and records its verification address
func Create(mnemonic string, password string, params ScryptParams) (*KeystoreJSON, error) {
	verification, err := signer.Derive(mnemonic, VerificationIndex)
	if err != nil {
		return nil, err
	}

	ks, err := Encrypt(mnemonic, password, params)
	if err != nil {
		return nil, err
	}

	ks.VerificationAddress = verification.Address.Hex()

	return ks, nil
}

// Unlock decrypts ks and checks the mnemonic against the stored verification address
func Unlock(ks *KeystoreJSON, password string) (string, error) {
	mnemonic, err := Decrypt(ks, password)
	if err != nil {
		return "", err
	}

	if ks.VerificationAddress == "" {
		log.Warn().Str("id", ks.ID).Msg("Keystore has no verification address, skipping verification")
		return mnemonic, nil
	}

	derived, err := signer.Derive(mnemonic, VerificationIndex)
	if err != nil {
		return "", errors.Wrap(err, "decrypted mnemonic is invalid")
	}

	if derived.Address.Hex() != ks.VerificationAddress {
		log.Warn().
			Str("derived", derived.Address.Hex()).
			Str("stored", ks.VerificationAddress).
			Msg("Keystore verification failed: addresses do not match")
		return "", errors.New("keystore verification failed: derived address does not match stored verification address")
	}

	return mnemonic, nil
}

// UnlockFile reads the keystore at path and unlocks it with a password read from the terminal
func UnlockFile(path string) (string, error) {
	ks, err := ReadFile(path)
	if err != nil {
		return "", err
	}

	password, err := PromptPassword(fmt.Sprintf("Enter password for keystore %s: ", path))
	if err != nil {
		return "", err
	}

	return Unlock(ks, password)
}

// PromptPassword prompts on stderr and reads a password without echo
//
//nolint:forbidigo // Password input requires direct terminal I/O
func PromptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)

	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", errors.Wrap(err, "failed to read password from terminal")
	}

	fmt.Fprintln(os.Stderr)

	return string(passwordBytes), nil
}
