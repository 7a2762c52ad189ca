package seed

import "github.com/pkg/errors"

// ErrInvalidMnemonic is returned for a mnemonic that fails the BIP39 word list or checksum check.
var ErrInvalidMnemonic = errors.New("mnemonic is not a valid BIP39 phrase")

// Manager holds the BIP39 seed of one phrase for the duration of a run.
type Manager interface {
	Initialize(mnemonic string, passphrase string) error
	// Seed returns a copy of the seed, nil before Initialize or after Clear.
	Seed() []byte
	Initialized() bool
	// Clear zeroes the seed.
	Clear()
}
