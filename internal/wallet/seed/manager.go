package seed

import (
	"bytes"
	"strings"
	"sync"

	"github.com/cosmos/go-bip39"
	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"
)

type manager struct {
	mu   sync.RWMutex
	seed []byte
}

// NewManager returns an empty Manager.
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewManager() Manager {
	return &manager{}
}

// NormalizeMnemonic applies NFKD and collapses whitespace between words.
func NormalizeMnemonic(mnemonic string) string {
	return strings.Join(strings.Fields(norm.NFKD.String(mnemonic)), " ")
}

// Initialize checks the phrase against the BIP39 word list and checksum and
// stores its seed. A previous seed is zeroed first.
func (m *manager) Initialize(mnemonic string, passphrase string) error {
	mnemonic = NormalizeMnemonic(mnemonic)
	if mnemonic == "" {
		return errors.Wrap(ErrInvalidMnemonic, "mnemonic is empty")
	}
	if !bip39.IsMnemonicValid(mnemonic) {
		return ErrInvalidMnemonic
	}

	seed := bip39.NewSeed(mnemonic, norm.NFKD.String(passphrase))

	m.mu.Lock()
	defer m.mu.Unlock()

	wipe(m.seed)
	m.seed = seed

	return nil
}

func (m *manager) Seed() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.seed == nil {
		return nil
	}

	return bytes.Clone(m.seed)
}

func (m *manager) Initialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.seed != nil
}

func (m *manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	wipe(m.seed)
	m.seed = nil
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
