// Package wallet assembles the HD wallets used by the provisioner: the
// deployer wallet derived from the main seed phrase and the fan-out wallets
// derived from the test seed phrase.
package wallet

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github/chapool/testnet-tokens/internal/config"
	"github/chapool/testnet-tokens/internal/perrors"
	"github/chapool/testnet-tokens/internal/wallet/address"
	"github/chapool/testnet-tokens/internal/wallet/keystore"
	"github/chapool/testnet-tokens/internal/wallet/seed"
	"github/chapool/testnet-tokens/internal/wallet/signer"
)

// Wallets holds one Deriver per seed phrase. A Deriver whose seed phrase is
// not configured fails on Derive with an InvalidSeedError.
type Wallets struct {
	// Deployer derives from the main seed phrase (deployer and approve signers).
	Deployer signer.Deriver
	// Test derives the fan-out wallets that receive seed balances.
	Test signer.Deriver

	managers []seed.Manager
}

// UnlockFunc decrypts the keystore at path and returns its mnemonic.
type UnlockFunc func(path string) (string, error)

// NewWallets initialises the derivers from cfg. The main seed phrase is
// unlocked from the keystore when no plaintext phrase is configured.
func NewWallets(cfg config.Provisioner) (*Wallets, error) {
	return newWallets(cfg, keystore.UnlockFile)
}

func newWallets(cfg config.Provisioner, unlock UnlockFunc) (*Wallets, error) {
	log := log.With().Str("component", "wallet_init").Logger()

	mnemonic := cfg.Wallet.Mnemonic
	if mnemonic == "" && cfg.Wallet.KeystorePath != "" {
		log.Info().Str("path", cfg.Wallet.KeystorePath).Msg("Unlocking seed phrase from keystore")

		unlocked, err := unlock(cfg.Wallet.KeystorePath)
		if err != nil {
			return nil, errors.Wrap(err, "failed to unlock keystore")
		}
		mnemonic = unlocked
	}

	testMnemonic := cfg.Wallet.TestMnemonic
	if testMnemonic == "" {
		testMnemonic = mnemonic
	}

	addressService := address.NewService()
	w := &Wallets{}

	deployerSeed, err := w.initSeed(mnemonic, "mnemonic")
	if err != nil {
		w.Close()
		return nil, err
	}

	testSeed, err := w.initSeed(testMnemonic, "test_mnemonic")
	if err != nil {
		w.Close()
		return nil, err
	}

	w.Deployer = signer.NewDeriver(deployerSeed, addressService)
	w.Test = signer.NewDeriver(testSeed, addressService)

	return w, nil
}

// initSeed returns a seed manager for phrase, left uninitialised if phrase is empty.
func (w *Wallets) initSeed(phrase string, name string) (seed.Manager, error) {
	manager := seed.NewManager()
	w.managers = append(w.managers, manager)

	if phrase == "" {
		log.Debug().Str("seed", name).Msg("Seed phrase not configured")
		return manager, nil
	}

	if err := manager.Initialize(phrase, ""); err != nil {
		return nil, &perrors.InvalidSeedError{Reason: name + " rejected", Err: err}
	}

	return manager, nil
}

// Close wipes the cached seeds.
func (w *Wallets) Close() {
	for _, m := range w.managers {
		m.Clear()
	}
}
