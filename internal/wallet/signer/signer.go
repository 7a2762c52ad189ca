package signer

import (
	"context"
	"crypto/ecdsa"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github/chapool/testnet-tokens/internal/perrors"
	"github/chapool/testnet-tokens/internal/util"
	"github/chapool/testnet-tokens/internal/wallet/address"
	"github/chapool/testnet-tokens/internal/wallet/seed"
)

// Signer is an address/private-key pair. Signers are recomputed on every run
// and never persisted.
type Signer struct {
	Address common.Address
	// Index is the derivation index, nil if the signer wraps an explicit key.
	Index      *uint32
	privateKey *ecdsa.PrivateKey
}

// PrivateKeyHex returns the 0x prefixed private key.
func (s *Signer) PrivateKeyHex() string {
	return hexutil.Encode(crypto.FromECDSA(s.privateKey))
}

// FromPrivateKey wraps an explicit hex encoded private key (with or without 0x).
func FromPrivateKey(key string) (*Signer, error) {
	key = strings.TrimPrefix(strings.TrimSpace(key), "0x")

	privateKey, err := crypto.HexToECDSA(key)
	if err != nil {
		return nil, &perrors.InvalidSeedError{Reason: "private key is not a valid secp256k1 key", Err: err}
	}

	return fromECDSA(privateKey, nil), nil
}

// Derive derives the signer at index from seedPhrase. It is a pure function of its inputs.
func Derive(seedPhrase string, index uint32) (*Signer, error) {
	seedManager := seed.NewManager()
	if err := seedManager.Initialize(seedPhrase, ""); err != nil {
		return nil, &perrors.InvalidSeedError{Reason: "seed phrase rejected", Err: err}
	}
	defer seedManager.Clear()

	return NewDeriver(seedManager, address.NewService()).Derive(context.Background(), index)
}

// Resolve returns the explicit key signer if privateKey is set and derives index otherwise.
func Resolve(ctx context.Context, privateKey string, deriver Deriver, index uint32) (*Signer, error) {
	if strings.TrimSpace(privateKey) != "" {
		return FromPrivateKey(privateKey)
	}

	if deriver == nil {
		return nil, &perrors.InvalidSeedError{Reason: "no seed phrase configured and no private key given"}
	}

	return deriver.Derive(ctx, index)
}

func fromECDSA(privateKey *ecdsa.PrivateKey, index *uint32) *Signer {
	return &Signer{
		Address:    crypto.PubkeyToAddress(privateKey.PublicKey),
		Index:      index,
		privateKey: privateKey,
	}
}

type deriver struct {
	seedManager    seed.Manager
	addressService address.Service
}

// NewDeriver creates a Deriver on top of an initialized seed manager
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewDeriver(seedManager seed.Manager, addressService address.Service) Deriver {
	return &deriver{
		seedManager:    seedManager,
		addressService: addressService,
	}
}

// Derive derives the signer at index
func (d *deriver) Derive(ctx context.Context, index uint32) (*Signer, error) {
	seedBytes := d.seedManager.Seed()
	if seedBytes == nil {
		return nil, &perrors.InvalidSeedError{Reason: "seed not initialized"}
	}

	path := d.addressService.GetBIP44Path(index)

	rawKey, err := d.addressService.DerivePrivateKey(ctx, seedBytes, path)
	if err != nil {
		return nil, &perrors.InvalidSeedError{Reason: "derivation of " + path + " failed", Err: err}
	}

	defer func() {
		for i := range rawKey {
			rawKey[i] = 0
		}
	}()

	privateKey, err := crypto.ToECDSA(rawKey)
	if err != nil {
		return nil, &perrors.InvalidSeedError{Reason: "derived key is not a valid secp256k1 key", Err: errors.WithStack(err)}
	}

	idx := index
	s := fromECDSA(privateKey, &idx)

	util.LogFromContext(ctx).Debug().
		Uint32("index", index).
		Str("address", s.Address.Hex()).
		Msg("Derived wallet")

	return s, nil
}
