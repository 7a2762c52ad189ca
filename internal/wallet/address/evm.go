package address

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip32"
)

// ErrInvalidPath is returned for derivation paths that are not of the form m/a'/b/...
var ErrInvalidPath = errors.New("invalid BIP44 path")

const privateKeyLength = 32

// DerivePrivateKey derives a private key from seed and BIP44 path
// WARNING: Caller must clear the private key after use
func (s *service) DerivePrivateKey(_ context.Context, seed []byte, path string) ([]byte, error) {
	masterKey, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create master key")
	}

	derivedKey, err := deriveKeyFromPath(masterKey, path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive key from path")
	}

	// crypto.ToECDSA requires exactly 32 bytes
	return common.LeftPadBytes(derivedKey.Key, privateKeyLength), nil
}

// deriveKeyFromPath derives a key from BIP44 path
// Path format: m/44'/60'/0'/0/{index}
func deriveKeyFromPath(masterKey *bip32.Key, path string) (*bip32.Key, error) {
	indices, err := ParseBIP44Path(path)
	if err != nil {
		return nil, err
	}

	key := masterKey
	for _, index := range indices {
		key, err = key.NewChildKey(index)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to derive child key at index %d", index)
		}
	}

	return key, nil
}

// ParseBIP44Path parses a BIP44 path string into child indices
// Example: "m/44'/60'/0'/0/0" -> [2147483692, 2147483708, 2147483648, 0, 0]
func ParseBIP44Path(path string) ([]uint32, error) {
	parts := strings.Split(strings.TrimSpace(path), "/")
	if len(parts) < 2 || parts[0] != "m" {
		return nil, errors.Wrapf(ErrInvalidPath, "%q", path)
	}

	indices := make([]uint32, 0, len(parts)-1)
	for _, part := range parts[1:] {
		hardened := strings.HasSuffix(part, "'") || strings.HasSuffix(part, "h")
		if hardened {
			part = part[:len(part)-1]
		}

		index, err := strconv.ParseUint(part, 10, 31)
		if err != nil {
			return nil, errors.Wrap(ErrInvalidPath, fmt.Sprintf("invalid path segment %q", part))
		}

		if hardened {
			index += uint64(bip32.FirstHardenedChild)
		}

		indices = append(indices, uint32(index))
	}

	return indices, nil
}
