package address

import "context"

// PathTemplate is the fixed BIP44 template used for every EVM wallet (coin type 60, account 0, change 0).
const PathTemplate = "m/44'/60'/0'/0/%d"

// Service provides EVM address derivation from a BIP39 seed
type Service interface {
	// DerivePrivateKey derives the raw secp256k1 private key at the given BIP44 path
	// WARNING: Private key should be cleared after use
	DerivePrivateKey(ctx context.Context, seed []byte, path string) ([]byte, error)

	// GetBIP44Path formats the path for an address index
	GetBIP44Path(addressIndex uint32) string
}
