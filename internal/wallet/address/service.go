package address

import (
	"fmt"
)

type service struct{}

// NewService creates a new AddressService
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService() Service {
	return &service{}
}

// GetBIP44Path gets BIP44 path (fixed format for EVM chains)
// Format: m/44'/60'/0'/0/{index}
func (s *service) GetBIP44Path(addressIndex uint32) string {
	return fmt.Sprintf(PathTemplate, addressIndex)
}
