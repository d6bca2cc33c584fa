package types

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Identity is an authenticated participant or authority identity.
// The execution environment verifies signatures before calling the engine;
// the engine only compares identities.
type Identity = common.Address

// ParseIdentity parses a 0x-prefixed hex identity.
func ParseIdentity(s string) (Identity, error) {
	if !common.IsHexAddress(s) {
		return Identity{}, fmt.Errorf("invalid identity %q", s)
	}

	return common.HexToAddress(s), nil
}
