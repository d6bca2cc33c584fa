// Package guard gates privileged operations behind the single fixed system
// authority identity.
package guard

import (
	"fmt"

	"github.com/mselser95/parimutuel-engine/pkg/types"
)

// Guard checks callers against the configured system authority. The
// authority is loaded once at startup and immutable for the process
// lifetime.
type Guard struct {
	authority types.Identity
}

// New creates a Guard for the given authority identity.
func New(authority types.Identity) *Guard {
	return &Guard{authority: authority}
}

// Check succeeds iff caller is the system authority. Privileged operations
// call this first, so an unauthorized call aborts before any state is read.
func (g *Guard) Check(caller types.Identity) error {
	if caller != g.authority {
		return fmt.Errorf("caller %s: %w", caller, types.ErrUnauthorized)
	}

	return nil
}

// Authority returns the configured authority identity.
func (g *Guard) Authority() types.Identity {
	return g.authority
}
