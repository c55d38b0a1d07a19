package passgate

import (
	"fmt"

	"github.com/google/uuid"
)

// Grant is a capability token proving that a scope holds access to a
// resource in a specific mode.
//
// A grant is owned exclusively by the scope that acquired it. It becomes
// invalid the instant it is released and cannot be forwarded to another
// scope: the tracker rejects a release presented on behalf of a scope other
// than the owner, and treats that as a core bug rather than a usage error.
type Grant struct {
	handle Handle
	mode   AccessMode
	scope  uuid.UUID

	// released flips once when the grant is returned to the tracker.
	released bool
}

// Handle returns the resource the grant covers.
func (g *Grant) Handle() Handle { return g.handle }

// Mode returns the access mode the grant was issued for.
func (g *Grant) Mode() AccessMode { return g.mode }

// ScopeID returns the identity of the owning scope.
func (g *Grant) ScopeID() uuid.UUID { return g.scope }

// Released reports whether the grant has been returned to the tracker.
func (g *Grant) Released() bool { return g.released }

// String returns a short diagnostic form of the grant.
func (g *Grant) String() string {
	return fmt.Sprintf("Grant(%v %s scope=%s)", g.handle, g.mode, shortID(g.scope))
}

// shortID abbreviates a scope id for log output.
func shortID(id uuid.UUID) string {
	s := id.String()
	if len(s) > 8 {
		return s[:8]
	}
	return s
}
