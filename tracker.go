package passgate

import (
	"fmt"

	"github.com/google/uuid"
)

// Tracker enforces the shared-read / exclusive-write invariant for every
// resource in a registry.
//
// The tracker is the sole mutator of access state: scopes obtain grants
// through it during acquisition and return them through it on release, and
// no other code path touches a resource's state. This centralization is what
// makes the "exactly one of Free, SharedRead, ExclusiveWrite" invariant
// checkable in one place.
//
// Acquisition never blocks. A request that cannot be satisfied immediately
// fails with an *AccessConflictError: under single-threaded per-frame
// scheduling a conflict is a pass-ordering bug in the caller, not a
// transient condition to wait out.
type Tracker struct {
	reg *Registry
}

// NewTracker creates a tracker over the given registry.
func NewTracker(reg *Registry) *Tracker {
	if reg == nil {
		panic("passgate: NewTracker called with nil registry")
	}
	return &Tracker{reg: reg}
}

// Registry returns the registry the tracker arbitrates for.
func (t *Tracker) Registry() *Registry { return t.reg }

// State returns a snapshot of the resource's arbitration state.
// Returns ErrUnknownHandle if the handle is not live.
func (t *Tracker) State(h Handle) (AccessState, error) {
	t.reg.mu.RLock()
	defer t.reg.mu.RUnlock()

	e, err := t.reg.lookup(h)
	if err != nil {
		return AccessState{}, err
	}
	return e.state.snapshot(), nil
}

// acquire attempts to issue a grant on h in the given mode for the scope
// identified by sid.
//
// Returns ErrUnknownHandle for dead handles and an *AccessConflictError when
// the transition is forbidden; in both cases no state changes.
func (t *Tracker) acquire(sid uuid.UUID, h Handle, mode AccessMode) (*Grant, error) {
	t.reg.mu.Lock()
	defer t.reg.mu.Unlock()

	e, err := t.reg.lookup(h)
	if err != nil {
		return nil, err
	}
	if err := e.state.acquire(h, mode); err != nil {
		return nil, err
	}

	Logger().Debug("grant acquired",
		"handle", h, "mode", mode.String(), "state", e.state.snapshot().String(), "scope", shortID(sid))
	return &Grant{handle: h, mode: mode, scope: sid}, nil
}

// release returns a grant to the tracker on behalf of the scope identified
// by sid.
//
// A double release, a release by a scope that does not own the grant, or a
// release with no matching acquire is an invariant violation inside the
// core, not a recoverable usage error: release panics so the current frame
// aborts instead of rendering with silently repaired state.
func (t *Tracker) release(sid uuid.UUID, g *Grant) {
	if g == nil {
		panic("passgate: release of nil grant")
	}

	t.reg.mu.Lock()
	defer t.reg.mu.Unlock()

	if g.released {
		panic(fmt.Sprintf("passgate: double release of %v", g))
	}
	if g.scope != sid {
		panic(fmt.Sprintf("passgate: %v released by foreign scope %s", g, shortID(sid)))
	}

	e, err := t.reg.lookup(g.handle)
	if err != nil {
		// The registry refuses to retire busy resources, so a held grant
		// always has a live entry.
		panic(fmt.Sprintf("passgate: release of %v for retired resource: %v", g, err))
	}
	if err := e.state.release(g.handle, g.mode); err != nil {
		panic(err.Error())
	}
	g.released = true

	Logger().Debug("grant released",
		"handle", g.handle, "mode", g.mode.String(), "state", e.state.snapshot().String(), "scope", shortID(sid))
}
