package passgate

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Scope lifecycle errors.
var (
	// ErrScopeSealed is returned when a resource is declared after the
	// declaration phase has ended.
	ErrScopeSealed = errors.New("passgate: scope is sealed")

	// ErrConflictingDeclaration is returned when one scope declares the same
	// resource in both its read set and its write set.
	ErrConflictingDeclaration = errors.New("passgate: conflicting declaration")

	// ErrScopeReleased is returned when a released scope is executed again.
	ErrScopeReleased = errors.New("passgate: scope already released")

	// ErrNilAdapter is returned when Execute is called without an adapter.
	ErrNilAdapter = errors.New("passgate: adapter is nil")

	// ErrNotExecuting is returned when pass operations are called outside
	// the scope's Executing state.
	ErrNotExecuting = errors.New("passgate: pass is not executing")

	// ErrNotDeclared is returned when a pass binds a resource the scope did
	// not declare in the matching access mode.
	ErrNotDeclared = errors.New("passgate: resource not declared in this mode")
)

// ScopeState represents the lifecycle state of a pipeline execution scope.
type ScopeState int

const (
	// ScopeDeclared means the read and write sets are still being built.
	ScopeDeclared ScopeState = iota

	// ScopeAcquiring means grants are being requested from the tracker.
	ScopeAcquiring

	// ScopeExecuting means driver commands run with all grants held.
	ScopeExecuting

	// ScopeReleased is terminal: every grant has been returned.
	ScopeReleased
)

// String returns the string representation of ScopeState.
func (s ScopeState) String() string {
	switch s {
	case ScopeDeclared:
		return "Declared"
	case ScopeAcquiring:
		return "Acquiring"
	case ScopeExecuting:
		return "Executing"
	case ScopeReleased:
		return "Released"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Scope represents one rendering pass: a fixed set of resource accesses
// followed by driver commands.
//
// A scope moves through Declared -> Acquiring -> Executing -> Released.
// Resources are declared with Read and Write while the scope is in
// Declared; Execute seals the sets, acquires every grant atomically from the
// caller's perspective, runs the pass body, and releases everything on every
// exit path, including an error or panic in the body. Partial acquisition is
// never observable: if any single acquisition fails, the grants obtained so
// far are released in reverse order and the scope lands in Released with the
// triggering error.
//
// Scope is not safe for concurrent use. One scope runs to completion before
// the next begins; the tracker, not timing, enforces that a later scope
// cannot re-acquire what an unfinished scope still holds.
type Scope struct {
	tracker *Tracker
	id      uuid.UUID
	label   string
	state   ScopeState

	// reads and writes hold declared handles in declaration order. The two
	// sets are disjoint by construction.
	reads  []Handle
	writes []Handle

	// grants holds acquired grants in acquisition order.
	grants []*Grant
}

// NewScope creates a scope in the Declared state.
// The label is used for diagnostics only and may be empty.
func NewScope(tracker *Tracker, label string) *Scope {
	if tracker == nil {
		panic("passgate: NewScope called with nil tracker")
	}
	return &Scope{
		tracker: tracker,
		id:      uuid.New(),
		label:   label,
	}
}

// ID returns the scope's unique identity. Grants are bound to it.
func (s *Scope) ID() uuid.UUID { return s.id }

// Label returns the scope's debug label.
func (s *Scope) Label() string { return s.label }

// State returns the current lifecycle state.
func (s *Scope) State() ScopeState { return s.state }

// HeldGrants returns the number of grants the scope currently holds.
func (s *Scope) HeldGrants() int { return len(s.grants) }

// Read declares shared read access to a resource.
//
// Declaring the same handle for reading twice is a no-op. Returns
// ErrScopeSealed after the declaration phase and ErrConflictingDeclaration
// if the handle is already in the write set.
func (s *Scope) Read(h Handle) error {
	return s.declare(h, AccessRead)
}

// Write declares exclusive write access to a resource.
//
// Declaring the same handle for writing twice is a no-op. Returns
// ErrScopeSealed after the declaration phase and ErrConflictingDeclaration
// if the handle is already in the read set.
func (s *Scope) Write(h Handle) error {
	return s.declare(h, AccessWrite)
}

func (s *Scope) declare(h Handle, mode AccessMode) error {
	if s.state != ScopeDeclared {
		return fmt.Errorf("%w: cannot declare %v in state %s", ErrScopeSealed, h, s.state)
	}

	same, other := s.reads, s.writes
	if mode == AccessWrite {
		same, other = s.writes, s.reads
	}
	if containsHandle(other, h) {
		return fmt.Errorf("%w: %v declared for both read and write", ErrConflictingDeclaration, h)
	}
	if containsHandle(same, h) {
		return nil
	}

	if mode == AccessWrite {
		s.writes = append(s.writes, h)
	} else {
		s.reads = append(s.reads, h)
	}
	return nil
}

// Execute seals the scope, acquires every declared grant, runs fn with a
// Pass bound to the adapter, and releases all grants. Release is guaranteed
// on every exit path: body error, body panic, or acquisition failure.
//
// fn may be nil, in which case the scope only validates that all declared
// accesses can be granted together.
//
// Execute returns the acquisition error (the scope transitions directly to
// Released, holding nothing) or the error returned by fn.
func (s *Scope) Execute(adapter Adapter, fn func(*Pass) error) error {
	if s.state == ScopeReleased {
		return fmt.Errorf("%w: scope %q", ErrScopeReleased, s.label)
	}
	if s.state != ScopeDeclared {
		return fmt.Errorf("%w: scope %q is %s", ErrScopeSealed, s.label, s.state)
	}
	if adapter == nil {
		return ErrNilAdapter
	}

	s.state = ScopeAcquiring
	if err := s.acquireAll(); err != nil {
		s.state = ScopeReleased
		return fmt.Errorf("scope %q: %w", s.label, err)
	}

	s.state = ScopeExecuting
	pass := &Pass{scope: s, adapter: adapter, bound: make(map[Handle]struct{})}
	defer s.teardown(pass)

	if fn == nil {
		return nil
	}
	if err := fn(pass); err != nil {
		Logger().Warn("pass failed", "scope", s.label, "err", err)
		return fmt.Errorf("scope %q: %w", s.label, err)
	}
	return nil
}

// acquireAll requests grants for every declared resource, reads before
// writes, in declaration order. On any failure the grants already obtained
// are returned in reverse order so that no partial acquisition is ever
// observable.
func (s *Scope) acquireAll() error {
	request := func(handles []Handle, mode AccessMode) error {
		for _, h := range handles {
			g, err := s.tracker.acquire(s.id, h, mode)
			if err != nil {
				s.rollback()
				return err
			}
			s.grants = append(s.grants, g)
		}
		return nil
	}

	if err := request(s.reads, AccessRead); err != nil {
		return err
	}
	return request(s.writes, AccessWrite)
}

// rollback releases all grants obtained so far, most recent first.
func (s *Scope) rollback() {
	for i := len(s.grants) - 1; i >= 0; i-- {
		s.tracker.release(s.id, s.grants[i])
	}
	s.grants = nil
}

// teardown unbinds whatever the pass left bound and returns every grant to
// the tracker. Runs deferred from Execute so it also fires when the body
// panics.
func (s *Scope) teardown(pass *Pass) {
	pass.unbindAll()
	s.rollback()
	s.state = ScopeReleased
}

// grantFor returns the held grant on h in the given mode, or nil.
func (s *Scope) grantFor(h Handle, mode AccessMode) *Grant {
	for _, g := range s.grants {
		if g.handle == h && g.mode == mode {
			return g
		}
	}
	return nil
}

func containsHandle(hs []Handle, h Handle) bool {
	for _, x := range hs {
		if x == h {
			return true
		}
	}
	return false
}
