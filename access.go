package passgate

import (
	"errors"
	"fmt"
)

// Access arbitration errors.
var (
	// ErrAccessConflict is returned when an acquisition would violate the
	// shared-read / exclusive-write invariant. Errors carry detail as an
	// *AccessConflictError and match this sentinel through errors.Is.
	ErrAccessConflict = errors.New("passgate: access conflict")
)

// AccessMode is the access a pass declares on a resource.
type AccessMode int

const (
	// AccessRead is shared read-only access. Any number of passes may hold
	// read access to the same resource at once.
	AccessRead AccessMode = iota

	// AccessWrite is exclusive read-write access. A writer excludes every
	// other reader and writer.
	AccessWrite
)

// String returns the string representation of AccessMode.
func (m AccessMode) String() string {
	switch m {
	case AccessRead:
		return "Read"
	case AccessWrite:
		return "Write"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// StateKind is the arbitration state of a resource.
type StateKind int

const (
	// StateFree means no pass currently holds the resource.
	StateFree StateKind = iota

	// StateSharedRead means one or more passes hold read access.
	StateSharedRead

	// StateExclusiveWrite means exactly one pass holds write access.
	StateExclusiveWrite
)

// String returns the string representation of StateKind.
func (k StateKind) String() string {
	switch k {
	case StateFree:
		return "Free"
	case StateSharedRead:
		return "SharedRead"
	case StateExclusiveWrite:
		return "ExclusiveWrite"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// AccessState is a snapshot of a resource's arbitration state.
//
// Readers is at least 1 when Kind is StateSharedRead and 0 otherwise; the
// tracker never produces any other combination.
type AccessState struct {
	// Kind is the current state.
	Kind StateKind

	// Readers is the number of outstanding read grants.
	Readers int
}

// String returns a compact diagnostic form, e.g. "SharedRead(2)".
func (s AccessState) String() string {
	if s.Kind == StateSharedRead {
		return fmt.Sprintf("SharedRead(%d)", s.Readers)
	}
	return s.Kind.String()
}

// AccessConflictError reports an acquisition that could not be granted.
// It unwraps to ErrAccessConflict.
type AccessConflictError struct {
	// Handle is the contended resource.
	Handle Handle

	// Requested is the access mode that was refused.
	Requested AccessMode

	// Current is the state the resource was in at the time of the request.
	// The state is left unchanged by the failed acquisition.
	Current AccessState
}

// Error implements the error interface.
func (e *AccessConflictError) Error() string {
	return fmt.Sprintf("passgate: access conflict: %v requested %s while %s",
		e.Handle, e.Requested, e.Current)
}

// Unwrap makes the error match ErrAccessConflict through errors.Is.
func (e *AccessConflictError) Unwrap() error { return ErrAccessConflict }

// accessState is the live per-resource state machine. The tracker is its
// sole mutator; everything else sees immutable AccessState snapshots.
//
// Transitions:
//
//	Free            --acquire(Read)-->  SharedRead(1)
//	SharedRead(n)   --acquire(Read)-->  SharedRead(n+1)
//	Free            --acquire(Write)--> ExclusiveWrite
//	SharedRead(n>1) --release(Read)-->  SharedRead(n-1)
//	SharedRead(1)   --release(Read)-->  Free
//	ExclusiveWrite  --release(Write)--> Free
//
// Every other acquisition fails and leaves the state untouched. Every other
// release is an invariant violation (a release without a matching grant) and
// is reported as an error for the tracker to escalate.
type accessState struct {
	kind    StateKind
	readers int
}

// snapshot returns the externally visible form of the state.
func (s *accessState) snapshot() AccessState {
	return AccessState{Kind: s.kind, Readers: s.readers}
}

// acquire attempts the transition for mode. On conflict it returns an
// *AccessConflictError carrying the (unchanged) current state; the handle is
// filled in by the caller.
func (s *accessState) acquire(h Handle, mode AccessMode) error {
	switch mode {
	case AccessRead:
		if s.kind == StateExclusiveWrite {
			return &AccessConflictError{Handle: h, Requested: mode, Current: s.snapshot()}
		}
		s.kind = StateSharedRead
		s.readers++
		return nil

	case AccessWrite:
		if s.kind != StateFree {
			return &AccessConflictError{Handle: h, Requested: mode, Current: s.snapshot()}
		}
		s.kind = StateExclusiveWrite
		return nil

	default:
		return fmt.Errorf("passgate: invalid access mode %d", int(mode))
	}
}

// release undoes a prior successful acquire for mode. A release that has no
// matching grant returns an error; the tracker treats that as a core bug.
func (s *accessState) release(h Handle, mode AccessMode) error {
	switch mode {
	case AccessRead:
		if s.kind != StateSharedRead || s.readers < 1 {
			return fmt.Errorf("passgate: release of read grant on %v in state %s without a matching acquire", h, s.snapshot())
		}
		s.readers--
		if s.readers == 0 {
			s.kind = StateFree
		}
		return nil

	case AccessWrite:
		if s.kind != StateExclusiveWrite {
			return fmt.Errorf("passgate: release of write grant on %v in state %s without a matching acquire", h, s.snapshot())
		}
		s.kind = StateFree
		return nil

	default:
		return fmt.Errorf("passgate: invalid access mode %d", int(mode))
	}
}
