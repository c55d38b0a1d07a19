package passgate

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewTracker_NilRegistryPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	NewTracker(nil)
}

func TestTracker_State(t *testing.T) {
	_, tracker, handles := newTestStack(t, 1)

	got, err := tracker.State(handles[0])
	if err != nil {
		t.Fatalf("State() error = %v", err)
	}
	if got != (AccessState{Kind: StateFree}) {
		t.Errorf("State() = %v, want Free", got)
	}

	if _, err := tracker.State(Handle(999)); !errors.Is(err, ErrUnknownHandle) {
		t.Errorf("State(unknown) = %v, want ErrUnknownHandle", err)
	}
}

func TestTracker_AcquireUnknownHandle(t *testing.T) {
	_, tracker, _ := newTestStack(t, 1)

	sid := uuid.New()
	if _, err := tracker.acquire(sid, Handle(999), AccessRead); !errors.Is(err, ErrUnknownHandle) {
		t.Errorf("acquire(unknown) = %v, want ErrUnknownHandle", err)
	}
}

func TestTracker_GrantFields(t *testing.T) {
	_, tracker, handles := newTestStack(t, 1)

	sid := uuid.New()
	g, err := tracker.acquire(sid, handles[0], AccessWrite)
	if err != nil {
		t.Fatal(err)
	}
	if g.Handle() != handles[0] {
		t.Errorf("Handle() = %v, want %v", g.Handle(), handles[0])
	}
	if g.Mode() != AccessWrite {
		t.Errorf("Mode() = %v, want Write", g.Mode())
	}
	if g.ScopeID() != sid {
		t.Errorf("ScopeID() = %v, want %v", g.ScopeID(), sid)
	}
	if g.Released() {
		t.Error("fresh grant reports released")
	}

	tracker.release(sid, g)
	if !g.Released() {
		t.Error("grant not marked released")
	}
	if got := mustState(t, tracker, handles[0]); got.Kind != StateFree {
		t.Errorf("state after release = %v, want Free", got)
	}
}

func TestTracker_DoubleReleasePanics(t *testing.T) {
	_, tracker, handles := newTestStack(t, 1)

	sid := uuid.New()
	g, err := tracker.acquire(sid, handles[0], AccessRead)
	if err != nil {
		t.Fatal(err)
	}
	tracker.release(sid, g)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on double release")
		}
		if msg, ok := r.(string); !ok || !strings.Contains(msg, "double release") {
			t.Errorf("panic = %v, want double release message", r)
		}
	}()
	tracker.release(sid, g)
}

func TestTracker_ForeignScopeReleasePanics(t *testing.T) {
	_, tracker, handles := newTestStack(t, 1)

	owner := uuid.New()
	g, err := tracker.acquire(owner, handles[0], AccessRead)
	if err != nil {
		t.Fatal(err)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on foreign release")
		}
		// Clean up so the registry is consistent for other subtests.
		tracker.release(owner, g)
	}()
	tracker.release(uuid.New(), g)
}

func TestTracker_NilGrantReleasePanics(t *testing.T) {
	_, tracker, _ := newTestStack(t, 1)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on nil grant")
		}
	}()
	tracker.release(uuid.New(), nil)
}
