package passgate

import (
	"errors"
	"testing"
)

func TestAccessState_AcquireTransitions(t *testing.T) {
	tests := []struct {
		name    string
		start   accessState
		mode    AccessMode
		want    AccessState
		wantErr bool
	}{
		{
			name:  "free to shared read",
			start: accessState{kind: StateFree},
			mode:  AccessRead,
			want:  AccessState{Kind: StateSharedRead, Readers: 1},
		},
		{
			name:  "shared read adds reader",
			start: accessState{kind: StateSharedRead, readers: 2},
			mode:  AccessRead,
			want:  AccessState{Kind: StateSharedRead, Readers: 3},
		},
		{
			name:  "free to exclusive write",
			start: accessState{kind: StateFree},
			mode:  AccessWrite,
			want:  AccessState{Kind: StateExclusiveWrite},
		},
		{
			name:    "write while shared read fails",
			start:   accessState{kind: StateSharedRead, readers: 1},
			mode:    AccessWrite,
			want:    AccessState{Kind: StateSharedRead, Readers: 1},
			wantErr: true,
		},
		{
			name:    "write while exclusive write fails",
			start:   accessState{kind: StateExclusiveWrite},
			mode:    AccessWrite,
			want:    AccessState{Kind: StateExclusiveWrite},
			wantErr: true,
		},
		{
			name:    "read while exclusive write fails",
			start:   accessState{kind: StateExclusiveWrite},
			mode:    AccessRead,
			want:    AccessState{Kind: StateExclusiveWrite},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.start
			err := s.acquire(Handle(7), tt.mode)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, ErrAccessConflict) {
					t.Errorf("expected ErrAccessConflict, got %v", err)
				}
				var conflict *AccessConflictError
				if !errors.As(err, &conflict) {
					t.Fatalf("expected *AccessConflictError, got %T", err)
				}
				if conflict.Handle != Handle(7) {
					t.Errorf("conflict handle = %v, want Handle(7)", conflict.Handle)
				}
				if conflict.Requested != tt.mode {
					t.Errorf("conflict requested = %v, want %v", conflict.Requested, tt.mode)
				}
				if conflict.Current != tt.want {
					t.Errorf("conflict current = %v, want %v", conflict.Current, tt.want)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			// The state must match want in both directions: advanced on
			// success, untouched on failure.
			if got := s.snapshot(); got != tt.want {
				t.Errorf("state = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAccessState_ReleaseTransitions(t *testing.T) {
	tests := []struct {
		name    string
		start   accessState
		mode    AccessMode
		want    AccessState
		wantErr bool
	}{
		{
			name:  "last reader frees",
			start: accessState{kind: StateSharedRead, readers: 1},
			mode:  AccessRead,
			want:  AccessState{Kind: StateFree},
		},
		{
			name:  "one of several readers decrements",
			start: accessState{kind: StateSharedRead, readers: 3},
			mode:  AccessRead,
			want:  AccessState{Kind: StateSharedRead, Readers: 2},
		},
		{
			name:  "writer frees",
			start: accessState{kind: StateExclusiveWrite},
			mode:  AccessWrite,
			want:  AccessState{Kind: StateFree},
		},
		{
			name:    "read release on free is an invariant violation",
			start:   accessState{kind: StateFree},
			mode:    AccessRead,
			want:    AccessState{Kind: StateFree},
			wantErr: true,
		},
		{
			name:    "write release on free is an invariant violation",
			start:   accessState{kind: StateFree},
			mode:    AccessWrite,
			want:    AccessState{Kind: StateFree},
			wantErr: true,
		},
		{
			name:    "write release while shared read is an invariant violation",
			start:   accessState{kind: StateSharedRead, readers: 1},
			mode:    AccessWrite,
			want:    AccessState{Kind: StateSharedRead, Readers: 1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.start
			err := s.release(Handle(7), tt.mode)

			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := s.snapshot(); got != tt.want {
				t.Errorf("state = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAccessState_String(t *testing.T) {
	tests := []struct {
		state AccessState
		want  string
	}{
		{AccessState{Kind: StateFree}, "Free"},
		{AccessState{Kind: StateSharedRead, Readers: 2}, "SharedRead(2)"},
		{AccessState{Kind: StateExclusiveWrite}, "ExclusiveWrite"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestAccessMode_String(t *testing.T) {
	if AccessRead.String() != "Read" || AccessWrite.String() != "Write" {
		t.Errorf("AccessMode strings = %q, %q", AccessRead.String(), AccessWrite.String())
	}
	if got := AccessMode(99).String(); got != "Unknown(99)" {
		t.Errorf("AccessMode(99).String() = %q", got)
	}
}
