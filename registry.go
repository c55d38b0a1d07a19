package passgate

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
)

// Registry errors.
var (
	// ErrUnknownHandle is returned when a handle was never registered or has
	// been retired.
	ErrUnknownHandle = errors.New("passgate: unknown handle")

	// ErrResourceBusy is returned when retiring a resource that still has
	// outstanding grants.
	ErrResourceBusy = errors.New("passgate: resource busy")

	// ErrNilObject is returned when registering a nil driver object.
	ErrNilObject = errors.New("passgate: driver object is nil")

	// ErrInvalidUsage is returned when a descriptor does not declare
	// render-attachment usage.
	ErrInvalidUsage = errors.New("passgate: descriptor usage lacks render attachment")

	// ErrLimitExceeded is returned when a registration exceeds the driver
	// limits the registry was configured with.
	ErrLimitExceeded = errors.New("passgate: driver limit exceeded")
)

// entry is one registered resource: the immutable descriptor, the backing
// driver object, and the live access state.
type entry struct {
	desc  AttachmentDescriptor
	obj   DriverObject
	state accessState
}

// Registry assigns stable handle identities to logical attachment resources.
//
// The registry owns the handle table and the per-resource access state
// records, but performs no driver calls and never mutates access state
// itself; all state transitions go through a Tracker.
//
// Registry is safe for concurrent use. Handles are monotonically assigned
// and never reused, so a stale handle can only miss, never alias.
type Registry struct {
	mu sync.RWMutex

	// next is the last handle value assigned. Guarded by mu; handles start
	// at 1 so that NilHandle never resolves.
	next uint64

	// entries maps live handles to their resources.
	entries map[Handle]*entry

	// limits bounds registrations. Zero fields mean unlimited.
	limits Limits

	// colorCount tracks registered color (non depth-stencil) attachments
	// against limits.MaxColorAttachments.
	colorCount uint32
}

// NewRegistry creates an empty registry with no driver limits applied.
func NewRegistry() *Registry {
	return NewRegistryWithLimits(Limits{})
}

// NewRegistryWithLimits creates an empty registry that rejects registrations
// exceeding the given driver limits. Adapters collect real limits during
// initialization and hand them here.
func NewRegistryWithLimits(limits Limits) *Registry {
	return &Registry{
		entries: make(map[Handle]*entry),
		limits:  limits,
	}
}

// Register creates a fresh, never-reused handle for the given logical
// resource and initializes its access state to Free.
//
// Returns an error if:
//   - obj is nil
//   - the descriptor usage lacks TextureUsageRenderAttachment (the default
//     framebuffer object is exempt, the driver owns its storage)
//   - the descriptor exceeds the configured driver limits
func (r *Registry) Register(desc AttachmentDescriptor, obj DriverObject) (Handle, error) {
	if obj == nil {
		return NilHandle, ErrNilObject
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if obj.Kind() != ObjectDefaultFramebuffer {
		if desc.Usage&gputypes.TextureUsageRenderAttachment == 0 {
			return NilHandle, fmt.Errorf("%w: %q", ErrInvalidUsage, desc.Label)
		}
		if err := r.checkLimits(desc); err != nil {
			return NilHandle, err
		}
	}

	r.next++
	h := Handle(r.next)
	r.entries[h] = &entry{desc: desc, obj: obj}
	if obj.Kind() != ObjectDefaultFramebuffer && !isDepthStencilFormat(desc.Format) {
		r.colorCount++
	}

	Logger().Debug("registered attachment",
		"handle", h, "label", desc.Label, "kind", obj.Kind().String())
	return h, nil
}

// checkLimits validates a descriptor against the configured driver limits.
// Callers must hold r.mu.
func (r *Registry) checkLimits(desc AttachmentDescriptor) error {
	if max := r.limits.MaxAttachmentSize; max > 0 && (desc.Size.Width > max || desc.Size.Height > max) {
		return fmt.Errorf("%w: attachment %dx%d exceeds maximum extent %d",
			ErrLimitExceeded, desc.Size.Width, desc.Size.Height, max)
	}
	if n := r.limits.MaxColorAttachments; n > 0 && !isDepthStencilFormat(desc.Format) && r.colorCount >= n {
		return fmt.Errorf("%w: already holding %d color attachments", ErrLimitExceeded, r.colorCount)
	}
	return nil
}

// Resolve returns the driver object behind a handle.
// Returns ErrUnknownHandle if the handle was never registered or has been
// retired.
func (r *Registry) Resolve(h Handle) (DriverObject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[h]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownHandle, h)
	}
	return e.obj, nil
}

// Describe returns the descriptor a handle was registered with.
// Returns ErrUnknownHandle if the handle is not live.
func (r *Registry) Describe(h Handle) (AttachmentDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[h]
	if !ok {
		return AttachmentDescriptor{}, fmt.Errorf("%w: %v", ErrUnknownHandle, h)
	}
	return e.desc, nil
}

// Retire removes a resource from the registry. The handle never resolves
// again and is never reassigned.
//
// Returns ErrResourceBusy if any grant on the handle is outstanding; a
// resource cannot be torn down while in use.
func (r *Registry) Retire(h Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[h]
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnknownHandle, h)
	}
	if e.state.kind != StateFree {
		return fmt.Errorf("%w: %v is %s", ErrResourceBusy, h, e.state.snapshot())
	}

	delete(r.entries, h)
	if e.obj.Kind() != ObjectDefaultFramebuffer && !isDepthStencilFormat(e.desc.Format) {
		r.colorCount--
	}

	Logger().Debug("retired attachment", "handle", h, "label", e.desc.Label)
	return nil
}

// Len returns the number of live handles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// lookup returns the live entry for a handle. Callers must hold r.mu.
func (r *Registry) lookup(h Handle) (*entry, error) {
	e, ok := r.entries[h]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownHandle, h)
	}
	return e, nil
}
