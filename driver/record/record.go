// Package record provides a pure-Go adapter that records the bind and
// unbind stream instead of touching a real driver.
//
// It is the headless fallback when no GL context exists and the test double
// for everything built on the adapter boundary: tests run passes against a
// Recorder and assert on the recorded operations.
//
// Importing this package registers the adapter:
//
//	import _ "github.com/passgate/passgate/driver/record"
package record

import (
	"sync"

	"github.com/passgate/passgate"
	"github.com/passgate/passgate/driver"
)

func init() {
	driver.Register(driver.AdapterRecord, func() driver.Adapter { return New() })
}

// OpKind identifies a recorded driver operation.
type OpKind int

const (
	// OpBindRead is a BindForRead call.
	OpBindRead OpKind = iota

	// OpBindWrite is a BindForWrite call.
	OpBindWrite

	// OpUnbind is an Unbind call.
	OpUnbind
)

// String returns the string representation of OpKind.
func (k OpKind) String() string {
	switch k {
	case OpBindRead:
		return "BindRead"
	case OpBindWrite:
		return "BindWrite"
	case OpUnbind:
		return "Unbind"
	default:
		return "Unknown"
	}
}

// Op is one recorded driver operation.
type Op struct {
	// Kind is the operation.
	Kind OpKind

	// Object is the driver object the operation targeted.
	Object passgate.DriverObject

	// Slot is the texture unit (BindRead) or color attachment index
	// (BindWrite). Zero for Unbind.
	Slot int
}

// Object is a synthetic driver object for headless use.
type Object struct {
	// Label names the object in recorded streams.
	Label string

	kind passgate.ObjectKind
}

// Kind implements passgate.DriverObject.
func (o *Object) Kind() passgate.ObjectKind { return o.kind }

// NewTexture creates a synthetic texture object.
func NewTexture(label string) *Object {
	return &Object{Label: label, kind: passgate.ObjectTexture}
}

// NewRenderbuffer creates a synthetic renderbuffer object.
func NewRenderbuffer(label string) *Object {
	return &Object{Label: label, kind: passgate.ObjectRenderbuffer}
}

// DefaultFramebuffer creates a synthetic default framebuffer object.
func DefaultFramebuffer() *Object {
	return &Object{Label: "default-framebuffer", kind: passgate.ObjectDefaultFramebuffer}
}

// Recorder is the recording adapter.
//
// Recorder is safe for concurrent use, although the core only drives it
// from one goroutine at a time.
type Recorder struct {
	mu          sync.Mutex
	initialized bool
	ops         []Op
}

// New creates a recorder. Call Init before use, as with any adapter.
func New() *Recorder {
	return &Recorder{}
}

// Name implements driver.Adapter.
func (r *Recorder) Name() string { return driver.AdapterRecord }

// Init implements driver.Adapter.
func (r *Recorder) Init() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.initialized = true
	return nil
}

// Close implements driver.Adapter.
func (r *Recorder) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.initialized = false
	r.ops = nil
}

// Information implements driver.Adapter. The recorder reports generous
// synthetic limits so headless runs never trip registry checks.
func (r *Recorder) Information() driver.Information {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.initialized {
		return driver.Information{}
	}
	return driver.Information{
		Vendor:   "passgate",
		Renderer: "record",
		Version:  passgate.Version,
		Limits: driver.Limits{
			MaxAttachmentSize:   16384,
			MaxColorAttachments: 8,
			MaxTextureUnits:     16,
		},
	}
}

// BindForRead implements passgate.Adapter.
func (r *Recorder) BindForRead(obj passgate.DriverObject, unit int) error {
	return r.record(Op{Kind: OpBindRead, Object: obj, Slot: unit})
}

// BindForWrite implements passgate.Adapter.
func (r *Recorder) BindForWrite(obj passgate.DriverObject, attachment int) error {
	return r.record(Op{Kind: OpBindWrite, Object: obj, Slot: attachment})
}

// Unbind implements passgate.Adapter.
func (r *Recorder) Unbind(obj passgate.DriverObject) error {
	return r.record(Op{Kind: OpUnbind, Object: obj})
}

func (r *Recorder) record(op Op) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.initialized {
		return driver.ErrNotInitialized
	}
	r.ops = append(r.ops, op)
	return nil
}

// Ops returns a copy of the recorded operation stream.
func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Op, len(r.ops))
	copy(out, r.ops)
	return out
}

// Reset clears the recorded stream without deinitializing the adapter.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = nil
}
