package passgate

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Handle is the stable identity of a logical attachment-capable resource.
//
// Handles are assigned by a Registry, are never reused within a process, and
// stay valid across recreation of the underlying driver object. The zero
// value is never a registered handle.
type Handle uint64

// NilHandle is the zero handle. It never resolves.
const NilHandle Handle = 0

// String returns a short diagnostic form of the handle.
func (h Handle) String() string {
	if h == NilHandle {
		return "Handle(nil)"
	}
	return fmt.Sprintf("Handle(%d)", uint64(h))
}

// ObjectKind reports what kind of driver object backs a handle.
type ObjectKind int

const (
	// ObjectTexture is a texture usable as a color or depth-stencil attachment.
	ObjectTexture ObjectKind = iota

	// ObjectRenderbuffer is a renderbuffer attachment.
	ObjectRenderbuffer

	// ObjectDefaultFramebuffer is the driver-owned default framebuffer.
	ObjectDefaultFramebuffer
)

// String returns the string representation of ObjectKind.
func (k ObjectKind) String() string {
	switch k {
	case ObjectTexture:
		return "Texture"
	case ObjectRenderbuffer:
		return "Renderbuffer"
	case ObjectDefaultFramebuffer:
		return "DefaultFramebuffer"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// DriverObject identifies the underlying driver resource behind a handle.
//
// The core never inspects driver objects beyond their kind; adapters define
// concrete implementations (a GL texture name, a recorded placeholder) and
// receive them back through Pass bind calls.
type DriverObject interface {
	// Kind reports what driver object this is.
	Kind() ObjectKind
}

// AttachmentDescriptor describes a logical attachment resource at
// registration time. The descriptor is copied; it is immutable afterwards.
type AttachmentDescriptor struct {
	// Label is an optional debug name.
	Label string

	// Size is the attachment extent in texels. DepthOrArrayLayers is 1 for
	// plain 2D attachments.
	Size gputypes.Extent3D

	// Format is the pixel format of the attachment.
	Format gputypes.TextureFormat

	// Usage declares how the resource may be used. Registration requires
	// TextureUsageRenderAttachment for everything except the default
	// framebuffer; add TextureUsageTextureBinding for resources that read
	// passes will sample.
	Usage gputypes.TextureUsage
}

// isDepthStencilFormat reports whether a format only makes sense as a
// depth-stencil attachment. Such attachments do not count against the color
// attachment limit.
func isDepthStencilFormat(f gputypes.TextureFormat) bool {
	return f == gputypes.TextureFormatDepth24PlusStencil8
}

// Limits bounds what a Registry accepts. Adapters collect real driver limits
// and hand them to NewRegistryWithLimits; the zero value of any field means
// "unlimited".
type Limits struct {
	// MaxAttachmentSize is the maximum width and height of an attachment.
	MaxAttachmentSize uint32

	// MaxColorAttachments is the maximum number of simultaneously registered
	// color attachments.
	MaxColorAttachments uint32

	// MaxTextureUnits is the maximum number of read slots a single pass may
	// bind.
	MaxTextureUnits uint32
}
