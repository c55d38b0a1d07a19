// Package passgate arbitrates access to render-target resources on top of an
// implicit-state graphics driver.
//
// # Overview
//
// Implicit-state drivers (classic OpenGL being the canonical case) track
// resource bindings in ambient global state: whichever texture or framebuffer
// was bound last wins, and reading an attachment that another pass is still
// writing is silently undefined behavior. Modern explicit APIs instead make
// every resource carry a declared access state. passgate emulates that model:
// every attachment-capable resource is either free, shared between readers,
// or exclusively owned by a single writer, and every violation is reported at
// submission time instead of being left to the driver.
//
// # Quick Start
//
//	import "github.com/passgate/passgate"
//
//	reg := passgate.NewRegistry()
//	tracker := passgate.NewTracker(reg)
//
//	color, _ := reg.Register(passgate.AttachmentDescriptor{
//	    Label:  "scene-color",
//	    Size:   gputypes.Extent3D{Width: 800, Height: 600, DepthOrArrayLayers: 1},
//	    Format: gputypes.TextureFormatRGBA8Unorm,
//	    Usage:  gputypes.TextureUsageRenderAttachment,
//	}, obj)
//
//	scope := passgate.NewScope(tracker, "scene pass")
//	scope.Write(color)
//	err := scope.Execute(adapter, func(p *passgate.Pass) error {
//	    return p.BindForWrite(color, 0)
//	})
//
// # Architecture
//
// The library is organized into:
//   - Root package: Registry (handle identity), Tracker (access state
//     machine), Scope and Pass (per-pass acquisition and execution), Grant
//     (held capability tokens)
//   - driver: the adapter boundary, adapter registry, and driver information
//   - driver/gl: OpenGL adapter (framebuffer attachment binding)
//   - driver/record: pure-Go recording adapter used as a fallback and in tests
//   - app: window, context, and configuration bootstrap for programs built on
//     the library
//
// # Access Model
//
// A resource is always in exactly one of three states: Free, SharedRead(n)
// with n >= 1 readers, or ExclusiveWrite. Acquisitions that cannot be granted
// fail immediately with an AccessConflictError; nothing blocks or queues. A
// pass declares its read and write sets up front, acquires all grants
// atomically (any failure rolls back the grants already taken), executes its
// driver commands, and releases everything on every exit path.
//
// # Scheduling
//
// The model is single threaded and cooperative: one pass runs acquire,
// execute, release to completion before the next begins. The tracker still
// guards its table with a mutex so that diagnostic inspection from other
// goroutines is safe, but no operation ever waits for a grant.
package passgate

// Version information
const (
	// Version is the current version of the library
	Version = "0.2.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 2

	// VersionPatch is the patch version
	VersionPatch = 0
)
