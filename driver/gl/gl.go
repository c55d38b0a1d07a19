// Package gl provides the OpenGL adapter for passgate.
//
// OpenGL is the implicit-state driver the library exists for: bindings live
// in ambient global state, and this adapter is the single place that state
// is touched. Grants acquired by the core translate to framebuffer
// attachment binding (writes) and texture unit binding (reads) on the
// context that is current when Init is called.
//
// Importing this package registers the adapter:
//
//	import _ "github.com/passgate/passgate/driver/gl"
//
// The caller owns context creation and must keep the context current on the
// calling thread for the adapter's whole lifetime; the app package does this
// through GLFW.
package gl

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/passgate/passgate"
	"github.com/passgate/passgate/driver"
)

func init() {
	driver.Register(driver.AdapterGL, func() driver.Adapter { return New() })
}

// GL adapter errors.
var (
	// ErrNoContext is returned when Init fails to load GL function pointers,
	// which almost always means no context is current.
	ErrNoContext = errors.New("gl: no current context")

	// ErrUnreadable is returned when a read bind targets an object that
	// shaders cannot sample (a renderbuffer or the default framebuffer).
	ErrUnreadable = errors.New("gl: object cannot be bound for shader reads")

	// ErrUnknownObject is returned when an object was not created by this
	// package.
	ErrUnknownObject = errors.New("gl: unknown driver object")

	// ErrFramebufferIncomplete is returned by CheckFramebuffer when the
	// bound attachments do not form a complete framebuffer.
	ErrFramebufferIncomplete = errors.New("gl: framebuffer incomplete")
)

// Texture is a GL texture usable as an attachment or a sampled input.
type Texture struct {
	// Name is the GL texture name.
	Name uint32

	// DepthStencil marks the texture as a depth-stencil attachment; write
	// binds then target the depth-stencil attachment point regardless of
	// the requested color index.
	DepthStencil bool
}

// Kind implements passgate.DriverObject.
func (t *Texture) Kind() passgate.ObjectKind { return passgate.ObjectTexture }

// Renderbuffer is a GL renderbuffer. Renderbuffers are write-only
// attachments; binding one for reads fails with ErrUnreadable.
type Renderbuffer struct {
	// Name is the GL renderbuffer name.
	Name uint32

	// DepthStencil marks the renderbuffer as a depth-stencil attachment.
	DepthStencil bool
}

// Kind implements passgate.DriverObject.
func (r *Renderbuffer) Kind() passgate.ObjectKind { return passgate.ObjectRenderbuffer }

// DefaultFramebuffer is the window-system framebuffer, GL object zero.
type DefaultFramebuffer struct{}

// Kind implements passgate.DriverObject.
func (DefaultFramebuffer) Kind() passgate.ObjectKind { return passgate.ObjectDefaultFramebuffer }

// Adapter is the OpenGL driver adapter.
//
// The adapter owns one framebuffer object; write binds attach objects to it
// (or select the default framebuffer), read binds claim texture units. The
// adapter tracks its own bindings so Unbind can restore a clean state, since
// GL itself keeps no record the core could consult.
//
// Adapter is not safe for concurrent use; GL contexts are thread-bound
// anyway.
type Adapter struct {
	mu          sync.Mutex
	initialized bool
	info        driver.Information

	// fbo is the adapter-owned draw framebuffer.
	fbo uint32

	// reads maps bound-for-read objects to their texture unit.
	reads map[passgate.DriverObject]uint32

	// writes maps bound-for-write objects to their attachment point.
	writes map[passgate.DriverObject]uint32
}

// New creates an uninitialized adapter. Call Init with a current GL context.
func New() *Adapter {
	return &Adapter{
		reads:  make(map[passgate.DriverObject]uint32),
		writes: make(map[passgate.DriverObject]uint32),
	}
}

// Name implements driver.Adapter.
func (a *Adapter) Name() string { return driver.AdapterGL }

// Init loads GL function pointers from the current context, creates the
// adapter framebuffer, and collects driver information and limits.
func (a *Adapter) Init() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.initialized {
		return nil
	}
	if err := gl.Init(); err != nil {
		return fmt.Errorf("%w: %v", ErrNoContext, err)
	}

	gl.GenFramebuffers(1, &a.fbo)

	var maxSize, maxColor, maxUnits int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &maxSize)
	gl.GetIntegerv(gl.MAX_COLOR_ATTACHMENTS, &maxColor)
	gl.GetIntegerv(gl.MAX_TEXTURE_IMAGE_UNITS, &maxUnits)

	a.info = driver.Information{
		Vendor:   gl.GoStr(gl.GetString(gl.VENDOR)),
		Renderer: gl.GoStr(gl.GetString(gl.RENDERER)),
		Version:  gl.GoStr(gl.GetString(gl.VERSION)),
		Limits: driver.Limits{
			MaxAttachmentSize:   uint32(maxSize),
			MaxColorAttachments: uint32(maxColor),
			MaxTextureUnits:     uint32(maxUnits),
		},
	}
	a.initialized = true

	passgate.Logger().Info("gl adapter initialized",
		"vendor", a.info.Vendor, "renderer", a.info.Renderer, "version", a.info.Version)
	return nil
}

// Close deletes the adapter framebuffer. The GL context itself belongs to
// the caller.
func (a *Adapter) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.initialized {
		return
	}
	gl.DeleteFramebuffers(1, &a.fbo)
	a.fbo = 0
	a.reads = make(map[passgate.DriverObject]uint32)
	a.writes = make(map[passgate.DriverObject]uint32)
	a.initialized = false
}

// Information implements driver.Adapter.
func (a *Adapter) Information() driver.Information {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.info
}

// BindForRead binds a texture to the given texture unit.
func (a *Adapter) BindForRead(obj passgate.DriverObject, unit int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.initialized {
		return driver.ErrNotInitialized
	}

	t, ok := obj.(*Texture)
	if !ok {
		if obj.Kind() == passgate.ObjectRenderbuffer || obj.Kind() == passgate.ObjectDefaultFramebuffer {
			return fmt.Errorf("%w: %s", ErrUnreadable, obj.Kind())
		}
		return ErrUnknownObject
	}

	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, t.Name)
	a.reads[obj] = uint32(unit)
	return nil
}

// BindForWrite attaches the object to the adapter framebuffer at the given
// color attachment index, or selects the default framebuffer.
func (a *Adapter) BindForWrite(obj passgate.DriverObject, attachment int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.initialized {
		return driver.ErrNotInitialized
	}

	switch o := obj.(type) {
	case DefaultFramebuffer, *DefaultFramebuffer:
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		a.writes[obj] = 0
		return nil

	case *Texture:
		point := attachmentPoint(o.DepthStencil, attachment)
		gl.BindFramebuffer(gl.FRAMEBUFFER, a.fbo)
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, point, gl.TEXTURE_2D, o.Name, 0)
		a.writes[obj] = point
		return nil

	case *Renderbuffer:
		point := attachmentPoint(o.DepthStencil, attachment)
		gl.BindFramebuffer(gl.FRAMEBUFFER, a.fbo)
		gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, point, gl.RENDERBUFFER, o.Name)
		a.writes[obj] = point
		return nil

	default:
		return ErrUnknownObject
	}
}

// Unbind removes whatever binding the adapter holds for the object.
// Unbinding an object with no binding is a no-op.
func (a *Adapter) Unbind(obj passgate.DriverObject) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.initialized {
		return driver.ErrNotInitialized
	}

	if unit, ok := a.reads[obj]; ok {
		gl.ActiveTexture(gl.TEXTURE0 + unit)
		gl.BindTexture(gl.TEXTURE_2D, 0)
		delete(a.reads, obj)
	}

	if point, ok := a.writes[obj]; ok {
		switch obj.(type) {
		case *Texture:
			gl.BindFramebuffer(gl.FRAMEBUFFER, a.fbo)
			gl.FramebufferTexture2D(gl.FRAMEBUFFER, point, gl.TEXTURE_2D, 0, 0)
		case *Renderbuffer:
			gl.BindFramebuffer(gl.FRAMEBUFFER, a.fbo)
			gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, point, gl.RENDERBUFFER, 0)
		}
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		delete(a.writes, obj)
	}

	return nil
}

// CheckFramebuffer validates the adapter framebuffer after a pass has bound
// its write attachments. Call it before issuing draws into offscreen
// targets; the default framebuffer is always complete.
func (a *Adapter) CheckFramebuffer() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.initialized {
		return driver.ErrNotInitialized
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, a.fbo)
	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("%w: status 0x%04x", ErrFramebufferIncomplete, status)
	}
	return nil
}

// attachmentPoint maps a logical attachment index to a GL attachment point.
func attachmentPoint(depthStencil bool, attachment int) uint32 {
	if depthStencil {
		return gl.DEPTH_STENCIL_ATTACHMENT
	}
	return gl.COLOR_ATTACHMENT0 + uint32(attachment)
}
