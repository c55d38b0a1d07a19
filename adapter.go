package passgate

// Adapter is the boundary to the implicit-state driver.
//
// The core calls these operations only from inside a scope's Executing
// state, while holding the corresponding grant. The adapter translates them
// into concrete driver configuration (framebuffer attachment binding,
// texture unit binding); it performs no access arbitration of its own.
//
// The driver package wraps this interface with lifecycle management and an
// adapter registry; implementations live in driver/gl and driver/record.
type Adapter interface {
	// Name returns the adapter identifier (e.g. "gl", "record").
	Name() string

	// BindForRead binds the object for shader reads on the given texture
	// unit.
	BindForRead(obj DriverObject, unit int) error

	// BindForWrite binds the object as the render target at the given
	// color attachment index. Depth-stencil objects and the default
	// framebuffer ignore the index.
	BindForWrite(obj DriverObject, attachment int) error

	// Unbind removes any binding the adapter holds for the object.
	Unbind(obj DriverObject) error
}
