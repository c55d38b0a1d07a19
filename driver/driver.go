// Package driver defines the adapter boundary between the passgate core and
// a concrete implicit-state graphics driver, together with a registry for
// selecting among the adapters that are compiled in.
//
// Adapters translate acquired access grants into ambient driver state: "bind
// this object for reading on unit N", "attach this object as render target
// M". They never arbitrate access themselves; the core only calls them while
// holding the corresponding grant.
package driver

import (
	"errors"

	"github.com/passgate/passgate"
)

// Common driver errors.
var (
	// ErrAdapterNotAvailable is returned when a requested adapter is not
	// registered.
	ErrAdapterNotAvailable = errors.New("driver: adapter not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("driver: adapter not initialized")
)

// Adapter names for the implementations this module ships.
const (
	// AdapterGL is the OpenGL adapter (driver/gl).
	AdapterGL = "gl"

	// AdapterRecord is the pure-Go recording adapter (driver/record).
	AdapterRecord = "record"
)

// Limits carries the resource bounds an adapter discovered from its driver.
type Limits = passgate.Limits

// Information describes the driver an adapter is bound to. Adapters collect
// it during Init; the app package logs it and feeds the limits into the
// resource registry.
type Information struct {
	// Vendor is the driver vendor string.
	Vendor string

	// Renderer is the device or renderer string.
	Renderer string

	// Version is the driver version string.
	Version string

	// Limits are the resource bounds the driver reports.
	Limits Limits
}

// Adapter is a managed driver adapter: the bind operations consumed by the
// core plus lifecycle and introspection.
//
// Adapters must be registered via Register and are selected via Get or
// Default.
type Adapter interface {
	passgate.Adapter

	// Init initializes the adapter. For context-bound drivers the caller
	// must have made the driver context current first.
	Init() error

	// Close releases adapter resources. The adapter must not be used after
	// Close.
	Close()

	// Information returns driver information collected during Init.
	// Returns the zero value before Init.
	Information() Information
}
