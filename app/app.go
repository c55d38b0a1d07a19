// Package app bootstraps a window, a GL context, and a configured passgate
// stack for programs built on the library.
//
// It plays the role the surrounding application environment usually plays:
// create the window and context, pick and initialize a driver adapter, wire
// logging, then hand control to the program with buffer-swap and delta-time
// helpers. The library core never depends on this package.
package app

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	charm "github.com/charmbracelet/log"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/passgate/passgate"
	"github.com/passgate/passgate/driver"
)

func init() {
	// GLFW event handling and GL contexts are bound to the main thread.
	runtime.LockOSThread()
}

// Environment is everything a program needs to render: the window, the
// selected driver adapter, and a registry/tracker pair sized from the
// adapter's reported limits.
type Environment struct {
	// Window is the GLFW window with a current GL context.
	Window *glfw.Window

	// Adapter is the initialized driver adapter.
	Adapter driver.Adapter

	// Registry holds the program's attachment handles.
	Registry *passgate.Registry

	// Tracker arbitrates access for the registry.
	Tracker *passgate.Tracker

	// SwapBuffers presents the default framebuffer.
	SwapBuffers func()

	// DeltaTime returns the time elapsed since its previous call.
	DeltaTime func() time.Duration
}

// Run creates the environment described by cfg and hands control to fn.
// It returns when fn returns or setup fails; teardown (adapter close, window
// destruction, GLFW termination) always runs.
func Run(cfg Config, fn func(*Environment) error) error {
	configureLogging(cfg.LogLevel)

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("app: init glfw: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("app: create window: %w", err)
	}
	defer window.Destroy()

	window.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	adapter, err := selectAdapter(cfg.Adapter)
	if err != nil {
		return err
	}
	defer adapter.Close()

	info := adapter.Information()
	passgate.Logger().Info("adapter selected",
		"adapter", adapter.Name(), "renderer", info.Renderer, "version", info.Version)

	registry := passgate.NewRegistryWithLimits(info.Limits)
	env := &Environment{
		Window:      window,
		Adapter:     adapter,
		Registry:    registry,
		Tracker:     passgate.NewTracker(registry),
		SwapBuffers: window.SwapBuffers,
		DeltaTime:   deltaClock(),
	}

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})

	return fn(env)
}

// selectAdapter picks the named adapter, or the best available one when the
// name is empty, and initializes it.
func selectAdapter(name string) (driver.Adapter, error) {
	if name == "" {
		a, err := driver.InitDefault()
		if err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
		return a, nil
	}

	a := driver.Get(name)
	if a == nil {
		return nil, fmt.Errorf("app: %w: %q (registered: %v)",
			driver.ErrAdapterNotAvailable, name, driver.Available())
	}
	if err := a.Init(); err != nil {
		return nil, fmt.Errorf("app: init adapter %q: %w", name, err)
	}
	return a, nil
}

// deltaClock returns a closure reporting the time since its previous call,
// zero on the first call.
func deltaClock() func() time.Duration {
	last := time.Now()
	return func() time.Duration {
		now := time.Now()
		d := now.Sub(last)
		last = now
		return d
	}
}

// configureLogging installs a charmbracelet handler behind the library
// logger. An empty level keeps the library silent.
func configureLogging(level string) {
	if level == "" {
		passgate.SetLogger(nil)
		return
	}

	lvl, err := charm.ParseLevel(level)
	if err != nil {
		lvl = charm.InfoLevel
	}
	handler := charm.NewWithOptions(os.Stderr, charm.Options{
		ReportTimestamp: true,
		Level:           lvl,
		Prefix:          "passgate",
	})
	passgate.SetLogger(slog.New(handler))
}
