package app

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/passgate/passgate"
)

// shaderExtensions are the source files WatchShaders reports on.
var shaderExtensions = map[string]bool{
	".vert": true,
	".frag": true,
	".glsl": true,
}

// WatchShaders watches a directory for shader source changes and invokes
// onChange with the changed path. Programs use it to rebuild their GL
// programs without restarting; rebuilding is their business, this only
// delivers the signal.
//
// The returned stop function releases the watcher. Events arrive on a
// background goroutine; onChange must be safe to call from it (typically it
// just flips an atomic flag the render loop polls).
func WatchShaders(dir string, onChange func(path string)) (stop func(), err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("app: create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("app: watch %q: %w", dir, err)
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
					continue
				}
				if !shaderExtensions[strings.ToLower(filepath.Ext(event.Name))] {
					continue
				}
				passgate.Logger().Debug("shader changed", "path", event.Name)
				onChange(event.Name)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				passgate.Logger().Warn("shader watcher", "err", err)
			}
		}
	}()

	return func() { watcher.Close() }, nil
}
