// Package shaderwatch reloads effect shaders from a directory while a
// program runs.
//
// Each file named <kind>.wgsl overrides the shader of that effect kind in a
// fx.ShaderLibrary. When a file changes the kind is retired in the
// fx.ProgramCache, so effects created afterwards build the new program.
// Effects that already exist keep their program.
package shaderwatch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/gogpu/fx"
)

// Ext is the extension of watched shader files.
const Ext = ".wgsl"

// ErrClosed is returned by Run after Close.
var ErrClosed = errors.New("shaderwatch: watcher closed")

// Watcher watches one directory of WGSL files.
type Watcher struct {
	dir      string
	shaders  *fx.ShaderLibrary
	programs *fx.ProgramCache
	fsw      *fsnotify.Watcher

	// OnReload, when set, is called after each reload or removal.
	OnReload func(kind fx.Kind, removed bool)

	reloads   atomic.Uint64
	closeOnce sync.Once
	done      chan struct{}
}

// New loads every shader in dir into shaders and starts watching dir.
// Call Run to process changes.
func New(dir string, shaders *fx.ShaderLibrary, programs *fx.ProgramCache) (*Watcher, error) {
	if shaders == nil || programs == nil {
		return nil, errors.New("shaderwatch: nil library or cache")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("shaderwatch: %w", err)
	}
	w := &Watcher{
		dir:      dir,
		shaders:  shaders,
		programs: programs,
		fsw:      fsw,
		done:     make(chan struct{}),
	}
	if err := w.loadAll(); err != nil {
		fsw.Close()
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("shaderwatch: watch %s: %w", dir, err)
	}
	return w, nil
}

// ForHost watches dir for the shader library and program cache of h.
func ForHost(dir string, h *fx.Host) (*Watcher, error) {
	return New(dir, h.Shaders(), h.Programs())
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string { return w.dir }

// Reloads returns how many shader changes have been applied.
func (w *Watcher) Reloads() uint64 { return w.reloads.Load() }

// Run processes file events until ctx is done or Close is called.
// Read errors are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.done:
			return ErrClosed
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return ErrClosed
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return ErrClosed
			}
			fx.Logger().Warn("shaderwatch: watch error", "dir", w.dir, "err", err)
		}
	}
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
	})
	return err
}

func (w *Watcher) handle(ev fsnotify.Event) {
	kind, ok := KindOf(ev.Name)
	if !ok {
		return
	}
	switch {
	case ev.Has(fsnotify.Write), ev.Has(fsnotify.Create):
		if err := w.Reload(ev.Name); err != nil {
			fx.Logger().Warn("shaderwatch: reload failed", "kind", kind, "err", err)
		}
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		w.Forget(kind)
	}
}

// Reload reads path and installs it as the shader of its kind.
func (w *Watcher) Reload(path string) error {
	kind, ok := KindOf(path)
	if !ok {
		return fmt.Errorf("shaderwatch: %s is not a %s file", path, Ext)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("shaderwatch: %w", err)
	}
	if prev, ok := w.shaders.Source(kind); ok && prev == string(src) {
		return nil
	}
	w.shaders.Set(kind, string(src))
	retired := w.programs.Retire(kind)
	w.reloads.Add(1)
	fx.Logger().Info("shaderwatch: shader reloaded", "kind", kind, "retired", retired)
	if w.OnReload != nil {
		w.OnReload(kind, false)
	}
	return nil
}

// Forget drops the override for kind so the built-in shader applies again.
func (w *Watcher) Forget(kind fx.Kind) {
	if !w.shaders.Remove(kind) {
		return
	}
	retired := w.programs.Retire(kind)
	w.reloads.Add(1)
	fx.Logger().Info("shaderwatch: shader removed", "kind", kind, "retired", retired)
	if w.OnReload != nil {
		w.OnReload(kind, true)
	}
}

func (w *Watcher) loadAll() error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("shaderwatch: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := KindOf(e.Name()); !ok {
			continue
		}
		if err := w.Reload(filepath.Join(w.dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

// KindOf returns the effect kind a shader file overrides.
func KindOf(path string) (fx.Kind, bool) {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, Ext) {
		return "", false
	}
	name := strings.TrimSuffix(base, Ext)
	if name == "" || strings.HasPrefix(name, ".") {
		return "", false
	}
	return fx.Kind(name), true
}
