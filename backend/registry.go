package backend

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/fx"
)

// Factory opens a device.
type Factory func() (Device, error)

var (
	registryMu sync.RWMutex
	backends   = make(map[string]Factory)
	// Priority order for Default (first that opens wins).
	backendPriority = []string{Native, Record}
)

// Register registers a backend factory with the given name.
// A backend registered under the same name is replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// Unregister removes a backend from the registry.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns the registered backend names in sorted order.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsRegistered reports whether a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Open opens a device on the named backend.
func Open(name string) (Device, error) {
	registryMu.RLock()
	factory, ok := backends[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotAvailable, name)
	}
	dev, err := factory()
	if err != nil {
		return nil, fmt.Errorf("backend %s: %w", name, err)
	}
	return dev, nil
}

// Default opens the first backend in priority order that succeeds, then
// any other registered backend. Failures are logged at debug level.
func Default() (Device, error) {
	names := Available()
	slices.SortStableFunc(names, func(a, b string) int {
		return rank(a) - rank(b)
	})

	var errs []error
	for _, name := range names {
		dev, err := Open(name)
		if err == nil {
			fx.Logger().Info("backend: selected", "backend", name)
			return dev, nil
		}
		fx.Logger().Debug("backend: unavailable", "backend", name, "err", err)
		errs = append(errs, err)
	}
	return nil, errors.Join(append([]error{ErrBackendNotAvailable}, errs...)...)
}

func rank(name string) int {
	if i := slices.Index(backendPriority, name); i >= 0 {
		return i
	}
	return len(backendPriority)
}
