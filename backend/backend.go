package backend

import (
	"errors"

	"github.com/gogpu/fx"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not
	// registered or cannot open a device.
	ErrBackendNotAvailable = errors.New("backend: not available")
)

// Backend names.
const (
	// Native is the gogpu/wgpu GPU backend.
	Native = "native"
	// Record is the recording backend from fxtest.
	Record = "record"
)

// Device is an fx.Device owned by the caller, who must Close it after the
// hosts that use it.
type Device interface {
	fx.Device
	Close()
}
