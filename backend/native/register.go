package native

import (
	// Vulkan HAL backend used by Open.
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/fx/backend"
)

func init() {
	backend.Register(backend.Native, func() (backend.Device, error) {
		return Open()
	})
}
