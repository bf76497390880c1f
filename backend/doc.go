// Package backend selects an fx.Device implementation by name.
//
// Backends register themselves from init functions. The recording backend
// is always available; importing backend/native adds the GPU backend:
//
//	import _ "github.com/gogpu/fx/backend/native"
//
//	dev, err := backend.Default()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer dev.Close()
//
//	h, err := fx.NewHost(dev)
//
// # Available Backends
//
//   - "native": gogpu/wgpu on the best Vulkan adapter
//   - "record": fxtest recording device, no GPU
package backend
