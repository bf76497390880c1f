// Package fx provides shader effects with lazily synchronized constant buffers.
//
// # Overview
//
// An effect wraps one vertex/fragment shader pair (a program), a packed
// constant-buffer image and the device buffer it is uploaded into. Setting a
// parameter only records the value and marks the affected dirty bits. The
// expensive work happens in Apply, right before a draw:
//
//  1. derived groups whose bits are set are recomputed into the packed image
//  2. the whole image is uploaded if anything changed
//  3. program, constant buffer, textures and samplers are bound
//
// Applying an effect twice without touching its parameters uploads nothing
// the second time.
//
// # Quick Start
//
//	dev, err := native.Open()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	h, err := fx.NewHost(dev)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer h.Close()
//
//	th, err := effects.NewThreshold(h)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer th.Close()
//
//	_ = th.SetThreshold(0.25)
//	th.SetInput(tex)
//	_ = th.Apply(ctx, fx.Slots{})
//
// # Programs
//
// Programs are immutable and shared by every effect of the same kind on the
// same device through a [ProgramCache]. They are released when the owning
// [Host] is closed, never when an individual effect is closed.
//
// # Architecture
//
// The module is organized into:
//   - fx: device abstraction, dirty tracking, constant buffers, program cache
//   - effects: the built-in effect catalog and its WGSL sources
//   - backend/native: a [Device] implementation on top of gogpu/wgpu/hal
//   - fxtest: a recording device for tests and tooling
//   - shaderwatch, presets: shader hot reload and TOML effect presets
package fx
