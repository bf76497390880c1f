// Package native implements fx.Device on top of gogpu/wgpu/hal.
//
// # Bindings
//
// Each program gets one bind group (group 0). Resources use fixed binding
// numbers so that WGSL sources can declare them statically:
//
//	constant buffer slot s  -> @binding(s)
//	texture slot s          -> @binding(8 + s)
//	sampler slot s          -> @binding(16 + s)
//
// The bind group layout covers slots 0..n-1 of each class, as declared in
// the program's fx.ProgramLayout. Applying an effect with non-zero base
// slots therefore leaves the low slots empty and Draw reports ErrUnboundSlot.
//
// # Uploads
//
// Context.UpdateBuffer writes through the queue. Queue writes land before the
// commands of the frame execute, so an effect instance should be applied with
// changed parameters at most once per frame.
//
// # Bind groups
//
// Bind groups are cached per (program, buffer, textures, samplers) in an LRU
// cache and destroyed on eviction or when one of their resources is released.
package native
