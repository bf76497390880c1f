package native

import "github.com/gogpu/gputypes"

// Option configures a Device during creation.
type Option func(*options)

type options struct {
	targetFormat   gputypes.TextureFormat
	bindGroupCache int
	precompile     bool
	label          string
}

func defaultOptions() options {
	return options{
		targetFormat:   gputypes.TextureFormatBGRA8Unorm,
		bindGroupCache: 256,
		label:          "fx",
	}
}

// WithTargetFormat sets the color attachment format programs render to.
// The default is BGRA8Unorm, the usual swapchain format.
func WithTargetFormat(f gputypes.TextureFormat) Option {
	return func(o *options) {
		o.targetFormat = f
	}
}

// WithBindGroupCacheSize sets how many bind groups are kept alive.
func WithBindGroupCacheSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.bindGroupCache = n
		}
	}
}

// WithSPIRV compiles WGSL programs to SPIR-V with naga before handing them
// to the HAL, instead of passing WGSL through.
func WithSPIRV(on bool) Option {
	return func(o *options) {
		o.precompile = on
	}
}

// WithLabel sets the prefix of GPU debug labels.
func WithLabel(label string) Option {
	return func(o *options) {
		o.label = label
	}
}
