package fx

// HostOption configures a Host during creation.
//
// Example:
//
//	// Share one program cache between several devices
//	cache := fx.NewProgramCache()
//	h, err := fx.NewHost(dev, fx.WithProgramCache(cache))
type HostOption func(*hostOptions)

type hostOptions struct {
	programs *ProgramCache
	shaders  *ShaderLibrary
	sampler  SamplerDesc
}

func defaultHostOptions() hostOptions {
	return hostOptions{sampler: DefaultSamplerDesc}
}

// WithProgramCache makes the host use c instead of a private cache.
// Closing the host releases only this device's programs from c.
func WithProgramCache(c *ProgramCache) HostOption {
	return func(o *hostOptions) {
		o.programs = c
	}
}

// WithShaderLibrary makes the host consult l for shader overrides.
func WithShaderLibrary(l *ShaderLibrary) HostOption {
	return func(o *hostOptions) {
		o.shaders = l
	}
}

// WithDefaultSampler sets the sampler bound for effects that have none.
func WithDefaultSampler(desc SamplerDesc) HostOption {
	return func(o *hostOptions) {
		o.sampler = desc
	}
}
