package native

import (
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/fx"
)

// CompileSPIRV compiles WGSL source to SPIR-V words.
func CompileSPIRV(wgsl string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("native: compile shader: %w", err)
	}
	return SPIRVWords(spirvBytes), nil
}

// SPIRVWords converts little-endian SPIR-V bytes to 32-bit words.
// Trailing bytes that do not fill a word are dropped.
func SPIRVWords(b []byte) []uint32 {
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	return words
}

// shaderSource picks the module source for desc: precompiled SPIR-V first,
// then WGSL compiled by naga when precompile is set, else WGSL.
func shaderSource(desc *fx.ProgramDesc, precompile bool) (hal.ShaderSource, error) {
	switch {
	case len(desc.SPIRV) > 0:
		return hal.ShaderSource{SPIRV: desc.SPIRV}, nil
	case desc.Source == "":
		return hal.ShaderSource{}, fmt.Errorf("native: program %q has no shader source", desc.Kind)
	case precompile:
		words, err := CompileSPIRV(desc.Source)
		if err != nil {
			return hal.ShaderSource{}, err
		}
		return hal.ShaderSource{SPIRV: words}, nil
	default:
		return hal.ShaderSource{WGSL: desc.Source}, nil
	}
}
