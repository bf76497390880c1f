package fx

import (
	"maps"
	"slices"
	"sync"
)

// ShaderLibrary holds WGSL overrides keyed by effect kind.
//
// A Host consults its library before building a program, so replacing a
// source and retiring the kind in the ProgramCache makes newly created
// effects pick up the new shader. Effects that already hold a program keep
// using it.
//
// ShaderLibrary is safe for concurrent use.
type ShaderLibrary struct {
	mu      sync.RWMutex
	sources map[Kind]string
}

// NewShaderLibrary creates an empty library.
func NewShaderLibrary() *ShaderLibrary {
	return &ShaderLibrary{sources: make(map[Kind]string)}
}

// Set overrides the source for kind.
func (l *ShaderLibrary) Set(kind Kind, source string) {
	l.mu.Lock()
	l.sources[kind] = source
	l.mu.Unlock()
}

// Remove drops the override for kind and reports whether one existed.
func (l *ShaderLibrary) Remove(kind Kind) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.sources[kind]
	delete(l.sources, kind)
	return ok
}

// Source returns the override for kind.
func (l *ShaderLibrary) Source(kind Kind) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	src, ok := l.sources[kind]
	return src, ok
}

// Kinds returns the overridden kinds in sorted order.
func (l *ShaderLibrary) Kinds() []Kind {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Sorted(maps.Keys(l.sources))
}

// Resolve returns desc with its source replaced by the override, if any.
// Precompiled SPIR-V is dropped when an override applies.
func (l *ShaderLibrary) Resolve(desc *ProgramDesc) *ProgramDesc {
	src, ok := l.Source(desc.Kind)
	if !ok {
		return desc
	}
	out := *desc
	out.Source = src
	out.SPIRV = nil
	return &out
}
