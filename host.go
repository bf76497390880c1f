// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package fx

import (
	"fmt"
	"sync"
)

// Host owns the device-scoped state shared by effects: the program cache
// entries of its device, shader overrides and a default sampler.
//
// Create one Host per device. Effects must be closed before their Host.
type Host struct {
	dev      Device
	programs *ProgramCache
	shaders  *ShaderLibrary

	mu          sync.Mutex
	samplerDesc SamplerDesc
	sampler     Sampler
	closed      bool
}

// NewHost creates a host for dev.
func NewHost(dev Device, opts ...HostOption) (*Host, error) {
	if dev == nil {
		return nil, ErrNilDevice
	}
	o := defaultHostOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.programs == nil {
		o.programs = NewProgramCache()
	}
	if o.shaders == nil {
		o.shaders = NewShaderLibrary()
	}
	Logger().Info("fx: host created", "device", dev.Key())
	return &Host{
		dev:         dev,
		programs:    o.programs,
		shaders:     o.shaders,
		samplerDesc: o.sampler,
	}, nil
}

// Device returns the host's device.
func (h *Host) Device() Device { return h.dev }

// Programs returns the program cache.
func (h *Host) Programs() *ProgramCache { return h.programs }

// Shaders returns the shader override library.
func (h *Host) Shaders() *ShaderLibrary { return h.shaders }

// Program returns the shared program for desc, applying shader overrides.
func (h *Host) Program(desc *ProgramDesc) (Program, error) {
	if desc == nil {
		return nil, ErrNilDescriptor
	}
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}
	return h.programs.GetOrCreateResolved(h.dev, desc, h.shaders)
}

// DefaultSampler returns the host sampler, creating it on first use.
func (h *Host) DefaultSampler() (Sampler, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrClosed
	}
	if h.sampler == nil {
		s, err := h.dev.CreateSampler(h.samplerDesc)
		if err != nil {
			return nil, fmt.Errorf("fx: create default sampler: %w", err)
		}
		h.sampler = s
	}
	return h.sampler, nil
}

// Close releases the default sampler and every program of the host's device.
// It is safe to call more than once.
func (h *Host) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	if h.sampler != nil {
		h.sampler.Release()
		h.sampler = nil
	}
	n := h.programs.ReleaseDevice(h.dev.Key())
	Logger().Info("fx: host closed", "device", h.dev.Key(), "programs", n)
	return nil
}
