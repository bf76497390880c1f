// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package fx

import (
	"fmt"
	"sync"
	"sync/atomic"
)

type programKey struct {
	dev  DeviceKey
	kind Kind
}

// ProgramCache shares compiled programs between effects.
//
// Programs are indexed by (device, kind): every effect of one kind on one
// device uses the identical Program, created exactly once. Programs are never
// released by the effects that use them; ReleaseDevice releases them when the
// device goes away.
//
// Thread Safety:
// ProgramCache is safe for concurrent use. It uses RWMutex with
// double-check locking, so creation of a given key is serialized.
type ProgramCache struct {
	mu       sync.RWMutex
	programs map[programKey]Program

	// retired holds programs evicted from lookup by Retire. Effects created
	// before the retirement may still reference them.
	retired map[DeviceKey][]Program

	hits   uint64
	misses uint64
}

// NewProgramCache creates an empty cache.
func NewProgramCache() *ProgramCache {
	return &ProgramCache{
		programs: make(map[programKey]Program),
		retired:  make(map[DeviceKey][]Program),
	}
}

// GetOrCreate returns the cached program for (dev, desc.Kind), building it
// with dev.CreateProgram on first use.
//
//  1. Fast path: RLock, check cache, return if found
//  2. Slow path: Lock, double-check, create if needed
func (c *ProgramCache) GetOrCreate(dev Device, desc *ProgramDesc) (Program, error) {
	return c.getOrCreate(dev, desc, nil)
}

// GetOrCreateResolved is GetOrCreate with desc resolved against lib.
// The override is read under the cache lock, so a source replaced before a
// Retire of its kind is never cached behind that Retire.
func (c *ProgramCache) GetOrCreateResolved(dev Device, desc *ProgramDesc, lib *ShaderLibrary) (Program, error) {
	return c.getOrCreate(dev, desc, lib)
}

func (c *ProgramCache) getOrCreate(dev Device, desc *ProgramDesc, lib *ShaderLibrary) (Program, error) {
	if dev == nil {
		return nil, ErrNilDevice
	}
	if desc == nil {
		return nil, ErrNilDescriptor
	}
	key := programKey{dev: dev.Key(), kind: desc.Kind}

	c.mu.RLock()
	if p, ok := c.programs[key]; ok {
		c.mu.RUnlock()
		atomic.AddUint64(&c.hits, 1)
		return p, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if p, ok := c.programs[key]; ok {
		atomic.AddUint64(&c.hits, 1)
		return p, nil
	}

	if lib != nil {
		desc = lib.Resolve(desc)
	}
	p, err := dev.CreateProgram(desc)
	if err != nil {
		return nil, fmt.Errorf("fx: create program %q: %w", desc.Kind, err)
	}
	c.programs[key] = p
	atomic.AddUint64(&c.misses, 1)
	Logger().Debug("fx: program created", "kind", desc.Kind, "device", key.dev)
	return p, nil
}

// Lookup returns the cached program without creating one.
func (c *ProgramCache) Lookup(dev DeviceKey, kind Kind) (Program, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.programs[programKey{dev: dev, kind: kind}]
	return p, ok
}

// Retire removes kind from lookup on every device so the next GetOrCreate
// builds a fresh program. Retired programs stay alive until their device is
// released. It returns the number of programs retired.
func (c *ProgramCache) Retire(kind Kind) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for key, p := range c.programs {
		if key.kind != kind {
			continue
		}
		c.retired[key.dev] = append(c.retired[key.dev], p)
		delete(c.programs, key)
		n++
	}
	return n
}

// ReleaseDevice releases every live and retired program of a device.
// It returns the number of programs released.
func (c *ProgramCache) ReleaseDevice(dev DeviceKey) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for key, p := range c.programs {
		if key.dev != dev {
			continue
		}
		p.Release()
		delete(c.programs, key)
		n++
	}
	for _, p := range c.retired[dev] {
		p.Release()
		n++
	}
	delete(c.retired, dev)
	return n
}

// Close releases every program and resets statistics.
// The cache is empty and ready for reuse afterwards.
func (c *ProgramCache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range c.programs {
		p.Release()
	}
	for _, ps := range c.retired {
		for _, p := range ps {
			p.Release()
		}
	}
	c.programs = make(map[programKey]Program)
	c.retired = make(map[DeviceKey][]Program)
	atomic.StoreUint64(&c.hits, 0)
	atomic.StoreUint64(&c.misses, 0)
}

// Stats returns the number of cache hits and misses.
// These values are read atomically and may not be perfectly synchronized.
func (c *ProgramCache) Stats() (hits, misses uint64) {
	return atomic.LoadUint64(&c.hits), atomic.LoadUint64(&c.misses)
}

// HitRate returns the cache hit rate (0.0 to 1.0), or 0 before any request.
func (c *ProgramCache) HitRate() float64 {
	hits, misses := c.Stats()
	total := hits + misses
	if total == 0 {
		return 0.0
	}
	return float64(hits) / float64(total)
}

// Len returns the number of live (not retired) programs.
func (c *ProgramCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.programs)
}
