// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gogpu/fx"
)

// Binding number bases within bind group 0.
const (
	constantBinding = 0
	textureBinding  = 8
	samplerBinding  = 16

	maxSlots = 8
)

// halProvider is implemented by device providers that expose HAL types.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// Device implements fx.Device over a HAL device and queue.
type Device struct {
	key   fx.DeviceKey
	opts  options
	dev   hal.Device
	queue hal.Queue

	// set only when Open created the device
	instance hal.Instance

	mu     sync.Mutex
	groups *lru.Cache[groupKey, hal.BindGroup]
	closed bool
}

// NewDevice wraps an existing HAL device and queue. The caller keeps
// ownership of both; Close releases only what this package created.
func NewDevice(dev hal.Device, queue hal.Queue, opts ...Option) (*Device, error) {
	if dev == nil || queue == nil {
		return nil, ErrNilDevice
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	d := &Device{
		key:   fx.NewDeviceKey(),
		opts:  o,
		dev:   dev,
		queue: queue,
	}
	groups, err := lru.NewWithEvict(o.bindGroupCache, func(_ groupKey, bg hal.BindGroup) {
		d.dev.DestroyBindGroup(bg)
	})
	if err != nil {
		return nil, fmt.Errorf("native: bind group cache: %w", err)
	}
	d.groups = groups
	fx.Logger().Debug("native: device created", "key", d.key)
	return d, nil
}

// NewDeviceFromProvider shares the device of a host application, such as a
// gogpu window, instead of creating one.
func NewDeviceFromProvider(provider gpucontext.DeviceProvider, opts ...Option) (*Device, error) {
	if provider == nil {
		return nil, ErrNilDevice
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHALProvider
	}
	dev, ok := hp.HalDevice().(hal.Device)
	if !ok {
		return nil, ErrNoHALProvider
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok {
		return nil, ErrNoHALProvider
	}
	return NewDevice(dev, queue, opts...)
}

// Open creates a standalone Vulkan device on the best available adapter.
// Discrete and integrated GPUs are preferred over software adapters.
func Open(opts ...Option) (*Device, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("%w: vulkan backend not registered", ErrNoGPU)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("native: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoGPU
	}
	selected := &adapters[0]
	for i := range adapters {
		t := adapters[i].Info.DeviceType
		if t == gputypes.DeviceTypeDiscreteGPU || t == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("native: open device: %w", err)
	}
	d, err := NewDevice(openDev.Device, openDev.Queue, opts...)
	if err != nil {
		openDev.Device.Destroy()
		instance.Destroy()
		return nil, err
	}
	d.instance = instance
	fx.Logger().Info("native: device opened", "adapter", selected.Info.Name)
	return d, nil
}

// Key implements fx.Device.
func (d *Device) Key() fx.DeviceKey { return d.key }

// HAL returns the underlying device and queue.
func (d *Device) HAL() (hal.Device, hal.Queue) { return d.dev, d.queue }

// Close destroys cached bind groups and, for devices created by Open, the
// device itself. Programs and buffers must be released by their owners
// (fx.Host.Close releases cached programs).
func (d *Device) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.groups.Purge()
	d.mu.Unlock()

	if d.instance != nil {
		d.dev.Destroy()
		d.instance.Destroy()
		d.instance = nil
	}
}

// CreateConstantBuffer implements fx.Device.
func (d *Device) CreateConstantBuffer(label string, size int) (fx.Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("native: constant buffer %q: size %d", label, size)
	}
	buf, err := d.dev.CreateBuffer(&hal.BufferDescriptor{
		Label: d.label(label),
		Size:  uint64(size),
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("native: create constant buffer %q: %w", label, err)
	}
	return &Buffer{dev: d, buf: buf, size: size}, nil
}

// CreateVertexBuffer creates a vertex buffer initialized with data.
func (d *Device) CreateVertexBuffer(label string, data []byte) (*Buffer, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("native: vertex buffer %q: no data", label)
	}
	buf, err := d.dev.CreateBuffer(&hal.BufferDescriptor{
		Label: d.label(label),
		Size:  uint64(len(data)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("native: create vertex buffer %q: %w", label, err)
	}
	d.queue.WriteBuffer(buf, 0, data)
	return &Buffer{dev: d, buf: buf, size: len(data)}, nil
}

// CreateSampler implements fx.Device.
func (d *Device) CreateSampler(desc fx.SamplerDesc) (fx.Sampler, error) {
	filter := gputypes.FilterModeLinear
	if desc.Filter == fx.FilterNearest {
		filter = gputypes.FilterModeNearest
	}
	address := gputypes.AddressModeClampToEdge
	switch desc.Address {
	case fx.AddressRepeat:
		address = gputypes.AddressModeRepeat
	case fx.AddressMirror:
		address = gputypes.AddressModeMirrorRepeat
	}
	s, err := d.dev.CreateSampler(&hal.SamplerDescriptor{
		Label:        d.label(desc.Label),
		AddressModeU: address,
		AddressModeV: address,
		AddressModeW: address,
		MagFilter:    filter,
		MinFilter:    filter,
		MipmapFilter: filter,
	})
	if err != nil {
		return nil, fmt.Errorf("native: create sampler: %w", err)
	}
	return &Sampler{dev: d, sampler: s}, nil
}

// bindGroup returns the cached bind group for k, creating it on a miss.
func (d *Device) bindGroup(k groupKey, create func() (hal.BindGroup, error)) (hal.BindGroup, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if bg, ok := d.groups.Get(k); ok {
		return bg, nil
	}
	bg, err := create()
	if err != nil {
		return nil, err
	}
	d.groups.Add(k, bg)
	return bg, nil
}

// forget destroys every cached bind group that references res.
func (d *Device) forget(res any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, k := range d.groups.Keys() {
		if k.references(res) {
			d.groups.Remove(k)
		}
	}
}

// cachedGroups reports the number of live bind groups.
func (d *Device) cachedGroups() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.groups.Len()
}

func (d *Device) label(s string) string {
	if s == "" {
		return d.opts.label
	}
	return d.opts.label + "_" + s
}

var _ fx.Device = (*Device)(nil)
