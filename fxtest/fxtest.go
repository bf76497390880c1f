// Package fxtest provides a recording fx.Device and fx.Context.
//
// Nothing is rendered. Buffers keep the bytes last uploaded, programs keep
// their descriptors, and the context records every binding call in order,
// which is enough to test effects and to validate presets without a GPU.
package fxtest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/fx"
)

// ErrReleased is returned when a released buffer is updated.
var ErrReleased = errors.New("fxtest: buffer released")

// Device is an fx.Device that records what it creates.
type Device struct {
	key fx.DeviceKey

	mu       sync.Mutex
	buffers  []*Buffer
	programs []*Program
	samplers []*Sampler

	// FailProgram, when set, is returned by CreateProgram.
	FailProgram error
	// FailBuffer, when set, is returned by CreateConstantBuffer.
	FailBuffer error
}

// NewDevice returns a device with a fresh key.
func NewDevice() *Device {
	return &Device{key: fx.NewDeviceKey()}
}

// Key implements fx.Device.
func (d *Device) Key() fx.DeviceKey { return d.key }

// CreateConstantBuffer implements fx.Device.
func (d *Device) CreateConstantBuffer(label string, size int) (fx.Buffer, error) {
	if d.FailBuffer != nil {
		return nil, d.FailBuffer
	}
	if size <= 0 {
		return nil, fmt.Errorf("fxtest: invalid buffer size %d", size)
	}
	b := &Buffer{label: label, size: size}
	d.mu.Lock()
	d.buffers = append(d.buffers, b)
	d.mu.Unlock()
	return b, nil
}

// CreateProgram implements fx.Device.
func (d *Device) CreateProgram(desc *fx.ProgramDesc) (fx.Program, error) {
	if d.FailProgram != nil {
		return nil, d.FailProgram
	}
	p := &Program{desc: *desc}
	d.mu.Lock()
	d.programs = append(d.programs, p)
	d.mu.Unlock()
	return p, nil
}

// CreateSampler implements fx.Device.
func (d *Device) CreateSampler(desc fx.SamplerDesc) (fx.Sampler, error) {
	s := &Sampler{desc: desc}
	d.mu.Lock()
	d.samplers = append(d.samplers, s)
	d.mu.Unlock()
	return s, nil
}

// ProgramsCreated returns how many programs were created, including released ones.
func (d *Device) ProgramsCreated() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.programs)
}

// Programs returns every program created, in creation order.
func (d *Device) Programs() []*Program {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*Program(nil), d.programs...)
}

// LiveBuffers returns the number of buffers not yet released.
func (d *Device) LiveBuffers() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, b := range d.buffers {
		if !b.released {
			n++
		}
	}
	return n
}

// LivePrograms returns the number of programs not yet released.
func (d *Device) LivePrograms() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, p := range d.programs {
		if !p.released {
			n++
		}
	}
	return n
}

// LiveSamplers returns the number of samplers not yet released.
func (d *Device) LiveSamplers() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, s := range d.samplers {
		if !s.released {
			n++
		}
	}
	return n
}

// Buffer records uploads.
type Buffer struct {
	label    string
	size     int
	data     []byte
	updates  int
	released bool
}

// Size implements fx.Buffer.
func (b *Buffer) Size() int { return b.size }

// Release implements fx.Buffer.
func (b *Buffer) Release() { b.released = true }

// Label returns the creation label.
func (b *Buffer) Label() string { return b.label }

// Data returns a copy of the bytes last uploaded, or nil if none.
func (b *Buffer) Data() []byte { return append([]byte(nil), b.data...) }

// Updates returns how many uploads the buffer received.
func (b *Buffer) Updates() int { return b.updates }

// Released reports whether Release was called.
func (b *Buffer) Released() bool { return b.released }

// Contents decodes the bytes last uploaded to buf as T.
// It returns false if buf is not an fxtest buffer or sizes differ.
func Contents[T any](buf fx.Buffer) (T, bool) {
	var v T
	b, ok := buf.(*Buffer)
	if !ok {
		return v, false
	}
	dst := fx.Bytes(&v)
	if len(b.data) != len(dst) {
		return v, false
	}
	copy(dst, b.data)
	return v, true
}

// Program records its descriptor.
type Program struct {
	desc     fx.ProgramDesc
	released bool
}

// Kind implements fx.Program.
func (p *Program) Kind() fx.Kind { return p.desc.Kind }

// Release implements fx.Program.
func (p *Program) Release() { p.released = true }

// Desc returns the descriptor the program was built from.
func (p *Program) Desc() fx.ProgramDesc { return p.desc }

// Released reports whether Release was called.
func (p *Program) Released() bool { return p.released }

// Sampler records its descriptor.
type Sampler struct {
	desc     fx.SamplerDesc
	released bool
}

// Release implements fx.Sampler.
func (s *Sampler) Release() { s.released = true }

// Desc returns the descriptor the sampler was built from.
func (s *Sampler) Desc() fx.SamplerDesc { return s.desc }

// Released reports whether Release was called.
func (s *Sampler) Released() bool { return s.released }

// Texture is a sized placeholder texture.
type Texture struct {
	label         string
	width, height int
}

// NewTexture returns a texture of the given size.
func NewTexture(label string, width, height int) *Texture {
	return &Texture{label: label, width: width, height: height}
}

// Width implements fx.Texture.
func (t *Texture) Width() int { return t.width }

// Height implements fx.Texture.
func (t *Texture) Height() int { return t.height }

// String returns the texture label.
func (t *Texture) String() string { return t.label }
