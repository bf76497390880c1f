// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package fx

import (
	"fmt"
)

// Slots is the base slot for each resource class when an effect is applied.
// The zero value binds everything starting at slot 0.
type Slots struct {
	ConstantBuffer uint32
	Texture        uint32
	Sampler        uint32
}

// Effect is a configured shader program ready to be bound for a draw.
type Effect interface {
	Kind() Kind

	// Apply synchronizes pending parameter changes and binds the effect's
	// program, constant buffer, textures and samplers into ctx.
	Apply(ctx Context, slots Slots) error

	// Close releases the effect's own resources. Shared programs are not
	// released.
	Close() error
}

// Tunable is an Effect whose parameters can be driven by name.
type Tunable interface {
	Effect
	Params() *ParamSet
}

// Bindable is the common machinery behind every effect: a shared program, a
// lazily synchronized constant buffer of type T, and texture and sampler
// slots. Concrete effects embed it and add typed parameter setters.
type Bindable[T any] struct {
	host      *Host
	kind      Kind
	program   Program
	layout    ProgramLayout
	constants *ConstantBuffer[T]
	textures  []Texture
	samplers  []Sampler
	closed    bool
}

// NewBindable resolves the program for desc through the host's cache and
// allocates the constant buffer. desc.Layout.ConstantSize is filled in from T.
func NewBindable[T any](h *Host, desc *ProgramDesc, groups ...DerivedGroup[T]) (*Bindable[T], error) {
	if h == nil {
		return nil, ErrNilHost
	}
	if desc == nil {
		return nil, ErrNilDescriptor
	}
	if err := CheckLayout[T](); err != nil {
		return nil, err
	}

	d := *desc
	var zero T
	d.Layout.ConstantSize = len(Bytes(&zero))
	if d.Layout.ConstantStages == StageNone {
		d.Layout.ConstantStages = StageFragment
	}

	program, err := h.Program(&d)
	if err != nil {
		return nil, err
	}
	constants, err := NewConstantBuffer(h.Device(), string(d.Kind)+"_constants", groups...)
	if err != nil {
		return nil, err
	}
	return &Bindable[T]{
		host:      h,
		kind:      d.Kind,
		program:   program,
		layout:    d.Layout,
		constants: constants,
		textures:  make([]Texture, d.Layout.Textures),
		samplers:  make([]Sampler, d.Layout.Samplers),
	}, nil
}

// Kind returns the effect kind.
func (b *Bindable[T]) Kind() Kind { return b.kind }

// Program returns the shared program.
func (b *Bindable[T]) Program() Program { return b.program }

// Layout returns the program's resource layout.
func (b *Bindable[T]) Layout() ProgramLayout { return b.layout }

// Constants returns the constant buffer.
func (b *Bindable[T]) Constants() *ConstantBuffer[T] { return b.constants }

// Mark records that flags are stale.
func (b *Bindable[T]) Mark(flags DirtyFlags) { b.constants.Mark(flags) }

// Dirty returns the pending flags.
func (b *Bindable[T]) Dirty() DirtyFlags { return b.constants.Dirty() }

// Uploads returns how many times the constant buffer has been uploaded.
func (b *Bindable[T]) Uploads() uint64 { return b.constants.Uploads() }

// SetTexture sets texture slot i. A nil texture unsets the slot.
// It panics if i is outside the program layout.
func (b *Bindable[T]) SetTexture(i int, tex Texture) { b.textures[i] = tex }

// Texture returns texture slot i.
func (b *Bindable[T]) Texture(i int) Texture { return b.textures[i] }

// SetSampler sets sampler slot i. A nil sampler selects the host default.
func (b *Bindable[T]) SetSampler(i int, s Sampler) { b.samplers[i] = s }

// Sampler returns sampler slot i as set by the caller, nil meaning default.
func (b *Bindable[T]) Sampler(i int) Sampler { return b.samplers[i] }

// Apply validates every argument before touching ctx, then synchronizes the
// constant buffer and binds program, constants, textures and samplers.
func (b *Bindable[T]) Apply(ctx Context, slots Slots) error {
	if b.closed {
		return ErrClosed
	}
	if ctx == nil {
		return ErrNilContext
	}
	for i, tex := range b.textures {
		if tex == nil {
			return fmt.Errorf("%w: %s texture %d", ErrMissingTexture, b.kind, i)
		}
	}
	samplers := make([]Sampler, len(b.samplers))
	for i, s := range b.samplers {
		if s == nil {
			var err error
			if s, err = b.host.DefaultSampler(); err != nil {
				return err
			}
		}
		samplers[i] = s
	}

	if _, err := b.constants.Sync(ctx); err != nil {
		return fmt.Errorf("fx: apply %s: %w", b.kind, err)
	}

	ctx.SetProgram(b.program)
	ctx.SetConstantBuffer(b.layout.ConstantStages, slots.ConstantBuffer, b.constants.Buffer())
	for i, tex := range b.textures {
		ctx.SetTexture(StageFragment, slots.Texture+uint32(i), tex) //nolint:gosec // slot count is small
	}
	for i, s := range samplers {
		ctx.SetSampler(StageFragment, slots.Sampler+uint32(i), s) //nolint:gosec // slot count is small
	}
	return nil
}

// Close releases the constant buffer. The shared program stays with the host.
// It is safe to call more than once.
func (b *Bindable[T]) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	b.constants.Release()
	clear(b.textures)
	clear(b.samplers)
	return nil
}
