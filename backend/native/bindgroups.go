package native

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/fx"
)

// groupKey identifies a bind group by the resources it binds.
// Unused slots hold nil.
type groupKey struct {
	program  *Program
	buffer   *Buffer
	textures [maxSlots]*Texture
	samplers [maxSlots]*Sampler
}

func (k *groupKey) references(res any) bool {
	switch r := res.(type) {
	case *Program:
		return k.program == r
	case *Buffer:
		return k.buffer == r
	case *Texture:
		for _, t := range k.textures {
			if t == r {
				return true
			}
		}
	case *Sampler:
		for _, s := range k.samplers {
			if s == r {
				return true
			}
		}
	}
	return false
}

// trimmed clears the slots the program layout does not declare, so that
// leftovers from earlier draws do not split the cache.
func (k groupKey) trimmed() groupKey {
	lay := k.program.layout
	if lay.ConstantSize == 0 {
		k.buffer = nil
	}
	for i := lay.Textures; i < maxSlots; i++ {
		k.textures[i] = nil
	}
	for i := lay.Samplers; i < maxSlots; i++ {
		k.samplers[i] = nil
	}
	return k
}

// entries builds the bind group entries for k. Every slot the program
// layout declares must be bound.
func (k *groupKey) entries() ([]gputypes.BindGroupEntry, error) {
	lay := k.program.layout
	entries := make([]gputypes.BindGroupEntry, 0, 1+lay.Textures+lay.Samplers)
	if lay.ConstantSize > 0 {
		if k.buffer == nil {
			return nil, fmt.Errorf("%w: constant buffer %d", ErrUnboundSlot, constantBinding)
		}
		if k.buffer.buf == nil {
			return nil, fmt.Errorf("native: constant buffer: %w", fx.ErrClosed)
		}
		entries = append(entries, gputypes.BindGroupEntry{
			Binding: constantBinding,
			Resource: gputypes.BufferBinding{
				Buffer: k.buffer.buf.NativeHandle(),
				Offset: 0,
				Size:   uint64(k.buffer.size),
			},
		})
	}
	for i := range lay.Textures {
		t := k.textures[i]
		if t == nil {
			return nil, fmt.Errorf("%w: texture %d", ErrUnboundSlot, i)
		}
		if t.view == nil {
			return nil, fmt.Errorf("native: texture %d: %w", i, fx.ErrClosed)
		}
		entries = append(entries, gputypes.BindGroupEntry{
			Binding:  textureBinding + uint32(i),
			Resource: gputypes.TextureViewBinding{TextureView: t.view.NativeHandle()},
		})
	}
	for i := range lay.Samplers {
		s := k.samplers[i]
		if s == nil {
			return nil, fmt.Errorf("%w: sampler %d", ErrUnboundSlot, i)
		}
		if s.sampler == nil {
			return nil, fmt.Errorf("native: sampler %d: %w", i, fx.ErrClosed)
		}
		entries = append(entries, gputypes.BindGroupEntry{
			Binding:  samplerBinding + uint32(i),
			Resource: gputypes.SamplerBinding{Sampler: s.sampler.NativeHandle()},
		})
	}
	return entries, nil
}

// createBindGroup builds a bind group for k on d.
func (d *Device) createBindGroup(k groupKey) (hal.BindGroup, error) {
	entries, err := k.entries()
	if err != nil {
		return nil, err
	}
	bg, err := d.dev.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   d.label(string(k.program.kind) + "_bind"),
		Layout:  k.program.groupLay,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("native: create %s bind group: %w", k.program.kind, err)
	}
	fx.Logger().Debug("native: bind group created", "kind", k.program.kind, "entries", len(entries))
	return bg, nil
}
