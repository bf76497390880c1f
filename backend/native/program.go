// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/fx"
)

// CreateProgram implements fx.Device.
//
// The pipeline draws triangle lists into one color target of the device's
// target format. Programs without a vertex layout generate their vertices
// from the vertex index.
func (d *Device) CreateProgram(desc *fx.ProgramDesc) (fx.Program, error) {
	if desc == nil {
		return nil, fx.ErrNilDescriptor
	}
	lay := desc.Layout
	if lay.Textures > maxSlots || lay.Samplers > maxSlots {
		return nil, fmt.Errorf("%w: %d textures, %d samplers", ErrTooManySlots, lay.Textures, lay.Samplers)
	}
	src, err := shaderSource(desc, d.opts.precompile)
	if err != nil {
		return nil, err
	}

	p := &Program{dev: d, kind: desc.Kind, layout: lay, vertex: len(desc.Vertex.Attributes) > 0}
	name := string(desc.Kind)

	p.shader, err = d.dev.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  d.label(name + "_shader"),
		Source: src,
	})
	if err != nil {
		return nil, fmt.Errorf("native: create %s shader: %w", name, err)
	}

	p.groupLay, err = d.dev.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   d.label(name + "_layout"),
		Entries: layoutEntries(lay),
	})
	if err != nil {
		p.destroy()
		return nil, fmt.Errorf("native: create %s bind group layout: %w", name, err)
	}

	p.pipeLayout, err = d.dev.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            d.label(name + "_pipe_layout"),
		BindGroupLayouts: []hal.BindGroupLayout{p.groupLay},
	})
	if err != nil {
		p.destroy()
		return nil, fmt.Errorf("native: create %s pipeline layout: %w", name, err)
	}

	target := gputypes.ColorTargetState{
		Format:    d.opts.targetFormat,
		WriteMask: gputypes.ColorWriteMaskAll,
	}
	if desc.Premultiplied {
		premulBlend := gputypes.BlendStatePremultiplied()
		target.Blend = &premulBlend
	}
	vs, fs := desc.Entries()
	p.pipeline, err = d.dev.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  d.label(name + "_pipeline"),
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: vs,
			Buffers:    vertexBuffers(desc.Vertex),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: fs,
			Targets:    []gputypes.ColorTargetState{target},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		p.destroy()
		return nil, fmt.Errorf("native: create %s pipeline: %w", name, err)
	}
	return p, nil
}

// layoutEntries maps a program layout to bind group layout entries.
func layoutEntries(lay fx.ProgramLayout) []gputypes.BindGroupLayoutEntry {
	entries := make([]gputypes.BindGroupLayoutEntry, 0, 1+lay.Textures+lay.Samplers)
	if lay.ConstantSize > 0 {
		entries = append(entries, gputypes.BindGroupLayoutEntry{
			Binding:    constantBinding,
			Visibility: shaderStages(lay.ConstantStages),
			Buffer: &gputypes.BufferBindingLayout{
				Type:           gputypes.BufferBindingTypeUniform,
				MinBindingSize: uint64(lay.ConstantSize),
			},
		})
	}
	for i := range lay.Textures {
		entries = append(entries, gputypes.BindGroupLayoutEntry{
			Binding:    textureBinding + uint32(i),
			Visibility: gputypes.ShaderStageFragment,
			Texture: &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeFloat,
				ViewDimension: gputypes.TextureViewDimension2D,
			},
		})
	}
	for i := range lay.Samplers {
		entries = append(entries, gputypes.BindGroupLayoutEntry{
			Binding:    samplerBinding + uint32(i),
			Visibility: gputypes.ShaderStageFragment,
			Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
		})
	}
	return entries
}

func shaderStages(s fx.Stage) gputypes.ShaderStages {
	var out gputypes.ShaderStages
	if s.Has(fx.StageVertex) {
		out |= gputypes.ShaderStageVertex
	}
	if s.Has(fx.StageFragment) {
		out |= gputypes.ShaderStageFragment
	}
	return out
}

func vertexBuffers(v fx.VertexLayout) []gputypes.VertexBufferLayout {
	if len(v.Attributes) == 0 {
		return nil
	}
	attrs := make([]gputypes.VertexAttribute, len(v.Attributes))
	for i, a := range v.Attributes {
		attrs[i] = gputypes.VertexAttribute{
			Format:         vertexFormat(a.Format),
			Offset:         uint64(a.Offset),
			ShaderLocation: a.Location,
		}
	}
	return []gputypes.VertexBufferLayout{{
		ArrayStride: uint64(v.Stride),
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes:  attrs,
	}}
}

func vertexFormat(f fx.VertexFormat) gputypes.VertexFormat {
	switch f {
	case fx.VertexFloat32x3:
		return gputypes.VertexFormatFloat32x3
	case fx.VertexFloat32x4:
		return gputypes.VertexFormatFloat32x4
	default:
		return gputypes.VertexFormatFloat32x2
	}
}
