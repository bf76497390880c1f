// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package fx

import (
	"github.com/google/uuid"
)

// DeviceKey identifies a device for program sharing.
// Two effects share a program only when both their device keys and kinds match.
type DeviceKey uuid.UUID

// NewDeviceKey returns a fresh random device key.
func NewDeviceKey() DeviceKey {
	return DeviceKey(uuid.New())
}

// String returns the canonical UUID form of the key.
func (k DeviceKey) String() string {
	return uuid.UUID(k).String()
}

// Kind names an effect and selects its program.
type Kind string

// Stage is a bitmask of shader stages.
type Stage uint8

// Shader stages.
const (
	StageVertex Stage = 1 << iota
	StageFragment

	StageNone Stage = 0
	StageAll        = StageVertex | StageFragment
)

// Has reports whether s includes every stage in other.
func (s Stage) Has(other Stage) bool { return s&other == other }

// String returns a readable stage list.
func (s Stage) String() string {
	switch s {
	case StageNone:
		return "none"
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageAll:
		return "vertex|fragment"
	default:
		return "invalid"
	}
}

// Device creates the GPU resources effects need.
//
// Implementations are provided by backend/native (gogpu/wgpu) and
// fxtest (recording, no GPU).
type Device interface {
	// Key identifies the device in a ProgramCache.
	Key() DeviceKey

	// CreateConstantBuffer allocates a constant buffer of size bytes.
	// The buffer is updated later through Context.UpdateBuffer.
	CreateConstantBuffer(label string, size int) (Buffer, error)

	// CreateProgram builds an immutable program from desc.
	CreateProgram(desc *ProgramDesc) (Program, error)

	// CreateSampler creates a texture sampler.
	CreateSampler(desc SamplerDesc) (Sampler, error)
}

// Context receives the state for one draw.
// Every Set call replaces whatever was bound at that stage and slot before.
type Context interface {
	UpdateBuffer(buf Buffer, data []byte) error
	SetProgram(p Program)
	SetConstantBuffer(stages Stage, slot uint32, buf Buffer)
	SetTexture(stages Stage, slot uint32, tex Texture)
	SetSampler(stages Stage, slot uint32, s Sampler)
}

// Buffer is a device constant buffer.
type Buffer interface {
	Size() int
	Release()
}

// Program is an immutable, linked vertex/fragment shader pair.
type Program interface {
	Kind() Kind
	Release()
}

// Texture is a sampled texture owned by the caller.
type Texture interface {
	Width() int
	Height() int
}

// Sampler is a texture sampler.
type Sampler interface {
	Release()
}

// FilterMode selects texel filtering.
type FilterMode uint8

// Filter modes.
const (
	FilterLinear FilterMode = iota
	FilterNearest
)

// AddressMode selects how coordinates outside [0,1] are resolved.
type AddressMode uint8

// Address modes.
const (
	AddressClamp AddressMode = iota
	AddressRepeat
	AddressMirror
)

// SamplerDesc describes a sampler.
type SamplerDesc struct {
	Label   string
	Filter  FilterMode
	Address AddressMode
}

// DefaultSamplerDesc is the clamped bilinear sampler used when an effect
// has no sampler of its own.
var DefaultSamplerDesc = SamplerDesc{Label: "fx_default_sampler", Filter: FilterLinear, Address: AddressClamp}

// VertexFormat is the type of one vertex attribute.
type VertexFormat uint8

// Vertex attribute formats.
const (
	VertexFloat32x2 VertexFormat = iota + 1
	VertexFloat32x3
	VertexFloat32x4
)

// Size returns the attribute size in bytes.
func (f VertexFormat) Size() uint32 {
	switch f {
	case VertexFloat32x2:
		return 8
	case VertexFloat32x3:
		return 12
	case VertexFloat32x4:
		return 16
	default:
		return 0
	}
}

// VertexAttribute is one attribute of a vertex layout.
type VertexAttribute struct {
	Location uint32
	Format   VertexFormat
	Offset   uint32
}

// VertexLayout describes the vertex buffer a program reads.
// Effects that draw a fullscreen triangle leave it empty.
type VertexLayout struct {
	Stride     uint32
	Attributes []VertexAttribute
}

// ProgramLayout describes the resources a program binds.
//
// Constant buffers live at slots.ConstantBuffer, textures at
// slots.Texture+i and samplers at slots.Sampler+i.
type ProgramLayout struct {
	ConstantSize   int
	ConstantStages Stage
	Textures       int
	Samplers       int
}

// ProgramDesc describes a program to build.
// Source is WGSL; SPIRV, when set, takes precedence on backends that accept it.
type ProgramDesc struct {
	Kind          Kind
	Source        string
	SPIRV         []uint32
	VertexEntry   string
	FragmentEntry string
	Layout        ProgramLayout
	Vertex        VertexLayout

	// Premultiplied enables premultiplied-alpha blending on the color target.
	Premultiplied bool
}

// Entry points used when a descriptor leaves them empty.
const (
	DefaultVertexEntry   = "vs_main"
	DefaultFragmentEntry = "fs_main"
)

// Entries returns the vertex and fragment entry points, applying defaults.
func (d *ProgramDesc) Entries() (vs, fs string) {
	vs, fs = d.VertexEntry, d.FragmentEntry
	if vs == "" {
		vs = DefaultVertexEntry
	}
	if fs == "" {
		fs = DefaultFragmentEntry
	}
	return vs, fs
}
