package native

import (
	"sync"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/fx"
)

// Buffer is a HAL buffer. Constant buffers and vertex buffers share the type.
type Buffer struct {
	dev  *Device
	buf  hal.Buffer
	size int
	once sync.Once
}

// Size implements fx.Buffer.
func (b *Buffer) Size() int { return b.size }

// Release implements fx.Buffer. Bind groups that reference the buffer are
// destroyed with it.
func (b *Buffer) Release() {
	b.once.Do(func() {
		b.dev.forget(b)
		b.dev.dev.DestroyBuffer(b.buf)
		b.buf = nil
	})
}

// Program is a render pipeline with its bind group layout.
type Program struct {
	dev    *Device
	kind   fx.Kind
	layout fx.ProgramLayout
	vertex bool

	shader     hal.ShaderModule
	groupLay   hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline

	once sync.Once
}

// Kind implements fx.Program.
func (p *Program) Kind() fx.Kind { return p.kind }

// Layout returns the resource layout the program was built with.
func (p *Program) Layout() fx.ProgramLayout { return p.layout }

// Release implements fx.Program.
func (p *Program) Release() {
	p.once.Do(func() {
		p.dev.forget(p)
		p.destroy()
	})
}

// destroy tears down in reverse creation order. Nil members are skipped so
// partially built programs can be cleaned up too.
func (p *Program) destroy() {
	d := p.dev.dev
	if p.pipeline != nil {
		d.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		d.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.groupLay != nil {
		d.DestroyBindGroupLayout(p.groupLay)
		p.groupLay = nil
	}
	if p.shader != nil {
		d.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}

// Sampler is a HAL sampler.
type Sampler struct {
	dev     *Device
	sampler hal.Sampler
	once    sync.Once
}

// Release implements fx.Sampler.
func (s *Sampler) Release() {
	s.once.Do(func() {
		s.dev.forget(s)
		s.dev.dev.DestroySampler(s.sampler)
		s.sampler = nil
	})
}

var (
	_ fx.Buffer  = (*Buffer)(nil)
	_ fx.Program = (*Program)(nil)
	_ fx.Sampler = (*Sampler)(nil)
)
