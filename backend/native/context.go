package native

import (
	"fmt"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/fx"
)

// Context implements fx.Context over a render pass.
//
// Set calls only record state. Draw resolves the recorded state into a
// pipeline and bind group and issues the draw.
type Context struct {
	dev  *Device
	pass hal.RenderPassEncoder

	key groupKey
	err error
}

// NewContext returns a context that records into pass.
func (d *Device) NewContext(pass hal.RenderPassEncoder) *Context {
	return &Context{dev: d, pass: pass}
}

// UpdateBuffer implements fx.Context.
func (c *Context) UpdateBuffer(buf fx.Buffer, data []byte) error {
	b, ok := buf.(*Buffer)
	if !ok || b.dev != c.dev {
		return ErrForeignResource
	}
	if b.buf == nil {
		return fx.ErrClosed
	}
	if len(data) > b.size {
		return fmt.Errorf("native: upload of %d bytes into %d byte buffer", len(data), b.size)
	}
	c.dev.queue.WriteBuffer(b.buf, 0, data)
	return nil
}

// SetProgram implements fx.Context.
func (c *Context) SetProgram(p fx.Program) {
	prog, ok := p.(*Program)
	if !ok || prog.dev != c.dev {
		c.fail(ErrForeignResource)
		return
	}
	c.key.program = prog
}

// SetConstantBuffer implements fx.Context. Visibility comes from the
// program layout, so stages is not consulted.
func (c *Context) SetConstantBuffer(_ fx.Stage, slot uint32, buf fx.Buffer) {
	b, ok := buf.(*Buffer)
	if !ok || b.dev != c.dev {
		c.fail(ErrForeignResource)
		return
	}
	if slot != constantBinding {
		c.fail(fmt.Errorf("native: constant buffer slot %d out of range", slot))
		return
	}
	c.key.buffer = b
}

// SetTexture implements fx.Context.
func (c *Context) SetTexture(_ fx.Stage, slot uint32, tex fx.Texture) {
	t, ok := tex.(*Texture)
	if !ok || t.dev != c.dev {
		c.fail(ErrForeignResource)
		return
	}
	if slot >= maxSlots {
		c.fail(fmt.Errorf("%w: texture slot %d", ErrTooManySlots, slot))
		return
	}
	c.key.textures[slot] = t
}

// SetSampler implements fx.Context.
func (c *Context) SetSampler(_ fx.Stage, slot uint32, s fx.Sampler) {
	smp, ok := s.(*Sampler)
	if !ok || smp.dev != c.dev {
		c.fail(ErrForeignResource)
		return
	}
	if slot >= maxSlots {
		c.fail(fmt.Errorf("%w: sampler slot %d", ErrTooManySlots, slot))
		return
	}
	c.key.samplers[slot] = smp
}

// Draw draws vertexCount vertices without a vertex buffer. Post effects
// draw a fullscreen triangle with Draw(3).
func (c *Context) Draw(vertexCount uint32) error {
	if err := c.bind(); err != nil {
		return err
	}
	c.pass.Draw(vertexCount, 1, 0, 0)
	return nil
}

// DrawVertices draws vertexCount vertices from vb.
func (c *Context) DrawVertices(vb *Buffer, vertexCount uint32) error {
	if vb == nil || vb.dev != c.dev {
		return ErrForeignResource
	}
	if err := c.bind(); err != nil {
		return err
	}
	c.pass.SetVertexBuffer(0, vb.buf, 0)
	c.pass.Draw(vertexCount, 1, 0, 0)
	return nil
}

// Err returns the first error recorded by a Set call.
func (c *Context) Err() error { return c.err }

func (c *Context) bind() error {
	if c.err != nil {
		return c.err
	}
	if c.key.program == nil {
		return ErrNoProgram
	}
	k := c.key.trimmed()
	bg, err := c.dev.bindGroup(k, func() (hal.BindGroup, error) {
		return c.dev.createBindGroup(k)
	})
	if err != nil {
		return err
	}
	c.pass.SetPipeline(k.program.pipeline)
	c.pass.SetBindGroup(0, bg, nil)
	return nil
}

func (c *Context) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

var _ fx.Context = (*Context)(nil)
