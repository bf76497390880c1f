package fxtest

import (
	"fmt"

	"github.com/gogpu/fx"
)

// Binding addresses a stage and slot.
type Binding struct {
	Stage fx.Stage
	Slot  uint32
}

// Call is one recorded context call.
type Call struct {
	Op    string
	Stage fx.Stage
	Slot  uint32
}

func (c Call) String() string {
	if c.Op == "program" || c.Op == "upload" {
		return c.Op
	}
	return fmt.Sprintf("%s(%v,%d)", c.Op, c.Stage, c.Slot)
}

// Context is an fx.Context that records calls and the resulting bound state.
type Context struct {
	Program         fx.Program
	ConstantBuffers map[Binding]fx.Buffer
	Textures        map[Binding]fx.Texture
	Samplers        map[Binding]fx.Sampler

	// FailUpload, when set, is returned by UpdateBuffer.
	FailUpload error

	calls   []Call
	uploads int
}

// NewContext returns an empty context.
func NewContext() *Context {
	c := &Context{}
	c.Reset()
	return c
}

// Reset clears bound state and recorded calls.
func (c *Context) Reset() {
	c.Program = nil
	c.ConstantBuffers = make(map[Binding]fx.Buffer)
	c.Textures = make(map[Binding]fx.Texture)
	c.Samplers = make(map[Binding]fx.Sampler)
	c.calls = nil
	c.uploads = 0
}

// UpdateBuffer implements fx.Context.
func (c *Context) UpdateBuffer(buf fx.Buffer, data []byte) error {
	if c.FailUpload != nil {
		return c.FailUpload
	}
	b, ok := buf.(*Buffer)
	if !ok {
		return fmt.Errorf("fxtest: foreign buffer %T", buf)
	}
	if b.released {
		return ErrReleased
	}
	if len(data) > b.size {
		return fmt.Errorf("fxtest: upload of %d bytes into %d byte buffer", len(data), b.size)
	}
	b.data = append(b.data[:0], data...)
	b.updates++
	c.uploads++
	c.calls = append(c.calls, Call{Op: "upload"})
	return nil
}

// SetProgram implements fx.Context.
func (c *Context) SetProgram(p fx.Program) {
	c.Program = p
	c.calls = append(c.calls, Call{Op: "program"})
}

// SetConstantBuffer implements fx.Context.
func (c *Context) SetConstantBuffer(stages fx.Stage, slot uint32, buf fx.Buffer) {
	c.ConstantBuffers[Binding{stages, slot}] = buf
	c.calls = append(c.calls, Call{Op: "constants", Stage: stages, Slot: slot})
}

// SetTexture implements fx.Context.
func (c *Context) SetTexture(stages fx.Stage, slot uint32, tex fx.Texture) {
	c.Textures[Binding{stages, slot}] = tex
	c.calls = append(c.calls, Call{Op: "texture", Stage: stages, Slot: slot})
}

// SetSampler implements fx.Context.
func (c *Context) SetSampler(stages fx.Stage, slot uint32, s fx.Sampler) {
	c.Samplers[Binding{stages, slot}] = s
	c.calls = append(c.calls, Call{Op: "sampler", Stage: stages, Slot: slot})
}

// Calls returns the recorded calls in order.
func (c *Context) Calls() []Call { return append([]Call(nil), c.calls...) }

// Uploads returns how many buffer uploads the context performed.
func (c *Context) Uploads() int { return c.uploads }
