package native

import (
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// frameTimeout bounds how long End waits for the GPU.
const frameTimeout = 5 * time.Second

// Frame is one render pass into a texture. Effects are applied to
// Frame.Context and drawn with Draw or DrawVertices.
type Frame struct {
	dev     *Device
	encoder hal.CommandEncoder
	pass    hal.RenderPassEncoder
	ctx     *Context
	ended   bool
}

// BeginFrame starts a render pass that clears target to clear.
// The target must have been created with CreateRenderTarget.
func (d *Device) BeginFrame(target *Texture, clear gputypes.Color) (*Frame, error) {
	if target == nil || target.view == nil {
		return nil, fmt.Errorf("native: begin frame: %w", ErrInvalidDimensions)
	}
	encoder, err := d.dev.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: d.label("frame_encoder"),
	})
	if err != nil {
		return nil, fmt.Errorf("native: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(d.label("frame")); err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("native: begin encoding: %w", err)
	}
	pass := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: d.label("frame_pass"),
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       target.view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: clear,
		}},
	})
	return &Frame{dev: d, encoder: encoder, pass: pass, ctx: d.NewContext(pass)}, nil
}

// Context returns the context effects are applied to.
func (f *Frame) Context() *Context { return f.ctx }

// Draw draws vertexCount vertices with the state bound on the context.
func (f *Frame) Draw(vertexCount uint32) error {
	if f.ended {
		return ErrFrameEnded
	}
	return f.ctx.Draw(vertexCount)
}

// DrawVertices draws vertexCount vertices from vb.
func (f *Frame) DrawVertices(vb *Buffer, vertexCount uint32) error {
	if f.ended {
		return ErrFrameEnded
	}
	return f.ctx.DrawVertices(vb, vertexCount)
}

// End finishes the pass, submits it and waits for the GPU.
func (f *Frame) End() error {
	if f.ended {
		return ErrFrameEnded
	}
	f.ended = true
	f.pass.End()

	cmdBuf, err := f.encoder.EndEncoding()
	if err != nil {
		f.encoder.DiscardEncoding()
		return fmt.Errorf("native: end encoding: %w", err)
	}
	dev := f.dev.dev
	defer dev.FreeCommandBuffer(cmdBuf)

	fence, err := dev.CreateFence()
	if err != nil {
		return fmt.Errorf("native: create fence: %w", err)
	}
	defer dev.DestroyFence(fence)

	if err := f.dev.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("native: submit: %w", err)
	}
	ok, err := dev.Wait(fence, 1, frameTimeout)
	if err != nil {
		return fmt.Errorf("native: wait: %w", err)
	}
	if !ok {
		return fmt.Errorf("native: frame timed out after %v", frameTimeout)
	}
	return nil
}

// Discard abandons the frame without submitting it.
func (f *Frame) Discard() {
	if f.ended {
		return
	}
	f.ended = true
	f.pass.End()
	f.encoder.DiscardEncoding()
}
