package native

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/fx"
	"github.com/gogpu/fx/effects"
)

func TestFrameAppliesPostEffect(t *testing.T) {
	d := newTestDevice(t)
	h := newTestHost(t, d)

	src, err := d.CreateRenderTarget("scene", 64, 32)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Release()
	dst, err := d.CreateRenderTarget("out", 64, 32)
	if err != nil {
		t.Fatal(err)
	}
	defer dst.Release()

	e, err := effects.NewThreshold(h)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	e.SetInput(src)

	for frame := range 3 {
		f, err := d.BeginFrame(dst, gputypes.Color{A: 1})
		if err != nil {
			t.Fatal(err)
		}
		if err := e.Apply(f.Context(), fx.Slots{}); err != nil {
			t.Fatalf("frame %d: Apply() = %v", frame, err)
		}
		if err := f.Draw(3); err != nil {
			t.Fatalf("frame %d: Draw() = %v", frame, err)
		}
		if err := f.End(); err != nil {
			t.Fatalf("frame %d: End() = %v", frame, err)
		}
		if err := f.End(); !errors.Is(err, ErrFrameEnded) {
			t.Errorf("second End() = %v, want ErrFrameEnded", err)
		}
	}
	if e.Uploads() != 1 {
		t.Errorf("Uploads() = %d, want 1", e.Uploads())
	}
	if n := d.cachedGroups(); n != 1 {
		t.Errorf("cached bind groups = %d, want 1", n)
	}

	src.Release()
	if n := d.cachedGroups(); n != 0 {
		t.Errorf("cached bind groups after texture release = %d, want 0", n)
	}
}

func TestFrameDrawsMesh(t *testing.T) {
	d := newTestDevice(t)
	h := newTestHost(t, d)
	dst, err := d.CreateRenderTarget("out", 16, 16)
	if err != nil {
		t.Fatal(err)
	}
	defer dst.Release()

	e, err := effects.NewBasic(h)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	tri := [3]effects.BasicVertex{
		{Position: fx.V3(0, 1, 0)},
		{Position: fx.V3(-1, -1, 0)},
		{Position: fx.V3(1, -1, 0)},
	}
	vb, err := d.CreateVertexBuffer("triangle", fx.Bytes(&tri))
	if err != nil {
		t.Fatal(err)
	}
	defer vb.Release()

	f, err := d.BeginFrame(dst, gputypes.Color{})
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Apply(f.Context(), fx.Slots{}); err != nil {
		t.Fatal(err)
	}
	if err := f.DrawVertices(vb, 3); err != nil {
		t.Fatal(err)
	}
	if err := f.End(); err != nil {
		t.Fatal(err)
	}
}

func TestDrawReportsUnboundSlots(t *testing.T) {
	d := newTestDevice(t)
	h := newTestHost(t, d)
	dst, err := d.CreateRenderTarget("out", 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	defer dst.Release()
	src, err := d.CreateRenderTarget("in", 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Release()

	e, err := effects.NewThreshold(h)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	e.SetInput(src)

	f, err := d.BeginFrame(dst, gputypes.Color{})
	if err != nil {
		t.Fatal(err)
	}
	defer f.Discard()

	if err := f.Draw(3); !errors.Is(err, ErrNoProgram) {
		t.Errorf("Draw() before Apply = %v, want ErrNoProgram", err)
	}
	if err := e.Apply(f.Context(), fx.Slots{Texture: 2, Sampler: 2}); err != nil {
		t.Fatal(err)
	}
	if err := f.Draw(3); !errors.Is(err, ErrUnboundSlot) {
		t.Errorf("Draw() with shifted slots = %v, want ErrUnboundSlot", err)
	}
}

func TestBindGroupCacheEvicts(t *testing.T) {
	d := newTestDevice(t, WithBindGroupCacheSize(2))
	h := newTestHost(t, d)
	dst, err := d.CreateRenderTarget("out", 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	defer dst.Release()

	e, err := effects.NewThreshold(h)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	f, err := d.BeginFrame(dst, gputypes.Color{})
	if err != nil {
		t.Fatal(err)
	}
	for i := range 4 {
		src, err := d.CreateRenderTarget("in", 8, 8)
		if err != nil {
			t.Fatal(err)
		}
		defer src.Release()
		e.SetInput(src)
		if err := e.Apply(f.Context(), fx.Slots{}); err != nil {
			t.Fatal(err)
		}
		if err := f.Draw(3); err != nil {
			t.Fatalf("draw %d: %v", i, err)
		}
	}
	if err := f.End(); err != nil {
		t.Fatal(err)
	}
	if n := d.cachedGroups(); n != 2 {
		t.Errorf("cached bind groups = %d, want 2", n)
	}
}

func TestBeginFrameNilTarget(t *testing.T) {
	d := newTestDevice(t)
	if _, err := d.BeginFrame(nil, gputypes.Color{}); err == nil {
		t.Error("BeginFrame(nil) succeeded")
	}
}

// failingEncoderDevice hands out encoders that cannot begin encoding.
type failingEncoderDevice struct {
	hal.Device
	encoders []*failingEncoder
}

func (d *failingEncoderDevice) CreateCommandEncoder(desc *hal.CommandEncoderDescriptor) (hal.CommandEncoder, error) {
	enc, err := d.Device.CreateCommandEncoder(desc)
	if err != nil {
		return nil, err
	}
	fe := &failingEncoder{CommandEncoder: enc}
	d.encoders = append(d.encoders, fe)
	return fe, nil
}

type failingEncoder struct {
	hal.CommandEncoder
	discarded bool
}

var errBeginEncoding = errors.New("encoder lost")

func (e *failingEncoder) BeginEncoding(string) error { return errBeginEncoding }

func (e *failingEncoder) DiscardEncoding() { e.discarded = true }

func TestBeginFrameDiscardsEncoderOnFailure(t *testing.T) {
	hd, hq := createNoopDevice(t)
	fd := &failingEncoderDevice{Device: hd}
	d, err := NewDevice(fd, hq)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()
	dst, err := d.CreateRenderTarget("out", 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	defer dst.Release()

	if _, err := d.BeginFrame(dst, gputypes.Color{}); !errors.Is(err, errBeginEncoding) {
		t.Fatalf("BeginFrame() = %v, want the encoding error", err)
	}
	if len(fd.encoders) != 1 || !fd.encoders[0].discarded {
		t.Error("encoder not discarded after BeginEncoding failed")
	}
}

func TestSeparableBlurChain(t *testing.T) {
	d := newTestDevice(t)
	h := newTestHost(t, d)

	targets := make([]*Texture, 3)
	for i, label := range []string{"src", "blurred_h", "blurred"} {
		tex, err := d.CreateRenderTarget(label, 32, 16)
		if err != nil {
			t.Fatal(err)
		}
		defer tex.Release()
		targets[i] = tex
	}

	passes := make([]*effects.GaussianBlur, 2)
	for i, dir := range []effects.BlurDirection{effects.BlurHorizontal, effects.BlurVertical} {
		e, err := effects.NewGaussianBlur(h)
		if err != nil {
			t.Fatal(err)
		}
		defer e.Close()
		if err := e.SetDirection(dir); err != nil {
			t.Fatal(err)
		}
		e.SetInput(targets[i])
		passes[i] = e
	}

	for frame := range 2 {
		for i, e := range passes {
			f, err := d.BeginFrame(targets[i+1], gputypes.Color{A: 1})
			if err != nil {
				t.Fatal(err)
			}
			if err := e.Apply(f.Context(), fx.Slots{}); err != nil {
				t.Fatalf("frame %d pass %d: Apply() = %v", frame, i, err)
			}
			if err := f.Draw(3); err != nil {
				t.Fatalf("frame %d pass %d: Draw() = %v", frame, i, err)
			}
			if err := f.End(); err != nil {
				t.Fatalf("frame %d pass %d: End() = %v", frame, i, err)
			}
		}
	}

	if passes[0].Program() != passes[1].Program() {
		t.Error("both directions must share one program")
	}
	for i, e := range passes {
		if e.Uploads() != 1 {
			t.Errorf("pass %d uploads = %d, want 1", i, e.Uploads())
		}
	}
	if _, misses := h.Programs().Stats(); misses != 1 {
		t.Errorf("program misses = %d, want 1", misses)
	}
}
