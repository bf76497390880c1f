package fx_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/fx"
	"github.com/gogpu/fx/fxtest"
)

type mixConstants struct {
	Amount float32
	_      [3]float32
}

// mix is a minimal two-input effect built on Bindable.
type mix struct {
	*fx.Bindable[mixConstants]
	amount float32
}

func newMix(h *fx.Host) (*mix, error) {
	m := &mix{amount: 0.5}
	b, err := fx.NewBindable(h, &fx.ProgramDesc{
		Kind:   "mix",
		Layout: fx.ProgramLayout{Textures: 2, Samplers: 1},
	}, fx.DerivedGroup[mixConstants]{Name: "amount", Flag: 1, Update: func(d *mixConstants) {
		d.Amount = m.amount
	}})
	if err != nil {
		return nil, err
	}
	m.Bindable = b
	return m, nil
}

func (m *mix) SetAmount(v float32) error {
	if err := fx.CheckRange("Amount", v, fx.Unit); err != nil {
		return err
	}
	fx.Assign(m, &m.amount, v, 1)
	return nil
}

func newMixFixture(t *testing.T) (*fxtest.Device, *fx.Host, *mix) {
	t.Helper()
	dev := fxtest.NewDevice()
	h, err := fx.NewHost(dev)
	if err != nil {
		t.Fatal(err)
	}
	m, err := newMix(h)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = m.Close()
		_ = h.Close()
	})
	return dev, h, m
}

func TestBindableApplyOrder(t *testing.T) {
	_, _, m := newMixFixture(t)
	m.SetTexture(0, fxtest.NewTexture("a", 4, 4))
	m.SetTexture(1, fxtest.NewTexture("b", 4, 4))

	ctx := fxtest.NewContext()
	if err := m.Apply(ctx, fx.Slots{ConstantBuffer: 1, Texture: 2, Sampler: 3}); err != nil {
		t.Fatal(err)
	}

	var ops []string
	for _, c := range ctx.Calls() {
		ops = append(ops, c.String())
	}
	want := []string{
		"upload",
		"program",
		"constants(fragment,1)",
		"texture(fragment,2)",
		"texture(fragment,3)",
		"sampler(fragment,3)",
	}
	if !slices.Equal(ops, want) {
		t.Errorf("calls = %v\nwant    %v", ops, want)
	}
	if ctx.Program != m.Program() {
		t.Error("program not bound")
	}
}

func TestBindableApplyValidatesBeforeBinding(t *testing.T) {
	_, _, m := newMixFixture(t)
	m.SetTexture(0, fxtest.NewTexture("a", 4, 4))

	ctx := fxtest.NewContext()
	err := m.Apply(ctx, fx.Slots{})
	if !errors.Is(err, fx.ErrMissingTexture) {
		t.Fatalf("Apply() = %v, want ErrMissingTexture", err)
	}
	if len(ctx.Calls()) != 0 {
		t.Errorf("failed Apply touched the context: %v", ctx.Calls())
	}
	if err := m.Apply(nil, fx.Slots{}); !errors.Is(err, fx.ErrNilContext) {
		t.Errorf("Apply(nil) = %v, want ErrNilContext", err)
	}
}

func TestBindableSetToSameValueStaysClean(t *testing.T) {
	_, _, m := newMixFixture(t)
	m.SetTexture(0, fxtest.NewTexture("a", 1, 1))
	m.SetTexture(1, fxtest.NewTexture("b", 1, 1))
	ctx := fxtest.NewContext()
	_ = m.Apply(ctx, fx.Slots{})

	if err := m.SetAmount(0.5); err != nil {
		t.Fatal(err)
	}
	if m.Dirty() != 0 {
		t.Errorf("Dirty() = %v after setting the current value", m.Dirty())
	}
	if err := m.SetAmount(2); !errors.Is(err, fx.ErrOutOfRange) {
		t.Errorf("SetAmount(2) = %v, want ErrOutOfRange", err)
	}
	_ = m.SetAmount(0.75)
	_ = m.Apply(ctx, fx.Slots{})
	got, _ := fxtest.Contents[mixConstants](m.Constants().Buffer())
	if got.Amount != 0.75 || m.Uploads() != 2 {
		t.Errorf("Amount = %v after %d uploads, want 0.75 after 2", got.Amount, m.Uploads())
	}
}

func TestBindableSamplerOverride(t *testing.T) {
	dev, h, m := newMixFixture(t)
	m.SetTexture(0, fxtest.NewTexture("a", 1, 1))
	m.SetTexture(1, fxtest.NewTexture("b", 1, 1))

	own, _ := dev.CreateSampler(fx.SamplerDesc{Label: "own"})
	m.SetSampler(0, own)
	ctx := fxtest.NewContext()
	if err := m.Apply(ctx, fx.Slots{}); err != nil {
		t.Fatal(err)
	}
	if ctx.Samplers[fxtest.Binding{Stage: fx.StageFragment, Slot: 0}] != own {
		t.Error("explicit sampler not bound")
	}

	m.SetSampler(0, nil)
	_ = m.Apply(ctx, fx.Slots{})
	def, _ := h.DefaultSampler()
	if ctx.Samplers[fxtest.Binding{Stage: fx.StageFragment, Slot: 0}] != def {
		t.Error("default sampler not bound after clearing the override")
	}
}

func TestBindableSharesProgramAndCloseKeepsIt(t *testing.T) {
	dev, h, m1 := newMixFixture(t)
	m2, err := newMix(h)
	if err != nil {
		t.Fatal(err)
	}
	if m1.Program() != m2.Program() {
		t.Fatal("two effects of one kind must share a program")
	}
	if dev.ProgramsCreated() != 1 {
		t.Errorf("ProgramsCreated = %d, want 1", dev.ProgramsCreated())
	}

	_ = m2.Close()
	_ = m2.Close()
	if dev.LivePrograms() != 1 {
		t.Error("closing an effect must not release the shared program")
	}
	if dev.LiveBuffers() != 1 {
		t.Errorf("LiveBuffers = %d, want 1", dev.LiveBuffers())
	}
	if err := m2.Apply(fxtest.NewContext(), fx.Slots{}); !errors.Is(err, fx.ErrClosed) {
		t.Errorf("Apply after Close = %v, want ErrClosed", err)
	}
}

func TestNewBindableErrors(t *testing.T) {
	if _, err := newMix(nil); !errors.Is(err, fx.ErrNilHost) {
		t.Errorf("nil host: %v", err)
	}

	dev := fxtest.NewDevice()
	dev.FailBuffer = errors.New("oom")
	h, _ := fx.NewHost(dev)
	if _, err := newMix(h); err == nil {
		t.Error("buffer creation failure not reported")
	}
}

func TestBindableLayoutDefaults(t *testing.T) {
	dev, _, m := newMixFixture(t)
	l := m.Layout()
	if l.ConstantSize != 16 || l.ConstantStages != fx.StageFragment {
		t.Errorf("Layout() = %+v", l)
	}
	if got := dev.Programs()[0].Desc().Layout.ConstantSize; got != 16 {
		t.Errorf("program built with ConstantSize %d, want 16", got)
	}
}
