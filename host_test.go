package fx_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/gogpu/fx"
	"github.com/gogpu/fx/fxtest"
)

func TestNewHostNilDevice(t *testing.T) {
	if _, err := fx.NewHost(nil); !errors.Is(err, fx.ErrNilDevice) {
		t.Errorf("NewHost(nil) = %v, want ErrNilDevice", err)
	}
}

func TestHostDefaultSamplerIsLazy(t *testing.T) {
	dev := fxtest.NewDevice()
	h, err := fx.NewHost(dev, fx.WithDefaultSampler(fx.SamplerDesc{Label: "nearest", Filter: fx.FilterNearest}))
	if err != nil {
		t.Fatal(err)
	}
	if dev.LiveSamplers() != 0 {
		t.Fatal("sampler created before first use")
	}
	s1, err := h.DefaultSampler()
	if err != nil {
		t.Fatal(err)
	}
	s2, _ := h.DefaultSampler()
	if s1 != s2 || dev.LiveSamplers() != 1 {
		t.Error("default sampler should be created once")
	}
	if got := s1.(*fxtest.Sampler).Desc().Filter; got != fx.FilterNearest {
		t.Errorf("sampler filter = %v, want nearest", got)
	}

	if err := h.Close(); err != nil {
		t.Fatal(err)
	}
	if dev.LiveSamplers() != 0 {
		t.Error("Close must release the default sampler")
	}
	if _, err := h.DefaultSampler(); !errors.Is(err, fx.ErrClosed) {
		t.Errorf("DefaultSampler after Close = %v, want ErrClosed", err)
	}
}

func TestHostCloseReleasesPrograms(t *testing.T) {
	cache := fx.NewProgramCache()
	devA, devB := fxtest.NewDevice(), fxtest.NewDevice()
	hA, _ := fx.NewHost(devA, fx.WithProgramCache(cache))
	hB, _ := fx.NewHost(devB, fx.WithProgramCache(cache))

	for _, h := range []*fx.Host{hA, hB} {
		if _, err := h.Program(&fx.ProgramDesc{Kind: "k"}); err != nil {
			t.Fatal(err)
		}
	}
	_ = hA.Close()
	_ = hA.Close()

	if devA.LivePrograms() != 0 {
		t.Error("host A programs not released")
	}
	if devB.LivePrograms() != 1 {
		t.Error("closing host A released host B programs")
	}
	if _, err := hA.Program(&fx.ProgramDesc{Kind: "k"}); !errors.Is(err, fx.ErrClosed) {
		t.Errorf("Program after Close = %v, want ErrClosed", err)
	}
}

func TestHostAppliesShaderOverrides(t *testing.T) {
	lib := fx.NewShaderLibrary()
	lib.Set("k", "// override")
	dev := fxtest.NewDevice()
	h, _ := fx.NewHost(dev, fx.WithShaderLibrary(lib))

	p, err := h.Program(&fx.ProgramDesc{Kind: "k", Source: "// builtin", SPIRV: []uint32{1}})
	if err != nil {
		t.Fatal(err)
	}
	desc := p.(*fxtest.Program).Desc()
	if desc.Source != "// override" || desc.SPIRV != nil {
		t.Errorf("program built from %q (spirv=%v), want override", desc.Source, desc.SPIRV)
	}
	if h.Shaders() != lib {
		t.Error("Shaders() should return the configured library")
	}
}

func TestShaderLibrary(t *testing.T) {
	lib := fx.NewShaderLibrary()
	lib.Set("b", "B")
	lib.Set("a", "A")
	if got := lib.Kinds(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Kinds() = %v", got)
	}
	if src, ok := lib.Source("a"); !ok || src != "A" {
		t.Errorf("Source(a) = %q, %v", src, ok)
	}
	if !lib.Remove("a") || lib.Remove("a") {
		t.Error("Remove should report presence once")
	}

	desc := &fx.ProgramDesc{Kind: "z", Source: "Z"}
	if lib.Resolve(desc) != desc {
		t.Error("Resolve without override should return desc unchanged")
	}
}

// gatedDevice blocks CreateProgram until gate is closed.
type gatedDevice struct {
	*fxtest.Device
	entered chan struct{}
	gate    chan struct{}
}

func (d *gatedDevice) CreateProgram(desc *fx.ProgramDesc) (fx.Program, error) {
	d.entered <- struct{}{}
	<-d.gate
	return d.Device.CreateProgram(desc)
}

func TestHostProgramSeesReloadedSource(t *testing.T) {
	cache := fx.NewProgramCache()
	lib := fx.NewShaderLibrary()
	lib.Set("k", "old")

	slow := &gatedDevice{Device: fxtest.NewDevice(), entered: make(chan struct{}, 1), gate: make(chan struct{})}
	hA, _ := fx.NewHost(slow, fx.WithProgramCache(cache), fx.WithShaderLibrary(lib))
	hB, _ := fx.NewHost(fxtest.NewDevice(), fx.WithProgramCache(cache), fx.WithShaderLibrary(lib))

	var wg sync.WaitGroup
	var progB fx.Program
	wg.Add(2)
	go func() {
		defer wg.Done()
		if _, err := hA.Program(&fx.ProgramDesc{Kind: "k"}); err != nil {
			t.Error(err)
		}
	}()
	<-slow.entered
	go func() {
		defer wg.Done()
		p, err := hB.Program(&fx.ProgramDesc{Kind: "k"})
		if err != nil {
			t.Error(err)
		}
		progB = p
	}()

	lib.Set("k", "new")
	retired := make(chan int)
	go func() { retired <- cache.Retire("k") }()
	close(slow.gate)
	wg.Wait()
	if n := <-retired; n < 1 {
		t.Errorf("Retire() = %d, want the program built from the old source", n)
	}

	if progB == nil {
		t.Fatal("no program for the second device")
	}
	if got := progB.(*fxtest.Program).Desc().Source; got != "new" {
		t.Errorf("program created after Set uses source %q, want new", got)
	}
	fresh, err := hA.Program(&fx.ProgramDesc{Kind: "k"})
	if err != nil {
		t.Fatal(err)
	}
	if got := fresh.(*fxtest.Program).Desc().Source; got != "new" {
		t.Errorf("program after Retire uses source %q, want new", got)
	}
}
