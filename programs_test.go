package fx_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/gogpu/fx"
	"github.com/gogpu/fx/fxtest"
)

func TestProgramCacheSharesPerDeviceAndKind(t *testing.T) {
	cache := fx.NewProgramCache()
	devA, devB := fxtest.NewDevice(), fxtest.NewDevice()

	a1, err := cache.GetOrCreate(devA, &fx.ProgramDesc{Kind: "threshold"})
	if err != nil {
		t.Fatal(err)
	}
	a2, _ := cache.GetOrCreate(devA, &fx.ProgramDesc{Kind: "threshold"})
	b1, _ := cache.GetOrCreate(devB, &fx.ProgramDesc{Kind: "threshold"})
	a3, _ := cache.GetOrCreate(devA, &fx.ProgramDesc{Kind: "blur"})

	if a1 != a2 {
		t.Error("same device and kind must share the identical program")
	}
	if a1 == b1 {
		t.Error("different devices must not share programs")
	}
	if a1 == a3 {
		t.Error("different kinds must not share programs")
	}
	if devA.ProgramsCreated() != 2 || devB.ProgramsCreated() != 1 {
		t.Errorf("created A=%d B=%d, want 2 and 1", devA.ProgramsCreated(), devB.ProgramsCreated())
	}

	hits, misses := cache.Stats()
	if hits != 1 || misses != 3 {
		t.Errorf("Stats() = %d hits, %d misses; want 1, 3", hits, misses)
	}
	if got := cache.HitRate(); got != 0.25 {
		t.Errorf("HitRate() = %v, want 0.25", got)
	}
}

func TestProgramCacheConcurrentCreateOnce(t *testing.T) {
	cache := fx.NewProgramCache()
	dev := fxtest.NewDevice()

	const goroutines = 50
	results := make([]fx.Program, goroutines)
	var wg sync.WaitGroup
	for i := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := cache.GetOrCreate(dev, &fx.ProgramDesc{Kind: "vignette"})
			if err != nil {
				t.Error(err)
				return
			}
			results[i] = p
		}()
	}
	wg.Wait()

	if dev.ProgramsCreated() != 1 {
		t.Fatalf("ProgramsCreated = %d, want 1", dev.ProgramsCreated())
	}
	for i, p := range results {
		if p != results[0] {
			t.Fatalf("goroutine %d got a different program", i)
		}
	}
}

func TestProgramCacheErrors(t *testing.T) {
	cache := fx.NewProgramCache()
	if _, err := cache.GetOrCreate(nil, &fx.ProgramDesc{}); !errors.Is(err, fx.ErrNilDevice) {
		t.Errorf("nil device: %v", err)
	}
	if _, err := cache.GetOrCreate(fxtest.NewDevice(), nil); !errors.Is(err, fx.ErrNilDescriptor) {
		t.Errorf("nil desc: %v", err)
	}

	dev := fxtest.NewDevice()
	boom := errors.New("compile failed")
	dev.FailProgram = boom
	if _, err := cache.GetOrCreate(dev, &fx.ProgramDesc{Kind: "x"}); !errors.Is(err, boom) {
		t.Errorf("create failure: %v", err)
	}
	if cache.Len() != 0 {
		t.Errorf("failed creation must not be cached, Len = %d", cache.Len())
	}
}

func TestProgramCacheRetire(t *testing.T) {
	cache := fx.NewProgramCache()
	dev := fxtest.NewDevice()

	old, _ := cache.GetOrCreate(dev, &fx.ProgramDesc{Kind: "colortone"})
	_, _ = cache.GetOrCreate(dev, &fx.ProgramDesc{Kind: "threshold"})

	if n := cache.Retire("colortone"); n != 1 {
		t.Fatalf("Retire() = %d, want 1", n)
	}
	if _, ok := cache.Lookup(dev.Key(), "colortone"); ok {
		t.Error("retired kind still visible to Lookup")
	}
	if old.(*fxtest.Program).Released() {
		t.Error("retired program must stay alive")
	}

	fresh, _ := cache.GetOrCreate(dev, &fx.ProgramDesc{Kind: "colortone"})
	if fresh == old {
		t.Error("GetOrCreate after Retire returned the retired program")
	}

	if n := cache.ReleaseDevice(dev.Key()); n != 3 {
		t.Errorf("ReleaseDevice() = %d, want 3", n)
	}
	if dev.LivePrograms() != 0 {
		t.Errorf("LivePrograms = %d, want 0", dev.LivePrograms())
	}
}

func TestProgramCacheReleaseDeviceIsScoped(t *testing.T) {
	cache := fx.NewProgramCache()
	devA, devB := fxtest.NewDevice(), fxtest.NewDevice()
	_, _ = cache.GetOrCreate(devA, &fx.ProgramDesc{Kind: "k"})
	_, _ = cache.GetOrCreate(devB, &fx.ProgramDesc{Kind: "k"})

	cache.ReleaseDevice(devA.Key())

	if devA.LivePrograms() != 0 || devB.LivePrograms() != 1 {
		t.Errorf("live A=%d B=%d, want 0 and 1", devA.LivePrograms(), devB.LivePrograms())
	}
	if cache.Len() != 1 {
		t.Errorf("Len = %d, want 1", cache.Len())
	}

	cache.Close()
	if devB.LivePrograms() != 0 || cache.Len() != 0 {
		t.Error("Close must release every program")
	}
	if hits, misses := cache.Stats(); hits != 0 || misses != 0 {
		t.Error("Close must reset statistics")
	}
}
