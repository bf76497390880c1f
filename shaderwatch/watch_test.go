package shaderwatch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gogpu/fx"
	"github.com/gogpu/fx/effects"
	"github.com/gogpu/fx/fxtest"
)

func writeShader(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newHost(t *testing.T) (*fxtest.Device, *fx.Host) {
	t.Helper()
	dev := fxtest.NewDevice()
	h, err := fx.NewHost(dev)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = h.Close() })
	return dev, h
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		path string
		want fx.Kind
		ok   bool
	}{
		{"shaders/threshold.wgsl", "threshold", true},
		{"/abs/basic_textured.wgsl", "basic_textured", true},
		{"notes.txt", "", false},
		{".wgsl", "", false},
		{"dir/.threshold.wgsl", "", false},
	}
	for _, tt := range tests {
		got, ok := KindOf(tt.path)
		if got != tt.want || ok != tt.ok {
			t.Errorf("KindOf(%q) = %q, %v; want %q, %v", tt.path, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNewLoadsExistingShaders(t *testing.T) {
	dir := t.TempDir()
	writeShader(t, dir, "threshold.wgsl", "// custom threshold")
	writeShader(t, dir, "readme.md", "ignored")
	_, h := newHost(t)

	w, err := ForHost(dir, h)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	src, ok := h.Shaders().Source(effects.KindThreshold)
	if !ok || src != "// custom threshold" {
		t.Errorf("Source(threshold) = %q, %v", src, ok)
	}
	if got := h.Shaders().Kinds(); len(got) != 1 {
		t.Errorf("Kinds() = %v, want one override", got)
	}
	if w.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", w.Dir(), dir)
	}
}

func TestNewMissingDir(t *testing.T) {
	_, h := newHost(t)
	if _, err := ForHost(filepath.Join(t.TempDir(), "missing"), h); err == nil {
		t.Error("New() on a missing directory succeeded")
	}
	if _, err := New(t.TempDir(), nil, nil); err == nil {
		t.Error("New() with nil library succeeded")
	}
}

func TestReloadRetiresProgram(t *testing.T) {
	dir := t.TempDir()
	dev, h := newHost(t)
	w, err := ForHost(dir, h)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	var reloaded []fx.Kind
	w.OnReload = func(kind fx.Kind, removed bool) {
		if !removed {
			reloaded = append(reloaded, kind)
		}
	}

	old, err := effects.NewThreshold(h)
	if err != nil {
		t.Fatal(err)
	}
	defer old.Close()

	path := writeShader(t, dir, "threshold.wgsl", "// v2")
	if err := w.Reload(path); err != nil {
		t.Fatal(err)
	}
	if err := w.Reload(path); err != nil {
		t.Fatal(err)
	}
	if w.Reloads() != 1 {
		t.Errorf("Reloads() = %d, want 1 for unchanged source", w.Reloads())
	}
	if len(reloaded) != 1 || reloaded[0] != effects.KindThreshold {
		t.Errorf("OnReload calls = %v", reloaded)
	}

	fresh, err := effects.NewThreshold(h)
	if err != nil {
		t.Fatal(err)
	}
	defer fresh.Close()
	if fresh.Program() == old.Program() {
		t.Error("effect created after reload shares the retired program")
	}
	if dev.ProgramsCreated() != 2 {
		t.Errorf("ProgramsCreated() = %d, want 2", dev.ProgramsCreated())
	}
	if got := fresh.Program().(*fxtest.Program).Desc().Source; got != "// v2" {
		t.Errorf("new program source = %q, want override", got)
	}
	if old.Program().(*fxtest.Program).Released() {
		t.Error("retired program released while still in use")
	}
}

func TestForgetRestoresBuiltin(t *testing.T) {
	dir := t.TempDir()
	writeShader(t, dir, "vignette.wgsl", "// custom")
	_, h := newHost(t)
	w, err := ForHost(dir, h)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	w.Forget(effects.KindVignette)
	if _, ok := h.Shaders().Source(effects.KindVignette); ok {
		t.Error("override still present after Forget")
	}
	w.Forget(effects.KindVignette)
	if w.Reloads() != 2 {
		t.Errorf("Reloads() = %d, want 2", w.Reloads())
	}
}

func TestRunPicksUpWrites(t *testing.T) {
	dir := t.TempDir()
	_, h := newHost(t)
	w, err := ForHost(dir, h)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	changed := make(chan fx.Kind, 4)
	w.OnReload = func(kind fx.Kind, _ bool) { changed <- kind }

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	errc := make(chan error, 1)
	go func() { errc <- w.Run(ctx) }()

	writeShader(t, dir, "desaturate.wgsl", "// live edit")
	select {
	case kind := <-changed:
		if kind != effects.KindDesaturate {
			t.Errorf("reloaded kind = %q, want desaturate", kind)
		}
	case <-ctx.Done():
		t.Fatal("no reload observed")
	}

	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := <-errc; !errors.Is(err, ErrClosed) {
		t.Errorf("Run() = %v, want ErrClosed", err)
	}
}
