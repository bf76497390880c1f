package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestList(t *testing.T) {
	out, err := run(t, "list")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"gaussianblur", "Gaussian Blur", "basic_textured", "Basic Textured"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Smoothness") {
		t.Error("parameters listed without --params")
	}
}

func TestListParams(t *testing.T) {
	out, err := run(t, "list", "--params")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Smoothness") || !strings.Contains(out, "[0, 0.5]") {
		t.Errorf("list --params output missing threshold smoothness:\n%s", out)
	}
}

func TestInvalidLogLevel(t *testing.T) {
	if _, err := run(t, "--log-level", "loud", "list"); err == nil {
		t.Error("invalid log level accepted")
	}
}

func TestCheck(t *testing.T) {
	out, err := run(t, "check", "testdata/good.toml")
	if err != nil {
		t.Fatalf("check good.toml = %v", err)
	}
	if !strings.Contains(out, "ok  bloom-cut") || !strings.Contains(out, "ok  blur-x") {
		t.Errorf("check output = %q", out)
	}

	_, err = run(t, "check", "testdata/bad.toml")
	if err == nil || !strings.Contains(err.Error(), "Cr") {
		t.Errorf("check bad.toml = %v, want a Cr range error", err)
	}
}

func TestCompileUnknownKind(t *testing.T) {
	if _, err := run(t, "compile", "-o", t.TempDir(), "sparkle"); err == nil {
		t.Error("compile of unknown kind succeeded")
	}
}

func TestCompile(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "compile", "-o", dir, "threshold")
	if err != nil {
		if msg := err.Error(); strings.Contains(msg, "not yet implemented") || strings.Contains(msg, "not supported") {
			t.Skipf("naga: %v", err)
		}
		t.Fatal(err)
	}
	b, err := os.ReadFile(filepath.Join(dir, "threshold.spv"))
	if err != nil {
		t.Fatal(err)
	}
	if len(b) < 4 || b[0] != 0x03 || b[1] != 0x02 || b[2] != 0x23 || b[3] != 0x07 {
		t.Errorf("threshold.spv does not start with the SPIR-V magic number")
	}
}

func TestShaderSourceOverride(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "vignette.wgsl"), []byte("// override"), 0o644); err != nil {
		t.Fatal(err)
	}
	src, err := shaderSource("vignette", dir)
	if err != nil || src != "// override" {
		t.Errorf("shaderSource(vignette) = %q, %v", src, err)
	}
	src, err = shaderSource("threshold", dir)
	if err != nil || !strings.Contains(src, "fs_main") {
		t.Errorf("shaderSource(threshold) fell back to %q, %v", src, err)
	}
}

func TestBackends(t *testing.T) {
	out, err := run(t, "backends")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "record   ok") {
		t.Errorf("backends output = %q", out)
	}
	if !strings.Contains(out, "native") {
		t.Errorf("native backend not listed: %q", out)
	}
}
