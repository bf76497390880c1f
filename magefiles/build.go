//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Build compiles every package and installs fxc.
func Build() error {
	if err := sh.RunV("go", "build", "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "install", "./cmd/fxc")
}

// Test runs the test suite with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "-count=1", "./...")
}

// Lint runs go vet.
func Lint() error {
	return sh.RunV("go", "vet", "./...")
}

type Shaders mg.Namespace

// Compile writes SPIR-V for every built-in effect to build/spirv.
func (Shaders) Compile() error {
	return sh.RunV("go", "run", "./cmd/fxc", "compile", "-o", "build/spirv")
}

// Check builds and applies every preset under presets/testdata.
func (Shaders) Check() error {
	return sh.RunV("go", "run", "./cmd/fxc", "check", "presets/testdata/looks.toml")
}

// All runs lint, tests and shader compilation.
func All() {
	mg.SerialDeps(Lint, Test, Shaders.Compile, Shaders.Check)
}
