// Command fxc inspects, compiles and checks fx effects.
//
//	fxc list                       list built-in effects and their parameters
//	fxc compile -o out/ [kind...]  compile effect shaders to SPIR-V
//	fxc check looks.toml           build every preset and apply it once
//	fxc watch shaders/             recompile shader overrides as they change
//	fxc backends                   list device backends
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
