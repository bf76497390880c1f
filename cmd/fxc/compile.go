package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gogpu/naga"
	"github.com/spf13/cobra"

	"github.com/gogpu/fx"
	"github.com/gogpu/fx/effects"
	"github.com/gogpu/fx/shaderwatch"
)

func newCompileCmd() *cobra.Command {
	var (
		outDir    string
		shaderDir string
	)
	cmd := &cobra.Command{
		Use:   "compile [kind...]",
		Short: "Compile effect shaders to SPIR-V",
		Long: "Compile the WGSL shader of each named effect (all effects when none are named)\n" +
			"to <kind>.spv. Files in --shaders override the built-in sources.",
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds, err := selectKinds(args)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			for _, kind := range kinds {
				src, err := shaderSource(kind, shaderDir)
				if err != nil {
					return err
				}
				spv, err := naga.Compile(src)
				if err != nil {
					return fmt.Errorf("compile %s: %w", kind, err)
				}
				path := filepath.Join(outDir, string(kind)+".spv")
				if err := os.WriteFile(path, spv, 0o644); err != nil {
					return err
				}
				fx.Logger().Info("compiled", "kind", kind, "bytes", len(spv), "path", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	cmd.Flags().StringVar(&shaderDir, "shaders", "", "directory of <kind>.wgsl overrides")
	return cmd
}

// selectKinds returns the catalog kinds named in args, or all of them.
func selectKinds(args []string) ([]fx.Kind, error) {
	if len(args) == 0 {
		var kinds []fx.Kind
		for _, info := range effects.Catalog() {
			kinds = append(kinds, info.Kind)
		}
		return kinds, nil
	}
	kinds := make([]fx.Kind, len(args))
	for i, a := range args {
		if _, ok := effects.Lookup(fx.Kind(a)); !ok {
			return nil, fmt.Errorf("%w: %q", fx.ErrUnknownKind, a)
		}
		kinds[i] = fx.Kind(a)
	}
	return kinds, nil
}

// shaderSource returns the override in dir for kind, or the built-in source.
func shaderSource(kind fx.Kind, dir string) (string, error) {
	if dir != "" {
		b, err := os.ReadFile(filepath.Join(dir, string(kind)+shaderwatch.Ext))
		if err == nil {
			return string(b), nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}
	}
	return effects.Source(kind)
}
