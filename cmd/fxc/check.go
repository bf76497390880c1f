package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/fx"
	"github.com/gogpu/fx/fxtest"
	"github.com/gogpu/fx/presets"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <presets.toml>...",
		Short: "Build every preset and apply it once",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var errs []error
			for _, path := range args {
				if err := checkFile(cmd, path); err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", path, err))
				}
			}
			return errors.Join(errs...)
		},
	}
}

func checkFile(cmd *cobra.Command, path string) error {
	f, err := presets.Load(path)
	if err != nil {
		return err
	}
	h, done, err := recordHost()
	if err != nil {
		return err
	}
	defer done()

	var errs []error
	for _, name := range f.Names() {
		if err := checkPreset(h, f, name); err != nil {
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok  %s\n", name)
	}
	return errors.Join(errs...)
}

func checkPreset(h *fx.Host, f *presets.File, name string) error {
	e, err := f.Build(h, name)
	if err != nil {
		return err
	}
	defer e.Close()

	type inputs interface {
		Layout() fx.ProgramLayout
		SetTexture(int, fx.Texture)
	}
	if in, ok := e.(inputs); ok {
		for i := range in.Layout().Textures {
			in.SetTexture(i, fxtest.NewTexture("input", 256, 256))
		}
	}
	ctx := fxtest.NewContext()
	if err := e.Apply(ctx, fx.Slots{}); err != nil {
		return fmt.Errorf("%s: apply: %w", name, err)
	}
	fx.Logger().Debug("preset applied", "preset", name, "kind", e.Kind(), "uploads", ctx.Uploads())
	return nil
}
