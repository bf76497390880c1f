package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/gogpu/naga"
	"github.com/spf13/cobra"

	"github.com/gogpu/fx"
	"github.com/gogpu/fx/shaderwatch"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <dir>",
		Short: "Recompile shader overrides whenever they change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, done, err := recordHost()
			if err != nil {
				return err
			}
			defer done()

			w, err := shaderwatch.ForHost(args[0], h)
			if err != nil {
				return err
			}
			defer w.Close()
			for _, kind := range h.Shaders().Kinds() {
				verify(h, kind)
			}
			w.OnReload = func(kind fx.Kind, removed bool) {
				if !removed {
					verify(h, kind)
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			fx.Logger().Info("watching", "dir", w.Dir())
			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}

// verify compiles the current override of kind and logs the outcome.
func verify(h *fx.Host, kind fx.Kind) {
	src, ok := h.Shaders().Source(kind)
	if !ok {
		return
	}
	if _, err := naga.Compile(src); err != nil {
		fx.Logger().Error("shader does not compile", "kind", kind, "err", err)
		return
	}
	fx.Logger().Info("shader ok", "kind", kind)
}
