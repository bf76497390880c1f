package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/gogpu/fx"
)

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var level string
	root := &cobra.Command{
		Use:           "fxc",
		Short:         "Inspect, compile and check fx effects",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			lvl, err := log.ParseLevel(level)
			if err != nil {
				return fmt.Errorf("invalid --log-level %q: %w", level, err)
			}
			logger := log.NewWithOptions(stderr, log.Options{
				ReportTimestamp: true,
				TimeFormat:      time.Kitchen,
				Prefix:          "fxc",
				Level:           lvl,
			})
			fx.SetLogger(slog.New(logger))
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&level, "log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(
		newListCmd(),
		newCompileCmd(),
		newCheckCmd(),
		newWatchCmd(),
		newBackendsCmd(),
	)
	return root
}
