package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/fx"
	"github.com/gogpu/fx/backend"
	_ "github.com/gogpu/fx/backend/native"
)

func newBackendsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List device backends and whether they open",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range backend.Available() {
				dev, err := backend.Open(name)
				if err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%-8s unavailable: %v\n", name, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s ok (device %s)\n", name, dev.Key())
				dev.Close()
			}
			return nil
		},
	}
}

// recordHost opens a host on the recording backend. The returned function
// closes both.
func recordHost() (*fx.Host, func(), error) {
	dev, err := backend.Open(backend.Record)
	if err != nil {
		return nil, nil, err
	}
	h, err := fx.NewHost(dev)
	if err != nil {
		dev.Close()
		return nil, nil, err
	}
	return h, func() {
		_ = h.Close()
		dev.Close()
	}, nil
}
