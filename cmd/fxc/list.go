package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gogpu/fx/effects"
)

func newListCmd() *cobra.Command {
	var params bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List built-in effects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, done, err := recordHost()
			if err != nil {
				return err
			}
			defer done()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, info := range effects.Catalog() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", info.Kind, info.Title(), info.Summary)
				if !params {
					continue
				}
				e, err := info.New(h)
				if err != nil {
					return fmt.Errorf("%s: %w", info.Kind, err)
				}
				ps := e.Params()
				for _, name := range ps.Names() {
					p, _ := ps.Lookup(name)
					v, _ := ps.Get(name)
					fmt.Fprintf(tw, "\t  %s\t%s %s = %s\n", name, p.Kind, p.Range, formatValues(v))
				}
				_ = e.Close()
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVarP(&params, "params", "p", false, "also list parameters with their ranges and defaults")
	return cmd
}

func formatValues(v []float32) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprintf("%g", x)
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "[" + strings.Join(parts, " ") + "]"
}
