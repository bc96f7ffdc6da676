package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frmsvrt/Halide/internal/ir"
	"github.com/frmsvrt/Halide/internal/irprint"
)

func newPrintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "print FILE...",
		Short: "Decode serialized IR and pretty-print it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := settingsFrom(cmd)
			opts := irprint.Options{Color: s.useColor(cmd), Indent: s.Output.Indent}
			out := cmd.OutOrStdout()
			return eachIRFile(args, func(path string, root ir.Stmt) error {
				if len(args) > 1 {
					fmt.Fprintf(out, "# %s\n", path)
				}
				return irprint.Fprint(out, root, opts)
			})
		},
	}
}
