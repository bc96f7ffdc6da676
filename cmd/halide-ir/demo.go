package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/frmsvrt/Halide/internal/demo"
	"github.com/frmsvrt/Halide/internal/irprint"
	"github.com/frmsvrt/Halide/internal/irwire"
	"github.com/frmsvrt/Halide/internal/pipeline"
)

func newDemoCmd() *cobra.Command {
	var (
		outDir string
		list   bool
	)
	cmd := &cobra.Command{
		Use:   "demo [name...]",
		Short: "Build the bundled example programs",
		Long: `Build the bundled example programs. Without --out the trees are
pretty-printed; with --out each one is written to DIR/<name>.hir.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				return listDemos(cmd)
			}
			programs, err := selectDemos(args)
			if err != nil {
				return err
			}
			if outDir != "" {
				return writeDemos(cmd, programs, outDir)
			}
			s := settingsFrom(cmd)
			opts := irprint.Options{Color: s.useColor(cmd), Indent: s.Output.Indent}
			for i, p := range programs {
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				fmt.Fprintf(cmd.OutOrStdout(), "# %s: %s\n", p.Name, p.Description)
				root := p.Build()
				err := irprint.Fprint(cmd.OutOrStdout(), root, opts)
				root.Release()
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "", "write serialized trees into this directory")
	cmd.Flags().BoolVar(&list, "list", false, "list the available programs")
	return cmd
}

func selectDemos(names []string) ([]demo.Program, error) {
	if len(names) == 0 {
		return demo.All(), nil
	}
	programs := make([]demo.Program, 0, len(names))
	for _, name := range names {
		p, err := demo.Lookup(name)
		if err != nil {
			return nil, err
		}
		programs = append(programs, p)
	}
	return programs, nil
}

func listDemos(cmd *cobra.Command) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, p := range demo.All() {
		fmt.Fprintf(tw, "%s\t%s\n", p.Name, p.Description)
	}
	return tw.Flush()
}

func writeDemos(cmd *cobra.Command, programs []demo.Program, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	for _, p := range programs {
		root := p.Build()
		data, err := irwire.Marshal(root)
		root.Release()
		if err != nil {
			return fmt.Errorf("%s: %w", p.Name, err)
		}
		path := filepath.Join(dir, p.Name+pipeline.Extension)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", path, len(data))
	}
	return nil
}
