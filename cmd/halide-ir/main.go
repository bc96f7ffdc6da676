package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/frmsvrt/Halide/internal/version"
)

// newRootCmd assembles the command tree. Each call returns fresh commands
// and flag sets. The returned function closes the tracer opened while the
// command ran and must be called after Execute, whatever its result.
func newRootCmd() (*cobra.Command, func()) {
	cleanup := func() {}
	root := &cobra.Command{
		Use:           "halide-ir",
		Short:         "Build, inspect and check Halide IR trees",
		Version:       version.Current().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			cmd.SetContext(withSettings(cmd.Context(), s))
			done, err := setupTracing(cmd, s)
			if err != nil {
				return err
			}
			cleanup = done
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "path to halide.toml (default: search upward from the working directory)")
	flags.String("color", "", "colorize output (auto|on|off)")
	flags.String("trace", "", "trace output file (- for stderr)")
	flags.String("trace-level", "", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-format", "", "trace format (auto|text|ndjson)")

	root.AddCommand(
		newDemoCmd(),
		newPrintCmd(),
		newStatsCmd(),
		newCheckCmd(),
		newVersionCmd(),
	)
	return root, func() { cleanup() }
}

func main() {
	root, closeTrace := newRootCmd()
	err := root.Execute()
	closeTrace()
	if err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "error: %v\n", err)
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// stdoutIsTerminal reports whether cmd writes to a terminal. Redirected
// output, as in tests, never is.
func stdoutIsTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStdout().(*os.File)
	return ok && isTerminal(f)
}
