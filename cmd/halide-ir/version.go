package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/frmsvrt/Halide/internal/version"
)

const versionTagline = "an intermediate representation for image pipelines"

type versionPayload struct {
	Tool string `json:"tool"`
	version.Info
}

func newVersionCmd() *cobra.Command {
	var (
		format string
		full   bool
	)
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show build information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Current()
			switch strings.ToLower(format) {
			case "pretty":
				color.NoColor = !settingsFrom(cmd).useColor(cmd)
				renderVersionPretty(cmd.OutOrStdout(), info, full)
				return nil
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(versionPayload{Tool: "halide-ir", Info: info})
			default:
				return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")
	cmd.Flags().BoolVar(&full, "full", false, "include commit and build date")
	return cmd
}

func renderVersionPretty(out io.Writer, info version.Info, full bool) {
	fmt.Fprintf(out, "halide-ir %s: %s\n", version.Colored(info.Version), versionTagline)
	if full {
		fmt.Fprintf(out, "commit: %s\n", valueOrUnknown(info.GitCommit))
		fmt.Fprintf(out, "built:  %s\n", valueOrUnknown(info.BuildDate))
	}
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
