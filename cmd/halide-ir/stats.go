package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/frmsvrt/Halide/internal/ir"
	"github.com/frmsvrt/Halide/internal/irstats"
)

type statsPayload struct {
	File        string         `json:"file"`
	TreeNodes   int64          `json:"tree_nodes"`
	UniqueNodes int            `json:"unique_nodes"`
	SharedNodes int            `json:"shared_nodes"`
	MaxDepth    int            `json:"max_depth"`
	Kinds       map[string]int `json:"kinds"`
	Loops       map[string]int `json:"loops,omitempty"`
	Reads       []string       `json:"reads"`
	Writes      []string       `json:"writes"`
	Allocated   []string       `json:"allocated"`
}

func newStatsCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "stats FILE...",
		Short: "Summarize the shape of serialized IR trees",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if format != "pretty" && format != "json" {
				return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
			}
			out := cmd.OutOrStdout()
			var payloads []statsPayload
			err := eachIRFile(args, func(path string, root ir.Stmt) error {
				r := irstats.Collect(root)
				if format == "json" {
					payloads = append(payloads, toStatsPayload(path, r))
					return nil
				}
				fmt.Fprintf(out, "%s\n", path)
				return r.Format(out)
			})
			if err != nil || format != "json" {
				return err
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(payloads)
		},
	}
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")
	return cmd
}

func toStatsPayload(path string, r irstats.Report) statsPayload {
	p := statsPayload{
		File:        path,
		TreeNodes:   r.TreeNodes,
		UniqueNodes: r.UniqueNodes,
		SharedNodes: r.SharedNodes,
		MaxDepth:    r.MaxDepth,
		Kinds:       make(map[string]int, len(r.ByKind)),
		Reads:       r.Reads,
		Writes:      r.Writes,
		Allocated:   r.Allocated,
	}
	for k, n := range r.ByKind {
		p.Kinds[k.String()] = n
	}
	if len(r.Loops) > 0 {
		p.Loops = make(map[string]int, len(r.Loops))
		for ft, n := range r.Loops {
			p.Loops[ft.String()] = n
		}
	}
	return p
}
