package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/frmsvrt/Halide/internal/observ"
	"github.com/frmsvrt/Halide/internal/pipeline"
	"github.com/frmsvrt/Halide/internal/prof"
)

func newCheckCmd() *cobra.Command {
	var (
		jobs     int
		uiFlag   string
		timings  bool
		profiles prof.Options
	)
	cmd := &cobra.Command{
		Use:   "check DIR|FILE...",
		Short: "Decode and analyze many IR files in parallel",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			mode, err := readUIMode(uiFlag)
			if err != nil {
				return err
			}
			s := settingsFrom(cmd)
			if !cmd.Flags().Changed("jobs") {
				jobs = s.Check.Jobs
			}

			files, err := pipeline.ListFiles(args)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return pipeline.ErrNoFiles
			}

			session, err := prof.Start(profiles)
			if err != nil {
				return err
			}
			defer func() {
				if stopErr := session.Stop(); err == nil {
					err = stopErr
				}
			}()

			timer := observ.NewTimer()
			req := pipeline.CheckRequest{Paths: files, Jobs: jobs, Timer: timer}
			var res pipeline.CheckResult
			if shouldUseTUI(cmd, mode) {
				res, err = runCheckWithUI(cmd.Context(), "checking", files, req)
			} else {
				res, err = pipeline.Check(cmd.Context(), req)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printCheckSummary(out, res)
			if timings {
				printStageTimings(out, res.Timings)
				fmt.Fprint(out, timer.Summary())
			}
			if n := res.Failed(); n > 0 {
				return fmt.Errorf("%d of %d files failed", n, len(res.Files))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "files processed at once (0: GOMAXPROCS)")
	cmd.Flags().StringVar(&uiFlag, "ui", "auto", "progress display (auto|on|off)")
	cmd.Flags().BoolVar(&timings, "timings", false, "print stage timings")
	cmd.Flags().StringVar(&profiles.CPU, "cpuprofile", "", "write a CPU profile to this file")
	cmd.Flags().StringVar(&profiles.Memory, "memprofile", "", "write a heap profile to this file")
	return cmd
}

func printCheckSummary(out io.Writer, res pipeline.CheckResult) {
	for _, fr := range res.Files {
		if fr.Err != nil {
			fmt.Fprintf(out, "FAIL %s: %v\n", fr.Path, fr.Err)
			continue
		}
		fmt.Fprintf(out, "ok   %s (%d nodes, depth %d)\n", fr.Path, fr.Report.UniqueNodes, fr.Report.MaxDepth)
	}
}

func printStageTimings(out io.Writer, t pipeline.Timings) {
	parts := make([]string, 0, len(pipeline.Stages))
	for _, st := range pipeline.Stages {
		if t.Has(st) {
			parts = append(parts, fmt.Sprintf("%s %.1f ms", st, toMillis(t.Duration(st))))
		}
	}
	if len(parts) > 0 {
		fmt.Fprintln(out, strings.Join(parts, ", "))
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

type checkOutcome struct {
	result pipeline.CheckResult
	err    error
}

func runCheckWithUI(ctx context.Context, title string, files []string, req pipeline.CheckRequest) (pipeline.CheckResult, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		req.Progress = pipeline.ChannelSink{Ch: events}
		res, err := pipeline.Check(ctx, req)
		outcomeCh <- checkOutcome{result: res, err: err}
		close(events)
	}()

	uiErr := runProgressUI(title, files, events)
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
