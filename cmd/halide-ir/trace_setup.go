package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frmsvrt/Halide/internal/config"
	"github.com/frmsvrt/Halide/internal/trace"
)

// setupTracing attaches the configured tracer to the command context and
// returns the function that flushes and closes it.
func setupTracing(cmd *cobra.Command, s settings) (func(), error) {
	level, format, err := traceOptions(s.Trace)
	if err != nil {
		return nil, err
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       trace.ModeStream,
		Format:     format,
		OutputPath: s.Trace.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	return func() {
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}, nil
}

func traceOptions(t config.Trace) (trace.Level, trace.Format, error) {
	level, err := trace.ParseLevel(t.Level)
	if err != nil {
		return 0, 0, err
	}
	format, err := trace.ParseFormat(t.Format)
	if err != nil {
		return 0, 0, err
	}
	return level, format, nil
}
