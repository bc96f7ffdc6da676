package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frmsvrt/Halide/internal/config"
)

type settingsKey struct{}

// settings is halide.toml with the command line applied on top.
type settings struct {
	config.Config
	color config.ColorMode
}

func withSettings(ctx context.Context, s settings) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, settingsKey{}, s)
}

func settingsFrom(cmd *cobra.Command) settings {
	if s, ok := cmd.Context().Value(settingsKey{}).(settings); ok {
		return s
	}
	return settings{Config: config.Default()}
}

func loadSettings(cmd *cobra.Command) (settings, error) {
	flags := cmd.Root().PersistentFlags()

	path, err := flags.GetString("config")
	if err != nil {
		return settings{}, err
	}
	var cfg config.Config
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.Discover(".")
	}
	if err != nil {
		return settings{}, err
	}

	overrides := []struct {
		flag string
		dst  *string
	}{
		{"color", &cfg.Output.Color},
		{"trace", &cfg.Trace.Output},
		{"trace-level", &cfg.Trace.Level},
		{"trace-format", &cfg.Trace.Format},
	}
	for _, o := range overrides {
		if !flags.Changed(o.flag) {
			continue
		}
		v, err := flags.GetString(o.flag)
		if err != nil {
			return settings{}, err
		}
		*o.dst = v
	}
	// naming an output without a level means "trace the phases"
	if flags.Changed("trace") && !flags.Changed("trace-level") && cfg.Trace.Level == "off" {
		cfg.Trace.Level = "phase"
	}
	if err := cfg.Validate(); err != nil {
		return settings{}, fmt.Errorf("invalid settings: %w", err)
	}

	mode, err := config.ParseColor(cfg.Output.Color)
	if err != nil {
		return settings{}, err
	}
	return settings{Config: cfg, color: mode}, nil
}

func (s settings) useColor(cmd *cobra.Command) bool {
	return s.color.Resolve(stdoutIsTerminal(cmd))
}
