// Package config loads halide.toml, the optional per-project settings file
// of the halide-ir tool.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/frmsvrt/Halide/internal/trace"
)

// FileName is the name searched for by Find.
const FileName = "halide.toml"

// Config is the decoded file. Zero fields mean "not set".
type Config struct {
	Output Output `toml:"output"`
	Trace  Trace  `toml:"trace"`
	Check  Check  `toml:"check"`

	// Path is the file the config was loaded from, empty for Default.
	Path string `toml:"-"`
}

type Output struct {
	Color  string `toml:"color"`
	Indent int    `toml:"indent"`
}

type Trace struct {
	Level  string `toml:"level"`
	Output string `toml:"output"`
	Format string `toml:"format"`
}

type Check struct {
	Jobs int `toml:"jobs"`
}

// Default returns the settings used when no file is found.
func Default() Config {
	return Config{
		Output: Output{Color: "auto", Indent: 2},
		Trace:  Trace{Level: "off", Output: "-", Format: "auto"},
	}
}

// Find searches startDir and its parents for FileName.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// Load decodes path over Default. Keys missing from the file keep their
// default values; unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("output", "indent") && cfg.Output.Indent < 0 {
		return Config{}, fmt.Errorf("%s: [output].indent must not be negative", path)
	}
	if meta.IsDefined("check", "jobs") && cfg.Check.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [check].jobs must not be negative", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Discover loads the nearest halide.toml above startDir, or returns Default
// when there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks the enumerated string settings.
func (c Config) Validate() error {
	if _, err := ParseColor(c.Output.Color); err != nil {
		return fmt.Errorf("[output].color: %w", err)
	}
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		return fmt.Errorf("[trace].level: %w", err)
	}
	if _, err := trace.ParseFormat(c.Trace.Format); err != nil {
		return fmt.Errorf("[trace].format: %w", err)
	}
	return nil
}

// ColorMode selects when output is coloured.
type ColorMode uint8

const (
	ColorAuto ColorMode = iota
	ColorOn
	ColorOff
)

// ParseColor accepts auto, on and off, plus the usual boolean spellings.
func ParseColor(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ColorAuto, nil
	case "on", "always", "true":
		return ColorOn, nil
	case "off", "never", "false":
		return ColorOff, nil
	default:
		return ColorAuto, fmt.Errorf("unknown color mode %q (want auto, on or off)", s)
	}
}

// Resolve reports whether to colour given whether the output is a terminal.
func (m ColorMode) Resolve(isTTY bool) bool {
	switch m {
	case ColorOn:
		return true
	case ColorOff:
		return false
	default:
		return isTTY
	}
}
