// Package prof captures pprof profiles around a command.
package prof

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
)

// Options names the profile files to write. Empty paths are skipped.
type Options struct {
	CPU    string
	Memory string
}

// Session is a running capture started by Start.
type Session struct {
	cpu     *os.File
	memPath string
}

// Start begins CPU profiling when opts.CPU is set. The heap profile is
// written by Stop.
func Start(opts Options) (*Session, error) {
	s := &Session{memPath: opts.Memory}
	if opts.CPU == "" {
		return s, nil
	}
	f, err := os.Create(opts.CPU)
	if err != nil {
		return nil, fmt.Errorf("cpu profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("cpu profile: %w", err)
	}
	s.cpu = f
	return s, nil
}

// Stop ends CPU profiling and writes the heap profile. It is safe to call
// more than once.
func (s *Session) Stop() error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.cpu != nil {
		pprof.StopCPUProfile()
		if err := s.cpu.Close(); err != nil {
			errs = append(errs, fmt.Errorf("cpu profile: %w", err))
		}
		s.cpu = nil
	}
	if s.memPath != "" {
		if err := writeHeap(s.memPath); err != nil {
			errs = append(errs, fmt.Errorf("heap profile: %w", err))
		}
		s.memPath = ""
	}
	return errors.Join(errs...)
}

func writeHeap(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
