package main

import (
	"fmt"
	"os"

	"github.com/frmsvrt/Halide/internal/ir"
	"github.com/frmsvrt/Halide/internal/irwire"
)

// readIRFile decodes one serialized tree. The caller owns the result.
func readIRFile(path string) (ir.Stmt, error) {
	f, err := os.Open(path)
	if err != nil {
		return ir.Stmt{}, err
	}
	defer f.Close()
	root, err := irwire.Decode(f)
	if err != nil {
		return ir.Stmt{}, fmt.Errorf("%s: %w", path, err)
	}
	return root, nil
}

// eachIRFile decodes paths in order and hands each tree to fn, releasing it
// afterwards. It stops at the first error.
func eachIRFile(paths []string, fn func(path string, root ir.Stmt) error) error {
	for _, path := range paths {
		root, err := readIRFile(path)
		if err != nil {
			return err
		}
		err = fn(path, root)
		root.Release()
		if err != nil {
			return err
		}
	}
	return nil
}
