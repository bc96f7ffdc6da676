// Package irstats summarizes the shape of a Halide IR tree.
package irstats

import (
	"fmt"
	"io"
	"math"
	"slices"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/unicode/norm"

	"github.com/frmsvrt/Halide/internal/ir"
	"github.com/frmsvrt/Halide/internal/irwalk"
)

// Report describes one tree.
type Report struct {
	// TreeNodes counts nodes as a tree walk sees them: a shared node is
	// counted once per path reaching it. The count saturates at
	// math.MaxInt64.
	TreeNodes int64
	// UniqueNodes counts distinct node instances.
	UniqueNodes int
	// SharedNodes counts distinct nodes referenced by more than one parent
	// slot.
	SharedNodes int
	// MaxDepth is the number of nodes on the longest root-to-leaf path.
	MaxDepth int
	// ByKind counts distinct nodes per kind.
	ByKind map[ir.NodeKind]int
	// Loops counts For nodes per loop type.
	Loops map[ir.ForType]int

	Reads     []string // buffers read by Load or image Call
	Writes    []string // buffers written by Store or Provide
	Allocated []string // buffers introduced by Allocate or Realize
}

type nodeInfo struct {
	size  int64
	depth int
	refs  int
}

type collector struct {
	info   map[ir.Node]*nodeInfo
	report *Report
	reads  map[string]struct{}
	writes map[string]struct{}
	allocs map[string]struct{}
}

// Collect walks root once per distinct node and returns its report. An
// empty root yields an empty report.
func Collect(root ir.Stmt) Report {
	r := Report{ByKind: map[ir.NodeKind]int{}, Loops: map[ir.ForType]int{}}
	if !root.Defined() {
		return r
	}
	c := &collector{
		info:   make(map[ir.Node]*nodeInfo),
		report: &r,
		reads:  map[string]struct{}{},
		writes: map[string]struct{}{},
		allocs: map[string]struct{}{},
	}
	top := c.visit(root.Node())
	r.TreeNodes = top.size
	r.MaxDepth = top.depth
	r.UniqueNodes = len(c.info)
	for _, in := range c.info {
		if in.refs > 1 {
			r.SharedNodes++
		}
	}
	r.Reads = sortedNames(c.reads)
	r.Writes = sortedNames(c.writes)
	r.Allocated = sortedNames(c.allocs)
	return r
}

func (c *collector) visit(n ir.Node) *nodeInfo {
	if in, ok := c.info[n]; ok {
		return in
	}
	in := &nodeInfo{size: 1, depth: 1}
	c.info[n] = in
	c.record(n)
	for _, child := range irwalk.Children(n) {
		ci := c.visit(child)
		ci.refs++
		in.size = addSaturating(in.size, ci.size)
		in.depth = max(in.depth, ci.depth+1)
	}
	return in
}

func (c *collector) record(n ir.Node) {
	c.report.ByKind[n.Kind()]++
	switch n := n.(type) {
	case *ir.Load:
		addName(c.reads, n.Buffer())
	case *ir.Call:
		if n.CallType() == ir.CallImage {
			addName(c.reads, n.Name())
		}
	case *ir.Store:
		addName(c.writes, n.Buffer())
	case *ir.Provide:
		addName(c.writes, n.Buffer())
	case *ir.Allocate:
		addName(c.allocs, n.Buffer())
	case *ir.Realize:
		addName(c.allocs, n.Buffer())
	case *ir.For:
		c.report.Loops[n.ForType()]++
	}
}

// addSaturating adds two non-negative counts, clamping at math.MaxInt64.
// Path counts grow exponentially with sharing depth.
func addSaturating(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

// addName stores buffer names in NFC so visually identical names built
// from different code point sequences are reported once.
func addName(set map[string]struct{}, name string) {
	set[norm.NFC.String(name)] = struct{}{}
}

func sortedNames(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Format writes a human readable summary. Large counts are grouped with
// thousands separators.
func (r Report) Format(w io.Writer) error {
	p := message.NewPrinter(language.English)
	var err error
	printf := func(format string, args ...interface{}) {
		if err == nil {
			_, err = p.Fprintf(w, format, args...)
		}
	}

	printf("nodes:   %d tree, %d unique, %d shared\n", r.TreeNodes, r.UniqueNodes, r.SharedNodes)
	printf("depth:   %d\n", r.MaxDepth)
	for _, k := range ir.AllKinds() {
		if n := r.ByKind[k]; n > 0 {
			printf("  %-12s %d\n", k, n)
		}
	}
	if len(r.Loops) > 0 {
		printf("loops:  ")
		for _, ft := range []ir.ForType{ir.ForSerial, ir.ForParallel, ir.ForVectorized, ir.ForUnrolled} {
			if n := r.Loops[ft]; n > 0 {
				printf(" %s=%d", ft, n)
			}
		}
		printf("\n")
	}
	printf("reads:   %s\n", list(r.Reads))
	printf("writes:  %s\n", list(r.Writes))
	printf("buffers: %s\n", list(r.Allocated))
	if err != nil {
		return fmt.Errorf("irstats: %w", err)
	}
	return nil
}

func list(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return fmt.Sprint(names)
}
