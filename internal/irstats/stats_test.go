package irstats

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/frmsvrt/Halide/internal/demo"
	"github.com/frmsvrt/Halide/internal/ir"
)

func TestCollectLoop(t *testing.T) {
	root := demo.Loop()
	defer root.Release()

	r := Collect(root)
	want := Report{
		TreeNodes:   6, // for, 0, 10, store, i, i
		UniqueNodes: 5,
		SharedNodes: 1,
		MaxDepth:    3,
		ByKind: map[ir.NodeKind]int{
			ir.KindFor: 1, ir.KindIntImm: 2, ir.KindStore: 1, ir.KindVar: 1,
		},
		Loops:     map[ir.ForType]int{ir.ForSerial: 1},
		Reads:     []string{},
		Writes:    []string{"buf"},
		Allocated: []string{},
	}
	if diff := cmp.Diff(want, r); diff != "" {
		t.Fatalf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectDeepSharing(t *testing.T) {
	e := ir.NewVar(ir.Int(32), "seed")
	for i := 0; i < 40; i++ {
		next := ir.NewAdd(e, e)
		e.Release()
		e = next
	}
	root := ir.NewStore("out", e, e)
	e.Release()
	defer root.Release()

	r := Collect(root)
	if r.UniqueNodes != 42 {
		t.Fatalf("unique = %d, want 42", r.UniqueNodes)
	}
	// every level is reached twice as often as the one above it
	wantTree := int64(1) + 2*(int64(1)<<41-1)
	if r.TreeNodes != wantTree {
		t.Fatalf("tree = %d, want %d", r.TreeNodes, wantTree)
	}
	if r.MaxDepth != 42 {
		t.Fatalf("depth = %d, want 42", r.MaxDepth)
	}
	if r.SharedNodes != 41 {
		t.Fatalf("shared = %d, want 41", r.SharedNodes)
	}
}

func TestCollectBlurBuffers(t *testing.T) {
	root := demo.Blur(16, 8)
	defer root.Release()

	r := Collect(root)
	if diff := cmp.Diff([]string{"blur_x", "blur_y", "in"}, r.Reads); diff != "" {
		t.Errorf("reads (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"blur_x", "blur_y"}, r.Writes); diff != "" {
		t.Errorf("writes (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"blur_x", "blur_y"}, r.Allocated); diff != "" {
		t.Errorf("allocated (-want +got):\n%s", diff)
	}
	if r.Loops[ir.ForParallel] != 2 || r.Loops[ir.ForVectorized] != 1 {
		t.Errorf("loops = %v", r.Loops)
	}
	if r.TreeNodes <= int64(r.UniqueNodes) {
		t.Errorf("blur shares constants, tree count %d should exceed unique %d", r.TreeNodes, r.UniqueNodes)
	}
}

func TestCollectNormalizesNames(t *testing.T) {
	x := ir.NewIntImm(0)
	defer x.Release()
	a := ir.NewStore("caf\u00e9", x, x)
	b := ir.NewStore("cafe\u0301", x, x)
	defer a.Release()
	defer b.Release()
	blk := ir.Seq(a, b)
	defer blk.Release()

	if got := Collect(blk).Writes; len(got) != 1 {
		t.Fatalf("writes = %q, want one normalized name", got)
	}
}

func TestFormat(t *testing.T) {
	r := Report{
		TreeNodes:   1234567,
		UniqueNodes: 12,
		MaxDepth:    4,
		ByKind:      map[ir.NodeKind]int{ir.KindAdd: 3},
		Loops:       map[ir.ForType]int{ir.ForParallel: 1},
		Writes:      []string{"buf"},
	}
	var sb strings.Builder
	if err := r.Format(&sb); err != nil {
		t.Fatal(err)
	}
	out := sb.String()
	for _, want := range []string{"1,234,567 tree", "Add", "parallel=1", "writes:  [buf]", "reads:   -"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCollectEmpty(t *testing.T) {
	r := Collect(ir.Stmt{})
	if r.TreeNodes != 0 || r.UniqueNodes != 0 {
		t.Fatalf("empty root produced %+v", r)
	}
}

func TestCollectTreeCountSaturates(t *testing.T) {
	e := ir.NewVar(ir.Int(32), "seed")
	for i := 0; i < 70; i++ {
		next := ir.NewAdd(e, e)
		e.Release()
		e = next
	}
	root := ir.NewStore("out", e, e)
	e.Release()
	defer root.Release()

	r := Collect(root)
	if r.TreeNodes != math.MaxInt64 {
		t.Fatalf("tree = %d, want saturation at %d", r.TreeNodes, int64(math.MaxInt64))
	}
	if r.UniqueNodes != 72 || r.MaxDepth != 72 {
		t.Fatalf("unique = %d, depth = %d, want 72 and 72", r.UniqueNodes, r.MaxDepth)
	}
}
