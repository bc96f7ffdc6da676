package irwalk

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/frmsvrt/Halide/internal/ir"
)

// loopStore builds for (i, 0, 10) { buf[i] = i }.
func loopStore() ir.Stmt {
	lo := ir.NewIntImm(0)
	ext := ir.NewIntImm(10)
	i := ir.NewVar(ir.Int(32), "i")
	st := ir.NewStore("buf", i, i)
	loop := ir.NewFor("i", lo, ext, ir.ForSerial, st)
	lo.Release()
	ext.Release()
	i.Release()
	st.Release()
	return loop
}

func kindsOf(root ir.Stmt) []ir.NodeKind {
	var kinds []ir.NodeKind
	Inspect(root, func(n ir.Node) bool {
		kinds = append(kinds, n.Kind())
		return true
	})
	return kinds
}

func TestInspectPreOrder(t *testing.T) {
	loop := loopStore()
	defer loop.Release()

	want := []ir.NodeKind{ir.KindFor, ir.KindIntImm, ir.KindIntImm, ir.KindStore, ir.KindVar, ir.KindVar}
	if diff := cmp.Diff(want, kindsOf(loop)); diff != "" {
		t.Fatalf("visit order mismatch (-want +got):\n%s", diff)
	}
}

func TestWrittenBuffersCollectedOnce(t *testing.T) {
	loop := loopStore()
	defer loop.Release()

	var written []string
	Inspect(loop, func(n ir.Node) bool {
		if st, ok := n.(*ir.Store); ok {
			written = append(written, st.Buffer())
		}
		return true
	})
	if diff := cmp.Diff([]string{"buf"}, written); diff != "" {
		t.Fatalf("written buffers (-want +got):\n%s", diff)
	}
}

func TestInspectPrunes(t *testing.T) {
	loop := loopStore()
	defer loop.Release()

	var kinds []ir.NodeKind
	Inspect(loop, func(n ir.Node) bool {
		kinds = append(kinds, n.Kind())
		return n.Kind() != ir.KindStore
	})
	if kinds[len(kinds)-1] != ir.KindStore || len(kinds) != 4 {
		t.Fatalf("children of a pruned node were visited: %v", kinds)
	}
}

func TestOptionalChildrenSkipped(t *testing.T) {
	x := ir.NewIntImm(1)
	defer x.Release()
	st := ir.NewStore("b", x, x)
	defer st.Release()
	p := ir.NewPipeline("b", st, ir.Stmt{}, st)
	defer p.Release()
	blk := ir.NewBlock(p, ir.Stmt{})
	defer blk.Release()

	kids := Children(p.Node())
	if len(kids) != 2 {
		t.Fatalf("Pipeline without update has %d children, want 2", len(kids))
	}
	if got := len(Children(blk.Node())); got != 1 {
		t.Fatalf("Block without rest has %d children, want 1", got)
	}
}

func TestNodesEnterAndExit(t *testing.T) {
	loop := loopStore()
	defer loop.Release()

	var trail []string
	err := NodesEnterAndExit(loop,
		func(n ir.Node) error { trail = append(trail, "+"+n.Kind().String()); return nil },
		func(n ir.Node) error { trail = append(trail, "-"+n.Kind().String()); return nil },
	)
	if err != nil {
		t.Fatal(err)
	}
	if trail[0] != "+For" || trail[len(trail)-1] != "-For" {
		t.Fatalf("enter/exit not balanced around the root: %v", trail)
	}
	if len(trail) != 12 {
		t.Fatalf("got %d events, want 12", len(trail))
	}

	stop := errors.New("stop")
	count := 0
	err = Nodes(loop, func(n ir.Node) error {
		count++
		if n.Kind() == ir.KindStore {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) || count != 4 {
		t.Fatalf("err=%v count=%d", err, count)
	}
}

func TestSharedNodesVisitedPerPath(t *testing.T) {
	x := ir.NewVar(ir.Int(32), "x")
	sq := ir.NewMul(x, x)
	sum := ir.NewAdd(sq, sq)
	x.Release()
	sq.Release()
	defer sum.Release()

	vars := 0
	InspectExpr(sum, func(n ir.Node) bool {
		if n.Kind() == ir.KindVar {
			vars++
		}
		return true
	})
	if vars != 4 {
		t.Fatalf("Var visited %d times, want 4", vars)
	}
}

func TestEqual(t *testing.T) {
	build := func(name string, v int32) ir.Expr {
		x := ir.NewVar(ir.Int(32), name)
		c := ir.NewIntImm(v)
		e := ir.NewAdd(x, c)
		x.Release()
		c.Release()
		return e
	}
	a := build("x", 5)
	b := build("x", 5)
	c := build("y", 5)
	d := build("x", 6)
	defer a.Release()
	defer b.Release()
	defer c.Release()
	defer d.Release()

	if a.SameAs(b) || !Equal(a, b) {
		t.Fatalf("separately built identical trees must be Equal but not SameAs")
	}
	if Equal(a, c) || Equal(a, d) {
		t.Fatalf("differing trees compare equal")
	}
	if !Equal(ir.Expr{}, ir.Expr{}) || Equal(a, ir.Expr{}) {
		t.Fatalf("empty handle comparison wrong")
	}

	l1 := loopStore()
	l2 := loopStore()
	defer l1.Release()
	defer l2.Release()
	if !EqualStmt(l1, l2) {
		t.Fatalf("identical loops differ")
	}
	x := ir.NewIntImm(1)
	defer x.Release()
	st := ir.NewStore("b", x, x)
	defer st.Release()
	withUpdate := ir.NewPipeline("b", st, st, st)
	without := ir.NewPipeline("b", st, ir.Stmt{}, st)
	defer withUpdate.Release()
	defer without.Release()
	if EqualStmt(withUpdate, without) {
		t.Fatalf("pipeline update presence ignored")
	}
}
