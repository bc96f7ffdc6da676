package ir

import (
	"slices"
	"testing"
)

func TestAcceptDispatchesToOwnKind(t *testing.T) {
	samples := buildSamples()
	defer releaseSamples(samples)

	for _, s := range samples {
		r := &kindRecorder{}
		s.accept(r)
		if len(r.kinds) != 1 || r.kinds[0] != s.kind {
			t.Errorf("%s dispatched to %v", s.kind, r.kinds)
		}
	}
}

func TestNodeFamilies(t *testing.T) {
	samples := buildSamples()
	defer releaseSamples(samples)

	for _, s := range samples {
		var n Node
		if s.kind.IsExpr() {
			n = s.expr.Node()
			if _, ok := n.(StmtNode); ok {
				t.Errorf("%s is an expression and a statement", s.kind)
			}
		} else {
			n = s.stmt.Node()
			if _, ok := n.(ExprNode); ok {
				t.Errorf("%s is a statement and an expression", s.kind)
			}
		}
		if n.Kind() != s.kind {
			t.Errorf("Kind() = %s, want %s", n.Kind(), s.kind)
		}
	}
}

// literalSum descends through arithmetic and records every integer literal
// it meets. Kinds it does not care about are ignored.
type literalSum struct {
	kindRecorder
	values []int32
	total  int64
}

func (v *literalSum) VisitIntImm(n *IntImm) {
	v.hit(KindIntImm)
	v.values = append(v.values, n.Value())
	v.total += int64(n.Value())
}

func (v *literalSum) VisitAdd(n *Add) {
	v.hit(KindAdd)
	n.A().Accept(v)
	n.B().Accept(v)
}

func TestLiteralSumOverAdd(t *testing.T) {
	one := NewIntImm(1)
	two := NewIntImm(2)
	sum := NewAdd(one, two)
	one.Release()
	two.Release()
	defer sum.Release()

	v := &literalSum{}
	sum.Accept(v)

	if !slices.Equal(v.values, []int32{1, 2}) {
		t.Fatalf("literal visits = %v, want [1 2]", v.values)
	}
	if v.total != 3 {
		t.Fatalf("total = %d, want 3", v.total)
	}
	if !slices.Equal(v.kinds, []NodeKind{KindAdd, KindIntImm, KindIntImm}) {
		t.Fatalf("visit order = %v", v.kinds)
	}
}

// storeNames collects the buffers written by Store nodes under loops and
// blocks.
type storeNames struct {
	kindRecorder
	names []string
}

func (v *storeNames) VisitFor(n *For)     { n.Body().Accept(v) }
func (v *storeNames) VisitStore(n *Store) { v.names = append(v.names, n.Buffer()) }

func (v *storeNames) VisitBlock(n *Block) {
	n.First().Accept(v)
	if rest, ok := n.Rest(); ok {
		rest.Accept(v)
	}
}

func TestStoreInsideLoop(t *testing.T) {
	lo := NewIntImm(0)
	ext := NewIntImm(10)
	i := NewVar(Int(32), "i")
	st := NewStore("buf", i, i)
	loop := NewFor("i", lo, ext, ForSerial, st)
	for _, e := range []*Expr{&lo, &ext, &i} {
		e.Release()
	}
	st.Release()
	defer loop.Release()

	v := &storeNames{}
	loop.Accept(v)
	if !slices.Equal(v.names, []string{"buf"}) {
		t.Fatalf("written buffers = %v, want [buf]", v.names)
	}

	f := loop.Node().(*For)
	if f.Name() != "i" || f.ForType() != ForSerial {
		t.Fatalf("loop header = %s %s", f.Name(), f.ForType())
	}
	if f.Extent().Node().(*IntImm).Value() != 10 {
		t.Fatalf("extent not preserved")
	}
}

func TestRealizeBounds(t *testing.T) {
	lo := NewIntImm(0)
	hi := NewIntImm(9)
	x := NewVar(Int(32), "x")
	body := NewProvide("buf", x, []Expr{x})
	r := NewRealize("buf", Int(32), []Range{{Min: lo, Max: hi}}, body)
	lo.Release()
	hi.Release()
	x.Release()
	body.Release()
	defer r.Release()

	n := r.Node().(*Realize)
	if n.Dims() != 1 {
		t.Fatalf("Dims() = %d, want 1", n.Dims())
	}
	b := n.Bound(0)
	if !b.Min.Defined() || !b.Max.Defined() {
		t.Fatalf("bound handles must be defined")
	}
	if got := b.Min.Node().(*IntImm).Value(); got != 0 {
		t.Fatalf("min = %d, want 0", got)
	}
	if got := b.Max.Node().(*IntImm).Value(); got != 9 {
		t.Fatalf("max = %d, want 9", got)
	}
	if n.Type() != Int(32) || n.Buffer() != "buf" {
		t.Fatalf("realize header = %s %s", n.Buffer(), n.Type())
	}
}

func TestSeqNestsToTheRight(t *testing.T) {
	x := NewIntImm(1)
	defer x.Release()
	a := NewStore("a", x, x)
	b := NewStore("b", x, x)
	c := NewStore("c", x, x)
	defer a.Release()
	defer b.Release()
	defer c.Release()

	s := Seq(a, b, c)
	defer s.Release()

	v := &storeNames{}
	s.Accept(v)
	if !slices.Equal(v.names, []string{"a", "b", "c"}) {
		t.Fatalf("order = %v", v.names)
	}
	outer := s.Node().(*Block)
	rest, ok := outer.Rest()
	if !ok || rest.Kind() != KindBlock {
		t.Fatalf("rest of the outer block = %s", rest.Kind())
	}
	inner := rest.Node().(*Block)
	last, ok := inner.Rest()
	if !ok || !last.SameAs(c) {
		t.Fatalf("innermost rest is not the last statement")
	}

	single := Seq(a)
	defer single.Release()
	if !single.SameAs(a) {
		t.Fatalf("Seq of one statement must return that statement")
	}
	mustViolate(t, ViolationUndefinedChild, func() { Seq() })
}

func TestSeqUndefinedMiddleDoesNotLeak(t *testing.T) {
	x := NewIntImm(1)
	a := NewStore("a", x, x)
	c := NewStore("c", x, x)
	x.Release()
	defer a.Release()
	defer c.Release()

	before := ReadStats().Live
	mustViolate(t, ViolationUndefinedChild, func() { Seq(a, Stmt{}, c) })
	if after := ReadStats().Live; after != before {
		t.Fatalf("failed Seq leaked %d nodes", after-before)
	}
	if c.RefCount() != 1 {
		t.Fatalf("last statement refcount = %d, want 1", c.RefCount())
	}
}
