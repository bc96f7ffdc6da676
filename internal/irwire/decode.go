package irwire

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/frmsvrt/Halide/internal/ir"
)

// ErrSchema is returned when a payload was written with another schema.
var ErrSchema = errors.New("irwire: schema version mismatch")

// Decode reads one payload from r and rebuilds its tree. The returned
// handle is the only reference the caller owns.
func Decode(r io.Reader) (ir.Stmt, error) {
	var p Payload
	dec := msgpack.NewDecoder(r)
	if err := dec.Decode(&p); err != nil {
		return ir.Stmt{}, fmt.Errorf("irwire: decode: %w", err)
	}
	return Rebuild(&p)
}

// Unmarshal decodes data produced by Marshal.
func Unmarshal(data []byte) (ir.Stmt, error) {
	return Decode(bytes.NewReader(data))
}

// Rebuild constructs the tree described by p. Malformed payloads, including
// ones that would violate a constructor contract, yield an error and leave
// no node alive.
func Rebuild(p *Payload) (ir.Stmt, error) {
	if p.Schema != SchemaVersion {
		return ir.Stmt{}, fmt.Errorf("%w: got %d, want %d", ErrSchema, p.Schema, SchemaVersion)
	}
	if p.Root == 0 || int(p.Root) > len(p.Nodes) {
		return ir.Stmt{}, fmt.Errorf("irwire: root reference %d out of range [1, %d]", p.Root, len(p.Nodes))
	}

	b := &builder{table: make([]slot, len(p.Nodes))}
	defer b.releaseAll()

	for i := range p.Nodes {
		var err error
		if cerr := ir.Catch(func() { err = b.build(i, &p.Nodes[i]) }); cerr != nil {
			err = cerr
		}
		if err != nil {
			return ir.Stmt{}, fmt.Errorf("irwire: node %d (%s): %w", i+1, ir.NodeKind(p.Nodes[i].Kind), err)
		}
	}

	root := b.table[p.Root-1]
	if !root.stmt.Defined() {
		return ir.Stmt{}, fmt.Errorf("irwire: root is %s, not a statement", root.expr.Kind())
	}
	return root.stmt.Retain(), nil
}

// slot holds the owning handle built for one table entry.
type slot struct {
	expr ir.Expr
	stmt ir.Stmt
}

type builder struct {
	table []slot
}

func (b *builder) releaseAll() {
	for i := range b.table {
		b.table[i].expr.Release()
		b.table[i].stmt.Release()
	}
}

// ref validates a child reference from entry at. 0 is an absent child.
func (b *builder) ref(at int, r uint32) (slot, error) {
	if r == 0 {
		return slot{}, nil
	}
	if int(r) > at {
		return slot{}, fmt.Errorf("reference %d does not precede its parent", r)
	}
	return b.table[r-1], nil
}

func (b *builder) expr(at int, r uint32) (ir.Expr, error) {
	s, err := b.ref(at, r)
	if err != nil {
		return ir.Expr{}, err
	}
	if s.stmt.Defined() {
		return ir.Expr{}, fmt.Errorf("reference %d is a statement, want an expression", r)
	}
	return s.expr, nil
}

func (b *builder) stmt(at int, r uint32) (ir.Stmt, error) {
	s, err := b.ref(at, r)
	if err != nil {
		return ir.Stmt{}, err
	}
	if s.expr.Defined() {
		return ir.Stmt{}, fmt.Errorf("reference %d is an expression, want a statement", r)
	}
	return s.stmt, nil
}

func (b *builder) exprs(at int, refs []uint32) ([]ir.Expr, error) {
	out := make([]ir.Expr, len(refs))
	for i, r := range refs {
		e, err := b.expr(at, r)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

// fixedArity lists the exact reference count of every kind whose arity
// does not depend on its attributes.
var fixedArity = map[ir.NodeKind]int{
	ir.KindIntImm: 0, ir.KindFloatImm: 0, ir.KindVar: 0,
	ir.KindCast: 1, ir.KindNot: 1, ir.KindLoad: 1, ir.KindAssertStmt: 1,
	ir.KindAdd: 2, ir.KindSub: 2, ir.KindMul: 2, ir.KindDiv: 2, ir.KindMod: 2,
	ir.KindMin: 2, ir.KindMax: 2, ir.KindEQ: 2, ir.KindNE: 2, ir.KindLT: 2,
	ir.KindLE: 2, ir.KindGT: 2, ir.KindGE: 2, ir.KindAnd: 2, ir.KindOr: 2,
	ir.KindRamp: 2, ir.KindLet: 2, ir.KindLetStmt: 2, ir.KindStore: 2,
	ir.KindAllocate: 2, ir.KindSelect: 3, ir.KindPipeline: 3, ir.KindFor: 3,
}

func checkArity(kind ir.NodeKind, refs []uint32) error {
	n := len(refs)
	if want, ok := fixedArity[kind]; ok {
		if n != want {
			return fmt.Errorf("expected %d references, got %d", want, n)
		}
		return nil
	}
	switch kind {
	case ir.KindCall, ir.KindPrintStmt:
		return nil
	case ir.KindProvide:
		if n < 1 {
			return fmt.Errorf("expected a value reference")
		}
	case ir.KindRealize:
		if n%2 != 1 {
			return fmt.Errorf("expected min/max pairs and a body, got %d references", n)
		}
	case ir.KindBlock:
		if n != 1 && n != 2 {
			return fmt.Errorf("expected 1 or 2 references, got %d", n)
		}
	default:
		return fmt.Errorf("unknown node kind %d", uint8(kind))
	}
	return nil
}

// build constructs table entry i. Constructor contract violations surface
// as panics and are turned into errors by the caller.
func (b *builder) build(i int, wn *WireNode) error {
	kind := ir.NodeKind(wn.Kind)
	if err := checkArity(kind, wn.Refs); err != nil {
		return err
	}

	var (
		es  []ir.Expr
		err error
	)
	e := func(j int) ir.Expr {
		if err != nil {
			return ir.Expr{}
		}
		var x ir.Expr
		x, err = b.expr(i, wn.Refs[j])
		return x
	}
	s := func(j int) ir.Stmt {
		if err != nil {
			return ir.Stmt{}
		}
		var x ir.Stmt
		x, err = b.stmt(i, wn.Refs[j])
		return x
	}
	done := func() bool { return err == nil }

	out := &b.table[i]
	t := wn.Type.toIR()
	if ctor, ok := binaryCtors[kind]; ok {
		a, bb := e(0), e(1)
		if done() {
			out.expr = ctor(a, bb)
		}
		return err
	}

	switch kind {
	case ir.KindIntImm:
		out.expr = ir.NewIntImm(wn.Int)
	case ir.KindFloatImm:
		out.expr = ir.NewFloatImm(math.Float32frombits(wn.Float))
	case ir.KindVar:
		out.expr = ir.NewVar(t, wn.Name)
	case ir.KindCast:
		if a := e(0); done() {
			out.expr = ir.NewCast(t, a)
		}
	case ir.KindNot:
		if a := e(0); done() {
			out.expr = ir.NewNot(a)
		}
	case ir.KindLoad:
		if a := e(0); done() {
			out.expr = ir.NewLoad(t, wn.Name, a)
		}
	case ir.KindRamp:
		base, stride := e(0), e(1)
		if done() {
			out.expr = ir.NewRamp(base, stride, int(wn.Int))
		}
	case ir.KindSelect:
		c, tv, fv := e(0), e(1), e(2)
		if done() {
			out.expr = ir.NewSelect(c, tv, fv)
		}
	case ir.KindCall:
		if es, err = b.exprs(i, wn.Refs); done() {
			var ct ir.CallType
			if ct, err = callType(wn.Mode); done() {
				out.expr = ir.NewCall(t, wn.Name, es, ct)
			}
		}
	case ir.KindLet:
		v, body := e(0), e(1)
		if done() {
			out.expr = ir.NewLet(wn.Name, v, body)
		}
	case ir.KindLetStmt:
		v, body := e(0), s(1)
		if done() {
			out.stmt = ir.NewLetStmt(wn.Name, v, body)
		}
	case ir.KindPrintStmt:
		if es, err = b.exprs(i, wn.Refs); done() {
			out.stmt = ir.NewPrintStmt(wn.Name, es)
		}
	case ir.KindAssertStmt:
		if c := e(0); done() {
			out.stmt = ir.NewAssertStmt(c, wn.Name)
		}
	case ir.KindPipeline:
		produce, update, consume := s(0), s(1), s(2)
		if done() {
			out.stmt = ir.NewPipeline(wn.Name, produce, update, consume)
		}
	case ir.KindFor:
		lo, ext, body := e(0), e(1), s(2)
		if done() {
			var ft ir.ForType
			if ft, err = forType(wn.Mode); done() {
				out.stmt = ir.NewFor(wn.Name, lo, ext, ft, body)
			}
		}
	case ir.KindStore:
		v, idx := e(0), e(1)
		if done() {
			out.stmt = ir.NewStore(wn.Name, v, idx)
		}
	case ir.KindProvide:
		v := e(0)
		if done() {
			if es, err = b.exprs(i, wn.Refs[1:]); done() {
				out.stmt = ir.NewProvide(wn.Name, v, es)
			}
		}
	case ir.KindAllocate:
		size, body := e(0), s(1)
		if done() {
			out.stmt = ir.NewAllocate(wn.Name, t, size, body)
		}
	case ir.KindRealize:
		last := len(wn.Refs) - 1
		bounds := make([]ir.Range, 0, last/2)
		for j := 0; j < last; j += 2 {
			bounds = append(bounds, ir.Range{Min: e(j), Max: e(j + 1)})
		}
		body := s(last)
		if done() {
			out.stmt = ir.NewRealize(wn.Name, t, bounds, body)
		}
	case ir.KindBlock:
		first := s(0)
		var rest ir.Stmt
		if len(wn.Refs) == 2 {
			rest = s(1)
		}
		if done() {
			out.stmt = ir.NewBlock(first, rest)
		}
	default:
		return fmt.Errorf("unknown node kind %d", wn.Kind)
	}
	return err
}

var binaryCtors = map[ir.NodeKind]func(a, b ir.Expr) ir.Expr{
	ir.KindAdd: ir.NewAdd,
	ir.KindSub: ir.NewSub,
	ir.KindMul: ir.NewMul,
	ir.KindDiv: ir.NewDiv,
	ir.KindMod: ir.NewMod,
	ir.KindMin: ir.NewMin,
	ir.KindMax: ir.NewMax,
	ir.KindEQ:  ir.NewEQ,
	ir.KindNE:  ir.NewNE,
	ir.KindLT:  ir.NewLT,
	ir.KindLE:  ir.NewLE,
	ir.KindGT:  ir.NewGT,
	ir.KindGE:  ir.NewGE,
	ir.KindAnd: ir.NewAnd,
	ir.KindOr:  ir.NewOr,
}

func callType(m uint8) (ir.CallType, error) {
	ct := ir.CallType(m)
	switch ct {
	case ir.CallImage, ir.CallExtern, ir.CallHalide:
		return ct, nil
	}
	return 0, fmt.Errorf("unknown call type %d", m)
}

func forType(m uint8) (ir.ForType, error) {
	ft := ir.ForType(m)
	switch ft {
	case ir.ForSerial, ir.ForParallel, ir.ForVectorized, ir.ForUnrolled:
		return ft, nil
	}
	return 0, fmt.Errorf("unknown loop type %d", m)
}
