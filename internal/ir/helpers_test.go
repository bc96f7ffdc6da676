package ir

import (
	"errors"
	"testing"
)

// mustViolate runs fn and fails the test unless it panics with a
// ContractViolation carrying code.
func mustViolate(t *testing.T, code ViolationCode, fn func()) *ContractViolation {
	t.Helper()
	err := Catch(fn)
	if err == nil {
		t.Fatalf("expected contract violation %s, got none", code)
	}
	var v *ContractViolation
	if !errors.As(err, &v) {
		t.Fatalf("expected *ContractViolation, got %T", err)
	}
	if v.Code != code {
		t.Fatalf("expected %s, got %s (%s)", code, v.Code, v.Message)
	}
	return v
}

// kindRecorder records the kind of every Visit call it receives. It never
// recurses.
type kindRecorder struct {
	kinds []NodeKind
}

func (r *kindRecorder) hit(k NodeKind) { r.kinds = append(r.kinds, k) }

func (r *kindRecorder) VisitIntImm(*IntImm)         { r.hit(KindIntImm) }
func (r *kindRecorder) VisitFloatImm(*FloatImm)     { r.hit(KindFloatImm) }
func (r *kindRecorder) VisitCast(*Cast)             { r.hit(KindCast) }
func (r *kindRecorder) VisitVar(*Var)               { r.hit(KindVar) }
func (r *kindRecorder) VisitAdd(*Add)               { r.hit(KindAdd) }
func (r *kindRecorder) VisitSub(*Sub)               { r.hit(KindSub) }
func (r *kindRecorder) VisitMul(*Mul)               { r.hit(KindMul) }
func (r *kindRecorder) VisitDiv(*Div)               { r.hit(KindDiv) }
func (r *kindRecorder) VisitMod(*Mod)               { r.hit(KindMod) }
func (r *kindRecorder) VisitMin(*Min)               { r.hit(KindMin) }
func (r *kindRecorder) VisitMax(*Max)               { r.hit(KindMax) }
func (r *kindRecorder) VisitEQ(*EQ)                 { r.hit(KindEQ) }
func (r *kindRecorder) VisitNE(*NE)                 { r.hit(KindNE) }
func (r *kindRecorder) VisitLT(*LT)                 { r.hit(KindLT) }
func (r *kindRecorder) VisitLE(*LE)                 { r.hit(KindLE) }
func (r *kindRecorder) VisitGT(*GT)                 { r.hit(KindGT) }
func (r *kindRecorder) VisitGE(*GE)                 { r.hit(KindGE) }
func (r *kindRecorder) VisitAnd(*And)               { r.hit(KindAnd) }
func (r *kindRecorder) VisitOr(*Or)                 { r.hit(KindOr) }
func (r *kindRecorder) VisitNot(*Not)               { r.hit(KindNot) }
func (r *kindRecorder) VisitSelect(*Select)         { r.hit(KindSelect) }
func (r *kindRecorder) VisitLoad(*Load)             { r.hit(KindLoad) }
func (r *kindRecorder) VisitRamp(*Ramp)             { r.hit(KindRamp) }
func (r *kindRecorder) VisitCall(*Call)             { r.hit(KindCall) }
func (r *kindRecorder) VisitLet(*Let)               { r.hit(KindLet) }
func (r *kindRecorder) VisitLetStmt(*LetStmt)       { r.hit(KindLetStmt) }
func (r *kindRecorder) VisitPrintStmt(*PrintStmt)   { r.hit(KindPrintStmt) }
func (r *kindRecorder) VisitAssertStmt(*AssertStmt) { r.hit(KindAssertStmt) }
func (r *kindRecorder) VisitPipeline(*Pipeline)     { r.hit(KindPipeline) }
func (r *kindRecorder) VisitFor(*For)               { r.hit(KindFor) }
func (r *kindRecorder) VisitStore(*Store)           { r.hit(KindStore) }
func (r *kindRecorder) VisitProvide(*Provide)       { r.hit(KindProvide) }
func (r *kindRecorder) VisitAllocate(*Allocate)     { r.hit(KindAllocate) }
func (r *kindRecorder) VisitRealize(*Realize)       { r.hit(KindRealize) }
func (r *kindRecorder) VisitBlock(*Block)           { r.hit(KindBlock) }

// sample is one node of every kind, built from the leaves x, y and a
// statement s.
type sample struct {
	kind NodeKind
	expr Expr
	stmt Stmt
}

func (s *sample) accept(v Visitor) {
	if s.kind.IsExpr() {
		s.expr.Accept(v)
		return
	}
	s.stmt.Accept(v)
}

func (s *sample) release() {
	s.expr.Release()
	s.stmt.Release()
}

func buildSamples() []sample {
	x := NewVar(Int(32), "x")
	y := NewVar(Int(32), "y")
	defer x.Release()
	defer y.Release()
	s := NewStore("out", x, y)
	defer s.Release()

	e := func(k NodeKind, h Expr) sample { return sample{kind: k, expr: h} }
	st := func(k NodeKind, h Stmt) sample { return sample{kind: k, stmt: h} }
	return []sample{
		e(KindIntImm, NewIntImm(7)),
		e(KindFloatImm, NewFloatImm(0.5)),
		e(KindCast, NewCast(Float(32), x)),
		e(KindVar, NewVar(Int(32), "z")),
		e(KindAdd, NewAdd(x, y)),
		e(KindSub, NewSub(x, y)),
		e(KindMul, NewMul(x, y)),
		e(KindDiv, NewDiv(x, y)),
		e(KindMod, NewMod(x, y)),
		e(KindMin, NewMin(x, y)),
		e(KindMax, NewMax(x, y)),
		e(KindEQ, NewEQ(x, y)),
		e(KindNE, NewNE(x, y)),
		e(KindLT, NewLT(x, y)),
		e(KindLE, NewLE(x, y)),
		e(KindGT, NewGT(x, y)),
		e(KindGE, NewGE(x, y)),
		e(KindAnd, NewAnd(x, y)),
		e(KindOr, NewOr(x, y)),
		e(KindNot, NewNot(x)),
		e(KindSelect, NewSelect(x, y, x)),
		e(KindLoad, NewLoad(Int(32), "in", x)),
		e(KindRamp, NewRamp(x, y, 4)),
		e(KindCall, NewCall(Int(32), "f", []Expr{x, y}, CallHalide)),
		e(KindLet, NewLet("t", x, y)),
		st(KindLetStmt, NewLetStmt("t", x, s)),
		st(KindPrintStmt, NewPrintStmt("x = ", []Expr{x})),
		st(KindAssertStmt, NewAssertStmt(x, "x must hold")),
		st(KindPipeline, NewPipeline("out", s, Stmt{}, s)),
		st(KindFor, NewFor("i", x, y, ForSerial, s)),
		st(KindStore, NewStore("out", x, y)),
		st(KindProvide, NewProvide("out", x, []Expr{x, y})),
		st(KindAllocate, NewAllocate("tmp", Int(32), x, s)),
		st(KindRealize, NewRealize("out", Int(32), []Range{{Min: x, Max: y}}, s)),
		st(KindBlock, NewBlock(s, Stmt{})),
	}
}

func releaseSamples(samples []sample) {
	for i := range samples {
		samples[i].release()
	}
}
