// Package irwalk provides generic traversals over Halide IR.
//
// The ir package dispatches one node at a time and never descends on its
// own. The helpers here descend through every defined child in field order,
// skipping absent optional children (Pipeline update, Block rest).
package irwalk

import "github.com/frmsvrt/Halide/internal/ir"

// Inspect traverses the statement tree rooted at root in pre-order. fn is
// called for every node; when it returns false the children of that node
// are skipped. A node shared by several parents is visited once per path.
func Inspect(root ir.Stmt, fn func(ir.Node) bool) {
	if !root.Defined() {
		return
	}
	root.Accept(&Walker{Enter: fn})
}

// InspectExpr is Inspect for an expression root.
func InspectExpr(root ir.Expr, fn func(ir.Node) bool) {
	if !root.Defined() {
		return
	}
	root.Accept(&Walker{Enter: fn})
}

// Nodes calls fn for every node under root, stopping at the first error.
func Nodes(root ir.Stmt, fn func(ir.Node) error) error {
	return NodesEnterAndExit(root, fn, nil)
}

// NodesEnterAndExit calls enter before a node's children and exit after
// them. exit may be nil.
func NodesEnterAndExit(root ir.Stmt, enter, exit func(ir.Node) error) error {
	if !root.Defined() {
		return nil
	}
	return walkNode(root.Node(), enter, exit)
}

func walkNode(n ir.Node, enter, exit func(ir.Node) error) error {
	if err := enter(n); err != nil {
		return err
	}
	for _, c := range Children(n) {
		if err := walkNode(c, enter, exit); err != nil {
			return err
		}
	}
	if exit != nil {
		if err := exit(n); err != nil {
			return err
		}
	}
	return nil
}

// Walker is an ir.Visitor that calls Enter on each node and then descends
// into its children. A nil Enter visits everything.
type Walker struct {
	Enter func(ir.Node) bool
	// Exit, when set, is called after a node's children were walked.
	Exit func(ir.Node)
}

func (w *Walker) walk(n ir.Node) {
	if w.Enter != nil && !w.Enter(n) {
		return
	}
	for _, c := range Children(n) {
		c.Accept(w)
	}
	if w.Exit != nil {
		w.Exit(n)
	}
}

func (w *Walker) VisitIntImm(n *ir.IntImm)         { w.walk(n) }
func (w *Walker) VisitFloatImm(n *ir.FloatImm)     { w.walk(n) }
func (w *Walker) VisitCast(n *ir.Cast)             { w.walk(n) }
func (w *Walker) VisitVar(n *ir.Var)               { w.walk(n) }
func (w *Walker) VisitAdd(n *ir.Add)               { w.walk(n) }
func (w *Walker) VisitSub(n *ir.Sub)               { w.walk(n) }
func (w *Walker) VisitMul(n *ir.Mul)               { w.walk(n) }
func (w *Walker) VisitDiv(n *ir.Div)               { w.walk(n) }
func (w *Walker) VisitMod(n *ir.Mod)               { w.walk(n) }
func (w *Walker) VisitMin(n *ir.Min)               { w.walk(n) }
func (w *Walker) VisitMax(n *ir.Max)               { w.walk(n) }
func (w *Walker) VisitEQ(n *ir.EQ)                 { w.walk(n) }
func (w *Walker) VisitNE(n *ir.NE)                 { w.walk(n) }
func (w *Walker) VisitLT(n *ir.LT)                 { w.walk(n) }
func (w *Walker) VisitLE(n *ir.LE)                 { w.walk(n) }
func (w *Walker) VisitGT(n *ir.GT)                 { w.walk(n) }
func (w *Walker) VisitGE(n *ir.GE)                 { w.walk(n) }
func (w *Walker) VisitAnd(n *ir.And)               { w.walk(n) }
func (w *Walker) VisitOr(n *ir.Or)                 { w.walk(n) }
func (w *Walker) VisitNot(n *ir.Not)               { w.walk(n) }
func (w *Walker) VisitSelect(n *ir.Select)         { w.walk(n) }
func (w *Walker) VisitLoad(n *ir.Load)             { w.walk(n) }
func (w *Walker) VisitRamp(n *ir.Ramp)             { w.walk(n) }
func (w *Walker) VisitCall(n *ir.Call)             { w.walk(n) }
func (w *Walker) VisitLet(n *ir.Let)               { w.walk(n) }
func (w *Walker) VisitLetStmt(n *ir.LetStmt)       { w.walk(n) }
func (w *Walker) VisitPrintStmt(n *ir.PrintStmt)   { w.walk(n) }
func (w *Walker) VisitAssertStmt(n *ir.AssertStmt) { w.walk(n) }
func (w *Walker) VisitPipeline(n *ir.Pipeline)     { w.walk(n) }
func (w *Walker) VisitFor(n *ir.For)               { w.walk(n) }
func (w *Walker) VisitStore(n *ir.Store)           { w.walk(n) }
func (w *Walker) VisitProvide(n *ir.Provide)       { w.walk(n) }
func (w *Walker) VisitAllocate(n *ir.Allocate)     { w.walk(n) }
func (w *Walker) VisitRealize(n *ir.Realize)       { w.walk(n) }
func (w *Walker) VisitBlock(n *ir.Block)           { w.walk(n) }

var _ ir.Visitor = (*Walker)(nil)
