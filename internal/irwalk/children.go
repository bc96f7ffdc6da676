package irwalk

import "github.com/frmsvrt/Halide/internal/ir"

// binary is satisfied by every two-operand arithmetic, comparison and
// logical node.
type binary interface {
	A() ir.Expr
	B() ir.Expr
}

// Children returns the defined children of n in field order. The returned
// nodes are borrowed from n.
func Children(n ir.Node) []ir.Node {
	var out []ir.Node
	e := func(xs ...ir.Expr) {
		for _, x := range xs {
			if x.Defined() {
				out = append(out, x.Node())
			}
		}
	}
	s := func(xs ...ir.Stmt) {
		for _, x := range xs {
			if x.Defined() {
				out = append(out, x.Node())
			}
		}
	}

	switch n := n.(type) {
	case *ir.IntImm, *ir.FloatImm, *ir.Var:
	case *ir.Cast:
		e(n.Value())
	case binary:
		e(n.A(), n.B())
	case *ir.Not:
		e(n.A())
	case *ir.Select:
		e(n.Condition(), n.TrueValue(), n.FalseValue())
	case *ir.Load:
		e(n.Index())
	case *ir.Ramp:
		e(n.Base(), n.Stride())
	case *ir.Call:
		e(n.Args()...)
	case *ir.Let:
		e(n.Value(), n.Body())
	case *ir.LetStmt:
		e(n.Value())
		s(n.Body())
	case *ir.PrintStmt:
		e(n.Args()...)
	case *ir.AssertStmt:
		e(n.Condition())
	case *ir.Pipeline:
		s(n.Produce())
		if u, ok := n.Update(); ok {
			s(u)
		}
		s(n.Consume())
	case *ir.For:
		e(n.Min(), n.Extent())
		s(n.Body())
	case *ir.Store:
		e(n.Value(), n.Index())
	case *ir.Provide:
		e(n.Value())
		e(n.Args()...)
	case *ir.Allocate:
		e(n.Size())
		s(n.Body())
	case *ir.Realize:
		for _, b := range n.Bounds() {
			e(b.Min, b.Max)
		}
		s(n.Body())
	case *ir.Block:
		s(n.First())
		if rest, ok := n.Rest(); ok {
			s(rest)
		}
	}
	return out
}
