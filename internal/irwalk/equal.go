package irwalk

import (
	"math"

	"github.com/frmsvrt/Halide/internal/ir"
)

// Equal reports whether a and b are structurally equal: same kinds, same
// attributes and pairwise equal children. Unlike SameAs it ignores node
// identity, so two separately built IntImm(5) are Equal. Two empty handles
// are equal.
func Equal(a, b ir.Expr) bool {
	if !a.Defined() || !b.Defined() {
		return a.Defined() == b.Defined()
	}
	return newComparer().equal(a.Node(), b.Node())
}

// EqualStmt is Equal for statements.
func EqualStmt(a, b ir.Stmt) bool {
	if !a.Defined() || !b.Defined() {
		return a.Defined() == b.Defined()
	}
	return newComparer().equal(a.Node(), b.Node())
}

type nodePair struct{ a, b ir.Node }

// comparer memoizes pairs already proven equal so shared sub-DAGs are
// compared once.
type comparer struct {
	seen map[nodePair]struct{}
}

func newComparer() *comparer {
	return &comparer{seen: make(map[nodePair]struct{})}
}

func (c *comparer) equal(a, b ir.Node) bool {
	if a == b {
		return true
	}
	if a.Kind() != b.Kind() {
		return false
	}
	key := nodePair{a, b}
	if _, ok := c.seen[key]; ok {
		return true
	}
	if !sameAttrs(a, b) {
		return false
	}
	ca, cb := Children(a), Children(b)
	if len(ca) != len(cb) {
		return false
	}
	for i := range ca {
		if !c.equal(ca[i], cb[i]) {
			return false
		}
	}
	c.seen[key] = struct{}{}
	return true
}

// sameAttrs compares the non-child fields of two nodes of the same kind.
// Optional children are covered by the child count, except for Pipeline
// where a missing update shifts consume into its slot.
func sameAttrs(a, b ir.Node) bool {
	switch x := a.(type) {
	case *ir.IntImm:
		return x.Value() == b.(*ir.IntImm).Value()
	case *ir.FloatImm:
		return math.Float32bits(x.Value()) == math.Float32bits(b.(*ir.FloatImm).Value())
	case *ir.Cast:
		return x.Type() == b.(*ir.Cast).Type()
	case *ir.Var:
		y := b.(*ir.Var)
		return x.Type() == y.Type() && x.Name() == y.Name()
	case *ir.Load:
		y := b.(*ir.Load)
		return x.Type() == y.Type() && x.Buffer() == y.Buffer()
	case *ir.Ramp:
		return x.Width() == b.(*ir.Ramp).Width()
	case *ir.Call:
		y := b.(*ir.Call)
		return x.Type() == y.Type() && x.Name() == y.Name() && x.CallType() == y.CallType()
	case *ir.Let:
		return x.Name() == b.(*ir.Let).Name()
	case *ir.LetStmt:
		return x.Name() == b.(*ir.LetStmt).Name()
	case *ir.PrintStmt:
		return x.Prefix() == b.(*ir.PrintStmt).Prefix()
	case *ir.AssertStmt:
		return x.Message() == b.(*ir.AssertStmt).Message()
	case *ir.Pipeline:
		y := b.(*ir.Pipeline)
		_, xu := x.Update()
		_, yu := y.Update()
		return x.Buffer() == y.Buffer() && xu == yu
	case *ir.For:
		y := b.(*ir.For)
		return x.Name() == y.Name() && x.ForType() == y.ForType()
	case *ir.Store:
		return x.Buffer() == b.(*ir.Store).Buffer()
	case *ir.Provide:
		return x.Buffer() == b.(*ir.Provide).Buffer()
	case *ir.Allocate:
		y := b.(*ir.Allocate)
		return x.Buffer() == y.Buffer() && x.Type() == y.Type()
	case *ir.Realize:
		y := b.(*ir.Realize)
		return x.Buffer() == y.Buffer() && x.Type() == y.Type() && x.Dims() == y.Dims()
	case *ir.Block:
		_, xr := x.Rest()
		_, yr := b.(*ir.Block).Rest()
		return xr == yr
	}
	return true
}
