package ir

import "fmt"

// NodeKind enumerates the concrete node kinds of the IR.
// Expression kinds come first, statement kinds after KindLetStmt.
type NodeKind uint8

const (
	KindInvalid NodeKind = iota

	KindIntImm
	KindFloatImm
	KindCast
	KindVar
	KindAdd
	KindSub
	KindMul
	KindDiv
	KindMod
	KindMin
	KindMax
	KindEQ
	KindNE
	KindLT
	KindLE
	KindGT
	KindGE
	KindAnd
	KindOr
	KindNot
	KindSelect
	KindLoad
	KindRamp
	KindCall
	KindLet

	KindLetStmt
	KindPrintStmt
	KindAssertStmt
	KindPipeline
	KindFor
	KindStore
	KindProvide
	KindAllocate
	KindRealize
	KindBlock

	kindCount
)

var kindNames = [...]string{
	KindInvalid:    "Invalid",
	KindIntImm:     "IntImm",
	KindFloatImm:   "FloatImm",
	KindCast:       "Cast",
	KindVar:        "Var",
	KindAdd:        "Add",
	KindSub:        "Sub",
	KindMul:        "Mul",
	KindDiv:        "Div",
	KindMod:        "Mod",
	KindMin:        "Min",
	KindMax:        "Max",
	KindEQ:         "EQ",
	KindNE:         "NE",
	KindLT:         "LT",
	KindLE:         "LE",
	KindGT:         "GT",
	KindGE:         "GE",
	KindAnd:        "And",
	KindOr:         "Or",
	KindNot:        "Not",
	KindSelect:     "Select",
	KindLoad:       "Load",
	KindRamp:       "Ramp",
	KindCall:       "Call",
	KindLet:        "Let",
	KindLetStmt:    "LetStmt",
	KindPrintStmt:  "PrintStmt",
	KindAssertStmt: "AssertStmt",
	KindPipeline:   "Pipeline",
	KindFor:        "For",
	KindStore:      "Store",
	KindProvide:    "Provide",
	KindAllocate:   "Allocate",
	KindRealize:    "Realize",
	KindBlock:      "Block",
}

func (k NodeKind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("NodeKind(%d)", k)
}

// IsExpr reports whether k is an expression kind.
func (k NodeKind) IsExpr() bool {
	return k >= KindIntImm && k <= KindLet
}

// IsStmt reports whether k is a statement kind.
func (k NodeKind) IsStmt() bool {
	return k >= KindLetStmt && k <= KindBlock
}

// AllKinds lists every concrete kind in declaration order.
func AllKinds() []NodeKind {
	out := make([]NodeKind, 0, kindCount-1)
	for k := KindIntImm; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}
