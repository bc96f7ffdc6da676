package ir

// Visitor has one method per concrete node kind. Accept on a node calls the
// method for that node's kind and no other.
//
// Nodes do not visit their children. An implementation recurses into the
// handles it cares about, in the order it chooses, and may stop early.
// Since nodes are immutable, a rewriting pass builds and returns new nodes.
type Visitor interface {
	VisitIntImm(*IntImm)
	VisitFloatImm(*FloatImm)
	VisitCast(*Cast)
	VisitVar(*Var)
	VisitAdd(*Add)
	VisitSub(*Sub)
	VisitMul(*Mul)
	VisitDiv(*Div)
	VisitMod(*Mod)
	VisitMin(*Min)
	VisitMax(*Max)
	VisitEQ(*EQ)
	VisitNE(*NE)
	VisitLT(*LT)
	VisitLE(*LE)
	VisitGT(*GT)
	VisitGE(*GE)
	VisitAnd(*And)
	VisitOr(*Or)
	VisitNot(*Not)
	VisitSelect(*Select)
	VisitLoad(*Load)
	VisitRamp(*Ramp)
	VisitCall(*Call)
	VisitLet(*Let)

	VisitLetStmt(*LetStmt)
	VisitPrintStmt(*PrintStmt)
	VisitAssertStmt(*AssertStmt)
	VisitPipeline(*Pipeline)
	VisitFor(*For)
	VisitStore(*Store)
	VisitProvide(*Provide)
	VisitAllocate(*Allocate)
	VisitRealize(*Realize)
	VisitBlock(*Block)
}

// Compile-time checks that every kind belongs to exactly one family.
var (
	_ ExprNode = (*IntImm)(nil)
	_ ExprNode = (*FloatImm)(nil)
	_ ExprNode = (*Cast)(nil)
	_ ExprNode = (*Var)(nil)
	_ ExprNode = (*Add)(nil)
	_ ExprNode = (*Sub)(nil)
	_ ExprNode = (*Mul)(nil)
	_ ExprNode = (*Div)(nil)
	_ ExprNode = (*Mod)(nil)
	_ ExprNode = (*Min)(nil)
	_ ExprNode = (*Max)(nil)
	_ ExprNode = (*EQ)(nil)
	_ ExprNode = (*NE)(nil)
	_ ExprNode = (*LT)(nil)
	_ ExprNode = (*LE)(nil)
	_ ExprNode = (*GT)(nil)
	_ ExprNode = (*GE)(nil)
	_ ExprNode = (*And)(nil)
	_ ExprNode = (*Or)(nil)
	_ ExprNode = (*Not)(nil)
	_ ExprNode = (*Select)(nil)
	_ ExprNode = (*Load)(nil)
	_ ExprNode = (*Ramp)(nil)
	_ ExprNode = (*Call)(nil)
	_ ExprNode = (*Let)(nil)

	_ StmtNode = (*LetStmt)(nil)
	_ StmtNode = (*PrintStmt)(nil)
	_ StmtNode = (*AssertStmt)(nil)
	_ StmtNode = (*Pipeline)(nil)
	_ StmtNode = (*For)(nil)
	_ StmtNode = (*Store)(nil)
	_ StmtNode = (*Provide)(nil)
	_ StmtNode = (*Allocate)(nil)
	_ StmtNode = (*Realize)(nil)
	_ StmtNode = (*Block)(nil)
)
