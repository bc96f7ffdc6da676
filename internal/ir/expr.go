package ir

import (
	"math"
	"slices"
	"strconv"

	"fortio.org/safecast"
)

// IntImm is a 32-bit signed integer literal.
type IntImm struct {
	exprBase
	value int32
}

// NewIntImm builds an integer literal.
func NewIntImm(v int32) Expr {
	return wrapExpr(&IntImm{value: v})
}

// IntConst builds an integer literal from a Go int. Values outside the
// int32 range are a contract violation.
func IntConst(v int) Expr {
	v32, err := safecast.Conv[int32](v)
	if err != nil {
		violate(ViolationLiteralRange, KindIntImm, "IntImm of out-of-range value "+strconv.Itoa(v))
	}
	return NewIntImm(v32)
}

// Value returns the literal.
func (n *IntImm) Value() int32     { return n.value }
func (*IntImm) Kind() NodeKind     { return KindIntImm }
func (n *IntImm) Accept(v Visitor) { v.VisitIntImm(n) }
func (*IntImm) releaseChildren()   {}

// FloatImm is a 32-bit floating-point literal.
type FloatImm struct {
	exprBase
	value float32
}

// NewFloatImm builds a floating-point literal.
func NewFloatImm(v float32) Expr {
	return wrapExpr(&FloatImm{value: v})
}

// FloatConst builds a floating-point literal from a float64. Finite values
// that overflow float32 are a contract violation; infinities and NaN pass
// through.
func FloatConst(v float64) Expr {
	if !math.IsInf(v, 0) && !math.IsNaN(v) && math.Abs(v) > math.MaxFloat32 {
		violate(ViolationLiteralRange, KindFloatImm,
			"FloatImm of out-of-range value "+strconv.FormatFloat(v, 'g', -1, 64))
	}
	return NewFloatImm(float32(v))
}

// Value returns the literal.
func (n *FloatImm) Value() float32   { return n.value }
func (*FloatImm) Kind() NodeKind     { return KindFloatImm }
func (n *FloatImm) Accept(v Visitor) { v.VisitFloatImm(n) }
func (*FloatImm) releaseChildren()   {}

// Cast converts its operand to another type.
type Cast struct {
	exprBase
	typ   Type
	value Expr
}

// NewCast builds a conversion of v to t.
func NewCast(t Type, v Expr) Expr {
	requireExpr(KindCast, v)
	return wrapExpr(&Cast{typ: t, value: v.Retain()})
}

// Type returns the target type; Value is the converted operand.
func (n *Cast) Type() Type       { return n.typ }
func (n *Cast) Value() Expr      { return n.value }
func (*Cast) Kind() NodeKind     { return KindCast }
func (n *Cast) Accept(v Visitor) { v.VisitCast(n) }
func (n *Cast) releaseChildren() { n.value.Release() }

// Var is a symbolic reference to a loop variable, let binding or parameter.
type Var struct {
	exprBase
	typ  Type
	name string
}

// NewVar builds a reference to name.
func NewVar(t Type, name string) Expr {
	return wrapExpr(&Var{typ: t, name: name})
}

// Type returns the declared type of the variable.
func (n *Var) Type() Type       { return n.typ }
func (n *Var) Name() string     { return n.name }
func (*Var) Kind() NodeKind     { return KindVar }
func (n *Var) Accept(v Visitor) { v.VisitVar(n) }
func (*Var) releaseChildren()   {}

// binary holds the operands shared by arithmetic, comparison and logical
// nodes.
type binary struct {
	exprBase
	a, b Expr
}

func (n *binary) init(kind NodeKind, a, b Expr) {
	requireExpr(kind, a, b)
	n.a = a.Retain()
	n.b = b.Retain()
}

// A returns the left operand.
func (n *binary) A() Expr { return n.a }

// B returns the right operand.
func (n *binary) B() Expr { return n.b }

func (n *binary) releaseChildren() {
	n.a.Release()
	n.b.Release()
}

// Add is a + b.
type Add struct{ binary }

// NewAdd builds a + b.
func NewAdd(a, b Expr) Expr {
	n := &Add{}
	n.init(KindAdd, a, b)
	return wrapExpr(n)
}

func (*Add) Kind() NodeKind     { return KindAdd }
func (n *Add) Accept(v Visitor) { v.VisitAdd(n) }

// Sub is a - b.
type Sub struct{ binary }

// NewSub builds a - b.
func NewSub(a, b Expr) Expr {
	n := &Sub{}
	n.init(KindSub, a, b)
	return wrapExpr(n)
}

func (*Sub) Kind() NodeKind     { return KindSub }
func (n *Sub) Accept(v Visitor) { v.VisitSub(n) }

// Mul is a * b.
type Mul struct{ binary }

// NewMul builds a * b.
func NewMul(a, b Expr) Expr {
	n := &Mul{}
	n.init(KindMul, a, b)
	return wrapExpr(n)
}

func (*Mul) Kind() NodeKind     { return KindMul }
func (n *Mul) Accept(v Visitor) { v.VisitMul(n) }

// Div is a / b.
type Div struct{ binary }

// NewDiv builds a / b.
func NewDiv(a, b Expr) Expr {
	n := &Div{}
	n.init(KindDiv, a, b)
	return wrapExpr(n)
}

func (*Div) Kind() NodeKind     { return KindDiv }
func (n *Div) Accept(v Visitor) { v.VisitDiv(n) }

// Mod is a % b.
type Mod struct{ binary }

// NewMod builds a % b.
func NewMod(a, b Expr) Expr {
	n := &Mod{}
	n.init(KindMod, a, b)
	return wrapExpr(n)
}

func (*Mod) Kind() NodeKind     { return KindMod }
func (n *Mod) Accept(v Visitor) { v.VisitMod(n) }

// Min selects the smaller of a and b.
type Min struct{ binary }

// NewMin builds the smaller of a and b.
func NewMin(a, b Expr) Expr {
	n := &Min{}
	n.init(KindMin, a, b)
	return wrapExpr(n)
}

func (*Min) Kind() NodeKind     { return KindMin }
func (n *Min) Accept(v Visitor) { v.VisitMin(n) }

// Max selects the larger of a and b.
type Max struct{ binary }

// NewMax builds the larger of a and b.
func NewMax(a, b Expr) Expr {
	n := &Max{}
	n.init(KindMax, a, b)
	return wrapExpr(n)
}

func (*Max) Kind() NodeKind     { return KindMax }
func (n *Max) Accept(v Visitor) { v.VisitMax(n) }

// EQ is a == b.
type EQ struct{ binary }

// NewEQ builds a == b.
func NewEQ(a, b Expr) Expr {
	n := &EQ{}
	n.init(KindEQ, a, b)
	return wrapExpr(n)
}

func (*EQ) Kind() NodeKind     { return KindEQ }
func (n *EQ) Accept(v Visitor) { v.VisitEQ(n) }

// NE is a != b.
type NE struct{ binary }

// NewNE builds a != b.
func NewNE(a, b Expr) Expr {
	n := &NE{}
	n.init(KindNE, a, b)
	return wrapExpr(n)
}

func (*NE) Kind() NodeKind     { return KindNE }
func (n *NE) Accept(v Visitor) { v.VisitNE(n) }

// LT is a < b.
type LT struct{ binary }

// NewLT builds a < b.
func NewLT(a, b Expr) Expr {
	n := &LT{}
	n.init(KindLT, a, b)
	return wrapExpr(n)
}

func (*LT) Kind() NodeKind     { return KindLT }
func (n *LT) Accept(v Visitor) { v.VisitLT(n) }

// LE is a <= b.
type LE struct{ binary }

// NewLE builds a <= b.
func NewLE(a, b Expr) Expr {
	n := &LE{}
	n.init(KindLE, a, b)
	return wrapExpr(n)
}

func (*LE) Kind() NodeKind     { return KindLE }
func (n *LE) Accept(v Visitor) { v.VisitLE(n) }

// GT is a > b.
type GT struct{ binary }

// NewGT builds a > b.
func NewGT(a, b Expr) Expr {
	n := &GT{}
	n.init(KindGT, a, b)
	return wrapExpr(n)
}

func (*GT) Kind() NodeKind     { return KindGT }
func (n *GT) Accept(v Visitor) { v.VisitGT(n) }

// GE is a >= b.
type GE struct{ binary }

// NewGE builds a >= b.
func NewGE(a, b Expr) Expr {
	n := &GE{}
	n.init(KindGE, a, b)
	return wrapExpr(n)
}

func (*GE) Kind() NodeKind     { return KindGE }
func (n *GE) Accept(v Visitor) { v.VisitGE(n) }

// And is the logical conjunction of a and b.
type And struct{ binary }

// NewAnd builds a && b. Both operands are always evaluated.
func NewAnd(a, b Expr) Expr {
	n := &And{}
	n.init(KindAnd, a, b)
	return wrapExpr(n)
}

func (*And) Kind() NodeKind     { return KindAnd }
func (n *And) Accept(v Visitor) { v.VisitAnd(n) }

// Or is the logical disjunction of a and b.
type Or struct{ binary }

// NewOr builds a || b. Both operands are always evaluated.
func NewOr(a, b Expr) Expr {
	n := &Or{}
	n.init(KindOr, a, b)
	return wrapExpr(n)
}

func (*Or) Kind() NodeKind     { return KindOr }
func (n *Or) Accept(v Visitor) { v.VisitOr(n) }

// Not is the logical negation of a.
type Not struct {
	exprBase
	a Expr
}

// NewNot builds !a.
func NewNot(a Expr) Expr {
	requireExpr(KindNot, a)
	return wrapExpr(&Not{a: a.Retain()})
}

// A returns the negated operand.
func (n *Not) A() Expr          { return n.a }
func (*Not) Kind() NodeKind     { return KindNot }
func (n *Not) Accept(v Visitor) { v.VisitNot(n) }
func (n *Not) releaseChildren() { n.a.Release() }

// Select picks TrueValue where Condition holds and FalseValue elsewhere.
// Both values are evaluated; nothing short-circuits.
type Select struct {
	exprBase
	condition, trueValue, falseValue Expr
}

// NewSelect builds a select. All three operands must be defined.
func NewSelect(condition, trueValue, falseValue Expr) Expr {
	requireExpr(KindSelect, condition, trueValue, falseValue)
	return wrapExpr(&Select{
		condition:  condition.Retain(),
		trueValue:  trueValue.Retain(),
		falseValue: falseValue.Retain(),
	})
}

// Condition returns the selecting boolean.
func (n *Select) Condition() Expr  { return n.condition }
func (n *Select) TrueValue() Expr  { return n.trueValue }
func (n *Select) FalseValue() Expr { return n.falseValue }
func (*Select) Kind() NodeKind     { return KindSelect }
func (n *Select) Accept(v Visitor) { v.VisitSelect(n) }

func (n *Select) releaseChildren() {
	n.condition.Release()
	n.trueValue.Release()
	n.falseValue.Release()
}

// Load reads one element (or one vector of elements) of a named buffer.
type Load struct {
	exprBase
	typ    Type
	buffer string
	index  Expr
}

// NewLoad reads an element of type t from buffer at index.
func NewLoad(t Type, buffer string, index Expr) Expr {
	requireExpr(KindLoad, index)
	return wrapExpr(&Load{typ: t, buffer: buffer, index: index.Retain()})
}

// Type returns the element type read.
func (n *Load) Type() Type       { return n.typ }
func (n *Load) Buffer() string   { return n.buffer }
func (n *Load) Index() Expr      { return n.index }
func (*Load) Kind() NodeKind     { return KindLoad }
func (n *Load) Accept(v Visitor) { v.VisitLoad(n) }
func (n *Load) releaseChildren() { n.index.Release() }

// Ramp is the vector base, base+stride, ..., base+(width-1)*stride.
type Ramp struct {
	exprBase
	start, stride Expr
	width         int
}

// NewRamp builds a ramp of width lanes. width must be positive.
func NewRamp(base, stride Expr, width int) Expr {
	requireExpr(KindRamp, base, stride)
	if width <= 0 {
		violate(ViolationRampWidth, KindRamp, "Ramp of width <= 0")
	}
	return wrapExpr(&Ramp{start: base.Retain(), stride: stride.Retain(), width: width})
}

// Base returns lane 0; Stride is the step between neighbouring lanes.
func (n *Ramp) Base() Expr       { return n.start }
func (n *Ramp) Stride() Expr     { return n.stride }
func (n *Ramp) Width() int       { return n.width }
func (*Ramp) Kind() NodeKind     { return KindRamp }
func (n *Ramp) Accept(v Visitor) { v.VisitRamp(n) }

func (n *Ramp) releaseChildren() {
	n.start.Release()
	n.stride.Release()
}

// CallType says what a Call refers to.
type CallType uint8

const (
	// CallImage reads an input image.
	CallImage CallType = iota
	// CallExtern invokes an external C function.
	CallExtern
	// CallHalide refers to another Halide function of the pipeline.
	CallHalide
)

func (c CallType) String() string {
	switch c {
	case CallImage:
		return "image"
	case CallExtern:
		return "extern"
	case CallHalide:
		return "halide"
	default:
		return "CallType(" + strconv.Itoa(int(c)) + ")"
	}
}

// Call invokes an image, extern function or Halide function.
type Call struct {
	exprBase
	typ      Type
	name     string
	args     []Expr
	callType CallType
}

// NewCall builds a call. Every argument must be defined; args is copied.
func NewCall(t Type, name string, args []Expr, callType CallType) Expr {
	requireExpr(KindCall, args...)
	return wrapExpr(&Call{typ: t, name: name, args: retainAll(args), callType: callType})
}

// Type returns the result type of the call.
func (n *Call) Type() Type { return n.typ }

// Name is the image, extern or function being called.
func (n *Call) Name() string { return n.name }

// Args returns a copy of the argument list.
func (n *Call) Args() []Expr       { return slices.Clone(n.args) }
func (n *Call) NumArgs() int       { return len(n.args) }
func (n *Call) Arg(i int) Expr     { return n.args[i] }
func (n *Call) CallType() CallType { return n.callType }
func (*Call) Kind() NodeKind       { return KindCall }
func (n *Call) Accept(v Visitor)   { v.VisitCall(n) }
func (n *Call) releaseChildren()   { releaseAll(n.args) }

// Let binds name to value within the expression body.
type Let struct {
	exprBase
	name        string
	value, body Expr
}

// NewLet binds name to value while evaluating body.
func NewLet(name string, value, body Expr) Expr {
	requireExpr(KindLet, value, body)
	return wrapExpr(&Let{name: name, value: value.Retain(), body: body.Retain()})
}

// Name returns the bound variable.
func (n *Let) Name() string     { return n.name }
func (n *Let) Value() Expr      { return n.value }
func (n *Let) Body() Expr       { return n.body }
func (*Let) Kind() NodeKind     { return KindLet }
func (n *Let) Accept(v Visitor) { v.VisitLet(n) }

func (n *Let) releaseChildren() {
	n.value.Release()
	n.body.Release()
}

func retainAll(es []Expr) []Expr {
	if len(es) == 0 {
		return nil
	}
	out := make([]Expr, len(es))
	for i, e := range es {
		out[i] = e.Retain()
	}
	return out
}

func releaseAll(es []Expr) {
	for i := range es {
		es[i].Release()
	}
}
