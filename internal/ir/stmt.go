package ir

import (
	"slices"
	"strconv"
)

// LetStmt binds name to value within the statement body.
type LetStmt struct {
	stmtBase
	name  string
	value Expr
	body  Stmt
}

// NewLetStmt binds name to value while running body.
func NewLetStmt(name string, value Expr, body Stmt) Stmt {
	requireExpr(KindLetStmt, value)
	requireStmt(KindLetStmt, body)
	return wrapStmt(&LetStmt{name: name, value: value.Retain(), body: body.Retain()})
}

// Name returns the bound variable.
func (n *LetStmt) Name() string     { return n.name }
func (n *LetStmt) Value() Expr      { return n.value }
func (n *LetStmt) Body() Stmt       { return n.body }
func (*LetStmt) Kind() NodeKind     { return KindLetStmt }
func (n *LetStmt) Accept(v Visitor) { v.VisitLetStmt(n) }

func (n *LetStmt) releaseChildren() {
	n.value.Release()
	n.body.Release()
}

// PrintStmt emits a diagnostic line: the prefix followed by each argument.
type PrintStmt struct {
	stmtBase
	prefix string
	args   []Expr
}

// NewPrintStmt prints prefix followed by args. Every argument must be
// defined; args is copied.
func NewPrintStmt(prefix string, args []Expr) Stmt {
	requireExpr(KindPrintStmt, args...)
	return wrapStmt(&PrintStmt{prefix: prefix, args: retainAll(args)})
}

// Prefix is printed before the arguments.
func (n *PrintStmt) Prefix() string   { return n.prefix }
func (n *PrintStmt) Args() []Expr     { return slices.Clone(n.args) }
func (n *PrintStmt) NumArgs() int     { return len(n.args) }
func (n *PrintStmt) Arg(i int) Expr   { return n.args[i] }
func (*PrintStmt) Kind() NodeKind     { return KindPrintStmt }
func (n *PrintStmt) Accept(v Visitor) { v.VisitPrintStmt(n) }
func (n *PrintStmt) releaseChildren() { releaseAll(n.args) }

// AssertStmt checks condition in the generated program and fails with
// message when it does not hold. It has nothing to do with the IR's own
// contract checks.
type AssertStmt struct {
	stmtBase
	condition Expr
	message   string
}

// NewAssertStmt fails with message when condition is false.
func NewAssertStmt(condition Expr, message string) Stmt {
	requireExpr(KindAssertStmt, condition)
	return wrapStmt(&AssertStmt{condition: condition.Retain(), message: message})
}

// Condition must hold for execution to continue.
func (n *AssertStmt) Condition() Expr  { return n.condition }
func (n *AssertStmt) Message() string  { return n.message }
func (*AssertStmt) Kind() NodeKind     { return KindAssertStmt }
func (n *AssertStmt) Accept(v Visitor) { v.VisitAssertStmt(n) }
func (n *AssertStmt) releaseChildren() { n.condition.Release() }

// Pipeline describes the lifecycle of one buffer: produce fills it, the
// optional update mutates it in place, consume reads it.
type Pipeline struct {
	stmtBase
	buffer                   string
	produce, update, consume Stmt
}

// NewPipeline builds a pipeline stage. update may be the empty handle.
func NewPipeline(buffer string, produce, update, consume Stmt) Stmt {
	requireStmt(KindPipeline, produce, consume)
	checkLive(KindPipeline, update.node)
	return wrapStmt(&Pipeline{
		buffer:  buffer,
		produce: produce.Retain(),
		update:  update.Retain(),
		consume: consume.Retain(),
	})
}

// Buffer names the function this pipeline computes.
func (n *Pipeline) Buffer() string { return n.buffer }
func (n *Pipeline) Produce() Stmt  { return n.produce }

// Update returns the in-place update stage and whether there is one.
func (n *Pipeline) Update() (Stmt, bool) { return n.update, n.update.Defined() }

func (n *Pipeline) Consume() Stmt    { return n.consume }
func (*Pipeline) Kind() NodeKind     { return KindPipeline }
func (n *Pipeline) Accept(v Visitor) { v.VisitPipeline(n) }

func (n *Pipeline) releaseChildren() {
	n.produce.Release()
	n.update.Release()
	n.consume.Release()
}

// ForType selects how a loop is executed. All four produce the same result.
type ForType uint8

const (
	ForSerial ForType = iota
	ForParallel
	ForVectorized
	ForUnrolled
)

func (f ForType) String() string {
	switch f {
	case ForSerial:
		return "serial"
	case ForParallel:
		return "parallel"
	case ForVectorized:
		return "vectorized"
	case ForUnrolled:
		return "unrolled"
	default:
		return "ForType(" + strconv.Itoa(int(f)) + ")"
	}
}

// For runs body once for each value of name in [min, min+extent).
type For struct {
	stmtBase
	name        string
	min, extent Expr
	forType     ForType
	body        Stmt
}

// NewFor loops name over [min, min+extent) with the given schedule.
func NewFor(name string, min, extent Expr, forType ForType, body Stmt) Stmt {
	requireExpr(KindFor, min, extent)
	requireStmt(KindFor, body)
	return wrapStmt(&For{
		name:    name,
		min:     min.Retain(),
		extent:  extent.Retain(),
		forType: forType,
		body:    body.Retain(),
	})
}

// Name returns the loop variable.
func (n *For) Name() string     { return n.name }
func (n *For) Min() Expr        { return n.min }
func (n *For) Extent() Expr     { return n.extent }
func (n *For) ForType() ForType { return n.forType }
func (n *For) Body() Stmt       { return n.body }
func (*For) Kind() NodeKind     { return KindFor }
func (n *For) Accept(v Visitor) { v.VisitFor(n) }

func (n *For) releaseChildren() {
	n.min.Release()
	n.extent.Release()
	n.body.Release()
}

// Store writes value to a flat index of a named buffer.
type Store struct {
	stmtBase
	buffer       string
	value, index Expr
}

// NewStore writes value to buffer at index.
func NewStore(buffer string, value, index Expr) Stmt {
	requireExpr(KindStore, value, index)
	return wrapStmt(&Store{buffer: buffer, value: value.Retain(), index: index.Retain()})
}

// Buffer returns the written buffer.
func (n *Store) Buffer() string   { return n.buffer }
func (n *Store) Value() Expr      { return n.value }
func (n *Store) Index() Expr      { return n.index }
func (*Store) Kind() NodeKind     { return KindStore }
func (n *Store) Accept(v Visitor) { v.VisitStore(n) }

func (n *Store) releaseChildren() {
	n.value.Release()
	n.index.Release()
}

// Provide writes value to a multi-dimensional site of a named buffer.
type Provide struct {
	stmtBase
	buffer string
	value  Expr
	args   []Expr
}

// NewProvide writes value to the multi-dimensional site args of buffer.
// args is copied.
func NewProvide(buffer string, value Expr, args []Expr) Stmt {
	requireExpr(KindProvide, value)
	requireExpr(KindProvide, args...)
	return wrapStmt(&Provide{buffer: buffer, value: value.Retain(), args: retainAll(args)})
}

// Buffer returns the written function buffer.
func (n *Provide) Buffer() string   { return n.buffer }
func (n *Provide) Value() Expr      { return n.value }
func (n *Provide) Args() []Expr     { return slices.Clone(n.args) }
func (n *Provide) NumArgs() int     { return len(n.args) }
func (n *Provide) Arg(i int) Expr   { return n.args[i] }
func (*Provide) Kind() NodeKind     { return KindProvide }
func (n *Provide) Accept(v Visitor) { v.VisitProvide(n) }

func (n *Provide) releaseChildren() {
	n.value.Release()
	releaseAll(n.args)
}

// Allocate introduces a flat buffer of size elements scoped to body.
type Allocate struct {
	stmtBase
	buffer string
	typ    Type
	size   Expr
	body   Stmt
}

// NewAllocate makes size elements of type t available as buffer within
// body.
func NewAllocate(buffer string, t Type, size Expr, body Stmt) Stmt {
	requireExpr(KindAllocate, size)
	requireStmt(KindAllocate, body)
	return wrapStmt(&Allocate{buffer: buffer, typ: t, size: size.Retain(), body: body.Retain()})
}

// Buffer returns the name bound to the allocation.
func (n *Allocate) Buffer() string   { return n.buffer }
func (n *Allocate) Type() Type       { return n.typ }
func (n *Allocate) Size() Expr       { return n.size }
func (n *Allocate) Body() Stmt       { return n.body }
func (*Allocate) Kind() NodeKind     { return KindAllocate }
func (n *Allocate) Accept(v Visitor) { v.VisitAllocate(n) }

func (n *Allocate) releaseChildren() {
	n.size.Release()
	n.body.Release()
}

// Range is one dimension of a Realize region, Min and Max inclusive.
type Range struct {
	Min, Max Expr
}

// Realize introduces a multi-dimensional buffer over the region bounds,
// scoped to body.
type Realize struct {
	stmtBase
	buffer string
	typ    Type
	bounds []Range
	body   Stmt
}

// NewRealize builds a realization. Every bound's Min and Max must be
// defined; bounds is copied.
func NewRealize(buffer string, t Type, bounds []Range, body Stmt) Stmt {
	for _, r := range bounds {
		requireExpr(KindRealize, r.Min, r.Max)
	}
	requireStmt(KindRealize, body)
	owned := make([]Range, len(bounds))
	for i, r := range bounds {
		owned[i] = Range{Min: r.Min.Retain(), Max: r.Max.Retain()}
	}
	return wrapStmt(&Realize{buffer: buffer, typ: t, bounds: owned, body: body.Retain()})
}

// Buffer returns the realized function buffer.
func (n *Realize) Buffer() string { return n.buffer }
func (n *Realize) Type() Type     { return n.typ }

// Bounds returns a copy of the region, one Range per dimension.
func (n *Realize) Bounds() []Range   { return slices.Clone(n.bounds) }
func (n *Realize) Dims() int         { return len(n.bounds) }
func (n *Realize) Bound(i int) Range { return n.bounds[i] }
func (n *Realize) Body() Stmt        { return n.body }
func (*Realize) Kind() NodeKind      { return KindRealize }
func (n *Realize) Accept(v Visitor)  { v.VisitRealize(n) }

func (n *Realize) releaseChildren() {
	for i := range n.bounds {
		n.bounds[i].Min.Release()
		n.bounds[i].Max.Release()
	}
	n.body.Release()
}

// Block runs first, then rest if present.
type Block struct {
	stmtBase
	first, rest Stmt
}

// NewBlock builds a sequence. rest may be the empty handle, in which case
// first is the last statement of the sequence.
func NewBlock(first, rest Stmt) Stmt {
	requireStmt(KindBlock, first)
	checkLive(KindBlock, rest.node)
	return wrapStmt(&Block{first: first.Retain(), rest: rest.Retain()})
}

// Seq chains stmts into right-nested Blocks: Seq(a, b, c) is
// Block(a, Block(b, c)). A single statement is returned as a new reference
// to itself.
func Seq(stmts ...Stmt) Stmt {
	if len(stmts) == 0 {
		violate(ViolationUndefinedChild, KindBlock, "Block of undefined")
	}
	requireStmt(KindBlock, stmts...)
	rest := stmts[len(stmts)-1].Retain()
	for i := len(stmts) - 2; i >= 0; i-- {
		next := NewBlock(stmts[i], rest)
		rest.Release()
		rest = next
	}
	return rest
}

// First returns the statement run before Rest.
func (n *Block) First() Stmt { return n.first }

// Rest returns the continuation and whether there is one.
func (n *Block) Rest() (Stmt, bool) { return n.rest, n.rest.Defined() }

func (*Block) Kind() NodeKind     { return KindBlock }
func (n *Block) Accept(v Visitor) { v.VisitBlock(n) }

func (n *Block) releaseChildren() {
	n.first.Release()
	n.rest.Release()
}
