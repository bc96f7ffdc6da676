// Package irprint renders Halide IR as indented text.
package irprint

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/frmsvrt/Halide/internal/ir"
)

// Options configures printing.
type Options struct {
	// Color highlights keywords, buffer names and literals with ANSI codes.
	Color bool
	// Indent is the number of spaces per nesting level. Zero means 2.
	Indent int
}

// palette holds the colouring functions; with colour off they are plain
// Sprint.
type palette struct {
	keyword func(a ...interface{}) string
	buffer  func(a ...interface{}) string
	literal func(a ...interface{}) string
	name    func(a ...interface{}) string
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) func(a ...interface{}) string {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return palette{
		keyword: mk(color.FgMagenta, color.Bold),
		buffer:  mk(color.FgCyan),
		literal: mk(color.FgYellow),
		name:    mk(color.FgGreen),
	}
}

// Printer is an ir.Visitor that writes the nodes it visits. Expressions are
// written inline, statements one per line at the current depth.
type Printer struct {
	w      io.Writer
	err    error
	depth  int
	indent string
	pal    palette
}

// NewPrinter creates a printer writing to w.
func NewPrinter(w io.Writer, opts Options) *Printer {
	n := opts.Indent
	if n <= 0 {
		n = 2
	}
	return &Printer{w: w, indent: strings.Repeat(" ", n), pal: newPalette(opts.Color)}
}

// Err returns the first write error, if any.
func (p *Printer) Err() error { return p.err }

// Fprint writes the statement tree rooted at s to w.
func Fprint(w io.Writer, s ir.Stmt, opts Options) error {
	if !s.Defined() {
		return fmt.Errorf("irprint: undefined statement")
	}
	p := NewPrinter(w, opts)
	s.Accept(p)
	return p.Err()
}

// Expr renders e on one line without colour.
func Expr(e ir.Expr) string {
	if !e.Defined() {
		return "<undefined>"
	}
	var sb strings.Builder
	e.Accept(NewPrinter(&sb, Options{}))
	return sb.String()
}

// Stmt renders s without colour.
func Stmt(s ir.Stmt) string {
	if !s.Defined() {
		return "<undefined>"
	}
	var sb strings.Builder
	s.Accept(NewPrinter(&sb, Options{}))
	return sb.String()
}

func (p *Printer) print(a ...string) {
	if p.err != nil {
		return
	}
	for _, s := range a {
		if _, err := io.WriteString(p.w, s); err != nil {
			p.err = err
			return
		}
	}
}

func (p *Printer) line(a ...string) {
	p.print(strings.Repeat(p.indent, p.depth))
	p.print(a...)
}

func (p *Printer) expr(e ir.Expr) { e.Accept(p) }

func (p *Printer) exprList(es []ir.Expr) {
	for i, e := range es {
		if i > 0 {
			p.print(", ")
		}
		p.expr(e)
	}
}

func (p *Printer) nested(s ir.Stmt) {
	p.depth++
	s.Accept(p)
	p.depth--
}

func (p *Printer) binop(op string, a, b ir.Expr) {
	p.print("(")
	p.expr(a)
	p.print(" ", op, " ")
	p.expr(b)
	p.print(")")
}

func (p *Printer) call(name string, args ...ir.Expr) {
	p.print(name, "(")
	p.exprList(args)
	p.print(")")
}

func (p *Printer) VisitIntImm(n *ir.IntImm) {
	p.print(p.pal.literal(strconv.FormatInt(int64(n.Value()), 10)))
}

func (p *Printer) VisitFloatImm(n *ir.FloatImm) {
	p.print(p.pal.literal(strconv.FormatFloat(float64(n.Value()), 'g', -1, 32) + "f"))
}

func (p *Printer) VisitCast(n *ir.Cast) { p.call(n.Type().String(), n.Value()) }
func (p *Printer) VisitVar(n *ir.Var)   { p.print(p.pal.name(n.Name())) }
func (p *Printer) VisitAdd(n *ir.Add)   { p.binop("+", n.A(), n.B()) }
func (p *Printer) VisitSub(n *ir.Sub)   { p.binop("-", n.A(), n.B()) }
func (p *Printer) VisitMul(n *ir.Mul)   { p.binop("*", n.A(), n.B()) }
func (p *Printer) VisitDiv(n *ir.Div)   { p.binop("/", n.A(), n.B()) }
func (p *Printer) VisitMod(n *ir.Mod)   { p.binop("%", n.A(), n.B()) }
func (p *Printer) VisitMin(n *ir.Min)   { p.call("min", n.A(), n.B()) }
func (p *Printer) VisitMax(n *ir.Max)   { p.call("max", n.A(), n.B()) }
func (p *Printer) VisitEQ(n *ir.EQ)     { p.binop("==", n.A(), n.B()) }
func (p *Printer) VisitNE(n *ir.NE)     { p.binop("!=", n.A(), n.B()) }
func (p *Printer) VisitLT(n *ir.LT)     { p.binop("<", n.A(), n.B()) }
func (p *Printer) VisitLE(n *ir.LE)     { p.binop("<=", n.A(), n.B()) }
func (p *Printer) VisitGT(n *ir.GT)     { p.binop(">", n.A(), n.B()) }
func (p *Printer) VisitGE(n *ir.GE)     { p.binop(">=", n.A(), n.B()) }
func (p *Printer) VisitAnd(n *ir.And)   { p.binop("&&", n.A(), n.B()) }
func (p *Printer) VisitOr(n *ir.Or)     { p.binop("||", n.A(), n.B()) }

func (p *Printer) VisitNot(n *ir.Not) {
	p.print("!")
	p.expr(n.A())
}

func (p *Printer) VisitSelect(n *ir.Select) {
	p.call("select", n.Condition(), n.TrueValue(), n.FalseValue())
}

func (p *Printer) VisitLoad(n *ir.Load) {
	p.print(p.pal.buffer(n.Buffer()), "[")
	p.expr(n.Index())
	p.print("]")
}

func (p *Printer) VisitRamp(n *ir.Ramp) {
	p.print("ramp(")
	p.expr(n.Base())
	p.print(", ")
	p.expr(n.Stride())
	p.print(", ", p.pal.literal(strconv.Itoa(n.Width())), ")")
}

func (p *Printer) VisitCall(n *ir.Call) {
	name := n.Name()
	if n.CallType() == ir.CallImage {
		name = p.pal.buffer(name)
	}
	p.call(name, n.Args()...)
}

func (p *Printer) VisitLet(n *ir.Let) {
	p.print("(", p.pal.keyword("let"), " ", p.pal.name(n.Name()), " = ")
	p.expr(n.Value())
	p.print(" ", p.pal.keyword("in"), " ")
	p.expr(n.Body())
	p.print(")")
}

func (p *Printer) VisitLetStmt(n *ir.LetStmt) {
	p.line(p.pal.keyword("let"), " ", p.pal.name(n.Name()), " = ")
	p.expr(n.Value())
	p.print("\n")
	n.Body().Accept(p)
}

func (p *Printer) VisitPrintStmt(n *ir.PrintStmt) {
	p.line(p.pal.keyword("print"), "(", p.pal.literal(strconv.Quote(n.Prefix())))
	for _, a := range n.Args() {
		p.print(", ")
		p.expr(a)
	}
	p.print(")\n")
}

func (p *Printer) VisitAssertStmt(n *ir.AssertStmt) {
	p.line(p.pal.keyword("assert"), "(")
	p.expr(n.Condition())
	p.print(", ", p.pal.literal(strconv.Quote(n.Message())), ")\n")
}

func (p *Printer) section(keyword, buffer string, body ir.Stmt) {
	p.line(p.pal.keyword(keyword), " ", p.pal.buffer(buffer), " {\n")
	p.nested(body)
	p.line("}\n")
}

func (p *Printer) VisitPipeline(n *ir.Pipeline) {
	p.section("produce", n.Buffer(), n.Produce())
	if u, ok := n.Update(); ok {
		p.section("update", n.Buffer(), u)
	}
	p.section("consume", n.Buffer(), n.Consume())
}

func (p *Printer) VisitFor(n *ir.For) {
	kw := "for"
	if n.ForType() != ir.ForSerial {
		kw = n.ForType().String()
	}
	p.line(p.pal.keyword(kw), " (", p.pal.name(n.Name()), ", ")
	p.expr(n.Min())
	p.print(", ")
	p.expr(n.Extent())
	p.print(") {\n")
	p.nested(n.Body())
	p.line("}\n")
}

func (p *Printer) VisitStore(n *ir.Store) {
	p.line(p.pal.buffer(n.Buffer()), "[")
	p.expr(n.Index())
	p.print("] = ")
	p.expr(n.Value())
	p.print("\n")
}

func (p *Printer) VisitProvide(n *ir.Provide) {
	p.line(p.pal.buffer(n.Buffer()), "(")
	p.exprList(n.Args())
	p.print(") = ")
	p.expr(n.Value())
	p.print("\n")
}

func (p *Printer) VisitAllocate(n *ir.Allocate) {
	p.line(p.pal.keyword("allocate"), " ", p.pal.buffer(n.Buffer()), "[", n.Type().String(), " * ")
	p.expr(n.Size())
	p.print("]\n")
	n.Body().Accept(p)
	p.line(p.pal.keyword("free"), " ", p.pal.buffer(n.Buffer()), "\n")
}

func (p *Printer) VisitRealize(n *ir.Realize) {
	p.line(p.pal.keyword("realize"), " ", p.pal.buffer(n.Buffer()), "(")
	for i, b := range n.Bounds() {
		if i > 0 {
			p.print(", ")
		}
		p.print("[")
		p.expr(b.Min)
		p.print(", ")
		p.expr(b.Max)
		p.print("]")
	}
	p.print(") ", n.Type().String(), " {\n")
	p.nested(n.Body())
	p.line("}\n")
}

func (p *Printer) VisitBlock(n *ir.Block) {
	n.First().Accept(p)
	if rest, ok := n.Rest(); ok {
		rest.Accept(p)
	}
}

var _ ir.Visitor = (*Printer)(nil)
