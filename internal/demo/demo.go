// Package demo builds small, well-known Halide IR programs. They back the
// demo command and serve as fixtures for the passes.
package demo

import (
	"fmt"
	"sort"

	"github.com/frmsvrt/Halide/internal/ir"
)

// Program is a named IR builder. Build returns a fresh tree on every call;
// the caller owns the returned handle.
type Program struct {
	Name        string
	Description string
	Build       func() ir.Stmt
}

var programs = []Program{
	{Name: "add", Description: "print the sum of two literals", Build: Add},
	{Name: "loop", Description: "serial loop storing its index into buf", Build: Loop},
	{Name: "realize", Description: "realize a ten element buffer", Build: Realize},
	{Name: "blur", Description: "two stage separable 3x3 blur", Build: func() ir.Stmt { return Blur(64, 48) }},
}

// All returns every program sorted by name.
func All() []Program {
	out := append([]Program(nil), programs...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup finds a program by name.
func Lookup(name string) (Program, error) {
	for _, p := range programs {
		if p.Name == name {
			return p, nil
		}
	}
	return Program{}, fmt.Errorf("unknown demo program %q", name)
}

// arena owns the intermediate handles of a builder and drops them in one
// go once the root holds its own references.
type arena struct {
	exprs []ir.Expr
	stmts []ir.Stmt
}

func (a *arena) e(x ir.Expr) ir.Expr {
	a.exprs = append(a.exprs, x)
	return x
}

func (a *arena) s(x ir.Stmt) ir.Stmt {
	a.stmts = append(a.stmts, x)
	return x
}

func (a *arena) release() {
	for i := range a.exprs {
		a.exprs[i].Release()
	}
	for i := range a.stmts {
		a.stmts[i].Release()
	}
	a.exprs, a.stmts = nil, nil
}

// Add prints the sum 1 + 2.
func Add() ir.Stmt {
	var a arena
	defer a.release()
	sum := a.e(ir.NewAdd(a.e(ir.NewIntImm(1)), a.e(ir.NewIntImm(2))))
	return ir.NewPrintStmt("sum: ", []ir.Expr{sum})
}

// Loop is for (i, 0, 10) { buf[i] = i }.
func Loop() ir.Stmt {
	var a arena
	defer a.release()
	i := a.e(ir.NewVar(ir.Int(32), "i"))
	body := a.s(ir.NewStore("buf", i, i))
	return ir.NewFor("i", a.e(ir.NewIntImm(0)), a.e(ir.NewIntImm(10)), ir.ForSerial, body)
}

// Realize allocates buf over [0, 9] and fills it with twice the index.
func Realize() ir.Stmt {
	var a arena
	defer a.release()
	zero := a.e(ir.NewIntImm(0))
	x := a.e(ir.NewVar(ir.Int(32), "x"))
	twice := a.e(ir.NewMul(x, a.e(ir.NewIntImm(2))))
	fill := a.s(ir.NewFor("x", zero, a.e(ir.NewIntImm(10)), ir.ForSerial,
		a.s(ir.NewProvide("buf", twice, []ir.Expr{x}))))
	return ir.NewRealize("buf", ir.Int(32), []ir.Range{{Min: zero, Max: a.e(ir.NewIntImm(9))}}, fill)
}

// Blur is a separable 3x3 box blur over a width x height float image "in".
// blur_x is produced four lanes at a time inside a parallel row loop;
// blur_y reads it back through image calls and is checked and printed in
// the consume step. Literals are interned, so the tree shares its
// constants.
func Blur(width, height int32) ir.Stmt {
	var a arena
	defer a.release()
	lits := ir.NewInterner()
	defer lits.Reset()

	k := func(v int32) ir.Expr { return a.e(lits.Int(v)) }
	third := a.e(lits.Float(1.0 / 3))
	x := a.e(ir.NewVar(ir.Int(32), "x"))
	y := a.e(ir.NewVar(ir.Int(32), "y"))
	xo := a.e(ir.NewVar(ir.Int(32), "x.o"))

	// blur_x[y*width + x.o*4 ...] = (in[i-1] + in[i] + in[i+1]) / 3
	base := a.e(ir.NewAdd(a.e(ir.NewMul(y, k(width))), a.e(ir.NewMul(xo, k(4)))))
	tap := func(off int32) ir.Expr {
		start := base
		if off != 0 {
			start = a.e(ir.NewAdd(base, k(off)))
		}
		return a.e(ir.NewLoad(ir.Float(32, 4), "in", a.e(ir.NewRamp(start, k(1), 4))))
	}
	sumX := a.e(ir.NewAdd(a.e(ir.NewAdd(tap(-1), tap(0))), tap(1)))
	storeX := a.s(ir.NewStore("blur_x", a.e(ir.NewMul(sumX, third)), a.e(ir.NewRamp(base, k(1), 4))))
	produceX := a.s(ir.NewFor("y", k(0), k(height), ir.ForParallel,
		a.s(ir.NewFor("x.o", k(0), k(width/4), ir.ForSerial, storeX))))

	// blur_y(x, y) = (blur_x(x, y-1) + blur_x(x, y) + blur_x(x, y+1)) / 3
	sample := func(dy int32) ir.Expr {
		row := y
		if dy != 0 {
			row = a.e(ir.NewAdd(y, k(dy)))
		}
		return a.e(ir.NewCall(ir.Float(32), "blur_x", []ir.Expr{x, row}, ir.CallImage))
	}
	sumY := a.e(ir.NewAdd(a.e(ir.NewAdd(sample(-1), sample(0))), sample(1)))
	provideY := a.s(ir.NewProvide("blur_y", a.e(ir.NewMul(sumY, third)), []ir.Expr{x, y}))
	produceY := a.s(ir.NewFor("y", k(1), k(height-2), ir.ForParallel,
		a.s(ir.NewFor("x", k(0), k(width), ir.ForVectorized, provideY))))

	probe := a.e(ir.NewCall(ir.Float(32), "blur_y", []ir.Expr{k(0), k(1)}, ir.CallImage))
	consumeY := a.s(ir.Seq(
		a.s(ir.NewAssertStmt(a.e(ir.NewGE(probe, a.e(lits.Float(0)))), "blur_y must be non-negative")),
		a.s(ir.NewPrintStmt("blur_y(0, 1) = ", []ir.Expr{probe})),
	))

	bounds := []ir.Range{
		{Min: k(0), Max: k(width - 1)},
		{Min: k(0), Max: k(height - 1)},
	}
	realizeY := a.s(ir.NewRealize("blur_y", ir.Float(32), bounds,
		a.s(ir.NewPipeline("blur_y", produceY, ir.Stmt{}, consumeY))))
	pipeX := a.s(ir.NewPipeline("blur_x", produceX, ir.Stmt{}, realizeY))
	return ir.NewRealize("blur_x", ir.Float(32), bounds, pipeX)
}
