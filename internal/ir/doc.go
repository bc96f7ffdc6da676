// Package ir provides the intermediate representation for Halide pipelines.
//
// The IR is a DAG of immutable, typed expression nodes and statement nodes.
// Front ends build it bottom-up through the New* constructors; later passes
// consume it through the Visitor interface.
//
// # Ownership
//
// Nodes are shared through Expr and Stmt handles. Every node carries a
// reference count that starts at zero; the handle returned by a constructor
// holds the first reference. A parent node holds its own reference to each
// child, so a common sub-expression may appear under many parents without
// being copied.
//
//	a := ir.NewIntImm(1)
//	b := ir.NewIntImm(2)
//	sum := ir.NewAdd(a, b) // a and b now have two owners each
//	a.Release()
//	b.Release()
//	sum.Release() // releases Add, then a and b
//
// Plain Go assignment copies a handle without taking a reference. Use Retain
// to copy with ownership, Assign to rebind and Release to drop. Nodes never
// reference their parents, so the graph is acyclic by construction and
// reference counting reclaims every node.
//
// # Contract violations
//
// Constructors check their required children eagerly. A violation is a
// programming error in the caller and panics with *ContractViolation. Catch
// turns such a panic into an error for decoders and test harnesses.
//
// # Traversal
//
// Accept dispatches to the Visitor method matching the node's concrete kind.
// Nodes never traverse their own children; visitors recurse as they see fit.
// Node returns the sealed ExprNode or StmtNode for exhaustive type switches.
package ir
