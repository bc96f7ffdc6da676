package ir

import "sync/atomic"

// Node is implemented by every concrete node kind. The interface is sealed:
// only types in this package satisfy it.
type Node interface {
	// Kind returns the concrete kind of the node.
	Kind() NodeKind
	// Accept calls the Visitor method for the node's concrete kind.
	Accept(v Visitor)

	base() *header
	releaseChildren()
}

// ExprNode is the closed family of nodes that produce a value.
type ExprNode interface {
	Node
	exprNode()
}

// StmtNode is the closed family of nodes that produce an effect.
type StmtNode interface {
	Node
	stmtNode()
}

// header is embedded in every node. refs is the only state that changes
// after construction.
type header struct {
	refs     atomic.Int32
	released atomic.Bool
}

func (h *header) base() *header { return h }

type exprBase struct{ header }

func (*exprBase) exprNode() {}

type stmtBase struct{ header }

func (*stmtBase) stmtNode() {}

// Stats is a snapshot of node accounting for the whole process.
type Stats struct {
	Created  int64 // nodes ever constructed
	Released int64 // nodes whose count reached zero
	Live     int64 // Created - Released
}

var nodeStats struct {
	created  atomic.Int64
	released atomic.Int64
}

// ReadStats returns the current node accounting.
func ReadStats() Stats {
	c := nodeStats.created.Load()
	r := nodeStats.released.Load()
	return Stats{Created: c, Released: r, Live: c - r}
}

func retain(n Node) {
	h := n.base()
	if h.released.Load() {
		violate(ViolationReleased, n.Kind(), "retain of released "+n.Kind().String())
	}
	h.refs.Add(1)
}

func release(n Node) {
	h := n.base()
	c := h.refs.Add(-1)
	switch {
	case c > 0:
		return
	case c < 0 || !h.released.CompareAndSwap(false, true):
		violate(ViolationReleased, n.Kind(), "double release of "+n.Kind().String())
	}
	nodeStats.released.Add(1)
	n.releaseChildren()
}

func checkLive(kind NodeKind, n Node) {
	if n != nil && n.base().released.Load() {
		violate(ViolationReleased, kind, kind.String()+" of released "+n.Kind().String())
	}
}
