package ir

// Expr is a shared handle to an expression node. The zero value is the
// empty handle.
//
// An Expr obtained from a constructor, Retain or Assign owns one reference
// and must eventually be released. Handles read out of a node's accessors
// are borrowed: they stay valid while the parent is alive and must be
// retained before being stored elsewhere.
type Expr struct {
	node ExprNode
}

func wrapExpr(n ExprNode) Expr {
	nodeStats.created.Add(1)
	retain(n)
	return Expr{node: n}
}

// Defined reports whether the handle refers to a node.
func (e Expr) Defined() bool { return e.node != nil }

// SameAs reports whether both handles refer to the same node instance.
// Structurally equal nodes built separately are not the same.
func (e Expr) SameAs(other Expr) bool { return e.node == other.node }

// Kind returns the concrete kind, or KindInvalid for the empty handle.
func (e Expr) Kind() NodeKind {
	if e.node == nil {
		return KindInvalid
	}
	return e.node.Kind()
}

// Node returns the underlying node for exhaustive type switches, nil for
// the empty handle.
func (e Expr) Node() ExprNode { return e.node }

// Accept dispatches v to the node's concrete kind. Calling Accept on an
// empty handle is a contract violation.
func (e Expr) Accept(v Visitor) {
	if e.node == nil {
		violate(ViolationEmptyHandle, KindInvalid, "accept on undefined Expr")
	}
	checkLive(e.node.Kind(), e.node)
	e.node.Accept(v)
}

// Retain returns a new owning handle to the same node.
func (e Expr) Retain() Expr {
	if e.node != nil {
		retain(e.node)
	}
	return e
}

// Assign rebinds e to other's node, taking a reference to the new node
// before dropping the old one.
func (e *Expr) Assign(other Expr) {
	if other.node != nil {
		retain(other.node)
	}
	old := e.node
	e.node = other.node
	if old != nil {
		release(old)
	}
}

// Release drops the handle's reference and empties it. When the count
// reaches zero the node releases its own children.
func (e *Expr) Release() {
	if e.node == nil {
		return
	}
	n := e.node
	e.node = nil
	release(n)
}

// RefCount returns the current reference count of the node, 0 for the
// empty handle.
func (e Expr) RefCount() int32 {
	if e.node == nil {
		return 0
	}
	return e.node.base().refs.Load()
}

// Stmt is a shared handle to a statement node. It follows the same
// ownership rules as Expr.
type Stmt struct {
	node StmtNode
}

func wrapStmt(n StmtNode) Stmt {
	nodeStats.created.Add(1)
	retain(n)
	return Stmt{node: n}
}

// Defined reports whether the handle refers to a node.
func (s Stmt) Defined() bool { return s.node != nil }

// SameAs reports whether both handles refer to the same node instance.
func (s Stmt) SameAs(other Stmt) bool { return s.node == other.node }

// Kind returns the concrete kind, or KindInvalid for the empty handle.
func (s Stmt) Kind() NodeKind {
	if s.node == nil {
		return KindInvalid
	}
	return s.node.Kind()
}

// Node returns the underlying node, nil for the empty handle.
func (s Stmt) Node() StmtNode { return s.node }

// Accept dispatches v to the node's concrete kind. Calling Accept on an
// empty handle is a contract violation.
func (s Stmt) Accept(v Visitor) {
	if s.node == nil {
		violate(ViolationEmptyHandle, KindInvalid, "accept on undefined Stmt")
	}
	checkLive(s.node.Kind(), s.node)
	s.node.Accept(v)
}

// Retain returns a new owning handle to the same node.
func (s Stmt) Retain() Stmt {
	if s.node != nil {
		retain(s.node)
	}
	return s
}

// Assign rebinds s to other's node.
func (s *Stmt) Assign(other Stmt) {
	if other.node != nil {
		retain(other.node)
	}
	old := s.node
	s.node = other.node
	if old != nil {
		release(old)
	}
}

// Release drops the handle's reference and empties it.
func (s *Stmt) Release() {
	if s.node == nil {
		return
	}
	n := s.node
	s.node = nil
	release(n)
}

// RefCount returns the current reference count of the node.
func (s Stmt) RefCount() int32 {
	if s.node == nil {
		return 0
	}
	return s.node.base().refs.Load()
}

// ExprOf wraps a node obtained from a type switch or visitor back into a
// borrowed handle.
func ExprOf(n ExprNode) Expr { return Expr{node: n} }

// StmtOf wraps a statement node into a borrowed handle.
func StmtOf(n StmtNode) Stmt { return Stmt{node: n} }
