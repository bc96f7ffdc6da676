package ir

import "fmt"

// ViolationCode identifies a class of construction contract violation.
type ViolationCode int

// Stable codes - do not change values.
const (
	ViolationUndefinedChild ViolationCode = 1001 // IR1001: required child handle is empty
	ViolationRampWidth      ViolationCode = 1002 // IR1002: ramp width <= 0
	ViolationEmptyHandle    ViolationCode = 1003 // IR1003: empty handle dereferenced
	ViolationReleased       ViolationCode = 1004 // IR1004: node used or released after its last release
	ViolationLiteralRange   ViolationCode = 1005 // IR1005: literal does not fit its immediate
)

// String returns the code as "IR1001".
func (c ViolationCode) String() string {
	return fmt.Sprintf("IR%d", int(c))
}

// ContractViolation is the panic value raised when IR is built or handled
// in a way the ownership and construction contracts forbid. It is a caller
// bug, never a data-dependent condition.
type ContractViolation struct {
	Code    ViolationCode
	Node    NodeKind // kind being built or handled, KindInvalid if unknown
	Message string
}

// Error implements the error interface.
func (v *ContractViolation) Error() string {
	return fmt.Sprintf("ir contract violation %s: %s", v.Code, v.Message)
}

func violate(code ViolationCode, kind NodeKind, msg string) {
	panic(&ContractViolation{Code: code, Node: kind, Message: msg})
}

// Catch runs fn and converts a *ContractViolation panic into a returned
// error. Any other panic is propagated unchanged.
func Catch(fn func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if v, ok := r.(*ContractViolation); ok {
			err = v
			return
		}
		panic(r)
	}()
	fn()
	return nil
}

// requireExpr enforces the "X of undefined" invariant shared by every
// constructor.
func requireExpr(kind NodeKind, es ...Expr) {
	for _, e := range es {
		if !e.Defined() {
			violate(ViolationUndefinedChild, kind, kind.String()+" of undefined")
		}
		checkLive(kind, e.node)
	}
}

func requireStmt(kind NodeKind, ss ...Stmt) {
	for _, s := range ss {
		if !s.Defined() {
			violate(ViolationUndefinedChild, kind, kind.String()+" of undefined")
		}
		checkLive(kind, s.node)
	}
}
