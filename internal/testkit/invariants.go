// Package testkit holds checks shared by the IR package tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/frmsvrt/Halide/internal/ir"
	"github.com/frmsvrt/Halide/internal/irwalk"
)

// CheckOwnership verifies the reference counts of the tree rooted at root:
// the root is held by at least one handle, every reachable node is live,
// and every node is counted at least once per parent slot referencing it.
// Extra handles held by the caller are tolerated.
func CheckOwnership(root ir.Stmt) error {
	return check(root, false)
}

// CheckExclusive is CheckOwnership without the tolerance: the root count is
// 1 and every other count equals its number of parent slots.
func CheckExclusive(root ir.Stmt) error {
	return check(root, true)
}

func check(root ir.Stmt, exact bool) error {
	if !root.Defined() {
		return fmt.Errorf("undefined root")
	}
	slots, order := parentSlots(root.Node())
	slots[root.Node()] = 1

	for _, n := range order {
		got := refCount(n)
		if got <= 0 {
			return fmt.Errorf("%s reachable after release", n.Kind())
		}
		want, err := safecast.Conv[int32](slots[n])
		if err != nil {
			return fmt.Errorf("%s: parent count overflow: %w", n.Kind(), err)
		}
		if got < want || (exact && got != want) {
			return fmt.Errorf("%s has %d references, want %d", n.Kind(), got, want)
		}
	}
	return nil
}

// parentSlots counts, for every distinct node under root, the child slots
// that point at it. order lists the nodes in first-visit order.
func parentSlots(root ir.Node) (map[ir.Node]int, []ir.Node) {
	slots := map[ir.Node]int{root: 0}
	order := []ir.Node{root}
	for i := 0; i < len(order); i++ {
		for _, c := range irwalk.Children(order[i]) {
			if _, seen := slots[c]; !seen {
				order = append(order, c)
			}
			slots[c]++
		}
	}
	return slots, order
}

func refCount(n ir.Node) int32 {
	switch n := n.(type) {
	case ir.ExprNode:
		return ir.ExprOf(n).RefCount()
	case ir.StmtNode:
		return ir.StmtOf(n).RefCount()
	default:
		return 0
	}
}
