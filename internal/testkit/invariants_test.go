package testkit

import (
	"strings"
	"testing"

	"github.com/frmsvrt/Halide/internal/ir"
)

func TestCheckExclusive(t *testing.T) {
	x := ir.NewVar(ir.Int(32), "x")
	sq := ir.NewMul(x, x)
	st := ir.NewStore("out", sq, x)
	defer st.Release()

	if err := CheckOwnership(st); err != nil {
		t.Fatal(err)
	}
	if err := CheckExclusive(st); err == nil {
		t.Fatalf("outstanding handles to x and sq should fail the exclusive check")
	}

	x.Release()
	sq.Release()
	if err := CheckExclusive(st); err != nil {
		t.Fatal(err)
	}

	extra := st.Retain()
	err := CheckExclusive(st)
	extra.Release()
	if err == nil || !strings.Contains(err.Error(), "Store has 2 references, want 1") {
		t.Fatalf("err = %v", err)
	}
}

func TestCheckUndefined(t *testing.T) {
	if err := CheckOwnership(ir.Stmt{}); err == nil {
		t.Fatalf("expected error for an empty root")
	}
}
