package irwire

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/frmsvrt/Halide/internal/ir"
	"github.com/frmsvrt/Halide/internal/irwalk"
)

// Encode writes the tree rooted at root to w.
func Encode(w io.Writer, root ir.Stmt) error {
	p, err := Build(root)
	if err != nil {
		return err
	}
	enc := msgpack.NewEncoder(w)
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("irwire: encode: %w", err)
	}
	return nil
}

// Marshal returns the encoding of the tree rooted at root.
func Marshal(root ir.Stmt) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Build flattens the tree rooted at root into a payload without encoding
// it.
func Build(root ir.Stmt) (*Payload, error) {
	if !root.Defined() {
		return nil, fmt.Errorf("irwire: undefined root")
	}
	f := &flattener{index: make(map[ir.Node]uint32)}
	ref := f.add(root.Node())
	if f.err != nil {
		return nil, f.err
	}
	return &Payload{Schema: SchemaVersion, Nodes: f.nodes, Root: ref}, nil
}

type flattener struct {
	index map[ir.Node]uint32
	nodes []WireNode
	err   error
}

// add appends n after its children and returns its 1-based reference.
func (f *flattener) add(n ir.Node) uint32 {
	if ref, ok := f.index[n]; ok {
		return ref
	}
	var refs []uint32
	if p, ok := n.(*ir.Pipeline); ok {
		// keep the update slot even when empty so consume stays third
		refs = []uint32{f.add(p.Produce().Node()), 0, 0}
		if u, ok := p.Update(); ok {
			refs[1] = f.add(u.Node())
		}
		refs[2] = f.add(p.Consume().Node())
	} else {
		for _, c := range irwalk.Children(n) {
			refs = append(refs, f.add(c))
		}
	}

	wn := WireNode{Kind: uint8(n.Kind()), Refs: refs}
	f.fill(&wn, n)

	f.nodes = append(f.nodes, wn)
	ref := uint32(len(f.nodes))
	f.index[n] = ref
	return ref
}

func (f *flattener) fail(err error) {
	if f.err == nil {
		f.err = err
	}
}

func (f *flattener) typ(t ir.Type) WireType {
	bits, err := safecast.Conv[uint16](t.Bits)
	if err != nil {
		f.fail(fmt.Errorf("irwire: type %s: bits: %w", t, err))
	}
	lanes, err := safecast.Conv[uint16](t.Lanes)
	if err != nil {
		f.fail(fmt.Errorf("irwire: type %s: lanes: %w", t, err))
	}
	return WireType{Code: uint8(t.Code), Bits: bits, Lanes: lanes}
}

// fill copies the non-child attributes of n.
func (f *flattener) fill(wn *WireNode, n ir.Node) {
	switch n := n.(type) {
	case *ir.IntImm:
		wn.Int = n.Value()
	case *ir.FloatImm:
		wn.Float = math.Float32bits(n.Value())
	case *ir.Cast:
		wn.Type = f.typ(n.Type())
	case *ir.Var:
		wn.Type = f.typ(n.Type())
		wn.Name = n.Name()
	case *ir.Load:
		wn.Type = f.typ(n.Type())
		wn.Name = n.Buffer()
	case *ir.Ramp:
		w, err := safecast.Conv[int32](n.Width())
		if err != nil {
			f.fail(fmt.Errorf("irwire: ramp width: %w", err))
		}
		wn.Int = w
	case *ir.Call:
		wn.Type = f.typ(n.Type())
		wn.Name = n.Name()
		wn.Mode = uint8(n.CallType())
	case *ir.Let:
		wn.Name = n.Name()
	case *ir.LetStmt:
		wn.Name = n.Name()
	case *ir.PrintStmt:
		wn.Name = n.Prefix()
	case *ir.AssertStmt:
		wn.Name = n.Message()
	case *ir.Pipeline:
		wn.Name = n.Buffer()
	case *ir.For:
		wn.Name = n.Name()
		wn.Mode = uint8(n.ForType())
	case *ir.Store:
		wn.Name = n.Buffer()
	case *ir.Provide:
		wn.Name = n.Buffer()
	case *ir.Allocate:
		wn.Type = f.typ(n.Type())
		wn.Name = n.Buffer()
	case *ir.Realize:
		wn.Type = f.typ(n.Type())
		wn.Name = n.Buffer()
	}
}
