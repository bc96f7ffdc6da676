// Package irwire serializes Halide IR statement trees to a compact binary
// form based on MessagePack.
//
// Nodes are stored in a flat table in construction order: every child
// precedes its parents and is referenced by its 1-based position, 0 meaning
// "absent". A node shared by several parents is stored once, so decoding
// preserves sharing as well as structure.
package irwire

import "github.com/frmsvrt/Halide/internal/ir"

// SchemaVersion is bumped whenever the payload layout or the kind numbering
// changes. Decoding rejects any other version.
const SchemaVersion uint16 = 2

// Payload is the on-disk envelope.
type Payload struct {
	Schema uint16     `msgpack:"schema"`
	Nodes  []WireNode `msgpack:"nodes"`
	Root   uint32     `msgpack:"root"`
}

// WireNode is one entry of the node table. Fields irrelevant to Kind stay
// zero and are omitted from the encoding.
type WireNode struct {
	Kind  uint8    `msgpack:"k"`
	Int   int32    `msgpack:"i,omitempty"` // IntImm value, Ramp width
	Float uint32   `msgpack:"f,omitempty"` // FloatImm value as IEEE 754 bits
	Name  string   `msgpack:"n,omitempty"` // var, buffer, callee, print prefix or assert message
	Type  WireType `msgpack:"t,omitempty"`
	Mode  uint8    `msgpack:"m,omitempty"` // CallType or ForType
	Refs  []uint32 `msgpack:"r,omitempty"`
}

// WireType mirrors ir.Type with fixed-width fields.
type WireType struct {
	Code  uint8  `msgpack:"c"`
	Bits  uint16 `msgpack:"b"`
	Lanes uint16 `msgpack:"l"`
}

// IsZero lets omitempty drop the type of untyped nodes.
func (t WireType) IsZero() bool { return t == WireType{} }

func (t WireType) toIR() ir.Type {
	return ir.Type{Code: ir.TypeCode(t.Code), Bits: int(t.Bits), Lanes: int(t.Lanes)}
}
