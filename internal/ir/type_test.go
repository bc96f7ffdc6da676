package ir

import "testing"

func TestTypeFactoriesDefaultToScalar(t *testing.T) {
	tests := []struct {
		name string
		got  Type
		want Type
	}{
		{"int32", Int(32), Type{Code: TypeInt, Bits: 32, Lanes: 1}},
		{"uint8x16", UInt(8, 16), Type{Code: TypeUInt, Bits: 8, Lanes: 16}},
		{"float32x4", Float(32, 4), Type{Code: TypeFloat, Bits: 32, Lanes: 4}},
		{"bool", Bool(), Type{Code: TypeUInt, Bits: 1, Lanes: 1}},
		// no validation: nonsensical combinations are stored as given
		{"float1", Float(1), Type{Code: TypeFloat, Bits: 1, Lanes: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Fatalf("got %+v, want %+v", tt.got, tt.want)
			}
		})
	}
}

func TestTypeString(t *testing.T) {
	tests := map[string]Type{
		"int32":     Int(32),
		"uint8x16":  UInt(8, 16),
		"float64":   Float(64),
		"float32x8": Float(32, 8),
		"bool":      Bool(),
		"boolx4":    Bool(4),
	}
	for want, typ := range tests {
		if got := typ.String(); got != want {
			t.Errorf("String(%+v) = %q, want %q", typ, got, want)
		}
	}
}

func TestTypePredicates(t *testing.T) {
	v := Float(32, 4)
	if !v.IsVector() || v.IsScalar() || !v.IsFloat() {
		t.Fatalf("float32x4 predicates wrong: %+v", v)
	}
	if e := v.Element(); e != Float(32) {
		t.Fatalf("Element() = %v, want float32", e)
	}
	if w := Int(16).WithLanes(8); w != Int(16, 8) {
		t.Fatalf("WithLanes(8) = %v", w)
	}
	if !Bool().IsBool() || !Bool().IsUInt() || UInt(8).IsBool() {
		t.Fatalf("bool predicates wrong")
	}
	if Int(8).IsUInt() || !Int(8).IsInt() {
		t.Fatalf("int predicates wrong")
	}
}
