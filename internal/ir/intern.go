package ir

import (
	"math"
	"sync"
)

// Interner caches literal nodes by value so repeated constants share one
// node. It holds one reference per cached literal until Reset.
//
// Interning changes identity only: two interned IntImm(5) are SameAs, two
// IntImm(5) built with NewIntImm are not. An Interner is safe for
// concurrent use.
type Interner struct {
	mu     sync.Mutex
	ints   map[int32]Expr
	floats map[uint32]Expr // keyed by bit pattern so NaN payloads and -0 stay distinct
}

// NewInterner returns an empty literal cache.
func NewInterner() *Interner {
	return &Interner{
		ints:   make(map[int32]Expr, 64),
		floats: make(map[uint32]Expr, 16),
	}
}

// Int returns an owning handle to the cached IntImm for v.
func (in *Interner) Int(v int32) Expr {
	in.mu.Lock()
	defer in.mu.Unlock()
	e, ok := in.ints[v]
	if !ok {
		e = NewIntImm(v)
		in.ints[v] = e
	}
	return e.Retain()
}

// Float returns an owning handle to the cached FloatImm for v.
func (in *Interner) Float(v float32) Expr {
	key := math.Float32bits(v)
	in.mu.Lock()
	defer in.mu.Unlock()
	e, ok := in.floats[key]
	if !ok {
		e = NewFloatImm(v)
		in.floats[key] = e
	}
	return e.Retain()
}

// Len returns the number of cached literals.
func (in *Interner) Len() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.ints) + len(in.floats)
}

// Reset drops the cache's references. Literals still held elsewhere stay
// alive.
func (in *Interner) Reset() {
	in.mu.Lock()
	defer in.mu.Unlock()
	for k, e := range in.ints {
		e.Release()
		delete(in.ints, k)
	}
	for k, e := range in.floats {
		e.Release()
		delete(in.floats, k)
	}
}
