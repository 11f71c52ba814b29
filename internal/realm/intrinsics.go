package realm

import "github.com/conneroisu/esvm/internal/heap"

// Intrinsic enumerates the well-known objects every realm populates at
// initialization (§spec.md "Intrinsics table"). The table never shrinks:
// entries are filled once by eval.Bootstrap and read thereafter.
type Intrinsic int

const (
	ObjectPrototype Intrinsic = iota
	FunctionPrototype
	ArrayPrototype
	StringPrototype
	NumberPrototype
	BooleanPrototype
	BigIntPrototype
	SymbolPrototype
	ErrorPrototype
	TypeErrorPrototype
	RangeErrorPrototype
	ReferenceErrorPrototype
	SyntaxErrorPrototype
	EvalErrorPrototype
	URIErrorPrototype
	RegExpPrototype
	DatePrototype
	MapPrototype
	SetPrototype
	WeakMapPrototype
	WeakSetPrototype
	WeakRefPrototype
	PromisePrototype
	ArrayBufferPrototype
	DataViewPrototype
	TypedArrayPrototype
	IteratorPrototype
	GeneratorPrototype
	AsyncFunctionPrototype

	ObjectConstructor
	FunctionConstructor
	ArrayConstructor
	StringConstructor
	NumberConstructor
	BooleanConstructor
	BigIntConstructor
	SymbolConstructor
	ErrorConstructor
	TypeErrorConstructor
	RangeErrorConstructor
	ReferenceErrorConstructor
	SyntaxErrorConstructor
	EvalErrorConstructor
	URIErrorConstructor
	RegExpConstructor
	DateConstructor
	MapConstructor
	SetConstructor
	WeakMapConstructor
	WeakSetConstructor
	WeakRefConstructor
	PromiseConstructor
	ArrayBufferConstructor
	DataViewConstructor
	ProxyConstructor

	intrinsicCount
)

// IntrinsicTable holds one Value slot per Intrinsic, populated once by
// eval.Bootstrap and indexed thereafter by the well-known enum — never
// by name lookup.
type IntrinsicTable [intrinsicCount]heap.Value

// Get returns the Value installed at i. Reading an Intrinsic before
// eval.Bootstrap has populated it returns the zero Value (tagged Undefined).
func (t *IntrinsicTable) Get(i Intrinsic) heap.Value { return t[i] }

// Set installs v at i. Called only during realm initialization.
func (t *IntrinsicTable) Set(i Intrinsic, v heap.Value) { t[i] = v }

// Each calls fn once per populated (non-undefined) slot. eval.Bootstrap
// uses it to register every intrinsic as a heap global root, so the
// collector marks the intrinsics table as part of its root set.
func (t *IntrinsicTable) Each(fn func(heap.Value)) {
	for _, v := range t {
		if !v.IsUndefined() {
			fn(v)
		}
	}
}
