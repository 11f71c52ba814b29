package heap

// Heap is the process-wide managed store: one HeapVector per
// heap-allocated kind (§3.2), plus the root tables package gc's mark
// phase starts from (§4.4's Global roots and the per-realm/per-scope
// Scoped roots live in packages gcscope/realm; Heap only owns the
// storage, not the rooting discipline).
type Heap struct {
	Strings                HeapVector[HeapStringData]
	Numbers                HeapVector[HeapNumberData]
	BigInts                HeapVector[HeapBigIntData]
	Symbols                HeapVector[SymbolData]
	Objects                HeapVector[ObjectData]
	Arrays                 HeapVector[ArrayData]
	ArrayBuffers           HeapVector[ArrayBufferData]
	DataViews              HeapVector[DataViewData]
	TypedArrays            HeapVector[TypedArrayData]
	Maps                   HeapVector[MapData]
	Sets                   HeapVector[SetData]
	WeakMaps               HeapVector[WeakMapData]
	WeakSets               HeapVector[WeakSetData]
	WeakRefs               HeapVector[WeakRefData]
	FinalizationRegistries HeapVector[FinalizationRegistryData]
	Promises               HeapVector[PromiseData]
	Dates                  HeapVector[DateData]
	RegExps                HeapVector[RegExpData]
	Errors                 HeapVector[ErrorData]
	PrimitiveObjects       HeapVector[PrimitiveObjectData]
	BuiltinFunctions       HeapVector[BuiltinFunctionData]
	ECMAScriptFunctions    HeapVector[ECMAScriptFunctionData]
	BoundFunctions         HeapVector[BoundFunctionData]
	Proxies                HeapVector[ProxyData]
	Modules                HeapVector[ModuleData]

	Shapes       HeapVector[ShapeData]
	Environments HeapVector[EnvironmentData]

	shapeTransitions ShapeTransitions

	// roots holds every Global-kind root (§4.4): intrinsics, well-known
	// symbols, and anything a host explicitly promotes out of
	// scope-bound rooting. See roots.go.
	roots globalRoots

	// generation increments every time a collection cycle completes and
	// compacts the heap. package gcscope stamps every Bound handle with
	// the generation its scope was last stamped with, so reading a Bound
	// after its scope has been reborrowed past a collection panics instead
	// of silently reading a rewritten or tombstoned slot (§4.4). Scoped
	// and Global handles carry no generation; the collector rewrites them.
	generation uint64
}

// NewHeap constructs an empty Heap.
func NewHeap() *Heap {
	return &Heap{}
}

// Generation returns the current GC generation counter.
func (h *Heap) Generation() uint64 { return h.generation }

// AdvanceGeneration increments the generation counter. Called exactly
// once per completed collection cycle, by package gc.
func (h *Heap) AdvanceGeneration() { h.generation++ }

// NewString allocates s on the heap if it does not fit inline, returning
// the smallest lossless Value (§3.1's "strings ≤7 bytes need no heap
// allocation").
func (h *Heap) NewString(s string) Value {
	if len(s) <= 7 {
		return FromSmallString(s)
	}
	idx := h.Strings.Create(HeapStringData{Data: s})

	return Value{tag: TagHeapString, bits: uint64(idx.Raw())}
}

// StringValue returns the string content of any string-tagged Value.
func (h *Heap) StringValue(v Value) string {
	switch v.Tag() {
	case TagSmallString:
		return v.SmallStringValue()
	case TagHeapString:
		return h.Strings.Get(NewIndex[HeapStringData](v.HeapIndex())).Data
	default:
		panic("heap: StringValue called on a non-string Value (" + v.Tag().String() + ")")
	}
}

// NewNumber allocates f on the heap if it cannot be represented inline.
func (h *Heap) NewNumber(f float64) Value {
	return FromFloat64WithHeap(f, func(f float64) Value {
		idx := h.Numbers.Create(HeapNumberData{Data: f})

		return Value{tag: TagHeapNumber, bits: uint64(idx.Raw())}
	})
}

// AsFloat64 widens any Number-tagged Value to float64, heap-aware.
func (h *Heap) AsFloat64(v Value) float64 {
	switch v.Tag() {
	case TagSmallInteger, TagSmallFloat:
		return v.AsFloat64Inline()
	case TagHeapNumber:
		return h.Numbers.Get(NewIndex[HeapNumberData](v.HeapIndex())).Data
	default:
		panic("heap: AsFloat64 called on a non-Number Value (" + v.Tag().String() + ")")
	}
}

// NewSymbol allocates a new Symbol with the given optional description.
func (h *Heap) NewSymbol(description Option[Value], uuid [16]byte) Value {
	idx := h.Symbols.Create(SymbolData{Description: description, UUID: uuid})

	return Value{tag: TagSymbol, bits: uint64(idx.Raw())}
}

// NewObject allocates a new OrdinaryObject with the given prototype
// (Undefined/Null for none).
func (h *Heap) NewObject(prototype Value) Value {
	idx := h.Objects.Create(ObjectData{Extensible: true, Prototype: prototype})

	return Value{tag: TagOrdinaryObject, bits: uint64(idx.Raw())}
}

// Object returns a pointer to the ObjectData backing an OrdinaryObject
// Value.
func (h *Heap) Object(v Value) *ObjectData {
	if v.Tag() != TagOrdinaryObject {
		panic("heap: Object called on a non-OrdinaryObject Value (" + v.Tag().String() + ")")
	}

	return h.Objects.Get(NewIndex[ObjectData](v.HeapIndex()))
}

// NewArray allocates a new Array with the given elements.
func (h *Heap) NewArray(prototype Value, elements []Value) Value {
	idx := h.Arrays.Create(ArrayData{
		Object:   ObjectData{Extensible: true, Prototype: prototype},
		Elements: elements,
	})

	return Value{tag: TagArray, bits: uint64(idx.Raw())}
}

// Array returns a pointer to the ArrayData backing an Array Value.
func (h *Heap) Array(v Value) *ArrayData {
	if v.Tag() != TagArray {
		panic("heap: Array called on a non-Array Value (" + v.Tag().String() + ")")
	}

	return h.Arrays.Get(NewIndex[ArrayData](v.HeapIndex()))
}

// NewError allocates an Error object of the given kind.
func (h *Heap) NewError(prototype Value, kind ErrorKind, message string) Value {
	idx := h.Errors.Create(ErrorData{
		Object:  ObjectData{Extensible: true, Prototype: prototype},
		Kind:    kind,
		Message: message,
	})

	return Value{tag: TagError, bits: uint64(idx.Raw())}
}

// Error returns a pointer to the ErrorData backing an Error Value.
func (h *Heap) Error(v Value) *ErrorData {
	if v.Tag() != TagError {
		panic("heap: Error called on a non-Error Value (" + v.Tag().String() + ")")
	}

	return h.Errors.Get(NewIndex[ErrorData](v.HeapIndex()))
}

// NewBuiltinFunction allocates a function whose behavior is implemented
// in Go, looked up later by Key (package eval owns the registry; see
// BuiltinFunctionData's doc comment for why a string key is used instead
// of a stored Go func value).
func (h *Heap) NewBuiltinFunction(prototype Value, name string, length int, key string) Value {
	idx := h.BuiltinFunctions.Create(BuiltinFunctionData{
		Object: ObjectData{Extensible: true, Prototype: prototype},
		Name:   name,
		Length: length,
		Key:    key,
	})

	return Value{tag: TagBuiltinFunction, bits: uint64(idx.Raw())}
}

// BuiltinFunction returns a pointer to the BuiltinFunctionData backing a
// BuiltinFunction Value.
func (h *Heap) BuiltinFunction(v Value) *BuiltinFunctionData {
	if v.Tag() != TagBuiltinFunction {
		panic("heap: BuiltinFunction called on a non-BuiltinFunction Value (" + v.Tag().String() + ")")
	}

	return h.BuiltinFunctions.Get(NewIndex[BuiltinFunctionData](v.HeapIndex()))
}

// NewECMAScriptFunction allocates a user-defined function closing over
// env. body is an opaque pointer into package eval's AST, carried as
// `any` per ECMAScriptFunctionData's doc comment.
func (h *Heap) NewECMAScriptFunction(prototype Value, name string, paramNames []string, body any, env Index[EnvironmentData], strict bool) Value {
	idx := h.ECMAScriptFunctions.Create(ECMAScriptFunctionData{
		Object:      ObjectData{Extensible: true, Prototype: prototype},
		Name:        name,
		ParamNames:  paramNames,
		Body:        body,
		Environment: env,
		Strict:      strict,
	})

	return Value{tag: TagECMAScriptFunction, bits: uint64(idx.Raw())}
}

// ECMAScriptFunction returns a pointer to the ECMAScriptFunctionData
// backing an ECMAScriptFunction Value.
func (h *Heap) ECMAScriptFunction(v Value) *ECMAScriptFunctionData {
	if v.Tag() != TagECMAScriptFunction {
		panic("heap: ECMAScriptFunction called on a non-ECMAScriptFunction Value (" + v.Tag().String() + ")")
	}

	return h.ECMAScriptFunctions.Get(NewIndex[ECMAScriptFunctionData](v.HeapIndex()))
}

// NewBoundFunction allocates a Function.prototype.bind() result.
func (h *Heap) NewBoundFunction(prototype, target, boundThis Value, boundArgs []Value) Value {
	idx := h.BoundFunctions.Create(BoundFunctionData{
		Object:    ObjectData{Extensible: true, Prototype: prototype},
		Target:    target,
		BoundThis: boundThis,
		BoundArgs: boundArgs,
	})

	return Value{tag: TagBoundFunction, bits: uint64(idx.Raw())}
}

// BoundFunction returns a pointer to the BoundFunctionData backing a
// BoundFunction Value.
func (h *Heap) BoundFunction(v Value) *BoundFunctionData {
	if v.Tag() != TagBoundFunction {
		panic("heap: BoundFunction called on a non-BoundFunction Value (" + v.Tag().String() + ")")
	}

	return h.BoundFunctions.Get(NewIndex[BoundFunctionData](v.HeapIndex()))
}

// NewProxy allocates a Proxy wrapping target through handler (§8 scenario
// 3). A Proxy has no [[Prototype]] of its own distinct from its target's
// traps, so Object is left at its zero value (non-extensible, no own
// properties) — every operation on a Proxy Value is expected to route
// through the handler's traps instead of the ordinary property path.
func (h *Heap) NewProxy(target, handler Value) Value {
	idx := h.Proxies.Create(ProxyData{Target: target, Handler: handler})

	return Value{tag: TagProxy, bits: uint64(idx.Raw())}
}

// Proxy returns a pointer to the ProxyData backing a Proxy Value.
func (h *Heap) Proxy(v Value) *ProxyData {
	if v.Tag() != TagProxy {
		panic("heap: Proxy called on a non-Proxy Value (" + v.Tag().String() + ")")
	}

	return h.Proxies.Get(NewIndex[ProxyData](v.HeapIndex()))
}

// NewWeakRef allocates a WeakRef over target (§8 scenario 4). target is
// not marked by WeakRefData.MarkValues, so it survives collection only if
// something else roots it; package gc's finalizer phase clears Target to
// Undefined once the referent does not survive a cycle's mark phase.
func (h *Heap) NewWeakRef(target Value) Value {
	idx := h.WeakRefs.Create(WeakRefData{Target: target})

	return Value{tag: TagWeakRef, bits: uint64(idx.Raw())}
}

// WeakRef returns a pointer to the WeakRefData backing a WeakRef Value.
func (h *Heap) WeakRef(v Value) *WeakRefData {
	if v.Tag() != TagWeakRef {
		panic("heap: WeakRef called on a non-WeakRef Value (" + v.Tag().String() + ")")
	}

	return h.WeakRefs.Get(NewIndex[WeakRefData](v.HeapIndex()))
}

// objectDataOf returns a pointer to the embedded ObjectData for any
// object-tagged Value, used by package object's property algorithms so
// they do not need a type switch over every exotic kind to reach the
// common [[Prototype]]/[[Extensible]]/element-vector fields.
func (h *Heap) objectDataOf(v Value) *ObjectData {
	switch v.Tag() {
	case TagOrdinaryObject:
		return h.Objects.Get(NewIndex[ObjectData](v.HeapIndex()))
	case TagArray:
		return &h.Arrays.Get(NewIndex[ArrayData](v.HeapIndex())).Object
	case TagMap:
		return &h.Maps.Get(NewIndex[MapData](v.HeapIndex())).Object
	case TagSet:
		return &h.Sets.Get(NewIndex[SetData](v.HeapIndex())).Object
	case TagWeakMap:
		return &h.WeakMaps.Get(NewIndex[WeakMapData](v.HeapIndex())).Object
	case TagWeakSet:
		return &h.WeakSets.Get(NewIndex[WeakSetData](v.HeapIndex())).Object
	case TagFinalizationRegistry:
		return &h.FinalizationRegistries.Get(NewIndex[FinalizationRegistryData](v.HeapIndex())).Object
	case TagPromise:
		return &h.Promises.Get(NewIndex[PromiseData](v.HeapIndex())).Object
	case TagDate:
		return &h.Dates.Get(NewIndex[DateData](v.HeapIndex())).Object
	case TagRegExp:
		return &h.RegExps.Get(NewIndex[RegExpData](v.HeapIndex())).Object
	case TagError:
		return &h.Errors.Get(NewIndex[ErrorData](v.HeapIndex())).Object
	case TagPrimitiveObject:
		return &h.PrimitiveObjects.Get(NewIndex[PrimitiveObjectData](v.HeapIndex())).Object
	case TagBuiltinFunction:
		return &h.BuiltinFunctions.Get(NewIndex[BuiltinFunctionData](v.HeapIndex())).Object
	case TagECMAScriptFunction:
		return &h.ECMAScriptFunctions.Get(NewIndex[ECMAScriptFunctionData](v.HeapIndex())).Object
	case TagBoundFunction:
		return &h.BoundFunctions.Get(NewIndex[BoundFunctionData](v.HeapIndex())).Object
	case TagProxy:
		return &h.Proxies.Get(NewIndex[ProxyData](v.HeapIndex())).Object
	default:
		panic("heap: objectDataOf called on a non-object Value (" + v.Tag().String() + ")")
	}
}

// ObjectData exposes objectDataOf to package object, which implements
// property-access behavior over whichever exotic kind v names.
func (h *Heap) ObjectData(v Value) *ObjectData { return h.objectDataOf(v) }

// Prototype returns v's [[Prototype]] (Undefined/Null for none).
func (h *Heap) Prototype(v Value) Value { return h.objectDataOf(v).Prototype }

// SetPrototype overwrites v's [[Prototype]].
func (h *Heap) SetPrototype(v, prototype Value) { h.objectDataOf(v).Prototype = prototype }

// StrictEquals implements ECMAScript's strict-equality algorithm,
// dispatching to the heap for the cases StrictEqualsInline cannot handle
// alone (heap-string content equality, cross-representation number
// equality never arises since numbers are always canonicalized — see
// isCanonicalSmallInteger — so this only adds string, heap-number and
// bigint content comparison).
func (h *Heap) StrictEquals(a, b Value) bool {
	if a.Tag() != b.Tag() {
		return false
	}
	switch a.Tag() {
	case TagHeapString:
		return h.StringValue(a) == h.StringValue(b)
	case TagHeapNumber:
		x, y := h.AsFloat64(a), h.AsFloat64(b)

		return x == y
	case TagHeapBigInt:
		ba, bb := h.BigInts.Get(NewIndex[HeapBigIntData](a.HeapIndex())), h.BigInts.Get(NewIndex[HeapBigIntData](b.HeapIndex()))

		return ba.Negative == bb.Negative && equalMagnitude(ba.Magnitude, bb.Magnitude)
	default:
		return a.StrictEqualsInline(b)
	}
}

func equalMagnitude(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// SameValueZero implements ECMAScript SameValueZero (used by Map/Set key
// comparison and includes()): StrictEquals except NaN equals NaN.
func (h *Heap) SameValueZero(a, b Value) bool {
	if a.Tag() == TagSmallFloat && b.Tag() == TagSmallFloat {
		fa, fb := a.AsSmallFloat(), b.AsSmallFloat()
		if fa != fa && fb != fb { // both NaN
			return true
		}
	}

	return h.StrictEquals(a, b)
}
