package heap

// Pseudo-tags used only to key Plans.byTag for heap-resident kinds that
// have no corresponding Value variant (Shape and Environment records are
// addressed by their own Index types, never boxed into a Value). They
// are chosen well above the real Tag range so they can never collide
// with one.
const (
	tagShapeInternal Tag = 200 + iota
	tagEnvironmentInternal
)

// ObjectData is the heap-resident payload shared by every "ordinary
// object and friends" kind (§3.3): extensibility, an optional prototype,
// and the parallel keys/values element vectors. Exotic kinds (Array, Map,
// Proxy, ...) embed ObjectData for the properties every object carries
// alongside their own kind-specific payload.
type ObjectData struct {
	Extensible bool
	// Prototype is Null (or Undefined) when there is no prototype
	// (spec.md's Option<ObjectRef> rendered as a restricted Value — see
	// doc.go); prototype walks stop at either.
	Prototype Value
	Keys      []PropertyKey
	Values    []PropertyDescriptor
	// Shape is the shared key-set descriptor for fast-path shaped
	// objects (§4.3); None means this object has been demoted to
	// dictionary mode and Keys/Values are authoritative on their own.
	Shape Option[Index[ShapeData]]
}

func (o ObjectData) MarkValues(q *MarkQueue) {
	q.Push(o.Prototype)
	for _, k := range o.Keys {
		k.markKey(q)
	}
	for _, d := range o.Values {
		d.markValues(q)
	}
}

func (o ObjectData) SweepValues(p *Plans) any {
	o.Prototype = p.RewriteValue(o.Prototype)
	for i, k := range o.Keys {
		o.Keys[i] = k.sweepKey(p)
	}
	for i, d := range o.Values {
		o.Values[i] = d.sweepValues(p)
	}
	if s, ok := o.Shape.Get(); ok {
		o.Shape = Some(RewriteIndex(p, tagShapeInternal, s))
	}

	return o
}

// ShapeData is a shared key-set descriptor: objects with an identical key
// set (added in the same order) point at the same Shape (§4.3, §9's
// "Shape" glossary entry). Adding a key forks a child Shape via Parent.
type ShapeData struct {
	Keys   []PropertyKey
	Parent Option[Index[ShapeData]]
}

func (s ShapeData) MarkValues(q *MarkQueue) {
	for _, k := range s.Keys {
		k.markKey(q)
	}
}

func (s ShapeData) SweepValues(p *Plans) any {
	for i, k := range s.Keys {
		s.Keys[i] = k.sweepKey(p)
	}
	if parent, ok := s.Parent.Get(); ok {
		s.Parent = Some(RewriteIndex(p, tagShapeInternal, parent))
	}

	return s
}

// ArrayData is the Array exotic object: an ObjectData plus the dense
// element vector (§3.1's Array variant). "length" is not stored; it is
// len(Elements).
type ArrayData struct {
	Object   ObjectData
	Elements []Value
}

func (a ArrayData) MarkValues(q *MarkQueue) {
	a.Object.MarkValues(q)
	for _, v := range a.Elements {
		q.Push(v)
	}
}

func (a ArrayData) SweepValues(p *Plans) any {
	a.Object = a.Object.SweepValues(p).(ObjectData)
	for i, v := range a.Elements {
		a.Elements[i] = p.RewriteValue(v)
	}

	return a
}

// HeapStringData backs a HeapString: any UTF-8 string too long to fit
// inline as a SmallString. Internally UTF-8; see package host/convert for
// the UTF-16-code-unit boundary ECMAScript observes externally.
type HeapStringData struct {
	Data string
}

func (h HeapStringData) MarkValues(*MarkQueue)     {}
func (h HeapStringData) SweepValues(*Plans) any    { return h }

// HeapNumberData backs a heap-allocated Number: any float64 whose bit
// pattern does not qualify for inline SmallFloat storage (§3.1).
type HeapNumberData struct {
	Data float64
}

func (h HeapNumberData) MarkValues(*MarkQueue)    {}
func (h HeapNumberData) SweepValues(*Plans) any   { return h }

// HeapBigIntData backs a BigInt outside the SmallBigInt range (§8: 2^55
// and above). Sign is tracked separately from Magnitude so a bigint whose
// magnitude happens to fit in a uint64 still prints correctly for
// negative values close to the SmallBigInt boundary.
type HeapBigIntData struct {
	Negative  bool
	Magnitude []uint32 // little-endian base-2^32 digits
}

func (h HeapBigIntData) MarkValues(*MarkQueue)   {}
func (h HeapBigIntData) SweepValues(*Plans) any  { return h }

// SymbolData backs a Symbol. Identity is the heap index itself (two
// Symbol Values are strict-equal iff they share an index), but a
// globally unique ID is also carried for hosts that need a
// serialization-stable handle across a GC cycle's index rewriting
// (§SPEC_FULL domain stack: grounded on google/uuid).
type SymbolData struct {
	Description Option[Value] // Undefined-or-absent vs a string description
	UUID        [16]byte
}

func (s SymbolData) MarkValues(q *MarkQueue) {
	if d, ok := s.Description.Get(); ok {
		q.Push(d)
	}
}

func (s SymbolData) SweepValues(p *Plans) any {
	if d, ok := s.Description.Get(); ok {
		s.Description = Some(p.RewriteValue(d))
	}

	return s
}

// ArrayBufferData backs an ArrayBuffer: a raw byte buffer plus a
// detached flag (detaching is the only exotic-object state transition
// ArrayBuffer needs for this core; Transfer/resizable buffers are
// stdlib-builtin concerns, out of scope per §1).
type ArrayBufferData struct {
	Bytes    []byte
	Detached bool
}

func (a ArrayBufferData) MarkValues(*MarkQueue)  {}
func (a ArrayBufferData) SweepValues(*Plans) any { return a }

// DataViewData is a typed window onto an ArrayBuffer.
type DataViewData struct {
	Buffer     Value
	ByteOffset int
	ByteLength int
}

func (d DataViewData) MarkValues(q *MarkQueue) { q.Push(d.Buffer) }
func (d DataViewData) SweepValues(p *Plans) any {
	d.Buffer = p.RewriteValue(d.Buffer)

	return d
}

// TypedArrayKind enumerates the element type of a TypedArray.
type TypedArrayKind byte

const (
	TypedArrayInt8 TypedArrayKind = iota
	TypedArrayUint8
	TypedArrayUint8Clamped
	TypedArrayInt16
	TypedArrayUint16
	TypedArrayInt32
	TypedArrayUint32
	TypedArrayFloat32
	TypedArrayFloat64
	TypedArrayBigInt64
	TypedArrayBigUint64
)

// TypedArrayData is a typed window onto an ArrayBuffer interpreted as a
// homogeneous element array.
type TypedArrayData struct {
	Buffer     Value
	ByteOffset int
	Length     int
	Kind       TypedArrayKind
}

func (t TypedArrayData) MarkValues(q *MarkQueue) { q.Push(t.Buffer) }
func (t TypedArrayData) SweepValues(p *Plans) any {
	t.Buffer = p.RewriteValue(t.Buffer)

	return t
}

// MapEntry is one key/value pair of a Map. Present tracks soft deletion
// so insertion order among remaining entries is preserved.
type MapEntry struct {
	Key     Value
	Value   Value
	Present bool
}

// MapData backs a Map.
type MapData struct {
	Object  ObjectData
	Entries []MapEntry
}

func (m MapData) MarkValues(q *MarkQueue) {
	m.Object.MarkValues(q)
	for _, e := range m.Entries {
		if e.Present {
			q.Push(e.Key)
			q.Push(e.Value)
		}
	}
}

func (m MapData) SweepValues(p *Plans) any {
	m.Object = m.Object.SweepValues(p).(ObjectData)
	for i, e := range m.Entries {
		if e.Present {
			e.Key = p.RewriteValue(e.Key)
			e.Value = p.RewriteValue(e.Value)
			m.Entries[i] = e
		}
	}

	return m
}

// SetEntry is one element of a Set.
type SetEntry struct {
	Value   Value
	Present bool
}

// SetData backs a Set.
type SetData struct {
	Object  ObjectData
	Entries []SetEntry
}

func (s SetData) MarkValues(q *MarkQueue) {
	s.Object.MarkValues(q)
	for _, e := range s.Entries {
		if e.Present {
			q.Push(e.Value)
		}
	}
}

func (s SetData) SweepValues(p *Plans) any {
	s.Object = s.Object.SweepValues(p).(ObjectData)
	for i, e := range s.Entries {
		if e.Present {
			e.Value = p.RewriteValue(e.Value)
			s.Entries[i] = e
		}
	}

	return s
}

// WeakMapEntry holds a weakly-referenced key: Key is never pushed onto
// the mark queue by WeakMapData.MarkValues, so it does not by itself keep
// the key's target reachable (§4.5 point 4). Package gc's finalizer phase
// is responsible for dropping entries whose key did not survive the
// ordinary mark phase and for then marking Value for entries whose key
// did survive.
type WeakMapEntry struct {
	Key     Value
	Value   Value
	Present bool
}

// WeakMapData backs a WeakMap.
type WeakMapData struct {
	Object  ObjectData
	Entries []WeakMapEntry
}

// MarkValues marks only the strongly-held ObjectData half; entry keys
// and values are resolved by package gc's weak pass, not here.
func (w WeakMapData) MarkValues(q *MarkQueue) { w.Object.MarkValues(q) }

func (w WeakMapData) SweepValues(p *Plans) any {
	w.Object = w.Object.SweepValues(p).(ObjectData)
	for i, e := range w.Entries {
		if e.Present {
			e.Key = p.RewriteValue(e.Key)
			e.Value = p.RewriteValue(e.Value)
			w.Entries[i] = e
		}
	}

	return w
}

// WeakSetData backs a WeakSet; elements are weak the same way WeakMap
// keys are.
type WeakSetData struct {
	Object   ObjectData
	Elements []Value
	Present  []bool
}

func (w WeakSetData) MarkValues(q *MarkQueue) { w.Object.MarkValues(q) }

func (w WeakSetData) SweepValues(p *Plans) any {
	w.Object = w.Object.SweepValues(p).(ObjectData)
	for i, v := range w.Elements {
		if w.Present[i] {
			w.Elements[i] = p.RewriteValue(v)
		}
	}

	return w
}

// WeakRefData backs a WeakRef. Target is weak: cleared to Undefined by
// package gc's finalizer phase if its referent did not survive the mark
// phase (§8 scenario 4: `new WeakRef({}); gc(); w.deref()` ⇒ undefined).
type WeakRefData struct {
	Target Value
}

func (w WeakRefData) MarkValues(*MarkQueue) {}
func (w WeakRefData) SweepValues(p *Plans) any {
	w.Target = p.RewriteValue(w.Target)

	return w
}

// FinalizationRegistration is one `registry.register(target, heldValue,
// unregisterToken)` call. Target and Token are weak; HeldValue is
// strongly held (it must still be available to the cleanup callback
// after the target is gone).
type FinalizationRegistration struct {
	Target      Value
	HeldValue   Value
	Token       Value
	HasToken    bool
	Unregistered bool
}

// FinalizationRegistryData backs a FinalizationRegistry.
type FinalizationRegistryData struct {
	Object        ObjectData
	CleanupCallback Value
	Registrations []FinalizationRegistration
}

func (f FinalizationRegistryData) MarkValues(q *MarkQueue) {
	f.Object.MarkValues(q)
	q.Push(f.CleanupCallback)
	for _, r := range f.Registrations {
		if !r.Unregistered {
			q.Push(r.HeldValue)
		}
	}
}

func (f FinalizationRegistryData) SweepValues(p *Plans) any {
	f.Object = f.Object.SweepValues(p).(ObjectData)
	f.CleanupCallback = p.RewriteValue(f.CleanupCallback)
	for i, r := range f.Registrations {
		if !r.Unregistered {
			r.Target = p.RewriteValue(r.Target)
			r.HeldValue = p.RewriteValue(r.HeldValue)
			r.Token = p.RewriteValue(r.Token)
			f.Registrations[i] = r
		}
	}

	return f
}

// PromiseReaction is one fulfillment/rejection handler attached via
// .then()/.catch().
type PromiseReaction struct {
	OnFulfilled Value
	OnRejected  Value
	ResultPromise Value
}

// PromiseState enumerates a Promise's three states.
type PromiseState byte

const (
	PromisePending PromiseState = iota
	PromiseFulfilled
	PromiseRejected
)

// PromiseData backs a Promise.
type PromiseData struct {
	Object    ObjectData
	State     PromiseState
	Result    Value
	Reactions []PromiseReaction
	Handled   bool
}

func (p PromiseData) MarkValues(q *MarkQueue) {
	p.Object.MarkValues(q)
	q.Push(p.Result)
	for _, r := range p.Reactions {
		q.Push(r.OnFulfilled)
		q.Push(r.OnRejected)
		q.Push(r.ResultPromise)
	}
}

func (p PromiseData) SweepValues(pl *Plans) any {
	p.Object = p.Object.SweepValues(pl).(ObjectData)
	p.Result = pl.RewriteValue(p.Result)
	for i, r := range p.Reactions {
		r.OnFulfilled = pl.RewriteValue(r.OnFulfilled)
		r.OnRejected = pl.RewriteValue(r.OnRejected)
		r.ResultPromise = pl.RewriteValue(r.ResultPromise)
		p.Reactions[i] = r
	}

	return p
}

// DateData backs a Date: milliseconds since the epoch, or NaN for an
// invalid date.
type DateData struct {
	Object    ObjectData
	TimeValue float64
}

func (d DateData) MarkValues(q *MarkQueue) { d.Object.MarkValues(q) }
func (d DateData) SweepValues(p *Plans) any {
	d.Object = d.Object.SweepValues(p).(ObjectData)

	return d
}

// RegExpData backs a RegExp.
type RegExpData struct {
	Object    ObjectData
	Source    string
	Flags     string
	LastIndex int
}

func (r RegExpData) MarkValues(q *MarkQueue) { r.Object.MarkValues(q) }
func (r RegExpData) SweepValues(p *Plans) any {
	r.Object = r.Object.SweepValues(p).(ObjectData)

	return r
}

// ErrorKind names the built-in error constructor an Error object was
// created with (§8 scenario 6: `instanceof TypeError`).
type ErrorKind byte

const (
	ErrorGeneric ErrorKind = iota
	ErrorType
	ErrorRange
	ErrorReference
	ErrorSyntax
	ErrorURI
	ErrorEval
)

// String names the error kind for message formatting (§7's
// `message`-concatenated-with-`name` rule).
func (k ErrorKind) String() string {
	switch k {
	case ErrorType:
		return "TypeError"
	case ErrorRange:
		return "RangeError"
	case ErrorReference:
		return "ReferenceError"
	case ErrorSyntax:
		return "SyntaxError"
	case ErrorURI:
		return "URIError"
	case ErrorEval:
		return "EvalError"
	default:
		return "Error"
	}
}

// ErrorData backs an Error object.
type ErrorData struct {
	Object  ObjectData
	Kind    ErrorKind
	Message string
	Stack   string
}

func (e ErrorData) MarkValues(q *MarkQueue) { e.Object.MarkValues(q) }
func (e ErrorData) SweepValues(p *Plans) any {
	e.Object = e.Object.SweepValues(p).(ObjectData)

	return e
}

// PrimitiveObjectData backs a boxed primitive (`new Number(1)`, `new
// String("x")`, ...).
type PrimitiveObjectData struct {
	Object    ObjectData
	Primitive Value
}

func (p PrimitiveObjectData) MarkValues(q *MarkQueue) {
	p.Object.MarkValues(q)
	q.Push(p.Primitive)
}

func (p PrimitiveObjectData) SweepValues(pl *Plans) any {
	p.Object = p.Object.SweepValues(pl).(ObjectData)
	p.Primitive = pl.RewriteValue(p.Primitive)

	return p
}

// BuiltinFunctionData backs a function implemented in Go. Key is an
// opaque registry key (package eval maps it to the actual Go
// implementation) rather than a Go func value, so BuiltinFunctionData
// stays a plain, copyable struct — Go closures cannot be compared or
// safely stored inside a struct the collector copies during compaction.
type BuiltinFunctionData struct {
	Object ObjectData
	Name   string
	Length int
	Key    string
}

func (b BuiltinFunctionData) MarkValues(q *MarkQueue) { b.Object.MarkValues(q) }
func (b BuiltinFunctionData) SweepValues(p *Plans) any {
	b.Object = b.Object.SweepValues(p).(ObjectData)

	return b
}

// ECMAScriptFunctionData backs a user-defined function. Body is an
// opaque pointer to the external AST/bytecode representation (package
// eval's statement list) — not itself heap-managed; it is an untyped
// interface{} pointing at an AST node owned outside the value system.
type ECMAScriptFunctionData struct {
	Object      ObjectData
	Name        string
	ParamNames  []string
	Body        any
	Environment Index[EnvironmentData]
	Strict      bool
}

func (e ECMAScriptFunctionData) MarkValues(q *MarkQueue) { e.Object.MarkValues(q) }
func (e ECMAScriptFunctionData) SweepValues(p *Plans) any {
	e.Object = e.Object.SweepValues(p).(ObjectData)
	e.Environment = RewriteIndex(p, tagEnvironmentInternal, e.Environment)

	return e
}

// BoundFunctionData backs a Function.prototype.bind() result.
type BoundFunctionData struct {
	Object    ObjectData
	Target    Value
	BoundThis Value
	BoundArgs []Value
}

func (b BoundFunctionData) MarkValues(q *MarkQueue) {
	b.Object.MarkValues(q)
	q.Push(b.Target)
	q.Push(b.BoundThis)
	for _, v := range b.BoundArgs {
		q.Push(v)
	}
}

func (b BoundFunctionData) SweepValues(p *Plans) any {
	b.Object = b.Object.SweepValues(p).(ObjectData)
	b.Target = p.RewriteValue(b.Target)
	b.BoundThis = p.RewriteValue(b.BoundThis)
	for i, v := range b.BoundArgs {
		b.BoundArgs[i] = p.RewriteValue(v)
	}

	return b
}

// ProxyData backs a Proxy (§8 scenario 3).
type ProxyData struct {
	Object  ObjectData
	Target  Value
	Handler Value
	Revoked bool
}

func (px ProxyData) MarkValues(q *MarkQueue) {
	px.Object.MarkValues(q)
	q.Push(px.Target)
	q.Push(px.Handler)
}

func (px ProxyData) SweepValues(p *Plans) any {
	px.Object = px.Object.SweepValues(p).(ObjectData)
	px.Target = p.RewriteValue(px.Target)
	px.Handler = p.RewriteValue(px.Handler)

	return px
}

// ModuleData backs a Module record.
type ModuleData struct {
	Specifier string
	Status    byte
	Namespace Value
}

func (m ModuleData) MarkValues(q *MarkQueue) { q.Push(m.Namespace) }
func (m ModuleData) SweepValues(p *Plans) any {
	m.Namespace = p.RewriteValue(m.Namespace)

	return m
}

// EnvironmentKind discriminates the environment record kinds ECMAScript
// defines (§4.6 expansion, grounded on original_source/nova_vm's
// environment records).
type EnvironmentKind byte

const (
	EnvironmentDeclarative EnvironmentKind = iota
	EnvironmentFunction
	EnvironmentGlobal
	EnvironmentObject
)

// Binding is one name's slot in a declarative environment record.
type Binding struct {
	Value       Value
	Mutable     bool
	Initialized bool
}

// EnvironmentData backs one lexical/variable/private environment record.
// It lives in the heap like any other kind because environments must
// survive compaction and be reachable from the execution-context stack
// (§4.6) — but it has no Value-tag, since "environment" is not itself an
// ECMAScript value.
type EnvironmentData struct {
	Kind     EnvironmentKind
	Outer    Option[Index[EnvironmentData]]
	Bindings map[string]Binding
	// ThisValue is set (with HasThis) by function environments and the
	// global environment.
	ThisValue    Value
	HasThis      bool
	BindingObj   Value // for EnvironmentObject: the backing object (e.g. `with`)
}

func (e EnvironmentData) MarkValues(q *MarkQueue) {
	for _, b := range e.Bindings {
		q.Push(b.Value)
	}
	if e.HasThis {
		q.Push(e.ThisValue)
	}
	q.Push(e.BindingObj)
}

func (e EnvironmentData) SweepValues(p *Plans) any {
	for k, b := range e.Bindings {
		b.Value = p.RewriteValue(b.Value)
		e.Bindings[k] = b
	}
	if e.HasThis {
		e.ThisValue = p.RewriteValue(e.ThisValue)
	}
	e.BindingObj = p.RewriteValue(e.BindingObj)
	if outer, ok := e.Outer.Get(); ok {
		e.Outer = Some(RewriteIndex(p, tagEnvironmentInternal, outer))
	}

	return e
}
