package heap

import (
	"math"
	"strconv"
)

// Tag is the discriminant of a Value. Exactly one Tag variant is active at
// a time (§3.1's "exactly one variant is active").
type Tag byte

const (
	TagUndefined Tag = iota
	TagNull
	TagBoolean
	TagSmallInteger
	TagSmallFloat
	TagSmallString
	TagSmallBigInt

	// Heap-tagged variants from here down: the low 32 bits of Value.bits
	// hold the offset into the corresponding HeapVector.
	TagHeapString
	TagHeapNumber
	TagHeapBigInt
	TagSymbol
	TagOrdinaryObject
	TagArray
	TagArrayBuffer
	TagDataView
	TagTypedArray
	TagMap
	TagSet
	TagWeakMap
	TagWeakSet
	TagWeakRef
	TagFinalizationRegistry
	TagPromise
	TagDate
	TagRegExp
	TagError
	TagPrimitiveObject
	TagBuiltinFunction
	TagECMAScriptFunction
	TagBoundFunction
	TagProxy
	TagModule
)

// firstHeapTag is the first Tag that carries a heap index in Value.bits.
const firstHeapTag = TagHeapString

// IsHeapTag reports whether t names a heap-allocated variant.
func (t Tag) IsHeapTag() bool { return t >= firstHeapTag }

// String names the tag for diagnostics and panic messages.
func (t Tag) String() string {
	switch t {
	case TagUndefined:
		return "undefined"
	case TagNull:
		return "null"
	case TagBoolean:
		return "boolean"
	case TagSmallInteger:
		return "small-integer"
	case TagSmallFloat:
		return "small-float"
	case TagSmallString:
		return "small-string"
	case TagSmallBigInt:
		return "small-bigint"
	case TagHeapString:
		return "string"
	case TagHeapNumber:
		return "number"
	case TagHeapBigInt:
		return "bigint"
	case TagSymbol:
		return "symbol"
	case TagOrdinaryObject:
		return "object"
	case TagArray:
		return "array"
	case TagArrayBuffer:
		return "array-buffer"
	case TagDataView:
		return "data-view"
	case TagTypedArray:
		return "typed-array"
	case TagMap:
		return "map"
	case TagSet:
		return "set"
	case TagWeakMap:
		return "weak-map"
	case TagWeakSet:
		return "weak-set"
	case TagWeakRef:
		return "weak-ref"
	case TagFinalizationRegistry:
		return "finalization-registry"
	case TagPromise:
		return "promise"
	case TagDate:
		return "date"
	case TagRegExp:
		return "regexp"
	case TagError:
		return "error"
	case TagPrimitiveObject:
		return "primitive-object"
	case TagBuiltinFunction:
		return "builtin-function"
	case TagECMAScriptFunction:
		return "ecmascript-function"
	case TagBoundFunction:
		return "bound-function"
	case TagProxy:
		return "proxy"
	case TagModule:
		return "module"
	default:
		return "unknown"
	}
}

// IsObjectTag reports whether t is one of the object kinds listed in
// §3.1 — every kind a property lookup, [[Get]]/[[Set]], or a prototype
// chain link may legally name.
func (t Tag) IsObjectTag() bool {
	return t >= TagOrdinaryObject && t <= TagModule
}

// IsCallableTag reports whether t is a function-like object kind.
func (t Tag) IsCallableTag() bool {
	switch t {
	case TagBuiltinFunction, TagECMAScriptFunction, TagBoundFunction, TagProxy:
		return true
	default:
		return false
	}
}

// smallIntMax/smallIntMin are the ECMAScript "safe integer" bounds: the
// largest/smallest integers representable exactly as an IEEE-754 double.
const (
	smallIntMax = int64(1)<<53 - 1
	smallIntMin = -(int64(1)<<53 - 1)
)

// smallBigIntMax/smallBigIntMin are the bounds of a 56-bit signed integer
// (§3.1's "bounded 56-bit signed integer"; see the §8 boundary test for
// 2^55-1 vs 2^55).
const (
	smallBigIntMax = int64(1)<<55 - 1
	smallBigIntMin = -(int64(1) << 55)
)

// Value is a tagged union over every ECMAScript value (§3.1). Unlike an
// interface-typed value representation, Value is a concrete, fixed-size,
// pointer-free struct: copying a Value is always a plain bitwise copy
// (required by §4.1), and a heap-tagged Value never smuggles a raw
// pointer past the collector — it carries an offset that must be
// resolved through a Heap.
//
// Layout: 16 bytes total (bits uint64 first for 8-byte alignment, then
// the 1-byte tag, then 7 bytes of inline small-value payload), comfortably
// under the ≤24-byte budget in §4.1.
type Value struct {
	bits uint64
	tag  Tag
	str  [7]byte
}

// Tag returns the active variant discriminant in O(1) (§4.1's tag
// discipline requirement).
func (v Value) Tag() Tag { return v.tag }

// HeapIndex returns the raw heap-vector offset of a heap-tagged Value. It
// panics if v does not carry a heap tag — calling it on, say, Undefined
// is a caller bug, not a recoverable condition.
func (v Value) HeapIndex() uint32 {
	if !v.tag.IsHeapTag() {
		panic("heap: HeapIndex called on a non-heap Value (" + v.tag.String() + ")")
	}

	return uint32(v.bits)
}

// --- Constructors for inline (non-heap) variants ---

// Undefined is the ECMAScript undefined value.
func Undefined() Value { return Value{tag: TagUndefined} }

// Null is the ECMAScript null value.
func Null() Value { return Value{tag: TagNull} }

// FromBool constructs a Boolean Value.
func FromBool(b bool) Value {
	var bits uint64
	if b {
		bits = 1
	}

	return Value{tag: TagBoolean, bits: bits}
}

// fitsSmallInteger reports whether n is within the ECMAScript safe
// integer range and can be stored as a SmallInteger.
func fitsSmallInteger(n int64) bool {
	return n >= smallIntMin && n <= smallIntMax
}

// FromInt32 constructs the smallest lossless Value for n: always a
// SmallInteger, since every int32 is a safe integer.
func FromInt32(n int32) Value {
	return Value{tag: TagSmallInteger, bits: uint64(int64(n))}
}

// FromSafeInt64 constructs a SmallInteger from n, which must already be
// within the safe-integer range; it panics otherwise, since producing an
// out-of-range SmallInteger would silently truncate a value the caller
// believed was exact.
func FromSafeInt64(n int64) Value {
	if !fitsSmallInteger(n) {
		panic("heap: int64 value exceeds the safe-integer range for SmallInteger")
	}

	return Value{tag: TagSmallInteger, bits: uint64(n)}
}

// floatHasZeroLowByte reports whether the IEEE-754 bit pattern of f has
// eight trailing zero bits, the §3.1/§8 invariant governing when a float
// may be represented inline as a SmallFloat versus heap-allocated as a
// HeapNumber.
func floatHasZeroLowByte(f float64) bool {
	return math.Float64bits(f)&0xFF == 0
}

// smallFloatBits returns the SmallFloat-encodable bit pattern of f, or ok
// == false if f must be heap-allocated.
func smallFloatBits(f float64) (bits uint64, ok bool) {
	if !floatHasZeroLowByte(f) {
		return 0, false
	}

	return math.Float64bits(f), true
}

// isCanonicalSmallInteger reports whether f must be normalized to
// SmallInteger under §3.1's numeric-canonicalization invariant. Negative
// zero is deliberately excluded: collapsing it into SmallInteger(0) would
// make it indistinguishable from +0 even to Object.is, which §3.1
// requires to still tell them apart.
func isCanonicalSmallInteger(f float64) bool {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return false
	}
	if f == 0 {
		return !math.Signbit(f)
	}
	i := int64(f)

	return float64(i) == f && fitsSmallInteger(i)
}

// FromFloat64WithHeap constructs a Value from f, choosing the smallest
// lossless variant: a SmallInteger if f is mathematically an integer
// within the safe range, a SmallFloat if its bit pattern has eight
// trailing zero bits, or — only then — a heap-allocated HeapNumber via
// heapAlloc. Per §3.1's numeric canonicalization invariant, an integral
// float is always normalized to SmallInteger, never SmallFloat.
func FromFloat64WithHeap(f float64, heapAlloc func(float64) Value) Value {
	if math.IsNaN(f) {
		// §3.1: NaN must be a single canonical bit pattern, regardless
		// of which NaN payload the producing computation generated.
		return Value{tag: TagSmallFloat, bits: canonicalNaNBits}
	}
	if isCanonicalSmallInteger(f) {
		return Value{tag: TagSmallInteger, bits: uint64(int64(f))}
	}
	if bits, ok := smallFloatBits(f); ok {
		return Value{tag: TagSmallFloat, bits: bits}
	}

	return heapAlloc(f)
}

// canonicalNaNBits is the single bit pattern every NaN Value normalizes
// to. Go's own math.NaN() carries a payload in its low byte
// (0x7FF8000000000001), which would force every NaN to heap-allocate, so
// the engine defines its own canonical quiet-NaN pattern with a zero low
// byte instead.
const canonicalNaNBits uint64 = 0x7FF8000000000000

// FromSmallString constructs a SmallString from s, which must be at most
// 7 bytes; it panics otherwise (callers should heap-allocate longer
// strings via a Heap instead).
func FromSmallString(s string) Value {
	if len(s) > 7 {
		panic("heap: string too long for SmallString (use Heap.NewString)")
	}

	var buf [7]byte
	copy(buf[:], s)

	return Value{tag: TagSmallString, str: buf}
}

// SmallStringValue returns the decoded string of a SmallString Value. If
// the string is shorter than 7 bytes it is NUL-terminated within the
// inline buffer; a full 7-byte string has no terminator (§3.1).
func (v Value) SmallStringValue() string {
	if v.tag != TagSmallString {
		panic("heap: SmallStringValue called on a non-SmallString Value")
	}
	n := 7
	for i, b := range v.str {
		if b == 0 {
			n = i

			break
		}
	}

	return string(v.str[:n])
}

// FromSmallBigInt constructs a SmallBigInt, panicking if n is outside the
// 56-bit signed range (callers should heap-allocate via Heap.NewBigInt
// instead).
func FromSmallBigInt(n int64) Value {
	if n < smallBigIntMin || n > smallBigIntMax {
		panic("heap: int64 exceeds the SmallBigInt range (use Heap.NewBigInt)")
	}

	return Value{tag: TagSmallBigInt, bits: uint64(n)}
}

// FitsSmallBigInt reports whether n can be stored inline as a
// SmallBigInt, used by callers deciding whether to heap-allocate.
func FitsSmallBigInt(n int64) bool { return n >= smallBigIntMin && n <= smallBigIntMax }

// --- Predicates ---

func (v Value) IsUndefined() bool { return v.tag == TagUndefined }
func (v Value) IsNull() bool      { return v.tag == TagNull }
func (v Value) IsNullOrUndefined() bool {
	return v.tag == TagUndefined || v.tag == TagNull
}
func (v Value) IsBoolean() bool { return v.tag == TagBoolean }
func (v Value) IsNumber() bool {
	return v.tag == TagSmallInteger || v.tag == TagSmallFloat || v.tag == TagHeapNumber
}
func (v Value) IsBigInt() bool   { return v.tag == TagSmallBigInt || v.tag == TagHeapBigInt }
func (v Value) IsString() bool   { return v.tag == TagSmallString || v.tag == TagHeapString }
func (v Value) IsSymbol() bool   { return v.tag == TagSymbol }
func (v Value) IsObject() bool   { return v.tag.IsObjectTag() }
func (v Value) IsCallable() bool { return v.tag.IsCallableTag() }

// AsBool returns the boolean payload; callers must have checked
// IsBoolean first.
func (v Value) AsBool() bool {
	if v.tag != TagBoolean {
		panic("heap: AsBool called on a non-Boolean Value")
	}

	return v.bits != 0
}

// ToBooleanStrict implements ECMAScript ToBoolean for primitive,
// non-heap variants (objects are always truthy, and are rejected here
// since their numeric/string conversions may need a Heap; see package
// eval's Evaluator.toBoolean for the full operation).
func (v Value) ToBooleanStrict() bool {
	switch v.tag {
	case TagUndefined, TagNull:
		return false
	case TagBoolean:
		return v.bits != 0
	case TagSmallInteger:
		return int64(v.bits) != 0
	case TagSmallFloat:
		f := math.Float64frombits(v.bits)

		return f != 0 && !math.IsNaN(f)
	case TagSmallBigInt:
		return int64(v.bits) != 0
	case TagSmallString:
		return v.SmallStringValue() != ""
	default:
		panic("heap: ToBooleanStrict called on a heap-allocated Value")
	}
}

// AsSafeInt64 returns the integer payload of a SmallInteger.
func (v Value) AsSafeInt64() int64 {
	if v.tag != TagSmallInteger {
		panic("heap: AsSafeInt64 called on a non-SmallInteger Value")
	}

	return int64(v.bits)
}

// AsSmallFloat returns the float payload of a SmallFloat.
func (v Value) AsSmallFloat() float64 {
	if v.tag != TagSmallFloat {
		panic("heap: AsSmallFloat called on a non-SmallFloat Value")
	}

	return math.Float64frombits(v.bits)
}

// AsSmallBigInt returns the integer payload of a SmallBigInt.
func (v Value) AsSmallBigInt() int64 {
	if v.tag != TagSmallBigInt {
		panic("heap: AsSmallBigInt called on a non-SmallBigInt Value")
	}

	return int64(v.bits)
}

// AsFloat64Inline widens a SmallInteger/SmallFloat Value to float64
// without needing a Heap. Heap-allocated numbers go through
// Heap.AsFloat64 instead.
func (v Value) AsFloat64Inline() float64 {
	switch v.tag {
	case TagSmallInteger:
		return float64(int64(v.bits))
	case TagSmallFloat:
		return math.Float64frombits(v.bits)
	default:
		panic("heap: AsFloat64Inline called on a non-inline-numeric Value")
	}
}

// StrictEqualsInline implements the inline-only fast path of
// strict-equals (§3.1/§4.1): type-then-bit comparison for variants that
// need no Heap to compare. Heap.StrictEquals handles the full algorithm,
// including heap-string content comparison and NaN.
func (v Value) StrictEqualsInline(other Value) bool {
	if v.tag != other.tag {
		// SmallInteger and SmallFloat never compare equal across tags
		// because of the numeric-canonicalization invariant: an
		// integral value is always SmallInteger, never SmallFloat.
		return false
	}
	switch v.tag {
	case TagUndefined, TagNull:
		return true
	case TagBoolean:
		return v.bits == other.bits
	case TagSmallInteger:
		return int64(v.bits) == int64(other.bits)
	case TagSmallFloat:
		a, b := math.Float64frombits(v.bits), math.Float64frombits(other.bits)
		if math.IsNaN(a) || math.IsNaN(b) {
			return false
		}

		return a == b
	case TagSmallBigInt:
		return int64(v.bits) == int64(other.bits)
	case TagSmallString:
		return v.str == other.str
	default:
		return v.tag.IsHeapTag() && v.bits == other.bits
	}
}

// DebugString returns a short diagnostic representation for inline
// variants; heap-allocated variants must be rendered through package
// eval's Evaluator.ToDisplayString since their content lives off-struct.
func (v Value) DebugString() string {
	switch v.tag {
	case TagUndefined:
		return "undefined"
	case TagNull:
		return "null"
	case TagBoolean:
		return strconv.FormatBool(v.AsBool())
	case TagSmallInteger:
		return strconv.FormatInt(v.AsSafeInt64(), 10)
	case TagSmallFloat:
		return strconv.FormatFloat(v.AsSmallFloat(), 'g', -1, 64)
	case TagSmallBigInt:
		return strconv.FormatInt(v.AsSmallBigInt(), 10) + "n"
	case TagSmallString:
		return v.SmallStringValue()
	default:
		return "<" + v.tag.String() + "#" + strconv.FormatUint(uint64(v.HeapIndex()), 10) + ">"
	}
}
