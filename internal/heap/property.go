package heap

// PropertyKey is one of SmallString, HeapString, Symbol, or an
// array-index integer (§3.3); private names are not represented as
// PropertyKeys. It is encoded as a Value restricted to
// those variants plus the array-index case, which has no Value
// equivalent and so gets its own Tag-like wrapper below.
//
// Two PropertyKeys referring to the same string content — whether one is
// a SmallString and the other a HeapString — must hash and compare equal
// (§4.3); see CanonicalBytes in package object for the shared hashing
// path.
type PropertyKey struct {
	// isIndex, when true, means this key is an array-index integer and
	// index holds its value; v is unused.
	isIndex bool
	index   uint32
	v       Value
}

// PropertyKeyFromValue wraps a SmallString/HeapString/Symbol Value as a
// PropertyKey. It panics if v is not one of those kinds.
func PropertyKeyFromValue(v Value) PropertyKey {
	switch v.Tag() {
	case TagSmallString, TagHeapString, TagSymbol:
		return PropertyKey{v: v}
	default:
		panic("heap: PropertyKeyFromValue called with a non-key Value (" + v.Tag().String() + ")")
	}
}

// PropertyKeyFromIndex constructs an array-index PropertyKey (e.g. the
// "0" in arr[0]).
func PropertyKeyFromIndex(i uint32) PropertyKey {
	return PropertyKey{isIndex: true, index: i}
}

// IsArrayIndex reports whether this key is an array-index integer.
func (k PropertyKey) IsArrayIndex() bool { return k.isIndex }

// ArrayIndex returns the array-index payload; callers must check
// IsArrayIndex first.
func (k PropertyKey) ArrayIndex() uint32 { return k.index }

// Value returns the string/symbol payload; callers must check
// !IsArrayIndex first.
func (k PropertyKey) Value() Value { return k.v }

// PrivateNameID identifies a private class field/method name
// (#field). Unlike symbols, private names are compared by declaration
// site, not a heap identity Index, so a small monotonically-increasing ID
// suffices.
type PrivateNameID uint32

// PropertyDescriptorKind discriminates PropertyDescriptor's two shapes
// (§3.3): Data{value, writable} or Accessor{get, set}.
type PropertyDescriptorKind byte

const (
	DescriptorData PropertyDescriptorKind = iota
	DescriptorAccessor
)

// PropertyDescriptor is a property's full attribute record (§3.3). Get
// and Set are Values restricted to callable object kinds (or Undefined
// when absent); Value holds the data payload for a data descriptor.
//
// Invariant (enforced by object.DefineOwnProperty, not by this struct):
// an Accessor descriptor has at least one of Get/Set non-Undefined, and
// Writable is meaningful only for a Data descriptor.
type PropertyDescriptor struct {
	Kind         PropertyDescriptorKind
	Value        Value
	Get          Value
	Set          Value
	Writable     bool
	Enumerable   bool
	Configurable bool
}

// NewDataDescriptor builds a data descriptor with the given attributes.
func NewDataDescriptor(value Value, writable, enumerable, configurable bool) PropertyDescriptor {
	return PropertyDescriptor{
		Kind:         DescriptorData,
		Value:        value,
		Get:          Undefined(),
		Set:          Undefined(),
		Writable:     writable,
		Enumerable:   enumerable,
		Configurable: configurable,
	}
}

// NewAccessorDescriptor builds an accessor descriptor with the given
// attributes. get/set should be Undefined() when absent.
func NewAccessorDescriptor(get, set Value, enumerable, configurable bool) PropertyDescriptor {
	return PropertyDescriptor{
		Kind:         DescriptorAccessor,
		Value:        Undefined(),
		Get:          get,
		Set:          set,
		Enumerable:   enumerable,
		Configurable: configurable,
	}
}

// IsAccessor reports whether this descriptor is an accessor descriptor.
func (d PropertyDescriptor) IsAccessor() bool { return d.Kind == DescriptorAccessor }

// sweepValues rewrites every Value this descriptor embeds per the given
// compaction plans, returning the updated descriptor.
func (d PropertyDescriptor) sweepValues(p *Plans) PropertyDescriptor {
	d.Value = p.RewriteValue(d.Value)
	d.Get = p.RewriteValue(d.Get)
	d.Set = p.RewriteValue(d.Set)

	return d
}

// markValues enqueues every Value this descriptor embeds.
func (d PropertyDescriptor) markValues(q *MarkQueue) {
	q.Push(d.Value)
	q.Push(d.Get)
	q.Push(d.Set)
}

// sweepKey rewrites a PropertyKey's embedded Value (a no-op for
// array-index keys).
func (k PropertyKey) sweepKey(p *Plans) PropertyKey {
	if k.isIndex {
		return k
	}
	k.v = p.RewriteValue(k.v)

	return k
}

func (k PropertyKey) markKey(q *MarkQueue) {
	if !k.isIndex {
		q.Push(k.v)
	}
}
