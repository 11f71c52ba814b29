package heap

// Index is a typed index into a heap vector: the Go rendition of a typed
// index plus a phantom type parameter for K (§3.2). K is never
// instantiated at runtime — it exists purely so the Go compiler rejects
// mixing an Index[ObjectData] with an Index[ArrayData] even though both
// are, underneath, a uint32 offset.
//
// Index deliberately carries no "generation" or validity bit of its own;
// whether the slot it names is still occupied is a property of the heap
// vector, not of the index. A tombstoned index is not a type error, it is
// the "engine bug" failure mode documented in §4.5 and §7.3.
type Index[K any] struct {
	v uint32
}

// NewIndex wraps a raw offset. Heap uses it to turn a Value's raw heap
// index into a typed Index for that Value's kind; nothing outside this
// package should fabricate an Index.
func NewIndex[K any](v uint32) Index[K] { return Index[K]{v: v} }

// Raw returns the underlying offset.
func (i Index[K]) Raw() uint32 { return i.v }

// Option is the Go rendition of Rust's Option<T>, used wherever spec.md
// calls for a nullable slot (tombstones in H_K, an optional prototype, an
// optional outer environment, ...).
type Option[T any] struct {
	has bool
	val T
}

// Some wraps a present value.
func Some[T any](v T) Option[T] { return Option[T]{has: true, val: v} }

// None constructs an absent value.
func None[T any]() Option[T] { return Option[T]{} }

// IsSome reports whether a value is present.
func (o Option[T]) IsSome() bool { return o.has }

// IsNone reports whether a value is absent.
func (o Option[T]) IsNone() bool { return !o.has }

// Get returns the wrapped value and whether it was present.
func (o Option[T]) Get() (T, bool) { return o.val, o.has }

// Unwrap returns the wrapped value, panicking if absent.
func (o Option[T]) Unwrap() T {
	if !o.has {
		panic("heap: Unwrap called on None")
	}

	return o.val
}

// UnwrapOr returns the wrapped value, or fallback if absent.
func (o Option[T]) UnwrapOr(fallback T) T {
	if !o.has {
		return fallback
	}

	return o.val
}
