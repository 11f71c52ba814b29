package gcscope

// Bound is a 'gc-lifetime-bound handle (§4.4): a value obtained from a
// GCScope. Go cannot enforce its lifetime at compile time the way a
// borrow checker would, so Bound instead carries the generation its
// owning scope had at creation time, and Get panics once the scope has
// been reborrowed after a collection advanced the heap's generation. A
// Reborrow with no collection in between, and a Pop, leave a Bound
// readable.
type Bound[T any] struct {
	scope      *GCScope
	generation uint64
	value      T
}

// NewBound stamps v as bound to scope's current generation.
func NewBound[T any](scope *GCScope, v T) Bound[T] {
	return Bound[T]{scope: scope, generation: scope.Generation(), value: v}
}

// Get returns the wrapped value, panicking if scope has been restamped
// with a newer heap generation (a Reborrow after a collection) since
// this Bound was created.
func (b Bound[T]) Get() T {
	if b.scope.Generation() != b.generation {
		panic("gcscope: stale Bound access across a Reborrow/collection")
	}

	return b.value
}

// IsStale reports whether reading b would panic, without panicking.
func (b Bound[T]) IsStale() bool { return b.scope.Generation() != b.generation }
