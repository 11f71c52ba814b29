// Package heap implements the value representation and the process-wide
// managed heap of the engine: the tagged Value union (§3.1), the typed
// indices that stand in for heap pointers (§3.2), and the structure-of-arrays
// storage that holds every heap-allocated ECMAScript entity.
//
// Design notes:
//
// An interface-typed value (a Go interface implemented by small concrete
// types: Int, Bool, *List, *Object, ...) is the natural representation for a
// GC'd host language, where "just allocate a Go value and let the runtime
// collect it" is the whole memory story. That story does not survive
// contact with this engine's central requirement: a Value naming a heap
// entity must carry a typed index, not a pointer or an interface value,
// because the collector physically moves entities during compaction and
// every live reference must be found and rewritten. An interface value
// smuggles a pointer past the collector the same way a raw pointer would.
//
// So Value here is a concrete, fixed-size, tag-plus-payload struct (see
// value.go), and every heap-allocated kind lives in its own typed,
// compactable vector (see vector.go) owned by the Heap (see heap.go) —
// effectively a `Vec<Option<K>>` per kind, addressed by Index[K] instead of
// a pointer.
//
// Object property storage (keys/values element vectors, PropertyKey,
// PropertyDescriptor) is defined here rather than in package object because
// ObjectData, the heap-resident payload for OrdinaryObject and every exotic
// object kind, embeds them directly; package object supplies the behavior
// (shape forking, prototype walks, accessor invocation) over this data.
package heap
