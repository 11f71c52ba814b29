package object

import (
	"hash/fnv"
	"strconv"

	"github.com/conneroisu/esvm/internal/heap"
)

// CanonicalBytes returns the byte sequence a PropertyKey hashes and
// compares by: for strings, the decoded content regardless of whether it
// was stored as a SmallString or HeapString (§4.3's "must collide"
// requirement); for an array index, its decimal digits (so "0" and index
// 0 are the same key, matching ECMAScript's own array-index coercion);
// for a Symbol, a byte sequence derived from its heap identity, since
// symbols are compared by identity, never content.
func CanonicalBytes(h *heap.Heap, key heap.PropertyKey) []byte {
	if key.IsArrayIndex() {
		return []byte(strconv.FormatUint(uint64(key.ArrayIndex()), 10))
	}
	v := key.Value()
	if v.IsSymbol() {
		idx := v.HeapIndex()

		return []byte{'@', byte(idx), byte(idx >> 8), byte(idx >> 16), byte(idx >> 24)}
	}

	return []byte(h.StringValue(v))
}

// HashKey returns a 64-bit FNV-1a hash of key's canonical bytes, used by
// Shape transition caching (ForkShape); property lookup compares keys
// with SameKey instead (§4.3 expansion).
func HashKey(h *heap.Heap, key heap.PropertyKey) uint64 {
	hasher := fnv.New64a()
	hasher.Write(CanonicalBytes(h, key))

	return hasher.Sum64()
}

// SameKey reports whether two PropertyKeys name the same property,
// canonicalizing string representation but comparing symbols by heap
// identity.
func SameKey(h *heap.Heap, a, b heap.PropertyKey) bool {
	if a.IsArrayIndex() != b.IsArrayIndex() {
		return false
	}
	if a.IsArrayIndex() {
		return a.ArrayIndex() == b.ArrayIndex()
	}
	av, bv := a.Value(), b.Value()
	if av.IsSymbol() || bv.IsSymbol() {
		return av.IsSymbol() && bv.IsSymbol() && av.HeapIndex() == bv.HeapIndex()
	}

	return h.StringValue(av) == h.StringValue(bv)
}
