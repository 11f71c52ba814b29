package gcscope

import "github.com/conneroisu/esvm/internal/heap"

// Global roots a Value for the lifetime of the Heap itself (§4.4), via
// the Heap's own global root table (see heap/roots.go) rather than a
// ScopeStack frame. Used for intrinsics, well-known symbols, and
// anything a host explicitly promotes out of scope-bound rooting.
type Global struct {
	heapRef *heap.Heap
	id      heap.GlobalRootID
}

// NewGlobal roots v globally.
func NewGlobal(h *heap.Heap, v heap.Value) Global {
	return Global{heapRef: h, id: h.AddGlobalRoot(v)}
}

// Get returns the current Value and true, or the zero Value and false if
// the root has been Released.
func (g Global) Get() (heap.Value, bool) { return g.heapRef.GlobalRoot(g.id) }

// Set overwrites the rooted Value in place.
func (g Global) Set(v heap.Value) { g.heapRef.SetGlobalRoot(g.id, v) }

// Release un-roots the Value; Get reports false afterward.
func (g Global) Release() { g.heapRef.RemoveGlobalRoot(g.id) }
