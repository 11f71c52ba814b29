package gcscope

import "github.com/conneroisu/esvm/internal/heap"

// AllocationWatermark is the number of allocations a GCScope tracks
// before Reborrow reports that a collection is due (§4.5's "Reborrow()
// crossing the allocation watermark" trigger).
const AllocationWatermark = 4096

// ScopeStack is the live stack of Scoped roots, one frame per currently
// active GCScope along the Go call stack. Package gc's mark phase walks
// it (via EachRoot) to seed the worklist, and its sweep phase rewrites it
// (via RewriteRoots) like any other root table.
type ScopeStack struct {
	frames []frame
}

type frame struct {
	roots []heap.Value
}

// NewScopeStack constructs an empty ScopeStack, owned by a Realm for its
// lifetime.
func NewScopeStack() *ScopeStack { return &ScopeStack{} }

// EachRoot calls fn for every currently rooted Scoped value across every
// active frame.
func (s *ScopeStack) EachRoot(fn func(heap.Value)) {
	for _, f := range s.frames {
		for _, v := range f.roots {
			fn(v)
		}
	}
}

// RewriteRoots rewrites every rooted Value in place via rewrite, called
// by package gc's sweep phase before any GCScope resumes running script.
func (s *ScopeStack) RewriteRoots(rewrite func(heap.Value) heap.Value) {
	for fi := range s.frames {
		for vi, v := range s.frames[fi].roots {
			s.frames[fi].roots[vi] = rewrite(v)
		}
	}
}

// Depth reports how many frames are currently pushed, for diagnostics.
func (s *ScopeStack) Depth() int { return len(s.frames) }

// GCScope is the Go rendition of spec.md's `'gc`-lifetime handle (§4.4):
// every allocation taken against a GCScope returns a Bound[T] stamped
// with the heap's generation at allocation time, and the GCScope tracks
// how many allocations have occurred since it was last reborrowed.
type GCScope struct {
	heapRef    *heap.Heap
	stack      *ScopeStack
	frameIndex int
	generation uint64
	noGC       bool
	allocCount int
}

// NewRootScope pushes a new frame onto stack and returns the GCScope
// guarding it. Callers (package realm's RunInRealm) must call Pop when
// the scope ends, in reverse order of creation.
func NewRootScope(h *heap.Heap, stack *ScopeStack) *GCScope {
	stack.frames = append(stack.frames, frame{})

	return &GCScope{heapRef: h, stack: stack, frameIndex: len(stack.frames) - 1, generation: h.Generation()}
}

// Child pushes a nested frame sharing this scope's heap and stack —
// the rendition of a Rust reborrow that also extends `'scope` for a
// nested block.
func (gc *GCScope) Child() *GCScope {
	return NewRootScope(gc.heapRef, gc.stack)
}

// Pop removes this scope's frame (and any frame pushed after it that the
// caller failed to Pop itself) from the stack, un-rooting everything it
// rooted. Using gc after calling Pop is a caller bug.
func (gc *GCScope) Pop() {
	gc.stack.frames = gc.stack.frames[:gc.frameIndex]
}

// Heap returns the heap this scope guards.
func (gc *GCScope) Heap() *heap.Heap { return gc.heapRef }

// Stack returns the ScopeStack this scope's frame lives on, for package
// gc's root-scanning.
func (gc *GCScope) Stack() *ScopeStack { return gc.stack }

// NoGC returns a child scope in which no collection may run — used
// around unsafe iteration over raw heap state (§4.4's `GCScope.NoGC()`).
// Reborrow on a NoGC scope panics if the allocation watermark is crossed
// anyway, since there is no safe point left at which to run one.
func (gc *GCScope) NoGC() *GCScope {
	child := *gc
	child.noGC = true

	return &child
}

// Reborrow refreshes this scope's generation snapshot to the heap's
// current generation and reports whether the allocation watermark has
// been crossed since the last Reborrow — the signal package realm uses to
// decide whether to call gc.Collect before resuming script (§4.5).
// A Bound[T] obtained from this scope before the call becomes stale only
// if a collection has advanced the heap's generation since it was
// stamped; a Reborrow with no collection in between leaves it readable.
func (gc *GCScope) Reborrow() (due bool) {
	due = gc.allocCount >= AllocationWatermark
	if due && gc.noGC {
		panic("gcscope: allocation watermark exceeded inside a NoGC scope")
	}
	gc.allocCount = 0
	gc.generation = gc.heapRef.Generation()

	return due && !gc.noGC
}

// NoteAllocation records that an allocation happened against this scope,
// feeding Reborrow's watermark check. Called by heap-allocating
// constructors taken through this scope.
func (gc *GCScope) NoteAllocation() { gc.allocCount++ }

// Generation returns the generation this scope was last (re)stamped
// with.
func (gc *GCScope) Generation() uint64 { return gc.generation }
