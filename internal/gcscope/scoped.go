package gcscope

import "github.com/conneroisu/esvm/internal/heap"

// Scoped roots a Value for the lifetime of the GCScope it was created in
// (§4.4's `'scope` lifetime): unlike Bound, a Scoped value survives any
// number of collections while its scope's frame remains on the
// ScopeStack, because it is itself part of the root set the collector
// rewrites rather than a direct reference into heap memory.
type Scoped struct {
	stack      *ScopeStack
	frameIndex int
	slotIndex  int
}

// NewScoped roots v in scope's current frame.
func NewScoped(scope *GCScope, v heap.Value) Scoped {
	f := &scope.stack.frames[scope.frameIndex]
	slot := len(f.roots)
	f.roots = append(f.roots, v)

	return Scoped{stack: scope.stack, frameIndex: scope.frameIndex, slotIndex: slot}
}

// Get returns the current (possibly collector-rewritten) Value.
func (s Scoped) Get() heap.Value {
	return s.stack.frames[s.frameIndex].roots[s.slotIndex]
}

// Set overwrites the rooted Value in place.
func (s Scoped) Set(v heap.Value) {
	s.stack.frames[s.frameIndex].roots[s.slotIndex] = v
}
