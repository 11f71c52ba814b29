package gcscope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/esvm/internal/heap"
)

func TestBoundStaysValidUntilReborrow(t *testing.T) {
	h := heap.NewHeap()
	stack := NewScopeStack()
	scope := NewRootScope(h, stack)
	defer scope.Pop()

	b := NewBound(scope, h.NewObject(heap.Null()))
	require.False(t, b.IsStale(), "freshly created Bound must not be stale")
	assert.NotPanics(t, func() { b.Get() })

	h.AdvanceGeneration()
	scope.Reborrow()

	assert.True(t, b.IsStale(), "Bound must become stale after its scope's generation advances")
}

func TestBoundGetPanicsWhenStale(t *testing.T) {
	h := heap.NewHeap()
	stack := NewScopeStack()
	scope := NewRootScope(h, stack)
	defer scope.Pop()

	b := NewBound(scope, heap.FromInt32(1))
	h.AdvanceGeneration()
	scope.Reborrow()

	assert.Panics(t, func() { b.Get() }, "expected panic reading a stale Bound")
}

func TestScopedSurvivesReborrow(t *testing.T) {
	h := heap.NewHeap()
	stack := NewScopeStack()
	scope := NewRootScope(h, stack)
	defer scope.Pop()

	s := NewScoped(scope, heap.FromInt32(5))
	h.AdvanceGeneration()
	scope.Reborrow()

	got := s.Get()
	require.True(t, got.IsNumber())
	assert.Equal(t, int64(5), got.AsSafeInt64(), "Scoped value should survive a Reborrow unchanged")
}

func TestScopedPopUnroots(t *testing.T) {
	h := heap.NewHeap()
	stack := NewScopeStack()
	outer := NewRootScope(h, stack)
	defer outer.Pop()

	inner := outer.Child()
	NewScoped(inner, heap.FromInt32(1))
	require.Equal(t, 2, stack.Depth())
	inner.Pop()
	assert.Equal(t, 1, stack.Depth(), "Depth() after Pop")
}

func TestGlobalReleaseStopsRooting(t *testing.T) {
	h := heap.NewHeap()
	g := NewGlobal(h, heap.FromInt32(1))
	_, ok := g.Get()
	require.True(t, ok, "newly created Global must be live")

	g.Release()
	_, ok = g.Get()
	assert.False(t, ok, "Global must not be live after Release")
}

func TestNoGCScopePanicsOnWatermarkExceeded(t *testing.T) {
	h := heap.NewHeap()
	stack := NewScopeStack()
	scope := NewRootScope(h, stack).NoGC()
	defer scope.Pop()

	for i := 0; i < AllocationWatermark; i++ {
		scope.NoteAllocation()
	}

	assert.Panics(t, func() { scope.Reborrow() }, "expected panic when the watermark is exceeded inside a NoGC scope")
}
