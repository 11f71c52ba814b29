package gc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/esvm/internal/gcscope"
	"github.com/conneroisu/esvm/internal/heap"
)

func TestCollectDropsUnreachableObject(t *testing.T) {
	h := heap.NewHeap()
	stack := gcscope.NewScopeStack()
	scope := gcscope.NewRootScope(h, stack)
	defer scope.Pop()

	root := h.NewObject(heap.Null())

	garbage := h.NewObject(heap.Null())
	_ = garbage // never rooted

	gcscope.NewScoped(scope, root)

	require.Equal(t, 2, h.Objects.Len(), "expected 2 objects before collection")

	c := NewCollector(h, stack)
	c.Collect()

	assert.Equal(t, 1, h.Objects.Len(), "expected 1 object to survive collection")
}

func TestCollectKeepsTransitivelyReachableObject(t *testing.T) {
	h := heap.NewHeap()
	stack := gcscope.NewScopeStack()
	scope := gcscope.NewRootScope(h, stack)
	defer scope.Pop()

	child := h.NewObject(heap.Null())
	parent := h.NewObject(heap.Null())
	h.SetPrototype(parent, child)

	gcscope.NewScoped(scope, parent)

	c := NewCollector(h, stack)
	c.Collect()

	assert.Equal(t, 2, h.Objects.Len(), "expected both parent and its prototype to survive")
}

func TestCollectClearsUnreachableWeakRef(t *testing.T) {
	h := heap.NewHeap()
	stack := gcscope.NewScopeStack()
	scope := gcscope.NewRootScope(h, stack)
	defer scope.Pop()

	target := h.NewObject(heap.Null()) // never rooted directly

	weakRef := h.NewWeakRef(target)
	gcscope.NewScoped(scope, weakRef) // roots the WeakRef itself, not its target

	c := NewCollector(h, stack)
	c.Collect()

	got := h.WeakRef(weakRef)
	assert.True(t, got.Target.IsUndefined(), "WeakRef target should have been cleared to undefined, got tag %s", got.Target.Tag())
}

func TestCollectAdvancesGeneration(t *testing.T) {
	h := heap.NewHeap()
	stack := gcscope.NewScopeStack()

	before := h.Generation()
	c := NewCollector(h, stack)
	c.Collect()

	assert.Equal(t, before+1, h.Generation())
}
