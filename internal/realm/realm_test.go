package realm

import (
	"testing"

	"github.com/conneroisu/esvm/internal/env"
	"github.com/conneroisu/esvm/internal/gcscope"
	"github.com/conneroisu/esvm/internal/heap"
)

func TestNewRealmPopulatesGlobalObjectAndEnvironment(t *testing.T) {
	h := heap.NewHeap()
	r := NewRealm(h)
	defer r.Close()

	if r.GlobalObject.Tag() != heap.TagOrdinaryObject {
		t.Fatalf("GlobalObject tag = %v, want ordinary object", r.GlobalObject.Tag())
	}
	got := env.ThisValue(h, r.GlobalEnv)
	if !h.StrictEquals(got, r.GlobalObject) {
		t.Fatalf("global environment's this does not match the global object")
	}
}

func TestRunInRealmPopsScopeAfterReturning(t *testing.T) {
	h := heap.NewHeap()
	r := NewRealm(h)
	defer r.Close()

	depthDuring := -1
	result := RunInRealm(r, func(scope *gcscope.GCScope) int {
		gcscope.NewScoped(scope, h.NewObject(heap.Null()))
		depthDuring = r.Scopes().Depth()

		return 42
	})

	if result != 42 {
		t.Fatalf("RunInRealm result = %d, want 42", result)
	}
	if depthDuring != 1 {
		t.Fatalf("expected one active scope frame during RunInRealm, got %d", depthDuring)
	}
	if got := r.Scopes().Depth(); got != 0 {
		t.Fatalf("expected scope frame popped after RunInRealm returns, got depth %d", got)
	}
}

func TestContextStackPushPopAndOverflow(t *testing.T) {
	s := NewContextStack()
	for i := 0; i < MaxContextStackDepth; i++ {
		if err := s.Push(&ExecutionContext{}); err != nil {
			t.Fatalf("unexpected overflow at depth %d: %v", i, err)
		}
	}
	if err := s.Push(&ExecutionContext{}); err == nil {
		t.Fatalf("expected ErrStackOverflow once MaxContextStackDepth is exceeded")
	}

	s.Pop()
	if s.Depth() != MaxContextStackDepth-1 {
		t.Fatalf("Depth() after Pop = %d, want %d", s.Depth(), MaxContextStackDepth-1)
	}
}

func TestForceCollectRewritesIntrinsicsAfterCollection(t *testing.T) {
	h := heap.NewHeap()
	r := NewRealm(h)
	defer r.Close()

	// Garbage allocated before proto so proto's slot shifts down once the
	// collector compacts the Objects vector.
	_ = h.NewObject(heap.Null())
	_ = h.NewObject(heap.Null())

	proto := h.NewObject(heap.Null())
	r.Intrinsics.Set(ObjectPrototype, proto)
	h.AddGlobalRoot(proto)

	RunInRealm(r, func(scope *gcscope.GCScope) struct{} {
		r.ForceCollect(scope)

		return struct{}{}
	})

	rewritten := r.Intrinsics.Get(ObjectPrototype)
	if rewritten.Tag() != heap.TagOrdinaryObject {
		t.Fatalf("intrinsic slot lost its tag after collection: %v", rewritten.Tag())
	}
	// NewRealm roots its global object too, so it survives alongside proto.
	if h.Objects.Len() != 2 {
		t.Fatalf("expected garbage objects to be collected, Objects.Len() = %d", h.Objects.Len())
	}
	if !h.StrictEquals(h.Object(rewritten).Prototype, heap.Null()) {
		t.Fatalf("rewritten intrinsic does not point at a valid surviving object")
	}
}
