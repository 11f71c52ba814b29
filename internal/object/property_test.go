package object

import (
	"testing"

	"github.com/conneroisu/esvm/internal/heap"
	"github.com/conneroisu/esvm/internal/result"
)

func noCall(h *heap.Heap, fn, thisArg heap.Value, args []heap.Value) result.JsResult[heap.Value] {
	panic("unexpected accessor invocation in a data-property-only test")
}

func TestDefineAndGetOwnDataProperty(t *testing.T) {
	h := heap.NewHeap()
	obj := h.NewObject(heap.Null())
	key := heap.PropertyKeyFromValue(h.NewString("x"))

	DefineOwnProperty(h, obj, key, heap.NewDataDescriptor(heap.FromInt32(42), true, true, true))

	got := Get(h, obj, obj, key, noCall)
	if !got.IsReturn() || got.Value().AsSafeInt64() != 42 {
		t.Fatalf("Get after Define = %+v, want 42", got)
	}
}

func TestSmallStringAndHeapStringKeysCollide(t *testing.T) {
	h := heap.NewHeap()
	obj := h.NewObject(heap.Null())
	shortKey := heap.PropertyKeyFromValue(h.NewString("abc"))
	DefineOwnProperty(h, obj, shortKey, heap.NewDataDescriptor(heap.FromInt32(1), true, true, true))

	longEquivalent := heap.PropertyKeyFromValue(heap.FromSmallString("abc"))
	if !HasOwnProperty(h, obj, longEquivalent) {
		t.Fatalf("canonical string keys must collide regardless of small/heap storage")
	}
}

func TestPrototypeWalkFindsInheritedProperty(t *testing.T) {
	h := heap.NewHeap()
	proto := h.NewObject(heap.Null())
	key := heap.PropertyKeyFromValue(h.NewString("y"))
	DefineOwnProperty(h, proto, key, heap.NewDataDescriptor(heap.FromInt32(7), true, true, true))

	child := h.NewObject(proto)
	got := Get(h, child, child, key, noCall)
	if !got.IsReturn() || got.Value().AsSafeInt64() != 7 {
		t.Fatalf("Get did not find inherited property: %+v", got)
	}
}

func TestSetPrototypeOfRejectsCycle(t *testing.T) {
	h := heap.NewHeap()
	a := h.NewObject(heap.Null())
	b := h.NewObject(a)

	if SetPrototypeOf(h, a, b) {
		t.Fatalf("SetPrototypeOf must reject a cycle")
	}
}

func TestSetCreatesOwnPropertyWhenAbsent(t *testing.T) {
	h := heap.NewHeap()
	obj := h.NewObject(heap.Null())
	key := heap.PropertyKeyFromValue(h.NewString("z"))

	res := Set(h, obj, obj, heap.FromInt32(9), key, noCall)
	if !res.IsReturn() || !res.Value().AsBool() {
		t.Fatalf("Set on absent property should succeed: %+v", res)
	}
	if !HasOwnProperty(h, obj, key) {
		t.Fatalf("Set should have created an own property")
	}
}

func TestDeleteOwnPropertyDemotesShape(t *testing.T) {
	h := heap.NewHeap()
	obj := h.NewObject(heap.Null())
	key := heap.PropertyKeyFromValue(h.NewString("w"))
	DefineOwnProperty(h, obj, key, heap.NewDataDescriptor(heap.FromInt32(1), true, true, true))

	if !DeleteOwnProperty(h, obj, key) {
		t.Fatalf("DeleteOwnProperty should report success for an existing key")
	}
	if HasOwnProperty(h, obj, key) {
		t.Fatalf("property should be gone after delete")
	}
}
