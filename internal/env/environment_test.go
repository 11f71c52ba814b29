package env

import (
	"testing"

	"github.com/conneroisu/esvm/internal/heap"
)

func TestCreateAndInitializeMutableBinding(t *testing.T) {
	h := heap.NewHeap()
	idx := New(h, heap.None[heap.Index[heap.EnvironmentData]]())

	CreateMutableBinding(h, idx, "x")
	if !HasBinding(h, idx, "x") {
		t.Fatalf("expected binding x to be declared")
	}

	if _, err := GetBindingValue(h, idx, "x"); err == nil {
		t.Fatalf("expected TDZ reference error before initialization")
	}

	InitializeBinding(h, idx, "x", h.NewNumber(42))
	v, err := GetBindingValue(h, idx, "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.AsFloat64(v) != 42 {
		t.Fatalf("GetBindingValue = %v, want 42", h.AsFloat64(v))
	}
}

func TestGetBindingValueWalksOuterChain(t *testing.T) {
	h := heap.NewHeap()
	outer := New(h, heap.None[heap.Index[heap.EnvironmentData]]())
	CreateMutableBinding(h, outer, "y")
	InitializeBinding(h, outer, "y", h.NewNumber(7))

	inner := New(h, heap.Some(outer))

	v, err := GetBindingValue(h, inner, "y")
	if err != nil {
		t.Fatalf("unexpected error resolving through outer chain: %v", err)
	}
	if h.AsFloat64(v) != 7 {
		t.Fatalf("GetBindingValue = %v, want 7", h.AsFloat64(v))
	}
}

func TestGetBindingValueUnresolvedNameIsReferenceError(t *testing.T) {
	h := heap.NewHeap()
	idx := New(h, heap.None[heap.Index[heap.EnvironmentData]]())

	if _, err := GetBindingValue(h, idx, "nope"); err == nil {
		t.Fatalf("expected ReferenceError for unresolved name")
	}
}

func TestSetMutableBindingRejectsConstInStrictMode(t *testing.T) {
	h := heap.NewHeap()
	idx := New(h, heap.None[heap.Index[heap.EnvironmentData]]())
	CreateImmutableBinding(h, idx, "c")
	InitializeBinding(h, idx, "c", h.NewNumber(1))

	if err := SetMutableBinding(h, idx, "c", h.NewNumber(2), true); err == nil {
		t.Fatalf("expected error assigning to const binding in strict mode")
	}

	if err := SetMutableBinding(h, idx, "c", h.NewNumber(2), false); err != nil {
		t.Fatalf("sloppy-mode assignment to const should be a silent no-op, got %v", err)
	}
	v, _ := GetBindingValue(h, idx, "c")
	if h.AsFloat64(v) != 1 {
		t.Fatalf("const binding value changed after sloppy-mode assignment")
	}
}

func TestSetMutableBindingWalksOuterAndMutates(t *testing.T) {
	h := heap.NewHeap()
	outer := New(h, heap.None[heap.Index[heap.EnvironmentData]]())
	CreateMutableBinding(h, outer, "z")
	InitializeBinding(h, outer, "z", h.NewNumber(1))
	inner := New(h, heap.Some(outer))

	if err := SetMutableBinding(h, inner, "z", h.NewNumber(99), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v, err := GetBindingValue(h, outer, "z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.AsFloat64(v) != 99 {
		t.Fatalf("outer binding not mutated through inner scope, got %v", h.AsFloat64(v))
	}
}

func TestThisValueWalksToNearestFunctionEnvironment(t *testing.T) {
	h := heap.NewHeap()
	thisObj := h.NewObject(heap.Null())
	fnEnv := NewFunction(h, heap.None[heap.Index[heap.EnvironmentData]](), thisObj)
	block := New(h, heap.Some(fnEnv))

	got := ThisValue(h, block)
	if !h.StrictEquals(got, thisObj) {
		t.Fatalf("ThisValue did not resolve to the enclosing function environment's this")
	}
}

func TestThisValueDefaultsToUndefinedWithNoFunctionEnvironment(t *testing.T) {
	h := heap.NewHeap()
	idx := New(h, heap.None[heap.Index[heap.EnvironmentData]]())

	got := ThisValue(h, idx)
	if !got.IsUndefined() {
		t.Fatalf("expected undefined this with no enclosing function/global environment")
	}
}
