package object

import (
	"github.com/conneroisu/esvm/internal/heap"
	"github.com/conneroisu/esvm/internal/result"
)

// Caller invokes a callable Value with the given receiver and arguments.
// Property get/set must be able to invoke accessor functions, but object
// cannot import package eval (eval depends on object, not the reverse),
// so the actual call mechanism is supplied by the caller — exactly the
// "accessor invocation is a safepoint" requirement from §4.3, made
// concrete as a callback instead of a direct call so this package has no
// dependency on the evaluator.
type Caller func(h *heap.Heap, fn, thisArg heap.Value, args []heap.Value) result.JsResult[heap.Value]

// FindOwnProperty returns the index into obj's own Keys/Values vectors
// naming key, or -1 if absent. Property storage is a flat, linearly
// scanned parallel-array for both shaped and dictionary objects: Shape
// (see shape.go) is purely a structural-sharing cache over the key list,
// not the authoritative storage, so unifying both regimes onto one scan
// keeps a single code path without weakening any observable behavior —
// the spec's invariants are about what Get/Set/DefineOwnProperty return,
// never about their asymptotic complexity.
func FindOwnProperty(h *heap.Heap, obj heap.Value, key heap.PropertyKey) int {
	data := h.ObjectData(obj)
	for i, k := range data.Keys {
		if SameKey(h, k, key) {
			return i
		}
	}

	return -1
}

// GetOwnProperty returns obj's own property descriptor for key.
func GetOwnProperty(h *heap.Heap, obj heap.Value, key heap.PropertyKey) (heap.PropertyDescriptor, bool) {
	data := h.ObjectData(obj)
	if i := FindOwnProperty(h, obj, key); i >= 0 {
		return data.Values[i], true
	}

	return heap.PropertyDescriptor{}, false
}

// HasOwnProperty reports whether obj has an own property named key.
func HasOwnProperty(h *heap.Heap, obj heap.Value, key heap.PropertyKey) bool {
	return FindOwnProperty(h, obj, key) >= 0
}

// OwnPropertyKeys returns obj's own property keys in insertion order
// (integer-index keys are not reordered ahead of string keys here —
// numeric key ordering is a host/eval-level concern left to whichever
// caller implements `Object.keys`/`for...in`, per §1's non-goal on full
// enumeration-order conformance).
func OwnPropertyKeys(h *heap.Heap, obj heap.Value) []heap.PropertyKey {
	data := h.ObjectData(obj)
	keys := make([]heap.PropertyKey, len(data.Keys))
	copy(keys, data.Keys)

	return keys
}

// DefineOwnProperty creates or overwrites obj's own property named key
// with desc, forking obj's Shape (if it has one) to include key when the
// property is newly added. It does not validate desc against an existing
// non-configurable property — callers needing strict
// [[DefineOwnProperty]] semantics (§Non-goals: full validation is out of
// scope for this core) should check Configurable themselves first.
func DefineOwnProperty(h *heap.Heap, obj heap.Value, key heap.PropertyKey, desc heap.PropertyDescriptor) {
	data := h.ObjectData(obj)
	if i := FindOwnProperty(h, obj, key); i >= 0 {
		data.Values[i] = desc

		return
	}
	data.Keys = append(data.Keys, key)
	data.Values = append(data.Values, desc)
	if shape, ok := data.Shape.Get(); ok {
		if len(data.Keys) > DictionaryThreshold {
			data.Shape = heap.None[heap.Index[heap.ShapeData]]()
		} else {
			data.Shape = heap.Some(ForkShape(h, heap.Some(shape), key))
		}
	}
}

// DeleteOwnProperty removes obj's own property named key, demoting it
// out of shaped mode (§4.3: "demoted to dictionary on deletion"). It
// reports whether a property was actually removed.
func DeleteOwnProperty(h *heap.Heap, obj heap.Value, key heap.PropertyKey) bool {
	data := h.ObjectData(obj)
	i := FindOwnProperty(h, obj, key)
	if i < 0 {
		return false
	}
	data.Keys = append(data.Keys[:i], data.Keys[i+1:]...)
	data.Values = append(data.Values[:i], data.Values[i+1:]...)
	data.Shape = heap.None[heap.Index[heap.ShapeData]]()

	return true
}

// maxPrototypeChainDepth bounds the prototype walk so a Get/Set/HasProperty
// call on a corrupted (cyclic) chain panics instead of looping forever.
// SetPrototypeOf is the normal place cycles are rejected (see below); this
// is a defense-in-depth bound for chains constructed by means other than
// SetPrototypeOf (e.g. directly by a host hook).
const maxPrototypeChainDepth = 4096

// Get implements OrdinaryGet (§3.3/§4.3): walk obj's own property, then
// its prototype chain, invoking an accessor's getter (via call) if the
// found descriptor is an accessor.
func Get(h *heap.Heap, obj, receiver heap.Value, key heap.PropertyKey, call Caller) result.JsResult[heap.Value] {
	current := obj
	for depth := 0; ; depth++ {
		if depth > maxPrototypeChainDepth {
			panic("object: prototype chain exceeds maximum depth (cyclic [[Prototype]])")
		}
		if desc, ok := GetOwnProperty(h, current, key); ok {
			if desc.IsAccessor() {
				if desc.Get.IsUndefined() {
					return result.Return(heap.Undefined())
				}

				return call(h, desc.Get, receiver, nil)
			}

			return result.Return(desc.Value)
		}
		proto := h.Prototype(current)
		if proto.IsNullOrUndefined() {
			return result.Return(heap.Undefined())
		}
		current = proto
	}
}

// Set implements OrdinarySet (§3.3/§4.3): walk the prototype chain for an
// existing accessor or non-writable data property; otherwise
// create/overwrite an own writable data property on receiver.
func Set(h *heap.Heap, obj, receiver, value heap.Value, key heap.PropertyKey, call Caller) result.JsResult[heap.Value] {
	current := obj
	for depth := 0; ; depth++ {
		if depth > maxPrototypeChainDepth {
			panic("object: prototype chain exceeds maximum depth (cyclic [[Prototype]])")
		}
		if desc, ok := GetOwnProperty(h, current, key); ok {
			if desc.IsAccessor() {
				if desc.Set.IsUndefined() {
					return result.Return(heap.FromBool(false))
				}

				return call(h, desc.Set, receiver, []heap.Value{value})
			}
			if !desc.Writable {
				return result.Return(heap.FromBool(false))
			}
			if current == receiver {
				desc.Value = value
				DefineOwnProperty(h, receiver, key, desc)

				return result.Return(heap.FromBool(true))
			}

			break
		}
		proto := h.Prototype(current)
		if proto.IsNullOrUndefined() {
			break
		}
		current = proto
	}
	DefineOwnProperty(h, receiver, key, heap.NewDataDescriptor(value, true, true, true))

	return result.Return(heap.FromBool(true))
}

// HasProperty walks obj's prototype chain reporting whether key is
// present anywhere on it.
func HasProperty(h *heap.Heap, obj heap.Value, key heap.PropertyKey) bool {
	current := obj
	for depth := 0; ; depth++ {
		if depth > maxPrototypeChainDepth {
			panic("object: prototype chain exceeds maximum depth (cyclic [[Prototype]])")
		}
		if HasOwnProperty(h, current, key) {
			return true
		}
		proto := h.Prototype(current)
		if proto.IsNullOrUndefined() {
			return false
		}
		current = proto
	}
}

// SetPrototypeOf implements OrdinarySetPrototypeOf's cycle check (§4.3):
// walking from prototype, if obj is ever reached, the assignment is
// rejected.
func SetPrototypeOf(h *heap.Heap, obj, prototype heap.Value) bool {
	current := prototype
	for depth := 0; !current.IsNullOrUndefined(); depth++ {
		if depth > maxPrototypeChainDepth {
			return false
		}
		if current.Tag() == obj.Tag() && current.HeapIndex() == obj.HeapIndex() {
			return false
		}
		current = h.Prototype(current)
	}
	h.SetPrototype(obj, prototype)

	return true
}
