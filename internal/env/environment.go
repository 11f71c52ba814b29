package env

import (
	"fmt"

	"github.com/conneroisu/esvm/internal/heap"
)

// New creates a declarative environment with the given outer link.
func New(h *heap.Heap, outer heap.Option[heap.Index[heap.EnvironmentData]]) heap.Index[heap.EnvironmentData] {
	return h.Environments.Create(heap.EnvironmentData{
		Kind:     heap.EnvironmentDeclarative,
		Outer:    outer,
		Bindings: make(map[string]heap.Binding),
	})
}

// NewFunction creates a function environment, additionally carrying a
// `this` binding.
func NewFunction(h *heap.Heap, outer heap.Option[heap.Index[heap.EnvironmentData]], thisValue heap.Value) heap.Index[heap.EnvironmentData] {
	return h.Environments.Create(heap.EnvironmentData{
		Kind:      heap.EnvironmentFunction,
		Outer:     outer,
		Bindings:  make(map[string]heap.Binding),
		ThisValue: thisValue,
		HasThis:   true,
	})
}

// NewGlobal creates the realm's global environment.
func NewGlobal(h *heap.Heap, globalThis heap.Value) heap.Index[heap.EnvironmentData] {
	return h.Environments.Create(heap.EnvironmentData{
		Kind:      heap.EnvironmentGlobal,
		Bindings:  make(map[string]heap.Binding),
		ThisValue: globalThis,
		HasThis:   true,
	})
}

// NewObject creates a `with`-statement object environment, whose
// bindings resolve through a backing object's properties instead of the
// Bindings map (callers must consult object.HasProperty/Get/Set against
// BindingObj themselves; this package only manages the map-based
// declarative path).
func NewObject(h *heap.Heap, outer heap.Option[heap.Index[heap.EnvironmentData]], bindingObj heap.Value) heap.Index[heap.EnvironmentData] {
	return h.Environments.Create(heap.EnvironmentData{
		Kind:       heap.EnvironmentObject,
		Outer:      outer,
		Bindings:   make(map[string]heap.Binding),
		BindingObj: bindingObj,
	})
}

// CreateMutableBinding declares name as uninitialized-and-mutable in env
// (the TDZ state a `let`/`var` declaration starts in before its
// initializer runs).
func CreateMutableBinding(h *heap.Heap, idx heap.Index[heap.EnvironmentData], name string) {
	e := h.Environments.Get(idx)
	e.Bindings[name] = heap.Binding{Mutable: true, Initialized: false}
}

// CreateImmutableBinding declares name as uninitialized-and-immutable
// (the TDZ state a `const` declaration starts in).
func CreateImmutableBinding(h *heap.Heap, idx heap.Index[heap.EnvironmentData], name string) {
	e := h.Environments.Get(idx)
	e.Bindings[name] = heap.Binding{Mutable: false, Initialized: false}
}

// InitializeBinding gives name its first value, leaving the TDZ.
func InitializeBinding(h *heap.Heap, idx heap.Index[heap.EnvironmentData], name string, v heap.Value) {
	e := h.Environments.Get(idx)
	b := e.Bindings[name]
	b.Value = v
	b.Initialized = true
	e.Bindings[name] = b
}

// HasBinding reports whether env declares name directly (not walking
// Outer).
func HasBinding(h *heap.Heap, idx heap.Index[heap.EnvironmentData], name string) bool {
	_, ok := h.Environments.Get(idx).Bindings[name]

	return ok
}

// ReferenceError is returned by GetBindingValue/SetMutableBinding for
// conditions ECMAScript defines as a thrown ReferenceError: an unresolved
// identifier, or reading/writing a binding still in its temporal dead
// zone.
type ReferenceError struct {
	Name string
	Msg  string
}

func (e *ReferenceError) Error() string { return fmt.Sprintf("%s is not defined: %s", e.Name, e.Msg) }

// GetBindingValue resolves name starting at idx and walking Outer links,
// returning a *ReferenceError if it is never declared, or is declared but
// still in its temporal dead zone.
func GetBindingValue(h *heap.Heap, idx heap.Index[heap.EnvironmentData], name string) (heap.Value, error) {
	cur, hasCur := heap.Some(idx), true
	for hasCur {
		envIdx, _ := cur.Get()
		e := h.Environments.Get(envIdx)
		if b, ok := e.Bindings[name]; ok {
			if !b.Initialized {
				return heap.Value{}, &ReferenceError{Name: name, Msg: "accessed before initialization"}
			}

			return b.Value, nil
		}
		cur, hasCur = e.Outer, e.Outer.IsSome()
	}

	return heap.Value{}, &ReferenceError{Name: name, Msg: "not declared in any enclosing scope"}
}

// SetMutableBinding assigns value to name, walking Outer links. strict
// controls whether assigning to an undeclared name (global sloppy-mode
// auto-global creation is the caller's job, not this package's) or a
// non-mutable binding is an error.
func SetMutableBinding(h *heap.Heap, idx heap.Index[heap.EnvironmentData], name string, value heap.Value, strict bool) error {
	cur, hasCur := heap.Some(idx), true
	for hasCur {
		envIdx, _ := cur.Get()
		e := h.Environments.Get(envIdx)
		if b, ok := e.Bindings[name]; ok {
			if !b.Initialized {
				return &ReferenceError{Name: name, Msg: "accessed before initialization"}
			}
			if !b.Mutable {
				if strict {
					return &ReferenceError{Name: name, Msg: "assignment to constant binding"}
				}

				return nil
			}
			b.Value = value
			e.Bindings[name] = b

			return nil
		}
		cur, hasCur = e.Outer, e.Outer.IsSome()
	}
	if strict {
		return &ReferenceError{Name: name, Msg: "not declared in any enclosing scope"}
	}

	return nil
}

// ThisValue returns the nearest enclosing `this` binding, walking Outer
// links until a function or global environment is reached.
func ThisValue(h *heap.Heap, idx heap.Index[heap.EnvironmentData]) heap.Value {
	cur, hasCur := heap.Some(idx), true
	for hasCur {
		envIdx, _ := cur.Get()
		e := h.Environments.Get(envIdx)
		if e.HasThis {
			return e.ThisValue
		}
		cur, hasCur = e.Outer, e.Outer.IsSome()
	}

	return heap.Undefined()
}
