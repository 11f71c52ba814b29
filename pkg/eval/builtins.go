package eval

import (
	"fmt"
	"os"
	"strings"

	"github.com/conneroisu/esvm/internal/gcscope"
	"github.com/conneroisu/esvm/internal/heap"
	"github.com/conneroisu/esvm/internal/object"
	"github.com/conneroisu/esvm/internal/realm"
	"github.com/conneroisu/esvm/internal/result"
	"github.com/google/uuid"
)

// Bootstrap populates r's intrinsics table and global bindings, then
// returns an Evaluator ready to run script against r. Calling it twice
// on the same Realm duplicates every intrinsic, so callers construct one
// Evaluator per Realm (realm.NewRealm + eval.Bootstrap is the pairing
// cmd/esvm and the test suite both use).
func Bootstrap(r *realm.Realm) *Evaluator {
	h := r.Heap
	ev := New(r)

	objectProto := h.NewObject(heap.Null())
	r.Intrinsics.Set(realm.ObjectPrototype, objectProto)

	functionProto := h.NewObject(objectProto)
	r.Intrinsics.Set(realm.FunctionPrototype, functionProto)

	arrayProto := h.NewArray(objectProto, nil)
	r.Intrinsics.Set(realm.ArrayPrototype, arrayProto)

	r.Intrinsics.Set(realm.StringPrototype, h.NewObject(objectProto))
	r.Intrinsics.Set(realm.NumberPrototype, h.NewObject(objectProto))
	r.Intrinsics.Set(realm.BooleanPrototype, h.NewObject(objectProto))
	r.Intrinsics.Set(realm.BigIntPrototype, h.NewObject(objectProto))
	r.Intrinsics.Set(realm.SymbolPrototype, h.NewObject(objectProto))

	errorProto := h.NewObject(objectProto)
	r.Intrinsics.Set(realm.ErrorPrototype, errorProto)
	r.Intrinsics.Set(realm.TypeErrorPrototype, h.NewObject(errorProto))
	r.Intrinsics.Set(realm.RangeErrorPrototype, h.NewObject(errorProto))
	r.Intrinsics.Set(realm.ReferenceErrorPrototype, h.NewObject(errorProto))
	r.Intrinsics.Set(realm.SyntaxErrorPrototype, h.NewObject(errorProto))
	r.Intrinsics.Set(realm.EvalErrorPrototype, h.NewObject(errorProto))
	r.Intrinsics.Set(realm.URIErrorPrototype, h.NewObject(errorProto))

	weakRefProto := h.NewObject(objectProto)
	r.Intrinsics.Set(realm.WeakRefPrototype, weakRefProto)

	bootstrapArrayPrototype(h, functionProto, arrayProto)
	bootstrapWeakRefPrototype(h, functionProto, weakRefProto)

	proxyCtor := h.NewBuiltinFunction(functionProto, "Proxy", 2, "Proxy")
	r.Intrinsics.Set(realm.ProxyConstructor, proxyCtor)
	registry["Proxy"] = func(ev *Evaluator, scope *gcscope.GCScope, thisArg heap.Value, args []heap.Value) result.JsResult[heap.Value] {
		return result.Exception[heap.Value](ev.newError(scope, heap.ErrorType, "constructor Proxy requires 'new'"))
	}

	weakRefCtor := h.NewBuiltinFunction(functionProto, "WeakRef", 1, "WeakRef")
	r.Intrinsics.Set(realm.WeakRefConstructor, weakRefCtor)
	registry["WeakRef"] = func(ev *Evaluator, scope *gcscope.GCScope, thisArg heap.Value, args []heap.Value) result.JsResult[heap.Value] {
		return result.Exception[heap.Value](ev.newError(scope, heap.ErrorType, "constructor WeakRef requires 'new'"))
	}

	bindTopLevel(h, r.GlobalEnv, "Proxy", proxyCtor)
	bindTopLevel(h, r.GlobalEnv, "WeakRef", weakRefCtor)

	bootstrapErrorConstructors(h, r, functionProto)
	bootstrapConsole(h, r, functionProto)
	bootstrapSymbol(h, r, functionProto)
	bootstrapObjectGlobal(h, r, functionProto, objectProto)

	gcFn := h.NewBuiltinFunction(functionProto, "gc", 0, "gc")
	registry["gc"] = func(ev *Evaluator, scope *gcscope.GCScope, thisArg heap.Value, args []heap.Value) result.JsResult[heap.Value] {
		ev.forceCollect(scope)

		return result.Return(heap.Undefined())
	}
	bindTopLevel(h, r.GlobalEnv, "gc", gcFn)

	// Root every intrinsic so a collection keeps it alive.
	r.Intrinsics.Each(func(v heap.Value) { h.AddGlobalRoot(v) })

	return ev
}

// errorKindForKey recovers the ErrorKind a "new-error:<Name>" registry
// key was minted for, the inverse of the name bootstrapErrorConstructors
// gives each error constructor's BuiltinFunctionData.Key.
func errorKindForKey(key string) (heap.ErrorKind, bool) {
	name, ok := strings.CutPrefix(key, "new-error:")
	if !ok {
		return 0, false
	}
	switch name {
	case "TypeError":
		return heap.ErrorType, true
	case "RangeError":
		return heap.ErrorRange, true
	case "ReferenceError":
		return heap.ErrorReference, true
	case "SyntaxError":
		return heap.ErrorSyntax, true
	case "URIError":
		return heap.ErrorURI, true
	case "EvalError":
		return heap.ErrorEval, true
	case "Error":
		return heap.ErrorGeneric, true
	default:
		return 0, false
	}
}

func bootstrapErrorConstructors(h *heap.Heap, r *realm.Realm, functionProto heap.Value) {
	kinds := []struct {
		name string
		kind heap.ErrorKind
		slot realm.Intrinsic
	}{
		{"Error", heap.ErrorGeneric, realm.ErrorPrototype},
		{"TypeError", heap.ErrorType, realm.TypeErrorPrototype},
		{"RangeError", heap.ErrorRange, realm.RangeErrorPrototype},
		{"ReferenceError", heap.ErrorReference, realm.ReferenceErrorPrototype},
		{"SyntaxError", heap.ErrorSyntax, realm.SyntaxErrorPrototype},
		{"EvalError", heap.ErrorEval, realm.EvalErrorPrototype},
		{"URIError", heap.ErrorURI, realm.URIErrorPrototype},
	}

	for _, k := range kinds {
		key := "new-error:" + k.name
		ctor := h.NewBuiltinFunction(functionProto, k.name, 1, key)
		proto := r.Intrinsics.Get(k.slot)
		object.DefineOwnProperty(h, ctor, stringPropertyKey(h, "prototype"), heap.NewDataDescriptor(proto, false, false, false))
		object.DefineOwnProperty(h, proto, stringPropertyKey(h, "constructor"), heap.NewDataDescriptor(ctor, true, false, true))
		object.DefineOwnProperty(h, proto, stringPropertyKey(h, "name"), heap.NewDataDescriptor(h.NewString(k.name), true, false, true))

		kind := k.kind
		registry[key] = func(ev *Evaluator, scope *gcscope.GCScope, thisArg heap.Value, args []heap.Value) result.JsResult[heap.Value] {
			msg := ""
			if len(args) > 0 {
				msg = ev.toDisplayString(args[0])
			}

			return result.Return(ev.newError(scope, kind, msg))
		}

		bindTopLevel(h, r.GlobalEnv, k.name, ctor)
	}
}

func bootstrapConsole(h *heap.Heap, r *realm.Realm, functionProto heap.Value) {
	logFn := h.NewBuiltinFunction(functionProto, "log", 0, "console.log")
	registry["console.log"] = func(ev *Evaluator, scope *gcscope.GCScope, thisArg heap.Value, args []heap.Value) result.JsResult[heap.Value] {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = ev.toDisplayString(a)
		}
		fmt.Fprintln(os.Stdout, strings.Join(parts, " "))

		return result.Return(heap.Undefined())
	}

	console := h.NewObject(heap.Null())
	object.DefineOwnProperty(h, console, stringPropertyKey(h, "log"), heap.NewDataDescriptor(logFn, true, false, true))
	bindTopLevel(h, r.GlobalEnv, "console", console)
}

func bootstrapSymbol(h *heap.Heap, r *realm.Realm, functionProto heap.Value) {
	symbolFn := h.NewBuiltinFunction(functionProto, "Symbol", 1, "Symbol")
	registry["Symbol"] = func(ev *Evaluator, scope *gcscope.GCScope, thisArg heap.Value, args []heap.Value) result.JsResult[heap.Value] {
		h := ev.Realm.Heap
		desc := heap.None[heap.Value]()
		if len(args) > 0 && !args[0].IsUndefined() {
			desc = heap.Some(h.NewString(ev.toDisplayString(args[0])))
		}
		sym := h.NewSymbol(desc, [16]byte(uuid.New()))
		scope.NoteAllocation()

		return result.Return(sym)
	}
	bindTopLevel(h, r.GlobalEnv, "Symbol", symbolFn)
}

func bootstrapObjectGlobal(h *heap.Heap, r *realm.Realm, functionProto, objectProto heap.Value) {
	objectCtor := h.NewBuiltinFunction(functionProto, "Object", 1, "Object")
	registry["Object"] = func(ev *Evaluator, scope *gcscope.GCScope, thisArg heap.Value, args []heap.Value) result.JsResult[heap.Value] {
		if len(args) > 0 && args[0].IsObject() {
			return result.Return(args[0])
		}
		obj := ev.Realm.Heap.NewObject(ev.Realm.Intrinsics.Get(realm.ObjectPrototype))
		scope.NoteAllocation()

		return result.Return(obj)
	}

	getSymbolsFn := h.NewBuiltinFunction(functionProto, "getOwnPropertySymbols", 1, "Object.getOwnPropertySymbols")
	registry["Object.getOwnPropertySymbols"] = func(ev *Evaluator, scope *gcscope.GCScope, thisArg heap.Value, args []heap.Value) result.JsResult[heap.Value] {
		h := ev.Realm.Heap
		var symbols []heap.Value
		if len(args) > 0 && args[0].IsObject() {
			for _, k := range object.OwnPropertyKeys(h, args[0]) {
				if !k.IsArrayIndex() && k.Value().IsSymbol() {
					symbols = append(symbols, k.Value())
				}
			}
		}
		arr := h.NewArray(ev.Realm.Intrinsics.Get(realm.ArrayPrototype), symbols)
		scope.NoteAllocation()

		return result.Return(arr)
	}
	object.DefineOwnProperty(h, objectCtor, stringPropertyKey(h, "getOwnPropertySymbols"),
		heap.NewDataDescriptor(getSymbolsFn, true, false, true))
	object.DefineOwnProperty(h, objectCtor, stringPropertyKey(h, "prototype"),
		heap.NewDataDescriptor(objectProto, false, false, false))

	bindTopLevel(h, r.GlobalEnv, "Object", objectCtor)
}

func bootstrapArrayPrototype(h *heap.Heap, functionProto, arrayProto heap.Value) {
	pushFn := h.NewBuiltinFunction(functionProto, "push", 1, "Array.prototype.push")
	registry["Array.prototype.push"] = func(ev *Evaluator, scope *gcscope.GCScope, thisArg heap.Value, args []heap.Value) result.JsResult[heap.Value] {
		if thisArg.Tag() != heap.TagArray {
			return result.Exception[heap.Value](ev.newError(scope, heap.ErrorType, "Array.prototype.push called on a non-array"))
		}
		arr := ev.Realm.Heap.Array(thisArg)
		arr.Elements = append(arr.Elements, args...)
		scope.NoteAllocation()

		return result.Return(heap.FromInt32(int32(len(arr.Elements))))
	}
	object.DefineOwnProperty(h, arrayProto, stringPropertyKey(h, "push"), heap.NewDataDescriptor(pushFn, true, false, true))

	popFn := h.NewBuiltinFunction(functionProto, "pop", 0, "Array.prototype.pop")
	registry["Array.prototype.pop"] = func(ev *Evaluator, scope *gcscope.GCScope, thisArg heap.Value, args []heap.Value) result.JsResult[heap.Value] {
		if thisArg.Tag() != heap.TagArray {
			return result.Exception[heap.Value](ev.newError(scope, heap.ErrorType, "Array.prototype.pop called on a non-array"))
		}
		arr := ev.Realm.Heap.Array(thisArg)
		if len(arr.Elements) == 0 {
			return result.Return(heap.Undefined())
		}
		last := arr.Elements[len(arr.Elements)-1]
		arr.Elements = arr.Elements[:len(arr.Elements)-1]

		return result.Return(last)
	}
	object.DefineOwnProperty(h, arrayProto, stringPropertyKey(h, "pop"), heap.NewDataDescriptor(popFn, true, false, true))

	reduceFn := h.NewBuiltinFunction(functionProto, "reduce", 1, "Array.prototype.reduce")
	registry["Array.prototype.reduce"] = func(ev *Evaluator, scope *gcscope.GCScope, thisArg heap.Value, args []heap.Value) result.JsResult[heap.Value] {
		h := ev.Realm.Heap
		if thisArg.Tag() != heap.TagArray {
			return result.Exception[heap.Value](ev.newError(scope, heap.ErrorType, "Array.prototype.reduce called on a non-array"))
		}
		if len(args) == 0 || !args[0].IsCallable() {
			return result.Exception[heap.Value](ev.newError(scope, heap.ErrorType, "reduce callback is not a function"))
		}
		callback := args[0]
		elements := h.Array(thisArg).Elements

		var acc heap.Value
		start := 0
		if len(args) > 1 {
			acc = args[1]
		} else {
			if len(elements) == 0 {
				return result.Exception[heap.Value](ev.newError(scope, heap.ErrorType, "Reduce of empty array with no initial value"))
			}
			acc = elements[0]
			start = 1
		}

		for i := start; i < len(elements); i++ {
			r := ev.callAsFunction(scope, callback, heap.Undefined(),
				[]heap.Value{acc, elements[i], h.NewNumber(float64(i)), thisArg})
			if !r.IsReturn() {
				return r
			}
			acc = r.Value()
		}

		return result.Return(acc)
	}
	object.DefineOwnProperty(h, arrayProto, stringPropertyKey(h, "reduce"), heap.NewDataDescriptor(reduceFn, true, false, true))
}

func bootstrapWeakRefPrototype(h *heap.Heap, functionProto, weakRefProto heap.Value) {
	derefFn := h.NewBuiltinFunction(functionProto, "deref", 0, "WeakRef.prototype.deref")
	registry["WeakRef.prototype.deref"] = func(ev *Evaluator, scope *gcscope.GCScope, thisArg heap.Value, args []heap.Value) result.JsResult[heap.Value] {
		if thisArg.Tag() != heap.TagWeakRef {
			return result.Exception[heap.Value](ev.newError(scope, heap.ErrorType, "WeakRef.prototype.deref called on a non-WeakRef"))
		}

		return result.Return(ev.Realm.Heap.WeakRef(thisArg).Target)
	}
	object.DefineOwnProperty(h, weakRefProto, stringPropertyKey(h, "deref"), heap.NewDataDescriptor(derefFn, true, false, true))
}
