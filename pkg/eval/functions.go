package eval

import (
	"github.com/conneroisu/esvm/internal/ast"
	"github.com/conneroisu/esvm/internal/env"
	"github.com/conneroisu/esvm/internal/gcscope"
	"github.com/conneroisu/esvm/internal/heap"
	"github.com/conneroisu/esvm/internal/object"
	"github.com/conneroisu/esvm/internal/realm"
	"github.com/conneroisu/esvm/internal/result"
)

// builtin is the Go implementation behind one BuiltinFunctionData.Key entry.
// It receives thisArg already resolved and args already evaluated.
type builtin func(ev *Evaluator, scope *gcscope.GCScope, thisArg heap.Value, args []heap.Value) result.JsResult[heap.Value]

// registry maps every BuiltinFunctionData.Key this evaluator knows about to
// its Go implementation; populated once by Bootstrap (builtins.go).
var registry = map[string]builtin{}

// makeFunction allocates the heap Value for a function expression or
// declaration, closing over ctx's current lexical environment so the
// function's free variables resolve against the scope it was defined in
// (§4.6 closures). The *ast.FunctionLiteral itself is stored verbatim as
// the opaque Body, so IsArrow/Params/RestParam/IsExprBody/ExprBody/Body
// are all still reachable at call time without a parallel representation.
func (ev *Evaluator) makeFunction(scope *gcscope.GCScope, ctx *realm.ExecutionContext, fn *ast.FunctionLiteral) heap.Value {
	h := ev.Realm.Heap
	proto := ev.Realm.Intrinsics.Get(realm.FunctionPrototype)

	return h.NewECMAScriptFunction(proto, fn.Name, fn.Params, fn, ctx.Lexical, false)
}

// callFunction invokes fn (any callable Value) with thisArg and args,
// dispatching on its heap tag. The returned completion's signal is always
// signalNone or signalReturn — break/continue never escape a function
// boundary (the parser only allows them inside loops, which this
// evaluator also enforces by simply discarding an escaping one at the
// loop level; see control_flow.go).
func (ev *Evaluator) callFunction(scope *gcscope.GCScope, fn, thisArg heap.Value, args []heap.Value) result.JsResult[completion] {
	switch fn.Tag() {
	case heap.TagECMAScriptFunction:
		return ev.callECMAScriptFunction(scope, fn, thisArg, args)

	case heap.TagBuiltinFunction:
		data := ev.Realm.Heap.BuiltinFunction(fn)
		impl, ok := registry[data.Key]
		if !ok {
			return valueToCompletion(result.Exception[heap.Value](
				ev.newError(scope, heap.ErrorType, "builtin not implemented: "+data.Key)))
		}
		r := impl(ev, scope, thisArg, args)
		if !r.IsReturn() {
			return valueToCompletion(r)
		}

		return result.Return(normal(r.Value()))

	case heap.TagBoundFunction:
		data := ev.Realm.Heap.BoundFunction(fn)
		combined := make([]heap.Value, 0, len(data.BoundArgs)+len(args))
		combined = append(combined, data.BoundArgs...)
		combined = append(combined, args...)

		return ev.callFunction(scope, data.Target, data.BoundThis, combined)

	default:
		return valueToCompletion(result.Exception[heap.Value](
			ev.newError(scope, heap.ErrorType, "value is not callable")))
	}
}

// callECMAScriptFunction runs a user-defined function's body against a
// fresh call environment. Arrow functions (fn.IsArrow) bind no `this` of
// their own: env.New leaves env.ThisValue's outer walk to find the
// nearest enclosing function/global `this`, which is exactly lexical
// `this` capture with no further special-casing required.
func (ev *Evaluator) callECMAScriptFunction(scope *gcscope.GCScope, fnVal, thisArg heap.Value, args []heap.Value) result.JsResult[completion] {
	h := ev.Realm.Heap
	data := h.ECMAScriptFunction(fnVal)
	lit, ok := data.Body.(*ast.FunctionLiteral)
	if !ok {
		return valueToCompletion(result.Exception[heap.Value](
			ev.newError(scope, heap.ErrorType, "corrupt function body")))
	}

	outer := heap.Some(data.Environment)
	var callEnv envRef
	if lit.IsArrow {
		callEnv = env.New(h, outer)
	} else {
		callEnv = env.NewFunction(h, outer, thisArg)
	}

	for i, name := range lit.Params {
		var v heap.Value = heap.Undefined()
		if i < len(args) {
			v = args[i]
		}
		env.CreateMutableBinding(h, callEnv, name)
		env.InitializeBinding(h, callEnv, name, v)
	}
	if lit.RestParam != "" {
		var rest []heap.Value
		if len(args) > len(lit.Params) {
			rest = append(rest, args[len(lit.Params):]...)
		}
		arr := h.NewArray(ev.Realm.Intrinsics.Get(realm.ArrayPrototype), rest)
		env.CreateMutableBinding(h, callEnv, lit.RestParam)
		env.InitializeBinding(h, callEnv, lit.RestParam, arr)
	}

	ctx := &realm.ExecutionContext{
		Realm:    ev.Realm,
		Lexical:  callEnv,
		Variable: callEnv,
	}
	if err := ev.Realm.Contexts.Push(ctx); err != nil {
		return valueToCompletion(result.Exception[heap.Value](ev.newError(scope, heap.ErrorRange, err.Error())))
	}
	defer ev.Realm.Contexts.Pop()

	if lit.IsExprBody {
		r := ev.evalExpr(scope, ctx, lit.ExprBody)

		return result.Map(r, normal)
	}

	ev.hoistFunctions(scope, ctx, lit.Body)
	r := ev.evalStatements(scope, ctx, lit.Body)
	if !r.IsReturn() {
		return r
	}
	c := r.Value()
	if c.signal == signalReturn {
		return result.Return(normal(c.value))
	}

	return result.Return(normal(heap.Undefined()))
}

// construct implements the `new` operator (§4.3 expansion): evaluate
// ctor's own/inherited "prototype" property to seed the allocated
// object's [[Prototype]], invoke ctor with that object as `this`, then
// prefer ctor's own return value when it is an object — the one rule
// that also transparently covers builtin constructors (Error, Array,
// ...) that must return an exotic heap kind instead of mutating the
// ordinary object handed to them.
func (ev *Evaluator) construct(scope *gcscope.GCScope, ctor heap.Value, args []heap.Value) result.JsResult[heap.Value] {
	h := ev.Realm.Heap
	if !ctor.IsCallable() {
		return result.Exception[heap.Value](ev.newError(scope, heap.ErrorType, "not a constructor"))
	}

	// Proxy and WeakRef build an exotic heap kind no ordinary-object
	// allocation can produce, so `new` short-circuits the generic path
	// for exactly these two well-known constructors (§8 scenarios 3/4).
	if h.StrictEquals(ctor, ev.Realm.Intrinsics.Get(realm.ProxyConstructor)) {
		if len(args) < 2 || !args[0].IsObject() || !args[1].IsObject() {
			return result.Exception[heap.Value](ev.newError(scope, heap.ErrorType, "Proxy requires a target and a handler object"))
		}
		proxy := h.NewProxy(args[0], args[1])
		scope.NoteAllocation()

		return result.Return(proxy)
	}
	if h.StrictEquals(ctor, ev.Realm.Intrinsics.Get(realm.WeakRefConstructor)) {
		var target heap.Value = heap.Undefined()
		if len(args) > 0 {
			target = args[0]
		}
		if !target.IsObject() {
			return result.Exception[heap.Value](ev.newError(scope, heap.ErrorType, "WeakRef target must be an object"))
		}
		ref := h.NewWeakRef(target)
		scope.NoteAllocation()

		return result.Return(ref)
	}

	// Error-family constructors (TypeError, RangeError, ...) likewise
	// build the ErrorData heap kind directly: a plain ordinary object
	// has nowhere to store Kind, and errorFieldGet (operators.go) only
	// special-cases actual Error-tagged Values.
	if ctor.Tag() == heap.TagBuiltinFunction {
		if kind, ok := errorKindForKey(h.BuiltinFunction(ctor).Key); ok {
			msg := ""
			if len(args) > 0 {
				msg = ev.toDisplayString(args[0])
			}
			protoKey := heap.PropertyKeyFromValue(h.NewString("prototype"))
			protoR := object.Get(h, ctor, ctor, protoKey, ev.caller(scope))
			if !protoR.IsReturn() {
				return protoR
			}
			proto := protoR.Value()
			if !proto.IsObject() {
				proto = ev.Realm.Intrinsics.Get(prototypeFor(kind))
			}
			errVal := h.NewError(proto, kind, msg)
			scope.NoteAllocation()

			return result.Return(errVal)
		}
	}

	protoKey := heap.PropertyKeyFromValue(h.NewString("prototype"))
	protoR := object.Get(h, ctor, ctor, protoKey, ev.caller(scope))
	if !protoR.IsReturn() {
		return protoR
	}
	proto := protoR.Value()
	if !proto.IsObject() {
		proto = ev.Realm.Intrinsics.Get(realm.ObjectPrototype)
	}

	this := gcscope.NewScoped(scope, h.NewObject(proto))
	r := ev.callFunction(scope, ctor, this.Get(), args)
	if !r.IsReturn() {
		return completionToValue(r)
	}
	if ret := r.Value().value; ret.IsObject() {
		return result.Return(ret)
	}

	return result.Return(this.Get())
}

// bindTopLevel declares name in env and initializes it with v in one
// step, the binding lifecycle a function/var declaration's hoisted slot
// always follows (no temporal dead zone, unlike let/const — see
// evalVarDeclaration in control_flow.go).
func bindTopLevel(h *heap.Heap, e envRef, name string, v heap.Value) {
	env.CreateMutableBinding(h, e, name)
	env.InitializeBinding(h, e, name, v)
}

// newError allocates an Error object of kind with message, rooted at the
// matching intrinsic prototype (falling back to the bare ErrorPrototype
// if a more specific one was never populated — see Bootstrap).
func (ev *Evaluator) newError(scope *gcscope.GCScope, kind heap.ErrorKind, message string) heap.Value {
	proto := ev.Realm.Intrinsics.Get(prototypeFor(kind))

	return ev.Realm.Heap.NewError(proto, kind, message)
}

func prototypeFor(kind heap.ErrorKind) realm.Intrinsic {
	switch kind {
	case heap.ErrorType:
		return realm.TypeErrorPrototype
	case heap.ErrorRange:
		return realm.RangeErrorPrototype
	case heap.ErrorReference:
		return realm.ReferenceErrorPrototype
	case heap.ErrorSyntax:
		return realm.SyntaxErrorPrototype
	case heap.ErrorURI:
		return realm.URIErrorPrototype
	case heap.ErrorEval:
		return realm.EvalErrorPrototype
	default:
		return realm.ErrorPrototype
	}
}
