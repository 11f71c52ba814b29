package eval

import (
	"math"
	"strconv"
	"strings"

	"github.com/conneroisu/esvm/internal/ast"
	"github.com/conneroisu/esvm/internal/env"
	"github.com/conneroisu/esvm/internal/gcscope"
	"github.com/conneroisu/esvm/internal/heap"
	"github.com/conneroisu/esvm/internal/host/convert"
	"github.com/conneroisu/esvm/internal/object"
	"github.com/conneroisu/esvm/internal/realm"
	"github.com/conneroisu/esvm/internal/result"
)

// evalExpr evaluates one expression node, returning its value or
// propagating an exception/kill. Object, array, function and similar
// allocations taken along the way feed scope.NoteAllocation so the
// realm's allocation safepoint (§4.5) has allocations to count against
// the watermark; number and string allocations are not counted — see
// doc.go's note on where counting happens, since Heap's own constructors
// take no GCScope argument.
func (ev *Evaluator) evalExpr(scope *gcscope.GCScope, ctx *realm.ExecutionContext, e ast.Expr) result.JsResult[heap.Value] {
	h := ev.Realm.Heap

	switch n := e.(type) {
	case *ast.NumberLiteral:
		return result.Return(h.NewNumber(n.Value))

	case *ast.StringLiteral:
		return result.Return(h.NewString(n.Value))

	case *ast.BoolLiteral:
		return result.Return(heap.FromBool(n.Value))

	case *ast.NullLiteral:
		return result.Return(heap.Null())

	case *ast.UndefinedLiteral:
		return result.Return(heap.Undefined())

	case *ast.ThisExpr:
		return result.Return(env.ThisValue(h, ctx.Lexical))

	case *ast.Identifier:
		v, err := env.GetBindingValue(h, ctx.Lexical, n.Name)
		if err != nil {
			return result.Exception[heap.Value](ev.newError(scope, heap.ErrorReference, err.Error()))
		}

		return result.Return(v)

	case *ast.ArrayLiteral:
		return ev.evalArrayLiteral(scope, ctx, n)

	case *ast.ObjectLiteral:
		return ev.evalObjectLiteral(scope, ctx, n)

	case *ast.FunctionLiteral:
		fnVal := ev.makeFunction(scope, ctx, n)
		scope.NoteAllocation()

		return result.Return(fnVal)

	case *ast.UnaryExpr:
		return ev.evalUnaryExpr(scope, ctx, n)

	case *ast.UpdateExpr:
		return ev.evalUpdateExpr(scope, ctx, n)

	case *ast.BinaryExpr:
		return ev.evalBinaryExpr(scope, ctx, n)

	case *ast.LogicalExpr:
		return ev.evalLogicalExpr(scope, ctx, n)

	case *ast.AssignExpr:
		return ev.evalAssignExpr(scope, ctx, n)

	case *ast.ConditionalExpr:
		testR := ev.evalExpr(scope, ctx, n.Test)
		if !testR.IsReturn() {
			return testR
		}
		if ev.toBoolean(testR.Value()) {
			return ev.evalExpr(scope, ctx, n.Consequent)
		}

		return ev.evalExpr(scope, ctx, n.Alternate)

	case *ast.CallExpr:
		return ev.evalCallExpr(scope, ctx, n)

	case *ast.NewExpr:
		return ev.evalNewExpr(scope, ctx, n)

	case *ast.MemberExpr:
		v, _, r := ev.evalMemberExpr(scope, ctx, n)
		if !r.IsReturn() {
			return r
		}

		return result.Return(v)

	case *ast.SequenceExpr:
		var last heap.Value = heap.Undefined()
		for _, sub := range n.Expressions {
			r := ev.evalExpr(scope, ctx, sub)
			if !r.IsReturn() {
				return r
			}
			last = r.Value()
		}

		return result.Return(last)

	default:
		return result.Exception[heap.Value](ev.newError(scope, heap.ErrorType, "expression kind not supported by this evaluator"))
	}
}

func (ev *Evaluator) evalArrayLiteral(scope *gcscope.GCScope, ctx *realm.ExecutionContext, n *ast.ArrayLiteral) result.JsResult[heap.Value] {
	h := ev.Realm.Heap
	elements := make([]heap.Value, 0, len(n.Elements))
	for i, el := range n.Elements {
		if el == nil {
			elements = append(elements, heap.Undefined())

			continue
		}
		r := ev.evalExpr(scope, ctx, el)
		if !r.IsReturn() {
			return r
		}
		if i < len(n.Spreads) && n.Spreads[i] {
			spread, ok := spreadElements(h, r.Value())
			if !ok {
				return result.Exception[heap.Value](ev.newError(scope, heap.ErrorType, "spread target is not iterable"))
			}
			elements = append(elements, spread...)

			continue
		}
		elements = append(elements, r.Value())
	}

	arr := h.NewArray(ev.Realm.Intrinsics.Get(realm.ArrayPrototype), elements)
	scope.NoteAllocation()

	return result.Return(arr)
}

func (ev *Evaluator) evalObjectLiteral(scope *gcscope.GCScope, ctx *realm.ExecutionContext, n *ast.ObjectLiteral) result.JsResult[heap.Value] {
	h := ev.Realm.Heap
	obj := h.NewObject(ev.Realm.Intrinsics.Get(realm.ObjectPrototype))
	scope.NoteAllocation()
	root := gcscope.NewScoped(scope, obj)

	for _, prop := range n.Properties {
		if prop.Spread {
			r := ev.evalExpr(scope, ctx, prop.Value)
			if !r.IsReturn() {
				return r
			}
			if r.Value().IsObject() {
				for _, k := range object.OwnPropertyKeys(h, r.Value()) {
					desc, ok := object.GetOwnProperty(h, r.Value(), k)
					if ok && desc.Enumerable {
						object.DefineOwnProperty(h, root.Get(), k, desc)
					}
				}
			}

			continue
		}

		var key heap.PropertyKey
		if prop.Computed {
			kr := ev.evalExpr(scope, ctx, prop.Key)
			if !kr.IsReturn() {
				return kr
			}
			key = ev.toPropertyKey(kr.Value())
		} else {
			key = literalKey(h, prop.Key)
		}

		vr := ev.evalExpr(scope, ctx, prop.Value)
		if !vr.IsReturn() {
			return vr
		}
		object.DefineOwnProperty(h, root.Get(), key, heap.NewDataDescriptor(vr.Value(), true, true, true))
	}

	return result.Return(root.Get())
}

// literalKey resolves a non-computed object-literal or member-expression
// property key node: an Identifier's Name is used verbatim (never looked
// up as a variable), and a StringLiteral/NumberLiteral's own value is
// canonicalized the same way a computed key would be.
func literalKey(h *heap.Heap, keyNode ast.Expr) heap.PropertyKey {
	switch k := keyNode.(type) {
	case *ast.Identifier:
		return stringPropertyKey(h, k.Name)
	case *ast.StringLiteral:
		return stringPropertyKey(h, k.Value)
	case *ast.NumberLiteral:
		return stringPropertyKey(h, formatNumber(k.Value))
	default:
		return heap.PropertyKeyFromValue(h.NewString(""))
	}
}

// stringPropertyKey canonicalizes s into an array-index key when it is
// one (§4.3: array-index keys and their string form must collide),
// otherwise a plain string key.
func stringPropertyKey(h *heap.Heap, s string) heap.PropertyKey {
	if idx, ok := parseArrayIndex(s); ok {
		return heap.PropertyKeyFromIndex(idx)
	}

	return heap.PropertyKeyFromValue(h.NewString(s))
}

// parseArrayIndex reports whether s is the canonical decimal form of a
// uint32 array index ("0", "1", ... — never "-1", "01", or "4294967296").
func parseArrayIndex(s string) (uint32, bool) {
	if s == "" {
		return 0, false
	}
	if s == "0" {
		return 0, true
	}
	if s[0] == '0' || s[0] < '1' || s[0] > '9' {
		return 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}

	return uint32(n), true
}

// toPropertyKey implements ECMAScript's ToPropertyKey (§3.3): symbols
// pass through by identity, everything else is coerced to a string (and
// canonicalized to an array index when applicable).
func (ev *Evaluator) toPropertyKey(v heap.Value) heap.PropertyKey {
	h := ev.Realm.Heap
	if v.IsSymbol() {
		return heap.PropertyKeyFromValue(v)
	}

	return stringPropertyKey(h, ev.toDisplayString(v))
}

// spreadElements returns v's elements for an array-spread position: an
// Array's dense Elements, or each character of a string as a one-
// character string Value. Objects and other non-iterables report ok ==
// false (spec.md's core never implements the general iterator protocol;
// see doc.go's ambient simplifications).
func spreadElements(h *heap.Heap, v heap.Value) ([]heap.Value, bool) {
	switch v.Tag() {
	case heap.TagArray:
		elems := h.Array(v).Elements
		out := make([]heap.Value, len(elems))
		copy(out, elems)

		return out, true
	case heap.TagSmallString, heap.TagHeapString:
		s := h.StringValue(v)
		out := make([]heap.Value, 0, len(s))
		for _, r := range s {
			out = append(out, h.NewString(string(r)))
		}

		return out, true
	default:
		return nil, false
	}
}

func (ev *Evaluator) evalUnaryExpr(scope *gcscope.GCScope, ctx *realm.ExecutionContext, n *ast.UnaryExpr) result.JsResult[heap.Value] {
	h := ev.Realm.Heap
	if n.Operator == "typeof" {
		if id, ok := n.Operand.(*ast.Identifier); ok {
			if !bindingDeclaredAnywhere(h, ctx.Lexical, id.Name) {
				return result.Return(h.NewString("undefined"))
			}
		}
		r := ev.evalExpr(scope, ctx, n.Operand)
		if !r.IsReturn() {
			return r
		}

		return result.Return(h.NewString(ev.typeOf(r.Value())))
	}
	if n.Operator == "delete" {
		if m, ok := n.Operand.(*ast.MemberExpr); ok {
			objR := ev.evalExpr(scope, ctx, m.Object)
			if !objR.IsReturn() {
				return objR
			}
			key, r := ev.memberKey(scope, ctx, m)
			if !r.IsReturn() {
				return r
			}
			if objR.Value().IsObject() {
				object.DeleteOwnProperty(h, objR.Value(), key)
			}

			return result.Return(heap.FromBool(true))
		}

		return result.Return(heap.FromBool(true))
	}

	r := ev.evalExpr(scope, ctx, n.Operand)
	if !r.IsReturn() {
		return r
	}
	v := r.Value()

	switch n.Operator {
	case "-":
		return result.Return(h.NewNumber(-ev.toNumber(v)))
	case "+":
		return result.Return(h.NewNumber(ev.toNumber(v)))
	case "!":
		return result.Return(heap.FromBool(!ev.toBoolean(v)))
	case "~":
		return result.Return(h.NewNumber(float64(^toInt32(ev.toNumber(v)))))
	case "void":
		return result.Return(heap.Undefined())
	default:
		return result.Exception[heap.Value](ev.newError(scope, heap.ErrorSyntax, "unsupported unary operator "+n.Operator))
	}
}

func (ev *Evaluator) evalUpdateExpr(scope *gcscope.GCScope, ctx *realm.ExecutionContext, n *ast.UpdateExpr) result.JsResult[heap.Value] {
	h := ev.Realm.Heap
	oldR := ev.evalExpr(scope, ctx, n.Operand)
	if !oldR.IsReturn() {
		return oldR
	}
	oldNum := ev.toNumber(oldR.Value())
	var newNum float64
	if n.Operator == "++" {
		newNum = oldNum + 1
	} else {
		newNum = oldNum - 1
	}
	newVal := h.NewNumber(newNum)

	if r := ev.assignTo(scope, ctx, n.Operand, newVal); !r.IsReturn() {
		return r
	}
	if n.Prefix {
		return result.Return(newVal)
	}

	return result.Return(h.NewNumber(oldNum))
}

func (ev *Evaluator) evalBinaryExpr(scope *gcscope.GCScope, ctx *realm.ExecutionContext, n *ast.BinaryExpr) result.JsResult[heap.Value] {
	h := ev.Realm.Heap

	if n.Operator == "instanceof" {
		return ev.evalInstanceof(scope, ctx, n)
	}
	if n.Operator == "in" {
		return ev.evalIn(scope, ctx, n)
	}

	lr := ev.evalExpr(scope, ctx, n.Left)
	if !lr.IsReturn() {
		return lr
	}
	rr := ev.evalExpr(scope, ctx, n.Right)
	if !rr.IsReturn() {
		return rr
	}
	l, r := lr.Value(), rr.Value()

	switch n.Operator {
	case "+":
		if l.IsString() || r.IsString() {
			return result.Return(h.NewString(ev.toDisplayString(l) + ev.toDisplayString(r)))
		}

		return result.Return(h.NewNumber(ev.toNumber(l) + ev.toNumber(r)))
	case "-":
		return result.Return(h.NewNumber(ev.toNumber(l) - ev.toNumber(r)))
	case "*":
		return result.Return(h.NewNumber(ev.toNumber(l) * ev.toNumber(r)))
	case "/":
		return result.Return(h.NewNumber(ev.toNumber(l) / ev.toNumber(r)))
	case "%":
		return result.Return(h.NewNumber(math.Mod(ev.toNumber(l), ev.toNumber(r))))
	case "**":
		return result.Return(h.NewNumber(math.Pow(ev.toNumber(l), ev.toNumber(r))))
	case "&":
		return result.Return(h.NewNumber(float64(toInt32(ev.toNumber(l)) & toInt32(ev.toNumber(r)))))
	case "|":
		return result.Return(h.NewNumber(float64(toInt32(ev.toNumber(l)) | toInt32(ev.toNumber(r)))))
	case "^":
		return result.Return(h.NewNumber(float64(toInt32(ev.toNumber(l)) ^ toInt32(ev.toNumber(r)))))
	case "<<":
		return result.Return(h.NewNumber(float64(toInt32(ev.toNumber(l)) << (uint32(toInt32(ev.toNumber(r))) & 31))))
	case ">>":
		return result.Return(h.NewNumber(float64(toInt32(ev.toNumber(l)) >> (uint32(toInt32(ev.toNumber(r))) & 31))))
	case ">>>":
		return result.Return(h.NewNumber(float64(uint32(toInt32(ev.toNumber(l))) >> (uint32(toInt32(ev.toNumber(r))) & 31))))
	case "<":
		return ev.relational(l, r, func(a, b float64) bool { return a < b }, func(a, b string) bool { return a < b })
	case ">":
		return ev.relational(l, r, func(a, b float64) bool { return a > b }, func(a, b string) bool { return a > b })
	case "<=":
		return ev.relational(l, r, func(a, b float64) bool { return a <= b }, func(a, b string) bool { return a <= b })
	case ">=":
		return ev.relational(l, r, func(a, b float64) bool { return a >= b }, func(a, b string) bool { return a >= b })
	case "==":
		return result.Return(heap.FromBool(ev.looseEquals(l, r)))
	case "!=":
		return result.Return(heap.FromBool(!ev.looseEquals(l, r)))
	case "===":
		return result.Return(heap.FromBool(h.StrictEquals(l, r)))
	case "!==":
		return result.Return(heap.FromBool(!h.StrictEquals(l, r)))
	default:
		return result.Exception[heap.Value](ev.newError(scope, heap.ErrorSyntax, "unsupported binary operator "+n.Operator))
	}
}

func (ev *Evaluator) relational(l, r heap.Value, numCmp func(a, b float64) bool, strCmp func(a, b string) bool) result.JsResult[heap.Value] {
	h := ev.Realm.Heap
	if l.IsString() && r.IsString() {
		return result.Return(heap.FromBool(strCmp(h.StringValue(l), h.StringValue(r))))
	}
	a, b := ev.toNumber(l), ev.toNumber(r)
	if math.IsNaN(a) || math.IsNaN(b) {
		return result.Return(heap.FromBool(false))
	}

	return result.Return(heap.FromBool(numCmp(a, b)))
}

func (ev *Evaluator) evalInstanceof(scope *gcscope.GCScope, ctx *realm.ExecutionContext, n *ast.BinaryExpr) result.JsResult[heap.Value] {
	h := ev.Realm.Heap
	lr := ev.evalExpr(scope, ctx, n.Left)
	if !lr.IsReturn() {
		return lr
	}
	rr := ev.evalExpr(scope, ctx, n.Right)
	if !rr.IsReturn() {
		return rr
	}
	ctor := rr.Value()
	if !ctor.IsCallable() {
		return result.Exception[heap.Value](ev.newError(scope, heap.ErrorType, "right-hand side of instanceof is not callable"))
	}
	if !lr.Value().IsObject() {
		return result.Return(heap.FromBool(false))
	}

	protoKey := heap.PropertyKeyFromValue(h.NewString("prototype"))
	protoR := object.Get(h, ctor, ctor, protoKey, ev.caller(scope))
	if !protoR.IsReturn() {
		return protoR
	}
	target := protoR.Value()
	if !target.IsObject() {
		return result.Return(heap.FromBool(false))
	}

	cur := h.Prototype(lr.Value())
	for depth := 0; depth < 4096 && !cur.IsNullOrUndefined(); depth++ {
		if cur.Tag() == target.Tag() && cur.HeapIndex() == target.HeapIndex() {
			return result.Return(heap.FromBool(true))
		}
		cur = h.Prototype(cur)
	}

	return result.Return(heap.FromBool(false))
}

func (ev *Evaluator) evalIn(scope *gcscope.GCScope, ctx *realm.ExecutionContext, n *ast.BinaryExpr) result.JsResult[heap.Value] {
	h := ev.Realm.Heap
	lr := ev.evalExpr(scope, ctx, n.Left)
	if !lr.IsReturn() {
		return lr
	}
	rr := ev.evalExpr(scope, ctx, n.Right)
	if !rr.IsReturn() {
		return rr
	}
	if !rr.Value().IsObject() {
		return result.Exception[heap.Value](ev.newError(scope, heap.ErrorType, "cannot use 'in' operator on a non-object"))
	}
	key := ev.toPropertyKey(lr.Value())
	if rr.Value().Tag() == heap.TagArray && key.IsArrayIndex() {
		return result.Return(heap.FromBool(key.ArrayIndex() < uint32(len(h.Array(rr.Value()).Elements))))
	}

	return result.Return(heap.FromBool(object.HasProperty(h, rr.Value(), key)))
}

func (ev *Evaluator) evalLogicalExpr(scope *gcscope.GCScope, ctx *realm.ExecutionContext, n *ast.LogicalExpr) result.JsResult[heap.Value] {
	lr := ev.evalExpr(scope, ctx, n.Left)
	if !lr.IsReturn() {
		return lr
	}
	l := lr.Value()

	switch n.Operator {
	case "&&":
		if !ev.toBoolean(l) {
			return result.Return(l)
		}

		return ev.evalExpr(scope, ctx, n.Right)
	case "||":
		if ev.toBoolean(l) {
			return result.Return(l)
		}

		return ev.evalExpr(scope, ctx, n.Right)
	case "??":
		if !l.IsNullOrUndefined() {
			return result.Return(l)
		}

		return ev.evalExpr(scope, ctx, n.Right)
	default:
		return result.Exception[heap.Value](ev.newError(scope, heap.ErrorSyntax, "unsupported logical operator "+n.Operator))
	}
}

func (ev *Evaluator) evalAssignExpr(scope *gcscope.GCScope, ctx *realm.ExecutionContext, n *ast.AssignExpr) result.JsResult[heap.Value] {
	h := ev.Realm.Heap
	valR := ev.evalExpr(scope, ctx, n.Value)
	if !valR.IsReturn() {
		return valR
	}
	newVal := valR.Value()

	if n.Operator != "=" {
		curR := ev.evalExpr(scope, ctx, n.Target)
		if !curR.IsReturn() {
			return curR
		}
		cur := curR.Value()
		op := strings.TrimSuffix(n.Operator, "=")
		switch op {
		case "+":
			if cur.IsString() || newVal.IsString() {
				newVal = h.NewString(ev.toDisplayString(cur) + ev.toDisplayString(newVal))
			} else {
				newVal = h.NewNumber(ev.toNumber(cur) + ev.toNumber(newVal))
			}
		case "-":
			newVal = h.NewNumber(ev.toNumber(cur) - ev.toNumber(newVal))
		case "*":
			newVal = h.NewNumber(ev.toNumber(cur) * ev.toNumber(newVal))
		case "/":
			newVal = h.NewNumber(ev.toNumber(cur) / ev.toNumber(newVal))
		case "%":
			newVal = h.NewNumber(math.Mod(ev.toNumber(cur), ev.toNumber(newVal)))
		default:
			return result.Exception[heap.Value](ev.newError(scope, heap.ErrorSyntax, "unsupported compound assignment "+n.Operator))
		}
	}

	if r := ev.assignTo(scope, ctx, n.Target, newVal); !r.IsReturn() {
		return r
	}

	return result.Return(newVal)
}

// assignTo stores newVal into the location named by target, an
// Identifier or a MemberExpr (the only two valid assignment targets this
// grammar produces — no destructuring patterns, per doc.go).
func (ev *Evaluator) assignTo(scope *gcscope.GCScope, ctx *realm.ExecutionContext, target ast.Expr, newVal heap.Value) result.JsResult[heap.Value] {
	h := ev.Realm.Heap
	switch t := target.(type) {
	case *ast.Identifier:
		err := env.SetMutableBinding(h, ctx.Lexical, t.Name, newVal, true)
		if err != nil {
			if refErr, ok := err.(*env.ReferenceError); ok && refErr.Msg == "not declared in any enclosing scope" {
				// Sloppy-mode implicit global creation (see
				// doc.go): an assignment to an undeclared
				// identifier declares it on the global object instead
				// of throwing.
				bindTopLevel(h, ev.Realm.GlobalEnv, t.Name, newVal)

				return result.Return(newVal)
			}

			return result.Exception[heap.Value](ev.newError(scope, heap.ErrorType, err.Error()))
		}

		return result.Return(newVal)

	case *ast.MemberExpr:
		objR := ev.evalExpr(scope, ctx, t.Object)
		if !objR.IsReturn() {
			return objR
		}
		obj := objR.Value()
		if obj.IsNullOrUndefined() {
			return result.Exception[heap.Value](ev.newError(scope, heap.ErrorType, "cannot set properties of "+ev.toDisplayString(obj)))
		}
		key, r := ev.memberKey(scope, ctx, t)
		if !r.IsReturn() {
			return r
		}

		return ev.memberSet(scope, obj, key, newVal)

	default:
		return result.Exception[heap.Value](ev.newError(scope, heap.ErrorSyntax, "invalid assignment target"))
	}
}

func (ev *Evaluator) evalCallExpr(scope *gcscope.GCScope, ctx *realm.ExecutionContext, n *ast.CallExpr) result.JsResult[heap.Value] {
	var thisArg heap.Value = heap.Undefined()
	var fn heap.Value

	if m, ok := n.Callee.(*ast.MemberExpr); ok {
		objR := ev.evalExpr(scope, ctx, m.Object)
		if !objR.IsReturn() {
			return objR
		}
		if m.Optional && objR.Value().IsNullOrUndefined() {
			return result.Return(heap.Undefined())
		}
		thisArg = objR.Value()
		key, r := ev.memberKey(scope, ctx, m)
		if !r.IsReturn() {
			return r
		}
		fnR := ev.memberGet(scope, thisArg, key)
		if !fnR.IsReturn() {
			return fnR
		}
		fn = fnR.Value()
	} else {
		fnR := ev.evalExpr(scope, ctx, n.Callee)
		if !fnR.IsReturn() {
			return fnR
		}
		fn = fnR.Value()
		thisArg = ev.Realm.GlobalObject
	}

	if n.Optional && fn.IsNullOrUndefined() {
		return result.Return(heap.Undefined())
	}
	if !fn.IsCallable() {
		return result.Exception[heap.Value](ev.newError(scope, heap.ErrorType, "value is not a function"))
	}

	args, r := ev.evalArgs(scope, ctx, n.Args, n.Spreads)
	if !r.IsReturn() {
		return r
	}

	cr := ev.callFunction(scope, fn, thisArg, args)
	if !cr.IsReturn() {
		return completionToValue(cr)
	}

	return result.Return(cr.Value().value)
}

func (ev *Evaluator) evalArgs(scope *gcscope.GCScope, ctx *realm.ExecutionContext, argNodes []ast.Expr, spreads []bool) ([]heap.Value, result.JsResult[heap.Value]) {
	h := ev.Realm.Heap
	args := make([]heap.Value, 0, len(argNodes))
	for i, a := range argNodes {
		r := ev.evalExpr(scope, ctx, a)
		if !r.IsReturn() {
			return nil, r
		}
		if i < len(spreads) && spreads[i] {
			spread, ok := spreadElements(h, r.Value())
			if !ok {
				return nil, result.Exception[heap.Value](ev.newError(scope, heap.ErrorType, "spread target is not iterable"))
			}
			args = append(args, spread...)

			continue
		}
		args = append(args, r.Value())
	}

	return args, result.Return(heap.Undefined())
}

func (ev *Evaluator) evalNewExpr(scope *gcscope.GCScope, ctx *realm.ExecutionContext, n *ast.NewExpr) result.JsResult[heap.Value] {
	ctorR := ev.evalExpr(scope, ctx, n.Callee)
	if !ctorR.IsReturn() {
		return ctorR
	}
	args, r := ev.evalArgs(scope, ctx, n.Args, nil)
	if !r.IsReturn() {
		return r
	}

	return ev.construct(scope, ctorR.Value(), args)
}

// memberKey resolves a MemberExpr's property key without evaluating
// Property as an identifier reference when !Computed (`obj.prop`'s
// `prop` is a bare name, never looked up in scope).
func (ev *Evaluator) memberKey(scope *gcscope.GCScope, ctx *realm.ExecutionContext, m *ast.MemberExpr) (heap.PropertyKey, result.JsResult[heap.Value]) {
	h := ev.Realm.Heap
	if !m.Computed {
		return literalKey(h, m.Property), result.Return(heap.Undefined())
	}
	r := ev.evalExpr(scope, ctx, m.Property)
	if !r.IsReturn() {
		return heap.PropertyKey{}, r
	}

	return ev.toPropertyKey(r.Value()), result.Return(heap.Undefined())
}

// evalMemberExpr evaluates `obj.prop`/`obj[expr]`, returning the
// resolved object too (callers evaluating a method call need both: the
// value to invoke and the `this` it was fetched from).
func (ev *Evaluator) evalMemberExpr(scope *gcscope.GCScope, ctx *realm.ExecutionContext, n *ast.MemberExpr) (heap.Value, heap.Value, result.JsResult[heap.Value]) {
	objR := ev.evalExpr(scope, ctx, n.Object)
	if !objR.IsReturn() {
		return heap.Value{}, heap.Value{}, objR
	}
	obj := objR.Value()
	if n.Optional && obj.IsNullOrUndefined() {
		return heap.Undefined(), obj, result.Return(heap.Undefined())
	}
	if obj.IsNullOrUndefined() {
		return heap.Value{}, obj, result.Exception[heap.Value](ev.newError(scope, heap.ErrorType,
			"cannot read properties of "+ev.toDisplayString(obj)+" (reading '"+memberKeyDebugName(ev.Realm.Heap, n)+"')"))
	}
	key, r := ev.memberKey(scope, ctx, n)
	if !r.IsReturn() {
		return heap.Value{}, obj, r
	}

	vr := ev.memberGet(scope, obj, key)

	return vr.Value(), obj, vr
}

func memberKeyDebugName(h *heap.Heap, n *ast.MemberExpr) string {
	if id, ok := n.Property.(*ast.Identifier); ok && !n.Computed {
		return id.Name
	}

	return "?"
}

// memberGet implements property read for every object-tagged Value,
// special-casing what object.Get cannot reach on its own: a Proxy's "get"
// trap, and an Array's "length"/dense-index fast path (Arrays store
// elements in their own vector, not in the
// shared Keys/Values property table object.Get walks).
func (ev *Evaluator) memberGet(scope *gcscope.GCScope, obj heap.Value, key heap.PropertyKey) result.JsResult[heap.Value] {
	h := ev.Realm.Heap

	if obj.Tag() == heap.TagProxy {
		return ev.proxyGet(scope, obj, key)
	}
	if obj.Tag() == heap.TagArray {
		arr := h.Array(obj)
		if key.IsArrayIndex() {
			if int(key.ArrayIndex()) < len(arr.Elements) {
				return result.Return(arr.Elements[key.ArrayIndex()])
			}

			return result.Return(heap.Undefined())
		}
		if !key.IsArrayIndex() && key.Value().IsString() && h.StringValue(key.Value()) == "length" {
			return result.Return(heap.FromInt32(int32(len(arr.Elements))))
		}
	}
	if obj.Tag() == heap.TagError {
		if name, ok := errorFieldGet(h, obj, key); ok {
			return result.Return(name)
		}
	}
	if obj.Tag() == heap.TagWeakRef {
		// WeakRefData carries no embedded ObjectData (§8 scenario 4's
		// Target is the only field), so its method lookup goes
		// straight to WeakRefPrototype instead of through
		// object.Get(obj, ...), which requires an ObjectData to walk.
		proto := ev.Realm.Intrinsics.Get(realm.WeakRefPrototype)

		return object.Get(h, proto, obj, key, ev.caller(scope))
	}
	if !obj.IsObject() {
		return ev.primitiveGet(scope, obj, key)
	}

	return object.Get(h, obj, obj, key, ev.caller(scope))
}

// errorFieldGet answers the "name"/"message" own-property reads every
// Error object exposes even though ErrorData keeps them as dedicated Go
// fields rather than entries in the shared property table.
func errorFieldGet(h *heap.Heap, obj heap.Value, key heap.PropertyKey) (heap.Value, bool) {
	if key.IsArrayIndex() || !key.Value().IsString() {
		return heap.Value{}, false
	}
	switch h.StringValue(key.Value()) {
	case "message":
		return h.NewString(h.Error(obj).Message), true
	case "name":
		return h.NewString(h.Error(obj).Kind.String()), true
	default:
		return heap.Value{}, false
	}
}

// primitiveGet resolves property access on a primitive receiver (a
// string's "length"/index access, or any primitive's boxed-prototype
// methods) without allocating a wrapper object.
func (ev *Evaluator) primitiveGet(scope *gcscope.GCScope, v heap.Value, key heap.PropertyKey) result.JsResult[heap.Value] {
	h := ev.Realm.Heap
	if v.IsString() {
		s := h.StringValue(v)
		if key.IsArrayIndex() {
			// String indexing and .length are observed in UTF-16 code
			// units externally (§9's WTF-8/UTF-16 boundary), not Unicode
			// code points, so a supplementary-plane character counts as
			// two index positions exactly as real ECMAScript engines do.
			if unit, ok := convert.CharAt(s, int(key.ArrayIndex())); ok {
				return result.Return(h.NewString(unit))
			}

			return result.Return(heap.Undefined())
		}
		if key.Value().IsString() && h.StringValue(key.Value()) == "length" {
			return result.Return(heap.FromInt32(int32(convert.Length(s))))
		}

		return object.Get(h, ev.Realm.Intrinsics.Get(realm.StringPrototype), v, key, ev.caller(scope))
	}
	if v.IsNumber() {
		return object.Get(h, ev.Realm.Intrinsics.Get(realm.NumberPrototype), v, key, ev.caller(scope))
	}
	if v.IsBoolean() {
		return object.Get(h, ev.Realm.Intrinsics.Get(realm.BooleanPrototype), v, key, ev.caller(scope))
	}

	return result.Return(heap.Undefined())
}

// memberSet implements property write, special-casing Array index/length
// writes the same way memberGet special-cases reads.
func (ev *Evaluator) memberSet(scope *gcscope.GCScope, obj heap.Value, key heap.PropertyKey, value heap.Value) result.JsResult[heap.Value] {
	h := ev.Realm.Heap

	if obj.Tag() == heap.TagProxy {
		return ev.proxySet(scope, obj, key, value)
	}
	if obj.Tag() == heap.TagArray {
		arr := h.Array(obj)
		if key.IsArrayIndex() {
			idx := int(key.ArrayIndex())
			if idx < len(arr.Elements) {
				arr.Elements[idx] = value
			} else {
				for len(arr.Elements) < idx {
					arr.Elements = append(arr.Elements, heap.Undefined())
				}
				arr.Elements = append(arr.Elements, value)
				scope.NoteAllocation()
			}

			return result.Return(value)
		}
		if key.Value().IsString() && h.StringValue(key.Value()) == "length" {
			n := int(ev.toNumber(value))
			if n < len(arr.Elements) {
				arr.Elements = arr.Elements[:n]
			}
			for len(arr.Elements) < n {
				arr.Elements = append(arr.Elements, heap.Undefined())
			}

			return result.Return(value)
		}
	}
	if !obj.IsObject() {
		return result.Return(value)
	}

	return object.Set(h, obj, obj, value, key, ev.caller(scope))
}

// proxyGet/proxySet invoke the "get"/"set" trap if the handler supplies
// one, falling back to an ordinary operation on Target otherwise (§8
// scenario 3's `get` trap; full invariant-checking against a Proxy's
// target is out of scope — see doc.go).
func (ev *Evaluator) proxyGet(scope *gcscope.GCScope, proxyVal heap.Value, key heap.PropertyKey) result.JsResult[heap.Value] {
	h := ev.Realm.Heap
	p := h.Proxy(proxyVal)
	trapKey := heap.PropertyKeyFromValue(h.NewString("get"))
	trapR := object.Get(h, p.Handler, p.Handler, trapKey, ev.caller(scope))
	if !trapR.IsReturn() {
		return trapR
	}
	if trapR.Value().IsCallable() {
		var keyVal heap.Value
		if key.IsArrayIndex() {
			keyVal = h.NewString(strconv.FormatUint(uint64(key.ArrayIndex()), 10))
		} else {
			keyVal = key.Value()
		}

		return ev.callAsFunction(scope, trapR.Value(), p.Handler, []heap.Value{p.Target, keyVal, proxyVal})
	}

	return ev.memberGet(scope, p.Target, key)
}

func (ev *Evaluator) proxySet(scope *gcscope.GCScope, proxyVal heap.Value, key heap.PropertyKey, value heap.Value) result.JsResult[heap.Value] {
	h := ev.Realm.Heap
	p := h.Proxy(proxyVal)
	trapKey := heap.PropertyKeyFromValue(h.NewString("set"))
	trapR := object.Get(h, p.Handler, p.Handler, trapKey, ev.caller(scope))
	if !trapR.IsReturn() {
		return trapR
	}
	if trapR.Value().IsCallable() {
		var keyVal heap.Value
		if key.IsArrayIndex() {
			keyVal = h.NewString(strconv.FormatUint(uint64(key.ArrayIndex()), 10))
		} else {
			keyVal = key.Value()
		}

		return ev.callAsFunction(scope, trapR.Value(), p.Handler, []heap.Value{p.Target, keyVal, value, proxyVal})
	}

	return ev.memberSet(scope, p.Target, key, value)
}

// callAsFunction is the result.JsResult[heap.Value]-returning counterpart
// to callFunction, used by call sites (traps, constructors) that already
// work in terms of heap.Value rather than a statement completion.
func (ev *Evaluator) callAsFunction(scope *gcscope.GCScope, fn, thisArg heap.Value, args []heap.Value) result.JsResult[heap.Value] {
	r := ev.callFunction(scope, fn, thisArg, args)
	if !r.IsReturn() {
		return completionToValue(r)
	}

	return result.Return(r.Value().value)
}

// --- Abstract operations the core leaves to its evaluator (doc.go) ---

// toBoolean implements ToBoolean over every Value kind (heap.Value's own
// ToBooleanStrict panics on heap-tagged variants, since it has no Heap to
// consult).
func (ev *Evaluator) toBoolean(v heap.Value) bool {
	switch v.Tag() {
	case heap.TagHeapString:
		return ev.Realm.Heap.StringValue(v) != ""
	case heap.TagHeapNumber:
		f := ev.Realm.Heap.AsFloat64(v)

		return f != 0 && !math.IsNaN(f)
	default:
		if v.Tag().IsHeapTag() {
			return true // every heap object kind besides string/number is truthy
		}

		return v.ToBooleanStrict()
	}
}

// toNumber implements ToNumber for the value kinds this evaluator
// produces. Objects convert to NaN (no valueOf/toString dispatch — see
// doc.go's ambient simplifications), matching ECMAScript's behavior only
// for the common case of a plain data object with no such methods.
func (ev *Evaluator) toNumber(v heap.Value) float64 {
	h := ev.Realm.Heap
	switch {
	case v.IsNumber():
		return h.AsFloat64(v)
	case v.IsUndefined():
		return math.NaN()
	case v.IsNull():
		return 0
	case v.IsBoolean():
		if v.AsBool() {
			return 1
		}

		return 0
	case v.IsString():
		s := strings.TrimSpace(h.StringValue(v))
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}

		return f
	case v.IsBigInt():
		if v.Tag() == heap.TagSmallBigInt {
			return float64(v.AsSmallBigInt())
		}

		return math.NaN()
	default:
		return math.NaN()
	}
}

func toInt32(f float64) int32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}

	return int32(int64(f))
}

func formatNumber(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}

	return strconv.FormatFloat(f, 'g', -1, 64)
}

// ToDisplayString exposes toDisplayString to callers outside this
// package (cmd/esvm's REPL and file/expr drivers print a script's
// completion value this way).
func (ev *Evaluator) ToDisplayString(v heap.Value) string {
	return ev.toDisplayString(v)
}

// toDisplayString implements ToString for the value kinds this evaluator
// produces, including Array.prototype.toString's element-join (§8's
// reduce/push scenarios print arrays this way) and a fixed
// "[object Object]" for plain objects (no valueOf/toString dispatch, per
// doc.go).
func (ev *Evaluator) toDisplayString(v heap.Value) string {
	h := ev.Realm.Heap
	switch {
	case v.IsString():
		return h.StringValue(v)
	case v.IsUndefined():
		return "undefined"
	case v.IsNull():
		return "null"
	case v.IsBoolean():
		return strconv.FormatBool(v.AsBool())
	case v.IsNumber():
		return formatNumber(h.AsFloat64(v))
	case v.IsBigInt():
		if v.Tag() == heap.TagSmallBigInt {
			return strconv.FormatInt(v.AsSmallBigInt(), 10)
		}

		return "0"
	case v.IsSymbol():
		return "Symbol()"
	case v.Tag() == heap.TagArray:
		arr := h.Array(v)
		parts := make([]string, len(arr.Elements))
		for i, el := range arr.Elements {
			if el.IsNullOrUndefined() {
				parts[i] = ""
			} else {
				parts[i] = ev.toDisplayString(el)
			}
		}

		return strings.Join(parts, ",")
	case v.Tag() == heap.TagError:
		e := h.Error(v)

		return e.Kind.String() + ": " + e.Message
	case v.IsCallable():
		return "function () { [native code] }"
	default:
		return "[object Object]"
	}
}

// typeOf implements the `typeof` operator.
func (ev *Evaluator) typeOf(v heap.Value) string {
	switch {
	case v.IsUndefined():
		return "undefined"
	case v.IsNull():
		return "object"
	case v.IsBoolean():
		return "boolean"
	case v.IsNumber():
		return "number"
	case v.IsBigInt():
		return "bigint"
	case v.IsString():
		return "string"
	case v.IsSymbol():
		return "symbol"
	case v.IsCallable():
		return "function"
	default:
		return "object"
	}
}

// looseEquals implements ECMAScript's Abstract Equality Comparison (==)
// for the value kinds this evaluator produces: same-type compares
// strictly, null/undefined are mutually (and only self-) loosely equal,
// and a number/string pair coerces the string side to a number.
func (ev *Evaluator) looseEquals(a, b heap.Value) bool {
	h := ev.Realm.Heap
	if a.IsNullOrUndefined() || b.IsNullOrUndefined() {
		return a.IsNullOrUndefined() && b.IsNullOrUndefined()
	}
	if a.Tag() == b.Tag() || (a.IsNumber() && b.IsNumber()) {
		return h.StrictEquals(a, b)
	}
	if a.IsNumber() && b.IsString() {
		return ev.toNumber(a) == ev.toNumber(b)
	}
	if a.IsString() && b.IsNumber() {
		return ev.toNumber(a) == ev.toNumber(b)
	}
	if a.IsBoolean() {
		return ev.looseEquals(h.NewNumber(ev.toNumber(a)), b)
	}
	if b.IsBoolean() {
		return ev.looseEquals(a, h.NewNumber(ev.toNumber(b)))
	}
	if (a.IsNumber() || a.IsString()) && b.IsObject() {
		return false // ToPrimitive on plain objects is out of scope; see doc.go
	}
	if a.IsObject() && (b.IsNumber() || b.IsString()) {
		return false
	}

	return false
}

// bindingDeclaredAnywhere reports whether name is declared in e or any
// of its outer environments, TDZ or not — used by `typeof` to tell "not
// declared anywhere" (typeof yields "undefined", no throw) apart from
// every other case (which evalExpr's normal Identifier path already
// handles, TDZ included).
func bindingDeclaredAnywhere(h *heap.Heap, e envRef, name string) bool {
	_, err := env.GetBindingValue(h, e, name)
	if err == nil {
		return true
	}
	refErr, ok := err.(*env.ReferenceError)

	return ok && refErr.Msg != "not declared in any enclosing scope"
}
