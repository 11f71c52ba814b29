package eval

import (
	"strconv"

	"github.com/conneroisu/esvm/internal/ast"
	"github.com/conneroisu/esvm/internal/env"
	"github.com/conneroisu/esvm/internal/gcscope"
	"github.com/conneroisu/esvm/internal/heap"
	"github.com/conneroisu/esvm/internal/object"
	"github.com/conneroisu/esvm/internal/realm"
	"github.com/conneroisu/esvm/internal/result"
)

// evalVarDeclaration declares and initializes every entry of a
// var/let/const declaration against ctx's variable environment. This
// evaluator does not create a fresh environment per block (see
// evalBlock), so var/let/const all share one binding lifecycle: the only
// distinction kept is Kind == "const" choosing an immutable binding
// (see doc.go's simplifications — no temporal dead zone is
// enforced beyond what env.CreateMutableBinding/InitializeBinding
// already give for free).
func (ev *Evaluator) evalVarDeclaration(scope *gcscope.GCScope, ctx *realm.ExecutionContext, decl *ast.VarDeclaration) result.JsResult[completion] {
	h := ev.Realm.Heap
	for _, d := range decl.Declarators {
		var v heap.Value = heap.Undefined()
		if d.Init != nil {
			r := ev.evalExpr(scope, ctx, d.Init)
			if !r.IsReturn() {
				return valueToCompletion(r)
			}
			v = r.Value()
		}
		if decl.Kind == "const" {
			env.CreateImmutableBinding(h, ctx.Variable, d.Name)
		} else {
			env.CreateMutableBinding(h, ctx.Variable, d.Name)
		}
		env.InitializeBinding(h, ctx.Variable, d.Name, v)
	}

	return result.Return(normal(heap.Undefined()))
}

// evalBlock runs a block's statements directly against ctx's current
// environment: this evaluator does not give `{}` its own lexical
// environment, so a `let`/`const` declared inside one block is visible
// to sibling blocks in the same function — a documented simplification
// (see doc.go), not full block scoping.
func (ev *Evaluator) evalBlock(scope *gcscope.GCScope, ctx *realm.ExecutionContext, blk *ast.BlockStmt) result.JsResult[completion] {
	return ev.evalStatements(scope, ctx, blk.Body)
}

func (ev *Evaluator) evalIfStmt(scope *gcscope.GCScope, ctx *realm.ExecutionContext, n *ast.IfStmt) result.JsResult[completion] {
	tr := ev.evalExpr(scope, ctx, n.Test)
	if !tr.IsReturn() {
		return valueToCompletion(tr)
	}
	if ev.toBoolean(tr.Value()) {
		return ev.evalStatement(scope, ctx, n.Consequent)
	}
	if n.Alternate != nil {
		return ev.evalStatement(scope, ctx, n.Alternate)
	}

	return result.Return(normal(heap.Undefined()))
}

func (ev *Evaluator) evalWhileStmt(scope *gcscope.GCScope, ctx *realm.ExecutionContext, n *ast.WhileStmt) result.JsResult[completion] {
	for {
		ev.reborrowOrCollect(scope)
		tr := ev.evalExpr(scope, ctx, n.Test)
		if !tr.IsReturn() {
			return valueToCompletion(tr)
		}
		if !ev.toBoolean(tr.Value()) {
			break
		}
		r := ev.evalStatement(scope, ctx, n.Body)
		if !r.IsReturn() {
			return r
		}
		switch r.Value().signal {
		case signalBreak:
			return result.Return(normal(heap.Undefined()))
		case signalReturn:
			return r
		}
	}

	return result.Return(normal(heap.Undefined()))
}

func (ev *Evaluator) evalDoWhileStmt(scope *gcscope.GCScope, ctx *realm.ExecutionContext, n *ast.DoWhileStmt) result.JsResult[completion] {
	for {
		ev.reborrowOrCollect(scope)
		r := ev.evalStatement(scope, ctx, n.Body)
		if !r.IsReturn() {
			return r
		}
		switch r.Value().signal {
		case signalBreak:
			return result.Return(normal(heap.Undefined()))
		case signalReturn:
			return r
		}
		tr := ev.evalExpr(scope, ctx, n.Test)
		if !tr.IsReturn() {
			return valueToCompletion(tr)
		}
		if !ev.toBoolean(tr.Value()) {
			break
		}
	}

	return result.Return(normal(heap.Undefined()))
}

func (ev *Evaluator) evalForStmt(scope *gcscope.GCScope, ctx *realm.ExecutionContext, n *ast.ForStmt) result.JsResult[completion] {
	if n.Init != nil {
		r := ev.evalStatement(scope, ctx, n.Init)
		if !r.IsReturn() {
			return r
		}
	}

	for {
		ev.reborrowOrCollect(scope)
		if n.Test != nil {
			tr := ev.evalExpr(scope, ctx, n.Test)
			if !tr.IsReturn() {
				return valueToCompletion(tr)
			}
			if !ev.toBoolean(tr.Value()) {
				break
			}
		}

		r := ev.evalStatement(scope, ctx, n.Body)
		if !r.IsReturn() {
			return r
		}
		switch r.Value().signal {
		case signalBreak:
			return result.Return(normal(heap.Undefined()))
		case signalReturn:
			return r
		}

		if n.Update != nil {
			ur := ev.evalExpr(scope, ctx, n.Update)
			if !ur.IsReturn() {
				return valueToCompletion(ur)
			}
		}
	}

	return result.Return(normal(heap.Undefined()))
}

func (ev *Evaluator) evalForInStmt(scope *gcscope.GCScope, ctx *realm.ExecutionContext, n *ast.ForInStmt) result.JsResult[completion] {
	h := ev.Realm.Heap
	rr := ev.evalExpr(scope, ctx, n.Right)
	if !rr.IsReturn() {
		return valueToCompletion(rr)
	}
	right := rr.Value()

	var items []heap.Value
	if n.IsOf {
		elems, ok := spreadElements(h, right)
		if !ok {
			return valueToCompletion(result.Exception[heap.Value](
				ev.newError(scope, heap.ErrorType, "value is not iterable")))
		}
		items = elems
	} else {
		if !right.IsObject() {
			return result.Return(normal(heap.Undefined()))
		}
		items = forInKeys(h, right)
	}

	for _, item := range items {
		if n.DeclKind != "" {
			if n.DeclKind == "const" {
				env.CreateImmutableBinding(h, ctx.Variable, n.Target)
			} else {
				env.CreateMutableBinding(h, ctx.Variable, n.Target)
			}
			env.InitializeBinding(h, ctx.Variable, n.Target, item)
		} else if err := env.SetMutableBinding(h, ctx.Lexical, n.Target, item, true); err != nil {
			bindTopLevel(h, ev.Realm.GlobalEnv, n.Target, item)
		}

		ev.reborrowOrCollect(scope)
		r := ev.evalStatement(scope, ctx, n.Body)
		if !r.IsReturn() {
			return r
		}
		switch r.Value().signal {
		case signalBreak:
			return result.Return(normal(heap.Undefined()))
		case signalReturn:
			return r
		}
	}

	return result.Return(normal(heap.Undefined()))
}

// forInKeys lists the string keys a `for...in` over obj visits: an
// Array's indices followed by its own non-symbol property keys
// (prototype-chain enumeration is out of scope — see doc.go).
func forInKeys(h *heap.Heap, obj heap.Value) []heap.Value {
	var out []heap.Value
	if obj.Tag() == heap.TagArray {
		for i := range h.Array(obj).Elements {
			out = append(out, h.NewString(strconv.Itoa(i)))
		}
	}
	for _, k := range object.OwnPropertyKeys(h, obj) {
		if k.IsArrayIndex() {
			out = append(out, h.NewString(strconv.FormatUint(uint64(k.ArrayIndex()), 10)))

			continue
		}
		if k.Value().IsSymbol() {
			continue
		}
		out = append(out, k.Value())
	}

	return out
}

// evalTryStmt implements try/catch/finally. A finally block's own
// abrupt completion (return/break/continue/throw) overrides whatever the
// try/catch produced, matching ECMAScript's completion-record rules.
func (ev *Evaluator) evalTryStmt(scope *gcscope.GCScope, ctx *realm.ExecutionContext, n *ast.TryStmt) result.JsResult[completion] {
	r := ev.evalBlock(scope, ctx, n.Block)

	if r.IsException() && n.Handler != nil {
		h := ev.Realm.Heap
		thrown, _ := r.Thrown().(heap.Value)

		catchEnv := env.New(h, heap.Some(ctx.Lexical))
		catchCtx := *ctx
		catchCtx.Lexical = catchEnv
		if n.Handler.Param != "" {
			env.CreateMutableBinding(h, catchEnv, n.Handler.Param)
			env.InitializeBinding(h, catchEnv, n.Handler.Param, thrown)
		}
		r = ev.evalBlock(scope, &catchCtx, n.Handler.Body)
	}

	if n.Finalizer != nil {
		fr := ev.evalBlock(scope, ctx, n.Finalizer)
		if !fr.IsReturn() {
			return fr
		}
		if fr.Value().signal != signalNone {
			return fr
		}
	}

	return r
}
