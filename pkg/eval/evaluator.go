package eval

import (
	"github.com/conneroisu/esvm/internal/ast"
	"github.com/conneroisu/esvm/internal/gcscope"
	"github.com/conneroisu/esvm/internal/heap"
	"github.com/conneroisu/esvm/internal/host"
	"github.com/conneroisu/esvm/internal/object"
	"github.com/conneroisu/esvm/internal/realm"
	"github.com/conneroisu/esvm/internal/result"
)

// envRef names an environment record the way every package below eval
// already does: a bare heap.Index, never boxed into a heap.Value, since
// an environment record is not itself an ECMAScript value (§4.6).
type envRef = heap.Index[heap.EnvironmentData]

// signal discriminates the non-local control-flow a statement's
// evaluation can request of its caller. It is deliberately not expressed
// through result.Outcome: result.JsResult's three outcomes mean "the
// Go-level operation completed normally" / "script threw" / "the host
// killed execution", a distinction that exists one layer below what
// break/continue/return mean at the ECMAScript statement level. signal
// rides inside the Return payload of a JsResult[completion] instead, so
// the two concerns never collide.
type signal byte

const (
	signalNone signal = iota
	signalReturn
	signalBreak
	signalContinue
)

// completion is a statement's normal-completion payload: which signal
// (if any) it is propagating, plus the value carried by a return or by
// an expression statement (used as the script's overall completion
// value, mirroring how a REPL echoes the last expression evaluated).
type completion struct {
	signal signal
	value  heap.Value
}

func normal(v heap.Value) completion { return completion{signal: signalNone, value: v} }

// Evaluator walks an *ast.Program against a Realm. Besides the Realm, it
// owns Jobs, the host job queue every FinalizationRegistry cleanup (and,
// eventually, every promise reaction) is enqueued to rather than run
// synchronously (§5's "Host jobs"); every call otherwise threads its own
// *gcscope.GCScope and *realm.ExecutionContext explicitly, the way package realm's
// RunInRealm/ReborrowOrCollect pairing expects.
type Evaluator struct {
	Realm *realm.Realm
	Jobs  *host.Queue
}

// New constructs an Evaluator over an already-bootstrapped realm (see
// Bootstrap in builtins.go — a fresh *realm.Realm has an empty
// intrinsics table and no global bindings until Bootstrap populates
// them).
func New(r *realm.Realm) *Evaluator {
	return &Evaluator{Realm: r, Jobs: host.NewQueue()}
}

// reborrowOrCollect wraps Realm.ReborrowOrCollect with the draining step
// package realm itself cannot perform (see Realm.TakePendingCleanups):
// any FinalizationRegistry callback a collection cycle just determined
// must run is turned into a queued Job here, since this is the one
// place that has both a host.Queue and the means to invoke a callable
// Value. The callbacks are enqueued, not run — draining Jobs is the
// host's job (cmd/esvm does it once RunProgram returns), matching §4.5
// point 4's "enqueued... not invoked synchronously".
func (ev *Evaluator) reborrowOrCollect(scope *gcscope.GCScope) *gcscope.GCScope {
	scope = ev.Realm.ReborrowOrCollect(scope)
	ev.enqueuePendingCleanups(scope)

	return scope
}

// forceCollect wraps Realm.ForceCollect the same way reborrowOrCollect
// wraps ReborrowOrCollect, for the `gc()` host hook (builtins.go).
func (ev *Evaluator) forceCollect(scope *gcscope.GCScope) {
	ev.Realm.ForceCollect(scope)
	ev.enqueuePendingCleanups(scope)
}

// enqueuePendingCleanups drains Realm.TakePendingCleanups into ev.Jobs,
// invoking each FinalizationRegistry's cleanup callback with its held
// value when the job eventually runs.
func (ev *Evaluator) enqueuePendingCleanups(scope *gcscope.GCScope) {
	cleanups := ev.Realm.TakePendingCleanups()
	if len(cleanups) == 0 {
		return
	}

	host.DrainFinalizationCleanups(ev.Jobs, cleanups, func(callback, heldValue heap.Value) result.JsResult[heap.Value] {
		r := ev.callFunction(scope, callback, heap.Undefined(), []heap.Value{heldValue})
		if !r.IsReturn() {
			return completionToValue(r)
		}

		return result.Return(r.Value().value)
	})
}

// caller adapts Evaluator.callFunction to object.Caller's signature so
// package object's Get/Set can invoke accessor functions without
// importing eval (see object/property.go's Caller doc comment). It
// closes over scope, which is safe because accessor invocation only
// ever happens synchronously within the same statement's evaluation —
// scope is never retained past the call that produced this closure.
func (ev *Evaluator) caller(scope *gcscope.GCScope) object.Caller {
	return func(h *heap.Heap, fn, thisArg heap.Value, args []heap.Value) result.JsResult[heap.Value] {
		r := ev.callFunction(scope, fn, thisArg, args)
		if !r.IsReturn() {
			return completionToValue(r)
		}

		return result.Return(r.Value().value)
	}
}

// completionToValue re-wraps an Exception/Killed JsResult[completion] as
// the equivalent JsResult[heap.Value]; callers must have already
// excluded the Return case.
func completionToValue(r result.JsResult[completion]) result.JsResult[heap.Value] {
	if r.IsException() {
		return result.Exception[heap.Value](r.Thrown())
	}

	return result.Killed[heap.Value]()
}

// valueToCompletion re-wraps an Exception/Killed JsResult[heap.Value] as
// the equivalent JsResult[completion]; callers must have already
// excluded the Return case.
func valueToCompletion(r result.JsResult[heap.Value]) result.JsResult[completion] {
	if r.IsException() {
		return result.Exception[completion](r.Thrown())
	}

	return result.Killed[completion]()
}

// RunProgram evaluates every top-level statement of prog against the
// realm's global environment, hoisting top-level function declarations
// first (§spec.md expansion: function declarations are usable before
// their textual position; var/let/const are not — see doc.go's ambient
// simplifications list). It returns the last statement's completion
// value, which cmd/esvm prints after running a script or REPL line.
func (ev *Evaluator) RunProgram(scope *gcscope.GCScope, prog *ast.Program) result.JsResult[heap.Value] {
	ctx := &realm.ExecutionContext{
		Realm:    ev.Realm,
		Lexical:  ev.Realm.GlobalEnv,
		Variable: ev.Realm.GlobalEnv,
	}
	if err := ev.Realm.Contexts.Push(ctx); err != nil {
		return result.Exception[heap.Value](ev.newError(scope, heap.ErrorRange, err.Error()))
	}
	defer ev.Realm.Contexts.Pop()

	ev.hoistFunctions(scope, ctx, prog.Body)

	var last heap.Value
	for _, stmt := range prog.Body {
		ev.reborrowOrCollect(scope)
		r := ev.evalStatement(scope, ctx, stmt)
		switch r.Outcome() {
		case result.OutcomeReturn:
			last = r.Value().value
		case result.OutcomeException:
			return result.Exception[heap.Value](r.Thrown())
		case result.OutcomeKilled:
			return result.Killed[heap.Value]()
		}
	}

	return result.Return(last)
}

// evalStatements runs stmts in order against ctx's current environment,
// short-circuiting on the first non-signalNone completion (an
// exception, a kill, or a break/continue/return bubbling up). Each
// iteration re-visits the realm's allocation safepoint (§4.5): a call
// nested anywhere within one statement's evaluation may itself have
// crossed the watermark, so the check happens between every statement
// rather than once per evalStatements invocation.
func (ev *Evaluator) evalStatements(scope *gcscope.GCScope, ctx *realm.ExecutionContext, stmts []ast.Stmt) result.JsResult[completion] {
	var last completion
	for _, stmt := range stmts {
		ev.reborrowOrCollect(scope)
		r := ev.evalStatement(scope, ctx, stmt)
		if !r.IsReturn() {
			return r
		}
		last = r.Value()
		if last.signal != signalNone {
			return result.Return(last)
		}
	}

	return result.Return(last)
}

// evalStatement dispatches one statement. Control-flow constructs are
// implemented in control_flow.go; everything else is handled here.
func (ev *Evaluator) evalStatement(scope *gcscope.GCScope, ctx *realm.ExecutionContext, stmt ast.Stmt) result.JsResult[completion] {
	switch s := stmt.(type) {
	case *ast.ExpressionStmt:
		r := ev.evalExpr(scope, ctx, s.Expression)

		return result.Map(r, normal)

	case *ast.VarDeclaration:
		return ev.evalVarDeclaration(scope, ctx, s)

	case *ast.FunctionLiteral:
		// Declarations were already bound by hoistFunctions; a
		// function statement re-visited in sequence is a no-op.
		return result.Return(normal(heap.Undefined()))

	case *ast.BlockStmt:
		return ev.evalBlock(scope, ctx, s)

	case *ast.IfStmt:
		return ev.evalIfStmt(scope, ctx, s)

	case *ast.WhileStmt:
		return ev.evalWhileStmt(scope, ctx, s)

	case *ast.DoWhileStmt:
		return ev.evalDoWhileStmt(scope, ctx, s)

	case *ast.ForStmt:
		return ev.evalForStmt(scope, ctx, s)

	case *ast.ForInStmt:
		return ev.evalForInStmt(scope, ctx, s)

	case *ast.ReturnStmt:
		var v heap.Value = heap.Undefined()
		if s.Argument != nil {
			r := ev.evalExpr(scope, ctx, s.Argument)
			if !r.IsReturn() {
				return valueToCompletion(r)
			}
			v = r.Value()
		}

		return result.Return(completion{signal: signalReturn, value: v})

	case *ast.BreakStmt:
		return result.Return(completion{signal: signalBreak})

	case *ast.ContinueStmt:
		return result.Return(completion{signal: signalContinue})

	case *ast.ThrowStmt:
		r := ev.evalExpr(scope, ctx, s.Argument)
		if !r.IsReturn() {
			return valueToCompletion(r)
		}

		return result.Exception[completion](r.Value())

	case *ast.TryStmt:
		return ev.evalTryStmt(scope, ctx, s)

	default:
		return result.Return(normal(heap.Undefined()))
	}
}

// hoistFunctions declares and initializes every top-level function
// declaration in stmts against ctx's variable environment before the
// body runs in order, the one hoisting behavior this driver implements
// (see doc.go).
func (ev *Evaluator) hoistFunctions(scope *gcscope.GCScope, ctx *realm.ExecutionContext, stmts []ast.Stmt) {
	h := ev.Realm.Heap
	for _, stmt := range stmts {
		fn, ok := stmt.(*ast.FunctionLiteral)
		if !ok || !fn.IsDeclaration || fn.Name == "" {
			continue
		}
		fnVal := ev.makeFunction(scope, ctx, fn)
		bindTopLevel(h, ctx.Variable, fn.Name, fnVal)
	}
}
