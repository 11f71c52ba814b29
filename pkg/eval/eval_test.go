package eval

import (
	"testing"

	"github.com/conneroisu/esvm/internal/gcscope"
	"github.com/conneroisu/esvm/internal/heap"
	"github.com/conneroisu/esvm/internal/realm"
	"github.com/conneroisu/esvm/internal/result"
	"github.com/conneroisu/esvm/pkg/lexer"
	"github.com/conneroisu/esvm/pkg/parser"
)

// runProgram parses source and evaluates it against a freshly bootstrapped
// realm, mirroring cmd/esvm/eval.go's engine.run: a root GCScope is opened
// for the whole run, and any FinalizationRegistry cleanups a collection
// queues are drained before the result is returned.
func runProgram(t *testing.T, source string) (*heap.Heap, heap.Value) {
	t.Helper()

	l := lexer.New(source)
	p := parser.New(l)
	prog, err := p.Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	h := heap.NewHeap()
	r := realm.NewRealm(h)
	defer r.Close()
	ev := Bootstrap(r)

	type outcome struct {
		v   heap.Value
		err string
	}

	out := realm.RunInRealm(r, func(scope *gcscope.GCScope) outcome {
		res := ev.RunProgram(scope, prog)
		if res.IsException() {
			thrown, _ := res.Thrown().(heap.Value)

			return outcome{err: ev.ToDisplayString(thrown)}
		}
		if res.IsKilled() {
			return outcome{err: "execution was killed"}
		}
		if jr := ev.Jobs.DrainAll(); jr.IsException() {
			thrown, _ := jr.Thrown().(heap.Value)

			return outcome{err: "queued job exception: " + ev.ToDisplayString(thrown)}
		}

		return outcome{v: res.Value()}
	})

	if out.err != "" {
		t.Fatalf("%s: %s", source, out.err)
	}

	return h, out.v
}

// TestArrayPushSurvivesCollection is §8 scenario 1: a large array built up
// by repeated push calls, forced through a collection mid-loop by gc(),
// must still have every element reachable afterward.
func TestArrayPushSurvivesCollection(t *testing.T) {
	h, v := runProgram(t, `
		(function(){
			var a = [];
			for (var i = 0; i < 100000; i++) a.push({x: i});
			gc();
			return a[99999].x;
		})()
	`)

	if !v.IsNumber() || h.AsFloat64(v) != 99999 {
		t.Fatalf("result = %s, want 99999", v.DebugString())
	}
}

// TestSymbolKeyedPropertyIsOwnSymbol is §8 scenario 2: a symbol used as a
// property key must round-trip through Object.getOwnPropertySymbols as the
// same symbol, by identity.
func TestSymbolKeyedPropertyIsOwnSymbol(t *testing.T) {
	_, v := runProgram(t, `
		var o = {};
		var k = Symbol('k');
		o[k] = 1;
		Object.getOwnPropertySymbols(o)[0] === k
	`)

	if !v.IsBoolean() || !v.AsBool() {
		t.Fatalf("result = %s, want true", v.DebugString())
	}
}

// TestProxyGetTrapInterceptsAccess is §8 scenario 3: reading a property
// through a Proxy must route through the handler's get trap rather than
// the target's own property.
func TestProxyGetTrapInterceptsAccess(t *testing.T) {
	h, v := runProgram(t, `
		var p = new Proxy({a: 1}, { get: (t, k) => t[k] + 1 });
		p.a
	`)

	if !v.IsNumber() || h.AsFloat64(v) != 2 {
		t.Fatalf("result = %s, want 2", v.DebugString())
	}
}

// TestWeakRefDerefIsUndefinedAfterCollection is §8 scenario 4: once the only
// strong reference to a WeakRef's target is dropped, a forced collection
// must clear the referent and deref() must report undefined.
func TestWeakRefDerefIsUndefinedAfterCollection(t *testing.T) {
	_, v := runProgram(t, `
		var w = new WeakRef({});
		gc();
		w.deref()
	`)

	if !v.IsUndefined() {
		t.Fatalf("result = %s, want undefined", v.DebugString())
	}
}

// TestArrayReduceSumsElements is §8 scenario 5.
func TestArrayReduceSumsElements(t *testing.T) {
	h, v := runProgram(t, `[1, 2, 3].reduce((a, b) => a + b, 0)`)

	if !v.IsNumber() || h.AsFloat64(v) != 6 {
		t.Fatalf("result = %s, want 6", v.DebugString())
	}
}

// TestPropertyAccessOnNullThrowsTypeError is §8 scenario 6: member access on
// null must throw a TypeError, catchable like any other exception.
func TestPropertyAccessOnNullThrowsTypeError(t *testing.T) {
	_, v := runProgram(t, `
		var caught = false;
		try { null.x; } catch (e) { caught = e instanceof TypeError; }
		caught
	`)

	if !v.IsBoolean() || !v.AsBool() {
		t.Fatalf("result = %s, want true", v.DebugString())
	}
}

// TestUncaughtExceptionPropagatesResultException confirms that an exception
// never caught by script code surfaces as result.OutcomeException rather
// than as a caught boolean, so the scenario 6 test above is actually
// exercising the catch path and not silently swallowing a parse/eval error.
func TestUncaughtExceptionPropagatesResultException(t *testing.T) {
	l := lexer.New(`null.x`)
	p := parser.New(l)
	prog, err := p.Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	h := heap.NewHeap()
	r := realm.NewRealm(h)
	defer r.Close()
	ev := Bootstrap(r)

	outcome := realm.RunInRealm(r, func(scope *gcscope.GCScope) result.JsResult[heap.Value] {
		return ev.RunProgram(scope, prog)
	})

	if !outcome.IsException() {
		t.Fatalf("outcome = %v, want an exception", outcome.Outcome())
	}
	thrown, ok := outcome.Thrown().(heap.Value)
	if !ok || thrown.Tag() != heap.TagError {
		t.Fatalf("thrown value = %#v, want a heap.Value tagged Error", outcome.Thrown())
	}
	if h.Error(thrown).Kind != heap.ErrorType {
		t.Fatalf("thrown error kind = %v, want TypeError", h.Error(thrown).Kind)
	}
}
